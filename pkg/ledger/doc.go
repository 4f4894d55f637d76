// Package ledger keeps the per-chat record of message ids whose media is
// already on disk, so later runs skip them.
//
// Each chat folder holds a _downloaded.json file:
//
//	{
//	  "chat_id": 1234567890,
//	  "chat_name": "@demo",
//	  "downloaded_ids": [3, 4, 5],
//	  "updated_at": "2026-01-02T15:04:05Z"
//	}
//
// The file is rewritten atomically after every recorded id. A missing file
// is an empty ledger. A corrupt one is moved aside to
// _downloaded.json.corrupt-<unix> and the run starts from an empty set.
// When the file cannot be written the ledger keeps working in memory and
// reports the failure once.
package ledger
