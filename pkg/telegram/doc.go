// Package telegram is the MTProto side of the downloader, built on gotd/td.
//
// This package includes:
//   - A Session that runs the gotd client and performs interactive login
//   - A file-backed session storage so logins survive between runs
//   - Chat resolution for @usernames, t.me links, invite links and numeric ids
//   - A lazy History iterator that pages through a chat in either direction
//   - Mapping of raw messages into client-independent models.Message values
//   - Classification of RPC errors into the pkg/errors taxonomy
//
// Example usage:
//
//	sess := telegram.NewSession(creds, cfg.Telegram, log)
//	err := sess.Open(ctx, prompter, func(ctx context.Context) error {
//	    chat, err := sess.Resolver().Resolve(ctx, "@durov")
//	    if err != nil {
//	        return err
//	    }
//	    it := sess.History(chat, models.OldestFirst)
//	    for {
//	        msg, ok, err := it.Next(ctx)
//	        if err != nil || !ok {
//	            return err
//	        }
//	        // msg.Fetch(ctx, w) streams the media
//	    }
//	})
package telegram
