package ledger

import (
	"fmt"
	"path/filepath"

	apperrors "tgdownloader/pkg/errors"
	"tgdownloader/pkg/models"
	"tgdownloader/pkg/storage"
)

// Store keeps one Ledger per chat under a base directory and answers
// queries keyed by chat id
type Store struct {
	baseDir string
	ledgers map[int64]*Ledger
}

// NewStore creates a store rooted at the downloads directory
func NewStore(baseDir string) *Store {
	return &Store{
		baseDir: baseDir,
		ledgers: make(map[int64]*Ledger),
	}
}

// Open loads the ledger for chat from <base>/<chat folder>. Opening the same
// chat twice returns the already loaded ledger. As with Load, the returned
// ledger is usable even when err is non-nil.
func (s *Store) Open(chat models.Chat) (*Ledger, error) {
	if l, ok := s.ledgers[chat.ID]; ok {
		return l, nil
	}

	dir := filepath.Join(s.baseDir, storage.ChatFolderName(chat))
	l, err := Load(dir, chat)
	s.ledgers[chat.ID] = l
	return l, err
}

// Has reports whether messageID was downloaded for chatID.
// Chats that were never opened have no records.
func (s *Store) Has(chatID int64, messageID int) bool {
	l, ok := s.ledgers[chatID]
	return ok && l.Has(messageID)
}

// Record appends a download record for an opened chat
func (s *Store) Record(chatID int64, messageID int) error {
	l, ok := s.ledgers[chatID]
	if !ok {
		return apperrors.Ledger(fmt.Sprintf("chat %d has no open download log", chatID), nil)
	}
	return l.Record(messageID)
}

// Records lists every download record held by the store
func (s *Store) Records() []models.DownloadRecord {
	var out []models.DownloadRecord
	for chatID, l := range s.ledgers {
		for _, id := range l.IDs() {
			out = append(out, models.DownloadRecord{ChatID: chatID, MessageID: id})
		}
	}
	return out
}
