package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	apperrors "tgdownloader/pkg/errors"
	"tgdownloader/pkg/logger"
	"tgdownloader/pkg/models"
)

// FileName is the ledger file inside each chat folder
const FileName = "_downloaded.json"

// document is the on-disk shape
type document struct {
	ChatID        int64     `json:"chat_id,omitempty"`
	ChatName      string    `json:"chat_name,omitempty"`
	DownloadedIDs []int     `json:"downloaded_ids"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Ledger is the set of downloaded message ids for one chat
type Ledger struct {
	path     string
	chatID   int64
	chatName string
	ids      map[int]struct{}
	degraded bool
	logger   logger.Logger
}

// Load reads the ledger in dir. It always returns a usable ledger. A non-nil
// error is a ledger error describing a degradation the user should see: the
// old file was corrupt and moved aside, it could not be read, or it belongs
// to another chat sharing the folder name. In the last two cases the ledger
// will not write over it.
func Load(dir string, chat models.Chat) (*Ledger, error) {
	l := &Ledger{
		path:     filepath.Join(dir, FileName),
		chatID:   chat.ID,
		chatName: chat.DisplayName(),
		ids:      make(map[int]struct{}),
		logger:   logger.GetLogger().WithField("chat", chat.DisplayName()),
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.logger.Debug("No download log yet, starting empty")
			return l, nil
		}
		l.degraded = true
		l.logger.WithError(err).Warn("Download log unreadable, continuing in memory")
		return l, apperrors.Ledger("download log unreadable, continuing without it", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return l, l.quarantine(err)
	}

	if doc.ChatID != 0 && doc.ChatID != chat.ID {
		l.degraded = true
		l.logger.WithFields(map[string]interface{}{
			"path":         l.path,
			"owner_chat":   doc.ChatID,
			"current_chat": chat.ID,
		}).Warn("Download log belongs to another chat, continuing in memory")
		return l, apperrors.Ledger(fmt.Sprintf("download log %s belongs to chat %d, ignoring it and keeping this run's records in memory", l.path, doc.ChatID), nil)
	}

	for _, id := range doc.DownloadedIDs {
		l.ids[id] = struct{}{}
	}

	l.logger.DebugWithFields("Download log loaded", map[string]interface{}{
		"path":  l.path,
		"count": len(l.ids),
	})
	return l, nil
}

// quarantine moves a corrupt file aside so its content is kept for the user
func (l *Ledger) quarantine(cause error) error {
	backup := fmt.Sprintf("%s.corrupt-%d", l.path, time.Now().Unix())
	if err := os.Rename(l.path, backup); err != nil {
		l.degraded = true
		l.logger.WithError(err).Warn("Corrupt download log could not be moved aside, continuing in memory")
		return apperrors.Ledger("download log is corrupt and could not be moved aside", errors.Join(cause, err))
	}

	l.logger.WithField("backup", backup).Warn("Corrupt download log moved aside")
	return apperrors.Ledger(fmt.Sprintf("download log was corrupt, saved a copy as %s and starting empty", filepath.Base(backup)), cause)
}

// Has reports whether id was already downloaded
func (l *Ledger) Has(id int) bool {
	_, ok := l.ids[id]
	return ok
}

// Record adds id and persists the ledger. Recording an id twice performs no
// second write. If the write fails the ledger switches to in-memory mode and
// the error is returned once; later calls only update memory.
func (l *Ledger) Record(id int) error {
	if l.Has(id) {
		return nil
	}
	l.ids[id] = struct{}{}

	if l.degraded {
		return nil
	}
	if err := l.save(); err != nil {
		l.degraded = true
		l.logger.WithError(err).Warn("Failed to save download log, continuing in memory")
		return apperrors.Ledger("failed to save download log, continuing in memory", err)
	}
	return nil
}

// IDs returns the recorded ids in ascending order
func (l *Ledger) IDs() []int {
	ids := make([]int, 0, len(l.ids))
	for id := range l.ids {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Len returns the number of recorded ids
func (l *Ledger) Len() int {
	return len(l.ids)
}

// Degraded reports whether the ledger stopped persisting
func (l *Ledger) Degraded() bool {
	return l.degraded
}

// Path returns the ledger file location
func (l *Ledger) Path() string {
	return l.path
}

// save writes the ledger atomically via a temporary file
func (l *Ledger) save() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("failed to create ledger directory: %w", err)
	}

	doc := document{
		ChatID:        l.chatID,
		ChatName:      l.chatName,
		DownloadedIDs: l.IDs(),
		UpdatedAt:     time.Now().UTC(),
	}

	tempPath := l.path + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temporary ledger file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to encode ledger: %w", err)
	}

	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to sync ledger file: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close ledger file: %w", err)
	}

	if err := os.Rename(tempPath, l.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace ledger file: %w", err)
	}

	l.logger.DebugWithFields("Download log saved", map[string]interface{}{
		"count": len(l.ids),
	})
	return nil
}
