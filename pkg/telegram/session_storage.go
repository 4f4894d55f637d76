package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gotd/td/session"
)

// FileSessionStorage keeps the MTProto session in a small JSON file so a
// login survives between runs
type FileSessionStorage struct {
	Path string
}

type storedSession struct {
	Data []byte `json:"data"`
}

// LoadSession implements session.Storage
func (s *FileSessionStorage) LoadSession(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.Path)
	if os.IsNotExist(err) {
		return nil, session.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var stored storedSession
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}
	if len(stored.Data) == 0 {
		return nil, session.ErrNotFound
	}
	return stored.Data, nil
}

// StoreSession implements session.Storage
func (s *FileSessionStorage) StoreSession(_ context.Context, data []byte) error {
	out, err := json.Marshal(storedSession{Data: data})
	if err != nil {
		return err
	}

	if dir := filepath.Dir(s.Path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create session directory: %w", err)
		}
	}

	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, out, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace session file: %w", err)
	}
	return nil
}

// Exists reports whether a session has been stored
func (s *FileSessionStorage) Exists() bool {
	_, err := os.Stat(s.Path)
	return err == nil
}

// Remove deletes the stored session. A missing file is not an error.
func (s *FileSessionStorage) Remove() error {
	if err := os.Remove(s.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}
