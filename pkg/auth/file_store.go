package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps credentials as plain JSON, {"api_id": ..., "api_hash": ...}
type FileStore struct {
	path string
	mu   sync.RWMutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Store writes the file with owner-only permissions via a temporary file
func (f *FileStore) Store(creds *Credentials) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if creds == nil {
		return ErrInvalidCredentials
	}

	content, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	tempFile := f.path + ".tmp"
	if err := os.WriteFile(tempFile, content, 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tempFile, f.path); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to replace file: %w", err)
	}
	return nil
}

func (f *FileStore) Retrieve() (*Credentials, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	content, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrCredentialsNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", f.path, err)
	}

	var creds Credentials
	if err := json.Unmarshal(content, &creds); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidCredentials, f.path, err)
	}
	return &creds, nil
}

func (f *FileStore) Delete() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrCredentialsNotFound
		}
		return fmt.Errorf("failed to delete %s: %w", f.path, err)
	}
	return nil
}

func (f *FileStore) Exists() bool {
	_, err := f.Retrieve()
	return err == nil
}
