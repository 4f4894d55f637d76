package auth

import (
	"errors"
	"fmt"
	"strings"

	"tgdownloader/pkg/config"
)

// Credentials are the Telegram application keys from my.telegram.org
type Credentials struct {
	APIID   int    `json:"api_id"`
	APIHash string `json:"api_hash"`
}

// Validate checks both fields are usable
func (c *Credentials) Validate() error {
	if c == nil {
		return ErrInvalidCredentials
	}
	var errs []error
	if c.APIID <= 0 {
		errs = append(errs, errors.New("api_id must be a positive number"))
	}
	if strings.TrimSpace(c.APIHash) == "" {
		errs = append(errs, errors.New("api_hash is required"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidCredentials, errors.Join(errs...))
	}
	return nil
}

// CredentialStore is the interface for storing and retrieving the API keys
type CredentialStore interface {
	Store(creds *Credentials) error
	Retrieve() (*Credentials, error)
	Delete() error
	Exists() bool
}

// Manager reads credentials from the first store that has them and writes
// to the first store that accepts them
type Manager struct {
	stores []CredentialStore
}

// NewManager builds the store chain: environment first, then the configured backend
func NewManager(cfg config.CredentialsConfig) (*Manager, error) {
	stores := []CredentialStore{NewEnvironmentStore()}

	switch strings.ToLower(cfg.Backend) {
	case "", "file":
		stores = append(stores, NewFileStore(cfg.File))
	case "keyring":
		keyringStore, err := NewKeyringStore()
		if err != nil {
			return nil, err
		}
		stores = append(stores, keyringStore)
	case "encrypted":
		encryptedStore, err := NewEncryptedFileStore(cfg.File + ".enc")
		if err != nil {
			return nil, fmt.Errorf("failed to create encrypted store: %w", err)
		}
		stores = append(stores, encryptedStore)
	default:
		return nil, fmt.Errorf("unknown credentials backend %q", cfg.Backend)
	}

	return &Manager{stores: stores}, nil
}

// NewManagerWithStores creates a Manager over explicit stores
func NewManagerWithStores(stores ...CredentialStore) *Manager {
	return &Manager{stores: stores}
}

// Store saves credentials using the first store that accepts them
func (m *Manager) Store(creds *Credentials) error {
	if err := creds.Validate(); err != nil {
		return err
	}

	var lastErr error
	for _, store := range m.stores {
		err := store.Store(creds)
		if err == nil {
			return nil
		}
		lastErr = err
	}

	if lastErr != nil {
		return fmt.Errorf("failed to store credentials: %w", lastErr)
	}
	return ErrStoreUnavailable
}

// Retrieve gets valid credentials from the first store that has them
func (m *Manager) Retrieve() (*Credentials, error) {
	for _, store := range m.stores {
		creds, err := store.Retrieve()
		if err == nil && creds.Validate() == nil {
			return creds, nil
		}
	}
	return nil, ErrCredentialsNotFound
}

// Exists reports whether any store holds credentials
func (m *Manager) Exists() bool {
	for _, store := range m.stores {
		if store.Exists() {
			return true
		}
	}
	return false
}

// Delete removes credentials from every store that supports it
func (m *Manager) Delete() error {
	var errs []error
	for _, store := range m.stores {
		err := store.Delete()
		if err == nil || errors.Is(err, ErrCredentialsNotFound) || errors.Is(err, ErrStoreUnavailable) {
			continue
		}
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("failed to delete credentials: %w", errors.Join(errs...))
	}
	return nil
}

// Masked returns a copy safe to print
func (c *Credentials) Masked() Credentials {
	return Credentials{APIID: c.APIID, APIHash: maskString(c.APIHash)}
}

// maskString masks all but the first 4 and last 4 characters of a string
func maskString(s string) string {
	if len(s) <= 8 {
		return "********"
	}
	return s[:4] + "..." + s[len(s)-4:]
}

var (
	ErrCredentialsNotFound = errors.New("credentials not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrStoreUnavailable    = errors.New("credential store unavailable")
)
