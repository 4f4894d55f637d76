package auth

import (
	"os"
	"strconv"
	"strings"
)

const (
	envAPIID   = "TGDL_API_ID"
	envAPIHash = "TGDL_API_HASH"
)

// EnvironmentStore reads credentials from TGDL_API_ID and TGDL_API_HASH.
// It is read-only.
type EnvironmentStore struct{}

func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(creds *Credentials) error {
	return ErrStoreUnavailable
}

func (e *EnvironmentStore) Retrieve() (*Credentials, error) {
	idStr := strings.TrimSpace(os.Getenv(envAPIID))
	hash := strings.TrimSpace(os.Getenv(envAPIHash))
	if idStr == "" || hash == "" {
		return nil, ErrCredentialsNotFound
	}

	id, err := strconv.Atoi(idStr)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	return &Credentials{APIID: id, APIHash: hash}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete() error {
	return ErrStoreUnavailable
}

func (e *EnvironmentStore) Exists() bool {
	_, err := e.Retrieve()
	return err == nil
}
