package auth

import "sync"

// MockStore implements CredentialStore in memory for tests
type MockStore struct {
	creds *Credentials
	mu    sync.RWMutex

	StoreError    error
	RetrieveError error
	DeleteError   error
}

func NewMockStore() *MockStore {
	return &MockStore{}
}

func (m *MockStore) Store(creds *Credentials) error {
	if m.StoreError != nil {
		return m.StoreError
	}
	if creds == nil {
		return ErrInvalidCredentials
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	c := *creds
	m.creds = &c
	return nil
}

func (m *MockStore) Retrieve() (*Credentials, error) {
	if m.RetrieveError != nil {
		return nil, m.RetrieveError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.creds == nil {
		return nil, ErrCredentialsNotFound
	}
	c := *m.creds
	return &c, nil
}

func (m *MockStore) Delete() error {
	if m.DeleteError != nil {
		return m.DeleteError
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.creds == nil {
		return ErrCredentialsNotFound
	}
	m.creds = nil
	return nil
}

func (m *MockStore) Exists() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.creds != nil
}

// NewMockManager creates a Manager backed by a single mock store
func NewMockManager() (*Manager, *MockStore) {
	mockStore := NewMockStore()
	return NewManagerWithStores(mockStore), mockStore
}
