package auth

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tgdownloader/pkg/config"
)

func clearEnv(t *testing.T) {
	t.Setenv(envAPIID, "")
	t.Setenv(envAPIHash, "")
}

func TestCredentialsValidate(t *testing.T) {
	assert.NoError(t, (&Credentials{APIID: 12345, APIHash: "0123456789abcdef"}).Validate())

	err := (&Credentials{APIID: 0, APIHash: " "}).Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Contains(t, err.Error(), "api_id")
	assert.Contains(t, err.Error(), "api_hash")

	var nilCreds *Credentials
	assert.ErrorIs(t, nilCreds.Validate(), ErrInvalidCredentials)
}

func TestCredentialsMasked(t *testing.T) {
	c := &Credentials{APIID: 1, APIHash: "0123456789abcdef"}
	assert.Equal(t, "0123...cdef", c.Masked().APIHash)
	assert.Equal(t, "********", (&Credentials{APIHash: "short"}).Masked().APIHash)
}

func TestCredentialManager(t *testing.T) {
	manager, mockStore := NewMockManager()

	creds := &Credentials{APIID: 12345, APIHash: "0123456789abcdef"}
	require.NoError(t, manager.Store(creds))
	assert.True(t, manager.Exists())

	retrieved, err := manager.Retrieve()
	require.NoError(t, err)
	assert.Equal(t, creds, retrieved)

	assert.ErrorIs(t, manager.Store(&Credentials{}), ErrInvalidCredentials)

	require.NoError(t, manager.Delete())
	assert.False(t, mockStore.Exists())

	_, err = manager.Retrieve()
	assert.ErrorIs(t, err, ErrCredentialsNotFound)
}

func TestManagerFallsThroughStores(t *testing.T) {
	first := NewMockStore()
	first.RetrieveError = errors.New("locked")
	first.StoreError = errors.New("read only")
	second := NewMockStore()

	manager := NewManagerWithStores(first, second)
	require.NoError(t, manager.Store(&Credentials{APIID: 7, APIHash: "hash-value"}))
	assert.True(t, second.Exists())

	got, err := manager.Retrieve()
	require.NoError(t, err)
	assert.Equal(t, 7, got.APIID)
}

func TestManagerSkipsInvalidStoredCredentials(t *testing.T) {
	broken := NewMockStore()
	require.NoError(t, broken.Store(&Credentials{APIID: 0, APIHash: ""}))

	_, err := NewManagerWithStores(broken).Retrieve()
	assert.ErrorIs(t, err, ErrCredentialsNotFound)
}

func TestManagerDeleteReportsFailures(t *testing.T) {
	store := NewMockStore()
	store.DeleteError = errors.New("permission denied")

	err := NewManagerWithStores(NewEnvironmentStore(), store).Delete()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")

	// nothing stored anywhere is not an error
	assert.NoError(t, NewManagerWithStores(NewEnvironmentStore(), NewMockStore()).Delete())
}

func TestNewManagerFileBackend(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.json")

	manager, err := NewManager(config.CredentialsConfig{Backend: "file", File: path})
	require.NoError(t, err)
	assert.False(t, manager.Exists())

	require.NoError(t, manager.Store(&Credentials{APIID: 12345, APIHash: "0123456789abcdef"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"api_id": 12345, "api_hash": "0123456789abcdef"}`, string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestNewManagerEnvironmentWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"api_id": 1, "api_hash": "from-file"}`), 0600))
	t.Setenv(envAPIID, "99")
	t.Setenv(envAPIHash, "from-env")

	manager, err := NewManager(config.CredentialsConfig{Backend: "file", File: path})
	require.NoError(t, err)

	got, err := manager.Retrieve()
	require.NoError(t, err)
	assert.Equal(t, &Credentials{APIID: 99, APIHash: "from-env"}, got)
}

func TestNewManagerUnknownBackend(t *testing.T) {
	_, err := NewManager(config.CredentialsConfig{Backend: "vault", File: "x"})
	assert.Error(t, err)
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	store := NewFileStore(path)

	_, err := store.Retrieve()
	assert.ErrorIs(t, err, ErrCredentialsNotFound)
	assert.ErrorIs(t, store.Delete(), ErrCredentialsNotFound)

	require.NoError(t, store.Store(&Credentials{APIID: 5, APIHash: "abc"}))
	assert.True(t, store.Exists())
	assert.NoFileExists(t, path+".tmp")

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))
	_, err = store.Retrieve()
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, store.Delete())
	assert.NoFileExists(t, path)
}

func TestEncryptedFileStore(t *testing.T) {
	t.Setenv(envPassphrase, "test_passphrase_123")
	path := filepath.Join(t.TempDir(), "config.json.enc")

	store, err := NewEncryptedFileStore(path)
	require.NoError(t, err)

	creds := &Credentials{APIID: 4242, APIHash: "secret-api-hash-value"}
	require.NoError(t, store.Store(creds))

	retrieved, err := store.Retrieve()
	require.NoError(t, err)
	assert.Equal(t, creds, retrieved)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.False(t, bytes.Contains(content, []byte("secret-api-hash-value")), "file contains plaintext hash")

	// a different passphrase cannot decrypt
	t.Setenv(envPassphrase, "other")
	other, err := NewEncryptedFileStore(path)
	require.NoError(t, err)
	_, err = other.Retrieve()
	assert.Error(t, err)

	require.NoError(t, store.Delete())
	assert.False(t, store.Exists())
}

func TestEncryptedFileStoreGeneratesPassphrase(t *testing.T) {
	t.Setenv(envPassphrase, "")
	dir := t.TempDir()

	store, err := NewEncryptedFileStore(filepath.Join(dir, "creds.enc"))
	require.NoError(t, err)
	require.NoError(t, store.Store(&Credentials{APIID: 1, APIHash: "h"}))
	assert.FileExists(t, filepath.Join(dir, ".passphrase"))

	// a second store picks up the same passphrase file
	again, err := NewEncryptedFileStore(filepath.Join(dir, "creds.enc"))
	require.NoError(t, err)
	got, err := again.Retrieve()
	require.NoError(t, err)
	assert.Equal(t, 1, got.APIID)
}

func TestEnvironmentStore(t *testing.T) {
	store := NewEnvironmentStore()

	clearEnv(t)
	assert.False(t, store.Exists())

	t.Setenv(envAPIID, "12345")
	t.Setenv(envAPIHash, "env-hash")
	creds, err := store.Retrieve()
	require.NoError(t, err)
	assert.Equal(t, &Credentials{APIID: 12345, APIHash: "env-hash"}, creds)

	t.Setenv(envAPIID, "not-a-number")
	_, err = store.Retrieve()
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	assert.ErrorIs(t, store.Store(creds), ErrStoreUnavailable)
	assert.ErrorIs(t, store.Delete(), ErrStoreUnavailable)
}

func TestShowAPICredentialsGuide(t *testing.T) {
	var buf bytes.Buffer
	ShowAPICredentialsGuide(&buf)
	assert.Contains(t, buf.String(), "my.telegram.org")
	assert.Contains(t, buf.String(), "TGDL_API_ID")
}
