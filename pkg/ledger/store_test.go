package ledger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tgdownloader/pkg/models"
)

func TestStore(t *testing.T) {
	base := t.TempDir()
	s := NewStore(base)

	other := models.Chat{ID: 2002, Title: "Other Chat"}

	l, err := s.Open(demo)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "@demo", FileName), l.Path())

	again, err := s.Open(demo)
	require.NoError(t, err)
	assert.Same(t, l, again)

	_, err = s.Open(other)
	require.NoError(t, err)

	require.NoError(t, s.Record(demo.ID, 5))
	require.NoError(t, s.Record(other.ID, 5))
	require.NoError(t, s.Record(demo.ID, 5))

	assert.True(t, s.Has(demo.ID, 5))
	assert.True(t, s.Has(other.ID, 5))
	assert.False(t, s.Has(demo.ID, 6))
	assert.False(t, s.Has(3003, 5))

	assert.ElementsMatch(t, []models.DownloadRecord{
		{ChatID: demo.ID, MessageID: 5},
		{ChatID: other.ID, MessageID: 5},
	}, s.Records())

	// a new store sees what the first one persisted
	fresh := NewStore(base)
	_, err = fresh.Open(other)
	require.NoError(t, err)
	assert.True(t, fresh.Has(other.ID, 5))
}

func TestStoreRecordUnopenedChat(t *testing.T) {
	s := NewStore(t.TempDir())
	assert.Error(t, s.Record(42, 1))
}
