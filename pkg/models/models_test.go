package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilter(t *testing.T) {
	tests := []struct {
		in      string
		want    Filter
		wantErr bool
	}{
		{"", FilterBoth, false},
		{"both", FilterBoth, false},
		{"Photos", FilterPhotos, false},
		{" video ", FilterVideos, false},
		{"gifs", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFilter(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterMatches(t *testing.T) {
	assert.True(t, FilterPhotos.Matches(MediaPhoto))
	assert.False(t, FilterPhotos.Matches(MediaVideo))
	assert.True(t, FilterVideos.Matches(MediaVideo))
	assert.False(t, FilterVideos.Matches(MediaPhoto))
	assert.True(t, FilterBoth.Matches(MediaPhoto))
	assert.True(t, FilterBoth.Matches(MediaVideo))
	assert.False(t, FilterBoth.Matches(""))
}

func TestParseOrder(t *testing.T) {
	got, err := ParseOrder("")
	require.NoError(t, err)
	assert.Equal(t, OldestFirst, got)

	got, err = ParseOrder("NEWEST")
	require.NoError(t, err)
	assert.Equal(t, NewestFirst, got)

	_, err = ParseOrder("sideways")
	assert.Error(t, err)
}

func TestChatDisplayName(t *testing.T) {
	assert.Equal(t, "@demo", Chat{ID: 1, Username: "demo", Title: "Demo"}.DisplayName())
	assert.Equal(t, "Demo Chat", Chat{ID: 1, Title: "Demo Chat"}.DisplayName())
	assert.Equal(t, "id_42", Chat{ID: 42, Title: "  "}.DisplayName())
}

func TestTargetValidate(t *testing.T) {
	valid := Target{
		Chat:     Chat{ID: 1},
		Filter:   FilterBoth,
		MaxCount: 500,
		Order:    OldestFirst,
	}
	assert.NoError(t, valid.Validate())

	bad := Target{Filter: "gifs", Order: "up"}
	err := bad.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat is not resolved")
	assert.Contains(t, err.Error(), "invalid media filter")
	assert.Contains(t, err.Error(), "quantity must be positive")
	assert.Contains(t, err.Error(), "invalid order")
}

func TestMessageIsGrouped(t *testing.T) {
	assert.False(t, Message{ID: 12}.IsGrouped())
	assert.True(t, Message{ID: 10, GroupID: "g1"}.IsGrouped())
}
