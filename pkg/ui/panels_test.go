package ui

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tgdownloader/internal/downloader"
	"tgdownloader/pkg/models"
)

func TestOptionsTable(t *testing.T) {
	out := OptionsTable()

	for _, want := range []string{"Media type", "photos, videos, both", "Quantity", "500", "Order", "oldest"} {
		assert.Contains(t, out, want)
	}
}

func TestTargetTable(t *testing.T) {
	target := models.Target{
		Chat:     models.Chat{ID: 1, Username: "demo"},
		Filter:   models.FilterPhotos,
		MaxCount: 25,
		Order:    models.NewestFirst,
	}

	out := TargetTable(target, "downloads/@demo")
	assert.Contains(t, out, "@demo")
	assert.Contains(t, out, "photos")
	assert.Contains(t, out, "25")
	assert.Contains(t, out, "newest first")
	assert.Contains(t, out, "downloads/@demo")
}

func TestSummaryPanel(t *testing.T) {
	tests := []struct {
		name    string
		summary downloader.Summary
		want    []string
		absent  []string
	}{
		{
			name:    "completed",
			summary: downloader.Summary{Finished: 3, Skipped: 2, Elapsed: 90 * time.Second, Folder: "downloads/@demo"},
			want:    []string{"Download complete", "Finished", "3", "already downloaded", "1m30s", "downloads/@demo"},
			absent:  []string{"Failed ids", "Albums"},
		},
		{
			name:    "cancelled",
			summary: downloader.Summary{Finished: 1, Cancelled: true},
			want:    []string{"Download cancelled"},
		},
		{
			name: "stopped with failures",
			summary: downloader.Summary{
				Failed:    2,
				FailedIDs: []int{11, 12},
				Albums:    []models.AlbumGroup{{GroupID: "g1", MessageIDs: []int{1, 2}}},
				Err:       errors.New("session revoked"),
			},
			want: []string{"Download stopped", "Failed ids", "11, 12", "Albums", "session revoked"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := SummaryPanel(tt.summary)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
			for _, a := range tt.absent {
				assert.NotContains(t, out, a)
			}
		})
	}
}

func TestJoinIDs(t *testing.T) {
	assert.Equal(t, "1, 2, 3", joinIDs([]int{1, 2, 3}, 10))
	assert.Equal(t, "1, 2, … 3 more", joinIDs([]int{1, 2, 3, 4, 5}, 2))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "42s", FormatDuration(42*time.Second))
	assert.Equal(t, "2m5s", FormatDuration(125*time.Second))
	assert.Equal(t, "1h30m", FormatDuration(90*time.Minute))
}
