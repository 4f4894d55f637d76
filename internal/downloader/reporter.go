package downloader

import (
	"context"
	"time"

	"tgdownloader/pkg/models"
)

// MessageIterator yields media messages lazily in the requested order.
// ok is false once history is exhausted.
type MessageIterator interface {
	Next(ctx context.Context) (msg models.Message, ok bool, err error)
}

// Progress is one progress update. Total is the requested quantity, which
// is an upper bound since history may run out first.
type Progress struct {
	Index     int
	Total     int
	MessageID int
	Elapsed   time.Duration
	ETA       time.Duration
	Status    string
}

// Summary is the outcome of one run
type Summary struct {
	Finished  int
	Skipped   int
	Failed    int
	Elapsed   time.Duration
	Cancelled bool
	FailedIDs []int
	Albums    []models.AlbumGroup
	Folder    string
	// Err is the error that ended the run early, if any
	Err       error
}

// Processed is the number of eligible items handled
func (s Summary) Processed() int {
	return s.Finished + s.Skipped + s.Failed
}

// Reporter shows a run to the user
type Reporter interface {
	Start(total int)
	Update(p Progress)
	Warn(msg string)
	Finish(s Summary)
}

// NopReporter discards everything
type NopReporter struct{}

func (NopReporter) Start(int)       {}
func (NopReporter) Update(Progress) {}
func (NopReporter) Warn(string)     {}
func (NopReporter) Finish(Summary)  {}
