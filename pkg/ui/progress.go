package ui

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"

	"tgdownloader/internal/downloader"
	"tgdownloader/pkg/logger"
)

// ProgressReporter draws a run as a progress bar and ends it with the
// summary panel
type ProgressReporter struct {
	out      io.Writer
	notifier *Notifier
	logger   logger.Logger

	mu      sync.Mutex
	bar     *progressbar.ProgressBar
	summary *downloader.Summary
}

// NewProgressReporter writes to out; notifier may be nil
func NewProgressReporter(out io.Writer, notifier *Notifier) *ProgressReporter {
	return &ProgressReporter{
		out:      out,
		notifier: notifier,
		logger:   logger.GetLogger().WithField("component", "ui"),
	}
}

// Start draws an empty bar sized to the requested quantity
func (r *ProgressReporter) Start(total int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(r.out),
		progressbar.OptionSetDescription("starting"),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("file"),
		progressbar.OptionShowIts(),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

// Update moves the bar to p.Index and shows the latest status
func (r *ProgressReporter) Update(p downloader.Progress) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.bar == nil {
		return
	}
	r.bar.Describe(p.Status)
	_ = r.bar.Set(p.Index)
}

// Warn prints msg above the bar
func (r *ProgressReporter) Warn(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.bar != nil {
		_ = r.bar.Clear()
	}
	fmt.Fprintln(r.out, warningStyle.Render("⚠ "+msg))
}

// Finish closes the bar, prints the summary panel and sends a notification
func (r *ProgressReporter) Finish(s downloader.Summary) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.bar != nil {
		_ = r.bar.Exit()
		fmt.Fprintln(r.out)
		r.bar = nil
	}
	fmt.Fprintln(r.out, SummaryPanel(s))
	r.summary = &s

	var err error
	switch {
	case s.Err != nil:
		err = r.notifier.Failure(fmt.Sprintf("Download stopped: %v", s.Err))
	case !s.Cancelled:
		err = r.notifier.Complete(fmt.Sprintf("%d downloaded, %d skipped, %d failed", s.Finished, s.Skipped, s.Failed))
	}
	if err != nil {
		r.logger.WithError(err).Debug("Desktop notification failed")
	}
}

// Summary returns the last summary shown, if any
func (r *ProgressReporter) Summary() (downloader.Summary, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.summary == nil {
		return downloader.Summary{}, false
	}
	return *r.summary, true
}
