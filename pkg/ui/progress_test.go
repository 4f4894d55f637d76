package ui

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tgdownloader/internal/downloader"
	"tgdownloader/pkg/config"
)

func TestProgressReporterRun(t *testing.T) {
	var out bytes.Buffer
	sender := &recordingSender{}
	r := NewProgressReporter(&out, NewNotifierWithSender(config.NotificationConfig{Enabled: true, OnComplete: true, OnError: true}, sender))

	r.Start(3)
	r.Update(downloader.Progress{Index: 1, Total: 3, MessageID: 10, Status: "saved msg_10.jpg"})
	r.Warn("download log is read-only")
	r.Update(downloader.Progress{Index: 2, Total: 3, MessageID: 11, Status: "skipped 11 (already downloaded)"})
	r.Finish(downloader.Summary{Finished: 1, Skipped: 1, Folder: "downloads/@demo"})

	text := out.String()
	assert.Contains(t, text, "download log is read-only")
	assert.Contains(t, text, "Download complete")
	assert.Contains(t, text, "downloads/@demo")
	assert.Equal(t, []string{"1 downloaded, 1 skipped, 0 failed"}, sender.messages)

	s, ok := r.Summary()
	require.True(t, ok)
	assert.Equal(t, 1, s.Finished)
}

func TestProgressReporterFailureNotification(t *testing.T) {
	var out bytes.Buffer
	sender := &recordingSender{}
	r := NewProgressReporter(&out, NewNotifierWithSender(config.NotificationConfig{Enabled: true, OnComplete: true, OnError: true}, sender))

	r.Start(5)
	r.Finish(downloader.Summary{Failed: 1, FailedIDs: []int{4}, Err: errors.New("session revoked")})

	assert.Equal(t, []string{"Download stopped: session revoked"}, sender.messages)
	assert.Contains(t, out.String(), "Download stopped")
}

func TestProgressReporterCancelledIsQuiet(t *testing.T) {
	var out bytes.Buffer
	sender := &recordingSender{}
	r := NewProgressReporter(&out, NewNotifierWithSender(config.NotificationConfig{Enabled: true, OnComplete: true, OnError: true}, sender))

	r.Start(5)
	r.Finish(downloader.Summary{Finished: 2, Cancelled: true})

	assert.Empty(t, sender.messages)
	assert.Contains(t, out.String(), "Download cancelled")
}

func TestProgressReporterWithoutStart(t *testing.T) {
	var out bytes.Buffer
	r := NewProgressReporter(&out, nil)

	r.Update(downloader.Progress{Index: 1})
	r.Finish(downloader.Summary{})

	assert.Contains(t, out.String(), "Download complete")
}
