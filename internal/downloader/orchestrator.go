package downloader

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	apperrors "tgdownloader/pkg/errors"
	"tgdownloader/pkg/ledger"
	"tgdownloader/pkg/logger"
	"tgdownloader/pkg/models"
	"tgdownloader/pkg/storage"
)

// Options configures an Orchestrator
type Options struct {
	BaseDir  string
	Ledgers  *ledger.Store
	Reporter Reporter
	Observer Observer
	Logger   logger.Logger
}

// Orchestrator runs one download at a time: it walks the history, skips what
// the ledger already has, writes each file atomically and records it.
type Orchestrator struct {
	ledgers   *ledger.Store
	grouper   *storage.Grouper
	allocator *storage.Allocator
	reporter  Reporter
	observer  Observer
	logger    logger.Logger

	state State
	now   func() time.Time
}

// New creates an orchestrator writing under opts.BaseDir
func New(opts Options) *Orchestrator {
	if opts.Ledgers == nil {
		opts.Ledgers = ledger.NewStore(opts.BaseDir)
	}
	if opts.Reporter == nil {
		opts.Reporter = NopReporter{}
	}
	if opts.Logger == nil {
		opts.Logger = logger.GetLogger()
	}

	return &Orchestrator{
		ledgers:   opts.Ledgers,
		grouper:   storage.NewGrouper(opts.BaseDir),
		allocator: storage.NewAllocator(),
		reporter:  opts.Reporter,
		observer:  opts.Observer,
		logger:    opts.Logger.WithField("component", "downloader"),
		state:     StateConfiguring,
		now:       time.Now,
	}
}

// State returns the current state
func (o *Orchestrator) State() State {
	return o.state
}

func (o *Orchestrator) transition(to State) {
	from := o.state
	o.state = to
	if o.observer != nil {
		o.observer(from, to)
	}
}

// Run downloads up to target.MaxCount eligible items. The summary is always
// returned. Cancellation is not an error: it ends the run with
// Summary.Cancelled set. Session loss and exhausted page retries end the run
// and are returned.
func (o *Orchestrator) Run(ctx context.Context, target models.Target, it MessageIterator) (Summary, error) {
	start := o.now()
	o.state = StateConfiguring

	if err := target.Validate(); err != nil {
		summary := o.summarize(Summary{}, start)
		return summary, apperrors.Configuration("invalid download options", err)
	}

	chat := target.Chat
	chatName := storage.ChatFolderName(chat)
	summary := Summary{Folder: o.grouper.ChatDir(chatName)}

	if _, err := o.ledgers.Open(chat); err != nil {
		o.logger.WithError(err).Warn("Download log problem")
		o.reporter.Warn(err.Error())
	}

	logger.LogComponentStart("downloader", map[string]interface{}{
		"chat":      chat.DisplayName(),
		"filter":    string(target.Filter),
		"max_count": target.MaxCount,
		"order":     string(target.Order),
	})
	o.reporter.Start(target.MaxCount)
	o.transition(StateIterating)

	var runErr error
	eligible := 0
	for eligible < target.MaxCount {
		if ctx.Err() != nil {
			summary.Cancelled = true
			break
		}

		msg, ok, err := it.Next(ctx)
		if err != nil {
			if apperrors.IsCancelled(err) || ctx.Err() != nil {
				summary.Cancelled = true
			} else {
				runErr = err
				o.logger.WithError(err).Error("Reading chat history failed")
			}
			break
		}
		if !ok {
			break
		}

		if !target.Filter.Matches(msg.Type) {
			o.logger.DebugWithFields("Message filtered out", map[string]interface{}{
				"message_id": msg.ID,
				"media_type": string(msg.Type),
			})
			continue
		}
		eligible++

		if o.ledgers.Has(chat.ID, msg.ID) {
			summary.Skipped++
			logger.LogDownload(chat.DisplayName(), msg.ID, string(msg.Type), false, nil)
			o.report(eligible, target.MaxCount, start, msg.ID, fmt.Sprintf("skipped %d (already downloaded)", msg.ID))
			continue
		}

		o.transition(StateFetching)
		path, err := o.fetch(ctx, msg, chatName)
		if err != nil {
			if apperrors.IsCancelled(err) || ctx.Err() != nil {
				summary.Cancelled = true
				o.transition(StateIterating)
				break
			}

			summary.Failed++
			summary.FailedIDs = append(summary.FailedIDs, msg.ID)
			logger.LogDownload(chat.DisplayName(), msg.ID, string(msg.Type), false, err)
			o.report(eligible, target.MaxCount, start, msg.ID, fmt.Sprintf("failed %d", msg.ID))
			o.transition(StateIterating)

			if apperrors.IsSession(err) {
				runErr = err
				break
			}
			continue
		}

		o.transition(StateLedgerUpdate)
		if err := o.ledgers.Record(chat.ID, msg.ID); err != nil {
			o.reporter.Warn(err.Error())
		}
		summary.Finished++
		logger.LogDownload(chat.DisplayName(), msg.ID, string(msg.Type), true, nil)
		o.report(eligible, target.MaxCount, start, msg.ID, fmt.Sprintf("saved %s", displayPath(summary.Folder, path)))
		o.transition(StateIterating)
	}

	summary.Err = runErr
	summary = o.summarize(summary, start)
	reason := "completed"
	switch {
	case summary.Cancelled:
		reason = "cancelled"
	case runErr != nil:
		reason = "failed"
	}
	logger.LogComponentStop("downloader", reason)
	return summary, runErr
}

// fetch writes msg into its folder and returns the final path
func (o *Orchestrator) fetch(ctx context.Context, msg models.Message, chatName string) (string, error) {
	if msg.Fetch == nil {
		return "", apperrors.Transient(fmt.Sprintf("message %d has no downloadable media", msg.ID), nil)
	}

	dir, err := o.grouper.Prepare(msg, chatName)
	if err != nil {
		return "", apperrors.Transient("cannot create folder", err)
	}
	path, err := o.allocator.Allocate(dir, msg)
	if err != nil {
		return "", apperrors.Transient("cannot choose file name", err)
	}

	started := o.now()
	n, err := storage.WriteFile(ctx, path, msg.Fetch)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		if apperrors.TypeOf(err) == apperrors.ErrorTypeUnknown {
			err = apperrors.Transient(fmt.Sprintf("download of message %d failed", msg.ID), err)
		}
		return "", err
	}

	o.logger.DebugWithFields("Media saved", map[string]interface{}{
		"message_id": msg.ID,
		"path":       path,
		"bytes":      n,
		"group_id":   msg.GroupID,
		"duration":   o.now().Sub(started).String(),
	})
	return path, nil
}

func (o *Orchestrator) report(index, total int, start time.Time, messageID int, status string) {
	elapsed := o.now().Sub(start)
	var eta time.Duration
	if index > 0 && total > index {
		eta = elapsed / time.Duration(index) * time.Duration(total-index)
	}
	o.reporter.Update(Progress{
		Index:     index,
		Total:     total,
		MessageID: messageID,
		Elapsed:   elapsed,
		ETA:       eta,
		Status:    status,
	})
}

func (o *Orchestrator) summarize(summary Summary, start time.Time) Summary {
	o.transition(StateSummarizing)
	summary.Elapsed = o.now().Sub(start)
	summary.Albums = o.grouper.Groups()
	o.reporter.Finish(summary)
	o.transition(StateDone)
	return summary
}

func displayPath(base, path string) string {
	if rel, err := filepath.Rel(base, path); err == nil {
		return rel
	}
	return path
}
