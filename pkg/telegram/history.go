package telegram

import (
	"context"
	"sort"
	"time"

	"github.com/gotd/td/tg"

	"tgdownloader/pkg/logger"
	"tgdownloader/pkg/models"
	"tgdownloader/pkg/retry"
)

// historyAPI is the subset of tg.Client used for paging
type historyAPI interface {
	MessagesGetHistory(ctx context.Context, request *tg.MessagesGetHistoryRequest) (tg.MessagesMessagesClass, error)
}

// HistoryOptions configures a History iterator
type HistoryOptions struct {
	BatchSize     int
	RetryAttempts int
	RetryDelay    time.Duration
	Fetch         LocationFetcher
	Logger        logger.Logger
}

// History lazily walks a chat one page at a time and yields media messages.
// Messages without a photo or video are dropped here.
type History struct {
	api   historyAPI
	peer  tg.InputPeerClass
	order models.Order
	opts  HistoryOptions

	buf       []models.Message
	offsetID  int
	exhausted bool
	pages     int
}

// NewHistory creates an iterator; nothing is requested until the first Next
func NewHistory(api historyAPI, peer tg.InputPeerClass, order models.Order, opts HistoryOptions) *History {
	if opts.BatchSize <= 0 || opts.BatchSize > 100 {
		opts.BatchSize = 100
	}
	if opts.RetryAttempts <= 0 {
		opts.RetryAttempts = 1
	}
	if opts.Logger == nil {
		opts.Logger = logger.GetLogger()
	}

	h := &History{api: api, peer: peer, order: order, opts: opts}
	if order == models.OldestFirst {
		// message ids start at 1; add_offset turns offset_id into a lower bound
		h.offsetID = 1
	}
	return h
}

// Next returns the next media message in order. ok is false once history is exhausted.
func (h *History) Next(ctx context.Context) (models.Message, bool, error) {
	for len(h.buf) == 0 {
		if h.exhausted {
			return models.Message{}, false, nil
		}
		if err := ctx.Err(); err != nil {
			return models.Message{}, false, err
		}
		if err := h.loadPage(ctx); err != nil {
			return models.Message{}, false, err
		}
	}

	msg := h.buf[0]
	h.buf = h.buf[1:]
	return msg, true, nil
}

func (h *History) loadPage(ctx context.Context) error {
	req := &tg.MessagesGetHistoryRequest{
		Peer:     h.peer,
		OffsetID: h.offsetID,
		Limit:    h.opts.BatchSize,
	}
	if h.order == models.OldestFirst {
		req.AddOffset = -h.opts.BatchSize
	}

	cfg := &retry.Config{
		MaxAttempts: h.opts.RetryAttempts,
		Backoff:     retry.NewExponentialBackoff(h.opts.RetryDelay),
		RetryIf:     retry.DefaultRetryIf,
		ErrorDelay:  floodDelay,
		Context:     ctx,
		Logger:      h.opts.Logger,
	}

	res, err := retry.DoWithResult(func() (tg.MessagesMessagesClass, error) {
		r, err := h.api.MessagesGetHistory(ctx, req)
		return r, Classify(err)
	}, cfg)
	if err != nil {
		return err
	}
	h.pages++

	raw := pageMessages(res)
	if len(raw) == 0 {
		h.exhausted = true
		return nil
	}

	minID, maxID := raw[0].GetID(), raw[0].GetID()
	for _, m := range raw {
		id := m.GetID()
		if id < minID {
			minID = id
		}
		if id > maxID {
			maxID = id
		}
	}

	if h.order == models.OldestFirst {
		h.offsetID = maxID + 1
		sort.Slice(raw, func(i, j int) bool { return raw[i].GetID() < raw[j].GetID() })
	} else {
		h.offsetID = minID
		if minID <= 1 {
			h.exhausted = true
		}
		sort.Slice(raw, func(i, j int) bool { return raw[i].GetID() > raw[j].GetID() })
	}

	for _, m := range raw {
		msg, ok := m.(*tg.Message)
		if !ok {
			continue
		}
		if media, ok := MapMessage(msg, h.opts.Fetch); ok {
			h.buf = append(h.buf, media)
		}
	}

	h.opts.Logger.DebugWithFields("history page loaded", map[string]interface{}{
		"page":     h.pages,
		"messages": len(raw),
		"media":    len(h.buf),
		"min_id":   minID,
		"max_id":   maxID,
	})
	return nil
}

func pageMessages(res tg.MessagesMessagesClass) []tg.MessageClass {
	switch r := res.(type) {
	case *tg.MessagesMessages:
		return r.Messages
	case *tg.MessagesMessagesSlice:
		return r.Messages
	case *tg.MessagesChannelMessages:
		return r.Messages
	default:
		return nil
	}
}
