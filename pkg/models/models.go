package models

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// MediaType is the kind of media a message carries
type MediaType string

const (
	MediaPhoto MediaType = "photo"
	MediaVideo MediaType = "video"
)

// Filter selects which media types a run downloads
type Filter string

const (
	FilterPhotos Filter = "photos"
	FilterVideos Filter = "videos"
	FilterBoth   Filter = "both"
)

// ParseFilter accepts the prompt answers; an empty answer means both
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "both", "b", "all":
		return FilterBoth, nil
	case "photos", "photo", "p":
		return FilterPhotos, nil
	case "videos", "video", "v":
		return FilterVideos, nil
	default:
		return "", fmt.Errorf("unknown media type %q (want photos, videos or both)", s)
	}
}

// Matches reports whether media of type t passes the filter
func (f Filter) Matches(t MediaType) bool {
	switch f {
	case FilterPhotos:
		return t == MediaPhoto
	case FilterVideos:
		return t == MediaVideo
	case FilterBoth:
		return t == MediaPhoto || t == MediaVideo
	default:
		return false
	}
}

// Order is the direction history is walked in
type Order string

const (
	NewestFirst Order = "newest"
	OldestFirst Order = "oldest"
)

// ParseOrder accepts the prompt answers; an empty answer means oldest first
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "oldest", "old", "o":
		return OldestFirst, nil
	case "newest", "new", "n":
		return NewestFirst, nil
	default:
		return "", fmt.Errorf("unknown order %q (want newest or oldest)", s)
	}
}

// ChatType distinguishes the peer kinds a chat can resolve to
type ChatType string

const (
	ChatUser    ChatType = "user"
	ChatGroup   ChatType = "group"
	ChatChannel ChatType = "channel"
)

// Chat is a resolved conversation
type Chat struct {
	ID         int64
	AccessHash int64
	Username   string
	Title      string
	Type       ChatType
}

// DisplayName is @username, else the title, else id_<id>
func (c Chat) DisplayName() string {
	if c.Username != "" {
		return "@" + c.Username
	}
	if strings.TrimSpace(c.Title) != "" {
		return c.Title
	}
	return "id_" + strconv.FormatInt(c.ID, 10)
}

// Target is the immutable description of one run
type Target struct {
	Chat     Chat
	Filter   Filter
	MaxCount int
	Order    Order
}

// Validate checks the target before any history is requested
func (t Target) Validate() error {
	var errs []error
	if t.Chat.ID == 0 {
		errs = append(errs, errors.New("chat is not resolved"))
	}
	if t.Filter != FilterPhotos && t.Filter != FilterVideos && t.Filter != FilterBoth {
		errs = append(errs, fmt.Errorf("invalid media filter %q", t.Filter))
	}
	if t.MaxCount <= 0 {
		errs = append(errs, errors.New("quantity must be positive"))
	}
	if t.Order != NewestFirst && t.Order != OldestFirst {
		errs = append(errs, fmt.Errorf("invalid order %q", t.Order))
	}
	return errors.Join(errs...)
}

// FetchFunc streams a message's media into w
type FetchFunc func(ctx context.Context, w io.Writer) error

// Message is the client-independent view of a media message.
// GroupID is empty for standalone messages.
type Message struct {
	ID       int
	GroupID  string
	Type     MediaType
	FileName string
	Ext      string
	Size     int64
	Date     time.Time
	Fetch    FetchFunc
}

// IsGrouped reports whether the message belongs to an album
func (m Message) IsGrouped() bool {
	return m.GroupID != ""
}

// DownloadRecord identifies a message whose media is fully on disk
type DownloadRecord struct {
	ChatID    int64
	MessageID int
}

// AlbumGroup collects the messages of one album seen during a run
type AlbumGroup struct {
	GroupID    string
	MessageIDs []int
	Folder     string
}
