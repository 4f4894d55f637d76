package telegram

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"

	apperrors "tgdownloader/pkg/errors"
	"tgdownloader/pkg/logger"
	"tgdownloader/pkg/models"
)

// RefKind tells how a chat identifier has to be looked up
type RefKind int

const (
	RefUsername RefKind = iota
	RefInvite
	RefID
)

// ChatRef is a parsed chat identifier
type ChatRef struct {
	Kind       RefKind
	Username   string
	InviteHash string
	ID         int64
	// PeerType narrows an id lookup; empty matches any peer with that id
	PeerType models.ChatType
}

// channelIDOffset is the -100 prefix Bot API style ids carry for channels
const channelIDOffset = 1000000000000

const (
	dialogPageSize = 100
	maxDialogPages = 200
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]{3,31}$`)

// ParseChatRef understands @username, bare usernames, t.me links, invite
// links and numeric ids (including the -100 channel form)
func ParseChatRef(input string) (ChatRef, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return ChatRef{}, apperrors.Configuration("chat identifier is empty", nil)
	}

	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return parseNumericRef(id)
	}

	lower := strings.ToLower(s)
	for _, prefix := range []string{"https://", "http://"} {
		if strings.HasPrefix(lower, prefix) {
			s, lower = s[len(prefix):], lower[len(prefix):]
		}
	}
	if strings.HasPrefix(lower, "www.") {
		s, lower = s[4:], lower[4:]
	}
	for _, host := range []string{"t.me/", "telegram.me/", "telegram.dog/"} {
		if strings.HasPrefix(lower, host) {
			return parseLinkPath(s[len(host):], input)
		}
	}

	s = strings.TrimPrefix(s, "@")
	if usernamePattern.MatchString(s) {
		return ChatRef{Kind: RefUsername, Username: s}, nil
	}
	return ChatRef{}, apperrors.Configuration(fmt.Sprintf("%q is not a username, link or chat id", input), nil)
}

func parseNumericRef(id int64) (ChatRef, error) {
	switch {
	case id == 0:
		return ChatRef{}, apperrors.Configuration("chat id cannot be 0", nil)
	case id < -channelIDOffset:
		return ChatRef{Kind: RefID, ID: -id - channelIDOffset, PeerType: models.ChatChannel}, nil
	case id < 0:
		return ChatRef{Kind: RefID, ID: -id, PeerType: models.ChatGroup}, nil
	default:
		return ChatRef{Kind: RefID, ID: id}, nil
	}
}

func parseLinkPath(path, input string) (ChatRef, error) {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.Trim(path, "/")
	parts := strings.Split(path, "/")

	switch {
	case strings.HasPrefix(parts[0], "+") && len(parts[0]) > 1:
		return ChatRef{Kind: RefInvite, InviteHash: parts[0][1:]}, nil
	case parts[0] == "joinchat":
		if len(parts) > 1 && parts[1] != "" {
			return ChatRef{Kind: RefInvite, InviteHash: parts[1]}, nil
		}
	case parts[0] == "c" && len(parts) > 1:
		id, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil || id <= 0 {
			break
		}
		return ChatRef{Kind: RefID, ID: id, PeerType: models.ChatChannel}, nil
	case parts[0] == "s" && len(parts) > 1 && usernamePattern.MatchString(parts[1]):
		return ChatRef{Kind: RefUsername, Username: parts[1]}, nil
	case usernamePattern.MatchString(parts[0]):
		return ChatRef{Kind: RefUsername, Username: parts[0]}, nil
	}
	return ChatRef{}, apperrors.Configuration(fmt.Sprintf("cannot understand link %q", input), nil)
}

// resolverAPI is the subset of tg.Client used for chat lookup
type resolverAPI interface {
	ContactsResolveUsername(ctx context.Context, request *tg.ContactsResolveUsernameRequest) (*tg.ContactsResolvedPeer, error)
	MessagesImportChatInvite(ctx context.Context, hash string) (tg.UpdatesClass, error)
	MessagesCheckChatInvite(ctx context.Context, hash string) (tg.ChatInviteClass, error)
	MessagesGetDialogs(ctx context.Context, request *tg.MessagesGetDialogsRequest) (tg.MessagesDialogsClass, error)
}

// Resolver turns user input into a models.Chat
type Resolver struct {
	api    resolverAPI
	logger logger.Logger
}

// NewResolver creates a resolver on top of api
func NewResolver(api resolverAPI, log logger.Logger) *Resolver {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Resolver{api: api, logger: log}
}

// Resolve looks up the chat identified by input. Anything that cannot be
// resolved is a configuration error; session loss stays a session error.
func (r *Resolver) Resolve(ctx context.Context, input string) (models.Chat, error) {
	ref, err := ParseChatRef(input)
	if err != nil {
		return models.Chat{}, err
	}

	var chat models.Chat
	switch ref.Kind {
	case RefUsername:
		chat, err = r.byUsername(ctx, ref.Username)
	case RefInvite:
		chat, err = r.byInvite(ctx, ref.InviteHash)
	default:
		chat, err = r.byID(ctx, ref.ID, ref.PeerType)
	}
	if err != nil {
		return models.Chat{}, resolveError(input, err)
	}

	r.logger.DebugWithFields("chat resolved", map[string]interface{}{
		"input": input,
		"id":    chat.ID,
		"type":  string(chat.Type),
		"name":  chat.DisplayName(),
	})
	return chat, nil
}

func (r *Resolver) byUsername(ctx context.Context, username string) (models.Chat, error) {
	resolved, err := r.api.ContactsResolveUsername(ctx, &tg.ContactsResolveUsernameRequest{Username: username})
	if err != nil {
		return models.Chat{}, err
	}

	switch peer := resolved.Peer.(type) {
	case *tg.PeerUser:
		for _, u := range resolved.Users {
			if user, ok := u.(*tg.User); ok && user.ID == peer.UserID {
				return ChatFromUser(user), nil
			}
		}
	case *tg.PeerChannel:
		if chat, ok := findChat(resolved.Chats, peer.ChannelID); ok {
			return chat, nil
		}
	case *tg.PeerChat:
		if chat, ok := findChat(resolved.Chats, peer.ChatID); ok {
			return chat, nil
		}
	}
	return models.Chat{}, fmt.Errorf("@%s did not resolve to an accessible chat", username)
}

func (r *Resolver) byInvite(ctx context.Context, hash string) (models.Chat, error) {
	updates, err := r.api.MessagesImportChatInvite(ctx, hash)
	if err == nil {
		var chats []tg.ChatClass
		switch u := updates.(type) {
		case *tg.Updates:
			chats = u.Chats
		case *tg.UpdatesCombined:
			chats = u.Chats
		}
		for _, c := range chats {
			if chat, ok := ChatFromClass(c); ok {
				r.logger.InfoWithFields("joined chat from invite link", map[string]interface{}{"chat": chat.DisplayName()})
				return chat, nil
			}
		}
		return models.Chat{}, fmt.Errorf("joining with invite link returned no chat")
	}
	if !tgerr.Is(err, "USER_ALREADY_PARTICIPANT") {
		return models.Chat{}, err
	}

	invite, err := r.api.MessagesCheckChatInvite(ctx, hash)
	if err != nil {
		return models.Chat{}, err
	}
	var raw tg.ChatClass
	switch inv := invite.(type) {
	case *tg.ChatInviteAlready:
		raw = inv.Chat
	case *tg.ChatInvitePeek:
		raw = inv.Chat
	}
	if chat, ok := ChatFromClass(raw); ok {
		return chat, nil
	}
	return models.Chat{}, fmt.Errorf("invite link does not point to an accessible chat")
}

// byID scans the dialog list, newest first, for a peer with the given id
func (r *Resolver) byID(ctx context.Context, id int64, peerType models.ChatType) (models.Chat, error) {
	offsetDate := 0
	for page := 0; page < maxDialogPages; page++ {
		res, err := r.api.MessagesGetDialogs(ctx, &tg.MessagesGetDialogsRequest{
			OffsetDate: offsetDate,
			OffsetPeer: &tg.InputPeerEmpty{},
			Limit:      dialogPageSize,
		})
		if err != nil {
			return models.Chat{}, err
		}

		var (
			dialogs  []tg.DialogClass
			messages []tg.MessageClass
			chats    []tg.ChatClass
			users    []tg.UserClass
			complete bool
		)
		switch d := res.(type) {
		case *tg.MessagesDialogs:
			dialogs, messages, chats, users, complete = d.Dialogs, d.Messages, d.Chats, d.Users, true
		case *tg.MessagesDialogsSlice:
			dialogs, messages, chats, users = d.Dialogs, d.Messages, d.Chats, d.Users
		default:
			complete = true
		}

		if chat, ok := matchPeer(id, peerType, chats, users); ok {
			return chat, nil
		}
		if complete || len(dialogs) < dialogPageSize {
			break
		}

		next := oldestMessageDate(messages)
		if next == 0 || (offsetDate != 0 && next >= offsetDate) {
			break
		}
		offsetDate = next
	}
	return models.Chat{}, fmt.Errorf("no dialog with id %d, open the chat once in Telegram or use its @username or invite link", id)
}

func matchPeer(id int64, peerType models.ChatType, chats []tg.ChatClass, users []tg.UserClass) (models.Chat, bool) {
	if peerType == "" || peerType == models.ChatUser {
		for _, u := range users {
			if user, ok := u.(*tg.User); ok && user.ID == id {
				return ChatFromUser(user), true
			}
		}
	}
	for _, c := range chats {
		chat, ok := ChatFromClass(c)
		if !ok || chat.ID != id {
			continue
		}
		switch peerType {
		case "":
			return chat, true
		case models.ChatChannel:
			// megagroups are channels on the wire
			if chat.AccessHash != 0 {
				return chat, true
			}
		case models.ChatGroup:
			if chat.AccessHash == 0 {
				return chat, true
			}
		}
	}
	return models.Chat{}, false
}

func oldestMessageDate(messages []tg.MessageClass) int {
	oldest := 0
	for _, m := range messages {
		var date int
		switch msg := m.(type) {
		case *tg.Message:
			date = msg.Date
		case *tg.MessageService:
			date = msg.Date
		default:
			continue
		}
		if oldest == 0 || date < oldest {
			oldest = date
		}
	}
	return oldest
}

func findChat(chats []tg.ChatClass, id int64) (models.Chat, bool) {
	for _, c := range chats {
		if chat, ok := ChatFromClass(c); ok && chat.ID == id {
			return chat, true
		}
	}
	return models.Chat{}, false
}

// ChatFromClass maps groups, supergroups and channels. Forbidden chats are
// rejected since their history cannot be read.
func ChatFromClass(c tg.ChatClass) (models.Chat, bool) {
	switch v := c.(type) {
	case *tg.Channel:
		chatType := models.ChatGroup
		if v.Broadcast {
			chatType = models.ChatChannel
		}
		return models.Chat{
			ID:         v.ID,
			AccessHash: v.AccessHash,
			Username:   v.Username,
			Title:      v.Title,
			Type:       chatType,
		}, true
	case *tg.Chat:
		return models.Chat{ID: v.ID, Title: v.Title, Type: models.ChatGroup}, true
	default:
		return models.Chat{}, false
	}
}

// ChatFromUser maps a user to a chat
func ChatFromUser(u *tg.User) models.Chat {
	return models.Chat{
		ID:         u.ID,
		AccessHash: u.AccessHash,
		Username:   u.Username,
		Title:      strings.TrimSpace(u.FirstName + " " + u.LastName),
		Type:       models.ChatUser,
	}
}

// InputPeer builds the request peer for a resolved chat
func InputPeer(chat models.Chat) tg.InputPeerClass {
	switch {
	case chat.Type == models.ChatUser:
		return &tg.InputPeerUser{UserID: chat.ID, AccessHash: chat.AccessHash}
	case chat.Type == models.ChatGroup && chat.AccessHash == 0:
		return &tg.InputPeerChat{ChatID: chat.ID}
	default:
		return &tg.InputPeerChannel{ChannelID: chat.ID, AccessHash: chat.AccessHash}
	}
}

func resolveError(input string, err error) error {
	switch apperrors.TypeOf(Classify(err)) {
	case apperrors.ErrorTypeSession, apperrors.ErrorTypeCancelled:
		return Classify(err)
	case apperrors.ErrorTypeConfiguration:
		return err
	}

	msg := fmt.Sprintf("could not resolve chat %q", input)
	switch {
	case tgerr.Is(err, "USERNAME_NOT_OCCUPIED", "USERNAME_INVALID"):
		msg = fmt.Sprintf("no chat named %q", input)
	case tgerr.Is(err, "INVITE_HASH_EXPIRED", "INVITE_HASH_INVALID", "INVITE_HASH_EMPTY"):
		msg = "invite link is invalid or expired"
	case tgerr.Is(err, "INVITE_REQUEST_SENT"):
		msg = "join request sent, run again once an admin approves it"
	case tgerr.Is(err, "CHANNELS_TOO_MUCH"):
		msg = "too many joined channels to join another one"
	}
	return apperrors.Configuration(msg, err)
}
