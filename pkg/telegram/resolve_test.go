package telegram

import (
	"context"
	"testing"

	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "tgdownloader/pkg/errors"
	"tgdownloader/pkg/logger"
	"tgdownloader/pkg/models"
)

func TestParseChatRef(t *testing.T) {
	tests := []struct {
		input string
		want  ChatRef
	}{
		{"@durov", ChatRef{Kind: RefUsername, Username: "durov"}},
		{"  durov_news ", ChatRef{Kind: RefUsername, Username: "durov_news"}},
		{"https://t.me/durov", ChatRef{Kind: RefUsername, Username: "durov"}},
		{"t.me/durov/123?single", ChatRef{Kind: RefUsername, Username: "durov"}},
		{"https://telegram.me/s/durov", ChatRef{Kind: RefUsername, Username: "durov"}},
		{"https://t.me/+AbCdEf123", ChatRef{Kind: RefInvite, InviteHash: "AbCdEf123"}},
		{"http://www.t.me/joinchat/XyZ_9", ChatRef{Kind: RefInvite, InviteHash: "XyZ_9"}},
		{"https://t.me/c/1234567/10", ChatRef{Kind: RefID, ID: 1234567, PeerType: models.ChatChannel}},
		{"-1001234567890", ChatRef{Kind: RefID, ID: 1234567890, PeerType: models.ChatChannel}},
		{"-4567", ChatRef{Kind: RefID, ID: 4567, PeerType: models.ChatGroup}},
		{"777000", ChatRef{Kind: RefID, ID: 777000}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseChatRef(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseChatRefRejects(t *testing.T) {
	for _, input := range []string{"", "   ", "0", "a b c", "@ab", "https://t.me/", "t.me/joinchat/"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseChatRef(input)
			require.Error(t, err)
			assert.Equal(t, apperrors.ErrorTypeConfiguration, apperrors.TypeOf(err))
		})
	}
}

type fakeResolverAPI struct {
	resolved     *tg.ContactsResolvedPeer
	resolveErr   error
	importResult tg.UpdatesClass
	importErr    error
	invite       tg.ChatInviteClass
	dialogPages  []tg.MessagesDialogsClass
	dialogCalls  []int
}

func (f *fakeResolverAPI) ContactsResolveUsername(ctx context.Context, req *tg.ContactsResolveUsernameRequest) (*tg.ContactsResolvedPeer, error) {
	return f.resolved, f.resolveErr
}

func (f *fakeResolverAPI) MessagesImportChatInvite(ctx context.Context, hash string) (tg.UpdatesClass, error) {
	return f.importResult, f.importErr
}

func (f *fakeResolverAPI) MessagesCheckChatInvite(ctx context.Context, hash string) (tg.ChatInviteClass, error) {
	return f.invite, nil
}

func (f *fakeResolverAPI) MessagesGetDialogs(ctx context.Context, req *tg.MessagesGetDialogsRequest) (tg.MessagesDialogsClass, error) {
	f.dialogCalls = append(f.dialogCalls, req.OffsetDate)
	page := len(f.dialogCalls) - 1
	if page >= len(f.dialogPages) {
		return &tg.MessagesDialogs{}, nil
	}
	return f.dialogPages[page], nil
}

func TestResolveUsername(t *testing.T) {
	api := &fakeResolverAPI{
		resolved: &tg.ContactsResolvedPeer{
			Peer: &tg.PeerChannel{ChannelID: 100},
			Chats: []tg.ChatClass{
				&tg.Channel{ID: 99, Title: "Other"},
				&tg.Channel{ID: 100, AccessHash: 5, Title: "News", Username: "news", Broadcast: true},
			},
		},
	}

	chat, err := NewResolver(api, logger.NewNopLogger()).Resolve(context.Background(), "@news")
	require.NoError(t, err)
	assert.Equal(t, models.Chat{ID: 100, AccessHash: 5, Username: "news", Title: "News", Type: models.ChatChannel}, chat)
}

func TestResolveUser(t *testing.T) {
	api := &fakeResolverAPI{
		resolved: &tg.ContactsResolvedPeer{
			Peer:  &tg.PeerUser{UserID: 7},
			Users: []tg.UserClass{&tg.User{ID: 7, AccessHash: 8, FirstName: "Ann", LastName: "Lee", Username: "annlee"}},
		},
	}

	chat, err := NewResolver(api, logger.NewNopLogger()).Resolve(context.Background(), "t.me/annlee")
	require.NoError(t, err)
	assert.Equal(t, models.ChatUser, chat.Type)
	assert.Equal(t, "Ann Lee", chat.Title)
	assert.Equal(t, &tg.InputPeerUser{UserID: 7, AccessHash: 8}, InputPeer(chat))
}

func TestResolveUnknownUsernameIsConfigurationError(t *testing.T) {
	api := &fakeResolverAPI{resolveErr: tgerr.New(400, "USERNAME_NOT_OCCUPIED")}

	_, err := NewResolver(api, logger.NewNopLogger()).Resolve(context.Background(), "@nobody_here")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeConfiguration, apperrors.TypeOf(err))
	assert.Contains(t, err.Error(), "no chat named")
}

func TestResolveSessionLossStaysSession(t *testing.T) {
	api := &fakeResolverAPI{resolveErr: tgerr.New(401, "AUTH_KEY_UNREGISTERED")}

	_, err := NewResolver(api, logger.NewNopLogger()).Resolve(context.Background(), "@somebody")
	assert.True(t, apperrors.IsSession(err))
}

func TestResolveInviteJoins(t *testing.T) {
	api := &fakeResolverAPI{
		importResult: &tg.Updates{Chats: []tg.ChatClass{&tg.Channel{ID: 300, AccessHash: 1, Title: "Private", Megagroup: true}}},
	}

	chat, err := NewResolver(api, logger.NewNopLogger()).Resolve(context.Background(), "https://t.me/+hash")
	require.NoError(t, err)
	assert.Equal(t, int64(300), chat.ID)
	assert.Equal(t, models.ChatGroup, chat.Type)
	assert.Equal(t, &tg.InputPeerChannel{ChannelID: 300, AccessHash: 1}, InputPeer(chat))
}

func TestResolveInviteAlreadyParticipant(t *testing.T) {
	api := &fakeResolverAPI{
		importErr: tgerr.New(400, "USER_ALREADY_PARTICIPANT"),
		invite:    &tg.ChatInviteAlready{Chat: &tg.Chat{ID: 12, Title: "Family"}},
	}

	chat, err := NewResolver(api, logger.NewNopLogger()).Resolve(context.Background(), "t.me/joinchat/abc")
	require.NoError(t, err)
	assert.Equal(t, models.Chat{ID: 12, Title: "Family", Type: models.ChatGroup}, chat)
	assert.Equal(t, &tg.InputPeerChat{ChatID: 12}, InputPeer(chat))
}

func TestResolveExpiredInvite(t *testing.T) {
	api := &fakeResolverAPI{importErr: tgerr.New(400, "INVITE_HASH_EXPIRED")}

	_, err := NewResolver(api, logger.NewNopLogger()).Resolve(context.Background(), "t.me/+old")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeConfiguration, apperrors.TypeOf(err))
}

func fullDialogPage(date int, chats ...tg.ChatClass) *tg.MessagesDialogsSlice {
	page := &tg.MessagesDialogsSlice{Count: 1000, Chats: chats}
	for i := 0; i < dialogPageSize; i++ {
		page.Dialogs = append(page.Dialogs, &tg.Dialog{})
		page.Messages = append(page.Messages, &tg.Message{ID: i + 1, Date: date + i})
	}
	return page
}

func TestResolveByIDScansDialogs(t *testing.T) {
	api := &fakeResolverAPI{
		dialogPages: []tg.MessagesDialogsClass{
			fullDialogPage(5000, &tg.Channel{ID: 1, AccessHash: 2, Title: "First"}),
			&tg.MessagesDialogs{Chats: []tg.ChatClass{&tg.Channel{ID: 1234567890, AccessHash: 3, Title: "Target", Broadcast: true}}},
		},
	}

	chat, err := NewResolver(api, logger.NewNopLogger()).Resolve(context.Background(), "-1001234567890")
	require.NoError(t, err)
	assert.Equal(t, "Target", chat.Title)
	assert.Equal(t, []int{0, 5000}, api.dialogCalls)
}

func TestResolveByIDNotFound(t *testing.T) {
	api := &fakeResolverAPI{
		dialogPages: []tg.MessagesDialogsClass{
			&tg.MessagesDialogs{Chats: []tg.ChatClass{&tg.Chat{ID: 5, Title: "basic"}}},
		},
	}

	// a basic group with the same id does not match the channel form
	_, err := NewResolver(api, logger.NewNopLogger()).Resolve(context.Background(), "-1000000000005")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeConfiguration, apperrors.TypeOf(err))
}
