package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/dcs"
	"github.com/gotd/td/telegram/downloader"
	"github.com/gotd/td/tg"

	"tgdownloader/pkg/auth"
	"tgdownloader/pkg/config"
	apperrors "tgdownloader/pkg/errors"
	"tgdownloader/pkg/logger"
	"tgdownloader/pkg/models"
)

// Session owns one gotd client for the lifetime of Open
type Session struct {
	creds   auth.Credentials
	cfg     config.TelegramConfig
	storage *FileSessionStorage
	logger  logger.Logger

	client     *telegram.Client
	api        *tg.Client
	downloader *downloader.Downloader
	self       *tg.User
}

// NewSession creates a session for the given API credentials
func NewSession(creds auth.Credentials, cfg config.TelegramConfig, log logger.Logger) *Session {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Session{
		creds:      creds,
		cfg:        cfg,
		storage:    &FileSessionStorage{Path: cfg.SessionFile},
		logger:     log.WithField("component", "telegram"),
		downloader: downloader.NewDownloader(),
	}
}

// Open connects, logs in when the stored session is not authorized and runs fn.
// The connection is closed when fn returns.
func (s *Session) Open(ctx context.Context, prompter Prompter, fn func(ctx context.Context) error) error {
	s.client = telegram.NewClient(s.creds.APIID, s.creds.APIHash, telegram.Options{
		SessionStorage: s.storage,
		DCList:         dcs.Prod(),
		NoUpdates:      true,
	})

	err := s.client.Run(ctx, func(ctx context.Context) error {
		s.api = s.client.API()

		if err := s.ensureAuthorized(ctx, prompter); err != nil {
			return err
		}

		self, err := s.client.Self(ctx)
		if err != nil {
			return Classify(err)
		}
		s.self = self
		s.logger.InfoWithFields("logged in", map[string]interface{}{
			"user_id":  self.ID,
			"username": self.Username,
		})

		return fn(ctx)
	})
	if err == nil {
		return nil
	}
	if ctx.Err() != nil && !errors.Is(err, ctx.Err()) {
		// the client reports its own shutdown error after cancellation
		return fmt.Errorf("%w: %v", ctx.Err(), err)
	}
	return Classify(err)
}

// Self returns the logged-in user. Only valid inside Open.
func (s *Session) Self() *tg.User {
	return s.self
}

// Resolver returns a chat resolver bound to the open connection
func (s *Session) Resolver() *Resolver {
	return NewResolver(s.api, s.logger)
}

// History returns a lazy iterator over the media messages of chat
func (s *Session) History(chat models.Chat, order models.Order) *History {
	return NewHistory(s.api, InputPeer(chat), order, HistoryOptions{
		BatchSize:     s.cfg.HistoryBatchSize,
		RetryAttempts: s.cfg.PageRetryAttempts,
		RetryDelay:    s.cfg.PageRetryDelay,
		Fetch:         s.fetcher(),
		Logger:        s.logger,
	})
}

// fetcher builds fetch functions that stream a file location through gotd's downloader
func (s *Session) fetcher() LocationFetcher {
	return func(loc tg.InputFileLocationClass) models.FetchFunc {
		return func(ctx context.Context, w io.Writer) error {
			_, err := s.downloader.Download(s.api, loc).Stream(ctx, w)
			return Classify(err)
		}
	}
}

// Logout forgets the stored session. The server side authorization is left
// alone so other devices are not affected.
func Logout(cfg config.TelegramConfig) error {
	storage := &FileSessionStorage{Path: cfg.SessionFile}
	if err := storage.Remove(); err != nil {
		return apperrors.Configuration("could not remove session", err)
	}
	return nil
}
