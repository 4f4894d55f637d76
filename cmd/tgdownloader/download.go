package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"syscall"

	"github.com/spf13/cobra"

	"tgdownloader/internal/downloader"
	"tgdownloader/pkg/auth"
	"tgdownloader/pkg/config"
	apperrors "tgdownloader/pkg/errors"
	"tgdownloader/pkg/logger"
	"tgdownloader/pkg/models"
	"tgdownloader/pkg/storage"
	"tgdownloader/pkg/telegram"
	"tgdownloader/pkg/ui"
)

const (
	defaultFilter   = string(models.FilterBoth)
	defaultQuantity = 500
	defaultOrder    = "oldest"
)

func runDownload(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return apperrors.Configuration("failed to load configuration", err)
	}
	if err := logger.Initialize(&cfg.Logging); err != nil {
		return apperrors.Configuration("failed to initialize logging", err)
	}
	log := logger.GetLogger()
	log.WithField("version", version).Info("tgdownloader starting")

	ui.PrintBanner(version)
	prompt := ui.NewPrompt(os.Stdin, os.Stdout)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var downloading atomic.Bool
	release := exitOnInterrupt(ctx, &downloading)
	defer release()

	creds, err := loadCredentials(cfg, prompt)
	if err != nil {
		return err
	}

	sess := telegram.NewSession(*creds, cfg.Telegram, log)
	err = sess.Open(ctx, prompt, func(ctx context.Context) error {
		if self := sess.Self(); self != nil {
			ui.PrintInfo("Logged in as", models.Chat{ID: self.ID, Username: self.Username, Title: self.FirstName}.DisplayName())
		}
		return download(ctx, cfg, sess, prompt, &downloading, log)
	})
	if err != nil && ctx.Err() != nil && apperrors.IsCancelled(err) {
		log.Info("Interrupted by user")
		return nil
	}
	return err
}

// exitOnInterrupt ends the process on Ctrl-C while the user is answering
// prompts, since a blocked stdin read cannot observe ctx. Once the download
// starts cancellation is left to the orchestrator.
func exitOnInterrupt(ctx context.Context, downloading *atomic.Bool) (release func()) {
	finished := make(chan struct{})
	go func() {
		select {
		case <-finished:
		case <-ctx.Done():
			select {
			case <-finished:
				return
			default:
			}
			if !downloading.Load() {
				fmt.Fprintln(os.Stdout)
				ui.PrintWarning("Cancelled")
				os.Exit(0)
			}
		}
	}()
	return func() { close(finished) }
}

func download(ctx context.Context, cfg *config.Config, sess *telegram.Session, prompt *ui.Prompt, downloading *atomic.Bool, log logger.Logger) error {
	chat, err := askChat(ctx, sess.Resolver(), prompt)
	if err != nil {
		return err
	}
	ui.PrintSuccess("Found " + chat.DisplayName())

	target, err := askTarget(prompt, chat)
	if err != nil {
		return err
	}

	destination := filepath.Join(cfg.Output.BaseDirectory, storage.ChatFolderName(chat))
	fmt.Fprintln(os.Stdout, ui.TargetTable(target, destination))

	start, err := prompt.Confirm("Start download?", true)
	if err != nil {
		return promptError(err)
	}
	if !start {
		ui.PrintDim("Nothing downloaded.")
		return nil
	}

	downloading.Store(true)
	orchestrator := downloader.New(downloader.Options{
		BaseDir:  cfg.Output.BaseDirectory,
		Reporter: ui.NewProgressReporter(os.Stdout, ui.NewNotifier(cfg.Notifications)),
		Logger:   log,
	})
	_, err = orchestrator.Run(ctx, target, sess.History(chat, target.Order))
	return err
}

// askChat asks until the input resolves. Only input problems are retried.
func askChat(ctx context.Context, resolver *telegram.Resolver, prompt *ui.Prompt) (models.Chat, error) {
	for {
		input, err := prompt.Ask("Chat (@username, t.me link or id):")
		if err != nil {
			return models.Chat{}, promptError(err)
		}
		if input == "" {
			continue
		}

		chat, err := resolver.Resolve(ctx, input)
		if err == nil {
			return chat, nil
		}
		if apperrors.TypeOf(err) != apperrors.ErrorTypeConfiguration {
			return models.Chat{}, err
		}
		ui.PrintWarning(err.Error())
	}
}

func askTarget(prompt *ui.Prompt, chat models.Chat) (models.Target, error) {
	fmt.Fprintln(os.Stdout, ui.OptionsTable())

	filterAnswer, err := prompt.Choose("Media type", defaultFilter, func(s string) error {
		_, err := models.ParseFilter(s)
		return err
	})
	if err != nil {
		return models.Target{}, promptError(err)
	}
	quantity, err := prompt.AskInt("Quantity", defaultQuantity)
	if err != nil {
		return models.Target{}, promptError(err)
	}
	orderAnswer, err := prompt.Choose("Order", defaultOrder, func(s string) error {
		_, err := models.ParseOrder(s)
		return err
	})
	if err != nil {
		return models.Target{}, promptError(err)
	}

	filter, _ := models.ParseFilter(filterAnswer)
	order, _ := models.ParseOrder(orderAnswer)
	return models.Target{
		Chat:     chat,
		Filter:   filter,
		MaxCount: quantity,
		Order:    order,
	}, nil
}

// loadCredentials returns stored API credentials, asking for new ones on
// first run or when the user wants to replace them
func loadCredentials(cfg *config.Config, prompt *ui.Prompt) (*auth.Credentials, error) {
	manager, err := auth.NewManager(cfg.Credentials)
	if err != nil {
		return nil, apperrors.Configuration("failed to initialize credential storage", err)
	}

	creds, err := manager.Retrieve()
	if err == nil {
		masked := creds.Masked()
		ui.PrintInfo("API id", strconv.Itoa(masked.APIID))
		update, err := prompt.Confirm("Update API credentials?", false)
		if err != nil {
			return nil, promptError(err)
		}
		if !update {
			return creds, nil
		}
	} else {
		auth.ShowAPICredentialsGuide(os.Stdout)
	}

	creds, err = askCredentials(prompt)
	if err != nil {
		return nil, err
	}
	if err := manager.Store(creds); err != nil {
		ui.PrintWarning("Could not save API credentials", err)
	} else {
		ui.PrintSuccess("API credentials saved")
	}
	return creds, nil
}

func askCredentials(prompt *ui.Prompt) (*auth.Credentials, error) {
	for {
		idAnswer, err := prompt.Ask("API id:")
		if err != nil {
			return nil, promptError(err)
		}
		hash, err := prompt.AskSecret("API hash:")
		if err != nil {
			return nil, promptError(err)
		}

		id, _ := strconv.Atoi(idAnswer)
		creds := &auth.Credentials{APIID: id, APIHash: hash}
		if err := creds.Validate(); err != nil {
			ui.PrintWarning("Invalid credentials", err)
			continue
		}
		return creds, nil
	}
}

func promptError(err error) error {
	if errors.Is(err, ui.ErrNoInput) {
		return apperrors.Configuration("input ended before all questions were answered", err)
	}
	return apperrors.Configuration("failed to read input", err)
}
