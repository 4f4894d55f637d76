package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgauth "github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/tg"

	apperrors "tgdownloader/pkg/errors"
)

// Prompter asks the user for login details
type Prompter interface {
	Ask(label string) (string, error)
	AskSecret(label string) (string, error)
}

// authAPI is the part of gotd's auth client the login flow needs
type authAPI interface {
	Status(ctx context.Context) (*tgauth.Status, error)
	SendCode(ctx context.Context, phone string, options tgauth.SendCodeOptions) (tg.AuthSentCodeClass, error)
	SignIn(ctx context.Context, phone, code, codeHash string) (*tg.AuthAuthorization, error)
	Password(ctx context.Context, password string) (*tg.AuthAuthorization, error)
}

func (s *Session) ensureAuthorized(ctx context.Context, prompter Prompter) error {
	return login(ctx, s.client.Auth(), prompter)
}

// login runs phone, code and optional 2FA password steps when the session
// is not authorized yet
func login(ctx context.Context, client authAPI, prompter Prompter) error {
	status, err := client.Status(ctx)
	if err != nil {
		return Classify(err)
	}
	if status.Authorized {
		return nil
	}
	if prompter == nil {
		return apperrors.Session("not logged in to Telegram", nil)
	}

	phone, err := prompter.Ask("Phone number (international format, e.g. +15551234567)")
	if err != nil {
		return err
	}
	phone = strings.ReplaceAll(strings.TrimSpace(phone), " ", "")
	if phone == "" {
		return apperrors.Configuration("phone number is required", nil)
	}

	sent, err := client.SendCode(ctx, phone, tgauth.SendCodeOptions{})
	if err != nil {
		return loginError("could not send login code", err)
	}
	sentCode, ok := sent.(*tg.AuthSentCode)
	if !ok {
		return apperrors.Configuration(fmt.Sprintf("unexpected sent code type %T", sent), nil)
	}

	code, err := prompter.Ask("Login code")
	if err != nil {
		return err
	}
	code = strings.TrimSpace(code)

	_, err = client.SignIn(ctx, phone, code, sentCode.PhoneCodeHash)
	if errors.Is(err, tgauth.ErrPasswordAuthNeeded) {
		password, perr := prompter.AskSecret("Two-step verification password")
		if perr != nil {
			return perr
		}
		_, err = client.Password(ctx, password)
	}
	if err != nil {
		var signUp *tgauth.SignUpRequired
		if errors.As(err, &signUp) {
			return apperrors.Configuration("this phone number has no Telegram account, sign up in an official app first", err)
		}
		return loginError("login failed", err)
	}
	return nil
}

// loginError keeps cancellation intact and turns everything else into a
// configuration error so the CLI exits non-zero
func loginError(msg string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return apperrors.Configuration(msg, err)
}
