package telegram

import (
	"context"
	"errors"
	"time"

	"github.com/gotd/td/tgerr"

	apperrors "tgdownloader/pkg/errors"
)

// RPC error types that mean the stored session can no longer be used
var sessionErrorTypes = []string{
	"AUTH_KEY_UNREGISTERED",
	"AUTH_KEY_INVALID",
	"SESSION_REVOKED",
	"SESSION_EXPIRED",
	"USER_DEACTIVATED",
	"USER_DEACTIVATED_BAN",
}

// floodMargin is added on top of the server-requested FLOOD_WAIT
const floodMargin = time.Second

// Classify maps an error returned by gotd into the application taxonomy.
// Already typed errors and context errors are returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var typed *apperrors.Error
	if errors.As(err, &typed) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	if rpcErr, ok := tgerr.As(err); ok {
		if rpcErr.Code == 401 || rpcErr.IsOneOf(sessionErrorTypes...) {
			return apperrors.Session("telegram session is no longer authorized, log in again", err)
		}
		return apperrors.Transient("telegram request failed", err)
	}

	return apperrors.Transient("telegram request failed", err)
}

// floodDelay extracts the FLOOD_WAIT duration from err, if any
func floodDelay(err error) (time.Duration, bool) {
	d, ok := tgerr.AsFloodWait(err)
	if !ok {
		return 0, false
	}
	return d + floodMargin, true
}
