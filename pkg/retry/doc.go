// Package retry runs an operation again after transient failures, waiting
// with exponential backoff between attempts.
//
// It is used for history page requests only; media fetches are not retried
// within a run, a failed item simply stays out of the download log.
//
//	msgs, err := retry.DoWithResult(func() (tg.MessagesMessagesClass, error) {
//		return api.MessagesGetHistory(ctx, req)
//	}, &retry.Config{
//		MaxAttempts: 3,
//		Backoff:     retry.NewExponentialBackoff(2 * time.Second),
//		RetryIf:     retry.DefaultRetryIf,
//		Context:     ctx,
//		Logger:      logger.GetLogger(),
//	})
//
// DefaultRetryIf consults the error taxonomy in pkg/errors: transient and
// unclassified errors are retried, session loss and cancellation are not.
package retry
