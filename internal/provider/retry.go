package provider

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
)

// retryPolicy bounds the backoff loop around one adapter call.
type retryPolicy struct {
	maxAttempts  int
	initialDelay time.Duration
	multiplier   float64
}

func defaultRetryPolicy() retryPolicy {
	return retryPolicy{
		maxAttempts:  3,
		initialDelay: time.Second,
		multiplier:   2.0,
	}
}

// withRetry runs fn up to policy.maxAttempts times with exponential backoff.
// Only transient failures are retried; config and permanent errors propagate
// immediately. Backoff sleeps are context-aware.
func withRetry(ctx context.Context, log *logrus.Logger, policy retryPolicy, name Name, fn func(context.Context) (string, error)) (string, error) {
	delay := policy.initialDelay
	var lastErr error
	for attempt := 1; attempt <= policy.maxAttempts; attempt++ {
		out, err := fn(ctx)
		if err == nil {
			return out, nil
		}
		lastErr = err

		var perr *Error
		if errors.As(err, &perr) && perr.Kind != KindTransient {
			return "", err
		}
		if attempt == policy.maxAttempts {
			break
		}

		log.WithFields(logrus.Fields{
			"provider": name,
			"attempt":  attempt,
			"delay":    delay.String(),
		}).WithError(err).Warn("transient backend failure, retrying")

		select {
		case <-ctx.Done():
			return "", &Error{Kind: KindPermanent, Provider: name, Message: "cancelled during backoff", Err: ctx.Err()}
		case <-time.After(delay):
		}
		delay = time.Duration(float64(delay) * policy.multiplier)
	}
	return "", lastErr
}
