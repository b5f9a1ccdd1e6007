package provider

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry(attempts int) retryPolicy {
	return retryPolicy{maxAttempts: attempts, initialDelay: time.Millisecond, multiplier: 2}
}

func TestWithRetryTransientEventuallySucceeds(t *testing.T) {
	calls := 0
	out, err := withRetry(context.Background(), logrus.New(), fastRetry(3), Local, func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", &Error{Kind: KindTransient, Provider: Local, Message: "flaky"}
		}
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, 3, calls)
}

func TestWithRetryTransientExhausted(t *testing.T) {
	calls := 0
	_, err := withRetry(context.Background(), logrus.New(), fastRetry(3), Local, func(context.Context) (string, error) {
		calls++
		return "", &Error{Kind: KindTransient, Provider: Local, Message: "down"}
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Contains(t, err.Error(), "down")
}

func TestWithRetryPermanentNotRetried(t *testing.T) {
	calls := 0
	_, err := withRetry(context.Background(), logrus.New(), fastRetry(3), OpenAI, func(context.Context) (string, error) {
		calls++
		return "", &Error{Kind: KindPermanent, Provider: OpenAI, Message: "bad request"}
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestWithRetryConfigNotRetried(t *testing.T) {
	calls := 0
	_, err := withRetry(context.Background(), logrus.New(), fastRetry(3), Anthropic, func(context.Context) (string, error) {
		calls++
		return "", &Error{Kind: KindConfig, Provider: Anthropic, Message: "no key"}
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestWithRetryCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	policy := retryPolicy{maxAttempts: 3, initialDelay: time.Hour, multiplier: 2}
	_, err := withRetry(ctx, logrus.New(), policy, Local, func(context.Context) (string, error) {
		return "", &Error{Kind: KindTransient, Provider: Local, Message: "flaky"}
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cancelled")
}
