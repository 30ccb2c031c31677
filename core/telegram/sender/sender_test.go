package sender

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"
)

func TestClassifyError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"deadline", fmt.Errorf("send: %w", context.DeadlineExceeded), KindTimeout},
		{"blocked", fmt.Errorf("send: %w", tele.ErrBlockedByUser), KindBlocked},
		{"chat not found", tele.ErrChatNotFound, KindChatNotFound},
		{"dial", &net.OpError{Op: "dial", Err: errors.New("refused")}, KindDial},
		{"dns", &net.DNSError{Err: "no such host", Name: "api.telegram.org"}, KindDNS},
		{"api 5xx", &tele.Error{Code: 502, Description: "Bad Gateway"}, KindHTTP5xx},
		{"parsed 429", errors.New("telegram: Too Many Requests (429)"), KindFlood},
		{"plain", errors.New("boom"), KindUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifyError(tc.err))
		})
	}
}

func TestSanitizeErrorRedactsToken(t *testing.T) {
	err := errors.New(`Post "https://api.telegram.org/bot123456:AAbb-cc_DD/sendMessage": EOF`)
	got := SanitizeError(err)
	assert.NotContains(t, got, "AAbb-cc_DD")
	assert.Contains(t, got, "bot<redacted>")
	assert.Empty(t, SanitizeError(nil))
}

func TestDispatcherRunsAndCountsFailures(t *testing.T) {
	d := NewDispatcher(Options{Workers: 2, QueueSize: 8, MaxRetries: 0})

	var ran atomic.Int32
	require.NoError(t, d.Enqueue(context.Background(), "send.text", "sendMessage", func() error {
		ran.Add(1)
		return nil
	}))
	require.NoError(t, d.Enqueue(context.Background(), "send.text", "sendMessage", func() error {
		ran.Add(1)
		return errors.New("boom")
	}))
	d.Close()

	assert.Equal(t, int32(2), ran.Load())
	assert.Equal(t, uint64(1), d.ErrorCount())
	assert.ErrorIs(t, d.Enqueue(context.Background(), "x", "", func() error { return nil }), ErrQueueClosed)
}

func TestDispatcherRetriesTransientErrors(t *testing.T) {
	d := NewDispatcher(Options{Workers: 1, MaxRetries: 2, RetryBackoff: time.Millisecond})
	var calls atomic.Int32
	require.NoError(t, d.Enqueue(context.Background(), "send.text", "sendMessage", func() error {
		if calls.Add(1) < 3 {
			return &net.OpError{Op: "dial", Err: errors.New("refused")}
		}
		return nil
	}))
	d.Close()
	assert.Equal(t, int32(3), calls.Load())
	assert.Zero(t, d.ErrorCount())
}

func TestDispatcherQueueFull(t *testing.T) {
	block := make(chan struct{})
	d := NewDispatcher(Options{Workers: 1, QueueSize: 1})
	started := make(chan struct{})
	require.NoError(t, d.Enqueue(context.Background(), "a", "", func() error {
		close(started)
		<-block
		return nil
	}))
	<-started
	require.NoError(t, d.Enqueue(context.Background(), "b", "", func() error { return nil }))
	assert.ErrorIs(t, d.Enqueue(context.Background(), "c", "", func() error { return nil }), ErrQueueFull)
	close(block)
	d.Close()
}
