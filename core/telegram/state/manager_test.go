package state

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisManager(t *testing.T) (Manager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisManager(client, time.Hour), mr
}

func managers(t *testing.T) map[string]Manager {
	redisMgr, _ := newRedisManager(t)
	return map[string]Manager{
		"memory": NewMemoryManager(),
		"redis":  redisMgr,
	}
}

func TestManagerTransitions(t *testing.T) {
	ctx := context.Background()
	for name, mgr := range managers(t) {
		t.Run(name, func(t *testing.T) {
			st, err := mgr.Get(ctx, 1)
			require.NoError(t, err)
			assert.Equal(t, StateIdle, st)

			require.NoError(t, mgr.Set(ctx, 1, StateAwaitingPhone))
			st, err = mgr.Get(ctx, 1)
			require.NoError(t, err)
			assert.Equal(t, StateAwaitingPhone, st)

			other, err := mgr.Get(ctx, 2)
			require.NoError(t, err)
			assert.Equal(t, StateIdle, other, "users must not share state")

			prev, err := mgr.Consume(ctx, 1)
			require.NoError(t, err)
			assert.Equal(t, StateAwaitingPhone, prev)

			prev, err = mgr.Consume(ctx, 1)
			require.NoError(t, err)
			assert.Equal(t, StateIdle, prev)

			assert.ErrorIs(t, mgr.Set(ctx, 1, State("bogus")), ErrInvalidState)
		})
	}
}

func TestManagerCompareAndSet(t *testing.T) {
	ctx := context.Background()
	for name, mgr := range managers(t) {
		t.Run(name, func(t *testing.T) {
			ok, err := mgr.CompareAndSet(ctx, 7, StateIdle, StateAwaitingBroadcast)
			require.NoError(t, err)
			assert.True(t, ok)

			ok, err = mgr.CompareAndSet(ctx, 7, StateIdle, StateAwaitingBroadcast)
			require.NoError(t, err)
			assert.False(t, ok, "second arming must observe the armed state")

			ok, err = mgr.CompareAndSet(ctx, 7, StateAwaitingBroadcast, StateIdle)
			require.NoError(t, err)
			assert.True(t, ok)

			st, err := mgr.Get(ctx, 7)
			require.NoError(t, err)
			assert.Equal(t, StateIdle, st)

			require.NoError(t, mgr.Set(ctx, 7, StateAwaitingPhone))
			require.NoError(t, mgr.Clear(ctx, 7))
			st, err = mgr.Get(ctx, 7)
			require.NoError(t, err)
			assert.Equal(t, StateIdle, st)
		})
	}
}

func TestManagerConsumeIsExclusive(t *testing.T) {
	ctx := context.Background()
	for name, mgr := range managers(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, mgr.Set(ctx, 42, StateAwaitingPhone))

			var (
				wg    sync.WaitGroup
				wins  atomic.Int32
				start = make(chan struct{})
			)
			for i := 0; i < 16; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					<-start
					prev, err := mgr.Consume(ctx, 42)
					if err == nil && prev == StateAwaitingPhone {
						wins.Add(1)
					}
				}()
			}
			close(start)
			wg.Wait()
			assert.Equal(t, int32(1), wins.Load())
		})
	}
}

func TestRedisManagerExpiresToIdle(t *testing.T) {
	ctx := context.Background()
	mgr, mr := newRedisManager(t)
	require.NoError(t, mgr.Set(ctx, 5, StateAwaitingBroadcast))
	assert.True(t, mr.Exists(DefaultKeyPrefix+"5"))

	mr.FastForward(2 * time.Hour)
	st, err := mgr.Get(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, StateIdle, st)
}

func TestRedisManagerUnknownValueIsIdle(t *testing.T) {
	ctx := context.Background()
	mgr, mr := newRedisManager(t)
	require.NoError(t, mr.Set(DefaultKeyPrefix+"9", "legacy_flag"))
	st, err := mgr.Get(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, StateIdle, st)
}

func TestDispatcherConsumesBeforeHandler(t *testing.T) {
	ctx := context.Background()
	mgr := NewMemoryManager()
	d := NewDispatcher[string](mgr)

	var got []string
	boom := errors.New("boom")
	d.Register(StateAwaitingPhone, func(ctx context.Context, in string) error {
		st, _ := mgr.Get(ctx, 1)
		assert.Equal(t, StateIdle, st, "state must be consumed before the handler runs")
		got = append(got, "phone:"+in)
		return boom
	})
	d.Fallback(func(_ context.Context, in string) error {
		got = append(got, "idle:"+in)
		return nil
	})

	require.NoError(t, mgr.Set(ctx, 1, StateAwaitingPhone))
	prev, err := d.Dispatch(ctx, 1, "+15551234567")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, StateAwaitingPhone, prev)

	prev, err = d.Dispatch(ctx, 1, "+15551234567")
	require.NoError(t, err)
	assert.Equal(t, StateIdle, prev)
	assert.Equal(t, []string{"phone:+15551234567", "idle:+15551234567"}, got)
}

func TestParseState(t *testing.T) {
	assert.Equal(t, StateAwaitingPhone, ParseState(" awaiting_phone "))
	assert.Equal(t, StateIdle, ParseState(""))
	assert.Equal(t, StateIdle, ParseState("nope"))
}
