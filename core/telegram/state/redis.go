package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces session keys in redis.
const DefaultKeyPrefix = "kyc:session:"

// casScript treats a missing key as idle and deletes the key when moving to idle.
var casScript = redis.NewScript(`
local cur = redis.call('GET', KEYS[1])
if not cur then cur = 'idle' end
if cur ~= ARGV[1] then return 0 end
if ARGV[2] == 'idle' then
  redis.call('DEL', KEYS[1])
else
  redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
end
return 1
`)

type redisManager struct {
	client redis.Cmdable
	ttl    time.Duration
	prefix string
}

// NewRedisManager stores states under DefaultKeyPrefix+<user id> with the given ttl.
// Idle is represented by the absence of the key.
func NewRedisManager(client redis.Cmdable, ttl time.Duration) Manager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &redisManager{client: client, ttl: ttl, prefix: DefaultKeyPrefix}
}

func (m *redisManager) key(userID int64) string {
	return fmt.Sprintf("%s%d", m.prefix, userID)
}

func (m *redisManager) Get(ctx context.Context, userID int64) (State, error) {
	val, err := m.client.Get(ctx, m.key(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return StateIdle, nil
	}
	if err != nil {
		return StateIdle, fmt.Errorf("session get: %w", err)
	}
	return ParseState(val), nil
}

func (m *redisManager) Set(ctx context.Context, userID int64, st State) error {
	if !st.Valid() {
		return ErrInvalidState
	}
	var err error
	if st == StateIdle {
		err = m.client.Del(ctx, m.key(userID)).Err()
	} else {
		err = m.client.Set(ctx, m.key(userID), string(st), m.ttl).Err()
	}
	if err != nil {
		return fmt.Errorf("session set: %w", err)
	}
	logTransition(ctx, userID, "", st)
	return nil
}

func (m *redisManager) Consume(ctx context.Context, userID int64) (State, error) {
	val, err := m.client.GetDel(ctx, m.key(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return StateIdle, nil
	}
	if err != nil {
		return StateIdle, fmt.Errorf("session consume: %w", err)
	}
	prev := ParseState(val)
	if prev != StateIdle {
		logTransition(ctx, userID, prev, StateIdle)
	}
	return prev, nil
}

func (m *redisManager) CompareAndSet(ctx context.Context, userID int64, from, to State) (bool, error) {
	if !to.Valid() {
		return false, ErrInvalidState
	}
	n, err := casScript.Run(ctx, m.client, []string{m.key(userID)},
		string(from), string(to), m.ttl.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("session compare-and-set: %w", err)
	}
	if n == 1 {
		logTransition(ctx, userID, from, to)
	}
	return n == 1, nil
}

func (m *redisManager) Clear(ctx context.Context, userID int64) error {
	if err := m.client.Del(ctx, m.key(userID)).Err(); err != nil {
		return fmt.Errorf("session clear: %w", err)
	}
	return nil
}
