package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// State is the step of a dialogue the chat is in.
type State string

const (
	StateIdle             State = ""
	StateAwaitingProof    State = "awaiting_proof"
	StateEditCard         State = "editing_card"
	StateEditPhone        State = "editing_phone"
	StateEditAmount       State = "editing_amount"
	StateEditStartMessage State = "editing_start_message"
	StateAddAdmin         State = "adding_admin"
)

// StateStore keeps the dialogue state of each chat.
type StateStore interface {
	Get(ctx context.Context, chatID int64) (State, error)
	Set(ctx context.Context, chatID int64, state State) error
	Clear(ctx context.Context, chatID int64) error
}

// MemoryStates keeps dialogue state in process memory. It is lost on restart.
type MemoryStates struct {
	mu     sync.Mutex
	states map[int64]State
}

func NewMemoryStates() *MemoryStates {
	return &MemoryStates{states: make(map[int64]State)}
}

func (m *MemoryStates) Get(_ context.Context, chatID int64) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.states[chatID], nil
}

func (m *MemoryStates) Set(_ context.Context, chatID int64, state State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if state == StateIdle {
		delete(m.states, chatID)
		return nil
	}
	m.states[chatID] = state
	return nil
}

func (m *MemoryStates) Clear(ctx context.Context, chatID int64) error {
	return m.Set(ctx, chatID, StateIdle)
}

// stateTTL bounds how long an abandoned dialogue survives in Redis.
const stateTTL = 24 * time.Hour

// RedisStates keeps dialogue state in Redis so it survives restarts.
type RedisStates struct {
	client *redis.Client
	prefix string
}

// OpenRedisStates connects to Redis and pings it.
func OpenRedisStates(ctx context.Context, addr, password string, db int) (*RedisStates, error) {
	if addr == "" {
		return nil, fmt.Errorf("empty redis addr")
	}
	c := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return NewRedisStates(c), nil
}

func NewRedisStates(client *redis.Client) *RedisStates {
	return &RedisStates{client: client, prefix: "ostiarius:state:"}
}

func (r *RedisStates) key(chatID int64) string {
	return r.prefix + strconv.FormatInt(chatID, 10)
}

func (r *RedisStates) Get(ctx context.Context, chatID int64) (State, error) {
	value, err := r.client.Get(ctx, r.key(chatID)).Result()
	if errors.Is(err, redis.Nil) {
		return StateIdle, nil
	}
	if err != nil {
		return StateIdle, err
	}
	return State(value), nil
}

func (r *RedisStates) Set(ctx context.Context, chatID int64, state State) error {
	if state == StateIdle {
		return r.Clear(ctx, chatID)
	}
	return r.client.Set(ctx, r.key(chatID), string(state), stateTTL).Err()
}

func (r *RedisStates) Clear(ctx context.Context, chatID int64) error {
	return r.client.Del(ctx, r.key(chatID)).Err()
}

func (r *RedisStates) Close() error {
	return r.client.Close()
}
