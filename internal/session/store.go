// AngelaMos | 2026
// store.go

package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/modep/console/internal/core"
	"github.com/modep/console/internal/gateway"
)

const keyPrefix = "session:"

// State is everything the console remembers about one signed-in user:
// the profile returned by the backend at login time and the backend
// cookie jar replayed on every proxied call.
type State struct {
	User    gateway.User      `json:"user"`
	Cookies map[string]string `json:"cookies"`
}

type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

// Save writes the state and resets the TTL, so active sessions slide.
func (s *Store) Save(ctx context.Context, id string, state *State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal session state: %w", err)
	}

	if err := s.rdb.Set(ctx, keyPrefix+id, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, id string) (*State, error) {
	payload, err := s.rdb.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	var state State
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, fmt.Errorf("unmarshal session state: %w", err)
	}

	return &state, nil
}

// InvalidateAll drops every console session. Staff-only escape hatch
// for credential rotation on the backend side.
func (s *Store) InvalidateAll(ctx context.Context) error {
	iter := s.rdb.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("invalidate sessions: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("invalidate sessions: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
