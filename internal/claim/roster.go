// AngelaMos | 2026
// roster.go

package claim

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

// RosterStore caches the full member roster per session. The roster
// backs the live NAX lookup and the create-time eligibility gate, so
// both run without a backend round trip.
type RosterStore interface {
	Get(ctx context.Context, sessionID string) ([]gateway.Adherent, error)
	Put(ctx context.Context, sessionID string, roster []gateway.Adherent) error
	Invalidate(ctx context.Context, sessionID string) error
}

const rosterPrefix = "roster:"

type redisRoster struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRosterStore(rdb *redis.Client, ttl time.Duration) RosterStore {
	return &redisRoster{rdb: rdb, ttl: ttl}
}

func (s *redisRoster) Get(
	ctx context.Context,
	sessionID string,
) ([]gateway.Adherent, error) {
	payload, err := s.rdb.Get(ctx, rosterPrefix+sessionID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("load roster: %w", err)
	}

	var roster []gateway.Adherent
	if err := json.Unmarshal(payload, &roster); err != nil {
		return nil, fmt.Errorf("unmarshal roster: %w", err)
	}

	return roster, nil
}

func (s *redisRoster) Put(
	ctx context.Context,
	sessionID string,
	roster []gateway.Adherent,
) error {
	payload, err := json.Marshal(roster)
	if err != nil {
		return fmt.Errorf("marshal roster: %w", err)
	}

	key := rosterPrefix + sessionID
	if err := s.rdb.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("save roster: %w", err)
	}

	return nil
}

func (s *redisRoster) Invalidate(
	ctx context.Context,
	sessionID string,
) error {
	if err := s.rdb.Del(ctx, rosterPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("invalidate roster: %w", err)
	}
	return nil
}
