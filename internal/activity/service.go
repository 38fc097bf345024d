// AngelaMos | 2026
// service.go

package activity

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const defaultFeedSize = 20

// Service is the recent-activity feed. Recording is strictly
// best-effort: a write failure is logged and never propagated, so the
// feed can never fail a business operation.
type Service struct {
	repo    *Repository
	retain  int
	enabled bool
}

func NewService(repo *Repository, retain int, enabled bool) *Service {
	return &Service{repo: repo, retain: retain, enabled: enabled}
}

func (s *Service) Record(ctx context.Context, actor, action, detail string) {
	if !s.enabled {
		return
	}

	entry := &Entry{
		ID:        uuid.New().String(),
		Actor:     actor,
		Action:    action,
		Detail:    detail,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Append(ctx, entry, s.retain); err != nil {
		slog.Warn("activity record failed",
			"action", action,
			"error", err,
		)
	}
}

func (s *Service) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if !s.enabled {
		return []Entry{}, nil
	}

	if limit <= 0 || limit > s.retain {
		limit = defaultFeedSize
	}

	return s.repo.Recent(ctx, limit)
}
