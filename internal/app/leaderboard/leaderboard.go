// Package leaderboard derives rankings from accumulated submission state.
// Pure read-side computation; a short-lived redis cache keeps it cheap when
// an audience page polls it, and a cache failure just falls through to the
// store.
package leaderboard

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"codeclash/internal/domain/model"
	"codeclash/internal/domain/repository"
)

const cacheKey = "leaderboard:ranked"

type Service struct {
	subs   repository.SubmissionRepository
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewService builds the aggregator. rdb may be nil to disable caching.
func NewService(subs repository.SubmissionRepository, rdb *redis.Client, ttl time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{subs: subs, rdb: rdb, ttl: ttl, logger: logger}
}

func (s *Service) Rank(ctx context.Context) ([]model.LeaderboardRow, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var rows []model.LeaderboardRow
			if err := json.Unmarshal(cached, &rows); err == nil {
				return rows, nil
			}
		}
	}

	rows, err := s.subs.Leaderboard(ctx)
	if err != nil {
		return nil, err
	}

	if s.rdb != nil && s.ttl > 0 {
		if data, err := json.Marshal(rows); err == nil {
			if err := s.rdb.Set(ctx, cacheKey, data, s.ttl).Err(); err != nil {
				s.logger.Debug("leaderboard cache write failed", "err", err)
			}
		}
	}
	return rows, nil
}
