// Package contest is the contest clock collaborator: a start/stop flag and
// start time shared via redis, plus the per-participant finished mark.
package contest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"codeclash/internal/common"
	"codeclash/internal/domain/repository"
)

const (
	keyActive    = "contest:active"
	keyStartTime = "contest:start_time"
)

type Status struct {
	Active          bool   `json:"active"`
	StartTime       string `json:"start_time"`
	DurationSeconds int    `json:"duration"`
	ForceEnded      bool   `json:"force_ended"`
}

type Service struct {
	rdb          *redis.Client
	participants repository.ParticipantRepository
	duration     time.Duration
	now          func() time.Time
}

func NewService(rdb *redis.Client, participants repository.ParticipantRepository, duration time.Duration) *Service {
	return &Service{
		rdb:          rdb,
		participants: participants,
		duration:     duration,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) Start(ctx context.Context) (string, error) {
	startTime := s.now().Format(time.RFC3339)
	if err := s.rdb.Set(ctx, keyStartTime, startTime, 0).Err(); err != nil {
		return "", fmt.Errorf("contest start: %w", err)
	}
	if err := s.rdb.Set(ctx, keyActive, "1", 0).Err(); err != nil {
		return "", fmt.Errorf("contest start: %w", err)
	}
	return startTime, nil
}

func (s *Service) Stop(ctx context.Context) error {
	if err := s.rdb.Set(ctx, keyActive, "0", 0).Err(); err != nil {
		return fmt.Errorf("contest stop: %w", err)
	}
	return nil
}

func (s *Service) IsActive(ctx context.Context) (bool, error) {
	val, err := s.rdb.Get(ctx, keyActive).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("contest state: %w", err)
	}
	return val == "1", nil
}

// Status reports the clock plus, when a participant is known, whether they
// already ended their own test.
func (s *Service) Status(ctx context.Context, participantID string) (Status, error) {
	active, err := s.IsActive(ctx)
	if err != nil {
		return Status{}, err
	}
	startTime, err := s.rdb.Get(ctx, keyStartTime).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return Status{}, fmt.Errorf("contest state: %w", err)
	}

	status := Status{
		Active:          active,
		StartTime:       startTime,
		DurationSeconds: int(s.duration.Seconds()),
	}

	if participantID != "" {
		p, err := s.participants.FindByID(ctx, participantID)
		if err != nil && !errors.Is(err, common.ErrNotFound) {
			return Status{}, err
		}
		if p != nil && p.Submitted {
			status.ForceEnded = true
		}
	}
	return status, nil
}

// EndTest marks the participant as finished; further logins are rejected.
func (s *Service) EndTest(ctx context.Context, participantID string) error {
	return s.participants.MarkSubmitted(ctx, participantID, s.now())
}
