package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"codeclash/internal/common"
	"codeclash/internal/domain/model"
)

type pairKey struct {
	participantID string
	problemID     int
}

// MemoryStore is an in-memory implementation of SubmissionRepository and
// ParticipantRepository, used in tests and for running without Postgres.
type MemoryStore struct {
	mu           sync.Mutex
	submissions  map[pairKey]*model.Submission
	solved       map[pairKey]bool
	participants map[string]*model.Participant
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		submissions:  make(map[pairKey]*model.Submission),
		solved:       make(map[pairKey]bool),
		participants: make(map[string]*model.Participant),
	}
}

var (
	_ SubmissionRepository  = (*MemoryStore)(nil)
	_ ParticipantRepository = (*MemoryStore)(nil)
)

func (m *MemoryStore) Get(_ context.Context, participantID string, problemID int) (*model.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub, ok := m.submissions[pairKey{participantID, problemID}]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *sub
	return &cp, nil
}

func (m *MemoryStore) Open(_ context.Context, participantID string, problemID int, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := pairKey{participantID, problemID}
	if _, exists := m.submissions[key]; exists {
		return nil
	}
	m.submissions[key] = &model.Submission{
		ID:            uuid.NewString(),
		ParticipantID: participantID,
		ProblemID:     problemID,
		FirstOpenedAt: now,
		LastUpdated:   now,
	}
	return nil
}

func (m *MemoryStore) SaveCode(_ context.Context, participantID string, problemID int, language, code string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub := m.ensureLocked(participantID, problemID, now)
	sub.Language = language
	sub.Code = code
	sub.LastUpdated = now
	return nil
}

func (m *MemoryStore) RecordFailure(_ context.Context, participantID string, problemID int, language, code string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub := m.ensureLocked(participantID, problemID, now)
	sub.Language = language
	sub.Code = code
	sub.WrongAttempts++
	sub.LastUpdated = now
	return nil
}

func (m *MemoryStore) RecordSolve(_ context.Context, participantID string, problemID int, language, code string, activeSeconds float64, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub := m.ensureLocked(participantID, problemID, now)
	sub.Language = language
	sub.Code = code
	sub.PassedAll = true
	if sub.SolvedAt == nil {
		solvedAt := now
		secs := activeSeconds
		sub.SolvedAt = &solvedAt
		sub.TimeTakenSeconds = &secs
	}
	sub.LastUpdated = now
	m.solved[pairKey{participantID, problemID}] = true
	return nil
}

func (m *MemoryStore) IsSolved(_ context.Context, participantID string, problemID int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.solved[pairKey{participantID, problemID}], nil
}

func (m *MemoryStore) SolvedProblemIDs(_ context.Context, participantID string) ([]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := []int{}
	for key, ok := range m.solved {
		if ok && key.participantID == participantID {
			ids = append(ids, key.problemID)
		}
	}
	sort.Ints(ids)
	return ids, nil
}

func (m *MemoryStore) ListByParticipant(_ context.Context, participantID string) ([]model.SubmissionDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	details := []model.SubmissionDetail{}
	for key, sub := range m.submissions {
		if key.participantID != participantID {
			continue
		}
		details = append(details, model.SubmissionDetail{
			Submission: *sub,
			IsSolved:   m.solved[key],
		})
	}
	sort.Slice(details, func(i, j int) bool { return details[i].ProblemID < details[j].ProblemID })
	return details, nil
}

func (m *MemoryStore) Leaderboard(_ context.Context) ([]model.LeaderboardRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	order := make([]*model.Participant, 0, len(m.participants))
	for _, p := range m.participants {
		order = append(order, p)
	}
	sort.Slice(order, func(i, j int) bool { return order[i].LoginTime.Before(order[j].LoginTime) })

	board := make([]model.LeaderboardRow, 0, len(order))
	for _, p := range order {
		row := model.LeaderboardRow{Name: p.Name, College: p.College, SystemNumber: p.SystemNumber}
		for key, sub := range m.submissions {
			if key.participantID != p.ID {
				continue
			}
			row.TotalWrongAttempts += sub.WrongAttempts
			if sub.TimeTakenSeconds != nil {
				row.TotalTimeSeconds += *sub.TimeTakenSeconds
			}
		}
		for key, ok := range m.solved {
			if ok && key.participantID == p.ID {
				row.SolvedCount++
			}
		}
		board = append(board, row)
	}

	sort.SliceStable(board, func(i, j int) bool {
		if board[i].SolvedCount != board[j].SolvedCount {
			return board[i].SolvedCount > board[j].SolvedCount
		}
		return board[i].TotalTimeSeconds < board[j].TotalTimeSeconds
	})
	for i := range board {
		board[i].Rank = i + 1
	}
	return board, nil
}

func (m *MemoryStore) ensureLocked(participantID string, problemID int, now time.Time) *model.Submission {
	key := pairKey{participantID, problemID}
	sub, ok := m.submissions[key]
	if !ok {
		sub = &model.Submission{
			ID:            uuid.NewString(),
			ParticipantID: participantID,
			ProblemID:     problemID,
			FirstOpenedAt: now,
		}
		m.submissions[key] = sub
	}
	return sub
}

// Participant store side.

func (m *MemoryStore) Create(_ context.Context, p *model.Participant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.participants {
		if existing.Phone == p.Phone {
			return common.ErrConflict
		}
	}
	cp := *p
	m.participants[p.ID] = &cp
	return nil
}

func (m *MemoryStore) FindByID(_ context.Context, id string) (*model.Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.participants[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MemoryStore) FindByPhone(_ context.Context, phone string) (*model.Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.participants {
		if p.Phone == phone {
			cp := *p
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (m *MemoryStore) List(_ context.Context) ([]model.ParticipantOverview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := []model.ParticipantOverview{}
	for _, p := range m.participants {
		ov := model.ParticipantOverview{Participant: *p}
		for key, ok := range m.solved {
			if ok && key.participantID == p.ID {
				ov.SolvedCount++
			}
		}
		list = append(list, ov)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].LoginTime.Before(list[j].LoginTime) })
	return list, nil
}

func (m *MemoryStore) MarkSubmitted(_ context.Context, id string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.participants[id]
	if !ok {
		return common.ErrNotFound
	}
	p.Submitted = true
	t := now
	p.SubmitTime = &t
	return nil
}
