package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"codeclash/internal/common"
	"codeclash/internal/domain/model"
)

// SubmissionRepository persists per-(participant, problem) submission state
// and the solved marks that gate further attempts. Callers are expected to
// serialize the check-then-act sequence for a single pair; the repository
// methods themselves are individual transitions.
type SubmissionRepository interface {
	Get(ctx context.Context, participantID string, problemID int) (*model.Submission, error)

	// Open creates the submission row if absent; calling it twice for the
	// same pair yields exactly one row.
	Open(ctx context.Context, participantID string, problemID int, now time.Time) error

	// SaveCode persists the latest code/language without touching attempt
	// counters, creating the row if absent.
	SaveCode(ctx context.Context, participantID string, problemID int, language, code string, now time.Time) error

	// RecordFailure increments wrong_attempts by exactly one and stores the
	// attempted code.
	RecordFailure(ctx context.Context, participantID string, problemID int, language, code string, now time.Time) error

	// RecordSolve sets passed_all and inserts the solved mark in one
	// transaction. Safe under duplicate calls: the mark is insert-if-absent
	// and an existing solve is never overwritten.
	RecordSolve(ctx context.Context, participantID string, problemID int, language, code string, activeSeconds float64, now time.Time) error

	// IsSolved consults the solved-mark table, the authoritative gate.
	IsSolved(ctx context.Context, participantID string, problemID int) (bool, error)

	SolvedProblemIDs(ctx context.Context, participantID string) ([]int, error)

	// ListByParticipant returns every submission of one participant joined
	// with its solved mark, ordered by problem. Admin monitoring view.
	ListByParticipant(ctx context.Context, participantID string) ([]model.SubmissionDetail, error)

	Leaderboard(ctx context.Context) ([]model.LeaderboardRow, error)
}

type pgSubmissionRepository struct {
	db *sql.DB
}

func NewPgSubmissionRepository(db *sql.DB) SubmissionRepository {
	return &pgSubmissionRepository{db: db}
}

func (r *pgSubmissionRepository) Get(ctx context.Context, participantID string, problemID int) (*model.Submission, error) {
	query := `SELECT id, participant_id, problem_id, language, code, passed_all, wrong_attempts,
	                 first_opened_at, solved_at, time_taken_seconds, last_updated
	          FROM submissions WHERE participant_id = $1 AND problem_id = $2`
	sub := &model.Submission{}
	err := r.db.QueryRowContext(ctx, query, participantID, problemID).Scan(
		&sub.ID, &sub.ParticipantID, &sub.ProblemID, &sub.Language, &sub.Code, &sub.PassedAll,
		&sub.WrongAttempts, &sub.FirstOpenedAt, &sub.SolvedAt, &sub.TimeTakenSeconds, &sub.LastUpdated,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgSubmissionRepository.Get: %w", err)
	}
	return sub, nil
}

func (r *pgSubmissionRepository) Open(ctx context.Context, participantID string, problemID int, now time.Time) error {
	query := `INSERT INTO submissions (id, participant_id, problem_id, language, code, passed_all, wrong_attempts, first_opened_at, last_updated)
	          VALUES ($1, $2, $3, '', '', FALSE, 0, $4, $4)
	          ON CONFLICT (participant_id, problem_id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, uuid.NewString(), participantID, problemID, now); err != nil {
		return fmt.Errorf("pgSubmissionRepository.Open: %w", err)
	}
	return nil
}

func (r *pgSubmissionRepository) SaveCode(ctx context.Context, participantID string, problemID int, language, code string, now time.Time) error {
	query := `INSERT INTO submissions (id, participant_id, problem_id, language, code, passed_all, wrong_attempts, first_opened_at, last_updated)
	          VALUES ($1, $2, $3, $4, $5, FALSE, 0, $6, $6)
	          ON CONFLICT (participant_id, problem_id) DO UPDATE
	          SET language = EXCLUDED.language, code = EXCLUDED.code, last_updated = EXCLUDED.last_updated`
	if _, err := r.db.ExecContext(ctx, query, uuid.NewString(), participantID, problemID, language, code, now); err != nil {
		return fmt.Errorf("pgSubmissionRepository.SaveCode: %w", err)
	}
	return nil
}

func (r *pgSubmissionRepository) RecordFailure(ctx context.Context, participantID string, problemID int, language, code string, now time.Time) error {
	query := `INSERT INTO submissions (id, participant_id, problem_id, language, code, passed_all, wrong_attempts, first_opened_at, last_updated)
	          VALUES ($1, $2, $3, $4, $5, FALSE, 1, $6, $6)
	          ON CONFLICT (participant_id, problem_id) DO UPDATE
	          SET language = EXCLUDED.language, code = EXCLUDED.code,
	              wrong_attempts = submissions.wrong_attempts + 1,
	              last_updated = EXCLUDED.last_updated`
	if _, err := r.db.ExecContext(ctx, query, uuid.NewString(), participantID, problemID, language, code, now); err != nil {
		return fmt.Errorf("pgSubmissionRepository.RecordFailure: %w", err)
	}
	return nil
}

func (r *pgSubmissionRepository) RecordSolve(ctx context.Context, participantID string, problemID int, language, code string, activeSeconds float64, now time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("pgSubmissionRepository.RecordSolve: begin: %w", err)
	}
	defer tx.Rollback()

	// COALESCE keeps the first solve's timestamp and time if this is a
	// duplicate call.
	subQuery := `INSERT INTO submissions (id, participant_id, problem_id, language, code, passed_all, wrong_attempts, first_opened_at, solved_at, time_taken_seconds, last_updated)
	             VALUES ($1, $2, $3, $4, $5, TRUE, 0, $6, $6, $7, $6)
	             ON CONFLICT (participant_id, problem_id) DO UPDATE
	             SET language = EXCLUDED.language, code = EXCLUDED.code, passed_all = TRUE,
	                 solved_at = COALESCE(submissions.solved_at, EXCLUDED.solved_at),
	                 time_taken_seconds = COALESCE(submissions.time_taken_seconds, EXCLUDED.time_taken_seconds),
	                 last_updated = EXCLUDED.last_updated`
	if _, err := tx.ExecContext(ctx, subQuery, uuid.NewString(), participantID, problemID, language, code, now, activeSeconds); err != nil {
		return fmt.Errorf("pgSubmissionRepository.RecordSolve: submission: %w", err)
	}

	markQuery := `INSERT INTO solved (participant_id, problem_id) VALUES ($1, $2)
	              ON CONFLICT (participant_id, problem_id) DO NOTHING`
	if _, err := tx.ExecContext(ctx, markQuery, participantID, problemID); err != nil {
		return fmt.Errorf("pgSubmissionRepository.RecordSolve: mark: %w", err)
	}

	return tx.Commit()
}

func (r *pgSubmissionRepository) IsSolved(ctx context.Context, participantID string, problemID int) (bool, error) {
	var solved bool
	query := `SELECT EXISTS (SELECT 1 FROM solved WHERE participant_id = $1 AND problem_id = $2)`
	if err := r.db.QueryRowContext(ctx, query, participantID, problemID).Scan(&solved); err != nil {
		return false, fmt.Errorf("pgSubmissionRepository.IsSolved: %w", err)
	}
	return solved, nil
}

func (r *pgSubmissionRepository) SolvedProblemIDs(ctx context.Context, participantID string) ([]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT problem_id FROM solved WHERE participant_id = $1 ORDER BY problem_id`, participantID)
	if err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.SolvedProblemIDs: %w", err)
	}
	defer rows.Close()

	ids := []int{}
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("pgSubmissionRepository.SolvedProblemIDs: scan: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *pgSubmissionRepository) ListByParticipant(ctx context.Context, participantID string) ([]model.SubmissionDetail, error) {
	query := `SELECT s.id, s.participant_id, s.problem_id, s.language, s.code, s.passed_all, s.wrong_attempts,
	                 s.first_opened_at, s.solved_at, s.time_taken_seconds, s.last_updated,
	                 sol.problem_id IS NOT NULL AS is_solved
	          FROM submissions s
	          LEFT JOIN solved sol
	            ON sol.participant_id = s.participant_id AND sol.problem_id = s.problem_id
	          WHERE s.participant_id = $1
	          ORDER BY s.problem_id`
	rows, err := r.db.QueryContext(ctx, query, participantID)
	if err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.ListByParticipant: %w", err)
	}
	defer rows.Close()

	details := []model.SubmissionDetail{}
	for rows.Next() {
		var d model.SubmissionDetail
		if err := rows.Scan(
			&d.ID, &d.ParticipantID, &d.ProblemID, &d.Language, &d.Code, &d.PassedAll,
			&d.WrongAttempts, &d.FirstOpenedAt, &d.SolvedAt, &d.TimeTakenSeconds, &d.LastUpdated,
			&d.IsSolved,
		); err != nil {
			return nil, fmt.Errorf("pgSubmissionRepository.ListByParticipant: scan: %w", err)
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

func (r *pgSubmissionRepository) Leaderboard(ctx context.Context) ([]model.LeaderboardRow, error) {
	query := `
	SELECT p.name, p.college, p.system_number,
	       (SELECT COUNT(*) FROM solved s WHERE s.participant_id = p.id) AS solved_count,
	       (SELECT COALESCE(SUM(sub.time_taken_seconds), 0) FROM submissions sub WHERE sub.participant_id = p.id) AS total_time,
	       (SELECT COALESCE(SUM(sub.wrong_attempts), 0) FROM submissions sub WHERE sub.participant_id = p.id) AS total_wrong
	FROM participants p
	ORDER BY solved_count DESC, total_time ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.Leaderboard: %w", err)
	}
	defer rows.Close()

	board := []model.LeaderboardRow{}
	for rows.Next() {
		var row model.LeaderboardRow
		if err := rows.Scan(&row.Name, &row.College, &row.SystemNumber, &row.SolvedCount, &row.TotalTimeSeconds, &row.TotalWrongAttempts); err != nil {
			return nil, fmt.Errorf("pgSubmissionRepository.Leaderboard: scan: %w", err)
		}
		row.Rank = len(board) + 1
		board = append(board, row)
	}
	return board, rows.Err()
}
