package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"codeclash/internal/common"
	"codeclash/internal/domain/model"
)

// ParticipantRepository is the participant store collaborator. The grading
// engine trusts its rows as already-authenticated identity.
type ParticipantRepository interface {
	Create(ctx context.Context, p *model.Participant) error
	FindByID(ctx context.Context, id string) (*model.Participant, error)
	FindByPhone(ctx context.Context, phone string) (*model.Participant, error)
	MarkSubmitted(ctx context.Context, id string, now time.Time) error

	// List returns every participant with their solved count, in login
	// order. Admin monitoring view.
	List(ctx context.Context) ([]model.ParticipantOverview, error)
}

type pgParticipantRepository struct {
	db *sql.DB
}

func NewPgParticipantRepository(db *sql.DB) ParticipantRepository {
	return &pgParticipantRepository{db: db}
}

func (r *pgParticipantRepository) Create(ctx context.Context, p *model.Participant) error {
	query := `INSERT INTO participants (id, name, college, system_number, phone, login_time, submitted)
	          VALUES ($1, $2, $3, $4, $5, $6, FALSE)`
	_, err := r.db.ExecContext(ctx, query, p.ID, p.Name, p.College, p.SystemNumber, p.Phone, p.LoginTime)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique phone
			return fmt.Errorf("participant with this phone already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgParticipantRepository.Create: %w", err)
	}
	return nil
}

func (r *pgParticipantRepository) FindByID(ctx context.Context, id string) (*model.Participant, error) {
	return r.findBy(ctx, `WHERE id = $1`, id)
}

func (r *pgParticipantRepository) FindByPhone(ctx context.Context, phone string) (*model.Participant, error) {
	return r.findBy(ctx, `WHERE phone = $1`, phone)
}

func (r *pgParticipantRepository) findBy(ctx context.Context, where string, arg interface{}) (*model.Participant, error) {
	query := `SELECT id, name, college, system_number, phone, login_time, submitted, submit_time
	          FROM participants ` + where
	p := &model.Participant{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&p.ID, &p.Name, &p.College, &p.SystemNumber, &p.Phone, &p.LoginTime, &p.Submitted, &p.SubmitTime,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgParticipantRepository.find: %w", err)
	}
	return p, nil
}

func (r *pgParticipantRepository) List(ctx context.Context) ([]model.ParticipantOverview, error) {
	query := `SELECT p.id, p.name, p.college, p.system_number, p.phone, p.login_time, p.submitted, p.submit_time,
	                 (SELECT COUNT(*) FROM solved s WHERE s.participant_id = p.id) AS solved_count
	          FROM participants p
	          ORDER BY p.login_time`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgParticipantRepository.List: %w", err)
	}
	defer rows.Close()

	list := []model.ParticipantOverview{}
	for rows.Next() {
		var ov model.ParticipantOverview
		if err := rows.Scan(
			&ov.ID, &ov.Name, &ov.College, &ov.SystemNumber, &ov.Phone,
			&ov.LoginTime, &ov.Submitted, &ov.SubmitTime, &ov.SolvedCount,
		); err != nil {
			return nil, fmt.Errorf("pgParticipantRepository.List: scan: %w", err)
		}
		list = append(list, ov)
	}
	return list, rows.Err()
}

func (r *pgParticipantRepository) MarkSubmitted(ctx context.Context, id string, now time.Time) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE participants SET submitted = TRUE, submit_time = $1 WHERE id = $2`, now, id); err != nil {
		return fmt.Errorf("pgParticipantRepository.MarkSubmitted: %w", err)
	}
	return nil
}
