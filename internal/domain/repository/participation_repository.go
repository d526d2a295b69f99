package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"podium/internal/common"
	"podium/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type ParticipationRepository interface {
	CreateParticipation(ctx context.Context, tx *sql.Tx, p *model.ContestParticipation) error
	FindParticipationByID(ctx context.Context, id string) (*model.ContestParticipation, error)

	// FindActiveParticipation returns the user's current scoring window in
	// the contest: the non-retired live or virtual participation, newest
	// first. Spectators never receive submissions.
	FindActiveParticipation(ctx context.Context, contestID, userID string) (*model.ContestParticipation, error)
	ListParticipations(ctx context.Context, contestID string) ([]model.ContestParticipation, error)

	// LockParticipation loads the row FOR UPDATE inside tx, serializing
	// concurrent recomputes of the same participation.
	LockParticipation(ctx context.Context, tx *sql.Tx, id string) (*model.ContestParticipation, error)
	UpdateCachedTotals(ctx context.Context, tx *sql.Tx, id string, points, tiebreak float64, solved int) error

	SetDisqualified(ctx context.Context, tx *sql.Tx, id string, disqualified bool) error
	SetRetired(ctx context.Context, tx *sql.Tx, id string, retired bool) error
}

type pgParticipationRepository struct {
	db *sql.DB
}

func NewPgParticipationRepository(db *sql.DB) ParticipationRepository {
	return &pgParticipationRepository{db: db}
}

func (r *pgParticipationRepository) CreateParticipation(ctx context.Context, tx *sql.Tx, p *model.ContestParticipation) error {
	query := `INSERT INTO contest_participations (id, contest_id, user_id, mode, start_time, disqualified, retired, cached_points, cached_tiebreak, cached_solved)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, p.ID, p.ContestID, p.UserID, p.Mode, p.StartTime, p.Disqualified, p.Retired, p.CachedPoints, p.CachedTiebreak, p.CachedSolved)
	} else {
		_, err = r.db.ExecContext(ctx, query, p.ID, p.ContestID, p.UserID, p.Mode, p.StartTime, p.Disqualified, p.Retired, p.CachedPoints, p.CachedTiebreak, p.CachedSolved)
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // One live participation per (contest, user)
			return fmt.Errorf("user already joined this contest: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgParticipationRepository.CreateParticipation: %w", err)
	}
	return nil
}

const participationColumns = `p.id, p.contest_id, p.user_id, p.mode, p.start_time, p.disqualified, p.retired,
	       p.cached_points, p.cached_tiebreak, p.cached_solved, p.created_at, p.updated_at, u.username`

func scanParticipation(scanner interface{ Scan(...any) error }) (*model.ContestParticipation, error) {
	p := &model.ContestParticipation{}
	err := scanner.Scan(
		&p.ID, &p.ContestID, &p.UserID, &p.Mode, &p.StartTime, &p.Disqualified, &p.Retired,
		&p.CachedPoints, &p.CachedTiebreak, &p.CachedSolved, &p.CreatedAt, &p.UpdatedAt, &p.Username,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *pgParticipationRepository) FindParticipationByID(ctx context.Context, id string) (*model.ContestParticipation, error) {
	query := `SELECT ` + participationColumns + `
	          FROM contest_participations p LEFT JOIN users u ON p.user_id = u.id
	          WHERE p.id = $1`
	p, err := scanParticipation(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("pgParticipationRepository.FindParticipationByID: %w", err)
	}
	return p, nil
}

func (r *pgParticipationRepository) FindActiveParticipation(ctx context.Context, contestID, userID string) (*model.ContestParticipation, error) {
	query := `SELECT ` + participationColumns + `
	          FROM contest_participations p LEFT JOIN users u ON p.user_id = u.id
	          WHERE p.contest_id = $1 AND p.user_id = $2 AND p.mode IN ($3, $4) AND p.retired = FALSE
	          ORDER BY p.created_at DESC
	          LIMIT 1`
	p, err := scanParticipation(r.db.QueryRowContext(ctx, query, contestID, userID, model.ModeLive, model.ModeVirtual))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("pgParticipationRepository.FindActiveParticipation: %w", err)
	}
	return p, nil
}

func (r *pgParticipationRepository) ListParticipations(ctx context.Context, contestID string) ([]model.ContestParticipation, error) {
	query := `SELECT ` + participationColumns + `
	          FROM contest_participations p LEFT JOIN users u ON p.user_id = u.id
	          WHERE p.contest_id = $1 AND p.retired = FALSE
	          ORDER BY p.created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, contestID)
	if err != nil {
		return nil, fmt.Errorf("pgParticipationRepository.ListParticipations query: %w", err)
	}
	defer rows.Close()

	var parts []model.ContestParticipation
	for rows.Next() {
		p, err := scanParticipation(rows)
		if err != nil {
			return nil, fmt.Errorf("pgParticipationRepository.ListParticipations scan: %w", err)
		}
		parts = append(parts, *p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgParticipationRepository.ListParticipations rows.Err: %w", err)
	}
	return parts, nil
}

func (r *pgParticipationRepository) LockParticipation(ctx context.Context, tx *sql.Tx, id string) (*model.ContestParticipation, error) {
	// No username join here; FOR UPDATE must target only the locked table.
	query := `SELECT id, contest_id, user_id, mode, start_time, disqualified, retired,
	                 cached_points, cached_tiebreak, cached_solved, created_at, updated_at
	          FROM contest_participations WHERE id = $1 FOR UPDATE`
	p := &model.ContestParticipation{}
	err := tx.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.ContestID, &p.UserID, &p.Mode, &p.StartTime, &p.Disqualified, &p.Retired,
		&p.CachedPoints, &p.CachedTiebreak, &p.CachedSolved, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgParticipationRepository.LockParticipation: %w", err)
	}
	return p, nil
}

func (r *pgParticipationRepository) UpdateCachedTotals(ctx context.Context, tx *sql.Tx, id string, points, tiebreak float64, solved int) error {
	query := `UPDATE contest_participations
	          SET cached_points = $1, cached_tiebreak = $2, cached_solved = $3, updated_at = CURRENT_TIMESTAMP
	          WHERE id = $4`
	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, points, tiebreak, solved, id)
	} else {
		_, err = r.db.ExecContext(ctx, query, points, tiebreak, solved, id)
	}
	if err != nil {
		return fmt.Errorf("pgParticipationRepository.UpdateCachedTotals: %w", err)
	}
	return nil
}

func (r *pgParticipationRepository) SetDisqualified(ctx context.Context, tx *sql.Tx, id string, disqualified bool) error {
	query := `UPDATE contest_participations SET disqualified = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`
	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, disqualified, id)
	} else {
		_, err = r.db.ExecContext(ctx, query, disqualified, id)
	}
	if err != nil {
		return fmt.Errorf("pgParticipationRepository.SetDisqualified: %w", err)
	}
	return nil
}

func (r *pgParticipationRepository) SetRetired(ctx context.Context, tx *sql.Tx, id string, retired bool) error {
	query := `UPDATE contest_participations SET retired = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`
	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, retired, id)
	} else {
		_, err = r.db.ExecContext(ctx, query, retired, id)
	}
	if err != nil {
		return fmt.Errorf("pgParticipationRepository.SetRetired: %w", err)
	}
	return nil
}
