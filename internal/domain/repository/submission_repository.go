package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"podium/internal/common"
	"podium/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type SubmissionRepository interface {
	CreateContestSubmission(ctx context.Context, tx *sql.Tx, cs *model.ContestSubmission) error
	FindBySubmissionID(ctx context.Context, submissionID string) (*model.ContestSubmission, error)
	UpdateAwardedPoints(ctx context.Context, tx *sql.Tx, id string, points float64) error

	// ListByParticipation returns the full history joined with judged
	// verdicts, in submission order. This is the scoring input.
	ListByParticipation(ctx context.Context, participationID string) ([]model.ContestSubmission, error)

	UpdateJudgedVerdict(ctx context.Context, tx *sql.Tx, submissionID string, status model.SubmissionStatus, casePoints, caseTotal float64, batches []model.BatchResult) error
}

type pgSubmissionRepository struct {
	db *sql.DB
}

func NewPgSubmissionRepository(db *sql.DB) SubmissionRepository {
	return &pgSubmissionRepository{db: db}
}

func (r *pgSubmissionRepository) CreateContestSubmission(ctx context.Context, tx *sql.Tx, cs *model.ContestSubmission) error {
	query := `INSERT INTO contest_submissions (id, participation_id, contest_problem_id, submission_id, points, elapsed)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, cs.ID, cs.ParticipationID, cs.ContestProblemID, cs.SubmissionID, cs.Points, cs.Elapsed)
	} else {
		_, err = r.db.ExecContext(ctx, query, cs.ID, cs.ParticipationID, cs.ContestProblemID, cs.SubmissionID, cs.Points, cs.Elapsed)
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // One contest row per submission
			return fmt.Errorf("submission already recorded for a contest: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgSubmissionRepository.CreateContestSubmission: %w", err)
	}
	return nil
}

func (r *pgSubmissionRepository) FindBySubmissionID(ctx context.Context, submissionID string) (*model.ContestSubmission, error) {
	query := `SELECT cs.id, cs.participation_id, cs.contest_problem_id, cs.submission_id, cs.points, cs.elapsed
	          FROM contest_submissions cs WHERE cs.submission_id = $1`
	cs := &model.ContestSubmission{}
	err := r.db.QueryRowContext(ctx, query, submissionID).Scan(
		&cs.ID, &cs.ParticipationID, &cs.ContestProblemID, &cs.SubmissionID, &cs.Points, &cs.Elapsed,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgSubmissionRepository.FindBySubmissionID: %w", err)
	}
	return cs, nil
}

func (r *pgSubmissionRepository) UpdateAwardedPoints(ctx context.Context, tx *sql.Tx, id string, points float64) error {
	query := `UPDATE contest_submissions SET points = $1 WHERE id = $2`
	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, points, id)
	} else {
		_, err = r.db.ExecContext(ctx, query, points, id)
	}
	if err != nil {
		return fmt.Errorf("pgSubmissionRepository.UpdateAwardedPoints: %w", err)
	}
	return nil
}

func (r *pgSubmissionRepository) ListByParticipation(ctx context.Context, participationID string) ([]model.ContestSubmission, error) {
	query := `SELECT cs.id, cs.participation_id, cs.contest_problem_id, cs.submission_id, cs.points, cs.elapsed,
	                 s.id, s.user_id, s.problem_id, s.language_slug, s.status, s.case_points, s.case_total,
	                 s.batches, s.wall_time_ms, s.submitted_at, s.judged_at
	          FROM contest_submissions cs
	          JOIN submissions s ON cs.submission_id = s.id
	          WHERE cs.participation_id = $1
	          ORDER BY cs.elapsed ASC, s.submitted_at ASC`
	rows, err := r.db.QueryContext(ctx, query, participationID)
	if err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.ListByParticipation query: %w", err)
	}
	defer rows.Close()

	var subs []model.ContestSubmission
	for rows.Next() {
		var cs model.ContestSubmission
		var s model.Submission
		var batchesJSON []byte
		if err := rows.Scan(
			&cs.ID, &cs.ParticipationID, &cs.ContestProblemID, &cs.SubmissionID, &cs.Points, &cs.Elapsed,
			&s.ID, &s.UserID, &s.ProblemID, &s.LanguageSlug, &s.Status, &s.CasePoints, &s.CaseTotal,
			&batchesJSON, &s.WallTimeMs, &s.SubmittedAt, &s.JudgedAt,
		); err != nil {
			return nil, fmt.Errorf("pgSubmissionRepository.ListByParticipation scan: %w", err)
		}
		if len(batchesJSON) > 0 {
			if err := json.Unmarshal(batchesJSON, &s.Batches); err != nil {
				return nil, fmt.Errorf("pgSubmissionRepository.ListByParticipation unmarshal batches for %s: %w", s.ID, err)
			}
		}
		cs.Submission = &s
		subs = append(subs, cs)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.ListByParticipation rows.Err: %w", err)
	}
	return subs, nil
}

func (r *pgSubmissionRepository) UpdateJudgedVerdict(ctx context.Context, tx *sql.Tx, submissionID string, status model.SubmissionStatus, casePoints, caseTotal float64, batches []model.BatchResult) error {
	batchesJSON, err := json.Marshal(batches)
	if err != nil {
		return fmt.Errorf("pgSubmissionRepository.UpdateJudgedVerdict marshal batches: %w", err)
	}

	query := `UPDATE submissions
	          SET status = $1, case_points = $2, case_total = $3, batches = $4, judged_at = CURRENT_TIMESTAMP
	          WHERE id = $5`
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, status, casePoints, caseTotal, batchesJSON, submissionID)
	} else {
		_, err = r.db.ExecContext(ctx, query, status, casePoints, caseTotal, batchesJSON, submissionID)
	}
	if err != nil {
		return fmt.Errorf("pgSubmissionRepository.UpdateJudgedVerdict: %w", err)
	}
	return nil
}
