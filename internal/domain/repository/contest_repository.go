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

type ContestRepository interface {
	CreateContest(ctx context.Context, tx *sql.Tx, contest *model.Contest) error
	UpdateContest(ctx context.Context, tx *sql.Tx, contest *model.Contest) error
	FindContestByID(ctx context.Context, id string) (*model.Contest, error)
	FindContestByKey(ctx context.Context, key string) (*model.Contest, error)
	ListContests(ctx context.Context, limit, offset int) ([]model.Contest, int, error)

	ReplaceContestProblems(ctx context.Context, tx *sql.Tx, contestID string, problems []model.ContestProblem) error
	GetContestProblems(ctx context.Context, contestID string) ([]model.ContestProblem, error)
}

type pgContestRepository struct {
	db *sql.DB
}

func NewPgContestRepository(db *sql.DB) ContestRepository {
	return &pgContestRepository{db: db}
}

func (r *pgContestRepository) CreateContest(ctx context.Context, tx *sql.Tx, c *model.Contest) error {
	configJSON, err := json.Marshal(c.FormatConfig)
	if err != nil {
		return fmt.Errorf("pgContestRepository.CreateContest marshal config: %w", err)
	}

	query := `INSERT INTO contests (id, key, name, format_name, format_config, start_time, end_time, public_scoreboard, freeze_time)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	if tx != nil {
		_, err = tx.ExecContext(ctx, query, c.ID, c.Key, c.Name, c.FormatName, configJSON, c.StartTime, c.EndTime, c.PublicScoreboard, c.FreezeTime)
	} else {
		_, err = r.db.ExecContext(ctx, query, c.ID, c.Key, c.Name, c.FormatName, configJSON, c.StartTime, c.EndTime, c.PublicScoreboard, c.FreezeTime)
	}

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique constraint for key
			return fmt.Errorf("contest with this key already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgContestRepository.CreateContest: %w", err)
	}
	return nil
}

func (r *pgContestRepository) UpdateContest(ctx context.Context, tx *sql.Tx, c *model.Contest) error {
	configJSON, err := json.Marshal(c.FormatConfig)
	if err != nil {
		return fmt.Errorf("pgContestRepository.UpdateContest marshal config: %w", err)
	}

	query := `UPDATE contests SET
	            name = $1, format_name = $2, format_config = $3, start_time = $4,
	            end_time = $5, public_scoreboard = $6, freeze_time = $7, updated_at = CURRENT_TIMESTAMP
	          WHERE id = $8`

	if tx != nil {
		_, err = tx.ExecContext(ctx, query, c.Name, c.FormatName, configJSON, c.StartTime, c.EndTime, c.PublicScoreboard, c.FreezeTime, c.ID)
	} else {
		_, err = r.db.ExecContext(ctx, query, c.Name, c.FormatName, configJSON, c.StartTime, c.EndTime, c.PublicScoreboard, c.FreezeTime, c.ID)
	}
	if err != nil {
		return fmt.Errorf("pgContestRepository.UpdateContest: %w", err)
	}
	return nil
}

const contestColumns = `id, key, name, format_name, format_config, start_time, end_time, public_scoreboard, freeze_time, created_at, updated_at`

func (r *pgContestRepository) scanContest(row *sql.Row) (*model.Contest, error) {
	c := &model.Contest{}
	var configJSON []byte
	err := row.Scan(
		&c.ID, &c.Key, &c.Name, &c.FormatName, &configJSON,
		&c.StartTime, &c.EndTime, &c.PublicScoreboard, &c.FreezeTime,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	if len(configJSON) > 0 {
		if err := json.Unmarshal(configJSON, &c.FormatConfig); err != nil {
			return nil, fmt.Errorf("unmarshal format config for contest %s: %w", c.ID, err)
		}
	}
	return c, nil
}

func (r *pgContestRepository) FindContestByID(ctx context.Context, id string) (*model.Contest, error) {
	query := `SELECT ` + contestColumns + ` FROM contests WHERE id = $1`
	c, err := r.scanContest(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("pgContestRepository.FindContestByID: %w", err)
	}
	return r.attachProblems(ctx, c)
}

func (r *pgContestRepository) FindContestByKey(ctx context.Context, key string) (*model.Contest, error) {
	query := `SELECT ` + contestColumns + ` FROM contests WHERE key = $1`
	c, err := r.scanContest(r.db.QueryRowContext(ctx, query, key))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("pgContestRepository.FindContestByKey: %w", err)
	}
	return r.attachProblems(ctx, c)
}

func (r *pgContestRepository) attachProblems(ctx context.Context, c *model.Contest) (*model.Contest, error) {
	problems, err := r.GetContestProblems(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	c.Problems = problems
	return c, nil
}

func (r *pgContestRepository) ListContests(ctx context.Context, limit, offset int) ([]model.Contest, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contests`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgContestRepository.ListContests count: %w", err)
	}

	query := `SELECT ` + contestColumns + ` FROM contests ORDER BY start_time DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("pgContestRepository.ListContests query: %w", err)
	}
	defer rows.Close()

	contests := []model.Contest{}
	for rows.Next() {
		var c model.Contest
		var configJSON []byte
		if err := rows.Scan(
			&c.ID, &c.Key, &c.Name, &c.FormatName, &configJSON,
			&c.StartTime, &c.EndTime, &c.PublicScoreboard, &c.FreezeTime,
			&c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("pgContestRepository.ListContests scan: %w", err)
		}
		if len(configJSON) > 0 {
			if err := json.Unmarshal(configJSON, &c.FormatConfig); err != nil {
				return nil, 0, fmt.Errorf("pgContestRepository.ListContests unmarshal config: %w", err)
			}
		}
		contests = append(contests, c)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("pgContestRepository.ListContests rows.Err: %w", err)
	}
	return contests, total, nil
}

// ReplaceContestProblems swaps the full problem list in one pass. Contest
// problem rows keep their IDs across edits when the problem stays attached,
// so existing submissions keep pointing at the right row.
func (r *pgContestRepository) ReplaceContestProblems(ctx context.Context, tx *sql.Tx, contestID string, problems []model.ContestProblem) error {
	keep := make([]string, 0, len(problems))
	for _, p := range problems {
		keep = append(keep, p.ID)
	}
	keepJSON, err := json.Marshal(keep)
	if err != nil {
		return fmt.Errorf("pgContestRepository.ReplaceContestProblems marshal ids: %w", err)
	}

	deleteQuery := `DELETE FROM contest_problems
	                WHERE contest_id = $1 AND NOT (id = ANY(SELECT jsonb_array_elements_text($2::jsonb)))`
	if _, err := tx.ExecContext(ctx, deleteQuery, contestID, keepJSON); err != nil {
		return fmt.Errorf("pgContestRepository.ReplaceContestProblems delete: %w", err)
	}

	upsertQuery := `INSERT INTO contest_problems (id, contest_id, problem_id, points, sort_order, label, pretested, hidden_subtasks, output_comparator)
	                VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	                ON CONFLICT (id) DO UPDATE SET
	                  points = EXCLUDED.points, sort_order = EXCLUDED.sort_order, label = EXCLUDED.label,
	                  pretested = EXCLUDED.pretested, hidden_subtasks = EXCLUDED.hidden_subtasks,
	                  output_comparator = EXCLUDED.output_comparator`

	stmt, err := tx.PrepareContext(ctx, upsertQuery)
	if err != nil {
		return fmt.Errorf("pgContestRepository.ReplaceContestProblems prepare: %w", err)
	}
	defer stmt.Close()

	for _, p := range problems {
		hiddenJSON, err := json.Marshal(p.HiddenSubtasks)
		if err != nil {
			return fmt.Errorf("pgContestRepository.ReplaceContestProblems marshal hidden subtasks: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, p.ID, contestID, p.ProblemID, p.Points, p.Order, p.Label, p.Pretested, hiddenJSON, p.OutputComparator); err != nil {
			return fmt.Errorf("pgContestRepository.ReplaceContestProblems exec for problem %s: %w", p.ID, err)
		}
	}
	return nil
}

func (r *pgContestRepository) GetContestProblems(ctx context.Context, contestID string) ([]model.ContestProblem, error) {
	query := `SELECT id, contest_id, problem_id, points, sort_order, label, pretested, hidden_subtasks, output_comparator
	          FROM contest_problems WHERE contest_id = $1 ORDER BY sort_order ASC`
	rows, err := r.db.QueryContext(ctx, query, contestID)
	if err != nil {
		return nil, fmt.Errorf("pgContestRepository.GetContestProblems query: %w", err)
	}
	defer rows.Close()

	var problems []model.ContestProblem
	for rows.Next() {
		var p model.ContestProblem
		var hiddenJSON []byte
		if err := rows.Scan(&p.ID, &p.ContestID, &p.ProblemID, &p.Points, &p.Order, &p.Label, &p.Pretested, &hiddenJSON, &p.OutputComparator); err != nil {
			return nil, fmt.Errorf("pgContestRepository.GetContestProblems scan: %w", err)
		}
		if len(hiddenJSON) > 0 {
			if err := json.Unmarshal(hiddenJSON, &p.HiddenSubtasks); err != nil {
				return nil, fmt.Errorf("pgContestRepository.GetContestProblems unmarshal hidden subtasks: %w", err)
			}
		}
		problems = append(problems, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgContestRepository.GetContestProblems rows.Err: %w", err)
	}
	return problems, nil
}
