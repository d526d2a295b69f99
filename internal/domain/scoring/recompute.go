package scoring

import (
	"fmt"

	"podium/internal/common"
	"podium/internal/domain/format"
	"podium/internal/domain/model"
)

// Result is one participation's fully recomputed scoring state: cells in
// contest problem order plus the format totals. Recompute is a pure
// function of (history, format, config); running it any number of times on
// the same inputs yields identical results.
type Result struct {
	Cells       []model.ScoreCell
	TotalPoints float64
	Tiebreak    float64
	Solved      int
}

// Recompute derives a participation's cells and totals from its raw
// submission history. Impossible results — a cell above its problem
// weight, a negative total — are reported as scoring defects instead of
// being clamped, so real bugs cannot hide behind a sane-looking board.
func Recompute(f format.Format, c *model.Contest, part *model.ContestParticipation, subs []model.ContestSubmission) (*Result, error) {
	partitions, err := Aggregate(c, part, subs)
	if err != nil {
		return nil, err
	}

	window := part.WindowSeconds(c)
	cells := make([]model.ScoreCell, 0, len(c.Problems))
	for i := range c.Problems {
		p := &c.Problems[i]
		if p.Points <= 0 {
			return nil, fmt.Errorf("contest problem %s has non-positive weight %v: %w", p.ID, p.Points, common.ErrDataIntegrity)
		}
		cell := f.ComputeCell(p, part.ID, window, partitions[p.ID])
		if cell.Points < 0 || cell.Points > p.Points {
			return nil, fmt.Errorf("cell for problem %s computed %v points against weight %v: %w",
				p.ID, cell.Points, p.Points, common.ErrScoringDefect)
		}
		cells = append(cells, cell)
	}

	points, tiebreak, solved := f.ComputeTotal(cells)
	if points < 0 {
		return nil, fmt.Errorf("participation %s computed negative total %v: %w", part.ID, points, common.ErrScoringDefect)
	}

	return &Result{
		Cells:       cells,
		TotalPoints: points,
		Tiebreak:    tiebreak,
		Solved:      solved,
	}, nil
}
