package format

import "podium/internal/domain/model"

// defaultFormat scores each problem by its highest-scoring submission,
// taking the earliest among ties. No penalties, no bonuses; the tiebreak
// is the cumulative time of scored problems.
type defaultFormat struct{}

func newDefault(cfg map[string]any) (Format, error) {
	if err := checkKeys(cfg); err != nil {
		return nil, err
	}
	return defaultFormat{}, nil
}

func (defaultFormat) Name() string { return "default" }

func (defaultFormat) Select(history []model.ContestSubmission) []model.ContestSubmission {
	i := bestIndex(history)
	if i < 0 {
		return nil
	}
	return history[i : i+1]
}

func (defaultFormat) ComputeCell(p *model.ContestProblem, participationID string, windowSeconds int64, history []model.ContestSubmission) model.ScoreCell {
	cell := emptyCell(p, participationID)
	cell.SubmissionCount = len(history)

	i := bestIndex(history)
	if i < 0 {
		return cell
	}
	cell.Points = history[i].Points
	cell.Time = history[i].Elapsed
	cell.Decoration.Solved = history[i].Points >= p.Points
	return cell
}

func (defaultFormat) ComputeTotal(cells []model.ScoreCell) (float64, float64, int) {
	points, solved := sumPoints(cells)
	return points, sumScoredTimes(cells), solved
}

func (defaultFormat) Compare(a, b *model.RankingRow) int {
	if c := comparePoints(a, b); c != 0 {
		return c
	}
	return compareTiebreak(a, b)
}
