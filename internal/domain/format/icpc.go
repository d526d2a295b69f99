package format

import "podium/internal/domain/model"

// icpcFormat awards a problem's full weight iff any submission is accepted.
// Cell time is the first AC's elapsed time plus a configurable penalty per
// wrong attempt before it. Rows order by solved count, then points, then
// cumulative penalty time.
type icpcFormat struct {
	cfg icpcConfig
}

type icpcConfig struct {
	// Penalty is the minutes added per wrong (non-IE/CE) attempt before
	// the first AC.
	Penalty int `json:"penalty" validate:"min=0"`
}

func newICPC(cfg map[string]any) (Format, error) {
	if err := checkKeys(cfg, "penalty"); err != nil {
		return nil, err
	}
	penalty, err := intOption(cfg, "penalty", 20)
	if err != nil {
		return nil, err
	}
	c := icpcConfig{Penalty: penalty}
	if err := validateStruct(c); err != nil {
		return nil, err
	}
	return icpcFormat{cfg: c}, nil
}

func (icpcFormat) Name() string { return "icpc" }

// Select returns the first AC plus the penalized wrong attempts before it.
// An unsolved problem contributes nothing.
func (icpcFormat) Select(history []model.ContestSubmission) []model.ContestSubmission {
	ac := firstACIndex(history)
	if ac < 0 {
		return nil
	}
	counted := make([]model.ContestSubmission, 0, ac+1)
	for i := 0; i < ac; i++ {
		sub := history[i].Submission
		if sub != nil && sub.Status.CountsAsAttempt() {
			counted = append(counted, history[i])
		}
	}
	return append(counted, history[ac])
}

func (f icpcFormat) ComputeCell(p *model.ContestProblem, participationID string, windowSeconds int64, history []model.ContestSubmission) model.ScoreCell {
	cell := emptyCell(p, participationID)
	cell.SubmissionCount = len(history)

	ac := firstACIndex(history)
	if ac < 0 {
		// Unsolved: surface the attempt count, but no time and no points.
		cell.Decoration.Penalty = wrongBefore(history, len(history))
		return cell
	}

	wrong := wrongBefore(history, ac)
	cell.Points = p.Points
	cell.Time = history[ac].Elapsed + int64(wrong)*int64(f.cfg.Penalty)*60
	cell.Decoration.Solved = true
	cell.Decoration.Penalty = wrong
	return cell
}

func (icpcFormat) ComputeTotal(cells []model.ScoreCell) (float64, float64, int) {
	points, solved := sumPoints(cells)
	return points, sumScoredTimes(cells), solved
}

func (icpcFormat) Compare(a, b *model.RankingRow) int {
	switch {
	case a.Solved > b.Solved:
		return -1
	case a.Solved < b.Solved:
		return 1
	}
	if c := comparePoints(a, b); c != 0 {
		return c
	}
	return compareTiebreak(a, b)
}
