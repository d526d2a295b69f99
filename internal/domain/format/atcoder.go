package format

import "podium/internal/domain/model"

// atcoderFormat scores by highest submission. Wrong (non-IE/CE) attempts
// before the best submission accumulate a penalty, applied once in the
// total: tiebreak = latest scored cell time + penalty minutes for every
// counted wrong attempt across all scored problems.
type atcoderFormat struct {
	cfg atcoderConfig
}

type atcoderConfig struct {
	// Penalty is the minutes added per wrong attempt before the best
	// submission of each scored problem.
	Penalty int `json:"penalty" validate:"min=0"`
}

func newAtCoder(cfg map[string]any) (Format, error) {
	if err := checkKeys(cfg, "penalty"); err != nil {
		return nil, err
	}
	penalty, err := intOption(cfg, "penalty", 5)
	if err != nil {
		return nil, err
	}
	c := atcoderConfig{Penalty: penalty}
	if err := validateStruct(c); err != nil {
		return nil, err
	}
	return atcoderFormat{cfg: c}, nil
}

func (atcoderFormat) Name() string { return "atcoder" }

func (atcoderFormat) Select(history []model.ContestSubmission) []model.ContestSubmission {
	return defaultFormat{}.Select(history)
}

func (atcoderFormat) ComputeCell(p *model.ContestProblem, participationID string, windowSeconds int64, history []model.ContestSubmission) model.ScoreCell {
	cell := emptyCell(p, participationID)
	cell.SubmissionCount = len(history)

	i := bestIndex(history)
	if i < 0 {
		return cell
	}
	cell.Points = history[i].Points
	cell.Time = history[i].Elapsed
	cell.Decoration.Solved = history[i].Points >= p.Points
	cell.Decoration.Penalty = wrongBefore(history, i)
	return cell
}

func (f atcoderFormat) ComputeTotal(cells []model.ScoreCell) (float64, float64, int) {
	points, solved := sumPoints(cells)

	var lastTime int64
	wrong := 0
	for _, cell := range cells {
		// Penalties count only for problems that eventually scored.
		if cell.Points > 0 {
			if cell.Time > lastTime {
				lastTime = cell.Time
			}
			wrong += cell.Decoration.Penalty
		}
	}
	tiebreak := float64(lastTime) + float64(wrong*f.cfg.Penalty*60)
	return points, tiebreak, solved
}

func (atcoderFormat) Compare(a, b *model.RankingRow) int {
	if c := comparePoints(a, b); c != 0 {
		return c
	}
	return compareTiebreak(a, b)
}
