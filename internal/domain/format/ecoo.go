package format

import "podium/internal/domain/model"

// ecooFormat counts each problem's last submission regardless of score
// trend, and layers two bonuses on top: a fixed bonus when the first real
// attempt is accepted, and extra points for finishing a problem early.
type ecooFormat struct {
	cfg ecooConfig
}

type ecooConfig struct {
	// Cumtime enables the cumulative-time tiebreak.
	Cumtime bool `json:"cumtime"`

	// FirstACBonus is awarded when the first non-IE/CE attempt on a
	// scored problem is accepted.
	FirstACBonus int `json:"first_ac_bonus" validate:"min=0"`

	// TimeBonus grants one extra point per TimeBonus minutes of margin
	// between a full-score submission and the window deadline. 0 disables.
	TimeBonus int `json:"time_bonus" validate:"min=0"`
}

func newECOO(cfg map[string]any) (Format, error) {
	if err := checkKeys(cfg, "cumtime", "first_ac_bonus", "time_bonus"); err != nil {
		return nil, err
	}
	cumtime, err := boolOption(cfg, "cumtime", false)
	if err != nil {
		return nil, err
	}
	firstAC, err := intOption(cfg, "first_ac_bonus", 10)
	if err != nil {
		return nil, err
	}
	timeBonus, err := intOption(cfg, "time_bonus", 5)
	if err != nil {
		return nil, err
	}
	c := ecooConfig{Cumtime: cumtime, FirstACBonus: firstAC, TimeBonus: timeBonus}
	if err := validateStruct(c); err != nil {
		return nil, err
	}
	return ecooFormat{cfg: c}, nil
}

func (ecooFormat) Name() string { return "ecoo" }

func (ecooFormat) Select(history []model.ContestSubmission) []model.ContestSubmission {
	if len(history) == 0 {
		return nil
	}
	return history[len(history)-1:]
}

func (f ecooFormat) ComputeCell(p *model.ContestProblem, participationID string, windowSeconds int64, history []model.ContestSubmission) model.ScoreCell {
	cell := emptyCell(p, participationID)
	cell.SubmissionCount = len(history)
	if len(history) == 0 {
		return cell
	}

	last := history[len(history)-1]
	cell.Points = last.Points
	cell.Time = last.Elapsed
	full := last.Points >= p.Points
	cell.Decoration.Solved = full

	if last.Points > 0 {
		// First attempt that occupies attempt semantics; IE/CE before it
		// are skipped rather than spoiling the bonus.
		for _, cs := range history {
			sub := cs.Submission
			if sub == nil || !sub.Status.CountsAsAttempt() {
				continue
			}
			if sub.Status == model.StatusAccepted {
				cell.Decoration.FirstAC = true
				cell.Decoration.Bonus += float64(f.cfg.FirstACBonus)
			}
			break
		}
	}

	if full && f.cfg.TimeBonus > 0 {
		marginMinutes := (windowSeconds - last.Elapsed) / 60
		if marginMinutes > 0 {
			cell.Decoration.Bonus += float64(marginMinutes / int64(f.cfg.TimeBonus))
		}
	}
	return cell
}

func (f ecooFormat) ComputeTotal(cells []model.ScoreCell) (float64, float64, int) {
	points, solved := sumPoints(cells)
	if !f.cfg.Cumtime {
		return points, 0, solved
	}
	return points, sumScoredTimes(cells), solved
}

func (f ecooFormat) Compare(a, b *model.RankingRow) int {
	if c := comparePoints(a, b); c != 0 {
		return c
	}
	if !f.cfg.Cumtime {
		return 0
	}
	return compareTiebreak(a, b)
}
