package format

import "podium/internal/domain/model"

// ultimateFormat counts each problem's last submission, nothing else.
// Useful for contests where resubmitting is meant to replace the score.
type ultimateFormat struct {
	cfg ioiConfig
}

func newUltimate(cfg map[string]any) (Format, error) {
	c, err := parseIOIConfig(cfg)
	if err != nil {
		return nil, err
	}
	return ultimateFormat{cfg: c}, nil
}

func (ultimateFormat) Name() string { return "ultimate" }

func (ultimateFormat) Select(history []model.ContestSubmission) []model.ContestSubmission {
	if len(history) == 0 {
		return nil
	}
	return history[len(history)-1:]
}

func (ultimateFormat) ComputeCell(p *model.ContestProblem, participationID string, windowSeconds int64, history []model.ContestSubmission) model.ScoreCell {
	cell := emptyCell(p, participationID)
	cell.SubmissionCount = len(history)
	if len(history) == 0 {
		return cell
	}
	last := history[len(history)-1]
	cell.Points = last.Points
	cell.Time = last.Elapsed
	cell.Decoration.Solved = last.Points >= p.Points
	return cell
}

func (f ultimateFormat) ComputeTotal(cells []model.ScoreCell) (float64, float64, int) {
	return ioiFormat{cfg: f.cfg}.ComputeTotal(cells)
}

func (f ultimateFormat) Compare(a, b *model.RankingRow) int {
	return ioiFormat{cfg: f.cfg}.Compare(a, b)
}
