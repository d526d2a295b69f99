package format

import "podium/internal/domain/model"

// ioiFormat scores by highest submission like the default format, but time
// only matters when cumtime is enabled; otherwise equal totals tie.
type ioiFormat struct {
	cfg ioiConfig
}

type ioiConfig struct {
	// Cumtime enables the cumulative-time tiebreak. Off by default:
	// IOI boards allow ties.
	Cumtime bool `json:"cumtime"`
}

func parseIOIConfig(cfg map[string]any) (ioiConfig, error) {
	if err := checkKeys(cfg, "cumtime"); err != nil {
		return ioiConfig{}, err
	}
	cumtime, err := boolOption(cfg, "cumtime", false)
	if err != nil {
		return ioiConfig{}, err
	}
	return ioiConfig{Cumtime: cumtime}, nil
}

func newIOI(cfg map[string]any) (Format, error) {
	c, err := parseIOIConfig(cfg)
	if err != nil {
		return nil, err
	}
	return ioiFormat{cfg: c}, nil
}

func (ioiFormat) Name() string { return "ioi" }

func (ioiFormat) Select(history []model.ContestSubmission) []model.ContestSubmission {
	return defaultFormat{}.Select(history)
}

func (ioiFormat) ComputeCell(p *model.ContestProblem, participationID string, windowSeconds int64, history []model.ContestSubmission) model.ScoreCell {
	return defaultFormat{}.ComputeCell(p, participationID, windowSeconds, history)
}

func (f ioiFormat) ComputeTotal(cells []model.ScoreCell) (float64, float64, int) {
	points, solved := sumPoints(cells)
	if !f.cfg.Cumtime {
		return points, 0, solved
	}
	return points, sumScoredTimes(cells), solved
}

func (f ioiFormat) Compare(a, b *model.RankingRow) int {
	if c := comparePoints(a, b); c != 0 {
		return c
	}
	if !f.cfg.Cumtime {
		return 0
	}
	return compareTiebreak(a, b)
}
