package format

import (
	"sort"

	"podium/internal/domain/model"
)

// newIOIFormat scores each subtask independently: the cell carries the sum
// of the best score ever achieved on each subtask, scaled to the problem
// weight. Cell time is the elapsed time of the last submission that
// improved any subtask. The per-subtask breakdown is stored on the cell so
// that hidden-subtask redaction can happen purely at presentation time.
type newIOIFormat struct {
	cfg ioiConfig
}

func newNewIOI(cfg map[string]any) (Format, error) {
	c, err := parseIOIConfig(cfg)
	if err != nil {
		return nil, err
	}
	return newIOIFormat{cfg: c}, nil
}

func (newIOIFormat) Name() string { return "new_ioi" }

// subtaskFold walks a history accumulating per-subtask bests. It reports,
// per submission, whether that submission improved any subtask.
func subtaskFold(history []model.ContestSubmission, improved func(i int, cs model.ContestSubmission)) (ordinals []int, bests, totals map[int]float64) {
	bests = make(map[int]float64)
	totals = make(map[int]float64)
	for i, cs := range history {
		sub := cs.Submission
		if sub == nil {
			continue
		}
		improvedAny := false
		for _, b := range sub.Batches {
			if _, seen := totals[b.Ordinal]; !seen {
				ordinals = append(ordinals, b.Ordinal)
			}
			// Totals may shift across rejudges; the latest verdict wins.
			totals[b.Ordinal] = b.Total
			if b.Points > bests[b.Ordinal] {
				bests[b.Ordinal] = b.Points
				improvedAny = true
			}
		}
		if improvedAny && improved != nil {
			improved(i, cs)
		}
	}
	sort.Ints(ordinals)
	return ordinals, bests, totals
}

func historyHasBatches(history []model.ContestSubmission) bool {
	for _, cs := range history {
		if cs.Submission != nil && len(cs.Submission.Batches) > 0 {
			return true
		}
	}
	return false
}

func (newIOIFormat) Select(history []model.ContestSubmission) []model.ContestSubmission {
	if !historyHasBatches(history) {
		return defaultFormat{}.Select(history)
	}
	var counted []model.ContestSubmission
	subtaskFold(history, func(i int, cs model.ContestSubmission) {
		counted = append(counted, cs)
	})
	return counted
}

func (newIOIFormat) ComputeCell(p *model.ContestProblem, participationID string, windowSeconds int64, history []model.ContestSubmission) model.ScoreCell {
	if !historyHasBatches(history) {
		// Problems judged without subtask batches degrade to plain
		// best-submission selection.
		return defaultFormat{}.ComputeCell(p, participationID, windowSeconds, history)
	}

	cell := emptyCell(p, participationID)
	cell.SubmissionCount = len(history)

	var lastImprove int64
	ordinals, bests, totals := subtaskFold(history, func(i int, cs model.ContestSubmission) {
		lastImprove = cs.Elapsed
	})

	var rawBest, rawTotal float64
	for _, o := range ordinals {
		rawBest += bests[o]
		rawTotal += totals[o]
	}
	if rawTotal <= 0 {
		return cell
	}

	scale := p.Points / rawTotal
	dec := &cell.Decoration
	dec.SubtaskOrdinals = make([]int, len(ordinals))
	dec.SubtaskPoints = make([]float64, len(ordinals))
	dec.SubtaskTotals = make([]float64, len(ordinals))
	for i, o := range ordinals {
		dec.SubtaskOrdinals[i] = o
		dec.SubtaskPoints[i] = bests[o] * scale
		dec.SubtaskTotals[i] = totals[o] * scale
	}

	cell.Points = rawBest * scale
	cell.Time = lastImprove
	dec.Solved = rawBest == rawTotal
	return cell
}

func (f newIOIFormat) ComputeTotal(cells []model.ScoreCell) (float64, float64, int) {
	return ioiFormat{cfg: f.cfg}.ComputeTotal(cells)
}

func (f newIOIFormat) Compare(a, b *model.RankingRow) int {
	return ioiFormat{cfg: f.cfg}.Compare(a, b)
}
