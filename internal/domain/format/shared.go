package format

import "podium/internal/domain/model"

// Helpers shared by the format strategies. Histories are time-ordered and
// contain only judged, in-window submissions.

// emptyCell is the zero-submission cell: points=0, time=0, never solved.
func emptyCell(p *model.ContestProblem, participationID string) model.ScoreCell {
	return model.ScoreCell{
		ParticipationID:  participationID,
		ContestProblemID: p.ID,
	}
}

// bestIndex returns the index of the submission with the highest awarded
// points, taking the earliest among ties, or -1 for an empty history.
func bestIndex(history []model.ContestSubmission) int {
	best := -1
	for i := range history {
		if best == -1 || history[i].Points > history[best].Points {
			best = i
		}
	}
	return best
}

// firstACIndex returns the index of the first accepted submission, or -1.
func firstACIndex(history []model.ContestSubmission) int {
	for i := range history {
		if history[i].Submission != nil && history[i].Submission.Status == model.StatusAccepted {
			return i
		}
	}
	return -1
}

// wrongBefore counts non-accepted attempts strictly before index until.
// IE/CE verdicts keep their position in the order but never count.
func wrongBefore(history []model.ContestSubmission, until int) int {
	wrong := 0
	for i := 0; i < until; i++ {
		sub := history[i].Submission
		if sub == nil || !sub.Status.CountsAsAttempt() {
			continue
		}
		if sub.Status != model.StatusAccepted {
			wrong++
		}
	}
	return wrong
}

// sumScoredTimes is the cumulative-time tiebreak: the sum of cell times
// over cells that scored any points.
func sumScoredTimes(cells []model.ScoreCell) float64 {
	var sum float64
	for _, cell := range cells {
		if cell.Points > 0 {
			sum += float64(cell.Time)
		}
	}
	return sum
}

// sumPoints folds cell points plus any format bonuses into the total.
func sumPoints(cells []model.ScoreCell) (points float64, solved int) {
	for _, cell := range cells {
		points += cell.Points + cell.Decoration.Bonus
		if cell.Decoration.Solved {
			solved++
		}
	}
	return points, solved
}

// comparePoints orders by total points descending; zero when equal.
func comparePoints(a, b *model.RankingRow) int {
	switch {
	case a.TotalPoints > b.TotalPoints:
		return -1
	case a.TotalPoints < b.TotalPoints:
		return 1
	}
	return 0
}

// compareTiebreak orders by tiebreak ascending; zero when equal.
func compareTiebreak(a, b *model.RankingRow) int {
	switch {
	case a.Tiebreak < b.Tiebreak:
		return -1
	case a.Tiebreak > b.Tiebreak:
		return 1
	}
	return 0
}
