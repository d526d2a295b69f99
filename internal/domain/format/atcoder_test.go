package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"podium/internal/domain/model"
)

func TestAtCoder_PenaltyAddsToTotalTime(t *testing.T) {
	f, err := New("atcoder", map[string]any{"penalty": 5})
	require.NoError(t, err)

	// Problem A solved at minute 10 cleanly; problem B solved at minute 30
	// after one wrong attempt. total_time = max(10, 30) + 5 = 35 minutes.
	cellA := f.ComputeCell(problem(100), "part-1", 2*3600, []model.ContestSubmission{
		sub(10, model.StatusAccepted, 100),
	})
	cellB := f.ComputeCell(problem(100), "part-1", 2*3600, []model.ContestSubmission{
		sub(20, model.StatusWrongAnswer, 0),
		sub(30, model.StatusAccepted, 100),
	})

	assert.Equal(t, 0, cellA.Decoration.Penalty)
	assert.Equal(t, 1, cellB.Decoration.Penalty)

	points, tiebreak, solved := f.ComputeTotal([]model.ScoreCell{cellA, cellB})
	assert.Equal(t, float64(200), points)
	assert.Equal(t, float64(35*60), tiebreak)
	assert.Equal(t, 2, solved)
}

func TestAtCoder_WrongAttemptsOnUnsolvedProblemsDoNotCount(t *testing.T) {
	f, err := New("atcoder", nil)
	require.NoError(t, err)

	solvedCell := f.ComputeCell(problem(100), "part-1", 2*3600, []model.ContestSubmission{
		sub(15, model.StatusAccepted, 100),
	})
	unsolvedCell := f.ComputeCell(problem(100), "part-1", 2*3600, []model.ContestSubmission{
		sub(5, model.StatusWrongAnswer, 0),
		sub(40, model.StatusWrongAnswer, 0),
	})

	_, tiebreak, _ := f.ComputeTotal([]model.ScoreCell{solvedCell, unsolvedCell})
	assert.Equal(t, float64(15*60), tiebreak, "zero-point problems contribute neither time nor penalty")
}

func TestAtCoder_PenaltyCountsOnlyBeforeBest(t *testing.T) {
	f, err := New("atcoder", nil)
	require.NoError(t, err)

	cell := f.ComputeCell(problem(100), "part-1", 2*3600, []model.ContestSubmission{
		sub(5, model.StatusWrongAnswer, 0),
		sub(10, model.StatusCompilationError, 0),
		sub(20, model.StatusWrongAnswer, 60),
		sub(35, model.StatusAccepted, 100),
		sub(40, model.StatusWrongAnswer, 0),
	})
	assert.Equal(t, float64(100), cell.Points)
	assert.Equal(t, int64(35*60), cell.Time)
	assert.Equal(t, 2, cell.Decoration.Penalty, "CE and post-best attempts excluded")
}
