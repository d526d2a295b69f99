package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"podium/internal/domain/model"
)

func TestDefault_BestSubmissionWins(t *testing.T) {
	f, err := New("default", nil)
	require.NoError(t, err)

	p := problem(100)
	history := []model.ContestSubmission{
		sub(10, model.StatusWrongAnswer, 40),
		sub(25, model.StatusWrongAnswer, 70),
		sub(40, model.StatusWrongAnswer, 55),
	}
	cell := f.ComputeCell(p, "part-1", 3*3600, history)
	assert.Equal(t, float64(70), cell.Points)
	assert.Equal(t, int64(25*60), cell.Time, "time is the 70-point submission's timestamp")
	assert.Equal(t, 3, cell.SubmissionCount)
	assert.False(t, cell.Decoration.Solved)

	selected := f.Select(history)
	require.Len(t, selected, 1)
	assert.Equal(t, float64(70), selected[0].Points)
}

func TestDefault_EarliestAmongTies(t *testing.T) {
	f, err := New("default", nil)
	require.NoError(t, err)

	history := []model.ContestSubmission{
		sub(10, model.StatusWrongAnswer, 70),
		sub(30, model.StatusWrongAnswer, 70),
	}
	cell := f.ComputeCell(problem(100), "part-1", 3*3600, history)
	assert.Equal(t, int64(10*60), cell.Time)
}

func TestDefault_TotalAndCompare(t *testing.T) {
	f, err := New("default", nil)
	require.NoError(t, err)

	cells := []model.ScoreCell{
		{Points: 70, Time: 1500},
		{Points: 0, Time: 0},
		{Points: 100, Time: 2400, Decoration: model.CellDecoration{Solved: true}},
	}
	points, tiebreak, solved := f.ComputeTotal(cells)
	assert.Equal(t, float64(170), points)
	assert.Equal(t, float64(3900), tiebreak, "only scored cells contribute time")
	assert.Equal(t, 1, solved)

	a := &model.RankingRow{TotalPoints: 170, Tiebreak: 3900}
	b := &model.RankingRow{TotalPoints: 170, Tiebreak: 3000}
	assert.Positive(t, f.Compare(a, b), "lower cumulative time ranks first on equal points")
	c := &model.RankingRow{TotalPoints: 180, Tiebreak: 9000}
	assert.Negative(t, f.Compare(c, a))
}

func TestIOI_TiesAllowedWithoutCumtime(t *testing.T) {
	f, err := New("ioi", nil)
	require.NoError(t, err)

	cells := []model.ScoreCell{{Points: 100, Time: 1200}}
	_, tiebreak, _ := f.ComputeTotal(cells)
	assert.Zero(t, tiebreak)

	a := &model.RankingRow{TotalPoints: 100, Tiebreak: 0}
	b := &model.RankingRow{TotalPoints: 100, Tiebreak: 0}
	assert.Zero(t, f.Compare(a, b))
}

func TestIOI_CumtimeTiebreak(t *testing.T) {
	f, err := New("ioi", map[string]any{"cumtime": true})
	require.NoError(t, err)

	cells := []model.ScoreCell{{Points: 100, Time: 1200}, {Points: 30, Time: 600}}
	_, tiebreak, _ := f.ComputeTotal(cells)
	assert.Equal(t, float64(1800), tiebreak)

	a := &model.RankingRow{TotalPoints: 130, Tiebreak: 1800}
	b := &model.RankingRow{TotalPoints: 130, Tiebreak: 2000}
	assert.Negative(t, f.Compare(a, b))
}

func TestUltimate_LastSubmissionCounts(t *testing.T) {
	f, err := New("ultimate", nil)
	require.NoError(t, err)

	p := problem(100)
	history := []model.ContestSubmission{
		sub(10, model.StatusAccepted, 100),
		sub(50, model.StatusWrongAnswer, 20),
	}
	cell := f.ComputeCell(p, "part-1", 3*3600, history)
	assert.Equal(t, float64(20), cell.Points, "score goes down when the last submission is worse")
	assert.Equal(t, int64(50*60), cell.Time)
	assert.False(t, cell.Decoration.Solved)

	selected := f.Select(history)
	require.Len(t, selected, 1)
	assert.Equal(t, int64(50*60), selected[0].Elapsed)
}
