package format

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"podium/internal/domain/model"
)

// batchSub builds a judged submission with a subtask breakdown.
// Each point/total pair maps to ordinal 1, 2, ...
func batchSub(minute int64, status model.SubmissionStatus, awarded float64, batches ...[2]float64) model.ContestSubmission {
	cs := model.ContestSubmission{
		ID:      fmt.Sprintf("cs-b-%d", minute),
		Points:  awarded,
		Elapsed: minute * 60,
		Submission: &model.Submission{
			Status:      status,
			SubmittedAt: testEpoch.Add(1),
		},
	}
	for i, b := range batches {
		cs.Submission.Batches = append(cs.Submission.Batches, model.BatchResult{
			Ordinal: i + 1,
			Points:  b[0],
			Total:   b[1],
		})
	}
	return cs
}

func TestNewIOI_BestPerSubtask(t *testing.T) {
	f, err := New("new_ioi", nil)
	require.NoError(t, err)

	p := problem(100)
	history := []model.ContestSubmission{
		// Subtask 1 full, subtask 2 nothing.
		batchSub(10, model.StatusWrongAnswer, 40, [2]float64{40, 40}, [2]float64{0, 60}),
		// Subtask 1 regressed, subtask 2 partial: improves the aggregate.
		batchSub(30, model.StatusWrongAnswer, 30, [2]float64{10, 40}, [2]float64{20, 60}),
		// No improvement anywhere.
		batchSub(50, model.StatusWrongAnswer, 10, [2]float64{10, 40}, [2]float64{0, 60}),
	}

	cell := f.ComputeCell(p, "part-1", 3*3600, history)
	assert.Equal(t, float64(60), cell.Points, "40 from subtask 1 plus best 20 from subtask 2")
	assert.Equal(t, int64(30*60), cell.Time, "time of the last improving submission")
	assert.Equal(t, []int{1, 2}, cell.Decoration.SubtaskOrdinals)
	assert.Equal(t, []float64{40, 20}, cell.Decoration.SubtaskPoints)
	assert.Equal(t, []float64{40, 60}, cell.Decoration.SubtaskTotals)
	assert.False(t, cell.Decoration.Solved)

	selected := f.Select(history)
	require.Len(t, selected, 2, "only improving submissions count")
	assert.Equal(t, int64(10*60), selected[0].Elapsed)
	assert.Equal(t, int64(30*60), selected[1].Elapsed)
}

func TestNewIOI_WeightScaling(t *testing.T) {
	f, err := New("new_ioi", nil)
	require.NoError(t, err)

	// Judge-side totals sum to 200, contest weight is 100: halve everything.
	p := problem(100)
	cell := f.ComputeCell(p, "part-1", 3*3600, []model.ContestSubmission{
		batchSub(20, model.StatusWrongAnswer, 70, [2]float64{140, 140}, [2]float64{0, 60}),
	})
	assert.Equal(t, float64(70), cell.Points)
	assert.Equal(t, []float64{70, 0}, cell.Decoration.SubtaskPoints)
	assert.Equal(t, []float64{70, 30}, cell.Decoration.SubtaskTotals)
}

func TestNewIOI_FullScoreSolved(t *testing.T) {
	f, err := New("new_ioi", nil)
	require.NoError(t, err)

	cell := f.ComputeCell(problem(100), "part-1", 3*3600, []model.ContestSubmission{
		batchSub(10, model.StatusAccepted, 100, [2]float64{40, 40}, [2]float64{60, 60}),
	})
	assert.Equal(t, float64(100), cell.Points)
	assert.True(t, cell.Decoration.Solved)
}

func TestNewIOI_FallsBackWithoutBatches(t *testing.T) {
	f, err := New("new_ioi", nil)
	require.NoError(t, err)

	history := []model.ContestSubmission{
		sub(10, model.StatusWrongAnswer, 40),
		sub(25, model.StatusWrongAnswer, 70),
	}
	cell := f.ComputeCell(problem(100), "part-1", 3*3600, history)
	assert.Equal(t, float64(70), cell.Points)
	assert.Equal(t, int64(25*60), cell.Time)
	assert.Empty(t, cell.Decoration.SubtaskOrdinals)
}
