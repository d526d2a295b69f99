package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"podium/internal/domain/model"
)

func hiddenProblem() *model.ContestProblem {
	return &model.ContestProblem{
		ID:             "cp-1",
		Points:         100,
		HiddenSubtasks: []int{2},
	}
}

func newIOICell() model.ScoreCell {
	return model.ScoreCell{
		ParticipationID:  "part-1",
		ContestProblemID: "cp-1",
		Points:           100,
		Time:             1800,
		SubmissionCount:  2,
		Decoration: model.CellDecoration{
			Solved:          true,
			SubtaskOrdinals: []int{1, 2},
			SubtaskPoints:   []float64{70, 30},
			SubtaskTotals:   []float64{70, 30},
		},
	}
}

func TestRedactCell_MidContestNonOrganizer(t *testing.T) {
	cell := newIOICell()
	display := RedactCell(cell, hiddenProblem(), "new_ioi", true, false)

	assert.True(t, display.Redacted)
	assert.Equal(t, float64(70), display.Points, "only visible subtask points are summed")
	require.Len(t, display.HiddenSubtasks, 1)
	assert.Equal(t, 2, display.HiddenSubtasks[0].Ordinal)
	assert.Equal(t, SubtaskPass, display.HiddenSubtasks[0].Status)

	// The numeric breakdown of the hidden subtask must not leak.
	assert.Equal(t, []int{1}, display.Decoration.SubtaskOrdinals)
	assert.Equal(t, []float64{70}, display.Decoration.SubtaskPoints)

	// Redaction never mutates the stored cell.
	assert.Equal(t, float64(100), cell.Points)
	assert.Equal(t, []float64{70, 30}, cell.Decoration.SubtaskPoints)
}

func TestRedactCell_AfterContestEndShowsFullValue(t *testing.T) {
	display := RedactCell(newIOICell(), hiddenProblem(), "new_ioi", false, false)
	assert.False(t, display.Redacted)
	assert.Equal(t, float64(100), display.Points, "post-contest reveal needs no recomputation")
	assert.Empty(t, display.HiddenSubtasks)
}

func TestRedactCell_PrivilegedViewerSeesEverything(t *testing.T) {
	display := RedactCell(newIOICell(), hiddenProblem(), "new_ioi", true, true)
	assert.False(t, display.Redacted)
	assert.Equal(t, float64(100), display.Points)
}

func TestRedactCell_OtherFormatsAreNeverRedacted(t *testing.T) {
	display := RedactCell(newIOICell(), hiddenProblem(), "ioi", true, false)
	assert.False(t, display.Redacted)
}

func TestRedactCell_MarkerStatuses(t *testing.T) {
	tests := []struct {
		name   string
		points float64
		want   SubtaskStatus
	}{
		{name: "full subtask score passes", points: 30, want: SubtaskPass},
		{name: "partial subtask score", points: 12, want: SubtaskPartial},
		{name: "zero subtask score fails", points: 0, want: SubtaskFail},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cell := newIOICell()
			cell.Decoration.SubtaskPoints[1] = tc.points
			cell.Points = 70 + tc.points

			display := RedactCell(cell, hiddenProblem(), "new_ioi", true, false)
			require.Len(t, display.HiddenSubtasks, 1)
			assert.Equal(t, tc.want, display.HiddenSubtasks[0].Status)
		})
	}
}

func TestRedactCell_EmptyCellHasNothingToHide(t *testing.T) {
	cell := model.ScoreCell{ParticipationID: "part-1", ContestProblemID: "cp-1"}
	display := RedactCell(cell, hiddenProblem(), "new_ioi", true, false)
	assert.False(t, display.Redacted)
	assert.Zero(t, display.Points)
}
