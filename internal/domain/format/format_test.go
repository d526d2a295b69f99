package format

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"podium/internal/common"
	"podium/internal/domain/model"
)

var testEpoch = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// sub builds a judged contest submission at the given elapsed minute.
func sub(minute int64, status model.SubmissionStatus, points float64) model.ContestSubmission {
	return model.ContestSubmission{
		ID:      fmt.Sprintf("cs-%d", minute),
		Points:  points,
		Elapsed: minute * 60,
		Submission: &model.Submission{
			Status:      status,
			SubmittedAt: testEpoch.Add(time.Duration(minute) * time.Minute),
		},
	}
}

func problem(weight float64) *model.ContestProblem {
	return &model.ContestProblem{ID: "cp-1", ContestID: "c-1", ProblemID: "p-1", Points: weight, Label: "A"}
}

func TestNew_UnknownFormatName(t *testing.T) {
	_, err := New("codeforces", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestNew_AllRegisteredNames(t *testing.T) {
	expected := []string{"atcoder", "default", "ecoo", "icpc", "ioi", "new_ioi", "ultimate"}
	assert.Equal(t, expected, Names())

	for _, name := range Names() {
		f, err := New(name, nil)
		require.NoError(t, err, "format %s must construct with empty config", name)
		assert.Equal(t, name, f.Name())
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		cfg     map[string]any
		wantErr bool
	}{
		{name: "icpc custom penalty", format: "icpc", cfg: map[string]any{"penalty": 10}},
		{name: "icpc penalty as json number", format: "icpc", cfg: map[string]any{"penalty": float64(10)}},
		{name: "icpc negative penalty", format: "icpc", cfg: map[string]any{"penalty": -1}, wantErr: true},
		{name: "icpc fractional penalty", format: "icpc", cfg: map[string]any{"penalty": 2.5}, wantErr: true},
		{name: "icpc penalty wrong type", format: "icpc", cfg: map[string]any{"penalty": "20"}, wantErr: true},
		{name: "icpc unknown key", format: "icpc", cfg: map[string]any{"penatly": 20}, wantErr: true},
		{name: "ioi cumtime", format: "ioi", cfg: map[string]any{"cumtime": true}},
		{name: "ioi cumtime wrong type", format: "ioi", cfg: map[string]any{"cumtime": 1}, wantErr: true},
		{name: "ioi rejects penalty option", format: "ioi", cfg: map[string]any{"penalty": 20}, wantErr: true},
		{name: "default rejects any option", format: "default", cfg: map[string]any{"cumtime": true}, wantErr: true},
		{name: "ecoo full config", format: "ecoo", cfg: map[string]any{"cumtime": true, "first_ac_bonus": 5, "time_bonus": 0}},
		{name: "ecoo negative bonus", format: "ecoo", cfg: map[string]any{"first_ac_bonus": -5}, wantErr: true},
		{name: "atcoder penalty", format: "atcoder", cfg: map[string]any{"penalty": 5}},
		{name: "ultimate cumtime", format: "ultimate", cfg: map[string]any{"cumtime": false}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateConfig(tc.format, tc.cfg)
			if tc.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, common.ErrValidation)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestEveryFormat_EmptyHistoryYieldsZeroCell(t *testing.T) {
	p := problem(100)
	for _, name := range Names() {
		f, err := New(name, nil)
		require.NoError(t, err)

		cell := f.ComputeCell(p, "part-1", 3*3600, nil)
		assert.Zero(t, cell.Points, "format %s", name)
		assert.Zero(t, cell.Time, "format %s", name)
		assert.Zero(t, cell.SubmissionCount, "format %s", name)
		assert.False(t, cell.Decoration.Solved, "format %s", name)
		assert.Empty(t, f.Select(nil), "format %s", name)

		_, _, solved := f.ComputeTotal([]model.ScoreCell{cell})
		assert.Zero(t, solved, "format %s: empty problem must not count as solved", name)
	}
}

// Adding a strictly better submission must never lower the total.
func TestEveryFormat_Monotonicity(t *testing.T) {
	p := problem(100)
	base := []model.ContestSubmission{
		sub(5, model.StatusWrongAnswer, 0),
		sub(20, model.StatusWrongAnswer, 40),
	}
	improved := append(append([]model.ContestSubmission{}, base...), sub(40, model.StatusAccepted, 100))

	for _, name := range Names() {
		f, err := New(name, nil)
		require.NoError(t, err)

		before := f.ComputeCell(p, "part-1", 3*3600, base)
		after := f.ComputeCell(p, "part-1", 3*3600, improved)
		totalBefore, _, _ := f.ComputeTotal([]model.ScoreCell{before})
		totalAfter, _, _ := f.ComputeTotal([]model.ScoreCell{after})
		assert.GreaterOrEqual(t, totalAfter, totalBefore, "format %s", name)
	}
}

// ComputeCell must be a pure function of its history.
func TestEveryFormat_CellIdempotence(t *testing.T) {
	p := problem(100)
	history := []model.ContestSubmission{
		sub(5, model.StatusWrongAnswer, 0),
		sub(12, model.StatusCompilationError, 0),
		sub(20, model.StatusAccepted, 100),
	}
	for _, name := range Names() {
		f, err := New(name, nil)
		require.NoError(t, err)

		first := f.ComputeCell(p, "part-1", 3*3600, history)
		second := f.ComputeCell(p, "part-1", 3*3600, history)
		assert.Equal(t, first, second, "format %s", name)
	}
}
