package scoring

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"podium/internal/common"
	"podium/internal/domain/format"
	"podium/internal/domain/model"
)

var contestStart = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func testContest(formatName string, weights ...float64) *model.Contest {
	c := &model.Contest{
		ID:         "c-1",
		Key:        "test-round",
		Name:       "Test Round",
		FormatName: formatName,
		StartTime:  contestStart,
		EndTime:    contestStart.Add(3 * time.Hour),
	}
	for i, w := range weights {
		c.Problems = append(c.Problems, model.ContestProblem{
			ID:        fmt.Sprintf("cp-%d", i+1),
			ContestID: c.ID,
			ProblemID: fmt.Sprintf("p-%d", i+1),
			Points:    w,
			Order:     i + 1,
			Label:     string(rune('A' + i)),
		})
	}
	return c
}

func testParticipation(id string, mode model.ParticipationMode) *model.ContestParticipation {
	return &model.ContestParticipation{
		ID:        id,
		ContestID: "c-1",
		UserID:    "u-" + id,
		Mode:      mode,
		StartTime: contestStart,
	}
}

func judged(id, partID, problemID string, minute int64, status model.SubmissionStatus, points float64) model.ContestSubmission {
	return model.ContestSubmission{
		ID:               id,
		ParticipationID:  partID,
		ContestProblemID: problemID,
		SubmissionID:     "s-" + id,
		Points:           points,
		Elapsed:          minute * 60,
		Submission: &model.Submission{
			ID:          "s-" + id,
			Status:      status,
			SubmittedAt: contestStart.Add(time.Duration(minute) * time.Minute),
		},
	}
}

func TestAggregate_PartitionsAndOrders(t *testing.T) {
	c := testContest("default", 100, 100)
	part := testParticipation("part-1", model.ModeLive)

	subs := []model.ContestSubmission{
		judged("1", part.ID, "cp-2", 40, model.StatusWrongAnswer, 10),
		judged("2", part.ID, "cp-1", 20, model.StatusAccepted, 100),
		judged("3", part.ID, "cp-2", 10, model.StatusWrongAnswer, 30),
	}
	partitions, err := Aggregate(c, part, subs)
	require.NoError(t, err)

	require.Len(t, partitions["cp-1"], 1)
	require.Len(t, partitions["cp-2"], 2)
	assert.Equal(t, int64(10*60), partitions["cp-2"][0].Elapsed, "partitions are time-ordered")
	assert.Equal(t, int64(40*60), partitions["cp-2"][1].Elapsed)
}

func TestAggregate_ExcludesOutOfWindowAndUnjudged(t *testing.T) {
	c := testContest("default", 100)
	part := testParticipation("part-1", model.ModeLive)

	subs := []model.ContestSubmission{
		judged("1", part.ID, "cp-1", 20, model.StatusAccepted, 100),
		judged("2", part.ID, "cp-1", 200, model.StatusAccepted, 100), // past the 3h window
		judged("3", part.ID, "cp-1", 30, model.StatusPending, 0),    // not judged yet
	}
	partitions, err := Aggregate(c, part, subs)
	require.NoError(t, err)
	require.Len(t, partitions["cp-1"], 1)
	assert.Equal(t, "1", partitions["cp-1"][0].ID)
}

func TestAggregate_VirtualWindowFollowsParticipationStart(t *testing.T) {
	c := testContest("default", 100)
	part := testParticipation("part-v", model.ModeVirtual)
	part.StartTime = contestStart.Add(24 * time.Hour)

	// Elapsed is measured from the participation's own start; a virtual
	// participant gets the full contest duration.
	subs := []model.ContestSubmission{
		judged("1", part.ID, "cp-1", 170, model.StatusAccepted, 100),
		judged("2", part.ID, "cp-1", 185, model.StatusAccepted, 100), // beyond 180 minutes
	}
	partitions, err := Aggregate(c, part, subs)
	require.NoError(t, err)
	require.Len(t, partitions["cp-1"], 1)
	assert.Equal(t, "1", partitions["cp-1"][0].ID)
}

func TestAggregate_UnknownProblemIsDataIntegrityError(t *testing.T) {
	c := testContest("default", 100)
	part := testParticipation("part-1", model.ModeLive)

	_, err := Aggregate(c, part, []model.ContestSubmission{
		judged("1", part.ID, "cp-99", 20, model.StatusAccepted, 100),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrDataIntegrity)
}

func TestAggregate_ForeignParticipationIsDataIntegrityError(t *testing.T) {
	c := testContest("default", 100)
	part := testParticipation("part-1", model.ModeLive)

	_, err := Aggregate(c, part, []model.ContestSubmission{
		judged("1", "part-other", "cp-1", 20, model.StatusAccepted, 100),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrDataIntegrity)
}

func TestRecompute_Idempotent(t *testing.T) {
	c := testContest("icpc", 1, 1)
	part := testParticipation("part-1", model.ModeLive)
	f, err := format.New(c.FormatName, c.FormatConfig)
	require.NoError(t, err)

	subs := []model.ContestSubmission{
		judged("1", part.ID, "cp-1", 5, model.StatusWrongAnswer, 0),
		judged("2", part.ID, "cp-1", 20, model.StatusAccepted, 1),
		judged("3", part.ID, "cp-2", 50, model.StatusWrongAnswer, 0),
	}

	first, err := Recompute(f, c, part, subs)
	require.NoError(t, err)
	second, err := Recompute(f, c, part, subs)
	require.NoError(t, err)
	assert.Equal(t, first, second, "recomputing the same history must be byte-identical")

	assert.Equal(t, float64(1), first.TotalPoints)
	assert.Equal(t, float64(40*60), first.Tiebreak)
	assert.Equal(t, 1, first.Solved)
	require.Len(t, first.Cells, 2)
	assert.Equal(t, "cp-1", first.Cells[0].ContestProblemID, "cells follow contest problem order")
}

func TestRecompute_TotalMatchesCellSum(t *testing.T) {
	// The cached total must equal the exact sum of format-selected cell
	// points plus bonuses, for every format.
	for _, name := range format.Names() {
		c := testContest(name, 100, 100)
		part := testParticipation("part-1", model.ModeLive)
		f, err := format.New(name, nil)
		require.NoError(t, err)

		subs := []model.ContestSubmission{
			judged("1", part.ID, "cp-1", 10, model.StatusWrongAnswer, 40),
			judged("2", part.ID, "cp-1", 30, model.StatusAccepted, 100),
			judged("3", part.ID, "cp-2", 60, model.StatusWrongAnswer, 25),
		}
		res, err := Recompute(f, c, part, subs)
		require.NoError(t, err, "format %s", name)

		var sum float64
		for _, cell := range res.Cells {
			sum += cell.Points + cell.Decoration.Bonus
		}
		assert.Equal(t, sum, res.TotalPoints, "format %s", name)
	}
}

func TestRecompute_NonPositiveWeightIsRejected(t *testing.T) {
	c := testContest("default", 100)
	c.Problems[0].Points = 0
	part := testParticipation("part-1", model.ModeLive)
	f, err := format.New("default", nil)
	require.NoError(t, err)

	_, err = Recompute(f, c, part, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrDataIntegrity)
}

func TestRecompute_CellOverWeightIsScoringDefect(t *testing.T) {
	c := testContest("default", 50)
	part := testParticipation("part-1", model.ModeLive)
	f, err := format.New("default", nil)
	require.NoError(t, err)

	// Awarded points above the problem weight can only come from a bug
	// upstream; it must fail loudly instead of being clamped.
	_, err = Recompute(f, c, part, []model.ContestSubmission{
		judged("1", part.ID, "cp-1", 10, model.StatusAccepted, 80),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrScoringDefect)
}
