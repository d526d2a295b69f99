package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"podium/internal/domain/format"
	"podium/internal/domain/model"
)

func TestRank_CompetitionNumbering(t *testing.T) {
	f, err := format.New("default", nil)
	require.NoError(t, err)

	rows := []model.RankingRow{
		{ParticipationID: "p1", TotalPoints: 100, Tiebreak: 50},
		{ParticipationID: "p2", TotalPoints: 200, Tiebreak: 10},
		{ParticipationID: "p3", TotalPoints: 100, Tiebreak: 50},
		{ParticipationID: "p4", TotalPoints: 90, Tiebreak: 5},
	}
	ranked := Rank(f, rows)
	require.Len(t, ranked, 4)

	// 200 first, the two tied 100s share rank 2, next skips to 4.
	assert.Equal(t, "p2", ranked[0].ParticipationID)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, 2, ranked[1].Rank)
	assert.Equal(t, 2, ranked[2].Rank)
	assert.Equal(t, "p4", ranked[3].ParticipationID)
	assert.Equal(t, 4, ranked[3].Rank)
}

func TestRank_TieOrderIsStable(t *testing.T) {
	f, err := format.New("ioi", nil) // no cumtime: equal points tie outright
	require.NoError(t, err)

	rows := []model.RankingRow{
		{ParticipationID: "p1", TotalPoints: 100, Tiebreak: 0},
		{ParticipationID: "p2", TotalPoints: 100, Tiebreak: 0},
	}
	ranked := Rank(f, rows)
	assert.Equal(t, "p1", ranked[0].ParticipationID, "ties keep input order")
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, 1, ranked[1].Rank)
}

func TestRank_DisqualifiedRowsAreUnrankedAndDoNotShiftOthers(t *testing.T) {
	f, err := format.New("default", nil)
	require.NoError(t, err)

	rows := []model.RankingRow{
		{ParticipationID: "p1", TotalPoints: 300},
		{ParticipationID: "dq", TotalPoints: 500, Disqualified: true},
		{ParticipationID: "p2", TotalPoints: 200},
	}
	ranked := Rank(f, rows)
	require.Len(t, ranked, 3)

	assert.Equal(t, "p1", ranked[0].ParticipationID)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, "p2", ranked[1].ParticipationID)
	assert.Equal(t, 2, ranked[1].Rank, "disqualified row does not consume a rank number")

	assert.Equal(t, "dq", ranked[2].ParticipationID, "disqualified rows trail the list")
	assert.Zero(t, ranked[2].Rank)
	assert.True(t, ranked[2].Disqualified)
}

func TestBuildRow_CarriesTotalsAndIdentity(t *testing.T) {
	username := "alice"
	part := testParticipation("part-1", model.ModeLive)
	part.Username = &username

	res := &Result{
		Cells:       []model.ScoreCell{{ContestProblemID: "cp-1", Points: 100}},
		TotalPoints: 100,
		Tiebreak:    1200,
		Solved:      1,
	}
	row := BuildRow(part, res)
	assert.Equal(t, "part-1", row.ParticipationID)
	assert.Equal(t, "alice", row.Username)
	assert.Equal(t, float64(100), row.TotalPoints)
	assert.Equal(t, float64(1200), row.Tiebreak)
	assert.Equal(t, 1, row.Solved)
	assert.Equal(t, model.ModeLive, row.Mode)
}
