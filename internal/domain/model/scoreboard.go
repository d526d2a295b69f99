package model

// ScoreCell is the computed result for one (participation, problem) pair.
// It is derived state: recomputing it from the same submission history must
// yield an identical value.
type ScoreCell struct {
	ParticipationID  string  `json:"participation_id"`
	ContestProblemID string  `json:"contest_problem_id"`
	Points           float64 `json:"points"`
	Time             int64   `json:"time"` // seconds since participation start
	SubmissionCount  int     `json:"submission_count"`

	Decoration CellDecoration `json:"decoration"`
}

// CellDecoration carries format-specific display data alongside the cell.
// Formats populate only the fields their rules define.
type CellDecoration struct {
	Solved  bool    `json:"solved,omitempty"`
	Penalty int     `json:"penalty,omitempty"` // wrong attempts counted against the cell
	Bonus   float64 `json:"bonus,omitempty"`   // extra points beyond the problem weight
	FirstAC bool    `json:"first_ac,omitempty"`

	// Per-subtask breakdown, set by the new_ioi format. Parallel slices
	// keyed by batch ordinal. Always the true values; redaction happens at
	// the presentation boundary.
	SubtaskOrdinals []int     `json:"subtask_ordinals,omitempty"`
	SubtaskPoints   []float64 `json:"subtask_points,omitempty"`
	SubtaskTotals   []float64 `json:"subtask_totals,omitempty"`
}

// RankingRow aggregates a participation's cells into totals and a sortable
// key. Cells follow the contest's problem order.
type RankingRow struct {
	Rank            int               `json:"rank,omitempty"` // 0 = unranked (disqualified/spectator)
	ParticipationID string            `json:"participation_id"`
	UserID          string            `json:"user_id"`
	Username        string            `json:"username,omitempty"`
	Mode            ParticipationMode `json:"mode"`
	Disqualified    bool              `json:"disqualified"`

	Cells       []ScoreCell `json:"cells"`
	TotalPoints float64     `json:"total_points"`
	Tiebreak    float64     `json:"tiebreak"`
	Solved      int         `json:"solved"`
}
