package model

import "time"

type SubmissionStatus string

const (
	StatusPending             SubmissionStatus = "Pending"
	StatusInQueue             SubmissionStatus = "InQueue"
	StatusProcessing          SubmissionStatus = "Processing"
	StatusAccepted            SubmissionStatus = "Accepted"
	StatusWrongAnswer         SubmissionStatus = "WrongAnswer"
	StatusTimeLimitExceeded   SubmissionStatus = "TimeLimitExceeded"
	StatusMemoryLimitExceeded SubmissionStatus = "MemoryLimitExceeded"
	StatusOutputLimitExceeded SubmissionStatus = "OutputLimitExceeded"
	StatusCompilationError    SubmissionStatus = "CompilationError"
	StatusRuntimeError        SubmissionStatus = "RuntimeError"
	StatusInternalError       SubmissionStatus = "InternalError" // Error in the grading system itself
)

// IsJudged reports whether the verdict is final. Only judged submissions
// enter the scoring pipeline; rejudges arrive as a fresh final verdict.
func (s SubmissionStatus) IsJudged() bool {
	switch s {
	case StatusPending, StatusInQueue, StatusProcessing:
		return false
	}
	return true
}

// CountsAsAttempt reports whether a verdict occupies attempt semantics for
// penalty and bonus rules. Compilation and internal errors never count as
// attempts, though they keep their position in the ordered history.
func (s SubmissionStatus) CountsAsAttempt() bool {
	if !s.IsJudged() {
		return false
	}
	return s != StatusCompilationError && s != StatusInternalError
}

// Submission is the immutable judged result owned by the grading subsystem.
// The engine only ever reads it; a rejudge replaces the verdict wholesale
// and fires a recompute rather than mutating scoring history.
type Submission struct {
	ID           string           `json:"id"`
	UserID       string           `json:"user_id"`
	ProblemID    string           `json:"problem_id"`
	LanguageSlug string           `json:"language_slug"`
	Status       SubmissionStatus `json:"status"`
	CasePoints   float64          `json:"case_points"` // judged points across all batches
	CaseTotal    float64          `json:"case_total"`  // maximum judgeable points
	Batches      []BatchResult    `json:"batches,omitempty"`
	WallTimeMs   int              `json:"wall_time_ms"`
	SubmittedAt  time.Time        `json:"submitted_at"`
	JudgedAt     *time.Time       `json:"judged_at,omitempty"`
}

// BatchResult is one subtask's judged outcome. Ordinals are 1-based and
// stable across rejudges of the same problem version.
type BatchResult struct {
	Ordinal int     `json:"ordinal"`
	Points  float64 `json:"points"`
	Total   float64 `json:"total"`
}

// ContestSubmission ties one judged Submission to exactly one
// (participation, contest problem) pair. Points carries the value awarded
// for this attempt, already scaled to the contest problem's weight.
type ContestSubmission struct {
	ID               string  `json:"id"`
	ParticipationID  string  `json:"participation_id"`
	ContestProblemID string  `json:"contest_problem_id"`
	SubmissionID     string  `json:"submission_id"`
	Points           float64 `json:"points"`
	Elapsed          int64   `json:"elapsed"` // seconds since participation start

	Submission *Submission `json:"submission,omitempty"` // joined for scoring/display
}
