package model

import "time"

type Contest struct {
	ID           string         `json:"id"`
	Key          string         `json:"key"` // slug, unique
	Name         string         `json:"name"`
	FormatName   string         `json:"format_name"`
	FormatConfig map[string]any `json:"format_config,omitempty"`
	StartTime    time.Time      `json:"start_time"`
	EndTime      time.Time      `json:"end_time"`

	PublicScoreboard bool       `json:"public_scoreboard"`
	FreezeTime       *time.Time `json:"freeze_time,omitempty"` // presentation metadata, not used by scoring

	Problems []ContestProblem `json:"problems,omitempty"` // in display order

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Duration is the live contest window length, also the length of every
// virtual participation window.
func (c *Contest) Duration() time.Duration {
	return c.EndTime.Sub(c.StartTime)
}

// IsRunning reports whether the live window is open at t. Hidden-subtask
// redaction applies only while this is true.
func (c *Contest) IsRunning(t time.Time) bool {
	return !t.Before(c.StartTime) && t.Before(c.EndTime)
}

// ProblemByID looks up a contest problem by its row ID.
func (c *Contest) ProblemByID(id string) *ContestProblem {
	for i := range c.Problems {
		if c.Problems[i].ID == id {
			return &c.Problems[i]
		}
	}
	return nil
}

type ContestProblem struct {
	ID        string `json:"id"`
	ContestID string `json:"contest_id"`
	ProblemID string `json:"problem_id"`

	Points    float64 `json:"points"` // weight, must be > 0
	Order     int     `json:"order"`
	Label     string  `json:"label"`
	Pretested bool    `json:"pretested"`

	// HiddenSubtasks lists batch ordinals redacted from ineligible viewers
	// while the contest runs (new_ioi formats only).
	HiddenSubtasks []int `json:"hidden_subtasks,omitempty"`

	// OutputComparator optionally overrides the problem's output comparison
	// for this contest. Consumed by the grading subsystem, carried here as
	// catalog metadata.
	OutputComparator *string `json:"output_comparator,omitempty"`
}

// SubtaskHidden reports whether the given batch ordinal is redacted
// during the live window.
func (p *ContestProblem) SubtaskHidden(ordinal int) bool {
	for _, h := range p.HiddenSubtasks {
		if h == ordinal {
			return true
		}
	}
	return false
}
