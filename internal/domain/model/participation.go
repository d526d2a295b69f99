package model

import "time"

type ParticipationMode string

const (
	ModeLive     ParticipationMode = "live"
	ModeVirtual  ParticipationMode = "virtual"
	ModeSpectate ParticipationMode = "spectate"
)

// ContestParticipation is one user's attempt instance at a contest.
// CachedPoints/CachedTiebreak/CachedSolved are a denormalized cache of the
// format totals — never authoritative, always recomputable from the
// submission history.
type ContestParticipation struct {
	ID        string            `json:"id"`
	ContestID string            `json:"contest_id"`
	UserID    string            `json:"user_id"`
	Mode      ParticipationMode `json:"mode"`
	StartTime time.Time         `json:"start_time"`

	Disqualified bool `json:"disqualified"`
	Retired      bool `json:"retired"` // set when a virtual attempt is reset

	CachedPoints   float64 `json:"cached_points"`
	CachedTiebreak float64 `json:"cached_tiebreak"`
	CachedSolved   int     `json:"cached_solved"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Username *string `json:"username,omitempty"` // joined for display
}

// WindowSeconds is the length of this participation's active window.
// Live participants run until the contest ends; virtual participants get
// the full contest duration from their own start; spectators are scored
// against the live window for audit views but never ranked.
func (p *ContestParticipation) WindowSeconds(c *Contest) int64 {
	switch p.Mode {
	case ModeVirtual:
		return int64(c.Duration().Seconds())
	default:
		return int64(c.EndTime.Sub(p.StartTime).Seconds())
	}
}
