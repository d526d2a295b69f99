package model

import "time"

const (
	RoleAdmin = "admin"
	RoleJudge = "judge"
	RoleUser  = "user"
)

// User is the identity record joined into scoreboard rows. Account
// management itself lives in a separate service; the engine only reads.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Privileged reports whether the role may see redacted scoreboard data
// and trigger administrative rescores.
func Privileged(role string) bool {
	return role == RoleAdmin || role == RoleJudge
}
