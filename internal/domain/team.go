package domain

import "time"

// Team aggregates the points of its members. TotalPoints is maintained
// incrementally on each member event; Standing is recomputed on demand by
// the leaderboard and written back per team.
type Team struct {
	ID          string
	Name        string
	CompanyID   string
	TotalPoints int
	Standing    int
	Members     []string
	Invites     []Invite
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Invite is a pending team invite code, consumed exactly once on acceptance.
type Invite struct {
	Code      string
	CreatedBy string
}
