package domain

import "time"

// User is the wellness participant record stored in PostgreSQL.
type User struct {
	ID          string
	Name        string
	Email       string
	CompanyID   string
	TeamID      string // empty when the user has not joined a team
	Points      int
	TotalPoints int
	Streak      int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CompletionRecord captures a single challenge completion. Records are
// append-only: the name, points, and streak are snapshots taken at
// completion time and never rewritten.
type CompletionRecord struct {
	ID            string
	ChallengeID   string
	ChallengeName string
	PointsEarned  int
	Streak        int
	CompletedAt   time.Time
}

// ExerciseRecord captures a single logged exercise. Value is the raw
// quantity: miles, laps, 500m intervals, or minutes depending on the type.
type ExerciseRecord struct {
	ID           string
	ExerciseType string
	Value        float64
	PointsEarned int
	LoggedAt     time.Time
}

// Redemption records a reward claim against the user's point balance.
type Redemption struct {
	RewardName  string
	PointsSpent int
	RedeemedAt  time.Time
}
