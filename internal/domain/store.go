package domain

import (
	"context"
	"time"
)

// Cursor models the keyset pagination token for history listings.
type Cursor struct {
	At time.Time
	ID string
}

// UserStore provides user records and the atomic ledger writes described in
// the persistence contract: each Append* call appends the history row,
// adjusts the balances, and stamps updated-at in a single transaction,
// returning the updated user.
type UserStore interface {
	GetUser(ctx context.Context, userID string) (*User, error)
	ListCompletions(ctx context.Context, userID string) ([]CompletionRecord, error)
	ListRedemptions(ctx context.Context, userID string) ([]Redemption, error)
	AppendExercise(ctx context.Context, userID string, rec ExerciseRecord) (*User, error)
	AppendCompletion(ctx context.Context, userID string, rec CompletionRecord) (*User, error)
	AppendRedemption(ctx context.Context, userID string, rec Redemption) (*User, error)
	CompletionPage(ctx context.Context, userID string, cursor *Cursor, limit int) ([]CompletionRecord, *Cursor, error)
	ExercisePage(ctx context.Context, userID string, cursor *Cursor, limit int) ([]ExerciseRecord, *Cursor, error)
}

// TeamStore provides team records, membership writes, and the aggregate
// point increment. AddPoints is a single-team atomic update with no
// cross-document coordination.
type TeamStore interface {
	GetTeam(ctx context.Context, teamID string) (*Team, error)
	ListTeams(ctx context.Context) ([]Team, error)
	CreateTeam(ctx context.Context, team Team, creatorID string) error
	AddMember(ctx context.Context, teamID, userID string) error
	AddPoints(ctx context.Context, teamID string, delta int) error
	SetStanding(ctx context.Context, teamID string, rank int) error
	AddInvite(ctx context.Context, teamID string, invite Invite) error
	TeamByInvite(ctx context.Context, code string) (*Team, error)
	ConsumeInvite(ctx context.Context, teamID, code, userID string) error
}

// CatalogStore serves the read-only challenge and reward reference data.
type CatalogStore interface {
	ListChallenges(ctx context.Context) ([]Challenge, error)
	FindChallenge(ctx context.Context, challengeID string) (*Challenge, error)
	ListRewards(ctx context.Context) ([]Reward, error)
	FindReward(ctx context.Context, name string) (*Reward, error)
}

// Store is the full persistence surface consumed by the Service.
type Store interface {
	UserStore
	TeamStore
	CatalogStore
}
