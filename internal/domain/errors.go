package domain

import "errors"

var (
	// ErrUserNotFound is returned when the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrTeamNotFound is returned when the referenced team does not exist.
	ErrTeamNotFound = errors.New("team not found")
	// ErrChallengeNotFound is returned when the referenced challenge does not exist.
	ErrChallengeNotFound = errors.New("challenge not found")
	// ErrRewardNotFound is returned when the referenced reward does not exist.
	ErrRewardNotFound = errors.New("reward not found")
	// ErrInviteNotFound is returned when no team holds the supplied invite code.
	ErrInviteNotFound = errors.New("invalid invite code")
	// ErrDuplicateCompletion indicates the challenge was already completed today.
	ErrDuplicateCompletion = errors.New("challenge already completed today")
	// ErrAlreadyRedeemed indicates a prior redemption exists for the reward.
	ErrAlreadyRedeemed = errors.New("reward already redeemed")
	// ErrInsufficientPoints indicates the balance is below the reward cost.
	ErrInsufficientPoints = errors.New("not enough points to redeem this reward")
	// ErrAlreadyTeamMember indicates the user already belongs to the team.
	ErrAlreadyTeamMember = errors.New("user already in team")
	// ErrNotOnTeam indicates an operation that requires team membership.
	ErrNotOnTeam = errors.New("user is not part of a team")
)

// ValidationError reports missing or malformed input. The core rejects the
// request before mutating anything.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func invalidInput(reason string) error {
	return &ValidationError{Reason: reason}
}
