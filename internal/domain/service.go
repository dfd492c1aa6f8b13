// Package domain implements the points, streak, and leaderboard engine.
package domain

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"example.com/wellness/internal/observability"
)

// Option configures optional behaviour for the Service.
type Option func(*Service)

// WithClock overrides the time source, primarily for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithLogger overrides the logger used to report best-effort failures.
func WithLogger(logger *log.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// Service orchestrates the wellness workflows over the store.
type Service struct {
	store  Store
	now    func() time.Time
	logger *log.Logger
}

// NewService constructs a Service.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		now:    func() time.Time { return time.Now().UTC() },
		logger: log.New(log.Writer(), "[ledger] ", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LogExerciseInput captures the payload from the API layer.
type LogExerciseInput struct {
	UserID       string
	ExerciseType string
	Value        float64
}

// ExerciseResult reports the outcome of a logged exercise.
type ExerciseResult struct {
	ExerciseType string
	Value        float64
	PointsEarned int
	Points       int
	TotalPoints  int
}

// LogExercise scores an exercise, appends the record, and credits both
// balances. The team aggregate update is best-effort and never fails the
// user-facing operation.
func (s *Service) LogExercise(ctx context.Context, input LogExerciseInput) (*ExerciseResult, error) {
	if strings.TrimSpace(input.UserID) == "" {
		return nil, invalidInput("user_id is required")
	}
	if strings.TrimSpace(input.ExerciseType) == "" {
		return nil, invalidInput("exercise_type is required")
	}
	if input.Value <= 0 {
		return nil, invalidInput("value must be > 0")
	}

	user, err := s.store.GetUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	points := PointsForExercise(input.ExerciseType, input.Value)
	rec := ExerciseRecord{
		ID:           uuid.NewString(),
		ExerciseType: input.ExerciseType,
		Value:        input.Value,
		PointsEarned: points,
		LoggedAt:     s.now(),
	}

	updated, err := s.store.AppendExercise(ctx, user.ID, rec)
	if err != nil {
		return nil, err
	}
	observability.RecordPointsApplied("exercise", points)

	s.addTeamPoints(ctx, updated, points)

	return &ExerciseResult{
		ExerciseType: input.ExerciseType,
		Value:        input.Value,
		PointsEarned: points,
		Points:       updated.Points,
		TotalPoints:  updated.TotalPoints,
	}, nil
}

// CompleteChallengeInput captures the payload from the API layer.
type CompleteChallengeInput struct {
	UserID      string
	ChallengeID string
}

// ChallengeResult reports the outcome of a challenge completion.
type ChallengeResult struct {
	ChallengeID   string
	ChallengeName string
	PointsEarned  int
	CurrentStreak int
	TotalPoints   int
}

// CompleteChallenge rejects same-day repeats of the same challenge, computes
// the streak and the streak-boosted points, and appends the completion.
func (s *Service) CompleteChallenge(ctx context.Context, input CompleteChallengeInput) (*ChallengeResult, error) {
	if strings.TrimSpace(input.UserID) == "" {
		return nil, invalidInput("user_id is required")
	}
	if strings.TrimSpace(input.ChallengeID) == "" {
		return nil, invalidInput("challenge_id is required")
	}

	user, err := s.store.GetUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	challenge, err := s.store.FindChallenge(ctx, input.ChallengeID)
	if err != nil {
		return nil, err
	}
	if challenge == nil {
		return nil, ErrChallengeNotFound
	}

	history, err := s.store.ListCompletions(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if CompletedToday(history, challenge.ID, now) {
		return nil, ErrDuplicateCompletion
	}

	streak := NextStreak(history, now)
	points := PointsForChallenge(challenge.Points, streak)

	rec := CompletionRecord{
		ID:            uuid.NewString(),
		ChallengeID:   challenge.ID,
		ChallengeName: challenge.Name,
		PointsEarned:  points,
		Streak:        streak,
		CompletedAt:   now,
	}

	updated, err := s.store.AppendCompletion(ctx, user.ID, rec)
	if err != nil {
		return nil, err
	}
	observability.RecordPointsApplied("challenge", points)

	s.addTeamPoints(ctx, updated, points)

	return &ChallengeResult{
		ChallengeID:   challenge.ID,
		ChallengeName: challenge.Name,
		PointsEarned:  points,
		CurrentStreak: streak,
		TotalPoints:   updated.TotalPoints,
	}, nil
}

// addTeamPoints applies the member's delta to the team aggregate. The two
// writes are independent atomic operations; a failure here is surfaced
// through the log and metrics while the committed outbox event preserves
// the delta for reconciliation.
func (s *Service) addTeamPoints(ctx context.Context, user *User, delta int) {
	if user.TeamID == "" {
		return
	}
	if err := s.store.AddPoints(ctx, user.TeamID, delta); err != nil {
		observability.RecordTeamUpdateFailure()
		s.logger.Printf("team aggregate update failed (team=%s, user=%s, delta=%d): %v", user.TeamID, user.ID, delta, err)
	}
}

// RedeemInput captures the payload from the API layer.
type RedeemInput struct {
	UserID     string
	RewardName string
}

// RedeemResult reports the outcome of a redemption.
type RedeemResult struct {
	RewardName      string
	PointsSpent     int
	RemainingPoints int
}

// RedeemReward debits total points against a catalog entry. Each reward can
// be claimed at most once per user; only the total balance moves.
func (s *Service) RedeemReward(ctx context.Context, input RedeemInput) (*RedeemResult, error) {
	if strings.TrimSpace(input.UserID) == "" {
		return nil, invalidInput("user_id is required")
	}
	if strings.TrimSpace(input.RewardName) == "" {
		return nil, invalidInput("reward_name is required")
	}

	user, err := s.store.GetUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	reward, err := s.store.FindReward(ctx, input.RewardName)
	if err != nil {
		return nil, err
	}
	if reward == nil {
		return nil, ErrRewardNotFound
	}

	redemptions, err := s.store.ListRedemptions(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	for _, r := range redemptions {
		if r.RewardName == reward.Name {
			return nil, ErrAlreadyRedeemed
		}
	}

	if user.TotalPoints < reward.PointsRequired {
		return nil, ErrInsufficientPoints
	}

	rec := Redemption{
		RewardName:  reward.Name,
		PointsSpent: reward.PointsRequired,
		RedeemedAt:  s.now(),
	}

	updated, err := s.store.AppendRedemption(ctx, user.ID, rec)
	if err != nil {
		return nil, err
	}
	observability.RecordRedemption(reward.PointsRequired)

	return &RedeemResult{
		RewardName:      reward.Name,
		PointsSpent:     reward.PointsRequired,
		RemainingPoints: updated.TotalPoints,
	}, nil
}

// Leaderboard recomputes team standings from current aggregates and writes
// the rank back per team. Ranks are written individually; a concurrent
// writer can interleave, which is acceptable for a ranking display.
func (s *Service) Leaderboard(ctx context.Context) ([]Standing, error) {
	teams, err := s.store.ListTeams(ctx)
	if err != nil {
		return nil, err
	}

	standings := RecomputeStandings(teams)
	for _, standing := range standings {
		if err := s.store.SetStanding(ctx, standing.TeamID, standing.Rank); err != nil {
			return nil, err
		}
	}
	return standings, nil
}

// UserPointsView packages a user's balance with their redemption history.
type UserPointsView struct {
	UserID      string
	TotalPoints int
	Redemptions []Redemption
}

// UserPoints fetches the user's total balance and redeemed rewards.
func (s *Service) UserPoints(ctx context.Context, userID string) (*UserPointsView, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, invalidInput("user_id is required")
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	redemptions, err := s.store.ListRedemptions(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &UserPointsView{
		UserID:      user.ID,
		TotalPoints: user.TotalPoints,
		Redemptions: redemptions,
	}, nil
}

// TeamPoints fetches a team's aggregate total.
func (s *Service) TeamPoints(ctx context.Context, teamID string) (*Team, error) {
	if strings.TrimSpace(teamID) == "" {
		return nil, invalidInput("team_id is required")
	}
	team, err := s.store.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, ErrTeamNotFound
	}
	return team, nil
}

// ListChallenges returns the challenge catalog.
func (s *Service) ListChallenges(ctx context.Context) ([]Challenge, error) {
	return s.store.ListChallenges(ctx)
}

// ListRewards returns the reward catalog.
func (s *Service) ListRewards(ctx context.Context) ([]Reward, error) {
	return s.store.ListRewards(ctx)
}

// Redemptions returns the user's redemption history.
func (s *Service) Redemptions(ctx context.Context, userID string) ([]Redemption, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, invalidInput("user_id is required")
	}
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return s.store.ListRedemptions(ctx, user.ID)
}

// CompletionHistory lists completions newest first with cursor pagination.
func (s *Service) CompletionHistory(ctx context.Context, userID string, cursor *Cursor, limit int) ([]CompletionRecord, *Cursor, error) {
	return s.store.CompletionPage(ctx, userID, cursor, limit)
}

// ExerciseHistory lists exercises newest first with cursor pagination.
func (s *Service) ExerciseHistory(ctx context.Context, userID string, cursor *Cursor, limit int) ([]ExerciseRecord, *Cursor, error) {
	return s.store.ExercisePage(ctx, userID, cursor, limit)
}

// CreateTeamInput captures the payload from the API layer.
type CreateTeamInput struct {
	Name      string
	CompanyID string
	CreatorID string
}

// CreateTeam creates a team with the creator as the first member. The
// creator's team reference and the member list are written together.
func (s *Service) CreateTeam(ctx context.Context, input CreateTeamInput) (*Team, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, invalidInput("name is required")
	}
	if strings.TrimSpace(input.CompanyID) == "" {
		return nil, invalidInput("company_id is required")
	}
	if strings.TrimSpace(input.CreatorID) == "" {
		return nil, invalidInput("creator_id is required")
	}

	user, err := s.store.GetUser(ctx, input.CreatorID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	now := s.now()
	team := Team{
		ID:        uuid.NewString(),
		Name:      input.Name,
		CompanyID: input.CompanyID,
		Members:   []string{user.ID},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateTeam(ctx, team, user.ID); err != nil {
		return nil, err
	}
	return &team, nil
}

// JoinTeamInput captures the payload from the API layer.
type JoinTeamInput struct {
	UserID string
	TeamID string
}

// JoinTeam adds a user to an existing team, keeping the member list and the
// user's team reference consistent.
func (s *Service) JoinTeam(ctx context.Context, input JoinTeamInput) error {
	if strings.TrimSpace(input.UserID) == "" {
		return invalidInput("user_id is required")
	}
	if strings.TrimSpace(input.TeamID) == "" {
		return invalidInput("team_id is required")
	}

	user, err := s.store.GetUser(ctx, input.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	team, err := s.store.GetTeam(ctx, input.TeamID)
	if err != nil {
		return err
	}
	if team == nil {
		return ErrTeamNotFound
	}

	for _, member := range team.Members {
		if member == user.ID {
			return ErrAlreadyTeamMember
		}
	}

	return s.store.AddMember(ctx, team.ID, user.ID)
}

// CreateInvite issues a pending invite code for the user's team.
func (s *Service) CreateInvite(ctx context.Context, userID string) (*Invite, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, invalidInput("user_id is required")
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.TeamID == "" {
		return nil, ErrNotOnTeam
	}

	invite := Invite{
		Code:      uuid.NewString(),
		CreatedBy: user.ID,
	}
	if err := s.store.AddInvite(ctx, user.TeamID, invite); err != nil {
		return nil, err
	}
	return &invite, nil
}

// AcceptInvite joins the user to the team holding the invite code and
// consumes the code so it cannot be reused.
func (s *Service) AcceptInvite(ctx context.Context, userID, code string) (*Team, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, invalidInput("user_id is required")
	}
	if strings.TrimSpace(code) == "" {
		return nil, invalidInput("invite_code is required")
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	team, err := s.store.TeamByInvite(ctx, code)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, ErrInviteNotFound
	}

	if err := s.store.ConsumeInvite(ctx, team.ID, code, user.ID); err != nil {
		return nil, err
	}
	return team, nil
}
