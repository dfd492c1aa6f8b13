package domain

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"
)

// fakeStore is an in-memory Store for exercising the service workflows.
type fakeStore struct {
	users       map[string]*User
	teams       map[string]*Team
	challenges  map[string]*Challenge
	rewards     map[string]*Reward
	completions map[string][]CompletionRecord
	exercises   map[string][]ExerciseRecord
	redemptions map[string][]Redemption
	invites     map[string]string // code -> team id

	addPointsErr error
	teamDeltas   map[string]int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:       make(map[string]*User),
		teams:       make(map[string]*Team),
		challenges:  make(map[string]*Challenge),
		rewards:     make(map[string]*Reward),
		completions: make(map[string][]CompletionRecord),
		exercises:   make(map[string][]ExerciseRecord),
		redemptions: make(map[string][]Redemption),
		invites:     make(map[string]string),
		teamDeltas:  make(map[string]int),
	}
}

func (f *fakeStore) GetUser(ctx context.Context, userID string) (*User, error) {
	user, ok := f.users[userID]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (f *fakeStore) ListCompletions(ctx context.Context, userID string) ([]CompletionRecord, error) {
	return f.completions[userID], nil
}

func (f *fakeStore) ListRedemptions(ctx context.Context, userID string) ([]Redemption, error) {
	return f.redemptions[userID], nil
}

func (f *fakeStore) AppendExercise(ctx context.Context, userID string, rec ExerciseRecord) (*User, error) {
	user := f.users[userID]
	f.exercises[userID] = append(f.exercises[userID], rec)
	user.Points += rec.PointsEarned
	user.TotalPoints += rec.PointsEarned
	user.UpdatedAt = rec.LoggedAt
	copied := *user
	return &copied, nil
}

func (f *fakeStore) AppendCompletion(ctx context.Context, userID string, rec CompletionRecord) (*User, error) {
	user := f.users[userID]
	f.completions[userID] = append(f.completions[userID], rec)
	user.Points += rec.PointsEarned
	user.TotalPoints += rec.PointsEarned
	user.Streak = rec.Streak
	user.UpdatedAt = rec.CompletedAt
	copied := *user
	return &copied, nil
}

func (f *fakeStore) AppendRedemption(ctx context.Context, userID string, rec Redemption) (*User, error) {
	user := f.users[userID]
	f.redemptions[userID] = append(f.redemptions[userID], rec)
	user.TotalPoints -= rec.PointsSpent
	user.UpdatedAt = rec.RedeemedAt
	copied := *user
	return &copied, nil
}

func (f *fakeStore) CompletionPage(ctx context.Context, userID string, cursor *Cursor, limit int) ([]CompletionRecord, *Cursor, error) {
	return f.completions[userID], nil, nil
}

func (f *fakeStore) ExercisePage(ctx context.Context, userID string, cursor *Cursor, limit int) ([]ExerciseRecord, *Cursor, error) {
	return f.exercises[userID], nil, nil
}

func (f *fakeStore) GetTeam(ctx context.Context, teamID string) (*Team, error) {
	team, ok := f.teams[teamID]
	if !ok {
		return nil, nil
	}
	copied := *team
	return &copied, nil
}

func (f *fakeStore) ListTeams(ctx context.Context) ([]Team, error) {
	out := make([]Team, 0, len(f.teams))
	for _, team := range f.teams {
		out = append(out, *team)
	}
	return out, nil
}

func (f *fakeStore) CreateTeam(ctx context.Context, team Team, creatorID string) error {
	copied := team
	f.teams[team.ID] = &copied
	f.users[creatorID].TeamID = team.ID
	return nil
}

func (f *fakeStore) AddMember(ctx context.Context, teamID, userID string) error {
	team := f.teams[teamID]
	team.Members = append(team.Members, userID)
	f.users[userID].TeamID = teamID
	return nil
}

func (f *fakeStore) AddPoints(ctx context.Context, teamID string, delta int) error {
	if f.addPointsErr != nil {
		return f.addPointsErr
	}
	team, ok := f.teams[teamID]
	if !ok {
		return ErrTeamNotFound
	}
	team.TotalPoints += delta
	f.teamDeltas[teamID] += delta
	return nil
}

func (f *fakeStore) SetStanding(ctx context.Context, teamID string, rank int) error {
	if team, ok := f.teams[teamID]; ok {
		team.Standing = rank
	}
	return nil
}

func (f *fakeStore) AddInvite(ctx context.Context, teamID string, invite Invite) error {
	f.invites[invite.Code] = teamID
	team := f.teams[teamID]
	team.Invites = append(team.Invites, invite)
	return nil
}

func (f *fakeStore) TeamByInvite(ctx context.Context, code string) (*Team, error) {
	teamID, ok := f.invites[code]
	if !ok {
		return nil, nil
	}
	return f.GetTeam(ctx, teamID)
}

func (f *fakeStore) ConsumeInvite(ctx context.Context, teamID, code, userID string) error {
	if _, ok := f.invites[code]; !ok {
		return ErrInviteNotFound
	}
	delete(f.invites, code)
	return f.AddMember(ctx, teamID, userID)
}

func (f *fakeStore) ListChallenges(ctx context.Context) ([]Challenge, error) {
	out := make([]Challenge, 0, len(f.challenges))
	for _, c := range f.challenges {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeStore) FindChallenge(ctx context.Context, challengeID string) (*Challenge, error) {
	c, ok := f.challenges[challengeID]
	if !ok {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

func (f *fakeStore) ListRewards(ctx context.Context) ([]Reward, error) {
	out := make([]Reward, 0, len(f.rewards))
	for _, reward := range f.rewards {
		out = append(out, *reward)
	}
	return out, nil
}

func (f *fakeStore) FindReward(ctx context.Context, name string) (*Reward, error) {
	reward, ok := f.rewards[name]
	if !ok {
		return nil, nil
	}
	copied := *reward
	return &copied, nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestLogExerciseCreditsBothBalances(t *testing.T) {
	store := newFakeStore()
	store.users["u1"] = &User{ID: "u1", Points: 10, TotalPoints: 40}

	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	svc := NewService(store, WithClock(fixedClock(now)), WithLogger(quietLogger()))

	result, err := svc.LogExercise(context.Background(), LogExerciseInput{
		UserID:       "u1",
		ExerciseType: "running",
		Value:        3,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.PointsEarned != 30 {
		t.Fatalf("expected 30 points earned, got %d", result.PointsEarned)
	}
	if result.Points != 40 || result.TotalPoints != 70 {
		t.Fatalf("balances moved in lockstep expected (40, 70), got (%d, %d)", result.Points, result.TotalPoints)
	}
	if len(store.exercises["u1"]) != 1 {
		t.Fatalf("expected one exercise record, got %d", len(store.exercises["u1"]))
	}
}

func TestLogExerciseValidation(t *testing.T) {
	svc := NewService(newFakeStore(), WithLogger(quietLogger()))

	cases := []LogExerciseInput{
		{UserID: "", ExerciseType: "running", Value: 1},
		{UserID: "u1", ExerciseType: "", Value: 1},
		{UserID: "u1", ExerciseType: "running", Value: 0},
		{UserID: "u1", ExerciseType: "running", Value: -2},
	}

	for _, input := range cases {
		_, err := svc.LogExercise(context.Background(), input)
		var validation *ValidationError
		if !errors.As(err, &validation) {
			t.Errorf("input %+v: expected validation error, got %v", input, err)
		}
	}
}

func TestLogExerciseUnknownUser(t *testing.T) {
	svc := NewService(newFakeStore(), WithLogger(quietLogger()))

	_, err := svc.LogExercise(context.Background(), LogExerciseInput{
		UserID:       "ghost",
		ExerciseType: "running",
		Value:        1,
	})
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestLogExercisePropagatesTeamDelta(t *testing.T) {
	store := newFakeStore()
	store.teams["t1"] = &Team{ID: "t1", TotalPoints: 100}
	store.users["u1"] = &User{ID: "u1", TeamID: "t1"}

	svc := NewService(store, WithLogger(quietLogger()))

	if _, err := svc.LogExercise(context.Background(), LogExerciseInput{
		UserID:       "u1",
		ExerciseType: "walking",
		Value:        2,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if store.teamDeltas["t1"] != 10 {
		t.Fatalf("expected team delta 10, got %d", store.teamDeltas["t1"])
	}
}

func TestLogExerciseTeamFailureDoesNotFailRequest(t *testing.T) {
	store := newFakeStore()
	store.users["u1"] = &User{ID: "u1", TeamID: "t-gone"}
	store.addPointsErr = errors.New("connection reset")

	svc := NewService(store, WithLogger(quietLogger()))

	result, err := svc.LogExercise(context.Background(), LogExerciseInput{
		UserID:       "u1",
		ExerciseType: "running",
		Value:        1,
	})
	if err != nil {
		t.Fatalf("user operation must succeed despite team failure: %v", err)
	}
	if result.TotalPoints != 10 {
		t.Fatalf("expected total 10, got %d", result.TotalPoints)
	}
}

func TestCompleteChallengeFirstCompletion(t *testing.T) {
	store := newFakeStore()
	store.users["u1"] = &User{ID: "u1"}
	store.challenges["c1"] = &Challenge{ID: "c1", Name: "Step Sprint", Points: 100}

	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	svc := NewService(store, WithClock(fixedClock(now)), WithLogger(quietLogger()))

	result, err := svc.CompleteChallenge(context.Background(), CompleteChallengeInput{
		UserID:      "u1",
		ChallengeID: "c1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.CurrentStreak != 1 {
		t.Fatalf("expected streak 1, got %d", result.CurrentStreak)
	}
	// Streak 1 earns a 10% bonus on the base points.
	if result.PointsEarned != 110 {
		t.Fatalf("expected 110 points, got %d", result.PointsEarned)
	}
	if store.users["u1"].Streak != 1 {
		t.Fatalf("streak cache not updated, got %d", store.users["u1"].Streak)
	}
}

func TestCompleteChallengeExtendsStreak(t *testing.T) {
	store := newFakeStore()
	store.users["u1"] = &User{ID: "u1", Streak: 3}
	store.challenges["c1"] = &Challenge{ID: "c1", Name: "Step Sprint", Points: 100}
	store.completions["u1"] = []CompletionRecord{
		{ID: "r1", ChallengeID: "c2", Streak: 3, CompletedAt: time.Date(2025, time.March, 9, 20, 0, 0, 0, time.UTC)},
	}

	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	svc := NewService(store, WithClock(fixedClock(now)), WithLogger(quietLogger()))

	result, err := svc.CompleteChallenge(context.Background(), CompleteChallengeInput{
		UserID:      "u1",
		ChallengeID: "c1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.CurrentStreak != 4 {
		t.Fatalf("expected streak 4, got %d", result.CurrentStreak)
	}
	if result.PointsEarned != 140 {
		t.Fatalf("expected 140 points, got %d", result.PointsEarned)
	}
}

func TestCompleteChallengeRejectsSameDayDuplicate(t *testing.T) {
	store := newFakeStore()
	store.users["u1"] = &User{ID: "u1"}
	store.challenges["c1"] = &Challenge{ID: "c1", Name: "Step Sprint", Points: 100}
	store.completions["u1"] = []CompletionRecord{
		{ID: "r1", ChallengeID: "c1", Streak: 1, CompletedAt: time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC)},
	}

	now := time.Date(2025, time.March, 10, 18, 0, 0, 0, time.UTC)
	svc := NewService(store, WithClock(fixedClock(now)), WithLogger(quietLogger()))

	_, err := svc.CompleteChallenge(context.Background(), CompleteChallengeInput{
		UserID:      "u1",
		ChallengeID: "c1",
	})
	if !errors.Is(err, ErrDuplicateCompletion) {
		t.Fatalf("expected ErrDuplicateCompletion, got %v", err)
	}
	if len(store.completions["u1"]) != 1 {
		t.Fatalf("no record should be appended on duplicate, got %d", len(store.completions["u1"]))
	}
}

func TestCompleteChallengeAllowsDifferentChallengeSameDay(t *testing.T) {
	store := newFakeStore()
	store.users["u1"] = &User{ID: "u1"}
	store.challenges["c2"] = &Challenge{ID: "c2", Name: "Elevator Ban", Points: 100}
	store.completions["u1"] = []CompletionRecord{
		{ID: "r1", ChallengeID: "c1", Streak: 2, CompletedAt: time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC)},
	}

	now := time.Date(2025, time.March, 10, 18, 0, 0, 0, time.UTC)
	svc := NewService(store, WithClock(fixedClock(now)), WithLogger(quietLogger()))

	result, err := svc.CompleteChallenge(context.Background(), CompleteChallengeInput{
		UserID:      "u1",
		ChallengeID: "c2",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Same-day completion keeps the streak rather than extending it.
	if result.CurrentStreak != 2 {
		t.Fatalf("expected streak 2, got %d", result.CurrentStreak)
	}
}

func TestRedeemRewardDebitsOnlyTotal(t *testing.T) {
	store := newFakeStore()
	store.users["u1"] = &User{ID: "u1", Points: 500, TotalPoints: 500}
	store.rewards["Gift Card"] = &Reward{Name: "Gift Card", PointsRequired: 200}

	svc := NewService(store, WithLogger(quietLogger()))

	result, err := svc.RedeemReward(context.Background(), RedeemInput{
		UserID:     "u1",
		RewardName: "Gift Card",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.RemainingPoints != 300 {
		t.Fatalf("expected 300 remaining, got %d", result.RemainingPoints)
	}
	if store.users["u1"].Points != 500 {
		t.Fatalf("earned-points counter must not move on redemption, got %d", store.users["u1"].Points)
	}
}

func TestRedeemRewardInsufficientPoints(t *testing.T) {
	store := newFakeStore()
	store.users["u1"] = &User{ID: "u1", TotalPoints: 100}
	store.rewards["Extra PTO Day"] = &Reward{Name: "Extra PTO Day", PointsRequired: 500}

	svc := NewService(store, WithLogger(quietLogger()))

	_, err := svc.RedeemReward(context.Background(), RedeemInput{
		UserID:     "u1",
		RewardName: "Extra PTO Day",
	})
	if !errors.Is(err, ErrInsufficientPoints) {
		t.Fatalf("expected ErrInsufficientPoints, got %v", err)
	}
	if store.users["u1"].TotalPoints != 100 {
		t.Fatalf("balance must be unchanged, got %d", store.users["u1"].TotalPoints)
	}
}

func TestRedeemRewardRejectsRepeat(t *testing.T) {
	store := newFakeStore()
	store.users["u1"] = &User{ID: "u1", TotalPoints: 500}
	store.rewards["Gift Card"] = &Reward{Name: "Gift Card", PointsRequired: 200}
	store.redemptions["u1"] = []Redemption{{RewardName: "Gift Card", PointsSpent: 200}}

	svc := NewService(store, WithLogger(quietLogger()))

	_, err := svc.RedeemReward(context.Background(), RedeemInput{
		UserID:     "u1",
		RewardName: "Gift Card",
	})
	if !errors.Is(err, ErrAlreadyRedeemed) {
		t.Fatalf("expected ErrAlreadyRedeemed, got %v", err)
	}
}

func TestRedeemRewardUnknownReward(t *testing.T) {
	store := newFakeStore()
	store.users["u1"] = &User{ID: "u1", TotalPoints: 500}

	svc := NewService(store, WithLogger(quietLogger()))

	_, err := svc.RedeemReward(context.Background(), RedeemInput{
		UserID:     "u1",
		RewardName: "Yacht",
	})
	if !errors.Is(err, ErrRewardNotFound) {
		t.Fatalf("expected ErrRewardNotFound, got %v", err)
	}
}

func TestLeaderboardWritesRanksBack(t *testing.T) {
	store := newFakeStore()
	store.teams["t1"] = &Team{ID: "t1", Name: "Alpha", TotalPoints: 100}
	store.teams["t2"] = &Team{ID: "t2", Name: "Bravo", TotalPoints: 300}

	svc := NewService(store, WithLogger(quietLogger()))

	standings, err := svc.Leaderboard(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(standings) != 2 {
		t.Fatalf("expected 2 standings, got %d", len(standings))
	}
	if standings[0].TeamID != "t2" || standings[0].Rank != 1 {
		t.Fatalf("expected t2 first, got %+v", standings[0])
	}
	if store.teams["t2"].Standing != 1 || store.teams["t1"].Standing != 2 {
		t.Fatalf("ranks not written back: t2=%d t1=%d", store.teams["t2"].Standing, store.teams["t1"].Standing)
	}
}

func TestJoinTeamRejectsExistingMember(t *testing.T) {
	store := newFakeStore()
	store.users["u1"] = &User{ID: "u1", TeamID: "t1"}
	store.teams["t1"] = &Team{ID: "t1", Members: []string{"u1"}}

	svc := NewService(store, WithLogger(quietLogger()))

	err := svc.JoinTeam(context.Background(), JoinTeamInput{UserID: "u1", TeamID: "t1"})
	if !errors.Is(err, ErrAlreadyTeamMember) {
		t.Fatalf("expected ErrAlreadyTeamMember, got %v", err)
	}
}

func TestCreateTeamSetsCreatorAsFirstMember(t *testing.T) {
	store := newFakeStore()
	store.users["u1"] = &User{ID: "u1"}

	svc := NewService(store, WithLogger(quietLogger()))

	team, err := svc.CreateTeam(context.Background(), CreateTeamInput{
		Name:      "Alpha",
		CompanyID: "acme",
		CreatorID: "u1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(team.Members) != 1 || team.Members[0] != "u1" {
		t.Fatalf("creator must be the first member, got %v", team.Members)
	}
	if store.users["u1"].TeamID != team.ID {
		t.Fatalf("creator team reference not set, got %q", store.users["u1"].TeamID)
	}
}

func TestInviteLifecycle(t *testing.T) {
	store := newFakeStore()
	store.teams["t1"] = &Team{ID: "t1", Members: []string{"u1"}}
	store.users["u1"] = &User{ID: "u1", TeamID: "t1"}
	store.users["u2"] = &User{ID: "u2"}

	svc := NewService(store, WithLogger(quietLogger()))

	invite, err := svc.CreateInvite(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	team, err := svc.AcceptInvite(context.Background(), "u2", invite.Code)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if team.ID != "t1" {
		t.Fatalf("expected team t1, got %s", team.ID)
	}
	if store.users["u2"].TeamID != "t1" {
		t.Fatalf("member team reference not set, got %q", store.users["u2"].TeamID)
	}

	// A consumed code cannot be used again.
	if _, err := svc.AcceptInvite(context.Background(), "u2", invite.Code); !errors.Is(err, ErrInviteNotFound) {
		t.Fatalf("expected ErrInviteNotFound on reuse, got %v", err)
	}
}

func TestCreateInviteRequiresTeam(t *testing.T) {
	store := newFakeStore()
	store.users["u1"] = &User{ID: "u1"}

	svc := NewService(store, WithLogger(quietLogger()))

	if _, err := svc.CreateInvite(context.Background(), "u1"); !errors.Is(err, ErrNotOnTeam) {
		t.Fatalf("expected ErrNotOnTeam, got %v", err)
	}
}
