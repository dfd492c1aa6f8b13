// Package postgres implements the domain store over pgx.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/wellness/internal/domain"
	"example.com/wellness/internal/events"
	"example.com/wellness/internal/observability"
)

// Repository provides Postgres-backed persistence for users, teams, the
// catalogs, and outbox events.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const userColumns = `user_id, name, email, company_id, team_id, points, total_points, streak, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var user domain.User
	var teamID *string
	if err := row.Scan(&user.ID, &user.Name, &user.Email, &user.CompanyID, &teamID, &user.Points, &user.TotalPoints, &user.Streak, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return nil, err
	}
	if teamID != nil {
		user.TeamID = *teamID
	}
	return &user, nil
}

// GetUser fetches a user by ID, returning nil when absent.
func (r *Repository) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE user_id=$1`, userID)
	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ListCompletions returns the user's completion history, oldest first.
func (r *Repository) ListCompletions(ctx context.Context, userID string) ([]domain.CompletionRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT completion_id, challenge_id, challenge_name, points_earned, streak, completed_at
         FROM completions WHERE user_id=$1 ORDER BY completed_at, completion_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []domain.CompletionRecord
	for rows.Next() {
		var rec domain.CompletionRecord
		if err := rows.Scan(&rec.ID, &rec.ChallengeID, &rec.ChallengeName, &rec.PointsEarned, &rec.Streak, &rec.CompletedAt); err != nil {
			return nil, err
		}
		history = append(history, rec)
	}
	return history, rows.Err()
}

// ListRedemptions returns the user's redemption history, oldest first.
func (r *Repository) ListRedemptions(ctx context.Context, userID string) ([]domain.Redemption, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT reward_name, points_spent, redeemed_at
         FROM redemptions WHERE user_id=$1 ORDER BY redeemed_at, redemption_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var redemptions []domain.Redemption
	for rows.Next() {
		var rec domain.Redemption
		if err := rows.Scan(&rec.RewardName, &rec.PointsSpent, &rec.RedeemedAt); err != nil {
			return nil, err
		}
		redemptions = append(redemptions, rec)
	}
	return redemptions, rows.Err()
}

// AppendExercise appends the exercise row, credits both balances, stamps
// updated-at, and records the points.applied outbox event in one transaction.
func (r *Repository) AppendExercise(ctx context.Context, userID string, rec domain.ExerciseRecord) (*domain.User, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if _, err = tx.Exec(ctx,
		`INSERT INTO exercises (exercise_id, user_id, exercise_type, value, points_earned, logged_at)
         VALUES ($1,$2,$3,$4,$5,$6)`,
		rec.ID, userID, rec.ExerciseType, rec.Value, rec.PointsEarned, rec.LoggedAt,
	); err != nil {
		return nil, err
	}

	row := tx.QueryRow(ctx,
		`UPDATE users SET points = points + $1, total_points = total_points + $1, updated_at = $2
         WHERE user_id=$3 RETURNING `+userColumns,
		rec.PointsEarned, rec.LoggedAt, userID)
	user, err := scanUser(row)
	if err != nil {
		return nil, err
	}

	if err = r.insertOutbox(ctx, tx, "points.applied", userID, rec.ID, events.PointsApplied{
		RecordID:   rec.ID,
		UserID:     userID,
		Source:     "exercise",
		Points:     rec.PointsEarned,
		TeamID:     user.TeamID,
		OccurredAt: rec.LoggedAt,
	}); err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}
	observability.RecordLedgerWrite(user.UpdatedAt)
	return user, nil
}

// AppendCompletion appends the completion row, credits both balances,
// refreshes the streak cache, and records the outbox event atomically.
func (r *Repository) AppendCompletion(ctx context.Context, userID string, rec domain.CompletionRecord) (*domain.User, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if _, err = tx.Exec(ctx,
		`INSERT INTO completions (completion_id, user_id, challenge_id, challenge_name, points_earned, streak, completed_at)
         VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		rec.ID, userID, rec.ChallengeID, rec.ChallengeName, rec.PointsEarned, rec.Streak, rec.CompletedAt,
	); err != nil {
		return nil, err
	}

	row := tx.QueryRow(ctx,
		`UPDATE users SET points = points + $1, total_points = total_points + $1, streak = $2, updated_at = $3
         WHERE user_id=$4 RETURNING `+userColumns,
		rec.PointsEarned, rec.Streak, rec.CompletedAt, userID)
	user, err := scanUser(row)
	if err != nil {
		return nil, err
	}

	if err = r.insertOutbox(ctx, tx, "points.applied", userID, rec.ID, events.PointsApplied{
		RecordID:   rec.ID,
		UserID:     userID,
		Source:     "challenge",
		Points:     rec.PointsEarned,
		TeamID:     user.TeamID,
		Streak:     rec.Streak,
		OccurredAt: rec.CompletedAt,
	}); err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}
	observability.RecordLedgerWrite(user.UpdatedAt)
	return user, nil
}

// AppendRedemption debits the total balance, appends the redemption row,
// and records the reward.redeemed outbox event atomically. Only
// total_points moves; the earned-points counter is untouched.
func (r *Repository) AppendRedemption(ctx context.Context, userID string, rec domain.Redemption) (*domain.User, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if _, err = tx.Exec(ctx,
		`INSERT INTO redemptions (user_id, reward_name, points_spent, redeemed_at)
         VALUES ($1,$2,$3,$4)`,
		userID, rec.RewardName, rec.PointsSpent, rec.RedeemedAt,
	); err != nil {
		return nil, err
	}

	row := tx.QueryRow(ctx,
		`UPDATE users SET total_points = total_points - $1, updated_at = $2
         WHERE user_id=$3 RETURNING `+userColumns,
		rec.PointsSpent, rec.RedeemedAt, userID)
	user, err := scanUser(row)
	if err != nil {
		return nil, err
	}

	if err = r.insertOutbox(ctx, tx, "reward.redeemed", userID, userID+":"+rec.RewardName, events.RewardRedeemed{
		UserID:      userID,
		RewardName:  rec.RewardName,
		PointsSpent: rec.PointsSpent,
		OccurredAt:  rec.RedeemedAt,
	}); err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}
	observability.RecordLedgerWrite(user.UpdatedAt)
	return user, nil
}

// CompletionPage returns completions newest first with keyset pagination.
func (r *Repository) CompletionPage(ctx context.Context, userID string, cursor *domain.Cursor, limit int) ([]domain.CompletionRecord, *domain.Cursor, error) {
	args := []any{userID, limit}
	query := `SELECT completion_id, challenge_id, challenge_name, points_earned, streak, completed_at
        FROM completions WHERE user_id=$1`
	if cursor != nil {
		query += ` AND (completed_at, completion_id) < ($3, $4)`
		args = append(args, cursor.At, cursor.ID)
	}
	query += ` ORDER BY completed_at DESC, completion_id DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	results := make([]domain.CompletionRecord, 0, limit)
	for rows.Next() {
		var rec domain.CompletionRecord
		if err := rows.Scan(&rec.ID, &rec.ChallengeID, &rec.ChallengeName, &rec.PointsEarned, &rec.Streak, &rec.CompletedAt); err != nil {
			return nil, nil, err
		}
		results = append(results, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	var next *domain.Cursor
	if len(results) == limit {
		last := results[len(results)-1]
		next = &domain.Cursor{At: last.CompletedAt, ID: last.ID}
	}
	return results, next, nil
}

// ExercisePage returns exercises newest first with keyset pagination.
func (r *Repository) ExercisePage(ctx context.Context, userID string, cursor *domain.Cursor, limit int) ([]domain.ExerciseRecord, *domain.Cursor, error) {
	args := []any{userID, limit}
	query := `SELECT exercise_id, exercise_type, value, points_earned, logged_at
        FROM exercises WHERE user_id=$1`
	if cursor != nil {
		query += ` AND (logged_at, exercise_id) < ($3, $4)`
		args = append(args, cursor.At, cursor.ID)
	}
	query += ` ORDER BY logged_at DESC, exercise_id DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	results := make([]domain.ExerciseRecord, 0, limit)
	for rows.Next() {
		var rec domain.ExerciseRecord
		if err := rows.Scan(&rec.ID, &rec.ExerciseType, &rec.Value, &rec.PointsEarned, &rec.LoggedAt); err != nil {
			return nil, nil, err
		}
		results = append(results, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	var next *domain.Cursor
	if len(results) == limit {
		last := results[len(results)-1]
		next = &domain.Cursor{At: last.LoggedAt, ID: last.ID}
	}
	return results, next, nil
}

const teamColumns = `team_id, name, company_id, total_team_points, team_standing, created_at, updated_at`

func scanTeam(row rowScanner) (*domain.Team, error) {
	var team domain.Team
	if err := row.Scan(&team.ID, &team.Name, &team.CompanyID, &team.TotalPoints, &team.Standing, &team.CreatedAt, &team.UpdatedAt); err != nil {
		return nil, err
	}
	return &team, nil
}

// GetTeam fetches a team with its member list and pending invites,
// returning nil when absent.
func (r *Repository) GetTeam(ctx context.Context, teamID string) (*domain.Team, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+teamColumns+` FROM teams WHERE team_id=$1`, teamID)
	team, err := scanTeam(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	memberRows, err := r.pool.Query(ctx, `SELECT user_id FROM team_members WHERE team_id=$1 ORDER BY joined_at, user_id`, teamID)
	if err != nil {
		return nil, err
	}
	defer memberRows.Close()
	for memberRows.Next() {
		var member string
		if err := memberRows.Scan(&member); err != nil {
			return nil, err
		}
		team.Members = append(team.Members, member)
	}
	if err := memberRows.Err(); err != nil {
		return nil, err
	}

	inviteRows, err := r.pool.Query(ctx, `SELECT code, created_by FROM team_invites WHERE team_id=$1 ORDER BY created_at`, teamID)
	if err != nil {
		return nil, err
	}
	defer inviteRows.Close()
	for inviteRows.Next() {
		var invite domain.Invite
		if err := inviteRows.Scan(&invite.Code, &invite.CreatedBy); err != nil {
			return nil, err
		}
		team.Invites = append(team.Invites, invite)
	}
	return team, inviteRows.Err()
}

// ListTeams returns all teams ordered by ID, which pins the leaderboard
// tie-break.
func (r *Repository) ListTeams(ctx context.Context) ([]domain.Team, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+teamColumns+` FROM teams ORDER BY team_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teams []domain.Team
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		teams = append(teams, *team)
	}
	return teams, rows.Err()
}

// CreateTeam inserts the team, its first member, and the creator's team
// reference in one transaction.
func (r *Repository) CreateTeam(ctx context.Context, team domain.Team, creatorID string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err = tx.Exec(ctx,
		`INSERT INTO teams (team_id, name, company_id, total_team_points, team_standing, created_at, updated_at)
         VALUES ($1,$2,$3,0,0,$4,$5)`,
		team.ID, team.Name, team.CompanyID, team.CreatedAt, team.UpdatedAt,
	); err != nil {
		return err
	}
	if _, err = tx.Exec(ctx,
		`INSERT INTO team_members (team_id, user_id, joined_at) VALUES ($1,$2,$3)`,
		team.ID, creatorID, team.CreatedAt,
	); err != nil {
		return err
	}
	if _, err = tx.Exec(ctx,
		`UPDATE users SET team_id=$1, updated_at=$2 WHERE user_id=$3`,
		team.ID, team.CreatedAt, creatorID,
	); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// AddMember appends a member and updates the user's back-reference in one
// transaction.
func (r *Repository) AddMember(ctx context.Context, teamID, userID string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err = tx.Exec(ctx,
		`INSERT INTO team_members (team_id, user_id, joined_at) VALUES ($1,$2,NOW()) ON CONFLICT DO NOTHING`,
		teamID, userID,
	); err != nil {
		return err
	}
	if _, err = tx.Exec(ctx,
		`UPDATE users SET team_id=$1, updated_at=NOW() WHERE user_id=$2`,
		teamID, userID,
	); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// AddPoints atomically increments the team aggregate.
func (r *Repository) AddPoints(ctx context.Context, teamID string, delta int) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE teams SET total_team_points = total_team_points + $1, updated_at=NOW() WHERE team_id=$2`,
		delta, teamID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTeamNotFound
	}
	return nil
}

// SetStanding writes a recomputed rank for one team.
func (r *Repository) SetStanding(ctx context.Context, teamID string, rank int) error {
	_, err := r.pool.Exec(ctx, `UPDATE teams SET team_standing=$1 WHERE team_id=$2`, rank, teamID)
	return err
}

// AddInvite records a pending invite code.
func (r *Repository) AddInvite(ctx context.Context, teamID string, invite domain.Invite) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO team_invites (code, team_id, created_by, created_at) VALUES ($1,$2,$3,NOW())`,
		invite.Code, teamID, invite.CreatedBy)
	return err
}

// TeamByInvite resolves the team holding an invite code, nil when absent.
func (r *Repository) TeamByInvite(ctx context.Context, code string) (*domain.Team, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+teamColumns+` FROM teams t JOIN team_invites i ON i.team_id = t.team_id WHERE i.code=$1`, code)
	team, err := scanTeam(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return team, nil
}

// ConsumeInvite deletes the code and joins the user in one transaction.
// The delete doubles as the exactly-once guard: a reused code affects zero
// rows and the transaction aborts.
func (r *Repository) ConsumeInvite(ctx context.Context, teamID, code, userID string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `DELETE FROM team_invites WHERE code=$1 AND team_id=$2`, code, teamID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInviteNotFound
	}

	if _, err = tx.Exec(ctx,
		`INSERT INTO team_members (team_id, user_id, joined_at) VALUES ($1,$2,NOW()) ON CONFLICT DO NOTHING`,
		teamID, userID,
	); err != nil {
		return err
	}
	if _, err = tx.Exec(ctx,
		`UPDATE users SET team_id=$1, updated_at=NOW() WHERE user_id=$2`,
		teamID, userID,
	); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// ListChallenges returns the challenge catalog.
func (r *Repository) ListChallenges(ctx context.Context) ([]domain.Challenge, error) {
	rows, err := r.pool.Query(ctx, `SELECT challenge_id, name, description, points FROM challenges ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var challenges []domain.Challenge
	for rows.Next() {
		var c domain.Challenge
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Points); err != nil {
			return nil, err
		}
		challenges = append(challenges, c)
	}
	return challenges, rows.Err()
}

// FindChallenge fetches a catalog entry by ID, nil when absent.
func (r *Repository) FindChallenge(ctx context.Context, challengeID string) (*domain.Challenge, error) {
	row := r.pool.QueryRow(ctx, `SELECT challenge_id, name, description, points FROM challenges WHERE challenge_id=$1`, challengeID)
	var c domain.Challenge
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Points); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// ListRewards returns the reward catalog.
func (r *Repository) ListRewards(ctx context.Context) ([]domain.Reward, error) {
	rows, err := r.pool.Query(ctx, `SELECT name, points_required FROM rewards ORDER BY points_required, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rewards []domain.Reward
	for rows.Next() {
		var reward domain.Reward
		if err := rows.Scan(&reward.Name, &reward.PointsRequired); err != nil {
			return nil, err
		}
		rewards = append(rewards, reward)
	}
	return rewards, rows.Err()
}

// FindReward fetches a catalog entry by name, nil when absent.
func (r *Repository) FindReward(ctx context.Context, name string) (*domain.Reward, error) {
	row := r.pool.QueryRow(ctx, `SELECT name, points_required FROM rewards WHERE name=$1`, name)
	var reward domain.Reward
	if err := row.Scan(&reward.Name, &reward.PointsRequired); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &reward, nil
}

func (r *Repository) insertOutbox(ctx context.Context, tx pgx.Tx, eventType, userID, recordID string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	meta := eventCatalog[eventType]
	if meta.Topic == "" {
		return fmt.Errorf("unknown event type: %s", eventType)
	}

	dedupeKey := fmt.Sprintf("%s:%s", recordID, eventType)

	const stmt = `INSERT INTO outbox (aggregate_type, aggregate_id, event_type, topic, schema_subject, partition_key, payload, dedupe_key)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`

	_, err = tx.Exec(ctx, stmt,
		"user",
		userID,
		eventType,
		meta.Topic,
		meta.SchemaSubject,
		meta.PartitionKeyFn(userID),
		body,
		dedupeKey,
	)
	return err
}

// EventMetadata describes how to route an outbox event.
type EventMetadata struct {
	Topic          string
	SchemaSubject  string
	PartitionKeyFn func(userID string) string
}

var eventCatalog = map[string]EventMetadata{
	"points.applied": {
		Topic:         "points_events",
		SchemaSubject: "points_events-value",
		PartitionKeyFn: func(userID string) string {
			return userID
		},
	},
	"reward.redeemed": {
		Topic:         "reward_events",
		SchemaSubject: "reward_events-value",
		PartitionKeyFn: func(userID string) string {
			return userID
		},
	},
}
