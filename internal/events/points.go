// Package events defines the payloads published through the outbox.
package events

import "time"

// PointsApplied is emitted whenever a user earns points, from either an
// exercise log or a challenge completion. TeamID carries the aggregate the
// delta should also land on, so the audit log can reconcile stale teams.
type PointsApplied struct {
	RecordID   string    `json:"record_id"`
	UserID     string    `json:"user_id"`
	Source     string    `json:"source"`
	Points     int       `json:"points"`
	TeamID     string    `json:"team_id,omitempty"`
	Streak     int       `json:"streak,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// RewardRedeemed is emitted when a redemption debits a user's balance.
type RewardRedeemed struct {
	UserID      string    `json:"user_id"`
	RewardName  string    `json:"reward_name"`
	PointsSpent int       `json:"points_spent"`
	OccurredAt  time.Time `json:"occurred_at"`
}
