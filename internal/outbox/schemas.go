package outbox

const pointsAppliedSchema = `{
  "type": "object",
  "title": "PointsApplied",
  "properties": {
    "record_id": {"type": "string"},
    "user_id": {"type": "string"},
    "source": {"type": "string"},
    "points": {"type": "integer"},
    "team_id": {"type": "string"},
    "streak": {"type": "integer"},
    "occurred_at": {"type": "string", "format": "date-time"}
  },
  "required": ["record_id", "user_id", "source", "points", "occurred_at"],
  "additionalProperties": false
}`

const rewardRedeemedSchema = `{
  "type": "object",
  "title": "RewardRedeemed",
  "properties": {
    "user_id": {"type": "string"},
    "reward_name": {"type": "string"},
    "points_spent": {"type": "integer"},
    "occurred_at": {"type": "string", "format": "date-time"}
  },
  "required": ["user_id", "reward_name", "points_spent", "occurred_at"],
  "additionalProperties": false
}`
