package domain

// Exercise point multipliers. Distance and count based types score per unit
// (mile, lap, 500m interval); timed types score per 10 minutes.
var exerciseMultipliers = map[string]float64{
	"running":           10,
	"walking":           5,
	"cycling":           8,
	"swimming":          5,
	"rowing":            12,
	"strength_training": 5,
	"yoga":              3,
	"other":             4,
}

var distanceBased = map[string]bool{
	"running":  true,
	"walking":  true,
	"cycling":  true,
	"swimming": true,
	"rowing":   true,
}

// maxStreakBonus caps the challenge streak bonus at +50%.
const maxStreakBonus = 0.5

// PointsForExercise converts a logged exercise into points. Unrecognized
// types fall back to the "other" multiplier and score as timed activities.
// Callers must reject non-positive values before calling.
func PointsForExercise(exerciseType string, value float64) int {
	multiplier, ok := exerciseMultipliers[exerciseType]
	if !ok {
		multiplier = exerciseMultipliers["other"]
	}
	if distanceBased[exerciseType] {
		return int(value * multiplier)
	}
	return int(value / 10 * multiplier)
}

// PointsForChallenge applies the streak bonus to a challenge's base points.
// The bonus grows 10% per consecutive day and is capped at 50%.
func PointsForChallenge(basePoints, streak int) int {
	bonus := float64(streak) * 0.1
	if bonus > maxStreakBonus {
		bonus = maxStreakBonus
	}
	return int(float64(basePoints) * (1 + bonus))
}
