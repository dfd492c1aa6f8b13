package domain

import "time"

// NextStreak computes the streak value a completion occurring at now should
// carry, from the user's completion history (oldest first). Only the most
// recent record matters: a completion on the previous UTC calendar day
// extends the streak, a same-day completion leaves it unchanged, and any
// other gap resets it to 1. An empty history establishes day 1.
func NextStreak(history []CompletionRecord, now time.Time) int {
	if len(history) == 0 {
		return 1
	}
	last := history[len(history)-1]
	switch calendarDaysBetween(last.CompletedAt, now) {
	case 0:
		return last.Streak
	case 1:
		return last.Streak + 1
	default:
		// Gap of two or more days, or a record in the future.
		return 1
	}
}

// CompletedToday reports whether the given challenge already has a
// completion on now's UTC calendar date. This is the per-challenge
// duplicate guard, distinct from the any-challenge streak rule above.
func CompletedToday(history []CompletionRecord, challengeID string, now time.Time) bool {
	for _, rec := range history {
		if rec.ChallengeID == challengeID && calendarDaysBetween(rec.CompletedAt, now) == 0 {
			return true
		}
	}
	return false
}

func calendarDaysBetween(earlier, later time.Time) int {
	e := midnightUTC(earlier)
	l := midnightUTC(later)
	return int(l.Sub(e).Hours() / 24)
}

func midnightUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
