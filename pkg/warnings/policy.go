// Package warnings implements the escalation and decay engine for the
// warning ledger. Everything in this package is a pure computation over
// warning records; nothing here touches the database or Discord.
package warnings

import "time"

// StrikeExpiryDays is the length of both the strike mute penalty and the
// decay window of an active strike.
const StrikeExpiryDays = 14

// StrikeExpiry is StrikeExpiryDays as a duration.
const StrikeExpiry = StrikeExpiryDays * 24 * time.Hour

// warningExpiryDays maps the active warning count to the decay window of
// the next warning to expire. Policy data, not algorithm: repeated
// violations are remembered longer, so the table must never decrease.
var warningExpiryDays = []int{14, 21, 28, 35}

// WarningExpiryDays returns the decay window, in days, for a user who
// currently has the given number of active warnings. Counts beyond the
// table are capped at its last entry.
func WarningExpiryDays(warnings int) int {
	if warnings < 1 {
		return warningExpiryDays[0]
	}
	if warnings > len(warningExpiryDays) {
		return warningExpiryDays[len(warningExpiryDays)-1]
	}
	return warningExpiryDays[warnings-1]
}

// WarningExpiry returns WarningExpiryDays as a duration.
func WarningExpiry(warnings int) time.Duration {
	return time.Duration(WarningExpiryDays(warnings)) * 24 * time.Hour
}
