package warnings

import (
	"sort"
	"time"

	"github.com/PancyStudios/WardenGo/pkg/models"
)

// WarningState is the aggregate disciplinary state derived from a user's
// active warning history. It is never stored: every operation recomputes it
// from the ledger so concurrent edits can never leave a stale aggregate.
type WarningState struct {
	// Warnings is the count of active severity-1 records.
	Warnings int
	// Strikes is the count of active severity-3 records.
	Strikes int
	// MutedUntil is set while the user is serving a strike mute penalty.
	MutedUntil *time.Time
	// LastTick marks the start of the current decay window: the newest
	// record's issue date, or the mute expiry after a strike (which doubles
	// as the probation-extension point).
	LastTick time.Time
}

// StateFromHistory folds the full history into a WarningState. Removed
// records are skipped; severity-0 records contribute nothing. The fold is
// deterministic: the same history always yields the same state.
func StateFromHistory(history []models.Warning) WarningState {
	ordered := make([]models.Warning, len(history))
	copy(ordered, history)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].IssueDate.Before(ordered[j].IssueDate)
	})

	var state WarningState
	for i := range ordered {
		if ordered[i].Removed() {
			continue
		}
		state.Add(ordered[i].Severity, ordered[i].IssueDate)
	}
	return state
}

// Add applies one record to the state. Appending a record to a history and
// refolding is equivalent to Add on the folded state, so callers may update
// incrementally after an append.
func (s *WarningState) Add(severity models.Severity, issueDate time.Time) {
	if severity == models.SeverityInitial {
		return
	}

	s.DecayTo(issueDate)

	switch severity {
	case models.SeverityWarning:
		s.Warnings++
		if issueDate.After(s.LastTick) {
			s.LastTick = issueDate
		}
	case models.SeverityStrike:
		s.Strikes++
		until := issueDate.Add(StrikeExpiry)
		s.MutedUntil = &until
		if until.After(s.LastTick) {
			s.LastTick = until
		}
	}
}

// DecayTo projects the state forward to now. Expired warnings retire before
// strikes, each one advancing LastTick by the window it consumed. Nothing in
// the stored ledger changes: decay is decided at read time.
func (s *WarningState) DecayTo(now time.Time) {
	if s.MutedUntil != nil && !now.Before(*s.MutedUntil) {
		s.MutedUntil = nil
	}

	for s.Warnings > 0 || s.Strikes > 0 {
		var window time.Duration
		if s.Warnings > 0 {
			window = WarningExpiry(s.Warnings)
		} else {
			window = StrikeExpiry
		}

		expiry := s.LastTick.Add(window)
		if expiry.After(now) {
			break
		}

		if s.Warnings > 0 {
			s.Warnings--
		} else {
			s.Strikes--
		}
		s.LastTick = expiry
	}
}

// Muted reports whether the user is under an active mute penalty at now.
func (s *WarningState) Muted(now time.Time) bool {
	return s.MutedUntil != nil && now.Before(*s.MutedUntil)
}

// NextExpiry returns how long until the next active warning or strike
// naturally expires, measured from now, along with what expires ("warning"
// or "strike"). The boolean is false when nothing is active.
func (s *WarningState) NextExpiry(now time.Time) (time.Duration, string, bool) {
	if s.Warnings == 0 && s.Strikes == 0 {
		return 0, "", false
	}
	if s.Warnings == 0 {
		return StrikeExpiry - now.Sub(s.LastTick), "strike", true
	}
	return WarningExpiry(s.Warnings) - now.Sub(s.LastTick), "warning", true
}
