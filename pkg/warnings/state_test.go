package warnings

import (
	"reflect"
	"testing"
	"time"

	"github.com/PancyStudios/WardenGo/pkg/models"
)

var epoch = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

func days(n int) time.Duration {
	return time.Duration(n) * 24 * time.Hour
}

func record(id int64, sev models.Severity, issued time.Time) models.Warning {
	return models.Warning{
		ID:        id,
		UserID:    "user",
		IssuerID:  "mod",
		IssueDate: issued,
		Severity:  sev,
		Reason:    "test",
	}
}

func TestEmptyHistory(t *testing.T) {
	state := StateFromHistory(nil)

	if state.Warnings != 0 || state.Strikes != 0 {
		t.Errorf("empty history: warnings=%d strikes=%d, want 0/0", state.Warnings, state.Strikes)
	}
	if state.MutedUntil != nil {
		t.Errorf("empty history: MutedUntil = %v, want nil", state.MutedUntil)
	}
}

func TestInitialWarningDoesNotEscalate(t *testing.T) {
	history := []models.Warning{
		record(1, models.SeverityInitial, epoch),
		record(2, models.SeverityInitial, epoch.Add(days(1))),
	}
	state := StateFromHistory(history)

	if state.Warnings != 0 || state.Strikes != 0 {
		t.Errorf("initial warnings escalated: warnings=%d strikes=%d", state.Warnings, state.Strikes)
	}
	if !state.LastTick.IsZero() {
		t.Errorf("initial warning moved LastTick to %v", state.LastTick)
	}
}

func TestStrikeSetsMute(t *testing.T) {
	state := StateFromHistory([]models.Warning{record(1, models.SeverityStrike, epoch)})

	if state.Strikes != 1 {
		t.Fatalf("strikes = %d, want 1", state.Strikes)
	}
	want := epoch.Add(days(StrikeExpiryDays))
	if state.MutedUntil == nil || !state.MutedUntil.Equal(want) {
		t.Fatalf("MutedUntil = %v, want %v", state.MutedUntil, want)
	}

	// Still muted any time before expiry.
	if !state.Muted(want.Add(-time.Second)) {
		t.Error("Muted() = false one second before expiry")
	}

	// Projecting to the expiry clears the mute but the strike stays active
	// for another full strike window.
	at := state
	at.DecayTo(want)
	if at.MutedUntil != nil {
		t.Errorf("MutedUntil survived projection to expiry: %v", at.MutedUntil)
	}
	if at.Strikes != 1 {
		t.Errorf("strike decayed with the mute: strikes = %d", at.Strikes)
	}

	gone := state
	gone.DecayTo(want.Add(days(StrikeExpiryDays)))
	if gone.Strikes != 0 {
		t.Errorf("strike still active after its decay window: strikes = %d", gone.Strikes)
	}
}

func TestWarningExpiryDaysMonotonic(t *testing.T) {
	prev := 0
	for count := 0; count <= 10; count++ {
		got := WarningExpiryDays(count)
		if got < prev {
			t.Fatalf("WarningExpiryDays(%d) = %d, less than WarningExpiryDays(%d) = %d", count, got, count-1, prev)
		}
		prev = got
	}
}

func TestFoldIsDeterministic(t *testing.T) {
	history := []models.Warning{
		record(1, models.SeverityWarning, epoch),
		record(2, models.SeverityStrike, epoch.Add(days(3))),
		record(3, models.SeverityWarning, epoch.Add(days(20))),
	}

	first := StateFromHistory(history)
	second := StateFromHistory(history)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("same history, different states: %+v vs %+v", first, second)
	}
}

func TestAddEquivalentToRefold(t *testing.T) {
	histories := [][]models.Warning{
		nil,
		{record(1, models.SeverityWarning, epoch)},
		{record(1, models.SeverityStrike, epoch), record(2, models.SeverityWarning, epoch.Add(days(5)))},
		{record(1, models.SeverityWarning, epoch), record(2, models.SeverityWarning, epoch.Add(days(40)))},
	}
	appended := []models.Warning{
		record(10, models.SeverityInitial, epoch.Add(days(50))),
		record(11, models.SeverityWarning, epoch.Add(days(50))),
		record(12, models.SeverityStrike, epoch.Add(days(50))),
	}

	for _, history := range histories {
		for _, extra := range appended {
			incremental := StateFromHistory(history)
			incremental.Add(extra.Severity, extra.IssueDate)

			refolded := StateFromHistory(append(append([]models.Warning{}, history...), extra))
			if !reflect.DeepEqual(incremental, refolded) {
				t.Errorf("history len %d + severity %d: Add gave %+v, refold gave %+v",
					len(history), extra.Severity, incremental, refolded)
			}
		}
	}
}

func TestSecondWarningUsesEscalatedWindow(t *testing.T) {
	first := epoch
	second := epoch.Add(days(10))

	state := StateFromHistory([]models.Warning{
		record(1, models.SeverityWarning, first),
		record(2, models.SeverityWarning, second),
	})

	if state.Warnings != 2 {
		t.Fatalf("warnings = %d, want 2 (first warning must not decay within 10 days)", state.Warnings)
	}

	remaining, next, ok := state.NextExpiry(second)
	if !ok || next != "warning" {
		t.Fatalf("NextExpiry = %q ok=%v, want warning", next, ok)
	}
	// The window must reflect the 2-count policy value, not the 1-count one.
	if want := WarningExpiry(2); remaining != want {
		t.Errorf("next expiry window = %v, want %v", remaining, want)
	}
}

func TestWarningsDecayOneWindowAtATime(t *testing.T) {
	state := StateFromHistory([]models.Warning{
		record(1, models.SeverityWarning, epoch),
		record(2, models.SeverityWarning, epoch.Add(days(1))),
	})
	if state.Warnings != 2 {
		t.Fatalf("warnings = %d, want 2", state.Warnings)
	}

	// First expiry: one window at the 2-count rate from the newest record.
	afterOne := state
	afterOne.DecayTo(epoch.Add(days(1)).Add(WarningExpiry(2)))
	if afterOne.Warnings != 1 {
		t.Fatalf("after one window: warnings = %d, want 1", afterOne.Warnings)
	}

	// Second expiry: another window at the now-1-count rate.
	afterTwo := state
	afterTwo.DecayTo(epoch.Add(days(1)).Add(WarningExpiry(2)).Add(WarningExpiry(1)))
	if afterTwo.Warnings != 0 {
		t.Fatalf("after both windows: warnings = %d, want 0", afterTwo.Warnings)
	}
}

func TestRemovedRecordsAreSkipped(t *testing.T) {
	removed := record(1, models.SeverityStrike, epoch)
	removed.MarkRemoved(epoch.Add(days(1)), "mod2", "chan", "msg", "appeal accepted")

	state := StateFromHistory([]models.Warning{
		removed,
		record(2, models.SeverityWarning, epoch.Add(days(2))),
	})

	if state.Strikes != 0 {
		t.Errorf("removed strike still counted: strikes = %d", state.Strikes)
	}
	if state.Warnings != 1 {
		t.Errorf("warnings = %d, want 1", state.Warnings)
	}
	if state.MutedUntil != nil {
		t.Errorf("removed strike still mutes: %v", state.MutedUntil)
	}
}

func TestEditSeverityChangesTracks(t *testing.T) {
	history := []models.Warning{
		record(1, models.SeverityWarning, epoch),
		record(2, models.SeverityWarning, epoch.Add(days(2))),
	}
	before := StateFromHistory(history)
	if before.Warnings != 2 || before.Strikes != 0 {
		t.Fatalf("before edit: %+v", before)
	}

	// An edit raising severity from 1 to 3 is a refold of the same history
	// with the record's severity changed.
	history[1].Severity = models.SeverityStrike
	after := StateFromHistory(history)

	if after.Warnings != 1 || after.Strikes != 1 {
		t.Fatalf("after edit: warnings=%d strikes=%d, want 1/1", after.Warnings, after.Strikes)
	}
	want := history[1].IssueDate.Add(days(StrikeExpiryDays))
	if after.MutedUntil == nil || !after.MutedUntil.Equal(want) {
		t.Fatalf("after edit: MutedUntil = %v, want %v", after.MutedUntil, want)
	}
}

func TestUnorderedHistoryFoldsByIssueDate(t *testing.T) {
	a := record(1, models.SeverityWarning, epoch)
	b := record(2, models.SeverityWarning, epoch.Add(days(10)))

	ordered := StateFromHistory([]models.Warning{a, b})
	shuffled := StateFromHistory([]models.Warning{b, a})

	if !reflect.DeepEqual(ordered, shuffled) {
		t.Errorf("fold depends on slice order: %+v vs %+v", ordered, shuffled)
	}
}

func TestNextExpiryPrefersWarnings(t *testing.T) {
	state := StateFromHistory([]models.Warning{
		record(1, models.SeverityStrike, epoch),
		record(2, models.SeverityWarning, epoch.Add(days(1))),
	})

	_, next, ok := state.NextExpiry(epoch.Add(days(2)))
	if !ok || next != "warning" {
		t.Errorf("NextExpiry = %q ok=%v, want warning first", next, ok)
	}
}
