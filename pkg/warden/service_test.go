package warden

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/PancyStudios/WardenGo/pkg/models"
	"github.com/PancyStudios/WardenGo/pkg/prompt"
	"github.com/PancyStudios/WardenGo/pkg/warnings"
)

// fakeStore keeps the ledger in memory with the same exclusive-scope
// semantics as the Mongo store.
type fakeStore struct {
	mu      sync.Mutex
	scope   sync.Mutex
	nextID  int64
	records map[string][]models.Warning
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string][]models.Warning)}
}

func (f *fakeStore) NextID(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	return f.nextID, nil
}

func (f *fakeStore) Warnings(ctx context.Context, userID string) ([]models.Warning, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Warning{}, f.records[userID]...), nil
}

func (f *fakeStore) Warning(ctx context.Context, id int64) (*models.Warning, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, history := range f.records {
		for i := range history {
			if history[i].ID == id {
				w := history[i]
				return &w, nil
			}
		}
	}
	return nil, nil
}

func (f *fakeStore) WithUserWarnings(ctx context.Context, userID string, fn func([]models.Warning) ([]models.Warning, error)) ([]models.Warning, error) {
	f.scope.Lock()
	defer f.scope.Unlock()

	history, _ := f.Warnings(ctx, userID)
	updated, err := fn(history)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.records[userID] = append([]models.Warning{}, updated...)
	f.mu.Unlock()
	return updated, nil
}

type muteCall struct {
	mute   models.Mute
	unmute bool
	userID string
}

type fakeMuter struct {
	mu    sync.Mutex
	calls []muteCall
}

func (f *fakeMuter) Mute(ctx context.Context, m models.Mute, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, muteCall{mute: m, userID: m.UserID})
	return nil
}

func (f *fakeMuter) Unmute(ctx context.Context, userID, issuerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, muteCall{unmute: true, userID: userID})
	return nil
}

func (f *fakeMuter) mutes() []muteCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []muteCall
	for _, c := range f.calls {
		if !c.unmute {
			out = append(out, c)
		}
	}
	return out
}

// fakePrompter answers with a fixed severity, or a fixed error.
type fakePrompter struct {
	severity models.Severity
	err      error
	requests []SeverityRequest
	mu       sync.Mutex
}

func (f *fakePrompter) RequestSeverity(ctx context.Context, req SeverityRequest) (models.Severity, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	return f.severity, nil
}

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingSink) PublishEvent(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

var testNow = time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC)

func newTestService(store Store, muter Muter, prompter SeverityPrompter, sink EventSink) *Service {
	svc := NewService(store, muter, prompter, sink)
	svc.Now = func() time.Time { return testNow }
	svc.SetEnforcer("bot")
	return svc
}

func TestIssueWarning(t *testing.T) {
	store := newFakeStore()
	muter := &fakeMuter{}
	sink := &recordingSink{}
	svc := newTestService(store, muter, &fakePrompter{severity: models.SeverityWarning}, sink)

	res, err := svc.Issue(context.Background(), IssueRequest{
		GuildID: "guild", UserID: "user", IssuerID: "mod",
		ChannelID: "chan", MessageID: "msg", Reason: "spamming",
	})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if res.State.Warnings != 1 || res.State.Strikes != 0 {
		t.Errorf("state = %+v, want 1 warning", res.State)
	}
	if res.Warning.ID != 1 {
		t.Errorf("warning id = %d, want 1", res.Warning.ID)
	}

	history, _ := store.Warnings(context.Background(), "user")
	if len(history) != 1 || history[0].Reason != "spamming" {
		t.Fatalf("persisted history = %+v", history)
	}

	// A non-strike issue still syncs the bridge (unmute, idempotent no-op).
	if len(muter.calls) != 1 || !muter.calls[0].unmute {
		t.Errorf("mute bridge calls = %+v, want one unmute", muter.calls)
	}

	if len(sink.events) != 1 || sink.events[0].Type != EventWarningIssued {
		t.Errorf("events = %+v, want one warning.issued", sink.events)
	}
}

func TestIssueStrikeMutes(t *testing.T) {
	store := newFakeStore()
	muter := &fakeMuter{}
	svc := newTestService(store, muter, &fakePrompter{severity: models.SeverityStrike}, nil)

	res, err := svc.Issue(context.Background(), IssueRequest{UserID: "user", IssuerID: "mod"})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	wantExpiry := testNow.Add(warnings.StrikeExpiry)
	if res.State.MutedUntil == nil || !res.State.MutedUntil.Equal(wantExpiry) {
		t.Fatalf("MutedUntil = %v, want %v", res.State.MutedUntil, wantExpiry)
	}

	mutes := muter.mutes()
	if len(mutes) != 1 {
		t.Fatalf("apply-mute called %d times, want exactly once", len(mutes))
	}
	m := mutes[0].mute
	if !m.ExpiryDate.Equal(wantExpiry) || m.UserID != "user" || m.IssuerID != "bot" || !m.Disciplinary {
		t.Errorf("mute = %+v", m)
	}
}

func TestIssueTimeoutPersistsNothing(t *testing.T) {
	store := newFakeStore()
	muter := &fakeMuter{}
	sink := &recordingSink{}
	svc := newTestService(store, muter, &fakePrompter{err: prompt.ErrTimeout}, sink)

	_, err := svc.Issue(context.Background(), IssueRequest{UserID: "user", IssuerID: "mod"})
	if !errors.Is(err, prompt.ErrTimeout) {
		t.Fatalf("Issue() error = %v, want timeout", err)
	}

	history, _ := store.Warnings(context.Background(), "user")
	if len(history) != 0 {
		t.Errorf("record persisted despite timeout: %+v", history)
	}
	if len(muter.calls) != 0 {
		t.Errorf("mute bridge touched despite timeout: %+v", muter.calls)
	}
	if len(sink.events) != 0 {
		t.Errorf("event published despite timeout: %+v", sink.events)
	}
}

func TestIssueInvalidInputAborts(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeMuter{}, &fakePrompter{err: prompt.ErrInvalidInput}, nil)

	_, err := svc.Issue(context.Background(), IssueRequest{UserID: "user", IssuerID: "mod"})
	if !errors.Is(err, prompt.ErrInvalidInput) {
		t.Fatalf("Issue() error = %v, want invalid input", err)
	}
	history, _ := store.Warnings(context.Background(), "user")
	if len(history) != 0 {
		t.Errorf("record persisted despite invalid input: %+v", history)
	}
}

func seedWarning(store *fakeStore, w models.Warning) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.records[w.UserID] = append(store.records[w.UserID], w)
	if w.ID > store.nextID {
		store.nextID = w.ID
	}
}

func TestEditRaisesSeverity(t *testing.T) {
	store := newFakeStore()
	muter := &fakeMuter{}
	seedWarning(store, models.Warning{
		ID: 7, UserID: "user", IssuerID: "mod",
		IssueDate: testNow.Add(-time.Hour), Severity: models.SeverityWarning, Reason: "old",
	})
	svc := newTestService(store, muter, &fakePrompter{severity: models.SeverityStrike}, nil)

	res, err := svc.Edit(context.Background(), EditRequest{
		UserID: "user", ID: 7, IssuerID: "mod", Reason: "updated",
	})
	if err != nil {
		t.Fatalf("Edit() error = %v", err)
	}

	if res.State.Warnings != 0 || res.State.Strikes != 1 {
		t.Errorf("state = %+v, want the warning converted to a strike", res.State)
	}
	if !res.SeverityChanged || res.OldSeverity != models.SeverityWarning {
		t.Errorf("severity change not reported: %+v", res)
	}
	if !res.ReasonChanged || res.OldReason != "old" {
		t.Errorf("reason change not reported: %+v", res)
	}

	mutes := muter.mutes()
	if len(mutes) != 1 {
		t.Fatalf("apply-mute called %d times, want once", len(mutes))
	}
	wantExpiry := testNow.Add(-time.Hour).Add(warnings.StrikeExpiry)
	if !mutes[0].mute.ExpiryDate.Equal(wantExpiry) {
		t.Errorf("mute expiry = %v, want %v", mutes[0].mute.ExpiryDate, wantExpiry)
	}

	history, _ := store.Warnings(context.Background(), "user")
	if history[0].Severity != models.SeverityStrike || history[0].Reason != "updated" {
		t.Errorf("persisted record = %+v", history[0])
	}
}

func TestEditRejectsWrongIssuer(t *testing.T) {
	store := newFakeStore()
	seedWarning(store, models.Warning{ID: 7, UserID: "user", IssuerID: "mod-a", Severity: models.SeverityWarning})
	svc := newTestService(store, &fakeMuter{}, &fakePrompter{severity: models.SeverityWarning}, nil)

	_, err := svc.Edit(context.Background(), EditRequest{UserID: "user", ID: 7, IssuerID: "mod-b"})
	var notIssuer *NotIssuerError
	if !errors.As(err, &notIssuer) {
		t.Fatalf("Edit() error = %v, want NotIssuerError", err)
	}
	if notIssuer.IssuerID != "mod-a" {
		t.Errorf("required issuer = %q, want mod-a", notIssuer.IssuerID)
	}

	// Force overrides the issuer rule.
	if _, err := svc.Edit(context.Background(), EditRequest{UserID: "user", ID: 7, IssuerID: "mod-b", Force: true}); err != nil {
		t.Fatalf("forced Edit() error = %v", err)
	}
}

func TestEditValidation(t *testing.T) {
	store := newFakeStore()
	seedWarning(store, models.Warning{ID: 7, UserID: "user", IssuerID: "mod", Severity: models.SeverityWarning})
	svc := newTestService(store, &fakeMuter{}, &fakePrompter{severity: models.SeverityWarning}, nil)

	if _, err := svc.Edit(context.Background(), EditRequest{UserID: "user", ID: 99, IssuerID: "mod"}); !errors.Is(err, ErrUnknownWarning) {
		t.Errorf("unknown id: error = %v, want ErrUnknownWarning", err)
	}
	if _, err := svc.Edit(context.Background(), EditRequest{UserID: "other", ID: 7, IssuerID: "mod"}); !errors.Is(err, ErrUnknownWarning) {
		// The scope reads the target user's history, so a foreign id is
		// simply not found there.
		t.Errorf("foreign id: error = %v, want ErrUnknownWarning", err)
	}
}

func TestRemoveSoftDeletes(t *testing.T) {
	store := newFakeStore()
	muter := &fakeMuter{}
	sink := &recordingSink{}
	seedWarning(store, models.Warning{
		ID: 3, UserID: "user", IssuerID: "mod",
		IssueDate: testNow.Add(-time.Hour), Severity: models.SeverityStrike, Reason: "flooding",
	})
	svc := newTestService(store, muter, &fakePrompter{}, sink)

	res, err := svc.Remove(context.Background(), RemoveRequest{
		UserID: "user", ID: 3, RemoverID: "mod",
		ChannelID: "chan", MessageID: "msg", Reason: "appeal accepted",
	})
	if err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	history, _ := store.Warnings(context.Background(), "user")
	if len(history) != 1 {
		t.Fatalf("record hard-deleted: history = %+v", history)
	}
	w := history[0]
	if !w.Removed() || w.RemoverID != "mod" || w.RemoveReason != "appeal accepted" ||
		w.RemoveChannelID != "chan" || w.RemoveMessageID != "msg" {
		t.Errorf("remove fields not set together: %+v", w)
	}

	if res.State.Strikes != 0 {
		t.Errorf("removed strike still counted: %+v", res.State)
	}
	// Removing a record does not touch the mute bridge.
	if len(muter.calls) != 0 {
		t.Errorf("mute bridge touched on remove: %+v", muter.calls)
	}
	if len(sink.events) != 1 || sink.events[0].Type != EventWarningRemoved {
		t.Errorf("events = %+v", sink.events)
	}
}

func TestRemoveRejectsWrongIssuerWithoutForce(t *testing.T) {
	store := newFakeStore()
	seedWarning(store, models.Warning{ID: 3, UserID: "user", IssuerID: "mod-a", Severity: models.SeverityWarning})
	svc := newTestService(store, &fakeMuter{}, &fakePrompter{}, nil)

	_, err := svc.Remove(context.Background(), RemoveRequest{UserID: "user", ID: 3, RemoverID: "mod-b"})
	var notIssuer *NotIssuerError
	if !errors.As(err, &notIssuer) {
		t.Fatalf("Remove() error = %v, want NotIssuerError", err)
	}

	if _, err := svc.Remove(context.Background(), RemoveRequest{UserID: "user", ID: 3, RemoverID: "mod-b", Force: true}); err != nil {
		t.Fatalf("forced Remove() error = %v", err)
	}
}

// slowPrompter simulates the human-speed suspension inside the scope.
type slowPrompter struct {
	delay    time.Duration
	severity models.Severity
}

func (p *slowPrompter) RequestSeverity(ctx context.Context, req SeverityRequest) (models.Severity, error) {
	time.Sleep(p.delay)
	return p.severity, nil
}

func TestConcurrentIssuesSerialize(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeMuter{}, &slowPrompter{delay: 30 * time.Millisecond, severity: models.SeverityWarning}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Issue(context.Background(), IssueRequest{UserID: "user", IssuerID: "mod"}); err != nil {
				t.Errorf("Issue() error = %v", err)
			}
		}()
	}
	wg.Wait()

	history, _ := store.Warnings(context.Background(), "user")
	if len(history) != 2 {
		t.Fatalf("lost update: %d records persisted, want 2", len(history))
	}
	if history[0].ID == history[1].ID {
		t.Errorf("duplicate ids: %d", history[0].ID)
	}

	state := warnings.StateFromHistory(history)
	state.DecayTo(testNow)
	if state.Warnings != 2 {
		t.Errorf("warnings = %d, want 2", state.Warnings)
	}
}

func TestStatusDerivesWithoutMutating(t *testing.T) {
	store := newFakeStore()
	seedWarning(store, models.Warning{
		ID: 1, UserID: "user", IssuerID: "mod",
		IssueDate: testNow.Add(-2 * time.Hour), Severity: models.SeverityWarning,
	})
	svc := newTestService(store, &fakeMuter{}, &fakePrompter{}, nil)

	state, history, err := svc.Status(context.Background(), "user")
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if state.Warnings != 1 || len(history) != 1 {
		t.Errorf("state = %+v, history len %d", state, len(history))
	}
}
