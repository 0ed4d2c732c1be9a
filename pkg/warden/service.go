// Package warden is the orchestration core of the warning ledger: it runs
// the issue, edit and remove flows inside the per-user exclusive scope,
// drives the severity prompt, and keeps the mute bridge in sync with the
// derived state. Everything it talks to — store, muter, prompter, event
// sinks — comes in through an interface, so the flows are testable without
// Mongo or Discord.
package warden

import (
	"context"
	"time"

	"github.com/PancyStudios/WardenGo/pkg/models"
	"github.com/PancyStudios/WardenGo/pkg/warnings"
)

// SeverityTimeout is how long the severity prompt waits for the moderator.
const SeverityTimeout = 5 * time.Minute

// Store is the persistence boundary of the ledger.
type Store interface {
	NextID(ctx context.Context) (int64, error)
	Warnings(ctx context.Context, userID string) ([]models.Warning, error)
	Warning(ctx context.Context, id int64) (*models.Warning, error)
	WithUserWarnings(ctx context.Context, userID string, fn func(history []models.Warning) ([]models.Warning, error)) ([]models.Warning, error)
}

// Muter applies and lifts timed restrictions. Both calls must be idempotent:
// muting an already-muted user or unmuting an unmuted one is a no-op.
type Muter interface {
	Mute(ctx context.Context, m models.Mute, reason string) error
	Unmute(ctx context.Context, userID, issuerID string) error
}

// SeverityRequest carries the context a moderator needs to pick a severity.
type SeverityRequest struct {
	IssuerID string
	TargetID string
	// History is the target's full ledger at prompt time.
	History []models.Warning
	// State is the derived state shown alongside the candidate record.
	State warnings.WarningState
	// Candidate is the record being issued or edited, severity not yet set.
	Candidate models.Warning
}

// SeverityPrompter obtains exactly one severity decision from a moderator.
// Implementations must honor the context deadline and return
// prompt.ErrTimeout / prompt.ErrInvalidInput style failures unchanged.
type SeverityPrompter interface {
	RequestSeverity(ctx context.Context, req SeverityRequest) (models.Severity, error)
}

// Event is one moderation event emitted after a successful mutation.
type Event struct {
	Type    string                `json:"type"`
	Warning models.Warning        `json:"warning"`
	State   warnings.WarningState `json:"state"`
}

// Event types published to sinks.
const (
	EventWarningIssued  = "warning.issued"
	EventWarningEdited  = "warning.edited"
	EventWarningRemoved = "warning.removed"
)

// EventSink receives moderation events (MQTT, websocket feed, ...).
type EventSink interface {
	PublishEvent(e Event)
}

// MultiSink fans one event out to several sinks.
type MultiSink []EventSink

// PublishEvent implements EventSink.
func (m MultiSink) PublishEvent(e Event) {
	for _, sink := range m {
		if sink != nil {
			sink.PublishEvent(e)
		}
	}
}

// Service wires the ledger flows together. All moderator identity and guild
// context comes in through the request structs, never from globals.
type Service struct {
	Store    Store
	Muter    Muter
	Prompter SeverityPrompter
	Events   EventSink
	// Now supplies timestamps; tests pin it.
	Now func() time.Time
	// enforcer is the identity mutes are issued under (the bot user).
	enforcer string
}

// NewService creates a Service with the given collaborators.
func NewService(store Store, muter Muter, prompter SeverityPrompter, events EventSink) *Service {
	return &Service{
		Store:    store,
		Muter:    muter,
		Prompter: prompter,
		Events:   events,
		Now:      time.Now,
	}
}

// SetEnforcer sets the identity used when applying ledger mutes. Called once
// the bot session knows its own user id.
func (s *Service) SetEnforcer(userID string) {
	s.enforcer = userID
}

// Result is what a successful mutation hands back to the presentation layer.
type Result struct {
	Warning models.Warning
	State   warnings.WarningState
	// Edit bookkeeping for the announcement.
	OldReason       string
	OldSeverity     models.Severity
	ReasonChanged   bool
	SeverityChanged bool
}

// IssueRequest describes a new warning. Channel and message identify the
// moderator action that triggered it, kept for audit links.
type IssueRequest struct {
	GuildID   string
	UserID    string
	IssuerID  string
	ChannelID string
	MessageID string
	Reason    string
}

// Issue creates a new warning record. The whole read-prompt-write sequence
// runs inside the user's exclusive scope: the severity prompt can suspend
// for up to five minutes, and a concurrent issue or edit on the same user
// must not read state from before this record lands. On any failure nothing
// is persisted and the mute state is left as it was.
func (s *Service) Issue(ctx context.Context, req IssueRequest) (*Result, error) {
	var res *Result
	_, err := s.Store.WithUserWarnings(ctx, req.UserID, func(history []models.Warning) ([]models.Warning, error) {
		now := s.Now().UTC()

		state := warnings.StateFromHistory(history)
		state.DecayTo(now)

		w := models.Warning{
			GuildID:   req.GuildID,
			UserID:    req.UserID,
			IssuerID:  req.IssuerID,
			ChannelID: req.ChannelID,
			MessageID: req.MessageID,
			IssueDate: now,
			Reason:    req.Reason,
		}

		severity, err := s.Prompter.RequestSeverity(ctx, SeverityRequest{
			IssuerID:  req.IssuerID,
			TargetID:  req.UserID,
			History:   history,
			State:     state,
			Candidate: w,
		})
		if err != nil {
			return nil, err
		}
		w.Severity = severity

		id, err := s.Store.NextID(ctx)
		if err != nil {
			return nil, err
		}
		w.ID = id

		state.Add(w.Severity, w.IssueDate)

		if err := s.syncMute(ctx, req.UserID, state); err != nil {
			return nil, err
		}

		res = &Result{Warning: w, State: state}
		return append(history, w), nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(EventWarningIssued, res)
	return res, nil
}

// EditRequest describes an edit of an existing record. An empty Reason keeps
// the old one. Force lets staff override the issuer-only rule.
type EditRequest struct {
	GuildID   string
	UserID    string
	ID        int64
	IssuerID  string
	ChannelID string
	MessageID string
	Reason    string
	Force     bool
}

// Edit re-runs the severity prompt for an existing record and optionally
// replaces its reason. Runs entirely inside the user's exclusive scope.
func (s *Service) Edit(ctx context.Context, req EditRequest) (*Result, error) {
	var res *Result
	_, err := s.Store.WithUserWarnings(ctx, req.UserID, func(history []models.Warning) ([]models.Warning, error) {
		w := findWarning(history, req.ID)
		if w == nil {
			return nil, ErrUnknownWarning
		}
		if w.UserID != req.UserID {
			return nil, ErrUserMismatch
		}
		if w.IssuerID != req.IssuerID && !req.Force {
			return nil, &NotIssuerError{Action: "edited", IssuerID: w.IssuerID}
		}

		oldReason := w.Reason
		oldSeverity := w.Severity
		if req.Reason != "" {
			w.Reason = req.Reason
		}

		now := s.Now().UTC()
		state := warnings.StateFromHistory(history)
		state.DecayTo(now)

		severity, err := s.Prompter.RequestSeverity(ctx, SeverityRequest{
			IssuerID:  req.IssuerID,
			TargetID:  req.UserID,
			History:   history,
			State:     state,
			Candidate: *w,
		})
		if err != nil {
			return nil, err
		}
		w.Severity = severity

		// The record changed in place, so the whole history is refolded.
		state = warnings.StateFromHistory(history)
		state.DecayTo(now)

		if err := s.syncMute(ctx, req.UserID, state); err != nil {
			return nil, err
		}

		res = &Result{
			Warning:         *w,
			State:           state,
			OldReason:       oldReason,
			OldSeverity:     oldSeverity,
			ReasonChanged:   w.Reason != oldReason,
			SeverityChanged: w.Severity != oldSeverity,
		}
		return history, nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(EventWarningEdited, res)
	return res, nil
}

// RemoveRequest describes a soft delete of one record.
type RemoveRequest struct {
	GuildID   string
	UserID    string
	ID        int64
	RemoverID string
	ChannelID string
	MessageID string
	Reason    string
	Force     bool
}

// Remove soft-deletes a record: the remove fields are set and the record
// stays in the ledger for audit history. Remove runs inside the same
// exclusive scope as issue and edit; the historical shortcut of mutating a
// single record outside the scope raced against concurrent issues. The mute
// bridge is deliberately not touched here — lifting a mute stays an explicit
// moderator action.
func (s *Service) Remove(ctx context.Context, req RemoveRequest) (*Result, error) {
	var res *Result
	_, err := s.Store.WithUserWarnings(ctx, req.UserID, func(history []models.Warning) ([]models.Warning, error) {
		w := findWarning(history, req.ID)
		if w == nil {
			return nil, ErrUnknownWarning
		}
		if w.UserID != req.UserID {
			return nil, ErrUserMismatch
		}
		if w.IssuerID != req.RemoverID && !req.Force {
			return nil, &NotIssuerError{Action: "deleted", IssuerID: w.IssuerID}
		}

		now := s.Now().UTC()
		w.MarkRemoved(now, req.RemoverID, req.ChannelID, req.MessageID, req.Reason)

		state := warnings.StateFromHistory(history)
		state.DecayTo(now)

		res = &Result{Warning: *w, State: state}
		return history, nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(EventWarningRemoved, res)
	return res, nil
}

// Status derives a user's current state without mutating anything.
func (s *Service) Status(ctx context.Context, userID string) (warnings.WarningState, []models.Warning, error) {
	history, err := s.Store.Warnings(ctx, userID)
	if err != nil {
		return warnings.WarningState{}, nil, err
	}
	state := warnings.StateFromHistory(history)
	state.DecayTo(s.Now().UTC())
	return state, history, nil
}

// syncMute pushes the derived state at the mute bridge. Called after every
// issue/edit recompute even when the mute did not change; the bridge is
// idempotent.
func (s *Service) syncMute(ctx context.Context, userID string, state warnings.WarningState) error {
	now := s.Now().UTC()
	if state.MutedUntil != nil && state.MutedUntil.After(now) {
		return s.Muter.Mute(ctx, models.Mute{
			UserID:       userID,
			IssuerID:     s.enforcer,
			IssueDate:    now,
			ExpiryDate:   *state.MutedUntil,
			Disciplinary: true,
		}, "You got a strike!")
	}
	return s.Muter.Unmute(ctx, userID, s.enforcer)
}

func (s *Service) publish(eventType string, res *Result) {
	if s.Events == nil || res == nil {
		return
	}
	s.Events.PublishEvent(Event{Type: eventType, Warning: res.Warning, State: res.State})
}

func findWarning(history []models.Warning, id int64) *models.Warning {
	for i := range history {
		if history[i].ID == id {
			return &history[i]
		}
	}
	return nil
}
