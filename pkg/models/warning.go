// Package models contains the persistent data structures shared by the bot.
package models

import "time"

// Severity classifies a warning record.
// The numeric values are the wire/database encoding and are also what
// moderators type into the severity prompt, so they must stay stable.
type Severity int

const (
	// SeverityInitial is an informational first notice for a specific rule.
	// It never counts towards escalation or decay.
	SeverityInitial Severity = 0
	// SeverityWarning counts towards the escalating warning track.
	SeverityWarning Severity = 1
	// SeverityStrike is the highest severity and triggers a timed mute.
	SeverityStrike Severity = 3
)

// Valid reports whether s is one of the three known severities.
func (s Severity) Valid() bool {
	return s == SeverityInitial || s == SeverityWarning || s == SeverityStrike
}

// String returns the human-readable name used in embeds and announcements.
func (s Severity) String() string {
	switch s {
	case SeverityInitial:
		return "Initial Warning"
	case SeverityWarning:
		return "Warning"
	case SeverityStrike:
		return "Strike"
	default:
		return "Unknown"
	}
}

// Warning is one disciplinary entry in a user's ledger.
// Records are never hard-deleted: removal sets the Remove* fields and the
// record stays in the collection for audit history.
type Warning struct {
	ID        int64     `bson:"_id" json:"id"`
	GuildID   string    `bson:"guildId" json:"guildId"`
	UserID    string    `bson:"userId" json:"userId"`
	IssuerID  string    `bson:"issuerId" json:"issuerId"`
	ChannelID string    `bson:"channelId" json:"channelId"`
	MessageID string    `bson:"messageId" json:"messageId"`
	IssueDate time.Time `bson:"issueDate" json:"issueDate"`
	Severity  Severity  `bson:"severity" json:"severity"`
	Reason    string    `bson:"reason" json:"reason"`

	// Set together when the record is soft-deleted, empty otherwise.
	RemoveDate      *time.Time `bson:"removeDate,omitempty" json:"removeDate,omitempty"`
	RemoverID       string     `bson:"removerId,omitempty" json:"removerId,omitempty"`
	RemoveReason    string     `bson:"removeReason,omitempty" json:"removeReason,omitempty"`
	RemoveChannelID string     `bson:"removeChannelId,omitempty" json:"removeChannelId,omitempty"`
	RemoveMessageID string     `bson:"removeMessageId,omitempty" json:"removeMessageId,omitempty"`
}

// Removed reports whether the record has been soft-deleted.
func (w *Warning) Removed() bool {
	return w.RemoveDate != nil
}

// MarkRemoved fills in all soft-delete fields at once so the
// "RemoveDate present implies all remove fields present" invariant holds.
func (w *Warning) MarkRemoved(date time.Time, removerID, channelID, messageID, reason string) {
	w.RemoveDate = &date
	w.RemoverID = removerID
	w.RemoveChannelID = channelID
	w.RemoveMessageID = messageID
	w.RemoveReason = reason
}
