package models

import "time"

// Mute represents an active timed mute applied to a user.
// Disciplinary mutes come from the warning ledger (strike penalties) and
// cannot be lifted by the user; manual mutes come from /mod mute.
type Mute struct {
	UserID       string    `bson:"_id" json:"userId"`
	IssuerID     string    `bson:"issuerId" json:"issuerId"`
	IssueDate    time.Time `bson:"issueDate" json:"issueDate"`
	ExpiryDate   time.Time `bson:"expiryDate" json:"expiryDate"`
	Disciplinary bool      `bson:"disciplinary" json:"disciplinary"`
}

// Expired reports whether the mute has run out as of now.
func (m *Mute) Expired(now time.Time) bool {
	return !now.Before(m.ExpiryDate)
}
