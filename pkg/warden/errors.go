package warden

import (
	"errors"
	"fmt"
)

// Failures here are all local and recoverable: they are reported back to the
// initiating moderator and leave the ledger and mute state untouched.
var (
	// ErrUnknownWarning means no record exists with the given id.
	ErrUnknownWarning = errors.New("invalid warning ID")
	// ErrUserMismatch means the record exists but belongs to another user.
	// This catches typos in warning ids.
	ErrUserMismatch = errors.New("warning ID does not match with user")
	// ErrStaffTarget means the target of a new warning is a staff member.
	ErrStaffTarget = errors.New("user is staff")
)

// NotIssuerError is returned when someone other than the original issuer
// tries to edit or remove a record without the force override.
type NotIssuerError struct {
	Action   string
	IssuerID string
}

func (e *NotIssuerError) Error() string {
	return fmt.Sprintf("warning can only be %s by its issuer <@%s>", e.Action, e.IssuerID)
}
