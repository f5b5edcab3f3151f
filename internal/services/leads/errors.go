package leads

import (
	"errors"
	"fmt"

	"github.com/its2darkai/Follow-up-crm/internal/models"
)

// Validation errors: user input defects, recoverable by correcting the form.
// Never written to the ledger.
var (
	ErrMissingPhone        = errors.New("phone is required")
	ErrMissingName         = errors.New("client name is required")
	ErrMissingFollowUpDate = errors.New("follow-up date is required for this status")
	ErrMissingNotes        = errors.New("notes are required for this status")
	ErrInvalidStatus       = errors.New("unknown lead status")
	ErrInvalidCallType     = errors.New("unknown call type")
)

// Hard-stop errors for the transfer/edit path.
var (
	ErrNotFound  = errors.New("interaction log not found")
	ErrForbidden = errors.New("operation not permitted for this user")
)

// DuplicateOwnerError is the business-rule conflict returned when a phone key
// is already owned by a different agent. It carries the existing record so the
// caller can name the owner and direct the user to an admin.
type DuplicateOwnerError struct {
	Existing *models.InteractionLog
}

func (e *DuplicateOwnerError) Error() string {
	return fmt.Sprintf("client already belongs to %s (%s)", e.Existing.AgentName, e.Existing.AgentEmail)
}

// IsValidationError reports whether err is one of the form-input defects.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrMissingPhone) ||
		errors.Is(err, ErrMissingName) ||
		errors.Is(err, ErrMissingFollowUpDate) ||
		errors.Is(err, ErrMissingNotes) ||
		errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, ErrInvalidCallType)
}
