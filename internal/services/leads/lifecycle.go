package leads

import (
	"fmt"

	"github.com/its2darkai/Follow-up-crm/internal/models"
)

// Derived holds the flags computed deterministically from a lead status.
// They are never set independently of the status.
type Derived struct {
	IsCompleted          bool
	SecondVoiceRequested bool
	RequiresFollowUp     bool
}

// DerivedFields computes the derived flags for a status. The status enum is
// the contract boundary: callers must have parsed free text via ParseStatus
// first, so an unknown value here is a programming error and panics.
func DerivedFields(status models.LeadStatus) Derived {
	switch status {
	case models.StatusNewProspect, models.StatusFollowUp:
		return Derived{RequiresFollowUp: true}
	case models.StatusSecondVoice:
		return Derived{SecondVoiceRequested: true, RequiresFollowUp: true}
	case models.StatusPaid, models.StatusNotInterested:
		return Derived{IsCompleted: true}
	}
	panic(fmt.Sprintf("leads: status %q outside the closed set", status))
}

// ParseStatus converts free text from the HTTP boundary into a LeadStatus.
func ParseStatus(raw string) (models.LeadStatus, error) {
	status := models.LeadStatus(raw)
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return status, nil
}

// ParseCallType converts free text into a CallType. Empty input defaults to a
// work call; the tag has no lifecycle effect.
func ParseCallType(raw string) (models.CallType, error) {
	if raw == "" {
		return models.CallTypeWork, nil
	}
	callType := models.CallType(raw)
	if !callType.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCallType, raw)
	}
	return callType, nil
}

// ValidateSubmission rejects incomplete form input before any persistence
// side effect. One pass, strictly prior to the ownership lookup: a status that
// requires follow-up must carry both a follow-up date and notes.
func ValidateSubmission(phone, clientName, followUpDate, description string, status models.LeadStatus) error {
	if phone == "" {
		return ErrMissingPhone
	}
	if clientName == "" {
		return ErrMissingName
	}
	if DerivedFields(status).RequiresFollowUp {
		if followUpDate == "" {
			return ErrMissingFollowUpDate
		}
		if description == "" {
			return ErrMissingNotes
		}
	}
	return nil
}
