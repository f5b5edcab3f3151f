package leads

import (
	"errors"
	"testing"

	"github.com/its2darkai/Follow-up-crm/internal/models"
)

func TestDerivedFields(t *testing.T) {
	tests := []struct {
		status models.LeadStatus
		want   Derived
	}{
		{models.StatusNewProspect, Derived{RequiresFollowUp: true}},
		{models.StatusFollowUp, Derived{RequiresFollowUp: true}},
		{models.StatusSecondVoice, Derived{SecondVoiceRequested: true, RequiresFollowUp: true}},
		{models.StatusPaid, Derived{IsCompleted: true}},
		{models.StatusNotInterested, Derived{IsCompleted: true}},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := DerivedFields(tt.status); got != tt.want {
				t.Errorf("DerivedFields(%q) = %+v, want %+v", tt.status, got, tt.want)
			}
		})
	}
}

func TestDerivedFieldsPanicsOnUnknownStatus(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for status outside the closed set")
		}
	}()
	DerivedFields(models.LeadStatus("Ghosted"))
}

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus("Paid")
	if err != nil {
		t.Fatalf("ParseStatus(Paid) returned error: %v", err)
	}
	if status != models.StatusPaid {
		t.Errorf("ParseStatus(Paid) = %q", status)
	}

	if _, err := ParseStatus("Closed Won"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("ParseStatus(Closed Won) error = %v, want ErrInvalidStatus", err)
	}
	if _, err := ParseStatus(""); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("ParseStatus(empty) error = %v, want ErrInvalidStatus", err)
	}
}

func TestParseCallType(t *testing.T) {
	callType, err := ParseCallType("")
	if err != nil {
		t.Fatalf("ParseCallType(empty) returned error: %v", err)
	}
	if callType != models.CallTypeWork {
		t.Errorf("empty call type should default to Work, got %q", callType)
	}

	if _, err := ParseCallType("Personal"); !errors.Is(err, ErrInvalidCallType) {
		t.Errorf("ParseCallType(Personal) error = %v, want ErrInvalidCallType", err)
	}
}

func TestValidateSubmission(t *testing.T) {
	tests := []struct {
		name         string
		phone        string
		clientName   string
		followUpDate string
		description  string
		status       models.LeadStatus
		wantErr      error
	}{
		{"complete follow-up", "555-1234", "Dana", "2026-03-15", "called, interested", models.StatusFollowUp, nil},
		{"missing phone reported first", "", "", "", "", models.StatusFollowUp, ErrMissingPhone},
		{"missing name after phone", "555-1234", "", "", "", models.StatusFollowUp, ErrMissingName},
		{"follow-up needs date", "555-1234", "Dana", "", "notes", models.StatusNewProspect, ErrMissingFollowUpDate},
		{"follow-up needs notes", "555-1234", "Dana", "2026-03-15", "", models.StatusSecondVoice, ErrMissingNotes},
		{"closed status skips date and notes", "555-1234", "Dana", "", "", models.StatusPaid, nil},
		{"not interested skips date and notes", "555-1234", "Dana", "", "", models.StatusNotInterested, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSubmission(tt.phone, tt.clientName, tt.followUpDate, tt.description, tt.status)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateSubmission() error = %v, want %v", err, tt.wantErr)
			}
			if err != nil && !IsValidationError(err) {
				t.Errorf("error %v should be classified as a validation error", err)
			}
		})
	}
}
