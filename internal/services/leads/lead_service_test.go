package leads

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/its2darkai/Follow-up-crm/internal/models"
)

// fakeLedger is an in-memory Ledger with the same ownership semantics as the
// database store: most recent created_at wins, ties broken by larger id.
type fakeLedger struct {
	records []*models.InteractionLog
}

func (f *fakeLedger) Insert(log *models.InteractionLog) error {
	cp := *log
	f.records = append(f.records, &cp)
	return nil
}

func (f *fakeLedger) InsertOwned(log *models.InteractionLog) (*models.InteractionLog, error) {
	owner, err := f.CurrentOwner(log.PhoneNormalized)
	if err != nil {
		return nil, err
	}
	if owner != nil && !strings.EqualFold(owner.AgentEmail, log.AgentEmail) {
		return owner, nil
	}
	return nil, f.Insert(log)
}

func (f *fakeLedger) CurrentOwner(phoneKey string) (*models.InteractionLog, error) {
	var owner *models.InteractionLog
	for _, r := range f.records {
		if r.PhoneNormalized != phoneKey {
			continue
		}
		if owner == nil ||
			r.CreatedAt.After(owner.CreatedAt) ||
			(r.CreatedAt.Equal(owner.CreatedAt) && r.ID > owner.ID) {
			owner = r
		}
	}
	if owner == nil {
		return nil, nil
	}
	cp := *owner
	return &cp, nil
}

func (f *fakeLedger) GetByID(id string) (*models.InteractionLog, error) {
	for _, r := range f.records {
		if r.ID == id {
			cp := *r
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeLedger) Update(log *models.InteractionLog) error {
	for i, r := range f.records {
		if r.ID == log.ID {
			cp := *log
			f.records[i] = &cp
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeLedger) Delete(id string) error {
	for i, r := range f.records {
		if r.ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeLedger) List(agentEmail, search string, status models.LeadStatus, page, pageSize int) ([]models.InteractionLog, int64, error) {
	var out []models.InteractionLog
	for _, r := range f.records {
		if agentEmail != "" && !strings.EqualFold(r.AgentEmail, agentEmail) {
			continue
		}
		if status != "" && r.LeadStatus != status {
			continue
		}
		if search != "" && !strings.Contains(r.ClientName, search) && !strings.Contains(r.Phone, search) {
			continue
		}
		out = append(out, *r)
	}
	return out, int64(len(out)), nil
}

func (f *fakeLedger) AllForAgent(agentEmail string) ([]models.InteractionLog, error) {
	return first(f.List(agentEmail, "", "", 1, 1000))
}

func (f *fakeLedger) HistoryForPhone(phoneKey string) ([]models.InteractionLog, error) {
	var out []models.InteractionLog
	for _, r := range f.records {
		if r.PhoneNormalized == phoneKey {
			out = append(out, *r)
		}
	}
	return out, nil
}

func first(logs []models.InteractionLog, _ int64, err error) ([]models.InteractionLog, error) {
	return logs, err
}

// fakePublisher records lifecycle events.
type fakePublisher struct {
	events []string
}

func (f *fakePublisher) PublishLeadEvent(event string, _ *models.InteractionLog) error {
	f.events = append(f.events, event)
	return nil
}

var testClock = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

// newTestService wires a Service onto a fake ledger with a deterministic
// clock and id sequence. Each call to now() advances one minute.
func newTestService(ledger *fakeLedger, publisher *fakePublisher) *Service {
	var pub EventPublisher
	if publisher != nil {
		pub = publisher
	}
	svc := NewService(ledger, pub)
	tick := 0
	svc.now = func() time.Time {
		tick++
		return testClock.Add(time.Duration(tick) * time.Minute)
	}
	seq := 0
	svc.newID = func() string {
		seq++
		return fmt.Sprintf("log-%04d", seq)
	}
	return svc
}

func agentAlice() *models.User {
	return &models.User{ID: "u-alice", Name: "Alice", Email: "alice@followup.com", Role: models.RoleAgent}
}

func agentBob() *models.User {
	return &models.User{ID: "u-bob", Name: "Bob", Email: "bob@followup.com", Role: models.RoleAgent}
}

func adminCarol() *models.User {
	return &models.User{ID: "u-carol", Name: "Carol", Email: "carol@followup.com", Role: models.RoleAdmin}
}

func followUpRequest(phone string) *models.CreateLeadRequest {
	return &models.CreateLeadRequest{
		ClientName:   "Dana Client",
		Phone:        phone,
		Description:  "intro call went well",
		LeadStatus:   string(models.StatusFollowUp),
		FollowUpDate: "2026-03-15",
		FollowUpTime: "14:00",
	}
}

func strPtr(s string) *string { return &s }

func TestCreateLeadPersistsDerivedFields(t *testing.T) {
	ledger := &fakeLedger{}
	svc := newTestService(ledger, nil)

	req := followUpRequest("555-123-4567")
	req.LeadStatus = string(models.StatusSecondVoice)
	log, err := svc.CreateLead(agentAlice(), req)
	if err != nil {
		t.Fatalf("CreateLead failed: %v", err)
	}
	if !log.SecondVoice || log.IsCompleted {
		t.Errorf("2nd voice record flags wrong: second_voice=%v completed=%v", log.SecondVoice, log.IsCompleted)
	}
	if log.PhoneNormalized != "5551234567" {
		t.Errorf("phone not normalized: %q", log.PhoneNormalized)
	}
	if log.AgentEmail != "alice@followup.com" {
		t.Errorf("agent email not lowercased: %q", log.AgentEmail)
	}

	paid := followUpRequest("555-999-0000")
	paid.LeadStatus = string(models.StatusPaid)
	paid.FollowUpDate = ""
	paid.Description = ""
	log, err = svc.CreateLead(agentAlice(), paid)
	if err != nil {
		t.Fatalf("CreateLead(Paid) failed: %v", err)
	}
	if !log.IsCompleted || log.SecondVoice {
		t.Errorf("paid record flags wrong: completed=%v second_voice=%v", log.IsCompleted, log.SecondVoice)
	}
	if log.CallType != models.CallTypeWork {
		t.Errorf("call type should default to Work, got %q", log.CallType)
	}
}

func TestCreateLeadDuplicateGuard(t *testing.T) {
	ledger := &fakeLedger{}
	publisher := &fakePublisher{}
	svc := newTestService(ledger, publisher)

	if _, err := svc.CreateLead(agentAlice(), followUpRequest("+1 (555) 123-4567")); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	// Same client, different formatting, different agent.
	_, err := svc.CreateLead(agentBob(), followUpRequest("1-555-123-4567"))
	var dup *DuplicateOwnerError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateOwnerError, got %v", err)
	}
	if dup.Existing.AgentEmail != "alice@followup.com" {
		t.Errorf("conflict should name the current owner, got %q", dup.Existing.AgentEmail)
	}
	if !strings.Contains(dup.Error(), "Alice") {
		t.Errorf("error message should name the owner: %q", dup.Error())
	}

	if len(ledger.records) != 1 {
		t.Errorf("rejected create must not write, ledger has %d records", len(ledger.records))
	}
	if len(publisher.events) != 1 {
		t.Errorf("rejected create must not publish, got events %v", publisher.events)
	}
}

func TestCreateLeadSelfReentryAllowed(t *testing.T) {
	ledger := &fakeLedger{}
	svc := newTestService(ledger, nil)
	alice := agentAlice()

	if _, err := svc.CreateLead(alice, followUpRequest("555-123-4567")); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	if _, err := svc.CreateLead(alice, followUpRequest("(555) 123 4567")); err != nil {
		t.Fatalf("owner re-logging their own client must succeed: %v", err)
	}
	if len(ledger.records) != 2 {
		t.Errorf("expected 2 records, got %d", len(ledger.records))
	}

	owner, err := svc.QueryOwner("5551234567")
	if err != nil {
		t.Fatalf("QueryOwner failed: %v", err)
	}
	if owner == nil || owner.AgentEmail != "alice@followup.com" {
		t.Errorf("owner should still be alice, got %+v", owner)
	}
}

func TestCreateLeadShortKeySkipsGuard(t *testing.T) {
	ledger := &fakeLedger{}
	svc := newTestService(ledger, nil)

	if _, err := svc.CreateLead(agentAlice(), followUpRequest("123")); err != nil {
		t.Fatalf("short-key create failed: %v", err)
	}
	// A different agent with the same short key is not a conflict.
	if _, err := svc.CreateLead(agentBob(), followUpRequest("12-3")); err != nil {
		t.Fatalf("short keys must never duplicate-match: %v", err)
	}
	if len(ledger.records) != 2 {
		t.Errorf("expected 2 records, got %d", len(ledger.records))
	}
}

func TestCreateLeadValidationRejectsWithoutWriting(t *testing.T) {
	ledger := &fakeLedger{}
	svc := newTestService(ledger, nil)

	tests := []struct {
		name    string
		mutate  func(*models.CreateLeadRequest)
		wantErr error
	}{
		{"missing phone", func(r *models.CreateLeadRequest) { r.Phone = "" }, ErrMissingPhone},
		{"missing client name", func(r *models.CreateLeadRequest) { r.ClientName = "" }, ErrMissingName},
		{"missing follow-up date", func(r *models.CreateLeadRequest) { r.FollowUpDate = "" }, ErrMissingFollowUpDate},
		{"missing notes", func(r *models.CreateLeadRequest) { r.Description = "" }, ErrMissingNotes},
		{"unknown status", func(r *models.CreateLeadRequest) { r.LeadStatus = "Closed Won" }, ErrInvalidStatus},
		{"unknown call type", func(r *models.CreateLeadRequest) { r.CallType = "Personal" }, ErrInvalidCallType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := followUpRequest("555-123-4567")
			tt.mutate(req)
			_, err := svc.CreateLead(agentAlice(), req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CreateLead error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if len(ledger.records) != 0 {
		t.Errorf("no rejection path may write; ledger has %d records", len(ledger.records))
	}
}

func TestQueryOwner(t *testing.T) {
	ledger := &fakeLedger{}
	svc := newTestService(ledger, nil)

	owner, err := svc.QueryOwner("555-123-4567")
	if err != nil || owner != nil {
		t.Errorf("unowned key should return (nil, nil), got (%+v, %v)", owner, err)
	}

	// Below the key-length threshold the lookup is inconclusive, not an error.
	owner, err = svc.QueryOwner("12")
	if err != nil || owner != nil {
		t.Errorf("short key should return (nil, nil), got (%+v, %v)", owner, err)
	}

	if _, err := svc.CreateLead(agentAlice(), followUpRequest("555-123-4567")); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	owner, err = svc.QueryOwner("+1 555 123 4567 ext")
	if err != nil {
		t.Fatalf("QueryOwner failed: %v", err)
	}
	if owner == nil {
		t.Fatal("expected an owner")
	}
}

func TestOwnershipTieBreakIsDeterministic(t *testing.T) {
	ledger := &fakeLedger{}
	svc := newTestService(ledger, nil)

	at := testClock
	ledger.Insert(&models.InteractionLog{ID: "log-aaa", AgentEmail: "alice@followup.com", PhoneNormalized: "5551234567", CreatedAt: at})
	ledger.Insert(&models.InteractionLog{ID: "log-bbb", AgentEmail: "bob@followup.com", PhoneNormalized: "5551234567", CreatedAt: at})

	for i := 0; i < 5; i++ {
		owner, err := svc.QueryOwner("5551234567")
		if err != nil {
			t.Fatalf("QueryOwner failed: %v", err)
		}
		if owner.ID != "log-bbb" {
			t.Fatalf("equal timestamps must resolve to the larger id, got %q", owner.ID)
		}
	}
}

func TestUpdateLeadAdminTransfer(t *testing.T) {
	ledger := &fakeLedger{}
	svc := newTestService(ledger, nil)

	log, err := svc.CreateLead(agentAlice(), followUpRequest("555-123-4567"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Admin reassigns the record to Bob. This is the sanctioned duplicate
	// resolution path, so no guard fires.
	updated, err := svc.UpdateLead(log.ID, &models.UpdateLeadRequest{
		AgentName:  strPtr("Bob"),
		AgentEmail: strPtr("Bob@FollowUp.com"),
	}, adminCarol())
	if err != nil {
		t.Fatalf("admin transfer failed: %v", err)
	}
	if updated.AgentEmail != "bob@followup.com" {
		t.Errorf("transfer should lowercase the new owner email, got %q", updated.AgentEmail)
	}

	owner, err := svc.QueryOwner("555-123-4567")
	if err != nil {
		t.Fatalf("QueryOwner failed: %v", err)
	}
	if owner.AgentEmail != "bob@followup.com" {
		t.Errorf("ownership should follow the transfer, got %q", owner.AgentEmail)
	}

	// After the transfer Bob may log the client and Alice may not.
	if _, err := svc.CreateLead(agentBob(), followUpRequest("5551234567")); err != nil {
		t.Errorf("new owner create should succeed: %v", err)
	}
	var dup *DuplicateOwnerError
	if _, err := svc.CreateLead(agentAlice(), followUpRequest("5551234567")); !errors.As(err, &dup) {
		t.Errorf("previous owner should now conflict, got %v", err)
	}
}

func TestUpdateLeadPermissions(t *testing.T) {
	ledger := &fakeLedger{}
	svc := newTestService(ledger, nil)
	alice := agentAlice()

	log, err := svc.CreateLead(alice, followUpRequest("555-123-4567"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Another agent cannot touch the record.
	if _, err := svc.UpdateLead(log.ID, &models.UpdateLeadRequest{Description: strPtr("hijack")}, agentBob()); !errors.Is(err, ErrForbidden) {
		t.Errorf("foreign agent update error = %v, want ErrForbidden", err)
	}

	// The owner cannot reassign ownership.
	if _, err := svc.UpdateLead(log.ID, &models.UpdateLeadRequest{AgentEmail: strPtr("bob@followup.com")}, alice); !errors.Is(err, ErrForbidden) {
		t.Errorf("self transfer error = %v, want ErrForbidden", err)
	}

	// The owner can edit their own open record.
	updated, err := svc.UpdateLead(log.ID, &models.UpdateLeadRequest{LeadStatus: strPtr(string(models.StatusPaid))}, alice)
	if err != nil {
		t.Fatalf("owner update failed: %v", err)
	}
	if !updated.IsCompleted {
		t.Error("moving to Paid must set is_completed")
	}

	// Once completed, only an admin can reopen it.
	if _, err := svc.UpdateLead(log.ID, &models.UpdateLeadRequest{Description: strPtr("more notes")}, alice); !errors.Is(err, ErrForbidden) {
		t.Errorf("completed record edit error = %v, want ErrForbidden", err)
	}
	reopened, err := svc.UpdateLead(log.ID, &models.UpdateLeadRequest{LeadStatus: strPtr(string(models.StatusFollowUp))}, adminCarol())
	if err != nil {
		t.Fatalf("admin reopen failed: %v", err)
	}
	if reopened.IsCompleted {
		t.Error("reopening must clear is_completed")
	}
}

func TestUpdateLeadAgentCannotEditIdentityFields(t *testing.T) {
	ledger := &fakeLedger{}
	svc := newTestService(ledger, nil)
	bob := agentBob()

	if _, err := svc.CreateLead(agentAlice(), followUpRequest("555-123-4567")); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	bobLog, err := svc.CreateLead(bob, followUpRequest("555-999-0000"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Re-keying the phone on an owned record would take over Alice's key
	// without ever passing the duplicate guard.
	if _, err := svc.UpdateLead(bobLog.ID, &models.UpdateLeadRequest{Phone: strPtr("555-123-4567")}, bob); !errors.Is(err, ErrForbidden) {
		t.Errorf("agent phone edit error = %v, want ErrForbidden", err)
	}
	if _, err := svc.UpdateLead(bobLog.ID, &models.UpdateLeadRequest{ClientName: strPtr("Someone Else")}, bob); !errors.Is(err, ErrForbidden) {
		t.Errorf("agent client-name edit error = %v, want ErrForbidden", err)
	}
	if _, err := svc.UpdateLead(bobLog.ID, &models.UpdateLeadRequest{CallType: strPtr(string(models.CallTypeNonWork))}, bob); !errors.Is(err, ErrForbidden) {
		t.Errorf("agent call-type edit error = %v, want ErrForbidden", err)
	}

	owner, err := svc.QueryOwner("555-123-4567")
	if err != nil {
		t.Fatalf("QueryOwner failed: %v", err)
	}
	if owner == nil || owner.AgentEmail != "alice@followup.com" {
		t.Fatalf("alice's key changed hands, owner is %+v", owner)
	}

	// The same edits are fine for an admin.
	if _, err := svc.UpdateLead(bobLog.ID, &models.UpdateLeadRequest{
		Phone:      strPtr("555-999-1111"),
		ClientName: strPtr("Dana C."),
		CallType:   strPtr(string(models.CallTypeNonWork)),
	}, adminCarol()); err != nil {
		t.Errorf("admin identity edit failed: %v", err)
	}
}

func TestUpdateLeadRevalidates(t *testing.T) {
	ledger := &fakeLedger{}
	svc := newTestService(ledger, nil)

	paid := followUpRequest("555-123-4567")
	paid.LeadStatus = string(models.StatusPaid)
	paid.FollowUpDate = ""
	paid.Description = ""
	log, err := svc.CreateLead(agentAlice(), paid)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Reopening into a follow-up status without a date must fail validation.
	_, err = svc.UpdateLead(log.ID, &models.UpdateLeadRequest{LeadStatus: strPtr(string(models.StatusFollowUp))}, adminCarol())
	if !errors.Is(err, ErrMissingFollowUpDate) {
		t.Errorf("update error = %v, want ErrMissingFollowUpDate", err)
	}

	stored, _ := ledger.GetByID(log.ID)
	if stored.LeadStatus != models.StatusPaid {
		t.Errorf("failed update must not persist, status is %q", stored.LeadStatus)
	}
}

func TestDeleteLeadAdminOnly(t *testing.T) {
	ledger := &fakeLedger{}
	publisher := &fakePublisher{}
	svc := newTestService(ledger, publisher)

	log, err := svc.CreateLead(agentAlice(), followUpRequest("555-123-4567"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.DeleteLead(log.ID, agentAlice()); !errors.Is(err, ErrForbidden) {
		t.Errorf("agent delete error = %v, want ErrForbidden", err)
	}
	if err := svc.DeleteLead(log.ID, adminCarol()); err != nil {
		t.Fatalf("admin delete failed: %v", err)
	}
	if err := svc.DeleteLead(log.ID, adminCarol()); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete error = %v, want ErrNotFound", err)
	}

	want := []string{EventLeadCreated, EventLeadDeleted}
	if len(publisher.events) != len(want) || publisher.events[0] != want[0] || publisher.events[1] != want[1] {
		t.Errorf("events = %v, want %v", publisher.events, want)
	}
}

func TestListLeadsScopesNonAdmins(t *testing.T) {
	ledger := &fakeLedger{}
	svc := newTestService(ledger, nil)

	if _, err := svc.CreateLead(agentAlice(), followUpRequest("555-111-1111")); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.CreateLead(agentBob(), followUpRequest("555-222-2222")); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// An agent asking for everything still only sees their own records.
	logs, total, err := svc.ListLeads(agentAlice(), ListOptions{})
	if err != nil {
		t.Fatalf("ListLeads failed: %v", err)
	}
	if total != 1 || len(logs) != 1 || logs[0].AgentEmail != "alice@followup.com" {
		t.Errorf("agent listing leaked records: total=%d logs=%+v", total, logs)
	}

	_, total, err = svc.ListLeads(adminCarol(), ListOptions{})
	if err != nil {
		t.Fatalf("ListLeads failed: %v", err)
	}
	if total != 2 {
		t.Errorf("admin should see the whole ledger, got %d", total)
	}
}

func TestStats(t *testing.T) {
	ledger := &fakeLedger{}
	svc := newTestService(ledger, nil)
	email := "alice@followup.com"

	// The clock starts at 2026-03-10 and ticks forward a minute per call.
	ledger.Insert(&models.InteractionLog{ID: "a", AgentEmail: email, LeadStatus: models.StatusNewProspect, FollowUpDate: "2026-03-10"})
	ledger.Insert(&models.InteractionLog{ID: "b", AgentEmail: email, LeadStatus: models.StatusFollowUp, FollowUpDate: "2026-03-01"})
	ledger.Insert(&models.InteractionLog{ID: "c", AgentEmail: email, LeadStatus: models.StatusPaid, FollowUpDate: "2026-03-05", IsCompleted: true})
	ledger.Insert(&models.InteractionLog{ID: "d", AgentEmail: email, LeadStatus: models.StatusPaid, FollowUpDate: "2026-02-20", IsCompleted: true})
	ledger.Insert(&models.InteractionLog{ID: "e", AgentEmail: "bob@followup.com", LeadStatus: models.StatusFollowUp, FollowUpDate: "2026-03-10"})

	stats, err := svc.Stats(agentAlice())
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.NewProspects != 1 {
		t.Errorf("NewProspects = %d, want 1", stats.NewProspects)
	}
	if stats.DueToday != 1 {
		t.Errorf("DueToday = %d, want 1", stats.DueToday)
	}
	if stats.Missed != 1 {
		t.Errorf("Missed = %d, want 1 (completed records never count)", stats.Missed)
	}
	if stats.PaidThisMonth != 1 {
		t.Errorf("PaidThisMonth = %d, want 1", stats.PaidThisMonth)
	}
}

func TestClientHistory(t *testing.T) {
	ledger := &fakeLedger{}
	svc := newTestService(ledger, nil)
	alice := agentAlice()

	if _, err := svc.CreateLead(alice, followUpRequest("555-123-4567")); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.CreateLead(alice, followUpRequest("(555)123-4567")); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	logs, err := svc.ClientHistory("555 123 4567")
	if err != nil {
		t.Fatalf("ClientHistory failed: %v", err)
	}
	if len(logs) != 2 {
		t.Errorf("history length = %d, want 2", len(logs))
	}

	logs, err = svc.ClientHistory("12")
	if err != nil || logs != nil {
		t.Errorf("short key history should be empty, got (%v, %v)", logs, err)
	}
}
