package leads

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/its2darkai/Follow-up-crm/internal/models"
	"github.com/its2darkai/Follow-up-crm/internal/utils"
)

// Lifecycle events published for the notification system.
const (
	EventLeadCreated = "lead.created"
	EventLeadUpdated = "lead.updated"
	EventLeadDeleted = "lead.deleted"
)

// Service orchestrates the duplicate guard, the lead lifecycle engine and the
// transfer/edit path over the ledger.
type Service struct {
	ledger    Ledger
	publisher EventPublisher // optional
	now       func() time.Time
	newID     func() string
}

func NewService(ledger Ledger, publisher EventPublisher) *Service {
	return &Service{
		ledger:    ledger,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
	}
}

// CreateLead runs the duplicate guard: validate, normalize, check ownership,
// then persist. Exactly one ledger write on success; zero writes on any
// rejection path.
func (s *Service) CreateLead(agent *models.User, req *models.CreateLeadRequest) (*models.InteractionLog, error) {
	status, err := ParseStatus(req.LeadStatus)
	if err != nil {
		return nil, err
	}
	callType, err := ParseCallType(req.CallType)
	if err != nil {
		return nil, err
	}
	if err := ValidateSubmission(req.Phone, req.ClientName, req.FollowUpDate, req.Description, status); err != nil {
		return nil, err
	}

	derived := DerivedFields(status)
	log := &models.InteractionLog{
		ID:              s.newID(),
		AgentName:       agent.Name,
		AgentEmail:      strings.ToLower(agent.Email),
		ClientName:      req.ClientName,
		Phone:           req.Phone,
		PhoneNormalized: utils.NormalizePhone(req.Phone),
		Description:     req.Description,
		LeadStatus:      status,
		CallType:        callType,
		FollowUpDate:    req.FollowUpDate,
		FollowUpTime:    req.FollowUpTime,
		IsCompleted:     derived.IsCompleted,
		SecondVoice:     derived.SecondVoiceRequested,
		CreatedAt:       s.now(),
	}

	if !utils.ValidPhoneKey(log.PhoneNormalized) {
		// Too short to be a reliable key; the duplicate check is skipped by
		// policy so partial entries never block or falsely match.
		if err := s.ledger.Insert(log); err != nil {
			return nil, fmt.Errorf("failed to persist interaction log: %w", err)
		}
	} else {
		conflict, err := s.ledger.InsertOwned(log)
		if err != nil {
			return nil, fmt.Errorf("failed to persist interaction log: %w", err)
		}
		if conflict != nil {
			return nil, &DuplicateOwnerError{Existing: conflict}
		}
	}

	s.publish(EventLeadCreated, log)
	return log, nil
}

// QueryOwner is the advisory owner lookup used by the live duplicate warning.
// It tolerates incomplete input: a key below the validity threshold returns
// no owner instead of an error.
func (s *Service) QueryOwner(phone string) (*models.InteractionLog, error) {
	key := utils.NormalizePhone(phone)
	if !utils.ValidPhoneKey(key) {
		return nil, nil
	}
	return s.ledger.CurrentOwner(key)
}

// GetLead fetches a single record. Non-admins may only read their own records.
func (s *Service) GetLead(id string, actor *models.User) (*models.InteractionLog, error) {
	log, err := s.ledger.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !strings.EqualFold(log.AgentEmail, actor.Email) {
		return nil, ErrForbidden
	}
	return log, nil
}

// UpdateLead is the privileged transfer/edit path. Admins may change anything,
// including the owning agent: an admin edit is the sanctioned mechanism for
// resolving a duplicate, so it bypasses the duplicate guard. Non-admins may
// only update status/notes/follow-up fields on records they own, and cannot
// reopen completed records. Identity fields (agent, client, phone, call type)
// are admin only: editing the phone re-keys the record, which would let an
// agent take over an owned key without ever passing the duplicate guard.
func (s *Service) UpdateLead(id string, req *models.UpdateLeadRequest, actor *models.User) (*models.InteractionLog, error) {
	log, err := s.ledger.GetByID(id)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdmin() {
		if !strings.EqualFold(log.AgentEmail, actor.Email) {
			return nil, ErrForbidden
		}
		if req.AgentName != nil || req.AgentEmail != nil ||
			req.ClientName != nil || req.Phone != nil || req.CallType != nil {
			return nil, ErrForbidden
		}
		if log.IsCompleted {
			return nil, ErrForbidden
		}
	}

	if req.AgentName != nil {
		log.AgentName = *req.AgentName
	}
	if req.AgentEmail != nil {
		log.AgentEmail = strings.ToLower(*req.AgentEmail)
	}
	if req.ClientName != nil {
		log.ClientName = *req.ClientName
	}
	if req.Phone != nil {
		log.Phone = *req.Phone
		log.PhoneNormalized = utils.NormalizePhone(*req.Phone)
	}
	if req.Description != nil {
		log.Description = *req.Description
	}
	if req.CallType != nil {
		callType, err := ParseCallType(*req.CallType)
		if err != nil {
			return nil, err
		}
		log.CallType = callType
	}
	if req.FollowUpDate != nil {
		log.FollowUpDate = *req.FollowUpDate
	}
	if req.FollowUpTime != nil {
		log.FollowUpTime = *req.FollowUpTime
	}
	if req.LeadStatus != nil {
		status, err := ParseStatus(*req.LeadStatus)
		if err != nil {
			return nil, err
		}
		log.LeadStatus = status
	}

	// Derived fields are recomputed the same way as at creation whenever the
	// record is rewritten, keeping them consistent with the status.
	derived := DerivedFields(log.LeadStatus)
	log.IsCompleted = derived.IsCompleted
	log.SecondVoice = derived.SecondVoiceRequested

	if err := ValidateSubmission(log.Phone, log.ClientName, log.FollowUpDate, log.Description, log.LeadStatus); err != nil {
		return nil, err
	}

	if err := s.ledger.Update(log); err != nil {
		return nil, fmt.Errorf("failed to update interaction log: %w", err)
	}

	s.publish(EventLeadUpdated, log)
	return log, nil
}

// DeleteLead hard-deletes a record. Admin only; terminal and unrecoverable.
func (s *Service) DeleteLead(id string, actor *models.User) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	log, err := s.ledger.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.ledger.Delete(id); err != nil {
		return fmt.Errorf("failed to delete interaction log: %w", err)
	}
	s.publish(EventLeadDeleted, log)
	return nil
}

// ListLeads returns a page of ledger records. Non-admins only ever see their
// own records regardless of the requested filter.
func (s *Service) ListLeads(actor *models.User, opts ListOptions) ([]models.InteractionLog, int64, error) {
	if !actor.IsAdmin() {
		opts.AgentEmail = strings.ToLower(actor.Email)
	}
	opts.Page, opts.PageSize = utils.ValidateAndNormalizePagination(opts.Page, opts.PageSize)
	return s.ledger.List(opts.AgentEmail, opts.Search, opts.Status, opts.Page, opts.PageSize)
}

// Stats computes the dashboard counters over the actor's visible slice of the
// ledger. Follow-up dates are ISO (YYYY-MM-DD) strings, so date comparison is
// lexicographic.
func (s *Service) Stats(actor *models.User) (*models.LeadStats, error) {
	email := ""
	if !actor.IsAdmin() {
		email = strings.ToLower(actor.Email)
	}
	logs, err := s.ledger.AllForAgent(email)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger for stats: %w", err)
	}

	today := s.now().Format("2006-01-02")
	month := s.now().Format("2006-01")

	stats := &models.LeadStats{}
	for i := range logs {
		log := &logs[i]
		if log.LeadStatus == models.StatusNewProspect {
			stats.NewProspects++
		}
		if log.LeadStatus == models.StatusPaid && strings.HasPrefix(log.FollowUpDate, month) {
			stats.PaidThisMonth++
		}
		if log.IsCompleted || log.FollowUpDate == "" {
			continue
		}
		if log.FollowUpDate == today {
			stats.DueToday++
		} else if log.FollowUpDate < today {
			stats.Missed++
		}
	}
	return stats, nil
}

// ClientHistory returns every interaction sharing the phone's normalized key,
// newest first. Returns an empty history for keys too short to look up.
func (s *Service) ClientHistory(phone string) ([]models.InteractionLog, error) {
	key := utils.NormalizePhone(phone)
	if !utils.ValidPhoneKey(key) {
		return nil, nil
	}
	return s.ledger.HistoryForPhone(key)
}

// Export returns the actor's visible slice of the ledger for the xlsx export.
func (s *Service) Export(actor *models.User) ([]models.InteractionLog, error) {
	email := ""
	if !actor.IsAdmin() {
		email = strings.ToLower(actor.Email)
	}
	return s.ledger.AllForAgent(email)
}

func (s *Service) publish(event string, log *models.InteractionLog) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishLeadEvent(event, log); err != nil {
		logrus.Warnf("Failed to publish %s for log %s: %v", event, log.ID, err)
	}
}
