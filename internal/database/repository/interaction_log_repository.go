package repository

import (
	"errors"
	"strings"

	"github.com/its2darkai/Follow-up-crm/internal/models"
	"github.com/its2darkai/Follow-up-crm/internal/services/leads"
	"github.com/its2darkai/Follow-up-crm/internal/utils"

	"gorm.io/gorm"
)

// InteractionLogRepository is the ledger store. Ownership of a phone key is
// always a live query over this table; no materialized index exists to drift
// out of sync.
type InteractionLogRepository struct {
	db *gorm.DB
}

func NewInteractionLogRepository(db *gorm.DB) *InteractionLogRepository {
	return &InteractionLogRepository{db: db}
}

// Insert appends a record without an ownership check.
func (r *InteractionLogRepository) Insert(log *models.InteractionLog) error {
	return r.db.Create(log).Error
}

// InsertOwned appends a record only if its normalized phone key is unowned or
// owned by the same agent. The check and the write run in one transaction
// holding a per-key advisory lock, so two concurrent creates for the same key
// cannot both observe "no owner" and both write. On conflict the winning
// record is returned and nothing is written.
func (r *InteractionLogRepository) InsertOwned(log *models.InteractionLog) (*models.InteractionLog, error) {
	var conflict *models.InteractionLog
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", log.PhoneNormalized).Error; err != nil {
			return err
		}
		owner, err := currentOwner(tx, log.PhoneNormalized)
		if err != nil {
			return err
		}
		if owner != nil && !strings.EqualFold(owner.AgentEmail, log.AgentEmail) {
			conflict = owner
			return nil
		}
		return tx.Create(log).Error
	})
	if err != nil {
		return nil, err
	}
	return conflict, nil
}

// CurrentOwner returns the record owning a normalized phone key, or nil when
// the key is unowned.
func (r *InteractionLogRepository) CurrentOwner(phoneKey string) (*models.InteractionLog, error) {
	return currentOwner(r.db, phoneKey)
}

// currentOwner is the ownership-index query: most recent created_at wins, ties
// broken by the lexicographically larger id so the result is deterministic
// under clock coarseness.
func currentOwner(db *gorm.DB, phoneKey string) (*models.InteractionLog, error) {
	var log models.InteractionLog
	err := db.Where("phone_normalized = ?", phoneKey).
		Order("created_at DESC").
		Order("id DESC").
		First(&log).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &log, nil
}

// GetByID retrieves a record by id, translating a missing row into the
// ledger's not-found error.
func (r *InteractionLogRepository) GetByID(id string) (*models.InteractionLog, error) {
	var log models.InteractionLog
	err := r.db.First(&log, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, leads.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &log, nil
}

// Update rewrites a record in place. ID and created_at never change.
func (r *InteractionLogRepository) Update(log *models.InteractionLog) error {
	return r.db.Save(log).Error
}

// Delete removes a record permanently.
func (r *InteractionLogRepository) Delete(id string) error {
	return r.db.Delete(&models.InteractionLog{}, "id = ?", id).Error
}

// List returns a page of records ordered by created_at descending, newest
// first, with the total count for the filter.
func (r *InteractionLogRepository) List(agentEmail, search string, status models.LeadStatus, page, pageSize int) ([]models.InteractionLog, int64, error) {
	var logs []models.InteractionLog
	var total int64

	query := r.db.Model(&models.InteractionLog{})
	if agentEmail != "" {
		query = query.Where("LOWER(agent_email) = LOWER(?)", agentEmail)
	}
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("client_name ILIKE ? OR phone LIKE ?", pattern, pattern)
	}
	if status != "" {
		query = query.Where("lead_status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("created_at DESC").
		Offset(utils.CalculateOffset(page, pageSize)).
		Limit(pageSize).
		Find(&logs).Error
	return logs, total, err
}

// HistoryForPhone returns every record sharing a normalized phone key, newest
// first.
func (r *InteractionLogRepository) HistoryForPhone(phoneKey string) ([]models.InteractionLog, error) {
	var logs []models.InteractionLog
	err := r.db.Where("phone_normalized = ?", phoneKey).
		Order("created_at DESC").
		Order("id DESC").
		Find(&logs).Error
	return logs, err
}

// AllForAgent returns every record for one agent email, or the whole ledger
// when email is empty, ordered by created_at descending.
func (r *InteractionLogRepository) AllForAgent(agentEmail string) ([]models.InteractionLog, error) {
	var logs []models.InteractionLog
	query := r.db.Order("created_at DESC")
	if agentEmail != "" {
		query = query.Where("LOWER(agent_email) = LOWER(?)", agentEmail)
	}
	err := query.Find(&logs).Error
	return logs, err
}
