package leads

import (
	"github.com/its2darkai/Follow-up-crm/internal/models"
)

// ListOptions filters and paginates ledger listings.
type ListOptions struct {
	AgentEmail string // restrict to one agent's records; empty means all
	Search     string // matches client name or phone
	Status     models.LeadStatus
	Page       int
	PageSize   int
}

// Ledger is the persistent interaction-log store. The ledger is the single
// source of truth: ownership is always derived from it by a live query, never
// from a separately maintained index.
type Ledger interface {
	// Insert appends a record without any ownership check. Used when the
	// normalized phone key is too short to be a reliable lookup key.
	Insert(log *models.InteractionLog) error

	// InsertOwned appends a record only if the normalized phone key is not
	// currently owned by a different agent. The check and the write execute as
	// one atomic unit against the store. On conflict it returns the winning
	// record and performs no write.
	InsertOwned(log *models.InteractionLog) (*models.InteractionLog, error)

	// CurrentOwner returns the record owning the normalized phone key: the one
	// with the maximum created_at, ties broken by the lexicographically larger
	// id. Returns (nil, nil) when the key is unowned.
	CurrentOwner(phoneKey string) (*models.InteractionLog, error)

	// GetByID returns ErrNotFound when no record has the id.
	GetByID(id string) (*models.InteractionLog, error)
	Update(log *models.InteractionLog) error
	Delete(id string) error

	// List returns records ordered by created_at descending plus the total
	// count for the filter. Empty filter values are ignored.
	List(agentEmail, search string, status models.LeadStatus, page, pageSize int) ([]models.InteractionLog, int64, error)

	// AllForAgent returns every record for one agent email, or the whole
	// ledger when email is empty. Used for dashboard stats and export.
	AllForAgent(agentEmail string) ([]models.InteractionLog, error)

	// HistoryForPhone returns every record sharing the normalized phone key,
	// newest first. Used by the AI analysis endpoints.
	HistoryForPhone(phoneKey string) ([]models.InteractionLog, error)
}

// EventPublisher receives lead lifecycle events for the external notification
// system. Publishing is best-effort and never fails the originating request.
type EventPublisher interface {
	PublishLeadEvent(event string, log *models.InteractionLog) error
}
