package models

import (
	"time"
)

// LeadStatus is the closed set of lead lifecycle states. Completion and
// second-voice flags are derived from it, never set independently.
type LeadStatus string

const (
	StatusNewProspect   LeadStatus = "New Prospect"
	StatusFollowUp      LeadStatus = "Follow-up"
	StatusSecondVoice   LeadStatus = "2nd Voice Needed"
	StatusPaid          LeadStatus = "Paid"
	StatusNotInterested LeadStatus = "Not Interested"
)

// Valid reports whether the status is a member of the closed set.
func (s LeadStatus) Valid() bool {
	switch s {
	case StatusNewProspect, StatusFollowUp, StatusSecondVoice, StatusPaid, StatusNotInterested:
		return true
	}
	return false
}

// CallType tags an interaction as work-related or not. It has no effect on
// the lead lifecycle.
type CallType string

const (
	CallTypeWork    CallType = "Work"
	CallTypeNonWork CallType = "Non-Work"
)

// Valid reports whether the call type is known.
func (t CallType) Valid() bool {
	return t == CallTypeWork || t == CallTypeNonWork
}

// InteractionLog is one immutable-by-default ledger record of an agent/client
// interaction. The raw phone is kept for display; phone_normalized is the
// ownership comparison key. Follow-up date/time are stored as the ISO strings
// the form submits ("2006-01-02", "15:04") so date ordering is lexicographic.
type InteractionLog struct {
	ID              string     `json:"id" gorm:"primaryKey;type:uuid"`
	AgentName       string     `json:"agent_name" gorm:"type:varchar(255);not null"`
	AgentEmail      string     `json:"agent_email" gorm:"type:varchar(255);not null;index"`
	ClientName      string     `json:"client_name" gorm:"type:varchar(255);not null"`
	Phone           string     `json:"phone" gorm:"type:varchar(50);not null"`
	PhoneNormalized string     `json:"phone_normalized" gorm:"type:varchar(50);not null;index"`
	Description     string     `json:"description" gorm:"type:text"`
	LeadStatus      LeadStatus `json:"lead_status" gorm:"type:varchar(30);not null;index"`
	CallType        CallType   `json:"call_type" gorm:"type:varchar(20);not null;default:'Work'"`
	FollowUpDate    string     `json:"follow_up_date" gorm:"type:varchar(10)"`
	FollowUpTime    string     `json:"follow_up_time" gorm:"type:varchar(5)"`
	IsCompleted     bool       `json:"is_completed" gorm:"default:false"`
	SecondVoice     bool       `json:"second_voice_requested" gorm:"column:second_voice_requested;default:false"`
	CreatedAt       time.Time  `json:"created_at" gorm:"index"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// TableName specifies the table name for the InteractionLog model
func (InteractionLog) TableName() string {
	return "interaction_logs"
}

// CreateLeadRequest is the agent payload for logging a new interaction.
type CreateLeadRequest struct {
	ClientName   string `json:"client_name"`
	Phone        string `json:"phone"`
	Description  string `json:"description"`
	LeadStatus   string `json:"lead_status" binding:"required"`
	CallType     string `json:"call_type"`
	FollowUpDate string `json:"follow_up_date"`
	FollowUpTime string `json:"follow_up_time"`
}

// UpdateLeadRequest is the transfer/edit payload. All fields are optional;
// agent reassignment fields are honored for admins only.
type UpdateLeadRequest struct {
	AgentName    *string `json:"agent_name,omitempty"`
	AgentEmail   *string `json:"agent_email,omitempty"`
	ClientName   *string `json:"client_name,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Description  *string `json:"description,omitempty"`
	LeadStatus   *string `json:"lead_status,omitempty"`
	CallType     *string `json:"call_type,omitempty"`
	FollowUpDate *string `json:"follow_up_date,omitempty"`
	FollowUpTime *string `json:"follow_up_time,omitempty"`
}

// LeadStats are the dashboard counters over an agent's visible records.
type LeadStats struct {
	NewProspects  int `json:"new_prospects"`
	DueToday      int `json:"due_today"`
	Missed        int `json:"missed"`
	PaidThisMonth int `json:"paid_this_month"`
}

// CheckPhoneResponse answers the advisory owner lookup.
type CheckPhoneResponse struct {
	Exists bool            `json:"exists"`
	Owner  *InteractionLog `json:"owner,omitempty"`
}
