package models

import (
	"time"
)

// KnowledgeRecordID is the fixed id of the single company-knowledge row.
const KnowledgeRecordID = "company_knowledge"

// CompanyKnowledge is the singleton configuration record feeding the AI
// prompt layer. It is passed explicitly into each AI call, never cached as
// ambient global state.
type CompanyKnowledge struct {
	ID                  string    `json:"-" gorm:"primaryKey;type:varchar(50)"`
	ProductName         string    `json:"product_name" gorm:"type:varchar(255)"`
	Description         string    `json:"description" gorm:"type:text"`
	Pricing             string    `json:"pricing" gorm:"type:text"`
	UniqueSellingPoints string    `json:"unique_selling_points" gorm:"type:text"`
	SalesPitch          string    `json:"sales_pitch" gorm:"type:text"`
	ObjectionRules      string    `json:"objection_rules" gorm:"type:text"`
	MasterDocumentText  string    `json:"master_document_text" gorm:"type:text"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// TableName specifies the table name for the CompanyKnowledge model
func (CompanyKnowledge) TableName() string {
	return "company_knowledge"
}

// DefaultCompanyKnowledge returns the fallback knowledge used before an admin
// has saved anything.
func DefaultCompanyKnowledge() *CompanyKnowledge {
	return &CompanyKnowledge{
		ID:                  KnowledgeRecordID,
		ProductName:         "Follow Up CRM",
		Description:         "A sales-team CRM with follow-up scheduling and AI drafting.",
		Pricing:             "$29/month per agent.",
		UniqueSellingPoints: "Duplicate protection, native AI, follow-up discipline.",
		SalesPitch:          "Stop using boring spreadsheets.",
		ObjectionRules:      "Pivot to value.",
	}
}
