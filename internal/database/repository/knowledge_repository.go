package repository

import (
	"errors"

	"github.com/its2darkai/Follow-up-crm/internal/models"

	"gorm.io/gorm"
)

// KnowledgeRepository stores the single company-knowledge row.
type KnowledgeRepository struct {
	db *gorm.DB
}

func NewKnowledgeRepository(db *gorm.DB) *KnowledgeRepository {
	return &KnowledgeRepository{db: db}
}

// Get returns the company knowledge, falling back to defaults when an admin
// has never saved it.
func (r *KnowledgeRepository) Get() (*models.CompanyKnowledge, error) {
	var knowledge models.CompanyKnowledge
	err := r.db.First(&knowledge, "id = ?", models.KnowledgeRecordID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.DefaultCompanyKnowledge(), nil
	}
	if err != nil {
		return nil, err
	}
	return &knowledge, nil
}

// Save upserts the company knowledge row.
func (r *KnowledgeRepository) Save(knowledge *models.CompanyKnowledge) error {
	knowledge.ID = models.KnowledgeRecordID
	return r.db.Save(knowledge).Error
}
