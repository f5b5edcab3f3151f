package services

import (
	"fmt"

	"github.com/its2darkai/Follow-up-crm/internal/database/repository"
	"github.com/its2darkai/Follow-up-crm/internal/models"
)

// KnowledgeService reads and writes the company-knowledge configuration fed
// into AI prompt building. Callers always pass the result explicitly into the
// AI layer; there is no process-wide cached copy.
type KnowledgeService struct {
	knowledgeRepo *repository.KnowledgeRepository
}

func NewKnowledgeService(knowledgeRepo *repository.KnowledgeRepository) *KnowledgeService {
	return &KnowledgeService{knowledgeRepo: knowledgeRepo}
}

// Get returns the current company knowledge (defaults when unset).
func (s *KnowledgeService) Get() (*models.CompanyKnowledge, error) {
	return s.knowledgeRepo.Get()
}

// Save replaces the company knowledge.
func (s *KnowledgeService) Save(knowledge *models.CompanyKnowledge) error {
	if err := s.knowledgeRepo.Save(knowledge); err != nil {
		return fmt.Errorf("failed to save company knowledge: %w", err)
	}
	return nil
}
