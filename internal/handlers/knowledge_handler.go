package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/its2darkai/Follow-up-crm/internal/models"
	"github.com/its2darkai/Follow-up-crm/internal/services"
)

type KnowledgeHandler struct {
	knowledgeService *services.KnowledgeService
}

func NewKnowledgeHandler(knowledgeService *services.KnowledgeService) *KnowledgeHandler {
	return &KnowledgeHandler{knowledgeService: knowledgeService}
}

// GetKnowledge godoc
// @Summary Get company knowledge
// @Description Returns the product knowledge used to ground AI assistance.
// @Tags knowledge
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.CompanyKnowledge
// @Router /api/v1/knowledge [get]
func (h *KnowledgeHandler) GetKnowledge(c *gin.Context) {
	knowledge, err := h.knowledgeService.Get()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load knowledge", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, knowledge)
}

// SaveKnowledge godoc
// @Summary Replace company knowledge
// @Description Admin only. The master document, when set, overrides the structured fields in AI prompts.
// @Tags knowledge
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CompanyKnowledge true "Company knowledge"
// @Success 200 {object} models.CompanyKnowledge
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/knowledge [put]
func (h *KnowledgeHandler) SaveKnowledge(c *gin.Context) {
	var knowledge models.CompanyKnowledge
	if err := c.ShouldBindJSON(&knowledge); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	if err := h.knowledgeService.Save(&knowledge); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save knowledge", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, &knowledge)
}
