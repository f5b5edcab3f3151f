package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/its2darkai/Follow-up-crm/internal/models"
	"github.com/its2darkai/Follow-up-crm/internal/services"
	"github.com/its2darkai/Follow-up-crm/internal/services/ai"
	"github.com/its2darkai/Follow-up-crm/internal/services/leads"
)

// AIHandler serves the sales-assistant endpoints. Every endpoint grounds the
// prompt in the current company knowledge and degrades gracefully when the
// generation backend is unreachable.
type AIHandler struct {
	aiService        *ai.Service
	knowledgeService *services.KnowledgeService
	leadService      *leads.Service
}

func NewAIHandler(aiService *ai.Service, knowledgeService *services.KnowledgeService, leadService *leads.Service) *AIHandler {
	return &AIHandler{
		aiService:        aiService,
		knowledgeService: knowledgeService,
		leadService:      leadService,
	}
}

// knowledge loads the company knowledge, falling back to defaults so an
// unreadable knowledge row never takes the AI endpoints down.
func (h *AIHandler) knowledge() *models.CompanyKnowledge {
	k, err := h.knowledgeService.Get()
	if err != nil {
		logrus.Warnf("Failed to load company knowledge, using defaults: %v", err)
		return models.DefaultCompanyKnowledge()
	}
	return k
}

type refineNotesRequest struct {
	Text string `json:"text" binding:"required"`
}

// RefineNotes godoc
// @Summary Refine raw call notes
// @Tags ai
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body refineNotesRequest true "Raw notes"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/ai/refine-notes [post]
func (h *AIHandler) RefineNotes(c *gin.Context) {
	var req refineNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": h.aiService.RefineNotes(h.knowledge(), req.Text)})
}

// DailyBriefing godoc
// @Summary Daily coaching briefing
// @Description Summarizes the caller's follow-up load for the day.
// @Tags ai
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/ai/briefing [get]
func (h *AIHandler) DailyBriefing(c *gin.Context) {
	user := actingUser(c)

	stats, err := h.leadService.Stats(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats", "details": err.Error()})
		return
	}

	briefing := h.aiService.DailyBriefing(h.knowledge(), user.Name, stats.DueToday, stats.Missed)
	c.JSON(http.StatusOK, gin.H{"briefing": briefing, "stats": stats})
}

type messageDraftRequest struct {
	ClientName string `json:"client_name" binding:"required"`
	LeadStatus string `json:"lead_status" binding:"required"`
	LastNote   string `json:"last_note"`
	Kind       string `json:"kind" binding:"required,oneof=sms email"`
}

// MessageDraft godoc
// @Summary Draft a client message
// @Tags ai
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body messageDraftRequest true "Draft request"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/ai/draft [post]
func (h *AIHandler) MessageDraft(c *gin.Context) {
	var req messageDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	draft := h.aiService.MessageDraft(h.knowledge(), req.ClientName, models.LeadStatus(req.LeadStatus), req.LastNote, req.Kind)
	c.JSON(http.StatusOK, gin.H{"draft": draft})
}

type phoneHistoryRequest struct {
	Phone string `json:"phone" binding:"required"`
}

// LeadInsights godoc
// @Summary Analyze a client's interaction history
// @Tags ai
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body phoneHistoryRequest true "Client phone"
// @Success 200 {object} ai.Insights
// @Router /api/v1/ai/insights [post]
func (h *AIHandler) LeadInsights(c *gin.Context) {
	var req phoneHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	logs, err := h.leadService.ClientHistory(req.Phone)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load history", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.aiService.LeadInsights(h.knowledge(), logs))
}

// WinProbability godoc
// @Summary Estimate win probability for a client
// @Tags ai
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body phoneHistoryRequest true "Client phone"
// @Success 200 {object} ai.WinProbability
// @Router /api/v1/ai/win-probability [post]
func (h *AIHandler) WinProbability(c *gin.Context) {
	var req phoneHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	logs, err := h.leadService.ClientHistory(req.Phone)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load history", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.aiService.AnalyzeWinProbability(h.knowledge(), logs))
}

type objectionRequest struct {
	Objection string `json:"objection" binding:"required"`
	Context   string `json:"context"`
}

// ObjectionHandler godoc
// @Summary Suggest how to handle an objection
// @Tags ai
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body objectionRequest true "Objection"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/ai/objection [post]
func (h *AIHandler) ObjectionHandler(c *gin.Context) {
	var req objectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"answer": h.aiService.ObjectionHandler(h.knowledge(), req.Objection, req.Context)})
}
