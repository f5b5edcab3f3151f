package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/its2darkai/Follow-up-crm/internal/models"
	"github.com/its2darkai/Follow-up-crm/internal/services/excel"
	"github.com/its2darkai/Follow-up-crm/internal/services/leads"
	"github.com/its2darkai/Follow-up-crm/internal/utils"
)

type LeadHandler struct {
	leadService  *leads.Service
	excelService *excel.Service
}

func NewLeadHandler(leadService *leads.Service, excelService *excel.Service) *LeadHandler {
	return &LeadHandler{
		leadService:  leadService,
		excelService: excelService,
	}
}

// actingUser pulls the authenticated user out of the request context.
func actingUser(c *gin.Context) *models.User {
	return c.MustGet("user").(*models.User)
}

// respondLeadError maps the lead service's typed errors onto HTTP statuses.
// Business-rule errors are never masked: a duplicate names the existing
// owner, a validation error names the missing field.
func respondLeadError(c *gin.Context, err error) {
	var dup *leads.DuplicateOwnerError
	switch {
	case errors.As(err, &dup):
		c.JSON(http.StatusConflict, gin.H{
			"error": dup.Error(),
			"owner": dup.Existing,
		})
	case leads.IsValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, leads.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Interaction log not found"})
	case errors.Is(err, leads.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Operation not permitted"})
	default:
		logrus.Errorf("Lead operation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error", "details": err.Error()})
	}
}

// CreateLead godoc
// @Summary Log a new lead interaction
// @Description Create an interaction log. Rejected when the phone's normalized key is owned by a different agent.
// @Tags leads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateLeadRequest true "Lead creation request"
// @Success 201 {object} models.InteractionLog
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/leads [post]
func (h *LeadHandler) CreateLead(c *gin.Context) {
	var req models.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	log, err := h.leadService.CreateLead(actingUser(c), &req)
	if err != nil {
		respondLeadError(c, err)
		return
	}

	c.JSON(http.StatusCreated, log)
}

// ListLeads godoc
// @Summary List interaction logs
// @Description Agents see their own records; admins see the whole ledger.
// @Tags leads
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Param search query string false "Match client name or phone"
// @Param status query string false "Filter by lead status"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/leads [get]
func (h *LeadHandler) ListLeads(c *gin.Context) {
	page, pageSize := utils.ParsePaginationFromQuery(c.Query("page"), c.Query("page_size"))

	opts := leads.ListOptions{
		Search:   c.Query("search"),
		Status:   models.LeadStatus(c.Query("status")),
		Page:     page,
		PageSize: pageSize,
	}

	logs, total, err := h.leadService.ListLeads(actingUser(c), opts)
	if err != nil {
		respondLeadError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logs":       logs,
		"pagination": utils.CalculatePaginationInfo(int(total), page, pageSize),
	})
}

// GetLeadStats godoc
// @Summary Dashboard counters
// @Description Follow-ups due today, missed follow-ups, new prospects and paid deals this month.
// @Tags leads
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.LeadStats
// @Router /api/v1/leads/stats [get]
func (h *LeadHandler) GetLeadStats(c *gin.Context) {
	stats, err := h.leadService.Stats(actingUser(c))
	if err != nil {
		respondLeadError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// CheckPhone godoc
// @Summary Advisory owner lookup
// @Description Returns the current owner of a phone key, if any. Tolerates incomplete numbers while the user is still typing.
// @Tags leads
// @Produce json
// @Security BearerAuth
// @Param phone query string true "Raw phone input"
// @Success 200 {object} models.CheckPhoneResponse
// @Router /api/v1/leads/check-phone [get]
func (h *LeadHandler) CheckPhone(c *gin.Context) {
	owner, err := h.leadService.QueryOwner(c.Query("phone"))
	if err != nil {
		respondLeadError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.CheckPhoneResponse{
		Exists: owner != nil,
		Owner:  owner,
	})
}

// GetLeadByID godoc
// @Summary Get an interaction log
// @Tags leads
// @Produce json
// @Security BearerAuth
// @Param id path string true "Log ID"
// @Success 200 {object} models.InteractionLog
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/leads/{id} [get]
func (h *LeadHandler) GetLeadByID(c *gin.Context) {
	log, err := h.leadService.GetLead(c.Param("id"), actingUser(c))
	if err != nil {
		respondLeadError(c, err)
		return
	}
	c.JSON(http.StatusOK, log)
}

// UpdateLead godoc
// @Summary Update an interaction log
// @Description Transfer/edit path. Admins may reassign ownership; agents may only edit their own open records.
// @Tags leads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Log ID"
// @Param request body models.UpdateLeadRequest true "Fields to update"
// @Success 200 {object} models.InteractionLog
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/leads/{id} [put]
func (h *LeadHandler) UpdateLead(c *gin.Context) {
	var req models.UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	log, err := h.leadService.UpdateLead(c.Param("id"), &req, actingUser(c))
	if err != nil {
		respondLeadError(c, err)
		return
	}
	c.JSON(http.StatusOK, log)
}

// DeleteLead godoc
// @Summary Delete an interaction log
// @Description Admin only. Terminal, no undo.
// @Tags leads
// @Produce json
// @Security BearerAuth
// @Param id path string true "Log ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/leads/{id} [delete]
func (h *LeadHandler) DeleteLead(c *gin.Context) {
	if err := h.leadService.DeleteLead(c.Param("id"), actingUser(c)); err != nil {
		respondLeadError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Interaction log deleted"})
}

// ExportLeads godoc
// @Summary Export the ledger to Excel
// @Tags leads
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} binary
// @Router /api/v1/admin/export [get]
func (h *LeadHandler) ExportLeads(c *gin.Context) {
	logs, err := h.leadService.Export(actingUser(c))
	if err != nil {
		respondLeadError(c, err)
		return
	}

	result, err := h.excelService.ExportInteractionLogs(logs)
	if err != nil {
		logrus.Errorf("Failed to export ledger: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export", "details": err.Error()})
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+result.Filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", result.Content)
}
