package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/its2darkai/Follow-up-crm/internal/models"
	"github.com/its2darkai/Follow-up-crm/internal/services"
	"github.com/its2darkai/Follow-up-crm/internal/utils"
)

type TeamHandler struct {
	teamService *services.TeamService
}

func NewTeamHandler(teamService *services.TeamService) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

// ListMembers godoc
// @Summary List team members
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Param search query string false "Match name or email"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/admin/team [get]
func (h *TeamHandler) ListMembers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))

	users, total, err := h.teamService.ListMembers(page, pageSize, c.Query("search"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list team", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users":      users,
		"pagination": utils.CalculatePaginationInfo(int(total), page, pageSize),
	})
}

// InviteMember godoc
// @Summary Invite a team member
// @Description Pre-authorizes an email on the roster; the member registers later to claim it.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.InviteUserRequest true "Invite request"
// @Success 201 {object} models.User
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/admin/team [post]
func (h *TeamHandler) InviteMember(c *gin.Context) {
	var req models.InviteUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	user, err := h.teamService.InviteMember(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, user)
}

// UpdateMember godoc
// @Summary Update a team member
// @Description Edits name or role. Email cannot change.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body models.UpdateUserRequest true "Fields to update"
// @Success 200 {object} models.User
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/admin/team/{id} [put]
func (h *TeamHandler) UpdateMember(c *gin.Context) {
	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	user, err := h.teamService.UpdateMember(c.Param("id"), &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteMember godoc
// @Summary Remove a team member
// @Description Ledger records stay attributed to the member's email.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/admin/team/{id} [delete]
func (h *TeamHandler) DeleteMember(c *gin.Context) {
	id := c.Param("id")
	if id == c.GetString("user_id") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot remove your own account"})
		return
	}

	if err := h.teamService.DeleteMember(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Team member removed"})
}
