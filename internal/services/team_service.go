package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/its2darkai/Follow-up-crm/internal/database/repository"
	"github.com/its2darkai/Follow-up-crm/internal/models"
	"github.com/its2darkai/Follow-up-crm/internal/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// TeamService manages the roster of agents and admins. Inviting a member
// creates a pending entry that the member claims when registering.
type TeamService struct {
	userRepo *repository.UserRepository
}

func NewTeamService(userRepo *repository.UserRepository) *TeamService {
	return &TeamService{userRepo: userRepo}
}

// ListMembers returns roster entries with pagination and search.
func (s *TeamService) ListMembers(page, pageSize int, search string) ([]models.User, int64, error) {
	page, pageSize = utils.ValidateAndNormalizePagination(page, pageSize)
	return s.userRepo.GetAllUsers(page, pageSize, search)
}

// InviteMember pre-authorizes an email on the roster.
func (s *TeamService) InviteMember(req *models.InviteUserRequest) (*models.User, error) {
	role := models.Role(req.Role)
	if !role.Valid() {
		return nil, fmt.Errorf("invalid role %q", req.Role)
	}

	email := strings.ToLower(req.Email)
	exists, err := s.userRepo.CheckEmailExists(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, errors.New("user with this email already exists")
	}

	user := &models.User{
		ID:       uuid.NewString(),
		Name:     req.Name,
		Email:    email,
		Role:     role,
		IsActive: true,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create roster entry: %w", err)
	}

	logrus.Infof("Roster invite created for %s (%s)", user.Email, user.Role)
	return user, nil
}

// UpdateMember edits name/role on a roster entry. Email is the durable key
// and cannot change.
func (s *TeamService) UpdateMember(id string, req *models.UpdateUserRequest) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Role != nil {
		role := models.Role(*req.Role)
		if !role.Valid() {
			return nil, fmt.Errorf("invalid role %q", *req.Role)
		}
		user.Role = role
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update roster entry: %w", err)
	}
	return user, nil
}

// DeleteMember removes a roster entry. Ledger records the member owned stay
// attributed to their email; transferring them is a separate admin edit.
func (s *TeamService) DeleteMember(id string) error {
	if _, err := s.userRepo.GetByID(id); err != nil {
		return fmt.Errorf("user not found: %w", err)
	}
	return s.userRepo.Delete(id)
}
