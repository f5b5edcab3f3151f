package models

import (
	"time"
)

// Role is the two-value role set used for authorization checks.
type Role string

const (
	RoleAgent Role = "Agent"
	RoleAdmin Role = "Admin"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAgent || r == RoleAdmin
}

// User represents a team member on the roster. Email is the durable identity
// key (stored lowercase); an entry created by an admin starts as a pending
// invite and is claimed when the user registers.
type User struct {
	ID           string     `json:"id" gorm:"primaryKey;type:uuid"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Name         string     `json:"name" gorm:"type:varchar(255);not null"`
	Email        string     `json:"email" gorm:"type:varchar(255);not null;unique;index"`
	Role         Role       `json:"role" gorm:"type:varchar(20);not null;default:'Agent'"`
	PasswordHash string     `json:"-" gorm:"type:varchar(255)"`
	IsActive     bool       `json:"is_active" gorm:"default:true;index"`
	IsRegistered bool       `json:"is_registered" gorm:"default:false"`
	TokenVersion uint       `json:"token_version" gorm:"default:0"`
	LastLoginAt  *time.Time `json:"last_login_at"`
	// Relationships
	RefreshTokens []RefreshToken `json:"refresh_tokens,omitempty" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// InviteUserRequest is the admin payload for pre-authorizing a team member.
type InviteUserRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required"`
}

// UpdateUserRequest is the admin payload for editing a roster entry. Changing
// email is not supported; delete and re-invite instead.
type UpdateUserRequest struct {
	Name *string `json:"name,omitempty"`
	Role *string `json:"role,omitempty"`
}
