package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"

	StatusActive    = "Active"
	StatusInactive  = "Inactive"
	StatusSuspended = "Suspended"
)

type User struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Password      string     `json:"-"`
	Avatar        string     `json:"avatar"`
	Mobile        string     `json:"mobile"`
	Role          string     `json:"role"`
	Status        string     `json:"status"`
	VerifyEmail   bool       `json:"verify_email"`
	LastLoginDate *time.Time `json:"last_login_date,omitempty"`
	RefreshToken  string     `json:"-"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type UserFilter struct {
	Search string
	Role   string
	Status string
	Page   int
	Limit  int
}

// Customer is a USER account together with what it has ordered.
type Customer struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Mobile     string          `json:"mobile"`
	Status     string          `json:"status"`
	OrderCount int             `json:"order_count"`
	TotalSpent decimal.Decimal `json:"total_spent"`
	CreatedAt  time.Time       `json:"created_at"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"-"`
	User         User   `json:"user"`
}

func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}

func ValidStatus(status string) bool {
	switch status {
	case StatusActive, StatusInactive, StatusSuspended:
		return true
	}
	return false
}
