package user

import (
	"time"

	"fishmart-be/internal/access"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

type User struct {
	ID           uuid.UUID   `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Phone        string      `json:"phone"`
	Address      string      `json:"address"`
	PasswordHash string      `json:"-"`
	Role         access.Role `json:"role"`
	Status       Status      `json:"status"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

type NewUser struct {
	Name     string
	Email    string
	Phone    string
	Address  string
	Password string
	Role     access.Role
	Status   Status
}

type ListFilter struct {
	Role   *access.Role
	Status *Status
}
