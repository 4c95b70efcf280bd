package shop

import (
	"time"

	"github.com/google/uuid"
)

// Status is the singleton open/closed gate for new orders.
type Status struct {
	ID        uuid.UUID `json:"-"`
	IsOpen    bool      `json:"isOpen"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"updatedAt"`
}
