package product

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Category string

const (
	CategorySeaFish   Category = "Sea Fish"
	CategoryShellfish Category = "Shellfish"
	CategoryRiverFish Category = "River Fish"
)

func (c Category) Valid() bool {
	switch c {
	case CategorySeaFish, CategoryShellfish, CategoryRiverFish:
		return true
	}
	return false
}

type Status string

const (
	StatusAvailable Status = "Available"
	StatusSoldOut   Status = "Sold Out"
)

func (s Status) Valid() bool {
	return s == StatusAvailable || s == StatusSoldOut
}

type Product struct {
	ID            uuid.UUID       `json:"id"`
	FishName      string          `json:"fishName"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stockQuantity"`
	ImageURL      string          `json:"imageURL"`
	Category      Category        `json:"category"`
	Status        Status          `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// NewProduct is the create payload. Pointer fields distinguish "missing"
// from a legitimate zero.
type NewProduct struct {
	FishName      string           `json:"fishName"`
	Price         *decimal.Decimal `json:"price"`
	StockQuantity *Quantity        `json:"stockQuantity"`
	ImageURL      string           `json:"imageURL"`
	Category      Category         `json:"category"`
	Status        Status           `json:"status"`
}

// UpdateProduct is a partial update: only fields marked Set are applied.
type UpdateProduct struct {
	FishName      Optional[string]          `json:"fishName"`
	Price         Optional[decimal.Decimal] `json:"price"`
	StockQuantity Optional[Quantity]        `json:"stockQuantity"`
	ImageURL      Optional[string]          `json:"imageURL"`
	Category      Optional[Category]        `json:"category"`
	Status        Optional[Status]          `json:"status"`
}

// Empty reports whether the payload changes nothing.
func (u UpdateProduct) Empty() bool {
	return !u.FishName.Set && !u.Price.Set && !u.StockQuantity.Set &&
		!u.ImageURL.Set && !u.Category.Set && !u.Status.Set
}
