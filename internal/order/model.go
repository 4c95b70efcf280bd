package order

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Status string

// Statuses in their intended order. Nothing enforces the order: any
// authorized actor may move an order to any of them.
const (
	StatusPending        Status = "Pending"
	StatusPacked         Status = "Packed"
	StatusOutForDelivery Status = "Out for Delivery"
	StatusDelivered      Status = "Delivered"
)

var Statuses = []Status{StatusPending, StatusPacked, StatusOutForDelivery, StatusDelivered}

func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

type Preparation string

const (
	PreparationWhole   Preparation = "Whole"
	PreparationCleaned Preparation = "Cleaned"
)

func (p Preparation) Valid() bool {
	return p == PreparationWhole || p == PreparationCleaned
}

// Item copies the product name so later catalog edits never rewrite history.
type Item struct {
	FishName    string      `json:"fishName"`
	Qty         int         `json:"qty"`
	Preparation Preparation `json:"preparation"`
}

// Party is the populated view of a user referenced by an order.
type Party struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Email   string    `json:"email,omitempty"`
	Phone   string    `json:"phone,omitempty"`
	Address string    `json:"address,omitempty"`
}

type Order struct {
	ID                uuid.UUID       `json:"id"`
	UserID            uuid.UUID       `json:"userId"`
	Items             []Item          `json:"items"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`
	Status            Status          `json:"status"`
	AssignedPartnerID *uuid.UUID      `json:"assignedPartnerId"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`

	Owner   *Party `json:"user,omitempty"`
	Partner *Party `json:"assignedPartner,omitempty"`
}

// LineRequest is one requested cart line at checkout.
type LineRequest struct {
	FishName    string      `json:"fishName"`
	Qty         int         `json:"qty"`
	Preparation Preparation `json:"preparation"`
}

type ListFilter struct {
	UserID    *uuid.UUID
	PartnerID *uuid.UUID
	Status    *Status
}

type PackingRef struct {
	OrderID  uuid.UUID `json:"orderId"`
	Qty      int       `json:"qty"`
	Customer string    `json:"customer"`
}

type PackingEntry struct {
	FishName string       `json:"fishName"`
	TotalQty int          `json:"totalQty"`
	Orders   []PackingRef `json:"orders"`
}

// PackingList groups line items by preparation, then by fish.
type PackingList struct {
	Whole   []PackingEntry `json:"Whole"`
	Cleaned []PackingEntry `json:"Cleaned"`
}

type Summary struct {
	TotalOrders   int `json:"totalOrders"`
	PendingOrders int `json:"pendingOrders"`
}
