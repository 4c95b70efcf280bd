// Package cart holds a client session's selection before checkout. Nothing
// here touches the server; prices are snapshots taken when a line is added.
package cart

import (
	"strings"
	"sync"

	"fishmart-be/internal/order"

	"github.com/shopspring/decimal"
)

type Line struct {
	FishName    string            `json:"fishName"`
	Qty         int               `json:"qty"`
	Preparation order.Preparation `json:"preparation"`
	UnitPrice   decimal.Decimal   `json:"price"`
}

func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Qty)))
}

// Cart is safe for concurrent use. The zero value is an empty cart.
type Cart struct {
	mu    sync.Mutex
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

func (c *Cart) indexOf(name string, prep order.Preparation) int {
	for i, l := range c.lines {
		if l.FishName == name && l.Preparation == prep {
			return i
		}
	}
	return -1
}

// Add appends a line, or bumps the quantity of the line with the same fish
// and preparation. The first price seen for a line is kept.
func (c *Cart) Add(name string, qty int, prep order.Preparation, unitPrice decimal.Decimal) error {
	name = strings.TrimSpace(name)
	if name == "" || qty < 1 || !prep.Valid() || unitPrice.IsNegative() {
		return ErrInvalidLine
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(name, prep); i >= 0 {
		c.lines[i].Qty += qty
		return nil
	}
	c.lines = append(c.lines, Line{FishName: name, Qty: qty, Preparation: prep, UnitPrice: unitPrice})
	return nil
}

func (c *Cart) Remove(name string, prep order.Preparation) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(name, prep); i >= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	}
}

// UpdateQuantity sets the quantity of a line; zero or less removes it.
func (c *Cart) UpdateQuantity(name string, prep order.Preparation, qty int) {
	if qty <= 0 {
		c.Remove(name, prep)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(name, prep); i >= 0 {
		c.lines[i].Qty = qty
	}
}

func (c *Cart) Clear() {
	c.mu.Lock()
	c.lines = nil
	c.mu.Unlock()
}

// Total is a display estimate. The server recomputes from current prices.
func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

// Checkout drains the cart into the lines sent to the order endpoint.
func (c *Cart) Checkout() ([]order.LineRequest, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.lines) == 0 {
		return nil, ErrEmptyCart
	}

	reqs := make([]order.LineRequest, 0, len(c.lines))
	for _, l := range c.lines {
		reqs = append(reqs, order.LineRequest{
			FishName:    l.FishName,
			Qty:         l.Qty,
			Preparation: l.Preparation,
		})
	}
	c.lines = nil
	return reqs, nil
}
