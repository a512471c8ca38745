package cart

import (
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Line is one cart entry. Name and unit price are snapshots taken when the
// line was added; later catalog edits do not change them.
type Line struct {
	ID          uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	UnitPrice   decimal.Decimal
	Quantity    int
}

// Subtotal is unit price times quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart holds the active session's line items in insertion order. A single
// operator session owns the cart; the mutex serializes its mutation against
// a settlement in flight.
type Cart struct {
	mu    sync.Mutex
	lines []Line
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

func (c *Cart) append(line Line) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = append(c.lines, line)
}

// Lines returns a copy of the current line items.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Remove drops the line with the given id. Removing an unknown id is a no-op.
func (c *Cart) Remove(lineID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, line := range c.lines {
		if line.ID == lineID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Clear drops every line.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines) == 0
}

// Total sums unit price times quantity over all lines. An empty cart totals
// zero.
func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := decimal.Zero
	for _, line := range c.lines {
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}
