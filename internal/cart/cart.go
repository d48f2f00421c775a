// Package cart implements the buyer's shopping cart. A Cart belongs to a
// single session and is passed explicitly; it is never stored server side.
package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainErrors "github.com/padudon-bit/IndieBook-project/internal/domain/errors"
	"github.com/padudon-bit/IndieBook-project/internal/domain/model"
)

// Item is a rendered cart line. Quantity is always 1.
type Item struct {
	BookID   uuid.UUID
	Title    string
	Author   string
	Price    decimal.Decimal
	FileKey  string
	Quantity int
}

// Cart accumulates books selected during a browsing session.
type Cart struct {
	items []Item
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// Add appends book unless it is already present.
func (c *Cart) Add(book model.Book) error {
	if c.Contains(book.ID) {
		return domainErrors.ErrDuplicateCartItem
	}
	c.items = append(c.items, Item{
		BookID:   book.ID,
		Title:    book.Title,
		Author:   book.Author,
		Price:    book.Price,
		FileKey:  book.FileKey,
		Quantity: 1,
	})
	return nil
}

// Remove drops the line for id if present.
func (c *Cart) Remove(id uuid.UUID) {
	for i, it := range c.items {
		if it.BookID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// Contains reports whether id is in the cart.
func (c *Cart) Contains(id uuid.UUID) bool {
	for _, it := range c.items {
		if it.BookID == id {
			return true
		}
	}
	return false
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.items = nil
}

// Items returns a copy of cart lines in insertion order.
func (c *Cart) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns number of lines.
func (c *Cart) Len() int {
	return len(c.items)
}

// Total sums line prices.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.items {
		total = total.Add(it.Price)
	}
	return total
}

// LineItems converts cart lines into order lines with snapshotted prices.
func (c *Cart) LineItems() []model.LineItem {
	out := make([]model.LineItem, 0, len(c.items))
	for _, it := range c.items {
		out = append(out, model.LineItem{BookID: it.BookID, Price: it.Price})
	}
	return out
}
