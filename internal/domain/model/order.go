package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus describes approval lifecycle.
type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "pending"
	OrderStatusApproved OrderStatus = "approved"
	OrderStatusRejected OrderStatus = "rejected"
)

// Terminal reports whether no further transition is allowed.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusApproved || s == OrderStatusRejected
}

// Buyer holds contact details entered at checkout.
type Buyer struct {
	Name  string
	Email string
	Phone string
}

// Order is a bank-transfer purchase awaiting or past admin review.
type Order struct {
	ID              uuid.UUID
	Buyer           Buyer
	TotalAmount     decimal.Decimal
	SlipKey         string
	Status          OrderStatus
	RejectionReason *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OrderItem is a single book line with the price paid at checkout.
type OrderItem struct {
	ID      uuid.UUID
	OrderID uuid.UUID
	BookID  uuid.UUID
	Price   decimal.Decimal
	// Position is the zero-based index of the line in the buyer's cart.
	Position  int
	CreatedAt time.Time
}

// OrderItemDetail joins an order item with display fields of its book.
// Book fields are empty when the book was deleted after purchase.
type OrderItemDetail struct {
	OrderItem
	Title     string
	Author    string
	BookPrice *decimal.Decimal
	CoverKey  string
}

// LineItem is a requested order line.
type LineItem struct {
	BookID uuid.UUID
	Price  decimal.Decimal
}

// NewOrder carries everything required to place an order.
type NewOrder struct {
	Buyer       Buyer
	TotalAmount decimal.Decimal
	SlipKey     string
	Items       []LineItem
}
