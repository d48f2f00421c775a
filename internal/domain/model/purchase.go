package model

import (
	"time"

	"github.com/google/uuid"
)

// PurchasedGrant authorizes a buyer to read a book.
type PurchasedGrant struct {
	ID            uuid.UUID
	CustomerEmail string
	BookID        uuid.UUID
	OrderID       uuid.UUID
	PurchasedAt   time.Time
}

// PurchasedBook is a grant joined with its book.
type PurchasedBook struct {
	Book        Book
	OrderID     uuid.UUID
	PurchasedAt time.Time
}
