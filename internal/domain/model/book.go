package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Book is a purchasable PDF in the catalog.
type Book struct {
	ID          uuid.UUID
	Title       string
	Author      string
	Description string
	Price       decimal.Decimal
	Category    string
	FileKey     string
	CoverKey    string
	UploadedAt  time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewBook holds fields supplied by admin when adding a book.
type NewBook struct {
	Title       string
	Author      string
	Description string
	Price       decimal.Decimal
	Category    string
	FileKey     string
	CoverKey    string
}
