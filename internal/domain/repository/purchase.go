package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/padudon-bit/IndieBook-project/internal/domain/model"
)

// PurchaseRepository exposes the purchased-access index.
type PurchaseRepository interface {
	ListByEmail(ctx context.Context, email string) ([]model.PurchasedBook, error)
	HasGrant(ctx context.Context, email string, bookID uuid.UUID) (bool, error)
}
