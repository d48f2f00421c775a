package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/padudon-bit/IndieBook-project/internal/domain/model"
)

// OrderRepository describes persistence operations with orders and their items.
type OrderRepository interface {
	// Create stores order together with its items atomically.
	Create(ctx context.Context, order model.NewOrder) (*model.Order, []model.OrderItem, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	List(ctx context.Context) ([]model.Order, error)
	ListByEmail(ctx context.Context, email string) ([]model.Order, error)
	Items(ctx context.Context, orderID uuid.UUID) ([]model.OrderItemDetail, error)
	// Approve moves a pending order to approved and grants every item in one transaction.
	Approve(ctx context.Context, id uuid.UUID) (*model.Order, error)
	// Reject moves a pending order to rejected with reason.
	Reject(ctx context.Context, id uuid.UUID, reason string) (*model.Order, error)
}
