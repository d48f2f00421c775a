package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/padudon-bit/IndieBook-project/internal/domain/model"
)

// BookRepository describes persistence operations for the catalog.
type BookRepository interface {
	Create(ctx context.Context, book model.NewBook) (*model.Book, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Book, error)
	List(ctx context.Context) ([]model.Book, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
