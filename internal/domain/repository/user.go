package repository

import (
	"context"

	"github.com/padudon-bit/IndieBook-project/internal/domain/model"
)

// UserRepository describes persistence operations for buyer accounts.
type UserRepository interface {
	Create(ctx context.Context, email, passwordHash, name string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	UpdateProfile(ctx context.Context, id int64, name, avatar string) (*model.User, error)
}
