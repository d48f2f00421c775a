package usecase

import (
	"context"
	"io"

	"github.com/google/uuid"

	domainErrors "github.com/padudon-bit/IndieBook-project/internal/domain/errors"
	"github.com/padudon-bit/IndieBook-project/internal/domain/model"
	"github.com/padudon-bit/IndieBook-project/internal/domain/repository"
	"github.com/padudon-bit/IndieBook-project/internal/storage/blob"
)

// LibraryUseCase serves books a buyer has been granted.
type LibraryUseCase struct {
	purchases repository.PurchaseRepository
	books     repository.BookRepository
	blobs     blob.Store
}

// NewLibraryUseCase constructs LibraryUseCase.
func NewLibraryUseCase(purchases repository.PurchaseRepository, books repository.BookRepository, blobs blob.Store) *LibraryUseCase {
	return &LibraryUseCase{purchases: purchases, books: books, blobs: blobs}
}

// ListPurchased returns the buyer's granted books, most recent grant first.
func (u *LibraryUseCase) ListPurchased(ctx context.Context, email string) ([]model.PurchasedBook, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, domainErrors.ErrUnauthorized
	}
	return u.purchases.ListByEmail(ctx, email)
}

// OpenBook streams the PDF of a book the buyer owns.
func (u *LibraryUseCase) OpenBook(ctx context.Context, email string, bookID uuid.UUID) (io.ReadCloser, blob.ObjectInfo, *model.Book, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, blob.ObjectInfo{}, nil, domainErrors.ErrUnauthorized
	}

	owned, err := u.purchases.HasGrant(ctx, email, bookID)
	if err != nil {
		return nil, blob.ObjectInfo{}, nil, err
	}
	if !owned {
		return nil, blob.ObjectInfo{}, nil, domainErrors.ErrForbidden
	}

	book, err := u.books.GetByID(ctx, bookID)
	if err != nil {
		return nil, blob.ObjectInfo{}, nil, err
	}
	rc, info, err := u.blobs.Open(ctx, book.FileKey)
	if err != nil {
		return nil, blob.ObjectInfo{}, nil, err
	}
	return rc, info, book, nil
}
