package handlers

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/padudon-bit/IndieBook-project/internal/domain/model"
	pkgAuth "github.com/padudon-bit/IndieBook-project/internal/pkg/auth"
	"github.com/padudon-bit/IndieBook-project/internal/storage/blob"
	"github.com/padudon-bit/IndieBook-project/internal/usecase"
)

// AuthFacade describes buyer account capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, email, password, name string) (string, error)
	Authenticate(ctx context.Context, email, password string) (string, error)
	ParseToken(token string) (pkgAuth.Principal, error)
	Profile(ctx context.Context, userID int64) (*model.User, error)
	UpdateProfile(ctx context.Context, userID int64, name, avatar string) (*model.User, error)
}

// AdminFacade covers the admin login gate.
type AdminFacade interface {
	AdminLogin(ctx context.Context, username, password string) (string, error)
	AdminSession(token string) (usecase.AdminSession, error)
}

// CatalogFacade encapsulates catalog reads and admin catalog management.
type CatalogFacade interface {
	Books(ctx context.Context) ([]model.Book, error)
	Book(ctx context.Context, id uuid.UUID) (*model.Book, error)
	Cover(ctx context.Context, key string) (io.ReadCloser, blob.ObjectInfo, error)
	AddBook(ctx context.Context, s usecase.AdminSession, in model.NewBook) (*model.Book, error)
	DeleteBook(ctx context.Context, s usecase.AdminSession, id uuid.UUID) error
	UploadBookFile(ctx context.Context, s usecase.AdminSession, up usecase.Upload) (*usecase.StoredFile, error)
	UploadCover(ctx context.Context, s usecase.AdminSession, up usecase.Upload) (*usecase.StoredFile, error)
}

// OrderFacade covers checkout and the admin review workflow.
type OrderFacade interface {
	Checkout(ctx context.Context, bookIDs []uuid.UUID, req usecase.CheckoutRequest) (*model.Order, error)
	BuyerOrders(ctx context.Context, email string) ([]model.Order, error)
	Orders(ctx context.Context, s usecase.AdminSession) ([]model.Order, error)
	Order(ctx context.Context, s usecase.AdminSession, id uuid.UUID) (*model.Order, error)
	OrderItems(ctx context.Context, s usecase.AdminSession, id uuid.UUID) ([]model.OrderItemDetail, error)
	OrderSlip(ctx context.Context, s usecase.AdminSession, id uuid.UUID) (io.ReadCloser, blob.ObjectInfo, error)
	ApproveOrder(ctx context.Context, s usecase.AdminSession, id uuid.UUID) (*model.Order, error)
	RejectOrder(ctx context.Context, s usecase.AdminSession, id uuid.UUID, reason string) (*model.Order, error)
}

// LibraryFacade serves purchased books.
type LibraryFacade interface {
	Library(ctx context.Context, email string) ([]model.PurchasedBook, error)
	OpenBook(ctx context.Context, email string, bookID uuid.UUID) (io.ReadCloser, blob.ObjectInfo, *model.Book, error)
}

// StoreFacade aggregates the full set of operations used across handlers.
type StoreFacade interface {
	AuthFacade
	AdminFacade
	CatalogFacade
	OrderFacade
	LibraryFacade
}
