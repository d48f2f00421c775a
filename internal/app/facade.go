package app

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/padudon-bit/IndieBook-project/internal/domain/model"
	pkgAuth "github.com/padudon-bit/IndieBook-project/internal/pkg/auth"
	"github.com/padudon-bit/IndieBook-project/internal/storage/blob"
	"github.com/padudon-bit/IndieBook-project/internal/usecase"
)

// StoreFacade exposes the storefront use cases to the HTTP layer.
type StoreFacade struct {
	auth    *usecase.AuthUseCase
	admin   *usecase.AdminUseCase
	catalog *usecase.CatalogUseCase
	orders  *usecase.OrderUseCase
	library *usecase.LibraryUseCase
}

func NewStoreFacade(auth *usecase.AuthUseCase, admin *usecase.AdminUseCase, catalog *usecase.CatalogUseCase, orders *usecase.OrderUseCase, library *usecase.LibraryUseCase) *StoreFacade {
	return &StoreFacade{auth: auth, admin: admin, catalog: catalog, orders: orders, library: library}
}

func (f *StoreFacade) Register(ctx context.Context, email, password, name string) (string, error) {
	_, token, err := f.auth.Register(ctx, email, password, name)
	return token, err
}

func (f *StoreFacade) Authenticate(ctx context.Context, email, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, email, password)
	return token, err
}

func (f *StoreFacade) ParseToken(token string) (pkgAuth.Principal, error) {
	return f.auth.ParseToken(token)
}

func (f *StoreFacade) Profile(ctx context.Context, userID int64) (*model.User, error) {
	return f.auth.Profile(ctx, userID)
}

func (f *StoreFacade) UpdateProfile(ctx context.Context, userID int64, name, avatar string) (*model.User, error) {
	return f.auth.UpdateProfile(ctx, userID, name, avatar)
}

func (f *StoreFacade) AdminLogin(ctx context.Context, username, password string) (string, error) {
	token, _, err := f.admin.Login(ctx, username, password)
	return token, err
}

func (f *StoreFacade) AdminSession(token string) (usecase.AdminSession, error) {
	return f.admin.Session(token)
}

func (f *StoreFacade) Books(ctx context.Context) ([]model.Book, error) {
	return f.catalog.ListBooks(ctx)
}

func (f *StoreFacade) Book(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	return f.catalog.GetBook(ctx, id)
}

func (f *StoreFacade) Cover(ctx context.Context, key string) (io.ReadCloser, blob.ObjectInfo, error) {
	return f.catalog.OpenCover(ctx, key)
}

func (f *StoreFacade) AddBook(ctx context.Context, s usecase.AdminSession, in model.NewBook) (*model.Book, error) {
	return f.catalog.AddBook(ctx, s, in)
}

func (f *StoreFacade) DeleteBook(ctx context.Context, s usecase.AdminSession, id uuid.UUID) error {
	return f.catalog.DeleteBook(ctx, s, id)
}

func (f *StoreFacade) UploadBookFile(ctx context.Context, s usecase.AdminSession, up usecase.Upload) (*usecase.StoredFile, error) {
	return f.catalog.UploadBookFile(ctx, s, up)
}

func (f *StoreFacade) UploadCover(ctx context.Context, s usecase.AdminSession, up usecase.Upload) (*usecase.StoredFile, error) {
	return f.catalog.UploadCover(ctx, s, up)
}

// Checkout builds the request-scoped cart from catalog prices and places the order.
func (f *StoreFacade) Checkout(ctx context.Context, bookIDs []uuid.UUID, req usecase.CheckoutRequest) (*model.Order, error) {
	c, err := f.orders.BuildCart(ctx, bookIDs)
	if err != nil {
		return nil, err
	}
	return f.orders.Checkout(ctx, req, c)
}

func (f *StoreFacade) BuyerOrders(ctx context.Context, email string) ([]model.Order, error) {
	return f.orders.OrdersForBuyer(ctx, email)
}

func (f *StoreFacade) Orders(ctx context.Context, s usecase.AdminSession) ([]model.Order, error) {
	return f.orders.ListOrders(ctx, s)
}

func (f *StoreFacade) Order(ctx context.Context, s usecase.AdminSession, id uuid.UUID) (*model.Order, error) {
	return f.orders.GetOrder(ctx, s, id)
}

func (f *StoreFacade) OrderItems(ctx context.Context, s usecase.AdminSession, id uuid.UUID) ([]model.OrderItemDetail, error) {
	return f.orders.OrderItems(ctx, s, id)
}

func (f *StoreFacade) OrderSlip(ctx context.Context, s usecase.AdminSession, id uuid.UUID) (io.ReadCloser, blob.ObjectInfo, error) {
	return f.orders.OrderSlip(ctx, s, id)
}

func (f *StoreFacade) ApproveOrder(ctx context.Context, s usecase.AdminSession, id uuid.UUID) (*model.Order, error) {
	return f.orders.ApproveOrder(ctx, s, id)
}

func (f *StoreFacade) RejectOrder(ctx context.Context, s usecase.AdminSession, id uuid.UUID, reason string) (*model.Order, error) {
	return f.orders.RejectOrder(ctx, s, id, reason)
}

func (f *StoreFacade) Library(ctx context.Context, email string) ([]model.PurchasedBook, error) {
	return f.library.ListPurchased(ctx, email)
}

func (f *StoreFacade) OpenBook(ctx context.Context, email string, bookID uuid.UUID) (io.ReadCloser, blob.ObjectInfo, *model.Book, error) {
	return f.library.OpenBook(ctx, email, bookID)
}
