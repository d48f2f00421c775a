package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/padudon-bit/IndieBook-project/internal/config"
	domainErrors "github.com/padudon-bit/IndieBook-project/internal/domain/errors"
	"github.com/padudon-bit/IndieBook-project/internal/domain/model"
	pkgAuth "github.com/padudon-bit/IndieBook-project/internal/pkg/auth"
	testhelpers "github.com/padudon-bit/IndieBook-project/internal/test"
	"github.com/padudon-bit/IndieBook-project/internal/usecase"
)

var (
	pdfBody = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n%%EOF\n")
	pngBody = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)
)

type facadeFixture struct {
	facade *StoreFacade
	store  *testhelpers.MemoryStore
	blobs  *testhelpers.BlobStoreStub
}

func newFacade(t *testing.T) facadeFixture {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	cfg := &config.Config{AdminUsername: "admin", AdminPassword: "s3cret", CatalogCacheTTL: time.Minute}
	store := testhelpers.NewMemoryStore()
	blobs := testhelpers.NewBlobStoreStub()
	strategy := testhelpers.StrategyStub{
		IssueFn: func(p pkgAuth.Principal) (string, error) { return "tok-" + string(p.Role), nil },
		ParseFn: func(token string) (pkgAuth.Principal, error) {
			switch token {
			case "tok-admin":
				return pkgAuth.Principal{Name: "admin", Role: pkgAuth.RoleAdmin}, nil
			case "tok-buyer":
				return pkgAuth.Principal{UserID: 1, Email: "reader@example.com", Role: pkgAuth.RoleBuyer}, nil
			}
			return pkgAuth.Principal{}, pkgAuth.ErrInvalidToken
		},
	}

	admin, err := usecase.NewAdminUseCase(cfg, testhelpers.HasherStub{}, strategy)
	if err != nil {
		t.Fatalf("admin use case: %v", err)
	}
	facade := NewStoreFacade(
		usecase.NewAuthUseCase(store.Users(), testhelpers.HasherStub{}, strategy),
		admin,
		usecase.NewCatalogUseCase(store.Books(), blobs, testhelpers.NewCacheStub(), cfg, logger),
		usecase.NewOrderUseCase(store.Orders(), store.Books(), blobs, &testhelpers.PublisherStub{}, logger),
		usecase.NewLibraryUseCase(store.Purchases(), store.Books(), blobs),
	)
	return facadeFixture{facade: facade, store: store, blobs: blobs}
}

func (f facadeFixture) session(t *testing.T) usecase.AdminSession {
	t.Helper()
	token, err := f.facade.AdminLogin(context.Background(), "admin", "s3cret")
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}
	s, err := f.facade.AdminSession(token)
	if err != nil {
		t.Fatalf("admin session: %v", err)
	}
	return s
}

func (f facadeFixture) addBook(t *testing.T, s usecase.AdminSession, title, price string) *model.Book {
	t.Helper()
	ctx := context.Background()
	file, err := f.facade.UploadBookFile(ctx, s, usecase.Upload{Filename: title + ".pdf", ContentType: "application/pdf", Body: bytes.NewReader(pdfBody)})
	if err != nil {
		t.Fatalf("upload file: %v", err)
	}
	cover, err := f.facade.UploadCover(ctx, s, usecase.Upload{Filename: title + ".png", Body: bytes.NewReader(pngBody)})
	if err != nil {
		t.Fatalf("upload cover: %v", err)
	}
	book, err := f.facade.AddBook(ctx, s, model.NewBook{
		Title:       title,
		Author:      "Author",
		Description: "About " + title,
		Price:       decimal.RequireFromString(price),
		Category:    "fiction",
		FileKey:     file.Key,
		CoverKey:    cover.Key,
	})
	if err != nil {
		t.Fatalf("add book: %v", err)
	}
	return book
}

func TestStoreFacadeAuth(t *testing.T) {
	f := newFacade(t)
	ctx := context.Background()

	token, err := f.facade.Register(ctx, "reader@example.com", "password", "Reader")
	if err != nil || token != "tok-buyer" {
		t.Fatalf("register returned %q, %v", token, err)
	}
	if token, err = f.facade.Authenticate(ctx, "reader@example.com", "password"); err != nil || token != "tok-buyer" {
		t.Fatalf("authenticate returned %q, %v", token, err)
	}
	p, err := f.facade.ParseToken(token)
	if err != nil || p.Email != "reader@example.com" {
		t.Fatalf("unexpected principal %+v, %v", p, err)
	}
	if _, err := f.facade.UpdateProfile(ctx, 1, "New Name", ""); err != nil {
		t.Fatalf("update profile: %v", err)
	}
	user, err := f.facade.Profile(ctx, 1)
	if err != nil || user.Name != "New Name" {
		t.Fatalf("unexpected profile %+v, %v", user, err)
	}

	if _, err := f.facade.AdminLogin(ctx, "admin", "nope"); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, err := f.facade.AdminSession("tok-buyer"); !errors.Is(err, domainErrors.ErrForbidden) {
		t.Fatalf("buyer token must not open admin session, got %v", err)
	}
}

func TestStoreFacadePurchaseScenario(t *testing.T) {
	f := newFacade(t)
	ctx := context.Background()
	admin := f.session(t)

	first := f.addBook(t, admin, "Dune", "299")
	second := f.addBook(t, admin, "Emma", "399")

	books, err := f.facade.Books(ctx)
	if err != nil || len(books) != 2 || books[0].ID != second.ID {
		t.Fatalf("expected newest book first, got %+v %v", books, err)
	}

	order, err := f.facade.Checkout(ctx, []uuid.UUID{first.ID, second.ID}, usecase.CheckoutRequest{
		Buyer: model.Buyer{Name: "Reader", Email: "reader@example.com", Phone: "0800000000"},
		Total: decimal.RequireFromString("698"),
		Slip:  usecase.Upload{Filename: "slip.png", Body: bytes.NewReader(pngBody)},
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if order.Status != model.OrderStatusPending || !order.TotalAmount.Equal(decimal.RequireFromString("698")) {
		t.Fatalf("unexpected order %+v", order)
	}

	orders, err := f.facade.Orders(ctx, admin)
	if err != nil || len(orders) != 1 || orders[0].ID != order.ID {
		t.Fatalf("expected one pending order, got %+v %v", orders, err)
	}
	items, err := f.facade.OrderItems(ctx, admin, order.ID)
	if err != nil || len(items) != 2 {
		t.Fatalf("unexpected items %+v %v", items, err)
	}
	if got, err := f.facade.Order(ctx, admin, order.ID); err != nil || got.ID != order.ID {
		t.Fatalf("unexpected order lookup %+v %v", got, err)
	}
	rc, _, err := f.facade.OrderSlip(ctx, admin, order.ID)
	if err != nil {
		t.Fatalf("open slip: %v", err)
	}
	rc.Close()

	if _, err := f.facade.ApproveOrder(ctx, admin, order.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := f.facade.ApproveOrder(ctx, admin, order.ID); !errors.Is(err, domainErrors.ErrConflict) {
		t.Fatalf("expected conflict on second approval, got %v", err)
	}

	owned, err := f.facade.Library(ctx, "reader@example.com")
	if err != nil || len(owned) != 2 {
		t.Fatalf("expected two owned books, got %+v %v", owned, err)
	}
	for _, pb := range owned {
		if pb.OrderID != order.ID {
			t.Fatalf("expected grant for order %s, got %s", order.ID, pb.OrderID)
		}
	}

	rc, info, book, err := f.facade.OpenBook(ctx, "reader@example.com", first.ID)
	if err != nil {
		t.Fatalf("open book: %v", err)
	}
	rc.Close()
	if book.ID != first.ID || info.ContentType != "application/pdf" {
		t.Fatalf("unexpected book %+v %+v", book, info)
	}

	mine, err := f.facade.BuyerOrders(ctx, "reader@example.com")
	if err != nil || len(mine) != 1 || mine[0].Status != model.OrderStatusApproved {
		t.Fatalf("unexpected buyer orders %+v %v", mine, err)
	}
}

func TestStoreFacadeRejectAndDelete(t *testing.T) {
	f := newFacade(t)
	ctx := context.Background()
	admin := f.session(t)
	book := f.addBook(t, admin, "Ulysses", "150.25")

	if got, err := f.facade.Book(ctx, book.ID); err != nil || got.Title != "Ulysses" {
		t.Fatalf("unexpected book %+v %v", got, err)
	}
	rc, _, err := f.facade.Cover(ctx, book.CoverKey)
	if err != nil {
		t.Fatalf("open cover: %v", err)
	}
	rc.Close()

	if _, err := f.facade.Checkout(ctx, []uuid.UUID{book.ID}, usecase.CheckoutRequest{
		Buyer: model.Buyer{Name: "R", Email: "r@example.com", Phone: "1"},
		Total: decimal.RequireFromString("150"),
		Slip:  usecase.Upload{Filename: "slip.png", Body: bytes.NewReader(pngBody)},
	}); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected total mismatch to be rejected, got %v", err)
	}

	order, err := f.facade.Checkout(ctx, []uuid.UUID{book.ID}, usecase.CheckoutRequest{
		Buyer: model.Buyer{Name: "R", Email: "r@example.com", Phone: "1"},
		Total: decimal.RequireFromString("150.25"),
		Slip:  usecase.Upload{Filename: "slip.png", Body: bytes.NewReader(pngBody)},
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	rejected, err := f.facade.RejectOrder(ctx, admin, order.ID, "slip unreadable")
	if err != nil || *rejected.RejectionReason != "slip unreadable" {
		t.Fatalf("unexpected rejection %+v %v", rejected, err)
	}
	if owned, _ := f.facade.Library(ctx, "r@example.com"); len(owned) != 0 {
		t.Fatalf("rejection must not grant access, got %d", len(owned))
	}

	if err := f.facade.DeleteBook(ctx, admin, book.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := f.facade.DeleteBook(ctx, admin, book.ID); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	books, _ := f.facade.Books(ctx)
	if len(books) != 0 {
		t.Fatalf("expected empty catalog, got %d", len(books))
	}
}
