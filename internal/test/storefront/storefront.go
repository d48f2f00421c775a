// Package storefront assembles a complete StoreFacade over in-memory
// dependencies for HTTP-level tests.
package storefront

import (
	"bytes"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/padudon-bit/IndieBook-project/internal/app"
	"github.com/padudon-bit/IndieBook-project/internal/config"
	pkgAuth "github.com/padudon-bit/IndieBook-project/internal/pkg/auth"
	testhelpers "github.com/padudon-bit/IndieBook-project/internal/test"
	"github.com/padudon-bit/IndieBook-project/internal/usecase"
)

// Tokens accepted by the fixture strategy.
const (
	BuyerToken = "buyer-token"
	AdminToken = "admin-token"
	BuyerEmail = "reader@example.com"
)

// Sample payloads recognised by content sniffing.
var (
	PDF = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n%%EOF\n")
	PNG = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)
)

// Fixture exposes the facade together with its backing fakes.
type Fixture struct {
	Facade    *app.StoreFacade
	Config    *config.Config
	Logger    *slog.Logger
	Store     *testhelpers.MemoryStore
	Blobs     *testhelpers.BlobStoreStub
	Cache     *testhelpers.CacheStub
	Publisher *testhelpers.PublisherStub
}

// Strategy issues the fixed fixture tokens by role.
func Strategy() testhelpers.StrategyStub {
	return testhelpers.StrategyStub{
		IssueFn: func(p pkgAuth.Principal) (string, error) {
			if p.Role == pkgAuth.RoleAdmin {
				return AdminToken, nil
			}
			return BuyerToken, nil
		},
		ParseFn: func(token string) (pkgAuth.Principal, error) {
			switch token {
			case AdminToken:
				return pkgAuth.Principal{Name: "admin", Role: pkgAuth.RoleAdmin}, nil
			case BuyerToken:
				return pkgAuth.Principal{UserID: 1, Email: BuyerEmail, Name: "Reader", Role: pkgAuth.RoleBuyer}, nil
			}
			return pkgAuth.Principal{}, pkgAuth.ErrInvalidToken
		},
	}
}

// New builds the fixture. The admin password is "s3cret".
func New(t testing.TB) *Fixture {
	t.Helper()
	cfg := &config.Config{
		Environment:     "test",
		AdminUsername:   "admin",
		AdminPassword:   "s3cret",
		CatalogCacheTTL: time.Minute,
		MaxUploadBytes:  1 << 20,
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	store := testhelpers.NewMemoryStore()
	blobs := testhelpers.NewBlobStoreStub()
	c := testhelpers.NewCacheStub()
	publisher := &testhelpers.PublisherStub{}
	strategy := Strategy()

	admin, err := usecase.NewAdminUseCase(cfg, testhelpers.HasherStub{}, strategy)
	if err != nil {
		t.Fatalf("admin use case: %v", err)
	}
	facade := app.NewStoreFacade(
		usecase.NewAuthUseCase(store.Users(), testhelpers.HasherStub{}, strategy),
		admin,
		usecase.NewCatalogUseCase(store.Books(), blobs, c, cfg, logger),
		usecase.NewOrderUseCase(store.Orders(), store.Books(), blobs, publisher, logger),
		usecase.NewLibraryUseCase(store.Purchases(), store.Books(), blobs),
	)
	return &Fixture{
		Facade:    facade,
		Config:    cfg,
		Logger:    logger,
		Store:     store,
		Blobs:     blobs,
		Cache:     c,
		Publisher: publisher,
	}
}
