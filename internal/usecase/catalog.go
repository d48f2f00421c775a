package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/padudon-bit/IndieBook-project/internal/config"
	domainErrors "github.com/padudon-bit/IndieBook-project/internal/domain/errors"
	"github.com/padudon-bit/IndieBook-project/internal/domain/model"
	"github.com/padudon-bit/IndieBook-project/internal/domain/repository"
	"github.com/padudon-bit/IndieBook-project/internal/storage/blob"
	"github.com/padudon-bit/IndieBook-project/internal/storage/cache"
)

const catalogCacheKey = "catalog:books"

// StoredFile describes a freshly uploaded book file.
type StoredFile struct {
	ID       string
	Key      string
	Filename string
	Size     int64
}

// CatalogUseCase manages the book catalog.
type CatalogUseCase struct {
	books  repository.BookRepository
	blobs  blob.Store
	cache  cache.Cache
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time
}

// NewCatalogUseCase constructs CatalogUseCase.
func NewCatalogUseCase(books repository.BookRepository, blobs blob.Store, c cache.Cache, cfg *config.Config, logger *slog.Logger) *CatalogUseCase {
	return &CatalogUseCase{
		books:  books,
		blobs:  blobs,
		cache:  c,
		ttl:    cfg.CatalogCacheTTL,
		logger: logger,
		now:    time.Now,
	}
}

// ListBooks returns every book, newest upload first.
func (u *CatalogUseCase) ListBooks(ctx context.Context) ([]model.Book, error) {
	var cached []model.Book
	ok, err := cache.GetJSON(ctx, u.cache, catalogCacheKey, &cached)
	if err != nil {
		u.logger.Warn("catalog cache read failed", slog.Any("error", err))
	}
	if ok {
		return cached, nil
	}

	books, err := u.books.List(ctx)
	if err != nil {
		return nil, err
	}
	if books == nil {
		books = []model.Book{}
	}
	if err := cache.SetJSON(ctx, u.cache, catalogCacheKey, books, u.ttl); err != nil {
		u.logger.Warn("catalog cache write failed", slog.Any("error", err))
	}
	return books, nil
}

// GetBook returns a single book.
func (u *CatalogUseCase) GetBook(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	return u.books.GetByID(ctx, id)
}

// AddBook validates and stores a catalog entry whose file and cover were uploaded beforehand.
func (u *CatalogUseCase) AddBook(ctx context.Context, session AdminSession, in model.NewBook) (*model.Book, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}

	in.Title = strings.TrimSpace(in.Title)
	in.Author = strings.TrimSpace(in.Author)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	in.FileKey = strings.TrimSpace(in.FileKey)
	in.CoverKey = strings.TrimSpace(in.CoverKey)

	for _, f := range []struct{ name, value string }{
		{"title", in.Title},
		{"author", in.Author},
		{"description", in.Description},
		{"category", in.Category},
		{"file_key", in.FileKey},
		{"cover_key", in.CoverKey},
	} {
		if err := required(f.name, f.value); err != nil {
			return nil, err
		}
	}
	if err := positivePrice("price", in.Price); err != nil {
		return nil, err
	}
	if err := u.requireObject(ctx, "file_key", in.FileKey, blob.PrefixBooks); err != nil {
		return nil, err
	}
	if err := u.requireObject(ctx, "cover_key", in.CoverKey, blob.PrefixCovers); err != nil {
		return nil, err
	}

	book, err := u.books.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	u.invalidate(ctx)
	u.logger.Info("book added", slog.String("book_id", book.ID.String()), slog.String("admin", session.Username()))
	return book, nil
}

// DeleteBook removes the catalog row; stored files and past orders keep their references.
func (u *CatalogUseCase) DeleteBook(ctx context.Context, session AdminSession, id uuid.UUID) error {
	if err := requireAdmin(session); err != nil {
		return err
	}
	if err := u.books.Delete(ctx, id); err != nil {
		return err
	}
	u.invalidate(ctx)
	u.logger.Info("book deleted", slog.String("book_id", id.String()), slog.String("admin", session.Username()))
	return nil
}

// UploadBookFile stores a PDF under books/ and rejects anything else before writing.
func (u *CatalogUseCase) UploadBookFile(ctx context.Context, session AdminSession, up Upload) (*StoredFile, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	body, err := checkPDF(up)
	if err != nil {
		return nil, err
	}

	now := u.now()
	key := blob.NewKey(blob.PrefixBooks, up.Filename, now)
	info, err := u.blobs.Put(ctx, key, body, pdfMIME)
	if err != nil {
		return nil, err
	}
	return &StoredFile{
		ID:       strconv.FormatInt(now.UnixMilli(), 10),
		Key:      info.Key,
		Filename: strings.TrimPrefix(info.Key, blob.PrefixBooks+"/"),
		Size:     info.Size,
	}, nil
}

// UploadCover stores a cover image under covers/.
func (u *CatalogUseCase) UploadCover(ctx context.Context, session AdminSession, up Upload) (*StoredFile, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	mime, body, err := checkImage("cover", up)
	if err != nil {
		return nil, err
	}

	now := u.now()
	key := blob.NewKey(blob.PrefixCovers, up.Filename, now)
	info, err := u.blobs.Put(ctx, key, body, mime)
	if err != nil {
		return nil, err
	}
	return &StoredFile{
		ID:       strconv.FormatInt(now.UnixMilli(), 10),
		Key:      info.Key,
		Filename: strings.TrimPrefix(info.Key, blob.PrefixCovers+"/"),
		Size:     info.Size,
	}, nil
}

// OpenCover streams a public cover image. Keys outside covers/ are reported as missing.
func (u *CatalogUseCase) OpenCover(ctx context.Context, key string) (io.ReadCloser, blob.ObjectInfo, error) {
	key = strings.TrimPrefix(key, "/")
	if !strings.HasPrefix(key, blob.PrefixCovers+"/") || blob.ValidateKey(key) != nil {
		return nil, blob.ObjectInfo{}, domainErrors.ErrNotFound
	}
	return u.blobs.Open(ctx, key)
}

func (u *CatalogUseCase) requireObject(ctx context.Context, field, key, prefix string) error {
	if !strings.HasPrefix(key, prefix+"/") || blob.ValidateKey(key) != nil {
		return domainErrors.Invalid(field, "must reference an uploaded "+prefix+" object")
	}
	if _, err := u.blobs.Stat(ctx, key); err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return domainErrors.Invalid(field, "referenced file has not been uploaded")
		}
		return err
	}
	return nil
}

func (u *CatalogUseCase) invalidate(ctx context.Context) {
	if err := u.cache.Delete(ctx, catalogCacheKey); err != nil {
		u.logger.Warn("catalog cache invalidation failed", slog.Any("error", err))
	}
}
