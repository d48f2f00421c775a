// Package blob stores uploaded book files, covers and payment slips.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"regexp"
	"strconv"
	"strings"
	"time"

	gcblob "gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	"gocloud.dev/gcerrors"

	domainErrors "github.com/padudon-bit/IndieBook-project/internal/domain/errors"
)

// Key prefixes used for the different kinds of uploaded objects.
const (
	PrefixBooks  = "books"
	PrefixCovers = "covers"
	PrefixSlips  = "slips"
)

const (
	// attrsSuffix is reserved by fileblob for its attribute sidecars.
	attrsSuffix        = ".attrs"
	defaultContentType = "application/octet-stream"
)

var ErrInvalidKey = errors.New("invalid object key")

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Key         string
	Size        int64
	ContentType string
	ModTime     time.Time
}

// Store is the object storage used for uploaded files.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) (ObjectInfo, error)
	Open(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	Stat(ctx context.Context, key string) (ObjectInfo, error)
	Delete(ctx context.Context, key string) error
}

// SanitizeFilename keeps the base name and replaces characters outside [a-zA-Z0-9.-] with underscores.
func SanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	if name == "." || name == "/" || name == "" {
		return "file"
	}
	return unsafeNameChars.ReplaceAllString(name, "_")
}

// NewKey builds "<prefix>/<unixMillis>-<sanitized name>".
func NewKey(prefix, filename string, now time.Time) string {
	return prefix + "/" + strconv.FormatInt(now.UnixMilli(), 10) + "-" + SanitizeFilename(filename)
}

// ValidateKey rejects keys that could escape the storage root.
func ValidateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, `\`) {
		return ErrInvalidKey
	}
	for _, part := range strings.Split(key, "/") {
		if part == "" || part == "." || part == ".." {
			return ErrInvalidKey
		}
	}
	if strings.HasSuffix(key, attrsSuffix) {
		return ErrInvalidKey
	}
	return nil
}

// BucketStore keeps objects in a gocloud bucket.
type BucketStore struct {
	bucket *gcblob.Bucket
	logger *slog.Logger
}

// NewBucketStore wraps an already opened bucket. Close closes it.
func NewBucketStore(bucket *gcblob.Bucket, logger *slog.Logger) *BucketStore {
	return &BucketStore{bucket: bucket, logger: logger}
}

// OpenDir opens a fileblob bucket rooted at dir, creating it if needed.
func OpenDir(dir string, logger *slog.Logger) (*BucketStore, error) {
	bucket, err := fileblob.OpenBucket(dir, &fileblob.Options{CreateDir: true, NoTempDir: true})
	if err != nil {
		return nil, fmt.Errorf("open uploads dir: %w", err)
	}
	return NewBucketStore(bucket, logger), nil
}

// OpenURL opens the bucket at url through the drivers registered with gocloud.dev/blob.
func OpenURL(ctx context.Context, url string, logger *slog.Logger) (*BucketStore, error) {
	bucket, err := gcblob.OpenBucket(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("open uploads bucket: %w", err)
	}
	return NewBucketStore(bucket, logger), nil
}

// Put streams r into the object. A failed copy aborts the write and leaves no object behind.
func (s *BucketStore) Put(ctx context.Context, key string, r io.Reader, contentType string) (ObjectInfo, error) {
	if err := ValidateKey(key); err != nil {
		return ObjectInfo{}, err
	}
	if err := ctx.Err(); err != nil {
		return ObjectInfo{}, err
	}
	if contentType == "" {
		contentType = defaultContentType
	}

	wctx, abort := context.WithCancel(ctx)
	defer abort()

	w, err := s.bucket.NewWriter(wctx, key, &gcblob.WriterOptions{ContentType: contentType})
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("create object writer: %w", err)
	}
	size, err := io.Copy(w, r)
	if err != nil {
		abort()
		_ = w.Close()
		return ObjectInfo{}, fmt.Errorf("write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return ObjectInfo{}, fmt.Errorf("commit object: %w", err)
	}

	s.logger.Debug("object stored", slog.String("key", key), slog.Int64("size", size))
	return ObjectInfo{Key: key, Size: size, ContentType: contentType, ModTime: time.Now()}, nil
}

func (s *BucketStore) Open(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	if err := ValidateKey(key); err != nil {
		return nil, ObjectInfo{}, err
	}
	r, err := s.bucket.NewReader(ctx, key, nil)
	if err != nil {
		return nil, ObjectInfo{}, notFound(err)
	}
	info := ObjectInfo{Key: key, Size: r.Size(), ContentType: contentTypeOr(r.ContentType()), ModTime: r.ModTime()}
	return r, info, nil
}

func (s *BucketStore) Stat(ctx context.Context, key string) (ObjectInfo, error) {
	if err := ValidateKey(key); err != nil {
		return ObjectInfo{}, err
	}
	attrs, err := s.bucket.Attributes(ctx, key)
	if err != nil {
		return ObjectInfo{}, notFound(err)
	}
	return ObjectInfo{Key: key, Size: attrs.Size, ContentType: contentTypeOr(attrs.ContentType), ModTime: attrs.ModTime}, nil
}

// Delete removes the object; deleting a missing object is not an error.
func (s *BucketStore) Delete(ctx context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if err := s.bucket.Delete(ctx, key); err != nil && gcerrors.Code(err) != gcerrors.NotFound {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

// Close releases the underlying bucket.
func (s *BucketStore) Close() error {
	return s.bucket.Close()
}

func contentTypeOr(ct string) string {
	if ct == "" {
		return defaultContentType
	}
	return ct
}

func notFound(err error) error {
	if gcerrors.Code(err) == gcerrors.NotFound {
		return domainErrors.ErrNotFound
	}
	return err
}
