package test

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"github.com/padudon-bit/IndieBook-project/internal/adapter/events"
	domainErrors "github.com/padudon-bit/IndieBook-project/internal/domain/errors"
	"github.com/padudon-bit/IndieBook-project/internal/storage/blob"
	"github.com/padudon-bit/IndieBook-project/internal/storage/cache"
)

// BlobStoreStub keeps objects in memory.
type BlobStoreStub struct {
	mu      sync.Mutex
	Objects map[string][]byte
	Types   map[string]string
	PutErr  error
	Deleted []string
}

// NewBlobStoreStub constructs an empty object store.
func NewBlobStoreStub() *BlobStoreStub {
	return &BlobStoreStub{Objects: make(map[string][]byte), Types: make(map[string]string)}
}

// Seed stores body under key without validation.
func (s *BlobStoreStub) Seed(key string, body []byte, contentType string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Objects[key] = body
	s.Types[key] = contentType
}

// Has reports whether key is stored.
func (s *BlobStoreStub) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.Objects[key]
	return ok
}

// Put reads r fully and stores it under key.
func (s *BlobStoreStub) Put(ctx context.Context, key string, r io.Reader, contentType string) (blob.ObjectInfo, error) {
	if s.PutErr != nil {
		return blob.ObjectInfo{}, s.PutErr
	}
	if err := blob.ValidateKey(key); err != nil {
		return blob.ObjectInfo{}, err
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return blob.ObjectInfo{}, err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	s.Seed(key, body, contentType)
	return blob.ObjectInfo{Key: key, Size: int64(len(body)), ContentType: contentType, ModTime: time.Now()}, nil
}

// Open returns a reader over the stored body.
func (s *BlobStoreStub) Open(ctx context.Context, key string) (io.ReadCloser, blob.ObjectInfo, error) {
	info, err := s.Stat(ctx, key)
	if err != nil {
		return nil, blob.ObjectInfo{}, err
	}
	s.mu.Lock()
	body := s.Objects[key]
	s.mu.Unlock()
	return io.NopCloser(bytes.NewReader(body)), info, nil
}

// Stat describes a stored object.
func (s *BlobStoreStub) Stat(ctx context.Context, key string) (blob.ObjectInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	body, ok := s.Objects[key]
	if !ok {
		return blob.ObjectInfo{}, domainErrors.ErrNotFound
	}
	return blob.ObjectInfo{Key: key, Size: int64(len(body)), ContentType: s.Types[key]}, nil
}

// Delete removes key and records the call.
func (s *BlobStoreStub) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Objects, key)
	delete(s.Types, key)
	s.Deleted = append(s.Deleted, key)
	return nil
}

// CacheStub is an in-memory cache ignoring ttl.
type CacheStub struct {
	mu      sync.Mutex
	Values  map[string][]byte
	GetErr  error
	SetErr  error
	Hits    int
	Deletes int
}

// NewCacheStub constructs an empty cache.
func NewCacheStub() *CacheStub {
	return &CacheStub{Values: make(map[string][]byte)}
}

func (c *CacheStub) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.GetErr != nil {
		return nil, false, c.GetErr
	}
	v, ok := c.Values[key]
	if ok {
		c.Hits++
	}
	return v, ok, nil
}

func (c *CacheStub) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.SetErr != nil {
		return c.SetErr
	}
	c.Values[key] = value
	return nil
}

func (c *CacheStub) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Deletes++
	delete(c.Values, key)
	return nil
}

// PublisherStub records published events.
type PublisherStub struct {
	mu     sync.Mutex
	Events []events.OrderEvent
	Err    error
}

func (p *PublisherStub) Publish(ctx context.Context, event events.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.Events = append(p.Events, event)
	return nil
}

// Types returns the recorded event types in order.
func (p *PublisherStub) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.Events))
	for _, e := range p.Events {
		out = append(out, e.Type)
	}
	return out
}

var (
	_ blob.Store       = (*BlobStoreStub)(nil)
	_ cache.Cache      = (*CacheStub)(nil)
	_ events.Publisher = (*PublisherStub)(nil)
)
