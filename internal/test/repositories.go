package test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/padudon-bit/IndieBook-project/internal/domain/errors"
	"github.com/padudon-bit/IndieBook-project/internal/domain/model"
	"github.com/padudon-bit/IndieBook-project/internal/domain/repository"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	Users map[string]*model.User
	ByID  map[int64]*model.User
	Next  int64
	Err   error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		Users: make(map[string]*model.User),
		ByID:  make(map[int64]*model.User),
		Next:  1,
	}
}

// Create registers user unless already exists or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, email, passwordHash, name string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if _, exists := s.Users[email]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	user := &model.User{ID: s.Next, Email: email, PasswordHash: passwordHash, Name: name, CreatedAt: time.Now()}
	s.Next++
	s.Users[email] = user
	s.ByID[user.ID] = user
	return user, nil
}

// GetByEmail fetches user by email or returns not found.
func (s *UserRepositoryStub) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.Users[email]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// UpdateProfile changes stored name and avatar.
func (s *UserRepositoryStub) UpdateProfile(ctx context.Context, id int64, name, avatar string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	user, ok := s.ByID[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	user.Name = name
	user.Avatar = avatar
	return user, nil
}

// BookRepositoryStub keeps the catalog in memory.
type BookRepositoryStub struct {
	mu        sync.Mutex
	Books     map[uuid.UUID]model.Book
	Err       error
	ListCalls int
	clock     time.Time
}

// NewBookRepositoryStub constructs an empty catalog.
func NewBookRepositoryStub() *BookRepositoryStub {
	return &BookRepositoryStub{Books: make(map[uuid.UUID]model.Book), clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// Seed inserts a book as-is and returns it.
func (s *BookRepositoryStub) Seed(b model.Book) model.Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.UploadedAt.IsZero() {
		s.clock = s.clock.Add(time.Minute)
		b.UploadedAt, b.CreatedAt, b.UpdatedAt = s.clock, s.clock, s.clock
	}
	s.Books[b.ID] = b
	return b
}

// Create stores a new book with increasing timestamps.
func (s *BookRepositoryStub) Create(ctx context.Context, in model.NewBook) (*model.Book, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	b := s.Seed(model.Book{
		Title:       in.Title,
		Author:      in.Author,
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		FileKey:     in.FileKey,
		CoverKey:    in.CoverKey,
	})
	return &b, nil
}

// GetByID returns a stored book.
func (s *BookRepositoryStub) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.Books[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &b, nil
}

// GetByIDs returns the subset of ids that exist.
func (s *BookRepositoryStub) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Book, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Book
	for _, id := range ids {
		if b, ok := s.Books[id]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

// List returns books newest upload first.
func (s *BookRepositoryStub) List(ctx context.Context) ([]model.Book, error) {
	s.mu.Lock()
	s.ListCalls++
	s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Book, 0, len(s.Books))
	for _, b := range s.Books {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UploadedAt.After(out[j].UploadedAt) })
	return out, nil
}

// Delete removes a book.
func (s *BookRepositoryStub) Delete(ctx context.Context, id uuid.UUID) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.Books[id]; !ok {
		return domainErrors.ErrNotFound
	}
	delete(s.Books, id)
	return nil
}

// OrderRepositoryStub mirrors the transactional order store in memory, including grants.
type OrderRepositoryStub struct {
	mu         sync.Mutex
	Orders     map[uuid.UUID]*model.Order
	OrderItems map[uuid.UUID][]model.OrderItem
	Grants     []model.PurchasedGrant
	Books      *BookRepositoryStub

	CreateErr   error
	ApproveErr  error
	Err         error
	CreateCalls int
	clock       time.Time
}

// NewOrderRepositoryStub constructs an empty order store joined to books.
func NewOrderRepositoryStub(books *BookRepositoryStub) *OrderRepositoryStub {
	return &OrderRepositoryStub{
		Orders:     make(map[uuid.UUID]*model.Order),
		OrderItems: make(map[uuid.UUID][]model.OrderItem),
		Books:      books,
		clock:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (s *OrderRepositoryStub) tick() time.Time {
	s.clock = s.clock.Add(time.Minute)
	return s.clock
}

// Create stores order and items together.
func (s *OrderRepositoryStub) Create(ctx context.Context, in model.NewOrder) (*model.Order, []model.OrderItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CreateCalls++
	if s.CreateErr != nil {
		return nil, nil, s.CreateErr
	}
	now := s.tick()
	order := &model.Order{
		ID:          uuid.New(),
		Buyer:       in.Buyer,
		TotalAmount: in.TotalAmount,
		SlipKey:     in.SlipKey,
		Status:      model.OrderStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	items := make([]model.OrderItem, 0, len(in.Items))
	for i, line := range in.Items {
		items = append(items, model.OrderItem{ID: uuid.New(), OrderID: order.ID, BookID: line.BookID, Price: line.Price, Position: i, CreatedAt: now})
	}
	s.Orders[order.ID] = order
	s.OrderItems[order.ID] = items
	cp := *order
	return &cp, append([]model.OrderItem(nil), items...), nil
}

// GetByID returns a copy of the order.
func (s *OrderRepositoryStub) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.Orders[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (s *OrderRepositoryStub) list(match func(*model.Order) bool) []model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Order{}
	for _, o := range s.Orders {
		if match(o) {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// List returns all orders newest first.
func (s *OrderRepositoryStub) List(ctx context.Context) ([]model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.list(func(*model.Order) bool { return true }), nil
}

// ListByEmail returns orders of one buyer newest first.
func (s *OrderRepositoryStub) ListByEmail(ctx context.Context, email string) ([]model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.list(func(o *model.Order) bool { return o.Buyer.Email == email }), nil
}

// Items joins order items with books that still exist.
func (s *OrderRepositoryStub) Items(ctx context.Context, orderID uuid.UUID) ([]model.OrderItemDetail, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	items := append([]model.OrderItem(nil), s.OrderItems[orderID]...)
	s.mu.Unlock()

	out := make([]model.OrderItemDetail, 0, len(items))
	for _, item := range items {
		d := model.OrderItemDetail{OrderItem: item}
		if s.Books != nil {
			if b, err := s.Books.GetByID(ctx, item.BookID); err == nil {
				price := b.Price
				d.Title, d.Author, d.CoverKey, d.BookPrice = b.Title, b.Author, b.CoverKey, &price
			}
		}
		out = append(out, d)
	}
	return out, nil
}

func (s *OrderRepositoryStub) transition(id uuid.UUID, to model.OrderStatus, reason *string) (*model.Order, error) {
	o, ok := s.Orders[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	if o.Status != model.OrderStatusPending {
		return nil, domainErrors.ErrConflict
	}
	o.Status = to
	o.RejectionReason = reason
	o.UpdatedAt = s.tick()
	return o, nil
}

// Approve flips a pending order and adds one grant per item.
func (s *OrderRepositoryStub) Approve(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ApproveErr != nil {
		return nil, s.ApproveErr
	}
	o, err := s.transition(id, model.OrderStatusApproved, nil)
	if err != nil {
		return nil, err
	}
	for _, item := range s.OrderItems[id] {
		s.Grants = append(s.Grants, model.PurchasedGrant{
			ID:            uuid.New(),
			CustomerEmail: o.Buyer.Email,
			BookID:        item.BookID,
			OrderID:       id,
			PurchasedAt:   o.UpdatedAt,
		})
	}
	cp := *o
	return &cp, nil
}

// Reject flips a pending order to rejected.
func (s *OrderRepositoryStub) Reject(ctx context.Context, id uuid.UUID, reason string) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, err := s.transition(id, model.OrderStatusRejected, &reason)
	if err != nil {
		return nil, err
	}
	cp := *o
	return &cp, nil
}

// GrantCount returns the number of grants recorded so far.
func (s *OrderRepositoryStub) GrantCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Grants)
}

// PurchaseRepositoryStub reads grants recorded by OrderRepositoryStub.
type PurchaseRepositoryStub struct {
	Orders *OrderRepositoryStub
	Books  *BookRepositoryStub
	Err    error
}

// ListByEmail joins grants with existing books, newest grant first.
func (s *PurchaseRepositoryStub) ListByEmail(ctx context.Context, email string) ([]model.PurchasedBook, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.Orders.mu.Lock()
	grants := append([]model.PurchasedGrant(nil), s.Orders.Grants...)
	s.Orders.mu.Unlock()

	out := []model.PurchasedBook{}
	for _, g := range grants {
		if g.CustomerEmail != email {
			continue
		}
		b, err := s.Books.GetByID(ctx, g.BookID)
		if err != nil {
			continue
		}
		out = append(out, model.PurchasedBook{Book: *b, OrderID: g.OrderID, PurchasedAt: g.PurchasedAt})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PurchasedAt.After(out[j].PurchasedAt) })
	return out, nil
}

// HasGrant reports whether any grant links email to book.
func (s *PurchaseRepositoryStub) HasGrant(ctx context.Context, email string, bookID uuid.UUID) (bool, error) {
	if s.Err != nil {
		return false, s.Err
	}
	s.Orders.mu.Lock()
	defer s.Orders.mu.Unlock()
	for _, g := range s.Orders.Grants {
		if g.CustomerEmail == email && g.BookID == bookID {
			return true, nil
		}
	}
	return false, nil
}

// MemoryStore bundles the in-memory repositories.
type MemoryStore struct {
	UserRepo     *UserRepositoryStub
	BookRepo     *BookRepositoryStub
	OrderRepo    *OrderRepositoryStub
	PurchaseRepo *PurchaseRepositoryStub
}

// NewMemoryStore wires the in-memory repositories together.
func NewMemoryStore() *MemoryStore {
	books := NewBookRepositoryStub()
	orders := NewOrderRepositoryStub(books)
	return &MemoryStore{
		UserRepo:     NewUserRepositoryStub(),
		BookRepo:     books,
		OrderRepo:    orders,
		PurchaseRepo: &PurchaseRepositoryStub{Orders: orders, Books: books},
	}
}

func (m *MemoryStore) Users() repository.UserRepository         { return m.UserRepo }
func (m *MemoryStore) Books() repository.BookRepository         { return m.BookRepo }
func (m *MemoryStore) Orders() repository.OrderRepository       { return m.OrderRepo }
func (m *MemoryStore) Purchases() repository.PurchaseRepository { return m.PurchaseRepo }

var _ repository.Factory = (*MemoryStore)(nil)
