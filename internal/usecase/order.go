package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/padudon-bit/IndieBook-project/internal/adapter/events"
	"github.com/padudon-bit/IndieBook-project/internal/cart"
	domainErrors "github.com/padudon-bit/IndieBook-project/internal/domain/errors"
	"github.com/padudon-bit/IndieBook-project/internal/domain/model"
	"github.com/padudon-bit/IndieBook-project/internal/domain/repository"
	"github.com/padudon-bit/IndieBook-project/internal/storage/blob"
)

// CheckoutRequest is what a buyer submits from the checkout page.
type CheckoutRequest struct {
	Buyer model.Buyer
	Total decimal.Decimal
	Slip  Upload
}

// OrderUseCase encapsulates the order approval workflow.
type OrderUseCase struct {
	orders    repository.OrderRepository
	books     repository.BookRepository
	blobs     blob.Store
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository, books repository.BookRepository, blobs blob.Store, publisher events.Publisher, logger *slog.Logger) *OrderUseCase {
	return &OrderUseCase{
		orders:    orders,
		books:     books,
		blobs:     blobs,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// CreateOrder validates and persists an order with its items in one unit.
func (u *OrderUseCase) CreateOrder(ctx context.Context, in model.NewOrder) (*model.Order, []model.OrderItem, error) {
	buyer, err := normalizeBuyer(in.Buyer)
	if err != nil {
		return nil, nil, err
	}
	in.Buyer = buyer

	if len(in.Items) == 0 {
		return nil, nil, domainErrors.Invalid("items", "order must contain at least one book")
	}

	seen := make(map[uuid.UUID]struct{}, len(in.Items))
	sum := decimal.Zero
	for _, item := range in.Items {
		if item.BookID == uuid.Nil {
			return nil, nil, domainErrors.Invalid("items", "book id is required")
		}
		if _, dup := seen[item.BookID]; dup {
			return nil, nil, domainErrors.Invalid("items", "each book may appear only once")
		}
		seen[item.BookID] = struct{}{}
		if err := positivePrice("items", item.Price); err != nil {
			return nil, nil, err
		}
		sum = sum.Add(item.Price)
	}

	if !in.TotalAmount.Equal(sum) {
		return nil, nil, domainErrors.Invalid("total", "total does not match the sum of item prices")
	}
	if err := required("slip", in.SlipKey); err != nil {
		return nil, nil, err
	}

	order, items, err := u.orders.Create(ctx, in)
	if err != nil {
		return nil, nil, err
	}

	bookIDs := make([]string, 0, len(items))
	for _, item := range items {
		bookIDs = append(bookIDs, item.BookID.String())
	}
	publishOrderEvent(ctx, u.publisher, u.logger, events.OrderCreated, order, bookIDs, u.now())
	u.logger.Info("order created", slog.String("order_id", order.ID.String()), slog.Int("items", len(items)))
	return order, items, nil
}

// BuildCart fills a fresh cart from catalog records so prices come from the server.
func (u *OrderUseCase) BuildCart(ctx context.Context, ids []uuid.UUID) (*cart.Cart, error) {
	if len(ids) == 0 {
		return nil, domainErrors.Invalid("items", "cart is empty")
	}
	books, err := u.books.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]model.Book, len(books))
	for _, b := range books {
		byID[b.ID] = b
	}

	c := cart.New()
	for _, id := range ids {
		b, ok := byID[id]
		if !ok {
			return nil, domainErrors.Invalid("items", "book "+id.String()+" is no longer available")
		}
		if err := c.Add(b); err != nil {
			if errors.Is(err, domainErrors.ErrDuplicateCartItem) {
				return nil, domainErrors.Invalid("items", "each book may appear only once")
			}
			return nil, err
		}
	}
	return c, nil
}

// Checkout stores the payment slip, places the order for the cart contents and clears the cart once on success.
func (u *OrderUseCase) Checkout(ctx context.Context, req CheckoutRequest, c *cart.Cart) (*model.Order, error) {
	if c == nil || c.Len() == 0 {
		return nil, domainErrors.Invalid("items", "cart is empty")
	}
	buyer, err := normalizeBuyer(req.Buyer)
	if err != nil {
		return nil, err
	}
	if !req.Total.Equal(c.Total()) {
		return nil, domainErrors.Invalid("total", "total does not match the cart")
	}
	mime, body, err := checkImage("slip", req.Slip)
	if err != nil {
		return nil, err
	}

	key := blob.NewKey(blob.PrefixSlips, req.Slip.Filename, u.now())
	if _, err := u.blobs.Put(ctx, key, body, mime); err != nil {
		return nil, err
	}

	order, _, err := u.CreateOrder(ctx, model.NewOrder{
		Buyer:       buyer,
		TotalAmount: c.Total(),
		SlipKey:     key,
		Items:       c.LineItems(),
	})
	if err != nil {
		if delErr := u.blobs.Delete(context.WithoutCancel(ctx), key); delErr != nil {
			u.logger.Warn("orphaned payment slip", slog.String("key", key), slog.Any("error", delErr))
		}
		return nil, err
	}

	c.Clear()
	return order, nil
}

// OrdersForBuyer lists the buyer's own orders, newest first.
func (u *OrderUseCase) OrdersForBuyer(ctx context.Context, email string) ([]model.Order, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, domainErrors.ErrUnauthorized
	}
	return u.orders.ListByEmail(ctx, email)
}

// ListOrders returns every order for the admin console.
func (u *OrderUseCase) ListOrders(ctx context.Context, session AdminSession) ([]model.Order, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	return u.orders.List(ctx)
}

// GetOrder returns one order for review.
func (u *OrderUseCase) GetOrder(ctx context.Context, session AdminSession, id uuid.UUID) (*model.Order, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	return u.orders.GetByID(ctx, id)
}

// OrderItems returns the order lines joined with whatever is left of their books.
func (u *OrderUseCase) OrderItems(ctx context.Context, session AdminSession, id uuid.UUID) ([]model.OrderItemDetail, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	if _, err := u.orders.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return u.orders.Items(ctx, id)
}

// OrderSlip opens the payment proof attached to an order.
func (u *OrderUseCase) OrderSlip(ctx context.Context, session AdminSession, id uuid.UUID) (io.ReadCloser, blob.ObjectInfo, error) {
	if err := requireAdmin(session); err != nil {
		return nil, blob.ObjectInfo{}, err
	}
	order, err := u.orders.GetByID(ctx, id)
	if err != nil {
		return nil, blob.ObjectInfo{}, err
	}
	return u.blobs.Open(ctx, order.SlipKey)
}

// ApproveOrder approves a pending order and grants access to every purchased book.
func (u *OrderUseCase) ApproveOrder(ctx context.Context, session AdminSession, id uuid.UUID) (*model.Order, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	order, err := u.orders.Approve(ctx, id)
	if err != nil {
		return nil, err
	}
	publishOrderEvent(ctx, u.publisher, u.logger, events.OrderApproved, order, nil, u.now())
	u.logger.Info("order approved", slog.String("order_id", id.String()), slog.String("admin", session.Username()))
	return order, nil
}

// RejectOrder rejects a pending order. The reason is stored as given but must not be blank.
func (u *OrderUseCase) RejectOrder(ctx context.Context, session AdminSession, id uuid.UUID, reason string) (*model.Order, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	if strings.TrimSpace(reason) == "" {
		return nil, domainErrors.Invalid("reason", "rejection reason is required")
	}
	order, err := u.orders.Reject(ctx, id, reason)
	if err != nil {
		return nil, err
	}
	publishOrderEvent(ctx, u.publisher, u.logger, events.OrderRejected, order, nil, u.now())
	u.logger.Info("order rejected", slog.String("order_id", id.String()), slog.String("admin", session.Username()))
	return order, nil
}
