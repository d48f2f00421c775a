package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	domainErrors "github.com/padudon-bit/IndieBook-project/internal/domain/errors"
	"github.com/padudon-bit/IndieBook-project/internal/domain/model"
)

type orderRepository struct {
	storage *Storage
}

const orderColumns = `id, customer_name, customer_email, customer_phone, total_amount::text, slip_key, status, rejection_reason, created_at, updated_at`

func scanOrder(row rowScanner) (*model.Order, error) {
	var (
		o     model.Order
		total string
	)
	err := row.Scan(&o.ID, &o.Buyer.Name, &o.Buyer.Email, &o.Buyer.Phone, &total, &o.SlipKey, &o.Status, &o.RejectionReason, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	if o.TotalAmount, err = parseMoney(total); err != nil {
		return nil, err
	}
	return &o, nil
}

func collectOrders(rows pgx.Rows) ([]model.Order, error) {
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) Create(ctx context.Context, in model.NewOrder) (*model.Order, []model.OrderItem, error) {
	const insertOrder = `INSERT INTO orders (id, customer_name, customer_email, customer_phone, total_amount, slip_key, status)
                         VALUES ($1, $2, $3, $4, $5, $6, $7)
                         RETURNING created_at, updated_at`
	const insertItem = `INSERT INTO order_items (id, order_id, book_id, price, position) VALUES ($1, $2, $3, $4, $5) RETURNING created_at`

	order := model.Order{
		ID:          uuid.New(),
		Buyer:       in.Buyer,
		TotalAmount: in.TotalAmount,
		SlipKey:     in.SlipKey,
		Status:      model.OrderStatusPending,
	}
	items := make([]model.OrderItem, 0, len(in.Items))

	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, insertOrder, order.ID, order.Buyer.Name, order.Buyer.Email, order.Buyer.Phone,
			moneyArg(order.TotalAmount), order.SlipKey, order.Status).Scan(&order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			return err
		}

		for i, line := range in.Items {
			item := model.OrderItem{ID: uuid.New(), OrderID: order.ID, BookID: line.BookID, Price: line.Price, Position: i}
			if err := tx.QueryRow(ctx, insertItem, item.ID, item.OrderID, item.BookID, moneyArg(item.Price), item.Position).Scan(&item.CreatedAt); err != nil {
				return err
			}
			items = append(items, item)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &order, items, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	return scanOrder(r.storage.pool.QueryRow(ctx, query, id))
}

func (r *orderRepository) List(ctx context.Context) ([]model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

func (r *orderRepository) ListByEmail(ctx context.Context, email string) ([]model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE customer_email=$1 ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, email)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

func (r *orderRepository) Items(ctx context.Context, orderID uuid.UUID) ([]model.OrderItemDetail, error) {
	const query = `SELECT oi.id, oi.order_id, oi.book_id, oi.price::text, oi.created_at,
                          b.title, b.author, b.price::text, b.cover_key
                   FROM order_items oi
                   LEFT JOIN books b ON b.id = oi.book_id
                   WHERE oi.order_id=$1
                   ORDER BY oi.position, oi.id`
	rows, err := r.storage.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.OrderItemDetail
	for rows.Next() {
		var (
			d                    model.OrderItemDetail
			price                string
			title, author, cover *string
			bookPrice            *string
		)
		if err := rows.Scan(&d.ID, &d.OrderID, &d.BookID, &price, &d.CreatedAt, &title, &author, &bookPrice, &cover); err != nil {
			return nil, err
		}
		if d.Price, err = parseMoney(price); err != nil {
			return nil, err
		}
		if d.BookPrice, err = parseOptionalMoney(bookPrice); err != nil {
			return nil, err
		}
		d.Title = deref(title)
		d.Author = deref(author)
		d.CoverKey = deref(cover)
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Approve flips a pending order to approved and inserts one grant per item in the same transaction.
func (r *orderRepository) Approve(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	const approve = `UPDATE orders SET status='approved', rejection_reason=NULL, updated_at=NOW()
                     WHERE id=$1 AND status='pending'
                     RETURNING ` + orderColumns
	const grant = `INSERT INTO purchased_books (id, customer_email, book_id, order_id)
                   SELECT gen_random_uuid(), $1, book_id, order_id FROM order_items WHERE order_id=$2
                   ON CONFLICT (customer_email, book_id, order_id) DO NOTHING`

	var order *model.Order
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		o, err := transition(ctx, tx, approve, id)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, grant, o.Buyer.Email, o.ID); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) Reject(ctx context.Context, id uuid.UUID, reason string) (*model.Order, error) {
	const reject = `UPDATE orders SET status='rejected', rejection_reason=$2, updated_at=NOW()
                    WHERE id=$1 AND status='pending'
                    RETURNING ` + orderColumns

	var order *model.Order
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		o, err := transition(ctx, tx, reject, id, reason)
		if err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// transition runs a conditional status update and tells a missing order apart from a decided one.
func transition(ctx context.Context, q querier, query string, id uuid.UUID, args ...any) (*model.Order, error) {
	o, err := scanOrder(q.QueryRow(ctx, query, append([]any{id}, args...)...))
	if err == nil {
		return o, nil
	}
	if !errors.Is(err, domainErrors.ErrNotFound) {
		return nil, err
	}

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM orders WHERE id=$1)`, id).Scan(&exists); err != nil {
		return nil, err
	}
	if exists {
		return nil, domainErrors.ErrConflict
	}
	return nil, domainErrors.ErrNotFound
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
