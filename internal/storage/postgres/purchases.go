package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/padudon-bit/IndieBook-project/internal/domain/model"
)

type purchaseRepository struct {
	storage *Storage
}

// ListByEmail returns granted books that still exist in the catalog, newest grant first.
func (r *purchaseRepository) ListByEmail(ctx context.Context, email string) ([]model.PurchasedBook, error) {
	const query = `SELECT b.id, b.title, b.author, b.description, b.price::text, b.category, b.file_key, b.cover_key,
                          b.uploaded_at, b.created_at, b.updated_at, pb.order_id, pb.purchased_at
                   FROM purchased_books pb
                   JOIN books b ON b.id = pb.book_id
                   WHERE pb.customer_email=$1
                   ORDER BY pb.purchased_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.PurchasedBook
	for rows.Next() {
		var (
			p     model.PurchasedBook
			price string
		)
		b := &p.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Description, &price, &b.Category, &b.FileKey, &b.CoverKey,
			&b.UploadedAt, &b.CreatedAt, &b.UpdatedAt, &p.OrderID, &p.PurchasedAt); err != nil {
			return nil, err
		}
		if b.Price, err = parseMoney(price); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *purchaseRepository) HasGrant(ctx context.Context, email string, bookID uuid.UUID) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM purchased_books WHERE customer_email=$1 AND book_id=$2)`
	var ok bool
	if err := r.storage.pool.QueryRow(ctx, query, email, bookID).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}
