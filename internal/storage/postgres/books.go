package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	domainErrors "github.com/padudon-bit/IndieBook-project/internal/domain/errors"
	"github.com/padudon-bit/IndieBook-project/internal/domain/model"
)

type bookRepository struct {
	storage *Storage
}

const bookColumns = `id, title, author, description, price::text, category, file_key, cover_key, uploaded_at, created_at, updated_at`

func scanBook(row rowScanner) (*model.Book, error) {
	var (
		b     model.Book
		price string
	)
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.Description, &price, &b.Category, &b.FileKey, &b.CoverKey, &b.UploadedAt, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	if b.Price, err = parseMoney(price); err != nil {
		return nil, err
	}
	return &b, nil
}

func collectBooks(rows pgx.Rows) ([]model.Book, error) {
	defer rows.Close()

	var result []model.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *bookRepository) Create(ctx context.Context, book model.NewBook) (*model.Book, error) {
	const query = `INSERT INTO books (id, title, author, description, price, category, file_key, cover_key)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
                   RETURNING uploaded_at, created_at, updated_at`
	b := model.Book{
		ID:          uuid.New(),
		Title:       book.Title,
		Author:      book.Author,
		Description: book.Description,
		Price:       book.Price,
		Category:    book.Category,
		FileKey:     book.FileKey,
		CoverKey:    book.CoverKey,
	}
	err := r.storage.pool.QueryRow(ctx, query, b.ID, b.Title, b.Author, b.Description, moneyArg(b.Price), b.Category, b.FileKey, b.CoverKey).
		Scan(&b.UploadedAt, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	const query = `SELECT ` + bookColumns + ` FROM books WHERE id=$1`
	return scanBook(r.storage.pool.QueryRow(ctx, query, id))
}

func (r *bookRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Book, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	const query = `SELECT ` + bookColumns + ` FROM books WHERE id = ANY($1)`
	rows, err := r.storage.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	return collectBooks(rows)
}

func (r *bookRepository) List(ctx context.Context) ([]model.Book, error) {
	const query = `SELECT ` + bookColumns + ` FROM books ORDER BY uploaded_at DESC, created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return collectBooks(rows)
}

func (r *bookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.storage.pool.Exec(ctx, `DELETE FROM books WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}
