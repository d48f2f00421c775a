package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/padudon-bit/IndieBook-project/internal/domain/errors"
	"github.com/padudon-bit/IndieBook-project/internal/domain/model"
)

type userRepository struct {
	storage *Storage
}

const userColumns = `id, email, password_hash, name, avatar, created_at`

func scanUser(row rowScanner) (*model.User, error) {
	var u model.User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Avatar, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) Create(ctx context.Context, email, passwordHash, name string) (*model.User, error) {
	const query = `INSERT INTO users (email, password_hash, name) VALUES ($1, $2, $3) RETURNING id, created_at`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, email, passwordHash, name).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	u.Email = email
	u.PasswordHash = passwordHash
	u.Name = name
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email=$1`
	return scanUser(r.storage.pool.QueryRow(ctx, query, email))
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return scanUser(r.storage.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) UpdateProfile(ctx context.Context, id int64, name, avatar string) (*model.User, error) {
	const query = `UPDATE users SET name=$1, avatar=$2 WHERE id=$3 RETURNING ` + userColumns
	return scanUser(r.storage.pool.QueryRow(ctx, query, name, avatar, id))
}
