package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/padudon-bit/IndieBook-project/internal/config"
	domainErrors "github.com/padudon-bit/IndieBook-project/internal/domain/errors"
	pkgAuth "github.com/padudon-bit/IndieBook-project/internal/pkg/auth"
)

// AdminSession proves the caller passed the admin login.
// Only AdminUseCase can mint a non-zero value.
type AdminSession struct {
	username string
}

// Username returns the admin login the session was issued for.
func (s AdminSession) Username() string {
	return s.username
}

// Valid reports whether the session was issued by AdminUseCase.
func (s AdminSession) Valid() bool {
	return s.username != ""
}

func requireAdmin(s AdminSession) error {
	if !s.Valid() {
		return domainErrors.ErrForbidden
	}
	return nil
}

// AdminUseCase authenticates the single back-office operator.
type AdminUseCase struct {
	username     string
	passwordHash string
	hasher       pkgAuth.PasswordHasher
	tokens       pkgAuth.Strategy
}

// NewAdminUseCase resolves admin credentials from configuration, hashing a plain password if no hash is configured.
func NewAdminUseCase(cfg *config.Config, hasher pkgAuth.PasswordHasher, tokens pkgAuth.Strategy) (*AdminUseCase, error) {
	username := strings.TrimSpace(cfg.AdminUsername)
	if username == "" {
		return nil, fmt.Errorf("admin username must not be empty")
	}

	hash := cfg.AdminPasswordHash
	switch {
	case hash != "":
		if !pkgAuth.IsHash(hash) {
			return nil, fmt.Errorf("admin password hash is not a bcrypt hash")
		}
	case cfg.AdminPassword != "":
		var err error
		if hash, err = hasher.Hash(cfg.AdminPassword); err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
	default:
		return nil, fmt.Errorf("admin password is not configured")
	}

	return &AdminUseCase{username: username, passwordHash: hash, hasher: hasher, tokens: tokens}, nil
}

// Login checks admin credentials and issues an admin token.
func (u *AdminUseCase) Login(ctx context.Context, username, password string) (string, AdminSession, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", AdminSession{}, domainErrors.ErrInvalidCredentials
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(u.username)) == 1
	passErr := u.hasher.Compare(u.passwordHash, password)
	if !userOK || passErr != nil {
		return "", AdminSession{}, domainErrors.ErrInvalidCredentials
	}

	token, err := u.tokens.IssueToken(pkgAuth.Principal{Name: u.username, Role: pkgAuth.RoleAdmin})
	if err != nil {
		return "", AdminSession{}, err
	}
	return token, AdminSession{username: u.username}, nil
}

// Session verifies an admin token.
func (u *AdminUseCase) Session(token string) (AdminSession, error) {
	if token == "" {
		return AdminSession{}, domainErrors.ErrUnauthorized
	}
	p, err := u.tokens.ParseToken(token)
	if err != nil {
		if errors.Is(err, pkgAuth.ErrInvalidToken) {
			return AdminSession{}, domainErrors.ErrUnauthorized
		}
		return AdminSession{}, err
	}
	if !p.IsAdmin() || p.Name != u.username {
		return AdminSession{}, domainErrors.ErrForbidden
	}
	return AdminSession{username: p.Name}, nil
}
