package usecase

import (
	"context"
	"errors"
	"strings"

	domainErrors "github.com/padudon-bit/IndieBook-project/internal/domain/errors"
	"github.com/padudon-bit/IndieBook-project/internal/domain/model"
	"github.com/padudon-bit/IndieBook-project/internal/domain/repository"
	pkgAuth "github.com/padudon-bit/IndieBook-project/internal/pkg/auth"
)

// AuthUseCase handles buyer accounts and token management.
type AuthUseCase struct {
	users  repository.UserRepository
	hasher pkgAuth.PasswordHasher
	tokens pkgAuth.Strategy
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(users repository.UserRepository, hasher pkgAuth.PasswordHasher, strategy pkgAuth.Strategy) *AuthUseCase {
	return &AuthUseCase{users: users, hasher: hasher, tokens: strategy}
}

// Register creates a buyer account and returns auth token.
func (u *AuthUseCase) Register(ctx context.Context, email, password, name string) (*model.User, string, error) {
	email = NormalizeEmail(email)
	name = strings.TrimSpace(name)
	if !ValidateEmail(email) {
		return nil, "", domainErrors.Invalid("email", "is not a valid email address")
	}
	if len(password) < minPasswordLength {
		return nil, "", domainErrors.Invalid("password", "must be at least 6 characters")
	}

	hash, err := u.hasher.Hash(password)
	if err != nil {
		return nil, "", err
	}

	usr, err := u.users.Create(ctx, email, hash, name)
	if err != nil {
		if errors.Is(err, domainErrors.ErrAlreadyExists) {
			return nil, "", domainErrors.ErrAlreadyExists
		}
		return nil, "", err
	}

	token, err := u.issue(usr)
	if err != nil {
		return nil, "", err
	}

	return usr, token, nil
}

// Authenticate validates credentials and returns auth token.
func (u *AuthUseCase) Authenticate(ctx context.Context, email, password string) (*model.User, string, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	usr, err := u.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := u.hasher.Compare(usr.PasswordHash, password); err != nil {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	token, err := u.issue(usr)
	if err != nil {
		return nil, "", err
	}

	return usr, token, nil
}

// ParseToken extracts the buyer principal from provided token.
func (u *AuthUseCase) ParseToken(token string) (pkgAuth.Principal, error) {
	if token == "" {
		return pkgAuth.Principal{}, pkgAuth.ErrInvalidToken
	}
	return u.tokens.ParseToken(token)
}

// Profile fetches user by identifier.
func (u *AuthUseCase) Profile(ctx context.Context, id int64) (*model.User, error) {
	return u.users.GetByID(ctx, id)
}

// UpdateProfile changes display name and avatar reference.
func (u *AuthUseCase) UpdateProfile(ctx context.Context, id int64, name, avatar string) (*model.User, error) {
	name = strings.TrimSpace(name)
	avatar = strings.TrimSpace(avatar)
	if err := required("name", name); err != nil {
		return nil, err
	}
	return u.users.UpdateProfile(ctx, id, name, avatar)
}

func (u *AuthUseCase) issue(usr *model.User) (string, error) {
	return u.tokens.IssueToken(pkgAuth.Principal{
		UserID: usr.ID,
		Email:  usr.Email,
		Name:   usr.Name,
		Role:   pkgAuth.RoleBuyer,
	})
}
