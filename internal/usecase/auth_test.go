package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	domainErrors "github.com/padudon-bit/IndieBook-project/internal/domain/errors"
	pkgAuth "github.com/padudon-bit/IndieBook-project/internal/pkg/auth"
	testhelpers "github.com/padudon-bit/IndieBook-project/internal/test"
)

func newStrategyStub() testhelpers.StrategyStub {
	return testhelpers.StrategyStub{
		IssueFn: func(p pkgAuth.Principal) (string, error) {
			return fmt.Sprintf("token-%s-%d-%s", p.Role, p.UserID, p.Email), nil
		},
		ParseFn: func(token string) (pkgAuth.Principal, error) {
			parts := strings.SplitN(token, "-", 4)
			if len(parts) != 4 || parts[0] != "token" {
				return pkgAuth.Principal{}, pkgAuth.ErrInvalidToken
			}
			var id int64
			if _, err := fmt.Sscanf(parts[2], "%d", &id); err != nil {
				return pkgAuth.Principal{}, pkgAuth.ErrInvalidToken
			}
			return pkgAuth.Principal{UserID: id, Email: parts[3], Role: pkgAuth.Role(parts[1])}, nil
		},
	}
}

func TestAuthUseCaseRegisterSuccess(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := NewAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())

	ctx := context.Background()
	user, token, err := uc.Register(ctx, "  Alice@Example.com ", "password", " Alice ")
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	if user.ID == 0 {
		t.Fatalf("expected user to have ID assigned")
	}
	if token != "token-buyer-1-alice@example.com" {
		t.Fatalf("unexpected token %q", token)
	}
	stored, err := repo.GetByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("expected user in repository: %v", err)
	}
	if stored.PasswordHash != "hash:password" {
		t.Fatalf("password hash not stored: %v", stored.PasswordHash)
	}
	if stored.Name != "Alice" {
		t.Fatalf("expected trimmed name, got %q", stored.Name)
	}
}

func TestAuthUseCaseRegisterDuplicate(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := NewAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())

	ctx := context.Background()
	if _, _, err := uc.Register(ctx, "bob@example.com", "secret", "Bob"); err != nil {
		t.Fatalf("unexpected error on first register: %v", err)
	}
	if _, _, err := uc.Register(ctx, "BOB@example.com", "secret", "Bob"); !errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestAuthUseCaseRegisterValidation(t *testing.T) {
	uc := NewAuthUseCase(testhelpers.NewUserRepositoryStub(), testhelpers.HasherStub{}, newStrategyStub())
	cases := []struct {
		email, password, field string
	}{
		{"", "password", "email"},
		{"not-an-email", "password", "email"},
		{"user@example.com", "12345", "password"},
	}
	for _, tc := range cases {
		_, _, err := uc.Register(context.Background(), tc.email, tc.password, "")
		var verr *domainErrors.ValidationError
		if !errors.As(err, &verr) || verr.Field != tc.field {
			t.Fatalf("expected validation error on %s, got %v", tc.field, err)
		}
	}
}

func TestAuthUseCaseRegisterDependencyErrors(t *testing.T) {
	hashFail := NewAuthUseCase(testhelpers.NewUserRepositoryStub(), testhelpers.HasherStub{HashFn: func(string) (string, error) {
		return "", fmt.Errorf("hash error")
	}}, newStrategyStub())
	if _, _, err := hashFail.Register(context.Background(), "u@example.com", "password", ""); err == nil {
		t.Fatal("expected hashing error")
	}

	repo := testhelpers.NewUserRepositoryStub()
	repo.Err = fmt.Errorf("db down")
	repoFail := NewAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())
	if _, _, err := repoFail.Register(context.Background(), "u@example.com", "password", ""); err == nil || err.Error() != "db down" {
		t.Fatalf("expected repository error, got %v", err)
	}

	issueFail := NewAuthUseCase(testhelpers.NewUserRepositoryStub(), testhelpers.HasherStub{}, testhelpers.StrategyStub{
		IssueFn: func(pkgAuth.Principal) (string, error) { return "", fmt.Errorf("cannot issue token") },
	})
	if _, _, err := issueFail.Register(context.Background(), "u@example.com", "password", ""); err == nil {
		t.Fatal("expected token issuing error")
	}
}

func TestAuthUseCaseAuthenticate(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := NewAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())

	ctx := context.Background()
	if _, _, err := uc.Register(ctx, "carol@example.com", "123456", "Carol"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, _, err := uc.Authenticate(ctx, "carol@example.com", "bad"); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials error, got %v", err)
	}
	if _, _, err := uc.Authenticate(ctx, "absent@example.com", "123456"); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown user, got %v", err)
	}
	if _, _, err := uc.Authenticate(ctx, "", ""); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for empty input, got %v", err)
	}

	user, token, err := uc.Authenticate(ctx, " CAROL@example.com", "123456")
	if err != nil {
		t.Fatalf("authenticate returned error: %v", err)
	}
	if user.Email != "carol@example.com" || token != "token-buyer-1-carol@example.com" {
		t.Fatalf("unexpected authentication result %+v %q", user, token)
	}

	repo.Err = fmt.Errorf("storage unavailable")
	if _, _, err := uc.Authenticate(ctx, "carol@example.com", "123456"); err == nil || err.Error() != "storage unavailable" {
		t.Fatalf("expected repository error, got %v", err)
	}
}

func TestAuthUseCaseParseToken(t *testing.T) {
	uc := NewAuthUseCase(testhelpers.NewUserRepositoryStub(), testhelpers.HasherStub{}, newStrategyStub())

	p, err := uc.ParseToken("token-buyer-42-dave@example.com")
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if p.UserID != 42 || p.Email != "dave@example.com" || p.Role != pkgAuth.RoleBuyer {
		t.Fatalf("unexpected principal %+v", p)
	}

	if _, err := uc.ParseToken("bad"); !errors.Is(err, pkgAuth.ErrInvalidToken) {
		t.Fatalf("expected invalid token error, got %v", err)
	}
	if _, err := uc.ParseToken(""); !errors.Is(err, pkgAuth.ErrInvalidToken) {
		t.Fatalf("expected invalid token error, got %v", err)
	}
}

func TestAuthUseCaseProfile(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := NewAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())
	ctx := context.Background()

	user, _, err := uc.Register(ctx, "erin@example.com", "password", "Erin")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	got, err := uc.Profile(ctx, user.ID)
	if err != nil || got.Email != "erin@example.com" {
		t.Fatalf("unexpected profile %+v, %v", got, err)
	}
	if _, err := uc.Profile(ctx, 99); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	updated, err := uc.UpdateProfile(ctx, user.ID, " Erin B ", " avatars/erin.png ")
	if err != nil {
		t.Fatalf("update profile failed: %v", err)
	}
	if updated.Name != "Erin B" || updated.Avatar != "avatars/erin.png" {
		t.Fatalf("unexpected updated profile %+v", updated)
	}
	if _, err := uc.UpdateProfile(ctx, user.ID, "  ", ""); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error for blank name, got %v", err)
	}
}

func TestAuthUseCaseRandomCredentials(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := NewAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())
	ctx := context.Background()

	for n := minPasswordLength; n < minPasswordLength+20; n++ {
		email, password := testhelpers.RandomEmail(), testhelpers.RandomPassword(n)
		if _, _, err := uc.Register(ctx, email, password, "Reader"); err != nil {
			t.Fatalf("register %q with %d-char password: %v", email, n, err)
		}
		usr, _, err := uc.Authenticate(ctx, strings.ToLower(email), password)
		if err != nil {
			t.Fatalf("authenticate %q: %v", email, err)
		}
		if usr.Email != strings.ToLower(email) {
			t.Fatalf("expected normalised email, got %q", usr.Email)
		}
	}

	_, _, err := uc.Register(ctx, testhelpers.RandomEmail(), testhelpers.RandomPassword(minPasswordLength-1), "Reader")
	if !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error for short password, got %v", err)
	}
}
