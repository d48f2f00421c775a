package test

import (
	"errors"

	pkgAuth "github.com/padudon-bit/IndieBook-project/internal/pkg/auth"
)

// HasherStub provides deterministic hashing for tests.
type HasherStub struct {
	HashFn    func(string) (string, error)
	CompareFn func(string, string) error
}

// Hash returns a predictable hash for the supplied password.
func (h HasherStub) Hash(password string) (string, error) {
	if h.HashFn != nil {
		return h.HashFn(password)
	}
	return "hash:" + password, nil
}

// Compare validates password against stored hash.
func (h HasherStub) Compare(hash string, password string) error {
	if h.CompareFn != nil {
		return h.CompareFn(hash, password)
	}
	if hash != "hash:"+password {
		return errors.New("mismatch")
	}
	return nil
}

// StrategyStub issues and parses tokens via function overrides.
type StrategyStub struct {
	IssueFn func(pkgAuth.Principal) (string, error)
	ParseFn func(string) (pkgAuth.Principal, error)
	NameVal string
}

// IssueToken returns deterministic tokens for tests.
func (s StrategyStub) IssueToken(p pkgAuth.Principal) (string, error) {
	if s.IssueFn != nil {
		return s.IssueFn(p)
	}
	return "token", nil
}

// ParseToken parses previously issued token strings.
func (s StrategyStub) ParseToken(token string) (pkgAuth.Principal, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return pkgAuth.Principal{UserID: 1, Email: "reader@example.com", Role: pkgAuth.RoleBuyer}, nil
}

// Name returns the strategy identifier used in tests.
func (s StrategyStub) Name() string {
	if s.NameVal != "" {
		return s.NameVal
	}
	return "stub"
}

var _ pkgAuth.PasswordHasher = HasherStub{}
var _ pkgAuth.Strategy = StrategyStub{}

// TokenParserStub returns a fixed principal or error.
type TokenParserStub struct {
	Principal pkgAuth.Principal
	Err       error
}

// ParseToken returns configured principal.
func (s TokenParserStub) ParseToken(string) (pkgAuth.Principal, error) {
	if s.Err != nil {
		return pkgAuth.Principal{}, s.Err
	}
	return s.Principal, nil
}
