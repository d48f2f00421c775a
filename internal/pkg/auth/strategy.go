package auth

import (
	"errors"
	"time"
)

var ErrInvalidToken = errors.New("invalid auth token")

// Role distinguishes storefront buyers from the back-office administrator.
type Role string

const (
	RoleBuyer Role = "buyer"
	RoleAdmin Role = "admin"
)

// Principal is the identity carried inside a session token.
type Principal struct {
	UserID int64
	Email  string
	Name   string
	Role   Role
}

// IsAdmin reports whether the principal was issued through the admin login.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

type Strategy interface {
	IssueToken(p Principal) (string, error)
	ParseToken(token string) (Principal, error)
	Name() string
}

type Options struct {
	TTL    time.Duration
	Issuer string
}
