package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const defaultIssuer = "indiebook"

type claims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	Role  Role   `json:"role"`
	jwt.RegisteredClaims
}

// JWTStrategy issues and verifies HS256 signed JWT session tokens.
type JWTStrategy struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewJWTStrategy builds JWTStrategy with provided secret and options.
func NewJWTStrategy(secret string, opts Options) *JWTStrategy {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	issuer := opts.Issuer
	if issuer == "" {
		issuer = defaultIssuer
	}
	return &JWTStrategy{secret: []byte(secret), ttl: ttl, issuer: issuer, now: time.Now}
}

// IssueToken signs a token for the principal.
func (s *JWTStrategy) IssueToken(p Principal) (string, error) {
	if p.Role == "" {
		p.Role = RoleBuyer
	}
	now := s.now()
	c := claims{
		Email: p.Email,
		Name:  p.Name,
		Role:  p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(p.UserID, 10),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
}

// ParseToken validates the signature and expiry and returns the embedded principal.
func (s *JWTStrategy) ParseToken(token string) (Principal, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return Principal{}, errors.Join(ErrInvalidToken, err)
	}

	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return Principal{}, ErrInvalidToken
	}

	switch c.Role {
	case RoleBuyer:
		if c.Email == "" {
			return Principal{}, ErrInvalidToken
		}
	case RoleAdmin:
	default:
		return Principal{}, ErrInvalidToken
	}

	return Principal{UserID: userID, Email: c.Email, Name: c.Name, Role: c.Role}, nil
}

func (s *JWTStrategy) Name() string {
	return "jwt"
}
