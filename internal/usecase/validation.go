package usecase

import (
	"net/mail"
	"strings"

	"github.com/shopspring/decimal"

	domainErrors "github.com/padudon-bit/IndieBook-project/internal/domain/errors"
	"github.com/padudon-bit/IndieBook-project/internal/domain/model"
)

const minPasswordLength = 6

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail reports whether email is a bare, syntactically valid address.
func ValidateEmail(email string) bool {
	if email == "" || strings.ContainsAny(email, " <>") {
		return false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	at := strings.LastIndex(email, "@")
	return at > 0 && at < len(email)-1
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return domainErrors.Invalid(field, "is required")
	}
	return nil
}

func positivePrice(field string, price decimal.Decimal) error {
	if !price.IsPositive() {
		return domainErrors.Invalid(field, "must be greater than zero")
	}
	return nil
}

// normalizeBuyer trims contact fields, lower-cases the email and validates them.
func normalizeBuyer(b model.Buyer) (model.Buyer, error) {
	b.Name = strings.TrimSpace(b.Name)
	b.Phone = strings.TrimSpace(b.Phone)
	b.Email = NormalizeEmail(b.Email)

	if err := required("name", b.Name); err != nil {
		return b, err
	}
	if err := required("email", b.Email); err != nil {
		return b, err
	}
	if !ValidateEmail(b.Email) {
		return b, domainErrors.Invalid("email", "is not a valid email address")
	}
	if err := required("phone", b.Phone); err != nil {
		return b, err
	}
	return b, nil
}
