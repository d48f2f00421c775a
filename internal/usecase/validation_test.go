package usecase

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	domainErrors "github.com/padudon-bit/IndieBook-project/internal/domain/errors"
	"github.com/padudon-bit/IndieBook-project/internal/domain/model"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{"reader@example.com", "a.b+c@shop.co.th", "x@y"}
	for _, email := range valid {
		if !ValidateEmail(email) {
			t.Fatalf("expected email %s to be valid", email)
		}
	}

	invalid := []string{"", "reader", "@example.com", "reader@", "Reader <reader@example.com>", "a b@example.com"}
	for _, email := range invalid {
		if ValidateEmail(email) {
			t.Fatalf("expected email %q to be invalid", email)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Reader@Example.COM "); got != "reader@example.com" {
		t.Fatalf("unexpected normalized email %q", got)
	}
}

func TestNormalizeBuyer(t *testing.T) {
	b, err := normalizeBuyer(model.Buyer{Name: " Reader ", Email: " Reader@Example.com", Phone: " 0800 "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Name != "Reader" || b.Email != "reader@example.com" || b.Phone != "0800" {
		t.Fatalf("unexpected buyer %+v", b)
	}

	cases := []struct {
		buyer model.Buyer
		field string
	}{
		{model.Buyer{Email: "a@b.c", Phone: "1"}, "name"},
		{model.Buyer{Name: "n", Phone: "1"}, "email"},
		{model.Buyer{Name: "n", Email: "nope", Phone: "1"}, "email"},
		{model.Buyer{Name: "n", Email: "a@b.c", Phone: "  "}, "phone"},
	}
	for _, tc := range cases {
		_, err := normalizeBuyer(tc.buyer)
		var vErr *domainErrors.ValidationError
		if !errors.As(err, &vErr) || vErr.Field != tc.field {
			t.Fatalf("expected validation error on %s, got %v", tc.field, err)
		}
	}
}

func TestPositivePrice(t *testing.T) {
	if err := positivePrice("price", decimal.NewFromInt(1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, p := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5)} {
		if err := positivePrice("price", p); !errors.Is(err, domainErrors.ErrValidation) {
			t.Fatalf("expected validation error for %s, got %v", p, err)
		}
	}
}
