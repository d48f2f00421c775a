package postgres

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Monetary columns travel as text so NUMERIC precision survives both directions.

func parseMoney(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse money %q: %w", s, err)
	}
	return d, nil
}

func parseOptionalMoney(s *string) (*decimal.Decimal, error) {
	if s == nil {
		return nil, nil
	}
	d, err := parseMoney(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func moneyArg(d decimal.Decimal) string {
	return d.StringFixed(2)
}
