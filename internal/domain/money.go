package domain

import (
	"github.com/DRSN-tech/aircon-backend/pkg/e"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// CentsToDecimal переводит цену в центах в десятичное значение (129999 -> 1299.99).
func CentsToDecimal(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// FormatPrice возвращает цену в виде "1299.99".
func FormatPrice(cents int64) string {
	return CentsToDecimal(cents).StringFixed(2)
}

// ParsePrice разбирает строку вида "1299.99" в центы.
func ParsePrice(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, e.ErrInvalidPrice
	}

	return DecimalToCents(d)
}

// DecimalToCents переводит десятичное значение в центы, допускается не более двух знаков после точки.
func DecimalToCents(d decimal.Decimal) (int64, error) {
	if !d.Equal(d.Truncate(2)) {
		return 0, e.ErrPricePrecision
	}

	return d.Mul(hundred).IntPart(), nil
}
