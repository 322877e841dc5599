package domain

import (
	"fmt"
	"math"
	"strings"

	"github.com/DRSN-tech/vending-machine/pkg/e"
	"github.com/shopspring/decimal"
)

// maxAmount — верхняя граница суммы в центах (1 млн условных единиц).
const maxAmount = 100_000_000

var maxCount = decimal.NewFromInt(math.MaxInt32)

// ParseAmount переводит строку вида "1.5" или "2" в центы.
// Ошибка, если:
// - формат некорректен
// - больше двух знаков после запятой
// - значение отрицательное или превышает maxAmount
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, e.Wrap("amount is empty", e.ErrInvalidAmount)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, e.Wrap(fmt.Sprintf("amount %q", s), e.ErrInvalidAmount)
	}

	if d.IsNegative() {
		return 0, e.Wrap(fmt.Sprintf("amount %q", s), e.ErrInvalidAmount)
	}

	cents := d.Shift(2)
	if !cents.IsInteger() {
		return 0, e.Wrap(fmt.Sprintf("amount %q", s), e.ErrAmountPrecision)
	}

	if cents.GreaterThan(decimal.NewFromInt(maxAmount)) {
		return 0, e.Wrap(fmt.Sprintf("amount %q", s), e.ErrInvalidAmount)
	}

	return cents.IntPart(), nil
}

// FormatAmount форматирует центы как "1.50".
func FormatAmount(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

// ParseCount разбирает неотрицательное целое количество ("3", "3.0").
// Дробные значения ("1.5") отклоняются.
func ParseCount(s string) (int, error) {
	s = strings.TrimSpace(s)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, e.Wrap(fmt.Sprintf("count %q", s), e.ErrNegativeCount)
	}

	if d.IsNegative() || !d.IsInteger() || d.GreaterThan(maxCount) {
		return 0, e.Wrap(fmt.Sprintf("count %q", s), e.ErrNegativeCount)
	}

	return int(d.IntPart()), nil
}
