package domain

import (
	"fmt"

	"github.com/DRSN-tech/vending-machine/pkg/e"
)

// Denomination описывает номинал монеты. Значение хранится в центах.
type Denomination int64

const (
	Coin500 Denomination = 500
	Coin300 Denomination = 300
	Coin200 Denomination = 200
	Coin100 Denomination = 100
	Coin050 Denomination = 50
	Coin025 Denomination = 25
)

// denominations — фиксированный набор номиналов по убыванию.
var denominations = [...]Denomination{Coin500, Coin300, Coin200, Coin100, Coin050, Coin025}

// Denominations возвращает копию набора номиналов, отсортированного по убыванию.
func Denominations() []Denomination {
	res := make([]Denomination, len(denominations))
	copy(res, denominations[:])
	return res
}

// IsValid сообщает, входит ли номинал в фиксированный набор.
func (d Denomination) IsValid() bool {
	for _, known := range denominations {
		if d == known {
			return true
		}
	}
	return false
}

// Cents возвращает номинал в центах.
func (d Denomination) Cents() int64 {
	return int64(d)
}

// String форматирует номинал как "0.25".
func (d Denomination) String() string {
	return FormatAmount(int64(d))
}

// ParseDenomination разбирает номинал из строки ("0.25", "5", "5.0").
func ParseDenomination(s string) (Denomination, error) {
	cents, err := ParseAmount(s)
	if err != nil {
		return 0, err
	}

	d := Denomination(cents)
	if !d.IsValid() {
		return 0, e.Wrap(fmt.Sprintf("coin %q", s), e.ErrUnknownDenomination)
	}

	return d, nil
}

// ValidateDenomination проверяет принадлежность номинала фиксированному набору.
func ValidateDenomination(d Denomination) error {
	if !d.IsValid() {
		return e.Wrap(fmt.Sprintf("coin %d", int64(d)), e.ErrUnknownDenomination)
	}
	return nil
}
