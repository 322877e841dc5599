package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/DRSN-tech/vending-machine/pkg/e"
)

// CoinBag — количество монет по номиналам.
// Ключи принадлежат фиксированному набору, количества неотрицательны.
type CoinBag map[Denomination]int

// NewCoinBag создает пустой набор монет.
func NewCoinBag() CoinBag {
	return make(CoinBag)
}

// Validate проверяет инварианты набора.
func (b CoinBag) Validate() error {
	for d, count := range b {
		if err := ValidateDenomination(d); err != nil {
			return err
		}
		if count < 0 {
			return e.Wrap(fmt.Sprintf("coin %s", d), e.ErrNegativeCount)
		}
	}
	return nil
}

// Clone возвращает независимую копию.
func (b CoinBag) Clone() CoinBag {
	res := make(CoinBag, len(b))
	for d, count := range b {
		res[d] = count
	}
	return res
}

// Add возвращает новый набор с поштучным сложением количеств.
func (b CoinBag) Add(other CoinBag) CoinBag {
	res := b.Clone()
	for d, count := range other {
		res[d] += count
	}
	return res
}

// Sub возвращает новый набор с вычитанием other.
// Если какое-либо количество становится отрицательным — ошибка, исходный набор не меняется.
func (b CoinBag) Sub(other CoinBag) (CoinBag, error) {
	res := b.Clone()
	for d, count := range other {
		res[d] -= count
		if res[d] < 0 {
			return nil, e.Wrap(fmt.Sprintf("coin %s", d), e.ErrNegativeVaultCount)
		}
	}
	return res, nil
}

// Sum возвращает взвешенную сумму набора в центах.
func (b CoinBag) Sum() int64 {
	var total int64
	for d, count := range b {
		total += d.Cents() * int64(count)
	}
	return total
}

// IsEmpty сообщает, что в наборе нет ни одной монеты.
func (b CoinBag) IsEmpty() bool {
	for _, count := range b {
		if count > 0 {
			return false
		}
	}
	return true
}

// Equal сравнивает наборы, игнорируя нулевые количества.
func (b CoinBag) Equal(other CoinBag) bool {
	for _, d := range denominations {
		if b[d] != other[d] {
			return false
		}
	}
	return len(b.nonZero()) == len(other.nonZero())
}

// String форматирует набор как "3.00 x 1, 0.50 x 1" по убыванию номинала.
func (b CoinBag) String() string {
	parts := make([]string, 0, len(b))
	for _, d := range denominations {
		if count := b[d]; count > 0 {
			parts = append(parts, fmt.Sprintf("%s x %d", d, count))
		}
	}
	return strings.Join(parts, ", ")
}

func (b CoinBag) nonZero() CoinBag {
	res := make(CoinBag, len(b))
	for d, count := range b {
		if count != 0 {
			res[d] = count
		}
	}
	return res
}

// MarshalJSON сериализует набор как {"0.25": 3}.
func (b CoinBag) MarshalJSON() ([]byte, error) {
	m := make(map[string]int, len(b))
	for d, count := range b {
		m[d.String()] = count
	}
	return json.Marshal(m)
}

// UnmarshalJSON разбирает набор вида {"0.25": 3} с проверкой номиналов.
func (b *CoinBag) UnmarshalJSON(data []byte) error {
	var m map[string]int
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}

	res := make(CoinBag, len(m))
	for key, count := range m {
		d, err := ParseDenomination(key)
		if err != nil {
			return err
		}
		res[d] = count
	}

	if err := res.Validate(); err != nil {
		return err
	}

	*b = res
	return nil
}
