package vault

import (
	"github.com/DRSN-tech/vending-machine/internal/domain"
	"github.com/DRSN-tech/vending-machine/pkg/e"
)

// computeChange перебирает подмножества номиналов от полного набора к одному самому мелкому,
// каждый раз отбрасывая самый крупный номинал. Для каждого подмножества выполняется один жадный
// проход по убыванию. Первый проход, давший ровно target, и есть сдача.
//
// Поиск намеренно не полный: жадный проход может не найти разложение, которое существует.
func computeChange(target int64, pool domain.CoinBag) (domain.CoinBag, error) {
	all := domain.Denominations()

	for length := len(all); length >= 1; length-- {
		active := all[len(all)-length:]
		if change, ok := greedyPass(target, pool, active); ok {
			return change, nil
		}
	}

	return nil, e.ErrInsufficientChange
}

// greedyPass берёт из pool столько монет каждого номинала, сколько помещается в остаток.
func greedyPass(target int64, pool domain.CoinBag, active []domain.Denomination) (domain.CoinBag, bool) {
	change := domain.NewCoinBag()
	remaining := target

	for _, d := range active {
		available := int64(pool[d])
		if available <= 0 {
			continue
		}

		take := min(available, remaining/d.Cents())
		if take == 0 {
			continue
		}

		change[d] = int(take)
		remaining -= take * d.Cents()
	}

	return change, remaining == 0
}
