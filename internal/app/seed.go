package app

import (
	_ "embed"
	"encoding/json"
	"os"

	"github.com/DRSN-tech/vending-machine/internal/domain"
	"github.com/DRSN-tech/vending-machine/internal/usecase"
	"github.com/DRSN-tech/vending-machine/pkg/e"
	"github.com/jimlawless/whereami"
)

//go:embed seed.json
var defaultSeed []byte

// Seed — начальная загрузка автомата. Цены и номиналы записываются строками вида "1.50",
// количества — целыми числами.
type Seed struct {
	Products []SeedProduct `json:"products"`
	Coins    []SeedCoin    `json:"coins"`
}

type SeedProduct struct {
	Name     string      `json:"name"`
	Quantity json.Number `json:"quantity"`
	Price    string      `json:"price"`
}

type SeedCoin struct {
	Coin  string      `json:"coin"`
	Count json.Number `json:"count"`
}

// LoadSeed читает seed из файла. Пустой path — встроенный набор.
func LoadSeed(path string) (*Seed, error) {
	data := defaultSeed
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
	}

	var seed Seed
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), e.Wrap(err.Error(), e.ErrInvalidInput))
	}

	return &seed, nil
}

// Apply загружает товары и монеты через обычные операции автомата, с той же валидацией.
func (s *Seed) Apply(machine usecase.MachineUC) error {
	for _, p := range s.Products {
		price, err := domain.ParseAmount(p.Price)
		if err != nil {
			return e.Wrap("product "+p.Name, err)
		}
		quantity, err := domain.ParseCount(p.Quantity.String())
		if err != nil {
			return e.Wrap("product "+p.Name, err)
		}
		if _, err := machine.AddProduct(p.Name, quantity, price); err != nil {
			return e.Wrap("product "+p.Name, err)
		}
	}

	for _, c := range s.Coins {
		coin, err := domain.ParseDenomination(c.Coin)
		if err != nil {
			return err
		}
		count, err := domain.ParseCount(c.Count.String())
		if err != nil {
			return e.Wrap("coin "+c.Coin, err)
		}
		if err := machine.AddCoin(coin, count); err != nil {
			return e.Wrap("coin "+c.Coin, err)
		}
	}

	return nil
}
