package domain

import (
	"time"

	"github.com/google/uuid"
)

// Sale описывает завершённую покупку.
type Sale struct {
	ID          uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	Price       int64 // в центах
	Inserted    CoinBag
	Change      CoinBag
	CreatedAt   time.Time
}

func NewSale(product *Product, inserted, change CoinBag) *Sale {
	return &Sale{
		ID:          uuid.New(),
		ProductID:   product.ID,
		ProductName: product.Name,
		Price:       product.Price,
		Inserted:    inserted.Clone(),
		Change:      change.Clone(),
		CreatedAt:   time.Now().UTC(),
	}
}
