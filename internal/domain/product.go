package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Product описывает товар автомата.
// Идентичность товара — указатель на запись каталога; ID нужен внешним интерфейсам.
type Product struct {
	ID       uuid.UUID
	Name     string
	Quantity int
	Price    int64 // Цена хранится в центах
}

func NewProduct(name string, quantity int, price int64) *Product {
	return &Product{
		ID:       uuid.New(),
		Name:     name,
		Quantity: quantity,
		Price:    price,
	}
}

// Available сообщает, есть ли товар в наличии.
func (p *Product) Available() bool {
	return p.Quantity > 0
}

// Increment изменяет количество на by, не опускаясь ниже нуля.
func (p *Product) Increment(by int) *Product {
	p.Quantity = max(0, p.Quantity+by)
	return p
}

// Decrement уменьшает количество на by, не опускаясь ниже нуля.
func (p *Product) Decrement(by int) *Product {
	p.Quantity = max(0, p.Quantity-by)
	return p
}

// Format возвращает название с опциональными ценой и количеством:
// "name (Price: 1.00, Quantity: 0)".
func (p *Product) Format(withPrice, withQuantity bool) string {
	details := make([]string, 0, 2)
	if withPrice {
		details = append(details, "Price: "+FormatAmount(p.Price))
	}
	if withQuantity {
		details = append(details, fmt.Sprintf("Quantity: %d", p.Quantity))
	}

	if len(details) == 0 {
		return p.Name
	}

	return fmt.Sprintf("%s (%s)", p.Name, strings.Join(details, ", "))
}

func (p *Product) String() string {
	return p.Name
}
