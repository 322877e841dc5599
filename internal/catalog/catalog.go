// Package catalog хранит ассортимент автомата в памяти.
package catalog

import (
	"fmt"
	"strings"
	"sync"

	"github.com/DRSN-tech/vending-machine/internal/domain"
	"github.com/DRSN-tech/vending-machine/pkg/e"
	"github.com/google/uuid"
)

// Catalog — упорядоченный по добавлению набор товаров.
// Товар идентифицируется указателем: копия записи каталогу не принадлежит.
type Catalog struct {
	mu       sync.RWMutex
	products []*domain.Product
}

func New() *Catalog {
	return &Catalog{}
}

// AddProduct добавляет товар; повторное добавление по имени увеличивает количество существующей записи.
func (c *Catalog) AddProduct(name string, quantity int, price int64) (*domain.Product, error) {
	const op = "Catalog.AddProduct"

	if strings.TrimSpace(name) == "" {
		return nil, e.Wrap(op, e.ErrProductNameRequired)
	}
	if quantity < 0 {
		return nil, e.Wrap(op, e.Wrap(fmt.Sprintf("quantity %d", quantity), e.ErrNegativeCount))
	}
	if price < 0 {
		return nil, e.Wrap(op, e.Wrap(fmt.Sprintf("price %d", price), e.ErrInvalidAmount))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if existing := c.findByName(name); existing != nil {
		return existing.Increment(quantity), nil
	}

	product := domain.NewProduct(name, quantity, price)
	c.products = append(c.products, product)
	return product, nil
}

// DecrementQuantity уменьшает количество товара, доступного в каталоге.
func (c *Catalog) DecrementQuantity(product *domain.Product, by int) (*domain.Product, error) {
	const op = "Catalog.DecrementQuantity"

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isAvailable(product) {
		return nil, e.Wrap(op, e.ErrProductUnavailable)
	}

	return product.Decrement(by), nil
}

// IncrementQuantity возвращает товар на полку. Товар должен принадлежать каталогу.
func (c *Catalog) IncrementQuantity(product *domain.Product, by int) (*domain.Product, error) {
	const op = "Catalog.IncrementQuantity"

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.contains(product) {
		return nil, e.Wrap(op, e.ErrProductNotFound)
	}

	return product.Increment(by), nil
}

// AllProducts возвращает новый срез со всеми товарами в порядке добавления.
func (c *Catalog) AllProducts() []*domain.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	res := make([]*domain.Product, len(c.products))
	copy(res, c.products)
	return res
}

// AvailableProducts возвращает товары в наличии в порядке добавления.
func (c *Catalog) AvailableProducts() []*domain.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	res := make([]*domain.Product, 0, len(c.products))
	for _, p := range c.products {
		if p.Available() {
			res = append(res, p)
		}
	}
	return res
}

func (c *Catalog) AvailableProductsEmpty() bool {
	return len(c.AvailableProducts()) == 0
}

// FindAvailable ищет товар в наличии по ID.
func (c *Catalog) FindAvailable(id uuid.UUID) (*domain.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, p := range c.products {
		if p.ID == id && p.Available() {
			return p, true
		}
	}
	return nil, false
}

func (c *Catalog) findByName(name string) *domain.Product {
	for _, p := range c.products {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func (c *Catalog) contains(product *domain.Product) bool {
	for _, p := range c.products {
		if p == product {
			return true
		}
	}
	return false
}

func (c *Catalog) isAvailable(product *domain.Product) bool {
	return product != nil && c.contains(product) && product.Available()
}
