package usecase

import (
	"context"

	"github.com/DRSN-tech/vending-machine/internal/domain"
	"github.com/google/uuid"
)

type CatalogRepository interface {
	AddProduct(name string, quantity int, price int64) (*domain.Product, error)
	DecrementQuantity(product *domain.Product, by int) (*domain.Product, error)
	IncrementQuantity(product *domain.Product, by int) (*domain.Product, error)
	AllProducts() []*domain.Product
	AvailableProducts() []*domain.Product
	AvailableProductsEmpty() bool
	FindAvailable(id uuid.UUID) (*domain.Product, bool)
}

type CoinVault interface {
	Deposit(d domain.Denomination, count int) error
	Reconcile(inserted, change domain.CoinBag) error
	Snapshot() domain.CoinBag
	ComputeChange(target int64, inserted domain.CoinBag) (domain.CoinBag, error)
}

type SaleEventRepository interface {
	Create(ctx context.Context, event *SaleEvent) (*SaleEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*SaleEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
	ReturnToPending(ctx context.Context, id int64) error
}

// IdempotencyRepository хранит результаты подтверждений покупки по ключу идемпотентности.
type IdempotencyRepository interface {
	// Get возвращает сохранённый результат; found=true и res=nil означают, что запрос с этим ключом ещё выполняется.
	Get(ctx context.Context, key string) (res *CheckoutRes, found bool, err error)
	Reserve(ctx context.Context, key string) (bool, error)
	Save(ctx context.Context, key string, res *CheckoutRes) error
	Release(ctx context.Context, key string) error
}
