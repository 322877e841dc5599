package usecase

import (
	"context"

	"github.com/DRSN-tech/vending-machine/internal/domain"
	"github.com/google/uuid"
)

type MachineUC interface {
	SelectProduct(product *domain.Product) error
	SelectProductByID(id uuid.UUID) error
	InsertCoin(d domain.Denomination) error
	HasSufficientFunds() bool
	PreviewChange() (domain.CoinBag, error)
	ConfirmPurchase(ctx context.Context) (*PurchaseRes, bool, error)
	Cancel() domain.CoinBag

	CurrentProduct() *domain.Product
	InsertedSum() int64
	InsertedCoins() domain.CoinBag
	State() State
	Transaction() TransactionInfo

	ListProducts() []ProductInfo
	AvailableProducts() []*domain.Product
	AvailableProductsEmpty() bool
	AddProduct(name string, quantity int, price int64) (*domain.Product, error)
	AddCoin(d domain.Denomination, count int) error
	VaultSnapshot() domain.CoinBag
}

type CheckoutUC interface {
	Confirm(ctx context.Context, idempotencyKey string) (*CheckoutRes, error)
}
