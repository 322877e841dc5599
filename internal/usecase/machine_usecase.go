package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/DRSN-tech/vending-machine/internal/domain"
	"github.com/DRSN-tech/vending-machine/pkg/e"
	"github.com/DRSN-tech/vending-machine/pkg/logger"
	"github.com/google/uuid"
)

// MachineUseCase ведёт транзакцию покупателя: выбор товара, приём монет и подтверждение покупки.
// Все операции выполняются под одним мьютексом, поэтому каталог и монетный запас
// меняются при покупке либо оба, либо никто.
type MachineUseCase struct {
	mu       sync.Mutex
	catalog  CatalogRepository
	vault    CoinVault
	journal  SalesJournal
	logger   logger.Logger
	product  *domain.Product
	inserted domain.CoinBag
}

// NewMachineUC создаёт автомат. journal может быть nil, тогда продажи не журналируются.
func NewMachineUC(catalog CatalogRepository, vault CoinVault, journal SalesJournal, logger logger.Logger) *MachineUseCase {
	return &MachineUseCase{
		catalog:  catalog,
		vault:    vault,
		journal:  journal,
		logger:   logger,
		inserted: domain.NewCoinBag(),
	}
}

// SelectProduct выбирает товар. Товар должен быть в наличии и принадлежать каталогу (сравнение по указателю).
func (m *MachineUseCase) SelectProduct(product *domain.Product) error {
	const op = "MachineUseCase.SelectProduct"

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.selectProduct(product); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

// SelectProductByID выбирает товар в наличии по его ID.
func (m *MachineUseCase) SelectProductByID(id uuid.UUID) error {
	const op = "MachineUseCase.SelectProductByID"

	m.mu.Lock()
	defer m.mu.Unlock()

	product, ok := m.catalog.FindAvailable(id)
	if !ok {
		return e.Wrap(op, e.Wrap(id.String(), e.ErrProductNotFound))
	}

	if err := m.selectProduct(product); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

func (m *MachineUseCase) selectProduct(product *domain.Product) error {
	if m.product != nil {
		return e.ErrProductAlreadyTaken
	}
	if !m.isAvailable(product) {
		return e.ErrProductUnavailable
	}

	m.product = product
	m.inserted = domain.NewCoinBag()

	m.logger.Debugf("product selected. product: %s", product.Name)
	return nil
}

// InsertCoin принимает одну монету. Возможно только после выбора товара.
func (m *MachineUseCase) InsertCoin(d domain.Denomination) error {
	const op = "MachineUseCase.InsertCoin"

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.product == nil {
		return e.Wrap(op, e.ErrProductNotSelected)
	}
	if err := domain.ValidateDenomination(d); err != nil {
		return e.Wrap(op, err)
	}

	m.inserted[d]++
	return nil
}

// HasSufficientFunds сообщает, покрывают ли внесённые монеты цену выбранного товара.
func (m *MachineUseCase) HasSufficientFunds() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.hasSufficientFunds()
}

func (m *MachineUseCase) hasSufficientFunds() bool {
	if m.product == nil || m.inserted.IsEmpty() {
		return false
	}
	return m.inserted.Sum() >= m.product.Price
}

// PreviewChange подбирает сдачу для текущей транзакции, не меняя состояния.
func (m *MachineUseCase) PreviewChange() (domain.CoinBag, error) {
	const op = "MachineUseCase.PreviewChange"

	m.mu.Lock()
	defer m.mu.Unlock()

	change, err := m.previewChange()
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return change, nil
}

func (m *MachineUseCase) previewChange() (domain.CoinBag, error) {
	if m.product == nil || m.inserted.IsEmpty() {
		return domain.NewCoinBag(), nil
	}

	diff := m.inserted.Sum() - m.product.Price
	if diff < 0 {
		return nil, e.Wrap(
			fmt.Sprintf("inserted %s, price %s", domain.FormatAmount(m.inserted.Sum()), domain.FormatAmount(m.product.Price)),
			e.ErrInsufficientFunds,
		)
	}

	return m.vault.ComputeChange(diff, m.inserted)
}

// ConfirmPurchase завершает покупку.
// Возвращает ok=false без изменений, если товар не выбран или монеты не внесены.
// При нехватке сдачи или средств возвращает PurchaseRes с монетами для возврата
// вместе с ошибкой e.ErrInsufficientChange или e.ErrInsufficientFunds.
// После попытки покупки транзакция всегда сбрасывается. Ошибка журнала продаж покупку не отменяет.
func (m *MachineUseCase) ConfirmPurchase(ctx context.Context) (*PurchaseRes, bool, error) {
	const op = "MachineUseCase.ConfirmPurchase"

	res, ok, err := m.confirmPurchase()
	if err != nil {
		return res, ok, e.Wrap(op, err)
	}
	if !ok {
		return nil, false, nil
	}

	m.logger.Infof("purchase completed. product: %s, inserted: %s, change: %s",
		res.Sale.ProductName, res.Sale.Inserted, res.Sale.Change)

	if m.journal != nil {
		if err := m.journal.RecordSale(ctx, res.Sale); err != nil {
			m.logger.Warnf("failed to record sale %s: %v", res.Sale.ID, e.Wrap(op, err))
		}
	}

	return res, true, nil
}

func (m *MachineUseCase) confirmPurchase() (res *PurchaseRes, ok bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer m.reset()

	if m.product == nil || m.inserted.IsEmpty() {
		return nil, false, nil
	}

	change, err := m.previewChange()
	if err != nil {
		switch {
		case errors.Is(err, e.ErrInsufficientChange):
			m.logger.Infof("not enough change. product: %s, inserted: %s", m.product.Name, m.inserted)
			return NewPurchaseRes(nil, m.inserted.Clone()), false, err
		case errors.Is(err, e.ErrInsufficientFunds):
			m.logger.Infof("insufficient funds. product: %s, inserted: %s", m.product.Name, m.inserted)
			return NewPurchaseRes(nil, m.inserted.Clone()), false, err
		}
		return nil, false, err
	}

	product, err := m.catalog.DecrementQuantity(m.product, 1)
	if err != nil {
		return nil, false, err
	}

	if err = m.vault.Reconcile(m.inserted, change); err != nil {
		// Возвращаем товар на полку, чтобы каталог и запас остались согласованы
		if _, rbErr := m.catalog.IncrementQuantity(product, 1); rbErr != nil {
			m.logger.Errorf(rbErr, "failed to restore quantity of %s", product.Name)
		}
		return nil, false, err
	}

	return NewPurchaseRes(domain.NewSale(product, m.inserted, change), nil), true, nil
}

// Cancel прерывает транзакцию и возвращает внесённые монеты.
func (m *MachineUseCase) Cancel() domain.CoinBag {
	m.mu.Lock()
	defer m.mu.Unlock()

	refund := m.inserted.Clone()
	m.reset()
	return refund
}

func (m *MachineUseCase) CurrentProduct() *domain.Product {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.product
}

// InsertedSum возвращает сумму внесённых монет в центах.
func (m *MachineUseCase) InsertedSum() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.inserted.Sum()
}

func (m *MachineUseCase) InsertedCoins() domain.CoinBag {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.inserted.Clone()
}

func (m *MachineUseCase) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state()
}

func (m *MachineUseCase) state() State {
	if m.product == nil {
		return AwaitingProduct
	}
	return AwaitingPayment
}

// Transaction возвращает согласованный снимок текущей транзакции.
func (m *MachineUseCase) Transaction() TransactionInfo {
	m.mu.Lock()
	defer m.mu.Unlock()

	info := TransactionInfo{
		State:           m.state(),
		Inserted:        m.inserted.Clone(),
		InsertedSum:     m.inserted.Sum(),
		SufficientFunds: m.hasSufficientFunds(),
	}
	if m.product != nil {
		product := NewProductInfo(m.product)
		info.Product = &product
	}

	return info
}

// ListProducts возвращает снимок товаров в наличии.
// Количество товара меняется только под m.mu, поэтому снимок собирается под ним же.
func (m *MachineUseCase) ListProducts() []ProductInfo {
	m.mu.Lock()
	defer m.mu.Unlock()

	return NewProductInfos(m.catalog.AvailableProducts())
}

func (m *MachineUseCase) AvailableProducts() []*domain.Product {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.catalog.AvailableProducts()
}

func (m *MachineUseCase) AvailableProductsEmpty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.catalog.AvailableProductsEmpty()
}

func (m *MachineUseCase) AddProduct(name string, quantity int, price int64) (*domain.Product, error) {
	const op = "MachineUseCase.AddProduct"

	m.mu.Lock()
	defer m.mu.Unlock()

	product, err := m.catalog.AddProduct(name, quantity, price)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return product, nil
}

// AddCoin пополняет монетный запас.
func (m *MachineUseCase) AddCoin(d domain.Denomination, count int) error {
	const op = "MachineUseCase.AddCoin"

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.vault.Deposit(d, count); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

func (m *MachineUseCase) VaultSnapshot() domain.CoinBag {
	return m.vault.Snapshot()
}

func (m *MachineUseCase) isAvailable(product *domain.Product) bool {
	if product == nil {
		return false
	}
	for _, p := range m.catalog.AvailableProducts() {
		if p == product {
			return true
		}
	}
	return false
}

func (m *MachineUseCase) reset() {
	m.product = nil
	m.inserted = domain.NewCoinBag()
}
