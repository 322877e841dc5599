package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/DRSN-tech/vending-machine/internal/catalog"
	"github.com/DRSN-tech/vending-machine/internal/domain"
	"github.com/DRSN-tech/vending-machine/internal/vault"
	"github.com/DRSN-tech/vending-machine/pkg/e"
	"github.com/DRSN-tech/vending-machine/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeJournal struct {
	mu    sync.Mutex
	sales []*domain.Sale
	err   error
}

func (f *fakeJournal) RecordSale(_ context.Context, sale *domain.Sale) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.sales = append(f.sales, sale)
	return f.err
}

func (f *fakeJournal) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.sales)
}

func newMachine(t *testing.T, journal SalesJournal) (*MachineUseCase, *catalog.Catalog, *vault.CoinVault) {
	t.Helper()

	c := catalog.New()
	v := vault.New()
	return NewMachineUC(c, v, journal, logger.NewNopLogger()), c, v
}

func TestSelectProduct_NotAvailable(t *testing.T) {
	m, c, _ := newMachine(t, nil)
	p, err := c.AddProduct("Water", 1, 100)
	require.NoError(t, err)

	clone := *p
	err = m.SelectProduct(&clone)
	assert.ErrorIs(t, err, e.ErrInvalidInput)
	assert.Equal(t, AwaitingProduct, m.State())
	assert.Nil(t, m.CurrentProduct())

	sold, err := c.AddProduct("Juice", 0, 100)
	require.NoError(t, err)
	err = m.SelectProduct(sold)
	assert.ErrorIs(t, err, e.ErrInvalidInput)
	assert.Equal(t, AwaitingProduct, m.State())
}

func TestSelectProduct_MovesToAwaitingPayment(t *testing.T) {
	m, c, _ := newMachine(t, nil)
	p, err := c.AddProduct("Water", 1, 100)
	require.NoError(t, err)

	require.NoError(t, m.SelectProduct(p))
	assert.Equal(t, AwaitingPayment, m.State())
	assert.Same(t, p, m.CurrentProduct())
	assert.Empty(t, m.InsertedCoins())

	err = m.SelectProduct(p)
	assert.ErrorIs(t, err, e.ErrProductAlreadyTaken)
}

func TestSelectProductByID(t *testing.T) {
	m, c, _ := newMachine(t, nil)
	p, err := c.AddProduct("Water", 1, 100)
	require.NoError(t, err)

	err = m.SelectProductByID(uuid.New())
	assert.ErrorIs(t, err, e.ErrProductNotFound)
	assert.ErrorIs(t, err, e.ErrInvalidInput)

	require.NoError(t, m.SelectProductByID(p.ID))
	assert.Same(t, p, m.CurrentProduct())
}

func TestInsertCoin(t *testing.T) {
	m, c, _ := newMachine(t, nil)
	p, err := c.AddProduct("Water", 1, 100)
	require.NoError(t, err)

	err = m.InsertCoin(domain.Coin050)
	assert.ErrorIs(t, err, e.ErrProductNotSelected)

	require.NoError(t, m.SelectProduct(p))

	err = m.InsertCoin(domain.Denomination(10))
	assert.ErrorIs(t, err, e.ErrInvalidInput)

	require.NoError(t, m.InsertCoin(domain.Coin050))
	require.NoError(t, m.InsertCoin(domain.Coin050))
	assert.Equal(t, domain.CoinBag{domain.Coin050: 2}, m.InsertedCoins())
	assert.Equal(t, int64(100), m.InsertedSum())
	assert.Equal(t, AwaitingPayment, m.State())
}

func TestHasSufficientFunds(t *testing.T) {
	m, c, _ := newMachine(t, nil)
	assert.False(t, m.HasSufficientFunds())

	p, err := c.AddProduct("Water", 1, 100)
	require.NoError(t, err)
	require.NoError(t, m.SelectProduct(p))
	assert.False(t, m.HasSufficientFunds())

	require.NoError(t, m.InsertCoin(domain.Coin050))
	assert.False(t, m.HasSufficientFunds())

	require.NoError(t, m.InsertCoin(domain.Coin050))
	assert.True(t, m.HasSufficientFunds())
}

func TestPreviewChange(t *testing.T) {
	m, c, v := newMachine(t, nil)
	require.NoError(t, v.Deposit(domain.Coin025, 3))
	require.NoError(t, v.Deposit(domain.Coin200, 10))
	require.NoError(t, v.Deposit(domain.Coin300, 1))

	change, err := m.PreviewChange()
	require.NoError(t, err)
	assert.Empty(t, change)

	p, err := c.AddProduct("Water", 1, 125)
	require.NoError(t, err)
	require.NoError(t, m.SelectProduct(p))

	change, err = m.PreviewChange()
	require.NoError(t, err)
	assert.Empty(t, change)

	require.NoError(t, m.InsertCoin(domain.Coin100))
	_, err = m.PreviewChange()
	assert.ErrorIs(t, err, e.ErrInsufficientFunds)

	require.NoError(t, m.InsertCoin(domain.Coin500))
	change, err = m.PreviewChange()
	require.NoError(t, err)
	assert.Equal(t, domain.CoinBag{domain.Coin300: 1, domain.Coin100: 1, domain.Coin025: 3}, change)
	assert.Equal(t, AwaitingPayment, m.State())
}

func TestConfirmPurchase_NothingToConfirm(t *testing.T) {
	journal := &fakeJournal{}
	m, c, v := newMachine(t, journal)
	p, err := c.AddProduct("Water", 1, 100)
	require.NoError(t, err)
	require.NoError(t, v.Deposit(domain.Coin100, 1))

	res, ok, err := m.ConfirmPurchase(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, res)

	assert.Equal(t, 1, p.Quantity)
	assert.Equal(t, domain.CoinBag{domain.Coin100: 1}, v.Snapshot())
	assert.Equal(t, 0, journal.count())
}

func TestConfirmPurchase_ExactPayment(t *testing.T) {
	journal := &fakeJournal{}
	m, c, v := newMachine(t, journal)
	p, err := c.AddProduct("Water", 2, 100)
	require.NoError(t, err)

	require.NoError(t, m.SelectProduct(p))
	require.NoError(t, m.InsertCoin(domain.Coin050))
	require.NoError(t, m.InsertCoin(domain.Coin050))
	require.True(t, m.HasSufficientFunds())

	res, ok, err := m.ConfirmPurchase(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	require.NotNil(t, res.Sale)
	assert.Empty(t, res.Sale.Change)
	assert.Equal(t, p.ID, res.Sale.ProductID)
	assert.Equal(t, domain.CoinBag{domain.Coin050: 2}, res.Sale.Inserted)

	assert.Equal(t, 1, p.Quantity)
	assert.Equal(t, domain.CoinBag{domain.Coin050: 2}, v.Snapshot())
	assert.Equal(t, AwaitingProduct, m.State())
	assert.Nil(t, m.CurrentProduct())
	assert.Empty(t, m.InsertedCoins())
	assert.Equal(t, 1, journal.count())
}

func TestConfirmPurchase_WithChange(t *testing.T) {
	m, c, v := newMachine(t, nil)
	require.NoError(t, v.Deposit(domain.Coin025, 3))
	require.NoError(t, v.Deposit(domain.Coin200, 10))
	require.NoError(t, v.Deposit(domain.Coin300, 1))

	p, err := c.AddProduct("Water", 1, 475)
	require.NoError(t, err)
	require.NoError(t, m.SelectProduct(p))
	require.NoError(t, m.InsertCoin(domain.Coin050))
	require.NoError(t, m.InsertCoin(domain.Coin300))
	require.NoError(t, m.InsertCoin(domain.Coin500))

	res, ok, err := m.ConfirmPurchase(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, domain.CoinBag{domain.Coin300: 1, domain.Coin050: 1, domain.Coin025: 1}, res.Sale.Change)

	assert.Equal(t, 0, p.Quantity)
	assert.True(t, domain.CoinBag{
		domain.Coin025: 2,
		domain.Coin200: 10,
		domain.Coin300: 1,
		domain.Coin500: 1,
	}.Equal(v.Snapshot()))
}

func TestConfirmPurchase_NotEnoughChange(t *testing.T) {
	journal := &fakeJournal{}
	m, c, v := newMachine(t, journal)
	p, err := c.AddProduct("Water", 1, 100)
	require.NoError(t, err)

	require.NoError(t, m.SelectProduct(p))
	require.NoError(t, m.InsertCoin(domain.Coin500))

	res, ok, err := m.ConfirmPurchase(context.Background())
	require.ErrorIs(t, err, e.ErrInsufficientChange)
	assert.NotErrorIs(t, err, e.ErrInvalidInput)
	assert.False(t, ok)
	require.NotNil(t, res)
	assert.Nil(t, res.Sale)
	assert.Equal(t, domain.CoinBag{domain.Coin500: 1}, res.Refund)

	assert.Equal(t, 1, p.Quantity)
	assert.Empty(t, v.Snapshot())
	assert.Equal(t, AwaitingProduct, m.State())
	assert.Empty(t, m.InsertedCoins())
	assert.Equal(t, 0, journal.count())
}

func TestConfirmPurchase_InsufficientFundsRefundsAndResets(t *testing.T) {
	m, c, v := newMachine(t, nil)
	p, err := c.AddProduct("Water", 1, 100)
	require.NoError(t, err)

	require.NoError(t, m.SelectProduct(p))
	require.NoError(t, m.InsertCoin(domain.Coin050))

	res, ok, err := m.ConfirmPurchase(context.Background())
	assert.ErrorIs(t, err, e.ErrInsufficientFunds)
	assert.False(t, ok)
	require.NotNil(t, res)
	assert.Nil(t, res.Sale)
	assert.Equal(t, domain.CoinBag{domain.Coin050: 1}, res.Refund)

	assert.Equal(t, AwaitingProduct, m.State())
	assert.Nil(t, m.CurrentProduct())
	assert.True(t, m.InsertedCoins().IsEmpty())
	assert.Equal(t, 1, p.Quantity)
	assert.True(t, v.Snapshot().IsEmpty())
}

func TestConfirmPurchase_SelectedWithoutCoinsResets(t *testing.T) {
	m, c, _ := newMachine(t, nil)
	p, err := c.AddProduct("Water", 1, 100)
	require.NoError(t, err)
	require.NoError(t, m.SelectProduct(p))

	_, ok, err := m.ConfirmPurchase(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, AwaitingProduct, m.State())
}

func TestConfirmPurchase_JournalFailureKeepsPurchase(t *testing.T) {
	journal := &fakeJournal{err: errors.New("db is down")}
	m, c, v := newMachine(t, journal)
	p, err := c.AddProduct("Water", 1, 100)
	require.NoError(t, err)

	require.NoError(t, m.SelectProduct(p))
	require.NoError(t, m.InsertCoin(domain.Coin100))

	res, ok, err := m.ConfirmPurchase(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotNil(t, res.Sale)
	assert.Equal(t, 0, p.Quantity)
	assert.Equal(t, domain.CoinBag{domain.Coin100: 1}, v.Snapshot())
	assert.Equal(t, 1, journal.count())
}

func TestCancel(t *testing.T) {
	m, c, v := newMachine(t, nil)
	p, err := c.AddProduct("Water", 1, 300)
	require.NoError(t, err)

	assert.Empty(t, m.Cancel())

	require.NoError(t, m.SelectProduct(p))
	require.NoError(t, m.InsertCoin(domain.Coin200))
	require.NoError(t, m.InsertCoin(domain.Coin025))

	refund := m.Cancel()
	assert.Equal(t, domain.CoinBag{domain.Coin200: 1, domain.Coin025: 1}, refund)
	assert.Equal(t, AwaitingProduct, m.State())
	assert.Empty(t, m.InsertedCoins())
	assert.Empty(t, v.Snapshot())
	assert.Equal(t, 1, p.Quantity)
}

func TestTransaction(t *testing.T) {
	m, c, _ := newMachine(t, nil)

	info := m.Transaction()
	assert.Equal(t, AwaitingProduct, info.State)
	assert.Nil(t, info.Product)
	assert.Zero(t, info.InsertedSum)
	assert.False(t, info.SufficientFunds)

	p, err := c.AddProduct("Water", 1, 100)
	require.NoError(t, err)
	require.NoError(t, m.SelectProduct(p))
	require.NoError(t, m.InsertCoin(domain.Coin100))

	info = m.Transaction()
	assert.Equal(t, AwaitingPayment, info.State)
	require.NotNil(t, info.Product)
	assert.Equal(t, p.ID, info.Product.ID)
	assert.Equal(t, int64(100), info.InsertedSum)
	assert.True(t, info.SufficientFunds)
	assert.Equal(t, domain.CoinBag{domain.Coin100: 1}, info.Inserted)
}

func TestDelegations(t *testing.T) {
	m, _, _ := newMachine(t, nil)
	assert.True(t, m.AvailableProductsEmpty())

	p, err := m.AddProduct("Water", 1, 100)
	require.NoError(t, err)
	_, err = m.AddProduct("", 1, 100)
	assert.ErrorIs(t, err, e.ErrInvalidInput)

	assert.Equal(t, []*domain.Product{p}, m.AvailableProducts())
	assert.Equal(t, []ProductInfo{NewProductInfo(p)}, m.ListProducts())

	require.NoError(t, m.AddCoin(domain.Coin025, 4))
	assert.ErrorIs(t, m.AddCoin(domain.Coin025, -1), e.ErrInvalidInput)
	assert.Equal(t, domain.CoinBag{domain.Coin025: 4}, m.VaultSnapshot())
}

func TestConfirmPurchase_ConcurrentCallersBuyOnce(t *testing.T) {
	m, c, v := newMachine(t, nil)
	p, err := c.AddProduct("Water", 5, 100)
	require.NoError(t, err)

	require.NoError(t, m.SelectProduct(p))
	require.NoError(t, m.InsertCoin(domain.Coin100))

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		purchases int
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok, err := m.ConfirmPurchase(context.Background())
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				purchases++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, purchases)
	assert.Equal(t, 4, p.Quantity)
	assert.Equal(t, domain.CoinBag{domain.Coin100: 1}, v.Snapshot())
}

func TestListProducts_ConcurrentWithPurchases(t *testing.T) {
	m, c, _ := newMachine(t, nil)
	p, err := c.AddProduct("Water", 500, 100)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for range 200 {
			if err := m.SelectProduct(p); err != nil {
				continue
			}
			_ = m.InsertCoin(domain.Coin100)
			_, _, _ = m.ConfirmPurchase(context.Background())
		}
	}()

	for range 2000 {
		for _, info := range m.ListProducts() {
			assert.GreaterOrEqual(t, info.Quantity, 300)
		}
		_ = m.Transaction()
	}
	<-done

	products := m.ListProducts()
	require.Len(t, products, 1)
	assert.Equal(t, 300, products[0].Quantity)
}
