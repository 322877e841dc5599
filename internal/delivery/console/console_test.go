package console

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/DRSN-tech/vending-machine/internal/catalog"
	"github.com/DRSN-tech/vending-machine/internal/domain"
	"github.com/DRSN-tech/vending-machine/internal/usecase"
	"github.com/DRSN-tech/vending-machine/internal/vault"
	"github.com/DRSN-tech/vending-machine/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMachine(t *testing.T, coins domain.CoinBag) *usecase.MachineUseCase {
	t.Helper()

	m := usecase.NewMachineUC(catalog.New(), vault.New(), nil, logger.NewNopLogger())
	_, err := m.AddProduct("Water", 1, 125)
	require.NoError(t, err)
	_, err = m.AddProduct("Juice", 3, 300)
	require.NoError(t, err)

	for d, count := range coins {
		require.NoError(t, m.AddCoin(d, count))
	}
	return m
}

func run(t *testing.T, m usecase.MachineUC, input ...string) string {
	t.Helper()

	var out bytes.Buffer
	c := NewConsole(m, strings.NewReader(strings.Join(input, "\n")+"\n"), &out, logger.NewNopLogger())
	require.NoError(t, c.Run(context.Background()))
	return out.String()
}

func TestRun_EmptyCatalog(t *testing.T) {
	m := usecase.NewMachineUC(catalog.New(), vault.New(), nil, logger.NewNopLogger())

	out := run(t, m)
	assert.Contains(t, out, "Welcome!")
	assert.Contains(t, out, "There are no available products. Please come back later.")
	assert.NotContains(t, out, "Good bye!")
}

func TestRun_Purchase(t *testing.T) {
	m := newMachine(t, domain.CoinBag{domain.Coin050: 2, domain.Coin025: 2})

	out := run(t, m, "1", "yes", "2")

	assert.Contains(t, out, "1. Water (Price: 1.25, Quantity: 1)")
	assert.Contains(t, out, "2. Juice (Price: 3.00, Quantity: 3)")
	assert.Contains(t, out, "You have selected: Water (Price: 1.25). Proceed to checkout?")
	assert.Contains(t, out, "Inserted amount: 0.00. Please insert a coin (available coins: 5.00, 3.00, 2.00, 1.00, 0.50, 0.25): ")
	assert.Contains(t, out, "Purchase is successful. Your change: 0.50 x 1, 0.25 x 1")
	assert.Contains(t, out, "Good bye!")

	// Water закончилась, в меню остался только Juice
	assert.Contains(t, out, "1. Juice (Price: 3.00, Quantity: 3)")
	assert.True(t, m.VaultSnapshot().Equal(domain.CoinBag{domain.Coin200: 1, domain.Coin050: 1, domain.Coin025: 1}))
}

func TestRun_NotEnoughChange(t *testing.T) {
	m := newMachine(t, nil)

	out := run(t, m, "water", "y", "5")

	assert.Contains(t, out, "There is not enough change. Please take your money back.")
	assert.Equal(t, usecase.AwaitingProduct, m.State())
	assert.True(t, m.VaultSnapshot().IsEmpty())
}

func TestRun_InvalidInputRePrompts(t *testing.T) {
	m := newMachine(t, nil)

	out := run(t, m, "7", "Juice", "maybe", "yes", "0.10", "abc", "3")

	assert.Contains(t, out, "You must choose one of the listed products.")
	assert.Contains(t, out, `Please enter "yes" or "no".`)
	assert.Contains(t, out, `Unknown coin "0.10".`)
	assert.Contains(t, out, `Unknown coin "abc".`)
	assert.Contains(t, out, "Purchase is successful. Your change: none")
}

func TestRun_DeclineThenExitRefunds(t *testing.T) {
	m := newMachine(t, nil)

	out := run(t, m, "1", "no", "2", "yes", "1")

	assert.Contains(t, out, "Inserted amount: 1.00.")
	assert.Contains(t, out, "Please take your money back: 1.00 x 1")
	assert.Contains(t, out, "Good bye!")
	assert.Equal(t, usecase.AwaitingProduct, m.State())
}

func TestRun_ContextCancelled(t *testing.T) {
	m := newMachine(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	c := NewConsole(m, strings.NewReader(""), &out, logger.NewNopLogger())
	require.NoError(t, c.Run(ctx))
	assert.Contains(t, out.String(), "Good bye!")
}

func TestMatchProduct(t *testing.T) {
	products := []*domain.Product{
		domain.NewProduct("Water", 1, 100),
		domain.NewProduct("Juice", 1, 200),
	}

	assert.Same(t, products[1], matchProduct(products, "2"))
	assert.Same(t, products[0], matchProduct(products, "WATER"))
	assert.Nil(t, matchProduct(products, "0"))
	assert.Nil(t, matchProduct(products, "Cola"))
}
