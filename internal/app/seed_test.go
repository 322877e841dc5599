package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/DRSN-tech/vending-machine/internal/catalog"
	"github.com/DRSN-tech/vending-machine/internal/domain"
	"github.com/DRSN-tech/vending-machine/internal/usecase"
	"github.com/DRSN-tech/vending-machine/internal/vault"
	"github.com/DRSN-tech/vending-machine/pkg/e"
	"github.com/DRSN-tech/vending-machine/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMachine() *usecase.MachineUseCase {
	return usecase.NewMachineUC(catalog.New(), vault.New(), nil, logger.NewNopLogger())
}

func writeSeed(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadSeed_Default(t *testing.T) {
	seed, err := LoadSeed("")
	require.NoError(t, err)

	m := newMachine()
	require.NoError(t, seed.Apply(m))

	products := m.ListProducts()
	require.Len(t, products, 4)
	assert.Equal(t, "Coca Cola", products[0].Name)
	assert.Equal(t, int64(200), products[0].Price)
	assert.Equal(t, 5, m.VaultSnapshot()[domain.Coin025])
}

func TestLoadSeed_File(t *testing.T) {
	path := writeSeed(t, `{
		"products": [{"name": "Tea", "quantity": 4, "price": "1.75"}],
		"coins": [{"coin": "0.25", "count": 3}]
	}`)

	seed, err := LoadSeed(path)
	require.NoError(t, err)

	m := newMachine()
	require.NoError(t, seed.Apply(m))

	products := m.ListProducts()
	require.Len(t, products, 1)
	assert.Equal(t, int64(175), products[0].Price)
	assert.True(t, m.VaultSnapshot().Equal(domain.CoinBag{domain.Coin025: 3}))
}

func TestLoadSeed_Errors(t *testing.T) {
	_, err := LoadSeed(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = LoadSeed(writeSeed(t, `{"products": [`))
	assert.ErrorIs(t, err, e.ErrInvalidInput)
}

func TestLoadSeed_WholeFloatCounts(t *testing.T) {
	path := writeSeed(t, `{
		"products": [{"name": "Tea", "quantity": 4.0, "price": "1.75"}],
		"coins": [{"coin": "0.50", "count": 2.0}]
	}`)

	seed, err := LoadSeed(path)
	require.NoError(t, err)

	m := newMachine()
	require.NoError(t, seed.Apply(m))
	assert.Equal(t, 4, m.ListProducts()[0].Quantity)
	assert.True(t, m.VaultSnapshot().Equal(domain.CoinBag{domain.Coin050: 2}))
}

func TestLoadSeed_FractionalCount(t *testing.T) {
	seed, err := LoadSeed(writeSeed(t, `{"coins": [{"coin": "0.50", "count": 1.5}]}`))
	require.NoError(t, err)

	m := newMachine()
	assert.ErrorIs(t, seed.Apply(m), e.ErrNegativeCount)
	assert.Zero(t, m.VaultSnapshot()[domain.Coin050])
}

func TestSeedApply_Validation(t *testing.T) {
	tests := []struct {
		name string
		seed Seed
		err  error
	}{
		{"bad price", Seed{Products: []SeedProduct{{Name: "Tea", Quantity: "1", Price: "1.234"}}}, e.ErrAmountPrecision},
		{"negative quantity", Seed{Products: []SeedProduct{{Name: "Tea", Quantity: "-1", Price: "1.00"}}}, e.ErrNegativeCount},
		{"fractional quantity", Seed{Products: []SeedProduct{{Name: "Tea", Quantity: "1.5", Price: "1.00"}}}, e.ErrNegativeCount},
		{"missing quantity", Seed{Products: []SeedProduct{{Name: "Tea", Price: "1.00"}}}, e.ErrNegativeCount},
		{"unknown coin", Seed{Coins: []SeedCoin{{Coin: "0.10", Count: "1"}}}, e.ErrUnknownDenomination},
		{"negative coin count", Seed{Coins: []SeedCoin{{Coin: "1.00", Count: "-2"}}}, e.ErrNegativeCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.seed.Apply(newMachine()), tt.err)
		})
	}
}
