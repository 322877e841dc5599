// Package vault хранит запас монет автомата и подбирает сдачу.
package vault

import (
	"fmt"
	"sync"

	"github.com/DRSN-tech/vending-machine/internal/domain"
	"github.com/DRSN-tech/vending-machine/pkg/e"
)

// CoinVault — монетный запас автомата.
type CoinVault struct {
	mu    sync.RWMutex
	coins domain.CoinBag
}

func New() *CoinVault {
	return &CoinVault{coins: domain.NewCoinBag()}
}

// Deposit добавляет count монет номинала d к запасу.
func (v *CoinVault) Deposit(d domain.Denomination, count int) error {
	const op = "CoinVault.Deposit"

	if err := domain.ValidateDenomination(d); err != nil {
		return e.Wrap(op, err)
	}
	if count < 0 {
		return e.Wrap(op, e.Wrap(fmt.Sprintf("count %d", count), e.ErrNegativeCount))
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	v.coins[d] += count
	return nil
}

// Reconcile атомарно добавляет внесённые монеты и списывает выданную сдачу.
// Если какое-либо количество становится отрицательным, запас не меняется.
func (v *CoinVault) Reconcile(inserted, change domain.CoinBag) error {
	const op = "CoinVault.Reconcile"

	if err := inserted.Validate(); err != nil {
		return e.Wrap(op, err)
	}
	if err := change.Validate(); err != nil {
		return e.Wrap(op, err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	next, err := v.coins.Add(inserted).Sub(change)
	if err != nil {
		return e.Wrap(op, err)
	}

	v.coins = next
	return nil
}

// Snapshot возвращает копию текущего запаса.
func (v *CoinVault) Snapshot() domain.CoinBag {
	v.mu.RLock()
	defer v.mu.RUnlock()

	return v.coins.Clone()
}

// ComputeChange подбирает сдачу на сумму target (в центах) из запаса и только что внесённых монет.
// Состояние запаса не меняется.
func (v *CoinVault) ComputeChange(target int64, inserted domain.CoinBag) (domain.CoinBag, error) {
	const op = "CoinVault.ComputeChange"

	if target < 0 {
		return nil, e.Wrap(op, e.Wrap(fmt.Sprintf("target %d", target), e.ErrInvalidAmount))
	}
	if target == 0 {
		return domain.NewCoinBag(), nil
	}
	if err := inserted.Validate(); err != nil {
		return nil, e.Wrap(op, err)
	}

	v.mu.RLock()
	pool := v.coins.Add(inserted)
	v.mu.RUnlock()

	change, err := computeChange(target, pool)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return change, nil
}
