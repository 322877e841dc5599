package usecase

import (
	"context"
	"errors"

	"github.com/DRSN-tech/vending-machine/pkg/e"
	"github.com/DRSN-tech/vending-machine/pkg/logger"
)

// CheckoutUseCase подтверждает покупку для сетевых клиентов.
// С ключом идемпотентности повторный запрос получает сохранённый результат вместо новой попытки.
type CheckoutUseCase struct {
	machine  MachineUC
	idemRepo IdempotencyRepository
	logger   logger.Logger
}

// NewCheckoutUC создаёт usecase. idemRepo может быть nil, тогда ключи идемпотентности игнорируются.
func NewCheckoutUC(machine MachineUC, idemRepo IdempotencyRepository, logger logger.Logger) *CheckoutUseCase {
	return &CheckoutUseCase{
		machine:  machine,
		idemRepo: idemRepo,
		logger:   logger,
	}
}

// Confirm подтверждает текущую покупку. Нехватка сдачи и средств возвращается исходом с монетами для возврата, а не ошибкой.
func (c *CheckoutUseCase) Confirm(ctx context.Context, idempotencyKey string) (*CheckoutRes, error) {
	const op = "CheckoutUseCase.Confirm"

	if idempotencyKey == "" || c.idemRepo == nil {
		res, err := c.confirm(ctx)
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		return res, nil
	}

	stored, found, err := c.idemRepo.Get(ctx, idempotencyKey)
	if err != nil {
		// Без хранилища повтор не опасен: после попытки транзакция уже сброшена
		c.logger.Warnf("idempotency lookup failed, key: %s: %v", idempotencyKey, e.Wrap(op, err))
		res, err := c.confirm(ctx)
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		return res, nil
	}
	if found {
		if stored == nil {
			return nil, e.Wrap(op, e.ErrRequestInProgress)
		}
		stored.Replayed = true
		return stored, nil
	}

	reserved, err := c.idemRepo.Reserve(ctx, idempotencyKey)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if !reserved {
		return nil, e.Wrap(op, e.ErrRequestInProgress)
	}

	res, err := c.confirm(ctx)
	if err != nil {
		if relErr := c.idemRepo.Release(ctx, idempotencyKey); relErr != nil {
			c.logger.Warnf("failed to release idempotency key %s: %v", idempotencyKey, e.Wrap(op, relErr))
		}
		return nil, e.Wrap(op, err)
	}

	if err := c.idemRepo.Save(ctx, idempotencyKey, res); err != nil {
		c.logger.Warnf("failed to save checkout result, key: %s: %v", idempotencyKey, e.Wrap(op, err))
	}

	return res, nil
}

func (c *CheckoutUseCase) confirm(ctx context.Context) (*CheckoutRes, error) {
	purchase, ok, err := c.machine.ConfirmPurchase(ctx)
	if err != nil {
		if purchase != nil {
			switch {
			case errors.Is(err, e.ErrInsufficientChange):
				return NewCheckoutRes(OutcomeNotEnoughChange, nil, purchase.Refund), nil
			case errors.Is(err, e.ErrInsufficientFunds):
				return NewCheckoutRes(OutcomeInsufficientFunds, nil, purchase.Refund), nil
			}
		}
		return nil, err
	}
	if !ok {
		return NewCheckoutRes(OutcomeNothingToConfirm, nil, nil), nil
	}

	return NewCheckoutRes(OutcomePurchased, purchase.Sale, nil), nil
}
