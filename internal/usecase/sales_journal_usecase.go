package usecase

import (
	"context"
	"encoding/json"

	"github.com/DRSN-tech/vending-machine/internal/domain"
	"github.com/DRSN-tech/vending-machine/pkg/e"
	"github.com/DRSN-tech/vending-machine/pkg/logger"
	"github.com/DRSN-tech/vending-machine/pkg/tr"
	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
)

// SalesJournalUseCase записывает продажи в outbox-таблицу. Доставкой событий в Kafka занимается OutboxWorker.
// Журнал только пополняется и при старте не читается: состояние автомата между перезапусками не восстанавливается.
type SalesJournalUseCase struct {
	saleEventRepo SaleEventRepository
	dbPool        transaction.Transactional
	logger        logger.Logger
}

func NewSalesJournalUC(saleEventRepo SaleEventRepository, dbPool transaction.Transactional, logger logger.Logger) *SalesJournalUseCase {
	return &SalesJournalUseCase{
		saleEventRepo: saleEventRepo,
		dbPool:        dbPool,
		logger:        logger,
	}
}

// RecordSale сохраняет событие SaleRecorded в рамках транзакции БД.
func (s *SalesJournalUseCase) RecordSale(ctx context.Context, sale *domain.Sale) error {
	const op = "SalesJournalUseCase.RecordSale"

	event, err := BuildSaleEvent(sale)
	if err != nil {
		return e.Wrap(op, err)
	}

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, s.dbPool)
	if err != nil {
		return e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Warnf("rollback failed: %v", e.Wrap(op, rbErr))
			}
		}
	}()
	ctx = tr.WithTx(ctx, tx.Transaction())

	created, err := s.saleEventRepo.Create(ctx, event)
	if err != nil {
		return e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return e.Wrap(op, err)
	}

	s.logger.Debugf("sale recorded. event_id: %s, outbox_id: %d", created.EventID, created.ID)
	return nil
}

// BuildSaleEvent формирует outbox-событие с JSON-телом SaleRecordedPayload.
func BuildSaleEvent(sale *domain.Sale) (*SaleEvent, error) {
	payload, err := json.Marshal(NewSaleRecordedPayload(sale))
	if err != nil {
		return nil, err
	}

	return NewSaleEvent(sale, payload), nil
}
