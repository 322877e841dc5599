package usecase

import (
	"context"

	"github.com/DRSN-tech/vending-machine/internal/domain"
)

// SalesJournal фиксирует завершённые продажи.
type SalesJournal interface {
	RecordSale(ctx context.Context, sale *domain.Sale) error
}

type MessageProducer interface {
	WriteRawMessage(ctx context.Context, req *WriteRawMessageReq) error
}
