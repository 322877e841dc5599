package usecase

import (
	"time"

	"github.com/DRSN-tech/vending-machine/internal/domain"
	"github.com/google/uuid"
)

// MACHINE USECASE

// State — состояние текущей транзакции покупателя.
type State string

const (
	AwaitingProduct State = "awaiting_product"
	AwaitingPayment State = "awaiting_payment"
)

// ProductInfo — DTO с информацией о товаре для внешних интерфейсов.
type ProductInfo struct {
	ID       uuid.UUID
	Name     string
	Price    int64
	Quantity int
}

// TransactionInfo — снимок текущей транзакции.
type TransactionInfo struct {
	State           State
	Product         *ProductInfo
	Inserted        domain.CoinBag
	InsertedSum     int64
	SufficientFunds bool
}

// PurchaseRes — итог попытки покупки.
type PurchaseRes struct {
	Sale   *domain.Sale   // nil, если покупка не состоялась
	Refund domain.CoinBag // монеты, которые надо вернуть покупателю, если покупка не состоялась
}

// CHECKOUT USECASE

type PurchaseOutcome string

const (
	OutcomeNothingToConfirm  PurchaseOutcome = "nothing_to_confirm"
	OutcomePurchased         PurchaseOutcome = "purchased"
	OutcomeNotEnoughChange   PurchaseOutcome = "not_enough_change"
	OutcomeInsufficientFunds PurchaseOutcome = "insufficient_funds"
)

// CheckoutRes — результат подтверждения покупки через сетевые интерфейсы.
type CheckoutRes struct {
	Outcome  PurchaseOutcome
	Sale     *domain.Sale
	Refund   domain.CoinBag
	Replayed bool // результат взят из хранилища идемпотентности
}

// OUTBOX

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
)

type SaleEventType string

const SaleRecorded SaleEventType = "sale_recorded"

// SaleEvent — запись журнала продаж в таблице outbox.
type SaleEvent struct {
	ID          int64
	EventID     uuid.UUID
	EventType   SaleEventType
	ProductID   uuid.UUID
	Payload     []byte
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// SaleRecordedPayload — тело события SaleRecorded. Суммы передаются строками вида "1.50".
type SaleRecordedPayload struct {
	SaleID      uuid.UUID      `json:"sale_id"`
	ProductID   uuid.UUID      `json:"product_id"`
	ProductName string         `json:"product_name"`
	Price       string         `json:"price"`
	Inserted    domain.CoinBag `json:"inserted"`
	Change      domain.CoinBag `json:"change"`
	CreatedAt   time.Time      `json:"created_at"`
}

// INFRASTRUCTURE

type WriteRawMessageReq struct {
	Key     string
	Payload []byte
}

// MAPPERS

func NewProductInfo(p *domain.Product) ProductInfo {
	return ProductInfo{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Quantity: p.Quantity,
	}
}

func NewProductInfos(products []*domain.Product) []ProductInfo {
	res := make([]ProductInfo, 0, len(products))
	for _, p := range products {
		res = append(res, NewProductInfo(p))
	}
	return res
}

func NewPurchaseRes(sale *domain.Sale, refund domain.CoinBag) *PurchaseRes {
	return &PurchaseRes{
		Sale:   sale,
		Refund: refund,
	}
}

func NewCheckoutRes(outcome PurchaseOutcome, sale *domain.Sale, refund domain.CoinBag) *CheckoutRes {
	return &CheckoutRes{
		Outcome: outcome,
		Sale:    sale,
		Refund:  refund,
	}
}

func NewSaleEvent(sale *domain.Sale, payload []byte) *SaleEvent {
	return &SaleEvent{
		EventID:   sale.ID,
		EventType: SaleRecorded,
		ProductID: sale.ProductID,
		Payload:   payload,
		Status:    Pending,
		CreatedAt: sale.CreatedAt,
	}
}

func NewSaleRecordedPayload(sale *domain.Sale) *SaleRecordedPayload {
	return &SaleRecordedPayload{
		SaleID:      sale.ID,
		ProductID:   sale.ProductID,
		ProductName: sale.ProductName,
		Price:       domain.FormatAmount(sale.Price),
		Inserted:    sale.Inserted,
		Change:      sale.Change,
		CreatedAt:   sale.CreatedAt,
	}
}

func NewWriteRawMessageReq(key string, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		Key:     key,
		Payload: payload,
	}
}
