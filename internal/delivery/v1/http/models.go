package http

import (
	"time"

	"github.com/DRSN-tech/vending-machine/internal/domain"
	"github.com/DRSN-tech/vending-machine/internal/usecase"
)

// Денежные суммы в ответах — строки с двумя знаками после точки ("1.50").

type ProductResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Quantity int    `json:"quantity"`
}

type TransactionResponse struct {
	State           string           `json:"state"`
	Product         *ProductResponse `json:"product,omitempty"`
	Inserted        domain.CoinBag   `json:"inserted"`
	InsertedSum     string           `json:"inserted_sum"`
	SufficientFunds bool             `json:"sufficient_funds"`
}

type SelectProductRequest struct {
	ProductID string `json:"product_id"`
}

type InsertCoinRequest struct {
	Coin string `json:"coin"`
}

type SaleResponse struct {
	ID          string         `json:"id"`
	ProductID   string         `json:"product_id"`
	ProductName string         `json:"product_name"`
	Price       string         `json:"price"`
	Inserted    domain.CoinBag `json:"inserted"`
	Change      domain.CoinBag `json:"change"`
	CreatedAt   time.Time      `json:"created_at"`
}

type CheckoutResponse struct {
	Outcome  string         `json:"outcome"`
	Sale     *SaleResponse  `json:"sale,omitempty"`
	Refund   domain.CoinBag `json:"refund,omitempty"`
	Replayed bool           `json:"replayed"`
}

type RefundResponse struct {
	Refund domain.CoinBag `json:"refund"`
}

type VaultResponse struct {
	Coins domain.CoinBag `json:"coins"`
	Total string         `json:"total"`
}

func toProductResponse(p usecase.ProductInfo) ProductResponse {
	return ProductResponse{
		ID:       p.ID.String(),
		Name:     p.Name,
		Price:    domain.FormatAmount(p.Price),
		Quantity: p.Quantity,
	}
}

func toArrProductResponse(products []usecase.ProductInfo) []ProductResponse {
	res := make([]ProductResponse, len(products))
	for i, p := range products {
		res[i] = toProductResponse(p)
	}
	return res
}

func toTransactionResponse(info usecase.TransactionInfo) TransactionResponse {
	res := TransactionResponse{
		State:           string(info.State),
		Inserted:        info.Inserted,
		InsertedSum:     domain.FormatAmount(info.InsertedSum),
		SufficientFunds: info.SufficientFunds,
	}
	if info.Product != nil {
		product := toProductResponse(*info.Product)
		res.Product = &product
	}
	return res
}

func toCheckoutResponse(res *usecase.CheckoutRes) CheckoutResponse {
	out := CheckoutResponse{
		Outcome:  string(res.Outcome),
		Refund:   res.Refund,
		Replayed: res.Replayed,
	}
	if sale := res.Sale; sale != nil {
		out.Sale = &SaleResponse{
			ID:          sale.ID.String(),
			ProductID:   sale.ProductID.String(),
			ProductName: sale.ProductName,
			Price:       domain.FormatAmount(sale.Price),
			Inserted:    sale.Inserted,
			Change:      sale.Change,
			CreatedAt:   sale.CreatedAt,
		}
	}
	return out
}

func toVaultResponse(coins domain.CoinBag) VaultResponse {
	return VaultResponse{
		Coins: coins,
		Total: domain.FormatAmount(coins.Sum()),
	}
}
