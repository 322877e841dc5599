package grpc

import (
	"time"

	"github.com/DRSN-tech/vending-machine/internal/domain"
	"github.com/DRSN-tech/vending-machine/internal/usecase"
	"google.golang.org/protobuf/types/known/structpb"
)

// Сообщения сервиса передаются как google.protobuf.Struct с теми же полями, что и в HTTP API.

func coinBagValue(b domain.CoinBag) map[string]any {
	res := make(map[string]any, len(b))
	for d, count := range b {
		res[d.String()] = count
	}
	return res
}

func productValue(p usecase.ProductInfo) map[string]any {
	return map[string]any{
		"id":       p.ID.String(),
		"name":     p.Name,
		"price":    domain.FormatAmount(p.Price),
		"quantity": p.Quantity,
	}
}

func toProductsStruct(products []usecase.ProductInfo) (*structpb.Struct, error) {
	items := make([]any, len(products))
	for i, p := range products {
		items[i] = productValue(p)
	}
	return structpb.NewStruct(map[string]any{"products": items})
}

func toTransactionStruct(info usecase.TransactionInfo) (*structpb.Struct, error) {
	fields := map[string]any{
		"state":            string(info.State),
		"inserted":         coinBagValue(info.Inserted),
		"inserted_sum":     domain.FormatAmount(info.InsertedSum),
		"sufficient_funds": info.SufficientFunds,
	}
	if info.Product != nil {
		fields["product"] = productValue(*info.Product)
	}
	return structpb.NewStruct(fields)
}

func toCheckoutStruct(res *usecase.CheckoutRes) (*structpb.Struct, error) {
	fields := map[string]any{
		"outcome":  string(res.Outcome),
		"replayed": res.Replayed,
	}
	if len(res.Refund) > 0 {
		fields["refund"] = coinBagValue(res.Refund)
	}
	if sale := res.Sale; sale != nil {
		fields["sale"] = map[string]any{
			"id":           sale.ID.String(),
			"product_id":   sale.ProductID.String(),
			"product_name": sale.ProductName,
			"price":        domain.FormatAmount(sale.Price),
			"inserted":     coinBagValue(sale.Inserted),
			"change":       coinBagValue(sale.Change),
			"created_at":   sale.CreatedAt.UTC().Format(time.RFC3339Nano),
		}
	}
	return structpb.NewStruct(fields)
}

func toRefundStruct(refund domain.CoinBag) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{"refund": coinBagValue(refund)})
}

func toVaultStruct(coins domain.CoinBag) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"coins": coinBagValue(coins),
		"total": domain.FormatAmount(coins.Sum()),
	})
}

// stringField возвращает строковое поле запроса или пустую строку.
func stringField(req *structpb.Struct, name string) string {
	return req.GetFields()[name].GetStringValue()
}
