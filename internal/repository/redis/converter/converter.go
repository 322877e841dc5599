package converter

import (
	"github.com/DRSN-tech/vending-machine/internal/domain"
	"github.com/DRSN-tech/vending-machine/internal/usecase"
	"github.com/google/uuid"
)

// CheckoutConverter преобразует CheckoutRes в модель кэша и обратно.
// Суммы хранятся строками, номиналы проверяются при чтении.
type CheckoutConverter struct{}

func NewCheckoutConverter() CheckoutConverter {
	return CheckoutConverter{}
}

func (CheckoutConverter) ToRedisModel(entity *usecase.CheckoutRes) *CheckoutRedisModel {
	model := &CheckoutRedisModel{
		Outcome: string(entity.Outcome),
		Refund:  bagToMap(entity.Refund),
	}

	if sale := entity.Sale; sale != nil {
		model.Sale = &SaleRedisModel{
			ID:          sale.ID.String(),
			ProductID:   sale.ProductID.String(),
			ProductName: sale.ProductName,
			Price:       domain.FormatAmount(sale.Price),
			Inserted:    bagToMap(sale.Inserted),
			Change:      bagToMap(sale.Change),
			CreatedAt:   sale.CreatedAt,
		}
	}

	return model
}

func (CheckoutConverter) ToUseCase(model *CheckoutRedisModel) (*usecase.CheckoutRes, error) {
	refund, err := mapToBag(model.Refund)
	if err != nil {
		return nil, err
	}

	res := &usecase.CheckoutRes{
		Outcome: usecase.PurchaseOutcome(model.Outcome),
		Refund:  refund,
	}
	if model.Sale == nil {
		return res, nil
	}

	sale, err := toSale(model.Sale)
	if err != nil {
		return nil, err
	}
	res.Sale = sale

	return res, nil
}

func toSale(model *SaleRedisModel) (*domain.Sale, error) {
	id, err := uuid.Parse(model.ID)
	if err != nil {
		return nil, err
	}

	productID, err := uuid.Parse(model.ProductID)
	if err != nil {
		return nil, err
	}

	price, err := domain.ParseAmount(model.Price)
	if err != nil {
		return nil, err
	}

	inserted, err := mapToBag(model.Inserted)
	if err != nil {
		return nil, err
	}

	change, err := mapToBag(model.Change)
	if err != nil {
		return nil, err
	}

	return &domain.Sale{
		ID:          id,
		ProductID:   productID,
		ProductName: model.ProductName,
		Price:       price,
		Inserted:    inserted,
		Change:      change,
		CreatedAt:   model.CreatedAt,
	}, nil
}

func bagToMap(bag domain.CoinBag) map[string]int {
	if bag == nil {
		return nil
	}

	res := make(map[string]int, len(bag))
	for d, count := range bag {
		res[d.String()] = count
	}
	return res
}

func mapToBag(m map[string]int) (domain.CoinBag, error) {
	if m == nil {
		return nil, nil
	}

	bag := domain.NewCoinBag()
	for key, count := range m {
		d, err := domain.ParseDenomination(key)
		if err != nil {
			return nil, err
		}
		bag[d] = count
	}

	if err := bag.Validate(); err != nil {
		return nil, err
	}
	return bag, nil
}
