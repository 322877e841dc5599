package converter

import "github.com/DRSN-tech/vending-machine/internal/usecase"

// SaleEventConverter преобразует SaleEvent между usecase и моделью PostgreSQL.
type SaleEventConverter struct{}

func NewSaleEventConverter() SaleEventConverter {
	return SaleEventConverter{}
}

func (SaleEventConverter) ToModel(entity *usecase.SaleEvent) *SaleEventModel {
	if entity == nil {
		return nil
	}

	return &SaleEventModel{
		ID:          entity.ID,
		EventID:     entity.EventID,
		EventType:   string(entity.EventType),
		ProductID:   entity.ProductID,
		Payload:     entity.Payload,
		Status:      string(entity.Status),
		CreatedAt:   entity.CreatedAt,
		ProcessedAt: entity.ProcessedAt,
	}
}

func (SaleEventConverter) ToEntity(model *SaleEventModel) *usecase.SaleEvent {
	if model == nil {
		return nil
	}

	return &usecase.SaleEvent{
		ID:          model.ID,
		EventID:     model.EventID,
		EventType:   usecase.SaleEventType(model.EventType),
		ProductID:   model.ProductID,
		Payload:     model.Payload,
		Status:      usecase.OutboxStatus(model.Status),
		CreatedAt:   model.CreatedAt,
		ProcessedAt: model.ProcessedAt,
	}
}

func (c SaleEventConverter) ToArrEntity(models []*SaleEventModel) []*usecase.SaleEvent {
	res := make([]*usecase.SaleEvent, 0, len(models))
	for _, model := range models {
		res = append(res, c.ToEntity(model))
	}
	return res
}
