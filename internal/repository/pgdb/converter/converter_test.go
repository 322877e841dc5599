package converter

import (
	"testing"
	"time"

	"github.com/DRSN-tech/vending-machine/internal/usecase"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSaleEventConverter(t *testing.T) {
	conv := NewSaleEventConverter()
	processedAt := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	entity := &usecase.SaleEvent{
		ID:          7,
		EventID:     uuid.New(),
		EventType:   usecase.SaleRecorded,
		ProductID:   uuid.New(),
		Payload:     []byte(`{"price":"1.00"}`),
		Status:      usecase.Processed,
		CreatedAt:   processedAt.Add(-time.Minute),
		ProcessedAt: &processedAt,
	}

	model := conv.ToModel(entity)
	assert.Equal(t, "sale_recorded", model.EventType)
	assert.Equal(t, "processed", model.Status)

	assert.Equal(t, entity, conv.ToEntity(model))
	assert.Equal(t, []*usecase.SaleEvent{entity}, conv.ToArrEntity([]*SaleEventModel{model}))
	assert.Nil(t, conv.ToEntity(nil))
}
