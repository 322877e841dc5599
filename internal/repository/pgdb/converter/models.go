package converter

import (
	"time"

	"github.com/google/uuid"
)

// SaleEventModel представляет запись таблицы sale_events в PostgreSQL.
type SaleEventModel struct {
	ID          int64      `db:"id"`
	EventID     uuid.UUID  `db:"event_id"`
	EventType   string     `db:"event_type"`
	ProductID   uuid.UUID  `db:"product_id"`
	Payload     []byte     `db:"payload"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	ProcessedAt *time.Time `db:"processed_at"`
}
