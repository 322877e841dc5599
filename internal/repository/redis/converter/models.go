package converter

import "time"

// CheckoutRedisModel — сохранённый результат подтверждения покупки.
type CheckoutRedisModel struct {
	Outcome string          `json:"outcome"`
	Sale    *SaleRedisModel `json:"sale,omitempty"`
	Refund  map[string]int  `json:"refund,omitempty"`
}

type SaleRedisModel struct {
	ID          string         `json:"id"`
	ProductID   string         `json:"product_id"`
	ProductName string         `json:"product_name"`
	Price       string         `json:"price"`
	Inserted    map[string]int `json:"inserted"`
	Change      map[string]int `json:"change"`
	CreatedAt   time.Time      `json:"created_at"`
}
