package domain

type OrderResult struct {
	Success          bool    `json:"success"`
	OrderID          int64   `json:"order_id"`
	Symbol           string  `json:"symbol"`
	Side             string  `json:"side"`
	OrderType        string  `json:"type"`
	Status           string  `json:"status"`
	Quantity         float64 `json:"quantity"`
	ExecutedQuantity float64 `json:"executed_qty"`
	Price            float64 `json:"price,omitempty"`
	AveragePrice     float64 `json:"avg_price,omitempty"`
	Message          string  `json:"message,omitempty"`
	Error            string  `json:"error,omitempty"`
}
