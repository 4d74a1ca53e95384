package domain

import (
	"time"

	"github.com/google/uuid"
)

type OrderHistoryItem struct {
	Identifier       string    `json:"id"`
	SubmittedAt      time.Time `json:"timestamp"`
	OrderID          int64     `json:"order_id"`
	Symbol           string    `json:"symbol"`
	Side             string    `json:"side"`
	OrderType        string    `json:"order_type"`
	Quantity         float64   `json:"quantity"`
	Price            float64   `json:"price,omitempty"`
	StopPrice        float64   `json:"stop_price,omitempty"`
	Status           string    `json:"status"`
	ExecutedQuantity float64   `json:"executed_qty"`
	AveragePrice     float64   `json:"avg_price,omitempty"`
}

func NewOrderHistoryItem(orderRequest OrderRequest, orderResult OrderResult) OrderHistoryItem {
	return OrderHistoryItem{
		Identifier:       uuid.NewString(),
		SubmittedAt:      time.Now().UTC(),
		OrderID:          orderResult.OrderID,
		Symbol:           orderRequest.Symbol,
		Side:             orderRequest.Side,
		OrderType:        orderRequest.OrderType,
		Quantity:         orderRequest.Quantity,
		Price:            orderRequest.Price,
		StopPrice:        orderRequest.StopPrice,
		Status:           orderResult.Status,
		ExecutedQuantity: orderResult.ExecutedQuantity,
		AveragePrice:     orderResult.AveragePrice,
	}
}
