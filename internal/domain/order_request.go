package domain

import (
	"fmt"
	"regexp"
)

var symbolPattern = regexp.MustCompile(`^[A-Z0-9]+$`)

type RawOrderRequest struct {
	Symbol    string   `json:"symbol"`
	Side      string   `json:"side"`
	OrderType string   `json:"order_type"`
	Quantity  float64  `json:"quantity"`
	Price     *float64 `json:"price"`
	StopPrice *float64 `json:"stop_price"`
}

type OrderRequest struct {
	Symbol    string
	Side      string
	OrderType string
	Quantity  float64
	Price     float64
	StopPrice float64
}

func ParseOrderRequest(rawRequest RawOrderRequest) (OrderRequest, error) {
	validationError := &ValidationError{}

	if rawRequest.Symbol == "" {
		validationError.Add("symbol", "symbol is required")
	} else if !symbolPattern.MatchString(rawRequest.Symbol) {
		validationError.Add("symbol", "symbol must contain only uppercase letters and numbers")
	}

	if !IsSupportedOrderSide(rawRequest.Side) {
		validationError.Add("side", "side must be either BUY or SELL")
	}

	if !IsSupportedOrderType(rawRequest.OrderType) {
		validationError.Add("order_type", fmt.Sprintf("order type must be one of %s, %s or %s", OrderTypeMarket, OrderTypeLimit, OrderTypeStopLimit))
	}

	if rawRequest.Quantity <= 0 {
		validationError.Add("quantity", "quantity must be greater than zero")
	}

	if rawRequest.Price != nil && *rawRequest.Price <= 0 {
		validationError.Add("price", "price must be greater than zero")
	}

	if rawRequest.StopPrice != nil && *rawRequest.StopPrice <= 0 {
		validationError.Add("stop_price", "stop price must be greater than zero")
	}

	if validationError.HasViolations() {
		return OrderRequest{}, validationError
	}

	orderRequest := OrderRequest{
		Symbol:    rawRequest.Symbol,
		Side:      rawRequest.Side,
		OrderType: rawRequest.OrderType,
		Quantity:  rawRequest.Quantity,
	}
	if rawRequest.Price != nil {
		orderRequest.Price = *rawRequest.Price
	}
	if rawRequest.StopPrice != nil {
		orderRequest.StopPrice = *rawRequest.StopPrice
	}

	return orderRequest, nil
}

func (orderRequest OrderRequest) ValidatePriceFields() error {
	if (orderRequest.OrderType == OrderTypeLimit || orderRequest.OrderType == OrderTypeStopLimit) && orderRequest.Price == 0 {
		return NewValidationError("price", "price is required for "+orderRequest.OrderType+" orders")
	}

	if orderRequest.OrderType == OrderTypeStopLimit && orderRequest.StopPrice == 0 {
		return NewValidationError("stop_price", "stop price is required for "+OrderTypeStopLimit+" orders")
	}

	return nil
}
