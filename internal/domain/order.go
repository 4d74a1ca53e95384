package domain

import "strings"

const (
	OrderSideBuy  = "BUY"
	OrderSideSell = "SELL"

	OrderTypeMarket    = "MARKET"
	OrderTypeLimit     = "LIMIT"
	OrderTypeStopLimit = "STOP_LIMIT"

	TimeInForceGoodTilCancelled = "GTC"

	OrderStatusNew    = "NEW"
	OrderStatusFilled = "FILLED"
)

const (
	OperatingModeLive = "LIVE"
	OperatingModeDemo = "DEMO"
)

func NormalizeOrderInput(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}

func IsSupportedOrderSide(side string) bool {
	return side == OrderSideBuy || side == OrderSideSell
}

func IsSupportedOrderType(orderType string) bool {
	return orderType == OrderTypeMarket || orderType == OrderTypeLimit || orderType == OrderTypeStopLimit
}
