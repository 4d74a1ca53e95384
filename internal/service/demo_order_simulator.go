package service

import (
	"math/rand"
	"sync"

	"futures-gateway/internal/domain"
)

const (
	demoOrderIDLowerBound = 10000000
	demoOrderIDUpperBound = 99999999

	// The synthetic fill price is a fixed base plus seeded jitter. It is a
	// placeholder, never a market quote; results carry a DEMO MODE message.
	demoBaseFillPrice   = 50000.0
	demoFillPriceJitter = 1000.0
)

// DemoOrderSimulator synthesizes order results without any network access.
// The generator is seeded by the caller so demo runs are reproducible.
type DemoOrderSimulator struct {
	mutex  sync.Mutex
	random *rand.Rand
}

func NewDemoOrderSimulator(seed int64) *DemoOrderSimulator {
	return &DemoOrderSimulator{random: rand.New(rand.NewSource(seed))}
}

func (simulator *DemoOrderSimulator) SimulateOrder(orderRequest domain.OrderRequest) domain.OrderResult {
	simulator.mutex.Lock()
	defer simulator.mutex.Unlock()

	orderResult := domain.OrderResult{
		Success:   true,
		OrderID:   demoOrderIDLowerBound + simulator.random.Int63n(demoOrderIDUpperBound-demoOrderIDLowerBound),
		Symbol:    orderRequest.Symbol,
		Side:      orderRequest.Side,
		OrderType: orderRequest.OrderType,
		Quantity:  orderRequest.Quantity,
		Price:     orderRequest.Price,
		Message:   "DEMO MODE: " + orderRequest.OrderType + " order simulated successfully",
	}

	if orderRequest.OrderType == domain.OrderTypeMarket {
		orderResult.Status = domain.OrderStatusFilled
		orderResult.ExecutedQuantity = orderRequest.Quantity
		orderResult.AveragePrice = demoBaseFillPrice + (simulator.random.Float64()*2-1)*demoFillPriceJitter
	} else {
		orderResult.Status = domain.OrderStatusNew
	}

	return orderResult
}

func (simulator *DemoOrderSimulator) PlaceholderTickerPrice(tradingPairSymbol string) TickerPrice {
	return TickerPrice{Symbol: tradingPairSymbol, Price: formatDecimal(demoBaseFillPrice)}
}

func (simulator *DemoOrderSimulator) PlaceholderBalances() []AssetBalance {
	return []AssetBalance{
		{Asset: "USDT", WalletBalance: "10000.00000000", AvailableBalance: "9500.00000000"},
		{Asset: "BTC", WalletBalance: "0.05000000", AvailableBalance: "0.05000000"},
	}
}
