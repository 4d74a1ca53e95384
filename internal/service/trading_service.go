package service

import (
	"context"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"futures-gateway/internal/domain"
	"futures-gateway/internal/repository"
)

var ordersSubmittedCounters = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "gateway_orders_submitted_total",
	Help: "order submission attempts by type, mode and outcome",
}, []string{"order_type", "mode", "outcome"})

var historyWriteFailureCounter = prometheus.NewCounter(prometheus.CounterOpts{
	Name: "gateway_order_history_write_failures_total",
	Help: "order history writes that failed after a successful placement",
})

func init() {
	prometheus.MustRegister(ordersSubmittedCounters, historyWriteFailureCounter)
}

// TradingService routes validated requests to the exchange client or to the
// demo simulator, normalizes the outcome and records it. One attempt per call,
// no retries, no queuing.
type TradingService struct {
	ExchangeClient    ExchangeClient
	HistoryRepository repository.OrderHistoryRepository
	Simulator         *DemoOrderSimulator
	Logger            *zap.Logger
	DemoModeActive    bool
	UseTestnet        bool
}

func NewTradingService(exchangeClient ExchangeClient, historyRepository repository.OrderHistoryRepository, simulator *DemoOrderSimulator, logger *zap.Logger, demoModeActive bool, useTestnet bool) *TradingService {
	return &TradingService{
		ExchangeClient:    exchangeClient,
		HistoryRepository: historyRepository,
		Simulator:         simulator,
		Logger:            logger,
		DemoModeActive:    demoModeActive,
		UseTestnet:        useTestnet,
	}
}

func (service *TradingService) OperatingMode() string {
	if service.DemoModeActive {
		return domain.OperatingModeDemo
	}
	return domain.OperatingModeLive
}

func (service *TradingService) PlaceOrder(requestContext context.Context, orderRequest domain.OrderRequest) (domain.OrderResult, error) {
	priceValidationError := orderRequest.ValidatePriceFields()
	if priceValidationError != nil {
		ordersSubmittedCounters.WithLabelValues(orderRequest.OrderType, service.OperatingMode(), "rejected").Inc()
		return domain.OrderResult{}, priceValidationError
	}

	var orderResult domain.OrderResult

	if service.DemoModeActive {
		orderResult = service.Simulator.SimulateOrder(orderRequest)
		service.Logger.Info("simulated order placed",
			zap.Int64("orderId", orderResult.OrderID),
			zap.String("symbol", orderRequest.Symbol),
			zap.String("status", orderResult.Status))
	} else {
		placedOrder, placementError := service.dispatchLiveOrder(requestContext, orderRequest)
		if placementError != nil {
			ordersSubmittedCounters.WithLabelValues(orderRequest.OrderType, service.OperatingMode(), "failed").Inc()
			return domain.OrderResult{}, placementError
		}
		orderResult = normalizeExchangeOrder(placedOrder, orderRequest)
		service.Logger.Info("order placed",
			zap.Int64("orderId", orderResult.OrderID),
			zap.String("symbol", orderRequest.Symbol),
			zap.String("status", orderResult.Status))
	}

	// The order already happened; losing the history write must not unwind it.
	historyItem := domain.NewOrderHistoryItem(orderRequest, orderResult)
	appendError := service.HistoryRepository.AppendOrderHistoryItem(requestContext, historyItem)
	if appendError != nil {
		historyWriteFailureCounter.Inc()
		service.Logger.Error("could not record order history",
			zap.Int64("orderId", orderResult.OrderID),
			zap.Error(appendError))
	}

	ordersSubmittedCounters.WithLabelValues(orderRequest.OrderType, service.OperatingMode(), "placed").Inc()
	return orderResult, nil
}

func (service *TradingService) dispatchLiveOrder(requestContext context.Context, orderRequest domain.OrderRequest) (ExchangeOrder, error) {
	if service.ExchangeClient == nil {
		return ExchangeOrder{}, domain.ErrClientNotConfigured
	}

	switch orderRequest.OrderType {
	case domain.OrderTypeMarket:
		return service.ExchangeClient.CreateOrder(requestContext, CreateOrderParameters{
			Symbol:    orderRequest.Symbol,
			Side:      orderRequest.Side,
			OrderType: domain.OrderTypeMarket,
			Quantity:  orderRequest.Quantity,
		})
	case domain.OrderTypeLimit:
		return service.ExchangeClient.CreateOrder(requestContext, CreateOrderParameters{
			Symbol:      orderRequest.Symbol,
			Side:        orderRequest.Side,
			OrderType:   domain.OrderTypeLimit,
			Quantity:    orderRequest.Quantity,
			Price:       orderRequest.Price,
			TimeInForce: domain.TimeInForceGoodTilCancelled,
		})
	default:
		// STOP_LIMIT is accepted by the request model but has no live dispatch
		// branch; it fails here explicitly instead of being misrouted.
		return ExchangeOrder{}, &domain.UnsupportedOrderTypeError{OrderType: orderRequest.OrderType}
	}
}

func (service *TradingService) GetAccountInformation(requestContext context.Context) (AccountInformation, error) {
	if service.DemoModeActive || service.ExchangeClient == nil {
		return AccountInformation{}, domain.ErrClientNotConfigured
	}

	return service.ExchangeClient.GetAccountInformation(requestContext)
}

func (service *TradingService) GetBalances(requestContext context.Context) ([]AssetBalance, error) {
	if service.DemoModeActive {
		return service.Simulator.PlaceholderBalances(), nil
	}

	if service.ExchangeClient == nil {
		return nil, domain.ErrClientNotConfigured
	}

	return service.ExchangeClient.GetBalances(requestContext)
}

func (service *TradingService) GetTickerPrice(requestContext context.Context, tradingPairSymbol string) (TickerPrice, error) {
	normalizedSymbol := domain.NormalizeOrderInput(tradingPairSymbol)

	if service.DemoModeActive {
		return service.Simulator.PlaceholderTickerPrice(normalizedSymbol), nil
	}

	if service.ExchangeClient == nil {
		return TickerPrice{}, domain.ErrClientNotConfigured
	}

	return service.ExchangeClient.GetTickerPrice(requestContext, normalizedSymbol)
}

func (service *TradingService) ListOpenOrders(requestContext context.Context, tradingPairSymbol string) ([]ExchangeOrder, error) {
	if service.DemoModeActive {
		return []ExchangeOrder{}, nil
	}

	if service.ExchangeClient == nil {
		return nil, domain.ErrClientNotConfigured
	}

	return service.ExchangeClient.ListOpenOrders(requestContext, domain.NormalizeOrderInput(tradingPairSymbol))
}

func (service *TradingService) CancelOrder(requestContext context.Context, tradingPairSymbol string, orderID int64) (ExchangeOrder, error) {
	if service.DemoModeActive || service.ExchangeClient == nil {
		return ExchangeOrder{}, domain.ErrClientNotConfigured
	}

	return service.ExchangeClient.CancelOrder(requestContext, domain.NormalizeOrderInput(tradingPairSymbol), orderID)
}

func (service *TradingService) GetOrderStatus(requestContext context.Context, tradingPairSymbol string, orderID int64) (ExchangeOrder, error) {
	if service.DemoModeActive || service.ExchangeClient == nil {
		return ExchangeOrder{}, domain.ErrClientNotConfigured
	}

	return service.ExchangeClient.GetOrderStatus(requestContext, domain.NormalizeOrderInput(tradingPairSymbol), orderID)
}

func (service *TradingService) CheckConnectivity(requestContext context.Context) ConnectivityStatus {
	if service.ExchangeClient == nil {
		return ConnectivityStatus{State: ConnectivityStateTransportFailed, ProbeError: domain.ErrClientNotConfigured}
	}

	return service.ExchangeClient.CheckConnectivity(requestContext)
}

func (service *TradingService) ListOrderHistory(requestContext context.Context, limit int) ([]domain.OrderHistoryItem, error) {
	if limit <= 0 {
		limit = 50
	}

	return service.HistoryRepository.ListRecentOrderHistory(requestContext, limit)
}

func normalizeExchangeOrder(placedOrder ExchangeOrder, orderRequest domain.OrderRequest) domain.OrderResult {
	return domain.OrderResult{
		Success:          true,
		OrderID:          placedOrder.OrderID,
		Symbol:           placedOrder.Symbol,
		Side:             placedOrder.Side,
		OrderType:        placedOrder.OrderType,
		Status:           placedOrder.Status,
		Quantity:         parseDecimalOrZero(placedOrder.OriginalQuantity, orderRequest.Quantity),
		ExecutedQuantity: parseDecimalOrZero(placedOrder.ExecutedQuantity, 0),
		Price:            parseDecimalOrZero(placedOrder.Price, orderRequest.Price),
		AveragePrice:     parseDecimalOrZero(placedOrder.AveragePrice, 0),
		Message:          orderRequest.OrderType + " order placed successfully",
	}
}

func parseDecimalOrZero(rawValue string, fallbackValue float64) float64 {
	if rawValue == "" {
		return fallbackValue
	}

	parsedValue, parseError := strconv.ParseFloat(rawValue, 64)
	if parseError != nil {
		return fallbackValue
	}

	return parsedValue
}
