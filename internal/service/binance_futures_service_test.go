package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"futures-gateway/internal/domain"
)

func TestCreateOrder_SendsSignedMarketOrder(t *testing.T) {
	var capturedRequest *http.Request
	exchangeServer := httptest.NewServer(http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
		capturedRequest = request.Clone(context.Background())
		responseWriter.Header().Set("Content-Type", "application/json")
		responseWriter.Write([]byte(`{"orderId": 123456, "symbol": "BTCUSDT", "side": "BUY", "type": "MARKET", "status": "FILLED", "origQty": "0.002", "executedQty": "0.002", "avgPrice": "50123.40"}`))
	}))
	defer exchangeServer.Close()

	binanceService := NewBinanceFuturesService(exchangeServer.URL, "test-key", "test-secret")

	placedOrder, placementError := binanceService.CreateOrder(context.Background(), CreateOrderParameters{
		Symbol:    "BTCUSDT",
		Side:      domain.OrderSideBuy,
		OrderType: domain.OrderTypeMarket,
		Quantity:  0.002,
	})
	require.NoError(t, placementError)

	assert.Equal(t, int64(123456), placedOrder.OrderID)
	assert.Equal(t, domain.OrderStatusFilled, placedOrder.Status)

	require.NotNil(t, capturedRequest)
	assert.Equal(t, http.MethodPost, capturedRequest.Method)
	assert.Equal(t, "/fapi/v1/order", capturedRequest.URL.Path)
	assert.Equal(t, "test-key", capturedRequest.Header.Get("X-MBX-APIKEY"))

	queryParameters := capturedRequest.URL.Query()
	assert.Equal(t, "BTCUSDT", queryParameters.Get("symbol"))
	assert.Equal(t, "BUY", queryParameters.Get("side"))
	assert.Equal(t, "MARKET", queryParameters.Get("type"))
	assert.Equal(t, "0.002", queryParameters.Get("quantity"))
	assert.NotEmpty(t, queryParameters.Get("timestamp"))
	assert.NotEmpty(t, queryParameters.Get("signature"))
	assert.Empty(t, queryParameters.Get("price"))
	assert.Empty(t, queryParameters.Get("timeInForce"))
}

func TestCreateOrder_SendsLimitOrderWithPriceAndTimeInForce(t *testing.T) {
	var capturedQuery map[string][]string
	exchangeServer := httptest.NewServer(http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
		capturedQuery = request.URL.Query()
		responseWriter.Write([]byte(`{"orderId": 654321, "symbol": "BTCUSDT", "side": "SELL", "type": "LIMIT", "status": "NEW", "origQty": "0.002", "executedQty": "0", "price": "50000"}`))
	}))
	defer exchangeServer.Close()

	binanceService := NewBinanceFuturesService(exchangeServer.URL, "test-key", "test-secret")

	placedOrder, placementError := binanceService.CreateOrder(context.Background(), CreateOrderParameters{
		Symbol:      "BTCUSDT",
		Side:        domain.OrderSideSell,
		OrderType:   domain.OrderTypeLimit,
		Quantity:    0.002,
		Price:       50000,
		TimeInForce: domain.TimeInForceGoodTilCancelled,
	})
	require.NoError(t, placementError)

	assert.Equal(t, int64(654321), placedOrder.OrderID)
	require.NotNil(t, capturedQuery)
	assert.Equal(t, []string{"50000"}, capturedQuery["price"])
	assert.Equal(t, []string{"GTC"}, capturedQuery["timeInForce"])
}

func TestCreateOrder_TranslatesExchangeRejection(t *testing.T) {
	exchangeServer := httptest.NewServer(http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
		responseWriter.WriteHeader(http.StatusBadRequest)
		responseWriter.Write([]byte(`{"code": -1121, "msg": "Invalid symbol."}`))
	}))
	defer exchangeServer.Close()

	binanceService := NewBinanceFuturesService(exchangeServer.URL, "test-key", "test-secret")

	_, placementError := binanceService.CreateOrder(context.Background(), CreateOrderParameters{
		Symbol:    "NOPEUSDT",
		Side:      domain.OrderSideBuy,
		OrderType: domain.OrderTypeMarket,
		Quantity:  1,
	})

	var exchangeError *domain.ExchangeError
	require.ErrorAs(t, placementError, &exchangeError)
	assert.Equal(t, http.StatusBadRequest, exchangeError.StatusCode)
	assert.Equal(t, "Invalid symbol.", exchangeError.Message)
}

func TestCreateOrder_RejectsMissingOrderID(t *testing.T) {
	exchangeServer := httptest.NewServer(http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
		responseWriter.Write([]byte(`{}`))
	}))
	defer exchangeServer.Close()

	binanceService := NewBinanceFuturesService(exchangeServer.URL, "test-key", "test-secret")

	_, placementError := binanceService.CreateOrder(context.Background(), CreateOrderParameters{
		Symbol:    "BTCUSDT",
		Side:      domain.OrderSideBuy,
		OrderType: domain.OrderTypeMarket,
		Quantity:  1,
	})

	var exchangeError *domain.ExchangeError
	require.ErrorAs(t, placementError, &exchangeError)
	assert.Contains(t, exchangeError.Message, "orderId")
}

func TestGetBalances_FiltersZeroBalances(t *testing.T) {
	exchangeServer := httptest.NewServer(http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
		responseWriter.Write([]byte(`{"totalWalletBalance": "10000.5", "assets": [
			{"asset": "USDT", "walletBalance": "10000.50000000", "availableBalance": "9500.0"},
			{"asset": "BNB", "walletBalance": "0.00000000", "availableBalance": "0.0"},
			{"asset": "BTC", "walletBalance": "0.05000000", "availableBalance": "0.05"}
		]}`))
	}))
	defer exchangeServer.Close()

	binanceService := NewBinanceFuturesService(exchangeServer.URL, "test-key", "test-secret")

	balances, balanceError := binanceService.GetBalances(context.Background())
	require.NoError(t, balanceError)

	require.Len(t, balances, 2)
	assert.Equal(t, "USDT", balances[0].Asset)
	assert.Equal(t, "BTC", balances[1].Asset)
}

func TestCheckConnectivity_Reachable(t *testing.T) {
	exchangeServer := httptest.NewServer(http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
		if request.URL.Path == "/fapi/v1/ping" {
			responseWriter.Write([]byte(`{}`))
			return
		}
		responseWriter.Write([]byte(`{"totalWalletBalance": "0", "assets": []}`))
	}))
	defer exchangeServer.Close()

	binanceService := NewBinanceFuturesService(exchangeServer.URL, "test-key", "test-secret")

	connectivityStatus := binanceService.CheckConnectivity(context.Background())

	assert.Equal(t, ConnectivityStateReachable, connectivityStatus.State)
	assert.True(t, connectivityStatus.Reachable())
	assert.NoError(t, connectivityStatus.ProbeError)
}

func TestCheckConnectivity_DistinguishesAuthenticationFailure(t *testing.T) {
	exchangeServer := httptest.NewServer(http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
		if request.URL.Path == "/fapi/v1/ping" {
			responseWriter.Write([]byte(`{}`))
			return
		}
		responseWriter.WriteHeader(http.StatusUnauthorized)
		responseWriter.Write([]byte(`{"code": -2014, "msg": "API-key format invalid."}`))
	}))
	defer exchangeServer.Close()

	binanceService := NewBinanceFuturesService(exchangeServer.URL, "bad-key", "bad-secret")

	connectivityStatus := binanceService.CheckConnectivity(context.Background())

	assert.Equal(t, ConnectivityStateAuthFailed, connectivityStatus.State)
	assert.False(t, connectivityStatus.Reachable())
	assert.Error(t, connectivityStatus.ProbeError)
}

func TestCheckConnectivity_ReportsTransportFailureInsteadOfPanicking(t *testing.T) {
	exchangeServer := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	exchangeServer.Close()

	binanceService := NewBinanceFuturesService(exchangeServer.URL, "test-key", "test-secret")

	connectivityStatus := binanceService.CheckConnectivity(context.Background())

	assert.Equal(t, ConnectivityStateTransportFailed, connectivityStatus.State)
	assert.False(t, connectivityStatus.Reachable())
	assert.Error(t, connectivityStatus.ProbeError)
}
