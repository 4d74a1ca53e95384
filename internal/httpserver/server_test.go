package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"futures-gateway/internal/domain"
	"futures-gateway/internal/repository"
	"futures-gateway/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newDemoServer() (*Server, *repository.MemoryOrderHistoryRepository) {
	historyRepository := repository.NewMemoryOrderHistoryRepository()
	tradingService := service.NewTradingService(nil, historyRepository, service.NewDemoOrderSimulator(42), zap.NewNop(), true, true)
	return NewServer(tradingService, zap.NewNop(), []string{"*"}), historyRepository
}

func newLiveServerWithoutClient() *Server {
	historyRepository := repository.NewMemoryOrderHistoryRepository()
	tradingService := service.NewTradingService(nil, historyRepository, service.NewDemoOrderSimulator(42), zap.NewNop(), false, true)
	return NewServer(tradingService, zap.NewNop(), []string{"*"})
}

func performRequest(server *Server, method string, path string, body []byte) *httptest.ResponseRecorder {
	router := server.RegisterRoutes()
	request := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func TestHealthCheck_DemoMode(t *testing.T) {
	server, _ := newDemoServer()

	recorder := performRequest(server, http.MethodGet, "/api/health", nil)

	require.Equal(t, http.StatusOK, recorder.Code)

	var healthPayload map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &healthPayload))
	assert.Equal(t, "demo", healthPayload["status"])
	assert.Equal(t, true, healthPayload["demo_mode"])
	assert.Equal(t, false, healthPayload["exchange_connected"])
	assert.Equal(t, true, healthPayload["testnet"])
}

func TestPlaceOrder_DemoMarketOrder(t *testing.T) {
	server, historyRepository := newDemoServer()

	requestBody := []byte(`{"symbol": "btcusdt", "side": "buy", "order_type": "market", "quantity": 0.002}`)
	recorder := performRequest(server, http.MethodPost, "/api/orders/place", requestBody)

	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var orderResult domain.OrderResult
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &orderResult))
	assert.True(t, orderResult.Success)
	assert.Equal(t, "BTCUSDT", orderResult.Symbol)
	assert.Equal(t, domain.OrderStatusFilled, orderResult.Status)
	assert.Equal(t, 0.002, orderResult.ExecutedQuantity)

	historyItems, _ := historyRepository.ListRecentOrderHistory(context.Background(), 10)
	assert.Len(t, historyItems, 1)
}

func TestPlaceOrder_InvalidSymbolReturnsBadRequest(t *testing.T) {
	server, _ := newDemoServer()

	requestBody := []byte(`{"symbol": "BTC-USDT", "side": "BUY", "order_type": "MARKET", "quantity": 0.002}`)
	recorder := performRequest(server, http.MethodPost, "/api/orders/place", requestBody)

	require.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "symbol")
}

func TestPlaceOrder_LimitWithoutPriceReturnsBadRequest(t *testing.T) {
	server, _ := newDemoServer()

	requestBody := []byte(`{"symbol": "BTCUSDT", "side": "SELL", "order_type": "LIMIT", "quantity": 0.002}`)
	recorder := performRequest(server, http.MethodPost, "/api/orders/place", requestBody)

	require.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "price")
}

func TestPlaceOrder_MalformedPayloadReturnsBadRequest(t *testing.T) {
	server, _ := newDemoServer()

	recorder := performRequest(server, http.MethodPost, "/api/orders/place", []byte(`{"quantity": "not-a-number"}`))

	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestPlaceOrder_WithoutClientReturnsServiceUnavailable(t *testing.T) {
	server := newLiveServerWithoutClient()

	requestBody := []byte(`{"symbol": "BTCUSDT", "side": "BUY", "order_type": "MARKET", "quantity": 0.002}`)
	recorder := performRequest(server, http.MethodPost, "/api/orders/place", requestBody)

	require.Equal(t, http.StatusServiceUnavailable, recorder.Code)
}

func TestOrderHistory_RespectsLimitNewestFirst(t *testing.T) {
	server, historyRepository := newDemoServer()

	baseTime := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for index, symbol := range []string{"AAAUSDT", "BBBUSDT", "CCCUSDT"} {
		appendError := historyRepository.AppendOrderHistoryItem(context.Background(), domain.OrderHistoryItem{
			Identifier:  symbol,
			Symbol:      symbol,
			SubmittedAt: baseTime.Add(time.Duration(index) * time.Minute),
		})
		require.NoError(t, appendError)
	}

	recorder := performRequest(server, http.MethodGet, "/api/orders/history?limit=2", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var historyItems []domain.OrderHistoryItem
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &historyItems))
	require.Len(t, historyItems, 2)
	assert.Equal(t, "CCCUSDT", historyItems[0].Symbol)
	assert.Equal(t, "BBBUSDT", historyItems[1].Symbol)
}

func TestOrderHistory_InvalidLimitReturnsBadRequest(t *testing.T) {
	server, _ := newDemoServer()

	recorder := performRequest(server, http.MethodGet, "/api/orders/history?limit=abc", nil)

	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestBalance_DemoModePlaceholder(t *testing.T) {
	server, _ := newDemoServer()

	recorder := performRequest(server, http.MethodGet, "/api/balance", nil)

	require.Equal(t, http.StatusOK, recorder.Code)

	var balancePayload struct {
		Balances []service.AssetBalance `json:"balances"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &balancePayload))
	require.Len(t, balancePayload.Balances, 2)
	assert.Equal(t, "USDT", balancePayload.Balances[0].Asset)
}

func TestTicker_DemoModeSyntheticPrice(t *testing.T) {
	server, _ := newDemoServer()

	recorder := performRequest(server, http.MethodGet, "/api/ticker/btcusdt", nil)

	require.Equal(t, http.StatusOK, recorder.Code)

	var tickerPrice service.TickerPrice
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &tickerPrice))
	assert.Equal(t, "BTCUSDT", tickerPrice.Symbol)
	assert.Equal(t, "50000", tickerPrice.Price)
}

func TestCancelOrder_DemoModeReturnsServiceUnavailable(t *testing.T) {
	server, _ := newDemoServer()

	recorder := performRequest(server, http.MethodDelete, "/api/orders/cancel/BTCUSDT/123456", nil)

	require.Equal(t, http.StatusServiceUnavailable, recorder.Code)
}

func TestCancelOrder_InvalidOrderIDReturnsBadRequest(t *testing.T) {
	server, _ := newDemoServer()

	recorder := performRequest(server, http.MethodDelete, "/api/orders/cancel/BTCUSDT/abc", nil)

	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestRoot_ReturnsActiveBanner(t *testing.T) {
	server, _ := newDemoServer()

	recorder := performRequest(server, http.MethodGet, "/api/", nil)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "active")
}
