package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"futures-gateway/internal/domain"
	"futures-gateway/internal/service"
)

const defaultHistoryLimit = 50

type Server struct {
	TradingService *service.TradingService
	Logger         *zap.Logger
	CORSOrigins    []string
}

func NewServer(tradingService *service.TradingService, logger *zap.Logger, corsOrigins []string) *Server {
	return &Server{
		TradingService: tradingService,
		Logger:         logger,
		CORSOrigins:    corsOrigins,
	}
}

func (server *Server) RegisterRoutes() http.Handler {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(server.buildCORSConfiguration()))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiRoutes := router.Group("/api")
	apiRoutes.GET("/", server.handleRoot)
	apiRoutes.GET("/health", server.handleHealthCheck)
	apiRoutes.GET("/account", server.handleAccountInformation)
	apiRoutes.GET("/balance", server.handleBalance)
	apiRoutes.GET("/ticker/:symbol", server.handleTickerPrice)
	apiRoutes.GET("/orders/open", server.handleOpenOrders)
	apiRoutes.POST("/orders/place", server.handlePlaceOrder)
	apiRoutes.GET("/orders/history", server.handleOrderHistory)
	apiRoutes.DELETE("/orders/cancel/:symbol/:order_id", server.handleCancelOrder)
	apiRoutes.GET("/orders/status/:symbol/:order_id", server.handleOrderStatus)

	return router
}

func (server *Server) buildCORSConfiguration() cors.Config {
	corsConfiguration := cors.DefaultConfig()
	corsConfiguration.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfiguration.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}

	for _, origin := range server.CORSOrigins {
		if origin == "*" {
			corsConfiguration.AllowAllOrigins = true
			return corsConfiguration
		}
	}

	corsConfiguration.AllowOrigins = server.CORSOrigins
	corsConfiguration.AllowCredentials = true
	return corsConfiguration
}

func (server *Server) handleRoot(ginContext *gin.Context) {
	ginContext.JSON(http.StatusOK, gin.H{"message": "Binance Futures Trading Gateway API", "status": "active"})
}

func (server *Server) handleHealthCheck(ginContext *gin.Context) {
	if server.TradingService.DemoModeActive {
		ginContext.JSON(http.StatusOK, gin.H{
			"status":             "demo",
			"message":            "Running in DEMO MODE - Simulated orders only",
			"exchange_connected": false,
			"demo_mode":          true,
			"testnet":            server.TradingService.UseTestnet,
		})
		return
	}

	connectivityStatus := server.TradingService.CheckConnectivity(ginContext.Request.Context())

	healthStatus := "healthy"
	healthMessage := "All systems operational"
	switch connectivityStatus.State {
	case service.ConnectivityStateAuthFailed:
		healthStatus = "degraded"
		healthMessage = "Exchange rejected the configured credentials"
	case service.ConnectivityStateTransportFailed:
		healthStatus = "degraded"
		healthMessage = "Binance API connection issue"
	}

	ginContext.JSON(http.StatusOK, gin.H{
		"status":             healthStatus,
		"message":            healthMessage,
		"exchange_connected": connectivityStatus.Reachable(),
		"connectivity":       connectivityStatus.State,
		"demo_mode":          false,
		"testnet":            server.TradingService.UseTestnet,
	})
}

func (server *Server) handleAccountInformation(ginContext *gin.Context) {
	accountInformation, accountError := server.TradingService.GetAccountInformation(ginContext.Request.Context())
	if accountError != nil {
		server.writeErrorResponse(ginContext, accountError)
		return
	}

	ginContext.JSON(http.StatusOK, accountInformation)
}

func (server *Server) handleBalance(ginContext *gin.Context) {
	balances, balanceError := server.TradingService.GetBalances(ginContext.Request.Context())
	if balanceError != nil {
		server.writeErrorResponse(ginContext, balanceError)
		return
	}

	ginContext.JSON(http.StatusOK, gin.H{"balances": balances})
}

func (server *Server) handleTickerPrice(ginContext *gin.Context) {
	tickerPrice, tickerError := server.TradingService.GetTickerPrice(ginContext.Request.Context(), ginContext.Param("symbol"))
	if tickerError != nil {
		server.writeErrorResponse(ginContext, tickerError)
		return
	}

	ginContext.JSON(http.StatusOK, tickerPrice)
}

func (server *Server) handleOpenOrders(ginContext *gin.Context) {
	openOrders, openOrdersError := server.TradingService.ListOpenOrders(ginContext.Request.Context(), ginContext.Query("symbol"))
	if openOrdersError != nil {
		server.writeErrorResponse(ginContext, openOrdersError)
		return
	}

	ginContext.JSON(http.StatusOK, gin.H{"orders": openOrders})
}

func (server *Server) handlePlaceOrder(ginContext *gin.Context) {
	var rawRequest domain.RawOrderRequest
	bindError := ginContext.ShouldBindJSON(&rawRequest)
	if bindError != nil {
		ginContext.JSON(http.StatusBadRequest, gin.H{"error": "invalid order payload: " + bindError.Error()})
		return
	}

	rawRequest.Symbol = domain.NormalizeOrderInput(rawRequest.Symbol)
	rawRequest.Side = domain.NormalizeOrderInput(rawRequest.Side)
	rawRequest.OrderType = domain.NormalizeOrderInput(rawRequest.OrderType)

	orderRequest, parseError := domain.ParseOrderRequest(rawRequest)
	if parseError != nil {
		server.writeErrorResponse(ginContext, parseError)
		return
	}

	orderResult, placementError := server.TradingService.PlaceOrder(ginContext.Request.Context(), orderRequest)
	if placementError != nil {
		server.writeErrorResponse(ginContext, placementError)
		return
	}

	ginContext.JSON(http.StatusOK, orderResult)
}

func (server *Server) handleOrderHistory(ginContext *gin.Context) {
	historyLimit := defaultHistoryLimit
	limitParameter := ginContext.Query("limit")
	if limitParameter != "" {
		parsedLimit, limitParseError := strconv.Atoi(limitParameter)
		if limitParseError != nil || parsedLimit <= 0 {
			ginContext.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		historyLimit = parsedLimit
	}

	historyItems, historyError := server.TradingService.ListOrderHistory(ginContext.Request.Context(), historyLimit)
	if historyError != nil {
		server.writeErrorResponse(ginContext, historyError)
		return
	}

	if historyItems == nil {
		historyItems = []domain.OrderHistoryItem{}
	}

	ginContext.JSON(http.StatusOK, historyItems)
}

func (server *Server) handleCancelOrder(ginContext *gin.Context) {
	orderID, orderIDError := parseOrderIDParameter(ginContext)
	if orderIDError != nil {
		return
	}

	cancelledOrder, cancelError := server.TradingService.CancelOrder(ginContext.Request.Context(), ginContext.Param("symbol"), orderID)
	if cancelError != nil {
		server.writeErrorResponse(ginContext, cancelError)
		return
	}

	ginContext.JSON(http.StatusOK, gin.H{"success": true, "message": "Order cancelled", "result": cancelledOrder})
}

func (server *Server) handleOrderStatus(ginContext *gin.Context) {
	orderID, orderIDError := parseOrderIDParameter(ginContext)
	if orderIDError != nil {
		return
	}

	exchangeOrder, statusError := server.TradingService.GetOrderStatus(ginContext.Request.Context(), ginContext.Param("symbol"), orderID)
	if statusError != nil {
		server.writeErrorResponse(ginContext, statusError)
		return
	}

	ginContext.JSON(http.StatusOK, exchangeOrder)
}

func parseOrderIDParameter(ginContext *gin.Context) (int64, error) {
	orderID, parseError := strconv.ParseInt(ginContext.Param("order_id"), 10, 64)
	if parseError != nil {
		ginContext.JSON(http.StatusBadRequest, gin.H{"error": "order_id must be an integer"})
		return 0, parseError
	}

	return orderID, nil
}

// Validation and unsupported-type failures are client errors, a missing client
// is 503, everything from the exchange surfaces as 500 with its message.
func (server *Server) writeErrorResponse(ginContext *gin.Context, failure error) {
	var validationError *domain.ValidationError
	if errors.As(failure, &validationError) {
		ginContext.JSON(http.StatusBadRequest, gin.H{"error": validationError.Error(), "fields": validationError.Violations})
		return
	}

	var unsupportedError *domain.UnsupportedOrderTypeError
	if errors.As(failure, &unsupportedError) {
		ginContext.JSON(http.StatusBadRequest, gin.H{"error": unsupportedError.Error()})
		return
	}

	if errors.Is(failure, domain.ErrClientNotConfigured) {
		ginContext.JSON(http.StatusServiceUnavailable, gin.H{"error": failure.Error()})
		return
	}

	server.Logger.Error("request failed", zap.String("path", ginContext.FullPath()), zap.Error(failure))
	ginContext.JSON(http.StatusInternalServerError, gin.H{"error": failure.Error()})
}
