package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"futures-gateway/internal/config"
	"futures-gateway/internal/database"
	"futures-gateway/internal/httpserver"
	"futures-gateway/internal/logging"
	"futures-gateway/internal/repository"
	"futures-gateway/internal/service"
)

func main() {
	applicationConfiguration := config.LoadApplicationConfiguration()

	logger, loggerError := logging.NewLogger(applicationConfiguration.LogFilePath, applicationConfiguration.LogLevel)
	if loggerError != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	var historyRepository repository.OrderHistoryRepository
	if applicationConfiguration.DatabaseURL != "" {
		postgresConnector, connectionError := database.InitializePostgresConnector(applicationConfiguration.DatabaseURL)
		if connectionError != nil {
			logger.Fatal("could not connect to database", zap.Error(connectionError))
		}
		defer postgresConnector.Close()
		historyRepository = repository.NewPostgresOrderHistoryRepository(postgresConnector.Database)
		logger.Info("order history persisted to PostgreSQL")
	} else {
		historyRepository = repository.NewMemoryOrderHistoryRepository()
		logger.Warn("no database configured, order history kept in memory only")
	}

	demoModeActive := applicationConfiguration.ShouldRunInDemoMode()

	var exchangeClient service.ExchangeClient
	if demoModeActive {
		if applicationConfiguration.DemoModeRequested {
			logger.Warn("DEMO MODE enabled - using simulated orders")
		} else {
			logger.Warn("Binance API credentials not found - enabling DEMO MODE")
		}
	} else {
		exchangeClient = service.NewBinanceFuturesService(
			applicationConfiguration.BinanceRESTBaseURL,
			applicationConfiguration.BinanceAPIKey,
			applicationConfiguration.BinanceAPISecret,
		)
		logger.Info("Binance Futures client initialized", zap.Bool("testnet", applicationConfiguration.UseTestnet))
	}

	tradingService := service.NewTradingService(
		exchangeClient,
		historyRepository,
		service.NewDemoOrderSimulator(time.Now().UnixNano()),
		logger,
		demoModeActive,
		applicationConfiguration.UseTestnet,
	)

	server := httpserver.NewServer(tradingService, logger, applicationConfiguration.CORSOrigins)
	router := server.RegisterRoutes()

	applicationContext, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	serverAddress := ":" + applicationConfiguration.ServerPort
	httpServer := &http.Server{Addr: serverAddress, Handler: router}

	go func() {
		logger.Info("server running", zap.String("address", serverAddress), zap.String("mode", tradingService.OperatingMode()))
		startError := httpServer.ListenAndServe()
		if startError != nil && startError != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(startError))
		}
	}()

	<-applicationContext.Done()
	shutdownContext, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	shutdownError := httpServer.Shutdown(shutdownContext)
	if shutdownError != nil {
		logger.Error("graceful shutdown failed", zap.Error(shutdownError))
	}

	logger.Info("application stopped")
}
