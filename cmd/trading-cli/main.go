package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"futures-gateway/internal/config"
	"futures-gateway/internal/database"
	"futures-gateway/internal/domain"
	"futures-gateway/internal/logging"
	"futures-gateway/internal/repository"
	"futures-gateway/internal/service"
)

const commandTimeout = 15 * time.Second

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	commandArguments := os.Args[2:]

	switch command {
	case "market":
		runMarketOrder(commandArguments)
	case "limit":
		runLimitOrder(commandArguments)
	case "stop-limit":
		runStopLimitOrder(commandArguments)
	case "balance":
		runBalance()
	case "price":
		runPrice(commandArguments)
	case "orders":
		runOpenOrders(commandArguments)
	case "history":
		runHistory(commandArguments)
	case "test":
		runConnectivityTest()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	usage := `trading-cli - Binance Futures trading gateway CLI

Usage:
  trading-cli market SYMBOL SIDE QUANTITY
  trading-cli limit SYMBOL SIDE QUANTITY PRICE
  trading-cli stop-limit SYMBOL SIDE QUANTITY PRICE STOP_PRICE
  trading-cli balance
  trading-cli price SYMBOL
  trading-cli orders [SYMBOL]
  trading-cli history [-limit N]
  trading-cli test
`
	fmt.Fprintln(os.Stderr, usage)
}

func buildTradingService() *service.TradingService {
	applicationConfiguration := config.LoadApplicationConfiguration()

	logger, loggerError := logging.NewLogger(applicationConfiguration.LogFilePath, applicationConfiguration.LogLevel)
	if loggerError != nil {
		fmt.Fprintf(os.Stderr, "Error: could not initialize logging: %v\n", loggerError)
		os.Exit(1)
	}

	var historyRepository repository.OrderHistoryRepository
	if applicationConfiguration.DatabaseURL != "" {
		postgresConnector, connectionError := database.InitializePostgresConnector(applicationConfiguration.DatabaseURL)
		if connectionError != nil {
			fmt.Fprintf(os.Stderr, "Error: could not connect to database: %v\n", connectionError)
			os.Exit(1)
		}
		historyRepository = repository.NewPostgresOrderHistoryRepository(postgresConnector.Database)
	} else {
		historyRepository = repository.NewMemoryOrderHistoryRepository()
	}

	demoModeActive := applicationConfiguration.ShouldRunInDemoMode()

	var exchangeClient service.ExchangeClient
	if demoModeActive {
		fmt.Fprintln(os.Stderr, "Warning: running in DEMO MODE - orders are simulated")
	} else {
		exchangeClient = service.NewBinanceFuturesService(
			applicationConfiguration.BinanceRESTBaseURL,
			applicationConfiguration.BinanceAPIKey,
			applicationConfiguration.BinanceAPISecret,
		)
	}

	return service.NewTradingService(
		exchangeClient,
		historyRepository,
		service.NewDemoOrderSimulator(time.Now().UnixNano()),
		logger,
		demoModeActive,
		applicationConfiguration.UseTestnet,
	)
}

func runMarketOrder(arguments []string) {
	if len(arguments) != 3 {
		exitWithError("usage: trading-cli market SYMBOL SIDE QUANTITY")
	}

	quantity := parsePositionalFloat(arguments[2], "quantity")
	placeOrderFromArguments(domain.RawOrderRequest{
		Symbol:    domain.NormalizeOrderInput(arguments[0]),
		Side:      domain.NormalizeOrderInput(arguments[1]),
		OrderType: domain.OrderTypeMarket,
		Quantity:  quantity,
	})
}

func runLimitOrder(arguments []string) {
	if len(arguments) != 4 {
		exitWithError("usage: trading-cli limit SYMBOL SIDE QUANTITY PRICE")
	}

	quantity := parsePositionalFloat(arguments[2], "quantity")
	price := parsePositionalFloat(arguments[3], "price")
	placeOrderFromArguments(domain.RawOrderRequest{
		Symbol:    domain.NormalizeOrderInput(arguments[0]),
		Side:      domain.NormalizeOrderInput(arguments[1]),
		OrderType: domain.OrderTypeLimit,
		Quantity:  quantity,
		Price:     &price,
	})
}

func runStopLimitOrder(arguments []string) {
	if len(arguments) != 5 {
		exitWithError("usage: trading-cli stop-limit SYMBOL SIDE QUANTITY PRICE STOP_PRICE")
	}

	quantity := parsePositionalFloat(arguments[2], "quantity")
	price := parsePositionalFloat(arguments[3], "price")
	stopPrice := parsePositionalFloat(arguments[4], "stop price")
	placeOrderFromArguments(domain.RawOrderRequest{
		Symbol:    domain.NormalizeOrderInput(arguments[0]),
		Side:      domain.NormalizeOrderInput(arguments[1]),
		OrderType: domain.OrderTypeStopLimit,
		Quantity:  quantity,
		Price:     &price,
		StopPrice: &stopPrice,
	})
}

func placeOrderFromArguments(rawRequest domain.RawOrderRequest) {
	orderRequest, parseError := domain.ParseOrderRequest(rawRequest)
	if parseError != nil {
		exitWithError("Validation error: " + parseError.Error())
	}

	tradingService := buildTradingService()

	requestContext, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	orderResult, placementError := tradingService.PlaceOrder(requestContext, orderRequest)
	if placementError != nil {
		exitWithError("Error: " + placementError.Error())
	}

	tableWriter := newTableWriter()
	fmt.Fprintf(tableWriter, "Order ID\t%d\n", orderResult.OrderID)
	fmt.Fprintf(tableWriter, "Symbol\t%s\n", orderResult.Symbol)
	fmt.Fprintf(tableWriter, "Side\t%s\n", orderResult.Side)
	fmt.Fprintf(tableWriter, "Type\t%s\n", orderResult.OrderType)
	fmt.Fprintf(tableWriter, "Status\t%s\n", orderResult.Status)
	fmt.Fprintf(tableWriter, "Quantity\t%s\n", formatAmount(orderResult.Quantity))
	fmt.Fprintf(tableWriter, "Executed Qty\t%s\n", formatAmount(orderResult.ExecutedQuantity))
	if orderResult.Price > 0 {
		fmt.Fprintf(tableWriter, "Price\t%s\n", formatAmount(orderResult.Price))
	}
	if orderResult.AveragePrice > 0 {
		fmt.Fprintf(tableWriter, "Avg Price\t%s\n", formatAmount(orderResult.AveragePrice))
	}
	tableWriter.Flush()

	fmt.Printf("\nSuccess! Order %d placed successfully.\n", orderResult.OrderID)
	if orderResult.Message != "" {
		fmt.Println(orderResult.Message)
	}
}

func runBalance() {
	tradingService := buildTradingService()

	requestContext, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	balances, balanceError := tradingService.GetBalances(requestContext)
	if balanceError != nil {
		exitWithError("Error: " + balanceError.Error())
	}

	tableWriter := newTableWriter()
	fmt.Fprintln(tableWriter, "Asset\tWallet Balance\tAvailable")
	for _, assetBalance := range balances {
		fmt.Fprintf(tableWriter, "%s\t%s\t%s\n", assetBalance.Asset, assetBalance.WalletBalance, assetBalance.AvailableBalance)
	}
	tableWriter.Flush()
}

func runPrice(arguments []string) {
	if len(arguments) != 1 {
		exitWithError("usage: trading-cli price SYMBOL")
	}

	tradingService := buildTradingService()

	requestContext, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	tickerPrice, tickerError := tradingService.GetTickerPrice(requestContext, arguments[0])
	if tickerError != nil {
		exitWithError("Error: " + tickerError.Error())
	}

	fmt.Printf("%s: %s\n", tickerPrice.Symbol, tickerPrice.Price)
}

func runOpenOrders(arguments []string) {
	tradingPairSymbol := ""
	if len(arguments) > 0 {
		tradingPairSymbol = arguments[0]
	}

	tradingService := buildTradingService()

	requestContext, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	openOrders, openOrdersError := tradingService.ListOpenOrders(requestContext, tradingPairSymbol)
	if openOrdersError != nil {
		exitWithError("Error: " + openOrdersError.Error())
	}

	if len(openOrders) == 0 {
		fmt.Println("No open orders.")
		return
	}

	tableWriter := newTableWriter()
	fmt.Fprintln(tableWriter, "Order ID\tSymbol\tSide\tType\tPrice\tQuantity\tStatus")
	for _, openOrder := range openOrders {
		fmt.Fprintf(tableWriter, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			openOrder.OrderID, openOrder.Symbol, openOrder.Side, openOrder.OrderType,
			openOrder.Price, openOrder.OriginalQuantity, openOrder.Status)
	}
	tableWriter.Flush()
}

func runHistory(arguments []string) {
	flagSet := flag.NewFlagSet("history", flag.ExitOnError)
	historyLimit := flagSet.Int("limit", 50, "maximum number of history entries")
	if parseError := flagSet.Parse(arguments); parseError != nil {
		os.Exit(1)
	}

	tradingService := buildTradingService()

	requestContext, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	historyItems, historyError := tradingService.ListOrderHistory(requestContext, *historyLimit)
	if historyError != nil {
		exitWithError("Error: " + historyError.Error())
	}

	if len(historyItems) == 0 {
		fmt.Println("No order history.")
		return
	}

	tableWriter := newTableWriter()
	fmt.Fprintln(tableWriter, "Time\tOrder ID\tSymbol\tSide\tType\tQuantity\tStatus")
	for _, historyItem := range historyItems {
		fmt.Fprintf(tableWriter, "%s\t%d\t%s\t%s\t%s\t%s\t%s\n",
			historyItem.SubmittedAt.Format(time.RFC3339), historyItem.OrderID, historyItem.Symbol,
			historyItem.Side, historyItem.OrderType, formatAmount(historyItem.Quantity), historyItem.Status)
	}
	tableWriter.Flush()
}

func runConnectivityTest() {
	tradingService := buildTradingService()

	if tradingService.DemoModeActive {
		fmt.Println("DEMO MODE active - no exchange connectivity to test.")
		return
	}

	requestContext, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	connectivityStatus := tradingService.CheckConnectivity(requestContext)
	switch connectivityStatus.State {
	case service.ConnectivityStateReachable:
		fmt.Println("Successfully connected to Binance Futures API.")
	case service.ConnectivityStateAuthFailed:
		exitWithError("Connectivity test failed: exchange rejected the configured credentials")
	default:
		exitWithError(fmt.Sprintf("Connectivity test failed: %v", connectivityStatus.ProbeError))
	}
}

func parsePositionalFloat(rawValue string, fieldName string) float64 {
	parsedValue, parseError := strconv.ParseFloat(rawValue, 64)
	if parseError != nil {
		exitWithError(fmt.Sprintf("Validation error: %s must be a number", fieldName))
	}
	return parsedValue
}

func formatAmount(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func newTableWriter() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

func exitWithError(message string) {
	fmt.Fprintln(os.Stderr, message)
	os.Exit(1)
}
