package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"futures-gateway/internal/domain"
)

const (
	ConnectivityStateReachable       = "REACHABLE"
	ConnectivityStateAuthFailed      = "AUTH_FAILED"
	ConnectivityStateTransportFailed = "TRANSPORT_FAILED"
)

type ConnectivityStatus struct {
	State      string
	ProbeError error
}

func (status ConnectivityStatus) Reachable() bool {
	return status.State == ConnectivityStateReachable
}

type AssetBalance struct {
	Asset            string `json:"asset"`
	WalletBalance    string `json:"walletBalance"`
	AvailableBalance string `json:"availableBalance"`
}

type AccountInformation struct {
	TotalWalletBalance    string         `json:"totalWalletBalance"`
	TotalUnrealizedProfit string         `json:"totalUnrealizedProfit"`
	AvailableBalance      string         `json:"availableBalance"`
	Assets                []AssetBalance `json:"assets"`
}

type TickerPrice struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

type ExchangeOrder struct {
	OrderID          int64  `json:"orderId"`
	Symbol           string `json:"symbol"`
	Side             string `json:"side"`
	OrderType        string `json:"type"`
	Status           string `json:"status"`
	OriginalQuantity string `json:"origQty"`
	ExecutedQuantity string `json:"executedQty"`
	Price            string `json:"price"`
	StopPrice        string `json:"stopPrice"`
	AveragePrice     string `json:"avgPrice"`
}

type CreateOrderParameters struct {
	Symbol      string
	Side        string
	OrderType   string
	Quantity    float64
	Price       float64
	TimeInForce string
}

// ExchangeClient is the capability boundary to the remote exchange. Signing,
// protocol framing and endpoint layout stay behind it.
type ExchangeClient interface {
	GetAccountInformation(context.Context) (AccountInformation, error)
	GetBalances(context.Context) ([]AssetBalance, error)
	GetTickerPrice(context.Context, string) (TickerPrice, error)
	ListOpenOrders(context.Context, string) ([]ExchangeOrder, error)
	CreateOrder(context.Context, CreateOrderParameters) (ExchangeOrder, error)
	CancelOrder(context.Context, string, int64) (ExchangeOrder, error)
	GetOrderStatus(context.Context, string, int64) (ExchangeOrder, error)
	CheckConnectivity(context.Context) ConnectivityStatus
}

type BinanceFuturesService struct {
	RESTBaseURL string
	APIKey      string
	APISecret   string
	HTTPClient  *http.Client
}

func NewBinanceFuturesService(restBaseURL string, apiKey string, apiSecret string) *BinanceFuturesService {
	return &BinanceFuturesService{
		RESTBaseURL: restBaseURL,
		APIKey:      apiKey,
		APISecret:   apiSecret,
		HTTPClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (service *BinanceFuturesService) GetAccountInformation(requestContext context.Context) (AccountInformation, error) {
	var accountInformation AccountInformation
	requestError := service.performSignedRequest(requestContext, http.MethodGet, "/fapi/v2/account", url.Values{}, &accountInformation)
	if requestError != nil {
		return AccountInformation{}, requestError
	}

	return accountInformation, nil
}

func (service *BinanceFuturesService) GetBalances(requestContext context.Context) ([]AssetBalance, error) {
	accountInformation, accountError := service.GetAccountInformation(requestContext)
	if accountError != nil {
		return nil, accountError
	}

	var nonZeroBalances []AssetBalance
	for _, assetBalance := range accountInformation.Assets {
		walletBalance, parseError := strconv.ParseFloat(assetBalance.WalletBalance, 64)
		if parseError == nil && walletBalance > 0 {
			nonZeroBalances = append(nonZeroBalances, assetBalance)
		}
	}

	return nonZeroBalances, nil
}

func (service *BinanceFuturesService) GetTickerPrice(requestContext context.Context, tradingPairSymbol string) (TickerPrice, error) {
	requestParameters := url.Values{}
	requestParameters.Set("symbol", tradingPairSymbol)

	var tickerPrice TickerPrice
	requestError := service.performPublicRequest(requestContext, "/fapi/v1/ticker/price", requestParameters, &tickerPrice)
	if requestError != nil {
		return TickerPrice{}, requestError
	}

	return tickerPrice, nil
}

func (service *BinanceFuturesService) ListOpenOrders(requestContext context.Context, tradingPairSymbol string) ([]ExchangeOrder, error) {
	requestParameters := url.Values{}
	if tradingPairSymbol != "" {
		requestParameters.Set("symbol", tradingPairSymbol)
	}

	var openOrders []ExchangeOrder
	requestError := service.performSignedRequest(requestContext, http.MethodGet, "/fapi/v1/openOrders", requestParameters, &openOrders)
	if requestError != nil {
		return nil, requestError
	}

	return openOrders, nil
}

func (service *BinanceFuturesService) CreateOrder(requestContext context.Context, orderParameters CreateOrderParameters) (ExchangeOrder, error) {
	requestParameters := url.Values{}
	requestParameters.Set("symbol", orderParameters.Symbol)
	requestParameters.Set("side", orderParameters.Side)
	requestParameters.Set("type", orderParameters.OrderType)
	requestParameters.Set("quantity", formatDecimal(orderParameters.Quantity))
	if orderParameters.Price > 0 {
		requestParameters.Set("price", formatDecimal(orderParameters.Price))
	}
	if orderParameters.TimeInForce != "" {
		requestParameters.Set("timeInForce", orderParameters.TimeInForce)
	}

	var placedOrder ExchangeOrder
	requestError := service.performSignedRequest(requestContext, http.MethodPost, "/fapi/v1/order", requestParameters, &placedOrder)
	if requestError != nil {
		return ExchangeOrder{}, requestError
	}

	if placedOrder.OrderID == 0 {
		return ExchangeOrder{}, &domain.ExchangeError{Message: "Binance did not return an orderId for the request"}
	}

	return placedOrder, nil
}

func (service *BinanceFuturesService) CancelOrder(requestContext context.Context, tradingPairSymbol string, orderID int64) (ExchangeOrder, error) {
	requestParameters := url.Values{}
	requestParameters.Set("symbol", tradingPairSymbol)
	requestParameters.Set("orderId", strconv.FormatInt(orderID, 10))

	var cancelledOrder ExchangeOrder
	requestError := service.performSignedRequest(requestContext, http.MethodDelete, "/fapi/v1/order", requestParameters, &cancelledOrder)
	if requestError != nil {
		return ExchangeOrder{}, requestError
	}

	return cancelledOrder, nil
}

func (service *BinanceFuturesService) GetOrderStatus(requestContext context.Context, tradingPairSymbol string, orderID int64) (ExchangeOrder, error) {
	requestParameters := url.Values{}
	requestParameters.Set("symbol", tradingPairSymbol)
	requestParameters.Set("orderId", strconv.FormatInt(orderID, 10))

	var exchangeOrder ExchangeOrder
	requestError := service.performSignedRequest(requestContext, http.MethodGet, "/fapi/v1/order", requestParameters, &exchangeOrder)
	if requestError != nil {
		return ExchangeOrder{}, requestError
	}

	return exchangeOrder, nil
}

// CheckConnectivity probes with an unsigned ping first, then a signed account
// call, so that "unreachable" and "bad credentials" stay distinguishable.
func (service *BinanceFuturesService) CheckConnectivity(requestContext context.Context) ConnectivityStatus {
	pingError := service.performPublicRequest(requestContext, "/fapi/v1/ping", url.Values{}, &struct{}{})
	if pingError != nil {
		return ConnectivityStatus{State: ConnectivityStateTransportFailed, ProbeError: pingError}
	}

	_, accountError := service.GetAccountInformation(requestContext)
	if accountError != nil {
		var exchangeError *domain.ExchangeError
		if errors.As(accountError, &exchangeError) && (exchangeError.StatusCode == http.StatusUnauthorized || exchangeError.StatusCode == http.StatusForbidden) {
			return ConnectivityStatus{State: ConnectivityStateAuthFailed, ProbeError: accountError}
		}
		return ConnectivityStatus{State: ConnectivityStateTransportFailed, ProbeError: accountError}
	}

	return ConnectivityStatus{State: ConnectivityStateReachable}
}

func (service *BinanceFuturesService) performPublicRequest(requestContext context.Context, path string, requestParameters url.Values, responseTarget any) error {
	endpointURL, parseError := url.Parse(service.RESTBaseURL)
	if parseError != nil {
		return &domain.ExchangeError{Message: parseError.Error()}
	}
	endpointURL.Path = path
	endpointURL.RawQuery = requestParameters.Encode()

	return service.executeRequest(requestContext, http.MethodGet, endpointURL.String(), responseTarget)
}

func (service *BinanceFuturesService) performSignedRequest(requestContext context.Context, method string, path string, requestParameters url.Values, responseTarget any) error {
	requestParameters.Set("timestamp", strconv.FormatInt(time.Now().UnixMilli(), 10))

	signedEndpoint, signingError := service.buildSignedEndpoint(path, requestParameters)
	if signingError != nil {
		return &domain.ExchangeError{Message: signingError.Error()}
	}

	return service.executeRequest(requestContext, method, signedEndpoint, responseTarget)
}

func (service *BinanceFuturesService) executeRequest(requestContext context.Context, method string, endpoint string, responseTarget any) error {
	request, requestBuildError := http.NewRequestWithContext(requestContext, method, endpoint, nil)
	if requestBuildError != nil {
		return &domain.ExchangeError{Message: requestBuildError.Error()}
	}
	request.Header.Set("X-MBX-APIKEY", service.APIKey)

	response, responseError := service.HTTPClient.Do(request)
	if responseError != nil {
		return &domain.ExchangeError{Message: responseError.Error()}
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return translateExchangeRejection(response)
	}

	decodeError := json.NewDecoder(response.Body).Decode(responseTarget)
	if decodeError != nil {
		return &domain.ExchangeError{Message: "could not decode exchange response: " + decodeError.Error()}
	}

	return nil
}

func (service *BinanceFuturesService) buildSignedEndpoint(path string, requestParameters url.Values) (string, error) {
	apiBaseURL, parseError := url.Parse(service.RESTBaseURL)
	if parseError != nil {
		return "", parseError
	}
	apiBaseURL.Path = path

	signature := signQuery(requestParameters.Encode(), service.APISecret)
	requestParameters.Set("signature", signature)
	apiBaseURL.RawQuery = requestParameters.Encode()

	return apiBaseURL.String(), nil
}

func translateExchangeRejection(response *http.Response) *domain.ExchangeError {
	responseBody, responseReadError := io.ReadAll(response.Body)
	if responseReadError != nil {
		return &domain.ExchangeError{StatusCode: response.StatusCode, Message: "the rejection response could not be read"}
	}

	var rejectionPayload struct {
		Code    int    `json:"code"`
		Message string `json:"msg"`
	}
	if json.Unmarshal(responseBody, &rejectionPayload) == nil && rejectionPayload.Message != "" {
		return &domain.ExchangeError{StatusCode: response.StatusCode, Message: rejectionPayload.Message}
	}

	return &domain.ExchangeError{StatusCode: response.StatusCode, Message: string(responseBody)}
}

func signQuery(message string, secret string) string {
	hash := hmac.New(sha256.New, []byte(secret))
	hash.Write([]byte(message))
	return hex.EncodeToString(hash.Sum(nil))
}

func formatDecimal(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
