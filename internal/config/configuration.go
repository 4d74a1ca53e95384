package config

import (
	"os"
	"strings"
)

const (
	binanceFuturesMainnetBaseURL = "https://fapi.binance.com"
	binanceFuturesTestnetBaseURL = "https://testnet.binancefuture.com"
)

type ApplicationConfiguration struct {
	ServerPort         string
	DatabaseURL        string
	BinanceAPIKey      string
	BinanceAPISecret   string
	BinanceRESTBaseURL string
	UseTestnet         bool
	DemoModeRequested  bool
	CORSOrigins        []string
	LogFilePath        string
	LogLevel           string
}

func LoadApplicationConfiguration() ApplicationConfiguration {
	useTestnet := parseBooleanWithDefault("USE_TESTNET", true)

	restBaseURL := binanceFuturesMainnetBaseURL
	if useTestnet {
		restBaseURL = binanceFuturesTestnetBaseURL
	}

	configuration := ApplicationConfiguration{
		ServerPort:         getEnvironmentValueWithDefault("API_PORT", "8000"),
		DatabaseURL:        buildDatabaseURL(),
		BinanceAPIKey:      os.Getenv("BINANCE_API_KEY"),
		BinanceAPISecret:   os.Getenv("BINANCE_API_SECRET"),
		BinanceRESTBaseURL: restBaseURL,
		UseTestnet:         useTestnet,
		DemoModeRequested:  parseBooleanWithDefault("DEMO_MODE", false),
		CORSOrigins:        splitCommaSeparatedList(getEnvironmentValueWithDefault("CORS_ORIGINS", "*")),
		LogFilePath:        os.Getenv("LOG_FILE"),
		LogLevel:           getEnvironmentValueWithDefault("LOG_LEVEL", "info"),
	}

	return configuration
}

func (configuration ApplicationConfiguration) HasBinanceCredentials() bool {
	return configuration.BinanceAPIKey != "" && configuration.BinanceAPISecret != ""
}

// The operating mode is fixed here, once, at startup. Demo mode is active when
// explicitly requested or when no credentials are available; live mode is never
// silently downgraded after this decision.
func (configuration ApplicationConfiguration) ShouldRunInDemoMode() bool {
	return configuration.DemoModeRequested || !configuration.HasBinanceCredentials()
}

func buildDatabaseURL() string {
	explicitDatabaseURL := os.Getenv("DATABASE_URL")
	if explicitDatabaseURL != "" {
		return explicitDatabaseURL
	}

	databaseHost := os.Getenv("DB_HOST")
	if databaseHost == "" {
		return ""
	}

	databaseUser := getEnvironmentValueWithDefault("DB_USER", "postgres")
	databasePassword := getEnvironmentValueWithDefault("DB_PASSWORD", "postgres")
	databaseName := getEnvironmentValueWithDefault("DB_NAME", "futures_gateway")
	databasePort := getEnvironmentValueWithDefault("DB_PORT", "5432")

	return "postgres://" + databaseUser + ":" + databasePassword + "@" + databaseHost + ":" + databasePort + "/" + databaseName + "?sslmode=disable"
}

func parseBooleanWithDefault(variableName string, defaultValue bool) bool {
	environmentValue := strings.ToLower(strings.TrimSpace(os.Getenv(variableName)))
	if environmentValue == "" {
		return defaultValue
	}

	return environmentValue == "true" || environmentValue == "1" || environmentValue == "yes"
}

func splitCommaSeparatedList(rawValue string) []string {
	parts := strings.Split(rawValue, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmedPart := strings.TrimSpace(part)
		if trimmedPart != "" {
			values = append(values, trimmedPart)
		}
	}
	return values
}

func getEnvironmentValueWithDefault(variableName string, defaultValue string) string {
	environmentValue := os.Getenv(variableName)
	if environmentValue == "" {
		return defaultValue
	}

	return environmentValue
}
