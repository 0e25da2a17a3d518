package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the service settings read from the environment.
type Config struct {
	AppEnv     string
	ServerPort string

	CoinGeckoBaseURL string
	CoinGeckoAPIKey  string
	ExternalTimeout  time.Duration
	SourceCacheTTL   time.Duration

	SyncInterval        time.Duration
	SyncEnableScheduler bool
	SyncPerPage         int
	SyncPages           int
	SyncVsCurrency      string
	SyncSeriesDays      int

	DataFreshnessMinutes int

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Load reads an optional .env file and then the process environment.
func Load() *Config {
	// a missing .env is fine outside local development
	_ = godotenv.Load()

	return &Config{
		AppEnv:     getEnv("APP_ENV", "development"),
		ServerPort: getEnv("SERVER_PORT", "5002"),

		CoinGeckoBaseURL: strings.TrimRight(getEnv("COINGECKO_API_BASE", "https://api.coingecko.com/api/v3"), "/"),
		CoinGeckoAPIKey:  os.Getenv("COINGECKO_API_KEY"),
		ExternalTimeout:  time.Duration(getInt("EXTERNAL_TIMEOUT", 15)) * time.Second,
		SourceCacheTTL:   time.Duration(getInt("SOURCE_CACHE_TTL_SECONDS", 300)) * time.Second,

		SyncInterval:        time.Duration(getInt("SYNC_INTERVAL_SECONDS", 600)) * time.Second,
		SyncEnableScheduler: getBool("SYNC_ENABLE_SCHEDULER", false),
		SyncPerPage:         getInt("SYNC_PER_PAGE", 50),
		SyncPages:           getInt("SYNC_PAGES", 1),
		SyncVsCurrency:      strings.ToLower(getEnv("SYNC_VS_CURRENCY", "usd")),
		SyncSeriesDays:      getInt("SYNC_SERIES_DAYS", 90),

		DataFreshnessMinutes: getInt("DATA_FRESHNESS_MINUTES", 15),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getInt("REDIS_DB", 0),
	}
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getBool(key string, defaultValue bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch value {
	case "":
		return defaultValue
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
