package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"SERVER_PORT", "COINGECKO_API_BASE", "EXTERNAL_TIMEOUT", "SYNC_INTERVAL_SECONDS",
		"SYNC_ENABLE_SCHEDULER", "SYNC_PER_PAGE", "SYNC_PAGES", "SYNC_VS_CURRENCY",
		"SYNC_SERIES_DAYS", "DATA_FRESHNESS_MINUTES", "SOURCE_CACHE_TTL_SECONDS", "REDIS_ADDR",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "5002", cfg.ServerPort)
	assert.Equal(t, "https://api.coingecko.com/api/v3", cfg.CoinGeckoBaseURL)
	assert.Equal(t, 15*time.Second, cfg.ExternalTimeout)
	assert.Equal(t, 600*time.Second, cfg.SyncInterval)
	assert.False(t, cfg.SyncEnableScheduler)
	assert.Equal(t, 50, cfg.SyncPerPage)
	assert.Equal(t, 1, cfg.SyncPages)
	assert.Equal(t, "usd", cfg.SyncVsCurrency)
	assert.Equal(t, 90, cfg.SyncSeriesDays)
	assert.Equal(t, 15, cfg.DataFreshnessMinutes)
	assert.Equal(t, 5*time.Minute, cfg.SourceCacheTTL)
	assert.Empty(t, cfg.RedisAddr)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("COINGECKO_API_BASE", "http://localhost:9999/api/v3/")
	t.Setenv("SYNC_ENABLE_SCHEDULER", "Yes")
	t.Setenv("SYNC_INTERVAL_SECONDS", "45")
	t.Setenv("SYNC_VS_CURRENCY", "EUR")
	t.Setenv("SYNC_PER_PAGE", "not-a-number")

	cfg := Load()
	assert.Equal(t, "http://localhost:9999/api/v3", cfg.CoinGeckoBaseURL)
	assert.True(t, cfg.SyncEnableScheduler)
	assert.Equal(t, 45*time.Second, cfg.SyncInterval)
	assert.Equal(t, "eur", cfg.SyncVsCurrency)
	assert.Equal(t, 50, cfg.SyncPerPage)
}
