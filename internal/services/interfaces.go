package services

import (
	"context"
	"time"

	"github.com/tropicaldog17/monitorcrypto/internal/models"
)

// MarketDataSource fetches listings and per-coin detail from the upstream API
type MarketDataSource interface {
	FetchListing(ctx context.Context, vsCurrency string, perPage, page int) ([]AssetQuote, error)
	FetchDetail(ctx context.Context, coinID, vsCurrency string, days int) (*AssetDetail, error)
	Ping(ctx context.Context) error
}

// SourceCache stores encoded upstream responses for a bounded time
type SourceCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
}

// Synchronizer runs the market snapshot and historical series passes
type Synchronizer interface {
	SyncMarketSnapshot(ctx context.Context, vsCurrency string, perPage, pages int) (int, error)
	SyncHistoricalSeries(ctx context.Context, vsCurrency string, days int, coinIDs []string) (*SeriesSyncResult, error)
}

// FreshnessChecker reports whether stored snapshots are recent enough to serve
type FreshnessChecker interface {
	IsFresh(ctx context.Context, vsCurrency string, maxAgeMinutes int) (bool, error)
	LastSnapshotAt(ctx context.Context, vsCurrency string) (*time.Time, error)
}

// MarketService serves stored prices and coin details
type MarketService interface {
	GetLatestPrices(ctx context.Context, vsCurrency string, perPage, page int) ([]*models.PriceItem, error)
	GetCoinDetail(ctx context.Context, coinID, vsCurrency string, days int) (*models.CoinDetail, error)
}

// AnalysisService computes KPIs for a symbol over stored snapshots
type AnalysisService interface {
	AnalyseSymbol(ctx context.Context, symbol, vsCurrency string, days int) (*models.AnalysisResult, error)
}

// SeriesSyncResult summarises one historical series pass
type SeriesSyncResult struct {
	Inserted int
	Coins    int
	CoinIDs  []string
}
