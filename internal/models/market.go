package models

import "time"

// PriceKPIs are derived from the stored snapshots of one coin.
type PriceKPIs struct {
	AvgPrice24h          *float64 `json:"avg_price_24h"`
	AvgPrice7d           *float64 `json:"avg_price_7d"`
	MinPrice7d           *float64 `json:"min_price_7d"`
	MaxPrice7d           *float64 `json:"max_price_7d"`
	Volatility7d         *float64 `json:"volatility_7d"`
	VolumeMarketCapRatio *float64 `json:"volume_market_cap_ratio"`
}

// PriceItem is the latest stored snapshot of a coin as served by /api/prices.
type PriceItem struct {
	ID                       string     `json:"id"`
	Symbol                   string     `json:"symbol"`
	Name                     string     `json:"nombre"`
	Image                    *string    `json:"image"`
	CurrentPrice             *float64   `json:"current_price"`
	MarketCap                *float64   `json:"market_cap"`
	MarketCapRank            *int       `json:"market_cap_rank"`
	TotalVolume              *float64   `json:"total_volume"`
	ATH                      *float64   `json:"ath"`
	PriceChangePercentage1h  float64    `json:"price_change_percentage_1h"`
	PriceChangePercentage24h float64    `json:"price_change_percentage_24h"`
	PriceChangePercentage7d  float64    `json:"price_change_percentage_7d"`
	LastSnapshotAt           *time.Time `json:"last_snapshot_at"`
	VsCurrency               string     `json:"vs_currency"`
	KPIs                     *PriceKPIs `json:"kpis"`
}

// CoinDetail is a coin with its stored price series as [timestamp_ms, price] pairs.
type CoinDetail struct {
	ID                       string       `json:"id"`
	Symbol                   string       `json:"symbol"`
	Name                     string       `json:"nombre"`
	Description              *string      `json:"description"`
	Image                    *string      `json:"image"`
	CurrentPrice             *float64     `json:"current_price"`
	MarketCap                *float64     `json:"market_cap"`
	MarketCapRank            *int         `json:"market_cap_rank"`
	TotalVolume              *float64     `json:"total_volume"`
	ATH                      *float64     `json:"ath"`
	PriceChangePercentage1h  *float64     `json:"price_change_percentage_1h"`
	PriceChangePercentage24h *float64     `json:"price_change_percentage_24h"`
	PriceChangePercentage7d  *float64     `json:"price_change_percentage_7d"`
	PricesSeries             [][2]float64 `json:"prices_series"`
}

// AnalysisResult summarises the snapshots of one symbol over a window.
type AnalysisResult struct {
	Symbol       string     `json:"symbol"`
	Trend        string     `json:"trend"`
	VariationPct *float64   `json:"variation_pct"`
	LastPrice    *float64   `json:"last_price"`
	AveragePrice *float64   `json:"average_price"`
	MinPrice     *float64   `json:"min_price"`
	MaxPrice     *float64   `json:"max_price"`
	Volatility   *float64   `json:"volatility"`
	Change24h    *float64   `json:"change_24h"`
	Change7d     *float64   `json:"change_7d"`
	LastUpdated  *time.Time `json:"last_updated"`
	SampleSize   int        `json:"sample_size"`
	PeriodDays   int        `json:"period_days"`
	VsCurrency   string     `json:"vs_currency"`
}

// SyncResponse is returned by the manual sync triggers.
type SyncResponse struct {
	Processed  int       `json:"processed"`
	VsCurrency string    `json:"vs_currency"`
	PerPage    int       `json:"per_page"`
	Pages      int       `json:"pages"`
	SyncedAt   time.Time `json:"synced_at"`
	Coins      *int      `json:"coins,omitempty"`
	CoinIDs    []string  `json:"coin_ids,omitempty"`
}
