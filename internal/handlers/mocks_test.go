package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/tropicaldog17/monitorcrypto/internal/models"
	"github.com/tropicaldog17/monitorcrypto/internal/repositories"
	"github.com/tropicaldog17/monitorcrypto/internal/services"
)

type mockSyncer struct {
	marketErr  error
	seriesErr  error
	processed  int
	series     *services.SeriesSyncResult
	gotVs      string
	gotPerPage int
	gotPages   int
	gotDays    int
	gotCoinIDs []string
}

func (m *mockSyncer) SyncMarketSnapshot(_ context.Context, vs string, perPage, pages int) (int, error) {
	m.gotVs, m.gotPerPage, m.gotPages = vs, perPage, pages
	return m.processed, m.marketErr
}

func (m *mockSyncer) SyncHistoricalSeries(_ context.Context, vs string, days int, coinIDs []string) (*services.SeriesSyncResult, error) {
	m.gotVs, m.gotDays, m.gotCoinIDs = vs, days, coinIDs
	if m.seriesErr != nil {
		return nil, m.seriesErr
	}
	if m.series == nil {
		return &services.SeriesSyncResult{CoinIDs: []string{}}, nil
	}
	return m.series, nil
}

type mockFreshness struct {
	fresh bool
	err   error
	gotVs string
	last  *time.Time
}

func (m *mockFreshness) IsFresh(_ context.Context, vs string, _ int) (bool, error) {
	m.gotVs = vs
	return m.fresh, m.err
}

func (m *mockFreshness) LastSnapshotAt(context.Context, string) (*time.Time, error) { return m.last, nil }

type mockMarket struct {
	items     []*models.PriceItem
	detail    *models.CoinDetail
	err       error
	gotPage   int
	gotPer    int
	gotDays   int
	gotCoinID string
}

func (m *mockMarket) GetLatestPrices(_ context.Context, _ string, perPage, page int) ([]*models.PriceItem, error) {
	m.gotPer, m.gotPage = perPage, page
	return m.items, m.err
}

func (m *mockMarket) GetCoinDetail(_ context.Context, coinID, _ string, days int) (*models.CoinDetail, error) {
	m.gotCoinID, m.gotDays = coinID, days
	return m.detail, m.err
}

type mockAnalysis struct {
	result    *models.AnalysisResult
	err       error
	gotSymbol string
	gotDays   int
}

func (m *mockAnalysis) AnalyseSymbol(_ context.Context, symbol, _ string, days int) (*models.AnalysisResult, error) {
	m.gotSymbol, m.gotDays = symbol, days
	return m.result, m.err
}

type mockTables struct {
	tables []string
	rows   []map[string]interface{}
}

func (m *mockTables) ListTables(context.Context) ([]string, error) { return m.tables, nil }

func (m *mockTables) Columns(_ context.Context, table string) ([]repositories.TableColumn, error) {
	return []repositories.TableColumn{{Name: "id", Type: "bigint"}, {Name: table + "_name", Type: "text"}}, nil
}

func (m *mockTables) CountRows(_ context.Context, table string) (int64, error) {
	if table == "broken" {
		return 0, errors.New("permission denied")
	}
	return 3, nil
}

func (m *mockTables) SampleRows(_ context.Context, _ string, limit int) ([]map[string]interface{}, error) {
	if len(m.rows) > limit {
		return m.rows[:limit], nil
	}
	return m.rows, nil
}

type mockSource struct {
	pingErr error
}

func (m *mockSource) FetchListing(context.Context, string, int, int) ([]services.AssetQuote, error) {
	return nil, nil
}

func (m *mockSource) FetchDetail(context.Context, string, string, int) (*services.AssetDetail, error) {
	return nil, nil
}

func (m *mockSource) Ping(context.Context) error { return m.pingErr }

type mockStore struct{ err error }

func (m mockStore) Health() error { return m.err }

var (
	_ services.Synchronizer        = (*mockSyncer)(nil)
	_ services.FreshnessChecker    = (*mockFreshness)(nil)
	_ services.MarketService       = (*mockMarket)(nil)
	_ services.AnalysisService     = (*mockAnalysis)(nil)
	_ services.MarketDataSource    = (*mockSource)(nil)
	_ repositories.TableRepository = (*mockTables)(nil)
)
