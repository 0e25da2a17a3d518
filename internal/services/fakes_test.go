package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/tropicaldog17/monitorcrypto/internal/db"
	apperrors "github.com/tropicaldog17/monitorcrypto/internal/errors"
	"github.com/tropicaldog17/monitorcrypto/internal/models"
)

// fakeSource is an in-memory MarketDataSource.
type fakeSource struct {
	mu           sync.Mutex
	pages        map[int][]AssetQuote
	listingErr   map[int]error
	details      map[string]*AssetDetail
	detailErr    map[string]error
	listingCalls []int
	detailCalls  []string
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		pages:      map[int][]AssetQuote{},
		listingErr: map[int]error{},
		details:    map[string]*AssetDetail{},
		detailErr:  map[string]error{},
	}
}

func (f *fakeSource) FetchListing(_ context.Context, _ string, _ int, page int) ([]AssetQuote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listingCalls = append(f.listingCalls, page)
	if err := f.listingErr[page]; err != nil {
		return nil, err
	}
	return f.pages[page], nil
}

func (f *fakeSource) FetchDetail(_ context.Context, coinID, _ string, _ int) (*AssetDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detailCalls = append(f.detailCalls, coinID)
	if err := f.detailErr[coinID]; err != nil {
		return nil, err
	}
	d, ok := f.details[coinID]
	if !ok {
		return nil, fmt.Errorf("%w: coingecko status 404", apperrors.ErrSourceUnavailable)
	}
	return d, nil
}

func (f *fakeSource) Ping(context.Context) error { return nil }

func (f *fakeSource) setPage(page int, quotes ...AssetQuote) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages[page] = quotes
}

func (f *fakeSource) setDetail(d *AssetDetail) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.details[d.ID] = d
}

func (f *fakeSource) listingCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.listingCalls)
}

func (f *fakeSource) detailCallsFor(coinID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, id := range f.detailCalls {
		if id == coinID {
			n++
		}
	}
	return n
}

func quote(id, symbol, price string, rank int) AssetQuote {
	r := rank
	return AssetQuote{
		ID:            id,
		Symbol:        symbol,
		Name:          symbol + " coin",
		Image:         "https://img/" + id + ".png",
		CurrentPrice:  Amount(price),
		MarketCap:     "1000000",
		MarketCapRank: &r,
		TotalVolume:   "50000",
		Change24h:     "1.25",
	}
}

// seedCoin stores a coin row directly, bypassing the sync pass.
func seedCoin(t *testing.T, database *db.DB, coingeckoID, symbol string, rank int) *models.Coin {
	t.Helper()
	r := rank
	coin := &models.Coin{CoinGeckoID: coingeckoID, Symbol: strings.ToUpper(symbol), Name: coingeckoID, MarketCapRank: &r}
	require.NoError(t, database.Create(coin).Error)
	return coin
}

func seedSnapshot(t *testing.T, database *db.DB, coin *models.Coin, price, marketCap string, at time.Time) *models.CoinSnapshot {
	t.Helper()
	snap := &models.CoinSnapshot{
		CoinID:      coin.ID,
		VsCurrency:  "usd",
		RecordedAt:  at.UTC(),
		Price:       decimal.RequireFromString(price),
		TotalVolume: decimal.NewNullDecimal(decimal.NewFromInt(500)),
		Change24h:   decimal.NewNullDecimal(decimal.RequireFromString("2.5")),
	}
	if marketCap != "" {
		snap.MarketCap = decimal.NewNullDecimal(decimal.RequireFromString(marketCap))
	}
	require.NoError(t, database.Create(snap).Error)
	return snap
}
