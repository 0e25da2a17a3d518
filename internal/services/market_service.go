package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tropicaldog17/monitorcrypto/internal/db"
	apperrors "github.com/tropicaldog17/monitorcrypto/internal/errors"
	"github.com/tropicaldog17/monitorcrypto/internal/models"
	"github.com/tropicaldog17/monitorcrypto/internal/repositories"
)

// DefaultMaxSeriesPoints caps the series returned with a coin detail.
const DefaultMaxSeriesPoints = 200

// rank used to sort coins without a market cap rank last
const unrankedSortKey = 1_000_000

type marketService struct {
	coins     repositories.CoinRepository
	snapshots repositories.SnapshotRepository
	series    repositories.SeriesRepository
	maxPoints int
	now       func() time.Time
}

func NewMarketService(database *db.DB) MarketService {
	return &marketService{
		coins:     repositories.NewCoinRepository(database),
		snapshots: repositories.NewSnapshotRepository(database),
		series:    repositories.NewSeriesRepository(database),
		maxPoints: DefaultMaxSeriesPoints,
		now:       time.Now,
	}
}

// GetLatestPrices pages through the newest snapshot of every coin, largest
// market cap first, each with KPIs over the last day and week.
func (s *marketService) GetLatestPrices(ctx context.Context, vsCurrency string, perPage, page int) ([]*models.PriceItem, error) {
	vs := strings.ToLower(strings.TrimSpace(vsCurrency))
	perPage = max(1, perPage)
	page = max(1, page)

	latest, err := s.snapshots.LatestPerCoin(ctx, vs)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(latest, func(i, j int) bool {
		mi, mj := nullDecimalValue(latest[i].MarketCap), nullDecimalValue(latest[j].MarketCap)
		if !mi.Equal(mj) {
			return mi.GreaterThan(mj)
		}
		ri, rj := rankKey(latest[i].Coin), rankKey(latest[j].Coin)
		if ri != rj {
			return ri < rj
		}
		return latest[i].CoinID < latest[j].CoinID
	})

	start := (page - 1) * perPage
	if start >= len(latest) {
		return []*models.PriceItem{}, nil
	}
	end := min(start+perPage, len(latest))
	window := latest[start:end]

	now := s.now().UTC()
	dayAgo := now.Add(-24 * time.Hour)
	weekAgo := now.Add(-7 * 24 * time.Hour)

	ids := make([]uint, 0, len(window))
	for _, snap := range window {
		ids = append(ids, snap.CoinID)
	}
	history, err := s.snapshots.ListSince(ctx, ids, vs, weekAgo)
	if err != nil {
		return nil, err
	}
	week := make(map[uint][]float64, len(window))
	day := make(map[uint][]float64, len(window))
	for _, h := range history {
		p := decimalFloat(h.Price)
		week[h.CoinID] = append(week[h.CoinID], p)
		if !h.RecordedAt.Before(dayAgo) {
			day[h.CoinID] = append(day[h.CoinID], p)
		}
	}

	items := make([]*models.PriceItem, 0, len(window))
	for _, snap := range window {
		items = append(items, priceItem(snap, day[snap.CoinID], week[snap.CoinID]))
	}
	return items, nil
}

func priceItem(snap *models.CoinSnapshot, day, week []float64) *models.PriceItem {
	coin := snap.Coin
	if coin == nil {
		coin = &models.Coin{}
	}
	recordedAt := snap.RecordedAt.UTC()

	avgDay, okDay := Mean(day)
	avgWeek, okWeek := Mean(week)
	lo, hi, okRange := MinMax(week)
	vol, okVol := PopulationStdDev(week)

	return &models.PriceItem{
		ID:                       coin.CoinGeckoID,
		Symbol:                   coin.Symbol,
		Name:                     coin.Name,
		Image:                    coin.Image,
		CurrentPrice:             floatPtr(decimalFloat(snap.Price)),
		MarketCap:                nullDecimalPtr(snap.MarketCap),
		MarketCapRank:            coin.MarketCapRank,
		TotalVolume:              nullDecimalPtr(snap.TotalVolume),
		ATH:                      nullDecimalPtr(snap.ATH),
		PriceChangePercentage1h:  nullDecimalOrZero(snap.Change1h),
		PriceChangePercentage24h: nullDecimalOrZero(snap.Change24h),
		PriceChangePercentage7d:  nullDecimalOrZero(snap.Change7d),
		LastSnapshotAt:           &recordedAt,
		VsCurrency:               snap.VsCurrency,
		KPIs: &models.PriceKPIs{
			AvgPrice24h:          optionalStat(avgDay, okDay),
			AvgPrice7d:           optionalStat(avgWeek, okWeek),
			MinPrice7d:           optionalStat(lo, okRange),
			MaxPrice7d:           optionalStat(hi, okRange),
			Volatility7d:         optionalStat(vol, okVol),
			VolumeMarketCapRatio: safeRatio(snap.TotalVolume, snap.MarketCap),
		},
	}
}

// GetCoinDetail serves a coin from the store. The price series comes from
// the synced series rows, or from snapshots when no series is stored. A
// non-positive days returns the whole stored history.
func (s *marketService) GetCoinDetail(ctx context.Context, coinID, vsCurrency string, days int) (*models.CoinDetail, error) {
	vs := strings.ToLower(strings.TrimSpace(vsCurrency))

	coin, err := s.coins.FindByCoinGeckoID(ctx, coinID)
	if err != nil {
		return nil, err
	}
	if coin == nil {
		return nil, fmt.Errorf("%w: coin %q is not synced", apperrors.ErrNotFound, coinID)
	}

	var since time.Time
	if days > 0 {
		since = s.now().UTC().AddDate(0, 0, -days)
	}
	seriesRows, err := s.series.List(ctx, coin.ID, vs, since)
	if err != nil {
		return nil, err
	}
	snapshotRows, err := s.snapshots.ListSince(ctx, []uint{coin.ID}, vs, since)
	if err != nil {
		return nil, err
	}

	var prices [][2]float64
	if len(seriesRows) > 0 {
		for _, row := range lastN(seriesRows, s.maxPoints) {
			prices = append(prices, [2]float64{float64(row.RecordedAt.UnixMilli()), decimalFloat(row.Price)})
		}
	} else {
		for _, row := range lastN(snapshotRows, s.maxPoints) {
			prices = append(prices, [2]float64{float64(row.RecordedAt.UnixMilli()), decimalFloat(row.Price)})
		}
	}
	if len(prices) == 0 {
		return nil, fmt.Errorf("%w: no stored series for %q in %s", apperrors.ErrNotFound, coinID, vs)
	}

	detail := &models.CoinDetail{
		ID:            coin.CoinGeckoID,
		Symbol:        strings.ToLower(coin.Symbol),
		Name:          coin.Name,
		Description:   coin.Description,
		Image:         coin.Image,
		MarketCapRank: coin.MarketCapRank,
		PricesSeries:  prices,
	}
	if len(snapshotRows) > 0 {
		last := snapshotRows[len(snapshotRows)-1]
		detail.CurrentPrice = floatPtr(decimalFloat(last.Price))
		detail.MarketCap = nullDecimalPtr(last.MarketCap)
		detail.TotalVolume = nullDecimalPtr(last.TotalVolume)
		detail.ATH = nullDecimalPtr(last.ATH)
		detail.PriceChangePercentage1h = nullDecimalPtr(last.Change1h)
		detail.PriceChangePercentage24h = nullDecimalPtr(last.Change24h)
		detail.PriceChangePercentage7d = nullDecimalPtr(last.Change7d)
	} else {
		detail.CurrentPrice = floatPtr(decimalFloat(seriesRows[len(seriesRows)-1].Price))
	}
	return detail, nil
}

func lastN[T any](rows []T, n int) []T {
	if n > 0 && len(rows) > n {
		return rows[len(rows)-n:]
	}
	return rows
}

func nullDecimalValue(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}

func rankKey(c *models.Coin) int {
	if c == nil || c.MarketCapRank == nil {
		return unrankedSortKey
	}
	return *c.MarketCapRank
}

func safeRatio(numerator, denominator decimal.NullDecimal) *float64 {
	if !numerator.Valid || !denominator.Valid || denominator.Decimal.IsZero() {
		return nil
	}
	return floatPtr(decimalFloat(numerator.Decimal.Div(denominator.Decimal)))
}
