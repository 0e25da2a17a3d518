package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tropicaldog17/monitorcrypto/internal/db"
	apperrors "github.com/tropicaldog17/monitorcrypto/internal/errors"
	"github.com/tropicaldog17/monitorcrypto/internal/models"
	"github.com/tropicaldog17/monitorcrypto/internal/repositories"
)

const defaultAnalysisDays = 7

type analysisService struct {
	coins     repositories.CoinRepository
	snapshots repositories.SnapshotRepository
	freshness FreshnessChecker
	now       func() time.Time
}

func NewAnalysisService(database *db.DB, freshness FreshnessChecker) AnalysisService {
	return &analysisService{
		coins:     repositories.NewCoinRepository(database),
		snapshots: repositories.NewSnapshotRepository(database),
		freshness: freshness,
		now:       time.Now,
	}
}

// AnalyseSymbol summarises the stored snapshots of a symbol over the last
// days. It refuses to answer from stale data.
func (s *analysisService) AnalyseSymbol(ctx context.Context, symbol, vsCurrency string, days int) (*models.AnalysisResult, error) {
	sym := strings.ToUpper(strings.TrimSpace(symbol))
	if sym == "" {
		return nil, &apperrors.ErrValidation{Field: "symbol", Message: "must not be empty"}
	}
	vs := strings.ToLower(strings.TrimSpace(vsCurrency))
	if days <= 0 {
		days = defaultAnalysisDays
	}

	fresh, err := s.freshness.IsFresh(ctx, vs, 0)
	if err != nil {
		return nil, err
	}
	if !fresh {
		return nil, fmt.Errorf("%w: run a manual sync for %s first", apperrors.ErrMarketDataUnavailable, vs)
	}

	coin, err := s.coins.FindBySymbol(ctx, sym)
	if err != nil {
		return nil, err
	}
	if coin == nil {
		return nil, fmt.Errorf("%w: no stored data for symbol %s", apperrors.ErrNotFound, sym)
	}

	since := s.now().UTC().AddDate(0, 0, -days)
	snapshots, err := s.snapshots.ListSince(ctx, []uint{coin.ID}, vs, since)
	if err != nil {
		return nil, err
	}
	if len(snapshots) == 0 {
		return nil, fmt.Errorf("%w: no recent snapshots for %s in %s", apperrors.ErrNotFound, sym, vs)
	}

	prices := make([]float64, 0, len(snapshots))
	for _, snap := range snapshots {
		prices = append(prices, decimalFloat(snap.Price))
	}
	last := snapshots[len(snapshots)-1]
	lastPrice := prices[len(prices)-1]

	avg, okAvg := Mean(prices)
	lo, hi, okRange := MinMax(prices)
	vol, okVol := PopulationStdDev(prices)

	var variation *float64
	if lastPrice != 0 {
		if pct, ok := PercentChange(prices[0], lastPrice); ok {
			variation = floatPtr(pct)
		}
	}
	lastUpdated := last.RecordedAt.UTC()

	return &models.AnalysisResult{
		Symbol:       sym,
		Trend:        ClassifyTrend(variation),
		VariationPct: variation,
		LastPrice:    floatPtr(lastPrice),
		AveragePrice: optionalStat(avg, okAvg),
		MinPrice:     optionalStat(lo, okRange),
		MaxPrice:     optionalStat(hi, okRange),
		Volatility:   optionalStat(vol, okVol),
		Change24h:    nullDecimalPtr(last.Change24h),
		Change7d:     nullDecimalPtr(last.Change7d),
		LastUpdated:  &lastUpdated,
		SampleSize:   len(prices),
		PeriodDays:   days,
		VsCurrency:   vs,
	}, nil
}
