package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tropicaldog17/monitorcrypto/internal/db"
	"github.com/tropicaldog17/monitorcrypto/internal/metrics"
	"github.com/tropicaldog17/monitorcrypto/internal/models"
	"github.com/tropicaldog17/monitorcrypto/internal/repositories"
)

const (
	defaultVsCurrency = "usd"
	defaultPerPage    = 50
	defaultSeriesDays = 90
	descriptionDays   = 1
)

// SyncDefaults fill in arguments a caller leaves at their zero value.
type SyncDefaults struct {
	VsCurrency string
	PerPage    int
	Pages      int
	SeriesDays int
}

// SyncService copies upstream market data into the store.
type SyncService struct {
	db       *db.DB
	source   MarketDataSource
	defaults SyncDefaults
	metrics  *metrics.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

func NewSyncService(database *db.DB, source MarketDataSource, defaults SyncDefaults, m *metrics.Metrics, logger *zap.Logger) *SyncService {
	if defaults.VsCurrency == "" {
		defaults.VsCurrency = defaultVsCurrency
	}
	if defaults.PerPage <= 0 {
		defaults.PerPage = defaultPerPage
	}
	if defaults.Pages <= 0 {
		defaults.Pages = 1
	}
	if defaults.SeriesDays <= 0 {
		defaults.SeriesDays = defaultSeriesDays
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncService{
		db:       database,
		source:   source,
		defaults: defaults,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// SyncMarketSnapshot upserts every listed coin and inserts one snapshot per
// coin, all stamped with the same pass timestamp, inside one transaction.
// Paging stops at the first empty or short page. It returns the number of
// snapshots inserted.
func (s *SyncService) SyncMarketSnapshot(ctx context.Context, vsCurrency string, perPage, pages int) (int, error) {
	vs := s.vsCurrency(vsCurrency)
	if perPage <= 0 {
		perPage = s.defaults.PerPage
	}
	if pages <= 0 {
		pages = s.defaults.Pages
	}

	log := s.logger.With(
		zap.String("run_id", uuid.NewString()),
		zap.String("kind", "market"),
		zap.String("vs_currency", vs),
	)
	started := time.Now()
	passAt := s.now().UTC().Truncate(time.Microsecond)

	inserted, err := db.InTransaction(ctx, s.db, func(tx *db.DB) (int, error) {
		coins := repositories.NewCoinRepository(tx)
		snapshots := repositories.NewSnapshotRepository(tx)

		processed := 0
		for page := 1; page <= pages; page++ {
			batch, err := s.source.FetchListing(ctx, vs, perPage, page)
			if err != nil {
				return 0, err
			}
			if len(batch) == 0 {
				break
			}
			for _, quote := range batch {
				n, err := s.applyQuote(ctx, log, coins, snapshots, quote, vs, passAt)
				if err != nil {
					return 0, err
				}
				processed += n
			}
			if len(batch) < perPage {
				break
			}
		}
		return processed, nil
	})
	s.metrics.ObservePass("market", started, err)
	if err != nil {
		log.Error("market snapshot sync failed", zap.Error(err))
		return 0, err
	}

	s.metrics.AddSnapshots(inserted)
	log.Info("market snapshot synced",
		zap.Int("inserted", inserted),
		zap.Int("per_page", perPage),
		zap.Int("pages", pages),
		zap.Time("recorded_at", passAt))
	return inserted, nil
}

func (s *SyncService) applyQuote(
	ctx context.Context,
	log *zap.Logger,
	coins repositories.CoinRepository,
	snapshots repositories.SnapshotRepository,
	quote AssetQuote,
	vs string,
	passAt time.Time,
) (int, error) {
	if quote.ID == "" {
		log.Warn("listing entry without id skipped", zap.String("symbol", quote.Symbol))
		return 0, nil
	}

	coin, err := coins.FindByCoinGeckoID(ctx, quote.ID)
	if err != nil {
		return 0, err
	}
	if coin == nil {
		coin = &models.Coin{CoinGeckoID: quote.ID}
	}

	coin.Symbol = strings.ToUpper(quote.Symbol)
	coin.Name = firstNonEmpty(quote.Name, quote.ID, coin.Symbol)
	coin.Image = optionalString(quote.Image)
	coin.MarketCapRank = quote.MarketCapRank
	lastSynced := passAt
	coin.LastSyncedAt = &lastSynced

	if !coin.HasDescription() {
		s.backfillDescription(ctx, log, coin, vs)
	}

	if err := coins.Save(ctx, coin); err != nil {
		return 0, err
	}

	exists, err := snapshots.Exists(ctx, coin.ID, vs, passAt)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, nil
	}

	price := quote.CurrentPrice.Decimal()
	if !price.Valid {
		log.Warn("quote without usable price, snapshot skipped", zap.String("coin_id", quote.ID))
		return 0, nil
	}

	snapshot := &models.CoinSnapshot{
		CoinID:      coin.ID,
		VsCurrency:  vs,
		RecordedAt:  passAt,
		Price:       price.Decimal,
		MarketCap:   quote.MarketCap.Decimal(),
		TotalVolume: quote.TotalVolume.Decimal(),
		Change1h:    quote.Change1h.Decimal(),
		Change24h:   quote.Change24h.Decimal(),
		Change7d:    quote.Change7d.Decimal(),
		ATH:         quote.ATH.Decimal(),
	}
	if err := snapshots.Create(ctx, snapshot); err != nil {
		return 0, err
	}
	return 1, nil
}

// backfillDescription is best effort: failures are logged and dropped.
func (s *SyncService) backfillDescription(ctx context.Context, log *zap.Logger, coin *models.Coin, vs string) {
	detail, err := s.source.FetchDetail(ctx, coin.CoinGeckoID, vs, descriptionDays)
	if err != nil {
		log.Warn("description backfill failed", zap.String("coin_id", coin.CoinGeckoID), zap.Error(err))
		return
	}
	if desc := strings.TrimSpace(detail.Description); desc != "" {
		coin.Description = &desc
	}
	if coin.Image == nil {
		coin.Image = optionalString(detail.Image)
	}
}

// SyncHistoricalSeries replaces the stored series of every selected coin
// with a freshly fetched window. When no matching coin is stored yet, one
// market pass runs first. A coin whose fetch fails is skipped.
func (s *SyncService) SyncHistoricalSeries(ctx context.Context, vsCurrency string, days int, coinIDs []string) (*SeriesSyncResult, error) {
	vs := s.vsCurrency(vsCurrency)
	if days <= 0 {
		days = s.defaults.SeriesDays
	}
	filter := normalizeCoinIDs(coinIDs)

	log := s.logger.With(
		zap.String("run_id", uuid.NewString()),
		zap.String("kind", "series"),
		zap.String("vs_currency", vs),
		zap.Int("days", days),
	)
	started := time.Now()

	count, err := repositories.NewCoinRepository(s.db).Count(ctx, filter)
	if err != nil {
		s.metrics.ObservePass("series", started, err)
		return nil, err
	}
	if count == 0 {
		log.Info("no coins stored for series sync, running market sync first", zap.Strings("coin_ids", filter))
		if _, err := s.SyncMarketSnapshot(ctx, vs, 0, 0); err != nil {
			log.Warn("market sync before series sync failed", zap.Error(err))
		}
	}

	result, err := db.InTransaction(ctx, s.db, func(tx *db.DB) (*SeriesSyncResult, error) {
		coins := repositories.NewCoinRepository(tx)
		series := repositories.NewSeriesRepository(tx)

		res := &SeriesSyncResult{CoinIDs: []string{}}
		list, err := coins.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		if len(list) == 0 {
			log.Warn("no coins match the series sync filter", zap.Strings("coin_ids", filter))
			return res, nil
		}

		for _, coin := range list {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			detail, err := s.source.FetchDetail(ctx, coin.CoinGeckoID, vs, days)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				log.Warn("series fetch failed, coin skipped", zap.String("coin_id", coin.CoinGeckoID), zap.Error(err))
				continue
			}

			if _, err := series.DeleteFor(ctx, coin.ID, vs); err != nil {
				return nil, err
			}
			rows := seriesRows(coin.ID, vs, detail.Prices)
			if err := series.CreateBatch(ctx, rows); err != nil {
				return nil, err
			}
			if len(rows) > 0 {
				res.Inserted += len(rows)
				res.Coins++
				res.CoinIDs = append(res.CoinIDs, coin.CoinGeckoID)
			}
		}
		return res, nil
	})
	s.metrics.ObservePass("series", started, err)
	if err != nil {
		log.Error("series sync failed", zap.Error(err))
		return nil, err
	}

	s.metrics.AddSeriesPoints(result.Inserted)
	log.Info("historical series synced",
		zap.Int("inserted", result.Inserted),
		zap.Int("coins", result.Coins))
	return result, nil
}

func (s *SyncService) vsCurrency(vs string) string {
	vs = strings.ToLower(strings.TrimSpace(vs))
	if vs == "" {
		return s.defaults.VsCurrency
	}
	return vs
}

// seriesRows drops unparsable prices and keeps the last sample of any
// repeated timestamp, preserving first-seen order.
func seriesRows(coinID uint, vs string, points []PricePoint) []*models.CoinSeries {
	rows := make([]*models.CoinSeries, 0, len(points))
	index := make(map[int64]int, len(points))
	for _, p := range points {
		price := p.Price.Decimal()
		if !price.Valid {
			continue
		}
		row := &models.CoinSeries{
			CoinID:     coinID,
			VsCurrency: vs,
			RecordedAt: time.UnixMilli(p.TimestampMs).UTC(),
			Price:      price.Decimal,
		}
		if i, ok := index[p.TimestampMs]; ok {
			rows[i] = row
			continue
		}
		index[p.TimestampMs] = len(rows)
		rows = append(rows, row)
	}
	return rows
}

func normalizeCoinIDs(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.ToLower(strings.TrimSpace(id))
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Strings(out)
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
