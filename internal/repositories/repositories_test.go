package repositories_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tropicaldog17/monitorcrypto/internal/db"
	"github.com/tropicaldog17/monitorcrypto/internal/db/dbtest"
	"github.com/tropicaldog17/monitorcrypto/internal/models"
	"github.com/tropicaldog17/monitorcrypto/internal/repositories"
)

func seedCoin(t *testing.T, database *db.DB, id, symbol string) *models.Coin {
	t.Helper()
	c := &models.Coin{CoinGeckoID: id, Symbol: symbol, Name: symbol}
	require.NoError(t, repositories.NewCoinRepository(database).Save(context.Background(), c))
	require.NotZero(t, c.ID)
	return c
}

func snapshot(coinID uint, at time.Time, price string) *models.CoinSnapshot {
	return &models.CoinSnapshot{
		CoinID:     coinID,
		VsCurrency: "usd",
		RecordedAt: at,
		Price:      decimal.RequireFromString(price),
	}
}

func TestCoinRepository_FindAndList(t *testing.T) {
	ctx := context.Background()
	database := dbtest.NewSQLite(t)
	repo := repositories.NewCoinRepository(database)

	missing, err := repo.FindByCoinGeckoID(ctx, "bitcoin")
	require.NoError(t, err)
	assert.Nil(t, missing)

	seedCoin(t, database, "bitcoin", "BTC")
	seedCoin(t, database, "ethereum", "ETH")

	btc, err := repo.FindByCoinGeckoID(ctx, "bitcoin")
	require.NoError(t, err)
	require.NotNil(t, btc)
	assert.Equal(t, "BTC", btc.Symbol)

	bySymbol, err := repo.FindBySymbol(ctx, " eth ")
	require.NoError(t, err)
	require.NotNil(t, bySymbol)
	assert.Equal(t, "ethereum", bySymbol.CoinGeckoID)

	all, err := repo.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := repo.List(ctx, []string{"ethereum", "dogecoin"})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "ethereum", filtered[0].CoinGeckoID)

	n, err := repo.Count(ctx, []string{"dogecoin"})
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}

func TestSnapshotRepository_LatestAndExists(t *testing.T) {
	ctx := context.Background()
	database := dbtest.NewSQLite(t)
	repo := repositories.NewSnapshotRepository(database)

	latest, err := repo.LatestRecordedAt(ctx, "usd")
	require.NoError(t, err)
	assert.Nil(t, latest)

	btc := seedCoin(t, database, "bitcoin", "BTC")
	eth := seedCoin(t, database, "ethereum", "ETH")
	t1 := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(10 * time.Minute)

	require.NoError(t, repo.Create(ctx, snapshot(btc.ID, t1, "42000")))
	require.NoError(t, repo.Create(ctx, snapshot(btc.ID, t2, "43000")))
	require.NoError(t, repo.Create(ctx, snapshot(eth.ID, t1, "2200")))

	exists, err := repo.Exists(ctx, btc.ID, "usd", t2)
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = repo.Exists(ctx, eth.ID, "usd", t2)
	require.NoError(t, err)
	assert.False(t, exists)

	latest, err = repo.LatestRecordedAt(ctx, "usd")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.True(t, latest.Equal(t2))

	none, err := repo.LatestRecordedAt(ctx, "eur")
	require.NoError(t, err)
	assert.Nil(t, none)

	perCoin, err := repo.LatestPerCoin(ctx, "usd")
	require.NoError(t, err)
	require.Len(t, perCoin, 2)
	for _, s := range perCoin {
		require.NotNil(t, s.Coin)
		if s.Coin.CoinGeckoID == "bitcoin" {
			assert.True(t, s.RecordedAt.Equal(t2))
			assert.True(t, s.Price.Equal(decimal.NewFromInt(43000)))
		}
	}

	since, err := repo.ListSince(ctx, []uint{btc.ID}, "usd", t2)
	require.NoError(t, err)
	assert.Len(t, since, 1)

	everything, err := repo.ListSince(ctx, nil, "usd", time.Time{})
	require.NoError(t, err)
	assert.Len(t, everything, 3)
}

func TestSeriesRepository_ReplaceFlow(t *testing.T) {
	ctx := context.Background()
	database := dbtest.NewSQLite(t)
	repo := repositories.NewSeriesRepository(database)
	btc := seedCoin(t, database, "bitcoin", "BTC")

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	var points []*models.CoinSeries
	for i := 0; i < 3; i++ {
		points = append(points, &models.CoinSeries{
			CoinID:     btc.ID,
			VsCurrency: "usd",
			RecordedAt: base.AddDate(0, 0, i),
			Price:      decimal.NewFromInt(int64(100 + i)),
		})
	}
	require.NoError(t, repo.CreateBatch(ctx, points))
	require.NoError(t, repo.CreateBatch(ctx, nil))

	rows, err := repo.List(ctx, btc.ID, "usd", base.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.True(t, rows[0].Price.Equal(decimal.NewFromInt(101)))

	deleted, err := repo.DeleteFor(ctx, btc.ID, "usd")
	require.NoError(t, err)
	assert.EqualValues(t, 3, deleted)

	rows, err = repo.List(ctx, btc.ID, "usd", time.Time{})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestTableRepository(t *testing.T) {
	ctx := context.Background()
	database := dbtest.NewSQLite(t)
	repo := repositories.NewTableRepository(database)
	seedCoin(t, database, "bitcoin", "BTC")

	tables, err := repo.ListTables(ctx)
	require.NoError(t, err)
	assert.Subset(t, tables, []string{"coins", "coin_snapshots", "coin_series"})

	cols, err := repo.Columns(ctx, "coins")
	require.NoError(t, err)
	names := make([]string, 0, len(cols))
	for _, c := range cols {
		names = append(names, c.Name)
	}
	assert.Contains(t, names, "coingecko_id")
	assert.Contains(t, names, "image_url")

	n, err := repo.CountRows(ctx, "coins")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	rows, err := repo.SampleRows(ctx, "coins", 5)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "bitcoin", fmt.Sprintf("%s", rows[0]["coingecko_id"]))
}
