package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tropicaldog17/monitorcrypto/internal/db"
	"github.com/tropicaldog17/monitorcrypto/internal/db/dbtest"
	"github.com/tropicaldog17/monitorcrypto/internal/models"
)

func countCoins(t *testing.T, database *db.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, database.Model(&models.Coin{}).Count(&n).Error)
	return n
}

func TestWithTransaction_Commits(t *testing.T) {
	database := dbtest.NewSQLite(t)

	err := database.WithTransaction(context.Background(), func(tx *db.DB) error {
		return tx.Create(&models.Coin{CoinGeckoID: "bitcoin", Symbol: "BTC", Name: "Bitcoin"}).Error
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, countCoins(t, database))
}

func TestWithTransaction_RollsBackAndPropagatesError(t *testing.T) {
	database := dbtest.NewSQLite(t)
	boom := errors.New("boom")

	err := database.WithTransaction(context.Background(), func(tx *db.DB) error {
		if err := tx.Create(&models.Coin{CoinGeckoID: "bitcoin", Symbol: "BTC", Name: "Bitcoin"}).Error; err != nil {
			return err
		}
		return boom
	})
	assert.Same(t, boom, err)
	assert.EqualValues(t, 0, countCoins(t, database))
}

func TestWithTransaction_RollsBackOnPanic(t *testing.T) {
	database := dbtest.NewSQLite(t)

	assert.Panics(t, func() {
		_ = database.WithTransaction(context.Background(), func(tx *db.DB) error {
			tx.Create(&models.Coin{CoinGeckoID: "bitcoin", Symbol: "BTC", Name: "Bitcoin"})
			panic("unexpected")
		})
	})
	assert.EqualValues(t, 0, countCoins(t, database))
}

func TestInTransaction_ReturnsValue(t *testing.T) {
	database := dbtest.NewSQLite(t)

	id, err := db.InTransaction(context.Background(), database, func(tx *db.DB) (uint, error) {
		c := &models.Coin{CoinGeckoID: "ethereum", Symbol: "ETH", Name: "Ethereum"}
		if err := tx.Create(c).Error; err != nil {
			return 0, err
		}
		return c.ID, nil
	})
	require.NoError(t, err)
	assert.NotZero(t, id)

	_, err = db.InTransaction(context.Background(), database, func(tx *db.DB) (uint, error) {
		return 7, errors.New("nope")
	})
	assert.EqualError(t, err, "nope")
}

func TestHealth(t *testing.T) {
	database := dbtest.NewSQLite(t)
	assert.NoError(t, database.Health())
}
