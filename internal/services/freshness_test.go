package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tropicaldog17/monitorcrypto/internal/db/dbtest"
)

func TestFreshnessGate(t *testing.T) {
	database := dbtest.NewSQLite(t)
	gate := NewFreshnessGate(database, 15, nil)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	fresh, err := gate.IsFresh(ctx, "usd", 10)
	require.NoError(t, err)
	assert.False(t, fresh, "empty store is never fresh")

	coin := seedCoin(t, database, "bitcoin", "btc", 1)
	seedSnapshot(t, database, coin, "100", "1000", base)

	tests := []struct {
		name   string
		now    time.Time
		vs     string
		maxAge int
		want   bool
	}{
		{"within limit", base.Add(5 * time.Minute), "usd", 10, true},
		{"exactly at limit", base.Add(10 * time.Minute), "usd", 10, true},
		{"just past limit", base.Add(10*time.Minute + time.Second), "usd", 10, false},
		{"default limit applies", base.Add(14 * time.Minute), "usd", 0, true},
		{"default limit exceeded", base.Add(16 * time.Minute), "usd", -1, false},
		{"currency is normalised", base.Add(time.Minute), " USD ", 10, true},
		{"other currency has no data", base.Add(time.Minute), "eur", 10, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate.now = func() time.Time { return tt.now }
			got, err := gate.IsFresh(ctx, tt.vs, tt.maxAge)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFreshnessGate_LastSnapshotAt(t *testing.T) {
	database := dbtest.NewSQLite(t)
	gate := NewFreshnessGate(database, 0, nil)
	ctx := context.Background()

	last, err := gate.LastSnapshotAt(ctx, "usd")
	require.NoError(t, err)
	assert.Nil(t, last)

	coin := seedCoin(t, database, "bitcoin", "btc", 1)
	older := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)
	seedSnapshot(t, database, coin, "100", "", older)
	seedSnapshot(t, database, coin, "101", "", newer)

	last, err = gate.LastSnapshotAt(ctx, "USD")
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.True(t, last.Equal(newer))
	assert.Equal(t, defaultFreshnessMinutes, gate.defaultMaxAge)
}
