package repositories

import (
	"context"
	"time"

	"github.com/tropicaldog17/monitorcrypto/internal/models"
)

// CoinRepository defines the data operations on tracked coins
type CoinRepository interface {
	FindByCoinGeckoID(ctx context.Context, coingeckoID string) (*models.Coin, error)
	FindBySymbol(ctx context.Context, symbol string) (*models.Coin, error)
	Save(ctx context.Context, coin *models.Coin) error
	List(ctx context.Context, coingeckoIDs []string) ([]*models.Coin, error)
	Count(ctx context.Context, coingeckoIDs []string) (int64, error)
}

// SnapshotRepository defines the data operations on market snapshots
type SnapshotRepository interface {
	Exists(ctx context.Context, coinID uint, vsCurrency string, recordedAt time.Time) (bool, error)
	Create(ctx context.Context, snapshot *models.CoinSnapshot) error
	LatestRecordedAt(ctx context.Context, vsCurrency string) (*time.Time, error)
	LatestPerCoin(ctx context.Context, vsCurrency string) ([]*models.CoinSnapshot, error)
	ListSince(ctx context.Context, coinIDs []uint, vsCurrency string, since time.Time) ([]*models.CoinSnapshot, error)
}

// SeriesRepository defines the data operations on historical price series
type SeriesRepository interface {
	DeleteFor(ctx context.Context, coinID uint, vsCurrency string) (int64, error)
	CreateBatch(ctx context.Context, points []*models.CoinSeries) error
	List(ctx context.Context, coinID uint, vsCurrency string, since time.Time) ([]*models.CoinSeries, error)
}

// TableRepository exposes read-only introspection of the database tables
type TableRepository interface {
	ListTables(ctx context.Context) ([]string, error)
	Columns(ctx context.Context, table string) ([]TableColumn, error)
	CountRows(ctx context.Context, table string) (int64, error)
	SampleRows(ctx context.Context, table string, limit int) ([]map[string]interface{}, error)
}

// TableColumn is the name and database type of one column
type TableColumn struct {
	Name string `json:"name"`
	Type string `json:"type"`
}
