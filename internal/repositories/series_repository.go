package repositories

import (
	"context"
	"time"

	"github.com/tropicaldog17/monitorcrypto/internal/db"
	apperrors "github.com/tropicaldog17/monitorcrypto/internal/errors"
	"github.com/tropicaldog17/monitorcrypto/internal/models"
)

const seriesBatchSize = 500

type seriesRepository struct {
	db *db.DB
}

func NewSeriesRepository(database *db.DB) SeriesRepository {
	return &seriesRepository{db: database}
}

func (r *seriesRepository) DeleteFor(ctx context.Context, coinID uint, vsCurrency string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("coin_id = ? AND vs_currency = ?", coinID, vsCurrency).
		Delete(&models.CoinSeries{})
	if res.Error != nil {
		return 0, apperrors.Persistence("delete series", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *seriesRepository) CreateBatch(ctx context.Context, points []*models.CoinSeries) error {
	if len(points) == 0 {
		return nil
	}
	return apperrors.Persistence("insert series", r.db.WithContext(ctx).CreateInBatches(points, seriesBatchSize).Error)
}

// List returns the series of one coin, oldest first. A zero since returns all rows.
func (r *seriesRepository) List(ctx context.Context, coinID uint, vsCurrency string, since time.Time) ([]*models.CoinSeries, error) {
	var out []*models.CoinSeries
	q := r.db.WithContext(ctx).Where("coin_id = ? AND vs_currency = ?", coinID, vsCurrency)
	if !since.IsZero() {
		q = q.Where("recorded_at >= ?", since)
	}
	if err := q.Order("recorded_at ASC").Find(&out).Error; err != nil {
		return nil, apperrors.Persistence("list series", err)
	}
	return out, nil
}
