package repositories

import (
	"context"
	"time"

	"github.com/tropicaldog17/monitorcrypto/internal/db"
	apperrors "github.com/tropicaldog17/monitorcrypto/internal/errors"
	"github.com/tropicaldog17/monitorcrypto/internal/models"
)

type snapshotRepository struct {
	db *db.DB
}

func NewSnapshotRepository(database *db.DB) SnapshotRepository {
	return &snapshotRepository{db: database}
}

func (r *snapshotRepository) Exists(ctx context.Context, coinID uint, vsCurrency string, recordedAt time.Time) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.CoinSnapshot{}).
		Where("coin_id = ? AND vs_currency = ? AND recorded_at = ?", coinID, vsCurrency, recordedAt).
		Limit(1).
		Count(&n).Error
	if err != nil {
		return false, apperrors.Persistence("check snapshot", err)
	}
	return n > 0, nil
}

func (r *snapshotRepository) Create(ctx context.Context, snapshot *models.CoinSnapshot) error {
	return apperrors.Persistence("insert snapshot", r.db.WithContext(ctx).Create(snapshot).Error)
}

// LatestRecordedAt returns nil when no snapshot exists for the currency.
func (r *snapshotRepository) LatestRecordedAt(ctx context.Context, vsCurrency string) (*time.Time, error) {
	var latest []time.Time
	err := r.db.WithContext(ctx).Model(&models.CoinSnapshot{}).
		Where("vs_currency = ?", vsCurrency).
		Order("recorded_at DESC").
		Limit(1).
		Pluck("recorded_at", &latest).Error
	if err != nil {
		return nil, apperrors.Persistence("latest snapshot", err)
	}
	if len(latest) == 0 {
		return nil, nil
	}
	ts := latest[0].UTC()
	return &ts, nil
}

// LatestPerCoin returns the most recent snapshot of every coin with its Coin loaded.
func (r *snapshotRepository) LatestPerCoin(ctx context.Context, vsCurrency string) ([]*models.CoinSnapshot, error) {
	latest := r.db.WithContext(ctx).Model(&models.CoinSnapshot{}).
		Select("coin_id, MAX(recorded_at) AS max_recorded").
		Where("vs_currency = ?", vsCurrency).
		Group("coin_id")

	var out []*models.CoinSnapshot
	err := r.db.WithContext(ctx).
		Preload("Coin").
		Joins("JOIN (?) AS latest ON latest.coin_id = coin_snapshots.coin_id AND latest.max_recorded = coin_snapshots.recorded_at", latest).
		Where("coin_snapshots.vs_currency = ?", vsCurrency).
		Find(&out).Error
	if err != nil {
		return nil, apperrors.Persistence("latest snapshots", err)
	}
	return out, nil
}

// ListSince returns snapshots recorded at or after since, oldest first.
// Empty coinIDs selects every coin; a zero since applies no lower bound.
func (r *snapshotRepository) ListSince(ctx context.Context, coinIDs []uint, vsCurrency string, since time.Time) ([]*models.CoinSnapshot, error) {
	var out []*models.CoinSnapshot
	q := r.db.WithContext(ctx).Where("vs_currency = ?", vsCurrency)
	if len(coinIDs) > 0 {
		q = q.Where("coin_id IN ?", coinIDs)
	}
	if !since.IsZero() {
		q = q.Where("recorded_at >= ?", since)
	}
	if err := q.Order("recorded_at ASC").Find(&out).Error; err != nil {
		return nil, apperrors.Persistence("list snapshots", err)
	}
	return out, nil
}
