package repositories

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/tropicaldog17/monitorcrypto/internal/db"
	apperrors "github.com/tropicaldog17/monitorcrypto/internal/errors"
	"github.com/tropicaldog17/monitorcrypto/internal/models"
)

type coinRepository struct {
	db *db.DB
}

// NewCoinRepository binds the repository to a connection or an open transaction.
func NewCoinRepository(database *db.DB) CoinRepository {
	return &coinRepository{db: database}
}

// FindByCoinGeckoID returns nil without error when the coin is unknown.
func (r *coinRepository) FindByCoinGeckoID(ctx context.Context, coingeckoID string) (*models.Coin, error) {
	var c models.Coin
	err := r.db.WithContext(ctx).Where("coingecko_id = ?", coingeckoID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Persistence("find coin", err)
	}
	return &c, nil
}

func (r *coinRepository) FindBySymbol(ctx context.Context, symbol string) (*models.Coin, error) {
	var c models.Coin
	err := r.db.WithContext(ctx).
		Where("symbol = ?", strings.ToUpper(strings.TrimSpace(symbol))).
		Order("market_cap_rank IS NULL, market_cap_rank ASC, id ASC").
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Persistence("find coin by symbol", err)
	}
	return &c, nil
}

// Save inserts a new coin or updates every column of an existing one.
func (r *coinRepository) Save(ctx context.Context, coin *models.Coin) error {
	return apperrors.Persistence("save coin", r.db.WithContext(ctx).Save(coin).Error)
}

func (r *coinRepository) List(ctx context.Context, coingeckoIDs []string) ([]*models.Coin, error) {
	var coins []*models.Coin
	q := r.db.WithContext(ctx).Model(&models.Coin{})
	if len(coingeckoIDs) > 0 {
		q = q.Where("coingecko_id IN ?", coingeckoIDs)
	}
	if err := q.Order("id ASC").Find(&coins).Error; err != nil {
		return nil, apperrors.Persistence("list coins", err)
	}
	return coins, nil
}

func (r *coinRepository) Count(ctx context.Context, coingeckoIDs []string) (int64, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&models.Coin{})
	if len(coingeckoIDs) > 0 {
		q = q.Where("coingecko_id IN ?", coingeckoIDs)
	}
	if err := q.Count(&n).Error; err != nil {
		return 0, apperrors.Persistence("count coins", err)
	}
	return n, nil
}
