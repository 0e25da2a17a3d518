package services

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tropicaldog17/monitorcrypto/internal/db"
	"github.com/tropicaldog17/monitorcrypto/internal/repositories"
)

const defaultFreshnessMinutes = 15

// FreshnessGate decides whether stored snapshots are recent enough to serve.
// It only reads; it never triggers a sync.
type FreshnessGate struct {
	snapshots     repositories.SnapshotRepository
	defaultMaxAge int
	logger        *zap.Logger
	now           func() time.Time
}

func NewFreshnessGate(database *db.DB, defaultMaxAgeMinutes int, logger *zap.Logger) *FreshnessGate {
	if defaultMaxAgeMinutes <= 0 {
		defaultMaxAgeMinutes = defaultFreshnessMinutes
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FreshnessGate{
		snapshots:     repositories.NewSnapshotRepository(database),
		defaultMaxAge: defaultMaxAgeMinutes,
		logger:        logger,
		now:           time.Now,
	}
}

// IsFresh is false when no snapshot exists for the currency or when the
// newest one is older than maxAgeMinutes. An age equal to the limit is fresh.
// A non-positive maxAgeMinutes uses the configured default.
func (g *FreshnessGate) IsFresh(ctx context.Context, vsCurrency string, maxAgeMinutes int) (bool, error) {
	vs := strings.ToLower(strings.TrimSpace(vsCurrency))
	if maxAgeMinutes <= 0 {
		maxAgeMinutes = g.defaultMaxAge
	}

	latest, err := g.snapshots.LatestRecordedAt(ctx, vs)
	if err != nil {
		return false, err
	}
	if latest == nil {
		g.logger.Warn("no snapshots stored", zap.String("vs_currency", vs))
		return false, nil
	}

	age := g.now().Sub(*latest)
	if age > time.Duration(maxAgeMinutes)*time.Minute {
		g.logger.Info("stored snapshots are stale",
			zap.String("vs_currency", vs),
			zap.Float64("age_minutes", age.Minutes()),
			zap.Int("max_age_minutes", maxAgeMinutes))
		return false, nil
	}
	return true, nil
}

// LastSnapshotAt returns the newest snapshot time for the currency, or nil.
func (g *FreshnessGate) LastSnapshotAt(ctx context.Context, vsCurrency string) (*time.Time, error) {
	return g.snapshots.LatestRecordedAt(ctx, strings.ToLower(strings.TrimSpace(vsCurrency)))
}
