package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tropicaldog17/monitorcrypto/internal/db/dbtest"
	"github.com/tropicaldog17/monitorcrypto/internal/models"
)

type fakeSyncer struct {
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
	once    sync.Once
	err     error
	panicAt int32
}

func (f *fakeSyncer) SyncMarketSnapshot(ctx context.Context, _ string, _, _ int) (int, error) {
	n := f.calls.Add(1)
	if f.started != nil {
		f.once.Do(func() { close(f.started) })
	}
	if f.release != nil {
		<-f.release
	}
	if f.panicAt != 0 && n == f.panicAt {
		panic("boom")
	}
	return 1, f.err
}

func (f *fakeSyncer) SyncHistoricalSeries(context.Context, string, int, []string) (*SeriesSyncResult, error) {
	return &SeriesSyncResult{}, nil
}

func enabledConfig(interval time.Duration) SchedulerConfig {
	return SchedulerConfig{Enabled: true, Interval: interval, VsCurrency: "usd", PerPage: 10, Pages: 1}
}

func TestScheduler_DisabledReturnsNil(t *testing.T) {
	syncer := &fakeSyncer{}

	s := NewScheduler(syncer, SchedulerConfig{Enabled: false, Interval: time.Minute}, nil)
	assert.Nil(t, s.Start(context.Background()))

	s = NewScheduler(syncer, enabledConfig(0), nil)
	assert.Nil(t, s.Start(context.Background()))
	assert.Equal(t, SchedulerStopped, s.State())

	s.Stop(nil)
	assert.EqualValues(t, 0, syncer.calls.Load())
}

func TestScheduler_SingleLiveTask(t *testing.T) {
	syncer := &fakeSyncer{started: make(chan struct{})}
	s := NewScheduler(syncer, enabledConfig(time.Hour), nil)

	first := s.Start(context.Background())
	second := s.Start(context.Background())
	require.NotNil(t, first)
	assert.Same(t, first, second)
	assert.Equal(t, SchedulerRunning, s.State())

	<-syncer.started
	s.Stop(first)
	assert.Equal(t, SchedulerStopped, s.State())
	assert.EqualValues(t, 1, syncer.calls.Load(), "first pass runs immediately")

	third := s.Start(context.Background())
	require.NotNil(t, third)
	assert.NotSame(t, first, third)
	s.Stop(nil)
}

func TestScheduler_StopWaitsForPassInFlight(t *testing.T) {
	syncer := &fakeSyncer{started: make(chan struct{}), release: make(chan struct{})}
	s := NewScheduler(syncer, enabledConfig(time.Hour), nil)
	task := s.Start(context.Background())
	<-syncer.started

	stopped := make(chan struct{})
	go func() {
		s.Stop(task)
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned while a pass was still running")
	case <-time.After(50 * time.Millisecond):
	}

	close(syncer.release)
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after the pass finished")
	}
	select {
	case <-task.Done():
	default:
		t.Fatal("task not done after Stop")
	}
}

func TestScheduler_SurvivesFailuresAndPanics(t *testing.T) {
	syncer := &fakeSyncer{err: errors.New("upstream down"), panicAt: 2}
	s := NewScheduler(syncer, enabledConfig(time.Millisecond), nil)
	s.minInterval = time.Millisecond

	task := s.Start(context.Background())
	require.NotNil(t, task)
	require.Eventually(t, func() bool { return syncer.calls.Load() >= 4 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, SchedulerRunning, s.State())
	s.Stop(task)
}

func TestScheduler_ParentCancelEndsLoop(t *testing.T) {
	syncer := &fakeSyncer{}
	s := NewScheduler(syncer, enabledConfig(time.Hour), nil)
	ctx, cancel := context.WithCancel(context.Background())

	task := s.Start(ctx)
	cancel()
	select {
	case <-task.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not exit on parent cancellation")
	}
	assert.Equal(t, SchedulerStopped, s.State())
}

func TestScheduler_IntervalFloor(t *testing.T) {
	s := NewScheduler(&fakeSyncer{}, enabledConfig(time.Second), nil)
	assert.Equal(t, MinSyncInterval, s.interval())

	s = NewScheduler(&fakeSyncer{}, enabledConfig(5*time.Minute), nil)
	assert.Equal(t, 5*time.Minute, s.interval())
	assert.Equal(t, "stopped", SchedulerStopped.String())
	assert.Equal(t, "running", SchedulerRunning.String())
}

func TestScheduler_StopKeepsCommittedPass(t *testing.T) {
	database := dbtest.NewSQLite(t)
	source := newFakeSource()
	source.setPage(1, quote("bitcoin", "btc", "100", 1), quote("ethereum", "eth", "10", 2))
	svc := NewSyncService(database, source, SyncDefaults{VsCurrency: "usd", PerPage: 10, Pages: 1}, nil, nil)

	s := NewScheduler(svc, enabledConfig(time.Hour), nil)
	task := s.Start(context.Background())
	require.NotNil(t, task)

	assert.Eventually(t, func() bool {
		var n int64
		return database.Model(&models.CoinSnapshot{}).Count(&n).Error == nil && n == 2
	}, 2*time.Second, 10*time.Millisecond)

	s.Stop(task)
	assert.Equal(t, SchedulerStopped, s.State())
	assert.Equal(t, 1, source.listingCallCount())
	assert.EqualValues(t, 2, countRows(t, database, &models.CoinSnapshot{}))
	assert.EqualValues(t, 2, countRows(t, database, &models.Coin{}))
}
