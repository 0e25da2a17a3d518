package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// MinSyncInterval is the shortest pause allowed between periodic passes.
const MinSyncInterval = 30 * time.Second

// SchedulerState is the lifecycle state of a Scheduler.
type SchedulerState int

const (
	SchedulerStopped SchedulerState = iota
	SchedulerRunning
)

func (s SchedulerState) String() string {
	if s == SchedulerRunning {
		return "running"
	}
	return "stopped"
}

// SchedulerConfig controls the periodic market pass.
type SchedulerConfig struct {
	Enabled    bool
	Interval   time.Duration
	VsCurrency string
	PerPage    int
	Pages      int
}

// SchedulerTask is the handle of one running periodic loop.
type SchedulerTask struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Done is closed once the loop has returned.
func (t *SchedulerTask) Done() <-chan struct{} {
	return t.done
}

// Scheduler runs the market pass on a fixed interval. At most one loop is
// live at a time; Start while running returns the existing task.
type Scheduler struct {
	syncer      Synchronizer
	cfg         SchedulerConfig
	logger      *zap.Logger
	minInterval time.Duration

	mu   sync.Mutex
	task *SchedulerTask
}

func NewScheduler(syncer Synchronizer, cfg SchedulerConfig, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		syncer:      syncer,
		cfg:         cfg,
		logger:      logger,
		minInterval: MinSyncInterval,
	}
}

// State reports whether a periodic loop is live.
func (s *Scheduler) State() SchedulerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.liveTask() != nil {
		return SchedulerRunning
	}
	return SchedulerStopped
}

// Start launches the periodic loop under ctx. It returns nil when the
// scheduler is disabled or the interval is not positive.
func (s *Scheduler) Start(ctx context.Context) *SchedulerTask {
	if !s.cfg.Enabled || s.cfg.Interval <= 0 {
		s.logger.Info("sync scheduler disabled by configuration")
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if task := s.liveTask(); task != nil {
		return task
	}

	loopCtx, cancel := context.WithCancel(ctx)
	task := &SchedulerTask{cancel: cancel, done: make(chan struct{})}
	s.task = task
	go s.loop(loopCtx, task)

	s.logger.Info("sync scheduler started",
		zap.Duration("interval", s.interval()),
		zap.String("vs_currency", s.cfg.VsCurrency))
	return task
}

// Stop cancels the loop and waits for it to return, including any pass in
// flight. A nil task stops the current one. Committed work is kept.
func (s *Scheduler) Stop(task *SchedulerTask) {
	s.mu.Lock()
	if task == nil {
		task = s.task
	}
	if task == nil {
		s.mu.Unlock()
		return
	}
	if s.task == task {
		s.task = nil
	}
	s.mu.Unlock()

	task.cancel()
	<-task.done
	s.logger.Info("sync scheduler stopped")
}

// liveTask must be called with mu held.
func (s *Scheduler) liveTask() *SchedulerTask {
	if s.task == nil {
		return nil
	}
	select {
	case <-s.task.done:
		s.task = nil
		return nil
	default:
		return s.task
	}
}

func (s *Scheduler) interval() time.Duration {
	if s.cfg.Interval < s.minInterval {
		return s.minInterval
	}
	return s.cfg.Interval
}

func (s *Scheduler) loop(ctx context.Context, task *SchedulerTask) {
	defer close(task.done)
	interval := s.interval()

	for {
		if ctx.Err() != nil {
			return
		}
		s.runOnce(ctx)

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// runOnce never lets a failing or panicking pass escape the loop.
func (s *Scheduler) runOnce(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("periodic sync panicked", zap.String("panic", fmt.Sprint(r)))
		}
	}()

	inserted, err := s.syncer.SyncMarketSnapshot(ctx, s.cfg.VsCurrency, s.cfg.PerPage, s.cfg.Pages)
	if err != nil {
		if ctx.Err() != nil {
			s.logger.Info("periodic sync interrupted by shutdown", zap.Error(err))
			return
		}
		s.logger.Error("periodic sync failed", zap.Error(err))
		return
	}
	s.logger.Debug("periodic sync finished", zap.Int("inserted", inserted))
}
