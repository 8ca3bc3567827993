package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/shipsync/backend/internal/infrastructure/cache"
)

// ---------------------------------------------------------------------------
// SyncCronTriggerConfig
// ---------------------------------------------------------------------------

// SyncCronTriggerConfig holds configuration for the periodic sync trigger
type SyncCronTriggerConfig struct {
	// CheckInterval is how often the trigger wakes up to look for due syncs
	CheckInterval time.Duration

	// SyncInterval is the cadence at which each record family is re-pulled
	SyncInterval time.Duration

	// Kinds lists the record families the trigger schedules
	Kinds []EntityKind
}

// DefaultSyncCronTriggerConfig returns default configuration
func DefaultSyncCronTriggerConfig() SyncCronTriggerConfig {
	return SyncCronTriggerConfig{
		CheckInterval: time.Minute,
		SyncInterval:  5 * time.Minute,
		Kinds:         []EntityKind{EntityOrders, EntityShipments, EntityCarriers},
	}
}

// ---------------------------------------------------------------------------
// SyncCronTrigger
// ---------------------------------------------------------------------------

// SyncCronTrigger periodically submits sync jobs for each record family.
// Every scheduled run is a full pull with no narrowing parameters, so a
// failed or incomplete run is always re-derived in full on the next pass.
type SyncCronTrigger struct {
	config    SyncCronTriggerConfig
	scheduler *SyncScheduler
	state     cache.SyncStateStore
	logger    *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewSyncCronTrigger creates a new sync cron trigger
func NewSyncCronTrigger(config SyncCronTriggerConfig, scheduler *SyncScheduler, state cache.SyncStateStore, logger *zap.Logger) *SyncCronTrigger {
	if config.CheckInterval <= 0 {
		config.CheckInterval = time.Minute
	}
	if config.SyncInterval <= 0 {
		config.SyncInterval = 5 * time.Minute
	}
	if len(config.Kinds) == 0 {
		config.Kinds = []EntityKind{EntityOrders, EntityShipments, EntityCarriers}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncCronTrigger{
		config:    config,
		scheduler: scheduler,
		state:     state,
		logger:    logger,
	}
}

// Start starts the trigger loop
func (t *SyncCronTrigger) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = true
	t.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	t.wg.Add(1)
	go t.run(ctx)

	t.logger.Info("Sync cron trigger started",
		zap.Duration("check_interval", t.config.CheckInterval),
		zap.Duration("sync_interval", t.config.SyncInterval),
	)
	return nil
}

// Stop stops the trigger loop
func (t *SyncCronTrigger) Stop() {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return
	}
	t.isRunning = false
	t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}
	t.wg.Wait()
	t.logger.Info("Sync cron trigger stopped")
}

func (t *SyncCronTrigger) run(ctx context.Context) {
	defer t.wg.Done()

	ticker := time.NewTicker(t.config.CheckInterval)
	defer ticker.Stop()

	// Kick off an initial pass so a fresh process does not idle for a full
	// check interval before the first sync.
	t.scheduleDue(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.scheduleDue(ctx)
		}
	}
}

// scheduleDue submits a job for every record family whose last run is older
// than the sync interval.
func (t *SyncCronTrigger) scheduleDue(ctx context.Context) {
	now := time.Now()
	for _, kind := range t.config.Kinds {
		last, err := t.state.LastSync(ctx, string(kind))
		if err != nil {
			t.logger.Warn("failed to read last sync time",
				zap.String("kind", string(kind)), zap.Error(err))
			continue
		}
		if !last.IsZero() && now.Sub(last) < t.config.SyncInterval {
			continue
		}

		if _, err := t.scheduler.ScheduleSync(kind, nil); err != nil {
			t.logger.Warn("failed to schedule sync job",
				zap.String("kind", string(kind)), zap.Error(err))
		}
	}
}
