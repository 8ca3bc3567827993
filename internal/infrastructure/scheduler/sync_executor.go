package scheduler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	appshipping "github.com/shipsync/backend/internal/application/shipping"
	"github.com/shipsync/backend/internal/infrastructure/cache"
)

// ---------------------------------------------------------------------------
// SyncExecutorImpl
// ---------------------------------------------------------------------------

// SyncExecutorImpl implements SyncExecutor by dispatching each record family
// to the sync service and recording the run time on success.
type SyncExecutorImpl struct {
	syncService *appshipping.SyncService
	state       cache.SyncStateStore
	logger      *zap.Logger
}

// NewSyncExecutor creates a new sync executor
func NewSyncExecutor(syncService *appshipping.SyncService, state cache.SyncStateStore, logger *zap.Logger) *SyncExecutorImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncExecutorImpl{
		syncService: syncService,
		state:       state,
		logger:      logger,
	}
}

// Execute pulls one record family and stores the outcome on the job.
func (e *SyncExecutorImpl) Execute(ctx context.Context, job *SyncJob) error {
	started := time.Now()

	switch job.Kind {
	case EntityOrders:
		result, err := e.syncService.SyncOrders(ctx, job.Params)
		if err != nil {
			return err
		}
		job.Complete(result.Processed, result.RowsAffected, result.Errors)
	case EntityShipments:
		result, err := e.syncService.SyncShipments(ctx, job.Params)
		if err != nil {
			return err
		}
		job.Complete(result.Processed, result.RowsAffected, result.Errors)
	case EntityCarriers:
		result, err := e.syncService.SyncCarriers(ctx)
		if err != nil {
			return err
		}
		merged := result.Carriers
		merged.Merge(result.Services)
		merged.Merge(result.Packages)
		job.Complete(merged.Processed, merged.RowsAffected, merged.Errors)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownEntityKind, job.Kind)
	}

	if e.state != nil {
		if err := e.state.SetLastSync(ctx, string(job.Kind), started); err != nil {
			e.logger.Warn("failed to record last sync time",
				zap.String("kind", string(job.Kind)), zap.Error(err))
		}
	}
	return nil
}
