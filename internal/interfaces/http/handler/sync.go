package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shipsync/backend/internal/infrastructure/cache"
	"github.com/shipsync/backend/internal/infrastructure/scheduler"
)

// SyncHandler triggers sync jobs and reports on their history and state.
type SyncHandler struct {
	BaseHandler
	scheduler *scheduler.SyncScheduler
	state     cache.SyncStateStore
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(s *scheduler.SyncScheduler, state cache.SyncStateStore) *SyncHandler {
	return &SyncHandler{scheduler: s, state: state}
}

// triggerSyncRequest carries optional remote list parameters for the pull,
// e.g. createDateStart to narrow an orders sync.
type triggerSyncRequest struct {
	Params map[string]string `json:"params"`
}

// SyncJobResponse is the API shape of a sync job
type SyncJobResponse struct {
	ID           string     `json:"id"`
	Kind         string     `json:"kind"`
	Status       string     `json:"status"`
	Error        string     `json:"error,omitempty"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	RetryCount   int        `json:"retry_count"`
	Processed    int        `json:"processed"`
	RowsAffected int64      `json:"rows_affected"`
	RowErrors    []string   `json:"row_errors,omitempty"`
}

func toSyncJobResponse(job *scheduler.SyncJob) SyncJobResponse {
	return SyncJobResponse{
		ID:           job.ID.String(),
		Kind:         string(job.Kind),
		Status:       string(job.Status),
		Error:        job.Error,
		StartedAt:    job.StartedAt,
		CompletedAt:  job.CompletedAt,
		RetryCount:   job.RetryCount,
		Processed:    job.Processed,
		RowsAffected: job.RowsAffected,
		RowErrors:    job.RowErrors,
	}
}

func toSyncJobResponses(jobs []*scheduler.SyncJob) []SyncJobResponse {
	out := make([]SyncJobResponse, 0, len(jobs))
	for _, job := range jobs {
		out = append(out, toSyncJobResponse(job))
	}
	return out
}

// TriggerSync queues a sync job for one record family and returns 202 with
// the queued job so the caller can poll the history endpoint.
func (h *SyncHandler) TriggerSync(c *gin.Context) {
	kind, err := scheduler.ParseEntityKind(c.Param("kind"))
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req triggerSyncRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, "Invalid request body: "+err.Error())
			return
		}
	}

	job, err := h.scheduler.ScheduleSync(kind, req.Params)
	if err != nil {
		switch {
		case errors.Is(err, scheduler.ErrJobQueueFull):
			h.TooManyRequests(c, err.Error())
		case errors.Is(err, scheduler.ErrSchedulerNotRunning):
			h.ServiceUnavailable(c, err.Error())
		default:
			h.HandleError(c, err)
		}
		return
	}

	h.Accepted(c, toSyncJobResponse(job))
}

type jobHistoryRequest struct {
	Kind  string `form:"kind"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

// GetJobHistory returns recent sync jobs, optionally narrowed to one kind
func (h *SyncHandler) GetJobHistory(c *gin.Context) {
	req := jobHistoryRequest{Limit: 20}
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	var jobs []*scheduler.SyncJob
	if req.Kind != "" {
		kind, err := scheduler.ParseEntityKind(req.Kind)
		if err != nil {
			h.BadRequest(c, err.Error())
			return
		}
		jobs = h.scheduler.GetJobHistoryByKind(kind, req.Limit)
	} else {
		jobs = h.scheduler.GetJobHistory(req.Limit)
	}

	h.Success(c, toSyncJobResponses(jobs))
}

// SyncStatusResponse reports the last successful run per record family
type SyncStatusResponse struct {
	Kind     string     `json:"kind"`
	LastSync *time.Time `json:"last_sync"`
}

// GetSyncStatus returns the last successful sync time of every record family
func (h *SyncHandler) GetSyncStatus(c *gin.Context) {
	kinds := []scheduler.EntityKind{
		scheduler.EntityOrders,
		scheduler.EntityShipments,
		scheduler.EntityCarriers,
	}

	statuses := make([]SyncStatusResponse, 0, len(kinds))
	for _, kind := range kinds {
		at, err := h.state.LastSync(c.Request.Context(), string(kind))
		if err != nil {
			h.InternalError(c, "Failed to read sync state")
			return
		}
		status := SyncStatusResponse{Kind: string(kind)}
		if !at.IsZero() {
			t := at
			status.LastSync = &t
		}
		statuses = append(statuses, status)
	}

	h.Success(c, statuses)
}

// RegisterRoutes registers sync routes on the given router group
func (h *SyncHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sync := rg.Group("/sync")
	{
		sync.POST("/:kind", h.TriggerSync)
		sync.GET("/jobs", h.GetJobHistory)
		sync.GET("/status", h.GetSyncStatus)
	}
}
