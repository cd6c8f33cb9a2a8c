package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"workforce/internal/platform/datastore"
)

const (
	JobReportGeneration = "report_generation"

	StatusQueued    = "queued"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

const table = "job_runs"

var (
	ErrQueueFull   = errors.New("job queue full")
	ErrJobNotFound = errors.New("job not found")
)

type RunFunc func(context.Context) (any, error)

type Run struct {
	ID          string     `json:"id"`
	TenantID    string     `json:"tenantId"`
	JobType     string     `json:"jobType"`
	Status      string     `json:"status"`
	Details     any        `json:"details,omitempty"`
	StartedAt   time.Time  `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

type Service struct {
	Store datastore.Gateway
	queue chan job
	wg    sync.WaitGroup
	now   func() time.Time
}

type job struct {
	ID       string
	Type     string
	TenantID string
	Run      RunFunc
}

func New(store datastore.Gateway, queueSize int) *Service {
	if queueSize <= 0 {
		queueSize = 128
	}
	return &Service{
		Store: store,
		queue: make(chan job, queueSize),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) Start(ctx context.Context) {
	s.wg.Add(1)
	go s.worker(ctx)
}

// Wait blocks until the worker has exited after its context was cancelled.
func (s *Service) Wait() {
	s.wg.Wait()
}

// Enqueue records a queued run and hands it to the worker. The returned id can
// be polled with Get.
func (s *Service) Enqueue(ctx context.Context, jobType, tenantID string, run RunFunc) (string, error) {
	j := job{ID: uuid.NewString(), Type: jobType, TenantID: tenantID, Run: run}
	if err := s.Store.Insert(ctx, table, datastore.Row{
		"id":           j.ID,
		"tenant_id":    tenantID,
		"job_type":     jobType,
		"status":       StatusQueued,
		"details_json": "{}",
		"started_at":   s.now(),
	}); err != nil {
		return "", fmt.Errorf("record job: %w", err)
	}
	select {
	case s.queue <- j:
		return j.ID, nil
	default:
		slog.Warn("job queue full", "jobType", jobType, "tenantId", tenantID)
		s.finish(ctx, j.ID, StatusFailed, map[string]any{"error": ErrQueueFull.Error()})
		return "", ErrQueueFull
	}
}

func (s *Service) Get(ctx context.Context, tenantID, id string) (Run, error) {
	row, err := s.Store.SelectOne(ctx, table, datastore.Filter{"tenant_id": tenantID, "id": id})
	if err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			return Run{}, ErrJobNotFound
		}
		return Run{}, err
	}
	return runFromRow(row), nil
}

func (s *Service) List(ctx context.Context, tenantID, jobType string, limit, offset int) ([]Run, error) {
	filter := datastore.Filter{"tenant_id": tenantID}
	if jobType != "" {
		filter["job_type"] = jobType
	}
	rows, err := s.Store.Select(ctx, table, datastore.Query{
		Filter:  filter,
		OrderBy: "started_at",
		Desc:    true,
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		return nil, err
	}
	out := make([]Run, 0, len(rows))
	for _, row := range rows {
		out = append(out, runFromRow(row))
	}
	return out, nil
}

func (s *Service) worker(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "tenantId", j.TenantID, "jobId", j.ID, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (details any, err error) {
	if _, updErr := s.Store.Update(ctx, table, datastore.Filter{"id": j.ID}, datastore.Row{"status": StatusRunning}); updErr != nil {
		slog.Warn("job run update failed", "jobId", j.ID, "err", updErr)
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("job panicked: %v", rec)
			details = nil
		}
		status := StatusCompleted
		recorded := details
		if err != nil {
			status = StatusFailed
			recorded = map[string]any{"error": err.Error()}
		}
		s.finish(ctx, j.ID, status, recorded)
	}()
	return j.Run(ctx)
}

func (s *Service) finish(ctx context.Context, id, status string, details any) {
	encoded, err := datastore.JSON(details)
	if err != nil {
		slog.Warn("job details marshal failed", "err", err)
		encoded = "{}"
	}
	if _, err := s.Store.Update(ctx, table, datastore.Filter{"id": id}, datastore.Row{
		"status":       status,
		"details_json": encoded,
		"completed_at": s.now(),
	}); err != nil {
		slog.Warn("job run update failed", "jobId", id, "err", err)
	}
}

func runFromRow(row datastore.Row) Run {
	run := Run{
		ID:          row.String("id"),
		TenantID:    row.String("tenant_id"),
		JobType:     row.String("job_type"),
		Status:      row.String("status"),
		StartedAt:   row.Time("started_at"),
		CompletedAt: row.TimePtr("completed_at"),
	}
	var details any
	if err := row.Decode("details_json", &details); err == nil {
		run.Details = details
	}
	return run
}
