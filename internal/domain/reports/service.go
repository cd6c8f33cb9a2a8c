package reports

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"workforce/internal/domain/assessments"
	"workforce/internal/domain/clients"
	"workforce/internal/platform/events"
	"workforce/internal/platform/jobs"
	"workforce/internal/platform/metrics"
	"workforce/internal/platform/objectstore"
)

type AssessmentLoader interface {
	Get(ctx context.Context, tenantID, id string) (assessments.Assessment, error)
}

type ClientLoader interface {
	Get(ctx context.Context, tenantID, id string) (clients.Client, error)
}

type AuditRecorder interface {
	Record(ctx context.Context, tenantID, actorID, action, entityType, entityID, requestID, ip string, before, after any) error
}

type Notifier interface {
	Create(ctx context.Context, tenantID, userID, ntype, title, body string) error
}

type Sealer interface {
	Seal(plain []byte) ([]byte, error)
	Open(blob []byte) ([]byte, error)
}

type JobQueue interface {
	Enqueue(ctx context.Context, jobType, tenantID string, run jobs.RunFunc) (string, error)
}

// Renderer produces the archived artifact for a report.
type Renderer func(d Downloadable) ([]byte, error)

// Request identifies who asked for a report and from where.
type Request struct {
	TenantID     string
	AssessmentID string
	ActorID      string
	RequestID    string
	IP           string
}

// Service generates and serves reports. Everything past the store is
// optional; a nil collaborator is skipped.
type Service struct {
	store       StoreAPI
	assessments AssessmentLoader
	clients     ClientLoader
	composer    *Composer

	Narrator  Narrator
	Artifacts objectstore.Store
	Renderer  Renderer
	Sealer    Sealer
	Audit     AuditRecorder
	Notifier  Notifier
	Events    events.Publisher
	Jobs      JobQueue
	Metrics   *metrics.Collector

	now func() time.Time
}

func NewService(store StoreAPI, assessmentLoader AssessmentLoader, clientLoader ClientLoader, composer *Composer) *Service {
	return &Service{
		store:       store,
		assessments: assessmentLoader,
		clients:     clientLoader,
		composer:    composer,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) Composer() *Composer {
	return s.composer
}

// GenerateReport composes and persists one report for the assessment. Load
// and write failures abort the whole report; narrative, archiving and the
// post-write side effects only log.
func (s *Service) GenerateReport(ctx context.Context, req Request) (Report, error) {
	r, err := s.generate(ctx, req)
	s.Metrics.RecordReport(err)
	if err != nil {
		return Report{}, fmt.Errorf("failed to generate report: %w", err)
	}
	s.afterGenerate(ctx, req, r)
	return r, nil
}

func (s *Service) generate(ctx context.Context, req Request) (Report, error) {
	a, err := s.assessments.Get(ctx, req.TenantID, req.AssessmentID)
	if err != nil {
		return Report{}, err
	}
	if a.Status == assessments.StatusArchived {
		return Report{}, ErrAssessmentArchived
	}
	c, err := s.clients.Get(ctx, req.TenantID, a.ClientID)
	if err != nil {
		return Report{}, err
	}

	r := s.composer.Compose(ComposeInput{
		Title:  a.Title,
		Client: snapshot(c),
		Inputs: a.Inputs(),
	})
	r.ID = uuid.NewString()
	r.TenantID = req.TenantID
	r.AssessmentID = a.ID
	r.GeneratedBy = req.ActorID
	r.GeneratedAt = s.now()

	calculated := r.Scores.CalculatedCount
	s.Metrics.RecordKPIs(calculated, len(r.Results)-calculated)

	if s.Narrator != nil {
		text, err := s.Narrator.Narrate(ctx, r)
		if err != nil {
			slog.Warn("report narrative failed", "reportId", r.ID, "err", err)
			s.Metrics.RecordNarrativeFailure()
		} else {
			r.Narrative = text
		}
	}
	if key, err := s.archive(ctx, r); err != nil {
		slog.Warn("report archive failed", "reportId", r.ID, "err", err)
	} else {
		r.ArtifactKey = key
	}

	if err := s.store.Insert(ctx, r); err != nil {
		s.discardArtifact(ctx, r)
		return Report{}, err
	}
	return r, nil
}

// discardArtifact removes an archived artifact whose report row was never written.
func (s *Service) discardArtifact(ctx context.Context, r Report) {
	if r.ArtifactKey == "" {
		return
	}
	if err := s.Artifacts.Delete(context.WithoutCancel(ctx), r.ArtifactKey); err != nil {
		slog.Warn("orphaned report artifact not removed", "reportId", r.ID, "key", r.ArtifactKey, "err", err)
	}
}

func (s *Service) archive(ctx context.Context, r Report) (string, error) {
	if s.Artifacts == nil || s.Renderer == nil {
		return "", nil
	}
	data, err := s.Renderer(r.Downloadable())
	if err != nil {
		return "", fmt.Errorf("render: %w", err)
	}
	if s.Sealer != nil {
		if data, err = s.Sealer.Seal(data); err != nil {
			return "", fmt.Errorf("seal: %w", err)
		}
	}
	key := objectstore.ReportKey(r.TenantID, r.ID, "pdf")
	if _, err := s.Artifacts.Put(ctx, key, "application/pdf", bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("store: %w", err)
	}
	s.Metrics.RecordArtifact()
	return key, nil
}

func (s *Service) afterGenerate(ctx context.Context, req Request, r Report) {
	if s.Audit != nil {
		after := map[string]any{
			"assessmentId": r.AssessmentID,
			"overallScore": r.Scores.OverallScore,
			"overallGrade": r.Scores.OverallGrade,
		}
		if err := s.Audit.Record(ctx, req.TenantID, req.ActorID, AuditActionGenerate, AuditEntityReport, r.ID, req.RequestID, req.IP, nil, after); err != nil {
			slog.Warn("audit record failed", "reportId", r.ID, "err", err)
		}
	}
	if s.Notifier != nil && req.ActorID != "" {
		body := fmt.Sprintf("%s is ready. Overall score %d (grade %s).", r.Title, r.Scores.OverallScore, r.Scores.OverallGrade)
		if err := s.Notifier.Create(ctx, req.TenantID, req.ActorID, NotificationTypeReady, "Report ready", body); err != nil {
			slog.Warn("report notification failed", "reportId", r.ID, "err", err)
		}
	}
	if s.Events != nil {
		evt := events.Event{
			Type:       events.TypeReportGenerated,
			TenantID:   req.TenantID,
			EntityID:   r.ID,
			RequestID:  req.RequestID,
			OccurredAt: r.GeneratedAt,
			Attributes: map[string]any{
				"assessmentId": r.AssessmentID,
				"overallScore": r.Scores.OverallScore,
				"status":       r.Scores.Status,
			},
		}
		if err := s.Events.Publish(ctx, evt); err != nil {
			slog.Warn("report event publish failed", "reportId", r.ID, "err", err)
		}
	}
}

// GenerateAsync queues generation on the job runner and returns the job id.
func (s *Service) GenerateAsync(ctx context.Context, req Request) (string, error) {
	if s.Jobs == nil {
		return "", errors.New("job queue not configured")
	}
	return s.Jobs.Enqueue(ctx, jobs.JobReportGeneration, req.TenantID, func(ctx context.Context) (any, error) {
		r, err := s.GenerateReport(ctx, req)
		if err != nil {
			return nil, err
		}
		return map[string]any{"reportId": r.ID, "assessmentId": r.AssessmentID}, nil
	})
}

func (s *Service) GetReport(ctx context.Context, tenantID, id string) (Report, error) {
	return s.store.Get(ctx, tenantID, id)
}

func (s *Service) ListReports(ctx context.Context, tenantID, assessmentID string, limit, offset int) ([]Report, error) {
	return s.store.ListByAssessment(ctx, tenantID, assessmentID, limit, offset)
}

// Artifact returns the archived rendering of a report, decrypted.
func (s *Service) Artifact(ctx context.Context, r Report) ([]byte, error) {
	if r.ArtifactKey == "" || s.Artifacts == nil {
		return nil, ErrNoArtifact
	}
	rc, err := s.Artifacts.Get(ctx, r.ArtifactKey)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	if s.Sealer != nil {
		return s.Sealer.Open(data)
	}
	return data, nil
}

func snapshot(c clients.Client) ClientSnapshot {
	return ClientSnapshot{
		ID:            c.ID,
		Name:          c.Name,
		Industry:      c.Industry,
		EmployeeCount: c.EmployeeCount,
		ContactName:   c.ContactName,
		ContactEmail:  c.ContactEmail,
	}
}
