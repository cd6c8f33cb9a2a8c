package assessments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"workforce/internal/domain/clients"
	"workforce/internal/domain/kpi"
)

type ClientLookup interface {
	Get(ctx context.Context, tenantID, id string) (clients.Client, error)
}

type Service struct {
	store   StoreAPI
	clients ClientLookup
	engine  *kpi.Engine
	now     func() time.Time
}

func NewService(store StoreAPI, clientLookup ClientLookup, engine *kpi.Engine) *Service {
	return &Service{
		store:   store,
		clients: clientLookup,
		engine:  engine,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) Create(ctx context.Context, tenantID, actorID, clientID, title string) (Assessment, error) {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return Assessment{}, fmt.Errorf("%w: client id is required", ErrInvalidAssessment)
	}
	client, err := s.clients.Get(ctx, tenantID, clientID)
	if err != nil {
		return Assessment{}, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = client.Name + " Workforce Assessment"
	}
	now := s.now()
	a := Assessment{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		ClientID:  clientID,
		Title:     title,
		Status:    StatusInProgress,
		KPIData:   map[kpi.Code]kpi.InputSet{},
		CreatedBy: actorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Insert(ctx, a); err != nil {
		return Assessment{}, fmt.Errorf("create assessment: %w", err)
	}
	return a, nil
}

func (s *Service) Get(ctx context.Context, tenantID, id string) (Assessment, error) {
	return s.store.Get(ctx, tenantID, id)
}

func (s *Service) List(ctx context.Context, tenantID string, filter ListFilter, limit, offset int) ([]Assessment, error) {
	return s.store.List(ctx, tenantID, filter, limit, offset)
}

// SaveKPIData replaces the input set stored for one metric. Other metrics keep
// their inputs.
func (s *Service) SaveKPIData(ctx context.Context, tenantID, id, rawCode string, inputs kpi.InputSet) (Assessment, error) {
	code, ok := kpi.ParseCode(rawCode)
	if !ok {
		return Assessment{}, fmt.Errorf("%w: %q", kpi.ErrUnknownMetric, rawCode)
	}
	if _, ok := s.engine.Catalog().Lookup(code); !ok {
		return Assessment{}, fmt.Errorf("%w: %q", kpi.ErrUnknownMetric, rawCode)
	}
	if inputs == nil {
		inputs = kpi.InputSet{}
	}
	for attempt := 1; ; attempt++ {
		a, err := s.saveKPIData(ctx, tenantID, id, code, inputs)
		if !errors.Is(err, ErrConcurrentUpdate) || attempt == maxKPISaveAttempts {
			return a, err
		}
	}
}

// saveKPIData merges one code into the stored map read at a known version.
func (s *Service) saveKPIData(ctx context.Context, tenantID, id string, code kpi.Code, inputs kpi.InputSet) (Assessment, error) {
	a, err := s.store.Get(ctx, tenantID, id)
	if err != nil {
		return Assessment{}, err
	}
	if a.Status != StatusInProgress {
		return Assessment{}, ErrAssessmentLocked
	}
	if a.KPIData == nil {
		a.KPIData = map[kpi.Code]kpi.InputSet{}
	}
	a.KPIData[code] = inputs.Clone()
	a.UpdatedAt = s.now()
	if err := s.store.UpdateKPIData(ctx, tenantID, id, a.KPIData, a.Version, a.UpdatedAt); err != nil {
		return Assessment{}, err
	}
	a.Version++
	return a, nil
}

func (s *Service) Complete(ctx context.Context, tenantID, id string) (Assessment, error) {
	return s.transition(ctx, tenantID, id, StatusCompleted)
}

func (s *Service) Archive(ctx context.Context, tenantID, id string) (Assessment, error) {
	return s.transition(ctx, tenantID, id, StatusArchived)
}

// Evaluate scores the stored inputs without persisting anything.
func (s *Service) Evaluate(ctx context.Context, tenantID, id string) (Evaluation, error) {
	a, err := s.store.Get(ctx, tenantID, id)
	if err != nil {
		return Evaluation{}, err
	}
	results := s.engine.CalculateAll(a.Inputs())
	return Evaluation{
		AssessmentID: a.ID,
		Results:      results,
		Scores:       s.engine.GenerateScores(results),
	}, nil
}

func (s *Service) transition(ctx context.Context, tenantID, id string, to Status) (Assessment, error) {
	a, err := s.store.Get(ctx, tenantID, id)
	if err != nil {
		return Assessment{}, err
	}
	if !CanTransition(a.Status, to) {
		return Assessment{}, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, a.Status, to)
	}
	at := s.now()
	if err := s.store.UpdateStatus(ctx, tenantID, id, a.Status, to, at); err != nil {
		return Assessment{}, err
	}
	a.Status = to
	a.UpdatedAt = at
	switch to {
	case StatusCompleted:
		a.CompletedAt = &at
	case StatusArchived:
		a.ArchivedAt = &at
	}
	return a, nil
}
