package clients

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	store StoreAPI
	now   func() time.Time
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store, now: func() time.Time { return time.Now().UTC() }}
}

func (s *Service) Create(ctx context.Context, tenantID string, in Input) (Client, error) {
	in, err := normalize(in)
	if err != nil {
		return Client{}, err
	}
	now := s.now()
	c := Client{
		ID:            uuid.NewString(),
		TenantID:      tenantID,
		Name:          in.Name,
		Industry:      in.Industry,
		EmployeeCount: in.EmployeeCount,
		ContactName:   in.ContactName,
		ContactEmail:  in.ContactEmail,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.Insert(ctx, c); err != nil {
		return Client{}, fmt.Errorf("create client: %w", err)
	}
	return c, nil
}

func (s *Service) Get(ctx context.Context, tenantID, id string) (Client, error) {
	return s.store.Get(ctx, tenantID, id)
}

func (s *Service) List(ctx context.Context, tenantID string, limit, offset int) ([]Client, error) {
	return s.store.List(ctx, tenantID, limit, offset)
}

func (s *Service) Update(ctx context.Context, tenantID, id string, in Input) (Client, error) {
	in, err := normalize(in)
	if err != nil {
		return Client{}, err
	}
	c, err := s.store.Get(ctx, tenantID, id)
	if err != nil {
		return Client{}, err
	}
	c.Name = in.Name
	c.Industry = in.Industry
	c.EmployeeCount = in.EmployeeCount
	c.ContactName = in.ContactName
	c.ContactEmail = in.ContactEmail
	c.UpdatedAt = s.now()
	if err := s.store.Update(ctx, c); err != nil {
		return Client{}, err
	}
	return c, nil
}

func normalize(in Input) (Input, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Industry = strings.TrimSpace(in.Industry)
	in.ContactName = strings.TrimSpace(in.ContactName)
	in.ContactEmail = strings.TrimSpace(in.ContactEmail)
	if in.Name == "" {
		return in, fmt.Errorf("%w: name is required", ErrInvalidClient)
	}
	if in.EmployeeCount < 0 {
		return in, fmt.Errorf("%w: employee count must be zero or greater", ErrInvalidClient)
	}
	if in.ContactEmail != "" && !strings.Contains(in.ContactEmail, "@") {
		return in, fmt.Errorf("%w: contact email is invalid", ErrInvalidClient)
	}
	return in, nil
}
