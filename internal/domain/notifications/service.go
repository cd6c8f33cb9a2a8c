package notifications

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"workforce/internal/platform/email"
)

type Service struct {
	store        StoreAPI
	Mailer       email.Mailer
	DefaultFrom  string
	EmailEnabled bool
	now          func() time.Time
}

func New(store StoreAPI, mailer email.Mailer) *Service {
	return &Service{
		store:       store,
		Mailer:      mailer,
		DefaultFrom: "no-reply@example.com",
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Create stores an in-app notification and, when email is enabled, mails the
// user. Mail failures are logged and never returned.
func (s *Service) Create(ctx context.Context, tenantID, userID, ntype, title, body string) error {
	n := Notification{ID: uuid.NewString(), Type: ntype, Title: title, Body: body, CreatedAt: s.now()}
	if err := s.store.CreateNotification(ctx, tenantID, userID, n); err != nil {
		return err
	}

	if s.Mailer == nil || !s.EmailEnabled {
		return nil
	}
	to, err := s.store.UserEmail(ctx, tenantID, userID)
	if err != nil {
		slog.Warn("notification email lookup failed", "err", err)
		return nil
	}
	if to == "" {
		return nil
	}
	msg := email.Message{From: s.DefaultFrom, To: to, Subject: title, Body: body}
	if err := s.Mailer.Send(ctx, msg); err != nil {
		slog.Warn("notification email send failed", "err", err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, tenantID, userID string, unreadOnly bool, limit, offset int) ([]Notification, error) {
	return s.store.ListNotifications(ctx, tenantID, userID, unreadOnly, limit, offset)
}

func (s *Service) MarkRead(ctx context.Context, tenantID, userID, notificationID string) error {
	return s.store.MarkRead(ctx, tenantID, userID, notificationID)
}
