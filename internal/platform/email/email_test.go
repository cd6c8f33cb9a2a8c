package email

import (
	"context"
	"strings"
	"testing"

	"workforce/internal/platform/config"
)

func TestRenderStripsHeaderInjection(t *testing.T) {
	raw := string(Render(Message{
		From:    "reports@example.com",
		To:      "ops@example.com",
		Subject: "Report ready\r\nBcc: attacker@example.com",
		Body:    "Your workforce report is ready.",
	}))
	if strings.Contains(raw, "\r\nBcc:") {
		t.Fatalf("expected subject newlines to be stripped, got %q", raw)
	}
	if !strings.HasSuffix(raw, "\r\n\r\nYour workforce report is ready.") {
		t.Fatalf("expected body after blank line, got %q", raw)
	}
}

func TestNewReturnsNoopWhenDisabled(t *testing.T) {
	mailer := New(config.Config{EmailEnabled: false, SMTPHost: "smtp.example.com"})
	if _, ok := mailer.(NoopMailer); !ok {
		t.Fatalf("expected NoopMailer, got %T", mailer)
	}
	if err := mailer.Send(context.Background(), Message{To: "x@example.com"}); err != nil {
		t.Fatalf("noop send: %v", err)
	}
}
