package config

import (
	"strings"
	"testing"
)

func validConfig() Config {
	return Config{
		Environment:        "development",
		StorageDriver:      StorageMemory,
		ObjectStore:        ObjectStoreNone,
		MaxBodyBytes:       1048576,
		RateLimitPerMinute: 60,
		JobQueueSize:       16,
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "SQLite")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "120")
	t.Setenv("EMAIL_ENABLED", "true")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("SMTP_PORT", "not-a-number")

	cfg := Load()
	if cfg.StorageDriver != StorageSQLite {
		t.Fatalf("expected sqlite driver, got %q", cfg.StorageDriver)
	}
	if cfg.RateLimitPerMinute != 120 {
		t.Fatalf("expected rate limit 120, got %d", cfg.RateLimitPerMinute)
	}
	if !cfg.EmailEnabled {
		t.Fatal("expected email enabled")
	}
	if cfg.ShutdownTimeout.Seconds() != 3 {
		t.Fatalf("expected 3s shutdown timeout, got %v", cfg.ShutdownTimeout)
	}
	if cfg.SMTPPort != 587 {
		t.Fatalf("expected invalid SMTP_PORT to fall back to 587, got %d", cfg.SMTPPort)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"valid", func(*Config) {}, ""},
		{"postgres without url", func(c *Config) { c.StorageDriver = StoragePostgres }, "DATABASE_URL"},
		{"unknown driver", func(c *Config) { c.StorageDriver = "mongo" }, "STORAGE_DRIVER"},
		{"production without secret", func(c *Config) { c.Environment = "production"; c.StorageDriver = StorageSQLite; c.SQLitePath = "x.db" }, "JWT_SECRET"},
		{"production on memory", func(c *Config) { c.Environment = "production"; c.JWTSecret = "s" }, "memory"},
		{"s3 without bucket", func(c *Config) { c.ObjectStore = ObjectStoreS3 }, "S3_BUCKET"},
		{"unknown narrative provider", func(c *Config) { c.NarrativeProvider = "cohere" }, "NARRATIVE_PROVIDER"},
		{"small body limit", func(c *Config) { c.MaxBodyBytes = 10 }, "MAX_BODY_BYTES"},
		{"zero rate limit", func(c *Config) { c.RateLimitPerMinute = 0 }, "RATE_LIMIT_PER_MINUTE"},
		{"email without host", func(c *Config) { c.EmailEnabled = true }, "SMTP_HOST"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.errMsg == "" {
				if err != nil {
					t.Fatalf("expected valid config, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.errMsg) {
				t.Fatalf("expected error mentioning %q, got %v", tc.errMsg, err)
			}
		})
	}
}
