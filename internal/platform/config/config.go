package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
	StorageMemory   = "memory"

	ObjectStoreNone  = "none"
	ObjectStoreLocal = "local"
	ObjectStoreS3    = "s3"
)

type Config struct {
	Addr               string
	Environment        string
	LogLevel           string
	StorageDriver      string
	DatabaseURL        string
	SQLitePath         string
	RunMigrations      bool
	RunSeed            bool
	SeedTenantName     string
	SeedAdminEmail     string
	JWTSecret          string
	DataEncryptionKey  string
	MaxBodyBytes       int64
	RateLimitPerMinute int
	MetricsEnabled     bool
	KPIPolicyFile      string
	ObjectStore        string
	LocalStoreDir      string
	AWSRegion          string
	S3Bucket           string
	S3Prefix           string
	SSEKMSKeyID        string
	EventsQueueURL     string
	NarrativeProvider  string
	NarrativeModel     string
	NarrativeAPIKey    string
	EmailFrom          string
	EmailEnabled       bool
	SMTPHost           string
	SMTPPort           int
	SMTPUser           string
	SMTPPassword       string
	SMTPUseTLS         bool
	JobQueueSize       int
	ShutdownTimeout    time.Duration
}

func Load() Config {
	return Config{
		Addr:               getEnv("APP_ADDR", ":8080"),
		Environment:        getEnv("APP_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		StorageDriver:      strings.ToLower(getEnv("STORAGE_DRIVER", StoragePostgres)),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		SQLitePath:         getEnv("SQLITE_PATH", "workforce.db"),
		RunMigrations:      getEnvBool("RUN_MIGRATIONS", true),
		RunSeed:            getEnvBool("RUN_SEED", true),
		SeedTenantName:     getEnv("SEED_TENANT_NAME", "Default Tenant"),
		SeedAdminEmail:     getEnv("SEED_ADMIN_EMAIL", "admin@example.com"),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		DataEncryptionKey:  getEnv("DATA_ENCRYPTION_KEY", ""),
		MaxBodyBytes:       int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		MetricsEnabled:     getEnvBool("METRICS_ENABLED", true),
		KPIPolicyFile:      getEnv("KPI_POLICY_FILE", ""),
		ObjectStore:        strings.ToLower(getEnv("OBJECT_STORE", ObjectStoreNone)),
		LocalStoreDir:      getEnv("LOCAL_STORE_DIR", "data/artifacts"),
		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		S3Bucket:           getEnv("S3_BUCKET", ""),
		S3Prefix:           getEnv("S3_PREFIX", "reports"),
		SSEKMSKeyID:        getEnv("SSE_KMS_KEY_ID", ""),
		EventsQueueURL:     getEnv("EVENTS_SQS_QUEUE_URL", ""),
		NarrativeProvider:  strings.ToLower(getEnv("NARRATIVE_PROVIDER", "")),
		NarrativeModel:     getEnv("NARRATIVE_MODEL", ""),
		NarrativeAPIKey:    getEnv("NARRATIVE_API_KEY", ""),
		EmailFrom:          getEnv("EMAIL_FROM", "no-reply@example.com"),
		EmailEnabled:       getEnvBool("EMAIL_ENABLED", false),
		SMTPHost:           getEnv("SMTP_HOST", ""),
		SMTPPort:           getEnvInt("SMTP_PORT", 587),
		SMTPUser:           getEnv("SMTP_USER", ""),
		SMTPPassword:       getEnv("SMTP_PASSWORD", ""),
		SMTPUseTLS:         getEnvBool("SMTP_USE_TLS", true),
		JobQueueSize:       getEnvInt("JOB_QUEUE_SIZE", 128),
		ShutdownTimeout:    getEnvDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) Validate() error {
	switch c.StorageDriver {
	case StoragePostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL is required when STORAGE_DRIVER is postgres")
		}
	case StorageSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return fmt.Errorf("SQLITE_PATH is required when STORAGE_DRIVER is sqlite")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("STORAGE_DRIVER must be one of postgres, sqlite, memory")
	}
	if c.Environment == "production" {
		if strings.TrimSpace(c.JWTSecret) == "" {
			return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
		}
		if c.StorageDriver == StorageMemory {
			return fmt.Errorf("STORAGE_DRIVER memory is not allowed in production")
		}
	}
	switch c.ObjectStore {
	case ObjectStoreNone, ObjectStoreLocal:
	case ObjectStoreS3:
		if strings.TrimSpace(c.S3Bucket) == "" {
			return fmt.Errorf("S3_BUCKET must be set when OBJECT_STORE is s3")
		}
	default:
		return fmt.Errorf("OBJECT_STORE must be one of none, local, s3")
	}
	switch c.NarrativeProvider {
	case "", "anthropic", "openai", "google":
	default:
		return fmt.Errorf("NARRATIVE_PROVIDER must be one of anthropic, openai, google")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.JobQueueSize <= 0 {
		return fmt.Errorf("JOB_QUEUE_SIZE must be positive")
	}
	if c.EmailEnabled && c.SMTPHost == "" {
		return fmt.Errorf("SMTP_HOST must be set when EMAIL_ENABLED is true")
	}
	return nil
}
