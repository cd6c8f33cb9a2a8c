package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"workforce/internal/platform/datastore"
)

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := datastore.NewMemory()
	first, err := Seed(ctx, store, "Acme Consulting")
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	second, err := Seed(ctx, store, " Acme Consulting ")
	if err != nil {
		t.Fatalf("Seed again: %v", err)
	}
	if first == "" || first != second {
		t.Fatalf("expected the same tenant id, got %q and %q", first, second)
	}
	if _, err := Seed(ctx, store, " "); err == nil {
		t.Fatal("expected blank tenant name to be rejected")
	}
}

func TestSeedUserIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := datastore.NewMemory()
	first, err := SeedUser(ctx, store, "t1", "Admin@Example.com", "admin")
	if err != nil {
		t.Fatalf("SeedUser: %v", err)
	}
	second, err := SeedUser(ctx, store, "t1", "admin@example.com ", "viewer")
	if err != nil {
		t.Fatalf("SeedUser again: %v", err)
	}
	if first != second {
		t.Fatalf("expected the same user id, got %q and %q", first, second)
	}
	row, _ := store.SelectOne(ctx, "users", datastore.Filter{"id": first})
	if row.String("role") != "admin" || row.String("email") != "admin@example.com" {
		t.Fatalf("unexpected user row %v", row)
	}
	if _, err := SeedUser(ctx, store, "t1", "", "admin"); err == nil {
		t.Fatal("expected blank email to be rejected")
	}
}

func TestMigrateRejectsUnknownDialect(t *testing.T) {
	database, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "x.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	if err := Migrate(context.Background(), database, "oracle"); err == nil {
		t.Fatal("expected unsupported dialect error")
	}
}

func TestSQLiteMigrationsAndGateway(t *testing.T) {
	ctx := context.Background()
	database, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "nested", "workforce.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	if err := Migrate(ctx, database, DialectSQLite); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	// second run is a no-op
	if err := Migrate(ctx, database, DialectSQLite); err != nil {
		t.Fatalf("Migrate again: %v", err)
	}

	store := datastore.NewSQL(database)
	tenantID, err := Seed(ctx, store, "Default Tenant")
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	row, err := store.SelectOne(ctx, "tenants", datastore.Filter{"id": tenantID})
	if err != nil {
		t.Fatalf("SelectOne: %v", err)
	}
	if row.String("name") != "Default Tenant" {
		t.Fatalf("unexpected tenant row %v", row)
	}
	if row.Time("created_at").IsZero() {
		t.Fatalf("expected created_at to round-trip, got %v", row["created_at"])
	}
}

func TestPostgresMigrations(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := Connect(ctx, dsn)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := Migrate(ctx, SQLFromPool(pool), DialectPostgres); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	store := datastore.NewPostgres(pool)
	if err := store.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if _, err := Seed(ctx, store, "Integration Tenant"); err != nil {
		t.Fatalf("Seed: %v", err)
	}
}
