package dbtest

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/tropicaldog17/monitorcrypto/internal/db"
	"github.com/tropicaldog17/monitorcrypto/internal/migrations"
)

// NewPostgres starts a PostgreSQL container and applies the SQL migrations.
// The test is skipped under -short or when Docker is not reachable.
func NewPostgres(t *testing.T) *db.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx, cancel := context.WithTimeout(context.Background(), 180*time.Second)
	defer cancel()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("monitorcrypto_test"),
		postgres.WithUsername("monitor_user"),
		postgres.WithPassword("monitor_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	t.Cleanup(func() {
		if err := pgContainer.Terminate(context.Background()); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	host, err := pgContainer.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}
	port, err := pgContainer.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	database, err := db.Connect(&db.Config{
		Host:     host,
		Port:     port.Port(),
		User:     "monitor_user",
		Password: "monitor_password",
		Name:     "monitorcrypto_test",
		SSLMode:  "disable",
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	sqlDB, err := database.GetSQLDB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	if _, err := migrations.Run(ctx, sqlDB, nil); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return database
}
