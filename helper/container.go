package helper

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	testDatabaseName     = "database"
	testDatabaseUser     = "user"
	testDatabasePassword = "password"
)

// MustStartPostgresContainer starts a throwaway Postgres container and
// returns its teardown function and mapped port.
func MustStartPostgresContainer() (func(ctx context.Context, opts ...testcontainers.TerminateOption) error, string, error) {
	ctx := context.Background()

	container, err := postgres.Run(
		ctx,
		"postgres:16-alpine",
		postgres.WithDatabase(testDatabaseName),
		postgres.WithUsername(testDatabaseUser),
		postgres.WithPassword(testDatabasePassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, "", NewError("start postgres container", err)
	}

	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		return container.Terminate, "", NewError("mapped port", err)
	}

	return container.Terminate, port.Port(), nil
}

// SetTestDatabaseConfigEnvs points the LEXENT_DB_* variables at a test container.
func SetTestDatabaseConfigEnvs(t *testing.T, port string) {
	t.Setenv("LEXENT_DB_HOST", "localhost")
	t.Setenv("LEXENT_DB_PORT", port)
	t.Setenv("LEXENT_DB_DATABASE", testDatabaseName)
	t.Setenv("LEXENT_DB_USERNAME", testDatabaseUser)
	t.Setenv("LEXENT_DB_PASSWORD", testDatabasePassword)
	t.Setenv("LEXENT_DB_SCHEMA", "public")
	t.Setenv("LEXENT_DB_SSLMODE", "disable")
}
