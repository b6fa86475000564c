package helper

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

// DatabaseConfiguration holds the connection settings for Postgres.
type DatabaseConfiguration struct {
	Host     string
	Port     string
	Database string
	Username string
	Password string
	Schema   string
	SSLMode  string
}

// NewDatabaseConfiguration reads the database configuration from the
// LEXENT_DB_* environment variables. A .env file is loaded first if present.
func NewDatabaseConfiguration() (*DatabaseConfiguration, error) {
	loadEnvFile()

	config := &DatabaseConfiguration{
		Host:     os.Getenv("LEXENT_DB_HOST"),
		Port:     os.Getenv("LEXENT_DB_PORT"),
		Database: os.Getenv("LEXENT_DB_DATABASE"),
		Username: os.Getenv("LEXENT_DB_USERNAME"),
		Password: os.Getenv("LEXENT_DB_PASSWORD"),
		Schema:   getenv("LEXENT_DB_SCHEMA", "public"),
		SSLMode:  getenv("LEXENT_DB_SSLMODE", "disable"),
	}

	var missing []string
	if config.Host == "" {
		missing = append(missing, "LEXENT_DB_HOST")
	}
	if config.Port == "" {
		missing = append(missing, "LEXENT_DB_PORT")
	}
	if config.Database == "" {
		missing = append(missing, "LEXENT_DB_DATABASE")
	}
	if config.Username == "" {
		missing = append(missing, "LEXENT_DB_USERNAME")
	}
	if len(missing) > 0 {
		return nil, NewError("database configuration", fmt.Errorf("missing environment variables: %s", strings.Join(missing, ", ")))
	}

	return config, nil
}

// DSN returns the lib/pq connection string.
func (c *DatabaseConfiguration) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s search_path=%s",
		c.Host, c.Port, c.Username, c.Password, c.Database, c.SSLMode, c.Schema,
	)
}

// Database wraps a Postgres connection pool.
type Database struct {
	Name     string
	Logger   *slog.Logger
	Instance *sql.DB
}

// NewDatabase connects to Postgres and panics if the connection cannot be established.
func NewDatabase(name string, config *DatabaseConfiguration, logger *slog.Logger) *Database {
	if logger == nil {
		logger = slog.Default()
	}
	if config == nil {
		log.Panic("database configuration is nil")
	}

	db := &Database{
		Name:   name,
		Logger: logger,
	}

	err := db.connect(config)
	if err != nil {
		log.Panicf("error connecting to database %s: %v", name, err)
	}

	logger.Info("Connected to database", slog.String("name", name), slog.String("host", config.Host))

	return db
}

// NewTestDatabase connects with a quiet logger for tests.
func NewTestDatabase(config *DatabaseConfiguration) *Database {
	logger := slog.New(NewPrettyHandler(os.Stdout, PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{Level: slog.LevelWarn},
	}))
	return NewDatabase("test", config, logger)
}

func (d *Database) connect(config *DatabaseConfiguration) error {
	instance, err := sql.Open("postgres", config.DSN())
	if err != nil {
		return NewError("open", err)
	}

	instance.SetMaxOpenConns(10)
	instance.SetMaxIdleConns(5)
	instance.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var pingErr error
	for attempt := 0; attempt < 5; attempt++ {
		pingErr = instance.PingContext(ctx)
		if pingErr == nil {
			break
		}
		time.Sleep(time.Duration(attempt+1) * 200 * time.Millisecond)
	}
	if pingErr != nil {
		_ = instance.Close()
		return NewError("ping", pingErr)
	}

	d.Instance = instance
	return nil
}

// Close closes the connection pool.
func (d *Database) Close() error {
	if d == nil || d.Instance == nil {
		return nil
	}
	return d.Instance.Close()
}
