// Package pgtest starts a throwaway postgres container for repository tests.
package pgtest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"gator.dev/studygator/internal/config"
	"gator.dev/studygator/internal/migrations"
	"gator.dev/studygator/pkg/database"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Start runs postgres in docker, applies the schema migrations and returns the pool
// together with a func that removes the container.
func Start(ctx context.Context) (*gorm.DB, func(), error) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		return nil, nil, fmt.Errorf("connect to docker: %w", err)
	}
	if err := pool.Client.Ping(); err != nil {
		return nil, nil, fmt.Errorf("ping docker: %w", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "15",
		Env: []string{
			"POSTGRES_PASSWORD=secret",
			"POSTGRES_DB=studygator_test",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		return nil, nil, fmt.Errorf("start postgres: %w", err)
	}
	_ = resource.Expire(300)

	purge := func() { _ = pool.Purge(resource) }

	cfg := config.DatabaseConfig{
		Host:     "localhost",
		Port:     resource.GetPort("5432/tcp"),
		User:     "postgres",
		Password: "secret",
		Name:     "studygator_test",
		SSLMode:  "disable",
		MaxConns: 5,
	}

	pool.MaxWait = 90 * time.Second
	var db *gorm.DB
	if err := pool.Retry(func() error {
		var err error
		db, err = database.Open(ctx, cfg)
		return err
	}); err != nil {
		purge()
		return nil, nil, fmt.Errorf("postgres not ready: %w", err)
	}

	if err := database.Migrate(ctx, db, migrations.FS, zap.NewNop()); err != nil {
		_ = database.Close(db)
		purge()
		return nil, nil, err
	}

	return db, func() {
		_ = database.Close(db)
		purge()
	}, nil
}

// Reset empties every table except the seeded subjects.
func Reset(t *testing.T, db *gorm.DB) {
	t.Helper()
	if err := db.Exec("TRUNCATE messages, listings, users RESTART IDENTITY CASCADE").Error; err != nil {
		t.Fatalf("reset database: %v", err)
	}
}
