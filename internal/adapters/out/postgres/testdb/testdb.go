// Package testdb opens migrated databases for repository tests: an isolated
// in-memory sqlite database per test, or a disposable postgres container.
package testdb

import (
	"context"
	"fmt"
	"testing"
	"time"

	postgresadapter "tagging/internal/adapters/out/postgres"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// SQLite returns a migrated in-memory database private to t.
func SQLite(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	db, err := postgresadapter.Open("sqlite", dsn, postgresadapter.PoolConfig{MaxOpenConns: 1}, false)
	require.NoError(t, err)
	require.NoError(t, postgresadapter.AutoMigrate(db))

	t.Cleanup(func() {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// Postgres starts a postgres container and returns a migrated connection.
// The caller terminates the container.
func Postgres(ctx context.Context) (*postgres.PostgresContainer, *gorm.DB, error) {
	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, nil, err
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return container, nil, err
	}

	db, err := postgresadapter.Open("postgres", dsn, postgresadapter.PoolConfig{}, false)
	if err != nil {
		return container, nil, err
	}
	if err = postgresadapter.AutoMigrate(db); err != nil {
		return container, nil, err
	}
	return container, db, nil
}

// Truncate empties every table.
func Truncate(db *gorm.DB) error {
	return db.Exec(`TRUNCATE TABLE messages, notifications, order_events, delivery_files,
		deliveries, order_tags, orders, packages, users`).Error
}
