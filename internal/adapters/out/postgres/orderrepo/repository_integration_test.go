package orderrepo_test

import (
	"context"
	"testing"

	"tagging/internal/adapters/out/postgres/testdb"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// TestOrderRepositoryPostgres runs the repository cases against a real
// PostgreSQL container.
func TestOrderRepositoryPostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	container, db, err := testdb.Postgres(context.Background())
	if container != nil {
		t.Cleanup(func() { _ = container.Terminate(context.Background()) })
	}
	require.NoError(t, err)

	suite.Run(t, &OrderRepositoryTestSuite{openDB: func() *gorm.DB {
		require.NoError(t, testdb.Truncate(db))
		return db
	}})
}
