package database

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"emsi-portal/backend/config"
)

func TestRunMigrations_Idempotent(t *testing.T) {
	dsn := fmt.Sprintf("file:migrate_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := NewDB(&config.StoreConfig{Engine: "sqlite", DSN: dsn}, zap.NewNop())
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, RunMigrations(sqlDB, zap.NewNop()))
	// 再次执行为 ErrNoChange，不应报错
	require.NoError(t, RunMigrations(sqlDB, zap.NewNop()))

	var version int
	require.NoError(t, sqlDB.QueryRow("SELECT version FROM "+migrationsTable).Scan(&version))
	assert.Equal(t, 1, version)

	assert.NoError(t, checkRosterTables(sqlDB))
}

func TestCheckRosterTables_Missing(t *testing.T) {
	dsn := fmt.Sprintf("file:migrate_empty_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := NewDB(&config.StoreConfig{Engine: "sqlite", DSN: dsn}, zap.NewNop())
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	err = checkRosterTables(sqlDB)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "students")
}
