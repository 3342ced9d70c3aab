//go:build integration

package repository_test

import (
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"emsi-portal/backend/config"
	"emsi-portal/backend/internal/repository"
	"emsi-portal/backend/pkg/database"
)

// newSQLiteRepository 每个用例使用独立命名的内存库，经迁移建表
func newSQLiteRepository(t *testing.T) *repository.Repository {
	t.Helper()

	dsn := fmt.Sprintf("file:repo_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := database.NewDB(&config.StoreConfig{Engine: "sqlite", DSN: dsn}, zap.NewNop())
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("获取 sql.DB 失败: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.RunMigrations(sqlDB, zap.NewNop()); err != nil {
		t.Fatalf("执行迁移失败: %v", err)
	}

	return repository.NewRepository(db)
}

func TestSQLiteRepository_Contract(t *testing.T) {
	runContract(t, newSQLiteRepository)
}
