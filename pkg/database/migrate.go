package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// migrationsTable 迁移版本表名
const migrationsTable = "emsi_schema_migrations"

// rosterTables 迁移完成后必须存在的业务表
var rosterTables = []string{
	"students",
	"class_groups",
	"course_sessions",
	"absence_claims",
	"chat_messages",
}

// RunMigrations 执行数据库迁移
// 自动检测当前版本并应用所有未执行的迁移，
// 迁移处于 dirty 状态或缺少花名册相关表时拒绝启动
func RunMigrations(db *sql.DB, logger *zap.Logger) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("加载迁移文件失败: %w", err)
	}

	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{MigrationsTable: migrationsTable})
	if err != nil {
		return fmt.Errorf("创建迁移驱动失败: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("初始化迁移实例失败: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("执行迁移失败: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("读取迁移版本失败: %w", err)
	}
	if dirty {
		return fmt.Errorf("数据库迁移处于 dirty 状态 (version=%d)，需人工修复", version)
	}

	if err := checkRosterTables(db); err != nil {
		return err
	}

	logger.Info("数据库迁移完成", zap.Uint("version", version), zap.Int("tables", len(rosterTables)))
	return nil
}

func checkRosterTables(db *sql.DB) error {
	for _, name := range rosterTables {
		var n int
		err := db.QueryRow(`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&n)
		if err != nil {
			return fmt.Errorf("检查数据表 %s 失败: %w", name, err)
		}
		if n == 0 {
			return fmt.Errorf("迁移后缺少数据表 %s", name)
		}
	}
	return nil
}
