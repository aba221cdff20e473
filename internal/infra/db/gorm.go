package db

import (
	"fmt"

	"artstore/internal/config"
	"artstore/internal/domain/model"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect はDB_DRIVERに応じてDBに接続して *gorm.DB を返す。
func Connect(cfg config.Config) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}
	return Open(dialector, cfg.IsProd())
}

// Dialector はドライバごとの接続先を組み立てる
func Dialector(cfg config.Config) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case "postgres", "":
		// DATABASE_URL があれば最優先で使う
		if cfg.DatabaseURL != "" {
			return postgres.Open(cfg.DatabaseURL), nil
		}
		dsn := fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresUser,
			cfg.PostgresPassword, cfg.PostgresDB, cfg.PostgresSSLMode,
		)
		return postgres.Open(dsn), nil
	case "mysql":
		return mysql.Open(cfg.MySQLDSN), nil
	case "sqlite":
		return sqlite.Open(cfg.SQLitePath), nil
	default:
		return nil, fmt.Errorf("unsupported db driver: %s", cfg.DBDriver)
	}
}

// Open は共通設定で接続する。一意制約違反はgorm.ErrDuplicatedKeyに変換させる
func Open(dialector gorm.Dialector, quiet bool) (*gorm.DB, error) {
	gcfg := &gorm.Config{TranslateError: true}
	if quiet {
		gcfg.Logger = logger.Default.LogMode(logger.Silent)
	}
	return gorm.Open(dialector, gcfg)
}

// Migrate は全テーブルをAutoMigrateする
func Migrate(gormDB *gorm.DB) error {
	return gormDB.AutoMigrate(model.All()...)
}
