package infra

import (
	"fmt"
	"time"

	"testcase-generator/config"
	"testcase-generator/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// gormConfig は gorm のログを zap に流す。見つからないだけの検索はログに出さない
func gormConfig(lg *zap.Logger) *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger: logger.New(zap.NewStdLog(lg.Named("gorm")), logger.Config{
			SlowThreshold:             slowQueryThreshold,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		}),
	}
}

// SetupDB は DB_NAME が設定されていれば PostgreSQL、なければ SQLite に接続する
func SetupDB(cfg config.Database, lg *zap.Logger) (*gorm.DB, error) {
	if cfg.UsePostgres() {
		db, err := gorm.Open(postgres.Open(cfg.PostgresDSN()), gormConfig(lg))
		if err != nil {
			return nil, fmt.Errorf("connect postgres error: %w", err)
		}
		lg.Info("Setup postgres database",
			zap.String("host", cfg.Host),
			zap.String("dbname", cfg.Name),
			zap.String("port", cfg.Port))
		return db, nil
	}

	db, err := openSQLite(cfg.SQLitePath, lg)
	if err != nil {
		return nil, err
	}
	lg.Info("Setup sqlite database", zap.String("path", cfg.SQLitePath))
	return db, nil
}

// SetupSQLite は接続を1本に固定する（インメモリ DB を保持し、外部キーを有効なままにするため）
func SetupSQLite(dsn string) (*gorm.DB, error) {
	return openSQLite(dsn, zap.NewNop())
}

func openSQLite(dsn string, lg *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig(lg))
	if err != nil {
		return nil, fmt.Errorf("connect sqlite error: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite handle error: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("enable foreign keys error: %w", err)
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Feature{},
		&models.TestCase{},
		&models.BlacklistedToken{},
	); err != nil {
		return fmt.Errorf("auto migrate error: %w", err)
	}
	return nil
}
