package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/advcompro/garage-dashboard/internal/config"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// entry is one row of cache_entries
type entry struct {
	Key       string    `gorm:"column:cache_key;primaryKey"`
	Value     string    `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (entry) TableName() string {
	return "cache_entries"
}

// SQL stores values in the cache_entries table of a sqlite or postgres database
type SQL struct {
	db     *gorm.DB
	logger *zap.Logger
}

// OpenSQLite opens (creating if needed) a sqlite database file
func OpenSQLite(path string, autoMigrate bool, logger *zap.Logger) (*SQL, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
		}
	}
	return openSQL(sqlite.Open(path), "sqlite3", autoMigrate, nil, logger)
}

// OpenPostgres connects to postgres using the pool settings in cfg
func OpenPostgres(cfg *config.DatabaseConfig, autoMigrate bool, logger *zap.Logger) (*SQL, error) {
	return openSQL(postgres.Open(cfg.ConnectionString()), "postgres", autoMigrate, cfg, logger)
}

func openSQL(dialector gorm.Dialector, dialect string, autoMigrate bool, pool *config.DatabaseConfig, logger *zap.Logger) (*SQL, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to cache database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	if pool != nil {
		sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
		sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(pool.ConnMaxLifetimeDuration())
	} else {
		// sqlite allows a single writer
		sqlDB.SetMaxOpenConns(1)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping cache database: %w", err)
	}

	if autoMigrate {
		if err := Migrate(sqlDB, dialect); err != nil {
			sqlDB.Close()
			return nil, err
		}
	}

	logger.Info("SQL cache initialized",
		zap.String("dialect", dialect),
		zap.Bool("auto_migrate", autoMigrate),
	)

	return &SQL{db: db, logger: logger}, nil
}

func (s *SQL) Get(ctx context.Context, key string) ([]byte, error) {
	var e entry
	err := s.db.WithContext(ctx).Where("cache_key = ?", key).Take(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read cache entry: %w", err)
	}
	return []byte(e.Value), nil
}

func (s *SQL) Put(ctx context.Context, key string, value []byte) error {
	e := entry{Key: key, Value: string(value), UpdatedAt: time.Now().UTC()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cache_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&e).Error
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

func (s *SQL) Delete(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where("cache_key = ?", key).Delete(&entry{}).Error; err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

func (s *SQL) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
