// Package store 以 gorm 實作快取紀錄、植物類型與植株的持久化（SQLite / MySQL）
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"garden-assistant/internal/core/ai/cache"
	"garden-assistant/internal/core/identity"
	"garden-assistant/internal/pkg/common"
)

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

var (
	_ cache.RecordStore = (*Store)(nil)
	_ identity.Store    = (*Store)(nil)
)

// Options 資料庫連線設定
type Options struct {
	Driver        string
	DSN           string
	SlowThreshold time.Duration
	Debug         bool
}

// Store gorm 儲存
type Store struct {
	db *gorm.DB
}

// Open 開啟資料庫並執行 AutoMigrate
func Open(opts Options) (*Store, error) {
	level := logger.Warn
	if opts.Debug {
		level = logger.Info
	}
	cfg := &gorm.Config{Logger: NewGormLogger(opts.SlowThreshold, level)}

	var dialector gorm.Dialector
	switch opts.Driver {
	case "", DriverSQLite:
		dsn := opts.DSN
		if dsn == "" {
			dsn = "garden.db?_busy_timeout=5000"
		}
		dialector = sqlite.Open(dsn)
	case DriverMySQL:
		if opts.DSN == "" {
			return nil, fmt.Errorf("mysql dsn is required")
		}
		dialector = mysql.Open(opts.DSN)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", opts.Driver)
	}

	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", opts.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying database: %w", err)
	}
	if opts.Driver == DriverMySQL {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(50)
		sqlDB.SetConnMaxLifetime(time.Hour)
	} else {
		// SQLite 單一寫入者
		sqlDB.SetMaxOpenConns(1)
	}

	return New(db)
}

// New 以既有連線建立 Store 並遷移資料表
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&CacheEntryModel{}, &PlantTypeModel{}, &PlantInstanceModel{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Ping 檢查連線
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close 關閉連線
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// translate 將 gorm 的查無資料轉為 common.ErrNotFound
func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return common.ErrNotFound
	}
	return err
}
