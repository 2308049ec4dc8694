package database

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/andrescamacho/groundworks-go/internal/adapters/persistence"
	"github.com/andrescamacho/groundworks-go/internal/infrastructure/config"
)

// NewConnection opens the state store described by cfg
func NewConnection(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Type {
	case "postgres":
		dialector = postgres.Open(postgresDSN(cfg))
	case "sqlite":
		dialector = sqlite.Open(sqliteDSN(cfg))
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: sqlLogger(cfg)})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Type, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying db: %w", err)
	}
	if cfg.Type == "sqlite" {
		// a second connection to ":memory:" would see an empty database, and
		// file databases only ever have one writer anyway
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.Pool.MaxOpen)
		sqlDB.SetMaxIdleConns(cfg.Pool.MaxIdle)
		sqlDB.SetConnMaxLifetime(cfg.Pool.MaxLifetime)
	}

	return db, nil
}

func postgresDSN(cfg *config.DatabaseConfig) string {
	if cfg.URL != "" {
		return cfg.URL
	}
	parts := []string{
		"host=" + cfg.Host,
		fmt.Sprintf("port=%d", cfg.Port),
		"user=" + cfg.User,
		"dbname=" + cfg.Name,
	}
	if cfg.Password != "" {
		parts = append(parts, "password="+cfg.Password)
	}
	if cfg.SSLMode != "" {
		parts = append(parts, "sslmode="+cfg.SSLMode)
	}
	return strings.Join(parts, " ")
}

// sqliteDSN appends the journal and busy-timeout pragmas to file paths.
// In-memory databases take no pragmas.
func sqliteDSN(cfg *config.DatabaseConfig) string {
	if cfg.InMemory() {
		return ":memory:"
	}

	params := url.Values{}
	if cfg.SQLite.JournalMode != "" {
		params.Set("_journal_mode", strings.ToUpper(cfg.SQLite.JournalMode))
	}
	if cfg.SQLite.BusyTimeout > 0 {
		params.Set("_busy_timeout", fmt.Sprintf("%d", cfg.SQLite.BusyTimeout.Milliseconds()))
	}
	if len(params) == 0 {
		return cfg.Path
	}
	return "file:" + cfg.Path + "?" + params.Encode()
}

func sqlLogger(cfg *config.DatabaseConfig) logger.Interface {
	level := logger.Silent
	switch cfg.LogLevel {
	case "error":
		level = logger.Error
	case "warn":
		level = logger.Warn
	case "info":
		level = logger.Info
	}
	if level == logger.Silent {
		return logger.Default.LogMode(logger.Silent)
	}
	return logger.New(log.New(os.Stderr, "\r\n", log.LstdFlags), logger.Config{
		SlowThreshold:             cfg.SlowThreshold,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}

// NewTestConnection opens a migrated in-memory SQLite database
func NewTestConnection() (*gorm.DB, error) {
	db, err := NewConnection(&config.DatabaseConfig{Type: "sqlite", Path: ":memory:"})
	if err != nil {
		return nil, err
	}
	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate test database: %w", err)
	}
	return db, nil
}

// AutoMigrate creates or updates the scheduler tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&persistence.WorkshopModel{},
		&persistence.WorkshopQueueEntryModel{},
		&persistence.JobProgressModel{},
		&persistence.WorkshopNoticeModel{},
	)
}

// Close releases the underlying connection pool
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
