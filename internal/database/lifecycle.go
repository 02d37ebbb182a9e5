package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"chirper/internal/config"

	"gorm.io/gorm"
)

// ErrNotInitialized is returned when the lifecycle is used before Init.
var ErrNotInitialized = errors.New("database lifecycle not initialized")

// resetOrder lists tables children first so deletes never trip foreign keys.
var resetOrder = []string{"comments", "tweets", "users"}

// Lifecycle owns the process database handle: Init connects and migrates,
// Close releases the pool and Reset empties all tables between test runs.
type Lifecycle struct {
	cfg    *config.Config
	logger *slog.Logger

	mu sync.Mutex
	db *gorm.DB
}

// NewLifecycle creates a lifecycle for the given configuration.
func NewLifecycle(cfg *config.Config, logger *slog.Logger) *Lifecycle {
	if logger == nil {
		logger = slog.Default()
	}
	return &Lifecycle{cfg: cfg, logger: logger}
}

// Init connects, verifies connectivity and, outside production, migrates the
// schema. Calling Init twice returns the existing handle.
func (l *Lifecycle) Init(ctx context.Context) (*gorm.DB, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.db != nil {
		return l.db, nil
	}

	db, err := Connect(l.cfg, l.logger)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sql.DB: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if !l.cfg.IsProduction() {
		if err := Migrate(ctx, db); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		l.logger.Info("Database migration completed")
	}

	l.db = db
	return db, nil
}

// DB returns the handle opened by Init, or nil.
func (l *Lifecycle) DB() *gorm.DB {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.db
}

// Reset deletes every row of every persistent table.
func (l *Lifecycle) Reset(ctx context.Context) error {
	db := l.DB()
	if db == nil {
		return ErrNotInitialized
	}

	if db.Dialector.Name() == "postgres" {
		return db.WithContext(ctx).Exec("TRUNCATE TABLE comments, tweets, users RESTART IDENTITY CASCADE").Error
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range resetOrder {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("reset %s: %w", table, err)
			}
		}
		// Only present when a table uses AUTOINCREMENT.
		_ = tx.Exec("DELETE FROM sqlite_sequence").Error
		return nil
	})
}

// Close releases the connection pool. Close on an uninitialized lifecycle is a no-op.
func (l *Lifecycle) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.db == nil {
		return nil
	}
	sqlDB, err := l.db.DB()
	if err != nil {
		return err
	}
	l.db = nil
	return sqlDB.Close()
}
