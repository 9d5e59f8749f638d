package config

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	dbConnectAttempts = 5
	dbConnectDelay    = 5 * time.Second
)

// NewDB opens the save-slot database. The engine itself is in-memory, so
// callers may treat a failed connection as non-fatal and run without
// named slots.
func NewDB() (*gorm.DB, error) {
	cfg := Get()

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)

	gormConfig := &gorm.Config{Logger: logger.Default.LogMode(logger.Error)}
	if cfg.Server.Env == "development" {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}

	var db *gorm.DB
	var err error
	for i := 0; i < dbConnectAttempts; i++ {
		db, err = gorm.Open(postgres.Open(dsn), gormConfig)
		if err == nil {
			break
		}
		time.Sleep(dbConnectDelay)
	}
	if err != nil {
		return nil, fmt.Errorf("connecting to save database after %d attempts: %w", dbConnectAttempts, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrapping database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxConns)

	return db, nil
}

// TestConnection pings the database, for health checks.
func TestConnection(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("unwrapping database handle: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("pinging save database: %w", err)
	}
	return nil
}
