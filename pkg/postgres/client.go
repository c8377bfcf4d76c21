package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// PostgresClient exposes the gorm handle plus lifecycle helpers.
type PostgresClient interface {
	// Migrate runs auto-migration for the given models
	Migrate(dst ...any) error
	// GetDB returns the underlying gorm.DB instance
	GetDB() *gorm.DB
	Ping(ctx context.Context) error
	Close() error
}

type postgresClient struct {
	DB *gorm.DB
}

// NewPostgresClient opens a pooled connection and verifies it with a ping.
func NewPostgresClient(cfg Config) (PostgresClient, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	dbSQL, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.MaxIdleConns > 0 {
		dbSQL.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		dbSQL.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	dbSQL.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)
	dbSQL.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)

	client := &postgresClient{DB: db}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx); err != nil {
		_ = dbSQL.Close()
		return nil, err
	}

	return client, nil
}

// NewFromDB wraps an already opened gorm handle.
func NewFromDB(db *gorm.DB) PostgresClient {
	return &postgresClient{DB: db}
}

func gormConfig(cfg Config) *gorm.Config {
	level := logger.Silent
	if cfg.Debug {
		level = logger.Info
	}
	return &gorm.Config{Logger: logger.Default.LogMode(level)}
}

func (c *postgresClient) Migrate(dst ...any) error {
	if err := c.DB.AutoMigrate(dst...); err != nil {
		return fmt.Errorf("failed to auto-migrate models: %w", err)
	}
	return nil
}

func (c *postgresClient) GetDB() *gorm.DB {
	return c.DB
}

func (c *postgresClient) Ping(ctx context.Context) error {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping postgres: %w", err)
	}
	return nil
}

func (c *postgresClient) Close() error {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
