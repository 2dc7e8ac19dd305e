// Package gormrepo stores games in Postgres through gorm.
package gormrepo

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Options struct {
	MaxOpenConns int
	// PingAttempts bounds how long startup waits for the database to accept
	// connections, one second apart.
	PingAttempts int
}

func OpenPostgres(ctx context.Context, dsn string, opts Options) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	attempts := max(opts.PingAttempts, 1)
	for i := 1; ; i++ {
		err = sqlDB.PingContext(ctx)
		if err == nil {
			return db, nil
		}
		if i >= attempts {
			return nil, fmt.Errorf("ping postgres after %d attempts: %w", i, err)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Second):
		}
	}
}
