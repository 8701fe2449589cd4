// Package database manages the PostgreSQL connection pool and turns driver
// rows into JSON-safe values.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/chrissnell/cropclimate/internal/log"
)

// DefaultConnectWait bounds how long Connect keeps retrying the first ping
const DefaultConnectWait = 30 * time.Second

// newGormLogger bridges gorm's logger onto zap. Slow queries are warnings;
// failed queries are reported again, at error level, by the caller.
func newGormLogger() logger.Interface {
	return logger.New(
		log.StdLoggerAt(zapcore.WarnLevel),
		logger.Config{
			SlowThreshold:             time.Second, // Slow SQL threshold
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

// CreateConnection opens a gorm handle without touching the network. The
// underlying *sql.DB is the process-wide connection pool.
func CreateConnection(connectionString string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(connectionString), &gorm.Config{
		Logger:                 newGormLogger(),
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to create a PostgreSQL connection: %w", err)
	}
	return db, nil
}

// Connect opens the pool and waits, with exponential backoff, until the
// database answers a ping or maxWait elapses.
func Connect(ctx context.Context, connectionString string, maxWait time.Duration) (*gorm.DB, error) {
	db, err := CreateConnection(connectionString)
	if err != nil {
		return nil, err
	}

	if maxWait <= 0 {
		maxWait = DefaultConnectWait
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 250 * time.Millisecond
	bo.MaxInterval = 5 * time.Second
	bo.MaxElapsedTime = maxWait

	log.Info("connecting to PostgreSQL...")
	err = backoff.RetryNotify(func() error {
		return Ping(ctx, db)
	}, backoff.WithContext(bo, ctx), func(err error, wait time.Duration) {
		log.Warnf("database not reachable yet, retrying in %v: %v", wait, err)
	})
	if err != nil {
		_ = Close(db)
		return nil, fmt.Errorf("database did not become reachable: %w", err)
	}
	log.Info("PostgreSQL connection successful")

	return db, nil
}

// Ping checks that a connection can be checked out of the pool
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases every pooled connection
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
