package database

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Options controls how a database is opened.
type Options struct {
	// Debug switches the gorm logger to Info.
	Debug bool
	// SQLMigrations runs the embedded golang-migrate scripts instead of AutoMigrate.
	SQLMigrations bool
}

// OpenPostgres opens the remote clinic database and prepares its schema.
func OpenPostgres(ctx context.Context, dsn string, opts Options) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt:    true,
		TranslateError: true,
		Logger:         logger.Default.LogMode(logMode(opts.Debug)),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database connection")
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get sql.DB from GORM")
	}
	sqlDB.SetMaxOpenConns(40)
	sqlDB.SetMaxIdleConns(20)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}

	if opts.SQLMigrations {
		if err := RunSQLMigrations(dsn); err != nil {
			return nil, err
		}
	} else if err := AutoMigrate(db); err != nil {
		return nil, err
	}

	log.Info().Str("driver", "postgres").Msg("database initialized")
	return db, nil
}

func logMode(debug bool) logger.LogLevel {
	if debug {
		return logger.Info
	}
	return logger.Silent
}
