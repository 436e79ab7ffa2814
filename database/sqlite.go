package database

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenSQLite opens the local single-file store. path may be any DSN the
// sqlite driver accepts, including "file:name?mode=memory&cache=shared".
func OpenSQLite(ctx context.Context, path string, opts Options) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logMode(opts.Debug)),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open sqlite database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get sql.DB from GORM")
	}
	// SQLite serializes writers anyway; one connection avoids SQLITE_BUSY.
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to ping sqlite database")
	}
	if err := AutoMigrate(db); err != nil {
		return nil, err
	}

	log.Info().Str("driver", "sqlite").Str("path", path).Msg("database initialized")
	return db, nil
}
