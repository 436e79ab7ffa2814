package repositories

import (
	"context"
	"database/sql"

	"github.com/diyorbekkd/thDent/apperrors"
	"github.com/diyorbekkd/thDent/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// GormStore implements Store on Postgres or SQLite.
type GormStore struct {
	db *gorm.DB
}

var _ Store = (*GormStore)(nil)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// DB exposes the underlying handle for migrations and tests.
func (s *GormStore) DB() *gorm.DB {
	return s.db
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return apperrors.Unavailable(err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return errors.Wrap(apperrors.Unavailable(err), "failed to ping database")
	}
	return nil
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Snapshot runs every read in one transaction. On Postgres the transaction
// is REPEATABLE READ so all reads see the same committed state; SQLite
// transactions are already serializable.
func (s *GormStore) Snapshot(ctx context.Context, q SnapshotQuery) (*Snapshot, error) {
	var opts *sql.TxOptions
	if s.db.Dialector.Name() == "postgres" {
		opts = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	}

	snap := &Snapshot{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if q.PatientID != "" {
			var p models.Patient
			if err := tx.First(&p, "id = ?", q.PatientID).Error; err != nil {
				return storageErr(err, "failed to get patient")
			}
			snap.Patient = &p
		}
		if q.Treatments != nil {
			trs, err := findTreatments(tx, *q.Treatments)
			if err != nil {
				return err
			}
			snap.Treatments = trs
		}
		if q.Transactions != nil {
			txs, err := findTransactions(tx, *q.Transactions)
			if err != nil {
				return err
			}
			snap.Transactions = txs
		}
		return nil
	}, opts)
	if err != nil {
		return nil, storageErr(err, "failed to read snapshot")
	}
	return snap, nil
}

// storageErr maps gorm errors onto the apperrors taxonomy. Errors that
// already carry a taxonomy sentinel pass through unchanged.
func storageErr(err error, msg string) error {
	switch {
	case err == nil:
		return nil
	case apperrors.IsNotFound(err), apperrors.IsInvalidArgument(err),
		apperrors.IsConflict(err), apperrors.IsStorageUnavailable(err):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errors.Wrap(apperrors.ErrNotFound, msg)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errors.Wrap(apperrors.ErrConflict, msg)
	case errors.Is(err, gorm.ErrCheckConstraintViolated), errors.Is(err, gorm.ErrForeignKeyViolated):
		return errors.Wrap(apperrors.InvalidInput(err), msg)
	default:
		return errors.Wrap(apperrors.Unavailable(err), msg)
	}
}

// checkAffected turns an UPDATE or DELETE that matched nothing into ErrNotFound.
func checkAffected(res *gorm.DB, msg string) error {
	if res.Error != nil {
		return storageErr(res.Error, msg)
	}
	if res.RowsAffected == 0 {
		return errors.Wrap(apperrors.ErrNotFound, msg)
	}
	return nil
}
