package credentials

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/localauth/internal/common"
	"github.com/dmitrijs2005/localauth/internal/dbx"
	"github.com/dmitrijs2005/localauth/internal/logging"
	"github.com/dmitrijs2005/localauth/internal/models"
	"github.com/dmitrijs2005/localauth/internal/repositories/credentials/migrations"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db  *sql.DB
	log logging.Logger
}

// OpenSQLite opens (or creates) the database at dsn and applies migrations.
func OpenSQLite(ctx context.Context, dsn string, log logging.Logger) (*SQLiteRepository, error) {
	if log == nil {
		log = logging.Nop()
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", common.ErrStorageUnavailable, dsn, err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: migrate: %w", common.ErrStorageUnavailable, err)
	}
	return NewSQLiteRepository(db, log.With("dsn", dsn)), nil
}

func NewSQLiteRepository(db *sql.DB, log logging.Logger) *SQLiteRepository {
	return &SQLiteRepository{db: db, log: log}
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return goose.UpContext(ctx, db, ".")
}

func (r *SQLiteRepository) Load(ctx context.Context) (map[string]models.Record, error) {
	r.log.Debug(ctx, "loading store")

	rows, err := r.db.QueryContext(ctx, `SELECT username, salt, key, profile FROM credentials`)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list credentials: %w", common.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	records := make(map[string]models.Record)
	for rows.Next() {
		var (
			username, profile string
			rec               models.Record
		)
		if err := rows.Scan(&username, &rec.Salt, &rec.Key, &profile); err != nil {
			return nil, fmt.Errorf("%w: failed to scan credentials row: %w", common.ErrStorageUnavailable, err)
		}
		if err := json.Unmarshal([]byte(profile), &rec.Profile); err != nil {
			return nil, fmt.Errorf("%w: profile of %q: %w", common.ErrStorageUnavailable, username, err)
		}
		records[username] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to iterate credentials rows: %w", common.ErrStorageUnavailable, err)
	}

	r.log.Debug(ctx, "store loaded", "users", len(records))
	return records, nil
}

// Save replaces every row in one transaction.
func (r *SQLiteRepository) Save(ctx context.Context, records map[string]models.Record) error {
	r.log.Debug(ctx, "saving store", "users", len(records))

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM credentials`); err != nil {
			return fmt.Errorf("failed to clear credentials: %w", err)
		}
		for username, rec := range records {
			profile := rec.Profile
			if profile == nil {
				profile = models.Profile{}
			}
			p, err := json.Marshal(profile)
			if err != nil {
				return fmt.Errorf("profile of %q: %w", username, err)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO credentials (username, salt, key, profile) VALUES (?, ?, ?, ?)`,
				username, rec.Salt, rec.Key, string(p),
			); err != nil {
				return fmt.Errorf("failed to insert credentials[%s]: %w", username, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrStorageUnavailable, err)
	}

	r.log.Debug(ctx, "store saved")
	return nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
