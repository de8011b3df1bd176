package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	appErrors "github.com/noah-isme/hostelflow-api/pkg/errors"
)

// QueryObserver receives timing for each SQL statement.
type QueryObserver interface {
	ObserveDBQuery(label string, duration time.Duration)
}

// SQLKV persists values in a single kv_store table. Postgres, SQLite and MySQL are supported.
type SQLKV struct {
	db       *sqlx.DB
	observer QueryObserver
}

// NewSQLKV constructs the SQL-backed store. observer may be nil.
func NewSQLKV(db *sqlx.DB, observer QueryObserver) *SQLKV {
	return &SQLKV{db: db, observer: observer}
}

// Migrate creates the kv_store table when missing.
func (r *SQLKV) Migrate(ctx context.Context) error {
	payloadType := "TEXT"
	if r.db.DriverName() == "mysql" {
		payloadType = "LONGTEXT"
	}
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS kv_store (
        store_key VARCHAR(191) NOT NULL PRIMARY KEY,
        payload %s NOT NULL,
        updated_at TIMESTAMP NOT NULL
    )`, payloadType)
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("migrate kv_store: %w", err)
	}
	return nil
}

// Get returns the payload stored under key.
func (r *SQLKV) Get(ctx context.Context, key string) ([]byte, error) {
	defer r.observe("kv_get", time.Now())
	var payload string
	query := r.db.Rebind(`SELECT payload FROM kv_store WHERE store_key = ?`)
	if err := r.db.GetContext(ctx, &payload, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrKeyNotFound
		}
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return []byte(payload), nil
}

// Set upserts the payload for key.
func (r *SQLKV) Set(ctx context.Context, key string, value []byte) error {
	defer r.observe("kv_set", time.Now())
	query := r.db.Rebind(r.upsertQuery())
	if _, err := r.db.ExecContext(ctx, query, key, string(value), time.Now().UTC()); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Delete removes key if present.
func (r *SQLKV) Delete(ctx context.Context, key string) error {
	defer r.observe("kv_delete", time.Now())
	query := r.db.Rebind(`DELETE FROM kv_store WHERE store_key = ?`)
	if _, err := r.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Close closes the database handle.
func (r *SQLKV) Close() error {
	return r.db.Close()
}

func (r *SQLKV) upsertQuery() string {
	if r.db.DriverName() == "mysql" {
		return `INSERT INTO kv_store (store_key, payload, updated_at) VALUES (?, ?, ?)
        ON DUPLICATE KEY UPDATE payload = VALUES(payload), updated_at = VALUES(updated_at)`
	}
	return `INSERT INTO kv_store (store_key, payload, updated_at) VALUES (?, ?, ?)
        ON CONFLICT (store_key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`
}

func (r *SQLKV) observe(label string, start time.Time) {
	if r.observer != nil {
		r.observer.ObserveDBQuery(label, time.Since(start))
	}
}
