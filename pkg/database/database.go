package database

import (
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/noah-isme/hostelflow-api/pkg/config"
)

// Open connects to the SQL backend named by driver.
func Open(driver string, cfg *config.Config) (*sqlx.DB, error) {
	switch driver {
	case config.StorePostgres:
		return NewPostgres(cfg.Database)
	case config.StorePgx:
		return NewPgx(cfg.Database)
	case config.StoreSQLite:
		return NewSQLite(cfg.Store.SQLitePath)
	case config.StoreMySQL:
		return NewMySQL(cfg.Store.MySQLDSN, cfg.Database)
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}
}

// NewPostgres returns a configured PostgreSQL client using lib/pq.
func NewPostgres(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", postgresDSN(cfg))
	if err != nil {
		return nil, err
	}
	return configure(db, cfg.MaxOpenConns, cfg.MaxIdleConns)
}

// NewPgx returns a PostgreSQL client backed by the pgx stdlib driver.
func NewPgx(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("pgx", postgresDSN(cfg))
	if err != nil {
		return nil, err
	}
	return configure(db, cfg.MaxOpenConns, cfg.MaxIdleConns)
}

func postgresDSN(cfg config.DatabaseConfig) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)
}

// NewSQLite opens a file-backed SQLite database.
func NewSQLite(path string) (*sqlx.DB, error) {
	if path == "" {
		path = "./hostelflow.db"
	}
	db, err := sqlx.Open("sqlite3", fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path))
	if err != nil {
		return nil, err
	}
	// sqlite serialises writers anyway; one connection avoids SQLITE_BUSY.
	return configure(db, 1, 1)
}

// NewMySQL opens a MySQL connection using the given DSN.
func NewMySQL(dsn string, pool config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	return configure(db, pool.MaxOpenConns, pool.MaxIdleConns)
}

func configure(db *sqlx.DB, maxOpen, maxIdle int) (*sqlx.DB, error) {
	if maxOpen > 0 {
		db.SetMaxOpenConns(maxOpen)
	}
	if maxIdle > 0 {
		db.SetMaxIdleConns(maxIdle)
	}

	db.SetConnMaxLifetime(1 * time.Hour)
	db.SetConnMaxIdleTime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}
