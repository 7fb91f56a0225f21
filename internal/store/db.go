// Package store keeps properties, bookings, channels, products and fixed
// costs in SQLite or Postgres, scoped to one account.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"stayledger/internal/services"
)

// Compile-time check that DB implements the report store
var _ services.Store = (*DB)(nil)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type DB struct {
	*sql.DB
	driver  string
	account string
}

// Open connects to the database and scopes every query to accountID. The
// schema is not created; call Migrate for that.
func Open(ctx context.Context, driver, dsn, accountID string) (*DB, error) {
	if accountID == "" {
		return nil, ErrNoAccount
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	switch driver {
	case DriverSQLite:
		sqlDB, err = openSQLite(dsn)
	case DriverPostgres:
		sqlDB, err = openPostgres(ctx, dsn)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
	if err != nil {
		return nil, err
	}

	return &DB{DB: sqlDB, driver: driver, account: accountID}, nil
}

func openSQLite(dsn string) (*sql.DB, error) {
	if dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
		if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
			return nil, fmt.Errorf("create dir: %w", err)
		}
	}

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	sqlDB, err := sql.Open(DriverSQLite, dsn+sep+"_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// An in-memory database lives only as long as its connection.
	if dsn == ":memory:" {
		sqlDB.SetMaxOpenConns(1)
	}
	return sqlDB, nil
}

func openPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	sqlDB, err := sql.Open(DriverPostgres, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	for i := 0; i < 5; i++ {
		if err = sqlDB.PingContext(ctx); err == nil {
			break
		}
		select {
		case <-ctx.Done():
			sqlDB.Close()
			return nil, ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}
	return sqlDB, nil
}

// Driver returns the name the database was opened with.
func (db *DB) Driver() string {
	return db.driver
}

// Migrate creates the schema when missing.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// rebind rewrites ? placeholders to $n for Postgres.
func (db *DB) rebind(query string) string {
	if db.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 16)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (db *DB) query(ctx context.Context, q string, args ...any) (*sql.Rows, error) {
	return db.QueryContext(ctx, db.rebind(q), args...)
}

func (db *DB) exec(ctx context.Context, q string, args ...any) error {
	_, err := db.ExecContext(ctx, db.rebind(q), args...)
	return err
}

func (db *DB) txExec(ctx context.Context, tx *sql.Tx, q string, args ...any) error {
	_, err := tx.ExecContext(ctx, db.rebind(q), args...)
	return err
}

// inTx runs fn inside a transaction, rolling back when it fails.
func (db *DB) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// scanAll drains rows through scan.
func scanAll[T any](rows *sql.Rows, scan func(*sql.Rows, *T) error) ([]T, error) {
	defer rows.Close()

	results := []T{}
	for rows.Next() {
		var item T
		if err := scan(rows, &item); err != nil {
			return nil, err
		}
		results = append(results, item)
	}
	return results, rows.Err()
}

func formatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}
