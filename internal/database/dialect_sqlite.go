package database

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteDialect implements Dialect for SQLite.
type SQLiteDialect struct{}

// NewSQLiteDialect creates a new SQLite dialect.
func NewSQLiteDialect() *SQLiteDialect {
	return &SQLiteDialect{}
}

func (d *SQLiteDialect) DriverName() string {
	return "sqlite3"
}

func (d *SQLiteDialect) DSN(config DialectConfig) string {
	// Busy timeout keeps concurrent bot handlers from tripping over
	// SQLITE_BUSY; WAL lets the sweeper read while a guess writes.
	return config.Path + "?_busy_timeout=5000&_journal_mode=WAL"
}

func (d *SQLiteDialect) RewriteQuery(query string) string {
	// SQLite uses ? natively.
	return query
}

func (d *SQLiteDialect) AutoIncrementPK() string {
	return "INTEGER PRIMARY KEY AUTOINCREMENT"
}

func (d *SQLiteDialect) ConfigureConnection(db *sql.DB) error {
	// SQLite handles one writer at a time.
	db.SetMaxOpenConns(1)
	_, err := db.Exec(`PRAGMA foreign_keys = ON`)
	return err
}
