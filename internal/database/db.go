package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/strad-dev131/GuessWithEmoji/internal/config"
)

// DB wraps the database connection with dialect support. Queries written
// against it use ? placeholders regardless of the backing database.
type DB struct {
	*sql.DB
	Dialect Dialect
}

// Initialize opens the database selected by the config and applies the schema.
func Initialize(cfg *config.Config) (*DB, error) {
	var dialect Dialect
	var dialectConfig DialectConfig

	switch strings.ToLower(cfg.DatabaseType) {
	case "postgres", "postgresql":
		dialect = NewPostgresDialect()
		dialectConfig = DialectConfig{URL: cfg.DatabaseURL}
	case "mysql":
		dialect = NewMySQLDialect()
		dialectConfig = DialectConfig{URL: cfg.DatabaseURL}
	case "sqlite", "sqlite3", "":
		dialect = NewSQLiteDialect()
		dialectConfig = DialectConfig{Path: cfg.DatabasePath}
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.DatabaseType)
	}

	db, err := sql.Open(dialect.DriverName(), dialect.DSN(dialectConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := dialect.ConfigureConnection(db); err != nil {
		return nil, fmt.Errorf("failed to configure connection: %w", err)
	}

	wrapped := &DB{DB: db, Dialect: dialect}
	if err := wrapped.Migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	log.Info().Str("driver", dialect.DriverName()).Msg("database ready")
	return wrapped, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.DB.Close()
}

// Query executes a query with automatic placeholder rewriting.
func (db *DB) Query(query string, args ...interface{}) (*sql.Rows, error) {
	return db.DB.Query(db.Dialect.RewriteQuery(query), args...)
}

// QueryRow executes a single-row query with automatic placeholder rewriting.
func (db *DB) QueryRow(query string, args ...interface{}) *sql.Row {
	return db.DB.QueryRow(db.Dialect.RewriteQuery(query), args...)
}

// Exec executes a statement with automatic placeholder rewriting.
func (db *DB) Exec(query string, args ...interface{}) (sql.Result, error) {
	return db.DB.Exec(db.Dialect.RewriteQuery(query), args...)
}

// Migrate creates the schema. Every statement is idempotent, so running it
// on an already-initialized database is a no-op.
func (db *DB) Migrate() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			telegram_id     BIGINT PRIMARY KEY,
			username        VARCHAR(255) NOT NULL DEFAULT '',
			first_name      VARCHAR(255) NOT NULL DEFAULT '',
			score           INTEGER NOT NULL DEFAULT 0,
			games_played    INTEGER NOT NULL DEFAULT 0,
			games_won       INTEGER NOT NULL DEFAULT 0,
			correct_guesses INTEGER NOT NULL DEFAULT 0,
			hints_used      INTEGER NOT NULL DEFAULT 0,
			joined_at       TIMESTAMP NOT NULL,
			last_active     TIMESTAMP NOT NULL,
			banned          INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS chat_stats (
			chat_id      BIGINT PRIMARY KEY,
			title        VARCHAR(255) NOT NULL DEFAULT '',
			total_games  INTEGER NOT NULL DEFAULT 0,
			total_points INTEGER NOT NULL DEFAULT 0,
			last_game_at TIMESTAMP NULL
		)`,
		`CREATE TABLE IF NOT EXISTS game_sessions (
			id          VARCHAR(36) PRIMARY KEY,
			chat_id     BIGINT NOT NULL,
			puzzle_id   VARCHAR(64) NOT NULL,
			emojis      VARCHAR(255) NOT NULL,
			answer      VARCHAR(255) NOT NULL,
			category    VARCHAR(32) NOT NULL,
			difficulty  VARCHAR(32) NOT NULL,
			status      VARCHAR(32) NOT NULL,
			started_at  TIMESTAMP NOT NULL,
			ended_at    TIMESTAMP NULL,
			winner_id   BIGINT NULL,
			winner_name VARCHAR(255) NOT NULL DEFAULT '',
			hints_given INTEGER NOT NULL DEFAULT 0
		)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS session_guesses (
			id         %s,
			session_id VARCHAR(36) NOT NULL,
			user_id    BIGINT NOT NULL,
			guess      VARCHAR(512) NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`, db.Dialect.AutoIncrementPK()),
		`CREATE TABLE IF NOT EXISTS puzzle_stats (
			puzzle_id    VARCHAR(64) PRIMARY KEY,
			times_used   INTEGER NOT NULL DEFAULT 0,
			times_solved INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_chat_status ON game_sessions (chat_id, status)`,
		`CREATE INDEX IF NOT EXISTS idx_guesses_session ON session_guesses (session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_users_score ON users (score)`,
	}

	for _, stmt := range statements {
		if _, err := db.DB.Exec(stmt); err != nil {
			// MySQL predates CREATE INDEX IF NOT EXISTS; a duplicate-key
			// error on re-run is fine there.
			if strings.Contains(stmt, "CREATE INDEX") && strings.Contains(err.Error(), "Duplicate") {
				continue
			}
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
