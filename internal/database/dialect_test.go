package database

import (
	"strings"
	"testing"
)

func TestRewritePlaceholdersToNumbered(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{
			name:  "no placeholders",
			query: "SELECT 1",
			want:  "SELECT 1",
		},
		{
			name:  "single",
			query: "SELECT * FROM users WHERE telegram_id = ?",
			want:  "SELECT * FROM users WHERE telegram_id = $1",
		},
		{
			name:  "several",
			query: "UPDATE game_sessions SET status = ?, ended_at = ? WHERE id = ? AND status = ?",
			want:  "UPDATE game_sessions SET status = $1, ended_at = $2 WHERE id = $3 AND status = $4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rewritePlaceholdersToNumbered(tt.query); got != tt.want {
				t.Errorf("rewritePlaceholdersToNumbered(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}

func TestDialectDriverNames(t *testing.T) {
	tests := []struct {
		dialect Dialect
		driver  string
	}{
		{&SQLiteDialect{}, "sqlite3"},
		{&PostgresDialect{}, "postgres"},
		{&MySQLDialect{}, "mysql"},
	}
	for _, tt := range tests {
		if got := tt.dialect.DriverName(); got != tt.driver {
			t.Errorf("DriverName() = %q, want %q", got, tt.driver)
		}
	}
}

func TestDialectQueryRewrite(t *testing.T) {
	const q = "SELECT score FROM users WHERE telegram_id = ? AND banned = ?"

	if got := (&SQLiteDialect{}).RewriteQuery(q); got != q {
		t.Errorf("sqlite RewriteQuery changed the query: %q", got)
	}
	if got := (&MySQLDialect{}).RewriteQuery(q); got != q {
		t.Errorf("mysql RewriteQuery changed the query: %q", got)
	}
	if got := (&PostgresDialect{}).RewriteQuery(q); !strings.Contains(got, "$2") {
		t.Errorf("postgres RewriteQuery = %q, want numbered placeholders", got)
	}
}

func TestSQLiteDSN(t *testing.T) {
	dsn := (&SQLiteDialect{}).DSN(DialectConfig{Path: "./game.db"})
	if !strings.HasPrefix(dsn, "./game.db?") {
		t.Errorf("DSN = %q, want path with options", dsn)
	}
	for _, opt := range []string{"_busy_timeout", "_journal_mode=WAL"} {
		if !strings.Contains(dsn, opt) {
			t.Errorf("DSN = %q, missing %s", dsn, opt)
		}
	}
}

func TestMySQLDSNParseTime(t *testing.T) {
	dsn := (&MySQLDialect{}).DSN(DialectConfig{URL: "user:pass@tcp(localhost:3306)/game"})
	if !strings.Contains(dsn, "parseTime=true") {
		t.Errorf("DSN = %q, want parseTime=true", dsn)
	}
}
