package storage

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// DB wraps a sql.DB for the mission store.
type DB struct {
	conn *sql.DB
	log  zerolog.Logger
}

var pragmas = []struct {
	name  string
	value string
}{
	{"journal_mode", "WAL"},
	{"synchronous", "NORMAL"},
	{"busy_timeout", "5000"},
	{"foreign_keys", "ON"},
	{"temp_store", "MEMORY"},
}

// Open opens (or creates) the SQLite database at path and applies pending
// migrations.
func Open(path string, log zerolog.Logger) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// One connection: ":memory:" databases are per-connection, and SQLite
	// serializes writers anyway.
	conn.SetMaxOpenConns(1)

	for _, p := range pragmas {
		if _, err := conn.Exec(fmt.Sprintf("PRAGMA %s = %s", p.name, p.value)); err != nil {
			conn.Close()
			return nil, fmt.Errorf("set PRAGMA %s: %w", p.name, err)
		}
		log.Debug().Str("pragma", p.name).Str("value", p.value).Msg("sqlite pragma set")
	}

	if err := migrate(conn, log); err != nil {
		conn.Close()
		return nil, err
	}
	log.Debug().Str("path", path).Msg("database ready")
	return &DB{conn: conn, log: log}, nil
}

func migrate(conn *sql.DB, log zerolog.Logger) error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(gooseLogger{log})
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.Up(conn, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// gooseLogger routes goose output through zerolog at debug level.
type gooseLogger struct{ log zerolog.Logger }

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.log.Debug().Str("component", "goose").Msgf(format, v...)
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.log.Fatal().Str("component", "goose").Msgf(format, v...)
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
