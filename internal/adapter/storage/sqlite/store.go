package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"vertex/internal/domain/model"
	"vertex/internal/domain/ports"
)

// Store is the embedded sheet and user store. Sheets, their questions and users
// live in three tables; questions keep their order in a position column.
type Store struct {
	db    *sql.DB
	now   func() time.Time
	newID func() string
}

var (
	_ ports.SheetRepository = (*Store)(nil)
	_ ports.UserRepository  = (*Store)(nil)
)

// New opens (creating if needed) the database at path and applies the schema.
func New(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy_timeout: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set journal_mode: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return &Store{db: db, now: time.Now, newID: uuid.NewString}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			clerk_id TEXT PRIMARY KEY,
			email TEXT NOT NULL,
			name TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS sheets (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			title TEXT NOT NULL,
			total_questions INTEGER NOT NULL DEFAULT 0,
			solved_questions INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL,
			version INTEGER NOT NULL DEFAULT 1
		)
	`)
	if err != nil {
		return err
	}
	if _, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_sheets_user ON sheets(user_id, created_at DESC)`); err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS questions (
			id TEXT PRIMARY KEY,
			sheet_id TEXT NOT NULL REFERENCES sheets(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			title TEXT NOT NULL,
			url TEXT NOT NULL,
			topics TEXT NOT NULL DEFAULT '[]',
			difficulty TEXT NOT NULL,
			status TEXT NOT NULL,
			is_bookmarked INTEGER NOT NULL DEFAULT 0,
			notes TEXT NOT NULL DEFAULT '',
			solved_at INTEGER
		)
	`)
	if err != nil {
		return err
	}
	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_questions_sheet ON questions(sheet_id, position)`)
	return err
}

// EnsureUser inserts the user unless one with the same ClerkID exists.
func (s *Store) EnsureUser(ctx context.Context, user model.User) error {
	now := s.now()
	_, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO users (clerk_id, email, name, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		user.ClerkID, user.Email, user.Name, now.UnixNano(), now.UnixNano(),
	)
	return model.NewStorageError("sqlite: ensure user", err)
}

// withTx runs fn in a transaction, committing when it returns nil.
func (s *Store) withTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.NewStorageError(op, err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return model.NewStorageError(op, err)
	}
	return nil
}

func fromNanos(n int64) time.Time {
	return time.Unix(0, n)
}
