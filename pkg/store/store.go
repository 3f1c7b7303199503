// Package store provides SQLite-backed persistence for credentials and bans.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/NicolasHaas/linechat/pkg/model"
)

const dbTimeLayout = "2006-01-02 15:04:05"

// Store provides database access for linechat's persisted state.
type Store struct {
	db *sql.DB
}

// New opens (or creates) a SQLite database and runs migrations.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}

	ctx := context.Background()

	// Enable WAL mode for better concurrent read performance
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: set WAL: %w", err)
	}
	// Set busy timeout to avoid "database is locked" under concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: set busy_timeout: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS users (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		username   TEXT    NOT NULL UNIQUE CHECK(length(username) > 0 AND length(username) <= 32),
		password   TEXT    NOT NULL,
		created_at TEXT    NOT NULL DEFAULT (datetime('now'))
	);

	CREATE TABLE IF NOT EXISTS bans (
		username   TEXT PRIMARY KEY,
		created_at TEXT NOT NULL DEFAULT (datetime('now'))
	);
	`
	ctx := context.Background()
	if err := s.ensureSchemaMigrations(ctx); err != nil {
		return err
	}
	currentVersion, err := s.getSchemaVersion(ctx)
	if err != nil {
		return err
	}

	migrations := []struct {
		version    int
		statements []string
	}{
		{
			version:    1,
			statements: []string{schema},
		},
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		for _, stmt := range m.statements {
			if _, err := s.db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("migration v%d: %w", m.version, err)
			}
		}
		if err := s.setSchemaVersion(ctx, m.version); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) ensureSchemaMigrations(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		`CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER PRIMARY KEY)`)
	if err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}
	return nil
}

func (s *Store) getSchemaVersion(ctx context.Context) (int, error) {
	var version int
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}

func (s *Store) setSchemaVersion(ctx context.Context, version int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO schema_migrations (version) VALUES (?)`, version)
	if err != nil {
		return fmt.Errorf("record schema version %d: %w", version, err)
	}
	return nil
}

// CreateUser persists a new credential record and returns it with the assigned ID.
func (s *Store) CreateUser(username, password string) (*model.User, error) {
	if err := model.ValidateUsername(username); err != nil {
		return nil, fmt.Errorf("store: create user: %w", err)
	}

	res, err := s.db.Exec(
		`INSERT INTO users (username, password) VALUES (?, ?)`,
		username, password,
	)
	if err != nil {
		return nil, fmt.Errorf("store: create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("store: create user id: %w", err)
	}
	return s.getUserByID(id)
}

func (s *Store) getUserByID(id int64) (*model.User, error) {
	row := s.db.QueryRow(
		`SELECT id, username, password, created_at FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// GetUserByUsername retrieves a user by username. Returns (nil, nil) if not found.
func (s *Store) GetUserByUsername(username string) (*model.User, error) {
	row := s.db.QueryRow(
		`SELECT id, username, password, created_at FROM users WHERE username = ?`, username)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*model.User, error) {
	var u model.User
	var createdAt string
	err := row.Scan(&u.ID, &u.Username, &u.Password, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: scan user: %w", err)
	}
	u.CreatedAt, _ = time.Parse(dbTimeLayout, createdAt)
	return &u, nil
}

// ListUsers returns all users in creation order.
func (s *Store) ListUsers() ([]model.User, error) {
	rows, err := s.db.Query(
		`SELECT id, username, password, created_at FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("store: list users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var users []model.User
	for rows.Next() {
		var u model.User
		var createdAt string
		if err := rows.Scan(&u.ID, &u.Username, &u.Password, &createdAt); err != nil {
			return nil, fmt.Errorf("store: scan user row: %w", err)
		}
		u.CreatedAt, _ = time.Parse(dbTimeLayout, createdAt)
		users = append(users, u)
	}
	return users, rows.Err()
}

// AddBan adds a username to the ban set. Banning an already-banned name is a no-op.
func (s *Store) AddBan(username string) error {
	_, err := s.db.Exec(
		`INSERT INTO bans (username) VALUES (?) ON CONFLICT(username) DO NOTHING`, username)
	if err != nil {
		return fmt.Errorf("store: add ban: %w", err)
	}
	return nil
}

// RemoveBan removes a username from the ban set. Returns false if the name was not banned.
func (s *Store) RemoveBan(username string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM bans WHERE username = ?`, username)
	if err != nil {
		return false, fmt.Errorf("store: remove ban: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("store: remove ban rows: %w", err)
	}
	return n > 0, nil
}

// IsBanned reports whether a username is in the ban set.
func (s *Store) IsBanned(username string) (bool, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM bans WHERE username = ?`, username).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("store: check ban: %w", err)
	}
	return n > 0, nil
}

// ListBans returns all banned usernames.
func (s *Store) ListBans() ([]string, error) {
	rows, err := s.db.Query(`SELECT username FROM bans ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("store: list bans: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("store: scan ban row: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
