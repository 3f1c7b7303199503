package store

import "github.com/NicolasHaas/linechat/pkg/model"

// DataStore defines the persistence interface for credentials and bans.
// Implementations include the default SQLite store and an in-memory
// store for tests. Username uniqueness is enforced by the caller (the
// login flow checks before creating); the schema backstops it.
type DataStore interface {
	// Close closes the underlying storage connection.
	Close() error

	// ---- Credentials ----

	// CreateUser persists a new credential record and returns it with the
	// assigned ID. Records are immutable after creation.
	CreateUser(username, password string) (*model.User, error)

	// GetUserByUsername retrieves a user by username. Returns (nil, nil) if not found.
	GetUserByUsername(username string) (*model.User, error)

	// ListUsers returns all users in creation order.
	ListUsers() ([]model.User, error)

	// ---- Bans ----

	// AddBan adds a username to the ban set. Banning an already-banned
	// name is a no-op.
	AddBan(username string) error

	// RemoveBan removes a username from the ban set. Returns false if the
	// name was not banned.
	RemoveBan(username string) (bool, error)

	// IsBanned reports whether a username is in the ban set.
	IsBanned(username string) (bool, error)

	// ListBans returns all banned usernames.
	ListBans() ([]string, error)
}

// Compile-time checks: both implementations satisfy DataStore.
var _ DataStore = (*Store)(nil)
var _ DataStore = (*MemoryStore)(nil)
