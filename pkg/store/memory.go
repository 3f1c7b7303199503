package store

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/NicolasHaas/linechat/pkg/model"
)

// MemoryStore provides an in-memory DataStore implementation for tests.
// It mirrors SQLite behavior for validation and error handling.
type MemoryStore struct {
	mu sync.RWMutex

	now func() time.Time

	nextUserID      int64
	usersByUsername map[string]*model.User
	bans            map[string]struct{}
}

// NewMemory creates a MemoryStore using time.Now().UTC().
func NewMemory() *MemoryStore {
	return NewMemoryWithClock(func() time.Time { return time.Now().UTC() })
}

// NewMemoryWithClock creates a MemoryStore with a custom clock.
func NewMemoryWithClock(now func() time.Time) *MemoryStore {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &MemoryStore{
		now:             now,
		nextUserID:      1,
		usersByUsername: make(map[string]*model.User),
		bans:            make(map[string]struct{}),
	}
}

// Close is a no-op for MemoryStore.
func (s *MemoryStore) Close() error {
	return nil
}

// CreateUser persists a new credential record and returns it with the assigned ID.
func (s *MemoryStore) CreateUser(username, password string) (*model.User, error) {
	if err := model.ValidateUsername(username); err != nil {
		return nil, fmt.Errorf("store: create user: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.usersByUsername[username]; exists {
		return nil, fmt.Errorf("store: create user: constraint failed: UNIQUE constraint failed: users.username")
	}
	user := &model.User{
		ID:        s.nextUserID,
		Username:  username,
		Password:  password,
		CreatedAt: s.now().UTC(),
	}
	s.nextUserID++
	s.usersByUsername[username] = user
	copyUser := *user
	return &copyUser, nil
}

// GetUserByUsername retrieves a user by username. Returns (nil, nil) if not found.
func (s *MemoryStore) GetUserByUsername(username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.usersByUsername[username]
	if !ok {
		return nil, nil
	}
	copyUser := *user
	return &copyUser, nil
}

// ListUsers returns all users in creation order.
func (s *MemoryStore) ListUsers() ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]model.User, 0, len(s.usersByUsername))
	for _, u := range s.usersByUsername {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// AddBan adds a username to the ban set.
func (s *MemoryStore) AddBan(username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bans[username] = struct{}{}
	return nil
}

// RemoveBan removes a username from the ban set. Returns false if the name was not banned.
func (s *MemoryStore) RemoveBan(username string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bans[username]; !ok {
		return false, nil
	}
	delete(s.bans, username)
	return true, nil
}

// IsBanned reports whether a username is in the ban set.
func (s *MemoryStore) IsBanned(username string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.bans[username]
	return ok, nil
}

// ListBans returns all banned usernames.
func (s *MemoryStore) ListBans() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.bans))
	for name := range s.bans {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
