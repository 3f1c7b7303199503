package store_test

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/NicolasHaas/linechat/pkg/model"
	"github.com/NicolasHaas/linechat/pkg/store"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func NewTestSqlConn(t *testing.T) (*store.Store, error) {
	t.Helper()

	// Creates a temporary on-disk datastore with a unique path per-test
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")

	st, err := store.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("store_test: failed to open db: %w", err)
	}

	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			fmt.Printf("Error closing database: %v\n", err)
		}
	})

	return st, nil
}

func TestCreateUser(t *testing.T) {
	t.Parallel()

	type tcase struct {
		username  string
		password  string
		expectErr bool
	}

	tcases := map[string]tcase{
		"minimum_required_fields": {
			username:  "johndoe",
			password:  "hunter2",
			expectErr: false,
		},
		"injection_username": { // SQL injection contains invalid chars (quotes, spaces, equals)
			username:  "' OR '1'='1",
			password:  "x",
			expectErr: true,
		},
		"empty_username": {
			username:  "",
			password:  "x",
			expectErr: true,
		},
		"full_username": { // 33 character username is too long
			username:  "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
			password:  "x",
			expectErr: true,
		},
	}

	fn := func(tc tcase) func(*testing.T) {
		return func(t *testing.T) {
			st, err := NewTestSqlConn(t)
			if err != nil {
				t.Fatalf("failed to open test connection: %v", err)
			}

			got, err := st.CreateUser(tc.username, tc.password)
			if tc.expectErr {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			want := &model.User{
				Username: tc.username,
				Password: tc.password,
			}

			if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(model.User{}, "ID", "CreatedAt")); diff != "" {
				t.Errorf("store.CreateUser mismatch (-want +got):\n%s", diff)
			}
		}
	}

	for name, tc := range tcases {
		t.Run(name, fn(tc))
	}
}

func TestCreateUserDuplicate(t *testing.T) {
	t.Parallel()

	st, err := NewTestSqlConn(t)
	if err != nil {
		t.Fatalf("failed to open test connection: %v", err)
	}

	if _, err := st.CreateUser("johndoe", "hunter2"); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	if _, err := st.CreateUser("johndoe", "other"); err == nil {
		t.Fatalf("expected unique constraint error, got nil")
	}
}

func TestGetUserByUsername(t *testing.T) {
	t.Parallel()

	type tcase struct {
		username   string
		seedUser   bool
		expectUser bool
	}

	tests := map[string]tcase{
		"existing_user": {
			username:   "johndoe",
			seedUser:   true,
			expectUser: true,
		},
		"no_user_exists": {
			username:   "janedoe",
			seedUser:   false,
			expectUser: false,
		},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			st, err := NewTestSqlConn(t)
			if err != nil {
				t.Fatalf("failed to open test connection: %v", err)
			}

			if tc.seedUser {
				if _, err := st.CreateUser(tc.username, "secret"); err != nil {
					t.Fatalf("failed to seed user: %v", err)
				}
			}

			got, err := st.GetUserByUsername(tc.username)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !tc.expectUser {
				if got != nil {
					t.Fatalf("expected nil, got user")
				}
				return
			}

			want := &model.User{
				Username: tc.username,
				Password: "secret",
			}

			if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(model.User{}, "ID", "CreatedAt")); diff != "" {
				t.Fatalf("GetUserByUsername mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestListUsers(t *testing.T) {
	t.Parallel()

	st, err := NewTestSqlConn(t)
	if err != nil {
		t.Fatalf("failed to open test connection: %v", err)
	}

	want := []model.User{
		{Username: "johndoe", Password: "a"},
		{Username: "janedoe", Password: "b"},
		{Username: "babydoe", Password: "c"},
	}
	for _, u := range want {
		if _, err := st.CreateUser(u.Username, u.Password); err != nil {
			t.Fatalf("failed to seed user: %v", err)
		}
	}

	users, err := st.ListUsers()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if diff := cmp.Diff(want, users, cmpopts.IgnoreFields(model.User{}, "ID", "CreatedAt")); diff != "" {
		t.Fatalf("ListUsers mismatch (-want +got):\n%s", diff)
	}
}

func TestBans(t *testing.T) {
	t.Parallel()

	st, err := NewTestSqlConn(t)
	if err != nil {
		t.Fatalf("failed to open test connection: %v", err)
	}

	banned, err := st.IsBanned("mallory")
	if err != nil {
		t.Fatalf("IsBanned: unexpected error: %v", err)
	}
	if banned {
		t.Fatalf("IsBanned: expected false before ban")
	}

	if err := st.AddBan("mallory"); err != nil {
		t.Fatalf("AddBan: unexpected error: %v", err)
	}
	// Double ban is a no-op
	if err := st.AddBan("mallory"); err != nil {
		t.Fatalf("AddBan (repeat): unexpected error: %v", err)
	}

	banned, err = st.IsBanned("mallory")
	if err != nil {
		t.Fatalf("IsBanned: unexpected error: %v", err)
	}
	if !banned {
		t.Fatalf("IsBanned: expected true after ban")
	}

	names, err := st.ListBans()
	if err != nil {
		t.Fatalf("ListBans: unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"mallory"}, names); diff != "" {
		t.Fatalf("ListBans mismatch (-want +got):\n%s", diff)
	}

	removed, err := st.RemoveBan("mallory")
	if err != nil {
		t.Fatalf("RemoveBan: unexpected error: %v", err)
	}
	if !removed {
		t.Fatalf("RemoveBan: expected true for banned name")
	}

	removed, err = st.RemoveBan("mallory")
	if err != nil {
		t.Fatalf("RemoveBan: unexpected error: %v", err)
	}
	if removed {
		t.Fatalf("RemoveBan: expected false for name no longer banned")
	}
}
