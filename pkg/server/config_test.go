package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "linechat.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigFileOverlaysOnlyPresentKeys(t *testing.T) {
	path := writeConfigFile(t, `
addr: ":6000"
typing_idle: 500ms
history_size: 20
`)

	got, err := LoadConfigFile(path, DefaultConfig())
	if err != nil {
		t.Fatalf("LoadConfigFile: %v", err)
	}

	want := DefaultConfig()
	want.Addr = ":6000"
	want.TypingIdle = 500 * time.Millisecond
	want.HistorySize = 20
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigFileRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad duration", "typing_idle: soon"},
		{"negative duration", "typing_idle: -1s"},
		{"zero history", "history_size: 0"},
		{"not yaml", "addr: [unclosed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfigFile(t, tt.content)
			if _, err := LoadConfigFile(path, DefaultConfig()); err == nil {
				t.Fatalf("expected error for %q", tt.content)
			}
		})
	}
}

func TestLoadConfigFileMissingFile(t *testing.T) {
	if _, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"), DefaultConfig()); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
