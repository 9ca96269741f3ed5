package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnvDefaults(t *testing.T) {
	c, err := FromEnv(envMap(nil))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if c.Port != "8080" || c.DBPath != "quests.db" {
		t.Errorf("port/db = %q/%q, want 8080/quests.db", c.Port, c.DBPath)
	}
	if c.DefaultPageSize != 20 || c.MaxPageSize != 2000 {
		t.Errorf("page sizes = %d/%d, want 20/2000", c.DefaultPageSize, c.MaxPageSize)
	}
	if c.LogFormat != "text" || c.WriteRateLimit != 0 || c.ShutdownTimeout != 5*time.Second {
		t.Errorf("got %+v", c)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	c, err := FromEnv(envMap(map[string]string{
		"QUEST_PORT":              "9000",
		"QUEST_LOG_FORMAT":        "json",
		"QUEST_DEFAULT_PAGE_SIZE": "5",
		"QUEST_MAX_PAGE_SIZE":     "50",
		"QUEST_WRITE_RATE_LIMIT":  "30",
		"QUEST_SHUTDOWN_TIMEOUT":  "2s",
	}))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if c.Port != "9000" || c.LogFormat != "json" || c.DefaultPageSize != 5 || c.MaxPageSize != 50 {
		t.Errorf("got %+v", c)
	}
	if c.WriteRateLimit != 30 || c.ShutdownTimeout != 2*time.Second {
		t.Errorf("got %+v", c)
	}
}

func TestFromEnvInvalid(t *testing.T) {
	tests := map[string]map[string]string{
		"non-numeric size":   {"QUEST_DEFAULT_PAGE_SIZE": "ten"},
		"zero default size":  {"QUEST_DEFAULT_PAGE_SIZE": "0"},
		"max below default":  {"QUEST_DEFAULT_PAGE_SIZE": "50", "QUEST_MAX_PAGE_SIZE": "10"},
		"negative limit":     {"QUEST_WRITE_RATE_LIMIT": "-1"},
		"unknown log format": {"QUEST_LOG_FORMAT": "xml"},
		"bad timeout":        {"QUEST_SHUTDOWN_TIMEOUT": "soon"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := FromEnv(envMap(env)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("QUEST_DB_PATH=/tmp/from-file.db\nQUEST_PORT=7000\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("QUEST_PORT", "7001")
	t.Setenv("QUEST_DB_PATH", "")
	os.Unsetenv("QUEST_DB_PATH")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.DBPath != "/tmp/from-file.db" {
		t.Errorf("DBPath = %q, want value from file", c.DBPath)
	}
	if c.Port != "7001" {
		t.Errorf("Port = %q, want existing env to win", c.Port)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Errorf("Load with missing file: %v", err)
	}
}
