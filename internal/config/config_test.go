package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse_DefaultsAndEnvExpansion(t *testing.T) {
	t.Setenv("OCRDESK_TEST_URL", "http://ocr.internal:5000/api")
	cfg, err := Parse([]byte(`
api:
  base_url: ${OCRDESK_TEST_URL}
  timeout_sec: ${OCRDESK_TEST_TIMEOUT:-15}
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.API.BaseURL != "http://ocr.internal:5000/api" {
		t.Errorf("base_url = %q", cfg.API.BaseURL)
	}
	if cfg.API.TimeoutSec != 15 {
		t.Errorf("timeout_sec = %d, want 15", cfg.API.TimeoutSec)
	}
	if cfg.Session.Store != SessionStoreFile || cfg.Collection.DefaultPageSize != 10 {
		t.Errorf("defaults not applied: %+v %+v", cfg.Session, cfg.Collection)
	}
	if cfg.Stub.Port != 5000 || cfg.Stub.MaxFileMB != 10 || cfg.Stub.OCRIntervalMs != 2000 {
		t.Errorf("stub defaults = %+v", cfg.Stub)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		c := Config{API: APIConfig{BaseURL: "http://localhost:5000/api"}}
		c.ApplyDefaults()
		return c
	}
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing base url", func(c *Config) { c.API.BaseURL = "" }, "api.base_url is required"},
		{"relative base url", func(c *Config) { c.API.BaseURL = "/api" }, "absolute http(s) URL"},
		{"bad store", func(c *Config) { c.Session.Store = "sqlite" }, "session.store"},
		{"valkey without addrs", func(c *Config) { c.Session.Store = SessionStoreValkey }, "valkey.addrs"},
		{"valkey with addrs", func(c *Config) {
			c.Session.Store = SessionStoreValkey
			c.Valkey.Addrs = []string{"localhost:6379"}
		}, ""},
		{"bad page size", func(c *Config) { c.Collection.DefaultPageSize = 7 }, "default_page_size"},
		{"negative debounce", func(c *Config) { c.Collection.SearchDebounceMs = -1 }, "search_debounce_ms"},
		{"bad port", func(c *Config) { c.Stub.Port = 70000 }, "stub.port"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.yaml")
	if err := os.WriteFile(path, []byte("api:\n  base_url: https://ocr.example.com\ncollection:\n  default_page_size: 25\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Collection.DefaultPageSize != 25 {
		t.Errorf("page size = %d", cfg.Collection.DefaultPageSize)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoad_RepoConfigs(t *testing.T) {
	for _, env := range []string{"local", "dev", "prod"} {
		t.Run(env, func(t *testing.T) {
			if _, err := Load(env); err != nil {
				t.Fatalf("Load(%s): %v", env, err)
			}
		})
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ENV", "")
	if got := GetEnv(); got != "local" {
		t.Errorf("GetEnv() = %q, want local", got)
	}
	t.Setenv("ENV", "prod")
	if got := GetEnv(); got != "prod" {
		t.Errorf("GetEnv() = %q, want prod", got)
	}
}
