package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config fixture: %v", err)
	}
	return path
}

const validConfig = `
bot:
  token: "12345:abcdef"
  username: filerelaybot
  admin_id: 1111
database:
  url: postgres://localhost:5432/files
redis:
  url: localhost:6379
`

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, validConfig), false)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Bot.Workers != 8 {
		t.Errorf("default workers = %d, want 8", cfg.Bot.Workers)
	}
	if cfg.Bot.Mode != "polling" {
		t.Errorf("default mode = %q, want polling", cfg.Bot.Mode)
	}
	if cfg.Admin.Port != 9090 {
		t.Errorf("default admin port = %d, want 9090", cfg.Admin.Port)
	}
	if cfg.Redis.TTL != time.Hour {
		t.Errorf("default redis ttl = %v, want 1h", cfg.Redis.TTL)
	}
}

func TestLoadConfig_TokenRequiredOutsideDev(t *testing.T) {
	body := `
bot:
  username: filerelaybot
  admin_id: 1111
database:
  url: postgres://localhost:5432/files
redis:
  url: localhost:6379
`
	if _, err := LoadConfig(writeConfig(t, body), false); err == nil {
		t.Fatal("expected missing bot.token to fail outside dev mode")
	}

	// Dev runs fall back to the noop bot adapter and need no credentials.
	cfg, err := LoadConfig(writeConfig(t, body), true)
	if err != nil {
		t.Fatalf("dev mode should accept an empty token, got %v", err)
	}
	if !cfg.Runtime.Dev {
		t.Error("Runtime.Dev not set")
	}
}

func TestLoadConfig_RequiredFields(t *testing.T) {
	cases := map[string]string{
		"username": `
bot:
  token: "12345:abcdef"
  admin_id: 1111
database:
  url: postgres://localhost:5432/files
redis:
  url: localhost:6379
`,
		"admin_id": `
bot:
  token: "12345:abcdef"
  username: filerelaybot
database:
  url: postgres://localhost:5432/files
redis:
  url: localhost:6379
`,
		"database.url": `
bot:
  token: "12345:abcdef"
  username: filerelaybot
  admin_id: 1111
redis:
  url: localhost:6379
`,
	}
	for name, body := range cases {
		if _, err := LoadConfig(writeConfig(t, body), false); err == nil {
			t.Errorf("expected missing %s to fail validation", name)
		}
	}
}
