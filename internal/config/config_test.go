package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "campushub.yml")
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadClient(t *testing.T) {
	p := writeFile(t, `
api:
  baseURL: https://api.campushub.test
  timeoutSeconds: 10
credentials:
  email: ops@campushub.test
  password: hunter2
schedule: "0 7 * * 1-5"
`)
	cfg, err := LoadClient(p)
	if err != nil {
		t.Fatalf("LoadClient: %v", err)
	}
	if cfg.API.BaseURL != "https://api.campushub.test" || cfg.Schedule != "0 7 * * 1-5" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Timeout() != 10*time.Second {
		t.Errorf("Timeout() = %v", cfg.Timeout())
	}
}

func TestLoadClient_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing base url", "credentials:\n  email: a@b.edu\n  password: x\n", "BaseURL"},
		{"bad email", "api:\n  baseURL: http://localhost:8080\ncredentials:\n  email: nope\n  password: x\n", "Email"},
		{"not yaml", "api: [", "parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadClient(writeFile(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestLoadClient_PasswordFromEnv(t *testing.T) {
	t.Setenv("CAMPUSHUB_PASSWORD", "from-env")
	p := writeFile(t, "api:\n  baseURL: http://localhost:8080\ncredentials:\n  email: a@b.edu\n")
	cfg, err := LoadClient(p)
	if err != nil {
		t.Fatalf("LoadClient: %v", err)
	}
	if cfg.Credentials.Password != "from-env" {
		t.Errorf("password = %q", cfg.Credentials.Password)
	}
	if cfg.Timeout() != 30*time.Second {
		t.Errorf("default Timeout() = %v", cfg.Timeout())
	}
}

func TestLoadServer_Env(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_TTL_HOURS", "2")
	t.Setenv("CACHE_TTL_SECONDS", "soon")
	t.Setenv("DB_NAME", "campus_test")

	cfg := LoadServer()
	if cfg.Port != "9090" || cfg.TokenTTL != 2*time.Hour || cfg.DB.Name != "campus_test" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.CacheTTL != 60*time.Second {
		t.Errorf("CacheTTL = %v, want default for bad value", cfg.CacheTTL)
	}
	if !strings.Contains(cfg.DB.DSN(), "dbname=campus_test") {
		t.Errorf("DSN = %q", cfg.DB.DSN())
	}
}
