package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Driver: "valkey", Addrs: []string{"localhost:6379"}},
		LLM:      LLMConfig{Models: []string{"gpt-4o-mini"}},
	}
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"port", func(c *Config) { c.HTTP.Port = 0 }, "http.port: must satisfy min=1 (got 0)"},
		{"addrs", func(c *Config) { c.Database.Addrs = nil }, "database.addrs: must satisfy required"},
		{"blank addr", func(c *Config) { c.Database.Addrs = []string{""} }, "database.addrs[0]: must satisfy required"},
		{"driver", func(c *Config) { c.Database.Driver = "memcached" },
			"database.driver: must satisfy oneof=valkey redis (got memcached)"},
		{"models", func(c *Config) { c.LLM.Models = nil }, "llm.models: must satisfy required"},
		{"blank model", func(c *Config) { c.LLM.Models = []string{"a", " "} }, "llm.models[1]: blank model name"},
		{"temperature", func(c *Config) { c.LLM.Temperature = 3 }, "llm.temperature: must satisfy lte=2 (got 3)"},
		{"negative rate", func(c *Config) { c.RateLimit.RequestsPerSecond = -1 },
			"rate_limit.requests_per_second: must satisfy gte=0 (got -1)"},
		{"floor above ceiling", func(c *Config) {
			c.RateLimit.RequestsPerSecond = 1
			c.RateLimit.MinRequestsPerSecond = 2
		}, "rate_limit.min_requests_per_second: 2 exceeds requests_per_second 1"},
		{"negative budget", func(c *Config) { c.Budget.DailyTokens = -1 },
			"budget.daily_tokens: must satisfy gte=0 (got -1)"},
		{"budget action", func(c *Config) { c.Budget.Action = "block" },
			"budget.action: must satisfy oneof=warn reject (got block)"},
		{"limit", func(c *Config) { c.Search.Limit = 51 }, "search.limit: must satisfy lte=50 (got 51)"},
		{"page sizes", func(c *Config) {
			c.Restaurants.DefaultPageSize = 200
			c.Restaurants.MaxPageSize = 100
		}, "restaurants.max_page_size: must satisfy gtefield=DefaultPageSize (got 100)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error does not mention the violation:\ngot:  %q\nwant: %q", err.Error(), tt.want)
			}
		})
	}
}

func TestValidate_ReportsEveryViolation(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 70000
	cfg.LLM.Models = []string{""}
	cfg.Search.Limit = 99

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	if lines := strings.Split(err.Error(), "\n"); len(lines) != 3 {
		t.Errorf("violations = %d, want 3:\n%s", len(lines), err)
	}
}

func TestValidate_RateFloorIgnoredWhenUnlimited(t *testing.T) {
	cfg := validConfig()
	cfg.RateLimit.MinRequestsPerSecond = 2
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_RedisDriver(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Driver = "redis"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 120 {
		t.Errorf("expected WriteTimeoutSec=120, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Database.Driver != "valkey" {
		t.Errorf("expected driver valkey, got %q", cfg.Database.Driver)
	}
	if cfg.Retry.MaxAttempts != 5 || cfg.Retry.BaseDelay() != 2*time.Second || cfg.Retry.MaxJitter() != 2*time.Second {
		t.Errorf("unexpected retry defaults %+v", cfg.Retry)
	}
	if cfg.Retry.MaxDelay() != 30*time.Second {
		t.Errorf("expected MaxDelay=30s, got %v", cfg.Retry.MaxDelay())
	}
	if cfg.Search.Limit != 10 || cfg.Search.RadiusKm != 5 || cfg.Search.BatchSize != 2 || cfg.Search.StoreTimeoutSec != 5 {
		t.Errorf("unexpected search defaults %+v", cfg.Search)
	}
	if !cfg.Search.SoftErrorsEnabled() {
		t.Error("soft errors must default to enabled")
	}
	if cfg.QueryLog.TTLHours != 720 {
		t.Errorf("expected query log TTL 720h, got %d", cfg.QueryLog.TTLHours)
	}
	if cfg.Restaurants.DefaultPageSize != 20 || cfg.Restaurants.MaxPageSize != 100 {
		t.Errorf("unexpected page sizes %+v", cfg.Restaurants)
	}
	if cfg.Budget.Action != "warn" || cfg.Budget.DailyTokens != 0 {
		t.Errorf("unexpected budget defaults %+v", cfg.Budget)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	soft := false
	cfg := Config{
		HTTP:   HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Retry:  RetryConfig{MaxAttempts: 3, BaseDelayMs: 1000},
		Search: SearchConfig{Limit: 20, RadiusKm: 1.5, SoftErrors: &soft},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 || cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("http timeouts overridden: %+v", cfg.HTTP)
	}
	if cfg.Retry.MaxAttempts != 3 || cfg.Retry.BaseDelay() != time.Second {
		t.Errorf("retry overridden: %+v", cfg.Retry)
	}
	if cfg.Search.Limit != 20 || cfg.Search.RadiusKm != 1.5 {
		t.Errorf("search overridden: %+v", cfg.Search)
	}
	if cfg.Search.SoftErrorsEnabled() {
		t.Error("explicit soft_errors=false ignored")
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("GOURMET_TEST_KEY", "sk-test")
	t.Setenv("GOURMET_TEST_EMPTY", "")

	in := []byte("a: ${GOURMET_TEST_KEY}\nb: ${GOURMET_TEST_EMPTY:-fallback}\nc: ${GOURMET_TEST_UNSET}\nd: ${GOURMET_TEST_KEY:?unused}")
	got, err := expandEnvVars(in)
	if err != nil {
		t.Fatalf("expandEnvVars: %v", err)
	}
	want := "a: sk-test\nb: fallback\nc: \nd: sk-test"
	if string(got) != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestExpandEnvVars_Required(t *testing.T) {
	t.Setenv("GOURMET_TEST_EMPTY", "")

	_, err := expandEnvVars([]byte("key: ${GOURMET_TEST_UNSET:?model API key required}\npw: ${GOURMET_TEST_EMPTY:?}"))
	if err == nil {
		t.Fatal("expected error for missing required variables")
	}
	for _, want := range []string{
		"${GOURMET_TEST_UNSET}: model API key required",
		"${GOURMET_TEST_EMPTY}: must be set",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	yml := `
http:
  port: ${GOURMET_TEST_PORT:-8081}
database:
  addrs: ["localhost:6379"]
llm:
  models: ["m1", "m2"]
search:
  soft_errors: false
`
	if err := os.WriteFile(filepath.Join(dir, "config", "unittest.yaml"), []byte(yml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	cfg, err := Load("unittest")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 8081 {
		t.Errorf("expected port 8081, got %d", cfg.HTTP.Port)
	}
	if len(cfg.LLM.Models) != 2 || cfg.Database.Driver != "valkey" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Search.SoftErrorsEnabled() {
		t.Error("soft_errors=false not honoured")
	}
}

func TestLoad_PathOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gourmet.yaml")
	yml := "http:\n  port: 9090\ndatabase:\n  addrs: [\"valkey:6379\"]\nllm:\n  models: [\"m1\"]\n"
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(PathEnv, path)

	cfg, err := Load("ignored")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Port != 9090 || cfg.Database.Addrs[0] != "valkey:6379" {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestLoad_InvalidMentionsPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("http:\n  port: 0\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(PathEnv, path)

	_, err := Load("ignored")
	if err == nil || !strings.Contains(err.Error(), path) || !strings.Contains(err.Error(), "http.port") {
		t.Fatalf("Load error = %v", err)
	}
}

func TestLoad_Missing(t *testing.T) {
	t.Chdir(t.TempDir())
	if _, err := Load("does-not-exist"); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
