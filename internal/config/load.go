package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// PathEnv names a config file that takes precedence over config/{env}.yaml.
const PathEnv = "GOURMET_CONFIG"

// Load reads config/{env}.yaml (or $GOURMET_CONFIG), expands ${VAR} references,
// applies defaults and validates. .env.local and .env are loaded first; real
// environment variables win over both.
func Load(env string) (Config, error) {
	loadDotEnv()

	path := configPath(env)
	raw, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	expanded, err := expandEnvVars(raw)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(expanded, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s:\n%w", path, err)
	}
	return cfg, nil
}

// MustLoad is Load for main packages that cannot start without config.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns $ENV after loading dotenv files, "local" when unset.
func GetEnv() string {
	loadDotEnv()
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

func loadDotEnv() {
	// godotenv never overrides variables that are already set, so .env.local wins over .env.
	for _, f := range []string{".env.local", ".env"} {
		_ = godotenv.Load(f)
	}
}

// configPath prefers $GOURMET_CONFIG, then config/{env}.yaml under the working
// directory, then under the module root (for go test from any package).
func configPath(env string) string {
	if p := os.Getenv(PathEnv); p != "" {
		return p
	}
	name := filepath.Join("config", env+".yaml")
	candidates := []string{name}
	if _, src, _, ok := runtime.Caller(0); ok {
		root := filepath.Dir(filepath.Dir(filepath.Dir(src))) // internal/config/load.go -> root
		candidates = append(candidates, filepath.Join(root, name))
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return name
}

var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?:(:-|:\?)([^}]*))?\}`)

// expandEnvVars substitutes ${VAR}, ${VAR:-default} and ${VAR:?message}.
// The last form fails when VAR is unset or empty; every such failure is reported.
func expandEnvVars(data []byte) ([]byte, error) {
	var missing []error
	out := envRef.ReplaceAllFunc(data, func(ref []byte) []byte {
		m := envRef.FindSubmatch(ref)
		name, op, arg := string(m[1]), string(m[2]), string(m[3])
		val := os.Getenv(name)
		if val != "" {
			return []byte(val)
		}
		switch op {
		case ":-":
			return []byte(arg)
		case ":?":
			msg := strings.TrimSpace(arg)
			if msg == "" {
				msg = "must be set"
			}
			missing = append(missing, fmt.Errorf("${%s}: %s", name, msg))
		}
		return nil
	})
	if len(missing) > 0 {
		return nil, errors.Join(missing...)
	}
	return out, nil
}
