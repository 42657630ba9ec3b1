// Package registry owns the loader's runtime configuration: the list of
// known card repositories and the tunables read from the environment.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Repository is one entry in the repository registry file.
type Repository struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	Enabled bool   `json:"enabled"`
}

// Config carries everything the CLI needs to build sources, loaders and
// the serve stack.
type Config struct {
	Repositories []Repository

	Workers     int
	RateLimit   float64 // set fetches per second
	HTTPTimeout time.Duration
	CacheDir    string
	CacheTTL    time.Duration

	BindAddr     string
	RefreshSpec  string // cron spec for catalog reloads
	AllowOrigins []string
}

func defaults() *Config {
	return &Config{
		RateLimit:   5,
		HTTPTimeout: 30 * time.Second,
		CacheDir:    "data/cache",
		CacheTTL:    time.Hour,
		BindAddr:    ":8080",
		RefreshSpec: "@every 1h",
		AllowOrigins: []string{
			"http://localhost:3000",
		},
	}
}

// Load builds the configuration from defaults, an optional .env file, the
// process environment, and an optional registry JSON file, in that order.
func Load(registryPath string) (*Config, error) {
	// Missing .env is fine, the environment may be set directly.
	_ = godotenv.Load()

	cfg := defaults()

	if v := os.Getenv("YGODB_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("YGODB_WORKERS: %w", err)
		}
		cfg.Workers = n
	}
	if v := os.Getenv("YGODB_RATE_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("YGODB_RATE_LIMIT: %w", err)
		}
		cfg.RateLimit = f
	}
	if v := os.Getenv("YGODB_HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("YGODB_HTTP_TIMEOUT: %w", err)
		}
		cfg.HTTPTimeout = d
	}
	if v := os.Getenv("YGODB_CACHE_DIR"); v != "" {
		cfg.CacheDir = v
	}
	if v := os.Getenv("YGODB_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("YGODB_CACHE_TTL: %w", err)
		}
		cfg.CacheTTL = d
	}
	if v := os.Getenv("YGODB_BIND_ADDR"); v != "" {
		cfg.BindAddr = v
	}
	if v := os.Getenv("YGODB_REFRESH_SPEC"); v != "" {
		cfg.RefreshSpec = v
	}
	if v := os.Getenv("YGODB_ALLOW_ORIGINS"); v != "" {
		cfg.AllowOrigins = splitAndTrim(v)
	}

	if registryPath != "" {
		repos, err := readRegistry(registryPath)
		if err != nil {
			return nil, err
		}
		cfg.Repositories = repos
	}

	return cfg, nil
}

func readRegistry(path string) ([]Repository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry: %w", err)
	}

	var repos []Repository
	if err := json.Unmarshal(data, &repos); err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", path, err)
	}

	for i, repo := range repos {
		if repo.Name == "" {
			return nil, fmt.Errorf("registry %s: entry %d has no name", path, i)
		}
		if repo.URL == "" {
			return nil, fmt.Errorf("registry %s: entry %q has no url", path, repo.Name)
		}
	}
	return repos, nil
}

// Active returns the first enabled repository.
func (c *Config) Active() (Repository, error) {
	for _, repo := range c.Repositories {
		if repo.Enabled {
			return repo, nil
		}
	}
	return Repository{}, fmt.Errorf("no enabled repository in registry")
}

func splitAndTrim(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
