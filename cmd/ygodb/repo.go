package main

import (
	"fmt"
	"path/filepath"

	"golang.org/x/time/rate"

	"github.com/JustBryant/YGOMod-Card-Database/internal/cache"
	"github.com/JustBryant/YGOMod-Card-Database/internal/loader"
	"github.com/JustBryant/YGOMod-Card-Database/internal/ratelimit"
	"github.com/JustBryant/YGOMod-Card-Database/internal/registry"
	"github.com/JustBryant/YGOMod-Card-Database/internal/source"
)

// resolveURI picks the index URI: an explicit --source wins, otherwise the
// first enabled registry entry is used.
func resolveURI(cfg *registry.Config, flagSource string) (string, error) {
	if flagSource != "" {
		return flagSource, nil
	}
	repo, err := cfg.Active()
	if err != nil {
		return "", fmt.Errorf("no --source given and %w", err)
	}
	return repo.URL, nil
}

// newLoader wires a source and loader from the configuration.
func newLoader(cfg *registry.Config, uri string, checkOrphans bool, progress func(completed, total int)) (*loader.Loader, error) {
	opts := source.Options{
		Timeout:  cfg.HTTPTimeout,
		Limiter:  ratelimit.NewRepositoryLimiter(),
		CacheTTL: cfg.CacheTTL,
	}
	if cfg.CacheDir != "" {
		c, err := cache.New(filepath.Join(cfg.CacheDir, "documents.json"))
		if err != nil {
			return nil, fmt.Errorf("open document cache: %w", err)
		}
		opts.Cache = c
	}

	src, index, err := source.Open(uri, opts)
	if err != nil {
		return nil, err
	}

	return loader.New(src, index, loader.Config{
		Workers:      cfg.Workers,
		RateLimit:    rate.Limit(cfg.RateLimit),
		CheckOrphans: checkOrphans,
		Progress:     progress,
	}), nil
}
