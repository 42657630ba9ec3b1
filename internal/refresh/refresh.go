// Package refresh keeps a current catalog snapshot and reloads it on a
// schedule. Readers always see a complete catalog; a reload builds the
// replacement off to the side and swaps it in atomically.
package refresh

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/JustBryant/YGOMod-Card-Database/internal/catalog"
	"github.com/JustBryant/YGOMod-Card-Database/internal/loader"
	"github.com/JustBryant/YGOMod-Card-Database/internal/metrics"
)

// Metadata describes the last successful refresh.
type Metadata struct {
	LastRefresh time.Time `json:"lastRefresh"`
	TotalSets   int       `json:"totalSets"`
	TotalCards  int       `json:"totalCards"`
	Issues      int       `json:"issues"`
	Consistent  bool      `json:"consistent"`
	Source      string    `json:"refreshSource"` // "startup", "schedule" or "manual"
	Duration    string    `json:"refreshDuration"`
}

// Service owns the live catalog snapshot.
type Service struct {
	loader   *loader.Loader
	snapshot atomic.Pointer[catalog.Catalog]

	mu   sync.RWMutex
	meta Metadata

	cron *cron.Cron
}

// NewService creates a refresh service around the given loader. No catalog
// is available until the first successful Refresh.
func NewService(l *loader.Loader) *Service {
	return &Service{loader: l}
}

// Refresh performs one full load and, on success, swaps the snapshot.
// A failed or cancelled load leaves the previous snapshot in place.
func (s *Service) Refresh(ctx context.Context, source string) error {
	start := time.Now()

	cat, err := s.loader.Load(ctx)
	if err != nil {
		switch {
		case errors.Is(err, loader.ErrLoadCancelled):
			metrics.LoadsTotal.WithLabelValues("cancelled").Inc()
		default:
			metrics.LoadsTotal.WithLabelValues("error").Inc()
		}
		return fmt.Errorf("refresh (%s): %w", source, err)
	}

	duration := time.Since(start)
	metrics.LoadsTotal.WithLabelValues("ok").Inc()
	metrics.LoadDuration.Observe(duration.Seconds())
	metrics.UpdateCatalogMetrics(cat)

	s.snapshot.Store(cat)

	s.mu.Lock()
	s.meta = Metadata{
		LastRefresh: time.Now(),
		TotalSets:   cat.NumSets(),
		TotalCards:  cat.NumCards(),
		Issues:      len(cat.Issues()),
		Consistent:  cat.Consistent(),
		Source:      source,
		Duration:    duration.String(),
	}
	s.mu.Unlock()

	log.Printf("catalog refreshed (%s): %d sets, %d cards, %d issues in %v",
		source, cat.NumSets(), cat.NumCards(), len(cat.Issues()), duration)
	return nil
}

// Start schedules periodic refreshes using a cron spec such as
// "@every 1h". Scheduled refreshes that fail keep the old snapshot and
// log the error.
func (s *Service) Start(spec string) error {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if err := s.Refresh(context.Background(), "schedule"); err != nil {
			log.Printf("scheduled refresh failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule refresh %q: %w", spec, err)
	}
	c.Start()
	s.cron = c
	return nil
}

// Stop halts scheduled refreshes. The current snapshot stays readable.
func (s *Service) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Snapshot returns the current catalog, or nil before the first
// successful refresh.
func (s *Service) Snapshot() *catalog.Catalog {
	return s.snapshot.Load()
}

// Metadata returns details of the last successful refresh.
func (s *Service) Metadata() Metadata {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.meta
}
