package progress

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		message string
		enabled bool
	}{
		{"enabled indicator", "Loading repository", true},
		{"disabled indicator", "Loading repository", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			indicator := New(tt.message, tt.enabled)

			if indicator.message != tt.message {
				t.Errorf("expected message %q, got %q", tt.message, indicator.message)
			}
			if indicator.enabled != tt.enabled {
				t.Errorf("expected enabled %v, got %v", tt.enabled, indicator.enabled)
			}
			if indicator.startTime.IsZero() {
				t.Error("start time not set")
			}
		})
	}
}

func TestBar(t *testing.T) {
	tests := []struct {
		percentage float64
		expected   string
	}{
		{0.0, "░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░"},
		{50.0, "███████████████░░░░░░░░░░░░░░░"},
		{100.0, "██████████████████████████████"},
	}

	for _, tt := range tests {
		result := bar(tt.percentage)
		if result != tt.expected {
			t.Errorf("bar(%.1f): expected %q, got %q", tt.percentage, tt.expected, result)
		}
	}
}

func TestBarVisualConsistency(t *testing.T) {
	// All bars render at the same width with only bar characters.
	for _, percentage := range []float64{0, 0.1, 33.33, 66.67, 99.9, 100} {
		rendered := bar(percentage)

		const expectedLength = 30
		if len([]rune(rendered)) != expectedLength {
			t.Errorf("bar at %.1f%% has wrong length: expected %d chars, got %d",
				percentage, expectedLength, len([]rune(rendered)))
		}

		for _, char := range strings.Split(rendered, "") {
			if char != "█" && char != "░" {
				t.Errorf("bar contains invalid character: %q", char)
			}
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		duration time.Duration
		expected string
	}{
		{50 * time.Millisecond, "50ms"},
		{1500 * time.Millisecond, "1.5s"},
		{90 * time.Second, "1.5m"},
	}

	for _, tt := range tests {
		result := formatDuration(tt.duration)
		if result != tt.expected {
			t.Errorf("formatDuration(%v): expected %q, got %q", tt.duration, tt.expected, result)
		}
	}
}

func TestDisabledIndicatorNoOutput(t *testing.T) {
	// Disabled indicators must be safe no-ops so callers never branch on
	// quiet mode.
	indicator := New("Loading repository", false)

	indicator.Update(5, 10)
	indicator.Update(10, 10)
	indicator.Finish()
	indicator.FinishWithError(nil)
}

func TestConcurrentUpdates(t *testing.T) {
	// The loader reports progress from multiple workers at once.
	indicator := New("Loading repository", false)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				indicator.Update(n*50+j, 400)
			}
		}(i)
	}
	wg.Wait()
}
