// Package progress renders a terminal progress bar for repository loads.
package progress

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// Indicator tracks set fetches during a load. It is safe for concurrent
// Update calls because the loader reports progress from its workers.
type Indicator struct {
	enabled    bool
	message    string
	mu         sync.Mutex
	startTime  time.Time
	lastUpdate time.Time
}

// New creates a progress indicator. A disabled indicator is a no-op, so
// callers never need to branch on quiet mode.
func New(message string, enabled bool) *Indicator {
	return &Indicator{
		enabled:   enabled,
		message:   message,
		startTime: time.Now(),
	}
}

// Update renders the bar for completed out of total sets. Redraws are
// throttled to avoid flickering; the final update always renders.
func (p *Indicator) Update(completed, total int) {
	if !p.enabled {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	if now.Sub(p.lastUpdate) < 100*time.Millisecond && completed < total {
		return
	}
	p.lastUpdate = now

	percentage := 100.0
	if total > 0 {
		percentage = float64(completed) / float64(total) * 100
	}
	fmt.Fprintf(os.Stderr, "\r%s [%s] %d/%d sets (%.0f%%)",
		p.message, bar(percentage), completed, total, percentage)
}

// Finish ends the indication with a completion line.
func (p *Indicator) Finish() {
	if !p.enabled {
		return
	}
	fmt.Fprintf(os.Stderr, "\r%s done in %s%s\n", p.message, formatDuration(time.Since(p.startTime)), strings.Repeat(" ", 20))
}

// FinishWithError ends the indication with a failure line.
func (p *Indicator) FinishWithError(err error) {
	if !p.enabled {
		return
	}
	fmt.Fprintf(os.Stderr, "\r%s failed after %s: %v\n", p.message, formatDuration(time.Since(p.startTime)), err)
}

func bar(percentage float64) string {
	const width = 30
	filled := int(percentage / 100.0 * width)
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	} else if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%.1fm", d.Minutes())
}
