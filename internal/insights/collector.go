// Package insights derives productivity patterns from completion events
// and turns them into task-ordering recommendations.
package insights

import (
	"sync"
	"time"

	"github.com/Samuel-Rojas/Momentum/internal/events"
	"github.com/Samuel-Rojas/Momentum/models"
)

// MinSamples is the minimum-sample gate: insights are withheld until at
// least this many completion samples exist.
const MinSamples = 5

// Collector converts completion events into productivity samples and
// maintains the append-only sample history. Once the gate is met it
// recomputes the cached pattern on every new sample.
type Collector struct {
	mu      sync.Mutex
	samples []models.ProductivitySample
	pattern *models.ProductivityPattern
}

func NewCollector() *Collector {
	return &Collector{}
}

// Subscribe wires the collector to the bus the board publishes on.
// Historical completions replayed at startup go through the same path,
// so the gate and pattern are consistent across session boundaries.
func (c *Collector) Subscribe(bus *events.Bus) {
	bus.SubscribeCompleted(func(ev events.TaskCompleted) {
		c.Record(ev.Task, ev.CompletedAt)
	})
}

// Record derives a sample from one completion and appends it. A negative
// or malformed duration is clamped to zero, never propagated as negative
// data. After appending, the pattern is recomputed synchronously once the
// sample count reaches MinSamples.
func (c *Collector) Record(task models.Task, completedAt time.Time) {
	minutes := int(completedAt.Sub(task.CreatedAt).Minutes())
	if minutes < 0 {
		minutes = 0
	}

	sample := models.ProductivitySample{
		TimeOfDay:                 models.TimeOfDayOf(completedAt),
		DayOfWeek:                 completedAt.Weekday().String(),
		Category:                  task.Category,
		Priority:                  task.Priority,
		CompletionDurationMinutes: minutes,
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.samples = append(c.samples, sample)
	if len(c.samples) >= MinSamples {
		c.pattern = Analyze(c.samples)
	}
}

// CanProvideInsights reports whether the minimum-sample gate is met.
func (c *Collector) CanProvideInsights() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.samples) >= MinSamples
}

// Pattern returns the cached pattern, or nil while the gate is unmet.
func (c *Collector) Pattern() *models.ProductivityPattern {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pattern
}

// Samples returns a copy of the sample history.
func (c *Collector) Samples() []models.ProductivitySample {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.ProductivitySample, len(c.samples))
	copy(out, c.samples)
	return out
}
