// Package events carries the completion events that couple the task
// board to the analytics engine without either knowing the other.
package events

import (
	"sync"
	"time"

	"github.com/Samuel-Rojas/Momentum/models"
)

// TaskCompleted is published on every false->true completion transition,
// including the replay of historical completions at startup.
type TaskCompleted struct {
	Task        models.Task
	CompletedAt time.Time
}

// Bus is a minimal in-process publish/subscribe hub. Dispatch is
// synchronous: PublishCompleted returns only after every subscriber ran,
// so derived state is consistent before any persistence suspension point.
type Bus struct {
	mu        sync.Mutex
	completed []func(TaskCompleted)
}

func NewBus() *Bus {
	return &Bus{}
}

// SubscribeCompleted registers a handler for completion events.
func (b *Bus) SubscribeCompleted(fn func(TaskCompleted)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.completed = append(b.completed, fn)
}

// PublishCompleted delivers ev to all subscribers in registration order.
func (b *Bus) PublishCompleted(ev TaskCompleted) {
	b.mu.Lock()
	handlers := make([]func(TaskCompleted), len(b.completed))
	copy(handlers, b.completed)
	b.mu.Unlock()

	for _, fn := range handlers {
		fn(ev)
	}
}
