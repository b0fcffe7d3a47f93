// Package board owns the live task collection and its derived views.
// It is the single source of truth for task state: mutations apply to
// local state synchronously, then persist to the document store on a
// background goroutine. A failed persistence write is reported through
// the OnPersistError hook but does not unwind the local mutation;
// callers that need strong consistency must re-fetch.
package board

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/Samuel-Rojas/Momentum/internal/events"
	"github.com/Samuel-Rojas/Momentum/models"
	"github.com/Samuel-Rojas/Momentum/store"
	"github.com/Samuel-Rojas/Momentum/types"
)

const persistTimeout = 15 * time.Second

// Config carries the board's construction parameters.
type Config struct {
	OwnerID         string
	DefaultCategory string
	// Clock overrides time.Now, for tests. Nil means time.Now.
	Clock func() time.Time
	// Logger receives background persistence failures when no
	// OnPersistError hook is installed. Nil means slog.Default.
	Logger *slog.Logger
}

// Board is the task state container. The tasks slice is kept ordered by
// the dense Order field; all exported methods are safe for concurrent
// use, serialized by the internal mutex.
type Board struct {
	mu       sync.Mutex
	docs     store.DocumentStore
	bus      *events.Bus
	owner    string
	fallback string
	clock    func() time.Time
	logger   *slog.Logger

	tasks    []models.Task
	selected map[string]struct{}
	filters  Filters
	sortKey  SortKey
	sortDir  SortDirection

	onPersistErr func(error)
	pending      sync.WaitGroup
}

// New creates a board backed by docs, publishing completion events on bus.
func New(docs store.DocumentStore, bus *events.Bus, cfg Config) *Board {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	fallback := cfg.DefaultCategory
	if fallback == "" {
		fallback = "Other"
	}
	return &Board{
		docs:     docs,
		bus:      bus,
		owner:    cfg.OwnerID,
		fallback: fallback,
		clock:    clock,
		logger:   logger,
		selected: make(map[string]struct{}),
		sortKey:  SortManual,
		sortDir:  Ascending,
	}
}

// OnPersistError installs the reconciliation hook invoked (from a
// background goroutine) when a persistence write fails. The error always
// matches types.ErrPersistence. Without a hook, failures are logged.
func (b *Board) OnPersistError(fn func(error)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onPersistErr = fn
}

// Wait blocks until all in-flight persistence writes have finished.
// One-shot callers (the CLI) invoke it before exiting.
func (b *Board) Wait() {
	b.pending.Wait()
}

// Load hydrates the collection from the document store and replays
// historical completions through the event bus, oldest first, so the
// analytics gate is consistent across session boundaries.
func (b *Board) Load(ctx context.Context) error {
	docs, err := b.docs.QueryByOwner(ctx, b.owner)
	if err != nil {
		return types.NewPersistenceError("load", err)
	}

	tasks := make([]models.Task, 0, len(docs))
	for _, doc := range docs {
		var t models.Task
		if err := json.Unmarshal(doc.Body, &t); err != nil {
			return types.NewPersistenceError("load", err)
		}
		tasks = append(tasks, t)
	}
	sort.SliceStable(tasks, func(i, j int) bool { return tasks[i].Order < tasks[j].Order })
	for i := range tasks {
		tasks[i].Order = i
	}

	b.mu.Lock()
	b.tasks = tasks
	b.selected = make(map[string]struct{})
	b.mu.Unlock()

	completed := make([]models.Task, 0)
	for _, t := range tasks {
		if t.Completed && t.CompletedAt != nil {
			completed = append(completed, t)
		}
	}
	sort.SliceStable(completed, func(i, j int) bool {
		return completed[i].CompletedAt.Before(*completed[j].CompletedAt)
	})
	for _, t := range completed {
		b.bus.PublishCompleted(events.TaskCompleted{Task: t, CompletedAt: *t.CompletedAt})
	}
	return nil
}

// Add validates input, appends the new task at the end of the manual
// sequence, and persists it asynchronously.
func (b *Board) Add(input models.CreateInput) (models.Task, error) {
	b.mu.Lock()
	maxOrder := -1
	if n := len(b.tasks); n > 0 {
		maxOrder = b.tasks[n-1].Order
	}
	task, err := models.NewTask(input, maxOrder, b.fallback, b.clock())
	if err != nil {
		b.mu.Unlock()
		return models.Task{}, err
	}
	b.tasks = append(b.tasks, task)
	b.mu.Unlock()

	doc := b.documentFor(task)
	b.persist("add", func(ctx context.Context) error {
		return b.docs.Create(ctx, doc)
	})
	return task, nil
}

// Edit applies a partial patch to the task with the given ID.
// Concurrent edits are last-write-wins at field-patch granularity.
func (b *Board) Edit(id string, patch models.Patch) error {
	b.mu.Lock()
	idx := b.indexOfLocked(id)
	if idx < 0 {
		b.mu.Unlock()
		return types.NewNotFoundError(id)
	}
	if err := models.ApplyPatch(&b.tasks[idx], patch); err != nil {
		b.mu.Unlock()
		return err
	}
	task := b.tasks[idx]
	b.mu.Unlock()

	doc := b.documentFor(task)
	b.persist("edit", func(ctx context.Context) error {
		return b.docs.Update(ctx, task.ID, doc)
	})
	return nil
}

// Delete removes the task locally, drops it from the selection set, and
// persists the deletion.
func (b *Board) Delete(id string) error {
	b.mu.Lock()
	idx := b.indexOfLocked(id)
	if idx < 0 {
		b.mu.Unlock()
		return types.NewNotFoundError(id)
	}
	b.tasks = append(b.tasks[:idx], b.tasks[idx+1:]...)
	delete(b.selected, id)
	b.renumberLocked()
	changed := b.snapshotLocked()
	b.mu.Unlock()

	b.persist("delete", func(ctx context.Context) error {
		if err := b.docs.Delete(ctx, id); err != nil {
			return err
		}
		// Renumbering shifted every task after the removed one.
		return b.persistOrders(ctx, changed)
	})
	return nil
}

// ToggleComplete flips the completion state of the task. On the
// false->true transition a completion event is published synchronously,
// before the persistence write is even issued, so the sample cannot be
// lost to a pending or failed write.
func (b *Board) ToggleComplete(id string) error {
	b.mu.Lock()
	idx := b.indexOfLocked(id)
	if idx < 0 {
		b.mu.Unlock()
		return types.NewNotFoundError(id)
	}
	now := b.clock()
	completedNow := models.Toggle(&b.tasks[idx], now)
	task := b.tasks[idx]
	b.mu.Unlock()

	if completedNow {
		b.bus.PublishCompleted(events.TaskCompleted{Task: task, CompletedAt: now})
	}

	doc := b.documentFor(task)
	b.persist("toggle", func(ctx context.Context) error {
		return b.docs.Update(ctx, task.ID, doc)
	})
	return nil
}

// BatchComplete marks every listed, still-pending task completed.
// Missing IDs are skipped. The selection set is cleared afterwards.
func (b *Board) BatchComplete(ids []string) {
	b.mu.Lock()
	now := b.clock()
	var done []models.Task
	for _, id := range ids {
		idx := b.indexOfLocked(id)
		if idx < 0 || b.tasks[idx].Completed {
			continue
		}
		models.Toggle(&b.tasks[idx], now)
		done = append(done, b.tasks[idx])
	}
	b.selected = make(map[string]struct{})
	b.mu.Unlock()

	for _, task := range done {
		b.bus.PublishCompleted(events.TaskCompleted{Task: task, CompletedAt: now})
	}
	for _, task := range done {
		doc := b.documentFor(task)
		id := task.ID
		b.persist("batch-complete", func(ctx context.Context) error {
			return b.docs.Update(ctx, id, doc)
		})
	}
}

// BatchDelete removes every listed task that exists and clears the
// selection set.
func (b *Board) BatchDelete(ids []string) {
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	b.mu.Lock()
	kept := b.tasks[:0]
	var removed []string
	for _, t := range b.tasks {
		if _, gone := drop[t.ID]; gone {
			removed = append(removed, t.ID)
			continue
		}
		kept = append(kept, t)
	}
	b.tasks = kept
	b.selected = make(map[string]struct{})
	b.renumberLocked()
	changed := b.snapshotLocked()
	b.mu.Unlock()

	b.persist("batch-delete", func(ctx context.Context) error {
		for _, id := range removed {
			if err := b.docs.Delete(ctx, id); err != nil {
				return err
			}
		}
		return b.persistOrders(ctx, changed)
	})
}

// Reorder moves the task at fromIndex to toIndex within the
// currently-visible sequence, then re-derives Order as a dense 0..n-1
// sequence over the full live collection consistent with the new
// relative position. Every task whose Order changed is persisted.
func (b *Board) Reorder(fromIndex, toIndex int) error {
	b.mu.Lock()
	visible := b.visibleLocked()
	count := len(visible)
	if fromIndex < 0 || fromIndex >= count || toIndex < 0 || toIndex >= count {
		b.mu.Unlock()
		return types.NewValidationError("reorder indexes out of range: from=%d to=%d count=%d", fromIndex, toIndex, count)
	}
	if fromIndex == toIndex {
		b.mu.Unlock()
		return nil
	}

	// Move within the visible sequence.
	moved := make([]models.Task, 0, count)
	moved = append(moved, visible[:fromIndex]...)
	moved = append(moved, visible[fromIndex+1:]...)
	moved = append(moved[:toIndex], append([]models.Task{visible[fromIndex]}, moved[toIndex:]...)...)

	// Rebuild the full collection: invisible tasks keep their slots,
	// visible tasks take the moved relative order.
	inView := make(map[string]struct{}, count)
	for _, t := range visible {
		inView[t.ID] = struct{}{}
	}
	next := 0
	for i := range b.tasks {
		if _, ok := inView[b.tasks[i].ID]; ok {
			b.tasks[i] = moved[next]
			next++
		}
	}

	var changed []models.Task
	for i := range b.tasks {
		if b.tasks[i].Order != i {
			b.tasks[i].Order = i
			changed = append(changed, b.tasks[i])
		}
	}
	b.mu.Unlock()

	if len(changed) == 0 {
		return nil
	}
	b.persist("reorder", func(ctx context.Context) error {
		return b.persistOrders(ctx, changed)
	})
	return nil
}

// SetFilter replaces the active filters. Pure view state; task data is
// untouched.
func (b *Board) SetFilter(f Filters) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.filters = f
}

// SetSort replaces the active sort key and direction.
func (b *Board) SetSort(key SortKey, dir SortDirection) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sortKey = key
	b.sortDir = dir
}

// VisibleTasks returns the filtered, sorted view of the live collection.
func (b *Board) VisibleTasks() []models.Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.visibleLocked()
}

// Tasks returns a copy of the full live collection in manual order.
func (b *Board) Tasks() []models.Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshotLocked()
}

// Get returns the task with the given ID.
func (b *Board) Get(id string) (models.Task, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	idx := b.indexOfLocked(id)
	if idx < 0 {
		return models.Task{}, types.NewNotFoundError(id)
	}
	return b.tasks[idx], nil
}

// Select adds a task to the selection set.
func (b *Board) Select(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.indexOfLocked(id) < 0 {
		return types.NewNotFoundError(id)
	}
	b.selected[id] = struct{}{}
	return nil
}

// Deselect removes a task from the selection set.
func (b *Board) Deselect(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.selected, id)
}

// Selected returns the IDs currently in the selection set.
func (b *Board) Selected() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	ids := make([]string, 0, len(b.selected))
	for id := range b.selected {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Categories returns the configured fallback category plus every
// category observed on live tasks, first-seen order.
func (b *Board) Categories(seed []string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	seen := make(map[string]struct{})
	var out []string
	for _, c := range seed {
		if _, dup := seen[c]; !dup {
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	for _, t := range b.tasks {
		if _, dup := seen[t.Category]; !dup {
			seen[t.Category] = struct{}{}
			out = append(out, t.Category)
		}
	}
	return out
}

// Tags returns every distinct tag across live tasks, first-seen order.
func (b *Board) Tags() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	seen := make(map[string]struct{})
	var out []string
	for _, t := range b.tasks {
		for _, tag := range t.Tags {
			if _, dup := seen[tag]; !dup {
				seen[tag] = struct{}{}
				out = append(out, tag)
			}
		}
	}
	return out
}

// internal helpers; callers hold b.mu.

func (b *Board) indexOfLocked(id string) int {
	for i := range b.tasks {
		if b.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (b *Board) renumberLocked() {
	for i := range b.tasks {
		b.tasks[i].Order = i
	}
}

func (b *Board) snapshotLocked() []models.Task {
	out := make([]models.Task, len(b.tasks))
	copy(out, b.tasks)
	return out
}

func (b *Board) visibleLocked() []models.Task {
	visible := make([]models.Task, 0, len(b.tasks))
	for _, t := range b.tasks {
		if b.filters.Match(t) {
			visible = append(visible, t)
		}
	}
	sortTasks(visible, b.sortKey, b.sortDir)
	return visible
}

func (b *Board) documentFor(t models.Task) store.Document {
	body, _ := json.Marshal(t)
	return store.Document{ID: t.ID, OwnerID: b.owner, Body: body}
}

// persistOrders writes every task whose manual order changed.
func (b *Board) persistOrders(ctx context.Context, tasks []models.Task) error {
	for _, t := range tasks {
		if err := b.docs.Update(ctx, t.ID, b.documentFor(t)); err != nil {
			return err
		}
	}
	return nil
}

// persist runs fn on a background goroutine. Failures are wrapped as
// persistence errors and routed to the reconciliation hook; the local
// state they trailed is deliberately not rolled back.
func (b *Board) persist(op string, fn func(context.Context) error) {
	b.pending.Add(1)
	go func() {
		defer b.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			perr := types.NewPersistenceError(op, err)
			b.mu.Lock()
			hook := b.onPersistErr
			b.mu.Unlock()
			if hook != nil {
				hook(perr)
				return
			}
			b.logger.Error("persistence write failed", "op", op, "error", err)
		}
	}()
}
