package board

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Samuel-Rojas/Momentum/internal/events"
	"github.com/Samuel-Rojas/Momentum/models"
	"github.com/Samuel-Rojas/Momentum/store"
	"github.com/Samuel-Rojas/Momentum/types"
)

// fakeStore is an in-memory DocumentStore for board tests. Set failAll to
// make every write fail, for exercising the persistence error path.
type fakeStore struct {
	mu      sync.Mutex
	docs    map[string]store.Document
	failAll bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{docs: make(map[string]store.Document)}
}

func (s *fakeStore) Create(_ context.Context, doc store.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll {
		return errors.New("store unavailable")
	}
	if _, exists := s.docs[doc.ID]; exists {
		return fmt.Errorf("document %s already exists", doc.ID)
	}
	s.docs[doc.ID] = doc
	return nil
}

func (s *fakeStore) Update(_ context.Context, id string, doc store.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll {
		return errors.New("store unavailable")
	}
	if _, exists := s.docs[id]; !exists {
		return fmt.Errorf("document %s not found", id)
	}
	s.docs[id] = doc
	return nil
}

func (s *fakeStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll {
		return errors.New("store unavailable")
	}
	delete(s.docs, id)
	return nil
}

func (s *fakeStore) QueryByOwner(_ context.Context, ownerID string) ([]store.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []store.Document
	for _, doc := range s.docs {
		if doc.OwnerID == ownerID {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (s *fakeStore) ReplaceByOwner(_ context.Context, ownerID string, docs []store.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll {
		return errors.New("store unavailable")
	}
	for id, doc := range s.docs {
		if doc.OwnerID == ownerID {
			delete(s.docs, id)
		}
	}
	for _, doc := range docs {
		s.docs[doc.ID] = doc
	}
	return nil
}

func (s *fakeStore) Close() error { return nil }

func (s *fakeStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}

func newTestBoard(t *testing.T) (*Board, *fakeStore, *events.Bus) {
	t.Helper()
	fs := newFakeStore()
	bus := events.NewBus()
	b := New(fs, bus, Config{OwnerID: "owner-1", DefaultCategory: "Other"})
	return b, fs, bus
}

func mustAdd(t *testing.T, b *Board, title string) models.Task {
	t.Helper()
	task, err := b.Add(models.CreateInput{Title: title})
	if err != nil {
		t.Fatalf("Add(%q): %v", title, err)
	}
	return task
}

func orders(tasks []models.Task) []int {
	out := make([]int, len(tasks))
	for i, t := range tasks {
		out[i] = t.Order
	}
	return out
}

func titles(tasks []models.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}

func assertTitles(t *testing.T, tasks []models.Task, want ...string) {
	t.Helper()
	got := titles(tasks)
	if len(got) != len(want) {
		t.Fatalf("titles = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("titles = %v, want %v", got, want)
		}
	}
}

func assertDenseOrder(t *testing.T, tasks []models.Task) {
	t.Helper()
	for i, task := range tasks {
		if task.Order != i {
			t.Fatalf("orders = %v, want dense 0..%d", orders(tasks), len(tasks)-1)
		}
	}
}

func TestAddAppendsAndPersists(t *testing.T) {
	b, fs, _ := newTestBoard(t)

	mustAdd(t, b, "first")
	mustAdd(t, b, "second")
	third := mustAdd(t, b, "third")

	if third.Order != 2 {
		t.Errorf("third task order = %d, want 2", third.Order)
	}
	if third.Priority != models.PriorityMedium {
		t.Errorf("default priority = %s, want medium", third.Priority)
	}
	if third.Category != "Other" {
		t.Errorf("default category = %s", third.Category)
	}
	assertDenseOrder(t, b.Tasks())

	b.Wait()
	if fs.count() != 3 {
		t.Errorf("store holds %d documents, want 3", fs.count())
	}
}

func TestAddRejectsEmptyTitle(t *testing.T) {
	b, fs, _ := newTestBoard(t)

	if _, err := b.Add(models.CreateInput{Title: "   "}); !errors.Is(err, types.ErrValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if len(b.Tasks()) != 0 {
		t.Error("rejected add must not touch the collection")
	}
	b.Wait()
	if fs.count() != 0 {
		t.Error("rejected add must not reach the store")
	}
}

func TestDeleteRenumbersAndDropsSelection(t *testing.T) {
	b, fs, _ := newTestBoard(t)
	a := mustAdd(t, b, "a")
	victim := mustAdd(t, b, "b")
	mustAdd(t, b, "c")

	if err := b.Select(victim.ID); err != nil {
		t.Fatal(err)
	}
	if err := b.Select(a.ID); err != nil {
		t.Fatal(err)
	}

	if err := b.Delete(victim.ID); err != nil {
		t.Fatal(err)
	}

	tasks := b.Tasks()
	assertTitles(t, tasks, "a", "c")
	assertDenseOrder(t, tasks)

	for _, id := range b.Selected() {
		if id == victim.ID {
			t.Error("deleted task still in selection set")
		}
	}

	b.Wait()
	if fs.count() != 2 {
		t.Errorf("store holds %d documents, want 2", fs.count())
	}
}

func TestNotFoundErrors(t *testing.T) {
	b, _, _ := newTestBoard(t)
	mustAdd(t, b, "only")

	title := "x"
	cases := []struct {
		name string
		call func() error
	}{
		{"edit", func() error { return b.Edit("missing", models.Patch{Title: &title}) }},
		{"delete", func() error { return b.Delete("missing") }},
		{"toggle", func() error { return b.ToggleComplete("missing") }},
		{"select", func() error { return b.Select("missing") }},
		{"get", func() error { _, err := b.Get("missing"); return err }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.call(); !errors.Is(err, types.ErrNotFound) {
				t.Errorf("err = %v, want not-found", err)
			}
		})
	}
}

func TestToggleCompletePublishesBeforePersisting(t *testing.T) {
	fs := newFakeStore()
	fs.failAll = true
	bus := events.NewBus()
	b := New(fs, bus, Config{OwnerID: "owner-1"})

	var published []events.TaskCompleted
	bus.SubscribeCompleted(func(ev events.TaskCompleted) {
		published = append(published, ev)
	})

	var hookErr error
	var hookOnce sync.Once
	hooked := make(chan struct{})
	b.OnPersistError(func(err error) {
		hookOnce.Do(func() {
			hookErr = err
			close(hooked)
		})
	})

	task := mustAdd(t, b, "doomed")
	if err := b.ToggleComplete(task.ID); err != nil {
		t.Fatal(err)
	}

	// The event is synchronous: it must be visible immediately, even
	// though every write against the store is failing.
	if len(published) != 1 {
		t.Fatalf("published %d events, want 1", len(published))
	}
	if published[0].Task.ID != task.ID {
		t.Errorf("event task = %s, want %s", published[0].Task.ID, task.ID)
	}

	<-hooked
	b.Wait()
	if !errors.Is(hookErr, types.ErrPersistence) {
		t.Errorf("hook err = %v, want persistence error", hookErr)
	}

	// Local state keeps the optimistic mutation.
	got, err := b.Get(task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Completed || got.CompletedAt == nil {
		t.Error("local completion must survive the failed write")
	}
}

func TestToggleTwiceDoesNotRepublish(t *testing.T) {
	b, _, bus := newTestBoard(t)

	published := 0
	bus.SubscribeCompleted(func(events.TaskCompleted) { published++ })

	task := mustAdd(t, b, "flip")
	if err := b.ToggleComplete(task.ID); err != nil {
		t.Fatal(err)
	}
	if err := b.ToggleComplete(task.ID); err != nil {
		t.Fatal(err)
	}
	if published != 1 {
		t.Errorf("published %d events, want 1 (only the false->true transition)", published)
	}

	got, _ := b.Get(task.ID)
	if got.Completed || got.CompletedAt != nil {
		t.Error("un-completing must clear the completion state")
	}
	b.Wait()
}

func TestReorderInvolution(t *testing.T) {
	b, _, _ := newTestBoard(t)
	mustAdd(t, b, "a")
	mustAdd(t, b, "b")
	mustAdd(t, b, "c")
	mustAdd(t, b, "d")

	before := titles(b.VisibleTasks())

	if err := b.Reorder(0, 3); err != nil {
		t.Fatal(err)
	}
	assertTitles(t, b.VisibleTasks(), "b", "c", "d", "a")

	if err := b.Reorder(3, 0); err != nil {
		t.Fatal(err)
	}
	after := titles(b.VisibleTasks())
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("reorder(i,j) then reorder(j,i) changed order: %v -> %v", before, after)
		}
	}
	assertDenseOrder(t, b.Tasks())
	b.Wait()
}

func TestReorderOutOfRange(t *testing.T) {
	b, _, _ := newTestBoard(t)
	mustAdd(t, b, "a")
	mustAdd(t, b, "b")

	for _, pair := range [][2]int{{-1, 0}, {0, 2}, {5, 1}} {
		if err := b.Reorder(pair[0], pair[1]); !errors.Is(err, types.ErrValidation) {
			t.Errorf("Reorder(%d, %d) err = %v, want validation error", pair[0], pair[1], err)
		}
	}
	assertTitles(t, b.Tasks(), "a", "b")
	b.Wait()
}

func TestReorderUnderFilterKeepsInvisibleSlots(t *testing.T) {
	b, _, _ := newTestBoard(t)
	if _, err := b.Add(models.CreateInput{Title: "a", Category: "Work"}); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Add(models.CreateInput{Title: "hidden", Category: "Play"}); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Add(models.CreateInput{Title: "b", Category: "Work"}); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Add(models.CreateInput{Title: "c", Category: "Work"}); err != nil {
		t.Fatal(err)
	}

	b.SetFilter(Filters{Categories: []string{"Work"}})
	assertTitles(t, b.VisibleTasks(), "a", "b", "c")

	// Move "c" to the front of the visible sequence. The hidden task must
	// keep its slot between "a" and the rest.
	if err := b.Reorder(2, 0); err != nil {
		t.Fatal(err)
	}
	assertTitles(t, b.VisibleTasks(), "c", "a", "b")

	all := b.Tasks()
	assertTitles(t, all, "c", "hidden", "a", "b")
	assertDenseOrder(t, all)
	b.Wait()
}

func TestFilterCompletedPartition(t *testing.T) {
	b, _, _ := newTestBoard(t)
	mustAdd(t, b, "open")
	doneTask := mustAdd(t, b, "closed")
	if err := b.ToggleComplete(doneTask.ID); err != nil {
		t.Fatal(err)
	}

	yes, no := true, false
	b.SetFilter(Filters{Completed: &yes})
	completed := b.VisibleTasks()
	b.SetFilter(Filters{Completed: &no})
	pending := b.VisibleTasks()

	if len(completed)+len(pending) != len(b.Tasks()) {
		t.Error("completed and pending views must partition the collection")
	}
	assertTitles(t, completed, "closed")
	assertTitles(t, pending, "open")
	b.Wait()
}

func TestSearchFilterMatchesTags(t *testing.T) {
	b, _, _ := newTestBoard(t)
	if _, err := b.Add(models.CreateInput{Title: "pay rent", Tags: []string{"finance"}}); err != nil {
		t.Fatal(err)
	}
	mustAdd(t, b, "walk dog")

	b.SetFilter(Filters{Search: "FIN"})
	assertTitles(t, b.VisibleTasks(), "pay rent")
	b.Wait()
}

func TestSortPriorityDescendingTiesByManualOrder(t *testing.T) {
	b, _, _ := newTestBoard(t)
	add := func(title string, p models.TaskPriority) {
		if _, err := b.Add(models.CreateInput{Title: title, Priority: p}); err != nil {
			t.Fatal(err)
		}
	}
	add("low", models.PriorityLow)
	add("high-1", models.PriorityHigh)
	add("med", models.PriorityMedium)
	add("high-2", models.PriorityHigh)

	b.SetSort(SortPriority, Descending)
	assertTitles(t, b.VisibleTasks(), "high-1", "high-2", "med", "low")
	b.Wait()
}

func TestEditPatchesAndPersists(t *testing.T) {
	b, fs, _ := newTestBoard(t)
	task := mustAdd(t, b, "old title")

	title := "new title"
	high := models.PriorityHigh
	if err := b.Edit(task.ID, models.Patch{Title: &title, Priority: &high}); err != nil {
		t.Fatal(err)
	}

	got, err := b.Get(task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "new title" || got.Priority != models.PriorityHigh {
		t.Errorf("patch not applied: %+v", got)
	}
	if got.ID != task.ID || !got.CreatedAt.Equal(task.CreatedAt) {
		t.Error("system-owned fields must not change under edit")
	}

	b.Wait()
	if fs.count() != 1 {
		t.Errorf("store holds %d documents, want 1", fs.count())
	}
}

func TestBatchComplete(t *testing.T) {
	b, _, bus := newTestBoard(t)

	published := 0
	bus.SubscribeCompleted(func(events.TaskCompleted) { published++ })

	a := mustAdd(t, b, "a")
	done := mustAdd(t, b, "already done")
	missing := "no-such-id"
	if err := b.ToggleComplete(done.ID); err != nil {
		t.Fatal(err)
	}
	published = 0 // only count the batch

	if err := b.Select(a.ID); err != nil {
		t.Fatal(err)
	}
	b.BatchComplete([]string{a.ID, done.ID, missing})

	if published != 1 {
		t.Errorf("published %d events, want 1 (completed tasks and missing IDs are skipped)", published)
	}
	got, _ := b.Get(a.ID)
	if !got.Completed {
		t.Error("batch must complete the pending task")
	}
	if len(b.Selected()) != 0 {
		t.Error("batch must clear the selection set")
	}
	b.Wait()
}

func TestBatchDelete(t *testing.T) {
	b, fs, _ := newTestBoard(t)
	a := mustAdd(t, b, "a")
	bTask := mustAdd(t, b, "b")
	mustAdd(t, b, "c")

	b.BatchDelete([]string{a.ID, bTask.ID, "no-such-id"})

	tasks := b.Tasks()
	assertTitles(t, tasks, "c")
	assertDenseOrder(t, tasks)

	b.Wait()
	if fs.count() != 1 {
		t.Errorf("store holds %d documents, want 1", fs.count())
	}
}

func TestLoadReplaysCompletionsOldestFirst(t *testing.T) {
	fs := newFakeStore()
	bus := events.NewBus()
	seed := New(fs, bus, Config{OwnerID: "owner-1"})

	early := mustAdd(t, seed, "early")
	late := mustAdd(t, seed, "late")
	mustAdd(t, seed, "pending")
	if err := seed.ToggleComplete(late.ID); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond) // distinct completion instants
	if err := seed.ToggleComplete(early.ID); err != nil {
		t.Fatal(err)
	}
	seed.Wait()

	// Fresh session against the same store.
	bus2 := events.NewBus()
	var replayed []string
	bus2.SubscribeCompleted(func(ev events.TaskCompleted) {
		replayed = append(replayed, ev.Task.Title)
	})
	fresh := New(fs, bus2, Config{OwnerID: "owner-1"})
	if err := fresh.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	if len(replayed) != 2 {
		t.Fatalf("replayed %d completions, want 2", len(replayed))
	}
	if replayed[0] != "late" || replayed[1] != "early" {
		t.Errorf("replay order = %v, want oldest completion first", replayed)
	}
	assertDenseOrder(t, fresh.Tasks())
}

func TestCategoriesAndTags(t *testing.T) {
	b, _, _ := newTestBoard(t)
	if _, err := b.Add(models.CreateInput{Title: "a", Category: "Work", Tags: []string{"x", "y"}}); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Add(models.CreateInput{Title: "b", Category: "Play", Tags: []string{"y", "z"}}); err != nil {
		t.Fatal(err)
	}

	cats := b.Categories([]string{"Work", "Health"})
	want := []string{"Work", "Health", "Play"}
	if len(cats) != len(want) {
		t.Fatalf("categories = %v, want %v", cats, want)
	}
	for i := range want {
		if cats[i] != want[i] {
			t.Fatalf("categories = %v, want %v", cats, want)
		}
	}

	tags := b.Tags()
	if len(tags) != 3 || tags[0] != "x" || tags[1] != "y" || tags[2] != "z" {
		t.Errorf("tags = %v, want [x y z]", tags)
	}
	b.Wait()
}

func TestStats(t *testing.T) {
	b, _, _ := newTestBoard(t)
	soon := time.Now().Add(24 * time.Hour)
	later := time.Now().Add(48 * time.Hour)

	if _, err := b.Add(models.CreateInput{Title: "due later", Category: "Work", DueDate: &later}); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Add(models.CreateInput{Title: "due soon", Category: "Work", DueDate: &soon}); err != nil {
		t.Fatal(err)
	}
	doneTask := mustAdd(t, b, "done")
	if err := b.ToggleComplete(doneTask.ID); err != nil {
		t.Fatal(err)
	}
	mustAdd(t, b, "plain")

	st := b.Stats()
	if st.TotalTasks != 4 || st.CompletedTasks != 1 {
		t.Errorf("totals = %d/%d, want 4/1", st.TotalTasks, st.CompletedTasks)
	}
	if st.CompletionRate != 25 {
		t.Errorf("completion rate = %v, want 25", st.CompletionRate)
	}
	if st.CategoryDistribution["Work"] != 2 {
		t.Errorf("Work count = %d, want 2", st.CategoryDistribution["Work"])
	}
	if len(st.UpcomingDeadlines) != 2 || st.UpcomingDeadlines[0].Title != "due soon" {
		t.Errorf("upcoming deadlines = %v", titles(st.UpcomingDeadlines))
	}
	b.Wait()
}
