package board

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"

	"github.com/Samuel-Rojas/Momentum/models"
	"github.com/Samuel-Rojas/Momentum/store"
	"github.com/Samuel-Rojas/Momentum/types"
	"github.com/google/uuid"
)

// Export serializes the full live collection, losslessly, as a JSON
// array of task objects with ISO-8601 dates.
func (b *Board) Export() ([]byte, error) {
	b.mu.Lock()
	tasks := b.snapshotLocked()
	b.mu.Unlock()
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return nil, types.NewPersistenceError("export", err)
	}
	return data, nil
}

// Import replaces the live collection wholesale with the given payload.
// The payload must be a JSON array of task objects; anything else aborts
// with an import error and no partial replacement. Entries missing an ID
// get a fresh one. Per-task business rules are deliberately NOT enforced
// here: import is structural only.
func (b *Board) Import(data []byte) error {
	// json.Unmarshal accepts a top-level null into a slice, which would
	// silently wipe the collection. Only an actual array may replace it.
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return types.NewImportError("import payload is not a well-formed task array", nil)
	}

	var tasks []models.Task
	if err := json.Unmarshal(trimmed, &tasks); err != nil {
		return types.NewImportError("import payload is not a well-formed task array", err)
	}

	for i := range tasks {
		if tasks[i].ID == "" {
			tasks[i].ID = uuid.NewString()
		}
		if tasks[i].Tags == nil {
			tasks[i].Tags = []string{}
		}
	}
	sort.SliceStable(tasks, func(i, j int) bool { return tasks[i].Order < tasks[j].Order })
	for i := range tasks {
		tasks[i].Order = i
	}

	b.mu.Lock()
	b.tasks = tasks
	b.selected = make(map[string]struct{})
	docs := make([]store.Document, 0, len(tasks))
	for _, t := range tasks {
		docs = append(docs, b.documentFor(t))
	}
	b.mu.Unlock()

	b.persist("import", func(ctx context.Context) error {
		return b.docs.ReplaceByOwner(ctx, b.owner, docs)
	})
	return nil
}
