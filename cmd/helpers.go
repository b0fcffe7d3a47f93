package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Samuel-Rojas/Momentum/internal/board"
	"github.com/Samuel-Rojas/Momentum/internal/events"
	"github.com/Samuel-Rojas/Momentum/internal/insights"
	"github.com/Samuel-Rojas/Momentum/models"
	"github.com/Samuel-Rojas/Momentum/store"
	"github.com/manifoldco/promptui"
	"github.com/spf13/viper"
)

// session bundles the board and its collaborators for the lifetime of
// one command invocation.
type session struct {
	Board     *board.Board
	Collector *insights.Collector
	Store     store.DocumentStore
	DataPath  string
}

// Close drains in-flight persistence writes, then releases the store.
func (s *session) Close() {
	s.Board.Wait()
	if err := s.Store.Close(); err != nil {
		LogError("closing store", err)
	}
}

// dataFilePath returns the full path to the backing data file.
func dataFilePath() string {
	cfg := GetConfig()
	return filepath.Join(cfg.Project.RootDir, cfg.Data.File)
}

// openStore builds the configured document store backend.
func openStore() (store.DocumentStore, string, error) {
	cfg := GetConfig()
	path := dataFilePath()
	switch cfg.Data.Backend {
	case "sqlite":
		s, err := store.NewSQLiteDocumentStore(path)
		return s, path, err
	default:
		s, err := store.NewFileDocumentStore(path, cfg.Data.Format)
		return s, path, err
	}
}

// openSession opens the store, wires the event bus and analytics
// collector, and hydrates the board (replaying historical completions).
func openSession(ctx context.Context) (*session, error) {
	cfg := GetConfig()

	docs, path, err := openStore()
	if err != nil {
		return nil, fmt.Errorf("failed to open store at %s: %w", path, err)
	}

	bus := events.NewBus()
	collector := insights.NewCollector()
	collector.Subscribe(bus)

	b := board.New(docs, bus, board.Config{
		OwnerID:         cfg.Project.OwnerID,
		DefaultCategory: cfg.Project.DefaultCategory,
	})
	b.OnPersistError(func(err error) {
		PrintError("A background save failed; your change is kept locally but may not be persisted. Re-run with --verbose for detail.", err)
	})

	if err := b.Load(ctx); err != nil {
		_ = docs.Close()
		return nil, err
	}

	return &session{Board: b, Collector: collector, Store: docs, DataPath: path}, nil
}

func isJSON() bool {
	return viper.GetBool("json")
}

func isVerbose() bool {
	return viper.GetBool("verbose")
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parsePriority maps a flag value onto a priority, empty meaning unset.
func parsePriority(s string) (models.TaskPriority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "low":
		return models.PriorityLow, nil
	case "medium":
		return models.PriorityMedium, nil
	case "high":
		return models.PriorityHigh, nil
	}
	return "", fmt.Errorf("invalid priority '%s' (expected low, medium or high)", s)
}

// parseDate accepts YYYY-MM-DD or RFC3339 timestamps.
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return &t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	return nil, fmt.Errorf("invalid date '%s' (expected YYYY-MM-DD or RFC3339)", s)
}

// selectTaskInteractive presents a prompt to select a task, optionally
// narrowed by a filter.
func selectTaskInteractive(b *board.Board, filterFn func(models.Task) bool, label string) (models.Task, error) {
	tasks := b.Tasks()
	if filterFn != nil {
		filtered := tasks[:0]
		for _, t := range tasks {
			if filterFn(t) {
				filtered = append(filtered, t)
			}
		}
		tasks = filtered
	}
	if len(tasks) == 0 {
		return models.Task{}, fmt.Errorf("no tasks found matching your criteria")
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}?",
		Active:   `> {{ .Title | cyan }} ({{ .Category }}, {{ .Priority }})`,
		Inactive: `  {{ .Title | faint }} ({{ .Category }}, {{ .Priority }})`,
		Selected: `{{ "✔" | green }} {{ .Title | faint }}`,
	}
	prompt := promptui.Select{
		Label:     label,
		Items:     tasks,
		Templates: templates,
		Size:      10,
	}
	i, _, err := prompt.Run()
	if err != nil {
		return models.Task{}, fmt.Errorf("selection cancelled: %w", err)
	}
	return tasks[i], nil
}
