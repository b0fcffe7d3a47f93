package ui

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/Samuel-Rojas/Momentum/models"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short stays", "buy milk", 20, "buy milk"},
		{"exact fits", "12345", 5, "12345"},
		{"long is cut", "a very long task title", 10, "a very ..."},
		{"tiny max is left alone", "abcdef", 3, "abcdef"},
		{"multibyte cut on rune boundary", "日本語のタイトルです", 7, "日本語の..."},
		{"accented cut on rune boundary", "répétition générale", 10, "répétit..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.max)
			if got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("truncate(%q, %d) produced invalid UTF-8: %q", tt.in, tt.max, got)
			}
		})
	}
}

func TestRenderTaskListEmpty(t *testing.T) {
	out := RenderTaskList(nil)
	if !strings.Contains(out, "No tasks") {
		t.Errorf("empty board rendering = %q", out)
	}
}

func TestRenderTaskListShowsIndexAndState(t *testing.T) {
	tasks := []models.Task{
		{ID: "id-1", Title: "open task", Priority: models.PriorityHigh, Category: "Work"},
		{ID: "id-2", Title: "done task", Priority: models.PriorityLow, Category: "Home", Completed: true},
	}
	out := RenderTaskList(tasks)

	for _, want := range []string{"open task", "done task", "[ ]", "[x]", "id: id-1", "id: id-2"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered list missing %q:\n%s", want, out)
		}
	}
}
