package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/Samuel-Rojas/Momentum/types"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// TaskPriority represents the priority levels of a task.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// Rank returns the numeric weight used by priority sorting: high > medium > low.
func (p TaskPriority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// Task represents a unit of work.
//
// ID and CreatedAt are assigned once at creation and never reassigned.
// CompletedAt is set exactly when Completed transitions false->true and
// cleared on the reverse transition. Order is the dense integer used for
// manual sequencing among live tasks; it is unique among live tasks at
// any instant but not across history.
type Task struct {
	ID          string       `json:"id" validate:"required,uuid4"`
	Title       string       `json:"title" validate:"required"`
	Description string       `json:"description"`
	// RichDescription is the formatted variant of Description maintained
	// by the editor collaborator. The core carries it opaquely.
	RichDescription string     `json:"richDescription"`
	Priority        TaskPriority `json:"priority" validate:"required,oneof=low medium high"`
	Category        string     `json:"category" validate:"required"`
	Tags            []string   `json:"tags"`
	Completed       bool       `json:"completed"`
	CreatedAt       time.Time  `json:"createdAt" validate:"required"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
	DueDate         *time.Time `json:"dueDate,omitempty"`
	Order           int        `json:"order"`
}

// CreateInput carries the caller-supplied fields for a new task.
// Everything else is system-assigned.
type CreateInput struct {
	Title           string
	Description     string
	RichDescription string
	Priority        TaskPriority
	Category        string
	Tags            []string
	DueDate         *time.Time
}

// Patch is a partial field update. Nil fields are left untouched.
// ID, CreatedAt and CompletedAt are system-owned and deliberately absent.
type Patch struct {
	Title           *string
	Description     *string
	RichDescription *string
	Priority        *TaskPriority
	Category        *string
	Tags            *[]string
	DueDate         *time.Time
	ClearDueDate    bool
}

// global validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ValidateStruct performs validation on any struct that has validation tags.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var msgs []string
		for _, e := range validationErrors {
			msgs = append(msgs, fmt.Sprintf("field '%s' failed rule '%s'", e.StructNamespace(), e.Tag()))
		}
		return types.NewValidationError("%s", strings.Join(msgs, "; "))
	}
	return nil
}

// NewTask builds a task from input, applying defaults and validation.
// maxOrder is the highest Order among live tasks, or -1 when the
// collection is empty, so the new task lands at the end of the sequence.
func NewTask(input CreateInput, maxOrder int, defaultCategory string, now time.Time) (Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return Task{}, types.NewValidationError("task title must not be empty")
	}

	priority := input.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	category := input.Category
	if category == "" {
		category = defaultCategory
	}
	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	task := Task{
		ID:              uuid.NewString(),
		Title:           input.Title,
		Description:     input.Description,
		RichDescription: input.RichDescription,
		Priority:        priority,
		Category:        category,
		Tags:            tags,
		Completed:       false,
		CreatedAt:       now,
		DueDate:         input.DueDate,
		Order:           maxOrder + 1,
	}

	if err := ValidateStruct(task); err != nil {
		return Task{}, err
	}
	return task, nil
}

// ApplyPatch applies a partial update in place. Title, when present, is
// re-validated for non-emptiness. Last write wins at field granularity.
func ApplyPatch(t *Task, p Patch) error {
	if p.Title != nil {
		if strings.TrimSpace(*p.Title) == "" {
			return types.NewValidationError("task title must not be empty")
		}
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.RichDescription != nil {
		t.RichDescription = *p.RichDescription
	}
	if p.Priority != nil {
		switch *p.Priority {
		case PriorityLow, PriorityMedium, PriorityHigh:
			t.Priority = *p.Priority
		default:
			return types.NewValidationError("invalid priority '%s'", *p.Priority)
		}
	}
	if p.Category != nil {
		if strings.TrimSpace(*p.Category) == "" {
			return types.NewValidationError("task category must not be empty")
		}
		t.Category = *p.Category
	}
	if p.Tags != nil {
		t.Tags = *p.Tags
	}
	if p.ClearDueDate {
		t.DueDate = nil
	} else if p.DueDate != nil {
		t.DueDate = p.DueDate
	}
	return nil
}

// Toggle flips the completed flag and keeps CompletedAt consistent with
// it. It reports whether this call was the false->true transition, which
// is the only transition that produces a completion event.
func Toggle(t *Task, now time.Time) bool {
	if t.Completed {
		t.Completed = false
		t.CompletedAt = nil
		return false
	}
	t.Completed = true
	t.CompletedAt = &now
	return true
}
