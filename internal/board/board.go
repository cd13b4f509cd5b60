// Package board holds the kanban rules that sit above the stores: progress
// figures, focus mode moves and the persisted layout and theme.
package board

import (
	"context"
	"fmt"
	"slices"

	"github.com/muesli/termenv"

	"github.com/Joseda-hg/tasker/internal/model"
	"github.com/Joseda-hg/tasker/internal/prefs"
)

type Layout string

const (
	LayoutTraditional Layout = "TRADITIONAL"
	LayoutFocus       Layout = "FOCUS"
)

type ThemePreference string

const (
	ThemeLight ThemePreference = "light"
	ThemeDark  ThemePreference = "dark"
	ThemeAuto  ThemePreference = "auto"
)

var themeCycle = []ThemePreference{ThemeAuto, ThemeLight, ThemeDark}

// Theme is a resolved preference: light or dark, never auto.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// CompletionPercent rounds 100*done/total half up; an empty set is 0%.
func CompletionPercent(done, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*done + total) / (2 * total)
}

// DailyProgress is the share of DONE among the tasks planned for today.
func DailyProgress(tasks []model.Task) int {
	planned, done := 0, 0
	for _, task := range tasks {
		switch task.Status {
		case model.StatusToday, model.StatusInProgress:
			planned++
		case model.StatusDone:
			planned++
			done++
		}
	}
	return CompletionPercent(done, planned)
}

// ResolveTheme turns a preference into the theme to paint with.
func ResolveTheme(pref ThemePreference, systemDark bool) Theme {
	switch pref {
	case ThemeLight:
		return Light
	case ThemeDark:
		return Dark
	default:
		if systemDark {
			return Dark
		}
		return Light
	}
}

// Neighbor returns the column delta steps away from status.
func Neighbor(status model.TaskStatus, delta int) (model.TaskStatus, bool) {
	idx := slices.Index(model.TaskStatuses, status)
	if idx < 0 {
		return status, false
	}
	next := idx + delta
	if next < 0 || next >= len(model.TaskStatuses) {
		return status, false
	}
	return model.TaskStatuses[next], true
}

// Tasks is what the board needs from the task store.
type Tasks interface {
	Tasks() []model.Task
	Task(id int64) (model.Task, bool)
	SelectedWorkspace() model.Workspace
	UpdateTaskStatus(ctx context.Context, id int64, status model.TaskStatus) (model.Task, error)
}

type Board struct {
	tasks      Tasks
	prefs      *prefs.Store
	systemDark func() bool
}

type Option func(*Board)

// WithSystemDark overrides terminal background detection.
func WithSystemDark(fn func() bool) Option {
	return func(b *Board) {
		b.systemDark = fn
	}
}

func New(tasks Tasks, store *prefs.Store, opts ...Option) *Board {
	b := &Board{tasks: tasks, prefs: store, systemDark: termenv.HasDarkBackground}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Board) Layout() Layout {
	if Layout(b.prefs.GetOr(prefs.KeyBoardLayout, "")) == LayoutFocus {
		return LayoutFocus
	}
	return LayoutTraditional
}

func (b *Board) SetLayout(layout Layout) error {
	if layout != LayoutTraditional && layout != LayoutFocus {
		return fmt.Errorf("unknown board layout %q", layout)
	}
	return b.prefs.Set(prefs.KeyBoardLayout, string(layout))
}

func (b *Board) ToggleLayout() (Layout, error) {
	next := LayoutFocus
	if b.Layout() == LayoutFocus {
		next = LayoutTraditional
	}
	return next, b.SetLayout(next)
}

func (b *Board) ThemePreference() ThemePreference {
	pref := ThemePreference(b.prefs.GetOr(prefs.KeyTheme, string(ThemeAuto)))
	if !slices.Contains(themeCycle, pref) {
		return ThemeAuto
	}
	return pref
}

func (b *Board) SetThemePreference(pref ThemePreference) error {
	if !slices.Contains(themeCycle, pref) {
		return fmt.Errorf("unknown theme %q", pref)
	}
	return b.prefs.Set(prefs.KeyTheme, string(pref))
}

// CycleTheme steps auto -> light -> dark -> auto.
func (b *Board) CycleTheme() (ThemePreference, error) {
	idx := slices.Index(themeCycle, b.ThemePreference())
	next := themeCycle[(idx+1)%len(themeCycle)]
	return next, b.SetThemePreference(next)
}

func (b *Board) Theme() Theme {
	return ResolveTheme(b.ThemePreference(), b.systemDark())
}

// DailyProgress covers the selected workspace only.
func (b *Board) DailyProgress() int {
	ws := b.tasks.SelectedWorkspace()
	return DailyProgress(slices.DeleteFunc(b.tasks.Tasks(), func(t model.Task) bool {
		return t.Workspace != ws
	}))
}

// MoveTask sets a task's column. In focus layout a task entering IN_PROGRESS
// first pushes every other IN_PROGRESS task of its workspace back to TODAY.
func (b *Board) MoveTask(ctx context.Context, id int64, status model.TaskStatus) (model.Task, error) {
	if !status.Valid() {
		return model.Task{}, fmt.Errorf("unknown status %q", status)
	}
	if b.Layout() == LayoutFocus && status == model.StatusInProgress {
		task, ok := b.tasks.Task(id)
		if ok {
			for _, other := range b.tasks.Tasks() {
				if other.ID == id || other.Workspace != task.Workspace || other.Status != model.StatusInProgress {
					continue
				}
				if _, err := b.tasks.UpdateTaskStatus(ctx, other.ID, model.StatusToday); err != nil {
					return model.Task{}, fmt.Errorf("demote task %d: %w", other.ID, err)
				}
			}
		}
	}
	return b.tasks.UpdateTaskStatus(ctx, id, status)
}

// Step moves a task one or more columns left (negative) or right.
func (b *Board) Step(ctx context.Context, id int64, delta int) (model.Task, error) {
	task, ok := b.tasks.Task(id)
	if !ok {
		return model.Task{}, fmt.Errorf("task %d is not loaded", id)
	}
	next, ok := Neighbor(task.Status, delta)
	if !ok {
		return task, nil
	}
	return b.MoveTask(ctx, id, next)
}
