package board_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Joseda-hg/tasker/internal/board"
	"github.com/Joseda-hg/tasker/internal/model"
	"github.com/Joseda-hg/tasker/internal/prefs"
	"github.com/Joseda-hg/tasker/internal/state"
)

type memoryTasks struct {
	tasks []model.Task
}

func (m *memoryTasks) List(context.Context, *model.TaskFilters) ([]model.Task, error) {
	return append([]model.Task(nil), m.tasks...), nil
}

func (m *memoryTasks) Create(_ context.Context, input model.CreateTaskInput) (model.Task, error) {
	task := model.Task{ID: int64(len(m.tasks) + 1), Title: input.Title, Workspace: input.Workspace, Status: input.Status}
	m.tasks = append(m.tasks, task)
	return task, nil
}

func (m *memoryTasks) Update(_ context.Context, id int64, input model.UpdateTaskInput) (model.Task, error) {
	task := m.tasks[id-1]
	if input.Status != nil {
		task.Status = *input.Status
	}
	m.tasks[id-1] = task
	return task, nil
}

func (m *memoryTasks) Delete(context.Context, int64) error {
	return nil
}

type silent struct{}

func (silent) Success(string) {}
func (silent) Error(string) {}

func newBoard(t *testing.T, inputs ...model.CreateTaskInput) (*board.Board, *state.TaskStore) {
	t.Helper()
	store := state.NewTaskStore(&memoryTasks{}, silent{}, zerolog.Nop())
	for _, input := range inputs {
		_, err := store.AddTask(context.Background(), input)
		require.NoError(t, err)
	}
	b := board.New(store, prefs.Memory(), board.WithSystemDark(func() bool { return true }))
	return b, store
}

func TestCompletionPercent(t *testing.T) {
	cases := []struct{ done, total, want int }{
		{0, 0, 0},
		{0, 3, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 2, 50},
		{1, 8, 13},
		{3, 3, 100},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, board.CompletionPercent(tc.done, tc.total), "%d/%d", tc.done, tc.total)
	}
}

func TestDailyProgressAsTasksFinish(t *testing.T) {
	ctx := context.Background()
	b, _ := newBoard(t,
		model.CreateTaskInput{Title: "today", Workspace: model.WorkspaceWork, Status: model.StatusToday},
		model.CreateTaskInput{Title: "doing", Workspace: model.WorkspaceWork, Status: model.StatusInProgress},
		model.CreateTaskInput{Title: "done", Workspace: model.WorkspaceWork, Status: model.StatusDone},
		model.CreateTaskInput{Title: "later", Workspace: model.WorkspaceWork, Status: model.StatusBacklog},
		model.CreateTaskInput{Title: "other", Workspace: model.WorkspacePersonal, Status: model.StatusToday},
	)
	assert.Equal(t, 33, b.DailyProgress())

	_, err := b.MoveTask(ctx, 1, model.StatusDone)
	require.NoError(t, err)
	assert.Equal(t, 67, b.DailyProgress())

	_, err = b.MoveTask(ctx, 2, model.StatusDone)
	require.NoError(t, err)
	assert.Equal(t, 100, b.DailyProgress())
}

func TestFocusLayoutKeepsOneTaskInProgress(t *testing.T) {
	ctx := context.Background()
	b, store := newBoard(t,
		model.CreateTaskInput{Title: "current", Workspace: model.WorkspaceWork, Status: model.StatusInProgress},
		model.CreateTaskInput{Title: "next", Workspace: model.WorkspaceWork, Status: model.StatusToday},
		model.CreateTaskInput{Title: "home", Workspace: model.WorkspacePersonal, Status: model.StatusInProgress},
	)

	layout, err := b.ToggleLayout()
	require.NoError(t, err)
	assert.Equal(t, board.LayoutFocus, layout)

	_, err = b.MoveTask(ctx, 2, model.StatusInProgress)
	require.NoError(t, err)

	first, _ := store.Task(1)
	second, _ := store.Task(2)
	home, _ := store.Task(3)
	assert.Equal(t, model.StatusToday, first.Status)
	assert.Equal(t, model.StatusInProgress, second.Status)
	assert.Equal(t, model.StatusInProgress, home.Status, "other workspace is untouched")
}

func TestTraditionalLayoutMovesFreely(t *testing.T) {
	ctx := context.Background()
	b, store := newBoard(t,
		model.CreateTaskInput{Title: "a", Workspace: model.WorkspaceWork, Status: model.StatusInProgress},
		model.CreateTaskInput{Title: "b", Workspace: model.WorkspaceWork, Status: model.StatusToday},
	)
	assert.Equal(t, board.LayoutTraditional, b.Layout())

	_, err := b.Step(ctx, 2, 1)
	require.NoError(t, err)
	assert.Len(t, store.TasksByStatus(model.StatusInProgress), 2)

	_, err = b.Step(ctx, 2, 5)
	require.NoError(t, err)
	task, _ := store.Task(2)
	assert.Equal(t, model.StatusInProgress, task.Status)
}

func TestThemePreference(t *testing.T) {
	b, _ := newBoard(t)
	assert.Equal(t, board.ThemeAuto, b.ThemePreference())
	assert.Equal(t, board.Dark, b.Theme())

	pref, err := b.CycleTheme()
	require.NoError(t, err)
	assert.Equal(t, board.ThemeLight, pref)
	assert.Equal(t, board.Light, b.Theme())

	assert.Error(t, b.SetThemePreference("sepia"))
	assert.Equal(t, board.Light, board.ResolveTheme(board.ThemeAuto, false))
	assert.Equal(t, board.Dark, board.ResolveTheme(board.ThemeDark, false))
}

func TestNeighbor(t *testing.T) {
	next, ok := board.Neighbor(model.StatusBacklog, 1)
	assert.True(t, ok)
	assert.Equal(t, model.StatusToday, next)

	_, ok = board.Neighbor(model.StatusBacklog, -1)
	assert.False(t, ok)
}
