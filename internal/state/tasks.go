package state

import (
	"context"
	"slices"

	"github.com/rs/zerolog"

	"github.com/Joseda-hg/tasker/internal/logging"
	"github.com/Joseda-hg/tasker/internal/model"
)

// TaskAPI is the remote side of the task store; *api.TaskClient satisfies it.
type TaskAPI interface {
	List(ctx context.Context, filters *model.TaskFilters) ([]model.Task, error)
	Create(ctx context.Context, input model.CreateTaskInput) (model.Task, error)
	Update(ctx context.Context, id int64, input model.UpdateTaskInput) (model.Task, error)
	Delete(ctx context.Context, id int64) error
}

// TaskStore caches every task the board has loaded. Mutations reach the cache
// only after the server confirms them, so a failed call leaves it untouched.
//
// loading is shared by all operations; when two calls overlap, the flag
// reflects whichever finished last.
type TaskStore struct {
	api      TaskAPI
	notifier Notifier
	log      zerolog.Logger

	tasks     *Signal[[]model.Task]
	loading   *Signal[bool]
	err       *Signal[string]
	workspace *Signal[model.Workspace]

	byStatus    map[model.TaskStatus]*Computed[[]model.Task]
	byWorkspace map[model.Workspace]*Computed[[]model.Task]
	current     map[model.TaskStatus]*Computed[[]model.Task]
}

func NewTaskStore(client TaskAPI, notifier Notifier, log zerolog.Logger) *TaskStore {
	s := &TaskStore{
		api:         client,
		notifier:    notifier,
		log:         logging.Component(log, "TaskStore"),
		tasks:       NewSignal[[]model.Task](nil),
		loading:     NewSignal(false),
		err:         NewSignal(""),
		workspace:   NewSignal(model.WorkspaceWork),
		byStatus:    make(map[model.TaskStatus]*Computed[[]model.Task]),
		byWorkspace: make(map[model.Workspace]*Computed[[]model.Task]),
		current:     make(map[model.TaskStatus]*Computed[[]model.Task]),
	}

	for _, status := range model.TaskStatuses {
		s.byStatus[status] = NewComputed(func() []model.Task {
			return filterTasks(s.tasks.Get(), func(t model.Task) bool { return t.Status == status })
		}, s.tasks)
		s.current[status] = NewComputed(func() []model.Task {
			ws := s.workspace.Get()
			return filterTasks(s.tasks.Get(), func(t model.Task) bool { return t.Status == status && t.Workspace == ws })
		}, s.tasks, s.workspace)
	}
	for _, ws := range model.Workspaces {
		s.byWorkspace[ws] = NewComputed(func() []model.Task {
			return filterTasks(s.tasks.Get(), func(t model.Task) bool { return t.Workspace == ws })
		}, s.tasks)
	}
	return s
}

func filterTasks(tasks []model.Task, keep func(model.Task) bool) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, task := range tasks {
		if keep(task) {
			out = append(out, task)
		}
	}
	return out
}

func (s *TaskStore) LoadTasks(ctx context.Context, filters *model.TaskFilters) error {
	s.begin()
	defer s.loading.Set(false)

	tasks, err := s.api.List(ctx, filters)
	if err != nil {
		s.fail(err, "Failed to load tasks", false)
		return err
	}
	s.tasks.Set(slices.Clone(tasks))
	return nil
}

func (s *TaskStore) AddTask(ctx context.Context, input model.CreateTaskInput) (model.Task, error) {
	s.begin()
	defer s.loading.Set(false)

	task, err := s.api.Create(ctx, input)
	if err != nil {
		s.fail(err, "Failed to create task", true)
		return model.Task{}, err
	}
	s.tasks.Update(func(tasks []model.Task) []model.Task {
		return append(slices.Clone(tasks), task)
	})
	s.notifier.Success("Task created")
	return task, nil
}

// UpdateTask is always dispatched, even when input changes nothing. An id the
// cache does not hold is left absent.
func (s *TaskStore) UpdateTask(ctx context.Context, id int64, input model.UpdateTaskInput) (model.Task, error) {
	s.begin()
	defer s.loading.Set(false)

	task, err := s.api.Update(ctx, id, input)
	if err != nil {
		s.fail(err, "Failed to update task", true)
		return model.Task{}, err
	}
	s.tasks.Update(func(tasks []model.Task) []model.Task {
		return replaceTask(tasks, task)
	})
	s.notifier.Success("Task updated")
	return task, nil
}

func replaceTask(tasks []model.Task, task model.Task) []model.Task {
	idx := slices.IndexFunc(tasks, func(t model.Task) bool { return t.ID == task.ID })
	if idx < 0 {
		return tasks
	}
	out := slices.Clone(tasks)
	out[idx] = task
	return out
}

func (s *TaskStore) UpdateTaskStatus(ctx context.Context, id int64, status model.TaskStatus) (model.Task, error) {
	return s.UpdateTask(ctx, id, model.UpdateTaskInput{Status: &status})
}

func (s *TaskStore) RemoveTask(ctx context.Context, id int64) error {
	s.begin()
	defer s.loading.Set(false)

	if err := s.api.Delete(ctx, id); err != nil {
		s.fail(err, "Failed to delete task", true)
		return err
	}
	s.tasks.Update(func(tasks []model.Task) []model.Task {
		return slices.DeleteFunc(slices.Clone(tasks), func(t model.Task) bool { return t.ID == id })
	})
	s.notifier.Success("Task deleted")
	return nil
}

func (s *TaskStore) SetSelectedWorkspace(ws model.Workspace) {
	s.workspace.Set(ws)
}

func (s *TaskStore) SelectedWorkspace() model.Workspace {
	return s.workspace.Get()
}

// Tasks returns a snapshot of the whole cache.
func (s *TaskStore) Tasks() []model.Task {
	return slices.Clone(s.tasks.Get())
}

func (s *TaskStore) Task(id int64) (model.Task, bool) {
	for _, task := range s.tasks.Get() {
		if task.ID == id {
			return task, true
		}
	}
	return model.Task{}, false
}

func (s *TaskStore) TasksByStatus(status model.TaskStatus) []model.Task {
	if view, ok := s.byStatus[status]; ok {
		return view.Get()
	}
	return nil
}

func (s *TaskStore) TasksByWorkspace(ws model.Workspace) []model.Task {
	if view, ok := s.byWorkspace[ws]; ok {
		return view.Get()
	}
	return nil
}

// CurrentTasksByStatus is the board column: selected workspace and status.
func (s *TaskStore) CurrentTasksByStatus(status model.TaskStatus) []model.Task {
	if view, ok := s.current[status]; ok {
		return view.Get()
	}
	return nil
}

func (s *TaskStore) Loading() bool {
	return s.loading.Get()
}

func (s *TaskStore) Error() string {
	return s.err.Get()
}

// Subscribe calls fn after any change to the cache, flags or workspace.
func (s *TaskStore) Subscribe(fn func()) func() {
	return subscribeAll(fn, s.tasks, s.loading, s.err, s.workspace)
}

func (s *TaskStore) begin() {
	s.loading.Set(true)
	s.err.Set("")
}

func (s *TaskStore) fail(err error, fallback string, notify bool) {
	msg := errorMessage(err, fallback)
	s.log.Error().Err(err).Msg(msg)
	s.err.Set(msg)
	if notify {
		s.notifier.Error(msg)
	}
}
