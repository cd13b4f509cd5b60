package state_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Joseda-hg/tasker/internal/api"
	"github.com/Joseda-hg/tasker/internal/model"
)

type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, message)
}

func (n *recordingNotifier) Error(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, message)
}

func (n *recordingNotifier) last() (string, string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	var s, e string
	if len(n.successes) > 0 {
		s = n.successes[len(n.successes)-1]
	}
	if len(n.errors) > 0 {
		e = n.errors[len(n.errors)-1]
	}
	return s, e
}

// fakeTaskAPI keeps tasks in memory and counts update calls.
type fakeTaskAPI struct {
	mu       sync.Mutex
	tasks    []model.Task
	nextID   int64
	updates  int
	failNext error
}

func (f *fakeTaskAPI) fail(err error) {
	f.mu.Lock()
	f.failNext = err
	f.mu.Unlock()
}

func (f *fakeTaskAPI) takeFailure() error {
	err := f.failNext
	f.failNext = nil
	return err
}

func (f *fakeTaskAPI) List(_ context.Context, filters *model.TaskFilters) ([]model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFailure(); err != nil {
		return nil, err
	}
	var out []model.Task
	for _, task := range f.tasks {
		if filters != nil && filters.Workspace != "" && task.Workspace != filters.Workspace {
			continue
		}
		if filters != nil && filters.Status != "" && task.Status != filters.Status {
			continue
		}
		out = append(out, task)
	}
	return out, nil
}

func (f *fakeTaskAPI) Create(_ context.Context, input model.CreateTaskInput) (model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFailure(); err != nil {
		return model.Task{}, err
	}
	f.nextID++
	status := input.Status
	if status == "" {
		status = model.StatusBacklog
	}
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	task := model.Task{ID: f.nextID, Title: input.Title, Workspace: input.Workspace, Status: status, CreatedAt: now, UpdatedAt: now}
	f.tasks = append(f.tasks, task)
	return task, nil
}

func (f *fakeTaskAPI) Update(_ context.Context, id int64, input model.UpdateTaskInput) (model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	if err := f.takeFailure(); err != nil {
		return model.Task{}, err
	}
	for i, task := range f.tasks {
		if task.ID != id {
			continue
		}
		if input.Status != nil {
			task.Status = *input.Status
		}
		if input.Title != nil {
			task.Title = *input.Title
		}
		if input.Workspace != nil {
			task.Workspace = *input.Workspace
		}
		f.tasks[i] = task
		return task, nil
	}
	return model.Task{}, &api.Error{Kind: api.KindNotFound, Status: 404, Message: "Task not found"}
}

func (f *fakeTaskAPI) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFailure(); err != nil {
		return err
	}
	for i, task := range f.tasks {
		if task.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeTaskAPI) updateCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.updates
}

type fakeSubtaskAPI struct {
	subtasks map[int64][]model.Subtask
	nextID   int64
	failNext error
}

func newFakeSubtaskAPI() *fakeSubtaskAPI {
	return &fakeSubtaskAPI{subtasks: map[int64][]model.Subtask{}}
}

func (f *fakeSubtaskAPI) takeFailure() error {
	err := f.failNext
	f.failNext = nil
	return err
}

func (f *fakeSubtaskAPI) List(_ context.Context, taskID int64) ([]model.Subtask, error) {
	if err := f.takeFailure(); err != nil {
		return nil, err
	}
	return append([]model.Subtask(nil), f.subtasks[taskID]...), nil
}

func (f *fakeSubtaskAPI) Create(_ context.Context, taskID int64, input model.CreateSubtaskInput) (model.Subtask, error) {
	if err := f.takeFailure(); err != nil {
		return model.Subtask{}, err
	}
	f.nextID++
	subtask := model.Subtask{ID: f.nextID, TaskID: taskID, Title: input.Title, Status: model.SubtaskTodo, Position: len(f.subtasks[taskID])}
	if input.Position != nil {
		subtask.Position = *input.Position
	}
	if input.Status != "" {
		subtask.Status = input.Status
	}
	f.subtasks[taskID] = append(f.subtasks[taskID], subtask)
	return subtask, nil
}

func (f *fakeSubtaskAPI) find(id int64) (int64, int) {
	for taskID, bucket := range f.subtasks {
		for i, st := range bucket {
			if st.ID == id {
				return taskID, i
			}
		}
	}
	return 0, -1
}

func (f *fakeSubtaskAPI) Update(_ context.Context, id int64, input model.UpdateSubtaskInput) (model.Subtask, error) {
	if err := f.takeFailure(); err != nil {
		return model.Subtask{}, err
	}
	taskID, i := f.find(id)
	if i < 0 {
		return model.Subtask{}, &api.Error{Kind: api.KindNotFound, Status: 404, Message: "Subtask not found"}
	}
	st := f.subtasks[taskID][i]
	if input.Status != nil {
		st.Status = *input.Status
	}
	if input.Title != nil {
		st.Title = *input.Title
	}
	if input.Position != nil {
		st.Position = *input.Position
	}
	f.subtasks[taskID][i] = st
	return st, nil
}

func (f *fakeSubtaskAPI) Delete(_ context.Context, id int64) error {
	if err := f.takeFailure(); err != nil {
		return err
	}
	taskID, i := f.find(id)
	if i < 0 {
		return &api.Error{Kind: api.KindNotFound, Status: 404, Message: "Subtask not found"}
	}
	bucket := f.subtasks[taskID]
	f.subtasks[taskID] = append(bucket[:i], bucket[i+1:]...)
	return nil
}

func (f *fakeSubtaskAPI) Reorder(ctx context.Context, id int64, position int) (model.Subtask, error) {
	return f.Update(ctx, id, model.UpdateSubtaskInput{Position: &position})
}

var errBoom = errors.New("boom")
