package model

import "time"

type Workspace string

const (
	WorkspaceWork     Workspace = "WORK"
	WorkspacePersonal Workspace = "PERSONAL"
)

var Workspaces = []Workspace{WorkspaceWork, WorkspacePersonal}

func (w Workspace) Valid() bool {
	return w == WorkspaceWork || w == WorkspacePersonal
}

type TaskStatus string

const (
	StatusBacklog    TaskStatus = "BACKLOG"
	StatusToday      TaskStatus = "TODAY"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusDone       TaskStatus = "DONE"
)

// TaskStatuses is the kanban column order.
var TaskStatuses = []TaskStatus{StatusBacklog, StatusToday, StatusInProgress, StatusDone}

func (s TaskStatus) Valid() bool {
	for _, status := range TaskStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type SubtaskStatus string

const (
	SubtaskTodo  SubtaskStatus = "TODO"
	SubtaskDoing SubtaskStatus = "DOING"
	SubtaskDone  SubtaskStatus = "DONE"
)

var SubtaskStatuses = []SubtaskStatus{SubtaskTodo, SubtaskDoing, SubtaskDone}

func (s SubtaskStatus) Valid() bool {
	return s == SubtaskTodo || s == SubtaskDoing || s == SubtaskDone
}

type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Workspace   Workspace  `json:"workspace"`
	ChannelID   *int64     `json:"channelId"`
	Status      TaskStatus `json:"status"`
	DueDate     *time.Time `json:"dueDate"`
	IsRoutine   bool       `json:"isRoutine"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type Subtask struct {
	ID          int64         `json:"id"`
	Title       string        `json:"title"`
	Description *string       `json:"description"`
	TaskID      int64         `json:"taskId"`
	Status      SubtaskStatus `json:"status"`
	Position    int           `json:"position"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

type Channel struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Workspace Workspace `json:"workspace"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"createdAt"`
}

type Tag struct {
	ID         int64       `json:"id"`
	Name       string      `json:"name"`
	Color      string      `json:"color"`
	Workspaces []Workspace `json:"workspaces"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// AppliesTo reports whether the tag is scoped to the workspace.
func (t Tag) AppliesTo(ws Workspace) bool {
	for _, w := range t.Workspaces {
		if w == ws {
			return true
		}
	}
	return false
}

// TaskFilters narrows a task listing. Zero values mean "any".
type TaskFilters struct {
	Workspace Workspace
	Status    TaskStatus
	ChannelID *int64
}

type CreateTaskInput struct {
	Title       string     `json:"title"`
	Workspace   Workspace  `json:"workspace"`
	Description *string    `json:"description,omitempty"`
	ChannelID   *int64     `json:"channelId,omitempty"`
	Status      TaskStatus `json:"status,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	IsRoutine   *bool      `json:"isRoutine,omitempty"`
}

type UpdateTaskInput struct {
	Title       *string             `json:"title,omitempty"`
	Description Nullable[string]    `json:"description,omitzero"`
	Workspace   *Workspace          `json:"workspace,omitempty"`
	ChannelID   Nullable[int64]     `json:"channelId,omitzero"`
	Status      *TaskStatus         `json:"status,omitempty"`
	DueDate     Nullable[time.Time] `json:"dueDate,omitzero"`
	IsRoutine   *bool               `json:"isRoutine,omitempty"`
}

type CreateSubtaskInput struct {
	Title       string        `json:"title"`
	Description *string       `json:"description,omitempty"`
	Status      SubtaskStatus `json:"status,omitempty"`
	Position    *int          `json:"position,omitempty"`
}

type UpdateSubtaskInput struct {
	Title       *string          `json:"title,omitempty"`
	Description Nullable[string] `json:"description,omitzero"`
	Status      *SubtaskStatus   `json:"status,omitempty"`
	Position    *int             `json:"position,omitempty"`
}

type ReorderSubtaskInput struct {
	Position int `json:"position"`
}

type CreateChannelInput struct {
	Name      string    `json:"name"`
	Workspace Workspace `json:"workspace"`
	Color     string    `json:"color,omitempty"`
}

type UpdateChannelInput struct {
	Name      *string    `json:"name,omitempty"`
	Workspace *Workspace `json:"workspace,omitempty"`
	Color     *string    `json:"color,omitempty"`
}

type CreateTagInput struct {
	Name       string      `json:"name"`
	Color      string      `json:"color,omitempty"`
	Workspaces []Workspace `json:"workspaces,omitempty"`
}

type UpdateTagInput struct {
	Name       *string     `json:"name,omitempty"`
	Color      *string     `json:"color,omitempty"`
	Workspaces []Workspace `json:"workspaces,omitempty"`
}

func Ptr[T any](v T) *T {
	return &v
}
