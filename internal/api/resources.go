package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Joseda-hg/tasker/internal/model"
)

type TaskClient struct {
	c *Client
}

func NewTaskClient(c *Client) *TaskClient {
	return &TaskClient{c: c}
}

// List returns the tasks matching filters. Zero-valued filter fields are omitted.
func (t *TaskClient) List(ctx context.Context, filters *model.TaskFilters) ([]model.Task, error) {
	query := url.Values{}
	if filters != nil {
		if filters.Workspace != "" {
			query.Set("workspace", string(filters.Workspace))
		}
		if filters.Status != "" {
			query.Set("status", string(filters.Status))
		}
		if filters.ChannelID != nil {
			query.Set("channelId", strconv.FormatInt(*filters.ChannelID, 10))
		}
	}
	var tasks []model.Task
	err := t.c.do(ctx, call{res: taskResource, operation: "fetching tasks", method: http.MethodGet, path: "/tasks", query: query, out: &tasks})
	return tasks, err
}

func (t *TaskClient) Get(ctx context.Context, id int64) (model.Task, error) {
	var task model.Task
	err := t.c.do(ctx, call{res: taskResource, operation: "fetching task", method: http.MethodGet, path: idPath("/tasks/%d", id), out: &task})
	return task, err
}

func (t *TaskClient) Create(ctx context.Context, input model.CreateTaskInput) (model.Task, error) {
	var task model.Task
	err := t.c.do(ctx, call{res: taskResource, operation: "creating task", method: http.MethodPost, path: "/tasks", body: input, out: &task})
	return task, err
}

func (t *TaskClient) Update(ctx context.Context, id int64, input model.UpdateTaskInput) (model.Task, error) {
	var task model.Task
	err := t.c.do(ctx, call{res: taskResource, operation: "updating task", method: http.MethodPatch, path: idPath("/tasks/%d", id), body: input, out: &task})
	return task, err
}

func (t *TaskClient) Delete(ctx context.Context, id int64) error {
	return t.c.do(ctx, call{res: taskResource, operation: "deleting task", method: http.MethodDelete, path: idPath("/tasks/%d", id)})
}

type SubtaskClient struct {
	c *Client
}

func NewSubtaskClient(c *Client) *SubtaskClient {
	return &SubtaskClient{c: c}
}

func (s *SubtaskClient) List(ctx context.Context, taskID int64) ([]model.Subtask, error) {
	var subtasks []model.Subtask
	err := s.c.do(ctx, call{res: subtaskResource, operation: "fetching subtasks", method: http.MethodGet, path: idPath("/tasks/%d/subtasks", taskID), out: &subtasks})
	return subtasks, err
}

func (s *SubtaskClient) Create(ctx context.Context, taskID int64, input model.CreateSubtaskInput) (model.Subtask, error) {
	var subtask model.Subtask
	err := s.c.do(ctx, call{res: subtaskResource, operation: "creating subtask", method: http.MethodPost, path: idPath("/tasks/%d/subtasks", taskID), body: input, out: &subtask})
	return subtask, err
}

func (s *SubtaskClient) Update(ctx context.Context, id int64, input model.UpdateSubtaskInput) (model.Subtask, error) {
	var subtask model.Subtask
	err := s.c.do(ctx, call{res: subtaskResource, operation: "updating subtask", method: http.MethodPatch, path: idPath("/subtasks/%d", id), body: input, out: &subtask})
	return subtask, err
}

func (s *SubtaskClient) Delete(ctx context.Context, id int64) error {
	return s.c.do(ctx, call{res: subtaskResource, operation: "deleting subtask", method: http.MethodDelete, path: idPath("/subtasks/%d", id)})
}

func (s *SubtaskClient) Reorder(ctx context.Context, id int64, position int) (model.Subtask, error) {
	var subtask model.Subtask
	err := s.c.do(ctx, call{
		res:       subtaskResource,
		operation: "reordering subtask",
		method:    http.MethodPatch,
		path:      idPath("/subtasks/%d/reorder", id),
		body:      model.ReorderSubtaskInput{Position: position},
		out:       &subtask,
	})
	return subtask, err
}

type TagClient struct {
	c *Client
}

func NewTagClient(c *Client) *TagClient {
	return &TagClient{c: c}
}

func (t *TagClient) List(ctx context.Context) ([]model.Tag, error) {
	var tags []model.Tag
	err := t.c.do(ctx, call{res: tagResource, operation: "fetching tags", method: http.MethodGet, path: "/tags", out: &tags})
	return tags, err
}

func (t *TagClient) Create(ctx context.Context, input model.CreateTagInput) (model.Tag, error) {
	var tag model.Tag
	err := t.c.do(ctx, call{res: tagResource, operation: "creating tag", method: http.MethodPost, path: "/tags", body: input, out: &tag})
	return tag, err
}

func (t *TagClient) Update(ctx context.Context, id int64, input model.UpdateTagInput) (model.Tag, error) {
	var tag model.Tag
	err := t.c.do(ctx, call{res: tagResource, operation: "updating tag", method: http.MethodPatch, path: idPath("/tags/%d", id), body: input, out: &tag})
	return tag, err
}

func (t *TagClient) Delete(ctx context.Context, id int64) error {
	return t.c.do(ctx, call{res: tagResource, operation: "deleting tag", method: http.MethodDelete, path: idPath("/tags/%d", id)})
}

func (t *TagClient) ListForTask(ctx context.Context, taskID int64) ([]model.Tag, error) {
	var tags []model.Tag
	err := t.c.do(ctx, call{res: tagResource, operation: "fetching task tags", method: http.MethodGet, path: idPath("/tags/tasks/%d", taskID), out: &tags})
	return tags, err
}

func (t *TagClient) AssignToTask(ctx context.Context, taskID, tagID int64) error {
	return t.c.do(ctx, call{res: tagResource, operation: "assigning tag", method: http.MethodPost, path: idPath("/tags/tasks/%d/tags/%d", taskID, tagID)})
}

func (t *TagClient) RemoveFromTask(ctx context.Context, taskID, tagID int64) error {
	return t.c.do(ctx, call{res: tagResource, operation: "removing tag", method: http.MethodDelete, path: idPath("/tags/tasks/%d/tags/%d", taskID, tagID)})
}

type ChannelClient struct {
	c *Client
}

func NewChannelClient(c *Client) *ChannelClient {
	return &ChannelClient{c: c}
}

// List returns every channel, or only those of workspace when it is set.
func (ch *ChannelClient) List(ctx context.Context, workspace model.Workspace) ([]model.Channel, error) {
	query := url.Values{}
	if workspace != "" {
		query.Set("workspace", string(workspace))
	}
	var channels []model.Channel
	err := ch.c.do(ctx, call{res: channelResource, operation: "fetching channels", method: http.MethodGet, path: "/channels", query: query, out: &channels})
	return channels, err
}

func (ch *ChannelClient) Create(ctx context.Context, input model.CreateChannelInput) (model.Channel, error) {
	var channel model.Channel
	err := ch.c.do(ctx, call{res: channelResource, operation: "creating channel", method: http.MethodPost, path: "/channels", body: input, out: &channel})
	return channel, err
}

func (ch *ChannelClient) Update(ctx context.Context, id int64, input model.UpdateChannelInput) (model.Channel, error) {
	var channel model.Channel
	err := ch.c.do(ctx, call{res: channelResource, operation: "updating channel", method: http.MethodPatch, path: idPath("/channels/%d", id), body: input, out: &channel})
	return channel, err
}

func (ch *ChannelClient) Delete(ctx context.Context, id int64) error {
	return ch.c.do(ctx, call{res: channelResource, operation: "deleting channel", method: http.MethodDelete, path: idPath("/channels/%d", id)})
}
