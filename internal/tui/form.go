package tui

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Joseda-hg/tasker/internal/model"
)

// formField is either free text or, when options is set, a value cycled with
// space and the arrow keys. optionIDs runs parallel to options where the
// choice maps to a record.
type formField struct {
	Label     string
	Value     string
	options   []string
	optionIDs []int64
}

func (f *formField) cycle(delta int) {
	if len(f.options) == 0 {
		return
	}
	idx := slices.Index(f.options, f.Value)
	if idx < 0 {
		idx = 0
	} else {
		idx = (idx + delta + len(f.options)) % len(f.options)
	}
	f.Value = f.options[idx]
}

func (f *formField) selectedID() *int64 {
	idx := slices.Index(f.options, f.Value)
	if idx < 0 || idx >= len(f.optionIDs) || f.optionIDs[idx] == 0 {
		return nil
	}
	id := f.optionIDs[idx]
	return &id
}

type formKind int

const (
	formTask formKind = iota
	formSubtask
)

type formState struct {
	kind      formKind
	taskID    int64
	subtaskID int64
	fields    []formField
	index     int
}

const (
	fieldTitle = iota
	fieldDescription
	fieldWorkspace
	fieldStatus
	fieldChannel
	fieldDue
	fieldRoutine
)

const (
	subfieldTitle = iota
	subfieldDescription
	subfieldStatus
)

const noChannel = "none"

func stringsOf[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

// buildTaskFields prefills from task, or from the defaults when task is nil.
func buildTaskFields(task *model.Task, ws model.Workspace, status model.TaskStatus, channels []model.Channel) []formField {
	channelField := formField{Label: "Channel", Value: noChannel, options: []string{noChannel}, optionIDs: []int64{0}}
	for _, c := range channels {
		channelField.options = append(channelField.options, channelOption(c))
		channelField.optionIDs = append(channelField.optionIDs, c.ID)
	}

	fields := []formField{
		{Label: "Title"},
		{Label: "Description"},
		{Label: "Workspace", Value: string(ws), options: stringsOf(model.Workspaces)},
		{Label: "Status", Value: string(status), options: stringsOf(model.TaskStatuses)},
		channelField,
		{Label: "Due (YYYY-MM-DD)"},
		{Label: "Routine", Value: "no", options: []string{"no", "yes"}},
	}
	if task == nil {
		return fields
	}

	fields[fieldTitle].Value = task.Title
	if task.Description != nil {
		fields[fieldDescription].Value = *task.Description
	}
	fields[fieldWorkspace].Value = string(task.Workspace)
	fields[fieldStatus].Value = string(task.Status)
	if task.ChannelID != nil {
		if idx := slices.Index(channelField.optionIDs, *task.ChannelID); idx > 0 {
			fields[fieldChannel].Value = channelField.options[idx]
		}
	}
	if task.DueDate != nil {
		fields[fieldDue].Value = task.DueDate.Format(time.DateOnly)
	}
	if task.IsRoutine {
		fields[fieldRoutine].Value = "yes"
	}
	return fields
}

func channelOption(c model.Channel) string {
	return fmt.Sprintf("%s (%s)", c.Name, strings.ToLower(string(c.Workspace)))
}

type taskForm struct {
	title       string
	description *string
	workspace   model.Workspace
	status      model.TaskStatus
	channelID   *int64
	due         *time.Time
	routine     bool
}

func parseTaskFields(fields []formField) (taskForm, error) {
	form := taskForm{
		title:     strings.TrimSpace(fields[fieldTitle].Value),
		workspace: model.Workspace(fields[fieldWorkspace].Value),
		status:    model.TaskStatus(fields[fieldStatus].Value),
		channelID: fields[fieldChannel].selectedID(),
		routine:   fields[fieldRoutine].Value == "yes",
	}
	if form.title == "" {
		return taskForm{}, errors.New("title is required")
	}
	if description := strings.TrimSpace(fields[fieldDescription].Value); description != "" {
		form.description = &description
	}
	due, err := parseDue(fields[fieldDue].Value)
	if err != nil {
		return taskForm{}, err
	}
	form.due = due
	return form, nil
}

func (f taskForm) createInput() model.CreateTaskInput {
	return model.CreateTaskInput{
		Title:       f.title,
		Workspace:   f.workspace,
		Description: f.description,
		ChannelID:   f.channelID,
		Status:      f.status,
		DueDate:     f.due,
		IsRoutine:   model.Ptr(f.routine),
	}
}

// updateInput sends every field; blank optional fields clear the stored value.
func (f taskForm) updateInput() model.UpdateTaskInput {
	return model.UpdateTaskInput{
		Title:       model.Ptr(f.title),
		Description: nullable(f.description),
		Workspace:   model.Ptr(f.workspace),
		ChannelID:   nullable(f.channelID),
		Status:      model.Ptr(f.status),
		DueDate:     nullable(f.due),
		IsRoutine:   model.Ptr(f.routine),
	}
}

func nullable[T any](v *T) model.Nullable[T] {
	if v == nil {
		return model.Null[T]()
	}
	return model.Some(*v)
}

func parseDue(value string) (*time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.DateOnly, trimmed)
	if err != nil {
		return nil, fmt.Errorf("invalid due date %q", trimmed)
	}
	return &parsed, nil
}

func buildSubtaskFields(st *model.Subtask) []formField {
	fields := []formField{
		{Label: "Title"},
		{Label: "Description"},
		{Label: "Status", Value: string(model.SubtaskTodo), options: stringsOf(model.SubtaskStatuses)},
	}
	if st == nil {
		return fields
	}
	fields[subfieldTitle].Value = st.Title
	if st.Description != nil {
		fields[subfieldDescription].Value = *st.Description
	}
	fields[subfieldStatus].Value = string(st.Status)
	return fields
}

func parseSubtaskCreate(fields []formField) (model.CreateSubtaskInput, error) {
	title := strings.TrimSpace(fields[subfieldTitle].Value)
	if title == "" {
		return model.CreateSubtaskInput{}, errors.New("title is required")
	}
	input := model.CreateSubtaskInput{Title: title, Status: model.SubtaskStatus(fields[subfieldStatus].Value)}
	if description := strings.TrimSpace(fields[subfieldDescription].Value); description != "" {
		input.Description = &description
	}
	return input, nil
}

func parseSubtaskUpdate(fields []formField) (model.UpdateSubtaskInput, error) {
	created, err := parseSubtaskCreate(fields)
	if err != nil {
		return model.UpdateSubtaskInput{}, err
	}
	return model.UpdateSubtaskInput{
		Title:       model.Ptr(created.Title),
		Description: nullable(created.Description),
		Status:      model.Ptr(created.Status),
	}, nil
}
