package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Joseda-hg/tasker/internal/board"
	"github.com/Joseda-hg/tasker/internal/model"
	"github.com/Joseda-hg/tasker/internal/notify"
)

var columnTitles = map[model.TaskStatus]string{
	model.StatusBacklog:    "Backlog",
	model.StatusToday:      "Today",
	model.StatusInProgress: "In Progress",
	model.StatusDone:       "Done",
}

func columnTitle(index int, status model.TaskStatus, layout board.Layout, count int) string {
	title := fmt.Sprintf("%d %s (%d)", index+1, columnTitles[status], count)
	if status == model.StatusInProgress && layout == board.LayoutFocus {
		title += " WIP 1"
	}
	return title
}

// formatDue renders a due date relative to now, flagging overdue tasks.
func formatDue(due *time.Time, status model.TaskStatus, now time.Time) string {
	if due == nil {
		return ""
	}
	label := "due " + humanize.RelTime(*due, now, "ago", "from now")
	if status != model.StatusDone && due.Before(now) {
		label = "overdue " + humanize.RelTime(*due, now, "", "")
		label = strings.TrimSpace(label)
	}
	return label
}

func formatTaskSummary(task model.Task, channel string, progress int, hasSubtasks bool, now time.Time) string {
	parts := []string{task.Title}
	if channel != "" {
		parts = append(parts, "#"+channel)
	}
	if due := formatDue(task.DueDate, task.Status, now); due != "" {
		parts = append(parts, due)
	}
	if task.IsRoutine {
		parts = append(parts, "routine")
	}
	if hasSubtasks {
		parts = append(parts, fmt.Sprintf("%d%%", progress))
	}
	return strings.Join(parts, " | ")
}

var subtaskMarkers = map[model.SubtaskStatus]string{
	model.SubtaskTodo:  "[ ]",
	model.SubtaskDoing: "[~]",
	model.SubtaskDone:  "[x]",
}

func formatSubtask(st model.Subtask) string {
	return fmt.Sprintf("%s %s", subtaskMarkers[st.Status], st.Title)
}

// nextSubtaskStatus cycles TODO -> DOING -> DONE -> TODO.
func nextSubtaskStatus(current model.SubtaskStatus) model.SubtaskStatus {
	for i, status := range model.SubtaskStatuses {
		if status == current {
			return model.SubtaskStatuses[(i+1)%len(model.SubtaskStatuses)]
		}
	}
	return model.SubtaskTodo
}

func formatNotification(n *notify.Notification) string {
	if n == nil {
		return ""
	}
	if n.Kind == notify.KindError {
		return "! " + n.Message
	}
	return "* " + n.Message
}

func otherWorkspace(ws model.Workspace) model.Workspace {
	if ws == model.WorkspaceWork {
		return model.WorkspacePersonal
	}
	return model.WorkspaceWork
}
