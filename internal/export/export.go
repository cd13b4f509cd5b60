// Package export writes the board to an xlsx workbook, one sheet per column.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Joseda-hg/tasker/internal/model"
)

var sheetNames = map[model.TaskStatus]string{
	model.StatusBacklog:    "Backlog",
	model.StatusToday:      "Today",
	model.StatusInProgress: "In Progress",
	model.StatusDone:       "Done",
}

var header = []string{"ID", "Title", "Workspace", "Channel", "Due", "Routine", "Description", "Updated"}

func SheetName(status model.TaskStatus) string {
	return sheetNames[status]
}

// WriteBoard lays out tasks in board column order. Channel ids resolve to names
// through channels; unknown ids are left blank.
func WriteBoard(w io.Writer, tasks []model.Task, channels []model.Channel) error {
	f := excelize.NewFile()
	defer f.Close()

	channelNames := make(map[int64]string, len(channels))
	for _, c := range channels {
		channelNames[c.ID] = c.Name
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("export: header style: %w", err)
	}

	for i, status := range model.TaskStatuses {
		sheet := sheetNames[status]
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return fmt.Errorf("export: rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("export: add sheet %s: %w", sheet, err)
		}

		if err := writeRow(f, sheet, 1, toAny(header)); err != nil {
			return err
		}
		last, _ := excelize.CoordinatesToCellName(len(header), 1)
		if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
			return fmt.Errorf("export: style header: %w", err)
		}
		if err := f.SetColWidth(sheet, "B", "B", 40); err != nil {
			return fmt.Errorf("export: column width: %w", err)
		}

		row := 2
		for _, task := range tasks {
			if task.Status != status {
				continue
			}
			if err := writeRow(f, sheet, row, taskRow(task, channelNames)); err != nil {
				return err
			}
			row++
		}
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}

func taskRow(task model.Task, channelNames map[int64]string) []any {
	var channel, due, description string
	if task.ChannelID != nil {
		channel = channelNames[*task.ChannelID]
	}
	if task.DueDate != nil {
		due = task.DueDate.Format(time.DateOnly)
	}
	if task.Description != nil {
		description = *task.Description
	}
	routine := "no"
	if task.IsRoutine {
		routine = "yes"
	}
	updated := ""
	if !task.UpdatedAt.IsZero() {
		updated = task.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return []any{task.ID, task.Title, string(task.Workspace), channel, due, routine, description, updated}
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("export: set %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
