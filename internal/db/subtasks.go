package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Joseda-hg/tasker/internal/model"
)

const subtaskColumns = "id, task_id, title, description, status, position, created_at, updated_at"

func scanSubtask(row rowScanner) (model.Subtask, error) {
	var (
		subtask     model.Subtask
		description sql.NullString
		status      string
	)
	if err := row.Scan(&subtask.ID, &subtask.TaskID, &subtask.Title, &description, &status, &subtask.Position, &subtask.CreatedAt, &subtask.UpdatedAt); err != nil {
		return model.Subtask{}, err
	}
	subtask.Status = model.SubtaskStatus(status)
	if description.Valid {
		subtask.Description = &description.String
	}
	return subtask, nil
}

func (s *Store) ListSubtasks(ctx context.Context, taskID int64) ([]model.Subtask, error) {
	if _, err := s.GetTask(ctx, taskID); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, "SELECT "+subtaskColumns+" FROM subtasks WHERE task_id = ? ORDER BY position, id", taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []model.Subtask{}
	for rows.Next() {
		subtask, err := scanSubtask(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, subtask)
	}
	return result, rows.Err()
}

func (s *Store) GetSubtask(ctx context.Context, subtaskID int64) (model.Subtask, error) {
	row := s.DB.QueryRowContext(ctx, "SELECT "+subtaskColumns+" FROM subtasks WHERE id = ?", subtaskID)
	subtask, err := scanSubtask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Subtask{}, ErrNotFound
	}
	return subtask, err
}

// CreateSubtask appends to the end of the parent's list unless a position is given.
func (s *Store) CreateSubtask(ctx context.Context, taskID int64, input model.CreateSubtaskInput) (model.Subtask, error) {
	if _, err := s.GetTask(ctx, taskID); err != nil {
		return model.Subtask{}, err
	}

	subtask := model.Subtask{
		TaskID:      taskID,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Status:      input.Status,
	}
	if subtask.Status == "" {
		subtask.Status = model.SubtaskTodo
	}
	if err := validateSubtask(subtask); err != nil {
		return model.Subtask{}, err
	}

	if input.Position != nil {
		subtask.Position = *input.Position
	} else {
		var next int
		if err := s.DB.QueryRowContext(ctx, "SELECT COALESCE(MAX(position), -1) + 1 FROM subtasks WHERE task_id = ?", taskID).Scan(&next); err != nil {
			return model.Subtask{}, fmt.Errorf("next subtask position: %w", err)
		}
		subtask.Position = next
	}

	now := s.now()
	res, err := s.DB.ExecContext(ctx,
		`INSERT INTO subtasks (task_id, title, description, status, position, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		taskID, subtask.Title, nullString(subtask.Description), string(subtask.Status), subtask.Position, now, now,
	)
	if err != nil {
		return model.Subtask{}, fmt.Errorf("insert subtask: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Subtask{}, err
	}
	return s.GetSubtask(ctx, id)
}

func (s *Store) UpdateSubtask(ctx context.Context, subtaskID int64, input model.UpdateSubtaskInput) (model.Subtask, error) {
	subtask, err := s.GetSubtask(ctx, subtaskID)
	if err != nil {
		return model.Subtask{}, err
	}

	if input.Title != nil {
		subtask.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description.Set {
		subtask.Description = input.Description.Value
	}
	if input.Status != nil {
		subtask.Status = *input.Status
	}
	if input.Position != nil {
		subtask.Position = *input.Position
	}
	if err := validateSubtask(subtask); err != nil {
		return model.Subtask{}, err
	}

	if _, err := s.DB.ExecContext(ctx,
		"UPDATE subtasks SET title = ?, description = ?, status = ?, position = ?, updated_at = ? WHERE id = ?",
		subtask.Title, nullString(subtask.Description), string(subtask.Status), subtask.Position, s.now(), subtaskID,
	); err != nil {
		return model.Subtask{}, fmt.Errorf("update subtask: %w", err)
	}
	return s.GetSubtask(ctx, subtaskID)
}

// ReorderSubtask moves one subtask to a new position. Siblings are not renumbered.
func (s *Store) ReorderSubtask(ctx context.Context, subtaskID int64, position int) (model.Subtask, error) {
	if position < 0 {
		return model.Subtask{}, invalid("position must not be negative")
	}
	return s.UpdateSubtask(ctx, subtaskID, model.UpdateSubtaskInput{Position: &position})
}

func (s *Store) DeleteSubtask(ctx context.Context, subtaskID int64) error {
	res, err := s.DB.ExecContext(ctx, "DELETE FROM subtasks WHERE id = ?", subtaskID)
	if err != nil {
		return fmt.Errorf("delete subtask: %w", err)
	}
	return expectAffected(res)
}

func validateSubtask(subtask model.Subtask) error {
	if subtask.Title == "" {
		return invalid("title is required")
	}
	if !subtask.Status.Valid() {
		return invalid("status must be one of TODO, DOING, DONE")
	}
	return nil
}
