package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Joseda-hg/tasker/internal/model"
)

var ErrNotFound = errors.New("not found")

// ValidationError reports input the store refuses to persist.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

type Store struct {
	DB  *sql.DB
	now func() time.Time
}

func NewStore(db *sql.DB) *Store {
	return &Store{DB: db, now: func() time.Time { return time.Now().UTC() }}
}

const taskColumns = "id, title, description, workspace, channel_id, status, due_date, is_routine, created_at, updated_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (model.Task, error) {
	var (
		task        model.Task
		description sql.NullString
		channelID   sql.NullInt64
		dueDate     sql.NullTime
		workspace   string
		status      string
	)
	if err := row.Scan(&task.ID, &task.Title, &description, &workspace, &channelID, &status, &dueDate, &task.IsRoutine, &task.CreatedAt, &task.UpdatedAt); err != nil {
		return model.Task{}, err
	}
	task.Workspace = model.Workspace(workspace)
	task.Status = model.TaskStatus(status)
	if description.Valid {
		task.Description = &description.String
	}
	if channelID.Valid {
		id := channelID.Int64
		task.ChannelID = &id
	}
	if dueDate.Valid {
		due := dueDate.Time
		task.DueDate = &due
	}
	return task, nil
}

func (s *Store) CreateTask(ctx context.Context, input model.CreateTaskInput) (model.Task, error) {
	task := model.Task{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Workspace:   input.Workspace,
		ChannelID:   input.ChannelID,
		Status:      input.Status,
		DueDate:     input.DueDate,
	}
	if task.Status == "" {
		task.Status = model.StatusBacklog
	}
	if input.IsRoutine != nil {
		task.IsRoutine = *input.IsRoutine
	}
	if err := validateTask(task); err != nil {
		return model.Task{}, err
	}
	if err := s.ensureChannel(ctx, task.ChannelID); err != nil {
		return model.Task{}, err
	}

	now := s.now()
	res, err := s.DB.ExecContext(ctx,
		`INSERT INTO tasks (title, description, workspace, channel_id, status, due_date, is_routine, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.Title, nullString(task.Description), string(task.Workspace), nullInt64(task.ChannelID),
		string(task.Status), nullTime(task.DueDate), task.IsRoutine, now, now,
	)
	if err != nil {
		return model.Task{}, fmt.Errorf("insert task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Task{}, err
	}
	return s.GetTask(ctx, id)
}

func (s *Store) GetTask(ctx context.Context, taskID int64) (model.Task, error) {
	row := s.DB.QueryRowContext(ctx, "SELECT "+taskColumns+" FROM tasks WHERE id = ?", taskID)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Task{}, ErrNotFound
	}
	return task, err
}

func (s *Store) ListTasks(ctx context.Context, filters model.TaskFilters) ([]model.Task, error) {
	clauses := []string{}
	args := []any{}
	if filters.Workspace != "" {
		clauses = append(clauses, "workspace = ?")
		args = append(args, string(filters.Workspace))
	}
	if filters.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, string(filters.Status))
	}
	if filters.ChannelID != nil {
		clauses = append(clauses, "channel_id = ?")
		args = append(args, *filters.ChannelID)
	}

	query := "SELECT " + taskColumns + " FROM tasks"
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY id"

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []model.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, task)
	}
	return result, rows.Err()
}

func (s *Store) UpdateTask(ctx context.Context, taskID int64, input model.UpdateTaskInput) (model.Task, error) {
	task, err := s.GetTask(ctx, taskID)
	if err != nil {
		return model.Task{}, err
	}

	if input.Title != nil {
		task.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description.Set {
		task.Description = input.Description.Value
	}
	if input.Workspace != nil {
		task.Workspace = *input.Workspace
	}
	if input.ChannelID.Set {
		task.ChannelID = input.ChannelID.Value
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.DueDate.Set {
		task.DueDate = input.DueDate.Value
	}
	if input.IsRoutine != nil {
		task.IsRoutine = *input.IsRoutine
	}
	if err := validateTask(task); err != nil {
		return model.Task{}, err
	}
	if err := s.ensureChannel(ctx, task.ChannelID); err != nil {
		return model.Task{}, err
	}

	if _, err := s.DB.ExecContext(ctx,
		`UPDATE tasks SET title = ?, description = ?, workspace = ?, channel_id = ?, status = ?, due_date = ?, is_routine = ?, updated_at = ?
		 WHERE id = ?`,
		task.Title, nullString(task.Description), string(task.Workspace), nullInt64(task.ChannelID),
		string(task.Status), nullTime(task.DueDate), task.IsRoutine, s.now(), taskID,
	); err != nil {
		return model.Task{}, fmt.Errorf("update task: %w", err)
	}
	return s.GetTask(ctx, taskID)
}

func (s *Store) DeleteTask(ctx context.Context, taskID int64) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM subtasks WHERE task_id = ?", taskID); err != nil {
		return fmt.Errorf("delete subtasks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM task_tags WHERE task_id = ?", taskID); err != nil {
		return fmt.Errorf("delete task tags: %w", err)
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", taskID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if err := expectAffected(res); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) ensureChannel(ctx context.Context, channelID *int64) error {
	if channelID == nil {
		return nil
	}
	if _, err := s.GetChannel(ctx, *channelID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return invalid("channel %d does not exist", *channelID)
		}
		return err
	}
	return nil
}

func validateTask(task model.Task) error {
	if task.Title == "" {
		return invalid("title is required")
	}
	if !task.Workspace.Valid() {
		return invalid("workspace must be one of WORK, PERSONAL")
	}
	if !task.Status.Valid() {
		return invalid("status must be one of BACKLOG, TODAY, IN_PROGRESS, DONE")
	}
	return nil
}

func expectAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func nullString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}

func nullInt64(value *int64) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *value, Valid: true}
}

func nullTime(value *time.Time) sql.NullTime {
	if value == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: value.UTC(), Valid: true}
}
