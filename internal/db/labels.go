package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Joseda-hg/tasker/internal/model"
)

func (s *Store) ListChannels(ctx context.Context, workspace model.Workspace) ([]model.Channel, error) {
	query := "SELECT id, name, workspace, color, created_at FROM channels"
	args := []any{}
	if workspace != "" {
		query += " WHERE workspace = ?"
		args = append(args, string(workspace))
	}
	query += " ORDER BY name, id"

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	channels := []model.Channel{}
	for rows.Next() {
		channel, err := scanChannel(rows)
		if err != nil {
			return nil, err
		}
		channels = append(channels, channel)
	}
	return channels, rows.Err()
}

func (s *Store) GetChannel(ctx context.Context, channelID int64) (model.Channel, error) {
	row := s.DB.QueryRowContext(ctx, "SELECT id, name, workspace, color, created_at FROM channels WHERE id = ?", channelID)
	channel, err := scanChannel(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Channel{}, ErrNotFound
	}
	return channel, err
}

func (s *Store) CreateChannel(ctx context.Context, input model.CreateChannelInput) (model.Channel, error) {
	channel := model.Channel{Name: strings.TrimSpace(input.Name), Workspace: input.Workspace, Color: input.Color}
	if err := validateChannel(channel); err != nil {
		return model.Channel{}, err
	}

	res, err := s.DB.ExecContext(ctx,
		"INSERT INTO channels (name, workspace, color, created_at) VALUES (?, ?, ?, ?)",
		channel.Name, string(channel.Workspace), channel.Color, s.now(),
	)
	if err != nil {
		return model.Channel{}, fmt.Errorf("insert channel: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Channel{}, err
	}
	return s.GetChannel(ctx, id)
}

func (s *Store) UpdateChannel(ctx context.Context, channelID int64, input model.UpdateChannelInput) (model.Channel, error) {
	channel, err := s.GetChannel(ctx, channelID)
	if err != nil {
		return model.Channel{}, err
	}
	if input.Name != nil {
		channel.Name = strings.TrimSpace(*input.Name)
	}
	if input.Workspace != nil {
		channel.Workspace = *input.Workspace
	}
	if input.Color != nil {
		channel.Color = *input.Color
	}
	if err := validateChannel(channel); err != nil {
		return model.Channel{}, err
	}

	if _, err := s.DB.ExecContext(ctx,
		"UPDATE channels SET name = ?, workspace = ?, color = ? WHERE id = ?",
		channel.Name, string(channel.Workspace), channel.Color, channelID,
	); err != nil {
		return model.Channel{}, fmt.Errorf("update channel: %w", err)
	}
	return s.GetChannel(ctx, channelID)
}

// DeleteChannel detaches the channel from its tasks before removing it.
func (s *Store) DeleteChannel(ctx context.Context, channelID int64) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "UPDATE tasks SET channel_id = NULL WHERE channel_id = ?", channelID); err != nil {
		return fmt.Errorf("detach channel: %w", err)
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM channels WHERE id = ?", channelID)
	if err != nil {
		return fmt.Errorf("delete channel: %w", err)
	}
	if err := expectAffected(res); err != nil {
		return err
	}
	return tx.Commit()
}

func scanChannel(row rowScanner) (model.Channel, error) {
	var (
		channel   model.Channel
		workspace string
	)
	if err := row.Scan(&channel.ID, &channel.Name, &workspace, &channel.Color, &channel.CreatedAt); err != nil {
		return model.Channel{}, err
	}
	channel.Workspace = model.Workspace(workspace)
	return channel, nil
}

func validateChannel(channel model.Channel) error {
	if channel.Name == "" {
		return invalid("name is required")
	}
	if !channel.Workspace.Valid() {
		return invalid("workspace must be one of WORK, PERSONAL")
	}
	return nil
}

func (s *Store) ListTags(ctx context.Context) ([]model.Tag, error) {
	rows, err := s.DB.QueryContext(ctx, "SELECT id, name, color, workspaces, created_at FROM tags ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []model.Tag{}
	for rows.Next() {
		tag, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

func (s *Store) GetTag(ctx context.Context, tagID int64) (model.Tag, error) {
	row := s.DB.QueryRowContext(ctx, "SELECT id, name, color, workspaces, created_at FROM tags WHERE id = ?", tagID)
	tag, err := scanTag(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Tag{}, ErrNotFound
	}
	return tag, err
}

func (s *Store) CreateTag(ctx context.Context, input model.CreateTagInput) (model.Tag, error) {
	tag := model.Tag{Name: strings.TrimSpace(input.Name), Color: input.Color, Workspaces: normalizeWorkspaces(input.Workspaces)}
	if err := validateTag(tag); err != nil {
		return model.Tag{}, err
	}
	if err := s.ensureTagNameFree(ctx, tag.Name, 0); err != nil {
		return model.Tag{}, err
	}

	res, err := s.DB.ExecContext(ctx,
		"INSERT INTO tags (name, color, workspaces, created_at) VALUES (?, ?, ?, ?)",
		tag.Name, tag.Color, joinWorkspaces(tag.Workspaces), s.now(),
	)
	if err != nil {
		return model.Tag{}, fmt.Errorf("insert tag: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Tag{}, err
	}
	return s.GetTag(ctx, id)
}

func (s *Store) UpdateTag(ctx context.Context, tagID int64, input model.UpdateTagInput) (model.Tag, error) {
	tag, err := s.GetTag(ctx, tagID)
	if err != nil {
		return model.Tag{}, err
	}
	if input.Name != nil {
		tag.Name = strings.TrimSpace(*input.Name)
	}
	if input.Color != nil {
		tag.Color = *input.Color
	}
	if input.Workspaces != nil {
		tag.Workspaces = normalizeWorkspaces(input.Workspaces)
	}
	if err := validateTag(tag); err != nil {
		return model.Tag{}, err
	}
	if err := s.ensureTagNameFree(ctx, tag.Name, tagID); err != nil {
		return model.Tag{}, err
	}

	if _, err := s.DB.ExecContext(ctx,
		"UPDATE tags SET name = ?, color = ?, workspaces = ? WHERE id = ?",
		tag.Name, tag.Color, joinWorkspaces(tag.Workspaces), tagID,
	); err != nil {
		return model.Tag{}, fmt.Errorf("update tag: %w", err)
	}
	return s.GetTag(ctx, tagID)
}

func (s *Store) DeleteTag(ctx context.Context, tagID int64) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM task_tags WHERE tag_id = ?", tagID); err != nil {
		return fmt.Errorf("delete tag assignments: %w", err)
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM tags WHERE id = ?", tagID)
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	if err := expectAffected(res); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) AssignTag(ctx context.Context, taskID, tagID int64) error {
	if _, err := s.GetTask(ctx, taskID); err != nil {
		return err
	}
	if _, err := s.GetTag(ctx, tagID); err != nil {
		return err
	}
	_, err := s.DB.ExecContext(ctx, "INSERT OR IGNORE INTO task_tags (task_id, tag_id) VALUES (?, ?)", taskID, tagID)
	return err
}

func (s *Store) UnassignTag(ctx context.Context, taskID, tagID int64) error {
	res, err := s.DB.ExecContext(ctx, "DELETE FROM task_tags WHERE task_id = ? AND tag_id = ?", taskID, tagID)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

func (s *Store) ListTagsForTask(ctx context.Context, taskID int64) ([]model.Tag, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT t.id, t.name, t.color, t.workspaces, t.created_at
		 FROM tags t JOIN task_tags tt ON tt.tag_id = t.id
		 WHERE tt.task_id = ? ORDER BY t.name`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []model.Tag{}
	for rows.Next() {
		tag, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

func (s *Store) ensureTagNameFree(ctx context.Context, name string, exceptID int64) error {
	var id int64
	err := s.DB.QueryRowContext(ctx, "SELECT id FROM tags WHERE lower(name) = lower(?) AND id != ? LIMIT 1", name, exceptID).Scan(&id)
	if err == nil {
		return invalid("tag %q already exists", name)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	return err
}

func scanTag(row rowScanner) (model.Tag, error) {
	var (
		tag        model.Tag
		workspaces string
	)
	if err := row.Scan(&tag.ID, &tag.Name, &tag.Color, &workspaces, &tag.CreatedAt); err != nil {
		return model.Tag{}, err
	}
	tag.Workspaces = splitWorkspaces(workspaces)
	return tag, nil
}

func validateTag(tag model.Tag) error {
	if tag.Name == "" {
		return invalid("name is required")
	}
	for _, ws := range tag.Workspaces {
		if !ws.Valid() {
			return invalid("workspace %q is not valid", ws)
		}
	}
	return nil
}

// normalizeWorkspaces drops duplicates; an empty set means the tag applies everywhere.
func normalizeWorkspaces(values []model.Workspace) []model.Workspace {
	if len(values) == 0 {
		return append([]model.Workspace(nil), model.Workspaces...)
	}
	seen := make(map[model.Workspace]struct{}, len(values))
	result := make([]model.Workspace, 0, len(values))
	for _, ws := range values {
		ws = model.Workspace(strings.ToUpper(strings.TrimSpace(string(ws))))
		if _, ok := seen[ws]; ok {
			continue
		}
		seen[ws] = struct{}{}
		result = append(result, ws)
	}
	return result
}

func joinWorkspaces(values []model.Workspace) string {
	parts := make([]string, 0, len(values))
	for _, ws := range values {
		parts = append(parts, string(ws))
	}
	return strings.Join(parts, ",")
}

func splitWorkspaces(value string) []model.Workspace {
	result := []model.Workspace{}
	for _, part := range strings.Split(value, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		result = append(result, model.Workspace(trimmed))
	}
	return result
}
