package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Joseda-hg/tasker/internal/model"
)

func (s *Server) listTasks(c echo.Context) error {
	filters, err := filtersFromRequest(c)
	if err != nil {
		return err
	}
	tasks, err := s.store.ListTasks(c.Request().Context(), filters)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tasks)
}

func filtersFromRequest(c echo.Context) (model.TaskFilters, error) {
	var filters model.TaskFilters
	if value := strings.TrimSpace(c.QueryParam("workspace")); value != "" {
		filters.Workspace = model.Workspace(strings.ToUpper(value))
		if !filters.Workspace.Valid() {
			return filters, echo.NewHTTPError(http.StatusBadRequest, "workspace must be one of WORK, PERSONAL")
		}
	}
	if value := strings.TrimSpace(c.QueryParam("status")); value != "" {
		filters.Status = model.TaskStatus(strings.ToUpper(value))
		if !filters.Status.Valid() {
			return filters, echo.NewHTTPError(http.StatusBadRequest, "status must be one of BACKLOG, TODAY, IN_PROGRESS, DONE")
		}
	}
	if value := strings.TrimSpace(c.QueryParam("channelId")); value != "" {
		id, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return filters, echo.NewHTTPError(http.StatusBadRequest, "channelId must be an integer")
		}
		filters.ChannelID = &id
	}
	return filters, nil
}

func (s *Server) getTask(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	task, err := s.store.GetTask(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

func (s *Server) createTask(c echo.Context) error {
	var input model.CreateTaskInput
	if err := bind(c, &input); err != nil {
		return err
	}
	task, err := s.store.CreateTask(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, task)
}

func (s *Server) updateTask(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var input model.UpdateTaskInput
	if err := bind(c, &input); err != nil {
		return err
	}
	task, err := s.store.UpdateTask(c.Request().Context(), id, input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

func (s *Server) deleteTask(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := s.store.DeleteTask(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) listSubtasks(c echo.Context) error {
	taskID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	subtasks, err := s.store.ListSubtasks(c.Request().Context(), taskID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, subtasks)
}

func (s *Server) createSubtask(c echo.Context) error {
	taskID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var input model.CreateSubtaskInput
	if err := bind(c, &input); err != nil {
		return err
	}
	subtask, err := s.store.CreateSubtask(c.Request().Context(), taskID, input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, subtask)
}

func (s *Server) updateSubtask(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var input model.UpdateSubtaskInput
	if err := bind(c, &input); err != nil {
		return err
	}
	subtask, err := s.store.UpdateSubtask(c.Request().Context(), id, input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, subtask)
}

func (s *Server) reorderSubtask(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var input model.ReorderSubtaskInput
	if err := bind(c, &input); err != nil {
		return err
	}
	subtask, err := s.store.ReorderSubtask(c.Request().Context(), id, input.Position)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, subtask)
}

func (s *Server) deleteSubtask(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := s.store.DeleteSubtask(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) listTags(c echo.Context) error {
	tags, err := s.store.ListTags(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tags)
}

func (s *Server) createTag(c echo.Context) error {
	var input model.CreateTagInput
	if err := bind(c, &input); err != nil {
		return err
	}
	tag, err := s.store.CreateTag(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, tag)
}

func (s *Server) updateTag(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var input model.UpdateTagInput
	if err := bind(c, &input); err != nil {
		return err
	}
	tag, err := s.store.UpdateTag(c.Request().Context(), id, input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tag)
}

func (s *Server) deleteTag(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := s.store.DeleteTag(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) listTaskTags(c echo.Context) error {
	taskID, err := parseID(c, "taskId")
	if err != nil {
		return err
	}
	tags, err := s.store.ListTagsForTask(c.Request().Context(), taskID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tags)
}

func (s *Server) assignTag(c echo.Context) error {
	taskID, err := parseID(c, "taskId")
	if err != nil {
		return err
	}
	tagID, err := parseID(c, "tagId")
	if err != nil {
		return err
	}
	if err := s.store.AssignTag(c.Request().Context(), taskID, tagID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) unassignTag(c echo.Context) error {
	taskID, err := parseID(c, "taskId")
	if err != nil {
		return err
	}
	tagID, err := parseID(c, "tagId")
	if err != nil {
		return err
	}
	if err := s.store.UnassignTag(c.Request().Context(), taskID, tagID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) listChannels(c echo.Context) error {
	var workspace model.Workspace
	if value := strings.TrimSpace(c.QueryParam("workspace")); value != "" {
		workspace = model.Workspace(strings.ToUpper(value))
		if !workspace.Valid() {
			return echo.NewHTTPError(http.StatusBadRequest, "workspace must be one of WORK, PERSONAL")
		}
	}
	channels, err := s.store.ListChannels(c.Request().Context(), workspace)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, channels)
}

func (s *Server) createChannel(c echo.Context) error {
	var input model.CreateChannelInput
	if err := bind(c, &input); err != nil {
		return err
	}
	channel, err := s.store.CreateChannel(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, channel)
}

func (s *Server) updateChannel(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var input model.UpdateChannelInput
	if err := bind(c, &input); err != nil {
		return err
	}
	channel, err := s.store.UpdateChannel(c.Request().Context(), id, input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, channel)
}

func (s *Server) deleteChannel(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := s.store.DeleteChannel(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
