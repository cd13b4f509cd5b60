package web

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/Joseda-hg/tasker/internal/db"
	"github.com/Joseda-hg/tasker/internal/logging"
)

const APIKeyHeader = "x-api-key"

type Server struct {
	store  *db.Store
	apiKey string
	log    zerolog.Logger
}

// errorBody mirrors the JSON error shape the API clients decode.
type errorBody struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// NewServer serves the REST surface under /api. An empty apiKey disables key checks.
func NewServer(store *db.Store, apiKey string, log zerolog.Logger) *Server {
	return &Server{store: store, apiKey: apiKey, log: logging.Component(log, "TaskerServer")}
}

func (s *Server) Handler() http.Handler {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.handleError

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.log.Debug().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", c.Request().Header.Get(echo.HeaderXRequestID)).
				Msg("request")
			return nil
		},
	}))

	api := e.Group("/api")
	if s.apiKey != "" {
		api.Use(middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
			KeyLookup: "header:" + APIKeyHeader,
			Validator: func(key string, _ echo.Context) (bool, error) {
				return subtle.ConstantTimeCompare([]byte(key), []byte(s.apiKey)) == 1, nil
			},
			ErrorHandler: func(err error, _ echo.Context) error {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing api key")
			},
		}))
	}

	api.GET("/tasks", s.listTasks)
	api.POST("/tasks", s.createTask)
	api.GET("/tasks/:id", s.getTask)
	api.PATCH("/tasks/:id", s.updateTask)
	api.DELETE("/tasks/:id", s.deleteTask)

	api.GET("/tasks/:id/subtasks", s.listSubtasks)
	api.POST("/tasks/:id/subtasks", s.createSubtask)
	api.PATCH("/subtasks/:id", s.updateSubtask)
	api.DELETE("/subtasks/:id", s.deleteSubtask)
	api.PATCH("/subtasks/:id/reorder", s.reorderSubtask)

	api.GET("/tags", s.listTags)
	api.POST("/tags", s.createTag)
	api.PATCH("/tags/:id", s.updateTag)
	api.DELETE("/tags/:id", s.deleteTag)
	api.GET("/tags/tasks/:taskId", s.listTaskTags)
	api.POST("/tags/tasks/:taskId/tags/:tagId", s.assignTag)
	api.DELETE("/tags/tasks/:taskId/tags/:tagId", s.unassignTag)

	api.GET("/channels", s.listChannels)
	api.POST("/channels", s.createChannel)
	api.PATCH("/channels/:id", s.updateChannel)
	api.DELETE("/channels/:id", s.deleteChannel)

	return e
}

// handleError renders every failure as {statusCode, message}.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "Internal server error"

	var httpErr *echo.HTTPError
	var validation *db.ValidationError
	switch {
	case errors.As(err, &validation):
		status = http.StatusBadRequest
		message = validation.Message
	case errors.Is(err, db.ErrNotFound):
		status = http.StatusNotFound
		message = "Resource not found"
	case errors.As(err, &httpErr):
		status = httpErr.Code
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		} else {
			message = http.StatusText(status)
		}
	}

	if status >= http.StatusInternalServerError {
		s.log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	}

	if err := c.JSON(status, errorBody{StatusCode: status, Message: message}); err != nil {
		s.log.Error().Err(err).Msg("write error response")
	}
}

func parseID(c echo.Context, name string) (int64, error) {
	value := strings.TrimSpace(c.Param(name))
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be a positive integer")
	}
	return id, nil
}

func bind(c echo.Context, dest any) error {
	if err := c.Bind(dest); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	return nil
}
