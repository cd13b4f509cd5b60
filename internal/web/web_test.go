package web_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Joseda-hg/tasker/internal/db"
	"github.com/Joseda-hg/tasker/internal/model"
	"github.com/Joseda-hg/tasker/internal/web"
)

func newTestHandler(t *testing.T, apiKey string) http.Handler {
	t.Helper()
	conn, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return web.NewServer(db.NewStore(conn), apiKey, zerolog.Nop()).Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestTaskEndpoints(t *testing.T) {
	h := newTestHandler(t, "")

	t.Run("Create and fetch", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/tasks", `{"title":"Move to Today Test","workspace":"WORK"}`)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		created := decode[model.Task](t, rec)
		assert.Equal(t, model.StatusBacklog, created.Status)

		rec = do(t, h, http.MethodGet, "/api/tasks/1", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Move to Today Test", decode[model.Task](t, rec).Title)
	})

	t.Run("Patch status", func(t *testing.T) {
		rec := do(t, h, http.MethodPatch, "/api/tasks/1", `{"status":"TODAY"}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, model.StatusToday, decode[model.Task](t, rec).Status)
	})

	t.Run("List with filters", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/tasks?workspace=WORK&status=TODAY", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decode[[]model.Task](t, rec), 1)

		rec = do(t, h, http.MethodGet, "/api/tasks?workspace=PERSONAL", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, decode[[]model.Task](t, rec))
	})

	t.Run("Validation error carries message", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/tasks", `{"workspace":"WORK"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decode[map[string]any](t, rec)
		assert.Equal(t, "title is required", body["message"])
	})

	t.Run("Unknown filter value", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/tasks?status=LATER", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Delete then not found", func(t *testing.T) {
		rec := do(t, h, http.MethodDelete, "/api/tasks/1", "")
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = do(t, h, http.MethodGet, "/api/tasks/1", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestSubtaskEndpoints(t *testing.T) {
	h := newTestHandler(t, "")
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/tasks", `{"title":"Parent","workspace":"PERSONAL"}`).Code)

	rec := do(t, h, http.MethodPost, "/api/tasks/1/subtasks", `{"title":"a"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	first := decode[model.Subtask](t, rec)
	assert.Equal(t, model.SubtaskTodo, first.Status)
	assert.Nil(t, first.Description)

	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/tasks/1/subtasks", `{"title":"b"}`).Code)

	rec = do(t, h, http.MethodPatch, "/api/subtasks/1/reorder", `{"position":9}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 9, decode[model.Subtask](t, rec).Position)

	rec = do(t, h, http.MethodGet, "/api/tasks/1/subtasks", "")
	require.Equal(t, http.StatusOK, rec.Code)
	listed := decode[[]model.Subtask](t, rec)
	require.Len(t, listed, 2)
	assert.Equal(t, "b", listed[0].Title)

	rec = do(t, h, http.MethodPatch, "/api/subtasks/2", `{"status":"DONE"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.SubtaskDone, decode[model.Subtask](t, rec).Status)

	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, "/api/subtasks/2", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, "/api/subtasks/2", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/tasks/42/subtasks", "").Code)
}

func TestTagAndChannelEndpoints(t *testing.T) {
	h := newTestHandler(t, "")
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/tasks", `{"title":"Parent","workspace":"WORK"}`).Code)

	rec := do(t, h, http.MethodPost, "/api/tags", `{"name":"urgent","color":"#f00","workspaces":["WORK"]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodPost, "/api/tags/tasks/1/tags/1", "").Code)
	rec = do(t, h, http.MethodGet, "/api/tags/tasks/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.Tag](t, rec), 1)
	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, "/api/tags/tasks/1/tags/1", "").Code)

	rec = do(t, h, http.MethodPatch, "/api/tags/1", `{"name":"later"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "later", decode[model.Tag](t, rec).Name)

	rec = do(t, h, http.MethodPost, "/api/channels", `{"name":"Ops","workspace":"WORK","color":"#00f"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = do(t, h, http.MethodGet, "/api/channels?workspace=PERSONAL", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]model.Channel](t, rec))
	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, "/api/channels/1", "").Code)
}

func TestAPIKeyIsRequiredWhenConfigured(t *testing.T) {
	h := newTestHandler(t, "s3cret")

	rec := do(t, h, http.MethodGet, "/api/tasks", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set(web.APIKeyHeader, "s3cret")
	ok := httptest.NewRecorder()
	h.ServeHTTP(ok, req)
	assert.Equal(t, http.StatusOK, ok.Code)
}
