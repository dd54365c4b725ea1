package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"interview-orchestrator/internal/models"
	"interview-orchestrator/internal/pipeline"
	"interview-orchestrator/internal/services"
	"interview-orchestrator/internal/storage"
)

func newTestApp(t *testing.T) (*fiber.App, *pipeline.StateMachine) {
	t.Helper()

	sm := pipeline.NewStateMachine(storage.NewMemoryStore(), zap.NewNop())
	handler := NewPipelineHandler(sm, services.NewStorageService(t.TempDir()), services.NewJDParserService(), 1<<20)

	app := fiber.New()
	app.Post("/pipeline/start", handler.HandleStart)
	app.Get("/pipeline/status/:id", handler.HandleStatus)
	app.Post("/pipeline/:id/phase", handler.HandleAdvancePhase)
	app.Post("/pipeline/:id/complete", handler.HandleComplete)
	return app, sm
}

func jsonRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func decodeBody(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}

func TestHandleStart(t *testing.T) {
	app, _ := newTestApp(t)

	req := jsonRequest(t, http.MethodPost, "/pipeline/start", models.StartPipelineRequest{
		JobTitle: "Engineer",
		Company:  "Acme",
		JD:       "Build systems.",
	})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body models.StartPipelineResponse
	decodeBody(t, resp, &body)
	assert.NotEmpty(t, body.PipelineID)
	require.NotNil(t, body.Pipeline)
	assert.Equal(t, models.StatusPending, body.Pipeline.Status)
	assert.Equal(t, models.PhaseAnalysis, body.Pipeline.CurrentPhase)
	assert.Empty(t, body.Pipeline.Notes)
}

func TestHandleStart_MissingFields(t *testing.T) {
	app, _ := newTestApp(t)

	tests := []struct {
		name string
		body models.StartPipelineRequest
	}{
		{name: "missing job_title", body: models.StartPipelineRequest{JD: "jd"}},
		{name: "missing jd", body: models.StartPipelineRequest{JobTitle: "Engineer"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(jsonRequest(t, http.MethodPost, "/pipeline/start", tt.body))
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestHandleStatus(t *testing.T) {
	app, sm := newTestApp(t)
	pipe, err := sm.Start(context.Background(), "Engineer", "Acme", "Build systems.")
	require.NoError(t, err)

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/pipeline/status/"+pipe.ID, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body models.PipelineStatusResponse
	decodeBody(t, resp, &body)
	require.NotNil(t, body.Pipeline)
	assert.Equal(t, pipe.ID, body.Pipeline.ID)
}

func TestHandleStatus_NotFound(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/pipeline/status/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "not_found", body["error"])
}

func TestHandleAdvancePhase(t *testing.T) {
	app, sm := newTestApp(t)
	pipe, err := sm.Start(context.Background(), "Engineer", "Acme", "Build systems.")
	require.NoError(t, err)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/pipeline/"+pipe.ID+"/phase",
		models.AdvancePhaseRequest{Phase: "questioning"}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	loaded, err := sm.GetStatus(context.Background(), pipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "questioning", loaded.CurrentPhase)
}

func TestHandleComplete(t *testing.T) {
	app, sm := newTestApp(t)
	pipe, err := sm.Start(context.Background(), "Engineer", "Acme", "Build systems.")
	require.NoError(t, err)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/pipeline/"+pipe.ID+"/complete", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body models.PipelineStatusResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, models.StatusComplete, body.Pipeline.Status)
}
