package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"interview-orchestrator/internal/apperrors"
	"interview-orchestrator/internal/models"
	"interview-orchestrator/internal/pipeline"
	"interview-orchestrator/internal/services"
	"interview-orchestrator/internal/storage"
)

type scriptedInvoker struct {
	responses []map[string]interface{}
}

func (f *scriptedInvoker) Invoke(ctx context.Context, system string, user map[string]interface{}) (map[string]interface{}, error) {
	if len(f.responses) == 0 {
		return nil, apperrors.NewUpstream("no scripted response", nil)
	}
	response := f.responses[0]
	f.responses = f.responses[1:]
	return response, nil
}

type staticTranscriber struct {
	transcript string
}

func (f *staticTranscriber) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	return f.transcript, nil
}

func newInterviewApp(t *testing.T, invoker services.ModelInvoker) (*fiber.App, *pipeline.StateMachine) {
	t.Helper()

	sm := pipeline.NewStateMachine(storage.NewMemoryStore(), zap.NewNop())
	svc := services.NewInterviewService(sm, invoker, 0, zap.NewNop())
	handler := NewInterviewHandler(svc, &staticTranscriber{transcript: "hello"}, 1<<20)

	app := fiber.New()
	app.Post("/pipeline/:id/question", handler.HandleNextQuestion)
	app.Post("/pipeline/:id/answer", handler.HandleAnswer)
	app.Post("/pipeline/:id/tone", handler.HandleTone)
	app.Get("/pipeline/:id/analysis", handler.HandleAnalysis)
	return app, sm
}

func scriptedQuestion(text string) map[string]interface{} {
	return map[string]interface{}{
		"question": text,
		"scorecard": map[string]interface{}{
			"competencies":  []interface{}{"ownership"},
			"signals":       []interface{}{"names their role"},
			"failure_modes": []interface{}{"blames others"},
		},
	}
}

func scriptedEvaluation() map[string]interface{} {
	return map[string]interface{}{
		"scores":           map[string]interface{}{"ownership": float64(4)},
		"strengths":        []interface{}{"clear structure"},
		"weaknesses":       []interface{}{"vague metrics"},
		"coaching_notes":   "Solid.",
		"improvement_plan": []interface{}{"Quantify outcomes."},
	}
}

func TestHandleNextQuestion(t *testing.T) {
	app, sm := newInterviewApp(t, &scriptedInvoker{responses: []map[string]interface{}{
		scriptedQuestion("Tell me about a hard migration."),
	}})
	pipe, err := sm.Start(context.Background(), "Engineer", "Acme", "Build systems.")
	require.NoError(t, err)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/pipeline/"+pipe.ID+"/question", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var question models.Question
	decodeBody(t, resp, &question)
	assert.NotEmpty(t, question.ID)
	assert.Equal(t, "Tell me about a hard migration.", question.QuestionText)
}

func TestHandleNextQuestion_UnknownSession(t *testing.T) {
	app, _ := newInterviewApp(t, &scriptedInvoker{})

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/pipeline/missing/question", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestHandleAnswer_ContractViolationIsBadGateway(t *testing.T) {
	app, sm := newInterviewApp(t, &scriptedInvoker{responses: []map[string]interface{}{
		scriptedQuestion("Q?"),
		{"scores": map[string]interface{}{"x": "not-a-number"}}, // missing required keys
	}})
	pipe, err := sm.Start(context.Background(), "Engineer", "Acme", "Build systems.")
	require.NoError(t, err)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/pipeline/"+pipe.ID+"/question", nil))
	require.NoError(t, err)
	var question models.Question
	decodeBody(t, resp, &question)

	resp, err = app.Test(jsonRequest(t, http.MethodPost, "/pipeline/"+pipe.ID+"/answer",
		models.AnswerRequest{QuestionID: question.ID, Transcript: "my answer"}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)

	// The rejected evaluation left nothing behind.
	loaded, err := sm.GetStatus(context.Background(), pipe.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.Notes, 1)
}

func TestAnswerAndAnalysisFlow(t *testing.T) {
	app, sm := newInterviewApp(t, &scriptedInvoker{responses: []map[string]interface{}{
		scriptedQuestion("Q?"),
		scriptedEvaluation(),
	}})
	pipe, err := sm.Start(context.Background(), "Engineer", "Acme", "Build systems.")
	require.NoError(t, err)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/pipeline/"+pipe.ID+"/question", nil))
	require.NoError(t, err)
	var question models.Question
	decodeBody(t, resp, &question)

	resp, err = app.Test(jsonRequest(t, http.MethodPost, "/pipeline/"+pipe.ID+"/answer",
		models.AnswerRequest{QuestionID: question.ID, Transcript: "my answer"}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, err = app.Test(jsonRequest(t, http.MethodGet, "/pipeline/"+pipe.ID+"/analysis", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var summary models.AnalysisSummary
	decodeBody(t, resp, &summary)
	assert.Equal(t, pipe.ID, summary.SessionID)
	require.Len(t, summary.CompetencyScores, 1)
	assert.Equal(t, "ownership", summary.CompetencyScores[0].Competency)
	assert.Equal(t, 4.0, summary.CompetencyScores[0].Score)
	assert.Equal(t, []string{"clear structure"}, summary.Strengths)
}
