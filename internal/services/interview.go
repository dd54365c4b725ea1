package services

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"interview-orchestrator/internal/analysis"
	"interview-orchestrator/internal/apperrors"
	"interview-orchestrator/internal/contracts"
	"interview-orchestrator/internal/metrics"
	"interview-orchestrator/internal/models"
	"interview-orchestrator/internal/pipeline"
)

// InterviewService drives the contract layer against the model invoker and
// records the outcomes on the session's pipeline. Nothing is persisted
// unless the model response passed contract validation.
type InterviewService interface {
	NextQuestion(ctx context.Context, pipelineID string) (*models.Question, error)
	EvaluateAnswer(ctx context.Context, pipelineID, questionID, transcript string) (*models.EvaluationResult, error)
	AnalyzeTone(ctx context.Context, pipelineID, transcript string, toneMetrics models.ToneMetrics) (*models.ToneResult, error)
	Analysis(ctx context.Context, pipelineID string) (*models.AnalysisSummary, error)
}

type interviewService struct {
	stateMachine *pipeline.StateMachine
	invoker      ModelInvoker
	jdMaxChars   int
	logger       *zap.Logger
}

func NewInterviewService(
	stateMachine *pipeline.StateMachine,
	invoker ModelInvoker,
	jdMaxChars int,
	logger *zap.Logger,
) InterviewService {
	return &interviewService{
		stateMachine: stateMachine,
		invoker:      invoker,
		jdMaxChars:   jdMaxChars,
		logger:       logger,
	}
}

// NextQuestion generates one question tailored to the session's role and
// job description, feeding prior questions and known weak areas back into
// the prompt, and records it on the pipeline.
func (s *interviewService) NextQuestion(ctx context.Context, pipelineID string) (*models.Question, error) {
	pipe, err := s.stateMachine.GetStatus(ctx, pipelineID)
	if err != nil {
		return nil, err
	}

	previous := questionTexts(questionsFromNotes(pipe))
	weakAreas := weakAreasFromNotes(pipe)

	request := contracts.BuildQuestionRequest(contracts.QuestionInput{
		JobTitle:          pipe.JobTitle,
		Company:           pipe.Company,
		JD:                pipe.JD,
		PreviousQuestions: previous,
		KnownWeakAreas:    weakAreas,
		JDMaxChars:        s.jdMaxChars,
	})

	raw, err := s.invoke(ctx, "question", request)
	if err != nil {
		return nil, err
	}

	question, err := contracts.ParseQuestionResponse(raw)
	if err != nil {
		metrics.ContractViolations.WithLabelValues("question").Inc()
		return nil, err
	}
	question.ID = uuid.NewString()

	note, err := models.NewNote(models.NoteKindQuestion, question)
	if err != nil {
		return nil, apperrors.NewContractViolation("question not encodable: %v", err)
	}
	if err := s.stateMachine.RecordNote(ctx, pipelineID, note); err != nil {
		return nil, err
	}
	metrics.NotesRecorded.WithLabelValues(string(models.NoteKindQuestion)).Inc()

	if pipe.CurrentPhase == models.PhaseAnalysis {
		if err := s.stateMachine.AdvancePhase(ctx, pipelineID, models.PhaseQuestioning); err != nil {
			s.logger.Warn("failed to advance phase",
				zap.String("pipeline_id", pipelineID), zap.Error(err))
		}
	}

	s.logger.Info("question generated",
		zap.String("pipeline_id", pipelineID),
		zap.String("question_id", question.ID))
	return question, nil
}

// EvaluateAnswer scores a transcript against the scorecard of the question
// it answers. A contract-violating model response leaves no trace on the
// pipeline.
func (s *interviewService) EvaluateAnswer(ctx context.Context, pipelineID, questionID, transcript string) (*models.EvaluationResult, error) {
	if questionID == "" {
		return nil, apperrors.NewValidation("question_id is required")
	}
	if transcript == "" {
		return nil, apperrors.NewValidation("transcript is required")
	}

	pipe, err := s.stateMachine.GetStatus(ctx, pipelineID)
	if err != nil {
		return nil, err
	}

	question := findQuestion(pipe, questionID)
	if question == nil {
		return nil, apperrors.NewValidation("question %s does not belong to this session", questionID)
	}

	request := contracts.BuildEvaluationRequest(contracts.EvaluationInput{
		Question:   question.QuestionText,
		Transcript: transcript,
		Scorecard:  question.Scorecard,
	})

	raw, err := s.invoke(ctx, "evaluation", request)
	if err != nil {
		return nil, err
	}

	result, err := contracts.ParseEvaluationResponse(raw)
	if err != nil {
		metrics.ContractViolations.WithLabelValues("evaluation").Inc()
		return nil, err
	}

	note, err := models.NewNote(models.NoteKindEvaluation, result)
	if err != nil {
		return nil, apperrors.NewContractViolation("evaluation not encodable: %v", err)
	}
	if err := s.stateMachine.RecordNote(ctx, pipelineID, note); err != nil {
		return nil, err
	}
	metrics.NotesRecorded.WithLabelValues(string(models.NoteKindEvaluation)).Inc()

	if pipe.CurrentPhase == models.PhaseQuestioning {
		if err := s.stateMachine.AdvancePhase(ctx, pipelineID, models.PhaseScoring); err != nil {
			s.logger.Warn("failed to advance phase",
				zap.String("pipeline_id", pipelineID), zap.Error(err))
		}
	}

	return result, nil
}

// AnalyzeTone assesses delivery style for one answer. The result is
// recorded as a note but never feeds competency aggregation.
func (s *interviewService) AnalyzeTone(ctx context.Context, pipelineID, transcript string, toneMetrics models.ToneMetrics) (*models.ToneResult, error) {
	if transcript == "" {
		return nil, apperrors.NewValidation("transcript is required")
	}

	if _, err := s.stateMachine.GetStatus(ctx, pipelineID); err != nil {
		return nil, err
	}

	request := contracts.BuildToneRequest(contracts.ToneInput{
		Transcript: transcript,
		Metrics:    toneMetrics,
	})

	raw, err := s.invoke(ctx, "tone", request)
	if err != nil {
		return nil, err
	}

	result, err := contracts.ParseToneResponse(raw)
	if err != nil {
		metrics.ContractViolations.WithLabelValues("tone").Inc()
		return nil, err
	}

	note, err := models.NewNote(models.NoteKindTone, result)
	if err != nil {
		return nil, apperrors.NewContractViolation("tone result not encodable: %v", err)
	}
	if err := s.stateMachine.RecordNote(ctx, pipelineID, note); err != nil {
		return nil, err
	}
	metrics.NotesRecorded.WithLabelValues(string(models.NoteKindTone)).Inc()

	return result, nil
}

// Analysis recomputes the session summary from the stored evaluation
// results. Nothing derived is persisted.
func (s *interviewService) Analysis(ctx context.Context, pipelineID string) (*models.AnalysisSummary, error) {
	pipe, err := s.stateMachine.GetStatus(ctx, pipelineID)
	if err != nil {
		return nil, err
	}

	summary := analysis.Aggregate(pipe.ID, evaluationsFromNotes(pipe))
	return &summary, nil
}

func (s *interviewService) invoke(ctx context.Context, task string, request contracts.PromptRequest) (map[string]interface{}, error) {
	raw, err := s.invoker.Invoke(ctx, request.System, request.User)
	if err != nil {
		metrics.ModelCalls.WithLabelValues(task, "error").Inc()
		s.logger.Error("model call failed", zap.String("task", task), zap.Error(err))
		return nil, err
	}
	metrics.ModelCalls.WithLabelValues(task, "ok").Inc()
	return raw, nil
}

func questionsFromNotes(pipe *models.Pipeline) []models.Question {
	var questions []models.Question
	for _, note := range pipe.Notes {
		if note.Kind != models.NoteKindQuestion {
			continue
		}
		var question models.Question
		if err := json.Unmarshal(note.Payload, &question); err != nil {
			continue
		}
		questions = append(questions, question)
	}
	return questions
}

func evaluationsFromNotes(pipe *models.Pipeline) []models.EvaluationResult {
	var results []models.EvaluationResult
	for _, note := range pipe.Notes {
		if note.Kind != models.NoteKindEvaluation {
			continue
		}
		var result models.EvaluationResult
		if err := json.Unmarshal(note.Payload, &result); err != nil {
			continue
		}
		results = append(results, result)
	}
	return results
}

func findQuestion(pipe *models.Pipeline, questionID string) *models.Question {
	for _, question := range questionsFromNotes(pipe) {
		if question.ID == questionID {
			q := question
			return &q
		}
	}
	return nil
}

func questionTexts(questions []models.Question) []string {
	texts := make([]string, 0, len(questions))
	for _, question := range questions {
		texts = append(texts, question.QuestionText)
	}
	return texts
}

func weakAreasFromNotes(pipe *models.Pipeline) []string {
	seen := make(map[string]struct{})
	for _, result := range evaluationsFromNotes(pipe) {
		for _, weakness := range result.Weaknesses {
			seen[weakness] = struct{}{}
		}
	}

	areas := make([]string, 0, len(seen))
	for area := range seen {
		areas = append(areas, area)
	}
	sort.Strings(areas)
	return areas
}
