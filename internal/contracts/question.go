package contracts

import (
	"interview-orchestrator/internal/models"
)

const questionSystemPrompt = `You are an expert interview question generator for high-level tech roles.

You MUST:
- Ask ONE question per call.
- Tailor it to the role and job description.
- Prefer behavior / systems / execution questions over trivia.
- Return a STRICT JSON object with "question" and "scorecard".

The scorecard must define:
- "competencies": skills/behaviors being assessed.
- "signals": what good looks like.
- "failure_modes": what bad answers look like.`

const questionResponseSchema = `{
	"type": "object",
	"required": ["question", "scorecard"],
	"properties": {
		"question": {"type": "string", "minLength": 1},
		"scorecard": {
			"type": "object",
			"required": ["competencies", "signals", "failure_modes"],
			"properties": {
				"competencies": {"type": "array", "items": {"type": "string"}},
				"signals": {"type": "array", "items": {"type": "string"}},
				"failure_modes": {"type": "array", "items": {"type": "string"}}
			}
		}
	}
}`

// QuestionInput carries everything the question-generation prompt needs.
type QuestionInput struct {
	JobTitle          string
	Company           string
	JD                string
	PreviousQuestions []string
	KnownWeakAreas    []string
	JDMaxChars        int
}

// BuildQuestionRequest produces the question-generation prompt. Pure: the
// same input always yields the same payload.
func BuildQuestionRequest(in QuestionInput) PromptRequest {
	return PromptRequest{
		System: questionSystemPrompt,
		User: map[string]interface{}{
			"job_title":          in.JobTitle,
			"company":            in.Company,
			"job_description":    truncate(in.JD, in.JDMaxChars),
			"previous_questions": stringSlice(in.PreviousQuestions),
			"known_weak_areas":   stringSlice(in.KnownWeakAreas),
			"response_format_example": map[string]interface{}{
				"question": "Tell me about a time you had to align misaligned stakeholders in a complex cross-functional project.",
				"scorecard": map[string]interface{}{
					"competencies": []string{"stakeholder management", "communication", "ownership"},
					"signals": []string{
						"clearly identifies stakeholders and their incentives",
						"uses structured communication to align them",
						"shows ownership for outcome",
					},
					"failure_modes": []string{
						"vague story, no clear stakeholders",
						"no clear conflict or misalignment",
						"blames others, no ownership",
					},
				},
			},
		},
	}
}

// ParseQuestionResponse validates a raw model response against the
// question contract and returns the question with its scorecard. The two
// are created atomically; a question never exists without one.
func ParseQuestionResponse(raw map[string]interface{}) (*models.Question, error) {
	if err := validateSchema(questionResponseSchema, raw); err != nil {
		return nil, err
	}

	var question models.Question
	if err := decodeInto(raw, &question); err != nil {
		return nil, err
	}

	question.Scorecard.Competencies = stringSlice(question.Scorecard.Competencies)
	question.Scorecard.Signals = stringSlice(question.Scorecard.Signals)
	question.Scorecard.FailureModes = stringSlice(question.Scorecard.FailureModes)
	return &question, nil
}
