package contracts

import (
	"interview-orchestrator/internal/apperrors"
	"interview-orchestrator/internal/models"
)

const evaluationSystemPrompt = `You are an expert interview evaluator.

You MUST:
- Use the STAR framework (Situation, Task, Action, Result).
- Evaluate the candidate answer to the given question.
- Use the provided scorecard.
- Be specific and concrete in feedback.
- Return STRICT JSON with keys: scores, strengths, weaknesses, coaching_notes, improvement_plan.

Scoring:
- scores is a map of competency -> 1 to 5.
- 1 = very weak, 3 = acceptable, 5 = excellent.`

// Score values are deliberately unconstrained here: off-contract values are
// dropped during coercion instead of failing the whole evaluation.
const evaluationResponseSchema = `{
	"type": "object",
	"required": ["scores", "strengths", "weaknesses", "coaching_notes", "improvement_plan"],
	"properties": {
		"scores": {"type": "object"},
		"strengths": {"type": "array", "items": {"type": "string"}},
		"weaknesses": {"type": "array", "items": {"type": "string"}},
		"coaching_notes": {"type": "string"},
		"improvement_plan": {"type": "array", "items": {"type": "string"}}
	}
}`

// EvaluationInput ties a transcript to the question it answers and the
// scorecard the answer is judged against.
type EvaluationInput struct {
	Question   string
	Transcript string
	Scorecard  models.Scorecard
}

// BuildEvaluationRequest produces the answer-evaluation prompt.
func BuildEvaluationRequest(in EvaluationInput) PromptRequest {
	return PromptRequest{
		System: evaluationSystemPrompt,
		User: map[string]interface{}{
			"question":   in.Question,
			"transcript": in.Transcript,
			"scorecard": map[string]interface{}{
				"competencies":  stringSlice(in.Scorecard.Competencies),
				"signals":       stringSlice(in.Scorecard.Signals),
				"failure_modes": stringSlice(in.Scorecard.FailureModes),
			},
			"instructions": []string{
				"Identify whether the candidate covered S, T, A, and R.",
				"Highlight specific strengths with quotes or paraphrases.",
				"Highlight specific weaknesses (missing details, vague results, no metrics, etc.).",
				"Give coaching_notes as a paragraph.",
				"Give improvement_plan as a list of concrete actions the candidate can take.",
			},
			"response_format_example": map[string]interface{}{
				"scores": map[string]interface{}{
					"stakeholder management": 4,
					"communication":          3,
				},
				"strengths":      []string{"Clearly identified stakeholders and conflict", "Demonstrated proactive communication"},
				"weaknesses":     []string{"Result metrics were vague", "Did not clearly state their unique contribution"},
				"coaching_notes": "Overall a solid answer with good structure, but the Result portion needs more concrete metrics.",
				"improvement_plan": []string{
					"Practice quantifying outcomes: time saved, risk reduced, dollars saved.",
					"Explicitly call out 'my role' and 'what I did' separate from the team.",
				},
			},
		},
	}
}

// ParseEvaluationResponse validates a raw model response against the
// evaluation contract. Score values that do not coerce to a finite number
// are skipped, not zeroed, so they never affect aggregation.
func ParseEvaluationResponse(raw map[string]interface{}) (*models.EvaluationResult, error) {
	if err := validateSchema(evaluationResponseSchema, raw); err != nil {
		return nil, err
	}

	rawScores, ok := raw["scores"].(map[string]interface{})
	if !ok {
		return nil, apperrors.NewContractViolation("scores must be an object")
	}

	result := &models.EvaluationResult{
		Scores: make(map[string]float64, len(rawScores)),
	}

	var shell struct {
		Strengths       []string `json:"strengths"`
		Weaknesses      []string `json:"weaknesses"`
		CoachingNotes   string   `json:"coaching_notes"`
		ImprovementPlan []string `json:"improvement_plan"`
	}
	if err := decodeInto(raw, &shell); err != nil {
		return nil, err
	}

	result.Strengths = stringSlice(shell.Strengths)
	result.Weaknesses = stringSlice(shell.Weaknesses)
	result.CoachingNotes = shell.CoachingNotes
	result.ImprovementPlan = stringSlice(shell.ImprovementPlan)

	for competency, value := range rawScores {
		if score, ok := coerceScore(value); ok {
			result.Scores[competency] = score
		}
	}

	return result, nil
}
