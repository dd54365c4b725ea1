package contracts

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interview-orchestrator/internal/apperrors"
	"interview-orchestrator/internal/models"
)

func validEvaluationResponse() map[string]interface{} {
	return map[string]interface{}{
		"scores": map[string]interface{}{
			"ownership":     float64(4),
			"communication": float64(3),
		},
		"strengths":        []interface{}{"Clearly identified the conflict"},
		"weaknesses":       []interface{}{"Result metrics were vague"},
		"coaching_notes":   "Solid structure, thin on outcomes.",
		"improvement_plan": []interface{}{"Quantify outcomes."},
	}
}

func TestBuildEvaluationRequest_Deterministic(t *testing.T) {
	in := EvaluationInput{
		Question:   "Tell me about a hard migration.",
		Transcript: "We moved the billing system...",
		Scorecard: models.Scorecard{
			Competencies: []string{"ownership"},
			Signals:      []string{"names their role"},
			FailureModes: []string{"blames others"},
		},
	}

	first := BuildEvaluationRequest(in)
	second := BuildEvaluationRequest(in)

	assert.True(t, reflect.DeepEqual(first, second))
	assert.Contains(t, first.System, "STAR framework")
	assert.Contains(t, first.System, "1 = very weak, 3 = acceptable, 5 = excellent")
	assert.Equal(t, "Tell me about a hard migration.", first.User["question"])
}

func TestParseEvaluationResponse_Valid(t *testing.T) {
	result, err := ParseEvaluationResponse(validEvaluationResponse())
	require.NoError(t, err)

	assert.Equal(t, map[string]float64{"ownership": 4, "communication": 3}, result.Scores)
	assert.Equal(t, []string{"Clearly identified the conflict"}, result.Strengths)
	assert.Equal(t, "Solid structure, thin on outcomes.", result.CoachingNotes)
	assert.Equal(t, []string{"Quantify outcomes."}, result.ImprovementPlan)
}

func TestParseEvaluationResponse_MissingScores(t *testing.T) {
	raw := validEvaluationResponse()
	delete(raw, "scores")

	_, err := ParseEvaluationResponse(raw)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindContractViolation))
}

func TestParseEvaluationResponse_MissingRequiredKeys(t *testing.T) {
	for _, key := range []string{"strengths", "weaknesses", "coaching_notes", "improvement_plan"} {
		t.Run(key, func(t *testing.T) {
			raw := validEvaluationResponse()
			delete(raw, key)

			_, err := ParseEvaluationResponse(raw)
			require.Error(t, err)
			assert.True(t, apperrors.IsKind(err, apperrors.KindContractViolation))
		})
	}
}

func TestParseEvaluationResponse_ScoreCoercion(t *testing.T) {
	raw := validEvaluationResponse()
	raw["scores"] = map[string]interface{}{
		"ownership":     float64(4),
		"communication": "4.5",          // decimal parse
		"execution":     json.Number("2"),
		"x":             "not-a-number", // dropped, not zeroed
		"y":             true,           // dropped
	}

	result, err := ParseEvaluationResponse(raw)
	require.NoError(t, err)

	assert.Equal(t, map[string]float64{
		"ownership":     4,
		"communication": 4.5,
		"execution":     2,
	}, result.Scores)
	_, present := result.Scores["x"]
	assert.False(t, present)
}

func TestParseEvaluationResponse_WrongShapes(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(raw map[string]interface{})
	}{
		{
			name:   "scores is a string",
			mutate: func(raw map[string]interface{}) { raw["scores"] = "high" },
		},
		{
			name:   "strengths holds numbers",
			mutate: func(raw map[string]interface{}) { raw["strengths"] = []interface{}{1, 2} },
		},
		{
			name:   "coaching_notes is an array",
			mutate: func(raw map[string]interface{}) { raw["coaching_notes"] = []interface{}{"a"} },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := validEvaluationResponse()
			tt.mutate(raw)

			_, err := ParseEvaluationResponse(raw)
			require.Error(t, err)
			assert.True(t, apperrors.IsKind(err, apperrors.KindContractViolation))
		})
	}
}
