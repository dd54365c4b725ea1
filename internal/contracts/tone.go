package contracts

import (
	"interview-orchestrator/internal/models"
)

const toneSystemPrompt = `You are an interview communication coach.

You receive:
- The transcript of the answer.
- Low-level numeric metrics about delivery (pace, pitch, volume, filler words, pauses).

You MUST:
- Interpret the metrics.
- Combine them with the content to assess delivery quality.
- Return STRICT JSON with: metrics, summary, suggestions.

"summary" is a short paragraph overview.
"suggestions" is a list of concrete actions, specific to speaking style (not content).`

const toneResponseSchema = `{
	"type": "object",
	"required": ["metrics", "summary", "suggestions"],
	"properties": {
		"metrics": {"type": "object"},
		"summary": {"type": "string"},
		"suggestions": {"type": "array", "items": {"type": "string"}}
	}
}`

// ToneInput pairs a transcript with its measured delivery metrics.
type ToneInput struct {
	Transcript string
	Metrics    models.ToneMetrics
}

// BuildToneRequest produces the delivery-analysis prompt. Suggestions must
// address speaking style only, never answer content.
func BuildToneRequest(in ToneInput) PromptRequest {
	metrics := toneMetricsPayload(in.Metrics)
	return PromptRequest{
		System: toneSystemPrompt,
		User: map[string]interface{}{
			"transcript": in.Transcript,
			"metrics":    metrics,
			"guidance": []string{
				"If pace is very high, mention rushing.",
				"If filler_count is high, mention filler words explicitly.",
				"If pitch_variance is low, suggest adding more vocal variety.",
				"If pauses_ratio is low or zero, suggest natural pauses.",
			},
			"response_format_example": map[string]interface{}{
				"metrics": metrics,
				"summary": "You spoke at a slightly fast pace with moderate filler usage and somewhat flat intonation.",
				"suggestions": []string{
					"Slow down slightly and leave a short pause between STAR sections.",
					"Reduce filler words like 'um' and 'like' by practicing with a timer.",
					"Add more vocal emphasis when describing the 'Result' to make impact clear.",
				},
			},
		},
	}
}

func toneMetricsPayload(m models.ToneMetrics) map[string]interface{} {
	return map[string]interface{}{
		"speed_wpm":      m.SpeedWPM,
		"pitch_variance": m.PitchVariance,
		"volume_avg":     m.VolumeAvg,
		"filler_count":   m.FillerCount,
		"pauses_ratio":   m.PausesRatio,
	}
}

// ParseToneResponse validates a raw model response against the tone
// contract.
func ParseToneResponse(raw map[string]interface{}) (*models.ToneResult, error) {
	if err := validateSchema(toneResponseSchema, raw); err != nil {
		return nil, err
	}

	var result models.ToneResult
	if err := decodeInto(raw, &result); err != nil {
		return nil, err
	}

	result.Suggestions = stringSlice(result.Suggestions)
	return &result, nil
}
