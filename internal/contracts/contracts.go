// Package contracts defines the exact request/response schemas exchanged
// with the external generative model. Builders are pure; parsers treat the
// model output as untrusted and reject anything off-contract.
package contracts

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"interview-orchestrator/internal/apperrors"
)

// DefaultJDMaxChars bounds the job description sent to the model.
const DefaultJDMaxChars = 8000

// PromptRequest is the {system, user} pair sent to the model. User is
// serialized as the JSON payload of the user turn.
type PromptRequest struct {
	System string
	User   map[string]interface{}
}

// truncate bounds s to max characters; max <= 0 falls back to the default.
func truncate(s string, max int) string {
	if max <= 0 {
		max = DefaultJDMaxChars
	}
	if len(s) <= max {
		return s
	}
	return s[:max]
}

// validateSchema checks raw against a contract schema and reports every
// violation in one error.
func validateSchema(schema string, raw map[string]interface{}) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewGoLoader(raw),
	)
	if err != nil {
		return apperrors.NewContractViolation("response is not a JSON object: %v", err)
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		return apperrors.NewContractViolation("response failed contract: %s", strings.Join(details, "; "))
	}
	return nil
}

// decodeInto round-trips raw through JSON into target. Only called after
// schema validation, so a failure here is still a contract violation.
func decodeInto(raw map[string]interface{}, target interface{}) error {
	data, err := json.Marshal(raw)
	if err != nil {
		return apperrors.NewContractViolation("response not encodable: %v", err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return apperrors.NewContractViolation("response shape mismatch: %v", err)
	}
	return nil
}

// coerceScore turns a raw score value into a finite float64. Strings go
// through a decimal parse. Anything non-finite or non-numeric is dropped by
// the caller rather than treated as zero.
func coerceScore(value interface{}) (float64, bool) {
	var score float64
	switch v := value.(type) {
	case float64:
		score = v
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		score = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		score = parsed
	case int:
		score = float64(v)
	case int64:
		score = float64(v)
	default:
		return 0, false
	}

	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0, false
	}
	return score, true
}

func stringSlice(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
