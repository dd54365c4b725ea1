package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"interview-orchestrator/internal/apperrors"
)

// ModelInvoker sends a {system, user} pair to the generative model and
// returns the decoded JSON value. Callers validate the shape against their
// contract before touching it.
type ModelInvoker interface {
	Invoke(ctx context.Context, system string, user map[string]interface{}) (map[string]interface{}, error)
}

// Transcriber turns recorded audio into plain text. Opaque collaborator;
// the orchestrator core never inspects audio itself.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
}

type GeminiService struct {
	client    *genai.Client
	modelName string
}

// NewGeminiService creates the Gemini-backed model invoker and transcriber.
func NewGeminiService(apiKey, modelName string) (*GeminiService, error) {
	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiService{
		client:    client,
		modelName: modelName,
	}, nil
}

// Invoke implements ModelInvoker. The user payload is serialized as the
// JSON body of the user turn; the response is requested as JSON and
// decoded into an untyped map for contract validation.
func (g *GeminiService) Invoke(ctx context.Context, system string, user map[string]interface{}) (map[string]interface{}, error) {
	payload, err := json.Marshal(user)
	if err != nil {
		return nil, fmt.Errorf("failed to encode user payload: %w", err)
	}

	temperature := float32(0.3)
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		Temperature:       &temperature,
		MaxOutputTokens:   4096,
		ResponseMIMEType:  "application/json",
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(string(payload)), config)
	if err != nil {
		return nil, apperrors.NewUpstream("model call failed", err)
	}
	if resp == nil || resp.Text() == "" {
		return nil, apperrors.NewUpstream("model returned no content", nil)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal([]byte(extractJSON(resp.Text())), &decoded); err != nil {
		return nil, apperrors.NewContractViolation("model response is not valid JSON: %v", err)
	}
	return decoded, nil
}

// Transcribe implements Transcriber using Gemini's audio understanding.
func (g *GeminiService) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	parts := []*genai.Part{
		genai.NewPartFromBytes(audio, mimeType),
		genai.NewPartFromText("Transcribe this spoken interview answer verbatim. Return only the transcript text, nothing else."),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, nil)
	if err != nil {
		return "", apperrors.NewUpstream("transcription failed", err)
	}

	transcript := strings.TrimSpace(resp.Text())
	if transcript == "" {
		return "", apperrors.NewUpstream("transcription returned no text", nil)
	}
	return transcript, nil
}

// extractJSON strips markdown fences and surrounding prose the model may
// wrap around its JSON payload.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end != -1 && end > start {
		return text[start : end+1]
	}
	return text
}
