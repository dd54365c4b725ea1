package handlers

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"interview-orchestrator/internal/models"
	"interview-orchestrator/internal/services"
)

type InterviewHandler struct {
	interviewService services.InterviewService
	transcriber      services.Transcriber
	maxFileSize      int64
}

func NewInterviewHandler(
	interviewService services.InterviewService,
	transcriber services.Transcriber,
	maxFileSize int64,
) *InterviewHandler {
	return &InterviewHandler{
		interviewService: interviewService,
		transcriber:      transcriber,
		maxFileSize:      maxFileSize,
	}
}

// HandleNextQuestion handles POST /pipeline/:id/question.
func (h *InterviewHandler) HandleNextQuestion(c *fiber.Ctx) error {
	question, err := h.interviewService.NextQuestion(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(question)
}

// HandleAnswer handles POST /pipeline/:id/answer.
func (h *InterviewHandler) HandleAnswer(c *fiber.Ctx) error {
	var req models.AnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	result, err := h.interviewService.EvaluateAnswer(c.Context(), c.Params("id"), req.QuestionID, req.Transcript)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// HandleTone handles POST /pipeline/:id/tone.
func (h *InterviewHandler) HandleTone(c *fiber.Ctx) error {
	var req models.ToneRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	result, err := h.interviewService.AnalyzeTone(c.Context(), c.Params("id"), req.Transcript, req.Metrics)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// HandleAnalysis handles GET /pipeline/:id/analysis.
func (h *InterviewHandler) HandleAnalysis(c *fiber.Ctx) error {
	summary, err := h.interviewService.Analysis(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}

// HandleTranscribe handles POST /transcribe. Audio in, plain text out; the
// caller decides what to do with the transcript.
func (h *InterviewHandler) HandleTranscribe(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("audio")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "audio file is required",
		})
	}
	if fileHeader.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "audio file too large",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to open audio file",
		})
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to read audio file",
		})
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "audio/webm"
	}

	transcript, err := h.transcriber.Transcribe(c.Context(), audio, mimeType)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.TranscribeResponse{Transcript: transcript})
}
