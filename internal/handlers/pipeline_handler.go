package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"interview-orchestrator/internal/apperrors"
	"interview-orchestrator/internal/metrics"
	"interview-orchestrator/internal/models"
	"interview-orchestrator/internal/pipeline"
	"interview-orchestrator/internal/services"
)

type PipelineHandler struct {
	stateMachine   *pipeline.StateMachine
	storageService services.StorageService
	jdParser       services.JDParserService
	maxFileSize    int64
}

func NewPipelineHandler(
	stateMachine *pipeline.StateMachine,
	storageService services.StorageService,
	jdParser services.JDParserService,
	maxFileSize int64,
) *PipelineHandler {
	return &PipelineHandler{
		stateMachine:   stateMachine,
		storageService: storageService,
		jdParser:       jdParser,
		maxFileSize:    maxFileSize,
	}
}

// HandleStart handles POST /pipeline/start. Accepts a JSON body or a
// multipart form carrying the job description as a PDF under "jd_file".
func (h *PipelineHandler) HandleStart(c *fiber.Ctx) error {
	var req models.StartPipelineRequest

	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		if err := h.parseMultipartStart(c, &req); err != nil {
			return respondError(c, err)
		}
	} else if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	pipe, err := h.stateMachine.Start(c.Context(), req.JobTitle, req.Company, req.JD)
	if err != nil {
		return respondError(c, err)
	}
	metrics.PipelinesStarted.Inc()

	return c.Status(fiber.StatusCreated).JSON(models.StartPipelineResponse{
		PipelineID: pipe.ID,
		Pipeline:   pipe,
	})
}

// parseMultipartStart fills req from form fields, extracting the JD text
// from an uploaded PDF when no jd field is present.
func (h *PipelineHandler) parseMultipartStart(c *fiber.Ctx, req *models.StartPipelineRequest) error {
	form, err := c.MultipartForm()
	if err != nil {
		return apperrors.NewValidation("failed to parse multipart form")
	}

	req.JobTitle = formValue(form.Value, "job_title")
	req.Company = formValue(form.Value, "company")
	req.JD = formValue(form.Value, "jd")

	jdFiles, exists := form.File["jd_file"]
	if req.JD == "" && exists && len(jdFiles) > 0 {
		jdFile := jdFiles[0]
		if jdFile.Size > h.maxFileSize {
			return apperrors.NewValidation("jd_file too large, max %d bytes", h.maxFileSize)
		}

		filename, filePath, err := h.storageService.SaveFile(jdFile, "jd")
		if err != nil {
			return apperrors.NewValidation("failed to save jd_file: %v", err)
		}
		defer h.storageService.DeleteFile(filename)

		text, err := h.jdParser.ExtractText(filePath)
		if err != nil {
			return apperrors.NewValidation("failed to extract text from jd_file: %v", err)
		}
		req.JD = text
	}

	return nil
}

// HandleStatus handles GET /pipeline/status/:id.
func (h *PipelineHandler) HandleStatus(c *fiber.Ctx) error {
	pipe, err := h.stateMachine.GetStatus(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.PipelineStatusResponse{Pipeline: pipe})
}

// HandleAdvancePhase handles POST /pipeline/:id/phase.
func (h *PipelineHandler) HandleAdvancePhase(c *fiber.Ctx) error {
	var req models.AdvancePhaseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if err := h.stateMachine.AdvancePhase(c.Context(), c.Params("id"), req.Phase); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleComplete handles POST /pipeline/:id/complete.
func (h *PipelineHandler) HandleComplete(c *fiber.Ctx) error {
	pipe, err := h.stateMachine.Complete(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.PipelineStatusResponse{Pipeline: pipe})
}

func formValue(values map[string][]string, key string) string {
	if v, ok := values[key]; ok && len(v) > 0 {
		return v[0]
	}
	return ""
}
