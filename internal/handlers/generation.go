package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dmalone/crossprep/internal/logger"
	"github.com/dmalone/crossprep/internal/models"
	"github.com/dmalone/crossprep/internal/services"
)

// GenerationHandler handles question generation and document analysis
type GenerationHandler struct {
	sessions *services.SessionService
	wizard   *services.Wizard
	analyzer *services.Analyzer
}

// NewGenerationHandler creates a new generation handler
func NewGenerationHandler(sessions *services.SessionService, wizard *services.Wizard, analyzer *services.Analyzer) *GenerationHandler {
	return &GenerationHandler{sessions: sessions, wizard: wizard, analyzer: analyzer}
}

// QuotaResponse is returned with status 429 when the price ceiling would be
// exceeded by the requested operation
type QuotaResponse struct {
	Error    string               `json:"error"`
	Decision models.LimitDecision `json:"decision"`
}

// GenerateQuestions produces the question set for a session
// @Summary Generate prep questions
// @Description Sends the session documents to the model and stores the resulting question set. Falls back to a deterministic offline set when the model is unreachable or returns unparseable output. Denied with 429 when the run would exceed the session price limit.
// @Tags generation
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} services.QuestionResult
// @Failure 404 {object} map[string]string "Session not found"
// @Failure 422 {object} map[string]string "No extracted documents"
// @Failure 429 {object} QuotaResponse "Price limit reached"
// @Router /v1/sessions/{id}/questions [post]
func (h *GenerationHandler) GenerateQuestions(c *fiber.Ctx) error {
	session, ok := h.sessions.Get(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}
	if session.ReadyDocuments() == 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "upload at least one readable document first",
		})
	}

	result, decision := h.analyzer.GenerateQuestions(c.Context(), session)
	if decision != nil {
		h.wizard.MarkLimitReached(session.ID, decision.Reason)
		return c.Status(fiber.StatusTooManyRequests).JSON(QuotaResponse{
			Error:    decision.Reason,
			Decision: *decision,
		})
	}

	if _, ok := h.sessions.SetQuestions(session.ID, result.Questions); !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}

	logger.Infof("generated %d questions for session %s (fallback=%t cost=$%.4f)",
		len(result.Questions), session.ID, result.UsedFallback, result.Cost)
	return c.JSON(result)
}

// GenerateAnalysis produces the deposition document analysis
// @Summary Analyze case documents
// @Description Reviews the uploaded documents for gaps, contradictions, themes and a timeline. Deposition sessions only.
// @Tags generation
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} services.AnalysisResult
// @Failure 404 {object} map[string]string "Session not found"
// @Failure 422 {object} map[string]string "Wrong session kind or no documents"
// @Failure 429 {object} QuotaResponse "Price limit reached"
// @Router /v1/sessions/{id}/analysis [post]
func (h *GenerationHandler) GenerateAnalysis(c *fiber.Ctx) error {
	session, ok := h.sessions.Get(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}
	if session.Kind != models.KindDeposition {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "analysis is only available for deposition sessions",
		})
	}
	if session.ReadyDocuments() == 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "upload at least one readable document first",
		})
	}

	result, decision := h.analyzer.GenerateAnalysis(c.Context(), session)
	if decision != nil {
		h.wizard.MarkLimitReached(session.ID, decision.Reason)
		return c.Status(fiber.StatusTooManyRequests).JSON(QuotaResponse{
			Error:    decision.Reason,
			Decision: *decision,
		})
	}

	if _, ok := h.sessions.SetAnalysis(session.ID, result.Analysis); !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}

	logger.Infof("analyzed session %s (fallback=%t cost=$%.4f)", session.ID, result.UsedFallback, result.Cost)
	return c.JSON(result)
}
