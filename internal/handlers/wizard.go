package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/dmalone/crossprep/internal/services"
)

// WizardHandler handles prep flow navigation endpoints
type WizardHandler struct {
	sessions *services.SessionService
	wizard   *services.Wizard
}

// NewWizardHandler creates a new wizard handler
func NewWizardHandler(sessions *services.SessionService, wizard *services.Wizard) *WizardHandler {
	return &WizardHandler{sessions: sessions, wizard: wizard}
}

// GetState returns the wizard view of a session
// @Summary Get wizard state
// @Tags wizard
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} services.WizardState
// @Failure 404 {object} map[string]string "Session not found"
// @Router /v1/sessions/{id}/wizard [get]
func (h *WizardHandler) GetState(c *fiber.Ctx) error {
	session, ok := h.sessions.Get(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}
	return c.JSON(h.wizard.State(session))
}

// Advance moves the session to the next step
// @Summary Advance the wizard
// @Description Moves to the next step of the flow when its requirements are met. Blocked while the session is in the limit_reached state.
// @Tags wizard
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} services.WizardState
// @Failure 404 {object} map[string]string "Session not found"
// @Failure 409 {object} map[string]string "Requirements not met or limit reached"
// @Router /v1/sessions/{id}/wizard/advance [post]
func (h *WizardHandler) Advance(c *fiber.Ctx) error {
	session, err := h.wizard.Advance(c.Params("id"))
	if err != nil {
		return h.wizardError(c, err)
	}
	return c.JSON(h.wizard.State(session))
}

// BackRequest names the earlier step to return to
type BackRequest struct {
	Step string `json:"step" example:"documents"`
}

// Back navigates to an accessible earlier step
// @Summary Go back to an earlier step
// @Tags wizard
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param step body BackRequest true "Target step"
// @Success 200 {object} services.WizardState
// @Failure 404 {object} map[string]string "Session not found"
// @Failure 409 {object} map[string]string "Step not accessible"
// @Router /v1/sessions/{id}/wizard/back [post]
func (h *WizardHandler) Back(c *fiber.Ctx) error {
	var req BackRequest
	if err := c.BodyParser(&req); err != nil || req.Step == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "step is required"})
	}

	session, err := h.wizard.Back(c.Params("id"), req.Step)
	if err != nil {
		return h.wizardError(c, err)
	}
	return c.JSON(h.wizard.State(session))
}

// Acknowledge clears the limit_reached state so the user can keep browsing
// already-generated content
// @Summary Acknowledge a usage limit
// @Tags wizard
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} services.WizardState
// @Failure 404 {object} map[string]string "Session not found"
// @Router /v1/sessions/{id}/acknowledge [post]
func (h *WizardHandler) Acknowledge(c *fiber.Ctx) error {
	session, err := h.wizard.Acknowledge(c.Params("id"))
	if err != nil {
		return h.wizardError(c, err)
	}
	return c.JSON(h.wizard.State(session))
}

func (h *WizardHandler) wizardError(c *fiber.Ctx, err error) error {
	status := fiber.StatusConflict
	if errors.Is(err, services.ErrUnknownSession) {
		status = fiber.StatusNotFound
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
