package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/dmalone/crossprep/internal/logger"
	"github.com/dmalone/crossprep/internal/models"
	"github.com/dmalone/crossprep/internal/services"
)

// SessionsHandler handles prep session lifecycle endpoints
type SessionsHandler struct {
	sessions *services.SessionService
	wizard   *services.Wizard
}

// NewSessionsHandler creates a new sessions handler
func NewSessionsHandler(sessions *services.SessionService, wizard *services.Wizard) *SessionsHandler {
	return &SessionsHandler{sessions: sessions, wizard: wizard}
}

// CreateSessionRequest is the payload for starting a prep session
type CreateSessionRequest struct {
	Kind        string `json:"kind" example:"testimony"`
	SubjectName string `json:"subject_name" example:"Jane Doe"`
	CaseName    string `json:"case_name" example:"Doe v. Acme Corp"`
}

// SessionResponse wraps a session with its wizard view
type SessionResponse struct {
	Session *models.Session      `json:"session"`
	Wizard  services.WizardState `json:"wizard"`
}

// CreateSession starts a new prep session
// @Summary Create a prep session
// @Description Starts a testimony or deposition prep session in the documents step
// @Tags sessions
// @Accept json
// @Produce json
// @Param session body CreateSessionRequest true "Session parameters"
// @Success 201 {object} SessionResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Router /v1/sessions [post]
func (h *SessionsHandler) CreateSession(c *fiber.Ctx) error {
	var req CreateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}

	kind := models.SessionKind(req.Kind)
	if !kind.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "kind must be testimony or deposition",
		})
	}
	if strings.TrimSpace(req.SubjectName) == "" || strings.TrimSpace(req.CaseName) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "subject_name and case_name are required",
		})
	}

	session, err := h.sessions.Create(kind, strings.TrimSpace(req.SubjectName), strings.TrimSpace(req.CaseName))
	if err != nil {
		logger.Errorf("failed to create session: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create session"})
	}

	logger.Infof("created %s session %s for %s", session.Kind, session.ID, session.SubjectName)
	return c.Status(fiber.StatusCreated).JSON(SessionResponse{
		Session: session,
		Wizard:  h.wizard.State(session),
	})
}

// ListSessions returns all persisted sessions
// @Summary List sessions
// @Tags sessions
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /v1/sessions [get]
func (h *SessionsHandler) ListSessions(c *fiber.Ctx) error {
	sessions, err := h.sessions.List()
	if err != nil {
		logger.Errorf("failed to list sessions: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list sessions"})
	}
	return c.JSON(fiber.Map{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

// GetSession returns one session with its wizard view
// @Summary Get a session
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SessionResponse
// @Failure 404 {object} map[string]string "Session not found"
// @Router /v1/sessions/{id} [get]
func (h *SessionsHandler) GetSession(c *fiber.Ctx) error {
	session, ok := h.sessions.Get(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}
	return c.JSON(SessionResponse{
		Session: session,
		Wizard:  h.wizard.State(session),
	})
}

// DeleteSession removes a session and returns the flow to setup. The usage
// ledger is not affected.
// @Summary Delete a session
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} map[string]string
// @Router /v1/sessions/{id} [delete]
func (h *SessionsHandler) DeleteSession(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.wizard.Reset(id); err != nil {
		logger.Errorf("failed to delete session %s: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete session"})
	}
	return c.JSON(fiber.Map{"status": "deleted"})
}
