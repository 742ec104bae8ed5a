package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dmalone/crossprep/internal/logger"
	"github.com/dmalone/crossprep/internal/models"
	"github.com/dmalone/crossprep/internal/services"
)

// OutlineHandler handles deposition outline building and export
type OutlineHandler struct {
	sessions *services.SessionService
}

// NewOutlineHandler creates a new outline handler
func NewOutlineHandler(sessions *services.SessionService) *OutlineHandler {
	return &OutlineHandler{sessions: sessions}
}

// BuildOutlineRequest is the payload for building an outline. With no
// sections, questions are grouped by category in a fixed order.
type BuildOutlineRequest struct {
	Sections []models.OutlineSection `json:"sections"`
}

// sectionOrder is the default grouping order for auto-built outlines
var sectionOrder = []string{
	models.CategoryBackground,
	models.CategoryFoundation,
	models.CategoryTimeline,
	models.CategoryCommunications,
	models.CategoryInconsistency,
	models.CategoryCredibility,
	models.CategoryDamages,
}

// BuildOutline arranges generated questions into an ordered outline
// @Summary Build the deposition outline
// @Description Arranges question IDs into titled sections. Every referenced ID must belong to a question already on the session. An empty body groups all questions by category.
// @Tags outline
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param outline body BuildOutlineRequest false "Explicit sections"
// @Success 200 {object} models.Outline
// @Failure 400 {object} map[string]string "Unknown question ID"
// @Failure 404 {object} map[string]string "Session not found"
// @Failure 422 {object} map[string]string "No questions generated yet"
// @Router /v1/sessions/{id}/outline [post]
func (h *OutlineHandler) BuildOutline(c *fiber.Ctx) error {
	session, ok := h.sessions.Get(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}
	if len(session.Questions) == 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "generate questions before building an outline",
		})
	}

	var req BuildOutlineRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
		}
	}

	var outline *models.Outline
	if len(req.Sections) == 0 {
		outline = autoOutline(session)
	} else {
		for _, section := range req.Sections {
			if strings.TrimSpace(section.Title) == "" {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "section titles are required"})
			}
			for _, qid := range section.QuestionIDs {
				if _, ok := session.QuestionByID(qid); !ok {
					return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
						"error": fmt.Sprintf("unknown question id: %s", qid),
					})
				}
			}
		}
		outline = &models.Outline{Sections: req.Sections, BuiltAt: time.Now()}
	}

	if _, ok := h.sessions.SetOutline(session.ID, outline); !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}

	logger.Infof("built outline with %d section(s) for session %s", len(outline.Sections), session.ID)
	return c.JSON(outline)
}

// autoOutline groups the session's questions by category, skipping empty
// categories and keeping generation order inside each section
func autoOutline(session *models.Session) *models.Outline {
	byCategory := make(map[string][]string)
	for _, q := range session.Questions {
		byCategory[q.Category] = append(byCategory[q.Category], q.ID)
	}

	outline := &models.Outline{BuiltAt: time.Now()}
	for _, category := range sectionOrder {
		if ids := byCategory[category]; len(ids) > 0 {
			outline.Sections = append(outline.Sections, models.OutlineSection{
				Title:       titleCase(category),
				QuestionIDs: ids,
			})
			delete(byCategory, category)
		}
	}
	// Categories the model invented go last, in question order
	for _, q := range session.Questions {
		if ids := byCategory[q.Category]; len(ids) > 0 {
			outline.Sections = append(outline.Sections, models.OutlineSection{
				Title:       titleCase(q.Category),
				QuestionIDs: ids,
			})
			delete(byCategory, q.Category)
		}
	}
	return outline
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// ExportOutline renders the outline as plain text for printing
// @Summary Export the outline as text
// @Tags outline
// @Produce plain
// @Param id path string true "Session ID"
// @Success 200 {string} string "Plain-text outline"
// @Failure 404 {object} map[string]string "Session or outline not found"
// @Router /v1/sessions/{id}/outline/export [get]
func (h *OutlineHandler) ExportOutline(c *fiber.Ctx) error {
	session, ok := h.sessions.Get(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}
	if session.Outline == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no outline has been built"})
	}

	var b strings.Builder
	fmt.Fprintf(&b, "DEPOSITION OUTLINE\n")
	fmt.Fprintf(&b, "Case:    %s\n", session.CaseName)
	fmt.Fprintf(&b, "Witness: %s\n", session.SubjectName)
	fmt.Fprintf(&b, "Built:   %s\n\n", session.Outline.BuiltAt.Format("January 2, 2006 3:04 PM"))

	for i, section := range session.Outline.Sections {
		fmt.Fprintf(&b, "%d. %s\n", i+1, strings.ToUpper(section.Title))
		n := 1
		for _, qid := range section.QuestionIDs {
			q, ok := session.QuestionByID(qid)
			if !ok {
				continue
			}
			fmt.Fprintf(&b, "   %d.%d %s\n", i+1, n, q.Text)
			for _, f := range q.FollowUps {
				fmt.Fprintf(&b, "        - %s\n", f)
			}
			n++
		}
		b.WriteString("\n")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="outline.txt"`)
	return c.SendString(b.String())
}
