package handlers

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/dmalone/crossprep/internal/logger"
	"github.com/dmalone/crossprep/internal/services"
)

// DocumentsHandler handles case document uploads
type DocumentsHandler struct {
	ingest *services.Ingest
}

// NewDocumentsHandler creates a new documents handler
func NewDocumentsHandler(ingest *services.Ingest) *DocumentsHandler {
	return &DocumentsHandler{ingest: ingest}
}

// UploadDocuments ingests one or more files into a session
// @Summary Upload case documents
// @Description Accepts multipart files under the "files" field. Each file is checked against the size and document-count limits, extracted and classified. Rejections are reported per file and never abort the batch.
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Session ID"
// @Param files formData file true "Files to upload"
// @Success 200 {object} services.BatchResult
// @Failure 400 {object} map[string]string "No files provided"
// @Failure 404 {object} map[string]string "Session not found"
// @Router /v1/sessions/{id}/documents [post]
func (h *DocumentsHandler) UploadDocuments(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "expected multipart form data"})
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		// Accept a single "file" field too
		headers = form.File["file"]
	}
	if len(headers) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "no files provided"})
	}

	files := make([]services.IncomingFile, 0, len(headers))
	for _, header := range headers {
		src, err := header.Open()
		if err != nil {
			logger.Warnf("failed to open uploaded file %s: %v", header.Filename, err)
			continue
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			logger.Warnf("failed to read uploaded file %s: %v", header.Filename, err)
			continue
		}
		files = append(files, services.IncomingFile{Name: header.Filename, Data: data})
	}

	result, ok := h.ingest.ProcessBatch(c.Params("id"), files)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}

	logger.Infof("ingested %d file(s), rejected %d for session %s",
		len(result.Added), len(result.Rejected), c.Params("id"))
	return c.JSON(result)
}
