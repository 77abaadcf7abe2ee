package handler

import (
	"io"
	"strings"

	"docuchat/internal/delivery/http/dto"
	"docuchat/internal/usecase/rag"

	"github.com/gofiber/fiber/v2"
)

type DocumentHandler struct {
	ragUsecase     *rag.RAGUsecase
	maxUploadFiles int
}

func NewDocumentHandler(ragUsecase *rag.RAGUsecase, maxUploadFiles int) *DocumentHandler {
	return &DocumentHandler{
		ragUsecase:     ragUsecase,
		maxUploadFiles: maxUploadFiles,
	}
}

// Upload accepts a multipart batch of PDFs and indexes them. The optional
// replace form value drops all previously indexed chunks first; the default
// accumulates new chunks alongside the old ones.
func (h *DocumentHandler) Upload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "multipart form required"})
	}

	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "no files uploaded"})
	}
	if len(fileHeaders) > h.maxUploadFiles {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "too many files"})
	}

	var files []rag.UploadedFile
	for _, fh := range fileHeaders {
		if !strings.HasSuffix(strings.ToLower(fh.Filename), ".pdf") {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "only PDF files supported: " + fh.Filename})
		}

		f, err := fh.Open()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to open file"})
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read file"})
		}

		files = append(files, rag.UploadedFile{Filename: fh.Filename, Data: data})
	}

	replace := c.FormValue("replace") == "true"

	count, err := h.ragUsecase.Ingest(c.Context(), files, replace)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(dto.UploadResponse{
		Status:        "success",
		IndexedFiles:  len(files),
		IndexedChunks: count,
		Replaced:      replace,
	})
}

// Query answers a one-off question without attaching it to a chat.
func (h *DocumentHandler) Query(c *fiber.Ctx) error {
	var req dto.QueryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	question := strings.TrimSpace(req.Question)
	if question == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "question cannot be empty"})
	}

	answer, sources, err := h.ragUsecase.Answer(c.Context(), question, req.K)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(dto.QueryResponse{
		Question: question,
		Answer:   answer,
		Sources:  sources,
	})
}
