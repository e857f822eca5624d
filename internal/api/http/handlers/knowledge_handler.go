package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-assistant/internal/api/dto"
	"github.com/spec-kit/ticket-assistant/internal/domain"
	"github.com/spec-kit/ticket-assistant/internal/repository"
	"github.com/spec-kit/ticket-assistant/internal/service"
	apperrors "github.com/spec-kit/ticket-assistant/pkg/util"
)

// KnowledgeHandler accepts knowledge documents.
type KnowledgeHandler struct {
	service *service.KnowledgeService
}

// NewKnowledgeHandler constructs handler.
func NewKnowledgeHandler(knowledgeService *service.KnowledgeService) *KnowledgeHandler {
	return &KnowledgeHandler{service: knowledgeService}
}

// AddDocument POST /knowledge.
func (h *KnowledgeHandler) AddDocument(c *fiber.Ctx) error {
	var req dto.KnowledgeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	doc := domain.KnowledgeDocument{
		ID:       req.ID,
		Text:     req.Text,
		Metadata: repository.FlattenMetadata(req.Metadata),
	}
	if err := h.service.Add(c.UserContext(), doc); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": doc.ID})
}

// ListDocuments GET /knowledge.
func (h *KnowledgeHandler) ListDocuments(c *fiber.Ctx) error {
	docs, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	resp := dto.KnowledgeListResponse{Documents: make([]dto.KnowledgeResponse, 0, len(docs)), Total: len(docs)}
	for _, doc := range docs {
		resp.Documents = append(resp.Documents, dto.NewKnowledgeResponse(doc))
	}
	return c.JSON(resp)
}

// GetDocument GET /knowledge/:id.
func (h *KnowledgeHandler) GetDocument(c *fiber.Ctx) error {
	doc, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewKnowledgeResponse(*doc))
}
