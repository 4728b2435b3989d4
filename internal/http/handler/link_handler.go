package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jmadden452/SlotLink/internal/app/model"
	"github.com/jmadden452/SlotLink/internal/app/service"
	"github.com/jmadden452/SlotLink/internal/http/middleware"
	"go.uber.org/zap"
)

// LinkDeps groups dependencies required by link handlers.
type LinkDeps struct {
	Logger *zap.Logger
	Links  service.LinkService
}

// LinkHandler implements the advisor-facing link endpoints.
type LinkHandler struct {
	logger *zap.Logger
	links  service.LinkService
}

// NewLinkHandler creates a link handler with the provided dependencies.
func NewLinkHandler(deps LinkDeps) *LinkHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LinkHandler{
		logger: logger,
		links:  deps.Links,
	}
}

// Register wires link routes onto the provided router. The router is expected
// to already run AdvisorAuth.
func (h *LinkHandler) Register(router fiber.Router) {
	links := router.Group("/links")
	{
		links.Post("/", h.CreateLink)
		links.Get("/", h.ListLinks)
	}
}

// CreateLinkRequest represents the request body for creating a scheduling link.
type CreateLinkRequest struct {
	UsageLimit          *int       `json:"usage_limit,omitempty"`
	ExpiresAt           *time.Time `json:"expires_at,omitempty"`
	MeetingLength       int        `json:"meeting_length"`
	AdvanceScheduleDays int        `json:"advance_schedule_days"`
	Questions           []string   `json:"questions,omitempty"`
}

// LinkResponse represents a scheduling link in API responses.
type LinkResponse struct {
	ID                  int64      `json:"id"`
	Token               string     `json:"token"`
	UsageLimit          *int       `json:"usage_limit"`
	ExpiresAt           *time.Time `json:"expires_at"`
	MeetingLength       int        `json:"meeting_length"`
	AdvanceScheduleDays int        `json:"advance_schedule_days"`
	Questions           []string   `json:"questions"`
	CreatedAt           time.Time  `json:"created_at"`
}

func linkResponse(link *model.SchedulingLink) LinkResponse {
	return LinkResponse{
		ID:                  link.ID,
		Token:               link.Token,
		UsageLimit:          link.UsageLimit,
		ExpiresAt:           link.ExpiresAt,
		MeetingLength:       link.MeetingLengthMin,
		AdvanceScheduleDays: link.AdvanceScheduleDays,
		Questions:           link.Questions,
		CreatedAt:           link.CreatedAt,
	}
}

// CreateLink handles POST /api/links
func (h *LinkHandler) CreateLink(c *fiber.Ctx) error {
	advisorID, ok := middleware.AdvisorID(c)
	if !ok {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	var req CreateLinkRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}

	link, err := h.links.CreateLink(ctx, advisorID, service.CreateLinkInput{
		UsageLimit:          req.UsageLimit,
		ExpiresAt:           req.ExpiresAt,
		MeetingLengthMin:    req.MeetingLength,
		AdvanceScheduleDays: req.AdvanceScheduleDays,
		Questions:           req.Questions,
	})
	if err != nil {
		status, msg := statusForError(err)
		if status == fiber.StatusInternalServerError {
			h.logger.Error("failed to create link", zap.Error(err))
		}
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}

	return c.Status(fiber.StatusCreated).JSON(linkResponse(link))
}

// ListLinks handles GET /api/links
func (h *LinkHandler) ListLinks(c *fiber.Ctx) error {
	advisorID, ok := middleware.AdvisorID(c)
	if !ok {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}

	links, err := h.links.ListLinks(ctx, advisorID)
	if err != nil {
		h.logger.Error("failed to list links", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to list links",
		})
	}

	response := make([]LinkResponse, len(links))
	for i := range links {
		response[i] = linkResponse(&links[i])
	}
	return c.JSON(fiber.Map{"links": response})
}
