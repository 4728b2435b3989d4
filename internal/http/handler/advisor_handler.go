package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jmadden452/SlotLink/internal/app/service"
	httpUtil "github.com/jmadden452/SlotLink/internal/http/util"
	"go.uber.org/zap"
)

// AdvisorDeps groups dependencies required by advisor handlers.
type AdvisorDeps struct {
	Logger   *zap.Logger
	Advisors service.AdvisorService
	Signer   *httpUtil.AdvisorTokenSigner
}

// AdvisorHandler implements advisor registration.
type AdvisorHandler struct {
	logger   *zap.Logger
	advisors service.AdvisorService
	signer   *httpUtil.AdvisorTokenSigner
}

// NewAdvisorHandler creates an advisor handler with the provided dependencies.
func NewAdvisorHandler(deps AdvisorDeps) *AdvisorHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdvisorHandler{
		logger:   logger,
		advisors: deps.Advisors,
		signer:   deps.Signer,
	}
}

// Register wires advisor routes onto the provided router.
func (h *AdvisorHandler) Register(router fiber.Router) {
	router.Post("/api/advisors", h.RegisterAdvisor)
}

// RegisterAdvisorRequest represents the request body for advisor registration.
type RegisterAdvisorRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// RegisterAdvisorResponse carries the advisor plus the opaque token later
// requests present as identity.
type RegisterAdvisorResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token"`
}

// RegisterAdvisor handles POST /api/advisors. Registration is idempotent per
// email: a returning advisor gets its existing id back with a fresh token.
func (h *AdvisorHandler) RegisterAdvisor(c *fiber.Ctx) error {
	var req RegisterAdvisorRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if req.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "email is required",
		})
	}

	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}

	advisor, err := h.advisors.Register(ctx, req.Name, req.Email)
	if err != nil {
		status, msg := statusForError(err)
		if status == fiber.StatusInternalServerError {
			h.logger.Error("failed to register advisor", zap.Error(err))
		}
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}

	token, err := h.signer.Issue(advisor.ID)
	if err != nil {
		h.logger.Error("failed to issue advisor token", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to issue advisor token",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(RegisterAdvisorResponse{
		ID:    advisor.ID,
		Name:  advisor.Name,
		Email: advisor.Email,
		Token: token,
	})
}
