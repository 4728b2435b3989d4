package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jmadden452/SlotLink/internal/app/model"
	"github.com/jmadden452/SlotLink/internal/app/service"
	"github.com/jmadden452/SlotLink/internal/http/middleware"
	"go.uber.org/zap"
)

// WindowDeps groups dependencies required by window handlers.
type WindowDeps struct {
	Logger  *zap.Logger
	Windows service.WindowService
}

// WindowHandler implements the advisor-facing window CRUD endpoints.
type WindowHandler struct {
	logger  *zap.Logger
	windows service.WindowService
}

// NewWindowHandler creates a window handler with the provided dependencies.
func NewWindowHandler(deps WindowDeps) *WindowHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WindowHandler{
		logger:  logger,
		windows: deps.Windows,
	}
}

// Register wires window routes onto the provided router. The router is
// expected to already run AdvisorAuth.
func (h *WindowHandler) Register(router fiber.Router) {
	windows := router.Group("/windows")
	{
		windows.Post("/", h.CreateWindow)
		windows.Get("/", h.ListWindows)
		windows.Put("/:id", h.UpdateWindow)
		windows.Delete("/:id", h.DeleteWindow)
	}
}

// WindowRequest represents the request body for creating a window.
type WindowRequest struct {
	Weekday   int    `json:"weekday"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// WindowUpdateRequest represents the request body for updating a window.
type WindowUpdateRequest struct {
	Weekday   *int    `json:"weekday,omitempty"`
	StartTime *string `json:"start_time,omitempty"`
	EndTime   *string `json:"end_time,omitempty"`
}

// WindowResponse represents a window in API responses; times are HH:MM.
type WindowResponse struct {
	ID        int64  `json:"id"`
	Weekday   int    `json:"weekday"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

func windowResponse(w *model.TimeWindow) WindowResponse {
	return WindowResponse{
		ID:        w.ID,
		Weekday:   w.Weekday,
		StartTime: model.ClockLabel(w.StartMinute),
		EndTime:   model.ClockLabel(w.EndMinute),
	}
}

// CreateWindow handles POST /api/windows
func (h *WindowHandler) CreateWindow(c *fiber.Ctx) error {
	advisorID, ok := middleware.AdvisorID(c)
	if !ok {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	var req WindowRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	start, err := parseClock(req.StartTime)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid start_time, expected HH:MM",
		})
	}
	end, err := parseClock(req.EndTime)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid end_time, expected HH:MM",
		})
	}

	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}

	window, err := h.windows.CreateWindow(ctx, advisorID, service.WindowInput{
		Weekday:     req.Weekday,
		StartMinute: start,
		EndMinute:   end,
	})
	if err != nil {
		status, msg := statusForError(err)
		if status == fiber.StatusInternalServerError {
			h.logger.Error("failed to create window", zap.Error(err))
		}
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}

	return c.Status(fiber.StatusCreated).JSON(windowResponse(window))
}

// ListWindows handles GET /api/windows
func (h *WindowHandler) ListWindows(c *fiber.Ctx) error {
	advisorID, ok := middleware.AdvisorID(c)
	if !ok {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}

	windows, err := h.windows.ListWindows(ctx, advisorID)
	if err != nil {
		h.logger.Error("failed to list windows", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to list windows",
		})
	}

	response := make([]WindowResponse, len(windows))
	for i := range windows {
		response[i] = windowResponse(&windows[i])
	}
	return c.JSON(fiber.Map{"windows": response})
}

// UpdateWindow handles PUT /api/windows/:id
func (h *WindowHandler) UpdateWindow(c *fiber.Ctx) error {
	advisorID, ok := middleware.AdvisorID(c)
	if !ok {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	windowID, err := c.ParamsInt("id")
	if err != nil || windowID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid window id",
		})
	}

	var req WindowUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	input := service.WindowUpdateInput{Weekday: req.Weekday}
	if req.StartTime != nil {
		start, err := parseClock(*req.StartTime)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid start_time, expected HH:MM",
			})
		}
		input.StartMinute = &start
	}
	if req.EndTime != nil {
		end, err := parseClock(*req.EndTime)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid end_time, expected HH:MM",
			})
		}
		input.EndMinute = &end
	}

	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}

	window, err := h.windows.UpdateWindow(ctx, advisorID, int64(windowID), input)
	if err != nil {
		status, msg := statusForError(err)
		if status == fiber.StatusInternalServerError {
			h.logger.Error("failed to update window", zap.Error(err))
		}
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}

	return c.JSON(windowResponse(window))
}

// DeleteWindow handles DELETE /api/windows/:id
func (h *WindowHandler) DeleteWindow(c *fiber.Ctx) error {
	advisorID, ok := middleware.AdvisorID(c)
	if !ok {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	windowID, err := c.ParamsInt("id")
	if err != nil || windowID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid window id",
		})
	}

	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := h.windows.DeleteWindow(ctx, advisorID, int64(windowID)); err != nil {
		status, msg := statusForError(err)
		if status == fiber.StatusInternalServerError {
			h.logger.Error("failed to delete window", zap.Error(err))
		}
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}

	return c.JSON(fiber.Map{"success": true})
}

// parseClock parses "HH:MM" (seconds tolerated and ignored) into a
// minute-of-day value.
func parseClock(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid time %q", s)
	}

	var hour, minute int
	if _, err := fmt.Sscanf(parts[0]+":"+parts[1], "%d:%d", &hour, &minute); err != nil {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	return hour*60 + minute, nil
}
