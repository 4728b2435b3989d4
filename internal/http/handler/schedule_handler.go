package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jmadden452/SlotLink/internal/app/service"
	"go.uber.org/zap"
)

// ScheduleDeps groups dependencies required by the public scheduling
// handlers.
type ScheduleDeps struct {
	Logger       *zap.Logger
	Availability service.AvailabilityService
	Bookings     service.BookingService
	Links        service.LinkService
	Enrichment   *service.EnrichmentPipeline
}

// ScheduleHandler implements the public availability, booking and directory
// endpoints.
type ScheduleHandler struct {
	logger       *zap.Logger
	availability service.AvailabilityService
	bookings     service.BookingService
	links        service.LinkService
	enrichment   *service.EnrichmentPipeline
}

// NewScheduleHandler creates a schedule handler with the provided
// dependencies.
func NewScheduleHandler(deps ScheduleDeps) *ScheduleHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleHandler{
		logger:       logger,
		availability: deps.Availability,
		bookings:     deps.Bookings,
		links:        deps.Links,
		enrichment:   deps.Enrichment,
	}
}

// Register wires the public routes onto the provided router.
func (h *ScheduleHandler) Register(router fiber.Router) {
	router.Get("/", h.Health)
	router.Get("/health", h.Health)
	router.Get("/public/scheduling-links", h.Directory)
	router.Get("/schedule/:token", h.Schedule)
	router.Post("/schedule/:token/book", h.Book)
}

// Health is a simple root endpoint so we know the service is running.
func (h *ScheduleHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"service": "SlotLink",
		"status":  "ok",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// ScheduleResponse is the public availability view of a link. Slots are
// grouped by ISO date and rendered as HH:MM start labels.
type ScheduleResponse struct {
	LinkToken      string              `json:"link_id"`
	AdvisorName    string              `json:"advisor_name"`
	MeetingLength  int                 `json:"meeting_length"`
	Questions      []string            `json:"questions"`
	AvailableSlots map[string][]string `json:"available_slots"`
}

// Schedule handles GET /schedule/:token
func (h *ScheduleHandler) Schedule(c *fiber.Ctx) error {
	token := c.Params("token")
	if token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "missing link token",
		})
	}

	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}

	payload, err := h.availability.LinkSchedule(ctx, token)
	if err != nil {
		status, msg := statusForError(err)
		if status == fiber.StatusInternalServerError {
			h.logger.Error("failed to compute schedule", zap.Error(err), zap.String("token", token))
		}
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}

	slots := make(map[string][]string, len(payload.Days))
	for _, day := range payload.Days {
		labels := make([]string, len(day.Slots))
		for i, slot := range day.Slots {
			labels[i] = slot.Start.Format("15:04")
		}
		slots[day.Date] = labels
	}

	return c.JSON(ScheduleResponse{
		LinkToken:      payload.LinkToken,
		AdvisorName:    payload.AdvisorName,
		MeetingLength:  payload.MeetingLength,
		Questions:      payload.Questions,
		AvailableSlots: slots,
	})
}

// BookRequest represents the request body for booking a slot.
type BookRequest struct {
	StartTime  time.Time `json:"start_time"`
	Email      string    `json:"email"`
	ProfileURL *string   `json:"profile_url,omitempty"`
	Answers    []string  `json:"answers,omitempty"`
}

// BookResponse represents the committed meeting.
type BookResponse struct {
	ID             int64     `json:"id"`
	LinkToken      string    `json:"link_id"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	ClientEmail    string    `json:"client_email"`
	Answers        []string  `json:"answers"`
	CRMNotes       *string   `json:"crm_notes,omitempty"`
	ProfileSummary *string   `json:"profile_summary,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Book handles POST /schedule/:token/book. Enrichment is resolved before the
// transaction and is strictly best effort; the transactor re-validates link
// policy and slot conflict regardless of what availability the client saw.
func (h *ScheduleHandler) Book(c *fiber.Ctx) error {
	token := c.Params("token")
	if token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "missing link token",
		})
	}

	var req BookRequest
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
	if req.StartTime.IsZero() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "start_time is required",
		})
	}

	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}

	enrichment := h.enrichment.Resolve(ctx, req.Email, req.ProfileURL)

	meeting, err := h.bookings.Book(ctx, service.BookingInput{
		LinkToken:        token,
		Start:            req.StartTime,
		ClientEmail:      req.Email,
		ClientProfileURL: req.ProfileURL,
		Answers:          req.Answers,
		Enrichment:       enrichment,
	})
	if err != nil {
		status, msg := statusForError(err)
		if status == fiber.StatusInternalServerError {
			h.logger.Error("failed to book slot", zap.Error(err), zap.String("token", token))
		}
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}

	return c.Status(fiber.StatusCreated).JSON(BookResponse{
		ID:             meeting.ID,
		LinkToken:      meeting.LinkToken,
		StartTime:      meeting.StartTime,
		EndTime:        meeting.EndTime,
		ClientEmail:    meeting.ClientEmail,
		Answers:        meeting.Answers,
		CRMNotes:       meeting.CRMNotes,
		ProfileSummary: meeting.ProfileSummary,
		CreatedAt:      meeting.CreatedAt,
	})
}

// Directory handles GET /public/scheduling-links
func (h *ScheduleHandler) Directory(c *fiber.Ctx) error {
	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}

	entries, err := h.links.Directory(ctx)
	if err != nil {
		h.logger.Error("failed to list public links", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to list scheduling links",
		})
	}

	type directoryLink struct {
		Token               string     `json:"link_id"`
		UsageLimit          *int       `json:"usage_limit"`
		ExpiresAt           *time.Time `json:"expiration_date"`
		MeetingLength       int        `json:"meeting_length"`
		AdvanceScheduleDays int        `json:"advance_schedule_days"`
		Questions           []string   `json:"questions"`
	}
	type directoryEntry struct {
		AdvisorName  string          `json:"advisor_name"`
		AdvisorEmail string          `json:"advisor_email"`
		Links        []directoryLink `json:"links"`
	}

	response := make([]directoryEntry, len(entries))
	for i, entry := range entries {
		links := make([]directoryLink, len(entry.Links))
		for j := range entry.Links {
			link := &entry.Links[j]
			links[j] = directoryLink{
				Token:               link.Token,
				UsageLimit:          link.UsageLimit,
				ExpiresAt:           link.ExpiresAt,
				MeetingLength:       link.MeetingLengthMin,
				AdvanceScheduleDays: link.AdvanceScheduleDays,
				Questions:           link.Questions,
			}
		}
		response[i] = directoryEntry{
			AdvisorName:  entry.AdvisorName,
			AdvisorEmail: entry.AdvisorEmail,
			Links:        links,
		}
	}

	return c.JSON(response)
}
