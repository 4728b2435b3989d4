package server

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmadden452/SlotLink/internal/app/service"
	"github.com/jmadden452/SlotLink/internal/http/handler"
	"github.com/jmadden452/SlotLink/internal/http/middleware"
	httpUtil "github.com/jmadden452/SlotLink/internal/http/util"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const advisorTokenTTL = 30 * 24 * time.Hour

// Dependencies bundles everything the HTTP server needs.
type Dependencies struct {
	Logger       *zap.Logger
	Postgres     *pgxpool.Pool
	Redis        *redis.Client
	Advisors     service.AdvisorService
	Windows      service.WindowService
	Links        service.LinkService
	Availability service.AvailabilityService
	Bookings     service.BookingService
	Enrichment   *service.EnrichmentPipeline
	Secret       []byte
}

// Server wraps the Fiber application and its dependencies.
type Server struct {
	app  *fiber.App
	deps Dependencies
}

// New creates a new HTTP server instance with default routes.
func New(deps Dependencies) *Server {
	app := fiber.New()

	s := &Server{
		app:  app,
		deps: deps,
	}

	s.registerRoutes()
	return s
}

// Listen starts the Fiber server on the given address.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the Fiber server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) registerRoutes() {
	s.app.Use(middleware.RequestID())
	s.app.Use(middleware.Recovery(s.deps.Logger))
	s.app.Use(middleware.Logger(s.deps.Logger))
	s.app.Use(middleware.CORS())

	signer := httpUtil.NewAdvisorTokenSigner(s.deps.Secret, advisorTokenTTL)

	scheduleHandler := handler.NewScheduleHandler(handler.ScheduleDeps{
		Logger:       s.deps.Logger,
		Availability: s.deps.Availability,
		Bookings:     s.deps.Bookings,
		Links:        s.deps.Links,
		Enrichment:   s.deps.Enrichment,
	})

	advisorHandler := handler.NewAdvisorHandler(handler.AdvisorDeps{
		Logger:   s.deps.Logger,
		Advisors: s.deps.Advisors,
		Signer:   signer,
	})
	// Registration must be wired before the authed /api group so it stays
	// reachable without a token.
	advisorHandler.Register(s.app)

	// Advisor-scoped management API.
	api := s.app.Group("/api", middleware.AdvisorAuth(signer))
	handler.NewWindowHandler(handler.WindowDeps{
		Logger:  s.deps.Logger,
		Windows: s.deps.Windows,
	}).Register(api)
	handler.NewLinkHandler(handler.LinkDeps{
		Logger: s.deps.Logger,
		Links:  s.deps.Links,
	}).Register(api)

	// Public booking surface, rate limited per client IP.
	if s.deps.Redis != nil {
		s.app.Use("/schedule", middleware.RateLimit(s.deps.Redis, middleware.DefaultRateLimitConfig(), s.deps.Logger))
	}
	scheduleHandler.Register(s.app)
}
