package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/gradelens/gradelens-api/internal/config"
	"github.com/gradelens/gradelens-api/internal/handler"
	"github.com/gradelens/gradelens-api/internal/middleware"
	"github.com/gradelens/gradelens-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	StudentHandler    *handler.StudentHandler
	AssignmentHandler *handler.AssignmentHandler
	SubmissionHandler *handler.SubmissionHandler
	GradingHandler    *handler.GradingHandler
	PlagiarismHandler *handler.PlagiarismHandler
	AnalyticsHandler  *handler.AnalyticsHandler
	ActivityHandler   *handler.ActivityHandler
	JWTMiddleware     fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	// Routes stay open when no JWT middleware is configured (local development).
	jwtMiddleware := deps.JWTMiddleware
	staffOnly := middleware.RequireRole("teacher", "admin")
	if jwtMiddleware == nil {
		noop := func(c *fiber.Ctx) error { return c.Next() }
		jwtMiddleware = noop
		staffOnly = noop
	}

	if deps.StudentHandler != nil {
		students := api.Group("/students", jwtMiddleware)
		deps.StudentHandler.Register(students)
	}

	if deps.AssignmentHandler != nil {
		assignments := api.Group("/assignments", jwtMiddleware)
		deps.AssignmentHandler.Register(assignments)
	}

	if deps.SubmissionHandler != nil {
		submissions := api.Group("/submissions", jwtMiddleware)
		deps.SubmissionHandler.Register(submissions)
	}

	if deps.GradingHandler != nil {
		grading := api.Group("/grading", jwtMiddleware, middleware.RateLimit("grading", 30, time.Minute))
		deps.GradingHandler.Register(grading)
	}

	if deps.PlagiarismHandler != nil {
		plagiarism := api.Group("/plagiarism", jwtMiddleware, middleware.RateLimit("plagiarism", 30, time.Minute))
		deps.PlagiarismHandler.Register(plagiarism)
	}

	if deps.AnalyticsHandler != nil {
		analytics := api.Group("/analytics", jwtMiddleware, staffOnly)
		deps.AnalyticsHandler.Register(analytics)
	}

	if deps.ActivityHandler != nil {
		activity := api.Group("/activity", jwtMiddleware, staffOnly)
		deps.ActivityHandler.Register(activity)
	}
}
