// Package router provides HTTP routing, middleware configuration, and server setup for the web application
package router

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/compress"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/leadline/leadline/app/dto"
	"github.com/leadline/leadline/app/handlers"
	"github.com/leadline/leadline/app/middleware"
	"github.com/leadline/leadline/utils"
)

// Router interface for HTTP routing
type Router interface {
	SetupRoutes()
	Start(address string) error
	GetApp() *fiber.App
}

// Handlers bundles every handler the router mounts
type Handlers struct {
	Lead         handlers.LeadHandlerInterface
	Prospect     handlers.ProspectHandlerInterface
	Queue        handlers.QueueHandlerInterface
	Session      handlers.CallSessionHandlerInterface
	ImportExport handlers.ImportExportHandlerInterface
	Scraper      handlers.ScraperHandlerInterface
	Settings     handlers.SettingsHandlerInterface
}

// FiberRouter implements Router using Fiber v3
type FiberRouter struct {
	app          *fiber.App
	handlers     Handlers
	access       *middleware.AccessMiddleware
	allowOrigins []string
}

// NewFiberRouter creates a new Fiber router
func NewFiberRouter(h Handlers, access *middleware.AccessMiddleware, allowOrigins []string) Router {
	app := fiber.New(fiber.Config{
		AppName:      "Leadline API",
		ServerHeader: "Leadline",
		ErrorHandler: errorHandler,
		BodyLimit:    16 * 1024 * 1024, // bulk CSV imports can be large
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	return &FiberRouter{
		app:          app,
		handlers:     h,
		access:       access,
		allowOrigins: allowOrigins,
	}
}

// SetupRoutes configures all application routes
func (r *FiberRouter) SetupRoutes() {
	log.Println("Setting up routes...")

	r.setupMiddleware()

	api := r.app.Group("/api/v1")

	// Health check route (no rate limiting, no auth)
	api.Get("/health", r.healthCheck)

	// Prometheus metrics
	r.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api.Use(limiter.New(limiter.Config{
		Max:        2000,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.APIResponse{
				Success: false,
				Message: "Too many requests. Please try again later.",
				Error: dto.ErrorDetail{
					Code: "RATE_LIMIT_EXCEEDED",
				},
			})
		},
		Next: func(c fiber.Ctx) bool {
			return c.Path() == "/api/v1/health"
		},
	}))

	api.Use(r.access.Authenticate())

	// Leads
	leads := api.Group("/leads")
	leads.Post("/", r.handlers.Lead.CreateLead)
	leads.Get("/", r.handlers.Lead.ListLeads)
	leads.Post("/import", r.handlers.ImportExport.ImportLeads)
	leads.Get("/export", r.handlers.ImportExport.ExportLeads)
	leads.Get("/export/workbook", r.handlers.ImportExport.ExportWorkbook)
	leads.Get("/:id", r.handlers.Lead.GetLead)
	leads.Put("/:id", r.handlers.Lead.UpdateLead)
	leads.Delete("/:id", r.handlers.Lead.DeleteLead)
	leads.Post("/:id/calls", r.handlers.Lead.RecordCall)

	// Call history
	api.Get("/calls", r.handlers.Lead.ListCalls)

	// Full-database snapshot
	api.Get("/export", r.handlers.ImportExport.BulkExport)

	// Prospect pipeline
	prospects := api.Group("/prospects")
	prospects.Get("/", r.handlers.Prospect.ListProspects)
	prospects.Post("/import", r.handlers.Prospect.ImportProspects)
	prospects.Get("/counts", r.handlers.Prospect.PipelineCounts)
	prospects.Post("/finalize", r.handlers.Prospect.FinalizeAll)
	prospects.Post("/bulk-approve", r.handlers.Prospect.BulkApprove)
	prospects.Post("/bulk-reject", r.handlers.Prospect.BulkReject)
	prospects.Post("/bulk-delete", r.handlers.Prospect.BulkDelete)
	prospects.Post("/:id/review", r.handlers.Prospect.ReviewProspect)

	// Custom queues
	queues := api.Group("/queues")
	queues.Post("/", r.handlers.Queue.CreateQueue)
	queues.Get("/", r.handlers.Queue.ListQueues)
	queues.Get("/:id/leads", r.handlers.Queue.ResolveQueue)
	queues.Put("/:id", r.handlers.Queue.UpdateQueue)
	queues.Delete("/:id", r.handlers.Queue.DeleteQueue)

	// Call sessions
	sessions := api.Group("/sessions")
	sessions.Post("/", r.handlers.Session.StartSession)
	sessions.Get("/:id", r.handlers.Session.GetSession)
	sessions.Post("/:id/advance", r.handlers.Session.Advance)
	sessions.Post("/:id/cycle", r.handlers.Session.AdvanceOrCycle)
	sessions.Post("/:id/retreat", r.handlers.Session.Retreat)
	sessions.Post("/:id/random", r.handlers.Session.JumpRandom)
	sessions.Put("/:id/notes", r.handlers.Session.SetNotes)
	sessions.Post("/:id/complete", r.handlers.Session.CompleteCall)
	sessions.Delete("/:id", r.handlers.Session.EndSession)

	// Directory scrapes
	scrapes := api.Group("/scrapes")
	scrapes.Post("/", r.handlers.Scraper.StartScrape)
	scrapes.Get("/:id", r.handlers.Scraper.GetScrape)
	scrapes.Post("/:id/stop", r.handlers.Scraper.StopScrape)
	scrapes.Post("/:id/import", r.handlers.Scraper.ImportResults)

	// Settings, notepad, dashboard
	api.Get("/config", r.handlers.Settings.GetConfig)
	api.Put("/config", r.handlers.Settings.UpdateConfig)
	api.Get("/notepad", r.handlers.Settings.GetNotepad)
	api.Put("/notepad", r.handlers.Settings.UpdateNotepad)
	api.Get("/dashboard", r.handlers.Settings.GetDashboard)

	// Not found handler
	r.app.Use(r.notFoundHandler)

	log.Println("Routes configured successfully")
}

// setupMiddleware configures global middleware
func (r *FiberRouter) setupMiddleware() {
	// Request ID middleware - must be first
	r.app.Use(requestid.New(requestid.Config{
		Header: "X-Request-ID",
		Generator: func() string {
			return generateRequestID()
		},
	}))

	// Security headers middleware
	r.app.Use(helmet.New(helmet.Config{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		XDNSPrefetchControl:   "off",
		XDownloadOptions:      "noopen",
		XPermittedCrossDomain: "none",
	}))

	r.app.Use(cors.New(cors.Config{
		AllowOrigins: r.allowOrigins,
		AllowMethods: []string{
			"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"Authorization",
			"X-Requested-With",
			"X-Request-ID",
			"Cache-Control",
		},
		ExposeHeaders: []string{
			"X-Request-ID",
			"Content-Disposition",
		},
		AllowCredentials: true,
		MaxAge:           utils.CORSMaxAge,
	}))

	r.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// Prometheus metrics for every route
	r.app.Use(middleware.Metrics())

	// Structured request logging
	r.app.Use(logger.New(logger.Config{
		Format:     `{"time":"${time}","pid":"${pid}","request_id":"${locals:requestid}","level":"info","method":"${method}","path":"${path}","protocol":"${protocol}","ip":"${ip}","user_agent":"${ua}","status":${status},"latency":"${latency}","bytes_in":${bytesReceived},"bytes_out":${bytesSent},"referer":"${referer}"}` + "\n",
		TimeFormat: time.RFC3339,
		TimeZone:   "UTC",
		Next: func(c fiber.Ctx) bool {
			return c.Path() == "/api/v1/health"
		},
	}))

	// Recovery middleware with custom error handling
	r.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e interface{}) {
			log.Printf(`{"time":"%s","level":"error","request_id":"%s","event":"panic","error":"%v","path":"%s","method":"%s","ip":"%s"}`,
				utils.UTCNow().Format(time.RFC3339),
				c.Locals("requestid"),
				e,
				c.Path(),
				c.Method(),
				c.IP(),
			)
		},
	}))
}

// Start starts the HTTP server
func (r *FiberRouter) Start(address string) error {
	log.Printf("Starting server on %s", address)
	return r.app.Listen(address)
}

// GetApp returns the Fiber app instance
func (r *FiberRouter) GetApp() *fiber.App {
	return r.app
}

// Health check endpoint
func (r *FiberRouter) healthCheck(c fiber.Ctx) error {
	return c.JSON(dto.APIResponse{
		Success: true,
		Message: "Service is healthy",
		Data: fiber.Map{
			"status":    "ok",
			"timestamp": utils.UTCNow().Unix(),
			"version":   "1.0.0",
			"service":   "leadline-api",
		},
	})
}

// Not found handler
func (r *FiberRouter) notFoundHandler(c fiber.Ctx) error {
	requestID := c.Locals("requestid")

	return c.Status(fiber.StatusNotFound).JSON(dto.APIResponse{
		Success: false,
		Message: "The requested resource was not found",
		Error: dto.ErrorDetail{
			Code: "NOT_FOUND",
			Details: fiber.Map{
				"path":       c.Path(),
				"method":     c.Method(),
				"request_id": requestID,
			},
		},
	})
}

// Global error handler
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	log.Printf("Error %d: %v", code, err)

	requestID := c.Locals("requestid")

	return c.Status(code).JSON(dto.APIResponse{
		Success: false,
		Message: "An internal server error occurred",
		Error: dto.ErrorDetail{
			Code: "INTERNAL_ERROR",
			Details: fiber.Map{
				"timestamp":  utils.UTCNow().Unix(),
				"request_id": requestID,
			},
		},
	})
}

// generateRequestID creates a unique request ID
func generateRequestID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
