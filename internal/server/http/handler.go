package http

import (
	"fmt"
	"strings"
	"time"

	"checkers/internal/server/core"
	"checkers/internal/server/processor"
	"checkers/internal/server/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

const rateLimitRate = 10 // req/sec

// HTTPHandler routes HTTP requests to the processor
type HTTPHandler struct {
	proc *processor.Processor
	svc  *service.Service
}

func NewHTTPHandler(proc *processor.Processor, svc *service.Service) *HTTPHandler {
	return &HTTPHandler{proc: proc, svc: svc}
}

func NewFiberApp(proc *processor.Processor, svc *service.Service, devMode bool) *fiber.App {
	h := NewHTTPHandler(proc, svc)

	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  60 * time.Second,
	})

	// Global middleware (order matters)
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Health check (no rate limit)
	app.Get("/health", h.Health)

	api := app.Group("/api/v1")

	validateToken := svc.ValidateToken

	// Login: 5 req/min per IP
	auth := api.Group("/auth")
	auth.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(core.ErrorResponse{
				Error:   "rate limit exceeded",
				Code:    core.ErrRateLimitExceeded,
				Details: "5 login attempts per minute allowed",
			})
		},
	}), h.LoginHandler)
	auth.Get("/me", AuthRequired(validateToken), h.GetCurrentUserHandler)
	auth.Post("/logout", AuthRequired(validateToken), h.LogoutHandler)

	maxReq := rateLimitRate
	if devMode {
		maxReq = rateLimitRate * 2
	}
	api.Use(limiter.New(limiter.Config{
		Max:        maxReq,
		Expiration: 1 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			if xff := c.Get("X-Forwarded-For"); xff != "" {
				if idx := strings.Index(xff, ","); idx != -1 {
					return strings.TrimSpace(xff[:idx])
				}
				return xff
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(core.ErrorResponse{
				Error:   "rate limit exceeded",
				Code:    core.ErrRateLimitExceeded,
				Details: fmt.Sprintf("%d requests per second allowed", maxReq),
			})
		},
	}))

	api.Use(contentTypeValidator)
	api.Use(validationMiddleware)

	api.Post("/moves/legal", h.LegalMoves)
	api.Post("/moves/apply", h.ApplyMove)
	api.Post("/evaluate", h.Evaluate)
	api.Post("/search", h.Search)
	api.Post("/analyses", h.CreateAnalysis)
	api.Get("/analyses/:analysisId", h.GetAnalysis)
	api.Delete("/analyses/:analysisId", h.DeleteAnalysis)
	api.Post("/board", h.RenderBoard)
	api.Delete("/cache", AuthRequired(validateToken), h.PurgeCache)

	return app
}

// Health reports liveness with storage and queue status
func (h *HTTPHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":   "healthy",
		"time":     time.Now().Unix(),
		"storage":  h.svc.GetStorageHealth(),
		"queue":    h.proc.QueueLen(),
		"analyses": h.svc.PendingCount(),
	})
}

func (h *HTTPHandler) LegalMoves(c *fiber.Ctx) error {
	req, ok := validatedBody[core.PositionRequest](c)
	if !ok {
		return validationBypass(c)
	}
	return h.respond(c, processor.NewLegalMovesCommand(req), fiber.StatusOK)
}

func (h *HTTPHandler) ApplyMove(c *fiber.Ctx) error {
	req, ok := validatedBody[core.ApplyMoveRequest](c)
	if !ok {
		return validationBypass(c)
	}
	return h.respond(c, processor.NewApplyMoveCommand(req), fiber.StatusOK)
}

func (h *HTTPHandler) Evaluate(c *fiber.Ctx) error {
	req, ok := validatedBody[core.PositionRequest](c)
	if !ok {
		return validationBypass(c)
	}
	return h.respond(c, processor.NewEvaluateCommand(req), fiber.StatusOK)
}

// Search runs a blocking best-move search
func (h *HTTPHandler) Search(c *fiber.Ctx) error {
	req, ok := validatedBody[core.SearchRequest](c)
	if !ok {
		return validationBypass(c)
	}
	return h.respond(c, processor.NewSearchCommand(req), fiber.StatusOK)
}

// CreateAnalysis queues a search and returns the job handle
func (h *HTTPHandler) CreateAnalysis(c *fiber.Ctx) error {
	req, ok := validatedBody[core.SearchRequest](c)
	if !ok {
		return validationBypass(c)
	}
	return h.respond(c, processor.NewCreateAnalysisCommand(req), fiber.StatusAccepted)
}

// GetAnalysis returns job status, optionally long-polling until the job finishes
func (h *HTTPHandler) GetAnalysis(c *fiber.Ctx) error {
	analysisID := c.Params("analysisId")
	if !isValidUUID(analysisID) {
		return invalidAnalysisID(c)
	}

	cmd := processor.NewGetAnalysisCommand(analysisID)
	resp := h.proc.Execute(cmd)
	if !resp.Success || !resp.Pending || c.Query("wait", "false") != "true" {
		return h.write(c, resp, fiber.StatusOK)
	}

	ctx := c.Context()
	notify := h.svc.RegisterWait(analysisID, core.StatePending, ctx)

	// The job may have finished between the first read and registration
	if resp = h.proc.Execute(cmd); !resp.Success || !resp.Pending {
		return h.write(c, resp, fiber.StatusOK)
	}

	select {
	case <-notify:
		// Finished, removed, or timed out; report whatever is current
		return h.write(c, h.proc.Execute(cmd), fiber.StatusOK)
	case <-ctx.Done():
		return nil
	}
}

func (h *HTTPHandler) DeleteAnalysis(c *fiber.Ctx) error {
	analysisID := c.Params("analysisId")
	if !isValidUUID(analysisID) {
		return invalidAnalysisID(c)
	}

	resp := h.proc.Execute(processor.NewDeleteAnalysisCommand(analysisID))
	if !resp.Success {
		return h.write(c, resp, fiber.StatusOK)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RenderBoard returns the ASCII representation and layout string of a grid
func (h *HTTPHandler) RenderBoard(c *fiber.Ctx) error {
	req, ok := validatedBody[core.BoardRequest](c)
	if !ok {
		return validationBypass(c)
	}
	return h.respond(c, processor.NewRenderBoardCommand(req), fiber.StatusOK)
}

func (h *HTTPHandler) PurgeCache(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)
	return h.respond(c, processor.NewPurgeCacheCommand(userID), fiber.StatusOK)
}

func (h *HTTPHandler) respond(c *fiber.Ctx, cmd processor.Command, okStatus int) error {
	return h.write(c, h.proc.Execute(cmd), okStatus)
}

func (h *HTTPHandler) write(c *fiber.Ctx, resp processor.ProcessorResponse, okStatus int) error {
	if !resp.Success {
		return c.Status(statusFor(resp.Error.Code)).JSON(resp.Error)
	}
	return c.Status(okStatus).JSON(resp.Data)
}

// statusFor maps processor error codes to HTTP status codes
func statusFor(code string) int {
	switch code {
	case core.ErrAnalysisNotFound:
		return fiber.StatusNotFound
	case core.ErrUnauthorized:
		return fiber.StatusUnauthorized
	case core.ErrResourceLimit:
		return fiber.StatusServiceUnavailable
	case core.ErrInternalError:
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusBadRequest
	}
}

func validationBypass(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
		Error: "validation bypass detected",
		Code:  core.ErrInternalError,
	})
}

func invalidAnalysisID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
		Error:   "invalid analysis ID format",
		Code:    core.ErrInvalidRequest,
		Details: "analysis ID must be a valid UUID",
	})
}
