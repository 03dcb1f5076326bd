package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"career-report/internal/domain"
	"career-report/internal/model"
	"career-report/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

// Generator produces a report and returns where it was stored.
type Generator interface {
	Generate(ctx context.Context, req *domain.ReportRequest) (*usecase.Result, error)
}

type Handler struct {
	generator Generator
	service   string
	logger    *slog.Logger
}

func NewHandler(g Generator, service string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{generator: g, service: service, logger: logger}
}

// Register mounts the report routes on app.
func (h *Handler) Register(app *fiber.App) {
	app.Post("/generate-pdf", h.GeneratePDF)
	app.Get("/health", h.Health)
}

func (h *Handler) GeneratePDF(c *fiber.Ctx) error {
	body := c.Body()

	var req domain.ReportRequest
	if err := json.Unmarshal(body, &req); err != nil || req.ReportData == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid data"})
	}
	if err := model.ValidateRequest(body); err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid data", "details": verr.Problems})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid data"})
	}

	res, err := h.generator.Generate(c.UserContext(), &req)
	if err != nil {
		h.logger.Error("generate-pdf failed", "request_id", requestID(c), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to generate PDF",
			"details": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"reportLink": res.Link})
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "service": h.service})
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return c.Get(fiber.HeaderXRequestID)
}
