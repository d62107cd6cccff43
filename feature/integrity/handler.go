package integrity

import (
	"errors"

	"bling-sync/core/logger"
	"bling-sync/feature/integrity/checks"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	// Force import for Swagger
	var _ = checks.SchemaReport{}
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/schema", h.HandleSchemaCheck)
	group.Get("/archive", h.HandleArchiveCheck)
	group.Get("/cursors", h.HandleCursorCheck)
}

func archiveStatus(err error) int {
	if errors.Is(err, ErrArchiveDisabled) {
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusInternalServerError
}

// HandleIntegrityCheck triggers all integrity checks.
// @Summary Run All Integrity Checks
// @Description Performs the schema, archive and cursor checks with their default parameters.
// @Tags integrity
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "Combined Report"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	ctx := c.Context()
	report := make(map[string]interface{})

	if schema, err := h.service.CheckSchema(); err != nil {
		report["schema"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["schema"] = schema
	}

	switch archive, err := h.service.CheckArchive(ctx, DefaultSample); {
	case errors.Is(err, ErrArchiveDisabled):
		report["archive"] = map[string]interface{}{"status": "disabled"}
	case err != nil:
		report["archive"] = map[string]interface{}{"status": "error", "error": err.Error()}
	default:
		report["archive"] = archive
	}

	if cursors, err := h.service.CheckCursors(ctx, DefaultMaxLagDays); err != nil {
		report["cursors"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["cursors"] = cursors
	}

	return c.JSON(report)
}

// HandleSchemaCheck compares the tables with the models.
// @Summary Check Schema
// @Description Lists tables and columns the database is missing compared to the models.
// @Tags integrity
// @Accept json
// @Produce json
// @Success 200 {object} checks.SchemaReport
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/schema [get]
func (h *Handler) HandleSchemaCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckSchema()
	if err != nil {
		l.Error("Schema check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if !report.Matched {
		l.Warn("Schema mismatch detected")
	}
	return c.JSON(report)
}

// HandleArchiveCheck checks and optionally fixes the payload archive.
// @Summary Check Archive
// @Description Checks that the most recent raw payloads exist in the storage bucket. Optionally uploads the missing ones.
// @Tags integrity
// @Accept json
// @Produce json
// @Param fix query boolean false "Upload missing payloads"
// @Param sample query int false "Number of recent payloads to check"
// @Success 200 {object} map[string]interface{} "Archive Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Failure 503 {object} map[string]string "Archive disabled"
// @Router /integrity/archive [get]
func (h *Handler) HandleArchiveCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := c.Query("fix") == "true"
	sample := c.QueryInt("sample", DefaultSample)

	report, err := h.service.CheckArchive(c.Context(), sample)
	if err != nil {
		l.Error("Archive check failed", zap.Error(err))
		return c.Status(archiveStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	if len(report.Missing) > 0 {
		l.Warn("Missing archived payloads detected", zap.Strings("missing", report.Missing))

		if fix {
			l.Info("Attempting to upload missing payloads")
			fixed, err := h.service.FixArchive(c.Context(), sample, report.Missing)
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error":   "Failed to fix archive",
					"details": err.Error(),
					"missing": report.Missing,
				})
			}
			return c.JSON(fiber.Map{
				"status": "fixed",
				"fixed":  fixed,
			})
		}
	}

	return c.JSON(fiber.Map{
		"status":  "checked",
		"checked": report.Checked,
		"missing": report.Missing,
	})
}

// HandleCursorCheck reports missing and lagging cursors.
// @Summary Check Cursors
// @Description Lists kinds that never ran and windowed kinds lagging behind today.
// @Tags integrity
// @Accept json
// @Produce json
// @Param max_lag_days query int false "Days a window may trail today"
// @Success 200 {object} checks.CursorReport
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/cursors [get]
func (h *Handler) HandleCursorCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckCursors(c.Context(), c.QueryInt("max_lag_days", DefaultMaxLagDays))
	if err != nil {
		l.Error("Cursor check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if len(report.Lagging) > 0 {
		l.Warn("Lagging cursors detected", zap.Strings("kinds", report.Lagging))
	}
	return c.JSON(report)
}
