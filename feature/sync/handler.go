package sync

import (
	"errors"

	"bling-sync/core/cursor"
	"bling-sync/core/logger"
	"bling-sync/core/walker"
	"bling-sync/feature/importer"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the synchronization.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the sync routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/health", h.HandleHealth)

	group := app.Group("/sync")
	group.Get("/kinds", h.HandleKinds)
	group.Get("/cursors", h.HandleListCursors)
	group.Get("/cursors/:kind", h.HandleGetCursor)
	group.Post("/cursors/:kind/reset", h.HandleResetCursor)
	group.Get("/runs", h.HandleRuns)
	group.Get("/stats", h.HandleStats)
	group.Post("/:kind", h.HandleStartRun)
}

func status(err error) int {
	switch {
	case errors.Is(err, importer.ErrUnknownKind), errors.Is(err, cursor.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, walker.ErrAlreadyRunning):
		return fiber.StatusConflict
	case errors.Is(err, ErrInvalidDate):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func fail(c *fiber.Ctx, err error) error {
	return c.Status(status(err)).JSON(fiber.Map{"error": err.Error()})
}

// HandleHealth reports liveness.
// @Summary Health
// @Description Liveness probe. Served without an API key.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{} "Status"
// @Router /health [get]
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"running": h.service.Running(),
	})
}

// HandleKinds lists registered kinds.
// @Summary List Kinds
// @Description Lists every synchronizable kind in dependency order, with the kinds the scheduler runs.
// @Tags sync
// @Produce json
// @Success 200 {object} map[string]interface{} "Kinds"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /sync/kinds [get]
func (h *Handler) HandleKinds(c *fiber.Ctx) error {
	enabled, err := h.service.Enabled()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"kinds":   h.service.Kinds(),
		"enabled": enabled,
	})
}

// HandleListCursors lists persisted cursors.
// @Summary List Cursors
// @Description Returns the resume point of every kind that has run at least once.
// @Tags sync
// @Produce json
// @Success 200 {array} cursor.ImportCursor
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /sync/cursors [get]
func (h *Handler) HandleListCursors(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	cursors, err := h.service.Cursors(c.Context())
	if err != nil {
		l.Error("Failed to list cursors", zap.Error(err))
		return fail(c, err)
	}
	return c.JSON(cursors)
}

// HandleGetCursor returns the cursor of one kind.
// @Summary Get Cursor
// @Description Returns the page, last processed index and window of a kind.
// @Tags sync
// @Produce json
// @Param kind path string true "Entity kind (e.g. venda)"
// @Success 200 {object} cursor.ImportCursor
// @Failure 404 {object} map[string]string "Unknown kind or no cursor yet"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /sync/cursors/{kind} [get]
func (h *Handler) HandleGetCursor(c *fiber.Ctx) error {
	cur, err := h.service.Cursor(c.Context(), c.Params("kind"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(cur)
}

// HandleResetCursor moves a cursor back to page 1.
// @Summary Reset Cursor
// @Description Restarts a kind at page 1 of the given date, or of its configured start date.
// @Tags sync
// @Produce json
// @Param kind path string true "Entity kind"
// @Param date query string false "First window (YYYY-MM-DD)"
// @Success 200 {object} cursor.ImportCursor
// @Failure 400 {object} map[string]string "Invalid date"
// @Failure 404 {object} map[string]string "Unknown kind"
// @Failure 409 {object} map[string]string "Kind is running"
// @Router /sync/cursors/{kind}/reset [post]
func (h *Handler) HandleResetCursor(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	kind := c.Params("kind")

	cur, err := h.service.ResetCursor(c.Context(), kind, c.Query("date"))
	if err != nil {
		l.Warn("Cursor reset refused", zap.String("kind", kind), zap.Error(err))
		return fail(c, err)
	}
	return c.JSON(cur)
}

// HandleStartRun starts a background run.
// @Summary Start Sync
// @Description Walks the kind's listing in the background from its persisted cursor.
// @Tags sync
// @Produce json
// @Param kind path string true "Entity kind"
// @Success 202 {object} map[string]string "Run id"
// @Failure 404 {object} map[string]string "Unknown kind"
// @Failure 409 {object} map[string]string "Already running"
// @Router /sync/{kind} [post]
func (h *Handler) HandleStartRun(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	kind := c.Params("kind")

	runID, err := h.service.Start(kind)
	if err != nil {
		l.Warn("Sync not started", zap.String("kind", kind), zap.Error(err))
		return fail(c, err)
	}
	l.Info("Sync started", zap.String("kind", kind), zap.String("run_id", runID))
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"kind":  kind,
		"runId": runID,
	})
}

// HandleRuns lists the last report per kind.
// @Summary Last Runs
// @Description Returns the report of the last finished run of every kind.
// @Tags sync
// @Produce json
// @Success 200 {array} walker.Report
// @Router /sync/runs [get]
func (h *Handler) HandleRuns(c *fiber.Ctx) error {
	return c.JSON(h.service.Runs())
}

// HandleStats returns reconcile counters.
// @Summary Reconcile Stats
// @Description Fetch, create, update and conflict counters per entity since startup.
// @Tags sync
// @Produce json
// @Success 200 {object} map[string]reconcile.Stats
// @Router /sync/stats [get]
func (h *Handler) HandleStats(c *fiber.Ctx) error {
	return c.JSON(h.service.Stats())
}
