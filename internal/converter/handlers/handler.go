package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"gbxml-service/internal/converter/gbxml"
	"gbxml-service/internal/converter/geometry"
	"gbxml-service/internal/converter/mapper"
	"gbxml-service/internal/converter/models"
	"gbxml-service/internal/converter/repository"
	"gbxml-service/internal/converter/storage"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Converter Handler
// ============================================================

// ExportStore records export calls. A nil store disables history.
type ExportStore interface {
	Record(ctx context.Context, e *repository.Export) error
	Recent(ctx context.Context, limit int) ([]repository.Export, error)
	Ping(ctx context.Context) error
}

type ConverterHandler struct {
	exporter mapper.Exporter
	files    *storage.FileStorage
	store    ExportStore
	cache    storage.DocumentCache
	logger   *slog.Logger
}

type Options struct {
	ExportType     mapper.ExportType
	StrictGeometry bool
	Files          *storage.FileStorage
	Store          ExportStore
	Cache          storage.DocumentCache
	Logger         *slog.Logger
	Now            func() time.Time
}

func NewConverterHandler(opts Options) *ConverterHandler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	exporter := mapper.NewExporter(nil)
	exporter.ExportType = opts.ExportType
	exporter.Normalizer = geometry.Normalizer{Strict: opts.StrictGeometry}
	exporter.Logger = logger
	if opts.Now != nil {
		exporter.Now = opts.Now
	}
	if opts.Files != nil {
		exporter.Writer = opts.Files
	}

	return &ConverterHandler{
		exporter: *exporter,
		files:    opts.Files,
		store:    opts.Store,
		cache:    opts.Cache,
		logger:   logger,
	}
}

// Register mounts the converter routes.
func (h *ConverterHandler) Register(r fiber.Router) {
	r.Post("/export", h.Export)
	r.Post("/export/spaces", h.ExportSpaces)
	r.Post("/import", h.Import)
	r.Get("/exports", h.ListExports)
}

// errorStatus maps pipeline errors to HTTP statuses.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, mapper.ErrUnknownExportDetail),
		errors.Is(err, models.ErrUnknownInputKind),
		errors.Is(err, gbxml.ErrEmptyDocument):
		return http.StatusBadRequest
	case errors.Is(err, geometry.ErrNonPlanar):
		return http.StatusUnprocessableEntity
	case errors.Is(err, mapper.ErrNoSpaceWriter):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func fail(c fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}
