package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"gbxml-service/internal/common/metrics"
	"gbxml-service/internal/converter/gbxml"
	"gbxml-service/internal/converter/mapper"
	"gbxml-service/internal/converter/models"
	"gbxml-service/internal/converter/repository"
	"gbxml-service/internal/converter/storage"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Export Handlers
// ============================================================

const defaultProject = "project"

type spacesResponse struct {
	ID      string             `json:"id"`
	Project string             `json:"project"`
	Files   []mapper.SpaceFile `json:"files"`
	Stats   mapper.Stats       `json:"stats"`
}

// Export converts a JSON model into one gbXML document.
// Query: mode=full|shell, type=tas|ies.
func (h *ConverterHandler) Export(c fiber.Ctx) error {
	detail, err := mapper.ParseExportDetail(c.Query("mode"))
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	if detail == mapper.ExportIndividualSpaces {
		return fail(c, http.StatusBadRequest, "per-space export is served by /export/spaces")
	}

	in, ok, err := h.decodeInput(c)
	if !ok {
		return err
	}

	ex := h.exporterFor(c)
	key := storage.CacheKey(c.Body(), []byte(detail), []byte(ex.ExportType))
	if cached, hit := h.cached(c, key); hit {
		data, err := restamp(&ex, cached)
		if err != nil {
			h.logger.Error("export_encode_failed", "err", err)
			return fail(c, http.StatusInternalServerError, "failed to encode document")
		}
		metrics.ExportsTotal.WithLabelValues(string(detail)).Inc()
		id := h.record(c, &repository.Export{Mode: string(detail), ExportType: string(ex.ExportType), CacheHit: true})
		c.Set("X-Cache", "HIT")
		c.Set("X-Export-Id", id)
		c.Type("xml")
		return c.Send(data)
	}

	start := time.Now()
	res, err := ex.Export(c.Context(), in, detail, "")
	if err != nil {
		h.logger.Warn("export_failed", "mode", string(detail), "err", err)
		return fail(c, errorStatus(err), err.Error())
	}
	data, err := gbxml.Marshal(res.Document)
	if err != nil {
		h.logger.Error("export_encode_failed", "err", err)
		return fail(c, http.StatusInternalServerError, "failed to encode document")
	}
	observe(detail, res.Stats, start)

	if h.cache != nil {
		if err := h.cache.Set(c.Context(), key, data); err != nil {
			h.logger.Warn("cache_set_failed", "err", err)
		}
	}

	id := h.record(c, &repository.Export{
		Mode:       string(detail),
		ExportType: string(ex.ExportType),
		Spaces:     res.Stats.Spaces,
		Surfaces:   res.Stats.Surfaces,
		Suppressed: res.Stats.Suppressed,
	})
	c.Set("X-Cache", "MISS")
	c.Set("X-Export-Id", id)
	c.Type("xml")
	return c.Send(data)
}

// ExportSpaces writes one document per externally exposed space under the
// output directory and lists the written files.
// Query: project=<name>, type=tas|ies.
func (h *ConverterHandler) ExportSpaces(c fiber.Ctx) error {
	if h.files == nil {
		return fail(c, http.StatusServiceUnavailable, "output directory not configured")
	}

	in, ok, err := h.decodeInput(c)
	if !ok {
		return err
	}
	project := c.Query("project", defaultProject)

	ex := h.exporterFor(c)
	start := time.Now()
	res, err := ex.Export(c.Context(), in, mapper.ExportIndividualSpaces, project)
	if err != nil {
		h.logger.Warn("export_failed", "mode", string(mapper.ExportIndividualSpaces), "err", err)
		return fail(c, errorStatus(err), err.Error())
	}
	observe(mapper.ExportIndividualSpaces, res.Stats, start)

	id := h.record(c, &repository.Export{
		Mode:       string(mapper.ExportIndividualSpaces),
		ExportType: string(ex.ExportType),
		Project:    project,
		Spaces:     res.Stats.Spaces,
		Surfaces:   res.Stats.Surfaces,
		Suppressed: res.Stats.Suppressed,
		Files:      len(res.Files),
	})

	files := res.Files
	if files == nil {
		files = []mapper.SpaceFile{}
	}
	return c.JSON(spacesResponse{ID: id, Project: project, Files: files, Stats: res.Stats})
}

// ============================================================
// Helpers
// ============================================================

// decodeInput parses the JSON body. When ok is false the error response has
// already been written and err is what the handler returns.
func (h *ConverterHandler) decodeInput(c fiber.Ctx) (models.Input, bool, error) {
	var in models.Input
	if len(c.Body()) == 0 {
		return in, false, fail(c, http.StatusBadRequest, "body required")
	}
	if err := json.Unmarshal(c.Body(), &in); err != nil {
		h.logger.Debug("export_decode_failed", "err", err)
		return in, false, fail(c, http.StatusBadRequest, "invalid JSON payload")
	}
	return in, true, nil
}

// exporterFor copies the configured exporter, applying the type query.
func (h *ConverterHandler) exporterFor(c fiber.Ctx) mapper.Exporter {
	ex := h.exporter
	if t := c.Query("type"); t != "" {
		ex.ExportType = mapper.ParseExportType(t)
	}
	if ex.ExportType == "" {
		ex.ExportType = mapper.GBXMLTAS
	}
	return ex
}

// restamp gives a cached document the history of the current call.
func restamp(ex *mapper.Exporter, data []byte) ([]byte, error) {
	doc, err := gbxml.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	ex.Stamp(doc)
	return gbxml.Marshal(doc)
}

func (h *ConverterHandler) cached(c fiber.Ctx, key string) ([]byte, bool) {
	if h.cache == nil {
		return nil, false
	}
	data, hit, err := h.cache.Get(c.Context(), key)
	if err != nil {
		h.logger.Warn("cache_get_failed", "err", err)
		return nil, false
	}
	if !hit {
		metrics.CacheMissesTotal.Inc()
		return nil, false
	}
	metrics.CacheHitsTotal.Inc()
	return data, true
}

// record stores the export and returns its id. History failures are logged,
// not returned.
func (h *ConverterHandler) record(c fiber.Ctx, e *repository.Export) string {
	if h.store == nil {
		return ""
	}
	if err := h.store.Record(c.Context(), e); err != nil {
		h.logger.Warn("export_record_failed", "err", err)
		return ""
	}
	return e.ID
}

func observe(detail mapper.ExportDetail, stats mapper.Stats, start time.Time) {
	metrics.ExportsTotal.WithLabelValues(string(detail)).Inc()
	metrics.ExportDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000)
	metrics.SurfacesEmittedTotal.Add(float64(stats.Surfaces))
	metrics.SurfacesSuppressedTotal.Add(float64(stats.Suppressed))
}
