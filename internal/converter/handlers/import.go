package handlers

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"

	"gbxml-service/internal/common/metrics"
	"gbxml-service/internal/converter/gbxml"
	"gbxml-service/internal/converter/mapper"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Import Handler
// ============================================================

// Import reads a gbXML document, raw or as multipart "file", and returns
// the reconstructed panels and spaces.
func (h *ConverterHandler) Import(c fiber.Ctx) error {
	data, err := readDocument(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}

	doc, err := gbxml.Decode(bytes.NewReader(data))
	if err != nil {
		h.logger.Debug("import_decode_failed", "err", err)
		if errors.Is(err, gbxml.ErrEmptyDocument) {
			return fail(c, http.StatusBadRequest, err.Error())
		}
		return fail(c, http.StatusBadRequest, "invalid gbXML document")
	}

	model := mapper.Reconstruct(doc)
	metrics.ImportsTotal.Inc()
	h.logger.Info("import_done", "panels", len(model.Panels), "spaces", len(model.Spaces))
	return c.JSON(model)
}

func readDocument(c fiber.Ctx) ([]byte, error) {
	if !strings.HasPrefix(c.Get("Content-Type"), "multipart/form-data") {
		if len(c.Body()) == 0 {
			return nil, errors.New("body required")
		}
		return c.Body(), nil
	}

	file, err := c.FormFile("file")
	if err != nil {
		return nil, errors.New("file required in multipart/form-data")
	}
	f, err := file.Open()
	if err != nil {
		return nil, errors.New("failed to open file")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.New("failed to read file")
	}
	return data, nil
}
