package proxy

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Proxy Handler
// ============================================================

var client = &http.Client{Timeout: 2 * time.Minute}

// Mount registers the converter routes on r, forwarding to converterURL.
func Mount(r fiber.Router, converterURL string) {
	r.Get("/", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "gbXML API Gateway v1",
			"status":  "ok",
		})
	})
	r.Post("/export", ProxyTo(converterURL+"/export"))
	r.Post("/export/spaces", ProxyTo(converterURL+"/export/spaces"))
	r.Post("/import", ProxyTo(converterURL+"/import"))
	r.Get("/exports", ProxyTo(converterURL+"/exports"))
}

// ProxyTo forwards the request, query string included, to targetURL.
func ProxyTo(targetURL string) fiber.Handler {
	return func(c fiber.Ctx) error {
		target := targetURL
		if q := string(c.Request().URI().QueryString()); q != "" {
			target += "?" + q
		}
		return forwardRequest(c, target)
	}
}

// forwardRequest proxies any method, raw or multipart.
func forwardRequest(c fiber.Ctx, targetURL string) error {
	slog.Debug("proxy_request",
		"method", c.Method(),
		"path", c.Path(),
		"content_type", c.Get("Content-Type"),
		"content_length", len(c.Body()),
		"target", targetURL,
	)

	contentType := c.Get("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		return sendRaw(c, targetURL, contentType)
	}

	return sendMultipart(c, targetURL)
}

func sendRaw(c fiber.Ctx, targetURL, contentType string) error {
	body := bytes.NewReader(c.Body())
	req, err := http.NewRequest(c.Method(), targetURL, body)
	if err != nil {
		slog.Error("proxy_build_request_failed", "err", err)
		return c.Status(500).JSON(fiber.Map{"error": "proxy failed"})
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	copyRequestHeaders(c, req)

	resp, err := client.Do(req)
	if err != nil {
		slog.Warn("proxy_upstream_failed", "target", targetURL, "err", err)
		return c.Status(502).JSON(fiber.Map{"error": "failed to reach upstream service"})
	}
	defer resp.Body.Close()

	return copyResponse(c, resp)
}

func sendMultipart(c fiber.Ctx, targetURL string) error {
	form, err := c.MultipartForm()
	if err != nil {
		slog.Debug("proxy_multipart_invalid", "err", err)
		return c.Status(400).JSON(fiber.Map{"error": "invalid multipart data"})
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for key, files := range form.File {
		for _, fileHeader := range files {
			file, err := fileHeader.Open()
			if err != nil {
				slog.Warn("proxy_file_open_failed", "err", err)
				continue
			}

			h := make(textproto.MIMEHeader)
			h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, key, fileHeader.Filename))
			h.Set("Content-Type", fileHeader.Header.Get("Content-Type"))

			part, err := writer.CreatePart(h)
			if err != nil {
				file.Close()
				slog.Warn("proxy_part_failed", "err", err)
				continue
			}

			io.Copy(part, file)
			file.Close()
		}
	}

	for key, values := range form.Value {
		for _, value := range values {
			writer.WriteField(key, value)
		}
	}

	writer.Close()

	req, err := http.NewRequest(c.Method(), targetURL, bytes.NewReader(body.Bytes()))
	if err != nil {
		slog.Error("proxy_build_request_failed", "err", err)
		return c.Status(500).JSON(fiber.Map{"error": "proxy failed"})
	}

	req.Header.Set("Content-Type", writer.FormDataContentType())
	copyRequestHeaders(c, req)

	resp, err := client.Do(req)
	if err != nil {
		slog.Warn("proxy_upstream_failed", "target", targetURL, "err", err)
		return c.Status(502).JSON(fiber.Map{"error": "failed to reach upstream service"})
	}
	defer resp.Body.Close()

	return copyResponse(c, resp)
}

func copyRequestHeaders(c fiber.Ctx, req *http.Request) {
	for _, key := range []string{"Authorization", "Accept", "X-Request-Id"} {
		if v := c.Get(key); v != "" {
			req.Header.Set(key, v)
		}
	}
}

func copyResponse(c fiber.Ctx, resp *http.Response) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Warn("proxy_read_response_failed", "err", err)
		return c.Status(502).JSON(fiber.Map{"error": "invalid upstream response"})
	}

	for key, values := range resp.Header {
		if len(values) > 0 {
			c.Set(key, values[0])
		}
	}

	c.Status(resp.StatusCode)
	return c.Send(data)
}
