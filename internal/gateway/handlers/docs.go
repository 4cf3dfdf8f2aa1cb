package handlers

import (
	"bytes"
	"errors"
	"html/template"
	"io/fs"
	"os"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// API Docs Handlers
// ============================================================

const DefaultSpecPath = "docs/gbxml-service.openapi.yaml"

var docsPage = template.Must(template.New("docs").Parse(`<!doctype html>
<html>
<head>
  <meta charset="utf-8">
  <title>{{.Title}}</title>
</head>
<body>
<redoc spec-url="{{.SpecURL}}"></redoc>
<script src="https://cdn.redoc.ly/redoc/latest/bundles/redoc.standalone.js"></script>
</body>
</html>`))

// Docs serves the OpenAPI document and a Redoc page rendering it.
type Docs struct {
	SpecPath string
	SpecURL  string
	Title    string
}

func NewDocs(specPath string) *Docs {
	if specPath == "" {
		specPath = DefaultSpecPath
	}
	return &Docs{SpecPath: specPath, SpecURL: "/docs/openapi.yaml", Title: "gbXML Service API"}
}

// Register mounts GET /docs and the spec URL.
func (d *Docs) Register(r fiber.Router) {
	r.Get("/docs", d.Page)
	r.Get(d.SpecURL, d.Spec)
}

func (d *Docs) Spec(c fiber.Ctx) error {
	data, err := os.ReadFile(d.SpecPath)
	if errors.Is(err, fs.ErrNotExist) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "openapi document not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read openapi document"})
	}
	c.Type("yaml")
	return c.Send(data)
}

func (d *Docs) Page(c fiber.Ctx) error {
	var buf bytes.Buffer
	if err := docsPage.Execute(&buf, d); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to render docs"})
	}
	c.Type("html")
	return c.Send(buf.Bytes())
}
