package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"reflect"
	"sync"
	"testing"
	"time"

	"gbxml-service/internal/converter/gbxml"
	"gbxml-service/internal/converter/mapper"
	"gbxml-service/internal/converter/models"
	"gbxml-service/internal/converter/repository"
	"gbxml-service/internal/converter/storage"

	"github.com/gofiber/fiber/v3"
)

type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memoryCache) Set(_ context.Context, key string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.data == nil {
		c.data = make(map[string][]byte)
	}
	c.data[key] = data
	return nil
}

// tickingClock advances one second per reading.
type tickingClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *tickingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type fixture struct {
	app   *fiber.App
	repo  *repository.Repository
	cache *memoryCache
	out   string
}

func newFixture(t *testing.T, strict bool) *fixture {
	t.Helper()
	dir := t.TempDir()
	db, err := repository.OpenSQLite(filepath.Join(dir, "exports.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	repo := repository.New(db, repository.DriverSQLite)
	if err := repo.Init(context.Background()); err != nil {
		t.Fatal(err)
	}

	f := &fixture{repo: repo, cache: &memoryCache{}, out: filepath.Join(dir, "out")}
	h := NewConverterHandler(Options{
		ExportType:     mapper.GBXMLTAS,
		StrictGeometry: strict,
		Files:          storage.NewFileStorage(f.out),
		Store:          repo,
		Cache:          f.cache,
		Now:            (&tickingClock{now: time.Date(2024, 5, 6, 7, 8, 0, 0, time.UTC)}).Now,
	})
	f.app = fiber.New()
	f.app.Get("/health/ready", h.Ready)
	h.Register(f.app)
	return f
}

func (f *fixture) do(t *testing.T, method, target string, body []byte, contentType string) (*http.Response, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := f.app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	return resp, data
}

func decodeDoc(t *testing.T, data []byte) *gbxml.GBXML {
	t.Helper()
	doc, err := gbxml.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func roomInput(t *testing.T) []byte {
	t.Helper()
	p := func(x, y, z float64) models.Point { return models.Point{X: x, Y: y, Z: z} }
	w := func(id string, a, b models.Point) *models.Panel {
		return &models.Panel{
			ID:       id,
			Name:     id,
			Type:     models.PanelWallExternal,
			Boundary: models.Loop{a, b, p(b.X, b.Y, 3), p(a.X, a.Y, 3)},
		}
	}
	in := models.Input{
		Kind: models.KindSpaceList,
		Name: "test",
		Spaces: []*models.Space{{
			ID:   "room",
			Name: "Room",
			Panels: []*models.Panel{
				w("south", p(0, 0, 0), p(4, 0, 0)),
				w("east", p(4, 0, 0), p(4, 3, 0)),
				w("north", p(4, 3, 0), p(0, 3, 0)),
				w("west", p(0, 3, 0), p(0, 0, 0)),
			},
			CustomData: map[string]any{
				models.KeySpaceCustomData: map[string]any{models.KeySAMSpaceName: "Room 1"},
			},
		}},
	}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestExport(t *testing.T) {
	f := newFixture(t, false)
	body := roomInput(t)

	resp, data := f.do(t, http.MethodPost, "/export?mode=full", body, "application/json")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, data)
	}
	if !strings.Contains(resp.Header.Get("Content-Type"), "xml") {
		t.Errorf("content type = %q", resp.Header.Get("Content-Type"))
	}
	if got := strings.Count(string(data), `surfaceType="ExteriorWall"`); got != 4 {
		t.Errorf("ExteriorWall surfaces = %d, want 4", got)
	}
	if resp.Header.Get("X-Cache") != "MISS" || resp.Header.Get("X-Export-Id") == "" {
		t.Errorf("headers = %v", resp.Header)
	}

	resp, cached := f.do(t, http.MethodPost, "/export?mode=full", body, "application/json")
	if resp.StatusCode != http.StatusOK || resp.Header.Get("X-Cache") != "HIT" {
		t.Fatalf("second request status=%d cache=%q", resp.StatusCode, resp.Header.Get("X-Cache"))
	}
	first, second := decodeDoc(t, data), decodeDoc(t, cached)
	if first.DocumentHistory.CreatedBy.Date == second.DocumentHistory.CreatedBy.Date {
		t.Errorf("cached export kept the first call's date %s", first.DocumentHistory.CreatedBy.Date)
	}
	if second.DocumentHistory.CreatedBy.Date != "2024-05-06T07:08:02" {
		t.Errorf("cached export date = %s", second.DocumentHistory.CreatedBy.Date)
	}
	if !reflect.DeepEqual(first.Campus, second.Campus) {
		t.Error("cached document differs")
	}

	exports, err := f.repo.Recent(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(exports) != 2 {
		t.Fatalf("recorded %d exports, want 2", len(exports))
	}
	hits := 0
	for _, e := range exports {
		if e.CacheHit {
			hits++
		}
	}
	if hits != 1 {
		t.Errorf("cache hits recorded = %d, want 1", hits)
	}
}

func TestExportBadRequests(t *testing.T) {
	f := newFixture(t, false)
	body := roomInput(t)

	tests := []struct {
		name   string
		target string
		body   []byte
		status int
	}{
		{"unknown mode", "/export?mode=partial", body, http.StatusBadRequest},
		{"spaces mode", "/export?mode=spaces", body, http.StatusBadRequest},
		{"empty body", "/export", nil, http.StatusBadRequest},
		{"invalid json", "/export", []byte("{"), http.StatusBadRequest},
		{"unknown kind", "/export", []byte(`{"kind":"mesh"}`), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := f.do(t, http.MethodPost, tt.target, tt.body, "application/json")
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d: %s", resp.StatusCode, tt.status, data)
			}
			var e map[string]string
			if err := json.Unmarshal(data, &e); err != nil || e["error"] == "" {
				t.Fatalf("error body = %s", data)
			}
		})
	}
}

func TestExportStrictGeometry(t *testing.T) {
	f := newFixture(t, true)
	warped := `{"kind":"spaces","spaces":[{"id":"s","name":"S","panels":[
		{"id":"p","type":"WallExternal","boundary":[{"x":0,"y":0,"z":0},{"x":1,"y":0,"z":0},{"x":1,"y":0.5,"z":1},{"x":0,"y":0,"z":1}]}]}]}`

	resp, data := f.do(t, http.MethodPost, "/export", []byte(warped), "application/json")
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d: %s", resp.StatusCode, data)
	}
}

func TestExportSpaces(t *testing.T) {
	f := newFixture(t, false)

	resp, data := f.do(t, http.MethodPost, "/export/spaces?project=tower", roomInput(t), "application/json")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, data)
	}
	var out spacesResponse
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out.Project != "tower" || len(out.Files) != 1 {
		t.Fatalf("response = %+v", out)
	}
	if want := filepath.Join(f.out, "tower", "Room 1.xml"); out.Files[0].Path != want {
		t.Fatalf("path = %q, want %q", out.Files[0].Path, want)
	}
}

func TestImport(t *testing.T) {
	f := newFixture(t, false)
	_, doc := f.do(t, http.MethodPost, "/export", roomInput(t), "application/json")

	resp, data := f.do(t, http.MethodPost, "/import", doc, "application/xml")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, data)
	}
	var model mapper.Reconstruction
	if err := json.Unmarshal(data, &model); err != nil {
		t.Fatal(err)
	}
	if len(model.Panels) != 4 || len(model.Spaces) != 1 || len(model.Spaces[0].Panels) != 4 {
		t.Fatalf("model = %d panels, %d spaces", len(model.Panels), len(model.Spaces))
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "model.xml")
	if err != nil {
		t.Fatal(err)
	}
	part.Write(doc)
	mw.Close()

	resp, data = f.do(t, http.MethodPost, "/import", buf.Bytes(), mw.FormDataContentType())
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("multipart status = %d: %s", resp.StatusCode, data)
	}
}

func TestImportBadRequests(t *testing.T) {
	f := newFixture(t, false)
	for _, body := range [][]byte{nil, []byte("<gbXML><Campus>"), []byte("not xml")} {
		resp, data := f.do(t, http.MethodPost, "/import", body, "application/xml")
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("body %q: status = %d: %s", body, resp.StatusCode, data)
		}
	}
}

func TestListExports(t *testing.T) {
	f := newFixture(t, false)
	f.do(t, http.MethodPost, "/export?mode=shell", roomInput(t), "application/json")

	resp, data := f.do(t, http.MethodGet, "/exports?limit=5", nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, data)
	}
	var out struct {
		Exports []repository.Export `json:"exports"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if len(out.Exports) != 1 || out.Exports[0].Mode != "shell" || out.Exports[0].Surfaces != 4 {
		t.Fatalf("exports = %+v", out.Exports)
	}

	resp, _ = f.do(t, http.MethodGet, "/exports?limit=abc", nil, "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("invalid limit status = %d", resp.StatusCode)
	}
}

func TestReady(t *testing.T) {
	f := newFixture(t, false)
	resp, _ := f.do(t, http.MethodGet, "/health/ready", nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}
