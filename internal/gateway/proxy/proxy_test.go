package proxy

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
)

func TestMountForwardsQueryBodyAndHeaders(t *testing.T) {
	var gotPath, gotQuery, gotBody, gotRequestID string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotRequestID = r.Header.Get("X-Request-Id")
		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)
		w.Header().Set("X-Export-Id", "abc")
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, "<gbXML/>")
	}))
	defer upstream.Close()

	app := fiber.New()
	Mount(app.Group("/api/v1"), upstream.URL)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/export?mode=shell", strings.NewReader(`{"kind":"spaces"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", "req-1")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if gotPath != "/export" || gotQuery != "mode=shell" {
		t.Errorf("upstream saw %s?%s", gotPath, gotQuery)
	}
	if gotBody != `{"kind":"spaces"}` || gotRequestID != "req-1" {
		t.Errorf("upstream body=%q request id=%q", gotBody, gotRequestID)
	}
	if resp.StatusCode != http.StatusCreated || string(body) != "<gbXML/>" {
		t.Errorf("status=%d body=%q", resp.StatusCode, body)
	}
	if resp.Header.Get("X-Export-Id") != "abc" {
		t.Errorf("X-Export-Id = %q", resp.Header.Get("X-Export-Id"))
	}
}

func TestUpstreamDown(t *testing.T) {
	upstream := httptest.NewServer(http.NotFoundHandler())
	url := upstream.URL
	upstream.Close()

	app := fiber.New()
	Mount(app, url)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/exports", nil))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", resp.StatusCode)
	}
}
