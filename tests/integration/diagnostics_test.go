package integration

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"

	"github.com/go-resave/resave/internal/config"
)

func diagnosticsConfig(t *testing.T) *config.Config {
	t.Helper()
	baseDir := t.TempDir()
	writeSource(t, baseDir, "a.src.css", "a")
	writeSource(t, baseDir, "b.src.js", "b")

	return &config.Config{
		Global: config.GlobalConfig{
			ListenPort: 4000,
			BasePath:   baseDir,
			Bundler:    "raw",
		},
		Bundles: []config.BundleConfig{
			{Route: "/b.js", Source: "b.src.js", Bundler: "counting-flow"},
			{Route: "/a.css", Source: "a.src.css", Bundler: "raw"},
		},
	}
}

func TestBundleDiagnosticsListsRoutesAndBundlers(t *testing.T) {
	app := newDaemonApp(t, diagnosticsConfig(t))

	resp, err := app.Test(httptest.NewRequest("GET", "/-/bundles", nil))
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var payload struct {
		Bundles []struct {
			Route   string `json:"route"`
			Source  string `json:"source"`
			Bundler string `json:"bundler"`
		} `json:"bundles"`
		Bundlers []struct {
			Key string `json:"key"`
		} `json:"bundlers"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}

	if len(payload.Bundles) != 2 {
		t.Fatalf("expected two bundles, got %d", len(payload.Bundles))
	}
	if payload.Bundles[0].Route != "/a.css" || payload.Bundles[1].Route != "/b.js" {
		t.Fatalf("bundles must be sorted by route: %+v", payload.Bundles)
	}

	keys := map[string]bool{}
	for _, b := range payload.Bundlers {
		keys[b.Key] = true
	}
	if !keys["raw"] {
		t.Fatalf("builtin raw bundler missing from registry snapshot: %v", keys)
	}
}

func TestBundlerDiagnosticsByKey(t *testing.T) {
	app := newDaemonApp(t, diagnosticsConfig(t))

	resp, err := app.Test(httptest.NewRequest("GET", "/-/bundlers/raw", nil))
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var payload struct {
		Key    string   `json:"key"`
		Routes []string `json:"routes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.Key != "raw" {
		t.Fatalf("unexpected key: %s", payload.Key)
	}
	if len(payload.Routes) != 1 || payload.Routes[0] != "/a.css" {
		t.Fatalf("unexpected routes for raw: %v", payload.Routes)
	}

	notFound, err := app.Test(httptest.NewRequest("GET", "/-/bundlers/no-such-key", nil))
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	defer notFound.Body.Close()
	if notFound.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404 for unknown bundler, got %d", notFound.StatusCode)
	}
}

func TestMetricsEndpointExposesRequestCounters(t *testing.T) {
	app := newDaemonApp(t, diagnosticsConfig(t))

	// Generate at least one observation before scraping.
	warmup, err := app.Test(httptest.NewRequest("GET", "/a.css", nil))
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	warmup.Body.Close()

	resp, err := app.Test(httptest.NewRequest("GET", "/-/metrics", nil))
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "resaved_requests_total") {
		t.Fatalf("expected resaved_requests_total in exposition, got %d bytes", len(body))
	}
}
