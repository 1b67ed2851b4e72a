package server

import (
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v3"
)

func TestBundleHandlersCompileConfiguredRoutes(t *testing.T) {
	baseDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(baseDir, "app.scss"), []byte("body{color:red}"), 0o600); err != nil {
		t.Fatalf("failed to write source: %v", err)
	}

	cfg := testConfig("")
	cfg.Global.BasePath = baseDir

	handlers, err := BundleHandlers(cfg, discardLogger())
	if err != nil {
		t.Fatalf("BundleHandlers failed: %v", err)
	}
	if len(handlers) != 1 {
		t.Fatalf("expected one handler per bundler, got %d", len(handlers))
	}

	app := fiber.New()
	app.Use(handlers[0])

	resp, err := app.Test(httptest.NewRequest("GET", "/app.css", nil))
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 status, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "body{color:red}" {
		t.Fatalf("unexpected body: %s", string(body))
	}
}

func TestBundleHandlersRejectUnknownBundler(t *testing.T) {
	cfg := testConfig("")
	cfg.Bundles[0].Bundler = "ghost"

	if _, err := BundleHandlers(cfg, discardLogger()); err == nil {
		t.Fatalf("expected error for unregistered bundler")
	}
}
