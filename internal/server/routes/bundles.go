package routes

import (
	"sort"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/go-resave/resave/bundlers"
	"github.com/go-resave/resave/internal/config"
	"github.com/go-resave/resave/internal/metrics"
)

// RegisterBundleRoutes 暴露 /-/bundles、/-/bundlers/:key 与 /-/metrics 诊断
// 接口，供 SRE 查询路由绑定关系与运行指标。
func RegisterBundleRoutes(app *fiber.App, cfg *config.Config) {
	if app == nil || cfg == nil {
		return
	}

	app.Get("/-/bundles", func(c fiber.Ctx) error {
		payload := fiber.Map{
			"bundles":  encodeBundles(cfg.Bundles),
			"bundlers": encodeBundlers(bundlers.List(), cfg.Bundles),
		}
		return c.JSON(payload)
	})

	app.Get("/-/bundlers/:key", func(c fiber.Ctx) error {
		key := strings.ToLower(strings.TrimSpace(c.Params("key")))
		if key == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bundler_key_required"})
		}
		reg, ok := bundlers.Resolve(key)
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "bundler_not_found"})
		}
		encoded := encodeBundler(reg)
		encoded.Routes = routesForBundler(cfg.Bundles, reg.Key)
		return c.JSON(encoded)
	})

	app.Get("/-/metrics", metrics.Handler())
}

type bundlePayload struct {
	Route   string `json:"route"`
	Source  string `json:"source"`
	Bundler string `json:"bundler"`
}

type bundlerPayload struct {
	Key         string   `json:"key"`
	Description string   `json:"description"`
	Routes      []string `json:"routes,omitempty"`
}

func encodeBundles(bundles []config.BundleConfig) []bundlePayload {
	if len(bundles) == 0 {
		return nil
	}
	sorted := append([]config.BundleConfig(nil), bundles...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Route < sorted[j].Route
	})
	result := make([]bundlePayload, 0, len(sorted))
	for _, b := range sorted {
		result = append(result, bundlePayload{
			Route:   b.Route,
			Source:  b.Source,
			Bundler: b.Bundler,
		})
	}
	return result
}

func encodeBundlers(regs []bundlers.Registration, bundles []config.BundleConfig) []bundlerPayload {
	if len(regs) == 0 {
		return nil
	}
	result := make([]bundlerPayload, 0, len(regs))
	for _, reg := range regs {
		item := encodeBundler(reg)
		item.Routes = routesForBundler(bundles, reg.Key)
		result = append(result, item)
	}
	return result
}

func encodeBundler(reg bundlers.Registration) bundlerPayload {
	return bundlerPayload{
		Key:         reg.Key,
		Description: reg.Description,
	}
}

func routesForBundler(bundles []config.BundleConfig, key string) []string {
	var routes []string
	for _, b := range bundles {
		if b.Bundler == key {
			routes = append(routes, b.Route)
		}
	}
	sort.Strings(routes)
	return routes
}
