package server

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/static"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/go-resave/resave"
	"github.com/go-resave/resave/internal/config"
	"github.com/go-resave/resave/internal/logging"
	"github.com/go-resave/resave/internal/metrics"
)

// AppOptions controls how the Fiber application is assembled. Handlers are
// the bundle middleware instances built from config; injecting them directly
// allows fakes during tests.
type AppOptions struct {
	Logger   *logrus.Logger
	Config   *config.Config
	Handlers []fiber.Handler
}

const contextKeyRequestID = "_resaved_request_id"

// NewApp builds the Fiber application: recovery, request ID, access log and
// metrics middlewares, then the static layer over SavePath (when saving is
// enabled), the bundle handlers and the JSON 404 fallback. Diagnostics
// routes under /-/ are registered separately by the routes package and stay
// reachable through the fallback.
func NewApp(opts AppOptions) (*fiber.App, error) {
	if opts.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	if len(opts.Handlers) == 0 {
		return nil, errors.New("at least one bundle handler is required")
	}

	app := fiber.New(fiber.Config{
		CaseSensitive: true,
		ErrorHandler:  errorHandler(),
	})

	app.Use(recover.New())
	app.Use(requestContextMiddleware())
	app.Use(accessLogMiddleware(opts.Logger))
	app.Use(metricsMiddleware())

	// 静态层优先命中已保存的产物，未命中时继续交给 bundle 中间件。
	if savePath := opts.Config.Global.SavePath; savePath != "" {
		app.Use(static.New(savePath, static.Config{
			Next: func(c fiber.Ctx) bool {
				return isDiagnosticsPath(string(c.Request().URI().Path()))
			},
		}))
	}

	for _, handler := range opts.Handlers {
		app.Use(handler)
	}

	app.Use(bundleUnmappedHandler(opts.Logger))

	return app, nil
}

// requestContextMiddleware 负责生成请求 ID，写入响应头与 Locals 供日志复用。
func requestContextMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		reqID := uuid.NewString()
		c.Locals(contextKeyRequestID, reqID)
		c.Set("X-Request-ID", reqID)
		return c.Next()
	}
}

// accessLogMiddleware 输出每个请求的结构化访问日志；响应渲染交由 ErrorHandler。
func accessLogMiddleware(logger *logrus.Logger) fiber.Handler {
	return func(c fiber.Ctx) error {
		started := time.Now()
		err := c.Next()

		fields := logging.RequestFields(c.Method(), string(c.Request().URI().Path()), RequestID(c))
		fields["action"] = "request"
		fields["elapsed_ms"] = time.Since(started).Milliseconds()
		if err != nil {
			fields["error"] = err.Error()
			logger.WithFields(fields).Error("request_failed")
			return err
		}
		fields["status"] = c.Response().StatusCode()
		logger.WithFields(fields).Info("request_complete")
		return nil
	}
}

// metricsMiddleware 记录请求量与耗时，分类逻辑见 metrics.Outcome。
func metricsMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		started := time.Now()
		err := c.Next()
		metrics.ObserveRequest(metrics.Outcome(c.Response().StatusCode(), err), time.Since(started))
		return err
	}
}

// errorHandler 将中间件链返回的错误翻译为稳定的 JSON 错误码；
// 日志已由访问日志与 bundle 中间件输出，这里只负责渲染。
func errorHandler() func(fiber.Ctx, error) error {
	return func(c fiber.Ctx, err error) error {
		var compileErr *resave.CompileError
		var saveErr *resave.SaveError
		var fiberErr *fiber.Error

		switch {
		case errors.As(err, &compileErr):
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "bundle_compile_failed",
			})
		case errors.As(err, &saveErr):
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "bundle_save_failed",
			})
		case errors.As(err, &fiberErr):
			return c.Status(fiberErr.Code).JSON(fiber.Map{
				"error": fiberErr.Message,
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "internal_error",
			})
		}
	}
}

// bundleUnmappedHandler 渲染兜底 404；/-/ 前缀放行给后续注册的诊断路由。
func bundleUnmappedHandler(logger *logrus.Logger) fiber.Handler {
	return func(c fiber.Ctx) error {
		path := string(c.Request().URI().Path())
		if isDiagnosticsPath(path) {
			return c.Next()
		}

		logger.WithFields(logrus.Fields{
			"action":     "bundle_lookup",
			"path":       path,
			"request_id": RequestID(c),
		}).Warn("bundle unmapped")

		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "bundle_unmapped",
		})
	}
}

// RequestID returns the request identifier stored by the router middleware.
func RequestID(c fiber.Ctx) string {
	if value := c.Locals(contextKeyRequestID); value != nil {
		if reqID, ok := value.(string); ok {
			return reqID
		}
	}
	return ""
}

func isDiagnosticsPath(path string) bool {
	return strings.HasPrefix(path, "/-/")
}
