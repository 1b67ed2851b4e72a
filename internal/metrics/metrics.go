// Package metrics 持有守护进程的 Prometheus 指标，并提供 /-/metrics 的暴露入口。
package metrics

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/go-resave/resave"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resaved_requests_total",
			Help: "Total number of finished HTTP requests",
		},
		[]string{"outcome"}, // ok, not_found, compile_error, save_error or error
	)

	requestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "resaved_request_duration_seconds",
			Help:    "Time taken to answer a request, including compile and save",
			Buckets: []float64{0.005, 0.02, 0.1, 0.5, 1, 5, 30},
		},
	)
)

// ObserveRequest 记录一次完成的请求。
func ObserveRequest(outcome string, elapsed time.Duration) {
	requestsTotal.WithLabelValues(outcome).Inc()
	requestDuration.Observe(elapsed.Seconds())
}

// Outcome 根据响应状态与错误类型给出指标标签。
func Outcome(status int, err error) string {
	var compileErr *resave.CompileError
	var saveErr *resave.SaveError
	switch {
	case errors.As(err, &compileErr):
		return "compile_error"
	case errors.As(err, &saveErr):
		return "save_error"
	case err != nil:
		return "error"
	case status == fiber.StatusNotFound:
		return "not_found"
	default:
		return "ok"
	}
}

// Handler 暴露默认注册表中的全部指标。
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
