// Package metrics contadores de Prometheus para redirecciones, reparaciones, funciones y HTTP.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/leadportal-api/internal/application/ports"
)

var _ ports.MetricsRecorder = (*Recorder)(nil)

const namespace = "leadportal"

// Recorder implementa MetricsRecorder sobre un registry propio.
type Recorder struct {
	registry  *prometheus.Registry
	redirects *prometheus.CounterVec
	repairs   *prometheus.CounterVec
	functions *prometheus.CounterVec
	requests  *prometheus.CounterVec
	latency   *prometheus.HistogramVec
}

// NewRecorder registra los colectores. withRuntime añade los de Go y proceso.
func NewRecorder(withRuntime bool) *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		redirects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "redirect_decisions_total",
			Help:      "Decisiones del redirector por acción (navigate, disabled).",
		}, []string{"action"}),
		repairs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "association_repairs_total",
			Help:      "Asociaciones usuario-empresa reparadas por tipo.",
		}, []string{"kind"}),
		functions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "function_calls_total",
			Help:      "Llamadas a /api/functions por función y resultado.",
		}, []string{"function", "outcome"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Peticiones HTTP por método, ruta y status.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latencia de las peticiones HTTP.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	r.registry.MustRegister(r.redirects, r.repairs, r.functions, r.requests, r.latency)
	if withRuntime {
		r.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	return r
}

func (r *Recorder) RedirectDecided(action string) {
	r.redirects.WithLabelValues(action).Inc()
}

func (r *Recorder) AssociationRepaired(kind string, n int) {
	if n <= 0 {
		return
	}
	r.repairs.WithLabelValues(kind).Add(float64(n))
}

func (r *Recorder) FunctionCalled(name, outcome string) {
	r.functions.WithLabelValues(name, outcome).Inc()
}

// Handler expone el registry en formato de texto de Prometheus.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Registry para tests y colectores adicionales.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Middleware cuenta peticiones por ruta registrada (no por path, para no disparar la cardinalidad).
func (r *Recorder) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := c.Route().Path
		if route == "" || route == "/" && c.Path() != "/" {
			route = "unmatched"
		}
		r.requests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		r.latency.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}
