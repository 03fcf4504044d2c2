// Package metrics exposes the prometheus collectors of the service: HTTP
// traffic and the time driven order transitions.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	gatherer prometheus.Gatherer

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	SweepsTotal         *prometheus.CounterVec
	OrdersMarkedLate    prometheus.Counter
	OrdersAutoCompleted *prometheus.CounterVec
}

// New registers the collectors with reg. Pass prometheus.NewRegistry() in
// tests.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		gatherer: reg,
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"route", "method", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		SweepsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "order_sweeps_total",
				Help: "Total number of order sweeps by result",
			},
			[]string{"result"},
		),
		OrdersMarkedLate: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "orders_marked_late_total",
				Help: "Total number of orders moved to Late by sweeps",
			},
		),
		OrdersAutoCompleted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orders_auto_completed_total",
				Help: "Total number of orders completed after the grace period",
			},
			[]string{"source"},
		),
	}

	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.SweepsTotal,
		m.OrdersMarkedLate,
		m.OrdersAutoCompleted,
	)
	return m
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ObserveSweep records one sweep run.
func (m *Metrics) ObserveSweep(source string, markedLate, autoCompleted int, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.SweepsTotal.WithLabelValues(result).Inc()
	m.OrdersMarkedLate.Add(float64(markedLate))
	m.OrdersAutoCompleted.WithLabelValues(source).Add(float64(autoCompleted))
}

// Middleware records request counts and durations labelled by route
// template, so path parameters do not explode cardinality.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			var he *echo.HTTPError
			if errors.As(err, &he) {
				status = he.Code
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method
			m.httpRequestDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
			m.httpRequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
			return err
		}
	}
}
