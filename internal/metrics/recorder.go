// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

// Package metrics records how long HTTP requests take and exposes these
// measurements in the Prometheus text format.
package metrics

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type routeKey struct{}

// routeSlot travels down the request context. It is filled in by the router
// middleware once a route has matched, and read by the duration histogram
// after the request has completed.
type routeSlot struct {
	rawPath  string
	template string
}

func (s *routeSlot) label() string {
	if s.template == "" {
		return s.rawPath
	}
	return s.template
}

// Recorder owns a Prometheus registry with the request duration histogram.
// It implements the httpapi.API interface to identify matched routes, and
// provides Middleware() to measure requests.
type Recorder struct {
	registry *prometheus.Registry
	duration *prometheus.HistogramVec
}

// NewRecorder builds a Recorder with a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "uploadlist_http_request_duration_seconds",
				Help:    "Duration of HTTP requests handled by uploadlist, by method, route and status code.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "code"},
		),
	}
	r.registry.MustRegister(r.duration)
	return r
}

// Registerer returns the registry, for attaching further collectors.
func (r *Recorder) Registerer() prometheus.Registerer {
	return r.registry
}

// AddTo implements the httpapi.API interface.
func (r *Recorder) AddTo(router *mux.Router) {
	// router-level middlewares only run for requests that matched a route
	router.Use(identifyRoute)
}

func identifyRoute(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		slot, ok := req.Context().Value(routeKey{}).(*routeSlot)
		if ok {
			if route := mux.CurrentRoute(req); route != nil {
				template, err := route.GetPathTemplate()
				if err == nil {
					slot.template = template
				}
			}
		}
		next.ServeHTTP(w, req)
	})
}

// Middleware measures each request that passes through it.
func (r *Recorder) Middleware(next http.Handler) http.Handler {
	instrumented := promhttp.InstrumentHandlerDuration(r.duration, next,
		promhttp.WithLabelFromCtx("route", func(ctx context.Context) string {
			slot, ok := ctx.Value(routeKey{}).(*routeSlot)
			if !ok {
				return ""
			}
			return slot.label()
		}),
	)
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		slot := &routeSlot{rawPath: req.URL.Path}
		instrumented.ServeHTTP(w, req.WithContext(context.WithValue(req.Context(), routeKey{}, slot)))
	})
}

// Handler renders the metrics of this recorder together with those in the
// default registry (Go runtime, process, and go-bits httpapi metrics).
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(
		prometheus.Gatherers{r.registry, prometheus.DefaultGatherer},
		promhttp.HandlerOpts{},
	)
}
