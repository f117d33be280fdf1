// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

// Package api wires the HTTP surface of uploadlist together.
package api

import (
	"net/http"

	"github.com/sapcc/go-bits/httpapi"

	"github.com/sapcc/uploadlist/internal/api/ingest"
	"github.com/sapcc/uploadlist/internal/api/middleware"
	"github.com/sapcc/uploadlist/internal/api/ops"
	"github.com/sapcc/uploadlist/internal/metrics"
	"github.com/sapcc/uploadlist/internal/uploadlist"
)

// NewHandler builds the complete HTTP handler of the uploadlist API.
//
// If recorder is nil, request durations are not measured and /metrics is not
// served. Extra components (e.g. httpapi.WithoutLogging() in tests) are
// appended to the httpapi.Compose() call.
func NewHandler(cfg uploadlist.Configuration, store uploadlist.RequestStore, recorder *metrics.Recorder, extra ...httpapi.API) http.Handler {
	// the first middleware is the innermost one
	apis := []httpapi.API{
		ingest.NewAPI(cfg, store),
		ops.NewAPI(cfg, store),
		httpapi.WithGlobalMiddleware(middleware.LimitRequestBody(uploadlist.MaxRequestBodySize)),
		httpapi.WithGlobalMiddleware(middleware.AnswerOptionsRequests),
		httpapi.WithGlobalMiddleware(middleware.CORS(cfg.CORSAllowedOrigins)),
	}
	if recorder != nil {
		apis = append(apis, recorder, httpapi.WithGlobalMiddleware(recorder.Middleware))
	}
	apis = append(apis, extra...)
	handler := httpapi.Compose(apis...)

	mux := http.NewServeMux()
	mux.Handle("/", handler)
	if recorder != nil {
		mux.Handle("/metrics", middleware.AnswerOptionsRequests(recorder.Handler()))
	}
	return mux
}
