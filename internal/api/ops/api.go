// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

// Package ops contains the operator-facing endpoints: the liveness check, the
// database connectivity check, and the schema initialization trigger.
package ops

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sapcc/go-bits/httpapi"
	"github.com/sapcc/go-bits/logg"
	"github.com/sapcc/go-bits/respondwith"

	"github.com/sapcc/uploadlist/internal/uploadlist"
)

// API contains state variables used by the ops endpoints.
type API struct {
	cfg   uploadlist.Configuration
	store uploadlist.RequestStore
}

// NewAPI constructs a new API instance.
func NewAPI(cfg uploadlist.Configuration, store uploadlist.RequestStore) *API {
	return &API{cfg, store}
}

// AddTo implements the httpapi.API interface.
func (a *API) AddTo(r *mux.Router) {
	r.Methods("GET").Path("/health").HandlerFunc(a.handleGetHealth)
	r.Methods("GET").Path("/test-db").HandlerFunc(a.handleGetTestDB)
	if a.cfg.EnableOpsAPI {
		r.Methods("GET").Path("/init-db").HandlerFunc(a.handleGetInitDB)
	}
}

// HealthResponse is the response body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Backend string `json:"backend"`
	Port    string `json:"port"`
}

func (a *API) handleGetHealth(w http.ResponseWriter, r *http.Request) {
	httpapi.IdentifyEndpoint(r, "/health")
	httpapi.SkipRequestLog(r)
	respondwith.JSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Backend: a.cfg.BackendName,
		Port:    a.cfg.ListenPort,
	})
}

// StatusResponse is the response body of GET /test-db and GET /init-db.
type StatusResponse struct {
	Status     string     `json:"status"`
	Message    string     `json:"message,omitempty"`
	ServerTime *time.Time `json:"serverTime,omitempty"`
	Details    string     `json:"details,omitempty"`
}

func (a *API) handleGetTestDB(w http.ResponseWriter, r *http.Request) {
	httpapi.IdentifyEndpoint(r, "/test-db")
	serverTime, err := a.store.Ping(r.Context())
	if err != nil {
		logg.Error("database connectivity check failed: %s", err.Error())
		respondwith.JSON(w, http.StatusInternalServerError, StatusResponse{
			Status:  "error",
			Message: "Database connection FAILED",
			Details: err.Error(),
		})
		return
	}
	respondwith.JSON(w, http.StatusOK, StatusResponse{
		Status:     "success",
		Message:    "Database connection is HEALTHY!",
		ServerTime: &serverTime,
	})
}

func (a *API) handleGetInitDB(w http.ResponseWriter, r *http.Request) {
	httpapi.IdentifyEndpoint(r, "/init-db")
	err := a.store.EnsureSchema(r.Context())
	if err != nil {
		logg.Error("schema initialization failed: %s", err.Error())
		respondwith.JSON(w, http.StatusInternalServerError, StatusResponse{
			Status:  "error",
			Details: err.Error(),
		})
		return
	}
	logg.Info("schema initialization was triggered through the API")
	respondwith.JSON(w, http.StatusOK, StatusResponse{
		Status:  "success",
		Message: "requests table is ready",
	})
}
