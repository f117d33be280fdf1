// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"github.com/gorilla/mux"

	"github.com/sapcc/uploadlist/internal/uploadlist"
)

// API contains state variables used by the upload endpoint.
type API struct {
	backendName string
	store       uploadlist.RequestStore
}

// NewAPI constructs a new API instance.
func NewAPI(cfg uploadlist.Configuration, store uploadlist.RequestStore) *API {
	return &API{cfg.BackendName, store}
}

// AddTo implements the httpapi.API interface.
func (a *API) AddTo(r *mux.Router) {
	// all three paths are equivalent; the extra ones exist for reverse proxies
	// that forward with or without a path prefix
	for _, path := range []string{"/", "/api/a", "/upload"} {
		r.Methods("POST").Path(path).HandlerFunc(a.handlePostUpload)
	}
}
