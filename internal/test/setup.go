// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package test

import (
	"net/http"
	"testing"

	"github.com/sapcc/go-bits/httpapi"
	"github.com/sapcc/go-bits/logg"
	"github.com/sapcc/go-bits/osext"

	"github.com/sapcc/uploadlist/internal/api"
	"github.com/sapcc/uploadlist/internal/metrics"
	"github.com/sapcc/uploadlist/internal/uploadlist"
)

// SetupOption is an option that can be given to Setup().
type SetupOption func(*setupParams)

type setupParams struct {
	withoutOpsAPI bool
	origins       []string
}

// WithoutOpsAPI is a SetupOption that builds the minimal variant of the API
// without /init-db, /metrics and duration metrics.
func WithoutOpsAPI() SetupOption {
	return func(p *setupParams) {
		p.withoutOpsAPI = true
	}
}

// WithCORSOrigins is a SetupOption that replaces the default "*" origin list.
func WithCORSOrigins(origins ...string) SetupOption {
	return func(p *setupParams) {
		p.origins = origins
	}
}

// Setup contains all the pieces that are needed for most tests.
type Setup struct {
	Config   uploadlist.Configuration
	Store    *RequestStore
	Recorder *metrics.Recorder // nil when WithoutOpsAPI() was given
	Handler  http.Handler
}

// NewSetup prepares most or all pieces of uploadlist for a test.
func NewSetup(t *testing.T, opts ...SetupOption) Setup {
	t.Helper()
	logg.ShowDebug = osext.GetenvBool("UPLOADLIST_DEBUG")

	params := setupParams{origins: []string{"*"}}
	for _, option := range opts {
		option(&params)
	}

	s := Setup{
		Config: uploadlist.Configuration{
			BackendName:        "backend-a",
			ListenPort:         "8080",
			CORSAllowedOrigins: params.origins,
			EnableOpsAPI:       !params.withoutOpsAPI,
		},
		Store: NewRequestStore(),
	}
	if s.Config.EnableOpsAPI {
		s.Recorder = metrics.NewRecorder()
	}
	s.Handler = api.NewHandler(s.Config, s.Store, s.Recorder, httpapi.WithoutLogging())
	return s
}
