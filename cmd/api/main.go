// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package apicmd

import (
	"context"
	"time"

	"github.com/dlmiddlecote/sqlstats"
	"github.com/sapcc/go-bits/httpext"
	"github.com/sapcc/go-bits/logg"
	"github.com/sapcc/go-bits/must"
	"github.com/spf13/cobra"

	"github.com/sapcc/uploadlist/internal/api"
	"github.com/sapcc/uploadlist/internal/metrics"
	"github.com/sapcc/uploadlist/internal/uploadlist"
)

// AddCommandTo mounts this command into the command hierarchy.
func AddCommandTo(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "api",
		Short: "Run the uploadlist HTTP API.",
		Long:  "Run the uploadlist HTTP API. Configuration is read from environment variables as described in README.md.",
		Args:  cobra.NoArgs,
		Run:   run,
	}
	parent.AddCommand(cmd)
}

func run(cmd *cobra.Command, args []string) {
	_ = args

	uploadlist.SetTaskName("api")
	must.Succeed(uploadlist.LoadEnvFile())
	cfg := uploadlist.ParseConfiguration()
	ctx := httpext.ContextWithSIGINT(cmd.Context(), 10*time.Second)

	dbURL, dbName, err := uploadlist.GetDatabaseURLFromEnvironment()
	must.Succeed(err)
	dbConn := must.Return(uploadlist.Connect(dbURL, cfg.MigrateOnStartup))
	db := uploadlist.InitORM(dbConn)

	// the pool is opened lazily, so an unreachable database only shows up here
	// as a warning and the API still starts
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	_, err = db.Ping(pingCtx)
	cancel()
	if err != nil {
		logg.Error("database is not reachable yet: %s", err.Error())
	}

	var recorder *metrics.Recorder
	if cfg.EnableOpsAPI {
		recorder = metrics.NewRecorder()
		recorder.Registerer().MustRegister(sqlstats.NewStatsCollector(dbName, dbConn))
	}
	for _, origin := range cfg.CORSAllowedOrigins {
		if origin == "*" {
			logg.Info("CORS is configured to allow requests from any origin")
		}
	}

	handler := api.NewHandler(cfg, db, recorder)
	logg.Info("listening on %s", cfg.ListenAddress())
	must.Succeed(httpext.ListenAndServeContext(ctx, cfg.ListenAddress(), handler))
}
