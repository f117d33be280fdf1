// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package initdbcmd

import (
	"github.com/sapcc/go-bits/logg"
	"github.com/sapcc/go-bits/must"
	"github.com/spf13/cobra"

	"github.com/sapcc/uploadlist/internal/uploadlist"
)

// AddCommandTo mounts this command into the command hierarchy.
func AddCommandTo(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "init-db",
		Short: "Create the requests table if it does not exist yet.",
		Long:  "Create the requests table if it does not exist yet. This does the same as GET /init-db, but without starting the API.",
		Args:  cobra.NoArgs,
		Run:   run,
	}
	parent.AddCommand(cmd)
}

func run(cmd *cobra.Command, args []string) {
	_ = args

	uploadlist.SetTaskName("init-db")
	must.Succeed(uploadlist.LoadEnvFile())

	dbURL, _, err := uploadlist.GetDatabaseURLFromEnvironment()
	must.Succeed(err)
	dbConn := must.Return(uploadlist.Connect(dbURL, false))
	defer dbConn.Close()
	db := uploadlist.InitORM(dbConn)

	must.Succeed(db.EnsureSchema(cmd.Context()))
	logg.Info("requests table is ready")
}
