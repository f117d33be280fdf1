// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"

	"github.com/sapcc/go-api-declarations/bininfo"
	"github.com/sapcc/go-bits/logg"
	"github.com/sapcc/go-bits/osext"
	"github.com/spf13/cobra"

	apicmd "github.com/sapcc/uploadlist/cmd/api"
	initdbcmd "github.com/sapcc/uploadlist/cmd/initdb"
)

func main() {
	logg.ShowDebug = osext.GetenvBool("UPLOADLIST_DEBUG")

	rootCmd := &cobra.Command{
		Use:     "uploadlist",
		Short:   "Image upload ingestion service",
		Long:    "uploadlist accepts optional image uploads, stores them in PostgreSQL, and reports the most recently stored requests.",
		Version: bininfo.VersionOr("rolling"),
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help() //nolint:errcheck
		},
	}
	apicmd.AddCommandTo(rootCmd)
	initdbcmd.AddCommandTo(rootCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logg.Fatal(err.Error())
	}
}
