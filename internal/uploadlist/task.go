// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package uploadlist

import (
	"github.com/sapcc/go-api-declarations/bininfo"
	"github.com/sapcc/go-bits/logg"
)

// SetTaskName records which subcommand this process is running and logs the
// startup banner.
func SetTaskName(taskName string) {
	bininfo.SetTaskName(taskName)
	logg.Info("starting %s %s", bininfo.Component(), bininfo.VersionOr("rolling"))
}
