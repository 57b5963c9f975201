// SAGE - Secure Agent Guarantee Engine
// Copyright (C) 2025 SAGE-X-project
//
// This file is part of SAGE.
//
// SAGE is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// SAGE is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with SAGE. If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sage-x-project/spdm/internal/metrics"
)

var metricsAddr string

var metricsServeCmd = &cobra.Command{
	Use:     "metrics-serve",
	Short:   "Serve the Prometheus /metrics endpoint used by every spdmctl subcommand",
	Example: `  spdmctl metrics-serve --addr :9464`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("serving metrics on %s\n", metricsAddr)
		return metrics.StartServer(metricsAddr)
	},
}

func init() {
	metricsServeCmd.Flags().StringVar(&metricsAddr, "addr", ":9464", "listen address")
}
