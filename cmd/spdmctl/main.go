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

// Command spdmctl is a demonstration CLI over the SPDM core: it drives a
// loopback handshake and secured-record exchange, and lets an operator
// poke the Data Accessor directly, without needing a real transport or
// certificate chain.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sage-x-project/spdm/internal/config"
	"github.com/sage-x-project/spdm/internal/logger"
)

var (
	cfgDir string
	log    logger.Logger = logger.Nop{}
)

var rootCmd = &cobra.Command{
	Use:   "spdmctl",
	Short: "spdmctl - SPDM core demonstration and diagnostics CLI",
	Long: `spdmctl drives the SPDM core (primitive facade, transcript manager,
session/key schedule, and AEAD record layer) over an in-memory loopback
transport, and exposes the Context Data Accessor for direct property
get/set, without requiring a real PCI-DOE/MCTP link or certificate chain.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(config.LoaderOptions{ConfigDir: cfgDir})
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		level := logger.InfoLevel
		if cfg.Logging != nil && cfg.Logging.Level == "debug" {
			level = logger.DebugLevel
		}
		log = logger.New(os.Stdout, level)
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVar(&cfgDir, "config-dir", "config", "configuration directory")
	rootCmd.AddCommand(handshakeCmd)
	rootCmd.AddCommand(capabilityGetCmd)
	rootCmd.AddCommand(capabilitySetCmd)
	rootCmd.AddCommand(metricsServeCmd)
}
