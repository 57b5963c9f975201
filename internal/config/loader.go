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

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// LoaderOptions configures the configuration loader.
type LoaderOptions struct {
	// ConfigDir is the directory containing config files (default: ./config).
	ConfigDir string
	// Environment overrides automatic environment detection.
	Environment string
	// SkipEnvSubstitution disables ${VAR} substitution.
	SkipEnvSubstitution bool
	// SkipValidation disables configuration validation.
	SkipValidation bool
	// DotenvFile, if non-empty, is loaded into the process environment
	// before substitution (godotenv), for local overrides.
	DotenvFile string
}

// DefaultLoaderOptions returns the default loader options.
func DefaultLoaderOptions() LoaderOptions {
	return LoaderOptions{
		ConfigDir:   "config",
		Environment: "",
		DotenvFile:  ".env",
	}
}

// Load loads configuration with automatic environment detection, the
// fallback chain <env>.yaml -> default.yaml -> config.yaml -> zero-value.
func Load(opts ...LoaderOptions) (*Config, error) {
	options := DefaultLoaderOptions()
	if len(opts) > 0 {
		options = opts[0]
	}

	if options.DotenvFile != "" {
		_ = godotenv.Load(options.DotenvFile) // missing .env is not an error
	}

	env := options.Environment
	if env == "" {
		env = GetEnvironment()
	}

	cfg, err := loadConfigFile(filepath.Join(options.ConfigDir, fmt.Sprintf("%s.yaml", env)))
	if err != nil {
		cfg, err = loadConfigFile(filepath.Join(options.ConfigDir, "default.yaml"))
		if err != nil {
			cfg, err = loadConfigFile(filepath.Join(options.ConfigDir, "config.yaml"))
			if err != nil {
				cfg = &Config{}
			}
		}
	}

	if cfg.Environment == "" {
		cfg.Environment = env
	}
	setDefaults(cfg)

	if !options.SkipEnvSubstitution {
		SubstituteEnvVarsInConfig(cfg)
	}
	applyEnvironmentOverrides(cfg)

	if !options.SkipValidation {
		if errs := ValidateConfiguration(cfg); len(errs) > 0 {
			for _, e := range errs {
				if e.Level == "error" {
					return nil, fmt.Errorf("configuration validation failed: %s - %s", e.Field, e.Message)
				}
			}
		}
	}

	return cfg, nil
}

func loadConfigFile(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}
	return LoadFromFile(path)
}

// applyEnvironmentOverrides overrides config fields with SPDM_* environment
// variables, the highest-priority source after explicit ${VAR} substitution.
func applyEnvironmentOverrides(cfg *Config) {
	if backend := os.Getenv("SPDM_PRIMITIVE_BACKEND"); backend != "" {
		cfg.Primitive.Backend = backend
	}
	if logLevel := os.Getenv("SPDM_LOG_LEVEL"); logLevel != "" && cfg.Logging != nil {
		cfg.Logging.Level = logLevel
	}
	if metricsAddr := os.Getenv("SPDM_METRICS_ADDR"); metricsAddr != "" && cfg.Metrics != nil {
		cfg.Metrics.Addr = metricsAddr
	}
	switch os.Getenv("SPDM_METRICS_ENABLED") {
	case "true":
		if cfg.Metrics != nil {
			cfg.Metrics.Enabled = true
		}
	case "false":
		if cfg.Metrics != nil {
			cfg.Metrics.Enabled = false
		}
	}
}

// LoadForEnvironment loads configuration for a specific environment.
func LoadForEnvironment(environment string) (*Config, error) {
	opts := DefaultLoaderOptions()
	opts.Environment = environment
	return Load(opts)
}

// MustLoad loads configuration or panics on error.
func MustLoad(opts ...LoaderOptions) *Config {
	cfg, err := Load(opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

// ValidationError describes one configuration validation finding.
type ValidationError struct {
	Field   string
	Message string
	Level   string // "error" or "warning"
}

// ValidateConfiguration checks cfg against the constraints cmd/spdmctl
// relies on. Errors block Load; warnings are returned but non-fatal.
func ValidateConfiguration(cfg *Config) []ValidationError {
	var errs []ValidationError

	if cfg.Transfer.DataTransferSize == 0 {
		errs = append(errs, ValidationError{
			Field: "transfer.data_transfer_size", Level: "error",
			Message: "must be non-zero",
		})
	}
	if cfg.Transfer.MaxSPDMMsgSize < cfg.Transfer.DataTransferSize {
		errs = append(errs, ValidationError{
			Field: "transfer.max_spdm_msg_size", Level: "error",
			Message: "must be >= transfer.data_transfer_size",
		})
	}
	if cfg.Primitive.Backend != "native" && cfg.Primitive.Backend != "null" {
		errs = append(errs, ValidationError{
			Field: "primitive.backend", Level: "error",
			Message: fmt.Sprintf("unknown backend %q, want native or null", cfg.Primitive.Backend),
		})
	}
	if len(cfg.Algorithms.BaseHash) == 0 {
		errs = append(errs, ValidationError{
			Field: "algorithms.base_hash", Level: "warning",
			Message: "no base_hash algorithms configured, negotiation will fail",
		})
	}
	if len(cfg.Algorithms.AEADSuites) == 0 {
		errs = append(errs, ValidationError{
			Field: "algorithms.aead_suites", Level: "warning",
			Message: "no AEAD suites configured, session establishment will fail",
		})
	}

	return errs
}
