// Copyright (C) 2025 sage-x-project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadFromFile loads configuration from a YAML or JSON file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file (tried YAML and JSON): %w", err)
		}
	}

	setDefaults(cfg)
	return cfg, nil
}

// SaveToFile saves configuration to a file, choosing the format by extension.
func SaveToFile(cfg *Config, path string) error {
	var data []byte
	var err error

	if len(path) > 5 && path[len(path)-5:] == ".json" {
		data, err = json.MarshalIndent(cfg, "", "  ")
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// setDefaults fills zero-valued fields with the spdmctl demo's defaults.
func setDefaults(cfg *Config) {
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	if cfg.Transfer.DataTransferSize == 0 {
		cfg.Transfer.DataTransferSize = 4096
	}
	if cfg.Transfer.MaxSPDMMsgSize == 0 {
		cfg.Transfer.MaxSPDMMsgSize = 65536
	}
	if cfg.Transfer.HeartbeatPeriod == 0 {
		cfg.Transfer.HeartbeatPeriod = 30 * time.Second
	}

	if cfg.Primitive.Backend == "" {
		cfg.Primitive.Backend = "native"
	}

	if len(cfg.Algorithms.BaseHash) == 0 {
		cfg.Algorithms.BaseHash = []string{"sha384", "sha256"}
	}
	if len(cfg.Algorithms.BaseAsym) == 0 {
		cfg.Algorithms.BaseAsym = []string{"ed25519", "ecdsa_secp256k1", "rsassa_pss_3072"}
	}
	if len(cfg.Algorithms.DHEGroups) == 0 {
		cfg.Algorithms.DHEGroups = []string{"x25519"}
	}
	if len(cfg.Algorithms.AEADSuites) == 0 {
		cfg.Algorithms.AEADSuites = []string{"chacha20_poly1305", "aes_256_gcm"}
	}
	if cfg.Algorithms.KeySchedule == "" {
		cfg.Algorithms.KeySchedule = "hkdf"
	}
	if cfg.Algorithms.MeasHash == "" {
		cfg.Algorithms.MeasHash = "sha384"
	}

	if cfg.Logging != nil {
		if cfg.Logging.Level == "" {
			cfg.Logging.Level = "info"
		}
		if cfg.Logging.Output == "" {
			cfg.Logging.Output = "stdout"
		}
	}

	if cfg.Metrics != nil {
		if cfg.Metrics.Addr == "" {
			cfg.Metrics.Addr = ":9090"
		}
		if cfg.Metrics.Path == "" {
			cfg.Metrics.Path = "/metrics"
		}
	}

	if cfg.Health != nil {
		if cfg.Health.Addr == "" {
			cfg.Health.Addr = ":9091"
		}
		if cfg.Health.Path == "" {
			cfg.Health.Path = "/healthz"
		}
	}
}
