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

// Package config loads the local, per-process settings a Context is built
// from: capability flags, transfer sizes, preferred algorithm lists, and
// the primitive backend selection. None of this is negotiated state — it
// is the local side's starting offer, read once at startup.
package config

import "time"

// Config is the top-level configuration structure for an spdmctl process.
type Config struct {
	Environment  string             `yaml:"environment" json:"environment"`
	Capabilities CapabilitiesConfig `yaml:"capabilities" json:"capabilities"`
	Transfer     TransferConfig     `yaml:"transfer" json:"transfer"`
	Algorithms   AlgorithmsConfig   `yaml:"algorithms" json:"algorithms"`
	Primitive    PrimitiveConfig    `yaml:"primitive" json:"primitive"`
	Logging      *LoggingConfig     `yaml:"logging" json:"logging"`
	Metrics      *MetricsConfig     `yaml:"metrics" json:"metrics"`
	Health       *HealthConfig      `yaml:"health" json:"health"`
}

// CapabilitiesConfig mirrors the 32-bit local capability flag set a
// Context advertises during GET_CAPABILITIES/CAPABILITIES exchange.
type CapabilitiesConfig struct {
	CertCap    bool `yaml:"cert_cap" json:"cert_cap"`
	ChalCap    bool `yaml:"chal_cap" json:"chal_cap"`
	MeasCap    bool `yaml:"meas_cap" json:"meas_cap"`
	KeyExCap   bool `yaml:"key_ex_cap" json:"key_ex_cap"`
	PSKCap     bool `yaml:"psk_cap" json:"psk_cap"`
	EncryptCap bool `yaml:"encrypt_cap" json:"encrypt_cap"`
	MacCap     bool `yaml:"mac_cap" json:"mac_cap"`
	KeyUpdCap  bool `yaml:"key_upd_cap" json:"key_upd_cap"`
	HBeatCap   bool `yaml:"hbeat_cap" json:"hbeat_cap"`
}

// TransferConfig bounds the sizes a Context negotiates and enforces.
type TransferConfig struct {
	DataTransferSize  uint32        `yaml:"data_transfer_size" json:"data_transfer_size"`
	MaxSPDMMsgSize    uint32        `yaml:"max_spdm_msg_size" json:"max_spdm_msg_size"`
	HeartbeatPeriod   time.Duration `yaml:"heartbeat_period" json:"heartbeat_period"`
}

// AlgorithmsConfig lists this side's preferred algorithms in priority
// order, as offered during NEGOTIATE_ALGORITHMS.
type AlgorithmsConfig struct {
	BaseHash     []string `yaml:"base_hash" json:"base_hash"`
	BaseAsym     []string `yaml:"base_asym" json:"base_asym"`
	DHEGroups    []string `yaml:"dhe_groups" json:"dhe_groups"`
	AEADSuites   []string `yaml:"aead_suites" json:"aead_suites"`
	KeySchedule  string   `yaml:"key_schedule" json:"key_schedule"`
	MeasHash     string   `yaml:"measurement_hash" json:"measurement_hash"`
}

// PrimitiveConfig selects the primitive facade backend.
type PrimitiveConfig struct {
	Backend string `yaml:"backend" json:"backend"` // native, null
}

// LoggingConfig controls internal/logger's output.
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`   // debug, info, warn, error
	Output string `yaml:"output" json:"output"` // stdout, stderr
}

// MetricsConfig controls the Prometheus /metrics HTTP endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Addr    string `yaml:"addr" json:"addr"`
	Path    string `yaml:"path" json:"path"`
}

// HealthConfig controls a basic liveness endpoint for cmd/spdmctl.
type HealthConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Addr    string `yaml:"addr" json:"addr"`
	Path    string `yaml:"path" json:"path"`
}
