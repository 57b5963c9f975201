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
	"os"
	"testing"
)

func TestSubstituteEnvVars(t *testing.T) {
	os.Setenv("SPDM_TEST_VAR", "hello")
	defer os.Unsetenv("SPDM_TEST_VAR")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "no vars here", "no vars here"},
		{"set var", "${SPDM_TEST_VAR}", "hello"},
		{"unset with default", "${SPDM_MISSING:fallback}", "fallback"},
		{"unset without default", "${SPDM_MISSING}", ""},
		{"embedded", "prefix-${SPDM_TEST_VAR}-suffix", "prefix-hello-suffix"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SubstituteEnvVars(tt.input); got != tt.want {
				t.Errorf("SubstituteEnvVars(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSubstituteEnvVarsInConfig(t *testing.T) {
	os.Setenv("SPDM_TEST_BACKEND", "null")
	defer os.Unsetenv("SPDM_TEST_BACKEND")

	cfg := &Config{
		Primitive: PrimitiveConfig{Backend: "${SPDM_TEST_BACKEND}"},
		Logging:   &LoggingConfig{Level: "${SPDM_MISSING:info}"},
	}
	SubstituteEnvVarsInConfig(cfg)

	if cfg.Primitive.Backend != "null" {
		t.Errorf("Primitive.Backend = %q, want %q", cfg.Primitive.Backend, "null")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
}

func TestSubstituteEnvVarsInConfigNil(t *testing.T) {
	SubstituteEnvVarsInConfig(nil) // must not panic
}

func TestGetEnvironment(t *testing.T) {
	os.Unsetenv("SPDM_ENV")
	os.Unsetenv("ENVIRONMENT")

	if got := GetEnvironment(); got != "development" {
		t.Errorf("GetEnvironment() = %q, want %q", got, "development")
	}

	os.Setenv("SPDM_ENV", "Production")
	defer os.Unsetenv("SPDM_ENV")
	if got := GetEnvironment(); got != "production" {
		t.Errorf("GetEnvironment() = %q, want %q", got, "production")
	}
}

func TestIsProductionIsDevelopment(t *testing.T) {
	os.Setenv("SPDM_ENV", "production")
	defer os.Unsetenv("SPDM_ENV")

	if !IsProduction() {
		t.Error("expected IsProduction() to be true")
	}
	if IsDevelopment() {
		t.Error("expected IsDevelopment() to be false")
	}
}
