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

// Package metrics exposes Prometheus instrumentation for the SPDM core:
// primitive operations, transcript growth, session lifecycle, and the
// AEAD record layer. Every collector in this package is registered
// against Registry at package init via promauto, so importing any file
// here is enough to make its metrics visible on Handler().
package metrics

import "github.com/prometheus/client_golang/prometheus"

// namespace prefixes every metric name ("spdm_<subsystem>_<name>").
const namespace = "spdm"

// Registry is the process-wide Prometheus registry for the SPDM core.
// A dedicated registry (rather than prometheus.DefaultRegisterer) keeps
// a host application's own metrics from colliding with spdm_* names.
var Registry = prometheus.NewRegistry()
