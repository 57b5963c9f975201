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

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PrimitiveOperations tracks calls into the primitive facade.
	PrimitiveOperations = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "primitive",
			Name:      "operations_total",
			Help:      "Total number of primitive facade operations",
		},
		[]string{"operation", "algorithm"}, // hash/hmac/hkdf/sign/verify/encrypt/decrypt/dhe, sha256/ed25519/ecdsa-secp256k1/rsa-pss/chacha20poly1305/aes-256-gcm/x25519
	)

	// PrimitiveErrors tracks primitive facade failures.
	PrimitiveErrors = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "primitive",
			Name:      "errors_total",
			Help:      "Total number of primitive facade errors",
		},
		[]string{"operation", "kind"}, // spdmerr.Kind string
	)

	// PrimitiveOperationDuration tracks primitive facade call latency.
	PrimitiveOperationDuration = promauto.With(Registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "primitive",
			Name:      "operation_duration_seconds",
			Help:      "Primitive facade operation duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 2, 15), // 10µs to 163ms
		},
		[]string{"operation", "algorithm"},
	)
)
