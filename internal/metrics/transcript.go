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
	// TranscriptAppends tracks messages appended to a transcript region.
	TranscriptAppends = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "transcript",
			Name:      "appends_total",
			Help:      "Total number of messages appended to a transcript region",
		},
		[]string{"region"}, // A, B, C, MutB, MutC, M, K, F
	)

	// TranscriptResets tracks explicit transcript region resets.
	TranscriptResets = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "transcript",
			Name:      "resets_total",
			Help:      "Total number of transcript region resets",
		},
		[]string{"region", "reason"}, // requester_reset, algorithm_renegotiation, session_close
	)

	// TranscriptDigestDuration tracks digest derivation latency (M1M2/L1L2/TH).
	TranscriptDigestDuration = promauto.With(Registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "transcript",
			Name:      "digest_duration_seconds",
			Help:      "Transcript digest derivation duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 2, 15),
		},
		[]string{"digest"}, // m1m2, l1l2, th
	)

	// TranscriptSize tracks retained-mode transcript buffer size at digest time.
	TranscriptSize = promauto.With(Registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "transcript",
			Name:      "size_bytes",
			Help:      "Size of a retained transcript region when digested",
			Buckets:   prometheus.ExponentialBuckets(64, 4, 12),
		},
		[]string{"region"},
	)
)
