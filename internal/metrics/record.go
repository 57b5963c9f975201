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
	// RecordsProcessed tracks AEAD record encode/decode calls.
	RecordsProcessed = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "records",
			Name:      "processed_total",
			Help:      "Total number of AEAD records processed",
		},
		[]string{"direction", "status"}, // encode/decode, success/failure
	)

	// ReplayRejections tracks records rejected for sequence-number replay.
	ReplayRejections = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "records",
			Name:      "replay_rejections_total",
			Help:      "Total number of records rejected for sequence number replay",
		},
	)

	// SequenceExhaustions tracks a direction's 64-bit counter hitting its ceiling.
	SequenceExhaustions = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "records",
			Name:      "sequence_exhaustions_total",
			Help:      "Total number of sequence number exhaustion events forcing KEY_UPDATE",
		},
	)

	// ShadowKeyRetries tracks decrypt attempts that fell back to the shadow key.
	ShadowKeyRetries = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "records",
			Name:      "shadow_key_retries_total",
			Help:      "Total number of decrypt attempts retried against the shadow key",
		},
		[]string{"status"}, // success, failure
	)

	// RecordProcessingDuration tracks encode/decode latency.
	RecordProcessingDuration = promauto.With(Registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "records",
			Name:      "processing_duration_seconds",
			Help:      "AEAD record processing duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12),
		},
		[]string{"direction"},
	)

	// RecordSize tracks plaintext payload sizes carried by records.
	RecordSize = promauto.With(Registry).NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "records",
			Name:      "size_bytes",
			Help:      "Plaintext payload size of records processed",
			Buckets:   prometheus.ExponentialBuckets(64, 4, 10),
		},
	)
)
