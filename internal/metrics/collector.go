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
	"sync"
	"time"
)

// Collector keeps a rolling, in-memory summary of SPDM core activity for
// human-facing reporting (the summary line cmd/spdmctl's handshake
// subcommand prints), independent of
// Prometheus scraping. It trades precision for a cheap, dependency-free
// percentile estimate a CLI can print without standing up an HTTP server.
type Collector struct {
	mu sync.RWMutex

	PrimitiveOps      int64
	HandshakesStarted int64
	HandshakesOK      int64
	HandshakesFailed  int64
	RecordsEncoded    int64
	RecordsDecoded    int64
	ReplayRejected    int64
	KeyUpdates        int64
	KeyUpdateFailed   int64

	handshakeTimes []int64 // microseconds
	recordTimes    []int64 // microseconds

	startTime time.Time

	maxSamples int
}

// NewCollector creates a Collector retaining the last 1000 timing samples
// per tracked operation.
func NewCollector() *Collector {
	return &Collector{startTime: time.Now(), maxSamples: 1000}
}

// RecordPrimitiveOp records one primitive facade call.
func (c *Collector) RecordPrimitiveOp() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.PrimitiveOps++
}

// RecordHandshake records a completed handshake attempt.
func (c *Collector) RecordHandshake(success bool, d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.HandshakesStarted++
	if success {
		c.HandshakesOK++
	} else {
		c.HandshakesFailed++
	}
	c.recordTiming(&c.handshakeTimes, d)
}

// RecordRecord records one AEAD record encode or decode.
func (c *Collector) RecordRecord(encode bool, replayRejected bool, d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if encode {
		c.RecordsEncoded++
	} else {
		c.RecordsDecoded++
	}
	if replayRejected {
		c.ReplayRejected++
	}
	c.recordTiming(&c.recordTimes, d)
}

// RecordKeyUpdate records one KEY_UPDATE cycle.
func (c *Collector) RecordKeyUpdate(success bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.KeyUpdates++
	if !success {
		c.KeyUpdateFailed++
	}
}

func (c *Collector) recordTiming(timings *[]int64, d time.Duration) {
	*timings = append(*timings, d.Microseconds())
	if len(*timings) > c.maxSamples {
		*timings = (*timings)[len(*timings)-c.maxSamples:]
	}
}

// Snapshot is a point-in-time summary returned by Collector.Snapshot.
type Snapshot struct {
	Timestamp time.Time
	Uptime    time.Duration

	PrimitiveOps      int64
	HandshakesStarted int64
	HandshakesOK      int64
	HandshakesFailed  int64
	RecordsEncoded    int64
	RecordsDecoded    int64
	ReplayRejected    int64
	KeyUpdates        int64
	KeyUpdateFailed   int64

	AvgHandshakeMicros int64
	P95HandshakeMicros int64
	AvgRecordMicros    int64
	P95RecordMicros    int64
}

// Snapshot returns a copy of the collector's current counters and derived
// timing statistics.
func (c *Collector) Snapshot() *Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return &Snapshot{
		Timestamp:          time.Now(),
		Uptime:             time.Since(c.startTime),
		PrimitiveOps:       c.PrimitiveOps,
		HandshakesStarted:  c.HandshakesStarted,
		HandshakesOK:       c.HandshakesOK,
		HandshakesFailed:   c.HandshakesFailed,
		RecordsEncoded:     c.RecordsEncoded,
		RecordsDecoded:     c.RecordsDecoded,
		ReplayRejected:     c.ReplayRejected,
		KeyUpdates:         c.KeyUpdates,
		KeyUpdateFailed:    c.KeyUpdateFailed,
		AvgHandshakeMicros: average(c.handshakeTimes),
		P95HandshakeMicros: percentile(c.handshakeTimes, 95),
		AvgRecordMicros:    average(c.recordTimes),
		P95RecordMicros:    percentile(c.recordTimes, 95),
	}
}

// Reset zeroes all counters and timing samples.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.PrimitiveOps = 0
	c.HandshakesStarted = 0
	c.HandshakesOK = 0
	c.HandshakesFailed = 0
	c.RecordsEncoded = 0
	c.RecordsDecoded = 0
	c.ReplayRejected = 0
	c.KeyUpdates = 0
	c.KeyUpdateFailed = 0
	c.handshakeTimes = nil
	c.recordTimes = nil
	c.startTime = time.Now()
}

// HandshakeSuccessRate returns the completed-handshake success rate, 0-100.
func (s *Snapshot) HandshakeSuccessRate() float64 {
	if s.HandshakesStarted == 0 {
		return 0
	}
	return float64(s.HandshakesOK) / float64(s.HandshakesStarted) * 100
}

func average(values []int64) int64 {
	if len(values) == 0 {
		return 0
	}
	var sum int64
	for _, v := range values {
		sum += v
	}
	return sum / int64(len(values))
}

func percentile(values []int64, p int) int64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]int64, len(values))
	copy(sorted, values)
	for i := 0; i < len(sorted)-1; i++ {
		for j := 0; j < len(sorted)-i-1; j++ {
			if sorted[j] > sorted[j+1] {
				sorted[j], sorted[j+1] = sorted[j+1], sorted[j]
			}
		}
	}
	idx := len(sorted) * p / 100
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
