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

// Package transcript implements the SPDM transcript manager (spec.md
// §4.2): fixed regions A/B/C/MutB/MutC/M at connection scope and K/F at
// session scope, each materializable in either Retained (append-only
// byte buffer, recomputed digests) or Streaming (incremental hash
// context, lower memory) mode, producing the M1M2/L1L2/TH derived
// digests the rest of the protocol signs and MACs over.
package transcript

// Mode selects a region's materialization.
type Mode int

const (
	// Retained keeps the actual bytes, bounded by a declared maximum,
	// and recomputes digests from scratch on demand.
	Retained Mode = iota
	// Streaming keeps only an incremental hash context; bytes are not
	// recoverable and digest() duplicates the context to finalize
	// without consuming it.
	Streaming
)

// Region identifies one of the connection-scope transcript regions.
// K and F are session-scope and live in Session instead.
type Region int

const (
	A Region = iota
	B
	C
	MutB
	MutC
	M
)

func (r Region) String() string {
	switch r {
	case A:
		return "A"
	case B:
		return "B"
	case C:
		return "C"
	case MutB:
		return "MutB"
	case MutC:
		return "MutC"
	case M:
		return "M"
	default:
		return "unknown"
	}
}

// Selector names a connection-scope derived digest.
type Selector int

const (
	// SelectorM1M2 = H(A || B || C), signs CHALLENGE_AUTH.
	SelectorM1M2 Selector = iota
	// SelectorL1L2 = H(A_if_v1.2 || M), signs MEASUREMENTS.
	SelectorL1L2
)

// RequestCode identifies the SPDM request driving reset_by_request's
// transcript-reset policy (spec.md §4.2).
type RequestCode int

const (
	RequestOther RequestCode = iota
	RequestGetMeasurements
	RequestKeyExchange
	RequestFinish
	RequestPSKExchange
	RequestPSKFinish
	RequestKeyUpdate
	RequestHeartbeat
	RequestGetEncapsulatedRequest
	RequestEndSession
	RequestDeliverEncapsulatedResponse
)

// preAuthResetSet is rule 2's trigger set: issuing any of these before
// AUTHENTICATED means CHALLENGE was skipped, so B/C/MutB/MutC reset.
var preAuthResetSet = map[RequestCode]bool{
	RequestKeyExchange:            true,
	RequestGetMeasurements:        true,
	RequestFinish:                 true,
	RequestPSKExchange:            true,
	RequestPSKFinish:              true,
	RequestKeyUpdate:              true,
	RequestHeartbeat:              true,
	RequestGetEncapsulatedRequest: true,
	RequestEndSession:             true,
}
