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

// Package spdmctx implements the SPDM Context aggregate and its Data
// Accessor (spec.md §3, §4.5): local capabilities, negotiated connection
// state, the transcript, the session table, and a single typed get/set
// surface over property keys scoped to LOCAL, CONNECTION, or SESSION.
package spdmctx

// Role is fixed at construction: requester or responder.
type Role int

const (
	RequesterRole Role = iota
	ResponderRole
)

// ConnState is the connection-state machine (spec.md §3).
type ConnState int

const (
	NotStarted ConnState = iota
	AfterVersion
	AfterCapabilities
	Negotiated
	AfterDigests
	AfterCertificate
	Authenticated
	SessionEstablished
)

func (s ConnState) String() string {
	switch s {
	case NotStarted:
		return "NOT_STARTED"
	case AfterVersion:
		return "AFTER_VERSION"
	case AfterCapabilities:
		return "AFTER_CAPABILITIES"
	case Negotiated:
		return "NEGOTIATED"
	case AfterDigests:
		return "AFTER_DIGESTS"
	case AfterCertificate:
		return "AFTER_CERTIFICATE"
	case Authenticated:
		return "AUTHENTICATED"
	case SessionEstablished:
		return "SESSION_ESTABLISHED"
	default:
		return "UNKNOWN"
	}
}

// ResponseState is the response-state machine a responder Context tracks.
type ResponseState int

const (
	Normal ResponseState = iota
	Busy
	NotReady
	NeedResync
	ProcessingEncap
)

// Location is one of the three scopes a property may be read from or
// written to (spec.md §4.5).
type Location int

const (
	Local Location = iota
	Connection
	Session
)

func (l Location) String() string {
	switch l {
	case Local:
		return "LOCAL"
	case Connection:
		return "CONNECTION"
	case Session:
		return "SESSION"
	default:
		return "UNKNOWN"
	}
}

// PropertyKey names one typed property in the Data Accessor's surface.
type PropertyKey int

const (
	KeyCapabilityFlags PropertyKey = iota
	KeyVersion
	KeyBaseHashAlg
	KeyBaseAsymAlg
	KeyDHEGroup
	KeyAEADSuite
	KeyReqAsymAlg
	KeyMeasurementHashAlg
	KeyMeasurementSpec
	KeyKeyScheduleSelector
	KeyOtherParams
	KeyConnectionState
	KeyResponseState
	KeyPeerCertChainHash
	KeyLocalCertChainSlot
	KeyPSKHint
	KeyHeartbeatPeriod
	KeyPerSessionAttributes
	KeyAppData
	KeyErrorReturnPolicy
)

// reservedCapabilityMask marks the bits of CAPABILITY_FLAGS this build
// treats as reserved (undefined by the negotiated algorithm set); setting
// any of them is a declared-precondition failure (InvalidParameter), not
// the "unsupported capability bit" library-misuse case below.
const reservedCapabilityMask uint32 = 0xFFFF0000

// supportedCapabilityMask marks the bits this build implements. Setting a
// bit outside reservedCapabilityMask but also outside this mask is an
// assertion violation: the caller asked for a capability the library was
// not built with, which is a programming error, not a runtime condition.
const supportedCapabilityMask uint32 = 0x0000FFFF
