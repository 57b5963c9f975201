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

// Package transport declares the two hook surfaces spec.md §6 leaves to the
// integrator: an Endpoint (raw send/recv against whatever physical channel
// carries bytes) and a Framer (transport-specific framing around an
// already-secured or still-plaintext SPDM message). Neither the Context
// nor the record layer depends on a concrete transport; they call through
// these interfaces, the same facade-over-concrete-implementation split
// primitive.Backend uses for cryptographic operations.
package transport

import (
	"context"
	"time"
)

// Endpoint is the integrator-provided raw channel (spec.md §6 "Endpoint
// hooks"). Send and Recv are the only calls in the whole core allowed to
// block; both take a timeout. On expiry Send reports spdmerr.Timeout, and
// Recv, having received nothing, reports spdmerr.NoResponse.
type Endpoint interface {
	Send(ctx context.Context, buf []byte, timeout time.Duration) error
	Recv(ctx context.Context, timeout time.Duration) ([]byte, error)
}

// Framer wraps a payload in transport-specific framing (spec.md §6
// "Transport hooks"). A frame either carries a secured record, in which
// case DecodeFrame reports the owning session_id, or an unsecured
// plaintext SPDM message.
type Framer interface {
	// EncodeFrame wraps msg. sessionID is non-nil when msg is already a
	// secured record produced by the record layer.
	EncodeFrame(sessionID *uint32, msg []byte) ([]byte, error)

	// DecodeFrame is EncodeFrame's inverse. The returned sessionID is
	// non-nil iff frame carries a secured record.
	DecodeFrame(frame []byte) (sessionID *uint32, msg []byte, err error)

	// SequenceNumberLength returns N, 0..8, the number of low-order bytes
	// of a 64-bit sequence counter this transport places on the wire
	// (spec.md §4.4's "get_sequence_number").
	SequenceNumberLength() int

	// MaxRandomNumberCount bounds the ENC_MAC padding this transport
	// tolerates; 0 means no padding.
	MaxRandomNumberCount() uint32
}
