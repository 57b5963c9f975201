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

package spdmctx

import (
	"github.com/sage-x-project/spdm/primitive"
	"github.com/sage-x-project/spdm/session"
	"github.com/sage-x-project/spdm/spdmerr"
	"github.com/sage-x-project/spdm/transcript"
)

// Context aggregates everything one logical SPDM endpoint owns: local
// capabilities, negotiated connection state, the shared transcript, the
// session table, and the last-error descriptor (spec.md §3). It holds no
// transport or endpoint hooks directly — those are supplied per-call by
// the transport package, the same explicit-parameter style session.Manager
// uses instead of a back-pointer.
type Context struct {
	backend primitive.Backend
	role    Role

	conn      *transcript.Transcript
	sessions  *session.Manager
	connAlg   primitive.HashAlg
	connMode  transcript.Mode

	// LOCAL-scope property storage.
	localCapabilityFlags uint32
	responseState        ResponseState
	pskHint              []byte
	errorReturnPolicy    byte
	appData              []byte
	localCertChains      [maxCertChainSlots][]byte

	// CONNECTION-scope property storage, fixed once NEGOTIATED until reset.
	connCapabilityFlags uint32
	version             byte
	baseHashAlg         byte
	baseAsymAlg         byte
	dheGroup            byte
	aeadSuite           byte
	reqAsymAlg          byte
	measurementHashAlg  byte
	measurementSpec     byte
	keyScheduleSelector byte
	otherParams         byte
	connState           ConnState
	peerCertChainHash   []byte

	// Per-session property storage, keyed by session_id.
	sessionProps map[uint32]*sessionProperties

	lastErr spdmerr.LastError
}

const maxCertChainSlots = 8

type sessionProperties struct {
	heartbeatPeriod byte
	attributes      []byte
}

// New constructs an empty Context in NOT_STARTED state. alg and mode
// configure the connection-scope transcript (spec.md §4.2); the per-session
// transcript is created separately, by the caller, once a session_id is
// allocated.
func New(backend primitive.Backend, role Role, alg primitive.HashAlg, mode transcript.Mode) (*Context, error) {
	conn, err := transcript.New(backend, alg, mode, false)
	if err != nil {
		return nil, spdmerr.New("spdmctx.New", spdmerr.Unsupported, err)
	}
	return &Context{
		backend:      backend,
		role:         role,
		conn:         conn,
		sessions:     session.NewManager(),
		connAlg:      alg,
		connMode:     mode,
		connState:    NotStarted,
		sessionProps: make(map[uint32]*sessionProperties),
		lastErr:      spdmerr.LastError{SessionID: spdmerr.InvalidSessionID},
	}, nil
}

// Role returns the role fixed at construction.
func (c *Context) Role() Role { return c.role }

// Transcript returns the connection-scope transcript manager.
func (c *Context) Transcript() *transcript.Transcript { return c.conn }

// Sessions returns the session table.
func (c *Context) Sessions() *session.Manager { return c.sessions }

// ConnState returns the current connection-state machine value.
func (c *Context) ConnState() ConnState { return c.connState }

// AdvanceConnState moves the connection-state machine forward. The state
// machine itself is strictly monotonic except across Reset; callers outside
// this package drive transitions as they process each SPDM exchange.
func (c *Context) AdvanceConnState(next ConnState) {
	c.connState = next
}

// BeginCall clears the last-error descriptor, matching spec.md §7's "last
// error is cleared at the start of each top-level API call."
func (c *Context) BeginCall() {
	c.lastErr = spdmerr.LastError{SessionID: spdmerr.InvalidSessionID}
}

// RecordError sets the last-error descriptor from err. Calling this twice
// within one call path is well-defined: only the last write survives
// (spec.md §7's INVALID_SESSION vs DECRYPT_ERROR ordering note).
func (c *Context) RecordError(err error) {
	c.lastErr = spdmerr.FromError(err)
}

// LastError returns the current last-error descriptor.
func (c *Context) LastError() spdmerr.LastError { return c.lastErr }

// Reset returns the Context to NOT_STARTED: connection state resets, every
// session slot is freed and zeroized, and all negotiated (CONNECTION-scope)
// properties are cleared. LOCAL-scope configuration (capability flags, PSK
// hint, cert chain slots) is not derived state and survives, matching
// spec.md §3's "after reset, connection state is NOT_STARTED and all
// derived key material is zeroized."
func (c *Context) Reset() error {
	c.sessions.Reset()
	c.sessionProps = make(map[uint32]*sessionProperties)
	c.connState = NotStarted
	c.connCapabilityFlags = 0
	c.version = 0
	c.baseHashAlg = 0
	c.baseAsymAlg = 0
	c.dheGroup = 0
	c.aeadSuite = 0
	c.reqAsymAlg = 0
	c.measurementHashAlg = 0
	c.measurementSpec = 0
	c.keyScheduleSelector = 0
	c.otherParams = 0
	c.peerCertChainHash = nil
	c.responseState = Normal

	conn, err := transcript.New(c.backend, c.connAlg, c.connMode, false)
	if err != nil {
		return spdmerr.New("spdmctx.Reset", spdmerr.Unsupported, err)
	}
	c.conn = conn
	c.BeginCall()
	return nil
}
