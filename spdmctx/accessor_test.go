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
	"encoding/binary"
	"testing"

	"github.com/sage-x-project/spdm/primitive"
	"github.com/sage-x-project/spdm/spdmerr"
	"github.com/sage-x-project/spdm/transcript"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T) *Context {
	t.Helper()
	c, err := New(primitive.NewNullBackend(), RequesterRole, primitive.HashSHA384, transcript.Streaming)
	require.NoError(t, err)
	return c
}

// TestCapabilityRoundTrip covers spec.md §8 scenario 1: setting
// CAPABILITY_FLAGS at LOCAL to 0x0000_F6B2 round-trips, and does not
// mutate the CONNECTION-scope flags.
func TestCapabilityRoundTrip(t *testing.T) {
	c := newTestContext(t)
	want := make([]byte, 4)
	binary.LittleEndian.PutUint32(want, 0x0000F6B2)

	require.NoError(t, c.SetProperty(Local, KeyCapabilityFlags, 0, 0, want))

	got, err := c.GetProperty(Local, KeyCapabilityFlags, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	connFlags, err := c.GetProperty(Connection, KeyCapabilityFlags, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 0}, connFlags)
}

func TestCapabilityFlags_ReservedBitsRejected(t *testing.T) {
	c := newTestContext(t)
	bad := make([]byte, 4)
	binary.LittleEndian.PutUint32(bad, 0xFFFF0001)
	err := c.SetProperty(Local, KeyCapabilityFlags, 0, 0, bad)
	require.Error(t, err)
	assert.Equal(t, spdmerr.InvalidParameter, spdmerr.KindOf(err))
}

func TestCapabilityFlags_WrongLengthRejected(t *testing.T) {
	c := newTestContext(t)
	err := c.SetProperty(Local, KeyCapabilityFlags, 0, 0, []byte{1, 2, 3})
	require.Error(t, err)
	assert.Equal(t, spdmerr.InvalidParameter, spdmerr.KindOf(err))
}

func TestCapabilityFlags_WrongLocationRejected(t *testing.T) {
	c := newTestContext(t)
	_, err := c.GetProperty(Session, KeyCapabilityFlags, 0, 0)
	require.Error(t, err)
	assert.Equal(t, spdmerr.InvalidParameter, spdmerr.KindOf(err))
}

func TestHeartbeatPeriod_RequiresLiveSession(t *testing.T) {
	c := newTestContext(t)
	err := c.SetProperty(Session, KeyHeartbeatPeriod, 0xAAAA, 0, []byte{30})
	require.Error(t, err)
	assert.Equal(t, spdmerr.InvalidParameter, spdmerr.KindOf(err))

	_, allocErr := c.Sessions().Allocate(0xAAAA)
	require.NoError(t, allocErr)
	require.NoError(t, c.SetProperty(Session, KeyHeartbeatPeriod, 0xAAAA, 0, []byte{30}))
	got, err := c.GetProperty(Session, KeyHeartbeatPeriod, 0xAAAA, 0)
	require.NoError(t, err)
	assert.Equal(t, []byte{30}, got)
}

func TestLocalCertChainSlot_IndexBounds(t *testing.T) {
	c := newTestContext(t)
	require.NoError(t, c.SetProperty(Local, KeyLocalCertChainSlot, 0, 3, []byte("chain-bytes")))
	got, err := c.GetProperty(Local, KeyLocalCertChainSlot, 0, 3)
	require.NoError(t, err)
	assert.Equal(t, []byte("chain-bytes"), got)

	err = c.SetProperty(Local, KeyLocalCertChainSlot, 0, maxCertChainSlots, []byte("x"))
	require.Error(t, err)
	assert.Equal(t, spdmerr.InvalidParameter, spdmerr.KindOf(err))
}

// TestReset covers spec.md §8 invariant 5: after reset, connection state
// returns to NOT_STARTED and sessions are gone, but LOCAL configuration
// (capability flags) survives.
func TestReset(t *testing.T) {
	c := newTestContext(t)
	want := make([]byte, 4)
	binary.LittleEndian.PutUint32(want, 0x0000F6B2)
	require.NoError(t, c.SetProperty(Local, KeyCapabilityFlags, 0, 0, want))
	require.NoError(t, c.SetProperty(Connection, KeyConnectionState, 0, 0, []byte{byte(Negotiated)}))
	_, err := c.Sessions().Allocate(1)
	require.NoError(t, err)

	require.NoError(t, c.Reset())

	assert.Equal(t, NotStarted, c.ConnState())
	assert.Equal(t, 0, c.Sessions().Count())
	got, err := c.GetProperty(Local, KeyCapabilityFlags, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

// TestLastError_LastWriteWins covers spec.md §7's ordering note: two
// RecordError calls within one path leave only the second descriptor.
func TestLastError_LastWriteWins(t *testing.T) {
	c := newTestContext(t)
	c.BeginCall()
	c.RecordError(spdmerr.NewSession("op1", spdmerr.InvalidParameter, 7, nil))
	c.RecordError(spdmerr.NewSession("op2", spdmerr.SecurityViolation, 7, nil))
	last := c.LastError()
	assert.Equal(t, spdmerr.SecurityViolation, last.Kind)
	assert.Equal(t, uint32(7), last.SessionID)
}
