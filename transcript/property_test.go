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

package transcript

import (
	"testing"

	"github.com/sage-x-project/spdm/primitive"
	"github.com/stretchr/testify/require"
)

// TestRetainedAndStreamingAgree_M1M2 covers spec.md §8 invariant 4:
// retained and streaming modes must produce identical digests given the
// identical sequence of appends.
func TestRetainedAndStreamingAgree_M1M2(t *testing.T) {
	b := primitive.NewNativeBackend()

	retained, err := New(b, primitive.HashSHA384, Retained, true)
	require.NoError(t, err)
	streaming, err := New(b, primitive.HashSHA384, Streaming, true)
	require.NoError(t, err)

	appends := []struct {
		region Region
		data   []byte
	}{
		{A, []byte("GET_VERSION")},
		{A, []byte("VERSION")},
		{A, []byte("GET_CAPABILITIES")},
		{A, []byte("CAPABILITIES")},
		{A, []byte("NEGOTIATE_ALGORITHMS")},
		{A, []byte("ALGORITHMS")},
		{B, []byte("GET_DIGESTS")},
		{B, []byte("DIGESTS")},
		{B, []byte("GET_CERTIFICATE")},
		{B, []byte("CERTIFICATE")},
		{C, []byte("CHALLENGE")},
		{C, []byte("CHALLENGE_AUTH")},
	}
	for _, a := range appends {
		require.NoError(t, retained.Append(a.region, a.data))
		require.NoError(t, streaming.Append(a.region, a.data))
	}

	dr, err := retained.Digest(SelectorM1M2)
	require.NoError(t, err)
	ds, err := streaming.Digest(SelectorM1M2)
	require.NoError(t, err)
	require.Equal(t, dr, ds)
}

// TestRetainedAndStreamingAgree_L1L2 mirrors the above for the
// measurement digest, which additionally depends on mIncludesA.
func TestRetainedAndStreamingAgree_L1L2(t *testing.T) {
	b := primitive.NewNativeBackend()

	retained, err := New(b, primitive.HashSHA384, Retained, true)
	require.NoError(t, err)
	streaming, err := New(b, primitive.HashSHA384, Streaming, true)
	require.NoError(t, err)

	require.NoError(t, retained.Append(A, []byte("VCA-bytes")))
	require.NoError(t, streaming.Append(A, []byte("VCA-bytes")))
	require.NoError(t, retained.Append(M, []byte("GET_MEASUREMENTS")))
	require.NoError(t, streaming.Append(M, []byte("GET_MEASUREMENTS")))
	require.NoError(t, retained.Append(M, []byte("MEASUREMENTS")))
	require.NoError(t, streaming.Append(M, []byte("MEASUREMENTS")))

	dr, err := retained.Digest(SelectorL1L2)
	require.NoError(t, err)
	ds, err := streaming.Digest(SelectorL1L2)
	require.NoError(t, err)
	require.Equal(t, dr, ds)
}

// TestDigestDoesNotConsume verifies digest() can be called repeatedly,
// interleaved with further appends, without losing already-absorbed
// bytes (the "duplicate, don't finalize the original" requirement).
func TestDigestDoesNotConsume(t *testing.T) {
	b := primitive.NewNullBackend()
	for _, mode := range []Mode{Retained, Streaming} {
		tr, err := New(b, primitive.HashSHA256, mode, false)
		require.NoError(t, err)

		require.NoError(t, tr.Append(A, []byte("part1")))
		require.NoError(t, tr.Append(B, []byte("part2")))
		require.NoError(t, tr.Append(C, []byte("part3")))
		first, err := tr.Digest(SelectorM1M2)
		require.NoError(t, err)

		require.NoError(t, tr.Append(C, []byte("part4")))
		second, err := tr.Digest(SelectorM1M2)
		require.NoError(t, err)

		require.NotEqual(t, first, second, "mode=%v", mode)
	}
}
