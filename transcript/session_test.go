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

func newSeededSession(t *testing.T, b primitive.Backend, mode Mode) (*Transcript, *Session) {
	t.Helper()
	conn, err := New(b, primitive.HashSHA256, mode, true)
	require.NoError(t, err)
	require.NoError(t, conn.Append(A, []byte("VCA-bytes")))

	sess, err := NewSession(b, primitive.HashSHA256, mode)
	require.NoError(t, err)
	require.NoError(t, sess.Start(conn, []byte("cert-chain-hash")))
	return conn, sess
}

// TestSessionTranscript_RetainedAndStreamingAgree covers invariant 4 at
// session scope: TH must match across materializations given the same
// sequence of K/F appends and the same finished-key activation point.
func TestSessionTranscript_RetainedAndStreamingAgree(t *testing.T) {
	b := primitive.NewNativeBackend()
	_, retained := newSeededSession(t, b, Retained)
	_, streaming := newSeededSession(t, b, Streaming)

	require.NoError(t, retained.AppendK([]byte("KEY_EXCHANGE")))
	require.NoError(t, streaming.AppendK([]byte("KEY_EXCHANGE")))
	require.NoError(t, retained.AppendK([]byte("KEY_EXCHANGE_RSP")))
	require.NoError(t, streaming.AppendK([]byte("KEY_EXCHANGE_RSP")))

	require.NoError(t, retained.MarkFinishedKeyReady([]byte("req-fin"), []byte("rsp-fin")))
	require.NoError(t, streaming.MarkFinishedKeyReady([]byte("req-fin"), []byte("rsp-fin")))

	require.NoError(t, retained.AppendK([]byte("FINISH")))
	require.NoError(t, streaming.AppendK([]byte("FINISH")))

	thR, err := retained.Digest()
	require.NoError(t, err)
	thS, err := streaming.Digest()
	require.NoError(t, err)
	require.Equal(t, thR, thS)

	hmacR, err := retained.FinishedHMAC(Requester)
	require.NoError(t, err)
	hmacS, err := streaming.FinishedHMAC(Requester)
	require.NoError(t, err)
	require.Equal(t, hmacR, hmacS)
}

// TestSessionTranscript_FinishedHMACPrefixMatchesTH verifies the
// bidirectional FINISH invariant: by the time FINISH is verified, TH and
// both finished-key HMACs have consumed the identical byte prefix,
// regardless of when MarkFinishedKeyReady fired relative to FINISH.
func TestSessionTranscript_FinishedHMACPrefixMatchesTH(t *testing.T) {
	for _, mode := range []Mode{Retained, Streaming} {
		b := primitive.NewNullBackend()
		_, sess := newSeededSession(t, b, mode)

		require.NoError(t, sess.AppendK([]byte("KEY_EXCHANGE")))
		require.NoError(t, sess.MarkFinishedKeyReady([]byte("req-fin"), []byte("rsp-fin")))
		require.NoError(t, sess.AppendK([]byte("KEY_EXCHANGE_RSP")))
		require.NoError(t, sess.AppendK([]byte("FINISH")))

		th, err := sess.Digest()
		require.NoError(t, err)
		reqHMAC, err := sess.FinishedHMAC(Requester)
		require.NoError(t, err)
		rspHMAC, err := sess.FinishedHMAC(Responder)
		require.NoError(t, err)

		require.NotEmpty(t, th, "mode=%v", mode)
		require.NotEqual(t, reqHMAC, rspHMAC, "req/rsp finished keys differ, so must their HMACs; mode=%v", mode)
	}
}

// TestSessionTranscript_ResetFRollsBackToPostK covers the F
// backup/rollback pair: after ResetF, TH matches what it was
// immediately after K, as if F had never been touched.
func TestSessionTranscript_ResetFRollsBackToPostK(t *testing.T) {
	for _, mode := range []Mode{Retained, Streaming} {
		b := primitive.NewNullBackend()
		_, sess := newSeededSession(t, b, mode)

		require.NoError(t, sess.AppendK([]byte("KEY_EXCHANGE")))
		require.NoError(t, sess.MarkFinishedKeyReady([]byte("req-fin"), []byte("rsp-fin")))
		require.NoError(t, sess.AppendK([]byte("FINISH")))

		thAfterK, err := sess.Digest()
		require.NoError(t, err)

		require.NoError(t, sess.AppendF([]byte("app-bound-data"), nil))
		thWithF, err := sess.Digest()
		require.NoError(t, err)
		require.NotEqual(t, thAfterK, thWithF, "mode=%v", mode)

		require.NoError(t, sess.ResetF())
		thAfterReset, err := sess.Digest()
		require.NoError(t, err)
		require.Equal(t, thAfterK, thAfterReset, "mode=%v", mode)
	}
}
