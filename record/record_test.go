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

package record

import (
	"testing"

	"github.com/sage-x-project/spdm/primitive"
	"github.com/sage-x-project/spdm/session"
	"github.com/sage-x-project/spdm/spdmerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSessionID uint32 = 0xDEADBEEF

func newTestKeys(b primitive.Backend, alg primitive.AEADAlg) *session.DirectionalKeys {
	keys := &session.DirectionalKeys{
		EncKey: make([]byte, alg.KeySize()),
		IVSalt: make([]byte, 12),
	}
	for i := range keys.EncKey {
		keys.EncKey[i] = byte(i + 1)
	}
	for i := range keys.IVSalt {
		keys.IVSalt[i] = byte(0xA0 + i)
	}
	return keys
}

// TestRoundTrip_EncMac covers spec.md §8 scenario 3: an AEAD record
// round-trips through Encode/Decode under session_id 0xDEADBEEF.
func TestRoundTrip_EncMac(t *testing.T) {
	b := primitive.NewNullBackend()
	enc := newTestKeys(b, primitive.AEADChaCha20Poly1305)
	dec := *enc

	wire, err := Encode(b, primitive.AEADChaCha20Poly1305, testSessionID, enc, session.TypeEncMac, []byte("hello spdm"), nil, 2)
	require.NoError(t, err)

	payload, err := Decode(b, primitive.AEADChaCha20Poly1305, testSessionID, &dec, session.TypeEncMac, wire, 2)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello spdm"), payload)
	assert.Equal(t, uint64(1), enc.Seq)
	assert.Equal(t, uint64(1), dec.Seq)
}

func TestRoundTrip_MacOnly(t *testing.T) {
	b := primitive.NewNullBackend()
	enc := newTestKeys(b, primitive.AEADChaCha20Poly1305)
	dec := *enc

	wire, err := Encode(b, primitive.AEADChaCha20Poly1305, testSessionID, enc, session.TypeMacOnly, []byte("app data"), nil, 2)
	require.NoError(t, err)

	payload, err := Decode(b, primitive.AEADChaCha20Poly1305, testSessionID, &dec, session.TypeMacOnly, wire, 2)
	require.NoError(t, err)
	assert.Equal(t, []byte("app data"), payload)
}

// TestReplayRejected covers spec.md §8 scenario 4: replaying an
// already-consumed record fails because its sequence bytes no longer
// match the receiver's expected next sequence.
func TestReplayRejected(t *testing.T) {
	b := primitive.NewNullBackend()
	enc := newTestKeys(b, primitive.AEADChaCha20Poly1305)
	dec := *enc

	wire, err := Encode(b, primitive.AEADChaCha20Poly1305, testSessionID, enc, session.TypeEncMac, []byte("first"), nil, 2)
	require.NoError(t, err)
	_, err = Decode(b, primitive.AEADChaCha20Poly1305, testSessionID, &dec, session.TypeEncMac, wire, 2)
	require.NoError(t, err)

	// Replay the same wire bytes; receiver now expects seq=1, wire says 0.
	_, err = Decode(b, primitive.AEADChaCha20Poly1305, testSessionID, &dec, session.TypeEncMac, wire, 2)
	require.Error(t, err)
	assert.Equal(t, spdmerr.SecurityViolation, spdmerr.KindOf(err))
}

func TestDecode_WrongSessionIDRejected(t *testing.T) {
	b := primitive.NewNullBackend()
	enc := newTestKeys(b, primitive.AEADChaCha20Poly1305)
	dec := *enc

	wire, err := Encode(b, primitive.AEADChaCha20Poly1305, testSessionID, enc, session.TypeEncMac, []byte("hi"), nil, 2)
	require.NoError(t, err)

	_, err = Decode(b, primitive.AEADChaCha20Poly1305, testSessionID+1, &dec, session.TypeEncMac, wire, 2)
	require.Error(t, err)
	assert.Equal(t, spdmerr.SecurityViolation, spdmerr.KindOf(err))
}

// TestSeqExhaustion covers spec.md §8 scenario 6: once a direction's
// sequence counter is exhausted, encode fails with OutOfResources and
// decode fails with SecurityViolation rather than silently wrapping.
func TestSeqExhaustion(t *testing.T) {
	b := primitive.NewNullBackend()
	enc := newTestKeys(b, primitive.AEADChaCha20Poly1305)
	enc.Seq = session.ExhaustedSeq

	_, err := Encode(b, primitive.AEADChaCha20Poly1305, testSessionID, enc, session.TypeEncMac, []byte("x"), nil, 2)
	require.Error(t, err)
	assert.Equal(t, spdmerr.OutOfResources, spdmerr.KindOf(err))

	dec := newTestKeys(b, primitive.AEADChaCha20Poly1305)
	dec.Seq = session.ExhaustedSeq
	_, err = Decode(b, primitive.AEADChaCha20Poly1305, testSessionID, dec, session.TypeEncMac, []byte{0, 0, 0, 0, 0, 0, 0, 0}, 2)
	require.Error(t, err)
	assert.Equal(t, spdmerr.SecurityViolation, spdmerr.KindOf(err))
}

// TestDecodeSession_ShadowRetry covers spec.md §8 scenario 5: a record
// encrypted under the requester's old epoch still decodes correctly
// after the requester has locally rotated via KEY_UPDATE, because the
// old epoch is staged as the backup and DecodeSession retries it.
func TestDecodeSession_ShadowRetry(t *testing.T) {
	b := primitive.NewNullBackend()
	info := &session.Info{
		SessionID: testSessionID,
		State:     session.Established,
		Type:      session.TypeEncMac,
		HashAlg:   primitive.HashSHA384,
		AEADAlg:   primitive.AEADChaCha20Poly1305,
	}
	hs, err := session.DeriveHandshakeSecret(b, info.HashAlg, []byte("ikm"))
	require.NoError(t, err)
	ms, err := session.DeriveMasterSecret(b, info.HashAlg, info.AEADAlg, hs, []byte("TH"))
	require.NoError(t, err)
	info.ActivateDataKeys(ms)

	// Peer encrypts under the pre-rotation ("old") epoch, matching the
	// local side's current active keys at encode time.
	oldKeysForPeer := info.ActiveRsp
	wire, err := Encode(b, info.AEADAlg, testSessionID, &oldKeysForPeer, info.Type, []byte("old-epoch record"), nil, 2)
	require.NoError(t, err)

	// Local side rotates before the above record is processed.
	require.NoError(t, session.CreateUpdate(b, info, session.Responder))
	require.NoError(t, session.Activate(b, info, session.Responder, true))
	require.True(t, info.RspBackupValid)

	payload, err := DecodeSession(b, testSessionID, info, session.Responder, wire, 2)
	require.NoError(t, err)
	assert.Equal(t, []byte("old-epoch record"), payload)
	assert.False(t, info.RspBackupValid, "backup consumed and a fresh shadow staged")
}
