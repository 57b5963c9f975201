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

package session

import (
	"testing"

	"github.com/sage-x-project/spdm/primitive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEstablishedInfo(t *testing.T, b primitive.Backend) *Info {
	t.Helper()
	hs, err := DeriveHandshakeSecret(b, primitive.HashSHA384, []byte("ikm"))
	require.NoError(t, err)
	ms, err := DeriveMasterSecret(b, primitive.HashSHA384, primitive.AEADChaCha20Poly1305, hs, []byte("TH@FINISH"))
	require.NoError(t, err)

	info := &Info{
		SessionID: 42,
		State:     Established,
		HashAlg:   primitive.HashSHA384,
		AEADAlg:   primitive.AEADChaCha20Poly1305,
	}
	info.ActivateDataKeys(ms)
	return info
}

// TestKeyUpdate_SuccessfulCycle covers spec.md §8 invariant 6: a successful
// KEY_UPDATE changes req/rsp enc keys and resets both seq counters to 0.
func TestKeyUpdate_SuccessfulCycle(t *testing.T) {
	b := primitive.NewNullBackend()
	info := newEstablishedInfo(t, b)
	info.ActiveReq.Seq = 17
	info.ActiveRsp.Seq = 9

	oldReqKey := append([]byte(nil), info.ActiveReq.EncKey...)
	oldRspKey := append([]byte(nil), info.ActiveRsp.EncKey...)

	require.NoError(t, CreateUpdate(b, info, Requester))
	require.NoError(t, CreateUpdate(b, info, Responder))

	require.NoError(t, Activate(b, info, Requester, true))
	require.NoError(t, Activate(b, info, Responder, true))

	assert.NotEqual(t, oldReqKey, info.ActiveReq.EncKey)
	assert.NotEqual(t, oldRspKey, info.ActiveRsp.EncKey)
	assert.Equal(t, uint64(0), info.ActiveReq.Seq)
	assert.Equal(t, uint64(0), info.ActiveRsp.Seq)
	assert.True(t, info.ReqBackupValid)
	assert.True(t, info.RspBackupValid)
	assert.Equal(t, oldReqKey, info.BackupReq.EncKey)
}

// TestKeyUpdate_RaceRecovery is the literal scenario from spec.md §8
// scenario 5: requester rotates, receives a record still under the OLD
// keys, and the reconciliation dance restores active=old, shadow=new.
func TestKeyUpdate_RaceRecovery(t *testing.T) {
	b := primitive.NewNullBackend()
	info := newEstablishedInfo(t, b)

	oldKey := append([]byte(nil), info.ActiveReq.EncKey...)
	require.NoError(t, CreateUpdate(b, info, Requester))
	shadowKey := append([]byte(nil), info.ShadowReq.EncKey...)

	// decode under active (new, not yet confirmed by peer) fails; caller
	// retries with whichever key decrypted a record encrypted under the
	// OLD epoch — simulated here directly as the reconciliation call.
	require.NoError(t, ReconcileAfterShadowRetry(b, info, Requester))

	assert.Equal(t, oldKey, info.ActiveReq.EncKey, "active must be restored to the old epoch")
	assert.NotEqual(t, shadowKey, info.ShadowReq.EncKey, "a fresh shadow must be staged")
	assert.False(t, info.ReqBackupValid, "backup was consumed by the promotion")
}

func TestKeyUpdate_ActivateWithoutPendingFails(t *testing.T) {
	b := primitive.NewNullBackend()
	info := newEstablishedInfo(t, b)
	err := Activate(b, info, Requester, true)
	require.Error(t, err)
}

func TestKeyUpdate_ActivateBackupWithoutValidFails(t *testing.T) {
	b := primitive.NewNullBackend()
	info := newEstablishedInfo(t, b)
	err := Activate(b, info, Requester, false)
	require.Error(t, err)
}
