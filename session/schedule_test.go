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

func TestDeriveHandshakeSecret_Deterministic(t *testing.T) {
	b := primitive.NewNullBackend()
	ikm := []byte("dhe shared secret")

	s1, err := DeriveHandshakeSecret(b, primitive.HashSHA384, ikm)
	require.NoError(t, err)
	s2, err := DeriveHandshakeSecret(b, primitive.HashSHA384, ikm)
	require.NoError(t, err)
	assert.Equal(t, s1, s2)
}

func TestDeriveHandshakeKeys_DirectionsDiffer(t *testing.T) {
	b := primitive.NewNullBackend()
	hs, err := DeriveHandshakeSecret(b, primitive.HashSHA384, []byte("ikm"))
	require.NoError(t, err)

	th := []byte("TH@KE_RSP")
	keys, err := DeriveHandshakeKeys(b, primitive.HashSHA384, primitive.AEADChaCha20Poly1305, hs, th)
	require.NoError(t, err)

	assert.NotEqual(t, keys.Req.EncKey, keys.Rsp.EncKey, "requester and responder keys must differ")
	assert.Len(t, keys.Req.EncKey, primitive.AEADChaCha20Poly1305.KeySize())
	assert.Equal(t, uint64(0), keys.Req.Seq)
}

func TestDeriveMasterSecret_BoundToTH(t *testing.T) {
	b := primitive.NewNullBackend()
	hs, err := DeriveHandshakeSecret(b, primitive.HashSHA384, []byte("ikm"))
	require.NoError(t, err)

	ms1, err := DeriveMasterSecret(b, primitive.HashSHA384, primitive.AEADChaCha20Poly1305, hs, []byte("TH@FINISH-1"))
	require.NoError(t, err)
	ms2, err := DeriveMasterSecret(b, primitive.HashSHA384, primitive.AEADChaCha20Poly1305, hs, []byte("TH@FINISH-2"))
	require.NoError(t, err)

	assert.NotEqual(t, ms1.ReqDataSecret, ms2.ReqDataSecret, "distinct TH must yield distinct data secrets")
}

func TestDeriveUpdatedSecret_ChangesKeyMaterial(t *testing.T) {
	b := primitive.NewNullBackend()
	hs, err := DeriveHandshakeSecret(b, primitive.HashSHA384, []byte("ikm"))
	require.NoError(t, err)
	ms, err := DeriveMasterSecret(b, primitive.HashSHA384, primitive.AEADChaCha20Poly1305, hs, []byte("TH@FINISH"))
	require.NoError(t, err)

	updated, err := DeriveUpdatedSecret(b, primitive.HashSHA384, ms.ReqDataSecret)
	require.NoError(t, err)
	assert.NotEqual(t, ms.ReqDataSecret, updated)
}
