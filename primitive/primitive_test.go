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

package primitive

import (
	"bytes"
	"testing"

	"github.com/sage-x-project/spdm/spdmerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNativeBackend_Hash(t *testing.T) {
	b := NewNativeBackend()
	cases := []struct {
		name string
		alg  HashAlg
		size int
	}{
		{"sha256", HashSHA256, 32},
		{"sha384", HashSHA384, 48},
		{"sha512", HashSHA512, 64},
		{"sha3_256", HashSHA3_256, 32},
		{"sha3_384", HashSHA3_384, 48},
		{"sha3_512", HashSHA3_512, 64},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			digest, err := b.Hash(c.alg, []byte("spdm transcript"))
			require.NoError(t, err)
			assert.Len(t, digest, c.size)

			digest2, err := b.Hash(c.alg, []byte("spdm transcript"))
			require.NoError(t, err)
			assert.True(t, bytes.Equal(digest, digest2), "hash must be deterministic")
		})
	}
}

func TestNativeBackend_Hash_Unsupported(t *testing.T) {
	b := NewNativeBackend()
	_, err := b.Hash(HashInvalid, []byte("x"))
	require.Error(t, err)
	assert.Equal(t, spdmerr.Unsupported, spdmerr.KindOf(err))
}

func TestNativeBackend_HMAC(t *testing.T) {
	b := NewNativeBackend()
	key := []byte("0123456789abcdef0123456789abcdef")
	mac1, err := b.HMAC(HashSHA384, key, []byte("record"))
	require.NoError(t, err)
	mac2, err := b.HMAC(HashSHA384, key, []byte("record"))
	require.NoError(t, err)
	assert.Equal(t, mac1, mac2)

	mac3, err := b.HMAC(HashSHA384, key, []byte("different record"))
	require.NoError(t, err)
	assert.NotEqual(t, mac1, mac3)
}

func TestNativeBackend_HKDFExtractExpandLabel(t *testing.T) {
	b := NewNativeBackend()
	salt := make([]byte, 48)
	ikm := []byte("shared secret material")

	prk, err := b.HKDFExtract(HashSHA384, salt, ikm)
	require.NoError(t, err)
	require.Len(t, prk, 48)

	k1, err := b.HKDFExpandLabel(HashSHA384, prk, "handshake", []byte("context"), 32)
	require.NoError(t, err)
	require.Len(t, k1, 32)

	k2, err := b.HKDFExpandLabel(HashSHA384, prk, "handshake", []byte("context"), 32)
	require.NoError(t, err)
	assert.Equal(t, k1, k2, "expansion must be deterministic for identical label/context")

	k3, err := b.HKDFExpandLabel(HashSHA384, prk, "application", []byte("context"), 32)
	require.NoError(t, err)
	assert.NotEqual(t, k1, k3, "distinct labels must yield distinct key material")
}

func TestNativeBackend_AEAD_RoundTrip(t *testing.T) {
	b := NewNativeBackend()
	for _, alg := range []AEADAlg{AEADChaCha20Poly1305, AEADAES128GCM, AEADAES256GCM} {
		key := make([]byte, alg.KeySize())
		aead, err := b.AEAD(alg, key)
		require.NoError(t, err)

		nonce := make([]byte, aead.NonceSize())
		plaintext := []byte("spdm record payload")
		ct := aead.Seal(nil, nonce, plaintext, []byte("aad"))
		pt, err := aead.Open(nil, nonce, ct, []byte("aad"))
		require.NoError(t, err)
		assert.Equal(t, plaintext, pt)

		_, err = aead.Open(nil, nonce, ct, []byte("wrong aad"))
		assert.Error(t, err)
	}
}

func TestNativeBackend_AEAD_WrongKeySize(t *testing.T) {
	b := NewNativeBackend()
	_, err := b.AEAD(AEADChaCha20Poly1305, []byte("short"))
	require.Error(t, err)
	assert.Equal(t, spdmerr.InvalidParameter, spdmerr.KindOf(err))
}

func TestNativeBackend_Asym_Ed25519_RoundTrip(t *testing.T) {
	b := NewNativeBackend()
	kp, err := b.GenerateAsymKeyPair(AsymEd25519)
	require.NoError(t, err)
	assert.Equal(t, AsymEd25519, kp.Algorithm())

	msg := []byte("VCA || cert_chain_hash || ...")
	sig, err := kp.Sign(msg)
	require.NoError(t, err)

	err = b.VerifyAsym(AsymEd25519, kp.PublicKeyBytes(), msg, sig)
	assert.NoError(t, err)

	err = b.VerifyAsym(AsymEd25519, kp.PublicKeyBytes(), []byte("tampered"), sig)
	assert.Error(t, err)
	assert.Equal(t, spdmerr.SecurityViolation, spdmerr.KindOf(err))
}

func TestNativeBackend_Asym_Secp256k1_RoundTrip(t *testing.T) {
	b := NewNativeBackend()
	kp, err := b.GenerateAsymKeyPair(AsymECDSASecp256k1)
	require.NoError(t, err)

	msg := []byte("challenge nonce")
	sig, err := kp.Sign(msg)
	require.NoError(t, err)
	require.Len(t, sig, 64)

	err = b.VerifyAsym(AsymECDSASecp256k1, kp.PublicKeyBytes(), msg, sig)
	assert.NoError(t, err)
}

func TestNativeBackend_DHE_X25519_SharedSecretsMatch(t *testing.T) {
	b := NewNativeBackend()
	req, err := b.GenerateDHEKeyPair(DHEX25519)
	require.NoError(t, err)
	rsp, err := b.GenerateDHEKeyPair(DHEX25519)
	require.NoError(t, err)

	ssReq, err := req.SharedSecret(rsp.PublicKeyBytes())
	require.NoError(t, err)
	ssRsp, err := rsp.SharedSecret(req.PublicKeyBytes())
	require.NoError(t, err)
	assert.Equal(t, ssReq, ssRsp)
}

func TestNativeBackend_DHE_Hybrid_EncapsulateDecapsulate(t *testing.T) {
	b := NewNativeBackend()
	kp, err := b.GenerateDHEKeyPair(DHEHybridX25519MLKEM768)
	require.NoError(t, err)

	ciphertext, ssPeer, err := b.HybridEncapsulate(DHEHybridX25519MLKEM768, kp.PublicKeyBytes())
	require.NoError(t, err)

	ssLocal, err := kp.SharedSecret(ciphertext)
	require.NoError(t, err)
	assert.Equal(t, ssPeer, ssLocal)
}

func TestNativeBackend_Rand(t *testing.T) {
	b := NewNativeBackend()
	buf1 := make([]byte, 32)
	buf2 := make([]byte, 32)
	require.NoError(t, b.Rand(buf1))
	require.NoError(t, b.Rand(buf2))
	assert.NotEqual(t, buf1, buf2)
}

func TestNullBackend_DeterministicAndDistinctFromNative(t *testing.T) {
	b := NewNullBackend()
	d1, err := b.Hash(HashSHA384, []byte("x"))
	require.NoError(t, err)
	d2, err := b.Hash(HashSHA384, []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, d1, d2)

	kp1, err := b.GenerateAsymKeyPair(AsymEd25519)
	require.NoError(t, err)
	kp2, err := b.GenerateAsymKeyPair(AsymEd25519)
	require.NoError(t, err)
	assert.NotEqual(t, kp1.PublicKeyBytes(), kp2.PublicKeyBytes(), "counter-derived keys must differ")

	sig, err := kp1.Sign([]byte("msg"))
	require.NoError(t, err)
	assert.NoError(t, b.VerifyAsym(AsymEd25519, kp1.PublicKeyBytes(), []byte("msg"), sig))
}

func TestNullBackend_AEAD_RoundTrip(t *testing.T) {
	b := NewNullBackend()
	aead, err := b.AEAD(AEADChaCha20Poly1305, make([]byte, 32))
	require.NoError(t, err)
	nonce := make([]byte, aead.NonceSize())
	ct := aead.Seal(nil, nonce, []byte("payload"), nil)
	pt, err := aead.Open(nil, nonce, ct, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), pt)
}

func TestHashAlg_Size(t *testing.T) {
	assert.Equal(t, 32, HashSHA256.Size())
	assert.Equal(t, 48, HashSHA384.Size())
	assert.Equal(t, 64, HashSHA512.Size())
}

func TestAEADAlg_KeySize(t *testing.T) {
	assert.Equal(t, 32, AEADChaCha20Poly1305.KeySize())
	assert.Equal(t, 16, AEADAES128GCM.KeySize())
	assert.Equal(t, 32, AEADAES256GCM.KeySize())
}
