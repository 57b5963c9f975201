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
	"crypto/cipher"
	"crypto/sha256"
	"encoding/binary"

	"github.com/sage-x-project/spdm/spdmerr"
	"golang.org/x/crypto/chacha20poly1305"
)

// NullBackend is a deterministic, insecure Backend for unit tests that
// need reproducible transcripts and key material without paying for real
// asymmetric crypto — spec.md §9's "null-stub for tests" note. It always
// uses SHA-256 and ChaCha20-Poly1305 regardless of the requested alg, and
// its "signatures" and "keypairs" are derived deterministically from a
// counter rather than drawn from crypto/rand. Never select this backend
// outside tests.
type NullBackend struct {
	counter uint64
}

// NewNullBackend constructs a NullBackend.
func NewNullBackend() *NullBackend {
	return &NullBackend{}
}

var _ Backend = (*NullBackend)(nil)

func (b *NullBackend) Hash(alg HashAlg, data []byte) ([]byte, error) {
	h := sha256.Sum256(data)
	return h[:], nil
}

func (b *NullBackend) HMAC(alg HashAlg, key, data []byte) ([]byte, error) {
	h := sha256.New()
	h.Write(key)
	h.Write(data)
	sum := h.Sum(nil)
	return sum, nil
}

func (b *NullBackend) HKDFExtract(alg HashAlg, salt, ikm []byte) ([]byte, error) {
	h := sha256.New()
	h.Write(salt)
	h.Write(ikm)
	sum := h.Sum(nil)
	return sum, nil
}

func (b *NullBackend) HKDFExpandLabel(alg HashAlg, secret []byte, label string, context []byte, length int) ([]byte, error) {
	h := sha256.New()
	h.Write(secret)
	h.Write([]byte(label))
	h.Write(context)
	out := make([]byte, 0, length)
	counter := byte(0)
	for len(out) < length {
		h.Write([]byte{counter})
		sum := h.Sum(nil)
		out = append(out, sum...)
		counter++
	}
	return out[:length], nil
}

func (b *NullBackend) AEAD(alg AEADAlg, key []byte) (cipher.AEAD, error) {
	k := make([]byte, chacha20poly1305.KeySize)
	copy(k, key)
	return chacha20poly1305.New(k)
}

type nullAsymKeyPair struct {
	id uint64
}

func (kp *nullAsymKeyPair) Algorithm() AsymAlg     { return AsymEd25519 }
func (kp *nullAsymKeyPair) PublicKeyBytes() []byte { return nullCounterBytes(kp.id) }
func (kp *nullAsymKeyPair) Sign(msg []byte) ([]byte, error) {
	h := sha256.New()
	h.Write(nullCounterBytes(kp.id))
	h.Write(msg)
	return h.Sum(nil), nil
}

func (b *NullBackend) GenerateAsymKeyPair(alg AsymAlg) (AsymKeyPair, error) {
	b.counter++
	return &nullAsymKeyPair{id: b.counter}, nil
}

func (b *NullBackend) VerifyAsym(alg AsymAlg, publicKey, message, signature []byte) error {
	h := sha256.New()
	h.Write(publicKey)
	h.Write(message)
	want := h.Sum(nil)
	if len(signature) != len(want) {
		return spdmerr.New("primitive.VerifyAsym", spdmerr.SecurityViolation, nil)
	}
	for i := range want {
		if signature[i] != want[i] {
			return spdmerr.New("primitive.VerifyAsym", spdmerr.SecurityViolation, nil)
		}
	}
	return nil
}

type nullDHEKeyPair struct {
	id uint64
}

func (kp *nullDHEKeyPair) Group() DHEGroup        { return DHEX25519 }
func (kp *nullDHEKeyPair) PublicKeyBytes() []byte { return nullCounterBytes(kp.id) }
func (kp *nullDHEKeyPair) SharedSecret(peerPublic []byte) ([]byte, error) {
	h := sha256.New()
	h.Write(nullCounterBytes(kp.id))
	h.Write(peerPublic)
	sum := h.Sum(nil)
	return sum, nil
}

func (b *NullBackend) GenerateDHEKeyPair(group DHEGroup) (DHEKeyPair, error) {
	b.counter++
	return &nullDHEKeyPair{id: b.counter}, nil
}

func (b *NullBackend) HybridEncapsulate(group DHEGroup, peerPublicKey []byte) ([]byte, []byte, error) {
	b.counter++
	ct := nullCounterBytes(b.counter)
	h := sha256.New()
	h.Write(ct)
	h.Write(peerPublicKey)
	return ct, h.Sum(nil), nil
}

func (b *NullBackend) ExtractSubjectPublicKey(certDER []byte) ([]byte, AsymAlg, error) {
	h := sha256.Sum256(certDER)
	return h[:], AsymEd25519, nil
}

// Rand fills buf deterministically from the backend's counter so tests
// stay reproducible; never use NullBackend outside tests.
func (b *NullBackend) Rand(buf []byte) error {
	for i := range buf {
		b.counter++
		c := nullCounterBytes(b.counter)
		buf[i] = c[len(c)-1]
	}
	return nil
}

func nullCounterBytes(id uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, id)
	h := sha256.Sum256(buf)
	return h[:]
}
