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

import "crypto/cipher"

// Backend is the dispatch table a spdmctx.Context is built against.
// Build-time selection (NativeBackend vs NullBackend) compiles to a
// concrete table; nothing here requires runtime polymorphism.
type Backend interface {
	// Hash returns a one-shot digest of data under alg.
	Hash(alg HashAlg, data []byte) ([]byte, error)

	// HMAC returns a one-shot MAC of data under key, keyed by alg's hash.
	HMAC(alg HashAlg, key, data []byte) ([]byte, error)

	// HKDFExtract implements RFC 5869 Extract.
	HKDFExtract(alg HashAlg, salt, ikm []byte) ([]byte, error)

	// HKDFExpandLabel implements the TLS-1.3-style "HKDF-Expand-Label"
	// construction session.schedule.go uses throughout the key schedule.
	HKDFExpandLabel(alg HashAlg, secret []byte, label string, context []byte, length int) ([]byte, error)

	// AEAD constructs a cipher.AEAD for alg, keyed by key.
	AEAD(alg AEADAlg, key []byte) (cipher.AEAD, error)

	// GenerateAsymKeyPair mints a fresh keypair for alg (test/demo identities).
	GenerateAsymKeyPair(alg AsymAlg) (AsymKeyPair, error)

	// VerifyAsym verifies signature over message under publicKey for alg.
	VerifyAsym(alg AsymAlg, publicKey, message, signature []byte) error

	// GenerateDHEKeyPair mints a fresh ephemeral DHE keypair for group.
	GenerateDHEKeyPair(group DHEGroup) (DHEKeyPair, error)

	// HybridEncapsulate is the KEM-side counterpart to a hybrid DHE
	// group's DHEKeyPair.SharedSecret: a peer holding only the other
	// side's public encapsulation key (no local keypair of its own for
	// this exchange) calls this to produce both the ciphertext to send
	// back and the shared secret it derived. Classic (non-hybrid) DHE
	// groups don't need this — both sides hold a keypair and call
	// SharedSecret symmetrically.
	HybridEncapsulate(group DHEGroup, peerPublicKey []byte) (ciphertext, sharedSecret []byte, err error)

	// ExtractSubjectPublicKey pulls the raw public key bytes and inferred
	// AsymAlg out of a DER-encoded X.509 certificate, trying algorithms
	// in the order spec.md's resolved Open Question #2 fixes: RSA, then
	// ECDSA(secp256k1), then Ed25519.
	ExtractSubjectPublicKey(certDER []byte) ([]byte, AsymAlg, error)

	// Rand fills buf with cryptographically secure random bytes.
	Rand(buf []byte) error
}
