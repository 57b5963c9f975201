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

// Package primitive is the trait-style capability set the rest of the
// SPDM core dispatches through for hashing, MAC, key derivation, AEAD,
// asymmetric signatures, DHE, X.509 extraction, and randomness. Callers
// never reach for crypto/* or golang.org/x/crypto/* directly; they go
// through a Backend so a build can swap in NullBackend for deterministic
// tests without touching transcript/session/record code.
package primitive

// HashAlg identifies a base_hash algorithm negotiated during
// NEGOTIATE_ALGORITHMS.
type HashAlg int

const (
	HashInvalid HashAlg = iota
	HashSHA256
	HashSHA384
	HashSHA512
	HashSHA3_256
	HashSHA3_384
	HashSHA3_512
)

func (h HashAlg) String() string {
	switch h {
	case HashSHA256:
		return "sha256"
	case HashSHA384:
		return "sha384"
	case HashSHA512:
		return "sha512"
	case HashSHA3_256:
		return "sha3-256"
	case HashSHA3_384:
		return "sha3-384"
	case HashSHA3_512:
		return "sha3-512"
	default:
		return "invalid"
	}
}

// Size returns the digest size in bytes, or 0 for HashInvalid.
func (h HashAlg) Size() int {
	switch h {
	case HashSHA256, HashSHA3_256:
		return 32
	case HashSHA384, HashSHA3_384:
		return 48
	case HashSHA512, HashSHA3_512:
		return 64
	default:
		return 0
	}
}

// AsymAlg identifies a base_asym signature algorithm.
type AsymAlg int

const (
	AsymInvalid AsymAlg = iota
	AsymEd25519
	AsymECDSASecp256k1
	AsymRSAPSS3072
)

func (a AsymAlg) String() string {
	switch a {
	case AsymEd25519:
		return "ed25519"
	case AsymECDSASecp256k1:
		return "ecdsa_secp256k1"
	case AsymRSAPSS3072:
		return "rsassa_pss_3072"
	default:
		return "invalid"
	}
}

// AEADAlg identifies a negotiated AEAD cipher suite.
type AEADAlg int

const (
	AEADInvalid AEADAlg = iota
	AEADChaCha20Poly1305
	AEADAES128GCM
	AEADAES256GCM
)

func (a AEADAlg) String() string {
	switch a {
	case AEADChaCha20Poly1305:
		return "chacha20_poly1305"
	case AEADAES128GCM:
		return "aes_128_gcm"
	case AEADAES256GCM:
		return "aes_256_gcm"
	default:
		return "invalid"
	}
}

// KeySize returns the AEAD key size in bytes.
func (a AEADAlg) KeySize() int {
	switch a {
	case AEADAES128GCM:
		return 16
	case AEADChaCha20Poly1305, AEADAES256GCM:
		return 32
	default:
		return 0
	}
}

// DHEGroup identifies a negotiated Diffie-Hellman exchange group.
type DHEGroup int

const (
	DHEInvalid DHEGroup = iota
	DHEX25519
	DHEHybridX25519MLKEM768
)

func (d DHEGroup) String() string {
	switch d {
	case DHEX25519:
		return "x25519"
	case DHEHybridX25519MLKEM768:
		return "x25519_mlkem768"
	default:
		return "invalid"
	}
}

// AsymKeyPair is an opaque asymmetric keypair handle returned by a
// Backend's key-generation helpers (primarily used by tests and
// cmd/spdmctl to mint a local identity).
type AsymKeyPair interface {
	Algorithm() AsymAlg
	PublicKeyBytes() []byte
	Sign(message []byte) ([]byte, error)
}

// DHEKeyPair is an opaque ephemeral DHE keypair handle.
type DHEKeyPair interface {
	Group() DHEGroup
	PublicKeyBytes() []byte
	SharedSecret(peerPublic []byte) ([]byte, error)
}
