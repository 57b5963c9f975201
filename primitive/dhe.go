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
	"crypto/ecdh"
	"crypto/rand"
	"crypto/subtle"

	"github.com/cloudflare/circl/kem"
	"github.com/cloudflare/circl/kem/hybrid"
	"github.com/sage-x-project/spdm/spdmerr"
)

// x25519KeyPair is grounded on crypto/keys/x25519.go's X25519KeyPair,
// trimmed to the DHE-only surface primitive needs (no HPKE/Encrypt
// helpers — those belong to a peer-to-peer messaging layer this module
// doesn't have).
type x25519KeyPair struct {
	priv *ecdh.PrivateKey
	pub  *ecdh.PublicKey
}

func (kp *x25519KeyPair) Group() DHEGroup        { return DHEX25519 }
func (kp *x25519KeyPair) PublicKeyBytes() []byte { return kp.pub.Bytes() }

func (kp *x25519KeyPair) SharedSecret(peerPublic []byte) ([]byte, error) {
	peerPub, err := ecdh.X25519().NewPublicKey(peerPublic)
	if err != nil {
		return nil, spdmerr.New("primitive.SharedSecret", spdmerr.InvalidParameter, err)
	}
	shared, err := kp.priv.ECDH(peerPub)
	if err != nil {
		return nil, spdmerr.New("primitive.SharedSecret", spdmerr.DeviceError, err)
	}
	var zero [32]byte
	if subtle.ConstantTimeCompare(shared, zero[:]) == 1 {
		return nil, spdmerr.New("primitive.SharedSecret", spdmerr.SecurityViolation, nil)
	}
	return shared, nil
}

// hybridKeyPair wraps a post-quantum-hybrid KEM (X25519+ML-KEM-768) as a
// DHE group. DSP0274's recent revisions allow hybrid DHE groups; circl is
// the only PQ-capable library retrieved in the example pack, so this is
// new wiring grounded on circl's own kem.Scheme interface rather than an
// adaptation of any SAGE code path (SAGE never used circl for DHE).
//
// Unlike classic DHE, a KEM is asymmetric per role: the side that calls
// GenerateDHEKeyPair and publishes pub decapsulates a ciphertext it
// receives back; the peer that only has pub calls the backend's
// HybridEncapsulate instead of holding a DHEKeyPair at all.
type hybridKeyPair struct {
	priv kem.PrivateKey
	pub  []byte
}

func (kp *hybridKeyPair) Group() DHEGroup        { return DHEHybridX25519MLKEM768 }
func (kp *hybridKeyPair) PublicKeyBytes() []byte { return kp.pub }

// SharedSecret decapsulates a ciphertext produced by the peer's
// HybridEncapsulate call.
func (kp *hybridKeyPair) SharedSecret(ciphertext []byte) ([]byte, error) {
	scheme := hybrid.Kyber768X25519()
	ss, err := scheme.Decapsulate(kp.priv, ciphertext)
	if err != nil {
		return nil, spdmerr.New("primitive.SharedSecret", spdmerr.DeviceError, err)
	}
	return ss, nil
}

// GenerateDHEKeyPair mints a fresh ephemeral keypair for the requested group.
func (b *NativeBackend) GenerateDHEKeyPair(group DHEGroup) (DHEKeyPair, error) {
	switch group {
	case DHEX25519:
		priv, err := ecdh.X25519().GenerateKey(rand.Reader)
		if err != nil {
			return nil, spdmerr.New("primitive.GenerateDHEKeyPair", spdmerr.DeviceError, err)
		}
		return &x25519KeyPair{priv: priv, pub: priv.PublicKey()}, nil
	case DHEHybridX25519MLKEM768:
		scheme := hybrid.Kyber768X25519()
		pub, priv, err := scheme.GenerateKeyPair()
		if err != nil {
			return nil, spdmerr.New("primitive.GenerateDHEKeyPair", spdmerr.DeviceError, err)
		}
		pubBytes, err := pub.MarshalBinary()
		if err != nil {
			return nil, spdmerr.New("primitive.GenerateDHEKeyPair", spdmerr.DeviceError, err)
		}
		return &hybridKeyPair{priv: priv, pub: pubBytes}, nil
	default:
		return nil, spdmerr.New("primitive.GenerateDHEKeyPair", spdmerr.Unsupported, nil)
	}
}

// HybridEncapsulate is the counterpart to hybridKeyPair.SharedSecret: a
// peer holding only the other side's public encapsulation key derives a
// shared secret plus the ciphertext it must send back.
func (b *NativeBackend) HybridEncapsulate(group DHEGroup, peerPublicKey []byte) ([]byte, []byte, error) {
	if group != DHEHybridX25519MLKEM768 {
		return nil, nil, spdmerr.New("primitive.HybridEncapsulate", spdmerr.Unsupported, nil)
	}
	scheme := hybrid.Kyber768X25519()
	pk, err := scheme.UnmarshalBinaryPublicKey(peerPublicKey)
	if err != nil {
		return nil, nil, spdmerr.New("primitive.HybridEncapsulate", spdmerr.InvalidParameter, err)
	}
	ct, ss, err := scheme.Encapsulate(pk)
	if err != nil {
		return nil, nil, spdmerr.New("primitive.HybridEncapsulate", spdmerr.DeviceError, err)
	}
	return ct, ss, nil
}
