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
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/sage-x-project/spdm/spdmerr"
)

type ed25519KeyPair struct {
	priv ed25519.PrivateKey
	pub  ed25519.PublicKey
}

func (kp *ed25519KeyPair) Algorithm() AsymAlg      { return AsymEd25519 }
func (kp *ed25519KeyPair) PublicKeyBytes() []byte  { return kp.pub }
func (kp *ed25519KeyPair) Sign(msg []byte) ([]byte, error) {
	return ed25519.Sign(kp.priv, msg), nil
}

type secp256k1KeyPair struct {
	priv *secp256k1.PrivateKey
	pub  *secp256k1.PublicKey
}

func (kp *secp256k1KeyPair) Algorithm() AsymAlg { return AsymECDSASecp256k1 }
func (kp *secp256k1KeyPair) PublicKeyBytes() []byte {
	return kp.pub.SerializeCompressed()
}
func (kp *secp256k1KeyPair) Sign(msg []byte) ([]byte, error) {
	h := sha256.Sum256(msg)
	r, s, err := ecdsa.Sign(rand.Reader, kp.priv.ToECDSA(), h[:])
	if err != nil {
		return nil, spdmerr.New("primitive.Sign", spdmerr.DeviceError, err)
	}
	return serializeRS(r, s), nil
}

type rsaKeyPair struct {
	priv *rsa.PrivateKey
}

func (kp *rsaKeyPair) Algorithm() AsymAlg     { return AsymRSAPSS3072 }
func (kp *rsaKeyPair) PublicKeyBytes() []byte { return kp.priv.PublicKey.N.Bytes() }
func (kp *rsaKeyPair) Sign(msg []byte) ([]byte, error) {
	h := sha256.Sum256(msg)
	sig, err := rsa.SignPSS(rand.Reader, kp.priv, crypto.SHA256, h[:], nil)
	if err != nil {
		return nil, spdmerr.New("primitive.Sign", spdmerr.DeviceError, err)
	}
	return sig, nil
}

// GenerateAsymKeyPair mints a fresh keypair for the requested algorithm.
func (b *NativeBackend) GenerateAsymKeyPair(alg AsymAlg) (AsymKeyPair, error) {
	switch alg {
	case AsymEd25519:
		pub, priv, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, spdmerr.New("primitive.GenerateAsymKeyPair", spdmerr.DeviceError, err)
		}
		return &ed25519KeyPair{priv: priv, pub: pub}, nil
	case AsymECDSASecp256k1:
		priv, err := secp256k1.GeneratePrivateKey()
		if err != nil {
			return nil, spdmerr.New("primitive.GenerateAsymKeyPair", spdmerr.DeviceError, err)
		}
		return &secp256k1KeyPair{priv: priv, pub: priv.PubKey()}, nil
	case AsymRSAPSS3072:
		priv, err := rsa.GenerateKey(rand.Reader, 3072)
		if err != nil {
			return nil, spdmerr.New("primitive.GenerateAsymKeyPair", spdmerr.DeviceError, err)
		}
		return &rsaKeyPair{priv: priv}, nil
	default:
		return nil, spdmerr.New("primitive.GenerateAsymKeyPair", spdmerr.Unsupported, nil)
	}
}

// VerifyAsym verifies signature over message, dispatching by alg.
// Grounded on crypto/keys/{ed25519,secp256k1,rs256}.go's Verify methods.
func (b *NativeBackend) VerifyAsym(alg AsymAlg, publicKey, message, signature []byte) error {
	switch alg {
	case AsymEd25519:
		if len(publicKey) != ed25519.PublicKeySize {
			return spdmerr.New("primitive.VerifyAsym", spdmerr.InvalidParameter, nil)
		}
		if !ed25519.Verify(ed25519.PublicKey(publicKey), message, signature) {
			return spdmerr.New("primitive.VerifyAsym", spdmerr.SecurityViolation, nil)
		}
		return nil
	case AsymECDSASecp256k1:
		pub, err := secp256k1.ParsePubKey(publicKey)
		if err != nil {
			return spdmerr.New("primitive.VerifyAsym", spdmerr.InvalidParameter, err)
		}
		r, s, err := deserializeRS(signature)
		if err != nil {
			return spdmerr.New("primitive.VerifyAsym", spdmerr.InvalidParameter, err)
		}
		h := sha256.Sum256(message)
		if !ecdsa.Verify(pub.ToECDSA(), h[:], r, s) {
			return spdmerr.New("primitive.VerifyAsym", spdmerr.SecurityViolation, nil)
		}
		return nil
	case AsymRSAPSS3072:
		n := new(big.Int).SetBytes(publicKey)
		pub := &rsa.PublicKey{N: n, E: 65537}
		h := sha256.Sum256(message)
		if err := rsa.VerifyPSS(pub, crypto.SHA256, h[:], signature, nil); err != nil {
			return spdmerr.New("primitive.VerifyAsym", spdmerr.SecurityViolation, err)
		}
		return nil
	default:
		return spdmerr.New("primitive.VerifyAsym", spdmerr.Unsupported, nil)
	}
}

func serializeRS(r, s *big.Int) []byte {
	rBytes, sBytes := r.Bytes(), s.Bytes()
	sig := make([]byte, 64)
	copy(sig[32-len(rBytes):32], rBytes)
	copy(sig[64-len(sBytes):64], sBytes)
	return sig
}

func deserializeRS(data []byte) (*big.Int, *big.Int, error) {
	if len(data) != 64 {
		return nil, nil, spdmerr.New("primitive.deserializeRS", spdmerr.InvalidParameter, nil)
	}
	return new(big.Int).SetBytes(data[:32]), new(big.Int).SetBytes(data[32:]), nil
}
