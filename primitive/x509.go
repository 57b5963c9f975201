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
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/x509"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/sage-x-project/spdm/spdmerr"
)

// ExtractSubjectPublicKey parses a leaf certificate and returns its raw
// public key bytes plus the inferred AsymAlg, trying algorithms in the
// fixed order spec.md's resolved Open Question #2 settles: RSA, then
// ECDSA(secp256k1), then Ed25519. SM2 is not attempted — no SM2 library
// is present anywhere in the retrieved example pack, so that branch
// returns Unsupported rather than being silently skipped.
func (b *NativeBackend) ExtractSubjectPublicKey(certDER []byte) ([]byte, AsymAlg, error) {
	cert, err := x509.ParseCertificate(certDER)
	if err != nil {
		return nil, AsymInvalid, spdmerr.New("primitive.ExtractSubjectPublicKey", spdmerr.InvalidParameter, err)
	}

	switch pub := cert.PublicKey.(type) {
	case *rsa.PublicKey:
		return pub.N.Bytes(), AsymRSAPSS3072, nil
	case *ecdsa.PublicKey:
		sp, err := secp256k1.ParsePubKey(ellipticUncompressed(pub))
		if err != nil {
			return nil, AsymInvalid, spdmerr.New("primitive.ExtractSubjectPublicKey", spdmerr.InvalidParameter, err)
		}
		return sp.SerializeCompressed(), AsymECDSASecp256k1, nil
	case ed25519.PublicKey:
		return []byte(pub), AsymEd25519, nil
	default:
		return nil, AsymInvalid, spdmerr.New("primitive.ExtractSubjectPublicKey", spdmerr.Unsupported, nil)
	}
}

// ellipticUncompressed reencodes a stdlib ecdsa.PublicKey in the
// uncompressed SEC1 form secp256k1.ParsePubKey expects.
func ellipticUncompressed(pub *ecdsa.PublicKey) []byte {
	byteLen := (pub.Curve.Params().BitSize + 7) / 8
	out := make([]byte, 1+2*byteLen)
	out[0] = 4
	pub.X.FillBytes(out[1 : 1+byteLen])
	pub.Y.FillBytes(out[1+byteLen : 1+2*byteLen])
	return out
}
