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
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"hash"

	"github.com/sage-x-project/spdm/spdmerr"
	"golang.org/x/crypto/sha3"
)

// hashCtor returns the crypto/hash.Hash constructor for alg, or an
// Unsupported error.
func hashCtor(alg HashAlg) (func() hash.Hash, error) {
	switch alg {
	case HashSHA256:
		return sha256.New, nil
	case HashSHA384:
		return sha512.New384, nil
	case HashSHA512:
		return sha512.New, nil
	case HashSHA3_256:
		return sha3.New256, nil
	case HashSHA3_384:
		return sha3.New384, nil
	case HashSHA3_512:
		return sha3.New512, nil
	default:
		return nil, spdmerr.New("primitive.hashCtor", spdmerr.Unsupported, nil)
	}
}

// HMAC is grounded on pkg/agent/session.SecureSession.EncryptAndSign's
// hmac.New(sha256.New, s.signingKey) pattern, generalized to any
// negotiated base_hash.
func (b *NativeBackend) HMAC(alg HashAlg, key, data []byte) ([]byte, error) {
	ctor, err := hashCtor(alg)
	if err != nil {
		return nil, err
	}
	mac := hmac.New(ctor, key)
	mac.Write(data)
	return mac.Sum(nil), nil
}
