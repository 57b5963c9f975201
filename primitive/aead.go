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
	"crypto/aes"
	"crypto/cipher"

	"github.com/sage-x-project/spdm/spdmerr"
	"golang.org/x/crypto/chacha20poly1305"
)

// AEAD constructs the negotiated AEAD cipher. ChaCha20-Poly1305 is
// grounded on chacha20poly1305.New(s.encryptKey) throughout
// pkg/agent/session.SecureSession; AES-GCM has no SAGE precedent (SAGE
// only ever uses ChaCha20-Poly1305) but is the stdlib answer DSP0274's
// negotiable AEAD suite list requires.
func (b *NativeBackend) AEAD(alg AEADAlg, key []byte) (cipher.AEAD, error) {
	if len(key) != alg.KeySize() {
		return nil, spdmerr.New("primitive.AEAD", spdmerr.InvalidParameter, nil)
	}

	switch alg {
	case AEADChaCha20Poly1305:
		return chacha20poly1305.New(key)
	case AEADAES128GCM, AEADAES256GCM:
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, spdmerr.New("primitive.AEAD", spdmerr.DeviceError, err)
		}
		return cipher.NewGCM(block)
	default:
		return nil, spdmerr.New("primitive.AEAD", spdmerr.Unsupported, nil)
	}
}
