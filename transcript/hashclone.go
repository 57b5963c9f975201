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

package transcript

import (
	"encoding"
	"hash"

	"github.com/sage-x-project/spdm/spdmerr"
)

// cloneHash duplicates an in-progress hash.Hash without disturbing it or
// consuming its absorbed bytes, via the BinaryMarshaler/BinaryUnmarshaler
// pair every stdlib and golang.org/x/crypto hash implementation this
// module uses has carried since Go 1.21 (crypto/sha256, crypto/sha512,
// golang.org/x/crypto/sha3). This is the mechanism spec.md §4.2's
// "duplicate" operation names for streaming-mode digest(): freeze a copy,
// finalize the copy, leave the original absorbing further bytes.
func cloneHash(h hash.Hash, newFn func() hash.Hash) (hash.Hash, error) {
	marshaler, ok := h.(encoding.BinaryMarshaler)
	if !ok {
		return nil, spdmerr.New("transcript.cloneHash", spdmerr.Unsupported, nil)
	}
	state, err := marshaler.MarshalBinary()
	if err != nil {
		return nil, spdmerr.New("transcript.cloneHash", spdmerr.DeviceError, err)
	}

	clone := newFn()
	unmarshaler, ok := clone.(encoding.BinaryUnmarshaler)
	if !ok {
		return nil, spdmerr.New("transcript.cloneHash", spdmerr.Unsupported, nil)
	}
	if err := unmarshaler.UnmarshalBinary(state); err != nil {
		return nil, spdmerr.New("transcript.cloneHash", spdmerr.DeviceError, err)
	}
	return clone, nil
}
