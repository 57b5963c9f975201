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
	"crypto/hmac"
	"hash"
)

// newHMACHash builds a keyed HMAC context over baseCtor. Since Go 1.21
// crypto/hmac's result also implements encoding.BinaryMarshaler, so
// cloneHash works on it the same way it does on a plain hash.Hash.
func newHMACHash(baseCtor func() hash.Hash, key []byte) hash.Hash {
	return hmac.New(baseCtor, key)
}
