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
	"crypto/rand"
	"io"

	"github.com/sage-x-project/spdm/spdmerr"
)

// Rand fills buf with cryptographically secure random bytes.
func (b *NativeBackend) Rand(buf []byte) error {
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return spdmerr.New("primitive.Rand", spdmerr.DeviceError, err)
	}
	return nil
}
