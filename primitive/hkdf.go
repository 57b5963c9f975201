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
	"encoding/binary"
	"io"

	"golang.org/x/crypto/hkdf"
)

// HKDFExtract is grounded on pkg/agent/session.deriveKeys's use of
// hkdf.Extract(sha256.New, ikm, salt), generalized to any negotiated
// base_hash.
func (b *NativeBackend) HKDFExtract(alg HashAlg, salt, ikm []byte) ([]byte, error) {
	ctor, err := hashCtor(alg)
	if err != nil {
		return nil, err
	}
	return hkdf.Extract(ctor, ikm, salt), nil
}

// HKDFExpandLabel implements the TLS-1.3-style "HKDF-Expand-Label"
// construction the SPDM key schedule uses for every derived secret:
//
//	HKDFExpandLabel(Secret, Label, Context, Length) =
//	    HKDF-Expand(Secret, HkdfLabel, Length)
//
// where HkdfLabel is length(2) || len(label)(1) || "spdm1.3 "+label ||
// len(context)(1) || context, mirroring RFC 8446 §7.1's wire layout
// (SAGE itself only needs plain Expand for its single-stage schedule;
// this label framing is new code grounded on RFC 8446's construction,
// the same one DSP0274's key schedule borrows verbatim).
func (b *NativeBackend) HKDFExpandLabel(alg HashAlg, secret []byte, label string, context []byte, length int) ([]byte, error) {
	ctor, err := hashCtor(alg)
	if err != nil {
		return nil, err
	}

	full := "spdm1.3 " + label
	hkdfLabel := make([]byte, 0, 2+1+len(full)+1+len(context))

	var lenBuf [2]byte
	binary.BigEndian.PutUint16(lenBuf[:], uint16(length))
	hkdfLabel = append(hkdfLabel, lenBuf[:]...)
	hkdfLabel = append(hkdfLabel, byte(len(full)))
	hkdfLabel = append(hkdfLabel, full...)
	hkdfLabel = append(hkdfLabel, byte(len(context)))
	hkdfLabel = append(hkdfLabel, context...)

	reader := hkdf.Expand(ctor, secret, hkdfLabel)
	out := make([]byte, length)
	if _, err := io.ReadFull(reader, out); err != nil {
		return nil, err
	}
	return out, nil
}
