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

package loopback

import (
	"encoding/binary"

	"github.com/sage-x-project/spdm/spdmerr"
	"github.com/sage-x-project/spdm/transport"
)

var _ transport.Framer = (*Framer)(nil)

const (
	frameFlagPlain   byte = 0
	frameFlagSecured byte = 1
)

// Framer is the minimal transport.Framer this package offers: a one-byte
// flag (plain vs. secured), an optional 4-byte little-endian session_id,
// and the message bytes. It chooses a fixed 2-byte on-wire sequence field
// and allows no ENC_MAC padding, both acceptable per spec.md §6 (N ranges
// 0..8; max_random may be 0).
type Framer struct{}

// NewFramer builds the loopback's transport.Framer.
func NewFramer() *Framer { return &Framer{} }

func (*Framer) EncodeFrame(sessionID *uint32, msg []byte) ([]byte, error) {
	if sessionID == nil {
		frame := make([]byte, 0, 1+len(msg))
		frame = append(frame, frameFlagPlain)
		frame = append(frame, msg...)
		return frame, nil
	}
	frame := make([]byte, 0, 5+len(msg))
	frame = append(frame, frameFlagSecured)
	var idBuf [4]byte
	binary.LittleEndian.PutUint32(idBuf[:], *sessionID)
	frame = append(frame, idBuf[:]...)
	frame = append(frame, msg...)
	return frame, nil
}

func (*Framer) DecodeFrame(frame []byte) (*uint32, []byte, error) {
	if len(frame) < 1 {
		return nil, nil, spdmerr.New("loopback.DecodeFrame", spdmerr.InvalidParameter, nil)
	}
	switch frame[0] {
	case frameFlagPlain:
		return nil, frame[1:], nil
	case frameFlagSecured:
		if len(frame) < 5 {
			return nil, nil, spdmerr.New("loopback.DecodeFrame", spdmerr.InvalidParameter, nil)
		}
		id := binary.LittleEndian.Uint32(frame[1:5])
		return &id, frame[5:], nil
	default:
		return nil, nil, spdmerr.New("loopback.DecodeFrame", spdmerr.InvalidParameter, nil)
	}
}

func (*Framer) SequenceNumberLength() int { return 2 }

func (*Framer) MaxRandomNumberCount() uint32 { return 0 }
