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

// Package record implements the SPDM secured-message record layer
// (spec.md §4.4): wire encode/decode of one AEAD-protected record,
// built the same way pkg/agent/session.SecureSession.Encrypt/Decrypt
// keyed a ChaCha20-Poly1305 AEAD off a session-derived key, generalized
// here to SPDM's salt-XOR-sequence nonce derivation, the ENC_MAC/MAC_ONLY
// mode split, and per-direction sequence counters instead of a random
// nonce prepended to the ciphertext.
package record

import (
	"encoding/binary"

	"github.com/sage-x-project/spdm/primitive"
	"github.com/sage-x-project/spdm/session"
	"github.com/sage-x-project/spdm/spdmerr"
)

// headerFixedSize is the session_id (4) + length (2) fixed portion; seq_num is
// a variable 0-8 bytes chosen by the transport.
const headerFixedSize = 4 + 2

// maxSeqNumBytes bounds how many low-order bytes of the 64-bit sequence
// counter a transport may place on the wire.
const maxSeqNumBytes = 8

// nonceSize is the AEAD nonce length every cipher this module wires
// (ChaCha20-Poly1305, AES-256-GCM) uses.
const nonceSize = 12

// appLengthPrefixSize is ENC_MAC's 2-byte application-payload length
// prefix inside the encrypted plaintext.
const appLengthPrefixSize = 2

// Encode protects payload under keys and appends it to the wire as one
// SPDM record, advancing keys.Seq on success. pad is appended inside the
// ENC_MAC plaintext after payload (spec.md's "rand_count pad bytes");
// pass nil for none. MAC_ONLY mode ignores pad since nothing is hidden.
func Encode(backend primitive.Backend, alg primitive.AEADAlg, sessionID uint32, keys *session.DirectionalKeys, mode session.Type, payload, pad []byte, seqNumBytes int) ([]byte, error) {
	if keys.Seq == session.ExhaustedSeq {
		return nil, spdmerr.New("record.Encode", spdmerr.OutOfResources, nil)
	}
	if seqNumBytes < 0 || seqNumBytes > maxSeqNumBytes {
		return nil, spdmerr.New("record.Encode", spdmerr.InvalidParameter, nil)
	}

	aead, err := backend.AEAD(alg, keys.EncKey)
	if err != nil {
		return nil, spdmerr.New("record.Encode", spdmerr.DeviceError, err)
	}
	nonce := recordNonce(keys.IVSalt, keys.Seq)
	header1 := uint32LE(sessionID)
	seqWire := seqLowBytes(keys.Seq, seqNumBytes)

	var wire []byte
	switch mode {
	case session.TypeEncMac:
		plaintext := make([]byte, 0, appLengthPrefixSize+len(payload)+len(pad))
		plaintext = append(plaintext, uint16LE(len(payload))...)
		plaintext = append(plaintext, payload...)
		plaintext = append(plaintext, pad...)
		aad := concatBytes(header1, seqWire, uint16LE(len(plaintext)+aead.Overhead()))
		ciphertext := aead.Seal(nil, nonce, plaintext, aad)
		wire = concatBytes(header1, seqWire, uint16LE(len(ciphertext)), ciphertext)
	case session.TypeMacOnly:
		aad := concatBytes(header1, seqWire, uint16LE(len(payload)+aead.Overhead()), payload)
		tag := aead.Seal(nil, nonce, nil, aad)
		wire = concatBytes(header1, seqWire, uint16LE(len(payload)+len(tag)), payload, tag)
	default:
		return nil, spdmerr.New("record.Encode", spdmerr.InvalidParameter, nil)
	}

	keys.Seq++
	return wire, nil
}

// Decode authenticates (and, for ENC_MAC, decrypts) wire under keys,
// returning the application payload and advancing keys.Seq on success.
// The caller is expected to already know sessionID and mode out of band
// (they are session-scoped, not self-describing); Decode still checks
// the wire's session_id and sequence bytes for desync/replay detection.
func Decode(backend primitive.Backend, alg primitive.AEADAlg, sessionID uint32, keys *session.DirectionalKeys, mode session.Type, wire []byte, seqNumBytes int) ([]byte, error) {
	if keys.Seq == session.ExhaustedSeq {
		return nil, spdmerr.New("record.Decode", spdmerr.SecurityViolation, nil)
	}
	if seqNumBytes < 0 || seqNumBytes > maxSeqNumBytes {
		return nil, spdmerr.New("record.Decode", spdmerr.InvalidParameter, nil)
	}
	if len(wire) < 4+seqNumBytes+2 {
		return nil, spdmerr.New("record.Decode", spdmerr.InvalidParameter, nil)
	}

	header1 := wire[0:4]
	if binary.LittleEndian.Uint32(header1) != sessionID {
		return nil, spdmerr.New("record.Decode", spdmerr.SecurityViolation, nil)
	}
	seqWire := wire[4 : 4+seqNumBytes]
	if !seqMatches(keys.Seq, seqWire) {
		return nil, spdmerr.New("record.Decode", spdmerr.SecurityViolation, nil)
	}
	lengthOff := 4 + seqNumBytes
	length := binary.LittleEndian.Uint16(wire[lengthOff : lengthOff+2])
	body := wire[lengthOff+2:]
	if int(length) != len(body) {
		return nil, spdmerr.New("record.Decode", spdmerr.InvalidParameter, nil)
	}

	aead, err := backend.AEAD(alg, keys.EncKey)
	if err != nil {
		return nil, spdmerr.New("record.Decode", spdmerr.DeviceError, err)
	}
	nonce := recordNonce(keys.IVSalt, keys.Seq)
	header2 := uint16LE(int(length))

	var payload []byte
	switch mode {
	case session.TypeEncMac:
		aad := concatBytes(header1, seqWire, header2)
		plaintext, err := aead.Open(nil, nonce, body, aad)
		if err != nil {
			return nil, spdmerr.New("record.Decode", spdmerr.SecurityViolation, err)
		}
		if len(plaintext) < appLengthPrefixSize {
			return nil, spdmerr.New("record.Decode", spdmerr.SecurityViolation, nil)
		}
		appLen := int(binary.LittleEndian.Uint16(plaintext[:appLengthPrefixSize]))
		if appLen > len(plaintext)-appLengthPrefixSize {
			return nil, spdmerr.New("record.Decode", spdmerr.SecurityViolation, nil)
		}
		payload = plaintext[appLengthPrefixSize : appLengthPrefixSize+appLen]
	case session.TypeMacOnly:
		if len(body) < aead.Overhead() {
			return nil, spdmerr.New("record.Decode", spdmerr.SecurityViolation, nil)
		}
		appPayload := body[:len(body)-aead.Overhead()]
		tag := body[len(body)-aead.Overhead():]
		aad := concatBytes(header1, seqWire, header2, appPayload)
		if _, err := aead.Open(nil, nonce, tag, aad); err != nil {
			return nil, spdmerr.New("record.Decode", spdmerr.SecurityViolation, err)
		}
		payload = appPayload
	default:
		return nil, spdmerr.New("record.Decode", spdmerr.InvalidParameter, nil)
	}

	keys.Seq++
	return payload, nil
}

// recordNonce XORs the low bytes of seq (big enough to cover nonceSize)
// into ivSalt, per spec.md §4.4.
func recordNonce(ivSalt []byte, seq uint64) []byte {
	nonce := make([]byte, nonceSize)
	copy(nonce, ivSalt)
	var seqBytes [nonceSize]byte
	binary.LittleEndian.PutUint64(seqBytes[:8], seq)
	for i := range nonce {
		nonce[i] ^= seqBytes[i]
	}
	return nonce
}

func seqLowBytes(seq uint64, n int) []byte {
	var full [8]byte
	binary.LittleEndian.PutUint64(full[:], seq)
	return append([]byte(nil), full[:n]...)
}

func seqMatches(seq uint64, wire []byte) bool {
	expect := seqLowBytes(seq, len(wire))
	for i := range wire {
		if wire[i] != expect[i] {
			return false
		}
	}
	return true
}

func uint32LE(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func uint16LE(v int) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, uint16(v))
	return b
}

func concatBytes(parts ...[]byte) []byte {
	var total int
	for _, p := range parts {
		total += len(p)
	}
	out := make([]byte, 0, total)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
