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

// Package session implements the SessionInfo state machine and HKDF-based
// key schedule, grounded on pkg/agent/session.SecureSession's key-derivation
// and AEAD-lifecycle patterns but generalized from its single-stage,
// single-suite design to SPDM's two-stage handshake/application schedule,
// directional key split, and KEY_UPDATE shadow-key rekey.
package session

// State is the SessionInfo lifecycle state, strictly monotonic except for
// the ENDING collapse on Free: NOT_STARTED->HANDSHAKING->ESTABLISHED.
type State int

const (
	NotStarted State = iota
	Handshaking
	Established
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "NOT_STARTED"
	case Handshaking:
		return "HANDSHAKING"
	case Established:
		return "ESTABLISHED"
	default:
		return "UNKNOWN"
	}
}

// Type is the secured-message subcontext's session_type.
type Type int

const (
	TypeNone Type = iota
	TypeMacOnly
	TypeEncMac
)

// InvalidSessionID is the reserved sentinel for "no session".
const InvalidSessionID uint32 = 0xFFFFFFFF

// MaxSessions is K, the maximum number of simultaneously HANDSHAKING or
// ESTABLISHED sessions per context (spec.md §3).
const MaxSessions = 4

// ExhaustedSeq is the reserved sequence-counter sentinel: encode MUST fail
// with OutOfResources and decode MUST fail with SecurityViolation when the
// relevant direction's counter is at this value.
const ExhaustedSeq uint64 = 0xFFFFFFFFFFFFFFFF

// Direction selects requester-side or responder-side key material.
type Direction int

const (
	Requester Direction = iota
	Responder
)

// DirectionalKeys is one direction's AEAD key material for one epoch
// (handshake or data). Zeroize clears all key bytes before the struct is
// discarded or overwritten, matching SecureSession.Close's zero-fill.
type DirectionalKeys struct {
	EncKey      []byte
	IVSalt      []byte
	FinishedKey []byte
	Seq         uint64
}

// Zeroize overwrites every key byte with 0 and resets Seq, without
// reallocating the backing slices.
func (k *DirectionalKeys) Zeroize() {
	for i := range k.EncKey {
		k.EncKey[i] = 0
	}
	for i := range k.IVSalt {
		k.IVSalt[i] = 0
	}
	for i := range k.FinishedKey {
		k.FinishedKey[i] = 0
	}
	k.Seq = 0
}

// HandshakeSecret holds the handshake-epoch secrets and derived directional
// keys for both requester and responder.
type HandshakeSecret struct {
	Secret    []byte // HKDF-Extract(salt=0, ikm=dhe_shared_secret_or_psk_binder)
	ReqSecret []byte // req_hs_secret
	RspSecret []byte // rsp_hs_secret
	Req       DirectionalKeys
	Rsp       DirectionalKeys
}

// Zeroize clears every secret this struct owns.
func (h *HandshakeSecret) Zeroize() {
	for i := range h.Secret {
		h.Secret[i] = 0
	}
	for i := range h.ReqSecret {
		h.ReqSecret[i] = 0
	}
	for i := range h.RspSecret {
		h.RspSecret[i] = 0
	}
	h.Req.Zeroize()
	h.Rsp.Zeroize()
}

// MasterSecret holds the data (application) epoch secrets, derived at
// FINISH success from the handshake secret and bound to H(TH@FINISH).
type MasterSecret struct {
	Secret              []byte
	ReqDataSecret       []byte
	RspDataSecret       []byte
	ExportMasterSecret  []byte
	Req                 DirectionalKeys
	Rsp                 DirectionalKeys
}

// Zeroize clears every secret this struct owns.
func (m *MasterSecret) Zeroize() {
	for i := range m.Secret {
		m.Secret[i] = 0
	}
	for i := range m.ReqDataSecret {
		m.ReqDataSecret[i] = 0
	}
	for i := range m.RspDataSecret {
		m.RspDataSecret[i] = 0
	}
	for i := range m.ExportMasterSecret {
		m.ExportMasterSecret[i] = 0
	}
	m.Req.Zeroize()
	m.Rsp.Zeroize()
}
