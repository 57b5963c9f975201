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
	"hash"

	"github.com/sage-x-project/spdm/primitive"
	"github.com/sage-x-project/spdm/spdmerr"
)

// sessionMaxRegionSize bounds K and F's retained-mode buffers. Session
// regions only ever carry a handful of key-exchange messages, so this is
// tighter than the connection-scope default.
const sessionMaxRegionSize = 16 * 1024

// Direction distinguishes the two finished-key HMAC contexts a session
// transcript maintains, kept local to this package rather than imported
// from session to avoid coupling the two to each other's internals.
type Direction int

const (
	Requester Direction = iota
	Responder
)

// Session is the per-session transcript: K (key-exchange) and F
// (post-handshake) regions, seeded from a connection's A region (plus an
// optional certificate-chain hash) at first use, producing the TH digest
// signed/MACed throughout the key schedule (spec.md §4.2, §4.3).
type Session struct {
	backend primitive.Backend
	alg     primitive.HashAlg
	mode    Mode
	newHash func() hash.Hash

	// Retained mode: raw components, concatenated on demand.
	aPrefix  []byte
	certHash []byte
	kBuf     []byte
	mutHash  []byte
	fBuf     []byte

	// Streaming mode: incremental TH context.
	th       hash.Hash
	thSeeded bool

	// F rollback snapshot, taken at F's first append.
	backedUp        bool
	aPrefixBackup   []byte
	certHashBackup  []byte
	kBufBackup      []byte
	thBackup        hash.Hash
	hmacReqTHBackup hash.Hash
	hmacRspTHBackup hash.Hash

	finishedKeyReady bool
	tempK            [][]byte
	reqFinishedKey   []byte
	rspFinishedKey   []byte
	hmacReqTH        hash.Hash
	hmacRspTH        hash.Hash
}

// NewSession builds an empty session transcript.
func NewSession(backend primitive.Backend, alg primitive.HashAlg, mode Mode) (*Session, error) {
	newHash, err := primitive.NewHasher(alg)
	if err != nil {
		return nil, spdmerr.New("transcript.NewSession", spdmerr.Unsupported, err)
	}
	return &Session{backend: backend, alg: alg, mode: mode, newHash: newHash}, nil
}

// Start seeds TH from conn's current A region and, for certificate-based
// (non-PSK) sessions, the requester's certificate chain hash. Call once,
// before the first AppendK.
func (s *Session) Start(conn *Transcript, certChainHash []byte) error {
	s.certHash = append([]byte(nil), certChainHash...)
	switch s.mode {
	case Retained:
		s.aPrefix = append([]byte(nil), conn.regions[A].buf...)
	default:
		aState := conn.regions[A]
		if err := conn.ensureSeeded(aState, A); err != nil {
			return err
		}
		clone, err := cloneHash(aState.h, s.newHash)
		if err != nil {
			return err
		}
		s.th = clone
		s.thSeeded = true
		s.absorbStreaming(certChainHash)
	}
	return nil
}

// AppendK absorbs data into the K region.
func (s *Session) AppendK(data []byte) error {
	if s.mode == Retained {
		if len(s.kBuf)+len(data) > sessionMaxRegionSize {
			return spdmerr.New("transcript.AppendK", spdmerr.OutOfResources, nil)
		}
		s.kBuf = append(s.kBuf, data...)
		return nil
	}
	if !s.thSeeded {
		return spdmerr.New("transcript.AppendK", spdmerr.InvalidParameter, nil)
	}
	s.absorbStreaming(data)
	return nil
}

// AppendF absorbs data into the F region. mutCertChainHash is passed on
// the first call of a mutual-auth session (nil otherwise) and is absorbed
// immediately before the first F bytes, per spec.md §4.2's TH layout.
func (s *Session) AppendF(data []byte, mutCertChainHash []byte) error {
	if !s.backedUp {
		if err := s.snapshotForRollback(); err != nil {
			return err
		}
		s.backedUp = true
		s.mutHash = append([]byte(nil), mutCertChainHash...)
		if len(mutCertChainHash) > 0 {
			if s.mode == Retained {
				// mutHash concatenated at digest time; nothing to do here.
			} else {
				s.absorbStreaming(mutCertChainHash)
			}
		}
	}
	if s.mode == Retained {
		if len(s.fBuf)+len(data) > sessionMaxRegionSize {
			return spdmerr.New("transcript.AppendF", spdmerr.OutOfResources, nil)
		}
		s.fBuf = append(s.fBuf, data...)
		return nil
	}
	s.absorbStreaming(data)
	return nil
}

// snapshotForRollback freezes the state needed to undo an F extension.
func (s *Session) snapshotForRollback() error {
	if s.mode == Retained {
		s.aPrefixBackup = append([]byte(nil), s.aPrefix...)
		s.certHashBackup = append([]byte(nil), s.certHash...)
		s.kBufBackup = append([]byte(nil), s.kBuf...)
		return nil
	}
	clone, err := cloneHash(s.th, s.newHash)
	if err != nil {
		return err
	}
	s.thBackup = clone
	if s.finishedKeyReady {
		reqClone, err := cloneHash(s.hmacReqTH, func() hash.Hash { return newHMACHash(s.newHash, s.reqFinishedKey) })
		if err != nil {
			return err
		}
		rspClone, err := cloneHash(s.hmacRspTH, func() hash.Hash { return newHMACHash(s.newHash, s.rspFinishedKey) })
		if err != nil {
			return err
		}
		s.hmacReqTHBackup = reqClone
		s.hmacRspTHBackup = rspClone
	}
	return nil
}

// ResetF discards the F region and any state absorbed since its first
// append, restoring TH to its value immediately after K.
func (s *Session) ResetF() error {
	if !s.backedUp {
		return spdmerr.New("transcript.ResetF", spdmerr.InvalidParameter, nil)
	}
	if s.mode == Retained {
		s.aPrefix = s.aPrefixBackup
		s.certHash = s.certHashBackup
		s.kBuf = s.kBufBackup
		s.fBuf = nil
		s.mutHash = nil
	} else {
		clone, err := cloneHash(s.thBackup, s.newHash)
		if err != nil {
			return err
		}
		s.th = clone
		if s.finishedKeyReady {
			reqClone, err := cloneHash(s.hmacReqTHBackup, func() hash.Hash { return newHMACHash(s.newHash, s.reqFinishedKey) })
			if err != nil {
				return err
			}
			rspClone, err := cloneHash(s.hmacRspTHBackup, func() hash.Hash { return newHMACHash(s.newHash, s.rspFinishedKey) })
			if err != nil {
				return err
			}
			s.hmacReqTH = reqClone
			s.hmacRspTH = rspClone
		}
	}
	s.backedUp = false
	return nil
}

// absorbStreaming feeds data to TH unconditionally and, once finished
// keys are ready, to both HMAC contexts; otherwise stages it in tempK so
// the HMAC contexts can be initialized with the correct prefix later.
func (s *Session) absorbStreaming(data []byte) {
	if len(data) == 0 {
		return
	}
	s.th.Write(data)
	if s.finishedKeyReady {
		s.hmacReqTH.Write(data)
		s.hmacRspTH.Write(data)
		return
	}
	s.tempK = append(s.tempK, append([]byte(nil), data...))
}

// MarkFinishedKeyReady initializes the two finished-key HMAC contexts and
// drains everything staged so far into them. Call once, as soon as the
// handshake secret's finished keys are derived (mid-K, after KEY_EXCHANGE
// or PSK_EXCHANGE's response is absorbed).
func (s *Session) MarkFinishedKeyReady(reqFinishedKey, rspFinishedKey []byte) error {
	if s.finishedKeyReady {
		return spdmerr.New("transcript.MarkFinishedKeyReady", spdmerr.InvalidParameter, nil)
	}
	s.reqFinishedKey = append([]byte(nil), reqFinishedKey...)
	s.rspFinishedKey = append([]byte(nil), rspFinishedKey...)
	s.finishedKeyReady = true
	if s.mode == Streaming {
		s.hmacReqTH = newHMACHash(s.newHash, s.reqFinishedKey)
		s.hmacRspTH = newHMACHash(s.newHash, s.rspFinishedKey)
		for _, staged := range s.tempK {
			s.hmacReqTH.Write(staged)
			s.hmacRspTH.Write(staged)
		}
	}
	s.tempK = nil
	return nil
}

// Digest returns TH without disturbing the session transcript's ability
// to keep absorbing further bytes.
func (s *Session) Digest() ([]byte, error) {
	if s.mode == Retained {
		var data []byte
		data = append(data, s.aPrefix...)
		data = append(data, s.certHash...)
		data = append(data, s.kBuf...)
		data = append(data, s.mutHash...)
		data = append(data, s.fBuf...)
		return s.backend.Hash(s.alg, data)
	}
	clone, err := cloneHash(s.th, s.newHash)
	if err != nil {
		return nil, err
	}
	return clone.Sum(nil), nil
}

// FinishedHMAC returns the finished-key HMAC over the bytes absorbed so
// far for the given direction, without disturbing further absorption.
func (s *Session) FinishedHMAC(dir Direction) ([]byte, error) {
	if !s.finishedKeyReady {
		return nil, spdmerr.New("transcript.FinishedHMAC", spdmerr.InvalidParameter, nil)
	}
	key := s.reqFinishedKey
	if dir == Responder {
		key = s.rspFinishedKey
	}
	if s.mode == Retained {
		var data []byte
		data = append(data, s.aPrefix...)
		data = append(data, s.certHash...)
		data = append(data, s.kBuf...)
		data = append(data, s.mutHash...)
		data = append(data, s.fBuf...)
		return s.backend.HMAC(s.alg, key, data)
	}
	ctx := s.hmacReqTH
	if dir == Responder {
		ctx = s.hmacRspTH
	}
	newFn := func() hash.Hash { return newHMACHash(s.newHash, key) }
	clone, err := cloneHash(ctx, newFn)
	if err != nil {
		return nil, err
	}
	return clone.Sum(nil), nil
}
