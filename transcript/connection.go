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

// defaultMaxRegionSize bounds a retained-mode region's buffer. Connection
// transcripts carry certificate chains and measurement blocks, so this is
// generous relative to session-scope K/F (see session.go).
const defaultMaxRegionSize = 64 * 1024

// regionState is one region's bytes (Retained) or incremental hash
// context (Streaming), never both.
type regionState struct {
	buf    []byte
	h      hash.Hash
	seeded bool
}

// Transcript holds the six connection-scope regions (spec.md §4.2). K and
// F are session-scope and live in Session instead.
type Transcript struct {
	backend       primitive.Backend
	alg           primitive.HashAlg
	mode          Mode
	maxRegionSize int
	newHash       func() hash.Hash
	mIncludesA    bool
	regions       map[Region]*regionState
}

// New builds a connection transcript. mIncludesA selects whether M chains
// from (and L1L2 includes) A, which only happens at negotiated version
// 1.2 and above.
func New(backend primitive.Backend, alg primitive.HashAlg, mode Mode, mIncludesA bool) (*Transcript, error) {
	newHash, err := primitive.NewHasher(alg)
	if err != nil {
		return nil, spdmerr.New("transcript.New", spdmerr.Unsupported, err)
	}
	t := &Transcript{
		backend:       backend,
		alg:           alg,
		mode:          mode,
		maxRegionSize: defaultMaxRegionSize,
		newHash:       newHash,
		mIncludesA:    mIncludesA,
		regions:       make(map[Region]*regionState, 6),
	}
	for _, r := range []Region{A, B, C, MutB, MutC, M} {
		t.regions[r] = &regionState{}
	}
	return t, nil
}

// parent names the region whose streaming context a region's own context
// is chain-seeded from at first append, mirroring SPDM's fixed message
// ordering (A always precedes B, B always precedes C, ...).
func (t *Transcript) parent(r Region) (Region, bool) {
	switch r {
	case B:
		return A, true
	case C:
		return B, true
	case MutB:
		return C, true
	case MutC:
		return MutB, true
	case M:
		if t.mIncludesA {
			return A, true
		}
		return 0, false
	default:
		return 0, false
	}
}

// Reset clears a region back to empty, in whichever mode is active.
func (t *Transcript) Reset(r Region) {
	t.regions[r] = &regionState{}
}

// Append absorbs data into region r.
func (t *Transcript) Append(r Region, data []byte) error {
	rs, ok := t.regions[r]
	if !ok {
		return spdmerr.New("transcript.Append", spdmerr.InvalidParameter, nil)
	}
	switch t.mode {
	case Retained:
		if len(rs.buf)+len(data) > t.maxRegionSize {
			return spdmerr.New("transcript.Append", spdmerr.OutOfResources, nil)
		}
		rs.buf = append(rs.buf, data...)
		return nil
	default: // Streaming
		if err := t.ensureSeeded(rs, r); err != nil {
			return err
		}
		rs.h.Write(data)
		return nil
	}
}

// ensureSeeded lazily gives rs a streaming hash context, chain-seeded
// from its parent region's current state if one exists, the first time
// it is touched (by Append or Digest).
func (t *Transcript) ensureSeeded(rs *regionState, r Region) error {
	if rs.seeded {
		return nil
	}
	parentRegion, ok := t.parent(r)
	if !ok {
		rs.h = t.newHash()
		rs.seeded = true
		return nil
	}
	parentState := t.regions[parentRegion]
	if err := t.ensureSeeded(parentState, parentRegion); err != nil {
		return err
	}
	clone, err := cloneHash(parentState.h, t.newHash)
	if err != nil {
		return err
	}
	rs.h = clone
	rs.seeded = true
	return nil
}

// Digest computes a derived connection-scope digest without disturbing
// any region's ability to keep absorbing further bytes.
func (t *Transcript) Digest(sel Selector) ([]byte, error) {
	switch t.mode {
	case Retained:
		return t.digestRetained(sel)
	default:
		return t.digestStreaming(sel)
	}
}

func (t *Transcript) digestRetained(sel Selector) ([]byte, error) {
	var data []byte
	switch sel {
	case SelectorM1M2:
		data = append(data, t.regions[A].buf...)
		data = append(data, t.regions[B].buf...)
		data = append(data, t.regions[C].buf...)
	case SelectorL1L2:
		if t.mIncludesA {
			data = append(data, t.regions[A].buf...)
		}
		data = append(data, t.regions[M].buf...)
	default:
		return nil, spdmerr.New("transcript.Digest", spdmerr.InvalidParameter, nil)
	}
	return t.backend.Hash(t.alg, data)
}

func (t *Transcript) digestStreaming(sel Selector) ([]byte, error) {
	var r Region
	switch sel {
	case SelectorM1M2:
		r = C
	case SelectorL1L2:
		r = M
	default:
		return nil, spdmerr.New("transcript.Digest", spdmerr.InvalidParameter, nil)
	}
	rs := t.regions[r]
	if err := t.ensureSeeded(rs, r); err != nil {
		return nil, err
	}
	clone, err := cloneHash(rs.h, t.newHash)
	if err != nil {
		return nil, err
	}
	return clone.Sum(nil), nil
}

// ResetByRequest applies spec.md §4.2's normative reset policy for the
// request code the local endpoint just issued or received.
func (t *Transcript) ResetByRequest(reqCode RequestCode, authenticated bool) {
	// Rule 1: any request other than GET_MEASUREMENTS clears M.
	if reqCode != RequestGetMeasurements {
		t.Reset(M)
	}
	// Rule 2: issuing these before AUTHENTICATED means CHALLENGE never
	// completed, so the auth-bound regions reset.
	if !authenticated && preAuthResetSet[reqCode] {
		t.Reset(B)
		t.Reset(C)
		t.Reset(MutB)
		t.Reset(MutC)
		return
	}
	// Rule 3: DELIVER_ENCAPSULATED_RESPONSE before AUTHENTICATED resets
	// only B and C.
	if !authenticated && reqCode == RequestDeliverEncapsulatedResponse {
		t.Reset(B)
		t.Reset(C)
	}
}
