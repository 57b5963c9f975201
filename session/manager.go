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

package session

import (
	"sync"

	"github.com/sage-x-project/spdm/spdmerr"
)

// Manager owns the fixed MaxSessions (K=4) slot table for one Context
// (spec.md §3: "at most K sessions may be simultaneously in HANDSHAKING ∪
// ESTABLISHED"). Grounded on pkg/agent/session.Manager's mutex-guarded map
// of sessions, narrowed from an unbounded map to a fixed array since SPDM
// bounds session count by construction rather than by eviction policy.
//
// Manager never holds a metrics.Collector or logger.Logger of its own —
// callers record outcomes themselves (cmd/spdmctl's handshake subcommand
// records handshake results in a metrics.Collector), the same
// explicit-parameter style the record layer uses instead of a back-pointer
// into its owning session.
type Manager struct {
	mu    sync.Mutex
	slots [MaxSessions]*Info
}

// NewManager constructs an empty Manager.
func NewManager() *Manager {
	return &Manager{}
}

// Allocate reserves a free slot for sessionID and returns its Info in
// NOT_STARTED state. Fails with OutOfResources if all K slots are in use,
// or InvalidParameter if sessionID already occupies a slot.
func (m *Manager) Allocate(sessionID uint32) (*Info, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	freeIdx := -1
	for i, s := range m.slots {
		if s == nil {
			if freeIdx < 0 {
				freeIdx = i
			}
			continue
		}
		if s.SessionID == sessionID {
			return nil, spdmerr.NewSession("session.Allocate", spdmerr.InvalidParameter, sessionID, nil)
		}
	}
	if freeIdx < 0 {
		return nil, spdmerr.NewSession("session.Allocate", spdmerr.OutOfResources, sessionID, nil)
	}

	info := &Info{SessionID: sessionID, State: NotStarted}
	m.slots[freeIdx] = info
	return info, nil
}

// Get returns the Info for sessionID, or (nil, false) if no slot holds it.
func (m *Manager) Get(sessionID uint32) (*Info, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.slots {
		if s != nil && s.SessionID == sessionID {
			return s, true
		}
	}
	return nil, false
}

// Free destroys the slot holding sessionID, zeroizing all key material and
// sequence numbers (spec.md §3 destruction invariant). Freeing an unknown
// session_id is a no-op, matching END_SESSION's idempotent intent.
func (m *Manager) Free(sessionID uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, s := range m.slots {
		if s != nil && s.SessionID == sessionID {
			s.zeroize()
			m.slots[i] = nil
			return
		}
	}
}

// Count returns the number of occupied slots.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.slots {
		if s != nil {
			n++
		}
	}
	return n
}

// Reset frees every slot, as a connection-level reset_context does.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, s := range m.slots {
		if s != nil {
			s.zeroize()
			m.slots[i] = nil
		}
	}
}
