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

// Package primitive is the cryptographic capability facade every other
// package in this module is built against: a Backend interface plus two
// concrete implementations (NativeBackend, NullBackend) selected at
// build time, the way SAGE's crypto/chain registry binds a provider by
// ChainType rather than through runtime polymorphism.
package primitive

// NativeBackend is the production Backend: real hashing, signing, AEAD,
// and key agreement, grounded on crypto/keys/* and
// pkg/agent/session.SecureSession's primitive call patterns and
// generalized across the full set of algorithms SPDM negotiates. It
// carries no state of its own — every operation is a pure function of
// its arguments — so the zero value is ready to use.
type NativeBackend struct{}

// NewNativeBackend constructs a NativeBackend.
func NewNativeBackend() *NativeBackend {
	return &NativeBackend{}
}

var _ Backend = (*NativeBackend)(nil)
