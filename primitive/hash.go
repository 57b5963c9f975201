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

import "hash"

// newHash returns a fresh hash.Hash for alg, or an Unsupported error.
func newHash(alg HashAlg) (hash.Hash, error) {
	ctor, err := hashCtor(alg)
	if err != nil {
		return nil, err
	}
	return ctor(), nil
}

// NewHasher exposes the hash.Hash constructor for alg to callers outside
// this package (transcript's incremental/streaming region contexts) that
// need to mint fresh hash instances of their own rather than go through
// one-shot Hash.
func NewHasher(alg HashAlg) (func() hash.Hash, error) {
	return hashCtor(alg)
}

func (b *NativeBackend) Hash(alg HashAlg, data []byte) ([]byte, error) {
	h, err := newHash(alg)
	if err != nil {
		return nil, err
	}
	h.Write(data)
	return h.Sum(nil), nil
}
