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

// Package loopback is an in-memory transport.Endpoint pair for tests and
// the cmd/spdmctl demo: two goroutines exchanging frames over buffered
// channels instead of a PCI-DOE or MCTP link.
package loopback

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/sage-x-project/spdm/spdmerr"
	"github.com/sage-x-project/spdm/transport"
)

var _ transport.Endpoint = (*endpoint)(nil)

// endpoint is one side of a loopback pair.
type endpoint struct {
	id  uuid.UUID
	out chan<- []byte
	in  <-chan []byte
}

// ID identifies this endpoint for logging/correlation, distinct from any
// SPDM session_id.
func (e *endpoint) ID() uuid.UUID { return e.id }

// NewPair builds two cross-wired endpoints: writes to the first are reads
// on the second and vice versa. bufSize bounds how many frames may be
// in flight before Send blocks.
func NewPair(bufSize int) (*endpoint, *endpoint) {
	ab := make(chan []byte, bufSize)
	ba := make(chan []byte, bufSize)
	a := &endpoint{id: uuid.New(), out: ab, in: ba}
	b := &endpoint{id: uuid.New(), out: ba, in: ab}
	return a, b
}

func (e *endpoint) Send(ctx context.Context, buf []byte, timeout time.Duration) error {
	frame := append([]byte(nil), buf...)
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case e.out <- frame:
		return nil
	case <-ctx.Done():
		return spdmerr.New("loopback.Send", spdmerr.DeviceError, ctx.Err())
	case <-timer.C:
		return spdmerr.New("loopback.Send", spdmerr.Timeout, nil)
	}
}

func (e *endpoint) Recv(ctx context.Context, timeout time.Duration) ([]byte, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case frame := <-e.in:
		return frame, nil
	case <-ctx.Done():
		return nil, spdmerr.New("loopback.Recv", spdmerr.DeviceError, ctx.Err())
	case <-timer.C:
		return nil, spdmerr.New("loopback.Recv", spdmerr.NoResponse, nil)
	}
}

// RunDuplex runs each of fns concurrently (one per side of a loopback
// pair, typically requester and responder) and returns the first non-nil
// error, cancelling the shared context for the others. This is the only
// place the core spawns goroutines of its own; the record/transcript/
// session layers are themselves single-threaded per spec.md §5.
func RunDuplex(ctx context.Context, fns ...func(context.Context) error) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, fn := range fns {
		fn := fn
		g.Go(func() error { return fn(gctx) })
	}
	return g.Wait()
}
