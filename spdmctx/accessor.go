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

package spdmctx

import (
	"encoding/binary"

	"github.com/sage-x-project/spdm/spdmerr"
)

// propertyDef declares one property's shape: its exact byte length (0
// means variable, bounded by maxLen), the locations it may be read or
// written from, and whether a session_id parameter is required.
type propertyDef struct {
	length       int
	maxLen       int
	locations    map[Location]bool
	needsSession bool
	needsIndex   bool
}

var propertyDefs = map[PropertyKey]propertyDef{
	KeyCapabilityFlags:      {length: 4, locations: loc(Local, Connection)},
	KeyVersion:              {length: 1, locations: loc(Connection)},
	KeyBaseHashAlg:          {length: 1, locations: loc(Connection)},
	KeyBaseAsymAlg:          {length: 1, locations: loc(Connection)},
	KeyDHEGroup:             {length: 1, locations: loc(Connection)},
	KeyAEADSuite:            {length: 1, locations: loc(Connection)},
	KeyReqAsymAlg:           {length: 1, locations: loc(Connection)},
	KeyMeasurementHashAlg:   {length: 1, locations: loc(Connection)},
	KeyMeasurementSpec:      {length: 1, locations: loc(Connection)},
	KeyKeyScheduleSelector:  {length: 1, locations: loc(Connection)},
	KeyOtherParams:          {length: 1, locations: loc(Connection)},
	KeyConnectionState:      {length: 1, locations: loc(Connection)},
	KeyResponseState:        {length: 1, locations: loc(Local)},
	KeyPeerCertChainHash:    {maxLen: 64, locations: loc(Connection)},
	KeyLocalCertChainSlot:   {maxLen: 4096, locations: loc(Local), needsIndex: true},
	KeyPSKHint:              {maxLen: 64, locations: loc(Local)},
	KeyHeartbeatPeriod:      {length: 1, locations: loc(Session), needsSession: true},
	KeyPerSessionAttributes: {maxLen: 32, locations: loc(Session), needsSession: true},
	KeyAppData:              {maxLen: 4096, locations: loc(Local)},
	KeyErrorReturnPolicy:    {length: 1, locations: loc(Local)},
}

func loc(locs ...Location) map[Location]bool {
	m := make(map[Location]bool, len(locs))
	for _, l := range locs {
		m[l] = true
	}
	return m
}

// validate checks loc/length against key's declared shape and, for
// SESSION-scope properties, resolves sessionID to a live slot.
func (c *Context) validate(loc Location, key PropertyKey, sessionID uint32, index int, valueLen int) (*sessionProperties, error) {
	def, ok := propertyDefs[key]
	if !ok {
		return nil, spdmerr.New("spdmctx.accessor", spdmerr.InvalidParameter, nil)
	}
	if !def.locations[loc] {
		return nil, spdmerr.New("spdmctx.accessor", spdmerr.InvalidParameter, nil)
	}
	if def.needsIndex && (index < 0 || index >= maxCertChainSlots) {
		return nil, spdmerr.New("spdmctx.accessor", spdmerr.InvalidParameter, nil)
	}
	if valueLen >= 0 {
		if def.length != 0 && valueLen != def.length {
			return nil, spdmerr.New("spdmctx.accessor", spdmerr.InvalidParameter, nil)
		}
		if def.length == 0 && valueLen > def.maxLen {
			return nil, spdmerr.New("spdmctx.accessor", spdmerr.InvalidParameter, nil)
		}
	}
	if !def.needsSession {
		return nil, nil
	}
	if _, ok := c.sessions.Get(sessionID); !ok {
		return nil, spdmerr.NewSession("spdmctx.accessor", spdmerr.InvalidParameter, sessionID, nil)
	}
	sp, ok := c.sessionProps[sessionID]
	if !ok {
		sp = &sessionProperties{}
		c.sessionProps[sessionID] = sp
	}
	return sp, nil
}

// SetProperty writes value to the property named by key at loc. sessionID
// is required (and checked against a live session slot) for SESSION-scope
// properties, ignored otherwise; index selects among KeyLocalCertChainSlot's
// N slots, ignored otherwise. Violating the property's declared length,
// location, or (for KeyCapabilityFlags) reserved bits yields
// InvalidParameter (spec.md §4.5). Setting a capability bit outside this
// build's supported set is a programming error, not a runtime condition:
// it panics rather than returning an error.
func (c *Context) SetProperty(loc Location, key PropertyKey, sessionID uint32, index int, value []byte) error {
	sp, err := c.validate(loc, key, sessionID, index, len(value))
	if err != nil {
		return err
	}

	switch key {
	case KeyCapabilityFlags:
		flags := binary.LittleEndian.Uint32(value)
		if flags&reservedCapabilityMask != 0 {
			return spdmerr.New("spdmctx.SetProperty", spdmerr.InvalidParameter, nil)
		}
		if flags&^supportedCapabilityMask != 0 {
			panic("spdmctx: unsupported capability bit set")
		}
		if loc == Local {
			c.localCapabilityFlags = flags
		} else {
			c.connCapabilityFlags = flags
		}
	case KeyVersion:
		c.version = value[0]
	case KeyBaseHashAlg:
		c.baseHashAlg = value[0]
	case KeyBaseAsymAlg:
		c.baseAsymAlg = value[0]
	case KeyDHEGroup:
		c.dheGroup = value[0]
	case KeyAEADSuite:
		c.aeadSuite = value[0]
	case KeyReqAsymAlg:
		c.reqAsymAlg = value[0]
	case KeyMeasurementHashAlg:
		c.measurementHashAlg = value[0]
	case KeyMeasurementSpec:
		c.measurementSpec = value[0]
	case KeyKeyScheduleSelector:
		c.keyScheduleSelector = value[0]
	case KeyOtherParams:
		c.otherParams = value[0]
	case KeyConnectionState:
		c.connState = ConnState(value[0])
	case KeyResponseState:
		c.responseState = ResponseState(value[0])
	case KeyPeerCertChainHash:
		c.peerCertChainHash = append([]byte(nil), value...)
	case KeyLocalCertChainSlot:
		c.localCertChains[index] = append([]byte(nil), value...)
	case KeyPSKHint:
		c.pskHint = append([]byte(nil), value...)
	case KeyHeartbeatPeriod:
		sp.heartbeatPeriod = value[0]
	case KeyPerSessionAttributes:
		sp.attributes = append([]byte(nil), value...)
	case KeyAppData:
		c.appData = append([]byte(nil), value...)
	case KeyErrorReturnPolicy:
		c.errorReturnPolicy = value[0]
	default:
		return spdmerr.New("spdmctx.SetProperty", spdmerr.InvalidParameter, nil)
	}
	return nil
}

// GetProperty reads the property named by key at loc, with the same
// sessionID/index rules as SetProperty.
func (c *Context) GetProperty(loc Location, key PropertyKey, sessionID uint32, index int) ([]byte, error) {
	sp, err := c.validate(loc, key, sessionID, index, -1)
	if err != nil {
		return nil, err
	}

	switch key {
	case KeyCapabilityFlags:
		flags := c.localCapabilityFlags
		if loc == Connection {
			flags = c.connCapabilityFlags
		}
		return uint32LEBytes(flags), nil
	case KeyVersion:
		return []byte{c.version}, nil
	case KeyBaseHashAlg:
		return []byte{c.baseHashAlg}, nil
	case KeyBaseAsymAlg:
		return []byte{c.baseAsymAlg}, nil
	case KeyDHEGroup:
		return []byte{c.dheGroup}, nil
	case KeyAEADSuite:
		return []byte{c.aeadSuite}, nil
	case KeyReqAsymAlg:
		return []byte{c.reqAsymAlg}, nil
	case KeyMeasurementHashAlg:
		return []byte{c.measurementHashAlg}, nil
	case KeyMeasurementSpec:
		return []byte{c.measurementSpec}, nil
	case KeyKeyScheduleSelector:
		return []byte{c.keyScheduleSelector}, nil
	case KeyOtherParams:
		return []byte{c.otherParams}, nil
	case KeyConnectionState:
		return []byte{byte(c.connState)}, nil
	case KeyResponseState:
		return []byte{byte(c.responseState)}, nil
	case KeyPeerCertChainHash:
		return append([]byte(nil), c.peerCertChainHash...), nil
	case KeyLocalCertChainSlot:
		return append([]byte(nil), c.localCertChains[index]...), nil
	case KeyPSKHint:
		return append([]byte(nil), c.pskHint...), nil
	case KeyHeartbeatPeriod:
		return []byte{sp.heartbeatPeriod}, nil
	case KeyPerSessionAttributes:
		return append([]byte(nil), sp.attributes...), nil
	case KeyAppData:
		return append([]byte(nil), c.appData...), nil
	case KeyErrorReturnPolicy:
		return []byte{c.errorReturnPolicy}, nil
	default:
		return nil, spdmerr.New("spdmctx.GetProperty", spdmerr.InvalidParameter, nil)
	}
}

func uint32LEBytes(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}
