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
	"time"

	"github.com/sage-x-project/spdm/primitive"
	"github.com/sage-x-project/spdm/spdmerr"
)

// Info is one session slot (spec.md §3 "SessionInfo"). A slot is created
// by Manager.Allocate when the protocol layer first assigns a session_id
// (KEY_EXCHANGE/PSK_EXCHANGE), advances monotonically through
// Handshaking->Established, and is destroyed by Manager.Free, which
// zeroizes every key-carrying field.
type Info struct {
	SessionID         uint32
	UsePSK            bool
	MutAuthRequested  bool
	SessionPolicy     byte
	EndSessionAttrs   byte
	HeartbeatPeriod   time.Duration

	Type  Type
	State State

	HashAlg primitive.HashAlg
	AEADAlg primitive.AEADAlg

	Handshake *HandshakeSecret
	Master    *MasterSecret

	FinishedKeyReady bool

	// Active data-epoch directional keys, promoted from Master.{Req,Rsp}
	// at ActivateDataKeys and thereafter updated in place by KEY_UPDATE.
	ActiveReq DirectionalKeys
	ActiveRsp DirectionalKeys

	// Shadow copies staged by a KEY_UPDATE in progress; ReqBackupValid /
	// RspBackupValid record whether Backup{Req,Rsp} hold the
	// still-recoverable previous epoch (spec.md §4.3 KEY_UPDATE).
	ShadowReq      DirectionalKeys
	ShadowRsp      DirectionalKeys
	ReqUpdatePending bool
	RspUpdatePending bool

	BackupReq       DirectionalKeys
	BackupRsp       DirectionalKeys
	ReqBackupValid  bool
	RspBackupValid  bool
}

// ActivateDataKeys promotes the master-secret-derived directional keys
// into the active data epoch, called once FINISH succeeds.
func (info *Info) ActivateDataKeys(master *MasterSecret) {
	info.Master = master
	info.ActiveReq = master.Req
	info.ActiveRsp = master.Rsp
}

// Active returns the active directional keys for dir.
func (info *Info) Active(dir Direction) *DirectionalKeys {
	if dir == Requester {
		return &info.ActiveReq
	}
	return &info.ActiveRsp
}

// Shadow returns the shadow directional keys for dir.
func (info *Info) Shadow(dir Direction) *DirectionalKeys {
	if dir == Requester {
		return &info.ShadowReq
	}
	return &info.ShadowRsp
}

// Backup returns the backup directional keys for dir.
func (info *Info) Backup(dir Direction) *DirectionalKeys {
	if dir == Requester {
		return &info.BackupReq
	}
	return &info.BackupRsp
}

// BackupValid reports whether dir's backup slot holds recoverable key
// material.
func (info *Info) BackupValid(dir Direction) bool {
	if dir == Requester {
		return info.ReqBackupValid
	}
	return info.RspBackupValid
}

func (info *Info) setBackupValid(dir Direction, valid bool) {
	if dir == Requester {
		info.ReqBackupValid = valid
	} else {
		info.RspBackupValid = valid
	}
}

// SetState enforces the strictly monotonic NOT_STARTED->HANDSHAKING->
// ESTABLISHED transition (spec.md §4.3); ENDING collapses to NOT_STARTED
// only via Manager.Free, never through SetState.
func (info *Info) SetState(next State) error {
	switch {
	case info.State == NotStarted && next == Handshaking:
	case info.State == Handshaking && next == Established:
	default:
		return spdmerr.NewSession("session.SetState", spdmerr.InvalidParameter, info.SessionID, nil)
	}
	info.State = next
	return nil
}

// zeroize clears every key-carrying field, called by Manager.Free.
func (info *Info) zeroize() {
	if info.Handshake != nil {
		info.Handshake.Zeroize()
	}
	if info.Master != nil {
		info.Master.Zeroize()
	}
	info.ActiveReq.Zeroize()
	info.ActiveRsp.Zeroize()
	info.ShadowReq.Zeroize()
	info.ShadowRsp.Zeroize()
	info.BackupReq.Zeroize()
	info.BackupRsp.Zeroize()
	*info = Info{SessionID: InvalidSessionID}
}
