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
	"github.com/sage-x-project/spdm/primitive"
	"github.com/sage-x-project/spdm/spdmerr"
)

// CreateUpdate derives dir's next data-epoch keys from the current active
// data secret via HKDF-Expand(..., "upd") and stages them in the shadow
// slot, per spec.md §4.3's two-phase KEY_UPDATE. Seq resets to 0 in the new
// epoch; the prior active keys are preserved untouched until Activate is
// called — they are not yet in the backup slot (Activate with useNewKey
// true moves them there).
func CreateUpdate(b primitive.Backend, info *Info, dir Direction) error {
	if info.Master == nil {
		return spdmerr.NewSession("session.CreateUpdate", spdmerr.InvalidParameter, info.SessionID, nil)
	}

	var currentSecret *[]byte
	if dir == Requester {
		currentSecret = &info.Master.ReqDataSecret
	} else {
		currentSecret = &info.Master.RspDataSecret
	}

	nextSecret, err := DeriveUpdatedSecret(b, info.HashAlg, *currentSecret)
	if err != nil {
		return err
	}
	keys, err := deriveDirectionalKeys(b, info.HashAlg, info.AEADAlg, nextSecret)
	if err != nil {
		return err
	}

	*currentSecret = nextSecret
	*info.Shadow(dir) = keys
	if dir == Requester {
		info.ReqUpdatePending = true
	} else {
		info.RspUpdatePending = true
	}
	return nil
}

// Activate atomically swaps dir's shadow keys into the active slot,
// called once VERIFY_NEW_KEY confirms both sides hold the new epoch.
//
// When useNewKey is true this is the ordinary successful-update path: the
// previously-active keys move to backup (recoverable for one more round in
// case the peer lags), and the shadow slot is cleared.
//
// When useNewKey is false this is the race-recovery promotion described in
// spec.md §4.3: a record already arrived encrypted under the OLD keys, so
// instead of activating the shadow, the backup (which still holds the old
// epoch) is promoted back to active, and CreateUpdate is re-run immediately
// by the caller to re-stage a fresh shadow — restoring the invariant that
// the previously-active epoch is now the new shadow.
func Activate(b primitive.Backend, info *Info, dir Direction, useNewKey bool) error {
	if useNewKey {
		if !(dir == Requester && info.ReqUpdatePending || dir == Responder && info.RspUpdatePending) {
			return spdmerr.NewSession("session.Activate", spdmerr.InvalidParameter, info.SessionID, nil)
		}
		*info.Backup(dir) = *info.Active(dir)
		info.setBackupValid(dir, true)
		*info.Active(dir) = *info.Shadow(dir)
		*info.Shadow(dir) = DirectionalKeys{}
	} else {
		if !info.BackupValid(dir) {
			return spdmerr.NewSession("session.Activate", spdmerr.InvalidParameter, info.SessionID, nil)
		}
		*info.Active(dir) = *info.Backup(dir)
		info.setBackupValid(dir, false)
		*info.Shadow(dir) = DirectionalKeys{}
	}
	if dir == Requester {
		info.ReqUpdatePending = false
	} else {
		info.RspUpdatePending = false
	}
	return nil
}

// ReconcileAfterShadowRetry implements the race-recovery dance in spec.md
// §4.3/§4.4: record.decode already retried with the backup key and
// succeeded, meaning the peer has not yet rotated. This permanently
// activates the backup epoch (useNewKey=false) and immediately re-derives
// a fresh shadow so the previously-active epoch becomes the new shadow
// again, absorbing the race without losing the update.
func ReconcileAfterShadowRetry(b primitive.Backend, info *Info, dir Direction) error {
	if err := Activate(b, info, dir, false); err != nil {
		return err
	}
	return CreateUpdate(b, info, dir)
}
