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

package record

import (
	"github.com/sage-x-project/spdm/primitive"
	"github.com/sage-x-project/spdm/session"
	"github.com/sage-x-project/spdm/spdmerr"
)

// DecodeSession is Decode wired to a session.Info: it tries the active
// directional keys first and, on a security failure, retries once with
// the backup epoch if one is staged (spec.md §8 scenario 5 — the local
// side rotated keys via KEY_UPDATE before the peer confirmed receipt,
// and a record still under the old epoch arrives in the meantime). A
// successful backup decode permanently promotes backup->active and
// stages a fresh shadow via session.ReconcileAfterShadowRetry, the same
// explicit-parameter style (no back-pointer) session.Manager uses.
func DecodeSession(backend primitive.Backend, sessionID uint32, info *session.Info, dir session.Direction, wire []byte, seqNumBytes int) ([]byte, error) {
	active := info.Active(dir)
	payload, err := Decode(backend, info.AEADAlg, sessionID, active, info.Type, wire, seqNumBytes)
	if err == nil {
		return payload, nil
	}
	if spdmerr.KindOf(err) != spdmerr.SecurityViolation {
		return nil, err
	}
	if !info.BackupValid(dir) {
		return nil, err
	}

	backup := info.Backup(dir)
	payload, backupErr := Decode(backend, info.AEADAlg, sessionID, backup, info.Type, wire, seqNumBytes)
	if backupErr != nil {
		return nil, err
	}
	if err := session.ReconcileAfterShadowRetry(backend, info, dir); err != nil {
		return nil, err
	}
	return payload, nil
}
