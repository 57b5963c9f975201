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

// DeriveHandshakeSecret computes handshake_secret = HKDF-Extract(salt=0,
// ikm=dheSharedSecretOrPSKBinder), grounded on
// pkg/agent/session.hkdfExtractSHA256 generalized to the negotiated hash.
func DeriveHandshakeSecret(b primitive.Backend, h primitive.HashAlg, ikm []byte) ([]byte, error) {
	salt := make([]byte, h.Size())
	secret, err := b.HKDFExtract(h, salt, ikm)
	if err != nil {
		return nil, spdmerr.New("session.DeriveHandshakeSecret", spdmerr.DeviceError, err)
	}
	return secret, nil
}

// DeriveHandshakeKeys expands handshakeSecret into both directions' hs
// secrets, keyed by thAtKEResponse = H(TH) at the point KEY_EXCHANGE_RSP
// (or PSK_EXCHANGE_RSP) is sent/received, then further expands each hs
// secret into enc_key, iv_salt, and finished_key. Labels follow spec.md
// §4.3 verbatim.
func DeriveHandshakeKeys(b primitive.Backend, h primitive.HashAlg, aead primitive.AEADAlg, handshakeSecret, thAtKEResponse []byte) (*HandshakeSecret, error) {
	hs := &HandshakeSecret{Secret: handshakeSecret}

	reqSecret, err := b.HKDFExpandLabel(h, handshakeSecret, "req hs data", thAtKEResponse, h.Size())
	if err != nil {
		return nil, spdmerr.New("session.DeriveHandshakeKeys", spdmerr.DeviceError, err)
	}
	rspSecret, err := b.HKDFExpandLabel(h, handshakeSecret, "rsp hs data", thAtKEResponse, h.Size())
	if err != nil {
		return nil, spdmerr.New("session.DeriveHandshakeKeys", spdmerr.DeviceError, err)
	}
	hs.ReqSecret = reqSecret
	hs.RspSecret = rspSecret

	if hs.Req, err = deriveDirectionalKeys(b, h, aead, reqSecret); err != nil {
		return nil, err
	}
	if hs.Rsp, err = deriveDirectionalKeys(b, h, aead, rspSecret); err != nil {
		return nil, err
	}
	return hs, nil
}

// DeriveMasterSecret computes master_secret, req/rsp_data_secret (bound to
// H(TH) at FINISH), and an optional export_master_secret, then derives
// both directions' application-epoch keys.
func DeriveMasterSecret(b primitive.Backend, h primitive.HashAlg, aead primitive.AEADAlg, handshakeSecret, thAtFinish []byte) (*MasterSecret, error) {
	zero := make([]byte, h.Size())
	master, err := b.HKDFExtract(h, zero, handshakeSecret)
	if err != nil {
		return nil, spdmerr.New("session.DeriveMasterSecret", spdmerr.DeviceError, err)
	}

	ms := &MasterSecret{Secret: master}
	if ms.ReqDataSecret, err = b.HKDFExpandLabel(h, master, "req data", thAtFinish, h.Size()); err != nil {
		return nil, spdmerr.New("session.DeriveMasterSecret", spdmerr.DeviceError, err)
	}
	if ms.RspDataSecret, err = b.HKDFExpandLabel(h, master, "rsp data", thAtFinish, h.Size()); err != nil {
		return nil, spdmerr.New("session.DeriveMasterSecret", spdmerr.DeviceError, err)
	}
	if ms.ExportMasterSecret, err = b.HKDFExpandLabel(h, master, "exp master", thAtFinish, h.Size()); err != nil {
		return nil, spdmerr.New("session.DeriveMasterSecret", spdmerr.DeviceError, err)
	}

	if ms.Req, err = deriveDirectionalKeys(b, h, aead, ms.ReqDataSecret); err != nil {
		return nil, err
	}
	if ms.Rsp, err = deriveDirectionalKeys(b, h, aead, ms.RspDataSecret); err != nil {
		return nil, err
	}
	return ms, nil
}

// DeriveUpdatedSecret implements the KEY_UPDATE "upd" expansion: the next
// epoch's data secret is derived from the current one, with no TH binding
// (the transcript is already complete by the time KEY_UPDATE runs).
func DeriveUpdatedSecret(b primitive.Backend, h primitive.HashAlg, currentDataSecret []byte) ([]byte, error) {
	next, err := b.HKDFExpandLabel(h, currentDataSecret, "upd", nil, h.Size())
	if err != nil {
		return nil, spdmerr.New("session.DeriveUpdatedSecret", spdmerr.DeviceError, err)
	}
	return next, nil
}

// deriveDirectionalKeys expands an hs/data secret into key, iv, and
// finished_key material, seq always reset to 0 for a freshly derived
// epoch.
func deriveDirectionalKeys(b primitive.Backend, h primitive.HashAlg, aead primitive.AEADAlg, secret []byte) (DirectionalKeys, error) {
	var keys DirectionalKeys
	var err error
	if keys.EncKey, err = b.HKDFExpandLabel(h, secret, "key", nil, aead.KeySize()); err != nil {
		return DirectionalKeys{}, spdmerr.New("session.deriveDirectionalKeys", spdmerr.DeviceError, err)
	}
	if keys.IVSalt, err = b.HKDFExpandLabel(h, secret, "iv", nil, 12); err != nil {
		return DirectionalKeys{}, spdmerr.New("session.deriveDirectionalKeys", spdmerr.DeviceError, err)
	}
	if keys.FinishedKey, err = b.HKDFExpandLabel(h, secret, "finished", nil, h.Size()); err != nil {
		return DirectionalKeys{}, spdmerr.New("session.deriveDirectionalKeys", spdmerr.DeviceError, err)
	}
	keys.Seq = 0
	return keys, nil
}
