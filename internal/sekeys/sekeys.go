// Copyright (C) 2024 SE Runtime Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package sekeys holds the SE's process-wide key material as an explicit,
// immutable value rather than package-level hidden state (spec §9: "place
// them in a single immutable module-level container and accept them as
// function parameters in unit tests"). In production these bytes would be
// provisioned per device; here they are build-time constants, matching
// the reference implementation's hard-coded keys.
package sekeys

import "golang.org/x/crypto/curve25519"

// Keys bundles the SE's symmetric key and its sealed-box keypair. KSE
// keys every SE-internal AEAD operation (E_K, C^in tokens, EWORDs,
// snippet ciphertexts are keyed by the per-program K_S, everything else
// by KSE). PubSE/PrivSE are used only to unseal the per-program shared
// key carried in the bytecode header.
type Keys struct {
	KSE     [32]byte
	PubSE   [32]byte
	PrivSE  [32]byte
}

// buildPrivSE is the SE's hard-coded X25519 private scalar. A real
// deployment would provision one such scalar per device at manufacturing
// time; this build embeds a single fixed value so every invocation of
// this binary shares one SE identity, mirroring the reference's static
// prvkey[32].
var buildPrivSE = [32]byte{
	0x2d, 0xc8, 0x72, 0x0f, 0xd4, 0x96, 0x4e, 0x38,
	0x74, 0x92, 0x22, 0xaa, 0xf5, 0x00, 0x6b, 0xc8,
	0xaf, 0x6d, 0x4c, 0xc6, 0x78, 0x85, 0xb0, 0x08,
	0x31, 0x83, 0x80, 0xc9, 0xc0, 0x14, 0x79, 0xb0,
}

// buildKSE is the SE's hard-coded symmetric key, used for every
// SE-internal AEAD call that is not keyed by a per-program shared key.
var buildKSE = [32]byte{
	0x02, 0x02, 0x02, 0x02, 0x02, 0x02, 0x02, 0x02,
	0x02, 0x02, 0x02, 0x02, 0x02, 0x02, 0x02, 0x02,
	0x02, 0x02, 0x02, 0x02, 0x02, 0x02, 0x02, 0x02,
	0x02, 0x02, 0x02, 0x02, 0x02, 0x02, 0x02, 0x02,
}

// Build returns the SE's key material for this binary. PubSE is derived
// from PrivSE via the curve25519 base-point multiplication rather than
// stored separately, so the two can never drift out of sync.
func Build() *Keys {
	k := &Keys{KSE: buildKSE, PrivSE: buildPrivSE}
	curve25519.ScalarBaseMult(&k.PubSE, &k.PrivSE)
	return k
}
