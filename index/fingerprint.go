// Copyright (C) 2026 The Boolidx Authors
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

package index

import (
	"encoding/hex"

	"github.com/dchest/siphash"
)

// fixed, non-secret keys: the fingerprint is a corruption/truncation
// check on intermediate block state, not an authentication tag.
const (
	fpKey0 = 0x9f17c3fd5efd3ce4
	fpKey1 = 0xdbf1ba5f07eee2c0
)

// fingerprint computes a 128-bit SipHash digest over a block's sorted
// dictionary bytes, used to detect a block file truncated or
// corrupted between being spilled and being consumed by the merger.
func fingerprint(dict []byte) (lo, hi uint64) {
	return siphash.Hash128(fpKey0, fpKey1, dict)
}

// fingerprintHex renders fingerprint as a short hex string suitable
// for a log line.
func fingerprintHex(dict []byte) string {
	lo, hi := fingerprint(dict)
	var buf [16]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(lo >> (8 * i))
		buf[8+i] = byte(hi >> (8 * i))
	}
	return hex.EncodeToString(buf[:])
}
