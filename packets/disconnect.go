// SPDX-License-Identifier: MIT

package packets

// DISCONNECT carries no body in this subset; ReadNext's decoded
// FixedHeader (Remaining == 0) is all a caller needs before closing the
// connection, so there is no ReadDisconnect. EncodeDisconnect exists for
// symmetry with the other emitters and because a future server-initiated
// disconnect (e.g. on a malformed packet) needs to send one.

import "bytes"

// EncodeDisconnect writes a DISCONNECT packet: [0xE0, 0x00].
func EncodeDisconnect(buf *bytes.Buffer) {
	fh := FixedHeader{Type: Disconnect, Remaining: 0}
	fh.Encode(buf)
}
