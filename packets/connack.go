// SPDX-License-Identifier: MIT

package packets

import "bytes"

// Connack return codes. This broker only ever sends Accepted or
// UnspecifiedError: anything more granular than "it worked" or "it
// didn't" is outside this subset's scope.
const (
	ConnackAccepted         byte = 0x00
	ConnackUnspecifiedError byte = 0x80
)

// EncodeConnack writes a CONNACK packet: [0x20, 2, sessionPresent, code].
func EncodeConnack(buf *bytes.Buffer, sessionPresent bool, code byte) {
	fh := FixedHeader{Type: Connack, Remaining: 2}
	fh.Encode(buf)
	buf.WriteByte(boolByte(sessionPresent))
	buf.WriteByte(code)
}
