// SPDX-License-Identifier: MIT

package packets

import "bytes"

// EncodePingresp writes a PINGRESP packet: [0xD0, 0x00].
func EncodePingresp(buf *bytes.Buffer) {
	fh := FixedHeader{Type: Pingresp, Remaining: 0}
	fh.Encode(buf)
}
