// SPDX-License-Identifier: MIT

package broker

import "errors"

// Error kinds returned by Dispatch. These replace the Status value type
// the implementation this was ported from used: idiomatic Go prefers a
// small set of sentinel errors callers can match with errors.Is over a
// string-message-plus-code struct.
var (
	// ErrTransportDead means a Read or Write on the connection failed
	// permanently. The host must tear the connection down.
	ErrTransportDead = errors.New("broker: transport dead")

	// ErrMalformedPacket means the packet's body did not parse per the
	// wire codec's rules. The stream is still synchronised (the caller's
	// deferred Packet.Release drains whatever was left unread), but the
	// packet itself could not be acted on.
	ErrMalformedPacket = errors.New("broker: malformed packet")

	// ErrUnsupportedFeature means the packet parsed fine but asked for
	// something this subset does not implement: a '+' wildcard, a
	// reserved '$'-prefixed topic, or a topic too long for the
	// configured key representation.
	ErrUnsupportedFeature = errors.New("broker: unsupported feature")
)
