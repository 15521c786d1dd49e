// SPDX-License-Identifier: MIT

package packets

import "errors"

var (
	// ErrMalformedVariableByteInteger is returned when decoding a
	// variable-byte integer would require a fifth continuation byte.
	ErrMalformedVariableByteInteger = errors.New("packets: malformed variable byte integer")

	// ErrInvalidFlags is returned when a fixed header's reserved bits
	// don't match the pattern the MQTT spec requires for that type.
	ErrInvalidFlags = errors.New("packets: invalid flags for packet type")

	// ErrBudgetExceeded is returned when a field read would consume more
	// bytes than remain in the packet's budget. The transport is not
	// touched; this is a parse-time contract violation, not a wire
	// fault.
	ErrBudgetExceeded = errors.New("packets: read exceeds remaining byte budget")

	// ErrTransportDead is returned when the underlying Connection's
	// Read/Write/Drain reported failure.
	ErrTransportDead = errors.New("packets: transport read or write failed")

	// ErrMalformedProtocolName names a CONNECT protocol name that is
	// neither "MQTT" nor "MQIsdp". ReadConnect does not return it: it
	// accepts any name up to 6 bytes, and ValidProtocolName is the check.
	ErrMalformedProtocolName = errors.New("packets: unrecognised protocol name")

	// ErrStringTooLong is returned when a length-prefixed string exceeds
	// the bound the caller imposed for that field (topic, client id).
	ErrStringTooLong = errors.New("packets: string exceeds field bound")

	// ErrWildcardUnsupported names a filter containing the single-level
	// '+' wildcard. ReadSubscribe does not return it: it reads the filter
	// as-is and leaves wildcard checks to its caller.
	ErrWildcardUnsupported = errors.New("packets: '+' wildcard is not supported")
)
