// SPDX-License-Identifier: MIT

package packets

import (
	"encoding/binary"

	"github.com/lanternmq/broker/transport"
)

// Packet represents one in-flight incoming MQTT packet: the decoded
// fixed header plus a live handle on the connection it is still being
// read from. BytesRemaining tracks exactly how many body bytes remain
// unconsumed on the wire.
//
// Packet is not self-closing the way the RAII type it was ported from
// is: callers MUST `defer pkt.Release()` immediately after a
// successful ReadNext, so that any bytes left unread when dispatch
// gives up are drained and the stream re-synchronises on the next fixed
// header. Failing to call Release leaks unread bytes into the next
// packet's header.
type Packet struct {
	FixedHeader
	BytesRemaining uint32
	conn           transport.Connection
}

// ReadNext blocks reading a fixed header from conn and returns a Packet
// carrying the announced body budget. Returns false if the fixed header
// itself could not be read (no Packet exists yet to drain in that case).
func ReadNext(conn transport.Connection) (*Packet, bool) {
	var control [1]byte
	if !conn.Read(control[:]) {
		return nil, false
	}

	var fh FixedHeader
	if err := decodeFlags(&fh, control[0]); err != nil {
		return nil, false
	}

	remaining, err := decodeVariableByteInteger(conn)
	if err != nil {
		return nil, false
	}
	fh.Remaining = remaining

	return &Packet{FixedHeader: fh, BytesRemaining: uint32(remaining), conn: conn}, true
}

// Connection returns the transport this packet is being read from.
func (p *Packet) Connection() transport.Connection {
	return p.conn
}

// Release drains any bytes left unconsumed in this packet's budget so
// the transport is positioned exactly at the next packet's fixed
// header. Safe to call on an already-exhausted packet.
func (p *Packet) Release() bool {
	if p.BytesRemaining == 0 {
		return true
	}
	ok := p.conn.Drain(int(p.BytesRemaining))
	p.BytesRemaining = 0
	return ok
}

// read consumes exactly len(buf) bytes from the budget into buf,
// failing without touching the transport if the budget is insufficient.
func (p *Packet) read(buf []byte) error {
	if uint32(len(buf)) > p.BytesRemaining {
		return ErrBudgetExceeded
	}
	if !p.conn.Read(buf) {
		return ErrTransportDead
	}
	p.BytesRemaining -= uint32(len(buf))
	return nil
}

// ReadByte consumes one budgeted byte.
func (p *Packet) ReadByte() (byte, error) {
	var buf [1]byte
	if err := p.read(buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// ReadUint16 consumes two budgeted big-endian bytes.
func (p *Packet) ReadUint16() (uint16, error) {
	var buf [2]byte
	if err := p.read(buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(buf[:]), nil
}

// ReadString consumes a length-prefixed UTF-8 string, failing with
// ErrStringTooLong if the declared length exceeds maxLen (0 means no
// bound beyond the packet's own budget).
func (p *Packet) ReadString(maxLen int) (string, error) {
	length, err := p.ReadUint16()
	if err != nil {
		return "", err
	}
	if maxLen > 0 && int(length) > maxLen {
		return "", ErrStringTooLong
	}
	buf := make([]byte, length)
	if length > 0 {
		if err := p.read(buf); err != nil {
			return "", err
		}
	}
	return string(buf), nil
}

// ReadRaw consumes exactly n budgeted bytes without interpretation, used
// to stream a PUBLISH payload straight into a caller-supplied buffer.
func (p *Packet) ReadRaw(buf []byte) error {
	return p.read(buf)
}
