// SPDX-License-Identifier: MIT

package transport

import (
	"io"
	"net"
	"sync/atomic"
)

// drainChunk is the scratch buffer size used when discarding unread
// packet bytes. Page-sized, as the core's drain-on-drop path expects.
const drainChunk = 4096

// socket is the reference-counted state shared by a NetConn and every
// handle produced by its Duplicate. The underlying net.Conn is only
// closed once every handle has been closed.
type socket struct {
	conn net.Conn
	id   uint32
	refs atomic.Int32
}

// NetConn is a Connection implementation over a plain net.Conn (TCP or
// Unix domain socket). It is cheap to Duplicate: duplicates share the
// same underlying socket and reference count, so only the last handle
// to Close actually tears down the connection.
type NetConn struct {
	s      *socket
	ctype  ConnectionType
	drainBuf []byte
}

// NewNetConn wraps conn as a Connection with the given stable id.
func NewNetConn(conn net.Conn, id uint32) *NetConn {
	s := &socket{conn: conn, id: id}
	s.refs.Store(1)
	return &NetConn{s: s, drainBuf: make([]byte, drainChunk)}
}

// Read fills buf entirely or returns false on a permanent error.
func (c *NetConn) Read(buf []byte) bool {
	_, err := io.ReadFull(c.s.conn, buf)
	return err == nil
}

// Drain discards exactly n bytes from the connection.
func (c *NetConn) Drain(n int) bool {
	for n > 0 {
		chunk := len(c.drainBuf)
		if n < chunk {
			chunk = n
		}
		if _, err := io.ReadFull(c.s.conn, c.drainBuf[:chunk]); err != nil {
			return false
		}
		n -= chunk
	}
	return true
}

// Write writes all of buf in a single underlying call.
func (c *NetConn) Write(buf []byte) bool {
	_, err := c.s.conn.Write(buf)
	return err == nil
}

// WritePartial behaves identically to Write for a TCP socket: the
// kernel is free to split the write regardless, so there is nothing
// extra to do to permit splitting.
func (c *NetConn) WritePartial(buf []byte) bool {
	return c.Write(buf)
}

// Close releases this handle. The underlying socket is only closed once
// every duplicate produced from it has also been closed.
func (c *NetConn) Close() {
	if c.s.refs.Add(-1) == 0 {
		_ = c.s.conn.Close()
	}
}

// Duplicate returns a new handle sharing the same underlying socket and
// reference count, safe to move into an observer closure.
func (c *NetConn) Duplicate() Connection {
	c.s.refs.Add(1)
	return &NetConn{s: c.s, ctype: c.ctype, drainBuf: make([]byte, drainChunk)}
}

// ID returns the stable identifier assigned when this connection was
// accepted.
func (c *NetConn) ID() uint32 {
	return c.s.id
}

// ConnectionType returns the negotiated protocol version.
func (c *NetConn) ConnectionType() ConnectionType {
	return c.ctype
}

// SetConnectionType records the negotiated protocol version.
func (c *NetConn) SetConnectionType(t ConnectionType) {
	c.ctype = t
}
