// SPDX-License-Identifier: MIT

package transport

import (
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
)

// wsSocket is the reference-counted state shared between a WSConn and
// its duplicates. gorilla/websocket requires a single writer at a time,
// hence the write mutex.
type wsSocket struct {
	conn *websocket.Conn
	id   uint32
	refs atomic.Int32
	wmu  sync.Mutex
}

// WSConn is a Connection implementation over a gorilla/websocket
// connection. Unlike a raw TCP socket, WebSocket is message-oriented;
// WSConn hides that by treating the sequence of binary messages as one
// continuous byte stream, buffering the unread tail of the current
// message between Read/Drain calls.
type WSConn struct {
	s       *wsSocket
	ctype   ConnectionType
	pending []byte
}

// NewWSConn wraps an established websocket.Conn (post-upgrade) as a
// Connection with the given stable id.
func NewWSConn(conn *websocket.Conn, id uint32) *WSConn {
	s := &wsSocket{conn: conn, id: id}
	s.refs.Store(1)
	return &WSConn{s: s}
}

// fill ensures there is at least one unread byte buffered, reading the
// next WebSocket message if the current one is exhausted.
func (c *WSConn) fill() bool {
	if len(c.pending) > 0 {
		return true
	}
	_, data, err := c.s.conn.ReadMessage()
	if err != nil {
		return false
	}
	c.pending = data
	return true
}

// Read fills buf entirely, pulling as many WebSocket messages as needed.
func (c *WSConn) Read(buf []byte) bool {
	for len(buf) > 0 {
		if !c.fill() {
			return false
		}
		n := copy(buf, c.pending)
		buf = buf[n:]
		c.pending = c.pending[n:]
	}
	return true
}

// Drain discards exactly n bytes, pulling as many WebSocket messages as
// needed.
func (c *WSConn) Drain(n int) bool {
	for n > 0 {
		if !c.fill() {
			return false
		}
		d := n
		if d > len(c.pending) {
			d = len(c.pending)
		}
		c.pending = c.pending[d:]
		n -= d
	}
	return true
}

// Write sends buf as a single binary WebSocket message.
func (c *WSConn) Write(buf []byte) bool {
	c.s.wmu.Lock()
	defer c.s.wmu.Unlock()
	return c.s.conn.WriteMessage(websocket.BinaryMessage, buf) == nil
}

// WritePartial sends buf as its own binary WebSocket message, same as
// Write. Splitting a logical packet across two WebSocket messages is
// safe here because Read treats message boundaries as invisible.
func (c *WSConn) WritePartial(buf []byte) bool {
	return c.Write(buf)
}

// Close releases this handle, closing the underlying socket once every
// duplicate has also been closed.
func (c *WSConn) Close() {
	if c.s.refs.Add(-1) == 0 {
		_ = c.s.conn.Close()
	}
}

// Duplicate returns a new handle sharing the same underlying socket.
func (c *WSConn) Duplicate() Connection {
	c.s.refs.Add(1)
	return &WSConn{s: c.s, ctype: c.ctype}
}

// ID returns the stable identifier assigned when this connection was
// accepted.
func (c *WSConn) ID() uint32 {
	return c.s.id
}

// ConnectionType returns the negotiated protocol version.
func (c *WSConn) ConnectionType() ConnectionType {
	return c.ctype
}

// SetConnectionType records the negotiated protocol version.
func (c *WSConn) SetConnectionType(t ConnectionType) {
	c.ctype = t
}
