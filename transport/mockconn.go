// SPDX-License-Identifier: MIT

package transport

// MockConn is an in-memory Connection for tests: reads are served from
// a pre-loaded input buffer, writes accumulate in an output buffer, and
// duplicates share the same output buffer and read cursor so that
// assertions can observe everything written across an observer's
// lifetime.
type MockConn struct {
	state *mockState
	ctype ConnectionType
}

type mockState struct {
	in     []byte
	inPos  int
	out    []byte
	id     uint32
	closed bool
}

// NewMockConn returns a MockConn that will serve in as its read stream
// and accumulate writes into an internally owned output buffer.
func NewMockConn(id uint32, in []byte) *MockConn {
	return &MockConn{state: &mockState{in: in, id: id}}
}

// Out returns everything written to this connection so far.
func (c *MockConn) Out() []byte {
	return c.state.out
}

// Closed reports whether Close has been called.
func (c *MockConn) Closed() bool {
	return c.state.closed
}

// Read fills buf from the input buffer, failing if fewer bytes remain
// than requested.
func (c *MockConn) Read(buf []byte) bool {
	s := c.state
	if len(buf) > len(s.in)-s.inPos {
		return false
	}
	copy(buf, s.in[s.inPos:s.inPos+len(buf)])
	s.inPos += len(buf)
	return true
}

// Drain discards n bytes from the input buffer.
func (c *MockConn) Drain(n int) bool {
	s := c.state
	if n > len(s.in)-s.inPos {
		return false
	}
	s.inPos += n
	return true
}

// Write appends buf to the output buffer.
func (c *MockConn) Write(buf []byte) bool {
	c.state.out = append(c.state.out, buf...)
	return true
}

// WritePartial behaves identically to Write for the in-memory mock.
func (c *MockConn) WritePartial(buf []byte) bool {
	return c.Write(buf)
}

// Close marks the connection closed.
func (c *MockConn) Close() {
	c.state.closed = true
}

// Duplicate returns a handle sharing the same input cursor and output
// buffer, matching a real transport's reference-counted Duplicate.
func (c *MockConn) Duplicate() Connection {
	return &MockConn{state: c.state, ctype: c.ctype}
}

// ID returns the id this MockConn was constructed with.
func (c *MockConn) ID() uint32 {
	return c.state.id
}

// ConnectionType returns the negotiated protocol version.
func (c *MockConn) ConnectionType() ConnectionType {
	return c.ctype
}

// SetConnectionType records the negotiated protocol version.
func (c *MockConn) SetConnectionType(t ConnectionType) {
	c.ctype = t
}
