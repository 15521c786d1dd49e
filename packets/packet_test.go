// SPDX-License-Identifier: MIT

package packets

import (
	"bytes"
	"testing"

	"github.com/lanternmq/broker/transport"
	"github.com/stretchr/testify/require"
)

func TestReadNextDecodesFixedHeader(t *testing.T) {
	conn := transport.NewMockConn(1, []byte{0x20, 0x02, 0x00, 0x00})
	pkt, ok := ReadNext(conn)
	require.True(t, ok)
	require.Equal(t, Connack, pkt.Type)
	require.Equal(t, 2, pkt.Remaining)
	require.Equal(t, uint32(2), pkt.BytesRemaining)
}

func TestReleaseDrainsUnconsumedBytes(t *testing.T) {
	conn := transport.NewMockConn(1, []byte{0x20, 0x02, 0xAA, 0xBB})
	pkt, ok := ReadNext(conn)
	require.True(t, ok)

	require.True(t, pkt.Release())
	require.Equal(t, uint32(0), pkt.BytesRemaining)

	// Nothing left for a subsequent read: the stream is re-synchronised.
	var b [1]byte
	require.False(t, conn.Read(b[:]))
}

func TestReadByteConsumesBudget(t *testing.T) {
	conn := transport.NewMockConn(1, []byte{0x20, 0x01, 0x7B})
	pkt, ok := ReadNext(conn)
	require.True(t, ok)
	defer pkt.Release()

	b, err := pkt.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte(0x7B), b)
	require.Equal(t, uint32(0), pkt.BytesRemaining)
}

func TestReadExceedingBudgetFailsWithoutTouchingTransport(t *testing.T) {
	conn := transport.NewMockConn(1, []byte{0x20, 0x01, 0x00})
	pkt, ok := ReadNext(conn)
	require.True(t, ok)
	defer pkt.Release()

	_, err := pkt.ReadUint16()
	require.ErrorIs(t, err, ErrBudgetExceeded)
	require.Equal(t, uint32(1), pkt.BytesRemaining)
}

func TestReadStringRejectsOverlongField(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(0x00)
	buf.WriteByte(0x04)
	buf.WriteString("abcd")

	fh := FixedHeader{Type: Connect, Remaining: 6}
	var header bytes.Buffer
	fh.Encode(&header)

	full := append(header.Bytes(), buf.Bytes()...)
	conn := transport.NewMockConn(1, full)
	pkt, ok := ReadNext(conn)
	require.True(t, ok)
	defer pkt.Release()

	_, err := pkt.ReadString(2)
	require.ErrorIs(t, err, ErrStringTooLong)
}
