// SPDX-License-Identifier: MIT

package host

import (
	"net/http"
	"net/http/httptest"
	"testing"

	gorillaws "github.com/gorilla/websocket"
	"github.com/lanternmq/broker/broker"
	"github.com/lanternmq/broker/key"
	"github.com/lanternmq/broker/store"
	"github.com/lanternmq/broker/transport"
	"github.com/stretchr/testify/require"
)

type fixedClock struct{ t uint32 }

func (c fixedClock) Timestamp() uint32 { return c.t }

func newTestHost() (*Host[key.StringKey], *store.Store[key.StringKey]) {
	ds := store.New[key.StringKey]()
	srv := broker.New[key.StringKey](ds, key.StringCodec{}, fixedClock{t: 1}, nil)
	return New[key.StringKey](srv, fixedClock{t: 1}, nil), ds
}

var connectBytes = []byte{
	0x10, 0x1f, 0x00, 0x06, 0x4d, 0x51, 0x49, 0x73, 0x64, 0x70, 0x03, 0x02, 0x00, 0x3c,
	0x00, 0x11, 0x6d, 0x6f, 0x73, 0x71, 0x70, 0x75, 0x62, 0x7c, 0x31, 0x35, 0x36, 0x37,
	0x35, 0x2d, 0x65, 0x37, 0x63,
}

var disconnectBytes = []byte{0xE0, 0x00}

func TestReadLoopDispatchesConnectAndClosesOnDisconnect(t *testing.T) {
	h, _ := newTestHost()

	in := append(append([]byte{}, connectBytes...), disconnectBytes...)
	conn := transport.NewMockConn(1, in)

	h.readLoop(conn)

	require.Equal(t, byte(0x20), conn.Out()[0])
	require.True(t, conn.Closed())
}

func TestReadLoopPurgesObserversOnExit(t *testing.T) {
	h, ds := newTestHost()

	subscribeBytes := []byte{
		0x82, 0x0b, 0x00, 0x01, 0x00, 0x06, 0x74, 0x2f, 0x74, 0x65, 0x73, 0x74, 0x00,
	}
	in := append(append([]byte{}, connectBytes...), subscribeBytes...)
	in = append(in, disconnectBytes...)
	conn := transport.NewMockConn(7, in)

	h.readLoop(conn)

	require.Empty(t, ds.Observers())
}

func TestReadLoopStopsWhenInputIsShortOfAFullPacket(t *testing.T) {
	h, _ := newTestHost()
	conn := transport.NewMockConn(1, connectBytes[:len(connectBytes)-1])

	h.readLoop(conn)

	require.True(t, conn.Closed())
}

func TestWebsocketHandlerUpgradesAndDispatchesConnect(t *testing.T) {
	h, _ := newTestHost()

	ts := httptest.NewServer(h.WebsocketHandler())
	defer ts.Close()

	url := "ws" + ts.URL[len("http"):]
	wsConn, _, err := gorillaws.DefaultDialer.Dial(url, http.Header{})
	require.NoError(t, err)
	defer wsConn.Close()

	require.NoError(t, wsConn.WriteMessage(gorillaws.BinaryMessage, connectBytes))

	msgType, data, err := wsConn.ReadMessage()
	require.NoError(t, err)
	require.Equal(t, gorillaws.BinaryMessage, msgType)
	require.Equal(t, []byte{0x20, 0x02, 0x00, 0x00}, data)
}
