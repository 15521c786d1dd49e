// SPDX-License-Identifier: MIT

// Package host wires the broker core to real listeners: it owns the
// accept loops, assigns connection ids, runs one read loop per
// connection, and purges a connection's observers when its loop exits.
// None of this is part of the core's own contract — it is the thinnest
// layer needed to run the core against a real TCP or WebSocket peer.
package host

import (
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"github.com/lanternmq/broker/broker"
	"github.com/lanternmq/broker/packets"
	"github.com/lanternmq/broker/transport"
)

// Host runs accept loops against a Server and dispatches every accepted
// connection onto its own goroutine, per the reference concurrency model:
// one goroutine per connection, all calling into a single store.Guarded
// datastore.
type Host[K broker.Key] struct {
	server   *broker.Server[K]
	clock    transport.Clock
	logger   *slog.Logger
	nextConn atomic.Uint32
}

// New returns a Host dispatching onto server. If logger is nil, log
// output is discarded.
func New[K broker.Key](server *broker.Server[K], clock transport.Clock, logger *slog.Logger) *Host[K] {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Host[K]{server: server, clock: clock, logger: logger}
}

func (h *Host[K]) nextConnID() uint32 {
	return h.nextConn.Add(1)
}

// ServeTCP accepts connections on ln until it is closed, running one
// read loop per accepted connection.
func (h *Host[K]) ServeTCP(ln net.Listener) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}
		nc := transport.NewNetConn(conn, h.nextConnID())
		go h.readLoop(nc)
	}
}

// WebsocketHandler returns an http.Handler that upgrades every request
// to a WebSocket and runs a read loop over it, for mounting on an
// http.ServeMux.
func (h *Host[K]) WebsocketHandler() http.Handler {
	upgrader := websocket.Upgrader{
		Subprotocols: []string{"mqtt"},
		CheckOrigin:  func(r *http.Request) bool { return true },
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Warn("websocket upgrade failed", "error", err)
			return
		}
		wc := transport.NewWSConn(conn, h.nextConnID())
		go h.readLoop(wc)
	})
}

// readLoop drives one connection until it disconnects or a terminal
// error is hit, then purges its observers so the datastore never writes
// to a dead peer again.
func (h *Host[K]) readLoop(conn transport.Connection) {
	connID := conn.ID()
	sess := &broker.Session{}

	defer func() {
		h.server.Close(connID)
		conn.Close()
	}()

	for {
		pkt, ok := packets.ReadNext(conn)
		if !ok {
			return
		}

		err := h.server.Dispatch(sess, pkt)
		pkt.Release()
		if err != nil {
			h.logger.Warn("dispatch error", "connection_id", connID, "error", err)
			if errors.Is(err, broker.ErrTransportDead) {
				return
			}
		}

		if pkt.Type == packets.Disconnect {
			return
		}
	}
}
