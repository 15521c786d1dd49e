// SPDX-License-Identifier: MIT

package broker

import (
	"io"
	"log/slog"

	"github.com/lanternmq/broker/key"
	"github.com/lanternmq/broker/transport"
)

// Key is the constraint Server requires of its topic-key type: it must
// satisfy key.Key (decodable back to a topic string) and be comparable
// (usable as the Datastore's map key).
type Key interface {
	key.Key
	comparable
}

// Server owns a single Datastore and Clock and dispatches decoded
// packets against them. It holds no per-connection state itself: that
// lives in the Session each caller threads through Dispatch.
type Server[K Key] struct {
	ds     Datastore[K]
	codec  key.Codec[K]
	clock  transport.Clock
	logger *slog.Logger
}

// New returns a Server backed by ds, using codec to translate topic
// strings to and from K. If logger is nil, log output is discarded.
func New[K Key](ds Datastore[K], codec key.Codec[K], clock transport.Clock, logger *slog.Logger) *Server[K] {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server[K]{ds: ds, codec: codec, clock: clock, logger: logger}
}

// Close purges every observer this connection installed. Hosts must
// call this when a connection's read loop exits, per the Datastore's
// "dead peer" contract: the core does not detect a silently dead peer
// on its own.
func (s *Server[K]) Close(connID uint32) {
	s.ds.RemoveObserversForClient(connID)
}
