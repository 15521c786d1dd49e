// SPDX-License-Identifier: MIT

package broker

// Session holds the per-connection state Dispatch needs across calls:
// the MQTT client identifier negotiated on CONNECT. It carries no
// subscription state of its own — subscriptions live as observers in
// the Datastore, indexed by the connection's transport ID, not by
// Session.
type Session struct {
	// ClientID is the identifier presented on CONNECT, or the one this
	// server assigned if the client left it empty.
	ClientID string

	// Connected is false until a CONNECT packet has been accepted. Every
	// other packet type is rejected with ErrMalformedPacket while false.
	Connected bool
}
