// SPDX-License-Identifier: MIT

// Package broker implements the dispatch server: it interprets a
// decoded packet, mutates the datastore, installs observers on
// SUBSCRIBE, and writes the appropriate response packet back over the
// originating connection.
package broker

import "github.com/lanternmq/broker/store"

// Datastore is the subset of *store.Store / *store.Guarded the Server
// needs. Declared here rather than imported concretely so a Server can
// run against either the lock-free core store (single read loop) or the
// Guarded wrapper (multiple read loops) without caring which.
type Datastore[K comparable] interface {
	Get(key K) (store.Entry, error)
	Set(key K, entry store.Entry)
	AddObserver(o store.Observer[K])
	RemoveObserversForClient(clientID uint32)
}
