// SPDX-License-Identifier: MIT

package broker

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/lanternmq/broker/key"
	"github.com/lanternmq/broker/packets"
	"github.com/lanternmq/broker/store"
	"github.com/lanternmq/broker/transport"
	"github.com/rs/xid"
)

// Dispatch interprets one decoded packet against sess and the server's
// datastore, writing any response packet back over pkt's connection.
// Callers must have ReadNext'd pkt and deferred its Release before
// calling Dispatch; Dispatch itself never calls Release.
func (s *Server[K]) Dispatch(sess *Session, pkt *packets.Packet) error {
	if !sess.Connected && pkt.Type != packets.Connect {
		return fmt.Errorf("%w: first packet on a connection must be CONNECT", ErrMalformedPacket)
	}

	switch pkt.Type {
	case packets.Connect:
		return s.handleConnect(sess, pkt)
	case packets.Publish:
		return s.handlePublish(sess, pkt)
	case packets.Subscribe:
		return s.handleSubscribe(sess, pkt)
	case packets.Pingreq:
		return s.handlePingreq(pkt)
	case packets.Disconnect:
		return s.handleDisconnect(sess, pkt)
	default:
		return fmt.Errorf("%w: packet type %s not handled by this broker", ErrUnsupportedFeature, packets.Names[pkt.Type])
	}
}

func (s *Server[K]) handleConnect(sess *Session, pkt *packets.Packet) error {
	conn := pkt.Connection()

	c, err := packets.ReadConnect(pkt)
	if err != nil {
		return parseError(err)
	}

	if !packets.ValidProtocolName(c.ProtocolName) {
		s.writeConnack(conn, false, packets.ConnackUnspecifiedError)
		return fmt.Errorf("%w: unrecognised protocol name %q", ErrMalformedPacket, c.ProtocolName)
	}

	conn.SetConnectionType(classifyConnectionType(c.ProtocolLevel))

	clientID := c.ClientID
	if clientID == "" {
		clientID = xid.New().String()
	}

	sess.ClientID = clientID
	sess.Connected = true

	s.logger.Info("client connected",
		"client_id", clientID,
		"connection_id", conn.ID(),
		"clean_session", c.CleanSession())

	if !s.writeConnack(conn, false, packets.ConnackAccepted) {
		return ErrTransportDead
	}
	return nil
}

// parseError classifies a body-parse failure: a failed read on the
// transport is ErrTransportDead, anything else ErrMalformedPacket.
func parseError(err error) error {
	if errors.Is(err, packets.ErrTransportDead) {
		return fmt.Errorf("%w: %v", ErrTransportDead, err)
	}
	return fmt.Errorf("%w: %v", ErrMalformedPacket, err)
}

func classifyConnectionType(level byte) transport.ConnectionType {
	switch packets.ClassifyProtocolLevel(level) {
	case packets.ProtocolMQTT31:
		return transport.MQTT31
	case packets.ProtocolMQTT311:
		return transport.MQTT311
	case packets.ProtocolMQTT5:
		return transport.MQTT5
	default:
		return transport.Unknown
	}
}

func (s *Server[K]) writeConnack(conn transport.Connection, sessionPresent bool, code byte) bool {
	var buf bytes.Buffer
	packets.EncodeConnack(&buf, sessionPresent, code)
	return conn.Write(buf.Bytes())
}

func (s *Server[K]) handlePublish(sess *Session, pkt *packets.Packet) error {
	h, err := packets.ReadPublish(pkt)
	if err != nil {
		return parseError(err)
	}

	if isReservedTopic(h.Topic) {
		return fmt.Errorf("%w: publish to reserved topic %q", ErrUnsupportedFeature, h.Topic)
	}

	k, err := s.codec.Encode(h.Topic)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupportedFeature, err)
	}

	payload := make([]byte, pkt.BytesRemaining)
	if len(payload) > 0 {
		if err := pkt.ReadRaw(payload); err != nil {
			return fmt.Errorf("%w: %v", ErrTransportDead, err)
		}
	}

	entry := store.Entry{Payload: payload, Timestamp: s.clock.Timestamp()}
	s.ds.Set(k, entry)

	s.logger.Debug("publish", "client_id", sess.ClientID, "topic", h.Topic, "bytes", len(payload))
	return nil
}

func (s *Server[K]) handleSubscribe(sess *Session, pkt *packets.Packet) error {
	conn := pkt.Connection()

	h, filter, _, err := packets.ReadSubscribe(pkt)
	if err != nil {
		return parseError(err)
	}

	if pkt.BytesRemaining > 0 {
		var buf bytes.Buffer
		packets.EncodeSuback(&buf, h.PacketID, packets.SubackFailure)
		conn.Write(buf.Bytes())
		return fmt.Errorf("%w: SUBSCRIBE carries more than one filter", ErrUnsupportedFeature)
	}

	if strings.Contains(filter, "+") || isReservedTopic(filter) {
		var buf bytes.Buffer
		packets.EncodeSuback(&buf, h.PacketID, packets.SubackFailure)
		conn.Write(buf.Bytes())
		return fmt.Errorf("%w: subscription filter %q not supported", ErrUnsupportedFeature, filter)
	}

	matcher, kind, err := s.buildMatcher(filter)
	if err != nil {
		var buf bytes.Buffer
		packets.EncodeSuback(&buf, h.PacketID, packets.SubackFailure)
		conn.Write(buf.Bytes())
		return fmt.Errorf("%w: %v", ErrUnsupportedFeature, err)
	}

	dup := conn.Duplicate()
	connID := conn.ID()

	s.ds.AddObserver(store.Observer[K]{
		ClientID:    connID,
		FilterKind:  kind,
		FilterBytes: filter,
		Handler: func(k K, entry store.Entry) bool {
			if !matcher(k) {
				return true
			}
			var buf bytes.Buffer
			packets.EncodePublishHeader(&buf, k.String(), len(entry.Payload))
			if !dup.WritePartial(buf.Bytes()) {
				return false
			}
			return dup.Write(entry.Payload)
		},
	})

	s.logger.Info("client subscribed", "client_id", sess.ClientID, "filter", filter)

	var buf bytes.Buffer
	packets.EncodeSuback(&buf, h.PacketID, packets.SubackSuccessQos0)
	if !conn.Write(buf.Bytes()) {
		return ErrTransportDead
	}
	return nil
}

// buildMatcher turns a subscription filter into a matcher over K. A
// filter ending in '#' is a prefix subscription over everything it
// names up to the wildcard; any other filter matches exactly.
func (s *Server[K]) buildMatcher(filter string) (key.Matcher[K], store.FilterKind, error) {
	if strings.HasSuffix(filter, "#") {
		prefix := strings.TrimSuffix(filter, "#")
		target, err := s.codec.Encode(prefix)
		if err != nil {
			return nil, store.FilterPrefix, err
		}
		return s.codec.Prefix(target), store.FilterPrefix, nil
	}

	target, err := s.codec.Encode(filter)
	if err != nil {
		return nil, store.FilterFull, err
	}
	return s.codec.Full(target), store.FilterFull, nil
}

func (s *Server[K]) handlePingreq(pkt *packets.Packet) error {
	var buf bytes.Buffer
	packets.EncodePingresp(&buf)
	if !pkt.Connection().Write(buf.Bytes()) {
		return ErrTransportDead
	}
	return nil
}

func (s *Server[K]) handleDisconnect(sess *Session, pkt *packets.Packet) error {
	conn := pkt.Connection()
	s.ds.RemoveObserversForClient(conn.ID())
	s.logger.Info("client disconnected", "client_id", sess.ClientID)
	conn.Close()
	return nil
}

// isReservedTopic reports whether topic begins with '$', the MQTT
// convention for broker-reserved topics (e.g. $SYS/...). This broker
// exposes no reserved tree of its own, but a client must still never be
// able to Set or observe one by accident.
func isReservedTopic(topic string) bool {
	return strings.HasPrefix(topic, "$")
}
