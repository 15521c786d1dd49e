// SPDX-License-Identifier: MIT

package packets

// ConnectBody holds the fields parsed from a CONNECT packet's body.
// Keep-alive and the non-clean-session connect flags are read (to stay
// byte-accurate against the wire) but not interpreted further: this
// broker supports no session persistence and enforces no keep-alive
// timeout itself.
type ConnectBody struct {
	ProtocolName  string
	ProtocolLevel byte
	Flags         byte
	KeepAlive     uint16
	ClientID      string
}

// CleanSession reports bit 1 of the connect flags.
func (c ConnectBody) CleanSession() bool {
	return c.Flags&0x02 > 0
}

// ReadConnect parses a CONNECT packet's body from p.
func ReadConnect(p *Packet) (ConnectBody, error) {
	var c ConnectBody
	var err error

	// Protocol name: at most 6 bytes accepted ("MQTT" or "MQIsdp");
	// anything longer is malformed regardless of content.
	c.ProtocolName, err = p.ReadString(6)
	if err != nil {
		return c, err
	}

	c.ProtocolLevel, err = p.ReadByte()
	if err != nil {
		return c, err
	}

	c.Flags, err = p.ReadByte()
	if err != nil {
		return c, err
	}

	c.KeepAlive, err = p.ReadUint16()
	if err != nil {
		return c, err
	}

	// Client id: up to 23 bytes, per the original MQTT 3.1 limit.
	c.ClientID, err = p.ReadString(23)
	if err != nil {
		return c, err
	}

	return c, nil
}

// ValidProtocolName reports whether name is one of the two protocol
// names this broker accepts. This resolves the always-false
// strcmp(...) == 0 && strcmp(...) == 0 defect in the implementation this
// was ported from: the correct test is equality with either name, not
// both at once.
func ValidProtocolName(name string) bool {
	return name == "MQTT" || name == "MQIsdp"
}

// ClassifyProtocolLevel maps a CONNECT protocol level byte to the
// connection type it should install, or ProtocolUnknown if the level is
// outside {3, 4, 5}.
func ClassifyProtocolLevel(level byte) ProtocolVersion {
	switch level {
	case 3:
		return ProtocolMQTT31
	case 4:
		return ProtocolMQTT311
	case 5:
		return ProtocolMQTT5
	default:
		return ProtocolUnknown
	}
}
