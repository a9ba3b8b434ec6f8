// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package irlink

import (
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Message represents a decoded link protocol message
type Message struct {
	length      uint16
	cborPayload []byte // Raw CBOR bytes: [msg_type, payload_map]
	crc         uint16
	timestamp   time.Time

	// Cached parsed values (lazy parsing)
	msgType    uint8
	payloadMap map[int]interface{}
	parsed     bool
	parseErr   error
}

// NewMessage creates a message from message type and payload map.
// The CBOR encoding and CRC are computed by the encoder on transmit.
func NewMessage(msgType uint8, payload map[int]interface{}) *Message {
	return &Message{
		msgType:    msgType,
		payloadMap: payload,
		parsed:     true,
		timestamp:  time.Now(),
	}
}

// ensureParsed parses the CBOR payload if not already done
func (m *Message) ensureParsed() {
	if m.parsed {
		return
	}
	m.parsed = true
	if len(m.cborPayload) == 0 {
		return
	}
	m.msgType, m.payloadMap, m.parseErr = parseCBORMessage(m.cborPayload)
}

// Type returns the message type (parsed from CBOR)
func (m *Message) Type() uint8 {
	m.ensureParsed()
	return m.msgType
}

// Payload returns the raw CBOR payload bytes
func (m *Message) Payload() []byte {
	return m.cborPayload
}

// PayloadMap returns the decoded payload map (nil for empty payloads)
func (m *Message) PayloadMap() map[int]interface{} {
	m.ensureParsed()
	return m.payloadMap
}

// ParseError returns any error from parsing the CBOR payload
func (m *Message) ParseError() error {
	m.ensureParsed()
	return m.parseErr
}

// CRC returns the message's CRC value
func (m *Message) CRC() uint16 {
	return m.crc
}

// Timestamp returns the message's decode timestamp
func (m *Message) Timestamp() time.Time {
	return m.timestamp
}

// parseCBORMessage parses a link message: [msg_type, payload_map]
func parseCBORMessage(data []byte) (msgType uint8, payload map[int]interface{}, err error) {
	var msg []interface{}
	if err := cbor.Unmarshal(data, &msg); err != nil {
		return 0, nil, fmt.Errorf("failed to decode CBOR: %w", err)
	}
	if len(msg) != 2 {
		return 0, nil, fmt.Errorf("expected 2-element array, got %d elements", len(msg))
	}

	switch v := msg[0].(type) {
	case uint64:
		if v > 255 {
			return 0, nil, fmt.Errorf("message type out of range: %d", v)
		}
		msgType = uint8(v)
	default:
		return 0, nil, fmt.Errorf("expected uint for message type, got %T", msg[0])
	}

	if msg[1] == nil {
		return msgType, nil, nil
	}

	switch v := msg[1].(type) {
	case map[interface{}]interface{}:
		payload = make(map[int]interface{})
		for key, val := range v {
			switch k := key.(type) {
			case uint64:
				payload[int(k)] = val
			case int64:
				payload[int(k)] = val
			default:
				return 0, nil, fmt.Errorf("expected integer map key, got %T", key)
			}
		}
	default:
		return 0, nil, fmt.Errorf("expected map or nil for payload, got %T", msg[1])
	}

	return msgType, payload, nil
}

// GetMapUint extracts a uint64 from a payload map by key
func GetMapUint(m map[int]interface{}, key int) (uint64, bool) {
	if m == nil {
		return 0, false
	}
	v, ok := m[key]
	if !ok {
		return 0, false
	}
	switch val := v.(type) {
	case uint64:
		return val, true
	case int64:
		if val >= 0 {
			return uint64(val), true
		}
		return 0, false
	}
	return 0, false
}

// GetMapPulses extracts a pulse duration array from a payload map by key.
// CBOR decodes numeric arrays as []interface{}; each element must be a
// non-negative integer that fits a uint32.
func GetMapPulses(m map[int]interface{}, key int) ([]uint32, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m[key]
	if !ok {
		return nil, false
	}
	raw, ok := v.([]interface{})
	if !ok {
		return nil, false
	}
	pulses := make([]uint32, len(raw))
	for i, e := range raw {
		switch val := e.(type) {
		case uint64:
			if val > 0xFFFFFFFF {
				return nil, false
			}
			pulses[i] = uint32(val)
		case int64:
			if val < 0 || val > 0xFFFFFFFF {
				return nil, false
			}
			pulses[i] = uint32(val)
		default:
			return nil, false
		}
	}
	return pulses, true
}
