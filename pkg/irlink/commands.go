// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package irlink

import "fmt"

// Command builder functions create Message structs ready for encoding.
// These are convenience wrappers around NewMessage that ensure correct
// payload key usage.

// NewTransmit creates a TRANSMIT message (0x10). The bridge modulates the
// pulse sequence onto the given carrier and replies with TRANSMIT_ACK.
func NewTransmit(carrierHz uint32, pulses []uint32) *Message {
	arr := make([]interface{}, len(pulses))
	for i, p := range pulses {
		arr[i] = uint64(p)
	}
	return NewMessage(MsgTransmit, map[int]interface{}{
		KeyCarrierHz: uint64(carrierHz),
		KeyPulses:    arr,
	})
}

// NewCaptureStart creates a CAPTURE_START message (0x11). The bridge
// begins streaming CAPTURE_DATA messages, one per received IR burst.
func NewCaptureStart() *Message {
	return NewMessage(MsgCaptureStart, nil)
}

// NewCaptureStop creates a CAPTURE_STOP message (0x12)
func NewCaptureStop() *Message {
	return NewMessage(MsgCaptureStop, nil)
}

// NewPingRequest creates a PING_REQUEST message (0x1F).
// The bridge responds with PING_RESPONSE containing its uptime.
func NewPingRequest() *Message {
	return NewMessage(MsgPingRequest, nil)
}

// CapturedPulses extracts the pulse sequence from a CAPTURE_DATA message
func CapturedPulses(m *Message) ([]uint32, error) {
	if m.Type() != MsgCaptureData {
		return nil, fmt.Errorf("not a CAPTURE_DATA message: 0x%02X", m.Type())
	}
	if err := m.ParseError(); err != nil {
		return nil, err
	}
	pulses, ok := GetMapPulses(m.PayloadMap(), KeyCaptured)
	if !ok {
		return nil, fmt.Errorf("CAPTURE_DATA message missing pulse array")
	}
	return pulses, nil
}

// Uptime extracts the uptime in milliseconds from a PING_RESPONSE message
func Uptime(m *Message) (uint64, error) {
	if m.Type() != MsgPingResponse {
		return 0, fmt.Errorf("not a PING_RESPONSE message: 0x%02X", m.Type())
	}
	uptime, ok := GetMapUint(m.PayloadMap(), KeyUptimeMs)
	if !ok {
		return 0, fmt.Errorf("PING_RESPONSE message missing uptime")
	}
	return uptime, nil
}

// FormatMessageType returns the human-readable name for a message type
func FormatMessageType(msgType uint8) string {
	switch msgType {
	case MsgTransmit:
		return "TRANSMIT"
	case MsgCaptureStart:
		return "CAPTURE_START"
	case MsgCaptureStop:
		return "CAPTURE_STOP"
	case MsgPingRequest:
		return "PING_REQUEST"
	case MsgTransmitAck:
		return "TRANSMIT_ACK"
	case MsgCaptureData:
		return "CAPTURE_DATA"
	case MsgPingResponse:
		return "PING_RESPONSE"
	case MsgErrorInvalidCmd:
		return "ERROR_INVALID_CMD"
	case MsgErrorBadCRC:
		return "ERROR_BAD_CRC"
	default:
		return "UNKNOWN"
	}
}
