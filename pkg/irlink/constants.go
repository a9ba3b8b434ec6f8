// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package irlink implements the Zephyr IR bridge link protocol.
//
// The bridge is a small transceiver (USB serial dongle or WebSocket
// endpoint) that turns pulse timing sequences into modulated infrared
// light and streams received pulse sequences back. The link protocol is a
// byte-stuffed frame carrying a CBOR payload:
//
//	START | length | CBOR [msg_type, payload_map] | CRC16 | END
//
// The CRC-16-CCITT covers the length byte and the CBOR payload. Pulse
// sequences travel as CBOR arrays of microsecond durations.
package irlink

// Protocol framing bytes
const (
	StartByte = 0x7E
	EndByte   = 0x7F
	EscByte   = 0x7D
	EscXor    = 0x20
)

// Packet size limits. A full 147-pulse Soleus sequence encodes to roughly
// 400 bytes of CBOR, so the payload ceiling leaves generous headroom for
// longer protocols.
const (
	MaxPacketSize  = 1024
	MaxPayloadSize = 1020
)

// CRC-16-CCITT configuration
const (
	crcPolynomial = 0x1021
	crcInitial    = 0xFFFF
)

// Message types - Host -> Bridge 0x10-0x1F
const (
	MsgTransmit     = 0x10
	MsgCaptureStart = 0x11
	MsgCaptureStop  = 0x12
	MsgPingRequest  = 0x1F
)

// Message types - Bridge -> Host 0x20-0x2F
const (
	MsgTransmitAck  = 0x20
	MsgCaptureData  = 0x21
	MsgPingResponse = 0x2F
)

// Message types - Errors (Bridge -> Host) 0xE0-0xEF
const (
	MsgErrorInvalidCmd = 0xE0
	MsgErrorBadCRC     = 0xE1
)

// Payload map keys
const (
	KeyCarrierHz = 0 // MsgTransmit: carrier frequency in Hz
	KeyPulses    = 1 // MsgTransmit: pulse duration array
	KeyCaptured  = 0 // MsgCaptureData: pulse duration array
	KeyUptimeMs  = 0 // MsgPingResponse: bridge uptime
	KeyDetail    = 0 // error messages: offending byte or CRC value
)

// Decoder states (internal)
// No separate TYPE state - type is embedded in CBOR payload
const (
	stateIdle = iota
	stateLength
	statePayload
	stateCRC1
	stateCRC2
)
