// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package irlink

import (
	"fmt"
	"time"
)

// Decoder implements the link protocol packet decoder state machine.
// Feed it one byte at a time; it resynchronizes on every START byte, so a
// stream joined mid-packet recovers at the next frame boundary.
type Decoder struct {
	state       int
	buffer      []byte
	bufferIndex int
	escapeNext  bool
	lengthBytes int // counter for the two length bytes
	message     *Message
}

// NewDecoder creates a new link protocol decoder
func NewDecoder() *Decoder {
	return &Decoder{
		state:  stateIdle,
		buffer: make([]byte, MaxPacketSize),
	}
}

// Reset resets the decoder state to idle
func (d *Decoder) Reset() {
	d.state = stateIdle
	d.bufferIndex = 0
	d.lengthBytes = 0
	d.escapeNext = false
	d.message = nil
}

// DecodeByte processes a single byte through the decoder state machine.
// Returns a completed message, or nil if the packet is incomplete.
// Returns an error if decoding fails.
func (d *Decoder) DecodeByte(b byte) (*Message, error) {
	// Handle byte stuffing
	if b == EscByte && !d.escapeNext {
		d.escapeNext = true
		return nil, nil
	}

	originalB := b
	if d.escapeNext {
		b ^= EscXor
		d.escapeNext = false
	}

	// Handle framing bytes
	if originalB == StartByte && !d.escapeNext {
		d.Reset()
		d.state = stateLength
		return nil, nil
	}

	if originalB == EndByte && !d.escapeNext {
		if d.state == stateCRC2 {
			// Packet complete - validate CRC
			msg := d.message
			calculatedCRC := CalculateCRC(d.buffer[:d.bufferIndex])

			if msg.crc != calculatedCRC {
				err := fmt.Errorf("CRC mismatch: expected 0x%04X, got 0x%04X", calculatedCRC, msg.crc)
				d.Reset()
				return nil, err
			}

			msg.timestamp = time.Now()

			d.Reset()
			return msg, nil
		}
		d.Reset()
		return nil, fmt.Errorf("unexpected END byte in state %d", d.state)
	}

	// State machine
	switch d.state {
	case stateIdle:
		// Waiting for START byte
		return nil, nil

	case stateLength:
		d.buffer[d.bufferIndex] = b
		d.bufferIndex++
		if d.lengthBytes == 0 {
			d.message = &Message{length: uint16(b) << 8}
			d.lengthBytes++
			return nil, nil
		}
		d.message.length |= uint16(b)
		if d.message.length > MaxPayloadSize {
			err := fmt.Errorf("invalid length: %d (max %d)", d.message.length, MaxPayloadSize)
			d.Reset()
			return nil, err
		}
		d.message.cborPayload = make([]byte, 0, d.message.length)
		if d.message.length == 0 {
			d.state = stateCRC1
		} else {
			d.state = statePayload
		}
		return nil, nil

	case statePayload:
		// Check for buffer overflow before accepting byte
		if d.bufferIndex >= MaxPacketSize {
			d.Reset()
			return nil, fmt.Errorf("buffer overflow: packet exceeds max size")
		}
		d.message.cborPayload = append(d.message.cborPayload, b)
		d.buffer[d.bufferIndex] = b
		d.bufferIndex++
		if len(d.message.cborPayload) >= int(d.message.length) {
			d.state = stateCRC1
		}
		return nil, nil

	case stateCRC1:
		d.message.crc = uint16(b) << 8
		d.state = stateCRC2
		return nil, nil

	case stateCRC2:
		d.message.crc |= uint16(b)
		// Wait for END byte
		return nil, nil

	default:
		d.Reset()
		return nil, fmt.Errorf("invalid state: %d", d.state)
	}
}

// Decode runs a full byte slice through the decoder and returns every
// completed message. Decode errors for individual packets are returned
// alongside the messages that did decode.
func (d *Decoder) Decode(data []byte) ([]*Message, []error) {
	var msgs []*Message
	var errs []error
	for _, b := range data {
		msg, err := d.DecodeByte(b)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if msg != nil {
			msgs = append(msgs, msg)
		}
	}
	return msgs, errs
}
