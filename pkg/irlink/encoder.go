package irlink

import (
	"encoding/binary"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Encode encodes a message to wire format: framing bytes around the
// byte-stuffed data section (length, CBOR payload, CRC).
func Encode(m *Message) ([]byte, error) {
	return EncodeFromValues(m.Type(), m.PayloadMap())
}

// EncodeFromValues creates a complete wire-formatted link packet from a
// message type and payload map, ready for transmission.
func EncodeFromValues(msgType uint8, payloadMap map[int]interface{}) ([]byte, error) {
	cborPayload, err := encodeCBORPayload(msgType, payloadMap)
	if err != nil {
		return nil, fmt.Errorf("failed to encode CBOR payload: %w", err)
	}

	if len(cborPayload) > MaxPayloadSize {
		return nil, fmt.Errorf("CBOR payload too large: %d bytes (max %d)", len(cborPayload), MaxPayloadSize)
	}

	// Data section: 2-byte big-endian length + CBOR payload.
	// This is what gets CRC'd and byte-stuffed.
	data := make([]byte, 2+len(cborPayload))
	binary.BigEndian.PutUint16(data[0:2], uint16(len(cborPayload)))
	copy(data[2:], cborPayload)

	crc := CalculateCRC(data)
	data = append(data, byte(crc>>8), byte(crc&0xFF))

	stuffed := stuffBytes(data)

	packet := make([]byte, 0, len(stuffed)+2)
	packet = append(packet, StartByte)
	packet = append(packet, stuffed...)
	packet = append(packet, EndByte)

	return packet, nil
}

// encodeCBORPayload creates the CBOR-encoded payload for a message
func encodeCBORPayload(msgType uint8, payloadMap map[int]interface{}) ([]byte, error) {
	var msg interface{}
	if len(payloadMap) == 0 {
		msg = []interface{}{uint64(msgType), nil}
	} else {
		msg = []interface{}{uint64(msgType), payloadMap}
	}
	return cbor.Marshal(msg)
}

// stuffBytes applies byte stuffing to escape special bytes.
// Special bytes (START, END, ESC) are replaced with ESC + (byte XOR EscXor).
func stuffBytes(data []byte) []byte {
	result := make([]byte, 0, len(data)*2)
	for _, b := range data {
		if b == StartByte || b == EndByte || b == EscByte {
			result = append(result, EscByte, b^EscXor)
		} else {
			result = append(result, b)
		}
	}
	return result
}
