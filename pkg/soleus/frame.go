// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package soleus

import (
	"fmt"
	"strings"
)

// Frame is the 9-byte protocol payload. Byte roles:
//
//	0    device id (always 0x19)
//	1    power state (0x80 normal, 0x81 sleep, 0x00 off)
//	2    fan speed (upper nibble) | operating mode (lower nibble)
//	3    reserved (0x00)
//	4    temperature byte or mode sentinel
//	5-7  reserved (0x00)
//	8    additive checksum over bytes 1, 2 and 4
//
// Frame is a value type; codecs return fresh frames and never share state.
type Frame [FrameLength]byte

// DeviceID returns byte 0
func (f Frame) DeviceID() byte {
	return f[0]
}

// PowerState returns byte 1
func (f Frame) PowerState() byte {
	return f[1]
}

// FanMode returns byte 2 (fan nibble | mode nibble)
func (f Frame) FanMode() byte {
	return f[2]
}

// FanNibble returns the upper nibble of byte 2
func (f Frame) FanNibble() byte {
	return f[2] & 0xF0
}

// ModeNibble returns the lower nibble of byte 2
func (f Frame) ModeNibble() byte {
	return f[2] & 0x0F
}

// TempValue returns byte 4
func (f Frame) TempValue() byte {
	return f[4]
}

// Checksum returns byte 8 as carried in the frame
func (f Frame) Checksum() byte {
	return f[8]
}

// ComputeChecksum returns the additive checksum over the power state,
// fan/mode byte and temperature byte. Byte arithmetic is mod 256.
func (f Frame) ComputeChecksum() byte {
	return Checksum(f[1], f[2], f[4])
}

// Checksum computes the frame checksum from its three covered bytes
func Checksum(powerState, fanMode, tempValue byte) byte {
	return powerState + fanMode + tempValue
}

// String formats the frame as space-separated hex bytes,
// e.g. "19 80 31 00 4F 00 00 00 00"
func (f Frame) String() string {
	var b strings.Builder
	for i, v := range f {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%02X", v)
	}
	return b.String()
}

// ParseFrame parses a frame from space-separated hex bytes, the inverse of
// Frame.String. Accepts any whitespace between bytes.
func ParseFrame(s string) (Frame, error) {
	var f Frame
	fields := strings.Fields(s)
	if len(fields) != FrameLength {
		return Frame{}, fmt.Errorf("expected %d bytes, got %d", FrameLength, len(fields))
	}
	for i, field := range fields {
		var v byte
		if _, err := fmt.Sscanf(field, "%02X", &v); err != nil {
			return Frame{}, fmt.Errorf("invalid hex byte %q at index %d", field, i)
		}
		f[i] = v
	}
	return f, nil
}

// TempToByte converts a Fahrenheit temperature to its protocol byte value.
// Valid only for temperatures in [TempMinF, TempMaxF].
func TempToByte(tempF int) (byte, error) {
	if tempF < TempMinF || tempF > TempMaxF {
		return 0, fmt.Errorf("%w: %dF (valid %d-%d)", ErrTemperatureOutOfRange, tempF, TempMinF, TempMaxF)
	}
	return TempBase + byte(tempF-TempMinF), nil
}

// ByteToTemp converts a protocol temperature byte back to Fahrenheit
func ByteToTemp(b byte) int {
	return int(b) - TempBase + TempMinF
}
