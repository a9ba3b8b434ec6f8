// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package soleus implements the infrared remote protocol of the Soleus
// WS3-08E-201 saddle window air conditioner.
//
// The protocol is shared across a family of units built on the same
// Nantong Ningpu OEM baseband and sold under several brands. This package
// provides the frame codec (semantic command <-> 9-byte frame), the pulse
// codec (frame <-> mark/space timing sequence), and Pronto hex conversion.
//
// Heating-mode byte values have never been captured from hardware, so
// encoding ModeHeat fails with ErrUnsupportedMode rather than guessing.
package soleus

// Frame layout
const (
	FrameLength = 9

	DeviceID = 0x19 // byte 0, fixed protocol family id
)

// Power state values (byte 1)
const (
	PowerNormal = 0x80
	PowerSleep  = 0x81
	PowerOff    = 0x00
)

// Fan speed nibbles (upper nibble of byte 2)
const (
	FanNibbleLow  = 0x10
	FanNibbleMed  = 0x20
	FanNibbleHigh = 0x30
)

// Mode nibbles (lower nibble of byte 2)
const (
	NibbleAuto    = 0x0
	NibbleCool    = 0x1
	NibbleDry     = 0x2
	NibbleFanOnly = 0x3
	NibbleEco     = 0x5
	NibbleSleep   = 0x6
)

// Byte 2 value for a power-off frame (LOW fan + FAN_ONLY nibble)
const PowerOffFanMode = 0x13

// Temperature byte encoding (byte 4)
const (
	TempMinF = 62 // Fahrenheit
	TempMaxF = 86

	TempBase = 0x3E // byte value for 62F

	TempByteAuto    = 0x48 // fixed sentinel for AUTO
	TempByteFanOnly = 0x4F // shared by FAN_ONLY, DRY and power-off
)

// Pulse timing constants in microseconds, derived from Pronto captures
const (
	HeaderMark  = 8000
	HeaderSpace = 4000
	BitMark     = 600
	OneSpace    = 1600
	ZeroSpace   = 550
)

// Pulse sequence geometry: header pair, 72 bit pairs, trailing mark
const (
	FrameBits  = FrameLength * 8
	PulseCount = 2 + FrameBits*2 + 1
)

// Decode tolerance: a received duration matches an expected duration when
// it is within +/-25%, consistent with consumer IR receiver jitter.
const toleranceDenom = 4

// CarrierHz is the IR carrier frequency used by the remote
const CarrierHz = 38000

// Pulse decoder states (internal)
const (
	stateHeader = iota
	stateBits
	stateDone
)
