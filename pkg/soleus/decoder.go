// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package soleus

import "fmt"

// PulseSequence is an ordered list of mark/space durations in microseconds,
// beginning with a mark. A complete frame is PulseCount entries long, but
// decoders tolerate extra trailing pulses.
type PulseSequence []uint32

// withinTolerance reports whether a received duration matches an expected
// nominal duration within the +/-25% decode window
func withinTolerance(actual uint32, expected uint32) bool {
	diff := int64(actual) - int64(expected)
	if diff < 0 {
		diff = -diff
	}
	return diff*toleranceDenom <= int64(expected)
}

// DecodePulses converts a pulse sequence back into a frame. The scan is a
// linear consuming pass that fails fast at the first duration outside its
// tolerance window:
//
//	header mark/space -> 72 bit pairs (MSB first) -> done
//
// Pulses after the 72nd bit (the trailing mark, inter-frame gaps) carry no
// data and are ignored. DecodePulses knows nothing about checksums or
// device ids; that is DecodeFrame's job.
func DecodePulses(pulses PulseSequence) (Frame, error) {
	var f Frame
	state := stateHeader
	pos := 0
	bit := 0

	next := func() (uint32, uint32, bool) {
		if pos+1 >= len(pulses) {
			return 0, 0, false
		}
		mark, space := pulses[pos], pulses[pos+1]
		pos += 2
		return mark, space, true
	}

	for state != stateDone {
		mark, space, ok := next()
		if !ok {
			return Frame{}, fmt.Errorf("%w: got %d of %d bits", ErrTruncatedFrame, bit, FrameBits)
		}

		switch state {
		case stateHeader:
			if !withinTolerance(mark, HeaderMark) || !withinTolerance(space, HeaderSpace) {
				return Frame{}, fmt.Errorf("%w: mark=%dus space=%dus", ErrHeaderMismatch, mark, space)
			}
			state = stateBits

		case stateBits:
			if !withinTolerance(mark, BitMark) {
				return Frame{}, fmt.Errorf("%w: bit %d mark=%dus", ErrBitPatternMismatch, bit, mark)
			}
			byteIndex := bit / 8
			bitIndex := 7 - bit%8
			switch {
			case withinTolerance(space, OneSpace):
				f[byteIndex] |= 1 << bitIndex
			case withinTolerance(space, ZeroSpace):
				// bit already zero
			default:
				return Frame{}, fmt.Errorf("%w: bit %d space=%dus", ErrBitPatternMismatch, bit, space)
			}
			bit++
			if bit >= FrameBits {
				state = stateDone
			}
		}
	}

	return f, nil
}

// DecodeFrame converts a frame back into a semantic command. The checksum
// is verified before any semantic field is read, so a corrupted frame can
// never decode into a valid-looking command. A frame with the wrong device
// id or checksum is "not our protocol", not a crash.
func DecodeFrame(f Frame) (Command, error) {
	if f.DeviceID() != DeviceID {
		return Command{}, fmt.Errorf("%w: 0x%02X", ErrBadDeviceID, f.DeviceID())
	}

	if expected := f.ComputeChecksum(); f.Checksum() != expected {
		return Command{}, fmt.Errorf("%w: expected 0x%02X, got 0x%02X", ErrChecksumMismatch, expected, f.Checksum())
	}

	// Power-off wins before any nibble dispatch, regardless of the rest
	// of the frame contents
	if f.PowerState() == PowerOff {
		return Command{Mode: ModeOff}, nil
	}

	// Fan speed is read independently of the mode nibble. Unknown fan
	// nibbles are tolerated (the checksum already passed); the speed is
	// simply left unset. See ValidateFrame for the advisory flag.
	var cmd Command
	switch f.FanNibble() {
	case FanNibbleLow:
		cmd.Fan = FanLow
	case FanNibbleMed:
		cmd.Fan = FanMed
	case FanNibbleHigh:
		cmd.Fan = FanHigh
	}

	switch f.ModeNibble() {
	case NibbleAuto:
		cmd.Mode = ModeAuto
	case NibbleCool:
		cmd.Mode = ModeCool
		cmd.TemperatureF = ByteToTemp(f.TempValue())
	case NibbleDry:
		cmd.Mode = ModeDry
		cmd.Fan = FanLow
	case NibbleFanOnly:
		cmd.Mode = ModeFanOnly
	case NibbleEco:
		cmd.Mode = ModeCool
		cmd.Preset = PresetEco
		cmd.TemperatureF = ByteToTemp(f.TempValue())
	case NibbleSleep:
		cmd.Mode = ModeCool
		cmd.Preset = PresetSleep
		cmd.TemperatureF = ByteToTemp(f.TempValue())
	default:
		return Command{}, fmt.Errorf("%w: 0x%X", ErrUnknownModeNibble, f.ModeNibble())
	}

	return cmd, nil
}
