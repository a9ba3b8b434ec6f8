package soleus

import "fmt"

// EncodeCommand converts a semantic command into a 9-byte frame.
// Mode dispatch happens in a fixed priority order (FAN_ONLY, AUTO, DRY,
// HEAT, SLEEP preset, ECO preset, plain COOL) mirroring the remote's own
// behavior. DRY always forces the fan to LOW in the encoded frame; the
// input command is not mutated.
func EncodeCommand(c Command) (Frame, error) {
	var f Frame
	f[0] = DeviceID

	if c.Mode == ModeOff {
		// Power-off frames ignore fan speed and temperature entirely
		f[1] = PowerOff
		f[2] = PowerOffFanMode
		f[4] = TempByteFanOnly
		f[8] = f.ComputeChecksum()
		return f, nil
	}

	if c.Preset == PresetSleep {
		f[1] = PowerSleep
	} else {
		f[1] = PowerNormal
	}

	fanNibble := fanToNibble(c.Fan)

	switch {
	case c.Mode == ModeFanOnly:
		f[2] = fanNibble | NibbleFanOnly
		f[4] = TempByteFanOnly

	case c.Mode == ModeAuto:
		f[2] = fanNibble | NibbleAuto
		f[4] = TempByteAuto

	case c.Mode == ModeDry:
		// DRY only supports LOW fan; the requested speed is discarded
		f[2] = FanNibbleLow | NibbleDry
		f[4] = TempByteFanOnly

	case c.Mode == ModeHeat:
		// Heating byte values were never captured; fail closed
		return Frame{}, fmt.Errorf("%w: %s", ErrUnsupportedMode, c.Mode)

	case c.Preset == PresetSleep:
		tb, err := TempToByte(c.TemperatureF)
		if err != nil {
			return Frame{}, err
		}
		f[2] = fanNibble | NibbleSleep
		f[4] = tb

	case c.Preset == PresetEco:
		tb, err := TempToByte(c.TemperatureF)
		if err != nil {
			return Frame{}, err
		}
		f[2] = fanNibble | NibbleEco
		f[4] = tb

	default:
		// Plain COOL
		tb, err := TempToByte(c.TemperatureF)
		if err != nil {
			return Frame{}, err
		}
		f[2] = fanNibble | NibbleCool
		f[4] = tb
	}

	f[8] = f.ComputeChecksum()
	return f, nil
}

// fanToNibble maps a fan speed to its byte 2 upper nibble.
// Unset/unknown speeds fall back to MED, matching the physical remote's
// default selection.
func fanToNibble(fan Fan) byte {
	switch fan {
	case FanLow:
		return FanNibbleLow
	case FanMed:
		return FanNibbleMed
	case FanHigh:
		return FanNibbleHigh
	default:
		return FanNibbleMed
	}
}

// EncodePulses converts a frame into its mark/space pulse sequence:
// header pair, then two pulses per bit (MSB first, bytes in frame order),
// then the trailing mark. Always emits exactly PulseCount durations using
// the nominal timing constants; no jitter is applied.
func EncodePulses(f Frame) PulseSequence {
	pulses := make(PulseSequence, 0, PulseCount)
	pulses = append(pulses, HeaderMark, HeaderSpace)

	for _, b := range f {
		for bit := 7; bit >= 0; bit-- {
			pulses = append(pulses, BitMark)
			if b&(1<<bit) != 0 {
				pulses = append(pulses, OneSpace)
			} else {
				pulses = append(pulses, ZeroSpace)
			}
		}
	}

	return append(pulses, BitMark)
}
