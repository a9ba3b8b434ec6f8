// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package soleus

// Mode represents the operating mode of the unit
type Mode int

// Operating modes
const (
	ModeOff Mode = iota
	ModeCool
	ModeAuto
	ModeFanOnly
	ModeDry
	ModeHeat // never captured from hardware; encode fails closed
)

// Fan represents the fan speed setting
type Fan int

// Fan speeds. FanUnknown is produced on decode when the fan nibble is not
// one of the three known values; the checksum has already passed at that
// point, so the frame is accepted and the fan speed is simply left unset.
const (
	FanUnknown Fan = iota
	FanLow
	FanMed
	FanHigh
)

// Preset represents a behavior modifier layered on top of COOL mode
type Preset int

// Presets
const (
	PresetNone Preset = iota
	PresetEco
	PresetSleep
)

// Command is the semantic state of the unit as selected on the remote.
// Commands are plain values; encode and decode never mutate their input.
type Command struct {
	Mode         Mode
	Fan          Fan
	Preset       Preset
	TemperatureF int // target temperature, Fahrenheit; meaningful only for temperature-bearing modes
}

// HasTemperature reports whether the command's mode carries a target
// temperature in the frame (plain COOL and the ECO/SLEEP presets).
func (c Command) HasTemperature() bool {
	return c.Mode == ModeCool
}

// String returns the mode name
func (m Mode) String() string {
	switch m {
	case ModeOff:
		return "OFF"
	case ModeCool:
		return "COOL"
	case ModeAuto:
		return "AUTO"
	case ModeFanOnly:
		return "FAN_ONLY"
	case ModeDry:
		return "DRY"
	case ModeHeat:
		return "HEAT"
	default:
		return "UNKNOWN"
	}
}

// String returns the fan speed name
func (f Fan) String() string {
	switch f {
	case FanLow:
		return "LOW"
	case FanMed:
		return "MED"
	case FanHigh:
		return "HIGH"
	default:
		return "UNKNOWN"
	}
}

// String returns the preset name
func (p Preset) String() string {
	switch p {
	case PresetNone:
		return "NONE"
	case PresetEco:
		return "ECO"
	case PresetSleep:
		return "SLEEP"
	default:
		return "UNKNOWN"
	}
}
