// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package soleus

import (
	"fmt"
	"strings"
)

// FormatCommand formats a command as a single human-readable line
func FormatCommand(c Command) string {
	if c.Mode == ModeOff {
		return "OFF"
	}

	parts := []string{c.Mode.String()}
	if c.HasTemperature() {
		parts = append(parts, fmt.Sprintf("%dF", c.TemperatureF))
	}
	parts = append(parts, fmt.Sprintf("fan=%s", c.Fan))
	if c.Preset != PresetNone {
		parts = append(parts, fmt.Sprintf("preset=%s", c.Preset))
	}
	return strings.Join(parts, " ")
}

// FormatFrame formats a frame into a multi-line human-readable dump: the
// raw hex bytes followed by the decoded field values
func FormatFrame(f Frame) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Frame: %s\n", f)
	fmt.Fprintf(&b, "  Device:   0x%02X %s\n", f.DeviceID(), deviceNote(f.DeviceID()))
	fmt.Fprintf(&b, "  Power:    0x%02X (%s)\n", f.PowerState(), formatPowerState(f.PowerState()))
	fmt.Fprintf(&b, "  Fan/Mode: 0x%02X (fan=%s, mode=%s)\n", f.FanMode(),
		formatFanNibble(f.FanNibble()), formatModeNibble(f.ModeNibble()))
	fmt.Fprintf(&b, "  Temp:     0x%02X (%s)\n", f.TempValue(), formatTempValue(f))

	status := "ok"
	if f.Checksum() != f.ComputeChecksum() {
		status = fmt.Sprintf("BAD, expected 0x%02X", f.ComputeChecksum())
	}
	fmt.Fprintf(&b, "  Checksum: 0x%02X (%s)\n", f.Checksum(), status)

	return b.String()
}

func deviceNote(id byte) string {
	if id == DeviceID {
		return "(Soleus)"
	}
	return "(not Soleus)"
}

func formatPowerState(b byte) string {
	switch b {
	case PowerNormal:
		return "NORMAL"
	case PowerSleep:
		return "SLEEP"
	case PowerOff:
		return "OFF"
	default:
		return "UNKNOWN"
	}
}

func formatFanNibble(n byte) string {
	switch n {
	case FanNibbleLow:
		return "LOW"
	case FanNibbleMed:
		return "MED"
	case FanNibbleHigh:
		return "HIGH"
	default:
		return fmt.Sprintf("UNKNOWN(0x%X)", n>>4)
	}
}

func formatModeNibble(n byte) string {
	switch n {
	case NibbleAuto:
		return "AUTO"
	case NibbleCool:
		return "COOL"
	case NibbleDry:
		return "DRY"
	case NibbleFanOnly:
		return "FAN_ONLY"
	case NibbleEco:
		return "ECO"
	case NibbleSleep:
		return "SLEEP"
	default:
		return fmt.Sprintf("UNKNOWN(0x%X)", n)
	}
}

func formatTempValue(f Frame) string {
	switch f.ModeNibble() {
	case NibbleCool, NibbleEco, NibbleSleep:
		if f.PowerState() == PowerOff {
			return "n/a"
		}
		return fmt.Sprintf("%dF", ByteToTemp(f.TempValue()))
	case NibbleAuto:
		return "AUTO sentinel"
	default:
		return "sentinel"
	}
}

// FormatPulses formats a pulse sequence as comma-separated microsecond
// durations, 16 per line
func FormatPulses(pulses PulseSequence) string {
	var b strings.Builder
	for i, p := range pulses {
		if i > 0 {
			if i%16 == 0 {
				b.WriteString(",\n")
			} else {
				b.WriteString(", ")
			}
		}
		fmt.Fprintf(&b, "%d", p)
	}
	return b.String()
}
