// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package soleus

import "fmt"

// AnomalyType represents different classes of frame anomalies
type AnomalyType int

const (
	AnomalyChecksum AnomalyType = iota
	AnomalyDeviceID
	AnomalyReservedByte
	AnomalyUnknownFanNibble
	AnomalyUnknownModeNibble
	AnomalyTempOutOfRange
	AnomalySentinelMismatch
)

// ValidationError represents a frame validation finding
type ValidationError struct {
	Type    AnomalyType
	Message string
	Details map[string]interface{}
}

// Error implements the error interface
func (v *ValidationError) Error() string {
	return v.Message
}

// ValidateFrame scans a frame for anomalies beyond the hard decode checks.
// The decoder deliberately tolerates some of these (an unknown fan nibble,
// a nonzero reserved byte hidden behind a matching checksum); ValidateFrame
// makes them visible to capture and analysis tooling without rejecting the
// frame. Returns an empty slice for a fully clean frame.
func ValidateFrame(f Frame) []ValidationError {
	errors := []ValidationError{}

	if f.DeviceID() != DeviceID {
		errors = append(errors, ValidationError{
			Type:    AnomalyDeviceID,
			Message: fmt.Sprintf("Unexpected device id 0x%02X (want 0x%02X)", f.DeviceID(), DeviceID),
			Details: map[string]interface{}{"device_id": f.DeviceID()},
		})
	}

	if expected := f.ComputeChecksum(); f.Checksum() != expected {
		errors = append(errors, ValidationError{
			Type:    AnomalyChecksum,
			Message: fmt.Sprintf("Checksum mismatch (expected 0x%02X, got 0x%02X)", expected, f.Checksum()),
			Details: map[string]interface{}{"expected": expected, "got": f.Checksum()},
		})
	}

	for _, i := range []int{3, 5, 6, 7} {
		if f[i] != 0x00 {
			errors = append(errors, ValidationError{
				Type:    AnomalyReservedByte,
				Message: fmt.Sprintf("Reserved byte %d is 0x%02X (want 0x00)", i, f[i]),
				Details: map[string]interface{}{"index": i, "value": f[i]},
			})
		}
	}

	// Power-off frames have a fixed shape; field checks below do not apply
	if f.PowerState() == PowerOff {
		return errors
	}

	switch f.FanNibble() {
	case FanNibbleLow, FanNibbleMed, FanNibbleHigh:
	default:
		// Tolerated by the decoder; possibly an untested protocol variant
		errors = append(errors, ValidationError{
			Type:    AnomalyUnknownFanNibble,
			Message: fmt.Sprintf("Unknown fan nibble 0x%X", f.FanNibble()>>4),
			Details: map[string]interface{}{"fan_nibble": f.FanNibble() >> 4},
		})
	}

	switch f.ModeNibble() {
	case NibbleCool, NibbleEco, NibbleSleep:
		if f.TempValue() < TempBase || f.TempValue() > TempBase+(TempMaxF-TempMinF) {
			errors = append(errors, ValidationError{
				Type: AnomalyTempOutOfRange,
				Message: fmt.Sprintf("Temperature byte 0x%02X outside 0x%02X-0x%02X",
					f.TempValue(), TempBase, TempBase+(TempMaxF-TempMinF)),
				Details: map[string]interface{}{"temp_byte": f.TempValue()},
			})
		}
	case NibbleAuto:
		if f.TempValue() != TempByteAuto {
			errors = append(errors, ValidationError{
				Type:    AnomalySentinelMismatch,
				Message: fmt.Sprintf("AUTO frame carries temp byte 0x%02X (want 0x%02X)", f.TempValue(), TempByteAuto),
				Details: map[string]interface{}{"temp_byte": f.TempValue()},
			})
		}
	case NibbleDry, NibbleFanOnly:
		if f.TempValue() != TempByteFanOnly {
			errors = append(errors, ValidationError{
				Type:    AnomalySentinelMismatch,
				Message: fmt.Sprintf("%s frame carries temp byte 0x%02X (want 0x%02X)", formatModeNibble(f.ModeNibble()), f.TempValue(), TempByteFanOnly),
				Details: map[string]interface{}{"temp_byte": f.TempValue()},
			})
		}
	default:
		errors = append(errors, ValidationError{
			Type:    AnomalyUnknownModeNibble,
			Message: fmt.Sprintf("Unknown mode nibble 0x%X", f.ModeNibble()),
			Details: map[string]interface{}{"mode_nibble": f.ModeNibble()},
		})
	}

	return errors
}
