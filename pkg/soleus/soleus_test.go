// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package soleus

import (
	"errors"
	"testing"
)

// ============================================================
// Checksum Tests
// ============================================================

func TestChecksum_KnownValues(t *testing.T) {
	tests := []struct {
		name       string
		powerState byte
		fanMode    byte
		tempValue  byte
		expected   byte
	}{
		{"cool high 79F wraps to zero", 0x80, 0x31, 0x4F, 0x00},
		{"cool high 83F", 0x80, 0x31, 0x53, 0x04},
		{"dry", 0x80, 0x12, 0x4F, 0xE1},
		{"power off", 0x00, 0x13, 0x4F, 0x62},
		{"sleep low 70F", 0x81, 0x16, 0x46, 0xDD},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Checksum(tt.powerState, tt.fanMode, tt.tempValue)
			if got != tt.expected {
				t.Errorf("Checksum = 0x%02X, want 0x%02X", got, tt.expected)
			}
		})
	}
}

func TestChecksum_ModuloWrap(t *testing.T) {
	// 0x80 + 0xFF + 0xFF = 0x27E, must wrap mod 256
	if got := Checksum(0x80, 0xFF, 0xFF); got != 0x7E {
		t.Errorf("Checksum = 0x%02X, want 0x7E", got)
	}
}

// ============================================================
// Temperature Conversion Tests
// ============================================================

func TestTempToByte_Range(t *testing.T) {
	tests := []struct {
		tempF    int
		expected byte
		wantErr  bool
	}{
		{61, 0, true},
		{62, 0x3E, false},
		{70, 0x46, false},
		{79, 0x4F, false},
		{86, 0x56, false},
		{87, 0, true},
		{0, 0, true},
		{-40, 0, true},
	}

	for _, tt := range tests {
		b, err := TempToByte(tt.tempF)
		if tt.wantErr {
			if !errors.Is(err, ErrTemperatureOutOfRange) {
				t.Errorf("TempToByte(%d): want ErrTemperatureOutOfRange, got %v", tt.tempF, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("TempToByte(%d): unexpected error %v", tt.tempF, err)
			continue
		}
		if b != tt.expected {
			t.Errorf("TempToByte(%d) = 0x%02X, want 0x%02X", tt.tempF, b, tt.expected)
		}
	}
}

func TestByteToTemp_Inverse(t *testing.T) {
	for f := TempMinF; f <= TempMaxF; f++ {
		b, err := TempToByte(f)
		if err != nil {
			t.Fatalf("TempToByte(%d): %v", f, err)
		}
		if got := ByteToTemp(b); got != f {
			t.Errorf("ByteToTemp(TempToByte(%d)) = %d", f, got)
		}
	}
}

// ============================================================
// Frame Accessor / String Tests
// ============================================================

func TestFrame_Accessors(t *testing.T) {
	f := Frame{0x19, 0x80, 0x31, 0x00, 0x4F, 0x00, 0x00, 0x00, 0x00}

	if f.DeviceID() != 0x19 {
		t.Errorf("DeviceID = 0x%02X", f.DeviceID())
	}
	if f.PowerState() != 0x80 {
		t.Errorf("PowerState = 0x%02X", f.PowerState())
	}
	if f.FanNibble() != 0x30 {
		t.Errorf("FanNibble = 0x%02X", f.FanNibble())
	}
	if f.ModeNibble() != 0x1 {
		t.Errorf("ModeNibble = 0x%X", f.ModeNibble())
	}
	if f.TempValue() != 0x4F {
		t.Errorf("TempValue = 0x%02X", f.TempValue())
	}
	if f.ComputeChecksum() != 0x00 {
		t.Errorf("ComputeChecksum = 0x%02X", f.ComputeChecksum())
	}
}

func TestFrame_StringParseRoundTrip(t *testing.T) {
	f := Frame{0x19, 0x00, 0x13, 0x00, 0x4F, 0x00, 0x00, 0x00, 0x62}
	s := f.String()
	if s != "19 00 13 00 4F 00 00 00 62" {
		t.Errorf("String = %q", s)
	}

	parsed, err := ParseFrame(s)
	if err != nil {
		t.Fatalf("ParseFrame: %v", err)
	}
	if parsed != f {
		t.Errorf("ParseFrame round-trip mismatch: %v", parsed)
	}
}

func TestParseFrame_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"too short", "19 80 31"},
		{"too long", "19 80 31 00 4F 00 00 00 00 FF"},
		{"bad hex", "19 80 ZZ 00 4F 00 00 00 00"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseFrame(tt.input); err == nil {
				t.Error("expected error")
			}
		})
	}
}

// ============================================================
// Frame Decode Tests
// ============================================================

func TestDecodeFrame_BadDeviceID(t *testing.T) {
	f := Frame{0x20, 0x80, 0x31, 0x00, 0x4F, 0x00, 0x00, 0x00, 0x00}
	_, err := DecodeFrame(f)
	if !errors.Is(err, ErrBadDeviceID) {
		t.Errorf("want ErrBadDeviceID, got %v", err)
	}
}

func TestDecodeFrame_ChecksumMismatch(t *testing.T) {
	f := Frame{0x19, 0x80, 0x31, 0x00, 0x4F, 0x00, 0x00, 0x00, 0x01}
	_, err := DecodeFrame(f)
	if !errors.Is(err, ErrChecksumMismatch) {
		t.Errorf("want ErrChecksumMismatch, got %v", err)
	}
}

func TestDecodeFrame_ChecksumCheckedBeforeSemantics(t *testing.T) {
	// Unknown mode nibble AND bad checksum: the checksum error must win
	f := Frame{0x19, 0x80, 0x34, 0x00, 0x4F, 0x00, 0x00, 0x00, 0xFF}
	_, err := DecodeFrame(f)
	if !errors.Is(err, ErrChecksumMismatch) {
		t.Errorf("want ErrChecksumMismatch, got %v", err)
	}
}

func TestDecodeFrame_UnknownModeNibble(t *testing.T) {
	for _, nibble := range []byte{0x4, 0x7, 0x8, 0xF} {
		fanMode := byte(0x30) | nibble
		f := Frame{0x19, 0x80, fanMode, 0x00, 0x4F, 0x00, 0x00, 0x00, Checksum(0x80, fanMode, 0x4F)}
		_, err := DecodeFrame(f)
		if !errors.Is(err, ErrUnknownModeNibble) {
			t.Errorf("nibble 0x%X: want ErrUnknownModeNibble, got %v", nibble, err)
		}
	}
}

func TestDecodeFrame_PowerOffWinsBeforeNibbleDispatch(t *testing.T) {
	// byte1 == 0x00 forces OFF regardless of byte2/byte4 contents,
	// including mode nibbles that would otherwise be rejected
	fanMode := byte(0x4F) // unknown fan and mode nibbles
	f := Frame{0x19, 0x00, fanMode, 0x00, 0xAA, 0x00, 0x00, 0x00, Checksum(0x00, fanMode, 0xAA)}

	cmd, err := DecodeFrame(f)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	if cmd.Mode != ModeOff {
		t.Errorf("Mode = %s, want OFF", cmd.Mode)
	}
}

func TestDecodeFrame_ModeMapping(t *testing.T) {
	tests := []struct {
		name       string
		powerState byte
		fanMode    byte
		tempValue  byte
		want       Command
	}{
		{
			name: "auto", powerState: 0x80, fanMode: 0x20, tempValue: 0x48,
			want: Command{Mode: ModeAuto, Fan: FanMed},
		},
		{
			name: "cool low 62F", powerState: 0x80, fanMode: 0x11, tempValue: 0x3E,
			want: Command{Mode: ModeCool, Fan: FanLow, TemperatureF: 62},
		},
		{
			name: "cool high 86F", powerState: 0x80, fanMode: 0x31, tempValue: 0x56,
			want: Command{Mode: ModeCool, Fan: FanHigh, TemperatureF: 86},
		},
		{
			name: "dry forces low fan", powerState: 0x80, fanMode: 0x12, tempValue: 0x4F,
			want: Command{Mode: ModeDry, Fan: FanLow},
		},
		{
			name: "fan only", powerState: 0x80, fanMode: 0x23, tempValue: 0x4F,
			want: Command{Mode: ModeFanOnly, Fan: FanMed},
		},
		{
			name: "eco 75F", powerState: 0x80, fanMode: 0x15, tempValue: 0x4B,
			want: Command{Mode: ModeCool, Fan: FanLow, Preset: PresetEco, TemperatureF: 75},
		},
		{
			name: "sleep 70F", powerState: 0x81, fanMode: 0x26, tempValue: 0x46,
			want: Command{Mode: ModeCool, Fan: FanMed, Preset: PresetSleep, TemperatureF: 70},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Frame{0x19, tt.powerState, tt.fanMode, 0x00, tt.tempValue,
				0x00, 0x00, 0x00, Checksum(tt.powerState, tt.fanMode, tt.tempValue)}
			cmd, err := DecodeFrame(f)
			if err != nil {
				t.Fatalf("DecodeFrame: %v", err)
			}
			if cmd != tt.want {
				t.Errorf("DecodeFrame = %+v, want %+v", cmd, tt.want)
			}
		})
	}
}

func TestDecodeFrame_UnknownFanNibbleTolerated(t *testing.T) {
	// Fan nibble 0x4 is not a known speed; the decoder accepts the frame
	// (checksum already passed) and leaves the fan speed unset
	fanMode := byte(0x41)
	f := Frame{0x19, 0x80, fanMode, 0x00, 0x4F, 0x00, 0x00, 0x00, Checksum(0x80, fanMode, 0x4F)}

	cmd, err := DecodeFrame(f)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	if cmd.Fan != FanUnknown {
		t.Errorf("Fan = %s, want UNKNOWN", cmd.Fan)
	}
	if cmd.Mode != ModeCool || cmd.TemperatureF != 79 {
		t.Errorf("decoded %+v", cmd)
	}
}

// ============================================================
// Validator Tests
// ============================================================

func TestValidateFrame_Clean(t *testing.T) {
	f, err := EncodeCommand(Command{Mode: ModeCool, Fan: FanHigh, TemperatureF: 79})
	if err != nil {
		t.Fatalf("EncodeCommand: %v", err)
	}
	if findings := ValidateFrame(f); len(findings) != 0 {
		t.Errorf("expected no findings, got %v", findings)
	}
}

func TestValidateFrame_Anomalies(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Frame)
		expected AnomalyType
	}{
		{"checksum", func(f *Frame) { f[8] ^= 0x01 }, AnomalyChecksum},
		{"device id", func(f *Frame) { f[0] = 0x20 }, AnomalyDeviceID},
		{"reserved byte", func(f *Frame) { f[5] = 0x01 }, AnomalyReservedByte},
		{"fan nibble", func(f *Frame) { f[2] = 0x41 }, AnomalyUnknownFanNibble},
		{"mode nibble", func(f *Frame) { f[2] = 0x34 }, AnomalyUnknownModeNibble},
		{"temp byte", func(f *Frame) { f[4] = 0x20 }, AnomalyTempOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := EncodeCommand(Command{Mode: ModeCool, Fan: FanHigh, TemperatureF: 79})
			if err != nil {
				t.Fatalf("EncodeCommand: %v", err)
			}
			tt.mutate(&f)
			// Keep the checksum consistent for semantic anomalies so the
			// finding under test is not masked
			if tt.expected != AnomalyChecksum {
				f[8] = f.ComputeChecksum()
			}

			findings := ValidateFrame(f)
			found := false
			for _, v := range findings {
				if v.Type == tt.expected {
					found = true
				}
			}
			if !found {
				t.Errorf("expected anomaly %d in %v", tt.expected, findings)
			}
		})
	}
}

func TestValidateFrame_SentinelMismatch(t *testing.T) {
	f, err := EncodeCommand(Command{Mode: ModeAuto, Fan: FanLow})
	if err != nil {
		t.Fatalf("EncodeCommand: %v", err)
	}
	f[4] = 0x4F // FAN_ONLY sentinel in an AUTO frame
	f[8] = f.ComputeChecksum()

	findings := ValidateFrame(f)
	found := false
	for _, v := range findings {
		if v.Type == AnomalySentinelMismatch {
			found = true
		}
	}
	if !found {
		t.Errorf("expected sentinel mismatch in %v", findings)
	}
}
