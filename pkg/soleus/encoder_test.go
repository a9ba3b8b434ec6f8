// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package soleus

import (
	"errors"
	"testing"
)

// ============================================================
// Frame Encode Tests
// ============================================================

func TestEncodeCommand_KnownFrames(t *testing.T) {
	tests := []struct {
		name     string
		cmd      Command
		expected Frame
	}{
		{
			name:     "cool high 79F",
			cmd:      Command{Mode: ModeCool, Fan: FanHigh, TemperatureF: 79},
			expected: Frame{0x19, 0x80, 0x31, 0x00, 0x4F, 0x00, 0x00, 0x00, 0x00},
		},
		{
			name:     "cool high 83F",
			cmd:      Command{Mode: ModeCool, Fan: FanHigh, TemperatureF: 83},
			expected: Frame{0x19, 0x80, 0x31, 0x00, 0x53, 0x00, 0x00, 0x00, 0x04},
		},
		{
			name:     "power off",
			cmd:      Command{Mode: ModeOff},
			expected: Frame{0x19, 0x00, 0x13, 0x00, 0x4F, 0x00, 0x00, 0x00, 0x62},
		},
		{
			name:     "auto med",
			cmd:      Command{Mode: ModeAuto, Fan: FanMed},
			expected: Frame{0x19, 0x80, 0x20, 0x00, 0x48, 0x00, 0x00, 0x00, 0xE8},
		},
		{
			name:     "fan only low",
			cmd:      Command{Mode: ModeFanOnly, Fan: FanLow},
			expected: Frame{0x19, 0x80, 0x13, 0x00, 0x4F, 0x00, 0x00, 0x00, 0xE2},
		},
		{
			name:     "eco med 75F",
			cmd:      Command{Mode: ModeCool, Fan: FanMed, Preset: PresetEco, TemperatureF: 75},
			expected: Frame{0x19, 0x80, 0x25, 0x00, 0x4B, 0x00, 0x00, 0x00, 0xF0},
		},
		{
			name:     "sleep low 70F",
			cmd:      Command{Mode: ModeCool, Fan: FanLow, Preset: PresetSleep, TemperatureF: 70},
			expected: Frame{0x19, 0x81, 0x16, 0x00, 0x46, 0x00, 0x00, 0x00, 0xDD},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := EncodeCommand(tt.cmd)
			if err != nil {
				t.Fatalf("EncodeCommand: %v", err)
			}
			if f != tt.expected {
				t.Errorf("frame mismatch:\n  got  %s\n  want %s", f, tt.expected)
			}
		})
	}
}

func TestEncodeCommand_DryForcesLowFan(t *testing.T) {
	// DRY only supports LOW fan; HIGH input is normalized, not an error
	cmd := Command{Mode: ModeDry, Fan: FanHigh}
	f, err := EncodeCommand(cmd)
	if err != nil {
		t.Fatalf("EncodeCommand: %v", err)
	}

	expected := Frame{0x19, 0x80, 0x12, 0x00, 0x4F, 0x00, 0x00, 0x00, 0xE1}
	if f != expected {
		t.Errorf("frame mismatch:\n  got  %s\n  want %s", f, expected)
	}

	// Input command must not be mutated
	if cmd.Fan != FanHigh {
		t.Errorf("input command mutated: Fan = %s", cmd.Fan)
	}
}

func TestEncodeCommand_HeatUnsupported(t *testing.T) {
	_, err := EncodeCommand(Command{Mode: ModeHeat, Fan: FanHigh, TemperatureF: 75})
	if !errors.Is(err, ErrUnsupportedMode) {
		t.Errorf("want ErrUnsupportedMode, got %v", err)
	}
}

func TestEncodeCommand_TemperatureBoundaries(t *testing.T) {
	for _, tempF := range []int{61, 87} {
		_, err := EncodeCommand(Command{Mode: ModeCool, Fan: FanLow, TemperatureF: tempF})
		if !errors.Is(err, ErrTemperatureOutOfRange) {
			t.Errorf("temp %d: want ErrTemperatureOutOfRange, got %v", tempF, err)
		}
	}

	for tempF, want := range map[int]byte{62: 0x3E, 86: 0x56} {
		f, err := EncodeCommand(Command{Mode: ModeCool, Fan: FanLow, TemperatureF: tempF})
		if err != nil {
			t.Fatalf("temp %d: %v", tempF, err)
		}
		if f.TempValue() != want {
			t.Errorf("temp %d: byte4 = 0x%02X, want 0x%02X", tempF, f.TempValue(), want)
		}
	}
}

func TestEncodeCommand_TemperatureIgnoredForSentinelModes(t *testing.T) {
	// AUTO/FAN_ONLY/DRY/OFF carry sentinels; a wild temperature input is
	// irrelevant and must not fail the encode
	for _, mode := range []Mode{ModeAuto, ModeFanOnly, ModeDry, ModeOff} {
		if _, err := EncodeCommand(Command{Mode: mode, Fan: FanLow, TemperatureF: 999}); err != nil {
			t.Errorf("mode %s: unexpected error %v", mode, err)
		}
	}
}

func TestEncodeCommand_SleepPresetSetsPowerByte(t *testing.T) {
	f, err := EncodeCommand(Command{Mode: ModeCool, Fan: FanMed, Preset: PresetSleep, TemperatureF: 72})
	if err != nil {
		t.Fatalf("EncodeCommand: %v", err)
	}
	if f.PowerState() != PowerSleep {
		t.Errorf("PowerState = 0x%02X, want 0x81", f.PowerState())
	}

	f, err = EncodeCommand(Command{Mode: ModeCool, Fan: FanMed, Preset: PresetEco, TemperatureF: 72})
	if err != nil {
		t.Fatalf("EncodeCommand: %v", err)
	}
	if f.PowerState() != PowerNormal {
		t.Errorf("ECO PowerState = 0x%02X, want 0x80", f.PowerState())
	}
}

func TestEncodeCommand_UnsetFanDefaultsToMed(t *testing.T) {
	f, err := EncodeCommand(Command{Mode: ModeCool, TemperatureF: 72})
	if err != nil {
		t.Fatalf("EncodeCommand: %v", err)
	}
	if f.FanNibble() != FanNibbleMed {
		t.Errorf("FanNibble = 0x%02X, want 0x20", f.FanNibble())
	}
}

// ============================================================
// Invariant Tests
// ============================================================

// validCommands enumerates every command in the encoder's domain
func validCommands() []Command {
	cmds := []Command{{Mode: ModeOff}}
	fans := []Fan{FanLow, FanMed, FanHigh}

	for _, fan := range fans {
		cmds = append(cmds,
			Command{Mode: ModeAuto, Fan: fan},
			Command{Mode: ModeFanOnly, Fan: fan},
			Command{Mode: ModeDry, Fan: fan},
		)
		for temp := TempMinF; temp <= TempMaxF; temp++ {
			cmds = append(cmds,
				Command{Mode: ModeCool, Fan: fan, TemperatureF: temp},
				Command{Mode: ModeCool, Fan: fan, Preset: PresetEco, TemperatureF: temp},
				Command{Mode: ModeCool, Fan: fan, Preset: PresetSleep, TemperatureF: temp},
			)
		}
	}
	return cmds
}

func TestEncodeCommand_ChecksumInvariant(t *testing.T) {
	for _, cmd := range validCommands() {
		f, err := EncodeCommand(cmd)
		if err != nil {
			t.Fatalf("EncodeCommand(%+v): %v", cmd, err)
		}
		if f[8] != f[1]+f[2]+f[4] {
			t.Errorf("checksum invariant broken for %+v: %s", cmd, f)
		}
		if f[0] != DeviceID || f[3] != 0 || f[5] != 0 || f[6] != 0 || f[7] != 0 {
			t.Errorf("fixed bytes broken for %+v: %s", cmd, f)
		}
	}
}

func TestFrameRoundTrip_AllValidCommands(t *testing.T) {
	for _, cmd := range validCommands() {
		f, err := EncodeCommand(cmd)
		if err != nil {
			t.Fatalf("EncodeCommand(%+v): %v", cmd, err)
		}
		decoded, err := DecodeFrame(f)
		if err != nil {
			t.Fatalf("DecodeFrame(%s): %v", f, err)
		}

		want := cmd
		if cmd.Mode == ModeDry {
			// Documented lossy normalization: DRY always reads back LOW fan
			want.Fan = FanLow
		}
		if cmd.Mode == ModeOff {
			want = Command{Mode: ModeOff}
		}
		if decoded != want {
			t.Errorf("round trip mismatch for %+v: got %+v", cmd, decoded)
		}
	}
}

// ============================================================
// Pulse Encode Tests
// ============================================================

func TestEncodePulses_Geometry(t *testing.T) {
	f, _ := EncodeCommand(Command{Mode: ModeCool, Fan: FanHigh, TemperatureF: 79})
	pulses := EncodePulses(f)

	if len(pulses) != PulseCount {
		t.Fatalf("len = %d, want %d", len(pulses), PulseCount)
	}
	if pulses[0] != HeaderMark || pulses[1] != HeaderSpace {
		t.Errorf("header = %d/%d", pulses[0], pulses[1])
	}
	if pulses[len(pulses)-1] != BitMark {
		t.Errorf("trailing mark = %d", pulses[len(pulses)-1])
	}

	// Every bit mark is exactly BitMark and every space is one of the two
	// bit space constants
	for i := 2; i < len(pulses)-1; i += 2 {
		if pulses[i] != BitMark {
			t.Errorf("pulse %d: mark = %d", i, pulses[i])
		}
		if space := pulses[i+1]; space != OneSpace && space != ZeroSpace {
			t.Errorf("pulse %d: space = %d", i+1, space)
		}
	}
}

func TestEncodePulses_BitPattern(t *testing.T) {
	// Device id 0x19 = 0b00011001: check the first byte's spaces MSB-first
	f, _ := EncodeCommand(Command{Mode: ModeOff})
	pulses := EncodePulses(f)

	expectedBits := []bool{false, false, false, true, true, false, false, true}
	for i, one := range expectedBits {
		space := pulses[2+i*2+1]
		if one && space != OneSpace {
			t.Errorf("bit %d: space = %d, want %d", i, space, OneSpace)
		}
		if !one && space != ZeroSpace {
			t.Errorf("bit %d: space = %d, want %d", i, space, ZeroSpace)
		}
	}
}
