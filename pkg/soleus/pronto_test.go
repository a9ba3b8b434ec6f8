// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package soleus

import (
	"strings"
	"testing"
)

// ============================================================
// Pronto Conversion Tests
// ============================================================

func TestProntoFromPulses_Preamble(t *testing.T) {
	f, _ := EncodeCommand(Command{Mode: ModeCool, Fan: FanHigh, TemperatureF: 79})
	code := ProntoFromPulses(EncodePulses(f))

	words := strings.Fields(code)
	// 4 preamble words + 74 burst pairs (header + 72 bits + closing pair)
	if len(words) != 4+74*2 {
		t.Fatalf("word count = %d, want %d", len(words), 4+74*2)
	}
	if words[0] != "0000" {
		t.Errorf("format word = %s", words[0])
	}
	if words[1] != "006D" {
		t.Errorf("carrier word = %s", words[1])
	}
	if words[2] != "004A" {
		t.Errorf("pair count word = %s, want 004A", words[2])
	}
	if words[3] != "0000" {
		t.Errorf("repeat count word = %s", words[3])
	}
	if words[len(words)-1] != "0181" {
		t.Errorf("closing gap word = %s", words[len(words)-1])
	}
}

func TestPronto_RoundTripThroughCodec(t *testing.T) {
	// Pronto quantizes durations to carrier cycles; the decode tolerance
	// window absorbs the rounding, so the frame must survive untouched
	for _, cmd := range []Command{
		{Mode: ModeCool, Fan: FanHigh, TemperatureF: 79},
		{Mode: ModeCool, Fan: FanMed, Preset: PresetEco, TemperatureF: 86},
		{Mode: ModeDry, Fan: FanLow},
		{Mode: ModeOff},
	} {
		f, err := EncodeCommand(cmd)
		if err != nil {
			t.Fatalf("EncodeCommand(%+v): %v", cmd, err)
		}

		pulses, err := PulsesFromPronto(ProntoFromPulses(EncodePulses(f)))
		if err != nil {
			t.Fatalf("PulsesFromPronto: %v", err)
		}
		decoded, err := DecodePulses(pulses)
		if err != nil {
			t.Fatalf("DecodePulses: %v", err)
		}
		if decoded != f {
			t.Errorf("pronto round trip mismatch for %+v:\n  got  %s\n  want %s", cmd, decoded, f)
		}
	}
}

func TestPulsesFromPronto_DropsClosingGap(t *testing.T) {
	f, _ := EncodeCommand(Command{Mode: ModeOff})
	pulses, err := PulsesFromPronto(ProntoFromPulses(EncodePulses(f)))
	if err != nil {
		t.Fatalf("PulsesFromPronto: %v", err)
	}
	// Back to an odd count ending on the trailing mark
	if len(pulses) != PulseCount {
		t.Errorf("len = %d, want %d", len(pulses), PulseCount)
	}
}

func TestPulsesFromPronto_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"too short", "0000 006D"},
		{"bad word", "0000 006D 0001 0000 ZZZZ 0010"},
		{"learned format only", "0100 006D 0001 0000 0010 0010"},
		{"zero divider", "0000 0000 0001 0000 0010 0010"},
		{"truncated burst data", "0000 006D 0004 0000 0010 0010"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := PulsesFromPronto(tt.input); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestPulsesFromPronto_RepeatSequenceFallback(t *testing.T) {
	// Some learned codes store everything in the repeat sequence
	f, _ := EncodeCommand(Command{Mode: ModeAuto, Fan: FanLow})
	code := ProntoFromPulses(EncodePulses(f))

	words := strings.Fields(code)
	words[3] = words[2] // move pair count to the repeat slot
	words[2] = "0000"

	pulses, err := PulsesFromPronto(strings.Join(words, " "))
	if err != nil {
		t.Fatalf("PulsesFromPronto: %v", err)
	}
	decoded, err := DecodePulses(pulses)
	if err != nil {
		t.Fatalf("DecodePulses: %v", err)
	}
	if decoded != f {
		t.Errorf("repeat-sequence decode mismatch")
	}
}
