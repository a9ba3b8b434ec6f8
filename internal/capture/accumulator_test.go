// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package capture

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/Thermoquad/zephyr/pkg/soleus"
)

// fakeClock returns a clock function that advances by step on every call
func fakeClock(start time.Time, step time.Duration) func() time.Time {
	t := start
	return func() time.Time {
		t = t.Add(step)
		return t
	}
}

func pulsesFor(t *testing.T, cmd soleus.Command) soleus.PulseSequence {
	t.Helper()
	f, err := soleus.EncodeCommand(cmd)
	if err != nil {
		t.Fatalf("EncodeCommand: %v", err)
	}
	return soleus.EncodePulses(f)
}

func TestAccumulator_ConfirmsAtThreshold(t *testing.T) {
	a := NewAccumulator(3, 10, 50*time.Millisecond)
	a.now = fakeClock(time.Unix(0, 0), time.Second) // every observation clears debounce

	pulses := pulsesFor(t, soleus.Command{Mode: soleus.ModeCool, Fan: soleus.FanHigh, TemperatureF: 79})

	for i := 0; i < 2; i++ {
		obs := a.Observe(pulses)
		if obs.Status != StatusPending {
			t.Fatalf("observation %d: status %d", i, obs.Status)
		}
	}

	obs := a.Observe(pulses)
	if obs.Status != StatusConfirmed {
		t.Fatalf("status %d, want confirmed", obs.Status)
	}
	if obs.Count != 3 {
		t.Errorf("Count = %d", obs.Count)
	}
	if obs.Command.Mode != soleus.ModeCool || obs.Command.TemperatureF != 79 {
		t.Errorf("Command = %+v", obs.Command)
	}

	// Further sightings are duplicates, not re-confirmations
	if obs := a.Observe(pulses); obs.Status != StatusDuplicate {
		t.Errorf("status %d, want duplicate", obs.Status)
	}
}

func TestAccumulator_DebouncesRepeats(t *testing.T) {
	a := NewAccumulator(3, 10, time.Second)
	a.now = fakeClock(time.Unix(0, 0), 10*time.Millisecond) // all inside debounce window

	pulses := pulsesFor(t, soleus.Command{Mode: soleus.ModeOff})

	if obs := a.Observe(pulses); obs.Status != StatusPending {
		t.Fatalf("first observation status %d", obs.Status)
	}
	for i := 0; i < 20; i++ {
		if obs := a.Observe(pulses); obs.Status != StatusDebounced {
			t.Fatalf("observation %d: status %d, want debounced", i, obs.Status)
		}
	}
}

func TestAccumulator_InterleavedCodes(t *testing.T) {
	a := NewAccumulator(2, 10, time.Millisecond)
	a.now = fakeClock(time.Unix(0, 0), time.Second)

	cool := pulsesFor(t, soleus.Command{Mode: soleus.ModeCool, Fan: soleus.FanLow, TemperatureF: 70})
	off := pulsesFor(t, soleus.Command{Mode: soleus.ModeOff})

	// Alternating codes defeat debounce and vote independently
	if obs := a.Observe(cool); obs.Status != StatusPending {
		t.Fatalf("cool 1: %d", obs.Status)
	}
	if obs := a.Observe(off); obs.Status != StatusPending {
		t.Fatalf("off 1: %d", obs.Status)
	}
	if obs := a.Observe(cool); obs.Status != StatusConfirmed {
		t.Fatalf("cool 2: %d", obs.Status)
	}
	if obs := a.Observe(off); obs.Status != StatusConfirmed {
		t.Fatalf("off 2: %d", obs.Status)
	}
}

func TestAccumulator_RejectsCorruptSequences(t *testing.T) {
	a := NewAccumulator(2, 10, time.Millisecond)
	a.now = fakeClock(time.Unix(0, 0), time.Second)

	pulses := pulsesFor(t, soleus.Command{Mode: soleus.ModeAuto, Fan: soleus.FanMed})
	corrupt := append(soleus.PulseSequence{}, pulses...)
	corrupt[5] = 99999

	obs := a.Observe(corrupt)
	if obs.Status != StatusRejected {
		t.Fatalf("status %d, want rejected", obs.Status)
	}
	if !errors.Is(obs.Err, soleus.ErrBitPatternMismatch) {
		t.Errorf("Err = %v", obs.Err)
	}

	// Rejected sequences never count toward the vote
	if obs := a.Observe(pulses); obs.Status != StatusPending {
		t.Errorf("status %d", obs.Status)
	}
}

// ============================================================
// Capture Log Tests
// ============================================================

func TestLog_AppendAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "captures.json")

	l, err := OpenLog(path)
	if err != nil {
		t.Fatalf("OpenLog: %v", err)
	}

	f, _ := soleus.EncodeCommand(soleus.Command{Mode: soleus.ModeCool, Fan: soleus.FanHigh, TemperatureF: 79})
	obs := Observation{Status: StatusConfirmed, Frame: f,
		Command: soleus.Command{Mode: soleus.ModeCool, Fan: soleus.FanHigh, TemperatureF: 79}, Count: 10}

	entry, err := l.Append(obs, "")
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if entry.ButtonName != "button_1" {
		t.Errorf("ButtonName = %q", entry.ButtonName)
	}
	if entry.Frame != "19 80 31 00 4F 00 00 00 00" {
		t.Errorf("Frame = %q", entry.Frame)
	}
	if entry.Matches != 10 {
		t.Errorf("Matches = %d", entry.Matches)
	}

	if _, err := l.Append(obs, "cool-79-high"); err != nil {
		t.Fatalf("Append named: %v", err)
	}

	reloaded, err := OpenLog(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(reloaded.Entries()) != 2 {
		t.Fatalf("entries = %d", len(reloaded.Entries()))
	}
	if reloaded.Entries()[1].ButtonName != "cool-79-high" {
		t.Errorf("name = %q", reloaded.Entries()[1].ButtonName)
	}
	if !reloaded.Contains(f) {
		t.Error("Contains returned false for logged frame")
	}

	// Pronto data in the log must decode back to the same frame
	pulses, err := soleus.PulsesFromPronto(reloaded.Entries()[0].ProntoData)
	if err != nil {
		t.Fatalf("PulsesFromPronto: %v", err)
	}
	decoded, err := soleus.DecodePulses(pulses)
	if err != nil {
		t.Fatalf("DecodePulses: %v", err)
	}
	if decoded != f {
		t.Errorf("pronto round trip mismatch")
	}
}
