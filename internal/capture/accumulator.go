// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package capture implements the capture-side validation layer for IR
// codes received from the bridge.
//
// Remote buttons repeat their code for as long as they are held, and
// consumer IR receivers produce occasional corrupted reads. The
// accumulator therefore requires the same decoded frame to be seen a
// configurable number of times (default 10) before declaring it captured,
// with a debounce window to collapse key-repeat bursts. This
// majority-vote logic deliberately lives outside pkg/soleus: the codec
// decodes single sequences and never retries.
package capture

import (
	"time"

	"github.com/Thermoquad/zephyr/pkg/soleus"
)

// Status classifies the outcome of observing one pulse sequence
type Status int

const (
	// StatusRejected: the sequence failed to decode as a Soleus frame
	StatusRejected Status = iota
	// StatusDebounced: a repeat of the previous frame inside the debounce window
	StatusDebounced
	// StatusDuplicate: the frame was already confirmed earlier
	StatusDuplicate
	// StatusPending: decoded cleanly but below the match threshold
	StatusPending
	// StatusConfirmed: the frame just reached the match threshold
	StatusConfirmed
)

// Observation is the result of feeding one pulse sequence to the accumulator
type Observation struct {
	Status  Status
	Frame   soleus.Frame
	Command soleus.Command
	Count   int   // occurrences of this frame in the voting buffer
	Err     error // decode failure when Status is StatusRejected
}

// Accumulator performs majority-vote confirmation of captured frames.
// Not safe for concurrent use; the capture loop is single-threaded.
type Accumulator struct {
	threshold  int
	bufferSize int
	debounce   time.Duration

	recent    []string // ring of frame keys, newest last
	confirmed map[string]bool
	lastKey   string
	lastSeen  time.Time

	now func() time.Time // clock hook for tests
}

// NewAccumulator creates an accumulator. Threshold is the number of
// identical frames required for confirmation, bufferSize the number of
// recent frames kept for voting.
func NewAccumulator(threshold, bufferSize int, debounce time.Duration) *Accumulator {
	if threshold < 1 {
		threshold = 1
	}
	if bufferSize < threshold {
		bufferSize = threshold
	}
	return &Accumulator{
		threshold:  threshold,
		bufferSize: bufferSize,
		debounce:   debounce,
		confirmed:  make(map[string]bool),
		now:        time.Now,
	}
}

// Observe feeds one received pulse sequence into the vote. Sequences that
// fail to decode are rejected (and counted against nothing); valid frames
// accumulate until the threshold is reached.
func (a *Accumulator) Observe(pulses soleus.PulseSequence) Observation {
	frame, err := soleus.DecodePulses(pulses)
	if err != nil {
		return Observation{Status: StatusRejected, Err: err}
	}
	cmd, err := soleus.DecodeFrame(frame)
	if err != nil {
		return Observation{Status: StatusRejected, Frame: frame, Err: err}
	}

	key := frame.String()
	now := a.now()

	if key == a.lastKey && now.Sub(a.lastSeen) < a.debounce {
		a.lastSeen = now
		return Observation{Status: StatusDebounced, Frame: frame, Command: cmd}
	}
	a.lastKey = key
	a.lastSeen = now

	if a.confirmed[key] {
		return Observation{Status: StatusDuplicate, Frame: frame, Command: cmd}
	}

	a.recent = append(a.recent, key)
	if len(a.recent) > a.bufferSize {
		a.recent = a.recent[1:]
	}

	count := 0
	for _, k := range a.recent {
		if k == key {
			count++
		}
	}

	if count >= a.threshold {
		a.confirmed[key] = true
		return Observation{Status: StatusConfirmed, Frame: frame, Command: cmd, Count: count}
	}
	return Observation{Status: StatusPending, Frame: frame, Command: cmd, Count: count}
}

// Confirmed reports whether a frame has already been confirmed
func (a *Accumulator) Confirmed(frame soleus.Frame) bool {
	return a.confirmed[frame.String()]
}
