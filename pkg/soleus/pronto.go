// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package soleus

import (
	"fmt"
	"strconv"
	"strings"
)

// Pronto hex conversion. Captures from IR receivers and universal-remote
// databases commonly travel as Pronto codes: a four-word preamble followed
// by burst pairs measured in carrier cycles. These helpers convert between
// raw microsecond pulse sequences and learned-code (format 0000) Pronto
// strings at the 38 kHz carrier.

const (
	prontoFormatRaw = 0x0000

	// Carrier divider word for ~38 kHz: period = divider * 0.241246us
	prontoCarrierDiv = 0x006D

	// Trailing gap appended to close the final burst pair, in carrier
	// cycles (~10ms). Matches the gap seen in hardware captures.
	prontoTrailingGap = 0x0181
)

// prontoPeriodUs is the duration of one carrier cycle in microseconds
const prontoPeriodUs = float64(prontoCarrierDiv) * 0.241246

// ProntoFromPulses renders a pulse sequence as a Pronto hex string.
// A sequence with an odd pulse count (the usual case, ending on the
// trailing mark) is closed with a long trailing gap.
func ProntoFromPulses(pulses PulseSequence) string {
	pairs := (len(pulses) + 1) / 2

	words := make([]uint16, 0, 4+pairs*2)
	words = append(words, prontoFormatRaw, prontoCarrierDiv, uint16(pairs), 0x0000)

	for _, p := range pulses {
		words = append(words, usToCycles(p))
	}
	if len(pulses)%2 != 0 {
		words = append(words, prontoTrailingGap)
	}

	var b strings.Builder
	for i, w := range words {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%04X", w)
	}
	return b.String()
}

// PulsesFromPronto parses a learned-code Pronto hex string back into a
// microsecond pulse sequence. The final gap word is dropped, since it is
// dead air after the trailing mark rather than protocol data.
func PulsesFromPronto(s string) (PulseSequence, error) {
	fields := strings.Fields(s)
	if len(fields) < 4 {
		return nil, fmt.Errorf("pronto code too short: %d words", len(fields))
	}

	words := make([]uint16, len(fields))
	for i, field := range fields {
		v, err := strconv.ParseUint(field, 16, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid pronto word %q at index %d", field, i)
		}
		words[i] = uint16(v)
	}

	if words[0] != prontoFormatRaw {
		return nil, fmt.Errorf("unsupported pronto format 0x%04X (only raw 0000)", words[0])
	}
	divider := words[1]
	if divider == 0 {
		return nil, fmt.Errorf("invalid pronto carrier divider 0")
	}
	oncePairs := int(words[2])
	repeatPairs := int(words[3])

	data := words[4:]
	wantWords := (oncePairs + repeatPairs) * 2
	if len(data) < wantWords {
		return nil, fmt.Errorf("pronto burst data truncated: have %d words, want %d", len(data), wantWords)
	}

	// Use the once sequence when present, otherwise the repeat sequence
	pairWords := data[:oncePairs*2]
	if oncePairs == 0 {
		pairWords = data[:repeatPairs*2]
	}

	period := float64(divider) * 0.241246
	pulses := make(PulseSequence, 0, len(pairWords))
	for _, w := range pairWords {
		pulses = append(pulses, uint32(float64(w)*period+0.5))
	}

	// Drop the closing gap so the sequence ends on the trailing mark
	if n := len(pulses); n > 0 && n%2 == 0 {
		pulses = pulses[:n-1]
	}
	return pulses, nil
}

// usToCycles converts a microsecond duration to carrier cycles at the
// configured divider, rounding to nearest
func usToCycles(us uint32) uint16 {
	cycles := float64(us)/prontoPeriodUs + 0.5
	if cycles > 0xFFFF {
		return 0xFFFF
	}
	return uint16(cycles)
}
