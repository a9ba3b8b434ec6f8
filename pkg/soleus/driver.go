// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package soleus

// Driver sequences the frame and pulse codecs into a single send/receive
// surface for transmit and capture collaborators. It holds no state and no
// protocol knowledge of its own; each call is independent and safe to make
// concurrently.
type Driver struct{}

// NewDriver creates a protocol driver
func NewDriver() *Driver {
	return &Driver{}
}

// Send encodes a command into the pulse sequence a transmitter should emit.
// Frame encoding errors (range, unsupported mode) propagate untouched; pulse
// encoding is total on any well-formed frame and cannot fail.
func (d *Driver) Send(c Command) (PulseSequence, error) {
	f, err := EncodeCommand(c)
	if err != nil {
		return nil, err
	}
	return EncodePulses(f), nil
}

// Receive decodes a captured pulse sequence into a command. The first
// failing stage wins: timing errors from the pulse decoder, then device
// id/checksum/mode errors from the frame decoder.
func (d *Driver) Receive(pulses PulseSequence) (Command, error) {
	f, err := DecodePulses(pulses)
	if err != nil {
		return Command{}, err
	}
	return DecodeFrame(f)
}
