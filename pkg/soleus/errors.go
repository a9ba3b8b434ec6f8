// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package soleus

import "errors"

// Codec failures. Every error returned by the frame and pulse codecs wraps
// exactly one of these sentinels, so callers can classify failures with
// errors.Is. All failures are terminal for the call that produced them;
// nothing in this package retries, and no failure ever degrades into a
// default value.
var (
	// ErrTemperatureOutOfRange is returned by the frame encoder when the
	// target temperature is outside [TempMinF, TempMaxF].
	ErrTemperatureOutOfRange = errors.New("temperature out of range")

	// ErrUnsupportedMode is returned by the frame encoder for ModeHeat.
	// The heating byte values were never captured and are not guessed.
	ErrUnsupportedMode = errors.New("unsupported mode")

	// ErrBadDeviceID is returned by the frame decoder when byte 0 is not
	// the Soleus device id.
	ErrBadDeviceID = errors.New("bad device id")

	// ErrChecksumMismatch is returned by the frame decoder when byte 8
	// does not match the additive checksum. Checked before any semantic
	// interpretation.
	ErrChecksumMismatch = errors.New("checksum mismatch")

	// ErrUnknownModeNibble is returned by the frame decoder when the
	// lower nibble of byte 2 is not a known operating mode.
	ErrUnknownModeNibble = errors.New("unknown mode nibble")

	// ErrHeaderMismatch is returned by the pulse decoder when the leading
	// mark/space pair is outside the header tolerance window.
	ErrHeaderMismatch = errors.New("header mismatch")

	// ErrBitPatternMismatch is returned by the pulse decoder when a
	// mark/space pair matches neither the one-bit nor the zero-bit window.
	ErrBitPatternMismatch = errors.New("bit pattern mismatch")

	// ErrTruncatedFrame is returned by the pulse decoder when the sequence
	// ends before all 72 bits have been consumed.
	ErrTruncatedFrame = errors.New("truncated frame")
)
