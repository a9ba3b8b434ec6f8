// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/zephyr/pkg/soleus"
)

var (
	decodePronto bool
	decodePulses bool
)

var decodeCmd = &cobra.Command{
	Use:   "decode <frame-hex | pronto-hex | durations>",
	Short: "Decode a Soleus IR frame, Pronto code, or pulse list",
	Long: `Decode a captured code back into its command semantics.

The input is the 9 frame bytes as hex ("19 80 31 00 4F 00 00 00 00"),
a full Pronto hex string with --pronto, or a raw list of microsecond
durations with --pulses (comma or space separated, as logged by IR capture
tools).

Decoding reports checksum status and any structural anomalies (non-zero
reserved bytes, unknown nibble values, out-of-range temperatures) without
rejecting frames whose checksum is valid.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDecode,
}

func init() {
	rootCmd.AddCommand(decodeCmd)
	decodeCmd.Flags().BoolVar(&decodePronto, "pronto", false, "Treat input as a Pronto hex string")
	decodeCmd.Flags().BoolVar(&decodePulses, "pulses", false, "Treat input as raw microsecond durations")
}

// parsePulseList parses comma- or whitespace-separated microsecond durations
func parsePulseList(input string) (soleus.PulseSequence, error) {
	fields := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	if len(fields) == 0 {
		return nil, fmt.Errorf("no durations in input")
	}
	pulses := make(soleus.PulseSequence, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseUint(f, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid duration %q: %v", f, err)
		}
		pulses = append(pulses, uint32(v))
	}
	return pulses, nil
}

func runDecode(cmd *cobra.Command, args []string) error {
	input := strings.Join(args, " ")

	var frame soleus.Frame
	var err error

	switch {
	case decodePronto && decodePulses:
		return fmt.Errorf("--pronto and --pulses are mutually exclusive")
	case decodePronto:
		pulses, err := soleus.PulsesFromPronto(input)
		if err != nil {
			return err
		}
		frame, err = soleus.DecodePulses(pulses)
		if err != nil {
			return err
		}
	case decodePulses:
		pulses, err := parsePulseList(input)
		if err != nil {
			return err
		}
		frame, err = soleus.DecodePulses(pulses)
		if err != nil {
			return err
		}
	default:
		frame, err = soleus.ParseFrame(input)
		if err != nil {
			return err
		}
	}

	fmt.Print(soleus.FormatFrame(frame))

	command, err := soleus.DecodeFrame(frame)
	if err != nil {
		fmt.Printf("\nDecode failed: %v\n", err)
	} else {
		fmt.Printf("\nCommand: %s\n", soleus.FormatCommand(command))
	}

	anomalies := soleus.ValidateFrame(frame)
	if len(anomalies) > 0 {
		fmt.Printf("\nAnomalies:\n")
		for _, a := range anomalies {
			fmt.Printf("  - %s\n", a.Message)
		}
	}

	if err != nil {
		return fmt.Errorf("frame did not decode")
	}
	return nil
}
