// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/zephyr/pkg/soleus"
)

var (
	encodeFlags      commandFlags
	encodeShowPronto bool
	encodeShowPulses bool
)

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Encode a remote command into a Soleus IR frame",
	Long: `Encode a command (mode, fan speed, temperature, preset) into the 9-byte
Soleus frame, and optionally the raw pulse timings or Pronto hex export.

This command is fully offline; no bridge connection is needed.

Examples:
  zephyr encode --mode cool --fan high --temp 79
  zephyr encode --mode off
  zephyr encode --mode cool --preset sleep --fan low --temp 70 --pronto

Note: dry mode always transmits with low fan speed, matching the remote's
behavior. Heat mode is rejected; the WS3-08E-201 has no heating element.`,
	RunE: runEncode,
}

func init() {
	rootCmd.AddCommand(encodeCmd)
	encodeFlags.register(encodeCmd)
	encodeCmd.Flags().BoolVar(&encodeShowPronto, "pronto", false, "Also print the Pronto hex export")
	encodeCmd.Flags().BoolVar(&encodeShowPulses, "pulses", false, "Also print raw pulse timings (microseconds)")
}

func runEncode(cmd *cobra.Command, args []string) error {
	command, err := encodeFlags.parse()
	if err != nil {
		return err
	}

	frame, err := soleus.EncodeCommand(command)
	if err != nil {
		return err
	}

	fmt.Printf("Command: %s\n", soleus.FormatCommand(command))
	fmt.Print(soleus.FormatFrame(frame))

	if encodeShowPulses {
		fmt.Printf("\nPulses (%d):\n%s\n", len(soleus.EncodePulses(frame)), soleus.FormatPulses(soleus.EncodePulses(frame)))
	}
	if encodeShowPronto {
		fmt.Printf("\nPronto:\n%s\n", soleus.ProntoFromPulses(soleus.EncodePulses(frame)))
	}
	return nil
}
