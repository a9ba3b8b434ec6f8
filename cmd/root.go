// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Thermoquad/zephyr/internal/config"
	"github.com/Thermoquad/zephyr/internal/logging"
)

var (
	// Serial connection flags
	portName string
	baudRate int

	// WebSocket connection flags
	wsURL         string
	wsUsername    string
	wsNoSSLVerify bool
)

var rootCmd = &cobra.Command{
	Use:   "zephyr",
	Short: "Soleus IR remote codec and bridge tool",
	Long: `Zephyr - A CLI tool for encoding, decoding, and transmitting Soleus
WS3-08E-201 air conditioner IR remote codes.

The codec works entirely offline (encode, decode, library management). The
send, capture, and ping commands talk to an IR bridge device over serial or
WebSocket.

Connection modes:
  Serial:    --port /dev/ttyUSB0 [--baud 115200]
  WebSocket: --url ws://host/link [--username user]

Connection defaults can be stored in the config file
(~/.config/zephyr/config.yaml); flags override stored values.

For WebSocket authentication, the password is read from the ZEPHYR_PASSWORD
environment variable, or prompted interactively if not set. The --password
flag is intentionally not provided to avoid leaking credentials in shell
history.`,
	Version: "1.0.0",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.InitializeFromEnv()

		// Fill unset connection flags from the config file
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if portName == "" {
			portName = cfg.Bridge.Port
		}
		if !cmd.Flags().Changed("baud") && cfg.Bridge.Baud != 0 {
			baudRate = cfg.Bridge.Baud
		}
		if wsURL == "" {
			wsURL = cfg.Bridge.URL
		}
		return nil
	},
}

func init() {
	// Serial connection flags
	rootCmd.PersistentFlags().StringVarP(&portName, "port", "p", "", "Serial port device")
	rootCmd.PersistentFlags().IntVarP(&baudRate, "baud", "b", 115200, "Baud rate (serial only)")

	// WebSocket connection flags
	rootCmd.PersistentFlags().StringVarP(&wsURL, "url", "u", "", "WebSocket URL (ws:// or wss://)")
	rootCmd.PersistentFlags().StringVar(&wsUsername, "username", "", "Username for HTTP Basic auth")
	rootCmd.PersistentFlags().BoolVar(&wsNoSSLVerify, "no-ssl-verify", false, "Skip TLS certificate verification (wss:// only)")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
