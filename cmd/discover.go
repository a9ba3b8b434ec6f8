// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/zephyr/internal/discovery"
)

var discoverTimeout int

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Find IR bridges on the local network via mDNS",
	Long: `Scan the local network for IR bridges advertising the
"_zephyr-ir._tcp" mDNS service and print their WebSocket URLs.

A discovered URL can be used directly:
  zephyr ping --url ws://192.168.1.42:8266/link`,
	RunE: runDiscover,
}

func init() {
	rootCmd.AddCommand(discoverCmd)
	discoverCmd.Flags().IntVar(&discoverTimeout, "timeout", 5, "Scan timeout in seconds")
}

func runDiscover(cmd *cobra.Command, args []string) error {
	timeout := time.Duration(discoverTimeout) * time.Second
	fmt.Printf("Scanning for bridges (%v)...\n\n", timeout)

	bridges, err := discovery.Scan(timeout)
	if err != nil {
		return err
	}

	if len(bridges) == 0 {
		fmt.Println("No bridges found")
		return nil
	}

	fmt.Printf("%-24s %-18s %-10s %s\n", "NAME", "ADDRESS", "VERSION", "URL")
	for _, b := range bridges {
		fmt.Printf("%-24s %-18s %-10s %s\n", b.Name, b.IP, b.Version, b.URL())
	}
	return nil
}
