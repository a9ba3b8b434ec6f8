// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/zephyr/pkg/irlink"
)

var (
	pingTimeout int
	pingCount   int
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Test the bridge link by sending PING_REQUEST",
	Long: `Send PING_REQUEST messages to the IR bridge and wait for PING_RESPONSE.

This is useful for verifying:
  - The serial or WebSocket connection is established
  - HTTP Basic authentication works (WebSocket mode)
  - The bridge firmware is processing link messages

Exit codes:
  0 - All pings successful
  1 - One or more pings failed/timed out
  2 - Connection error`,
	RunE: runPing,
}

func init() {
	rootCmd.AddCommand(pingCmd)
	pingCmd.Flags().IntVar(&pingTimeout, "timeout", 5, "Timeout in seconds for each ping")
	pingCmd.Flags().IntVar(&pingCount, "count", 3, "Number of pings to send")
}

func runPing(cmd *cobra.Command, args []string) error {
	conn, connInfo, err := OpenConnection()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}
	defer conn.Close()

	fmt.Printf("Zephyr - Bridge Ping\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Timeout: %d seconds per ping\n", pingTimeout)
	fmt.Printf("Count: %d pings\n\n", pingCount)

	decoder := irlink.NewDecoder()
	successCount := 0
	failCount := 0

	for i := 1; i <= pingCount; i++ {
		fmt.Printf("Ping %d/%d: ", i, pingCount)

		wireBytes, err := irlink.Encode(irlink.NewPingRequest())
		if err != nil {
			return err
		}

		startTime := time.Now()
		if _, err := conn.Write(wireBytes); err != nil {
			fmt.Printf("SEND FAILED: %v\n", err)
			failCount++
			continue
		}

		// Wait for PING_RESPONSE
		responseChan := make(chan *irlink.Message, 1)
		errChan := make(chan error, 1)

		go func() {
			buf := make([]byte, 128)
			for {
				n, err := conn.Read(buf)
				if err != nil {
					errChan <- err
					return
				}

				for j := 0; j < n; j++ {
					msg, decodeErr := decoder.DecodeByte(buf[j])
					if decodeErr != nil {
						// Ignore decode errors
						continue
					}
					if msg != nil && msg.Type() == irlink.MsgPingResponse {
						responseChan <- msg
						return
					}
					// Ignore non-ping messages (capture data, etc.)
				}
			}
		}()

		select {
		case msg := <-responseChan:
			rtt := time.Since(startTime)
			uptime, err := irlink.Uptime(msg)
			if err != nil {
				fmt.Printf("PONG (malformed uptime), rtt=%v\n", rtt.Round(time.Millisecond))
			} else {
				fmt.Printf("PONG from bridge, uptime=%s, rtt=%v\n", formatUptime(uptime), rtt.Round(time.Millisecond))
			}
			successCount++

		case err := <-errChan:
			fmt.Printf("READ FAILED: %v\n", err)
			failCount++

		case <-time.After(time.Duration(pingTimeout) * time.Second):
			fmt.Printf("TIMEOUT (no response in %ds)\n", pingTimeout)
			failCount++
		}

		// Small delay between pings
		if i < pingCount {
			time.Sleep(100 * time.Millisecond)
		}
	}

	// Summary
	fmt.Printf("\n--- Ping statistics ---\n")
	fmt.Printf("%d pings sent, %d responses received, %.0f%% packet loss\n",
		pingCount, successCount, float64(failCount)/float64(pingCount)*100)

	if failCount > 0 {
		os.Exit(1)
	}
	return nil
}

// formatUptime formats milliseconds as a human-readable duration
func formatUptime(uptimeMs uint64) string {
	d := time.Duration(uptimeMs) * time.Millisecond

	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd%dh%dm%ds", days, hours, minutes, seconds)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}
