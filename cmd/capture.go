// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/zephyr/internal/capture"
	"github.com/Thermoquad/zephyr/internal/config"
	"github.com/Thermoquad/zephyr/internal/library"
	"github.com/Thermoquad/zephyr/pkg/irlink"
)

var (
	captureSave    bool
	captureVerbose bool
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Capture IR codes from the bridge's receiver",
	Long: `Put the bridge into capture mode and log received Soleus codes.

Each IR burst the bridge receives is decoded and fed into a majority vote:
a code is confirmed once the same frame has been seen match_threshold times
(default 10), which filters out the single-read corruption that consumer IR
receivers regularly produce. Hold the remote button until the code confirms.

Confirmed codes append to the JSON capture log (capture.file in the config,
default captures.json in the config directory). With --save, each confirmed
code is also stored in the library under an auto-generated name.

Press Ctrl+C to stop.`,
	RunE: runCapture,
}

func init() {
	rootCmd.AddCommand(captureCmd)
	captureCmd.Flags().BoolVar(&captureSave, "save", false, "Also store confirmed codes in the library")
	captureCmd.Flags().BoolVarP(&captureVerbose, "verbose", "v", false, "Show every received burst, not just confirmations")
}

func runCapture(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logPath := cfg.Capture.File
	if logPath == "" {
		dir, err := config.GetConfigDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
		logPath = filepath.Join(dir, "captures.json")
	}

	captureLog, err := capture.OpenLog(logPath)
	if err != nil {
		return err
	}

	var repo *library.Repository
	if captureSave {
		r, closeDB, err := openLibrary()
		if err != nil {
			return err
		}
		defer closeDB()
		repo = r
	}

	conn, connInfo, err := OpenConnection()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}
	defer conn.Close()

	fmt.Printf("Zephyr - Capture\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Capture log: %s\n", logPath)
	fmt.Printf("Threshold: %d matching frames\n", cfg.Capture.MatchThreshold)
	fmt.Printf("Press Ctrl+C to stop\n\n")

	startBytes, err := irlink.Encode(irlink.NewCaptureStart())
	if err != nil {
		return err
	}
	if _, err := conn.Write(startBytes); err != nil {
		return fmt.Errorf("failed to start capture: %w", err)
	}

	// Stop capture mode on Ctrl+C before closing the connection
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	accumulator := capture.NewAccumulator(
		cfg.Capture.MatchThreshold,
		cfg.Capture.BufferSize,
		time.Duration(cfg.Capture.DebounceMs)*time.Millisecond,
	)

	msgChan := make(chan *irlink.Message, 64)
	readDone := make(chan struct{})

	go func() {
		defer close(readDone)
		decoder := irlink.NewDecoder()
		buf := make([]byte, 512)
		for {
			n, err := conn.Read(buf)
			if err != nil {
				return
			}
			for i := 0; i < n; i++ {
				msg, decodeErr := decoder.DecodeByte(buf[i])
				if decodeErr != nil {
					continue
				}
				if msg != nil && msg.Type() == irlink.MsgCaptureData {
					select {
					case msgChan <- msg:
					default:
					}
				}
			}
		}
	}()

	confirmed := 0
	for {
		select {
		case <-sigChan:
			fmt.Printf("\nStopping capture (%d code(s) confirmed)\n", confirmed)
			if stopBytes, err := irlink.Encode(irlink.NewCaptureStop()); err == nil {
				conn.Write(stopBytes)
			}
			return nil

		case <-readDone:
			return fmt.Errorf("connection closed")

		case msg := <-msgChan:
			pulses, err := irlink.CapturedPulses(msg)
			if err != nil {
				if captureVerbose {
					fmt.Printf("[skip] %v\n", err)
				}
				continue
			}

			obs := accumulator.Observe(pulses)
			switch obs.Status {
			case capture.StatusRejected:
				if captureVerbose {
					fmt.Printf("[reject] %v\n", obs.Err)
				}
			case capture.StatusDebounced:
				// Key-repeat noise; stay quiet
			case capture.StatusDuplicate:
				if captureVerbose {
					fmt.Printf("[dup] %s\n", obs.Frame)
				}
			case capture.StatusPending:
				if captureVerbose {
					fmt.Printf("[%d/%d] %s\n", obs.Count, cfg.Capture.MatchThreshold, obs.Frame)
				}
			case capture.StatusConfirmed:
				confirmed++
				entry, err := captureLog.Append(obs, "")
				if err != nil {
					fmt.Fprintf(os.Stderr, "Failed to write capture log: %v\n", err)
					continue
				}
				fmt.Printf("CAPTURED %s: %s (%s)\n", entry.ButtonName, obs.Frame, entry.Command)

				if repo != nil {
					code, err := library.NewCode(entry.ButtonName, obs.Frame, obs.Count)
					if err == nil {
						err = repo.Upsert(code)
					}
					if err != nil {
						fmt.Fprintf(os.Stderr, "Failed to save to library: %v\n", err)
					} else {
						fmt.Printf("  saved to library as %s\n", code.Name)
					}
				}
			}
		}
	}
}
