// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/zephyr/internal/library"
	"github.com/Thermoquad/zephyr/pkg/irlink"
	"github.com/Thermoquad/zephyr/pkg/soleus"
)

var (
	sendFlags   commandFlags
	sendName    string
	sendRepeat  int
	sendTimeout int
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Transmit a command through the IR bridge",
	Long: `Encode a command and transmit it through the connected IR bridge.

The command is either built from flags (like encode) or looked up by name in
the code library with --name. The bridge modulates the pulse sequence onto a
38 kHz carrier and acknowledges each transmission.

Examples:
  zephyr send --port /dev/ttyUSB0 --mode cool --fan high --temp 79
  zephyr send --url ws://bridge.local/link --name bedtime

Exit codes:
  0 - Transmission acknowledged
  1 - Transmission failed or timed out
  2 - Connection error`,
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendFlags.register(sendCmd)
	sendCmd.Flags().StringVarP(&sendName, "name", "n", "", "Send a stored library code instead of building one from flags")
	sendCmd.Flags().IntVar(&sendRepeat, "repeat", 1, "Number of times to transmit")
	sendCmd.Flags().IntVar(&sendTimeout, "timeout", 5, "Timeout in seconds waiting for the bridge ack")
}

func runSend(cmd *cobra.Command, args []string) error {
	frame, description, err := resolveSendFrame()
	if err != nil {
		return err
	}

	conn, connInfo, err := OpenConnection()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}
	defer conn.Close()

	fmt.Printf("Zephyr - Transmit\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Sending: %s\n\n", description)

	pulses := soleus.EncodePulses(frame)
	wireBytes, err := irlink.Encode(irlink.NewTransmit(soleus.CarrierHz, pulses))
	if err != nil {
		return err
	}

	failed := 0
	for i := 1; i <= sendRepeat; i++ {
		if sendRepeat > 1 {
			fmt.Printf("Transmit %d/%d: ", i, sendRepeat)
		} else {
			fmt.Printf("Transmit: ")
		}

		if _, err := conn.Write(wireBytes); err != nil {
			fmt.Printf("SEND FAILED: %v\n", err)
			failed++
			continue
		}

		if err := waitForAck(conn, time.Duration(sendTimeout)*time.Second); err != nil {
			fmt.Printf("%v\n", err)
			failed++
		} else {
			fmt.Printf("ACK\n")
		}

		if i < sendRepeat {
			time.Sleep(100 * time.Millisecond)
		}
	}

	if failed > 0 {
		os.Exit(1)
	}
	return nil
}

// resolveSendFrame picks the frame to transmit from either --name or the
// mode/fan/temp flags
func resolveSendFrame() (soleus.Frame, string, error) {
	if sendName != "" {
		repo, closeDB, err := openLibrary()
		if err != nil {
			return soleus.Frame{}, "", err
		}
		defer closeDB()

		code, err := repo.GetByName(sendName)
		if err != nil {
			return soleus.Frame{}, "", err
		}
		frame, err := code.DecodeFrame()
		if err != nil {
			return soleus.Frame{}, "", err
		}
		return frame, fmt.Sprintf("%s (%s)", code.Name, code.Command), nil
	}

	command, err := sendFlags.parse()
	if err != nil {
		return soleus.Frame{}, "", err
	}
	frame, err := soleus.EncodeCommand(command)
	if err != nil {
		return soleus.Frame{}, "", err
	}
	return frame, soleus.FormatCommand(command), nil
}

// waitForAck reads link messages until a TRANSMIT_ACK or error reply arrives
func waitForAck(conn Connection, timeout time.Duration) error {
	responseChan := make(chan *irlink.Message, 1)
	errChan := make(chan error, 1)

	go func() {
		decoder := irlink.NewDecoder()
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
					continue
				}
				if msg == nil {
					continue
				}
				switch msg.Type() {
				case irlink.MsgTransmitAck, irlink.MsgErrorInvalidCmd, irlink.MsgErrorBadCRC:
					responseChan <- msg
					return
				}
				// Ignore unrelated messages (capture data, pings)
			}
		}
	}()

	select {
	case msg := <-responseChan:
		if msg.Type() != irlink.MsgTransmitAck {
			return fmt.Errorf("bridge error: %s", irlink.FormatMessageType(msg.Type()))
		}
		return nil
	case err := <-errChan:
		return fmt.Errorf("READ FAILED: %v", err)
	case <-time.After(timeout):
		return fmt.Errorf("TIMEOUT (no ack in %v)", timeout)
	}
}

// openLibrary opens the configured library database and returns a repository
func openLibrary() (*library.Repository, func(), error) {
	path, err := libraryPath()
	if err != nil {
		return nil, nil, err
	}
	db, err := library.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return library.NewRepository(db.GetDB()), func() { db.Close() }, nil
}
