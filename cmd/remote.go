// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Thermoquad/zephyr/pkg/irlink"
)

var remoteCmd = &cobra.Command{
	Use:   "remote",
	Short: "Interactive on-screen remote control",
	Long: `Control the air conditioner via an interactive terminal UI.

The TUI mirrors the physical remote: pick a mode, fan speed, temperature,
and preset, then transmit through the connected bridge. The frame preview
updates live as settings change.

Keys:
  m       cycle mode (cool, auto, fan, dry, off)
  f       cycle fan speed
  t       type a temperature directly
  up/down adjust temperature
  e / s   toggle eco / sleep preset
  enter   transmit
  q       quit

Supports both serial and WebSocket connections, with automatic reconnection
on connection loss.`,
	RunE: runRemote,
}

func init() {
	rootCmd.AddCommand(remoteCmd)
}

// remoteConnManager handles connection lifecycle and reconnection
type remoteConnManager struct {
	conn     Connection
	connInfo string
	mu       sync.RWMutex
	p        *tea.Program
	done     chan struct{}
}

func (cm *remoteConnManager) getConn() Connection {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.conn
}

func (cm *remoteConnManager) setConn(conn Connection, connInfo string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.conn = conn
	cm.connInfo = connInfo
}

func runRemote(cmd *cobra.Command, args []string) error {
	conn, connInfo, err := OpenConnection()
	if err != nil {
		return err
	}

	cm := &remoteConnManager{
		conn:     conn,
		connInfo: connInfo,
		done:     make(chan struct{}),
	}

	m := initialRemoteModel(cm, connInfo)

	p := tea.NewProgram(m, tea.WithAltScreen())
	cm.p = p

	go cm.readerLoop()

	if _, err := p.Run(); err != nil {
		close(cm.done)
		cm.getConn().Close()
		return fmt.Errorf("TUI error: %v", err)
	}

	close(cm.done)
	cm.getConn().Close()
	return nil
}

// readerLoop handles reading from the connection with automatic reconnection
func (cm *remoteConnManager) readerLoop() {
	for {
		select {
		case <-cm.done:
			return
		default:
		}

		connLost := cm.readFromConnection()

		if connLost {
			cm.p.Send(remoteConnLostMsg{})

			if !cm.reconnect() {
				return // Shutdown requested during reconnect
			}
		}
	}
}

// readFromConnection reads link messages until the connection fails.
// Returns true if the connection was lost, false on shutdown.
func (cm *remoteConnManager) readFromConnection() bool {
	decoder := irlink.NewDecoder()
	buf := make([]byte, 128)

	for {
		select {
		case <-cm.done:
			return false
		default:
		}

		conn := cm.getConn()
		if conn == nil {
			return true
		}

		n, err := conn.Read(buf)
		if err != nil {
			select {
			case <-cm.done:
				return false
			default:
				if err == ErrConnectionClosed {
					return true
				}
				// Brief pause before retry on transient errors (e.g., serial)
				time.Sleep(10 * time.Millisecond)
				continue
			}
		}

		for i := 0; i < n; i++ {
			msg, decodeErr := decoder.DecodeByte(buf[i])
			if decodeErr != nil {
				cm.p.Send(remoteLinkMsg{decodeErr: decodeErr})
				continue
			}
			if msg != nil {
				cm.p.Send(remoteLinkMsg{message: msg})
			}
		}
	}
}

// reconnect attempts to reconnect with exponential backoff.
// Returns false if shutdown was requested during reconnection.
func (cm *remoteConnManager) reconnect() bool {
	if conn := cm.getConn(); conn != nil {
		conn.Close()
	}

	backoff := 1 * time.Second
	maxBackoff := 30 * time.Second

	for {
		select {
		case <-cm.done:
			return false
		case <-time.After(backoff):
		}

		conn, connInfo, err := OpenConnection()
		if err == nil {
			cm.setConn(conn, connInfo)
			cm.p.Send(remoteReconnectedMsg{connInfo: connInfo})
			return true
		}

		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}
