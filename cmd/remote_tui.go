// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Thermoquad/zephyr/pkg/irlink"
	"github.com/Thermoquad/zephyr/pkg/soleus"
)

//////////////////////////////////////////////////////////////
// Types
//////////////////////////////////////////////////////////////

// eventLogEntry is one line in the TUI event log
type eventLogEntry struct {
	timestamp time.Time
	message   string
	isError   bool
}

// remoteModel is the Bubble Tea model for the remote control TUI
type remoteModel struct {
	// Connection manager (for sending commands and reconnection)
	connMgr  *remoteConnManager
	connInfo string

	// Remote state being edited
	command soleus.Command

	// Direct temperature entry
	tempInput   textinput.Model
	editingTemp bool

	// Transmit tracking
	sent     int
	acked    int
	awaiting bool

	// Event log
	eventLog      []eventLogEntry
	maxLogEntries int

	// UI state
	width          int
	height         int
	quitting       bool
	connectionLost bool
}

//////////////////////////////////////////////////////////////
// Messages
//////////////////////////////////////////////////////////////

type remoteTickMsg time.Time

type remoteLinkMsg struct {
	message   *irlink.Message
	decodeErr error
}

type remoteConnLostMsg struct{}

type remoteReconnectedMsg struct {
	connInfo string
}

//////////////////////////////////////////////////////////////
// Model Initialization
//////////////////////////////////////////////////////////////

func initialRemoteModel(connMgr *remoteConnManager, connInfo string) remoteModel {
	ti := textinput.New()
	ti.Placeholder = "75"
	ti.CharLimit = 2
	ti.Width = 4

	return remoteModel{
		tempInput: ti,
		connMgr:  connMgr,
		connInfo: connInfo,
		command: soleus.Command{
			Mode:         soleus.ModeCool,
			Fan:          soleus.FanMed,
			TemperatureF: 75,
		},
		eventLog:      make([]eventLogEntry, 0),
		maxLogEntries: 100,
		width:         80,
		height:        24,
	}
}

//////////////////////////////////////////////////////////////
// Bubble Tea Interface
//////////////////////////////////////////////////////////////

func (m remoteModel) Init() tea.Cmd {
	return remoteTickCmd()
}

func remoteTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return remoteTickMsg(t)
	})
}

func (m remoteModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case remoteTickMsg:
		return m, remoteTickCmd()

	case remoteLinkMsg:
		m.processLinkMsg(msg)

	case remoteConnLostMsg:
		m.connectionLost = true
		m.addLogEntry("Connection lost - reconnecting...", true)

	case remoteReconnectedMsg:
		m.connectionLost = false
		m.connInfo = msg.connInfo
		m.addLogEntry("Reconnected", false)
	}

	if m.editingTemp {
		var cmd tea.Cmd
		m.tempInput, cmd = m.tempInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *remoteModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editingTemp {
		switch msg.String() {
		case "enter":
			m.applyTempInput()
			return m, nil
		case "esc":
			m.editingTemp = false
			m.tempInput.Blur()
			return m, nil
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.tempInput, cmd = m.tempInput.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "m":
		m.cycleMode()

	case "f":
		m.cycleFan()

	case "t":
		m.startTempInput()

	case "up", "k":
		m.adjustTemp(1)

	case "down", "j":
		m.adjustTemp(-1)

	case "e":
		m.togglePreset(soleus.PresetEco)

	case "s":
		m.togglePreset(soleus.PresetSleep)

	case "enter":
		m.transmit()
	}

	return m, nil
}

func (m *remoteModel) startTempInput() {
	if !m.command.HasTemperature() {
		m.addLogEntry("Current mode has no temperature setting", true)
		return
	}
	m.tempInput.SetValue(strconv.Itoa(m.command.TemperatureF))
	m.tempInput.Focus()
	m.editingTemp = true
}

func (m *remoteModel) applyTempInput() {
	m.editingTemp = false
	m.tempInput.Blur()

	t, err := strconv.Atoi(strings.TrimSpace(m.tempInput.Value()))
	if err != nil {
		m.addLogEntry(fmt.Sprintf("Invalid temperature: %q", m.tempInput.Value()), true)
		return
	}
	if t < soleus.TempMinF || t > soleus.TempMaxF {
		m.addLogEntry(fmt.Sprintf("Temperature must be %d-%dF", soleus.TempMinF, soleus.TempMaxF), true)
		return
	}
	m.command.TemperatureF = t
}

//////////////////////////////////////////////////////////////
// State Editing
//////////////////////////////////////////////////////////////

func (m *remoteModel) cycleMode() {
	switch m.command.Mode {
	case soleus.ModeCool:
		m.command.Mode = soleus.ModeAuto
	case soleus.ModeAuto:
		m.command.Mode = soleus.ModeFanOnly
	case soleus.ModeFanOnly:
		m.command.Mode = soleus.ModeDry
	case soleus.ModeDry:
		m.command.Mode = soleus.ModeOff
	default:
		m.command.Mode = soleus.ModeCool
	}
	if m.command.Mode != soleus.ModeCool {
		m.command.Preset = soleus.PresetNone
	}
}

func (m *remoteModel) cycleFan() {
	switch m.command.Fan {
	case soleus.FanLow:
		m.command.Fan = soleus.FanMed
	case soleus.FanMed:
		m.command.Fan = soleus.FanHigh
	default:
		m.command.Fan = soleus.FanLow
	}
}

func (m *remoteModel) adjustTemp(delta int) {
	if !m.command.HasTemperature() {
		return
	}
	t := m.command.TemperatureF + delta
	if t < soleus.TempMinF {
		t = soleus.TempMinF
	}
	if t > soleus.TempMaxF {
		t = soleus.TempMaxF
	}
	m.command.TemperatureF = t
}

func (m *remoteModel) togglePreset(p soleus.Preset) {
	if m.command.Mode != soleus.ModeCool {
		m.addLogEntry("Presets apply to cool mode only", true)
		return
	}
	if m.command.Preset == p {
		m.command.Preset = soleus.PresetNone
	} else {
		m.command.Preset = p
	}
}

//////////////////////////////////////////////////////////////
// Transmit and Link Handling
//////////////////////////////////////////////////////////////

func (m *remoteModel) transmit() {
	if m.connectionLost {
		m.addLogEntry("Cannot transmit: connection lost", true)
		return
	}

	frame, err := soleus.EncodeCommand(m.command)
	if err != nil {
		m.addLogEntry(fmt.Sprintf("Encode failed: %v", err), true)
		return
	}

	wireBytes, err := irlink.Encode(irlink.NewTransmit(soleus.CarrierHz, soleus.EncodePulses(frame)))
	if err != nil {
		m.addLogEntry(fmt.Sprintf("Link encode failed: %v", err), true)
		return
	}

	conn := m.connMgr.getConn()
	if conn == nil {
		m.addLogEntry("Cannot transmit: connection lost", true)
		return
	}
	if _, err := conn.Write(wireBytes); err != nil {
		m.addLogEntry(fmt.Sprintf("Transmit failed: %v", err), true)
		return
	}

	m.sent++
	m.awaiting = true
	m.addLogEntry(fmt.Sprintf("Sent %s (%s)", soleus.FormatCommand(m.command), frame), false)
}

func (m *remoteModel) processLinkMsg(msg remoteLinkMsg) {
	if msg.decodeErr != nil {
		m.addLogEntry(fmt.Sprintf("DECODE ERROR: %v", msg.decodeErr), true)
		return
	}
	if msg.message == nil {
		return
	}

	switch msg.message.Type() {
	case irlink.MsgTransmitAck:
		m.acked++
		m.awaiting = false
		m.addLogEntry("Bridge acknowledged transmission", false)

	case irlink.MsgErrorInvalidCmd, irlink.MsgErrorBadCRC:
		m.awaiting = false
		m.addLogEntry(fmt.Sprintf("Bridge error: %s", irlink.FormatMessageType(msg.message.Type())), true)

	case irlink.MsgPingResponse:
		if uptime, err := irlink.Uptime(msg.message); err == nil {
			m.addLogEntry(fmt.Sprintf("Bridge uptime: %s", formatUptime(uptime)), false)
		}
	}
}

//////////////////////////////////////////////////////////////
// View
//////////////////////////////////////////////////////////////

func (m remoteModel) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	var s strings.Builder

	// Styles
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Background(lipgloss.Color("235")).
		Padding(0, 1)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")).
		Bold(true)

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	warningStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("11"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	// Header
	s.WriteString(titleStyle.Render("ZEPHYR REMOTE"))
	s.WriteString(" ")
	connStatus := m.connInfo
	if m.connectionLost {
		connStatus = warningStyle.Render("RECONNECTING...")
	}
	s.WriteString(headerStyle.Render(fmt.Sprintf("| %s | m=mode f=fan t=temp e/s=preset enter=send q=quit", connStatus)))
	s.WriteString("\n\n")

	// Remote state panel
	var state strings.Builder
	state.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Mode:"), valueStyle.Render(m.command.Mode.String())))
	state.WriteString(fmt.Sprintf("%s  %s\n", labelStyle.Render("Fan:"), valueStyle.Render(m.command.Fan.String())))
	if m.editingTemp {
		state.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Temp:"), m.tempInput.View()))
	} else if m.command.HasTemperature() {
		state.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Temp:"), valueStyle.Render(fmt.Sprintf("%dF", m.command.TemperatureF))))
	} else {
		state.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Temp:"), headerStyle.Render("n/a")))
	}
	state.WriteString(fmt.Sprintf("%s %s", labelStyle.Render("Preset:"), valueStyle.Render(m.command.Preset.String())))
	statePanel := boxStyle.Width(28).Render(state.String())

	// Frame preview panel
	var preview string
	if frame, err := soleus.EncodeCommand(m.command); err != nil {
		preview = warningStyle.Render(fmt.Sprintf("cannot encode: %v", err))
	} else {
		preview = soleus.FormatFrame(frame)
	}
	previewWidth := m.width - 36
	if previewWidth < 40 {
		previewWidth = 40
	}
	previewPanel := boxStyle.Width(previewWidth).Render(preview)

	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, statePanel, " ", previewPanel))
	s.WriteString("\n\n")

	// Transmit status bar
	ackStatus := fmt.Sprintf("%d/%d acked", m.acked, m.sent)
	if m.awaiting {
		ackStatus += " (waiting...)"
	}
	s.WriteString(boxStyle.Width(m.width - 4).Render(fmt.Sprintf("%s %s",
		labelStyle.Render("Transmissions:"), valueStyle.Render(ackStatus))))
	s.WriteString("\n\n")

	// Event log
	s.WriteString(m.renderEventLog(labelStyle, warningStyle, boxStyle))

	return s.String()
}

func (m remoteModel) renderEventLog(labelStyle, warningStyle, boxStyle lipgloss.Style) string {
	var s strings.Builder
	s.WriteString(labelStyle.Render("EVENTS"))
	s.WriteString("\n")

	headerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyleLocal := lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

	logHeight := 8
	if len(m.eventLog) < logHeight {
		logHeight = len(m.eventLog)
	}

	startIdx := len(m.eventLog) - logHeight
	if startIdx < 0 {
		startIdx = 0
	}

	if len(m.eventLog) == 0 {
		s.WriteString(headerStyle.Render("  (no events yet)"))
	} else {
		for i := startIdx; i < len(m.eventLog); i++ {
			entry := m.eventLog[i]
			timestamp := entry.timestamp.Format("15:04:05.000")
			icon := "i"
			style := warningStyle
			if entry.isError {
				icon = "x"
				style = errorStyleLocal
			}
			s.WriteString(fmt.Sprintf("%s %s %s\n",
				headerStyle.Render(timestamp),
				style.Render(icon),
				entry.message))
		}
	}

	return boxStyle.Width(m.width - 4).Render(s.String())
}

//////////////////////////////////////////////////////////////
// Helpers
//////////////////////////////////////////////////////////////

func (m *remoteModel) addLogEntry(message string, isError bool) {
	entry := eventLogEntry{
		timestamp: time.Now(),
		message:   message,
		isError:   isError,
	}
	m.eventLog = append(m.eventLog, entry)

	if len(m.eventLog) > m.maxLogEntries {
		m.eventLog = m.eventLog[len(m.eventLog)-m.maxLogEntries:]
	}
}
