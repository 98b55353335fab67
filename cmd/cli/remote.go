// Copyright 2025 Arion Yau
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"braviad/internal/bravia"
)

// connectResultMsg carries the outcome of the initial poll tick
type connectResultMsg struct {
	connected bool
	model     string
	codes     int
}

// pressResultMsg carries the outcome of a button press
type pressResultMsg struct {
	command string
	err     error
}

// RemoteModel is the remote-control keypad screen
type RemoteModel struct {
	session *bravia.Session

	connecting      bool
	connected       bool
	deviceModel     string
	codeCount       int
	selectedButton  remoteButton
	lastButtonPress time.Time

	actionLog   []actionLogEntry
	maxLogLines int

	width  int
	height int
}

// NewRemoteModel creates the remote keypad driven by one device session
func NewRemoteModel(session *bravia.Session) RemoteModel {
	return RemoteModel{
		session:     session,
		connecting:  true,
		maxLogLines: 5,
	}
}

// Init runs the first poll tick so the capability table is populated
// before any button is pressed
func (m RemoteModel) Init() tea.Cmd {
	session := m.session
	return func() tea.Msg {
		session.Tick()
		return connectResultMsg{
			connected: session.State() == bravia.StateConnected,
			model:     session.Model(),
			codes:     session.IRCodes().Len(),
		}
	}
}

// Update handles remote control screen messages
func (m RemoteModel) Update(msg tea.Msg) (RemoteModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case connectResultMsg:
		m.connecting = false
		m.connected = msg.connected
		m.deviceModel = msg.model
		m.codeCount = msg.codes
		return m, nil

	case pressResultMsg:
		m.actionLog = append(m.actionLog, actionLogEntry{
			Timestamp: time.Now(),
			Command:   msg.command,
			Err:       msg.err,
		})
		if len(m.actionLog) > m.maxLogLines {
			m.actionLog = m.actionLog[len(m.actionLog)-m.maxLogLines:]
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up":
			return m.press(buttonUp)
		case "down":
			return m.press(buttonDown)
		case "left":
			return m.press(buttonLeft)
		case "right":
			return m.press(buttonRight)
		case "enter":
			return m.press(buttonOK)
		case "p":
			return m.press(buttonPower)
		case "+", "=":
			return m.press(buttonVolumeUp)
		case "-":
			return m.press(buttonVolumeDown)
		case "m":
			return m.press(buttonMute)
		case "ctrl+up":
			return m.press(buttonChannelUp)
		case "ctrl+down":
			return m.press(buttonChannelDown)
		case "h":
			return m.press(buttonHome)
		case "backspace":
			return m.press(buttonBack)
		case "i":
			return m.press(buttonInput)
		case "r":
			// Re-probe the device
			m.connecting = true
			return m, m.Init()
		}
	}

	return m, nil
}

// press sends the IR command bound to a button
func (m RemoteModel) press(btn remoteButton) (RemoteModel, tea.Cmd) {
	command, ok := buttonCommands[btn]
	if !ok {
		return m, nil
	}

	m.selectedButton = btn
	m.lastButtonPress = time.Now()

	session := m.session
	return m, func() tea.Msg {
		err := session.SendRemoteCode(command)
		return pressResultMsg{command: command, err: err}
	}
}

// View renders the remote control screen
func (m RemoteModel) View() string {
	var sections []string

	sections = append(sections, titleStyle.Render("braviad - TV Remote"))

	switch {
	case m.connecting:
		sections = append(sections, helpStyle.Render("Probing device..."))
	case m.connected:
		sections = append(sections, successStyle.Render(
			fmt.Sprintf("📺 %s (%d IR commands)", m.deviceModel, m.codeCount)))
	default:
		sections = append(sections, errorStyle.Render("✗ Device unreachable (press r to retry)"))
	}

	sections = append(sections, m.renderKeypad())

	if log := m.renderActionLog(); log != "" {
		sections = append(sections, log)
	}

	sections = append(sections, helpStyle.Render(
		"arrows/enter navigate · p power · +/- volume · m mute · ctrl+↑/↓ channel\n"+
			"h home · backspace back · i input · r reconnect · q quit"))

	return strings.Join(sections, "\n\n")
}

// renderKeypad draws the button grid
func (m RemoteModel) renderKeypad() string {
	style := func(btn remoteButton) lipgloss.Style {
		if m.selectedButton == btn && time.Since(m.lastButtonPress) < 200*time.Millisecond {
			return remoteButtonActiveStyle
		}
		return remoteButtonStyle
	}

	navColumn := lipgloss.JoinVertical(lipgloss.Center,
		sectionStyle.Render("Navigation:"),
		style(buttonPower).Render(" PWR  "),
		style(buttonUp).Render("  ↑   "),
		lipgloss.JoinHorizontal(lipgloss.Center,
			style(buttonLeft).Render("  ←   "),
			style(buttonOK).Render(" OK   "),
			style(buttonRight).Render("  →   ")),
		style(buttonDown).Render("  ↓   "),
	)

	audioColumn := lipgloss.JoinVertical(lipgloss.Left,
		sectionStyle.Render("Volume & Channel:"),
		lipgloss.JoinHorizontal(lipgloss.Left,
			style(buttonVolumeUp).Render("VOL + "),
			"  ",
			style(buttonChannelUp).Render("CH +  ")),
		lipgloss.JoinHorizontal(lipgloss.Left,
			style(buttonVolumeDown).Render("VOL - "),
			"  ",
			style(buttonChannelDown).Render("CH -  ")),
		style(buttonMute).Render("MUTE  "),
	)

	functionColumn := lipgloss.JoinVertical(lipgloss.Left,
		sectionStyle.Render("Functions:"),
		style(buttonHome).Render("HOME  "),
		style(buttonBack).Render("BACK  "),
		style(buttonInput).Render("INPUT "),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		navColumn,
		strings.Repeat(" ", 6),
		audioColumn,
		strings.Repeat(" ", 6),
		functionColumn,
	)
}

// renderActionLog shows the last few button presses and their outcomes
func (m RemoteModel) renderActionLog() string {
	if len(m.actionLog) == 0 {
		return ""
	}

	lines := []string{helpStyle.Render("─── LOG ───")}
	for _, entry := range m.actionLog {
		timestamp := entry.Timestamp.Format("15:04:05")
		if entry.Err != nil {
			lines = append(lines, fmt.Sprintf("%s %s", timestamp,
				errorStyle.Render(fmt.Sprintf("✗ %s: %v", entry.Command, entry.Err))))
		} else {
			lines = append(lines, fmt.Sprintf("%s ✓ %s", timestamp, entry.Command))
		}
	}
	return strings.Join(lines, "\n")
}
