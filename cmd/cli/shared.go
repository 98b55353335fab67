package cli

import (
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Common styles
var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			Bold(true)

	remoteButtonStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(0, 1).
				Margin(0, 1).
				Background(lipgloss.Color("#44475A")).
				Foreground(lipgloss.Color("#F8F8F2"))

	remoteButtonActiveStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(0, 1).
				Margin(0, 1).
				Background(lipgloss.Color("#FF79C6")).
				Foreground(lipgloss.Color("#FAFAFA"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5555")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#50FA7B")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6272A4"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8BE9FD"))
)

// Remote button types; each maps to an IR command name resolved through
// the device's own capability table
type remoteButton int

const (
	buttonNone remoteButton = iota
	buttonPower
	buttonVolumeUp
	buttonVolumeDown
	buttonMute
	buttonChannelUp
	buttonChannelDown
	buttonUp
	buttonDown
	buttonLeft
	buttonRight
	buttonOK
	buttonHome
	buttonBack
	buttonInput
)

// buttonCommands maps buttons to the command names the device announces
// in its IR capability listing
var buttonCommands = map[remoteButton]string{
	buttonPower:       "Power",
	buttonVolumeUp:    "VolumeUp",
	buttonVolumeDown:  "VolumeDown",
	buttonMute:        "Mute",
	buttonChannelUp:   "ChannelUp",
	buttonChannelDown: "ChannelDown",
	buttonUp:          "Up",
	buttonDown:        "Down",
	buttonLeft:        "Left",
	buttonRight:       "Right",
	buttonOK:          "Confirm",
	buttonHome:        "Home",
	buttonBack:        "Return",
	buttonInput:       "Input",
}

// actionLogEntry records one button press for the on-screen log
type actionLogEntry struct {
	Timestamp time.Time
	Command   string
	Err       error
}
