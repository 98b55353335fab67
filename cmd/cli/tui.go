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
	"github.com/charmbracelet/bubbletea"

	"braviad/internal/bravia"
)

// Main TUI model wrapping the remote screen
type model struct {
	remoteModel RemoteModel
	quitting    bool
}

func (m model) Init() tea.Cmd {
	return m.remoteModel.Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.remoteModel, cmd = m.remoteModel.Update(msg)
	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return successStyle.Render("Thanks for using braviad!") + "\n"
	}
	return m.remoteModel.View()
}

// StartTUI runs the remote-control keypad for one device session
func StartTUI(session *bravia.Session) error {
	p := tea.NewProgram(
		model{remoteModel: NewRemoteModel(session)},
		tea.WithAltScreen(),
	)

	// Ensure proper cleanup on panic or interrupt
	defer func() {
		if r := recover(); r != nil {
			p.Kill()
		}
	}()

	_, err := p.Run()
	return err
}
