package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cafe-fausse/server/internal/admin"
)

// loginFinishedMsg signals that a login attempt completed; the workflow
// holds the outcome.
type loginFinishedMsg struct{}

type loginModel struct {
	workflow *admin.LoginWorkflow

	username textinput.Model
	password textinput.Model
	focus    int
	busy     bool
}

func newLoginModel(workflow *admin.LoginWorkflow) loginModel {
	username := textinput.New()
	username.Prompt = "> "
	username.Placeholder = "username"
	username.CharLimit = 64
	username.Focus()

	password := textinput.New()
	password.Prompt = "> "
	password.Placeholder = "password"
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword

	return loginModel{
		workflow: workflow,
		username: username,
		password: password,
	}
}

func (m loginModel) submit() tea.Cmd {
	username, password := m.username.Value(), m.password.Value()
	return func() tea.Msg {
		m.workflow.Submit(context.Background(), username, password)
		return loginFinishedMsg{}
	}
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			m.focus = (m.focus + 1) % 2
			if m.focus == 0 {
				m.username.Focus()
				m.password.Blur()
			} else {
				m.username.Blur()
				m.password.Focus()
			}
			return m, nil
		case "enter":
			if m.focus == 0 {
				m.focus = 1
				m.username.Blur()
				m.password.Focus()
				return m, nil
			}
			m.busy = true
			return m, m.submit()
		}
	case loginFinishedMsg:
		m.busy = false
		if state, _ := m.workflow.State(); state == admin.StateSuccess {
			m.password.SetValue("")
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.focus == 0 {
		m.username, cmd = m.username.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m loginModel) View() string {
	header := titleStyle.Render("Café Fausse") + "  " + mutedStyle.Render("admin sign-in")
	body := header + "\n\n" + m.username.View() + "\n" + m.password.View()

	state, msg := m.workflow.State()
	switch {
	case m.busy || state == admin.StateLoading:
		body += "\n\n" + mutedStyle.Render("signing in...")
	case state == admin.StateError:
		body += "\n\n" + errorStyle.Render(msg)
	}

	body += "\n\n" + helpStyle.Render("tab switch field · enter submit · ctrl+c quit")
	return panelString(body)
}
