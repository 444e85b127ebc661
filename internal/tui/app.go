// Package tui implements the terminal admin console: a sign-in screen and
// the menu editor, driven by the admin workflows.
package tui

import (
	"log/slog"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cafe-fausse/server/internal/admin"
)

type screen int

const (
	screenLogin screen = iota
	screenEditor
)

// routeTracker satisfies admin.Navigator and records the latest target so
// the update loop can switch screens after a workflow command finishes.
type routeTracker struct {
	mu    sync.Mutex
	route admin.Route
}

func (t *routeTracker) Navigate(r admin.Route) {
	t.mu.Lock()
	t.route = r
	t.mu.Unlock()
}

func (t *routeTracker) current() admin.Route {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.route
}

type appModel struct {
	screen screen
	login  loginModel
	editor editorModel
	nav    *routeTracker
}

func newAppModel(client admin.Backend, creds admin.CredentialStore, logger *slog.Logger) appModel {
	nav := &routeTracker{route: admin.RouteLogin}
	guard := admin.NewSessionGuard(creds)

	m := appModel{
		login:  newLoginModel(admin.NewLoginWorkflow(client, creds, nav, logger)),
		editor: newEditorModel(admin.NewMenuEditor(client, creds, nav, logger)),
		nav:    nav,
	}
	if guard.Resolve(admin.RouteDashboard) == admin.RouteDashboard {
		m.screen = screenEditor
	}
	return m
}

func (m appModel) Init() tea.Cmd {
	if m.screen == screenEditor {
		return m.editor.loadCmd()
	}
	return nil
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case loginFinishedMsg:
		var cmd tea.Cmd
		m.login, cmd = m.login.Update(msg)
		if m.nav.current() == admin.RouteDashboard {
			m.screen = screenEditor
			return m, tea.Batch(cmd, m.editor.loadCmd())
		}
		return m, cmd
	case logoutDoneMsg:
		m.screen = screenLogin
		return m, nil
	}

	var cmd tea.Cmd
	switch m.screen {
	case screenLogin:
		m.login, cmd = m.login.Update(msg)
	case screenEditor:
		m.editor, cmd = m.editor.Update(msg)
	}
	return m, cmd
}

func (m appModel) View() string {
	if m.screen == screenEditor {
		return m.editor.View()
	}
	return m.login.View()
}

// Run starts the admin console and blocks until the user quits.
func Run(client admin.Backend, creds admin.CredentialStore, logger *slog.Logger) error {
	p := tea.NewProgram(newAppModel(client, creds, logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
