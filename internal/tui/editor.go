package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cafe-fausse/server/internal/admin"
)

// Messages produced by editor commands. The editor workflow holds the
// resulting state; the messages only trigger a re-render.
type (
	menuLoadedMsg  struct{}
	itemSavedMsg   struct{ itemID string }
	itemRemovedMsg struct{ itemID string }
	logoutDoneMsg  struct{}
)

// editFields is the order the inline editor walks through an item.
var editFields = []admin.Field{
	admin.FieldName,
	admin.FieldDescription,
	admin.FieldPrice,
	admin.FieldImage,
}

// row is one rendered line: either a section header or an item.
type row struct {
	sectionID string
	itemID    string // empty for section headers
	label     string
}

type editorModel struct {
	editor *admin.MenuEditor

	rows   []row
	cursor int
	notice string

	// Inline field editing walks name, description, price, image in order.
	editing  bool
	editRow  row
	fieldIdx int
	input    textinput.Model
}

func newEditorModel(editor *admin.MenuEditor) editorModel {
	input := textinput.New()
	input.Prompt = "> "
	input.CharLimit = 200

	return editorModel{editor: editor, input: input}
}

func (m editorModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		m.editor.Load(context.Background())
		return menuLoadedMsg{}
	}
}

func (m editorModel) saveCmd(r row) tea.Cmd {
	return func() tea.Msg {
		m.editor.SaveItem(context.Background(), r.sectionID, r.itemID)
		return itemSavedMsg{itemID: r.itemID}
	}
}

func (m editorModel) removeCmd(r row) tea.Cmd {
	return func() tea.Msg {
		m.editor.RemoveItem(context.Background(), r.sectionID, r.itemID)
		return itemRemovedMsg{itemID: r.itemID}
	}
}

func (m editorModel) logoutCmd() tea.Cmd {
	return func() tea.Msg {
		m.editor.Logout(context.Background())
		return logoutDoneMsg{}
	}
}

// rebuildRows flattens the working copy into display rows, keeping the
// cursor on the same item where possible.
func (m *editorModel) rebuildRows() {
	var keepItem string
	if m.cursor >= 0 && m.cursor < len(m.rows) {
		keepItem = m.rows[m.cursor].itemID
	}

	m.rows = m.rows[:0]
	for _, sec := range m.editor.Sections() {
		m.rows = append(m.rows, row{sectionID: sec.ID, label: sec.Title})
		for _, it := range sec.Items {
			label := fmt.Sprintf("%s  %s", it.Name, mutedStyle.Render(it.Price))
			m.rows = append(m.rows, row{sectionID: sec.ID, itemID: it.ID, label: label})
		}
	}

	m.cursor = 0
	for i, r := range m.rows {
		if keepItem != "" && r.itemID == keepItem {
			m.cursor = i
			return
		}
	}
	// Default to the first item row, not the header above it.
	for i, r := range m.rows {
		if r.itemID != "" {
			m.cursor = i
			return
		}
	}
}

func (m *editorModel) currentItem() (admin.EditorItem, row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return admin.EditorItem{}, row{}, false
	}
	r := m.rows[m.cursor]
	if r.itemID == "" {
		return admin.EditorItem{}, r, false
	}
	for _, sec := range m.editor.Sections() {
		if sec.ID != r.sectionID {
			continue
		}
		for _, it := range sec.Items {
			if it.ID == r.itemID {
				return it, r, true
			}
		}
	}
	return admin.EditorItem{}, r, false
}

func fieldValue(it admin.EditorItem, f admin.Field) string {
	switch f {
	case admin.FieldName:
		return it.Name
	case admin.FieldDescription:
		return it.Description
	case admin.FieldPrice:
		return it.Price
	case admin.FieldImage:
		return it.Image
	}
	return ""
}

func (m *editorModel) startEditing(r row) {
	it, _, ok := m.currentItem()
	if !ok {
		return
	}
	m.editing = true
	m.editRow = r
	m.fieldIdx = 0
	m.input.SetValue(fieldValue(it, editFields[0]))
	m.input.CursorEnd()
	m.input.Focus()
}

func (m *editorModel) advanceEditing() {
	m.editor.EditField(m.editRow.sectionID, m.editRow.itemID, editFields[m.fieldIdx], m.input.Value())
	m.fieldIdx++
	if m.fieldIdx >= len(editFields) {
		m.stopEditing()
		m.rebuildRows()
		return
	}
	if it, _, ok := m.currentItem(); ok {
		m.input.SetValue(fieldValue(it, editFields[m.fieldIdx]))
		m.input.CursorEnd()
	}
}

func (m *editorModel) stopEditing() {
	m.editing = false
	m.input.SetValue("")
	m.input.Blur()
}

func (m editorModel) Update(msg tea.Msg) (editorModel, tea.Cmd) {
	if m.editing {
		switch x := msg.(type) {
		case tea.KeyMsg:
			switch x.String() {
			case "enter":
				m.advanceEditing()
				return m, nil
			case "esc":
				m.stopEditing()
				m.rebuildRows()
				return m, nil
			}
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case menuLoadedMsg:
		m.rebuildRows()
		return m, nil
	case itemSavedMsg:
		if errText := m.editor.ItemError(msg.itemID); errText != "" {
			m.notice = errorStyle.Render(errText)
		} else {
			m.notice = successStyle.Render("saved")
		}
		m.rebuildRows()
		return m, nil
	case itemRemovedMsg:
		if errText := m.editor.ItemError(msg.itemID); errText != "" {
			m.notice = errorStyle.Render(errText)
		} else {
			m.notice = successStyle.Render("deleted")
		}
		m.rebuildRows()
		return m, nil
	case tea.KeyMsg:
		m.notice = ""
		switch msg.String() {
		case "up", "k":
			for i := m.cursor - 1; i >= 0; i-- {
				if m.rows[i].itemID != "" {
					m.cursor = i
					break
				}
			}
			return m, nil
		case "down", "j":
			for i := m.cursor + 1; i < len(m.rows); i++ {
				if m.rows[i].itemID != "" {
					m.cursor = i
					break
				}
			}
			return m, nil
		case "r":
			return m, m.loadCmd()
		case "e":
			if _, r, ok := m.currentItem(); ok {
				m.startEditing(r)
			}
			return m, nil
		case "a":
			if m.cursor >= 0 && m.cursor < len(m.rows) {
				if id, ok := m.editor.AddItem(m.rows[m.cursor].sectionID); ok {
					m.rebuildRows()
					for i, r := range m.rows {
						if r.itemID == id {
							m.cursor = i
							break
						}
					}
				}
			}
			return m, nil
		case "d":
			if _, r, ok := m.currentItem(); ok {
				return m, m.removeCmd(r)
			}
			return m, nil
		case "s":
			if _, r, ok := m.currentItem(); ok {
				if m.editor.Saving(r.itemID) {
					m.notice = mutedStyle.Render("save already in progress")
					return m, nil
				}
				m.notice = mutedStyle.Render("saving...")
				return m, m.saveCmd(r)
			}
			return m, nil
		case "L":
			return m, m.logoutCmd()
		}
	}
	return m, nil
}

func (m editorModel) View() string {
	loading, loadErr := m.editor.LoadState()

	header := titleStyle.Render("Café Fausse") + "  " + mutedStyle.Render("menu editor")
	var b strings.Builder
	b.WriteString(header + "\n\n")

	switch {
	case loading:
		b.WriteString(mutedStyle.Render("loading menu..."))
	case loadErr != "":
		b.WriteString(errorStyle.Render(loadErr) + "\n")
		b.WriteString(helpStyle.Render("r retry · L logout · ctrl+c quit"))
		return panelString(b.String())
	case len(m.rows) == 0:
		b.WriteString(mutedStyle.Render("the menu is empty"))
	}

	for i, r := range m.rows {
		if r.itemID == "" {
			b.WriteString(sectionStyle.Render(r.label) + "\n")
			continue
		}
		prefix := "  "
		label := r.label
		if i == m.cursor {
			prefix = selectedStyle.Render("> ")
		}
		if m.editor.Saving(r.itemID) {
			label += " " + accentStyle.Render("(saving)")
		}
		b.WriteString(prefix + label + "\n")
	}

	if m.editing {
		b.WriteString("\n" + accentStyle.Render("edit "+string(editFields[m.fieldIdx])) + "\n" + m.input.View() + "\n")
		b.WriteString(helpStyle.Render("enter next field · esc cancel"))
		return panelString(b.String())
	}

	if m.notice != "" {
		b.WriteString("\n" + m.notice + "\n")
	}
	b.WriteString("\n" + helpStyle.Render("↑/↓ move · e edit · a add · s save · d delete · r reload · L logout · ctrl+c quit"))
	return panelString(b.String())
}
