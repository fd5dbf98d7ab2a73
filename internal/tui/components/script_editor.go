package components

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/storyreel/internal/tui/styles"
)

// ScriptKeyMap holds the script editor bindings
type ScriptKeyMap struct {
	Save   key.Binding
	Cancel key.Binding
}

var scriptKeys = ScriptKeyMap{
	Save: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", "split into scenes"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}

// ScriptEditor is the multi-line script modal. Saving replaces the
// project's scenes with a fresh split of the text.
type ScriptEditor struct {
	area    textarea.Model
	visible bool
	width   int
	height  int
}

// NewScriptEditor creates a script editor
func NewScriptEditor() ScriptEditor {
	ta := textarea.New()
	ta.Placeholder = "Write your script. Each sentence becomes a scene."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Placeholder = styles.DimStyle
	return ScriptEditor{area: ta}
}

// Show opens the editor with text
func (e *ScriptEditor) Show(text string) {
	e.visible = true
	e.area.SetValue(text)
	e.area.Focus()
}

// Hide closes the editor
func (e *ScriptEditor) Hide() {
	e.visible = false
	e.area.Blur()
}

// IsVisible returns true if the editor is shown
func (e ScriptEditor) IsVisible() bool {
	return e.visible
}

// SetValue replaces the text, e.g. with a generated script
func (e *ScriptEditor) SetValue(text string) {
	e.area.SetValue(text)
}

// Value returns the script text
func (e ScriptEditor) Value() string {
	return e.area.Value()
}

// SetSize updates the component dimensions
func (e *ScriptEditor) SetSize(width, height int) {
	e.width = width
	e.height = height
	e.area.SetWidth(max(min(width-12, 100), 20))
	e.area.SetHeight(max(height-14, 4))
}

// Update handles messages, returns (editor, cmd, saved)
func (e ScriptEditor) Update(msg tea.Msg) (ScriptEditor, tea.Cmd, bool) {
	if !e.visible {
		return e, nil, false
	}
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, scriptKeys.Save):
			return e, nil, true
		case key.Matches(keyMsg, scriptKeys.Cancel):
			e.Hide()
			return e, nil, false
		}
	}

	var cmd tea.Cmd
	e.area, cmd = e.area.Update(msg)
	return e, cmd, false
}

// View renders the editor
func (e ScriptEditor) View() string {
	if !e.visible {
		return ""
	}
	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.ModalTitleStyle.Render("Script"),
		e.area.View(),
		"",
		styles.DimStyle.Render("ctrl+s split into scenes · esc cancel"),
	)
	modal := styles.ModalStyle.Render(content)
	return lipgloss.Place(e.width, e.height, lipgloss.Center, lipgloss.Center, modal)
}
