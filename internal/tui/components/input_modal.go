package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/storyreel/internal/domain"
	"github.com/mmcdole/storyreel/internal/tui/styles"
)

// InputPurpose says what a submitted InputModal value is for
type InputPurpose int

const (
	InputNone InputPurpose = iota
	InputProjectName
	InputScriptTopic
	InputBackgroundPath
	InputMusicPath
	InputImagePrompt
	InputSceneDuration
)

// ScriptLengths are the target script lengths offered, in seconds
var ScriptLengths = []int{30, 60, 90, 120, 180}

const defaultScriptLength = 1 // 60s

// scriptOptionKeys change the style and length while writing a topic
var scriptOptionKeys = struct {
	Style  key.Binding
	Length key.Binding
}{
	Style:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "style")),
	Length: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("S-tab", "length")),
}

// InputModal is a single-line text input modal
type InputModal struct {
	visible bool
	title   string
	purpose InputPurpose
	input   textinput.Model

	// Script topic options, kept between showings
	style  int
	length int
}

// NewInputModal creates a new input modal
func NewInputModal() InputModal {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 44
	ti.Prompt = ""
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return InputModal{
		input:  ti,
		length: defaultScriptLength,
	}
}

// Show displays the modal prefilled with value
func (m *InputModal) Show(purpose InputPurpose, title, placeholder, value string) {
	m.visible = true
	m.purpose = purpose
	m.title = title
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
}

// Hide dismisses the modal
func (m *InputModal) Hide() {
	m.visible = false
	m.purpose = InputNone
	m.input.Blur()
}

// IsVisible returns whether the modal is shown
func (m InputModal) IsVisible() bool {
	return m.visible
}

// Purpose returns what the modal was opened for
func (m InputModal) Purpose() InputPurpose {
	return m.purpose
}

// Value returns the current input value
func (m InputModal) Value() string {
	return m.input.Value()
}

// ScriptRequest returns the topic with the chosen style and length
func (m InputModal) ScriptRequest() domain.ScriptRequest {
	return domain.ScriptRequest{
		Topic:    m.input.Value(),
		Style:    domain.ScriptStyles[m.style],
		Duration: ScriptLengths[m.length],
	}
}

// Update handles input events, returns (modal, cmd, submitted)
func (m InputModal) Update(msg tea.Msg) (InputModal, tea.Cmd, bool) {
	if !m.visible {
		return m, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			return m, nil, true
		case "esc":
			m.Hide()
			return m, nil, false
		}
		if m.purpose == InputScriptTopic {
			switch {
			case key.Matches(keyMsg, scriptOptionKeys.Style):
				m.style = (m.style + 1) % len(domain.ScriptStyles)
				return m, nil, false
			case key.Matches(keyMsg, scriptOptionKeys.Length):
				m.length = (m.length + 1) % len(ScriptLengths)
				return m, nil, false
			}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd, false
}

// View renders the input modal
func (m InputModal) View() string {
	if !m.visible {
		return ""
	}

	const modalWidth = 48

	titleStyle := lipgloss.NewStyle().
		Foreground(styles.White).
		Bold(true).
		Width(modalWidth).
		Background(styles.SlateDark)

	inputStyle := lipgloss.NewStyle().
		Width(modalWidth).
		Background(styles.SlateDark)

	hintText := "enter confirm · esc cancel"
	if m.purpose == InputScriptTopic {
		hintText = "tab style · S-tab length · " + hintText
	}
	hint := lipgloss.NewStyle().
		Width(modalWidth).
		Background(styles.SlateDark).
		Foreground(styles.DimGray).
		Render(hintText)

	rows := []string{
		titleStyle.Render(m.title),
		"",
		inputStyle.Render(m.input.View()),
		"",
	}
	if m.purpose == InputScriptTopic {
		options := fmt.Sprintf("Style %s  Length %s",
			styles.AccentStyle.Render(domain.ScriptStyles[m.style]),
			styles.AccentStyle.Render(fmt.Sprintf("%ds", ScriptLengths[m.length])))
		rows = append(rows, inputStyle.Render(options), "")
	}
	rows = append(rows, hint)

	content := lipgloss.JoinVertical(lipgloss.Left, rows...)

	return styles.ModalStyle.Render(content)
}
