package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/storyreel/internal/domain"
	"github.com/mmcdole/storyreel/internal/service"
	"github.com/mmcdole/storyreel/internal/tui/styles"
)

// PickerKeyMap holds the confirm/cancel bindings of the picker modals
type PickerKeyMap struct {
	Enter  key.Binding
	Escape key.Binding
}

// PickerKeys is shared by VoicePicker and StockModal
var PickerKeys = PickerKeyMap{
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Escape: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "close"),
	),
}

// VoicePicker is the fuzzy voice selection modal. An empty SceneID means
// the pick applies to the project default voice.
type VoicePicker struct {
	input     textinput.Model
	results   []service.VoiceMatch
	cursor    cursor
	visible   bool
	loading   bool
	sceneID   string
	current   string
	width     int
	height    int
	prevQuery string
}

const voicePickerRows = 10

// NewVoicePicker creates a voice picker
func NewVoicePicker() VoicePicker {
	ti := textinput.New()
	ti.Placeholder = "Filter voices..."
	ti.CharLimit = 64
	ti.Width = 40
	ti.Prompt = "/ "
	ti.PromptStyle = styles.AccentStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return VoicePicker{input: ti}
}

// Show opens the picker for a scene (or the project when sceneID is empty)
func (v *VoicePicker) Show(sceneID, current string) {
	v.visible = true
	v.loading = true
	v.sceneID = sceneID
	v.current = current
	v.results = nil
	v.cursor = cursor{}
	v.prevQuery = ""
	v.input.SetValue("")
	v.input.Focus()
}

// Hide closes the picker
func (v *VoicePicker) Hide() {
	v.visible = false
	v.input.Blur()
}

// IsVisible returns true if the picker is shown
func (v VoicePicker) IsVisible() bool {
	return v.visible
}

// SceneID returns the scene the picker was opened for
func (v VoicePicker) SceneID() string {
	return v.sceneID
}

// SetSize updates the component dimensions
func (v *VoicePicker) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// SetResults replaces the filtered voices
func (v *VoicePicker) SetResults(results []service.VoiceMatch) {
	v.results = results
	v.loading = false
	v.cursor = cursor{}
	// Start on the voice already in use when it is visible
	for i, r := range results {
		if r.Voice.ID == v.current {
			v.cursor.pos = i
			v.cursor.clamp(len(results), voicePickerRows)
			break
		}
	}
}

// Query returns the filter text
func (v VoicePicker) Query() string {
	return v.input.Value()
}

// QueryChanged returns true if the query changed since the last check
func (v *VoicePicker) QueryChanged() bool {
	current := v.input.Value()
	if current != v.prevQuery {
		v.prevQuery = current
		return true
	}
	return false
}

// Selected returns the highlighted voice
func (v VoicePicker) Selected() (domain.Voice, bool) {
	if len(v.results) == 0 {
		return domain.Voice{}, false
	}
	return v.results[v.cursor.pos].Voice, true
}

// Update handles messages, returns (picker, cmd, selected)
func (v VoicePicker) Update(msg tea.Msg) (VoicePicker, tea.Cmd, bool) {
	if !v.visible {
		return v, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, PickerKeys.Escape):
			v.Hide()
			return v, nil, false
		case key.Matches(keyMsg, PickerKeys.Enter):
			return v, nil, len(v.results) > 0
		}
		if v.cursor.move(ModalKeyMap, keyMsg, len(v.results)) {
			v.cursor.clamp(len(v.results), voicePickerRows)
			return v, nil, false
		}
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd, false
}

// View renders the picker
func (v VoicePicker) View() string {
	if !v.visible {
		return ""
	}

	modalWidth := min(max(v.width*2/3, 40), 80)
	inner := modalWidth - 4

	var b strings.Builder
	title := "Project voice"
	if v.sceneID != "" {
		title = "Voice for " + v.sceneID
	}
	b.WriteString(styles.ModalTitleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(v.input.View())
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(styles.SpinnerStyle.Render("Loading voices..."))
	case len(v.results) == 0:
		b.WriteString(styles.DimStyle.Render("No voices match"))
	default:
		end := min(v.cursor.offset+voicePickerRows, len(v.results))
		for i := v.cursor.offset; i < end; i++ {
			r := v.results[i]
			selected := i == v.cursor.pos
			marker := "  "
			if r.Voice.ID == v.current {
				marker = "● "
			}
			name := styles.HighlightMatches(r.Voice.Name, r.MatchedIndexes, selected)
			line := marker + name
			if r.Voice.Category != "" {
				line += styles.DimStyle.Render(" · " + r.Voice.Category)
			}
			if selected {
				line = lipgloss.NewStyle().Background(styles.SlateLight).Width(inner).Render(line)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("%d/%d", v.cursor.pos+1, len(v.results))))
	}

	content := lipgloss.NewStyle().Width(inner).Render(b.String())
	modal := styles.ModalStyle.Width(modalWidth).Render(content)
	return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, modal)
}
