package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/storyreel/internal/domain"
	"github.com/mmcdole/storyreel/internal/tui/styles"
)

const (
	minFontSize   = 16
	maxFontSize   = 96
	fontSizeStep  = 4
	volumeStep    = 0.05
	settingsLabel = 18
)

// setting is one editable row. change receives +1 or -1; toggles ignore the sign.
type setting struct {
	label   string
	value   func(p *domain.Project) string
	change  func(p *domain.Project, dir int)
	enabled func(p *domain.Project) bool
}

func always(*domain.Project) bool { return true }

func avatarOn(p *domain.Project) bool { return p.Avatar.Enabled }

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// cycleDir steps through opts in either direction
func cycleDir[T comparable](opts []T, cur T, dir int) T {
	if dir >= 0 {
		return domain.Cycle(opts, cur)
	}
	for i, o := range opts {
		if o == cur {
			return opts[(i-1+len(opts))%len(opts)]
		}
	}
	return opts[len(opts)-1]
}

var settings = []setting{
	{
		label:   "Subtitles",
		value:   func(p *domain.Project) string { return onOff(p.Subtitles.Enabled) },
		change:  func(p *domain.Project, _ int) { p.Subtitles.Enabled = !p.Subtitles.Enabled },
		enabled: always,
	},
	{
		label: "Subtitle position",
		value: func(p *domain.Project) string { return string(p.Subtitles.Position) },
		change: func(p *domain.Project, dir int) {
			p.Subtitles.Position = cycleDir(domain.SubtitlePositions, p.Subtitles.Position, dir)
		},
		enabled: func(p *domain.Project) bool { return p.Subtitles.Enabled },
	},
	{
		label: "Font size",
		value: func(p *domain.Project) string { return fmt.Sprintf("%d", p.Subtitles.FontSize) },
		change: func(p *domain.Project, dir int) {
			p.Subtitles.FontSize = min(max(p.Subtitles.FontSize+dir*fontSizeStep, minFontSize), maxFontSize)
		},
		enabled: func(p *domain.Project) bool { return p.Subtitles.Enabled },
	},
	{
		label:   "ElevenLabs voices",
		value:   func(p *domain.Project) string { return onOff(p.Voice.UseElevenLabs) },
		change:  func(p *domain.Project, _ int) { p.Voice.UseElevenLabs = !p.Voice.UseElevenLabs },
		enabled: always,
	},
	{
		label:   "Auto AI images",
		value:   func(p *domain.Project) string { return onOff(p.AutoAIImages) },
		change:  func(p *domain.Project, _ int) { p.AutoAIImages = !p.AutoAIImages },
		enabled: always,
	},
	{
		label: "Music volume",
		value: func(p *domain.Project) string {
			if p.Music.Path == "" {
				return fmt.Sprintf("%d%% (no track)", int(math.Round(p.Music.Volume*100)))
			}
			return fmt.Sprintf("%d%%", int(math.Round(p.Music.Volume*100)))
		},
		change: func(p *domain.Project, dir int) {
			v := math.Round((p.Music.Volume+float64(dir)*volumeStep)*100) / 100
			p.Music.Volume = min(max(v, 0), 1)
		},
		enabled: always,
	},
	{
		label:   "Avatar",
		value:   func(p *domain.Project) string { return onOff(p.Avatar.Enabled) },
		change:  func(p *domain.Project, _ int) { p.Avatar.Enabled = !p.Avatar.Enabled },
		enabled: always,
	},
	{
		label: "Avatar style",
		value: func(p *domain.Project) string { return string(p.Avatar.Style) },
		change: func(p *domain.Project, dir int) {
			p.Avatar.Style = cycleDir(domain.AvatarStyles, p.Avatar.Style, dir)
		},
		enabled: avatarOn,
	},
	{
		label: "Avatar size",
		value: func(p *domain.Project) string { return string(p.Avatar.Size) },
		change: func(p *domain.Project, dir int) {
			p.Avatar.Size = cycleDir(domain.AvatarSizes, p.Avatar.Size, dir)
		},
		enabled: avatarOn,
	},
	{
		label: "Avatar position",
		value: func(p *domain.Project) string { return string(p.Avatar.Position) },
		change: func(p *domain.Project, dir int) {
			p.Avatar.Position = cycleDir(domain.AvatarPositions, p.Avatar.Position, dir)
		},
		enabled: avatarOn,
	},
}

// SettingsKeyMap changes the selected setting
type SettingsKeyMap struct {
	Next key.Binding
	Prev key.Binding
}

var settingsKeys = SettingsKeyMap{
	Next: key.NewBinding(
		key.WithKeys("l", "right", "enter", " "),
		key.WithHelp("l/→/space", "change"),
	),
	Prev: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "change back"),
	),
}

// SettingsPanel edits the render options of a project in place
type SettingsPanel struct {
	cursor  cursor
	focused bool
	width   int
	height  int
	voices  VoiceNamer
}

// NewSettingsPanel creates a settings panel
func NewSettingsPanel() SettingsPanel {
	return SettingsPanel{}
}

// SetSize sets the panel dimensions
func (s *SettingsPanel) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.cursor.clamp(len(settings), s.rows())
}

// SetVoiceNamer sets how the project voice is displayed
func (s *SettingsPanel) SetVoiceNamer(n VoiceNamer) {
	s.voices = n
}

// SetFocused toggles the focus border
func (s *SettingsPanel) SetFocused(focused bool) {
	s.focused = focused
}

// rows leaves room for the border, the title and the voice line
func (s SettingsPanel) rows() int {
	return max(s.height-4, 1)
}

// Update moves the cursor or changes the selected setting of p.
// It reports whether p was modified.
func (s SettingsPanel) Update(msg tea.Msg, p *domain.Project) (SettingsPanel, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || p == nil {
		return s, false
	}

	if s.cursor.move(listKeys, keyMsg, len(settings)) {
		s.cursor.clamp(len(settings), s.rows())
		return s, false
	}

	row := settings[s.cursor.pos]
	if !row.enabled(p) {
		return s, false
	}
	switch {
	case key.Matches(keyMsg, settingsKeys.Next):
		row.change(p, 1)
		return s, true
	case key.Matches(keyMsg, settingsKeys.Prev):
		row.change(p, -1)
		return s, true
	}
	return s, false
}

// View renders the settings of p
func (s SettingsPanel) View(p *domain.Project) string {
	border := styles.InactiveBorder
	if s.focused {
		border = styles.ActiveBorder
	}
	inner := max(s.width-2, 10)

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Render settings"))
	b.WriteString("\n")

	if p == nil {
		b.WriteString(styles.DimStyle.Render("No project loaded"))
		return border.Width(inner).Height(max(s.height-2, 1)).Render(b.String())
	}

	voice := "backend default"
	if p.Voice.VoiceID != "" {
		voice = s.voices.name(p.Voice.VoiceID)
	}
	accent := styles.ReelAmber
	b.WriteString(styles.RenderListRow([]styles.RowPart{
		{Text: styles.Pad("Voice (V)", settingsLabel)},
		{Text: styles.Truncate(voice, inner-settingsLabel-2), Foreground: &accent},
	}, false, inner))
	b.WriteString("\n")

	end := min(s.cursor.offset+s.rows(), len(settings))
	for i := s.cursor.offset; i < end; i++ {
		row := settings[i]
		selected := s.focused && i == s.cursor.pos

		value := row.value(p)
		var fg *lipgloss.Color
		if !row.enabled(p) {
			c := styles.DimGray
			fg = &c
		} else {
			c := styles.ReelAmber
			fg = &c
		}
		parts := []styles.RowPart{
			{Text: styles.Pad(row.label, settingsLabel)},
			{Text: styles.Truncate(value, inner-settingsLabel-2), Foreground: fg},
		}
		b.WriteString(styles.RenderListRow(parts, selected, inner))
		b.WriteString("\n")
	}

	return border.Width(inner).Height(max(s.height-2, 1)).Render(strings.TrimRight(b.String(), "\n"))
}
