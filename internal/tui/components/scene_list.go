package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/storyreel/internal/domain"
	"github.com/mmcdole/storyreel/internal/tui/styles"
)

// VoiceNamer resolves a voice ID to a display name
type VoiceNamer func(id string) string

func (n VoiceNamer) name(id string) string {
	if n == nil {
		return id
	}
	return n(id)
}

// SceneList shows a project's scenes in order. Moving a scene is done by
// the owner through domain.Project.MoveScene, then Follow keeps the cursor
// on the moved scene.
type SceneList struct {
	scenes  []domain.Scene
	cursor  cursor
	focused bool
	width   int
	height  int
	voices  VoiceNamer
}

// NewSceneList creates an empty scene list
func NewSceneList() SceneList {
	return SceneList{}
}

// SetScenes replaces the displayed scenes, keeping the cursor in range
func (l *SceneList) SetScenes(scenes []domain.Scene) {
	l.scenes = scenes
	l.cursor.clamp(len(scenes), l.rows())
}

// SetSize sets the list dimensions
func (l *SceneList) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.cursor.clamp(len(l.scenes), l.rows())
}

// SetVoiceNamer sets how scene voice IDs are displayed
func (l *SceneList) SetVoiceNamer(n VoiceNamer) {
	l.voices = n
}

// SetFocused toggles the focus border
func (l *SceneList) SetFocused(focused bool) {
	l.focused = focused
}

// Cursor returns the selected index, or -1 when empty
func (l SceneList) Cursor() int {
	if len(l.scenes) == 0 {
		return -1
	}
	return l.cursor.pos
}

// Selected returns the scene under the cursor
func (l SceneList) Selected() (domain.Scene, bool) {
	if len(l.scenes) == 0 {
		return domain.Scene{}, false
	}
	return l.scenes[l.cursor.pos], true
}

// Follow moves the cursor to index i
func (l *SceneList) Follow(i int) {
	l.cursor.pos = i
	l.cursor.clamp(len(l.scenes), l.rows())
}

// Update handles cursor movement
func (l SceneList) Update(msg tea.Msg) (SceneList, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return l, false
	}
	if !l.cursor.move(listKeys, keyMsg, len(l.scenes)) {
		return l, false
	}
	l.cursor.clamp(len(l.scenes), l.rows())
	return l, true
}

// rows is the number of scene rows that fit; each scene takes two lines
func (l SceneList) rows() int {
	return max((l.height-3)/2, 1)
}

// View renders the scene list
func (l SceneList) View() string {
	border := styles.InactiveBorder
	if l.focused {
		border = styles.ActiveBorder
	}
	inner := max(l.width-2, 10)

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(fmt.Sprintf("Scenes (%d)", len(l.scenes))))
	b.WriteString("\n")

	if len(l.scenes) == 0 {
		b.WriteString(styles.DimStyle.Render("No scenes. Press e to write a script."))
	}

	end := min(l.cursor.offset+l.rows(), len(l.scenes))
	for i := l.cursor.offset; i < end; i++ {
		s := l.scenes[i]
		selected := i == l.cursor.pos

		badge := backgroundBadge(s.Background)
		head := fmt.Sprintf("%2d. %4.1fs ", i+1, s.Duration)
		text := styles.Truncate(s.Text, inner-lipgloss.Width(head)-lipgloss.Width(badge)-3)
		b.WriteString(styles.RenderListRow([]styles.RowPart{{Text: head}, {Text: text}}, selected, inner-lipgloss.Width(badge)))
		b.WriteString(badge)
		b.WriteString("\n")

		detail := "    " + s.ID
		if s.VoiceID != "" {
			detail += " · voice " + l.voices.name(s.VoiceID)
		}
		if s.ImagePrompt != "" {
			detail += " · prompt " + s.ImagePrompt
		}
		b.WriteString(styles.DimStyle.Render(styles.Truncate(detail, inner)))
		b.WriteString("\n")
	}

	return border.Width(inner).Height(max(l.height-2, 1)).Render(strings.TrimRight(b.String(), "\n"))
}

func backgroundBadge(bg domain.Background) string {
	switch bg.Kind {
	case domain.BackgroundAI:
		return styles.BadgeStyle.Render("AI")
	case domain.BackgroundUpload:
		return styles.BadgeStyle.Render("file")
	case domain.BackgroundStock:
		return styles.BadgeStyle.Render("stock")
	}
	if bg.IsSet() {
		return styles.BadgeStyle.Render("bg")
	}
	return styles.DimBadgeStyle.Render("none")
}
