package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/storyreel/internal/domain"
	"github.com/mmcdole/storyreel/internal/tui/styles"
)

// ProjectList is the project picker shown at startup
type ProjectList struct {
	projects []*domain.Project
	cursor   cursor
	loading  bool
	width    int
	height   int
}

// NewProjectList creates a project list
func NewProjectList() ProjectList {
	return ProjectList{loading: true}
}

// SetProjects replaces the list contents
func (l *ProjectList) SetProjects(projects []*domain.Project) {
	l.projects = projects
	l.loading = false
	l.cursor.clamp(len(projects), l.rows())
}

// SetSize sets the list dimensions
func (l *ProjectList) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.cursor.clamp(len(l.projects), l.rows())
}

// Len returns the number of projects
func (l ProjectList) Len() int {
	return len(l.projects)
}

// Selected returns the highlighted project
func (l ProjectList) Selected() (*domain.Project, bool) {
	if len(l.projects) == 0 {
		return nil, false
	}
	return l.projects[l.cursor.pos], true
}

// SelectName moves the cursor to the named project
func (l *ProjectList) SelectName(name string) {
	for i, p := range l.projects {
		if p.Name == name {
			l.cursor.pos = i
			l.cursor.clamp(len(l.projects), l.rows())
			return
		}
	}
}

func (l ProjectList) rows() int {
	return max(l.height-4, 1)
}

// Update handles cursor movement
func (l ProjectList) Update(msg tea.Msg) ProjectList {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if l.cursor.move(listKeys, keyMsg, len(l.projects)) {
			l.cursor.clamp(len(l.projects), l.rows())
		}
	}
	return l
}

// View renders the project list
func (l ProjectList) View() string {
	inner := max(l.width-2, 20)

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Projects"))
	b.WriteString("\n\n")

	switch {
	case l.loading:
		b.WriteString(styles.SpinnerStyle.Render("Loading projects..."))
	case len(l.projects) == 0:
		b.WriteString(styles.SubtitleStyle.Render("No projects yet. Press n to create one."))
	}

	end := min(l.cursor.offset+l.rows(), len(l.projects))
	for i := l.cursor.offset; i < end; i++ {
		p := l.projects[i]
		meta := fmt.Sprintf("%2d scenes  %s  %s", len(p.Scenes), p.FormattedDuration(), p.UpdatedAt.Local().Format("Jan 2 15:04"))
		nameWidth := max(inner-lipgloss.Width(meta)-4, 8)
		parts := []styles.RowPart{
			{Text: styles.Pad(styles.Truncate(p.Name, nameWidth), nameWidth)},
			{Text: meta},
		}
		b.WriteString(styles.RenderListRow(parts, i == l.cursor.pos, inner))
		b.WriteString("\n")
	}

	return styles.ActiveBorder.Width(inner).Height(max(l.height-2, 1)).Render(strings.TrimRight(b.String(), "\n"))
}
