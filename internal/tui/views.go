package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/storyreel/internal/tui/styles"
)

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	switch m.State {
	case StateHelp:
		return m.renderHelp()
	case StateConfirmDelete:
		return m.renderDeleteConfirmation()
	}

	var content string
	if m.State == StateProjects || m.Project == nil {
		content = m.ProjectList.View()
	} else {
		content = lipgloss.JoinHorizontal(
			lipgloss.Top,
			m.SceneList.View(),
			lipgloss.JoinVertical(
				lipgloss.Left,
				m.Settings.View(m.Project),
				m.RenderPanel.View(),
			),
		)
	}

	view := lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		content,
		m.renderFooter(),
	)

	// Overlays
	switch {
	case m.InputModal.IsVisible():
		view = lipgloss.Place(m.Width, m.Height,
			lipgloss.Center, lipgloss.Center,
			m.InputModal.View())
	case m.ScriptEditor.IsVisible():
		view = m.ScriptEditor.View()
	case m.VoicePicker.IsVisible():
		view = m.VoicePicker.View()
	case m.StockModal.IsVisible():
		view = m.StockModal.View()
	case m.HistoryModal.IsVisible():
		view = m.HistoryModal.View()
	}

	return view
}

// renderHeader renders the app name and the open project
func (m Model) renderHeader() string {
	left := styles.AccentStyle.Bold(true).Render("storyreel")
	if m.State == StateEditor && m.Project != nil {
		left += styles.DimStyle.Render(" › ") + styles.TitleStyle.Render(m.Project.Name)
		meta := fmt.Sprintf("  %d scenes · %s", len(m.Project.Scenes), m.Project.FormattedDuration())
		left += styles.DimStyle.Render(meta)
	}
	return styles.Truncate(left, m.Width)
}

// renderFooter renders a single-line minimal footer
func (m Model) renderFooter() string {
	// Left side: spinner + status when loading or status message active
	var left string
	if m.Loading {
		left = RenderSpinner(m.SpinnerFrame) + " " + styles.DimStyle.Render(m.LoadingText)
	} else if m.StatusMsg != "" {
		if m.StatusIsErr {
			left = styles.ErrorStyle.Render(m.StatusMsg)
		} else {
			left = styles.DimStyle.Render(m.StatusMsg)
		}
	}

	// Center: pane hints
	var center string
	switch {
	case m.State == StateProjects:
		center = hint("enter", "open") + "  " + hint("n", "new") + "  " + hint("x", "delete")
	case m.Focus == PaneSettings:
		center = hint("h/l", "change") + "  " + hint("tab", "scenes") + "  " + hint("r", "render")
	default:
		center = hint("e", "script") + "  " + hint("J/K", "move") + "  " + hint("tab", "settings") + "  " + hint("r", "render")
	}

	right := hint("?", "help")

	leftWidth := lipgloss.Width(left)
	centerWidth := lipgloss.Width(center)
	rightWidth := lipgloss.Width(right)

	if leftWidth+centerWidth+rightWidth >= m.Width {
		// Not enough space - just left + right
		left = styles.Truncate(left, max(m.Width-rightWidth-1, 0))
		gap := max(m.Width-lipgloss.Width(left)-rightWidth, 0)
		return left + strings.Repeat(" ", gap) + right
	}

	available := m.Width - leftWidth - rightWidth
	leftPad := (available - centerWidth) / 2
	rightPad := available - centerWidth - leftPad

	return left + strings.Repeat(" ", leftPad) + center + strings.Repeat(" ", rightPad) + right
}

func hint(k, desc string) string {
	return styles.HelpKeyStyle.Render(k) + styles.HelpDescStyle.Render(" "+desc)
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	help := `
SCENES                          RENDER
  j/k        Up/down               r      Render (again to restart)
  J/K        Move scene            C-x    Stop watching render
  g/G        First/last scene      p      Preview last video
  e          Edit script           d      Download last video
  w          Write script (AI)     H      Render history
  x          Remove scene
  t          Scene duration     SETTINGS (tab)
  i          Image prompt          h/l    Change value
  b          Upload background     enter  Toggle/cycle
  s          Stock media
  a          AI backgrounds     OTHER
  v / V      Scene/project voice   esc    Back to projects
  m          Music track           q      Quit
                                   ?      This help

Press any key to return...
`

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(help))
}

// renderDeleteConfirmation renders the delete confirmation modal
func (m Model) renderDeleteConfirmation() string {
	modal := fmt.Sprintf(`
         Delete %q?

  The project and its render history
  will be removed. Videos already
  downloaded are kept.

        [Y] Yes      [N] No
`, m.pendingDelete)

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(modal))
}

// RenderSpinner renders a loading spinner
func RenderSpinner(frame int) string {
	return styles.SpinnerStyle.Render(styles.SpinnerFrames[frame%len(styles.SpinnerFrames)])
}
