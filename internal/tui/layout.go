package tui

// editorLayout holds calculated widths and heights for the editor View
type editorLayout struct {
	scenesWidth    int
	sideWidth      int
	settingsHeight int
	renderHeight   int
	contentHeight  int
}

// calculateEditorLayout splits the screen into the scene list on the left
// and settings over the render panel on the right
func (m Model) calculateEditorLayout() editorLayout {
	l := editorLayout{contentHeight: max(m.Height-ChromeHeight, 1)}

	l.scenesWidth = max(m.Width*ScenesPercent/100, MinColumnWidth)
	l.sideWidth = max(m.Width-l.scenesWidth, MinColumnWidth)

	l.renderHeight = RenderPanelHeight
	l.settingsHeight = max(l.contentHeight-l.renderHeight, 4)
	return l
}

// updateLayout updates component sizes based on window size
func (m *Model) updateLayout() {
	if m.Width == 0 || m.Height == 0 {
		return
	}

	l := m.calculateEditorLayout()
	m.ProjectList.SetSize(m.Width, l.contentHeight)
	m.SceneList.SetSize(l.scenesWidth, l.contentHeight)
	m.Settings.SetSize(l.sideWidth, l.settingsHeight)
	m.RenderPanel.SetSize(l.sideWidth, l.renderHeight)

	m.ScriptEditor.SetSize(m.Width, m.Height)
	m.VoicePicker.SetSize(m.Width, m.Height)
	m.StockModal.SetSize(m.Width, m.Height)
	m.HistoryModal.SetSize(m.Width, m.Height)

	m.updateFocus()
}

// updateFocus moves the focus border to the active pane
func (m *Model) updateFocus() {
	m.SceneList.SetFocused(m.Focus == PaneScenes)
	m.Settings.SetFocused(m.Focus == PaneSettings)
}
