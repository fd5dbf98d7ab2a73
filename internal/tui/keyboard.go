package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/storyreel/internal/tui/components"
)

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle state-specific keys
	switch m.State {
	case StateHelp:
		m.State = m.prevState
		return m, nil

	case StateConfirmDelete:
		switch {
		case key.Matches(msg, Keys.Confirm):
			m.State = StateProjects
			name := m.pendingDelete
			m.pendingDelete = ""
			return m, DeleteProjectCmd(m.ProjectSvc, name)
		case key.Matches(msg, Keys.Deny):
			m.State = StateProjects
			m.pendingDelete = ""
		}
		return m, nil
	}

	// Route to active modal if any
	if handled, newModel, cmd := m.routeToModal(msg); handled {
		return newModel, cmd
	}

	// Global keys
	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.prevState = m.State
		m.State = StateHelp
		return m, nil
	}

	if m.State == StateProjects {
		return m.handleProjectsKey(msg)
	}
	return m.handleEditorKey(msg)
}

// handleProjectsKey handles keys on the project picker
func (m Model) handleProjectsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.NewProject):
		m.InputModal.Show(components.InputProjectName, "New project", "Project name", "")
		return m, nil

	case key.Matches(msg, Keys.DeleteProject):
		if p, ok := m.ProjectList.Selected(); ok {
			m.pendingDelete = p.Name
			m.State = StateConfirmDelete
		}
		return m, nil

	case key.Matches(msg, Keys.Enter):
		if p, ok := m.ProjectList.Selected(); ok {
			return m, OpenProjectCmd(m.ProjectSvc, m.RenderSvc, p.Name)
		}
		return m, nil
	}

	m.ProjectList = m.ProjectList.Update(msg)
	return m, nil
}

// handleEditorKey handles keys while a project is open
func (m Model) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.Project == nil {
		m.State = StateProjects
		return m, nil
	}

	// Render keys work even while an asset operation is running
	switch {
	case key.Matches(msg, Keys.Render):
		return m.startRender()

	case key.Matches(msg, Keys.CancelRender):
		return m.stopRender()

	case key.Matches(msg, Keys.Preview):
		rec, ok := m.lastSucceeded()
		if !ok {
			return m.setStatus("Nothing rendered yet", true)
		}
		return m, PreviewCmd(m.RenderSvc, rec)

	case key.Matches(msg, Keys.Download):
		rec, ok := m.lastSucceeded()
		if !ok {
			return m.setStatus("Nothing rendered yet", true)
		}
		m.Loading = true
		m.LoadingText = "Downloading video..."
		return m, DownloadCmd(m.RenderSvc, rec, m.DownloadDir)

	case key.Matches(msg, Keys.History):
		return m, LoadHistoryCmd(m.RenderSvc, m.Project.Name)

	case key.Matches(msg, Keys.SwitchPane):
		if m.Focus == PaneScenes {
			m.Focus = PaneSettings
		} else {
			m.Focus = PaneScenes
		}
		m.updateFocus()
		return m, nil

	case key.Matches(msg, Keys.Back):
		m.State = StateProjects
		return m, LoadProjectsCmd(m.ProjectSvc)
	}

	if m.Loading {
		return m.setStatus("Busy: "+m.LoadingText, false)
	}

	// Project-wide edits
	switch {
	case key.Matches(msg, Keys.EditScript):
		m.ScriptEditor.SetSize(m.Width, m.Height)
		m.ScriptEditor.Show(m.Project.Script)
		return m, nil

	case key.Matches(msg, Keys.GenerateScript):
		m.InputModal.Show(components.InputScriptTopic, "Write a script about", "e.g. the history of coffee", "")
		return m, nil

	case key.Matches(msg, Keys.AIImages):
		if len(m.Project.Scenes) == 0 {
			return m.setStatus("No scenes to illustrate", true)
		}
		m.Loading = true
		m.LoadingText = "Generating backgrounds..."
		return m, GenerateImagesCmd(m.ProjectSvc, m.Project.Clone())

	case key.Matches(msg, Keys.ProjectVoice):
		return m.showVoicePicker("", m.Project.Voice.VoiceID)

	case key.Matches(msg, Keys.Music):
		m.InputModal.Show(components.InputMusicPath, "Background music", "/path/to/track.mp3", "")
		return m, nil
	}

	if m.Focus == PaneSettings {
		var changed bool
		m.Settings, changed = m.Settings.Update(msg, m.Project)
		if changed {
			cmd := m.saveProject()
			return m, cmd
		}
		return m, nil
	}
	return m.handleSceneKey(msg)
}

// handleSceneKey handles keys on the scene list
func (m Model) handleSceneKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	scene, ok := m.SceneList.Selected()
	i := m.SceneList.Cursor()

	switch {
	case key.Matches(msg, Keys.MoveUp), key.Matches(msg, Keys.MoveDown):
		if !ok {
			return m, nil
		}
		to := i - 1
		if key.Matches(msg, Keys.MoveDown) {
			to = i + 1
		}
		if to < 0 || to >= len(m.Project.Scenes) {
			return m, nil
		}
		if err := m.Project.MoveScene(i, to); err != nil {
			return m.setStatus(err.Error(), true)
		}
		cmd := m.saveProject()
		m.SceneList.Follow(to)
		return m, cmd

	case key.Matches(msg, Keys.RemoveScene):
		if !ok {
			return m, nil
		}
		if err := m.Project.RemoveScene(i); err != nil {
			return m.setStatus(err.Error(), true)
		}
		cmd := m.saveProject()
		return m, cmd

	case key.Matches(msg, Keys.Background):
		if !ok {
			return m, nil
		}
		m.targetScene = scene.ID
		m.InputModal.Show(components.InputBackgroundPath, "Background for "+scene.ID, "/path/to/image-or-clip", "")
		return m, nil

	case key.Matches(msg, Keys.ImagePrompt):
		if !ok {
			return m, nil
		}
		m.targetScene = scene.ID
		m.InputModal.Show(components.InputImagePrompt, "Image prompt for "+scene.ID, "empty uses the scene text", scene.ImagePrompt)
		return m, nil

	case key.Matches(msg, Keys.SceneDuration):
		if !ok {
			return m, nil
		}
		m.targetScene = scene.ID
		m.InputModal.Show(components.InputSceneDuration, "Seconds for "+scene.ID, "5", strconv.FormatFloat(scene.Duration, 'f', -1, 64))
		return m, nil

	case key.Matches(msg, Keys.Stock):
		if !ok {
			return m, nil
		}
		m.StockModal.SetSize(m.Width, m.Height)
		m.StockModal.Show(scene.ID, stockQuery(scene.Prompt()))
		return m, nil

	case key.Matches(msg, Keys.Voice):
		if !ok {
			return m, nil
		}
		return m.showVoicePicker(scene.ID, scene.VoiceID)
	}

	m.SceneList, _ = m.SceneList.Update(msg)
	return m, nil
}

// stockQuery seeds a stock search with the first few words of a scene
func stockQuery(text string) string {
	words := strings.Fields(text)
	if len(words) > 4 {
		words = words[:4]
	}
	return strings.Join(words, " ")
}

func (m Model) showVoicePicker(sceneID, current string) (tea.Model, tea.Cmd) {
	m.VoicePicker.SetSize(m.Width, m.Height)
	m.VoicePicker.Show(sceneID, current)
	m.VoicePicker.QueryChanged()
	return m, LoadVoicesCmd(m.VoiceSvc, "")
}

// routeToModal sends keys to the visible modal, if any
func (m Model) routeToModal(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	switch {
	case m.InputModal.IsVisible():
		var cmd tea.Cmd
		var submitted bool
		m.InputModal, cmd, submitted = m.InputModal.Update(msg)
		if submitted {
			cmd = m.submitInput()
		}
		return true, m, cmd

	case m.ScriptEditor.IsVisible():
		var cmd tea.Cmd
		var saved bool
		m.ScriptEditor, cmd, saved = m.ScriptEditor.Update(msg)
		if saved && m.Project != nil {
			text := m.ScriptEditor.Value()
			m.ScriptEditor.Hide()
			m.Loading = true
			m.LoadingText = "Splitting script..."
			return true, m, SplitScriptCmd(m.ProjectSvc, m.Project.Clone(), text)
		}
		return true, m, cmd

	case m.VoicePicker.IsVisible():
		var cmd tea.Cmd
		var selected bool
		m.VoicePicker, cmd, selected = m.VoicePicker.Update(msg)
		if selected {
			cmd = m.applyVoice()
			return true, m, cmd
		}
		if m.VoicePicker.IsVisible() && m.VoicePicker.QueryChanged() {
			cmd = tea.Batch(cmd, LoadVoicesCmd(m.VoiceSvc, m.VoicePicker.Query()))
		}
		return true, m, cmd

	case m.StockModal.IsVisible():
		var cmd tea.Cmd
		var action components.StockAction
		m.StockModal, cmd, action = m.StockModal.Update(msg)
		switch action {
		case components.StockSearch:
			q := m.StockModal.Query()
			m.StockModal.SetLoading(q)
			return true, m, StockSearchCmd(m.ProjectSvc, q)
		case components.StockPick:
			hit, _ := m.StockModal.Selected()
			sceneID := m.StockModal.SceneID()
			m.StockModal.Hide()
			if m.Project == nil {
				return true, m, nil
			}
			m.Loading = true
			m.LoadingText = "Fetching stock " + hit.Type + "..."
			return true, m, ApplyStockCmd(m.ProjectSvc, m.Project.Clone(), sceneID, hit)
		}
		return true, m, cmd

	case m.HistoryModal.IsVisible():
		var action components.HistoryAction
		m.HistoryModal, action = m.HistoryModal.Update(msg)
		rec, ok := m.HistoryModal.Selected()
		if !ok {
			return true, m, nil
		}
		switch action {
		case components.HistoryPreview:
			return true, m, PreviewCmd(m.RenderSvc, *rec)
		case components.HistoryDownload:
			m.Loading = true
			m.LoadingText = "Downloading video..."
			return true, m, DownloadCmd(m.RenderSvc, *rec, m.DownloadDir)
		}
		return true, m, nil
	}
	return false, m, nil
}

// routeToInputs forwards non-key messages such as cursor blinks
func (m Model) routeToInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.InputModal.IsVisible():
		m.InputModal, cmd, _ = m.InputModal.Update(msg)
	case m.ScriptEditor.IsVisible():
		m.ScriptEditor, cmd, _ = m.ScriptEditor.Update(msg)
	case m.VoicePicker.IsVisible():
		m.VoicePicker, cmd, _ = m.VoicePicker.Update(msg)
	case m.StockModal.IsVisible():
		m.StockModal, cmd, _ = m.StockModal.Update(msg)
	}
	return m, cmd
}

// submitInput acts on a confirmed InputModal value
func (m *Model) submitInput() tea.Cmd {
	value := strings.TrimSpace(m.InputModal.Value())
	purpose := m.InputModal.Purpose()
	req := m.InputModal.ScriptRequest()
	m.InputModal.Hide()

	// An empty prompt clears it
	if purpose == components.InputImagePrompt && m.Project != nil {
		if err := m.Project.SetImagePrompt(m.targetScene, value); err != nil {
			return m.statusCmd(err.Error(), true)
		}
		return tea.Batch(m.saveProject(), m.statusCmd("Image prompt set for "+m.targetScene, false))
	}
	if value == "" {
		return nil
	}

	switch purpose {
	case components.InputProjectName:
		return NewProjectCmd(m.ProjectSvc, value)
	}

	if m.Project == nil {
		return nil
	}
	switch purpose {
	case components.InputScriptTopic:
		m.Loading = true
		m.LoadingText = "Writing " + req.Style + " script..."
		return GenerateScriptCmd(m.ProjectSvc, req)
	case components.InputSceneDuration:
		secs, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return m.statusCmd("Not a number of seconds: "+value, true)
		}
		if err := m.Project.SetSceneDuration(m.targetScene, secs); err != nil {
			return m.statusCmd(err.Error(), true)
		}
		return tea.Batch(m.saveProject(), m.statusCmd(fmt.Sprintf("%s lasts %gs", m.targetScene, secs), false))
	case components.InputBackgroundPath:
		m.Loading = true
		m.LoadingText = "Uploading background..."
		return UploadBackgroundCmd(m.ProjectSvc, m.Project.Clone(), m.targetScene, value)
	case components.InputMusicPath:
		m.Loading = true
		m.LoadingText = "Uploading music..."
		return UploadMusicCmd(m.ProjectSvc, m.Project.Clone(), value)
	}
	return nil
}

// applyVoice sets the picked voice on the scene or project
func (m *Model) applyVoice() tea.Cmd {
	voice, ok := m.VoicePicker.Selected()
	sceneID := m.VoicePicker.SceneID()
	m.VoicePicker.Hide()
	if !ok || m.Project == nil {
		return nil
	}

	if sceneID == "" {
		m.Project.Voice.VoiceID = voice.ID
	} else if s, _, found := m.Project.SceneByID(sceneID); found {
		s.VoiceID = voice.ID
	}
	return tea.Batch(m.saveProject(), m.statusCmd("Voice: "+voice.Name, false))
}

// statusCmd sets the status line from a pointer method; see setStatus
func (m *Model) statusCmd(text string, isErr bool) tea.Cmd {
	next, cmd := m.setStatus(text, isErr)
	m.StatusMsg, m.StatusIsErr = next.StatusMsg, next.StatusIsErr
	return cmd
}
