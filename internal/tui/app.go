package tui

import (
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/storyreel/internal/domain"
	"github.com/mmcdole/storyreel/internal/progress"
	"github.com/mmcdole/storyreel/internal/service"
	"github.com/mmcdole/storyreel/internal/tui/components"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateProjects ApplicationState = iota
	StateEditor
	StateHelp
	StateConfirmDelete
)

// Pane is the focused half of the editor
type Pane int

const (
	PaneScenes Pane = iota
	PaneSettings
)

// Layout proportions for the editor
const (
	ScenesPercent     = 58
	MinColumnWidth    = 30
	RenderPanelHeight = 6

	// Vertical layout: header line and footer line
	ChromeHeight = 2
)

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	State     ApplicationState
	prevState ApplicationState
	Ready     bool

	// Services
	ProjectSvc  *service.ProjectService
	VoiceSvc    *service.VoiceService
	RenderSvc   *service.RenderService
	DownloadDir string

	// Open project
	Project *domain.Project
	Focus   Pane

	// UI Components
	ProjectList  components.ProjectList
	SceneList    components.SceneList
	Settings     components.SettingsPanel
	RenderPanel  components.RenderPanel
	ScriptEditor components.ScriptEditor
	InputModal   components.InputModal
	VoicePicker  components.VoicePicker
	StockModal   components.StockModal
	HistoryModal components.HistoryModal

	// Simulated render progress. The driver is only touched from Update.
	driver        *progress.Driver
	renderProject string
	now           func() time.Time

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg    string
	StatusIsErr  bool
	Loading      bool
	LoadingText  string
	SpinnerFrame int

	// Modal targets
	targetScene   string
	pendingDelete string
}

// NewModel creates a new application model
func NewModel(
	projectSvc *service.ProjectService,
	voiceSvc *service.VoiceService,
	renderSvc *service.RenderService,
	downloadDir string,
) Model {
	m := Model{
		State:        StateProjects,
		ProjectSvc:   projectSvc,
		VoiceSvc:     voiceSvc,
		RenderSvc:    renderSvc,
		DownloadDir:  downloadDir,
		ProjectList:  components.NewProjectList(),
		SceneList:    components.NewSceneList(),
		Settings:     components.NewSettingsPanel(),
		RenderPanel:  components.NewRenderPanel(),
		ScriptEditor: components.NewScriptEditor(),
		InputModal:   components.NewInputModal(),
		VoicePicker:  components.NewVoicePicker(),
		StockModal:   components.NewStockModal(),
		HistoryModal: components.NewHistoryModal(),
		driver:       progress.NewDriver(),
		now:          time.Now,
	}
	names := voiceNamer(voiceSvc)
	m.SceneList.SetVoiceNamer(names)
	m.Settings.SetVoiceNamer(names)
	return m
}

// voiceNamer shows cached voice names, falling back to the raw ID
func voiceNamer(svc *service.VoiceService) components.VoiceNamer {
	return func(id string) string {
		if svc != nil {
			if v, ok := svc.Lookup(id); ok {
				return v.Name
			}
		}
		return id
	}
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		LoadProjectsCmd(m.ProjectSvc),
		TickCmd(100*time.Millisecond),
	)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case TickMsg:
		m.SpinnerFrame++
		return m, TickCmd(100 * time.Millisecond)

	case renderTickMsg:
		st, ok := m.driver.Tick(msg.Run, msg.Time)
		if !ok {
			// Superseded or finished: let this chain die
			return m, nil
		}
		m.RenderPanel.SetState(st, msg.Time)
		return m, renderTickCmd(msg.Run)

	case renderFinishedMsg:
		return m.handleRenderFinished(msg)

	case ProjectsLoadedMsg:
		m.ProjectList.SetProjects(msg.Projects)
		if m.Project != nil {
			m.ProjectList.SelectName(m.Project.Name)
		}
		return m, nil

	case ProjectOpenedMsg:
		m.openProject(msg.Project, msg.Latest)
		return m, WarmVoicesCmd(m.VoiceSvc)

	case ProjectUpdatedMsg:
		m.Loading = false
		if m.Project != nil && m.Project.Name == msg.Project.Name {
			m.Project = msg.Project
			m.SceneList.SetScenes(m.Project.Scenes)
		}
		return m.setStatus(msg.Status, false)

	case ProjectSavedMsg:
		return m, nil

	case ProjectDeletedMsg:
		if m.Project != nil && m.Project.Name == msg.Name {
			m.Project = nil
		}
		m.State = StateProjects
		next, cmd := m.setStatus("Deleted "+msg.Name, false)
		return next, tea.Batch(cmd, LoadProjectsCmd(m.ProjectSvc))

	case ScriptGeneratedMsg:
		m.Loading = false
		m.ScriptEditor.Show(msg.Script)
		return m.setStatus("Review the script, then ctrl+s to split it", false)

	case VoicesLoadedMsg:
		if m.VoicePicker.IsVisible() && msg.Query == m.VoicePicker.Query() {
			m.VoicePicker.SetResults(msg.Matches)
		}
		return m, nil

	case voicesWarmedMsg:
		return m, nil

	case StockResultsMsg:
		if m.StockModal.IsVisible() {
			m.StockModal.SetResults(msg.Results)
		}
		return m, nil

	case DownloadedMsg:
		m.Loading = false
		m.RenderPanel.UpdateRecord(msg.Record)
		m.HistoryModal.Replace(msg.Record)
		return m.setStatus("Saved "+msg.Path, false)

	case PreviewStartedMsg:
		return m.setStatus("Playing "+msg.Target, false)

	case HistoryLoadedMsg:
		m.HistoryModal.SetSize(m.Width, m.Height)
		m.HistoryModal.Show(msg.Project, msg.Records)
		return m, nil

	case ErrMsg:
		m.Loading = false
		if m.StockModal.IsVisible() {
			m.StockModal.SetResults(nil)
		}
		if m.VoicePicker.IsVisible() {
			m.VoicePicker.Hide()
		}
		slog.Error("operation failed", "context", msg.Context, "error", msg.Err)
		return m.setStatus(msg.Error(), true)

	case StatusMsg:
		return m.setStatus(msg.Message, msg.IsError)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}

	// Cursor blink and other component messages
	return m.routeToInputs(msg)
}

// setStatus shows a temporary status line
func (m Model) setStatus(text string, isErr bool) (Model, tea.Cmd) {
	m.StatusMsg = text
	m.StatusIsErr = isErr
	delay := 3 * time.Second
	if isErr {
		delay = 6 * time.Second
	}
	return m, ClearStatusCmd(delay)
}

// openProject switches the editor to p
func (m *Model) openProject(p *domain.Project, latest *domain.RenderRecord) {
	m.Project = p
	m.State = StateEditor
	m.Focus = PaneScenes
	m.SceneList.SetScenes(p.Scenes)
	m.SceneList.Follow(0)
	// Keep showing a render that is still running, whatever project it belongs to
	if !m.driver.State().Active() {
		m.RenderPanel.SetLast(latest)
	}
	m.updateLayout()
}

// startRender validates and saves the project, then starts a new simulated
// run alongside the real request. A render already in flight is superseded:
// its ticks die and its response is ignored.
func (m Model) startRender() (tea.Model, tea.Cmd) {
	if m.Project == nil {
		return m, nil
	}
	if err := m.Project.Validate(); err != nil {
		return m.setStatus(err.Error(), true)
	}

	superseded := m.driver.State().Active()
	now := m.now()
	run := m.driver.Start(progress.TableFor(m.Project.Avatar.Enabled), now)
	m.renderProject = m.Project.Name
	m.RenderPanel.Begin(m.driver.State(), now)
	slog.Info("render started", "project", m.Project.Name, "run", run, "superseded", superseded)

	status := "Rendering " + m.Project.Name
	if superseded {
		status = "Restarted render of " + m.Project.Name
	}
	m.StatusMsg = status
	m.StatusIsErr = false

	return m, tea.Batch(
		SaveProjectCmd(m.ProjectSvc, m.Project.Clone()),
		SubmitRenderCmd(m.RenderSvc, m.Project.Clone(), run),
		renderTickCmd(run),
	)
}

// stopRender stops following the current render. The backend keeps
// working; its eventual response is ignored but still recorded in history.
func (m Model) stopRender() (tea.Model, tea.Cmd) {
	if !m.driver.State().Active() {
		return m, nil
	}
	st := m.driver.Stop(false)
	m.RenderPanel.SetState(st, m.now())
	return m.setStatus("Stopped watching render of "+m.renderProject, false)
}

// handleRenderFinished reconciles the real outcome with the simulated bar
func (m Model) handleRenderFinished(msg renderFinishedMsg) (tea.Model, tea.Cmd) {
	st, ok := progress.Reconcile(m.driver, msg.Run, msg.Err)
	if !ok {
		slog.Debug("ignoring superseded render result", "run", msg.Run, "error", msg.Err)
		return m, nil
	}

	m.RenderPanel.Finish(st, msg.Record, msg.Err)
	if msg.Err != nil {
		return m.setStatus("Render failed: "+msg.Err.Error(), true)
	}
	if msg.Record == nil {
		return m.setStatus("Rendered "+m.renderProject, false)
	}
	took := msg.Record.Elapsed().Truncate(time.Second)
	return m.setStatus(fmt.Sprintf("Rendered %s in %s · p preview · d download", m.renderProject, took), false)
}

// lastSucceeded returns the render shown in the panel if it can be played
func (m Model) lastSucceeded() (domain.RenderRecord, bool) {
	rec := m.RenderPanel.Last()
	if rec == nil || rec.Status != domain.RenderSucceeded {
		return domain.RenderRecord{}, false
	}
	return *rec, true
}

// saveProject refreshes the scene list and persists a copy of the project
func (m *Model) saveProject() tea.Cmd {
	m.SceneList.SetScenes(m.Project.Scenes)
	return SaveProjectCmd(m.ProjectSvc, m.Project.Clone())
}
