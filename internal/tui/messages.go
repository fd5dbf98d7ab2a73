package tui

import (
	"time"

	"github.com/mmcdole/storyreel/internal/domain"
	"github.com/mmcdole/storyreel/internal/progress"
	"github.com/mmcdole/storyreel/internal/service"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// ProjectsLoadedMsg carries the saved projects
type ProjectsLoadedMsg struct {
	Projects []*domain.Project
}

// ProjectOpenedMsg switches the editor to a project
type ProjectOpenedMsg struct {
	Project *domain.Project
	Latest  *domain.RenderRecord
}

// ProjectUpdatedMsg carries a project changed by a backend operation
type ProjectUpdatedMsg struct {
	Project *domain.Project
	Status  string
}

// ProjectSavedMsg signals a successful save
type ProjectSavedMsg struct {
	Name string
}

// ProjectDeletedMsg signals a deleted project
type ProjectDeletedMsg struct {
	Name string
}

// ScriptGeneratedMsg carries a script written by the backend
type ScriptGeneratedMsg struct {
	Script string
}

// VoicesLoadedMsg carries voices filtered for the picker
type VoicesLoadedMsg struct {
	Matches []service.VoiceMatch
	Query   string
}

// voicesWarmedMsg signals the voice cache is filled; views pick up names
// on the next render
type voicesWarmedMsg struct{}

// StockResultsMsg carries ranked stock hits
type StockResultsMsg struct {
	Query   string
	Results []domain.StockResult
}

// renderTickMsg advances the simulated progress of one run
type renderTickMsg struct {
	Run  progress.Run
	Time time.Time
}

// renderFinishedMsg carries the real backend outcome of one run
type renderFinishedMsg struct {
	Run    progress.Run
	Record *domain.RenderRecord
	Err    error
}

// DownloadedMsg signals a finished download
type DownloadedMsg struct {
	Record domain.RenderRecord
	Path   string
}

// PreviewStartedMsg signals the player was launched
type PreviewStartedMsg struct {
	Target string
}

// HistoryLoadedMsg carries a project's render history
type HistoryLoadedMsg struct {
	Project string
	Records []domain.RenderRecord
}

// TickMsg is a general tick message for animations
type TickMsg struct{}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}
