package tui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/storyreel/internal/domain"
	"github.com/mmcdole/storyreel/internal/progress"
	"github.com/mmcdole/storyreel/internal/service"
)

// Command factories for async operations. Every command that changes a
// project works on its own copy and hands the result back in a message.

// LoadProjectsCmd lists saved projects
func LoadProjectsCmd(svc *service.ProjectService) tea.Cmd {
	return func() tea.Msg {
		projects, err := svc.List()
		if err != nil {
			return ErrMsg{Err: err, Context: "loading projects"}
		}
		return ProjectsLoadedMsg{Projects: projects}
	}
}

// OpenProjectCmd loads a project and its latest successful render
func OpenProjectCmd(projects *service.ProjectService, renders *service.RenderService, name string) tea.Cmd {
	return func() tea.Msg {
		p, err := projects.Load(name)
		if err != nil {
			return ErrMsg{Err: err, Context: "opening " + name}
		}
		latest, _ := renders.Latest(name)
		return ProjectOpenedMsg{Project: p, Latest: latest}
	}
}

// NewProjectCmd creates and saves an empty project
func NewProjectCmd(svc *service.ProjectService, name string) tea.Cmd {
	return func() tea.Msg {
		p, err := svc.New(name)
		if err != nil {
			return ErrMsg{Err: err, Context: "creating project"}
		}
		return ProjectOpenedMsg{Project: p}
	}
}

// SaveProjectCmd persists a project copy
func SaveProjectCmd(svc *service.ProjectService, p *domain.Project) tea.Cmd {
	return func() tea.Msg {
		if err := svc.Save(p); err != nil {
			return ErrMsg{Err: err, Context: "saving " + p.Name}
		}
		return ProjectSavedMsg{Name: p.Name}
	}
}

// DeleteProjectCmd removes a project and its render history
func DeleteProjectCmd(svc *service.ProjectService, name string) tea.Cmd {
	return func() tea.Msg {
		if err := svc.Delete(name); err != nil {
			return ErrMsg{Err: err, Context: "deleting " + name}
		}
		return ProjectDeletedMsg{Name: name}
	}
}

// SplitScriptCmd replaces the scenes of p with the split script and saves
func SplitScriptCmd(svc *service.ProjectService, p *domain.Project, text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		local, err := svc.SplitScript(ctx, p, text)
		if err != nil {
			return ErrMsg{Err: err, Context: "splitting script"}
		}
		if err := svc.Save(p); err != nil {
			return ErrMsg{Err: err, Context: "saving " + p.Name}
		}
		status := fmt.Sprintf("%d scenes", len(p.Scenes))
		if local {
			status += " (backend offline, split locally)"
		}
		return ProjectUpdatedMsg{Project: p, Status: status}
	}
}

// GenerateScriptCmd asks the backend to write a script
func GenerateScriptCmd(svc *service.ProjectService, req domain.ScriptRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		script, err := svc.GenerateScript(ctx, req)
		if err != nil {
			return ErrMsg{Err: err, Context: "generating script"}
		}
		return ScriptGeneratedMsg{Script: script}
	}
}

// GenerateImagesCmd generates AI backgrounds for every scene
func GenerateImagesCmd(svc *service.ProjectService, p *domain.Project) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		n, err := svc.GenerateImages(ctx, p)
		if err != nil {
			return ErrMsg{Err: err, Context: "generating images"}
		}
		if err := svc.Save(p); err != nil {
			return ErrMsg{Err: err, Context: "saving " + p.Name}
		}
		return ProjectUpdatedMsg{Project: p, Status: fmt.Sprintf("Generated %d/%d backgrounds", n, len(p.Scenes))}
	}
}

// UploadBackgroundCmd uploads a local file as a scene background
func UploadBackgroundCmd(svc *service.ProjectService, p *domain.Project, sceneID, path string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		if err := svc.UploadBackground(ctx, p, sceneID, path); err != nil {
			return ErrMsg{Err: err, Context: "uploading background"}
		}
		if err := svc.Save(p); err != nil {
			return ErrMsg{Err: err, Context: "saving " + p.Name}
		}
		return ProjectUpdatedMsg{Project: p, Status: "Background set for " + sceneID}
	}
}

// UploadMusicCmd uploads a local audio file as the background track
func UploadMusicCmd(svc *service.ProjectService, p *domain.Project, path string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		if err := svc.UploadMusic(ctx, p, path); err != nil {
			return ErrMsg{Err: err, Context: "uploading music"}
		}
		if err := svc.Save(p); err != nil {
			return ErrMsg{Err: err, Context: "saving " + p.Name}
		}
		return ProjectUpdatedMsg{Project: p, Status: "Music track set"}
	}
}

// StockSearchCmd searches stock media
func StockSearchCmd(svc *service.ProjectService, query string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		results, err := svc.StockSearch(ctx, query)
		if err != nil {
			return ErrMsg{Err: err, Context: "stock search"}
		}
		return StockResultsMsg{Query: query, Results: results}
	}
}

// ApplyStockCmd downloads a stock hit to the backend and attaches it
func ApplyStockCmd(svc *service.ProjectService, p *domain.Project, sceneID string, hit domain.StockResult) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		if err := svc.ApplyStock(ctx, p, sceneID, hit); err != nil {
			return ErrMsg{Err: err, Context: "attaching stock media"}
		}
		if err := svc.Save(p); err != nil {
			return ErrMsg{Err: err, Context: "saving " + p.Name}
		}
		return ProjectUpdatedMsg{Project: p, Status: "Stock " + hit.Type + " set for " + sceneID}
	}
}

// LoadVoicesCmd fetches (or reuses) the voice list and filters it
func LoadVoicesCmd(svc *service.VoiceService, query string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if _, err := svc.Voices(ctx); err != nil {
			return ErrMsg{Err: err, Context: "loading voices"}
		}
		return VoicesLoadedMsg{Matches: svc.Filter(query), Query: query}
	}
}

// WarmVoicesCmd fills the voice cache so voice IDs display as names.
// Failures are only logged; the picker reports them when opened.
func WarmVoicesCmd(svc *service.VoiceService) tea.Cmd {
	if svc == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if _, err := svc.Voices(ctx); err != nil {
			slog.Debug("voice cache not warmed", "error", err)
			return nil
		}
		return voicesWarmedMsg{}
	}
}

// renderTickCmd schedules the next simulated progress step for run
func renderTickCmd(run progress.Run) tea.Cmd {
	return tea.Tick(progress.TickInterval, func(t time.Time) tea.Msg {
		return renderTickMsg{Run: run, Time: t}
	})
}

// SubmitRenderCmd sends the render request. The backend gives no progress,
// so this blocks until the video is done or the request fails.
func SubmitRenderCmd(svc *service.RenderService, p *domain.Project, run progress.Run) tea.Cmd {
	return func() tea.Msg {
		rec, err := svc.Submit(context.Background(), p)
		return renderFinishedMsg{Run: run, Record: rec, Err: err}
	}
}

// DownloadCmd saves a finished video under dir
func DownloadCmd(svc *service.RenderService, rec domain.RenderRecord, dir string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		path, err := svc.Download(ctx, &rec, dir)
		if err != nil {
			return ErrMsg{Err: err, Context: "downloading video"}
		}
		return DownloadedMsg{Record: rec, Path: path}
	}
}

// PreviewCmd opens a finished video in the player
func PreviewCmd(svc *service.RenderService, rec domain.RenderRecord) tea.Cmd {
	return func() tea.Msg {
		if err := svc.Preview(&rec); err != nil {
			return ErrMsg{Err: err, Context: "launching player"}
		}
		target := rec.LocalFile
		if target == "" {
			target = rec.VideoPath
		}
		return PreviewStartedMsg{Target: target}
	}
}

// LoadHistoryCmd loads a project's render history
func LoadHistoryCmd(svc *service.RenderService, project string) tea.Cmd {
	return func() tea.Msg {
		records, err := svc.History(project)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading history"}
		}
		return HistoryLoadedMsg{Project: project, Records: records}
	}
}

// TickCmd returns a command that sends a tick after a delay
func TickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
