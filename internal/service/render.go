package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmcdole/storyreel/internal/domain"
)

// RenderService submits renders and manages their results
type RenderService struct {
	backend  domain.RenderBackend
	store    domain.Store
	launcher domain.Launcher
	baseURL  string        // Resolves relative download URLs for previews
	timeout  time.Duration // Upper bound for one render, zero for none
	now      func() time.Time
	logger   *slog.Logger
}

// NewRenderService creates a render service
func NewRenderService(
	backend domain.RenderBackend,
	store domain.Store,
	launcher domain.Launcher,
	baseURL string,
	timeout time.Duration,
	logger *slog.Logger,
) *RenderService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RenderService{
		backend:  backend,
		store:    store,
		launcher: launcher,
		baseURL:  strings.TrimRight(baseURL, "/"),
		timeout:  timeout,
		now:      time.Now,
		logger:   logger,
	}
}

// Submit validates the project and blocks until the backend answers.
// Every submitted render of a saved project is recorded in the history,
// failed or not; the returned record is nil only when validation rejected
// the project.
func (s *RenderService) Submit(ctx context.Context, p *domain.Project) (*domain.RenderRecord, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	rec := &domain.RenderRecord{
		ID:         uuid.NewString(),
		Project:    p.Name,
		SceneCount: len(p.Scenes),
		Avatar:     p.Avatar.Enabled,
		StartedAt:  s.now(),
	}
	s.logger.Info("render submitted", "id", rec.ID, "project", p.Name, "scenes", rec.SceneCount, "avatar", rec.Avatar)

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.backend.Render(ctx, p.RenderRequest())
	rec.FinishedAt = s.now()
	if err != nil {
		rec.Status = domain.RenderFailed
		rec.Error = err.Error()
		s.logger.Error("render failed", "id", rec.ID, "project", p.Name, "elapsed", rec.Elapsed(), "error", err)
	} else {
		rec.Status = domain.RenderSucceeded
		rec.VideoPath = res.VideoPath
		rec.DownloadURL = res.DownloadURL
		s.logger.Info("render finished", "id", rec.ID, "project", p.Name, "elapsed", rec.Elapsed(), "video", res.VideoPath)
	}

	// The project may have been deleted while the backend worked
	if _, ok := s.store.GetProject(p.Name); !ok {
		s.logger.Warn("project gone, render not recorded", "id", rec.ID, "project", p.Name)
		return rec, err
	}
	if serr := s.store.SaveRender(*rec); serr != nil {
		s.logger.Error("failed to record render", "id", rec.ID, "error", serr)
	}
	return rec, err
}

// Download saves a finished render's video into dir and records the
// local path. Returns the path written.
func (s *RenderService) Download(ctx context.Context, rec *domain.RenderRecord, dir string) (string, error) {
	if rec.Status != domain.RenderSucceeded || rec.VideoPath == "" {
		return "", fmt.Errorf("render %s has no video", rec.ID)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create download directory: %w", err)
	}

	// Backend paths use forward slashes on every platform
	dest := filepath.Join(dir, path.Base(filepath.ToSlash(rec.VideoPath)))
	tmp := dest + ".part"

	f, err := os.Create(tmp)
	if err != nil {
		return "", err
	}
	_, err = s.backend.DownloadVideo(ctx, rec.VideoPath, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp)
		return "", err
	}
	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return "", err
	}

	rec.LocalFile = dest
	if err := s.store.SaveRender(*rec); err != nil {
		s.logger.Error("failed to record download", "id", rec.ID, "error", err)
	}
	s.logger.Info("render downloaded", "id", rec.ID, "file", dest)
	return dest, nil
}

// Preview opens a finished render in the external player, preferring the
// downloaded copy over streaming from the backend
func (s *RenderService) Preview(rec *domain.RenderRecord) error {
	target := s.previewTarget(rec)
	if target == "" {
		return fmt.Errorf("render %s has nothing to preview", rec.ID)
	}
	return s.launcher.Launch(target)
}

func (s *RenderService) previewTarget(rec *domain.RenderRecord) string {
	if rec.LocalFile != "" {
		if _, err := os.Stat(rec.LocalFile); err == nil {
			return rec.LocalFile
		}
	}
	if rec.Status != domain.RenderSucceeded {
		return ""
	}
	switch {
	case strings.HasPrefix(rec.DownloadURL, "http://"), strings.HasPrefix(rec.DownloadURL, "https://"):
		return rec.DownloadURL
	case rec.DownloadURL != "":
		return s.baseURL + "/" + strings.TrimLeft(rec.DownloadURL, "/")
	}
	return ""
}

// History returns a project's renders, newest first
func (s *RenderService) History(project string) ([]domain.RenderRecord, error) {
	return s.store.ListRenders(project)
}

// Latest returns the project's most recent successful render
func (s *RenderService) Latest(project string) (*domain.RenderRecord, bool) {
	recs, err := s.store.ListRenders(project)
	if err != nil {
		return nil, false
	}
	for i := range recs {
		if recs[i].Status == domain.RenderSucceeded {
			return &recs[i], true
		}
	}
	return nil, false
}
