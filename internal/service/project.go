package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/mmcdole/storyreel/internal/domain"
)

const defaultScriptSeconds = 60

// ProjectService manages saved projects and the assets attached to their scenes
type ProjectService struct {
	store    domain.Store
	backend  domain.AssetBackend
	defaults domain.Project
	now      func() time.Time
	logger   *slog.Logger
}

// NewProjectService creates a project service. New projects start from defaults.
func NewProjectService(store domain.Store, backend domain.AssetBackend, defaults domain.Project, logger *slog.Logger) *ProjectService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProjectService{
		store:    store,
		backend:  backend,
		defaults: defaults,
		now:      time.Now,
		logger:   logger,
	}
}

// New creates and saves an empty project
func (s *ProjectService) New(name string) (*domain.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: project name is required", domain.ErrInvalidProject)
	}
	if _, ok := s.store.GetProject(name); ok {
		return nil, fmt.Errorf("%w: project %q already exists", domain.ErrInvalidProject, name)
	}

	p := domain.NewProject(name, s.defaults)
	p.CreatedAt = s.now()
	if err := s.Save(p); err != nil {
		return nil, err
	}
	s.logger.Info("project created", "project", name)
	return p, nil
}

// Load returns a saved project
func (s *ProjectService) Load(name string) (*domain.Project, error) {
	p, ok := s.store.GetProject(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrProjectNotFound, name)
	}
	return p, nil
}

// Save persists the project and stamps its modification time
func (s *ProjectService) Save(p *domain.Project) error {
	now := s.now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	if err := s.store.SaveProject(p); err != nil {
		s.logger.Error("failed to save project", "project", p.Name, "error", err)
		return err
	}
	return nil
}

// List returns all saved projects sorted by name
func (s *ProjectService) List() ([]*domain.Project, error) {
	return s.store.ListProjects()
}

// Delete removes a project and its render history
func (s *ProjectService) Delete(name string) error {
	if err := s.store.DeleteProject(name); err != nil {
		return err
	}
	s.logger.Info("project deleted", "project", name)
	return nil
}

// SplitScript replaces the project's scenes with the script split into
// sentences. The backend does the split; when it is unreachable the same
// split is done locally. Reports whether the local fallback was used.
func (s *ProjectService) SplitScript(ctx context.Context, p *domain.Project, text string) (bool, error) {
	text = strings.TrimSpace(text)
	p.Script = text
	if text == "" {
		p.Scenes = nil
		return false, nil
	}

	scenes, err := s.backend.Split(ctx, text)
	if err == nil {
		p.Scenes = scenes
		s.logger.Debug("script split", "project", p.Name, "scenes", len(scenes))
		return false, nil
	}
	if !isOffline(err) {
		return false, err
	}

	s.logger.Warn("backend offline, splitting locally", "project", p.Name, "error", err)
	p.Scenes = domain.NewScenes(domain.SplitScript(text))
	return true, nil
}

// GenerateScript asks the backend for a script. Unknown styles and
// non-positive durations fall back to defaults.
func (s *ProjectService) GenerateScript(ctx context.Context, req domain.ScriptRequest) (string, error) {
	req.Topic = strings.TrimSpace(req.Topic)
	if req.Topic == "" {
		return "", fmt.Errorf("%w: a topic is required", domain.ErrInvalidProject)
	}
	if !slices.Contains(domain.ScriptStyles, req.Style) {
		req.Style = domain.ScriptStyles[0]
	}
	if req.Duration <= 0 {
		req.Duration = defaultScriptSeconds
	}

	script, err := s.backend.GenerateScript(ctx, req)
	if err != nil {
		s.logger.Error("script generation failed", "topic", req.Topic, "error", err)
		return "", err
	}
	return script, nil
}

// GenerateImages generates AI backgrounds for every scene and attaches the
// ones that succeeded. Returns how many were applied; it is an error only
// when every scene failed.
func (s *ProjectService) GenerateImages(ctx context.Context, p *domain.Project) (int, error) {
	if len(p.Scenes) == 0 {
		return 0, fmt.Errorf("%w: project has no scenes", domain.ErrInvalidProject)
	}

	images, err := s.backend.GenerateImages(ctx, p.Scenes)
	if err != nil {
		return 0, err
	}

	applied := 0
	var firstErr string
	for _, img := range images {
		if !img.Success || img.BackgroundPath == "" {
			s.logger.Warn("image generation failed for scene", "scene", img.SceneID, "error", img.Error)
			if firstErr == "" {
				firstErr = img.Error
			}
			continue
		}
		bg := domain.Background{Kind: domain.BackgroundAI, Path: img.BackgroundPath}
		if err := p.SetBackground(img.SceneID, bg); err != nil {
			s.logger.Warn("generated image for unknown scene", "scene", img.SceneID)
			continue
		}
		applied++
	}

	if applied == 0 && firstErr != "" {
		return 0, &domain.RemoteError{Message: firstErr}
	}
	return applied, nil
}

// UploadBackground uploads a local file as the background of one scene
func (s *ProjectService) UploadBackground(ctx context.Context, p *domain.Project, sceneID, path string) error {
	if _, _, ok := p.SceneByID(sceneID); !ok {
		return fmt.Errorf("%w: scene %s", domain.ErrNotFound, sceneID)
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	remote, err := s.backend.UploadBackground(ctx, sceneID, filepath.Base(path), f)
	if err != nil {
		return err
	}
	s.logger.Info("background uploaded", "scene", sceneID, "path", remote)
	return p.SetBackground(sceneID, domain.Background{Kind: domain.BackgroundUpload, Path: remote})
}

// UploadMusic uploads a local track and makes it the project's music
func (s *ProjectService) UploadMusic(ctx context.Context, p *domain.Project, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	remote, err := s.backend.UploadMusic(ctx, filepath.Base(path), f)
	if err != nil {
		return err
	}
	p.Music.Path = remote
	s.logger.Info("music uploaded", "project", p.Name, "path", remote)
	return nil
}

// StockSearch searches stock media and ranks hits whose description
// matches the query first
func (s *ProjectService) StockSearch(ctx context.Context, query string) ([]domain.StockResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	results, err := s.backend.StockSearch(ctx, query)
	if err != nil {
		return nil, err
	}
	return RankStock(query, results), nil
}

// ApplyStock has the backend fetch a stock hit and attaches it to a scene
func (s *ProjectService) ApplyStock(ctx context.Context, p *domain.Project, sceneID string, hit domain.StockResult) error {
	if _, _, ok := p.SceneByID(sceneID); !ok {
		return fmt.Errorf("%w: scene %s", domain.ErrNotFound, sceneID)
	}
	remote, err := s.backend.DownloadStock(ctx, sceneID, hit)
	if err != nil {
		return err
	}
	return p.SetBackground(sceneID, domain.Background{Kind: domain.BackgroundStock, Path: remote})
}
