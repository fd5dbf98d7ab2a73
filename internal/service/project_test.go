package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/storyreel/internal/domain"
	"github.com/mmcdole/storyreel/internal/store"
)

func newProjectService(t *testing.T, backend *fakeBackend) *ProjectService {
	t.Helper()
	st, err := store.NewProjectStore("", "")
	require.NoError(t, err)
	defaults := domain.Project{
		Music:     domain.MusicSettings{Volume: 0.1},
		Subtitles: domain.SubtitleSettings{Enabled: true, Position: domain.SubtitleBottom, FontSize: 48},
	}
	return NewProjectService(st, backend, defaults, nil)
}

func TestProjectLifecycle(t *testing.T) {
	svc := newProjectService(t, &fakeBackend{})
	clock := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return clock }

	p, err := svc.New("  launch video ")
	require.NoError(t, err)
	assert.Equal(t, "launch video", p.Name)
	assert.Equal(t, 48, p.Subtitles.FontSize)
	assert.Equal(t, clock, p.CreatedAt)

	_, err = svc.New("launch video")
	assert.ErrorIs(t, err, domain.ErrInvalidProject)
	_, err = svc.New(" ")
	assert.ErrorIs(t, err, domain.ErrInvalidProject)

	clock = clock.Add(time.Hour)
	p.Script = "Hello."
	require.NoError(t, svc.Save(p))

	loaded, err := svc.Load("launch video")
	require.NoError(t, err)
	assert.Equal(t, "Hello.", loaded.Script)
	assert.Equal(t, clock, loaded.UpdatedAt)
	assert.True(t, loaded.CreatedAt.Before(loaded.UpdatedAt))

	list, err := svc.List()
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.Delete("launch video"))
	_, err = svc.Load("launch video")
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
}

func TestSplitScriptUsesBackend(t *testing.T) {
	backend := &fakeBackend{splitScenes: domain.NewScenes([]string{"From the server."})}
	svc := newProjectService(t, backend)
	p := &domain.Project{Name: "demo"}

	local, err := svc.SplitScript(context.Background(), p, "From the server.")
	require.NoError(t, err)
	assert.False(t, local)
	assert.Equal(t, "From the server.", p.Script)
	require.Len(t, p.Scenes, 1)
}

func TestSplitScriptFallsBackWhenOffline(t *testing.T) {
	backend := &fakeBackend{splitErr: fmt.Errorf("%w: connection refused", domain.ErrServerOffline)}
	svc := newProjectService(t, backend)
	p := &domain.Project{Name: "demo"}

	local, err := svc.SplitScript(context.Background(), p, "One. Two.")
	require.NoError(t, err)
	assert.True(t, local)
	require.Len(t, p.Scenes, 2)
	assert.Equal(t, "Two.", p.Scenes[1].Text)
}

func TestSplitScriptSurfacesOtherErrors(t *testing.T) {
	backend := &fakeBackend{splitErr: &domain.RemoteError{Status: 400, Message: "No text provided"}}
	svc := newProjectService(t, backend)
	p := &domain.Project{Name: "demo", Scenes: domain.NewScenes([]string{"kept"})}

	_, err := svc.SplitScript(context.Background(), p, "x.")
	assert.Error(t, err)
	assert.Len(t, p.Scenes, 1)

	// Blank scripts clear scenes without a backend call
	local, err := svc.SplitScript(context.Background(), p, "  ")
	require.NoError(t, err)
	assert.False(t, local)
	assert.Empty(t, p.Scenes)
}

func TestGenerateScriptDefaults(t *testing.T) {
	backend := &fakeBackend{script: "Bees are amazing."}
	svc := newProjectService(t, backend)

	script, err := svc.GenerateScript(context.Background(), domain.ScriptRequest{Topic: " bees ", Style: "rap"})
	require.NoError(t, err)
	assert.Equal(t, "Bees are amazing.", script)
	assert.Equal(t, "bees", backend.scriptReq.Topic)
	assert.Equal(t, "educational", backend.scriptReq.Style)
	assert.Equal(t, 60, backend.scriptReq.Duration)

	_, err = svc.GenerateScript(context.Background(), domain.ScriptRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidProject)
}

func TestGenerateImages(t *testing.T) {
	backend := &fakeBackend{images: []domain.GeneratedImage{
		{SceneID: "scene_1", BackgroundPath: "uploads/ai_1.png", Success: true},
		{SceneID: "scene_2", Success: false, Error: "quota exceeded"},
	}}
	svc := newProjectService(t, backend)
	p := &domain.Project{Name: "demo", Scenes: domain.NewScenes([]string{"a.", "b."})}

	n, err := svc.GenerateImages(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, domain.BackgroundAI, p.Scenes[0].Background.Kind)
	assert.False(t, p.Scenes[1].Background.IsSet())

	backend.images = backend.images[1:]
	_, err = svc.GenerateImages(context.Background(), p)
	assert.EqualError(t, err, "quota exceeded")

	_, err = svc.GenerateImages(context.Background(), &domain.Project{})
	assert.ErrorIs(t, err, domain.ErrInvalidProject)
}

func TestUploads(t *testing.T) {
	backend := &fakeBackend{}
	svc := newProjectService(t, backend)
	p := &domain.Project{Name: "demo", Scenes: domain.NewScenes([]string{"a."})}

	dir := t.TempDir()
	img := filepath.Join(dir, "beach.png")
	song := filepath.Join(dir, "theme.mp3")
	require.NoError(t, os.WriteFile(img, []byte("png"), 0644))
	require.NoError(t, os.WriteFile(song, []byte("mp3"), 0644))

	require.NoError(t, svc.UploadBackground(context.Background(), p, "scene_1", img))
	assert.Equal(t, domain.Background{Kind: domain.BackgroundUpload, Path: "uploads/scene_1_beach.png"}, p.Scenes[0].Background)
	assert.Equal(t, "png", backend.uploads["beach.png"])

	assert.ErrorIs(t, svc.UploadBackground(context.Background(), p, "scene_9", img), domain.ErrNotFound)
	assert.Error(t, svc.UploadBackground(context.Background(), p, "scene_1", filepath.Join(dir, "missing.png")))

	require.NoError(t, svc.UploadMusic(context.Background(), p, song))
	assert.Equal(t, "music_cache/custom_1_theme.mp3", p.Music.Path)
}

func TestStock(t *testing.T) {
	backend := &fakeBackend{stock: []domain.StockResult{
		{URL: "1", Alt: "city at night"},
		{URL: "2", Alt: "calm ocean waves"},
	}}
	svc := newProjectService(t, backend)

	results, err := svc.StockSearch(context.Background(), "ocean")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "2", results[0].URL)

	results, err = svc.StockSearch(context.Background(), " ")
	require.NoError(t, err)
	assert.Nil(t, results)

	p := &domain.Project{Name: "demo", Scenes: domain.NewScenes([]string{"a."})}
	require.NoError(t, svc.ApplyStock(context.Background(), p, "scene_1", backend.stock[1]))
	assert.Equal(t, domain.BackgroundStock, p.Scenes[0].Background.Kind)
	assert.Equal(t, "uploads/stock_scene_1.jpg", p.Scenes[0].Background.Path)
	assert.ErrorIs(t, svc.ApplyStock(context.Background(), p, "nope", backend.stock[0]), domain.ErrNotFound)
}
