package service

import (
	"context"
	"io"
	"sync"

	"github.com/mmcdole/storyreel/internal/domain"
)

// fakeBackend implements domain.Backend with canned responses
type fakeBackend struct {
	mu sync.Mutex

	splitScenes []domain.Scene
	splitErr    error

	script    string
	scriptReq domain.ScriptRequest

	images []domain.GeneratedImage

	uploads  map[string]string // filename -> body
	stock    []domain.StockResult
	stockErr error

	voices    []domain.Voice
	voiceHits int

	renderResult *domain.RenderResult
	renderErr    error
	renders      []domain.RenderRequest

	video []byte
}

func (f *fakeBackend) Health(ctx context.Context) (*domain.ServiceInfo, error) {
	return &domain.ServiceInfo{OK: true}, nil
}

func (f *fakeBackend) Split(ctx context.Context, text string) ([]domain.Scene, error) {
	return f.splitScenes, f.splitErr
}

func (f *fakeBackend) GenerateScript(ctx context.Context, req domain.ScriptRequest) (string, error) {
	f.scriptReq = req
	return f.script, nil
}

func (f *fakeBackend) GenerateImages(ctx context.Context, scenes []domain.Scene) ([]domain.GeneratedImage, error) {
	return f.images, nil
}

func (f *fakeBackend) upload(filename string, r io.Reader) {
	data, _ := io.ReadAll(r)
	if f.uploads == nil {
		f.uploads = make(map[string]string)
	}
	f.uploads[filename] = string(data)
}

func (f *fakeBackend) UploadBackground(ctx context.Context, sceneID, filename string, r io.Reader) (string, error) {
	f.upload(filename, r)
	return "uploads/" + sceneID + "_" + filename, nil
}

func (f *fakeBackend) UploadMusic(ctx context.Context, filename string, r io.Reader) (string, error) {
	f.upload(filename, r)
	return "music_cache/custom_1_" + filename, nil
}

func (f *fakeBackend) StockSearch(ctx context.Context, query string) ([]domain.StockResult, error) {
	return f.stock, f.stockErr
}

func (f *fakeBackend) DownloadStock(ctx context.Context, sceneID string, hit domain.StockResult) (string, error) {
	return "uploads/stock_" + sceneID + ".jpg", nil
}

func (f *fakeBackend) Voices(ctx context.Context) ([]domain.Voice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.voiceHits++
	return f.voices, nil
}

func (f *fakeBackend) Render(ctx context.Context, req domain.RenderRequest) (*domain.RenderResult, error) {
	f.mu.Lock()
	f.renders = append(f.renders, req)
	f.mu.Unlock()
	return f.renderResult, f.renderErr
}

func (f *fakeBackend) DownloadVideo(ctx context.Context, videoPath string, w io.Writer) (int64, error) {
	n, err := w.Write(f.video)
	return int64(n), err
}

var _ domain.Backend = (*fakeBackend)(nil)

// fakeLauncher records launch targets
type fakeLauncher struct {
	targets []string
}

func (l *fakeLauncher) Launch(target string) error {
	l.targets = append(l.targets, target)
	return nil
}
