package domain

import (
	"context"
	"io"
)

// RenderBackend submits render jobs. The only signal it gives is the final
// response: there is no intermediate progress.
type RenderBackend interface {
	Render(ctx context.Context, req RenderRequest) (*RenderResult, error)
	DownloadVideo(ctx context.Context, videoPath string, w io.Writer) (int64, error)
}

// AssetBackend prepares scene assets on the backend
type AssetBackend interface {
	Split(ctx context.Context, text string) ([]Scene, error)
	GenerateScript(ctx context.Context, req ScriptRequest) (string, error)
	GenerateImages(ctx context.Context, scenes []Scene) ([]GeneratedImage, error)
	UploadBackground(ctx context.Context, sceneID, filename string, r io.Reader) (string, error)
	UploadMusic(ctx context.Context, filename string, r io.Reader) (string, error)
	StockSearch(ctx context.Context, query string) ([]StockResult, error)
	DownloadStock(ctx context.Context, sceneID string, hit StockResult) (string, error)
}

// VoiceBackend lists narration voices
type VoiceBackend interface {
	Voices(ctx context.Context) ([]Voice, error)
}

// Backend is the full remote API
type Backend interface {
	RenderBackend
	AssetBackend
	VoiceBackend
	Health(ctx context.Context) (*ServiceInfo, error)
}

// Launcher opens a video in an external player
type Launcher interface {
	Launch(target string) error
}
