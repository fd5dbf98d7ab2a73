package domain

import "time"

// RenderScene is the wire form of a scene in a render request
type RenderScene struct {
	ID             string  `json:"id"`
	Text           string  `json:"text"`
	BackgroundPath string  `json:"background_path"`
	Duration       float64 `json:"duration"`
	VoiceID        string  `json:"voice_id"`
	ImagePrompt    string  `json:"image_prompt"`
}

// RenderRequest is the body of POST /api/render
type RenderRequest struct {
	ProjectName     string           `json:"project_name"`
	Scenes          []RenderScene    `json:"scenes"`
	AutoAIImages    bool             `json:"auto_ai_images"`
	Subtitles       bool             `json:"subtitles"`
	SubtitleStyle   SubtitlePosition `json:"subtitle_style"`
	FontSize        int              `json:"font_size"`
	UseElevenLabs   bool             `json:"use_elevenlabs"`
	BackgroundMusic *string          `json:"background_music"`
	MusicVolume     float64          `json:"music_volume"`
	UseAvatar       bool             `json:"use_avatar"`
	AvatarPosition  AvatarPosition   `json:"avatar_position"`
	AvatarSize      AvatarSize       `json:"avatar_size"`
	AvatarStyle     AvatarStyle      `json:"avatar_style"`
}

// RenderRequest builds the wire request for this project
func (p *Project) RenderRequest() RenderRequest {
	scenes := make([]RenderScene, len(p.Scenes))
	for i, s := range p.Scenes {
		voice := s.VoiceID
		if voice == "" {
			voice = p.Voice.VoiceID
		}
		scenes[i] = RenderScene{
			ID:             s.ID,
			Text:           s.Text,
			BackgroundPath: s.Background.Path,
			Duration:       s.Duration,
			VoiceID:        voice,
			ImagePrompt:    s.ImagePrompt,
		}
	}

	req := RenderRequest{
		ProjectName:    p.Name,
		Scenes:         scenes,
		AutoAIImages:   p.AutoAIImages,
		Subtitles:      p.Subtitles.Enabled,
		SubtitleStyle:  p.Subtitles.Position,
		FontSize:       p.Subtitles.FontSize,
		UseElevenLabs:  p.Voice.UseElevenLabs,
		MusicVolume:    p.Music.Volume,
		UseAvatar:      p.Avatar.Enabled,
		AvatarPosition: p.Avatar.Position,
		AvatarSize:     p.Avatar.Size,
		AvatarStyle:    p.Avatar.Style,
	}
	if p.Music.Path != "" {
		music := p.Music.Path
		req.BackgroundMusic = &music
	}
	return req
}

// RenderResult is the success payload of POST /api/render
type RenderResult struct {
	VideoPath   string `json:"video_path"`
	DownloadURL string `json:"download_url"`
}

// RenderStatus is the outcome of a finished render
type RenderStatus string

const (
	RenderSucceeded RenderStatus = "succeeded"
	RenderFailed    RenderStatus = "failed"
)

// RenderRecord is one entry of a project's render history
type RenderRecord struct {
	ID          string       `json:"id"`
	Project     string       `json:"project"`
	Status      RenderStatus `json:"status"`
	VideoPath   string       `json:"video_path,omitempty"`
	DownloadURL string       `json:"download_url,omitempty"`
	Error       string       `json:"error,omitempty"`
	LocalFile   string       `json:"local_file,omitempty"` // Set once downloaded
	SceneCount  int          `json:"scene_count"`
	Avatar      bool         `json:"avatar"`
	StartedAt   time.Time    `json:"started_at"`
	FinishedAt  time.Time    `json:"finished_at"`
}

// Elapsed returns how long the backend took
func (r RenderRecord) Elapsed() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Voice is a narration voice offered by the backend
type Voice struct {
	ID          string `json:"voice_id"`
	Name        string `json:"name"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
}

// StockResult is one stock search hit
type StockResult struct {
	Type         string `json:"type"` // "image" or "video"
	URL          string `json:"url"`
	Thumbnail    string `json:"thumbnail"`
	Alt          string `json:"alt"`
	Photographer string `json:"photographer"`
}

// GeneratedImage reports the AI background generated for one scene
type GeneratedImage struct {
	SceneID        string `json:"id"`
	BackgroundPath string `json:"background_path"`
	Success        bool   `json:"success"`
	Error          string `json:"error,omitempty"`
}

// ServiceInfo is the backend's root health payload
type ServiceInfo struct {
	OK       bool     `json:"ok"`
	Service  string   `json:"service"`
	Quality  string   `json:"quality"`
	Features []string `json:"features"`
}

// ScriptStyles are the script tones the backend understands
var ScriptStyles = []string{"educational", "narrative", "promotional", "documentary", "tutorial"}

// ScriptRequest asks the backend to write a script
type ScriptRequest struct {
	Topic    string `json:"topic"`
	Style    string `json:"style"`
	Duration int    `json:"duration"` // Target seconds
}
