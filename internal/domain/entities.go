package domain

import (
	"fmt"
	"strings"
	"time"
)

// DefaultSceneDuration is the duration, in seconds, of a freshly split scene.
// The backend stretches it when narration runs longer.
const DefaultSceneDuration = 5.0

// MaxSceneDuration bounds a user-set scene duration, in seconds
const MaxSceneDuration = 120.0

// BackgroundKind records where a scene's background came from
type BackgroundKind string

const (
	BackgroundNone   BackgroundKind = ""
	BackgroundAI     BackgroundKind = "ai"
	BackgroundUpload BackgroundKind = "upload"
	BackgroundStock  BackgroundKind = "stock"
)

// Background is a server-side path to an image or video clip
type Background struct {
	Kind BackgroundKind `json:"kind,omitempty"`
	Path string         `json:"path,omitempty"` // Path on the render backend
}

// IsSet returns true if a background has been attached
func (b Background) IsSet() bool {
	return b.Path != ""
}

// Scene is one sentence-sized unit of the video
type Scene struct {
	ID          string     `json:"id"`
	Text        string     `json:"text"`
	Background  Background `json:"background"`
	Duration    float64    `json:"duration"` // Seconds
	VoiceID     string     `json:"voice_id,omitempty"`
	ImagePrompt string     `json:"image_prompt,omitempty"` // Overrides Text for AI images
}

// Prompt returns the text used for AI image generation
func (s Scene) Prompt() string {
	if p := strings.TrimSpace(s.ImagePrompt); p != "" {
		return p
	}
	return strings.TrimSpace(s.Text)
}

// SubtitlePosition places burned-in subtitles
type SubtitlePosition string

const (
	SubtitleBottom SubtitlePosition = "bottom"
	SubtitleTop    SubtitlePosition = "top"
	SubtitleCenter SubtitlePosition = "center"
)

// SubtitlePositions lists valid positions in cycle order
var SubtitlePositions = []SubtitlePosition{SubtitleBottom, SubtitleTop, SubtitleCenter}

// AvatarStyle selects the presenter photo
type AvatarStyle string

const (
	AvatarMale     AvatarStyle = "male"
	AvatarFemale   AvatarStyle = "female"
	AvatarBusiness AvatarStyle = "business"
)

// AvatarStyles lists valid styles in cycle order
var AvatarStyles = []AvatarStyle{AvatarBusiness, AvatarMale, AvatarFemale}

// AvatarSize selects the overlay height
type AvatarSize string

const (
	AvatarSmall  AvatarSize = "small"
	AvatarMedium AvatarSize = "medium"
	AvatarLarge  AvatarSize = "large"
)

// AvatarSizes lists valid sizes in cycle order
var AvatarSizes = []AvatarSize{AvatarSmall, AvatarMedium, AvatarLarge}

// AvatarPosition anchors the overlay to a corner
type AvatarPosition string

const (
	AvatarBottomRight AvatarPosition = "bottom-right"
	AvatarBottomLeft  AvatarPosition = "bottom-left"
	AvatarTopRight    AvatarPosition = "top-right"
	AvatarTopLeft     AvatarPosition = "top-left"
)

// AvatarPositions lists valid positions in cycle order
var AvatarPositions = []AvatarPosition{AvatarBottomRight, AvatarBottomLeft, AvatarTopRight, AvatarTopLeft}

// VoiceSettings controls narration
type VoiceSettings struct {
	UseElevenLabs bool   `json:"use_elevenlabs"`
	VoiceID       string `json:"voice_id,omitempty"` // Default voice for scenes without one
}

// MusicSettings controls the background track
type MusicSettings struct {
	Path   string  `json:"path,omitempty"` // Backend path returned by music upload
	Volume float64 `json:"volume"`         // 0.0-1.0
}

// SubtitleSettings controls burned-in subtitles
type SubtitleSettings struct {
	Enabled  bool             `json:"enabled"`
	Position SubtitlePosition `json:"position"`
	FontSize int              `json:"font_size"`
}

// AvatarSettings controls the lip-synced presenter overlay
type AvatarSettings struct {
	Enabled  bool           `json:"enabled"`
	Style    AvatarStyle    `json:"style"`
	Size     AvatarSize     `json:"size"`
	Position AvatarPosition `json:"position"`
}

// Project is everything needed to submit one render
type Project struct {
	Name         string           `json:"name"`
	Script       string           `json:"script"`
	Scenes       []Scene          `json:"scenes"`
	Voice        VoiceSettings    `json:"voice"`
	Music        MusicSettings    `json:"music"`
	Subtitles    SubtitleSettings `json:"subtitles"`
	Avatar       AvatarSettings   `json:"avatar"`
	AutoAIImages bool             `json:"auto_ai_images"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// TotalDuration returns the planned runtime before narration stretching
func (p *Project) TotalDuration() time.Duration {
	var secs float64
	for _, s := range p.Scenes {
		secs += s.Duration
	}
	return time.Duration(secs * float64(time.Second))
}

// FormattedDuration returns the planned runtime as M:SS
func (p *Project) FormattedDuration() string {
	total := int(p.TotalDuration().Seconds())
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// SceneByID returns the scene with the given ID and its index
func (p *Project) SceneByID(id string) (*Scene, int, bool) {
	for i := range p.Scenes {
		if p.Scenes[i].ID == id {
			return &p.Scenes[i], i, true
		}
	}
	return nil, -1, false
}

// Clone returns a copy that shares no scene storage with p
func (p *Project) Clone() *Project {
	c := *p
	c.Scenes = append([]Scene(nil), p.Scenes...)
	return &c
}
