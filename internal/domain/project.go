package domain

import (
	"fmt"
	"slices"
	"strings"
)

// SplitScript breaks a script into period-delimited sentences, each
// re-terminated with a period. Blank input yields no chunks.
func SplitScript(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var chunks []string
	for _, part := range strings.Split(text, ".") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		chunks = append(chunks, part+".")
	}
	return chunks
}

// NewScenes builds scenes with sequential IDs and default durations
func NewScenes(chunks []string) []Scene {
	scenes := make([]Scene, len(chunks))
	for i, chunk := range chunks {
		scenes[i] = Scene{
			ID:       fmt.Sprintf("scene_%d", i+1),
			Text:     chunk,
			Duration: DefaultSceneDuration,
		}
	}
	return scenes
}

// NewProject returns an empty project with render defaults applied
func NewProject(name string, defaults Project) *Project {
	p := defaults
	p.Name = name
	p.Script = ""
	p.Scenes = nil
	return &p
}

// MoveScene moves the scene at index from to index to, shifting the
// scenes in between.
func (p *Project) MoveScene(from, to int) error {
	n := len(p.Scenes)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("%w: move %d -> %d with %d scenes", ErrSceneIndex, from, to, n)
	}
	if from == to {
		return nil
	}

	moved := p.Scenes[from]
	if from < to {
		copy(p.Scenes[from:to], p.Scenes[from+1:to+1])
	} else {
		copy(p.Scenes[to+1:from+1], p.Scenes[to:from])
	}
	p.Scenes[to] = moved
	return nil
}

// RemoveScene deletes the scene at index i
func (p *Project) RemoveScene(i int) error {
	if i < 0 || i >= len(p.Scenes) {
		return fmt.Errorf("%w: remove %d with %d scenes", ErrSceneIndex, i, len(p.Scenes))
	}
	p.Scenes = append(p.Scenes[:i], p.Scenes[i+1:]...)
	return nil
}

// SetBackground attaches a background to the scene with the given ID
func (p *Project) SetBackground(sceneID string, bg Background) error {
	scene, _, ok := p.SceneByID(sceneID)
	if !ok {
		return fmt.Errorf("%w: scene %q", ErrNotFound, sceneID)
	}
	scene.Background = bg
	return nil
}

// SetSceneDuration sets the minimum length of the scene with the given ID
func (p *Project) SetSceneDuration(sceneID string, seconds float64) error {
	if seconds <= 0 || seconds > MaxSceneDuration {
		return fmt.Errorf("%w: duration must be between 0 and %gs", ErrInvalidProject, MaxSceneDuration)
	}
	scene, _, ok := p.SceneByID(sceneID)
	if !ok {
		return fmt.Errorf("%w: scene %q", ErrNotFound, sceneID)
	}
	scene.Duration = seconds
	return nil
}

// SetImagePrompt sets the AI image prompt of a scene. An empty prompt
// falls back to the scene text.
func (p *Project) SetImagePrompt(sceneID, prompt string) error {
	scene, _, ok := p.SceneByID(sceneID)
	if !ok {
		return fmt.Errorf("%w: scene %q", ErrNotFound, sceneID)
	}
	scene.ImagePrompt = strings.TrimSpace(prompt)
	return nil
}

// Validate checks the project can be submitted for rendering
func (p *Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProject)
	}
	if len(p.Scenes) == 0 {
		return fmt.Errorf("%w: no scenes, split the script first", ErrInvalidProject)
	}
	for i, s := range p.Scenes {
		if s.Duration <= 0 {
			return fmt.Errorf("%w: scene %d has non-positive duration", ErrInvalidProject, i+1)
		}
	}
	if p.Music.Volume < 0 || p.Music.Volume > 1 {
		return fmt.Errorf("%w: music volume %.2f outside 0-1", ErrInvalidProject, p.Music.Volume)
	}
	if p.Subtitles.Enabled {
		if !slices.Contains(SubtitlePositions, p.Subtitles.Position) {
			return fmt.Errorf("%w: subtitle position %q", ErrInvalidProject, p.Subtitles.Position)
		}
		if p.Subtitles.FontSize <= 0 {
			return fmt.Errorf("%w: font size must be positive", ErrInvalidProject)
		}
	}
	if p.Avatar.Enabled {
		if !slices.Contains(AvatarStyles, p.Avatar.Style) {
			return fmt.Errorf("%w: avatar style %q", ErrInvalidProject, p.Avatar.Style)
		}
		if !slices.Contains(AvatarSizes, p.Avatar.Size) {
			return fmt.Errorf("%w: avatar size %q", ErrInvalidProject, p.Avatar.Size)
		}
		if !slices.Contains(AvatarPositions, p.Avatar.Position) {
			return fmt.Errorf("%w: avatar position %q", ErrInvalidProject, p.Avatar.Position)
		}
	}
	return nil
}

// Cycle returns the element after cur in opts, wrapping around
func Cycle[T comparable](opts []T, cur T) T {
	if i := slices.Index(opts, cur); i >= 0 {
		return opts[(i+1)%len(opts)]
	}
	return opts[0]
}
