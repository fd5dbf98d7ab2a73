package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sceneIDs(p *Project) []string {
	ids := make([]string, len(p.Scenes))
	for i, s := range p.Scenes {
		ids[i] = s.ID
	}
	return ids
}

func TestSplitScript(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "   ", nil},
		{"single without period", "Hello world", []string{"Hello world."}},
		{"multiple", "Cats sleep. Dogs bark.  Birds sing.", []string{"Cats sleep.", "Dogs bark.", "Birds sing."}},
		{"skips empty chunks", "One... Two.", []string{"One.", "Two."}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitScript(tt.in))
		})
	}
}

func TestNewScenes(t *testing.T) {
	scenes := NewScenes([]string{"a.", "b."})
	require.Len(t, scenes, 2)
	assert.Equal(t, "scene_1", scenes[0].ID)
	assert.Equal(t, "scene_2", scenes[1].ID)
	assert.Equal(t, DefaultSceneDuration, scenes[1].Duration)
}

func TestMoveScene(t *testing.T) {
	newProject := func() *Project {
		return &Project{Scenes: NewScenes([]string{"a", "b", "c", "d"})}
	}

	p := newProject()
	require.NoError(t, p.MoveScene(0, 2))
	assert.Equal(t, []string{"scene_2", "scene_3", "scene_1", "scene_4"}, sceneIDs(p))

	p = newProject()
	require.NoError(t, p.MoveScene(3, 1))
	assert.Equal(t, []string{"scene_1", "scene_4", "scene_2", "scene_3"}, sceneIDs(p))

	p = newProject()
	require.NoError(t, p.MoveScene(2, 2))
	assert.Equal(t, []string{"scene_1", "scene_2", "scene_3", "scene_4"}, sceneIDs(p))

	assert.ErrorIs(t, p.MoveScene(-1, 0), ErrSceneIndex)
	assert.ErrorIs(t, p.MoveScene(0, 4), ErrSceneIndex)
}

func TestRemoveScene(t *testing.T) {
	p := &Project{Scenes: NewScenes([]string{"a", "b", "c"})}
	require.NoError(t, p.RemoveScene(1))
	assert.Equal(t, []string{"scene_1", "scene_3"}, sceneIDs(p))
	assert.ErrorIs(t, p.RemoveScene(5), ErrSceneIndex)
}

func TestSetBackground(t *testing.T) {
	p := &Project{Scenes: NewScenes([]string{"a", "b"})}
	require.NoError(t, p.SetBackground("scene_2", Background{Kind: BackgroundStock, Path: "uploads/x.png"}))
	assert.True(t, p.Scenes[1].Background.IsSet())
	assert.ErrorIs(t, p.SetBackground("scene_9", Background{}), ErrNotFound)
}

func TestSetSceneDuration(t *testing.T) {
	p := &Project{Scenes: NewScenes([]string{"a", "b"})}
	require.NoError(t, p.SetSceneDuration("scene_2", 7.5))
	assert.Equal(t, 7.5, p.Scenes[1].Duration)

	assert.ErrorIs(t, p.SetSceneDuration("scene_1", 0), ErrInvalidProject)
	assert.ErrorIs(t, p.SetSceneDuration("scene_1", MaxSceneDuration+1), ErrInvalidProject)
	assert.ErrorIs(t, p.SetSceneDuration("scene_9", 3), ErrNotFound)
	assert.Equal(t, DefaultSceneDuration, p.Scenes[0].Duration)
}

func TestSetImagePrompt(t *testing.T) {
	p := &Project{Scenes: NewScenes([]string{"A cat."})}
	require.NoError(t, p.SetImagePrompt("scene_1", "  watercolor cat on a roof "))
	assert.Equal(t, "watercolor cat on a roof", p.Scenes[0].Prompt())

	require.NoError(t, p.SetImagePrompt("scene_1", ""))
	assert.Equal(t, "A cat.", p.Scenes[0].Prompt())
	assert.ErrorIs(t, p.SetImagePrompt("scene_9", "x"), ErrNotFound)
}

func validProject() *Project {
	return &Project{
		Name:      "demo",
		Scenes:    NewScenes([]string{"a."}),
		Music:     MusicSettings{Volume: 0.1},
		Subtitles: SubtitleSettings{Enabled: true, Position: SubtitleBottom, FontSize: 48},
		Avatar:    AvatarSettings{Enabled: true, Style: AvatarBusiness, Size: AvatarMedium, Position: AvatarBottomRight},
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validProject().Validate())

	broken := map[string]func(p *Project){
		"no name":         func(p *Project) { p.Name = " " },
		"no scenes":       func(p *Project) { p.Scenes = nil },
		"zero duration":   func(p *Project) { p.Scenes[0].Duration = 0 },
		"volume too loud": func(p *Project) { p.Music.Volume = 1.5 },
		"bad subtitle":    func(p *Project) { p.Subtitles.Position = "left" },
		"bad font":        func(p *Project) { p.Subtitles.FontSize = 0 },
		"bad avatar size": func(p *Project) { p.Avatar.Size = "huge" },
		"bad avatar pos":  func(p *Project) { p.Avatar.Position = "middle" },
	}
	for name, mutate := range broken {
		t.Run(name, func(t *testing.T) {
			p := validProject()
			mutate(p)
			assert.ErrorIs(t, p.Validate(), ErrInvalidProject)
		})
	}

	// Disabled features are not validated
	p := validProject()
	p.Avatar = AvatarSettings{}
	p.Subtitles = SubtitleSettings{}
	assert.NoError(t, p.Validate())
}

func TestRenderRequest(t *testing.T) {
	p := validProject()
	p.Voice = VoiceSettings{UseElevenLabs: true, VoiceID: "default-voice"}
	p.Scenes = append(p.Scenes, Scene{ID: "scene_2", Text: "b.", Duration: 4, VoiceID: "custom"})
	p.Scenes[0].Background = Background{Kind: BackgroundUpload, Path: "uploads/scene_1.png"}

	req := p.RenderRequest()
	assert.Equal(t, "demo", req.ProjectName)
	assert.Nil(t, req.BackgroundMusic)
	require.Len(t, req.Scenes, 2)
	assert.Equal(t, "default-voice", req.Scenes[0].VoiceID)
	assert.Equal(t, "custom", req.Scenes[1].VoiceID)
	assert.Equal(t, "uploads/scene_1.png", req.Scenes[0].BackgroundPath)
	assert.True(t, req.UseAvatar)
	assert.Equal(t, AvatarBusiness, req.AvatarStyle)

	p.Music.Path = "music_cache/custom_1.mp3"
	req = p.RenderRequest()
	require.NotNil(t, req.BackgroundMusic)
	assert.Equal(t, "music_cache/custom_1.mp3", *req.BackgroundMusic)
}

func TestCycle(t *testing.T) {
	assert.Equal(t, SubtitleTop, Cycle(SubtitlePositions, SubtitleBottom))
	assert.Equal(t, SubtitleBottom, Cycle(SubtitlePositions, SubtitleCenter))
	assert.Equal(t, SubtitleBottom, Cycle(SubtitlePositions, SubtitlePosition("bogus")))
}

func TestProjectDuration(t *testing.T) {
	p := &Project{Scenes: NewScenes([]string{"a", "b", "c"})}
	p.Scenes[2].Duration = 50
	assert.Equal(t, "1:00", p.FormattedDuration())
}

func TestClone(t *testing.T) {
	p := &Project{Name: "demo", Scenes: NewScenes([]string{"a", "b"})}
	c := p.Clone()
	c.Scenes[0].Text = "changed"
	c.Name = "other"
	assert.Equal(t, "a", p.Scenes[0].Text)
	assert.Equal(t, "demo", p.Name)
}
