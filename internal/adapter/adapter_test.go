package adapter

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/storyreel/internal/domain"
)

var _ domain.Launcher = (*Launcher)(nil)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(viper.New(), t.TempDir(), filepath.Join(t.TempDir(), ".env"))
	require.NoError(t, err)

	assert.False(t, cfg.IsConfigured())
	assert.Equal(t, 15*time.Minute, cfg.Backend.Timeout)
	assert.True(t, cfg.Render.Subtitles)
	assert.Equal(t, 48, cfg.Render.FontSize)
	assert.Equal(t, "INFO", cfg.Logging.Level)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := `
backend:
  url: http://render.local:5000
  timeout: 2m
render:
  avatar: true
  avatar_style: female
  subtitle_position: top
player:
  command: mpv
  args: ["--loop"]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("STORYREEL_BACKEND_TOKEN=from-dotenv\n"), 0644))
	t.Setenv("STORYREEL_RENDER_FONT_SIZE", "64")
	t.Cleanup(func() { os.Unsetenv("STORYREEL_BACKEND_TOKEN") })

	cfg, err := loadConfig(viper.New(), dir, envFile)
	require.NoError(t, err)

	assert.True(t, cfg.IsConfigured())
	assert.Equal(t, "http://render.local:5000", cfg.Backend.URL)
	assert.Equal(t, "from-dotenv", cfg.Backend.Token)
	assert.Equal(t, 2*time.Minute, cfg.Backend.Timeout)
	assert.Equal(t, 64, cfg.Render.FontSize)
	assert.Equal(t, []string{"--loop"}, cfg.Player.Args)

	defaults := cfg.ProjectDefaults()
	assert.True(t, defaults.Avatar.Enabled)
	assert.Equal(t, domain.AvatarFemale, defaults.Avatar.Style)
	assert.Equal(t, domain.AvatarMedium, defaults.Avatar.Size)
	assert.Equal(t, domain.SubtitleTop, defaults.Subtitles.Position)
	assert.Equal(t, 64, defaults.Subtitles.FontSize)
}

func TestSaveConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Backend.URL = "http://saved.local"
	cfg.Backend.Token = "tok"

	require.NoError(t, saveConfig(viper.New(), dir, cfg))
	info, err := os.Stat(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := loadConfig(viper.New(), dir, filepath.Join(dir, ".env"))
	require.NoError(t, err)
	assert.Equal(t, "http://saved.local", loaded.Backend.URL)
	assert.Equal(t, "tok", loaded.Backend.Token)
}

func TestProjectDefaultsSanitizes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Render.AvatarSize = "huge"
	cfg.Render.SubtitlePosition = "sideways"
	cfg.Render.MusicVolume = 3
	cfg.Render.FontSize = 0

	p := cfg.ProjectDefaults()
	assert.Equal(t, domain.AvatarMedium, p.Avatar.Size)
	assert.Equal(t, domain.SubtitleBottom, p.Subtitles.Position)
	assert.Equal(t, 0.1, p.Music.Volume)
	assert.Equal(t, 48, p.Subtitles.FontSize)

	p.Name = "x"
	p.Scenes = domain.NewScenes([]string{"a."})
	assert.NoError(t, p.Validate())
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLogLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLogLevel("WARNING"))
	assert.Equal(t, slog.LevelError, parseLogLevel(" error "))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("chatty"))
}

func TestNewLoggerFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "WARN")
	logger.Info("hidden")
	logger.Warn("shown", "project", "demo")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"project":"demo"`)
}

func TestSetupLoggerCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "storyreel.log")
	logger, closer, err := SetupLogger(&LoggingConfig{File: path, Level: "info"})
	require.NoError(t, err)
	logger.Info("hello")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}

type launchCall struct {
	name string
	args []string
}

func fakeLauncher(command, goos string, installed ...string) (*Launcher, *[]launchCall) {
	var calls []launchCall
	l := NewLauncher(command, []string{"--fs"}, NullLogger())
	l.goos = goos
	l.start = func(name string, args ...string) error {
		calls = append(calls, launchCall{name, args})
		return nil
	}
	l.run = func(name string, args ...string) error {
		return errors.New("app not found")
	}
	l.lookPath = func(name string) error {
		for _, i := range installed {
			if i == name {
				return nil
			}
		}
		return errors.New("not in PATH")
	}
	return l, &calls
}

func TestLaunchConfigured(t *testing.T) {
	l, calls := fakeLauncher("mpv", "linux", "mpv")
	require.NoError(t, l.Launch("/videos/demo.mp4"))
	require.Len(t, *calls, 1)
	assert.Equal(t, "mpv", (*calls)[0].name)
	assert.Equal(t, []string{"--fs", "/videos/demo.mp4"}, (*calls)[0].args)
}

func TestLaunchConfiguredMacApp(t *testing.T) {
	l, calls := fakeLauncher("IINA", "darwin")
	require.NoError(t, l.Launch("/videos/demo.mp4"))
	require.Len(t, *calls, 1)
	assert.Equal(t, "open", (*calls)[0].name)
	assert.Equal(t, []string{"-n", "-a", "IINA", "--args", "--fs", "/videos/demo.mp4"}, (*calls)[0].args)
}

func TestLaunchDetectsPlayer(t *testing.T) {
	l, calls := fakeLauncher("", "linux", "vlc")
	require.NoError(t, l.Launch("http://render.local/api/download?path=x.mp4"))
	require.Len(t, *calls, 1)
	assert.Equal(t, "vlc", (*calls)[0].name)
}

func TestLaunchFallsBackToSystemDefault(t *testing.T) {
	l, calls := fakeLauncher("", "linux")
	require.NoError(t, l.Launch("/videos/demo.mp4"))
	require.Len(t, *calls, 1)
	assert.Equal(t, "xdg-open", (*calls)[0].name)

	assert.Error(t, l.Launch(""))
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "x"), expandHome("~/x"))
	assert.Equal(t, "/abs", expandHome("/abs"))
	assert.Equal(t, "config.yaml", filepath.Base(ConfigPath()))
}
