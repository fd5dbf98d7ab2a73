package adapter

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/mmcdole/storyreel/internal/domain"
)

// DefaultBackendURL is offered during setup
const DefaultBackendURL = "http://localhost:5000"

// Config holds all application configuration
type Config struct {
	Backend BackendConfig `mapstructure:"backend"`
	Render  RenderConfig  `mapstructure:"render"`
	Player  PlayerConfig  `mapstructure:"player"`
	Storage StorageConfig `mapstructure:"storage"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// BackendConfig holds render backend configuration
type BackendConfig struct {
	URL     string        `mapstructure:"url"`
	Token   string        `mapstructure:"token"`   // Optional bearer token
	Timeout time.Duration `mapstructure:"timeout"` // Upper bound for one render
}

// RenderConfig holds the settings new projects start with
type RenderConfig struct {
	Subtitles        bool    `mapstructure:"subtitles"`
	SubtitlePosition string  `mapstructure:"subtitle_position"`
	FontSize         int     `mapstructure:"font_size"`
	MusicVolume      float64 `mapstructure:"music_volume"`
	ElevenLabs       bool    `mapstructure:"elevenlabs"`
	AutoAIImages     bool    `mapstructure:"auto_ai_images"`
	Avatar           bool    `mapstructure:"avatar"`
	AvatarStyle      string  `mapstructure:"avatar_style"`
	AvatarSize       string  `mapstructure:"avatar_size"`
	AvatarPosition   string  `mapstructure:"avatar_position"`
}

// PlayerConfig holds preview player configuration
type PlayerConfig struct {
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
}

// StorageConfig holds local data locations
type StorageConfig struct {
	DataDir     string `mapstructure:"data_dir"`     // Project database
	DownloadDir string `mapstructure:"download_dir"` // Downloaded videos
}

// UIConfig holds UI configuration
type UIConfig struct {
	Theme string `mapstructure:"theme"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendConfig{
			Timeout: 15 * time.Minute,
		},
		Render: RenderConfig{
			Subtitles:        true,
			SubtitlePosition: string(domain.SubtitleBottom),
			FontSize:         48,
			MusicVolume:      0.1,
			AutoAIImages:     true,
			AvatarStyle:      string(domain.AvatarBusiness),
			AvatarSize:       string(domain.AvatarMedium),
			AvatarPosition:   string(domain.AvatarBottomRight),
		},
		Player: PlayerConfig{
			Args: []string{},
		},
		Storage: StorageConfig{
			DataDir:     defaultDataPath(),
			DownloadDir: defaultDownloadPath(),
		},
		UI: UIConfig{
			Theme: "default",
		},
		Logging: LoggingConfig{
			File:  filepath.Join(defaultDataPath(), "storyreel.log"),
			Level: "INFO",
		},
	}
}

// defaultDataPath returns the default data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "storyreel")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "storyreel")
	}
}

// defaultDownloadPath returns where rendered videos are saved
func defaultDownloadPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, "Videos", "storyreel")
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "storyreel")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "storyreel")
	}
}

// ConfigPath returns the config file that SaveConfig writes
func ConfigPath() string {
	return filepath.Join(defaultConfigPath(), "config.yaml")
}

// LoadConfig loads configuration from .env, the config file and the
// environment, in increasing priority
func LoadConfig() (*Config, error) {
	return loadConfig(viper.GetViper(), defaultConfigPath(), ".env")
}

func loadConfig(v *viper.Viper, configDir, envFile string) (*Config, error) {
	// .env never overrides variables already set in the environment
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading %s: %w", envFile, err)
	}

	cfg := DefaultConfig()
	setDefaults(v, cfg)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	// Environment variable overrides, e.g. STORYREEL_BACKEND_URL
	v.SetEnvPrefix("STORYREEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	cfg.Storage.DataDir = expandHome(cfg.Storage.DataDir)
	cfg.Storage.DownloadDir = expandHome(cfg.Storage.DownloadDir)
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it
func setDefaults(v *viper.Viper, cfg *Config) {
	for key, value := range configValues(cfg) {
		v.SetDefault(key, value)
	}
}

// configValues flattens cfg into snake_case viper keys
func configValues(cfg *Config) map[string]interface{} {
	return map[string]interface{}{
		"backend.url":     cfg.Backend.URL,
		"backend.token":   cfg.Backend.Token,
		"backend.timeout": cfg.Backend.Timeout,

		"render.subtitles":         cfg.Render.Subtitles,
		"render.subtitle_position": cfg.Render.SubtitlePosition,
		"render.font_size":         cfg.Render.FontSize,
		"render.music_volume":      cfg.Render.MusicVolume,
		"render.elevenlabs":        cfg.Render.ElevenLabs,
		"render.auto_ai_images":    cfg.Render.AutoAIImages,
		"render.avatar":            cfg.Render.Avatar,
		"render.avatar_style":      cfg.Render.AvatarStyle,
		"render.avatar_size":       cfg.Render.AvatarSize,
		"render.avatar_position":   cfg.Render.AvatarPosition,

		"player.command": cfg.Player.Command,
		"player.args":    cfg.Player.Args,

		"storage.data_dir":     cfg.Storage.DataDir,
		"storage.download_dir": cfg.Storage.DownloadDir,

		"ui.theme": cfg.UI.Theme,

		"logging.file":  cfg.Logging.File,
		"logging.level": cfg.Logging.Level,
	}
}

// SaveConfig saves the current configuration to file
func SaveConfig(cfg *Config) error {
	return saveConfig(viper.GetViper(), defaultConfigPath(), cfg)
}

func saveConfig(v *viper.Viper, configDir string, cfg *Config) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set fields individually to ensure correct key names (snake_case)
	for key, value := range configValues(cfg) {
		v.Set(key, value)
	}

	configFile := filepath.Join(configDir, "config.yaml")
	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	// The file may hold the API token
	return os.Chmod(configFile, 0600)
}

// IsConfigured returns true once a backend URL has been chosen
func (c *Config) IsConfigured() bool {
	return strings.TrimSpace(c.Backend.URL) != ""
}

// ProjectDefaults returns the render settings new projects start with.
// Unknown enum values fall back to the built-in defaults.
func (c *Config) ProjectDefaults() domain.Project {
	r := c.Render
	p := domain.Project{
		Voice:        domain.VoiceSettings{UseElevenLabs: r.ElevenLabs},
		Music:        domain.MusicSettings{Volume: r.MusicVolume},
		AutoAIImages: r.AutoAIImages,
		Subtitles: domain.SubtitleSettings{
			Enabled:  r.Subtitles,
			Position: pick(domain.SubtitlePositions, domain.SubtitlePosition(r.SubtitlePosition), domain.SubtitleBottom),
			FontSize: r.FontSize,
		},
		Avatar: domain.AvatarSettings{
			Enabled:  r.Avatar,
			Style:    pick(domain.AvatarStyles, domain.AvatarStyle(r.AvatarStyle), domain.AvatarBusiness),
			Size:     pick(domain.AvatarSizes, domain.AvatarSize(r.AvatarSize), domain.AvatarMedium),
			Position: pick(domain.AvatarPositions, domain.AvatarPosition(r.AvatarPosition), domain.AvatarBottomRight),
		},
	}
	if p.Subtitles.FontSize <= 0 {
		p.Subtitles.FontSize = 48
	}
	if p.Music.Volume < 0 || p.Music.Volume > 1 {
		p.Music.Volume = 0.1
	}
	return p
}

// pick returns v if it is one of opts, otherwise fallback
func pick[T comparable](opts []T, v, fallback T) T {
	for _, o := range opts {
		if o == v {
			return v
		}
	}
	return fallback
}

// expandHome replaces a leading ~ with the home directory
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// ProjectsPath returns the directory holding the project database
func (c *Config) ProjectsPath() string {
	return filepath.Join(c.Storage.DataDir, "projects")
}
