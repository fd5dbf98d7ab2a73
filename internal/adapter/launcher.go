package adapter

import (
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// Launcher opens rendered videos in an external player
type Launcher struct {
	command string   // configured player command, empty to auto-detect
	args    []string // additional arguments for the player
	goos    string
	logger  *slog.Logger

	// start runs a command without waiting and run waits for it;
	// both are replaced in tests
	start func(name string, args ...string) error
	run   func(name string, args ...string) error
	// lookPath reports whether a command is installed; replaced in tests
	lookPath func(name string) error
}

// launchPath is one way to start a player
type launchPath struct {
	path      string   // Command name, or "open-a:AppName" on macOS
	openFlags []string // Flags for the macOS open command (e.g., ["-n"])
}

// players maps player names to their launch paths per platform
var players = map[string]map[string][]launchPath{
	"mpv": {
		"darwin":  {{path: "mpv"}},
		"linux":   {{path: "mpv"}},
		"windows": {{path: "mpv"}},
	},
	"vlc": {
		"darwin":  {{path: "vlc"}, {path: "open-a:VLC"}},
		"linux":   {{path: "vlc"}},
		"windows": {{path: "vlc"}},
	},
	"iina": {
		"darwin": {{path: "open-a:IINA", openFlags: []string{"-n"}}},
	},
	"celluloid": {
		"linux": {{path: "celluloid"}},
	},
	"totem": {
		"linux": {{path: "totem"}},
	},
}

// candidatePlayers defines the preferred player order for each platform
var candidatePlayers = map[string][]string{
	"darwin":  {"iina", "vlc", "mpv"},
	"linux":   {"mpv", "celluloid", "vlc", "totem"},
	"windows": {"vlc", "mpv"},
}

// NewLauncher creates a Launcher for the configured player
func NewLauncher(command string, args []string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{
		command: command,
		args:    args,
		goos:    runtime.GOOS,
		logger:  logger,
		start: func(name string, args ...string) error {
			return exec.Command(name, args...).Start()
		},
		run: func(name string, args ...string) error {
			return exec.Command(name, args...).Run()
		},
		lookPath: func(name string) error {
			_, err := exec.LookPath(name)
			return err
		},
	}
}

// Launch opens a local file or download URL in the configured player,
// a detected player, or the system default, in that order
func (l *Launcher) Launch(target string) error {
	if target == "" {
		return fmt.Errorf("nothing to preview")
	}

	if l.command != "" {
		l.logger.Info("using configured player", "command", l.command, "target", target)
		return l.launchConfigured(target)
	}

	if name, err := l.detectAndLaunch(target); err == nil {
		l.logger.Info("launched with detected player", "player", name, "target", target)
		return nil
	}

	l.logger.Info("no candidate players found, using system default")
	return l.launchDefault(target)
}

// detectAndLaunch tries candidate players in order.
// Returns the player name that succeeded.
func (l *Launcher) detectAndLaunch(target string) (string, error) {
	candidates, ok := candidatePlayers[l.goos]
	if !ok {
		candidates = candidatePlayers["linux"]
	}

	for _, name := range candidates {
		for _, lp := range players[name][l.goos] {
			var err error
			if app, ok := strings.CutPrefix(lp.path, "open-a:"); ok {
				// open -a fails synchronously when the app is missing
				err = l.run("open", openArgs(app, lp.openFlags, nil, target)...)
			} else if err = l.lookPath(lp.path); err == nil {
				err = l.start(lp.path, target)
			}
			if err == nil {
				return name, nil
			}
			l.logger.Debug("launch path not available", "player", name, "path", lp.path, "error", err)
		}
	}
	return "", fmt.Errorf("no candidate players found")
}

// launchConfigured launches the configured player command
func (l *Launcher) launchConfigured(target string) error {
	args := append(append([]string{}, l.args...), target)

	// On macOS, GUI apps outside PATH are started with 'open -a'
	if l.goos == "darwin" && l.lookPath(l.command) != nil {
		var openFlags []string
		base := strings.ToLower(strings.TrimSuffix(filepath.Base(l.command), filepath.Ext(l.command)))
		for _, lp := range players[base]["darwin"] {
			if strings.HasPrefix(lp.path, "open-a:") {
				openFlags = lp.openFlags
				break
			}
		}
		return l.start("open", openArgs(l.command, openFlags, l.args, target)...)
	}

	return l.start(l.command, args...)
}

// openArgs builds the argument list for macOS 'open -a'
func openArgs(app string, openFlags, playerArgs []string, target string) []string {
	args := append([]string{}, openFlags...)
	args = append(args, "-a", app)
	if len(playerArgs) > 0 {
		args = append(args, "--args")
		args = append(args, playerArgs...)
	}
	return append(args, target)
}

// launchDefault opens the target with the system default handler
func (l *Launcher) launchDefault(target string) error {
	l.logger.Info("launching with system default", "os", l.goos, "target", target)
	switch l.goos {
	case "darwin":
		return l.start("open", target)
	case "windows":
		return l.start("cmd", "/c", "start", "", target)
	default:
		return l.start("xdg-open", target)
	}
}
