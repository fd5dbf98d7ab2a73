package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/mmcdole/storyreel/internal/adapter"
	"github.com/mmcdole/storyreel/internal/adapter/backend"
	"github.com/mmcdole/storyreel/internal/domain"
	"github.com/mmcdole/storyreel/internal/progress"
	"github.com/mmcdole/storyreel/internal/service"
	"github.com/mmcdole/storyreel/internal/store"
	"github.com/mmcdole/storyreel/internal/tui"
	"github.com/mmcdole/storyreel/internal/tui/styles"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var (
		showVersion bool
		renderName  string
		downloadDir string
	)
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.StringVar(&renderName, "render", "", "render the named project without the TUI")
	flag.StringVar(&downloadDir, "download", "", "with -render, save the finished video into this directory")
	flag.Parse()

	if showVersion {
		fmt.Printf("storyreel %s\n", Version)
		return
	}

	if err := run(renderName, downloadDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app holds the wired services
type app struct {
	cfg      *adapter.Config
	logger   *slog.Logger
	store    *store.ProjectStore
	projects *service.ProjectService
	voices   *service.VoiceService
	renders  *service.RenderService
}

func run(renderName, downloadDir string) error {
	// Load configuration
	cfg, err := adapter.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger, closer, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	} else {
		defer closer.Close()
	}
	slog.SetDefault(logger)

	logger.Info("starting storyreel", "version", Version)

	// Check if configured
	if !cfg.IsConfigured() {
		return runSetupFlow(cfg)
	}

	a, err := wire(cfg, logger)
	if err != nil {
		return err
	}
	defer a.store.Close()

	if renderName != "" {
		return a.renderHeadless(renderName, downloadDir)
	}

	// Create TUI model
	model := tui.NewModel(a.projects, a.voices, a.renders, cfg.Storage.DownloadDir)

	p := tea.NewProgram(model, tea.WithAltScreen())

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// wire builds the client, store and services from cfg
func wire(cfg *adapter.Config, logger *slog.Logger) (*app, error) {
	client := backend.NewClient(cfg.Backend.URL, cfg.Backend.Token, logger)

	st, err := store.NewProjectStore(cfg.ProjectsPath(), cfg.Backend.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open project store: %w", err)
	}

	launcher := adapter.NewLauncher(cfg.Player.Command, cfg.Player.Args, logger)

	return &app{
		cfg:      cfg,
		logger:   logger,
		store:    st,
		projects: service.NewProjectService(st, client, cfg.ProjectDefaults(), logger),
		voices:   service.NewVoiceService(client, logger),
		renders:  service.NewRenderService(client, st, launcher, client.BaseURL(), cfg.Backend.Timeout, logger),
	}, nil
}

// renderHeadless renders one project with a terminal progress bar
func (a *app) renderHeadless(name, downloadDir string) error {
	p, err := a.projects.Load(name)
	if err != nil {
		if errors.Is(err, domain.ErrProjectNotFound) {
			return fmt.Errorf("no project named %q", name)
		}
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	bar := progress.NewBarRenderer(os.Stdout)
	runner := progress.NewRunner(progress.RealClock{}, progress.TickInterval, bar.Handle, a.logger)
	defer runner.Close()

	fmt.Printf("Rendering %s (%d scenes, ~%s)\n", p.Name, len(p.Scenes), p.FormattedDuration())
	run := runner.Start(progress.TableFor(p.Avatar.Enabled))

	rec, err := a.renders.Submit(ctx, p)
	runner.Reconcile(run, err)
	bar.Finish()
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	fmt.Printf("✓ %s in %s\n", rec.VideoPath, rec.Elapsed().Truncate(time.Second))

	if downloadDir == "" {
		return nil
	}
	path, err := a.renders.Download(ctx, rec, downloadDir)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}
	fmt.Printf("✓ Saved %s\n", path)
	return nil
}

// runSetupFlow handles the initial setup when not configured
func runSetupFlow(cfg *adapter.Config) error {
	fmt.Println()
	fmt.Println("Welcome to storyreel!")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)

	// Loop until the backend answers
	for {
		fmt.Printf("Render backend URL [%s]: ", adapter.DefaultBackendURL)
		input, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		backendURL := strings.TrimSpace(input)
		if backendURL == "" {
			backendURL = adapter.DefaultBackendURL
		}

		token, err := readToken(reader, os.Stdin)
		if err != nil {
			return err
		}

		fmt.Println()
		info, err := probeWithSpinner(backendURL, token)
		if err != nil {
			fmt.Printf("✗ Could not reach the backend: %v\n", err)
			fmt.Println("Please check the URL and try again.")
			fmt.Println()
			continue
		}

		name := info.Service
		if name == "" {
			name = "render backend"
		}
		fmt.Printf("✓ Connected to %s", name)
		if info.Quality != "" {
			fmt.Printf(" (%s)", info.Quality)
		}
		fmt.Println()

		cfg.Backend.URL = backendURL
		cfg.Backend.Token = token
		break
	}

	if err := adapter.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("✓ Configuration saved to", adapter.ConfigPath())
	fmt.Println()
	fmt.Println("Run storyreel again to start the application.")
	return nil
}

// readToken reads the optional API token, without echo on a terminal.
// Piped input goes through reader, which may already hold the token line.
func readToken(reader *bufio.Reader, in *os.File) (string, error) {
	fmt.Print("API token (leave empty if none): ")
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("failed to read token: %w", err)
		}
		fmt.Println()
		return strings.TrimSpace(line), nil
	}
	raw, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

type probeResultMsg struct {
	info *domain.ServiceInfo
	err  error
}

// probeModel shows a spinner while the backend health check runs
type probeModel struct {
	spinner spinner.Model
	url     string
	token   string
	result  probeResultMsg
	done    bool
}

func (m probeModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.probe)
}

func (m probeModel) probe() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client := backend.NewClient(m.url, m.token, adapter.NullLogger())
	info, err := client.Health(ctx)
	return probeResultMsg{info: info, err: err}
}

func (m probeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case probeResultMsg:
		m.result = msg
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.result = probeResultMsg{err: errors.New("cancelled")}
			m.done = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m probeModel) View() string {
	if m.done {
		return ""
	}
	return m.spinner.View() + " Contacting " + m.url + "...\n"
}

// probeWithSpinner checks the backend's health endpoint behind a spinner
func probeWithSpinner(url, token string) (*domain.ServiceInfo, error) {
	s := spinner.New()
	s.Spinner = spinner.Spinner{Frames: styles.SpinnerFrames, FPS: 80 * time.Millisecond}
	s.Style = styles.SpinnerStyle

	final, err := tea.NewProgram(probeModel{spinner: s, url: url, token: token}).Run()
	if err != nil {
		return nil, err
	}
	res := final.(probeModel).result
	return res.info, res.err
}
