package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application
type KeyMap struct {
	// Navigation
	Enter      key.Binding
	SwitchPane key.Binding
	Back       key.Binding

	// Projects
	NewProject    key.Binding
	DeleteProject key.Binding

	// Scenes
	EditScript     key.Binding
	GenerateScript key.Binding
	MoveUp         key.Binding
	MoveDown       key.Binding
	RemoveScene    key.Binding
	Background     key.Binding
	ImagePrompt    key.Binding
	SceneDuration  key.Binding
	Stock          key.Binding
	AIImages       key.Binding
	Voice          key.Binding
	ProjectVoice   key.Binding
	Music          key.Binding

	// Rendering
	Render       key.Binding
	CancelRender key.Binding
	Preview      key.Binding
	Download     key.Binding
	History      key.Binding

	// Actions
	Quit   key.Binding
	Help   key.Binding
	Escape key.Binding

	// Confirmations
	Confirm key.Binding
	Deny    key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Navigation
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		SwitchPane: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "scenes/settings"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc", "projects"),
		),

		// Projects
		NewProject: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new project"),
		),
		DeleteProject: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "delete project"),
		),

		// Scenes
		EditScript: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit script"),
		),
		GenerateScript: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "write script from topic"),
		),
		MoveUp: key.NewBinding(
			key.WithKeys("K", "shift+up"),
			key.WithHelp("K", "move scene up"),
		),
		MoveDown: key.NewBinding(
			key.WithKeys("J", "shift+down"),
			key.WithHelp("J", "move scene down"),
		),
		RemoveScene: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "remove scene"),
		),
		Background: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "upload background"),
		),
		ImagePrompt: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "image prompt"),
		),
		SceneDuration: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "scene duration"),
		),
		Stock: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "stock media"),
		),
		AIImages: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "AI backgrounds"),
		),
		Voice: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "scene voice"),
		),
		ProjectVoice: key.NewBinding(
			key.WithKeys("V"),
			key.WithHelp("V", "project voice"),
		),
		Music: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "music track"),
		),

		// Rendering
		Render: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "render"),
		),
		CancelRender: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("C-x", "stop watching render"),
		),
		Preview: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "preview"),
		),
		Download: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "download"),
		),
		History: key.NewBinding(
			key.WithKeys("H"),
			key.WithHelp("H", "render history"),
		),

		// Actions
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close/cancel"),
		),

		// Confirmations
		Confirm: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "confirm"),
		),
		Deny: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n/esc", "cancel"),
		),
	}
}

// Keys is the global key bindings instance
var Keys = DefaultKeyMap()
