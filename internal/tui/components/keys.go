package components

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// ListKeyMap defines cursor movement shared by the list components
type ListKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Home key.Binding
	End  key.Binding
}

// DefaultListKeyMap returns the default list key bindings
func DefaultListKeyMap() ListKeyMap {
	return ListKeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Home: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "go to top"),
		),
		End: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "go to bottom"),
		),
	}
}

// ModalKeyMap is the arrow-only variant used while a text input has focus
var ModalKeyMap = ListKeyMap{
	Up:   key.NewBinding(key.WithKeys("up", "ctrl+p")),
	Down: key.NewBinding(key.WithKeys("down", "ctrl+n")),
	Home: key.NewBinding(key.WithKeys("home")),
	End:  key.NewBinding(key.WithKeys("end")),
}

var listKeys = DefaultListKeyMap()

// cursor is a scrolling selection over n rows
type cursor struct {
	pos    int
	offset int
}

// move applies a list key to the cursor; reports whether the key was used
func (c *cursor) move(keys ListKeyMap, msg tea.KeyMsg, n int) bool {
	switch {
	case key.Matches(msg, keys.Up):
		if c.pos > 0 {
			c.pos--
		}
	case key.Matches(msg, keys.Down):
		if c.pos < n-1 {
			c.pos++
		}
	case key.Matches(msg, keys.Home):
		c.pos = 0
	case key.Matches(msg, keys.End):
		c.pos = max(n-1, 0)
	default:
		return false
	}
	return true
}

// clamp keeps the cursor inside n rows and the viewport of height rows
func (c *cursor) clamp(n, height int) {
	if c.pos >= n {
		c.pos = n - 1
	}
	if c.pos < 0 {
		c.pos = 0
	}
	if height <= 0 {
		height = 1
	}
	if c.pos < c.offset {
		c.offset = c.pos
	}
	if c.pos >= c.offset+height {
		c.offset = c.pos - height + 1
	}
	if c.offset < 0 {
		c.offset = 0
	}
}
