package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/storyreel/internal/domain"
	"github.com/mmcdole/storyreel/internal/tui/styles"
)

const stockRows = 8

// StockModal searches stock media for one scene. Enter on a changed query
// asks for a new search; enter on an unchanged query picks the highlighted hit.
type StockModal struct {
	input    textinput.Model
	results  []domain.StockResult
	cursor   cursor
	visible  bool
	loading  bool
	sceneID  string
	searched string
	width    int
	height   int
}

// StockAction is what the owner should do after Update
type StockAction int

const (
	StockNone StockAction = iota
	StockSearch
	StockPick
)

// NewStockModal creates a stock search modal
func NewStockModal() StockModal {
	ti := textinput.New()
	ti.Placeholder = "Search photos and clips..."
	ti.CharLimit = 100
	ti.Width = 40
	ti.Prompt = "🔍 "
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return StockModal{input: ti}
}

// Show opens the modal for a scene, seeding the query with its text
func (s *StockModal) Show(sceneID, query string) {
	s.visible = true
	s.loading = false
	s.sceneID = sceneID
	s.results = nil
	s.searched = ""
	s.cursor = cursor{}
	s.input.SetValue(query)
	s.input.CursorEnd()
	s.input.Focus()
}

// Hide closes the modal
func (s *StockModal) Hide() {
	s.visible = false
	s.input.Blur()
}

// IsVisible returns true if the modal is shown
func (s StockModal) IsVisible() bool {
	return s.visible
}

// SceneID returns the scene the search is for
func (s StockModal) SceneID() string {
	return s.sceneID
}

// Query returns the trimmed query
func (s StockModal) Query() string {
	return strings.TrimSpace(s.input.Value())
}

// SetSize updates the component dimensions
func (s *StockModal) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// SetLoading marks a search in flight for query
func (s *StockModal) SetLoading(query string) {
	s.loading = true
	s.searched = query
}

// SetResults shows ranked hits
func (s *StockModal) SetResults(results []domain.StockResult) {
	s.results = results
	s.loading = false
	s.cursor = cursor{}
}

// Selected returns the highlighted hit
func (s StockModal) Selected() (domain.StockResult, bool) {
	if len(s.results) == 0 {
		return domain.StockResult{}, false
	}
	return s.results[s.cursor.pos], true
}

// Update handles messages, returns (modal, cmd, action)
func (s StockModal) Update(msg tea.Msg) (StockModal, tea.Cmd, StockAction) {
	if !s.visible {
		return s, nil, StockNone
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, PickerKeys.Escape):
			s.Hide()
			return s, nil, StockNone
		case key.Matches(keyMsg, PickerKeys.Enter):
			if s.loading {
				return s, nil, StockNone
			}
			if q := s.Query(); q != "" && q != s.searched {
				return s, nil, StockSearch
			}
			if len(s.results) > 0 {
				return s, nil, StockPick
			}
			return s, nil, StockNone
		}
		if s.cursor.move(ModalKeyMap, keyMsg, len(s.results)) {
			s.cursor.clamp(len(s.results), stockRows)
			return s, nil, StockNone
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd, StockNone
}

// View renders the modal
func (s StockModal) View() string {
	if !s.visible {
		return ""
	}

	modalWidth := min(max(s.width*2/3, 44), 90)
	inner := modalWidth - 4

	var b strings.Builder
	b.WriteString(styles.ModalTitleStyle.Render("Stock media for " + s.sceneID))
	b.WriteString("\n")
	b.WriteString(s.input.View())
	b.WriteString("\n\n")

	switch {
	case s.loading:
		b.WriteString(styles.SpinnerStyle.Render("Searching..."))
	case s.searched == "":
		b.WriteString(styles.DimStyle.Render("Press enter to search"))
	case len(s.results) == 0:
		b.WriteString(styles.DimStyle.Render("No results"))
	default:
		end := min(s.cursor.offset+stockRows, len(s.results))
		for i := s.cursor.offset; i < end; i++ {
			r := s.results[i]
			kind := "img"
			if r.Type == "video" {
				kind = "vid"
			}
			alt := r.Alt
			if alt == "" {
				alt = r.URL
			}
			credit := ""
			if r.Photographer != "" {
				credit = " · " + r.Photographer
			}
			parts := []styles.RowPart{
				{Text: kind + " "},
				{Text: styles.Truncate(alt+credit, inner-8)},
			}
			b.WriteString(styles.RenderListRow(parts, i == s.cursor.pos, inner))
			b.WriteString("\n")
		}
		b.WriteString(styles.DimStyle.Render("enter attach · edit query and enter to search again"))
	}

	content := lipgloss.NewStyle().Width(inner).Render(b.String())
	modal := styles.ModalStyle.Width(modalWidth).Render(content)
	return lipgloss.Place(s.width, s.height, lipgloss.Center, lipgloss.Center, modal)
}
