package components

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/storyreel/internal/domain"
	"github.com/mmcdole/storyreel/internal/tui/styles"
)

const historyRows = 10

// HistoryAction is what the owner should do with the selected record
type HistoryAction int

const (
	HistoryNone HistoryAction = iota
	HistoryPreview
	HistoryDownload
)

// HistoryKeyMap holds the history modal actions
type HistoryKeyMap struct {
	Preview  key.Binding
	Download key.Binding
	Close    key.Binding
}

var historyKeys = HistoryKeyMap{
	Preview: key.NewBinding(
		key.WithKeys("enter", "p"),
		key.WithHelp("enter/p", "preview"),
	),
	Download: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "download"),
	),
	Close: key.NewBinding(
		key.WithKeys("esc", "q", "H"),
		key.WithHelp("esc", "close"),
	),
}

// HistoryModal lists a project's past renders, newest first
type HistoryModal struct {
	records []domain.RenderRecord
	cursor  cursor
	visible bool
	project string
	width   int
	height  int
}

// NewHistoryModal creates a history modal
func NewHistoryModal() HistoryModal {
	return HistoryModal{}
}

// Show opens the modal with the given records
func (h *HistoryModal) Show(project string, records []domain.RenderRecord) {
	h.visible = true
	h.project = project
	h.records = records
	h.cursor = cursor{}
}

// Hide closes the modal
func (h *HistoryModal) Hide() {
	h.visible = false
}

// IsVisible returns true if the modal is shown
func (h HistoryModal) IsVisible() bool {
	return h.visible
}

// SetSize updates the component dimensions
func (h *HistoryModal) SetSize(width, height int) {
	h.width = width
	h.height = height
}

// Replace updates a record in place after a download
func (h *HistoryModal) Replace(rec domain.RenderRecord) {
	for i := range h.records {
		if h.records[i].ID == rec.ID {
			h.records[i] = rec
			return
		}
	}
}

// Selected returns the highlighted record
func (h HistoryModal) Selected() (*domain.RenderRecord, bool) {
	if len(h.records) == 0 {
		return nil, false
	}
	rec := h.records[h.cursor.pos]
	return &rec, true
}

// Update handles keys, returns (modal, action)
func (h HistoryModal) Update(msg tea.Msg) (HistoryModal, HistoryAction) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !h.visible {
		return h, HistoryNone
	}

	switch {
	case key.Matches(keyMsg, historyKeys.Close):
		h.Hide()
		return h, HistoryNone
	case key.Matches(keyMsg, historyKeys.Preview):
		if rec, ok := h.Selected(); ok && rec.Status == domain.RenderSucceeded {
			return h, HistoryPreview
		}
	case key.Matches(keyMsg, historyKeys.Download):
		if rec, ok := h.Selected(); ok && rec.Status == domain.RenderSucceeded {
			return h, HistoryDownload
		}
	default:
		if h.cursor.move(listKeys, keyMsg, len(h.records)) {
			h.cursor.clamp(len(h.records), historyRows)
		}
	}
	return h, HistoryNone
}

// View renders the modal
func (h HistoryModal) View() string {
	if !h.visible {
		return ""
	}

	modalWidth := min(max(h.width*3/4, 50), 100)
	inner := modalWidth - 4

	var b strings.Builder
	b.WriteString(styles.ModalTitleStyle.Render("Renders of " + h.project))
	b.WriteString("\n")

	if len(h.records) == 0 {
		b.WriteString(styles.DimStyle.Render("No renders yet"))
	}

	end := min(h.cursor.offset+historyRows, len(h.records))
	for i := h.cursor.offset; i < end; i++ {
		rec := h.records[i]
		status := styles.Green
		mark := "✓ "
		detail := filepath.Base(rec.VideoPath)
		if rec.LocalFile != "" {
			detail = rec.LocalFile
		}
		if rec.Status == domain.RenderFailed {
			status = styles.Red
			mark = "✗ "
			detail = rec.Error
		}
		when := rec.StartedAt.Local().Format("Jan 2 15:04")
		took := rec.Elapsed().Truncate(time.Second).String()
		head := fmt.Sprintf("%s %-7s %2d sc  ", when, took, rec.SceneCount)
		parts := []styles.RowPart{
			{Text: mark, Foreground: &status},
			{Text: head},
			{Text: styles.Truncate(detail, inner-lipgloss.Width(head)-6)},
		}
		b.WriteString(styles.RenderListRow(parts, i == h.cursor.pos, inner))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.DimStyle.Render("enter preview · d download · esc close"))

	content := lipgloss.NewStyle().Width(inner).Render(b.String())
	modal := styles.ModalStyle.Width(modalWidth).Render(content)
	return lipgloss.Place(h.width, h.height, lipgloss.Center, lipgloss.Center, modal)
}
