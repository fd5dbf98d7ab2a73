package components

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	bar "github.com/charmbracelet/bubbles/progress"

	"github.com/mmcdole/storyreel/internal/domain"
	"github.com/mmcdole/storyreel/internal/progress"
	"github.com/mmcdole/storyreel/internal/tui/styles"
)

// RenderPanel shows the simulated render progress and the last outcome
type RenderPanel struct {
	bar       bar.Model
	state     progress.State
	frame     int
	startedAt time.Time
	now       time.Time
	last      *domain.RenderRecord
	lastErr   string
	width     int
	height    int
}

// NewRenderPanel creates a render panel
func NewRenderPanel() RenderPanel {
	b := bar.New(
		bar.WithGradient(string(styles.ReelViolet), string(styles.ReelAmber)),
		bar.WithoutPercentage(),
	)
	return RenderPanel{bar: b}
}

// SetSize sets the panel dimensions
func (r *RenderPanel) SetSize(width, height int) {
	r.width = width
	r.height = height
	r.bar.Width = max(width-12, 10)
}

// Begin marks the start of a new render
func (r *RenderPanel) Begin(s progress.State, now time.Time) {
	r.state = s
	r.startedAt = now
	r.now = now
	r.lastErr = ""
	r.frame = 0
}

// SetState shows a new progress snapshot and advances the spinner
func (r *RenderPanel) SetState(s progress.State, now time.Time) {
	r.state = s
	r.now = now
	if s.Active() {
		r.frame = (r.frame + 1) % len(styles.SpinnerFrames)
	}
}

// Finish records the outcome of the current render
func (r *RenderPanel) Finish(s progress.State, rec *domain.RenderRecord, err error) {
	r.state = s
	if rec != nil {
		r.last = rec
	}
	if err != nil {
		r.lastErr = err.Error()
	} else {
		r.lastErr = ""
	}
}

// SetLast shows a previously finished render, e.g. after loading a project
func (r *RenderPanel) SetLast(rec *domain.RenderRecord) {
	r.last = rec
	r.lastErr = ""
	r.state = progress.State{}
}

// UpdateRecord refreshes the shown record when it is rec, e.g. after a download
func (r *RenderPanel) UpdateRecord(rec domain.RenderRecord) {
	if r.last != nil && r.last.ID == rec.ID {
		r.last = &rec
	}
}

// Last returns the most recent render record, if any
func (r RenderPanel) Last() *domain.RenderRecord {
	return r.last
}

// State returns the displayed progress snapshot
func (r RenderPanel) State() progress.State {
	return r.state
}

// View renders the panel
func (r RenderPanel) View() string {
	inner := max(r.width-2, 20)

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Render"))
	b.WriteString("\n")

	switch r.state.Phase {
	case progress.PhaseRunning:
		spin := styles.SpinnerStyle.Render(styles.SpinnerFrames[r.frame])
		elapsed := r.now.Sub(r.startedAt).Truncate(time.Second)
		b.WriteString(fmt.Sprintf("%s %s %s", spin,
			styles.StageStyle.Render(r.state.Label),
			styles.DimStyle.Render(elapsed.String())))
		b.WriteString("\n")
		b.WriteString(r.bar.ViewAs(float64(r.state.Percent) / 100))
		b.WriteString(fmt.Sprintf(" %3d%%", r.state.Percent))
	case progress.PhaseDone:
		b.WriteString(styles.SuccessStyle.Render("✓ " + r.state.Label))
		b.WriteString("\n")
		b.WriteString(r.bar.ViewAs(1))
		b.WriteString(" 100%")
	default:
		if r.lastErr != "" {
			b.WriteString(styles.ErrorStyle.Render(styles.Truncate("✗ "+r.lastErr, inner)))
		} else {
			b.WriteString(styles.DimStyle.Render("Press r to render"))
		}
	}
	b.WriteString("\n")

	if r.last != nil {
		b.WriteString(styles.DimStyle.Render(styles.Truncate(describeRecord(r.last), inner)))
	}

	return styles.InactiveBorder.Width(inner).Render(strings.TrimRight(b.String(), "\n"))
}

func describeRecord(rec *domain.RenderRecord) string {
	when := rec.StartedAt.Local().Format("Jan 2 15:04")
	if rec.Status == domain.RenderFailed {
		return fmt.Sprintf("Last: failed %s", when)
	}
	name := filepath.Base(rec.VideoPath)
	if rec.LocalFile != "" {
		name = rec.LocalFile
	}
	return fmt.Sprintf("Last: %s (%s, %s) · p preview · d download", name, when, rec.Elapsed().Truncate(time.Second))
}
