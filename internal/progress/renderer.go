package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/mmcdole/storyreel/internal/tui/styles"
)

var (
	barFilledStyle = lipgloss.NewStyle().Foreground(styles.ReelAmber)
	barEmptyStyle  = lipgloss.NewStyle().Foreground(styles.DimGray)
	labelStyle     = lipgloss.NewStyle().Foreground(styles.White).Bold(true)
)

// BarRenderer draws a single-line progress bar on a TTY, or prints one
// timestamped line per stage change otherwise. Handle satisfies UpdateFunc.
type BarRenderer struct {
	mu        sync.Mutex
	out       io.Writer
	start     time.Time
	isTTY     bool
	width     int
	lastLabel string
	drawn     bool
}

// NewBarRenderer creates a renderer that writes to out.
// It auto-detects TTY mode and terminal width.
func NewBarRenderer(out *os.File) *BarRenderer {
	tty := isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd())

	width := 80
	if tty {
		if w, _, err := term.GetSize(int(out.Fd())); err == nil && w > 0 {
			width = w
		}
	}
	return newBarRenderer(out, tty, width)
}

func newBarRenderer(out io.Writer, tty bool, width int) *BarRenderer {
	return &BarRenderer{
		out:   out,
		start: time.Now(),
		isTTY: tty,
		width: width,
	}
}

// Handle renders one state.
func (r *BarRenderer) Handle(s State) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.isTTY {
		bar := renderBar(s.Percent, r.barWidth())
		fmt.Fprintf(r.out, "\r\033[2K  %s %3d%%  %s", bar, s.Percent, labelStyle.Render(s.Label))
		r.drawn = true
		return
	}

	// Plain mode: only stage transitions
	if s.Label == r.lastLabel {
		return
	}
	r.lastLabel = s.Label
	if s.Label == "" {
		return
	}
	fmt.Fprintf(r.out, "[%s] %3d%% %s\n", formatElapsed(time.Since(r.start)), s.Percent, s.Label)
}

// Finish terminates the bar line.
func (r *BarRenderer) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.isTTY && r.drawn {
		fmt.Fprintln(r.out)
		r.drawn = false
	}
}

// barWidth returns the width available for the bar, leaving room for the
// percent and the longest stage label.
func (r *BarRenderer) barWidth() int {
	w := r.width - 40
	if w < 20 {
		w = 20
	}
	if w > 50 {
		w = 50
	}
	return w
}

// renderBar draws a ━━━━──── style bar for a 0..100 percent.
func renderBar(pct, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := pct * width / 100
	return barFilledStyle.Render(strings.Repeat("━", filled)) +
		barEmptyStyle.Render(strings.Repeat("─", width-filled))
}

// formatElapsed formats a duration as M:SS.
func formatElapsed(d time.Duration) string {
	total := int(d.Seconds())
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
