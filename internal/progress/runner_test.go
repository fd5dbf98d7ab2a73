package progress

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/mmcdole/storyreel/internal/tui/styles"
)

type updateRecorder struct {
	ch chan State
}

func newUpdateRecorder() *updateRecorder {
	return &updateRecorder{ch: make(chan State, 64)}
}

func (u *updateRecorder) handle(s State) {
	select {
	case u.ch <- s:
	default: // never block the tick goroutine
	}
}

func (u *updateRecorder) next(t *testing.T) State {
	t.Helper()
	select {
	case s := <-u.ch:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for progress update")
		return State{}
	}
}

func TestRunner_TicksFollowClock(t *testing.T) {
	defer goleak.VerifyNone(t)

	clock := NewManualClock(epoch)
	rec := newUpdateRecorder()
	r := NewRunner(clock, 0, rec.handle, nil)
	defer r.Close()

	r.Start(twoStageTable(t))
	initial := rec.next(t)
	assert.Equal(t, "A", initial.Label)
	assert.True(t, initial.Active())

	clock.Advance(500 * time.Millisecond)
	st := rec.next(t)
	assert.Equal(t, 5, st.Percent)

	clock.Advance(500 * time.Millisecond)
	st = rec.next(t)
	assert.Equal(t, 10, st.Percent)
	assert.Equal(t, "B", st.Label)

	final := r.Stop(true)
	assert.Equal(t, 100, final.Percent)
	assert.Equal(t, final, rec.next(t))
	assert.Equal(t, 0, clock.Tickers())
}

func TestRunner_DoubleStartLeavesOneTickChain(t *testing.T) {
	defer goleak.VerifyNone(t)

	clock := NewManualClock(epoch)
	rec := newUpdateRecorder()
	r := NewRunner(clock, 0, rec.handle, nil)
	defer r.Close()

	first := r.Start(twoStageTable(t))
	rec.next(t)
	second := r.Start(twoStageTable(t))
	rec.next(t)

	assert.NotEqual(t, first, second)
	assert.Equal(t, 1, clock.Tickers())

	clock.Advance(500 * time.Millisecond)
	assert.Equal(t, 5, rec.next(t).Percent)

	// Exactly one update per advance
	select {
	case extra := <-rec.ch:
		t.Fatalf("unexpected extra update %+v", extra)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestRunner_StopFailureIsTerminal(t *testing.T) {
	defer goleak.VerifyNone(t)

	clock := NewManualClock(epoch)
	rec := newUpdateRecorder()
	r := NewRunner(clock, 0, rec.handle, nil)
	defer r.Close()

	r.Start(twoStageTable(t))
	rec.next(t)

	st := r.Stop(false)
	assert.Equal(t, 0, st.Percent)
	assert.False(t, st.Active())
	rec.next(t)

	// No ticker remains to revive the run
	clock.Advance(time.Second)
	select {
	case s := <-rec.ch:
		t.Fatalf("stopped runner published %+v", s)
	case <-time.After(50 * time.Millisecond):
	}
	assert.Equal(t, st, r.State())
}

func TestRunner_ReconcileIgnoresSupersededRun(t *testing.T) {
	defer goleak.VerifyNone(t)

	clock := NewManualClock(epoch)
	r := NewRunner(clock, 0, nil, nil)
	defer r.Close()

	old := r.Start(twoStageTable(t))
	current := r.Start(twoStageTable(t))

	_, applied := r.Reconcile(old, errors.New("stale"))
	assert.False(t, applied)
	assert.True(t, r.State().Active())

	st, applied := r.Reconcile(current, nil)
	assert.True(t, applied)
	assert.Equal(t, 100, st.Percent)
}

func TestRunner_RealClock(t *testing.T) {
	defer goleak.VerifyNone(t)

	rec := newUpdateRecorder()
	r := NewRunner(RealClock{}, 5*time.Millisecond, rec.handle, nil)

	r.Start(StandardTable())
	rec.next(t)
	require.True(t, rec.next(t).Active())

	st := r.Stop(true)
	assert.Equal(t, 100, st.Percent)
}

func TestBarRenderer_PlainModePrintsStageChanges(t *testing.T) {
	var buf bytes.Buffer
	r := newBarRenderer(&buf, false, 80)

	r.Handle(State{Percent: 2, Label: "Preparing scenes…", Phase: PhaseRunning})
	r.Handle(State{Percent: 5, Label: "Preparing scenes…", Phase: PhaseRunning})
	r.Handle(State{Percent: 10, Label: "Generating audio…", Phase: PhaseRunning})
	r.Handle(State{Percent: 100, Label: CompleteLabel, Phase: PhaseDone})
	r.Finish()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Preparing scenes…")
	assert.Contains(t, lines[1], "Generating audio…")
	assert.Contains(t, lines[2], "100% Complete")
}

func TestRenderBar_Clamps(t *testing.T) {
	assert.Equal(t, renderBar(0, 10), renderBar(-5, 10))
	assert.Equal(t, renderBar(100, 10), renderBar(150, 10))
}

func TestBarRenderer_UsesAppPalette(t *testing.T) {
	assert.Equal(t, styles.ReelAmber, barFilledStyle.GetForeground())
	assert.Equal(t, styles.DimGray, barEmptyStyle.GetForeground())
	assert.Equal(t, styles.White, labelStyle.GetForeground())
}
