package progress

import (
	"math"
	"time"
)

const (
	// TickInterval is the cadence of the simulated progress loop
	TickInterval = 80 * time.Millisecond

	// HoldPercent caps the final stage; 100 is reserved for Stop(true)
	HoldPercent = 99

	// CompleteLabel is shown after a successful render
	CompleteLabel = "Complete"
)

// Phase is the lifecycle position of the simulated render.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunning:
		return "running"
	case PhaseDone:
		return "done"
	default:
		return "unknown"
	}
}

// State is the read-only snapshot consumed by display code.
type State struct {
	Percent    int
	Label      string
	StageIndex int
	Phase      Phase
}

// Active reports whether a simulated run is in progress.
func (s State) Active() bool {
	return s.Phase == PhaseRunning
}

// Run identifies one simulated run. A Run is only honoured while it is the
// driver's current run; Stop and Start invalidate it. The zero Run is never current.
type Run uint64

// Driver walks a Table over wall-clock time and produces a monotonically
// rising percent with a stage label.
//
// Driver has no timer of its own: the host (Bubble Tea loop or Runner)
// delivers ticks tagged with the Run they were scheduled for, and stale
// ticks are rejected. Driver is not safe for concurrent use.
type Driver struct {
	table      Table
	state      State
	current    Run
	issued     Run
	stageStart time.Time
	exact      float64 // unrounded percent, never decreases while running
}

// NewDriver returns an idle driver.
func NewDriver() *Driver {
	return &Driver{}
}

// State returns the current snapshot.
func (d *Driver) State() State {
	return d.state
}

// Current returns the active run, or zero when nothing is running.
func (d *Driver) Current() Run {
	return d.current
}

// Start supersedes any previous run and begins a new one at now.
func (d *Driver) Start(t Table, now time.Time) Run {
	// Invalidate the old token before touching state
	d.issued++
	d.current = d.issued

	d.table = t
	d.stageStart = now
	d.exact = float64(t.Seed)

	label := ""
	if len(t.Stages) > 0 {
		label = t.Stages[0].Label
	}
	d.state = State{
		Percent:    t.Seed,
		Label:      label,
		StageIndex: 0,
		Phase:      PhaseRunning,
	}
	return d.current
}

// Tick applies one interpolation step for run at time now. It returns false,
// leaving state untouched, when run is stale or the driver is not running.
func (d *Driver) Tick(run Run, now time.Time) (State, bool) {
	if run == 0 || run != d.current || d.state.Phase != PhaseRunning {
		return d.state, false
	}

	stages := d.table.Stages
	if len(stages) == 0 {
		return d.state, true
	}

	for {
		i := d.state.StageIndex
		st := stages[i]

		f := fraction(now.Sub(d.stageStart), st.Duration)
		from, to := d.bounds(i)
		if v := from + (to-from)*f; v > d.exact {
			d.exact = v
		}

		if f < 1 || i == len(stages)-1 {
			break
		}

		// Next stage clock starts at the boundary, not at now, so a late
		// tick can cross several stages at once.
		if st.Duration > 0 {
			d.stageStart = d.stageStart.Add(st.Duration)
		}
		d.state.StageIndex = i + 1
		d.state.Label = stages[i+1].Label
	}

	pct := int(math.Round(d.exact))
	if pct > d.state.Percent {
		d.state.Percent = pct
	}
	return d.state, true
}

// Stop cancels the current run. Success forces 100% and the completion
// label; failure resets to idle at 0%.
func (d *Driver) Stop(success bool) State {
	d.current = 0

	if success {
		idx := 0
		if n := len(d.table.Stages); n > 0 {
			idx = n - 1
		}
		d.state = State{
			Percent:    100,
			Label:      CompleteLabel,
			StageIndex: idx,
			Phase:      PhaseDone,
		}
		return d.state
	}

	d.exact = 0
	d.state = State{Phase: PhaseIdle}
	return d.state
}

// bounds returns the interpolation range of stage i.
func (d *Driver) bounds(i int) (from, to float64) {
	stages := d.table.Stages
	if i == 0 {
		from = float64(d.table.Seed)
	} else {
		from = float64(stages[i-1].Threshold)
	}
	target := stages[i].Threshold
	if i == len(stages)-1 && target > HoldPercent {
		target = HoldPercent
	}
	to = float64(target)
	if from > to {
		from = to
	}
	return from, to
}

// fraction returns elapsed/duration clamped to [0,1]. A non-positive
// duration counts as already elapsed.
func fraction(elapsed, duration time.Duration) float64 {
	if duration <= 0 || elapsed >= duration {
		return 1
	}
	if elapsed <= 0 {
		return 0
	}
	return float64(elapsed) / float64(duration)
}

// Reconcile applies the real render outcome to the driver. A response for
// a run that has since been superseded or stopped is ignored.
func Reconcile(d *Driver, run Run, err error) (State, bool) {
	if run == 0 || run != d.Current() {
		return d.State(), false
	}
	return d.Stop(err == nil), true
}
