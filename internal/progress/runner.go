package progress

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// UpdateFunc receives every state the runner publishes.
type UpdateFunc func(State)

// Runner hosts a Driver on its own goroutine for callers without an event
// loop (the headless render command). At most one tick goroutine exists at a
// time: Start and Stop cancel the previous one and wait for it to exit before
// touching state.
type Runner struct {
	ctl sync.Mutex // serializes Start/Stop/Reconcile
	mu  sync.Mutex // guards driver

	driver   *Driver
	clock    Clock
	interval time.Duration
	onUpdate UpdateFunc
	logger   *slog.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

// NewRunner creates a runner. A zero interval uses TickInterval.
func NewRunner(clock Clock, interval time.Duration, onUpdate UpdateFunc, logger *slog.Logger) *Runner {
	if clock == nil {
		clock = RealClock{}
	}
	if interval <= 0 {
		interval = TickInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		driver:   NewDriver(),
		clock:    clock,
		interval: interval,
		onUpdate: onUpdate,
		logger:   logger,
	}
}

// Start begins a new simulated run, superseding any active one.
func (r *Runner) Start(t Table) Run {
	r.ctl.Lock()
	defer r.ctl.Unlock()

	r.halt()

	r.mu.Lock()
	run := r.driver.Start(t, r.clock.Now())
	st := r.driver.State()
	r.mu.Unlock()

	r.logger.Debug("progress run started", "run", run, "stages", t.Len())
	r.publish(st)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	r.cancel, r.done = cancel, done

	ticker := r.clock.NewTicker(r.interval)
	go r.loop(ctx, run, ticker, done)

	return run
}

// Stop cancels the tick loop and forces the terminal state.
func (r *Runner) Stop(success bool) State {
	r.ctl.Lock()
	defer r.ctl.Unlock()
	return r.stopLocked(success)
}

// Reconcile stops run with the real outcome unless it was superseded.
func (r *Runner) Reconcile(run Run, err error) (State, bool) {
	r.ctl.Lock()
	defer r.ctl.Unlock()

	r.mu.Lock()
	current := r.driver.Current()
	r.mu.Unlock()
	if run == 0 || run != current {
		return r.State(), false
	}
	return r.stopLocked(err == nil), true
}

// State returns the latest snapshot.
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.driver.State()
}

// Close stops the tick goroutine without changing state.
func (r *Runner) Close() {
	r.ctl.Lock()
	defer r.ctl.Unlock()
	r.halt()
}

func (r *Runner) stopLocked(success bool) State {
	r.halt()

	r.mu.Lock()
	st := r.driver.Stop(success)
	r.mu.Unlock()

	r.logger.Debug("progress run stopped", "success", success)
	r.publish(st)
	return st
}

// halt cancels the tick goroutine and waits for it to exit.
func (r *Runner) halt() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.done
	r.cancel, r.done = nil, nil
}

func (r *Runner) loop(ctx context.Context, run Run, ticker Ticker, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C():
			// Re-check so a tick racing with cancel is dropped
			if ctx.Err() != nil {
				return
			}
			r.mu.Lock()
			st, ok := r.driver.Tick(run, now)
			r.mu.Unlock()
			if !ok {
				return
			}
			r.publish(st)
		}
	}
}

func (r *Runner) publish(st State) {
	if r.onUpdate != nil {
		r.onUpdate(st)
	}
}
