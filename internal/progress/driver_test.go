package progress

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func twoStageTable(t *testing.T) Table {
	t.Helper()
	tbl, err := NewTable(0,
		Stage{Threshold: 10, Label: "A", Duration: time.Second},
		Stage{Threshold: 100, Label: "B", Duration: time.Second},
	)
	require.NoError(t, err)
	return tbl
}

func TestDriver_TwoStageTimeline(t *testing.T) {
	d := NewDriver()
	run := d.Start(twoStageTable(t), epoch)

	st := d.State()
	assert.Equal(t, 0, st.Percent)
	assert.Equal(t, "A", st.Label)
	assert.True(t, st.Active())

	st, ok := d.Tick(run, epoch.Add(500*time.Millisecond))
	require.True(t, ok)
	assert.Equal(t, 5, st.Percent)
	assert.Equal(t, "A", st.Label)
	assert.Equal(t, 0, st.StageIndex)

	st, ok = d.Tick(run, epoch.Add(time.Second))
	require.True(t, ok)
	assert.Equal(t, 10, st.Percent)
	assert.Equal(t, "B", st.Label)
	assert.Equal(t, 1, st.StageIndex)

	st, ok = d.Tick(run, epoch.Add(2*time.Second))
	require.True(t, ok)
	assert.Less(t, st.Percent, 100)
	assert.Equal(t, HoldPercent, st.Percent)
	assert.Equal(t, "B", st.Label)
	assert.True(t, st.Active())

	// Holding: time keeps passing but the driver never completes on its own
	st, _ = d.Tick(run, epoch.Add(time.Hour))
	assert.Equal(t, HoldPercent, st.Percent)
	assert.Equal(t, PhaseRunning, st.Phase)

	st = d.Stop(true)
	assert.Equal(t, 100, st.Percent)
	assert.Equal(t, CompleteLabel, st.Label)
	assert.Equal(t, PhaseDone, st.Phase)
}

func TestDriver_PercentNeverDecreases(t *testing.T) {
	tables := map[string]Table{
		"standard": StandardTable(),
		"avatar":   AvatarTable(),
	}
	custom, err := NewTable(5,
		Stage{Threshold: 6, Label: "tiny", Duration: 10 * time.Millisecond},
		Stage{Threshold: 90, Label: "big", Duration: 3 * time.Second},
		Stage{Threshold: 100, Label: "tail", Duration: 50 * time.Millisecond},
	)
	require.NoError(t, err)
	tables["custom"] = custom

	// Irregular tick spacing, including out-of-order timestamps
	offsets := []time.Duration{0, 13, 80, 81, 70, 400, 399, 1200, 5000, 4000, 9000, 30000, 60000, 120000}

	for name, tbl := range tables {
		t.Run(name, func(t *testing.T) {
			d := NewDriver()
			run := d.Start(tbl, epoch)
			last := d.State().Percent
			for _, off := range offsets {
				st, ok := d.Tick(run, epoch.Add(off*time.Millisecond))
				require.True(t, ok)
				assert.GreaterOrEqual(t, st.Percent, last, "offset %dms", off)
				assert.Less(t, st.Percent, 100)
				last = st.Percent
			}
		})
	}
}

func TestDriver_DoubleStartSupersedesFirstRun(t *testing.T) {
	d := NewDriver()
	tbl := twoStageTable(t)

	first := d.Start(tbl, epoch)
	second := d.Start(tbl, epoch.Add(100*time.Millisecond))
	require.NotEqual(t, first, second)
	assert.Equal(t, second, d.Current())

	before := d.State()
	_, ok := d.Tick(first, epoch.Add(900*time.Millisecond))
	assert.False(t, ok, "tick from superseded run must be rejected")
	assert.Equal(t, before, d.State())

	st, ok := d.Tick(second, epoch.Add(600*time.Millisecond))
	require.True(t, ok)
	assert.Equal(t, 5, st.Percent)
}

func TestDriver_StopSuccessFromAnyPoint(t *testing.T) {
	offsets := []time.Duration{0, 250 * time.Millisecond, time.Second, 1500 * time.Millisecond, time.Minute}
	for _, off := range offsets {
		d := NewDriver()
		run := d.Start(twoStageTable(t), epoch)
		d.Tick(run, epoch.Add(off))

		st := d.Stop(true)
		assert.Equal(t, 100, st.Percent, "offset %s", off)
		assert.Equal(t, CompleteLabel, st.Label)
		assert.False(t, st.Active())
	}
}

func TestDriver_StopImmediatelyAfterStart(t *testing.T) {
	d := NewDriver()
	d.Start(twoStageTable(t), epoch)

	st := d.Stop(true)
	assert.Equal(t, 100, st.Percent)
	assert.Equal(t, CompleteLabel, st.Label)
}

func TestDriver_StopFailureResetsToIdle(t *testing.T) {
	d := NewDriver()
	run := d.Start(twoStageTable(t), epoch)
	d.Tick(run, epoch.Add(1500*time.Millisecond))

	st := d.Stop(false)
	assert.Equal(t, 0, st.Percent)
	assert.Empty(t, st.Label)
	assert.False(t, st.Active())
	assert.Equal(t, PhaseIdle, st.Phase)
}

func TestDriver_StaleTickCannotReviveStoppedRun(t *testing.T) {
	d := NewDriver()
	run := d.Start(twoStageTable(t), epoch)
	d.Stop(true)

	st, ok := d.Tick(run, epoch.Add(500*time.Millisecond))
	assert.False(t, ok)
	assert.Equal(t, 100, st.Percent)
	assert.Equal(t, PhaseDone, st.Phase)

	run = d.Start(twoStageTable(t), epoch)
	d.Stop(false)
	st, ok = d.Tick(run, epoch.Add(500*time.Millisecond))
	assert.False(t, ok)
	assert.Equal(t, 0, st.Percent)
}

func TestDriver_LateTickCrossesSeveralStages(t *testing.T) {
	d := NewDriver()
	tbl, err := NewTable(0,
		Stage{Threshold: 20, Label: "one", Duration: time.Second},
		Stage{Threshold: 40, Label: "two", Duration: time.Second},
		Stage{Threshold: 60, Label: "three", Duration: time.Second},
		Stage{Threshold: 100, Label: "four", Duration: time.Second},
	)
	require.NoError(t, err)
	run := d.Start(tbl, epoch)

	st, ok := d.Tick(run, epoch.Add(2500*time.Millisecond))
	require.True(t, ok)
	assert.Equal(t, 2, st.StageIndex)
	assert.Equal(t, "three", st.Label)
	assert.Equal(t, 50, st.Percent)
}

func TestDriver_DegenerateTables(t *testing.T) {
	t.Run("single stage", func(t *testing.T) {
		d := NewDriver()
		tbl, err := NewTable(0, Stage{Threshold: 100, Label: "Rendering", Duration: time.Second})
		require.NoError(t, err)

		var run Run
		require.NotPanics(t, func() { run = d.Start(tbl, epoch) })
		st, ok := d.Tick(run, epoch.Add(500*time.Millisecond))
		require.True(t, ok)
		assert.Equal(t, 50, st.Percent)

		st, _ = d.Tick(run, epoch.Add(5*time.Second))
		assert.Equal(t, HoldPercent, st.Percent)
		assert.Equal(t, "Rendering", st.Label)
	})

	t.Run("empty table", func(t *testing.T) {
		d := NewDriver()
		var run Run
		require.NotPanics(t, func() { run = d.Start(Table{}, epoch) })
		st, ok := d.Tick(run, epoch.Add(time.Second))
		assert.True(t, ok)
		assert.Equal(t, 0, st.Percent)
		assert.True(t, st.Active())
		assert.Equal(t, 100, d.Stop(true).Percent)
	})

	t.Run("zero durations", func(t *testing.T) {
		d := NewDriver()
		tbl := Table{Stages: []Stage{
			{Threshold: 30, Label: "a"},
			{Threshold: 100, Label: "b"},
		}}
		run := d.Start(tbl, epoch)
		var st State
		require.NotPanics(t, func() { st, _ = d.Tick(run, epoch) })
		assert.Equal(t, "b", st.Label)
		assert.Equal(t, HoldPercent, st.Percent)
	})
}

func TestReconcile(t *testing.T) {
	t.Run("success completes current run", func(t *testing.T) {
		d := NewDriver()
		run := d.Start(twoStageTable(t), epoch)
		st, applied := Reconcile(d, run, nil)
		assert.True(t, applied)
		assert.Equal(t, 100, st.Percent)
	})

	t.Run("failure resets current run", func(t *testing.T) {
		d := NewDriver()
		run := d.Start(twoStageTable(t), epoch)
		st, applied := Reconcile(d, run, errors.New("ffmpeg exploded"))
		assert.True(t, applied)
		assert.Equal(t, PhaseIdle, st.Phase)
	})

	t.Run("superseded response is ignored", func(t *testing.T) {
		d := NewDriver()
		old := d.Start(twoStageTable(t), epoch)
		current := d.Start(twoStageTable(t), epoch)
		d.Tick(current, epoch.Add(500*time.Millisecond))

		st, applied := Reconcile(d, old, errors.New("late failure"))
		assert.False(t, applied)
		assert.True(t, st.Active())
		assert.Equal(t, 5, st.Percent)
	})
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "idle", PhaseIdle.String())
	assert.Equal(t, "running", PhaseRunning.String())
	assert.Equal(t, "done", PhaseDone.String())
	assert.Equal(t, "unknown", Phase(42).String())
}
