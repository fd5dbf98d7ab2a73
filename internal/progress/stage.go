package progress

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTable is returned by NewTable when the stage sequence is malformed.
var ErrInvalidTable = errors.New("invalid stage table")

// Stage is one named phase of the simulated render timeline.
type Stage struct {
	Threshold int           // Percent reached when this stage ends
	Label     string        // Shown while the stage is active
	Duration  time.Duration // Time allotted to climb from the previous threshold
}

// Table is the fixed choreography of a simulated render.
// Stages are consulted strictly in order and never edited while a run is active.
type Table struct {
	Seed   int // Percent shown at Start
	Stages []Stage
}

// NewTable builds a validated table. Thresholds must be strictly increasing,
// start above the seed and end exactly at 100.
func NewTable(seed int, stages ...Stage) (Table, error) {
	if len(stages) == 0 {
		return Table{}, fmt.Errorf("%w: no stages", ErrInvalidTable)
	}
	if seed < 0 || seed >= 100 {
		return Table{}, fmt.Errorf("%w: seed %d out of range", ErrInvalidTable, seed)
	}

	prev := seed
	for i, s := range stages {
		if s.Threshold < 0 || s.Threshold > 100 {
			return Table{}, fmt.Errorf("%w: stage %d threshold %d out of range", ErrInvalidTable, i, s.Threshold)
		}
		if s.Threshold <= prev || s.Threshold == 0 {
			return Table{}, fmt.Errorf("%w: stage %d threshold %d does not increase", ErrInvalidTable, i, s.Threshold)
		}
		if s.Duration <= 0 {
			return Table{}, fmt.Errorf("%w: stage %d has non-positive duration", ErrInvalidTable, i)
		}
		prev = s.Threshold
	}
	if prev != 100 {
		return Table{}, fmt.Errorf("%w: last threshold is %d, want 100", ErrInvalidTable, prev)
	}

	// Copy so callers can't mutate a table that is in use
	owned := make([]Stage, len(stages))
	copy(owned, stages)
	return Table{Seed: seed, Stages: owned}, nil
}

// Len returns the number of stages.
func (t Table) Len() int { return len(t.Stages) }

// mustTable panics on an invalid built-in table.
func mustTable(seed int, stages ...Stage) Table {
	t, err := NewTable(seed, stages...)
	if err != nil {
		panic(err)
	}
	return t
}

// StandardTable is the timeline for renders without an avatar overlay.
func StandardTable() Table {
	return mustTable(2,
		Stage{Threshold: 10, Label: "Preparing scenes…", Duration: 1500 * time.Millisecond},
		Stage{Threshold: 35, Label: "Generating audio…", Duration: 6 * time.Second},
		Stage{Threshold: 60, Label: "Creating backgrounds…", Duration: 8 * time.Second},
		Stage{Threshold: 80, Label: "Adding subtitles & music…", Duration: 5 * time.Second},
		Stage{Threshold: 100, Label: "Encoding video…", Duration: 10 * time.Second},
	)
}

// AvatarTable adds the lip-sync and compositing stages.
func AvatarTable() Table {
	return mustTable(2,
		Stage{Threshold: 8, Label: "Preparing scenes…", Duration: 1500 * time.Millisecond},
		Stage{Threshold: 25, Label: "Generating audio…", Duration: 6 * time.Second},
		Stage{Threshold: 40, Label: "Creating backgrounds…", Duration: 8 * time.Second},
		Stage{Threshold: 65, Label: "Running lip-sync inference…", Duration: 20 * time.Second},
		Stage{Threshold: 80, Label: "Compositing avatar…", Duration: 8 * time.Second},
		Stage{Threshold: 100, Label: "Encoding video…", Duration: 12 * time.Second},
	)
}

// TableFor picks the timeline for a render mode.
func TableFor(avatar bool) Table {
	if avatar {
		return AvatarTable()
	}
	return StandardTable()
}
