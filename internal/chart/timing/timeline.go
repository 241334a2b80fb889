package timing

import "fmt"

type TimeSignature struct {
	NumBeats  uint32 // numerator
	NoteValue uint32 // denominator, 4 = quarter-note beats
}

// MeasureComposition is the musical state one measure is written against.
type MeasureComposition struct {
	TimeSignature   TimeSignature
	Tempo           float64 // BPM, measured in quarter notes
	SpeedMultiplier float64
	Subdivision     uint32 // grid positions per measure
}

// MeasurePosition is the running offset/duration of one measure, in both
// seconds and track depth units.
type MeasurePosition struct {
	TimeOffset    float64
	TimeDuration  float64
	DepthOffset   float64
	DepthDuration float64
}

// Sparse change events, each taking effect at the start of a measure.
type TempoChange struct {
	Measure int
	Tempo   float64
}

type TimeSignatureChange struct {
	Measure       int
	TimeSignature TimeSignature
}

type SpeedChange struct {
	Measure    int
	Multiplier float64
}

type TimelineOptions struct {
	// Measures is the total measure count of the chart. It must cover the
	// highest measure any entity references; zero is rejected rather than
	// guessed at.
	Measures int

	Start          MeasureComposition
	AudioOffset    float64 // seconds, becomes measure 0's time offset
	BaseDepthSpeed float64 // depth units per second of chart time

	Tempos         []TempoChange
	TimeSignatures []TimeSignatureChange
	Speeds         []SpeedChange
}

// Timeline holds one composition snapshot and one position entry per
// measure. Immutable once built.
type Timeline struct {
	compositions []MeasureComposition
	positions    []MeasurePosition

	baseDepthSpeed float64
}

func validComposition(c MeasureComposition, measure int) error {
	if c.Tempo <= 0 {
		return fmt.Errorf("measure %v has non-positive tempo %v", measure, c.Tempo)
	}
	if c.TimeSignature.NumBeats == 0 || c.TimeSignature.NoteValue == 0 {
		return fmt.Errorf("measure %v has degenerate time signature %v/%v",
			measure, c.TimeSignature.NumBeats, c.TimeSignature.NoteValue)
	}
	if c.Subdivision == 0 {
		return fmt.Errorf("measure %v has zero subdivision", measure)
	}
	return nil
}

// NewTimeline folds the starting composition and the three sparse change
// lists across all measures, then folds the snapshots into running
// time/depth offsets.
//
// At most one pending change per list is applied per measure step. A chart
// with two same-kind changes inside one measure only sees the second take
// effect a measure late; inherited from the reviewed chart pipelines, kept
// until confirmed against real chart data.
func NewTimeline(opts TimelineOptions) (*Timeline, error) {
	if opts.Measures <= 0 {
		return nil, fmt.Errorf("timeline needs an explicit measure count, got %v", opts.Measures)
	}
	if opts.BaseDepthSpeed <= 0 {
		return nil, fmt.Errorf("non-positive base depth speed %v", opts.BaseDepthSpeed)
	}

	compositions := make([]MeasureComposition, 0, opts.Measures)
	current := opts.Start
	ti, si, pi := 0, 0, 0
	for measure := 0; measure < opts.Measures; measure++ {
		if ti < len(opts.Tempos) && opts.Tempos[ti].Measure <= measure {
			current.Tempo = opts.Tempos[ti].Tempo
			ti++
		}
		if si < len(opts.TimeSignatures) && opts.TimeSignatures[si].Measure <= measure {
			current.TimeSignature = opts.TimeSignatures[si].TimeSignature
			si++
		}
		if pi < len(opts.Speeds) && opts.Speeds[pi].Measure <= measure {
			current.SpeedMultiplier = opts.Speeds[pi].Multiplier
			pi++
		}
		if err := validComposition(current, measure); err != nil {
			return nil, err
		}
		compositions = append(compositions, current)
	}

	positions := make([]MeasurePosition, 0, opts.Measures)
	timeOffset := opts.AudioOffset
	depthOffset := opts.AudioOffset * opts.BaseDepthSpeed
	for _, c := range compositions {
		beatDuration := 60.0 / c.Tempo
		// BPM counts quarter notes, hence the 4/noteValue correction.
		timeDuration := float64(c.TimeSignature.NumBeats) * beatDuration *
			(4.0 / float64(c.TimeSignature.NoteValue))
		depthDuration := timeDuration * opts.BaseDepthSpeed

		positions = append(positions, MeasurePosition{
			TimeOffset:    timeOffset,
			TimeDuration:  timeDuration,
			DepthOffset:   depthOffset,
			DepthDuration: depthDuration,
		})
		timeOffset += timeDuration
		depthOffset += depthDuration
	}

	return &Timeline{
		compositions:   compositions,
		positions:      positions,
		baseDepthSpeed: opts.BaseDepthSpeed,
	}, nil
}

func (t *Timeline) Len() int {
	return len(t.compositions)
}

func (t *Timeline) BaseDepthSpeed() float64 {
	return t.baseDepthSpeed
}

func (t *Timeline) Composition(measure int) (MeasureComposition, error) {
	if measure < 0 || measure >= len(t.compositions) {
		return MeasureComposition{}, &MeasureRangeError{Measure: measure, Measures: len(t.compositions)}
	}
	return t.compositions[measure], nil
}

func (t *Timeline) Position(measure int) (MeasurePosition, error) {
	if measure < 0 || measure >= len(t.positions) {
		return MeasurePosition{}, &MeasureRangeError{Measure: measure, Measures: len(t.positions)}
	}
	return t.positions[measure], nil
}
