package timing

import "fmt"

// MeasureRangeError means an entity referenced a measure beyond the
// declared measure count. This is a hard error; clamping would silently
// mis-render the chart.
type MeasureRangeError struct {
	Measure  int
	Measures int
}

func (e *MeasureRangeError) Error() string {
	return fmt.Sprintf("measure %v is beyond the declared measure count %v", e.Measure, e.Measures)
}

// Position is a resolved (time, depth) pair, before any lateral component.
type Position struct {
	Time  float64
	Depth float32
}

// Calculator converts chart-native (measure, subdivision tick) coordinates
// into absolute time and depth, and lane units into lateral positions.
// Pure and read-only; safe to share between goroutines.
type Calculator struct {
	timeline *Timeline

	// Lane-unit normalization differs between chart formats, so both
	// values are supplied by the format adapter.
	laneResolution float64
	lateralScale   float64
}

func NewCalculator(timeline *Timeline, laneResolution, lateralScale float64) (*Calculator, error) {
	if laneResolution <= 0 {
		return nil, fmt.Errorf("non-positive lane resolution %v", laneResolution)
	}
	return &Calculator{
		timeline:       timeline,
		laneResolution: laneResolution,
		lateralScale:   lateralScale,
	}, nil
}

func (c *Calculator) Timeline() *Timeline {
	return c.timeline
}

// Resolve converts a chart-native coordinate into absolute time and depth.
// Ticks are 1-based: tick 1 is the start of the measure, and tick
// subdivision+1 coincides with the start of the next measure.
func (c *Calculator) Resolve(measure int, tick float64) (Position, error) {
	composition, err := c.timeline.Composition(measure)
	if err != nil {
		return Position{}, err
	}
	position := c.timeline.positions[measure]

	ratio := (tick - 1.0) / float64(composition.Subdivision)
	return Position{
		Time:  position.TimeOffset + ratio*position.TimeDuration,
		Depth: float32(position.DepthOffset + ratio*position.DepthDuration),
	}, nil
}

// Lateral converts a whole-lane coordinate plus a fractional offset in
// lane units into a track-space lateral position.
func (c *Calculator) Lateral(lane, offset float64) float32 {
	return float32((lane + offset/c.laneResolution) * c.lateralScale)
}
