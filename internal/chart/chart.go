package chart

import (
	"github.com/verin/lumitrack/internal/chart/timing"
)

// TrackPosition is the resolved coordinate every chart entity carries:
// absolute playback time plus the position on the scrolling track.
type TrackPosition struct {
	Time    float64 // seconds from audio start
	Depth   float32 // scroll axis, "distance until hit"
	Lateral float32 // cross-track axis
}

// Platform is a ribbon of track surface bounded by two point sequences.
// Points within each boundary are ordered by time.
type Platform struct {
	Left  []TrackPosition
	Right []TrackPosition
}

type Lane struct {
	Kind   LaneKind
	Raw    string // source code as written in the chart file
	Points []TrackPosition
}

type Track struct {
	Platforms []Platform
	Lanes     []Lane
}

type HitNote struct {
	Kind     HitKind
	Raw      string
	Critical bool
	Position TrackPosition
}

type ContactNote struct {
	Kind     ContactKind
	Raw      string
	Position TrackPosition
}

type FlickNote struct {
	Direction FlickDirection
	Position  TrackPosition
}

type HoldNote struct {
	Kind     HitKind
	Raw      string
	Critical bool
	Points   []TrackPosition
}

// Movement is a linear translation from Start to End, beginning at Trigger.
type Movement struct {
	Start    TrackPosition
	End      TrackPosition
	Trigger  float64 // seconds
	Duration float64 // seconds, >= 0
}

func (m *Movement) IsStatic() bool {
	return m.Start == m.End
}

type EvadeNote struct {
	Kind     EvadeKind
	Raw      string
	Movement Movement
}

type Notes struct {
	Hits     []HitNote
	Holds    []HoldNote
	Contacts []ContactNote
	Evades   []EvadeNote
	Flicks   []FlickNote
}

func (n *Notes) Count() int {
	return len(n.Hits) + len(n.Holds) + len(n.Contacts) + len(n.Evades) + len(n.Flicks)
}

// Composition events resolved to absolute time, for consumers like beat
// markers. Note geometry already accounts for them through the timeline.
type TempoChange struct {
	Time  float64
	Tempo float64
}

type TimeSignatureChange struct {
	Time          float64
	TimeSignature timing.TimeSignature
}

type SpeedChange struct {
	Time       float64
	Duration   float64
	Multiplier float64
}

type Composition struct {
	Tempos         []TempoChange
	TimeSignatures []TimeSignatureChange
	Speeds         []SpeedChange
}

type Header struct {
	Title         string
	AudioFilename string
	AudioOffset   float64 // seconds to start of audio
	Tempo         float64
	TimeSignature timing.TimeSignature
	Subdivision   uint32 // note quantization grid per measure
	LaneRes       float64
	Measures      int
}

type Chart struct {
	Header      Header
	Track       Track
	Notes       Notes
	Composition Composition

	// Calc resolves further (measure, tick) queries against this chart,
	// read-only and safe for concurrent use.
	Calc *timing.Calculator
}
