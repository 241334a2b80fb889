package parse

import (
	"log"
	"strconv"

	"github.com/verin/lumitrack/internal/chart"
	"github.com/verin/lumitrack/internal/chart/timing"
)

// Codes of the trk format. Unknown note codes degrade to HitUnknown so
// charts written for a newer revision of the format still render.
var (
	hitKinds = map[string]chart.HitKind{
		"W1": chart.HitWallLeft,
		"W2": chart.HitWallRight,
		"B1": chart.HitLaneLeft,
		"B2": chart.HitLaneCenter,
		"B3": chart.HitLaneRight,
	}
	holdKinds = map[string]chart.HitKind{
		"HW1": chart.HitWallLeft,
		"HW2": chart.HitWallRight,
		"HB1": chart.HitLaneLeft,
		"HB2": chart.HitLaneCenter,
		"HB3": chart.HitLaneRight,
	}
	contactKinds = map[string]chart.ContactKind{
		"C1": chart.Contact1,
		"C2": chart.Contact2,
	}
	evadeKinds = map[string]chart.EvadeKind{
		"E1": chart.Evade1,
		"E2": chart.Evade2,
		"E3": chart.Evade3,
		"E4": chart.Evade4,
	}
	laneKinds = map[string]chart.LaneKind{
		"L1": chart.LaneLeft,
		"L2": chart.LaneCenter,
		"L3": chart.LaneRight,
		"L4": chart.LaneEnemy,
	}
)

type chartBuilder struct {
	header         chart.Header
	calc           *timing.Calculator
	baseDepthSpeed float64
}

func (b *chartBuilder) position(p rawPoint) (chart.TrackPosition, error) {
	resolved, err := b.calc.Resolve(p.measure, p.tick)
	if err != nil {
		return chart.TrackPosition{}, chart.Malformed("body", "%v", err)
	}
	return chart.TrackPosition{
		Time:    resolved.Time,
		Depth:   resolved.Depth,
		Lateral: b.calc.Lateral(p.lane, p.laneOffset),
	}, nil
}

func (b *chartBuilder) positions(points []rawPoint) ([]chart.TrackPosition, error) {
	out := make([]chart.TrackPosition, len(points))
	for i, p := range points {
		position, err := b.position(p)
		if err != nil {
			return nil, err
		}
		out[i] = position
	}
	return out, nil
}

func (b *chartBuilder) build(entities []rawEntity) (*chart.Chart, error) {
	c := &chart.Chart{Header: b.header, Calc: b.calc}

	var platformLeft, platformRight [][]chart.TrackPosition
	for _, e := range entities {
		if e.code == "TEMPO" || e.code == "METER" || e.code == "SPEED" {
			if err := b.addCompositionEvent(&c.Composition, e); err != nil {
				return nil, err
			}
			continue
		}
		if e.code == "PL" || e.code == "PR" {
			points, err := b.positions(e.points)
			if err != nil {
				return nil, err
			}
			if len(points) < 2 {
				return nil, chart.Malformed("platform", "boundary has %v points, need at least 2", len(points))
			}
			if e.code == "PL" {
				platformLeft = append(platformLeft, points)
			} else {
				platformRight = append(platformRight, points)
			}
			continue
		}
		if kind, ok := laneKinds[e.code]; ok {
			points, err := b.positions(e.points)
			if err != nil {
				return nil, err
			}
			if len(points) < 2 {
				return nil, chart.Malformed("lane", "lane %v has %v points, need at least 2", e.code, len(points))
			}
			c.Track.Lanes = append(c.Track.Lanes, chart.Lane{
				Kind:   kind,
				Raw:    e.code,
				Points: points,
			})
			continue
		}
		if kind, ok := holdKinds[e.code]; ok {
			points, err := b.positions(e.points)
			if err != nil {
				return nil, err
			}
			if len(points) < 2 {
				return nil, chart.Malformed("hold", "hold %v has %v points, need at least 2", e.code, len(points))
			}
			_, critical := e.options["critical"]
			c.Notes.Holds = append(c.Notes.Holds, chart.HoldNote{
				Kind:     kind,
				Raw:      e.code,
				Critical: critical,
				Points:   points,
			})
			continue
		}
		if kind, ok := contactKinds[e.code]; ok {
			position, err := b.position(e.points[0])
			if err != nil {
				return nil, err
			}
			c.Notes.Contacts = append(c.Notes.Contacts, chart.ContactNote{
				Kind:     kind,
				Raw:      e.code,
				Position: position,
			})
			continue
		}
		if e.code == "FL" || e.code == "FR" {
			position, err := b.position(e.points[0])
			if err != nil {
				return nil, err
			}
			direction := chart.FlickLeft
			if e.code == "FR" {
				direction = chart.FlickRight
			}
			c.Notes.Flicks = append(c.Notes.Flicks, chart.FlickNote{
				Direction: direction,
				Position:  position,
			})
			continue
		}
		if _, ok := evadeKinds[e.code]; ok {
			evade, err := b.buildEvade(e)
			if err != nil {
				return nil, err
			}
			c.Notes.Evades = append(c.Notes.Evades, evade)
			continue
		}

		kind, ok := hitKinds[e.code]
		if !ok {
			log.Printf("unknown note code %q, rendering with fallback appearance", e.code)
			kind = chart.HitUnknown
		}
		position, err := b.position(e.points[0])
		if err != nil {
			return nil, err
		}
		_, critical := e.options["critical"]
		c.Notes.Hits = append(c.Notes.Hits, chart.HitNote{
			Kind:     kind,
			Raw:      e.code,
			Critical: critical,
			Position: position,
		})
	}

	if len(platformLeft) != len(platformRight) {
		return nil, chart.Malformed("platform",
			"%v left boundaries but %v right boundaries", len(platformLeft), len(platformRight))
	}
	for i := range platformLeft {
		c.Track.Platforms = append(c.Track.Platforms, chart.Platform{
			Left:  platformLeft[i],
			Right: platformRight[i],
		})
	}

	return c, nil
}

// buildEvade resolves the end point from the entity's timing point and
// derives the movement: the note originates duration seconds ahead in
// depth and arrives at the end position at trigger+duration.
func (b *chartBuilder) buildEvade(e rawEntity) (chart.EvadeNote, error) {
	duration := 0.0
	if v, ok := e.options["duration"]; ok {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed < 0 {
			return chart.EvadeNote{}, chart.Malformed("evade", "bad duration %q", v)
		}
		duration = parsed
	}

	end, err := b.position(e.points[0])
	if err != nil {
		return chart.EvadeNote{}, err
	}
	startLateral := end.Lateral
	if len(e.points) > 1 {
		startLateral = b.calc.Lateral(e.points[1].lane, e.points[1].laneOffset)
	}

	trigger := end.Time - duration
	start := chart.TrackPosition{
		Time:    trigger,
		Depth:   end.Depth + float32(duration*b.baseDepthSpeed),
		Lateral: startLateral,
	}

	kind, ok := evadeKinds[e.code]
	if !ok {
		kind = chart.EvadeUnknown
	}
	return chart.EvadeNote{
		Kind: kind,
		Raw:  e.code,
		Movement: chart.Movement{
			Start:    start,
			End:      end,
			Trigger:  trigger,
			Duration: duration,
		},
	}, nil
}

func (b *chartBuilder) addCompositionEvent(composition *chart.Composition, e rawEntity) error {
	resolved, err := b.calc.Resolve(e.points[0].measure, e.points[0].tick)
	if err != nil {
		return chart.Malformed("composition", "%v", err)
	}
	switch e.code {
	case "TEMPO":
		composition.Tempos = append(composition.Tempos, chart.TempoChange{
			Time:  resolved.Time,
			Tempo: e.points[0].lane,
		})
	case "METER":
		signature, err := parseTimeSignature(e.options["value"])
		if err != nil {
			// Already warned while building the timeline.
			return nil
		}
		composition.TimeSignatures = append(composition.TimeSignatures, chart.TimeSignatureChange{
			Time:          resolved.Time,
			TimeSignature: signature,
		})
	case "SPEED":
		duration := 0.0
		if v, ok := e.options["duration"]; ok {
			duration, _ = strconv.ParseFloat(v, 64)
		}
		composition.Speeds = append(composition.Speeds, chart.SpeedChange{
			Time:       resolved.Time,
			Duration:   duration,
			Multiplier: e.points[0].lane,
		})
	}
	return nil
}
