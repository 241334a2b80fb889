package parse

import (
	"fmt"
	"log"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/verin/lumitrack/internal/chart"
	"github.com/verin/lumitrack/internal/chart/timing"
)

// Options carry the format-independent tuning a chart adapter needs.
type Options struct {
	// BaseDepthSpeed is the depth units travelled per second of chart
	// time. Zero means 1.
	BaseDepthSpeed float64

	// LateralScale normalizes this format's lane units into track space.
	// Zero means 1.
	LateralScale float64
}

// DefaultParser reads the trk text format: a <header> section of key=value
// options and a <body> section of entity lines shaped like
//
//	[CODE] (measure:tick,...) |lane,...| {options}
//
// Ticks are 1-based against the header subdivision. Composition changes
// (TEMPO, METER, SPEED) are body lines keyed by measure.
type DefaultParser struct {
	Options Options
}

var (
	regexSectionTag = regexp.MustCompile(`^<(.*?)>$`)
	regexOption     = regexp.MustCompile(`^(\w+)=(.+)$`)
	regexBodyLine   = regexp.MustCompile(`^\[([^\]]+)\] \(([^)]+)\) \|([^|]+)\|(?: \{([^}]*)\})?$`)
)

type rawPoint struct {
	measure    int
	tick       float64
	lane       float64
	laneOffset float64
}

type rawEntity struct {
	code    string
	points  []rawPoint
	options map[string]string
}

func (p *DefaultParser) Parse(file string) (*chart.Chart, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("unable to read chart file: %w", err)
	}
	return p.parse(string(data))
}

// ParseString parses chart source held in memory, for embedded charts and
// tests.
func (p *DefaultParser) ParseString(source string) (*chart.Chart, error) {
	return p.parse(source)
}

func (p *DefaultParser) parse(source string) (*chart.Chart, error) {
	header := map[string]string{}
	var entities []rawEntity

	section := ""
	for _, line := range strings.Split(strings.ReplaceAll(source, "\r", ""), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if m := regexSectionTag.FindStringSubmatch(line); m != nil {
			section = m[1]
			continue
		}
		switch section {
		case "header":
			m := regexOption.FindStringSubmatch(line)
			if m == nil {
				log.Println("unrecognized header line:", line)
				continue
			}
			header[m[1]] = m[2]
		case "body":
			entity, err := parseBodyLine(line)
			if err != nil {
				return nil, err
			}
			entities = append(entities, entity)
		default:
			return nil, chart.Malformed("section", "line %q outside a known section", line)
		}
	}

	return p.build(header, entities)
}

func parseBodyLine(line string) (rawEntity, error) {
	m := regexBodyLine.FindStringSubmatch(line)
	if m == nil {
		return rawEntity{}, chart.Malformed("body", "unparseable line %q", line)
	}
	beats := strings.Split(m[2], ",")
	lanes := strings.Split(m[3], ",")
	if len(beats) != len(lanes) {
		return rawEntity{}, chart.Malformed("body",
			"line %q has %v timing points but %v positions", line, len(beats), len(lanes))
	}

	points := make([]rawPoint, len(beats))
	for i := range beats {
		point, err := parsePoint(beats[i], lanes[i])
		if err != nil {
			return rawEntity{}, chart.Malformed("body", "line %q: %v", line, err)
		}
		points[i] = point
	}

	options := map[string]string{}
	if m[4] != "" {
		for _, opt := range strings.Split(m[4], ",") {
			opt = strings.TrimSpace(opt)
			if k, v, ok := strings.Cut(opt, "="); ok {
				options[k] = v
			} else {
				options[opt] = ""
			}
		}
	}

	return rawEntity{code: m[1], points: points, options: options}, nil
}

func parsePoint(beat, lane string) (rawPoint, error) {
	ms, ts, ok := strings.Cut(strings.TrimSpace(beat), ":")
	if !ok {
		return rawPoint{}, fmt.Errorf("timing point %q is not measure:tick", beat)
	}
	measure, err := strconv.Atoi(ms)
	if err != nil {
		return rawPoint{}, err
	}
	tick, err := strconv.ParseFloat(ts, 64)
	if err != nil {
		return rawPoint{}, err
	}

	laneAbs := strings.TrimSpace(lane)
	laneOff := "0"
	if a, o, ok := strings.Cut(laneAbs, ":"); ok {
		laneAbs, laneOff = a, o
	}
	abs, err := strconv.ParseFloat(laneAbs, 64)
	if err != nil {
		return rawPoint{}, err
	}
	off, err := strconv.ParseFloat(laneOff, 64)
	if err != nil {
		return rawPoint{}, err
	}

	return rawPoint{measure: measure, tick: tick, lane: abs, laneOffset: off}, nil
}

func headerFloat(header map[string]string, key string) (float64, error) {
	v, ok := header[key]
	if !ok {
		return 0, chart.Malformed(key, "required header field is missing")
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, chart.Malformed(key, "unparseable value %q", v)
	}
	return f, nil
}

func headerTimeSignature(header map[string]string) (timing.TimeSignature, error) {
	v, ok := header["time_signature"]
	if !ok {
		return timing.TimeSignature{}, chart.Malformed("time_signature", "required header field is missing")
	}
	ns, ds, ok := strings.Cut(v, "/")
	if !ok {
		return timing.TimeSignature{}, chart.Malformed("time_signature", "value %q is not beats/unit", v)
	}
	num, err := strconv.ParseUint(ns, 10, 32)
	if err != nil {
		return timing.TimeSignature{}, chart.Malformed("time_signature", "unparseable value %q", v)
	}
	den, err := strconv.ParseUint(ds, 10, 32)
	if err != nil {
		return timing.TimeSignature{}, chart.Malformed("time_signature", "unparseable value %q", v)
	}
	return timing.TimeSignature{NumBeats: uint32(num), NoteValue: uint32(den)}, nil
}

func (p *DefaultParser) build(header map[string]string, entities []rawEntity) (*chart.Chart, error) {
	tempo, err := headerFloat(header, "tempo")
	if err != nil {
		return nil, err
	}
	signature, err := headerTimeSignature(header)
	if err != nil {
		return nil, err
	}
	subdivision, err := headerFloat(header, "subdivision")
	if err != nil {
		return nil, err
	}
	if subdivision <= 0 {
		return nil, chart.Malformed("subdivision", "must be positive, got %v", subdivision)
	}
	laneRes, err := headerFloat(header, "lane_resolution")
	if err != nil {
		return nil, err
	}
	measures, err := headerFloat(header, "measures")
	if err != nil {
		return nil, err
	}
	if measures <= 0 {
		return nil, chart.Malformed("measures", "must be positive, got %v", measures)
	}
	audioOffset := 0.0
	if _, ok := header["audio_offset"]; ok {
		if audioOffset, err = headerFloat(header, "audio_offset"); err != nil {
			return nil, err
		}
	}

	baseDepthSpeed := p.Options.BaseDepthSpeed
	if baseDepthSpeed == 0 {
		baseDepthSpeed = 1.0
	}
	lateralScale := p.Options.LateralScale
	if lateralScale == 0 {
		lateralScale = 1.0
	}

	builder := &chartBuilder{
		header: chart.Header{
			Title:         header["title"],
			AudioFilename: header["audio_filename"],
			AudioOffset:   audioOffset,
			Tempo:         tempo,
			TimeSignature: signature,
			Subdivision:   uint32(subdivision),
			LaneRes:       laneRes,
			Measures:      int(measures),
		},
		baseDepthSpeed: baseDepthSpeed,
	}

	timeline, err := timing.NewTimeline(timing.TimelineOptions{
		Measures: builder.header.Measures,
		Start: timing.MeasureComposition{
			TimeSignature:   signature,
			Tempo:           tempo,
			SpeedMultiplier: 1.0,
			Subdivision:     uint32(subdivision),
		},
		AudioOffset:    audioOffset,
		BaseDepthSpeed: baseDepthSpeed,
		Tempos:         changeTempos(entities),
		TimeSignatures: changeTimeSignatures(entities),
		Speeds:         changeSpeeds(entities),
	})
	if err != nil {
		return nil, chart.Malformed("timeline", "%v", err)
	}

	builder.calc, err = timing.NewCalculator(timeline, laneRes, lateralScale)
	if err != nil {
		return nil, chart.Malformed("lane_resolution", "%v", err)
	}

	return builder.build(entities)
}

func changeTempos(entities []rawEntity) []timing.TempoChange {
	var changes []timing.TempoChange
	for _, e := range entities {
		if e.code != "TEMPO" {
			continue
		}
		changes = append(changes, timing.TempoChange{
			Measure: e.points[0].measure,
			Tempo:   e.points[0].lane,
		})
	}
	sort.SliceStable(changes, func(i, j int) bool { return changes[i].Measure < changes[j].Measure })
	return changes
}

func changeTimeSignatures(entities []rawEntity) []timing.TimeSignatureChange {
	var changes []timing.TimeSignatureChange
	for _, e := range entities {
		if e.code != "METER" {
			continue
		}
		signature, err := parseTimeSignature(e.options["value"])
		if err != nil {
			log.Println("skipping unparseable meter change:", err)
			continue
		}
		changes = append(changes, timing.TimeSignatureChange{
			Measure:       e.points[0].measure,
			TimeSignature: signature,
		})
	}
	sort.SliceStable(changes, func(i, j int) bool { return changes[i].Measure < changes[j].Measure })
	return changes
}

func changeSpeeds(entities []rawEntity) []timing.SpeedChange {
	var changes []timing.SpeedChange
	for _, e := range entities {
		if e.code != "SPEED" {
			continue
		}
		changes = append(changes, timing.SpeedChange{
			Measure:    e.points[0].measure,
			Multiplier: e.points[0].lane,
		})
	}
	sort.SliceStable(changes, func(i, j int) bool { return changes[i].Measure < changes[j].Measure })
	return changes
}

func parseTimeSignature(v string) (timing.TimeSignature, error) {
	ns, ds, ok := strings.Cut(v, "/")
	if !ok {
		return timing.TimeSignature{}, fmt.Errorf("time signature %q is not beats/unit", v)
	}
	num, err := strconv.ParseUint(ns, 10, 32)
	if err != nil {
		return timing.TimeSignature{}, err
	}
	den, err := strconv.ParseUint(ds, 10, 32)
	if err != nil {
		return timing.TimeSignature{}, err
	}
	return timing.TimeSignature{NumBeats: uint32(num), NoteValue: uint32(den)}, nil
}
