package testdata

import (
	"github.com/verin/lumitrack/internal/chart"
	"github.com/verin/lumitrack/internal/chart/parse"
)

// Source is a small but complete chart: 8 measures at 120 BPM with a
// tempo change, every note category, a platform and three lanes.
const Source = `<header>
title=Test Track
audio_filename=song.ogg
audio_offset=0.0
tempo=120
time_signature=4/4
subdivision=16
lane_resolution=4
measures=8

<body>
[TEMPO] (4:1) |180|
[SPEED] (6:1) |1.5| {duration=1.0}
[B1] (0:1) |-2|
[B2] (0:5) |0| {critical}
[B3] (0:9) |2|
[W1] (1:1) |-3:2|
[W2] (1:9) |3|
[HB2] (2:1,3:1) |0,1|
[C1] (0:13) |1|
[FL] (1:5) |-1|
[FR] (1:13) |1|
[E2] (4:1,4:1) |2,-2| {duration=0.5}
[PL] (0:1,7:16) |-4,-4|
[PR] (0:1,7:16) |4,4|
[L1] (0:1,7:16) |-2,-2|
[L2] (0:1,3:16,7:16) |0,1,0|
[L3] (0:1,7:16) |2,2|
[L4] (0:1,7:16) |3,3|
`

func GetChart() (*chart.Chart, error) {
	p := &parse.DefaultParser{}
	return p.ParseString(Source)
}
