package scene

import (
	"log"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/verin/lumitrack/internal/chart"
)

// Fallback appearance for note kinds we do not recognize. Visibly wrong
// beats not rendering at all.
var colorFallback = mgl32.Vec4{1, 1, 1, 1}

var hitColors = map[chart.HitKind]mgl32.Vec4{
	chart.HitWallLeft:   {1, 0, 1, 1},
	chart.HitWallRight:  {0.5, 0, 0.5, 1},
	chart.HitLaneLeft:   {1, 0, 0, 1},
	chart.HitLaneCenter: {0, 1, 0, 1},
	chart.HitLaneRight:  {0, 0, 1, 1},
}

var laneColors = map[chart.LaneKind]mgl32.Vec4{
	chart.LaneLeft:   {1, 0, 0, 1},
	chart.LaneCenter: {0, 1, 0, 1},
	chart.LaneRight:  {0, 0, 1, 1},
}

var (
	colorContact  = mgl32.Vec4{1, 1, 0, 1}
	colorFlick    = mgl32.Vec4{0.8, 0.8, 0.1, 1}
	colorEvade    = mgl32.Vec4{0.6, 0.2, 0.9, 1}
	colorPlatform = mgl32.Vec4{0, 0, 0, 1}
)

func hitColor(kind chart.HitKind, raw string) mgl32.Vec4 {
	if c, ok := hitColors[kind]; ok {
		return c
	}
	log.Printf("unknown hit note kind %q, using fallback color", raw)
	return colorFallback
}

func laneColor(kind chart.LaneKind, raw string) mgl32.Vec4 {
	if c, ok := laneColors[kind]; ok {
		return c
	}
	log.Printf("unknown lane kind %q, using fallback color", raw)
	return colorFallback
}
