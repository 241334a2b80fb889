package scene_test

import (
	"math"
	"testing"

	"github.com/verin/lumitrack/internal/chart"
	"github.com/verin/lumitrack/internal/scene"
	"github.com/verin/lumitrack/internal/testdata"
)

func buildTestScene(t *testing.T) scene.Description {
	t.Helper()
	c, err := testdata.GetChart()
	if nil != err {
		t.Fatal("unable to parse chart", err)
	}
	return scene.Build(c, scene.Settings{RunnerSpeed: 10})
}

func TestBuildCategories(t *testing.T) {
	desc := buildTestScene(t)

	if len(desc.Hits) != 5 || len(desc.Contacts) != 1 ||
		len(desc.Flicks) != 2 || len(desc.Evades) != 1 {
		t.Log("Hits    ", len(desc.Hits))
		t.Log("Contacts", len(desc.Contacts))
		t.Log("Flicks  ", len(desc.Flicks))
		t.Log("Evades  ", len(desc.Evades))
		t.Fail()
	}
	if len(desc.Platforms) != 1 || len(desc.PlatformMesh.Vertices) == 0 {
		t.Log("Platforms", len(desc.Platforms), len(desc.PlatformMesh.Vertices))
		t.Fail()
	}
	if len(desc.Holds.Objects) != 1 {
		t.Log("Holds", len(desc.Holds.Objects))
		t.Fail()
	}
	// The enemy lane contributes no geometry.
	if len(desc.Lanes.Objects) != 3 {
		t.Log("Lanes", len(desc.Lanes.Objects))
		t.Fail()
	}
}

func TestBuildScalesDepthByRunnerSpeed(t *testing.T) {
	c, err := testdata.GetChart()
	if nil != err {
		t.Fatal("unable to parse chart", err)
	}
	slow := scene.Build(c, scene.Settings{RunnerSpeed: 1})
	fast := scene.Build(c, scene.Settings{RunnerSpeed: 10})

	for i := range slow.Hits {
		want := slow.Hits[i].Depth * 10
		if math.Abs(float64(fast.Hits[i].Depth-want)) > 1e-4 {
			t.Log("Hit  ", i)
			t.Log("Depth", fast.Hits[i].Depth, "expected", want)
			t.Fail()
		}
		if fast.Hits[i].Lateral != slow.Hits[i].Lateral {
			t.Log("lateral", i, "moved with runner speed")
			t.Fail()
		}
	}
	e := fast.Evades[0]
	if math.Abs(float64(e.End.Y()-slow.Evades[0].End.Y()*10)) > 1e-4 {
		t.Log("Evade depth", e.End.Y())
		t.Fail()
	}
	// The movement timing stays in chart seconds.
	if e.Trigger != slow.Evades[0].Trigger || e.Duration != slow.Evades[0].Duration {
		t.Log("Evade timing", e.Trigger, e.Duration)
		t.Fail()
	}
}

func TestBuildObjectIndexInvariants(t *testing.T) {
	desc := buildTestScene(t)

	for _, group := range []scene.MOSVGroup{desc.Holds, desc.Lanes} {
		if len(group.ObjectIndices) != len(group.Mesh.Vertices) {
			t.Log("ObjectIndices", len(group.ObjectIndices))
			t.Log("Vertices     ", len(group.Mesh.Vertices))
			t.Fail()
			continue
		}
		previous := uint32(0)
		for i, index := range group.ObjectIndices {
			if int(index) >= len(group.Objects) {
				t.Log("index", i, "addresses object", index, "of", len(group.Objects))
				t.Fail()
			}
			if index < previous {
				t.Log("object indices regressed at vertex", i)
				t.Fail()
			}
			previous = index
		}
		if previous != uint32(len(group.Objects)-1) {
			t.Log("last object index", previous, "objects", len(group.Objects))
			t.Fail()
		}
	}
}

func TestBuildUnknownKindFallback(t *testing.T) {
	c := &chart.Chart{}
	c.Notes.Hits = []chart.HitNote{
		{Kind: chart.HitLaneCenter, Raw: "B2", Position: chart.TrackPosition{Time: 1, Depth: 1}},
		{Kind: chart.HitUnknown, Raw: "X9", Position: chart.TrackPosition{Time: 2, Depth: 2}},
	}
	desc := scene.Build(c, scene.Settings{RunnerSpeed: 1})

	known, unknown := desc.Hits[0], desc.Hits[1]
	if known.Color == unknown.Color {
		t.Log("unknown kind did not fall back to a distinct color")
		t.Fail()
	}
	if unknown.Color.W() != 1 {
		t.Log("fallback color is transparent:", unknown.Color)
		t.Fail()
	}
	// Fallback notes still render in place.
	if unknown.Depth != 2 {
		t.Log("Depth", unknown.Depth)
		t.Fail()
	}
}
