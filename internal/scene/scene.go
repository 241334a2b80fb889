package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/verin/lumitrack/internal/chart"
	"github.com/verin/lumitrack/internal/mesh"
)

const (
	hitLateralLength = 0.25
	hitDepthLength   = 0.1
	laneWidth        = 0.04
)

type Settings struct {
	// RunnerSpeed stretches chart depth into render-track depth; it is the
	// visual scroll rate and applies to every scrolling entity.
	RunnerSpeed float32
}

// ObjectInstance is one GPU instance slot: position on the track, base
// color, and whether the global runner transform applies.
type ObjectInstance struct {
	Lateral float32
	Depth   float32
	Color   mgl32.Vec4

	ApplyRunnerTransform bool
}

// EvadeInstance is an object whose position is a function of time. X is
// lateral, Y is depth.
type EvadeInstance struct {
	Start mgl32.Vec2
	End   mgl32.Vec2
	Color mgl32.Vec4

	Trigger  float32 // seconds
	Duration float32 // seconds
}

// MOSVGroup merges many differently-shaped objects into one vertex stream,
// with a per-vertex index into Objects.
type MOSVGroup struct {
	Objects       []ObjectInstance
	Mesh          mesh.Mesh
	ObjectIndices []uint32 // one entry per vertex
}

type Description struct {
	Hits     []ObjectInstance
	Contacts []ObjectInstance
	Flicks   []ObjectInstance
	Evades   []EvadeInstance

	Platforms    []ObjectInstance
	PlatformMesh mesh.Mesh

	Holds MOSVGroup
	Lanes MOSVGroup

	Settings Settings
}

// Build groups a resolved chart into per-category instances and meshes.
func Build(c *chart.Chart, settings Settings) Description {
	b := builder{settings: settings}
	return b.build(c)
}

type builder struct {
	settings Settings
}

func (b *builder) instance(position chart.TrackPosition, color mgl32.Vec4) ObjectInstance {
	return ObjectInstance{
		Lateral:              position.Lateral,
		Depth:                position.Depth * b.settings.RunnerSpeed,
		Color:                color,
		ApplyRunnerTransform: true,
	}
}

func (b *builder) pathVertices(points []chart.TrackPosition) []mgl32.Vec3 {
	vertices := make([]mgl32.Vec3, len(points))
	for i, p := range points {
		vertices[i] = mgl32.Vec3{p.Lateral, 0, p.Depth * b.settings.RunnerSpeed}
	}
	return vertices
}

func (b *builder) build(c *chart.Chart) Description {
	desc := Description{Settings: b.settings}

	for _, n := range c.Notes.Hits {
		desc.Hits = append(desc.Hits, b.instance(n.Position, hitColor(n.Kind, n.Raw)))
	}
	for _, n := range c.Notes.Contacts {
		desc.Contacts = append(desc.Contacts, b.instance(n.Position, colorContact))
	}
	for _, n := range c.Notes.Flicks {
		desc.Flicks = append(desc.Flicks, b.instance(n.Position, colorFlick))
	}
	for _, n := range c.Notes.Evades {
		desc.Evades = append(desc.Evades, EvadeInstance{
			Start: mgl32.Vec2{n.Movement.Start.Lateral, n.Movement.Start.Depth * b.settings.RunnerSpeed},
			End:   mgl32.Vec2{n.Movement.End.Lateral, n.Movement.End.Depth * b.settings.RunnerSpeed},
			Color: colorEvade,

			Trigger:  float32(n.Movement.Trigger),
			Duration: float32(n.Movement.Duration),
		})
	}

	if len(c.Track.Platforms) > 0 {
		desc.PlatformMesh = b.platformMesh(c.Track.Platforms)
		desc.Platforms = []ObjectInstance{{
			Color:                colorPlatform,
			ApplyRunnerTransform: true,
		}}
	}

	desc.Holds = b.holdGroup(c.Notes.Holds)
	desc.Lanes = b.laneGroup(c.Track.Lanes)

	return desc
}

func (b *builder) platformMesh(platforms []chart.Platform) mesh.Mesh {
	merged := mesh.Mesh{}
	for _, p := range platforms {
		m := mesh.StripBetween(b.pathVertices(p.Left), b.pathVertices(p.Right))
		base := uint16(len(merged.Vertices))
		merged.Vertices = append(merged.Vertices, m.Vertices...)
		for _, index := range m.Indices {
			merged.Indices = append(merged.Indices, index+base)
		}
	}
	return merged
}

func (g *MOSVGroup) append(m mesh.Mesh, object ObjectInstance) {
	objectIndex := uint32(len(g.Objects))
	base := uint16(len(g.Mesh.Vertices))

	g.Mesh.Vertices = append(g.Mesh.Vertices, m.Vertices...)
	for _, index := range m.Indices {
		g.Mesh.Indices = append(g.Mesh.Indices, index+base)
	}
	for range m.Vertices {
		g.ObjectIndices = append(g.ObjectIndices, objectIndex)
	}
	g.Objects = append(g.Objects, object)
}

// check enforces the vertex/object-index pairing every MOSV draw relies
// on: one index per vertex, and no trailing objects without geometry.
func (g *MOSVGroup) check() {
	if len(g.Objects) == 0 {
		return
	}
	if len(g.ObjectIndices) != len(g.Mesh.Vertices) {
		panic(fmt.Sprintf("object index count %v does not match vertex count %v",
			len(g.ObjectIndices), len(g.Mesh.Vertices)))
	}
	if last := g.ObjectIndices[len(g.ObjectIndices)-1]; last != uint32(len(g.Objects)-1) {
		panic(fmt.Sprintf("last object index %v does not address last object %v",
			last, len(g.Objects)-1))
	}
}

func (b *builder) holdGroup(holds []chart.HoldNote) MOSVGroup {
	group := MOSVGroup{}
	for _, h := range holds {
		m := mesh.Ribbon(b.pathVertices(h.Points), hitLateralLength)
		group.append(m.Translate(0, -0.005, 0), ObjectInstance{
			Color:                hitColor(h.Kind, h.Raw),
			ApplyRunnerTransform: true,
		})
	}
	group.check()
	return group
}

func (b *builder) laneGroup(lanes []chart.Lane) MOSVGroup {
	group := MOSVGroup{}
	for _, l := range lanes {
		// Enemy-marker lanes exist for gameplay logic, not track geometry.
		if l.Kind == chart.LaneEnemy {
			continue
		}
		m := mesh.Ribbon(b.pathVertices(l.Points), laneWidth)
		group.append(m.Translate(0, -0.005, 0), ObjectInstance{
			Color:                laneColor(l.Kind, l.Raw),
			ApplyRunnerTransform: true,
		})
	}
	group.check()
	return group
}
