package render

import (
	"fmt"

	"github.com/verin/lumitrack/internal/mesh"
	"github.com/verin/lumitrack/internal/scene"
)

// Category meshes. Point-like notes share fixed primitives; holds, lanes
// and platforms bring their own chart-derived geometry.
func categoryMeshes() (hit, contact, evade, flick mesh.Mesh) {
	hit = mesh.Cuboid(0.25, 0.1, 0.1)
	contact = mesh.Ring(0.05, 0.02, 30).Translate(0, -0.08, 0)
	evade = contact.Translate(0, -0.08, 0)
	flick = mesh.Cuboid(0.9, 0.05, 0.1)
	return
}

// Batch is the draw-data set for one loaded chart, plus the bookkeeping
// required to refresh the time-dependent evade unit every frame.
type Batch struct {
	Description Description

	// EvadeUnit indexes Description.Instanced; -1 when the chart has no
	// evade notes.
	EvadeUnit int
	Evades    []scene.EvadeInstance
}

type batcher struct {
	description Description
}

func (b *batcher) addPipeline(p PipelineDescription) int {
	b.description.Pipelines = append(b.description.Pipelines, p)
	return len(b.description.Pipelines) - 1
}

func (b *batcher) addInstanced(m mesh.Mesh, objects []scene.ObjectInstance, pipeline int) int {
	b.description.Instanced = append(b.description.Instanced, InstancedDrawData{
		InstanceData:  InstanceBytes(objects),
		InstanceCount: len(objects),
		Vertices:      m.Vertices,
		Indices:       m.Indices,
		Pipeline:      pipeline,
	})
	return len(b.description.Instanced) - 1
}

func (b *batcher) addMOSV(group scene.MOSVGroup, pipeline int) {
	if len(group.Objects) == 0 {
		return
	}
	if len(group.ObjectIndices) != len(group.Mesh.Vertices) {
		panic(fmt.Sprintf("object index count %v does not match vertex count %v",
			len(group.ObjectIndices), len(group.Mesh.Vertices)))
	}
	if last := group.ObjectIndices[len(group.ObjectIndices)-1]; last != uint32(len(group.Objects)-1) {
		panic(fmt.Sprintf("last object index %v does not address last object %v",
			last, len(group.Objects)-1))
	}
	b.description.MOSV = append(b.description.MOSV, MOSVDrawData{
		ObjectData:    InstanceBytes(group.Objects),
		ObjectCount:   len(group.Objects),
		ObjectIndices: group.ObjectIndices,
		Vertices:      group.Mesh.Vertices,
		Indices:       group.Mesh.Indices,
		Pipeline:      pipeline,
	})
}

// BuildBatch packs a scene description into draw units: one instanced
// unit per point-note category and for the platform, and one MOSV unit
// each for holds and lanes.
func BuildBatch(desc scene.Description) *Batch {
	b := &batcher{description: Description{SceneUniformSize: SceneUniformSize}}

	instanced := b.addPipeline(PipelineDescription{
		Kind:    PipelineInstanced,
		Shaders: ShaderPair{Vertex: "shaders/object_instanced.vs.glsl", Fragment: "shaders/object_instanced.fs.glsl"},
	})
	mosvPlanes := b.addPipeline(PipelineDescription{
		Kind:    PipelineMOSV,
		Shaders: ShaderPair{Vertex: "shaders/object_vertices_smooth_1.vs.glsl", Fragment: "shaders/object_vertices_smooth_1.fs.glsl"},
	})
	mosvLines := b.addPipeline(PipelineDescription{
		Kind:    PipelineMOSV,
		Shaders: ShaderPair{Vertex: "shaders/object_vertices_smooth_2.vs.glsl", Fragment: "shaders/object_vertices_smooth_2.fs.glsl"},
	})

	hitMesh, contactMesh, evadeMesh, flickMesh := categoryMeshes()

	b.addInstanced(hitMesh, desc.Hits, instanced)
	b.addInstanced(contactMesh, desc.Contacts, instanced)
	b.addInstanced(flickMesh, desc.Flicks, instanced)

	evadeUnit := -1
	if len(desc.Evades) > 0 {
		evadeUnit = b.addInstanced(evadeMesh, evadeStartInstances(desc.Evades), instanced)
	}

	if len(desc.Platforms) > 0 {
		b.addInstanced(desc.PlatformMesh, desc.Platforms, instanced)
	}

	b.addMOSV(desc.Holds, mosvPlanes)
	b.addMOSV(desc.Lanes, mosvLines)

	return &Batch{
		Description: b.description,
		EvadeUnit:   evadeUnit,
		Evades:      desc.Evades,
	}
}

// evadeStartInstances snapshots evade notes at their start positions for
// the initial upload.
func evadeStartInstances(evades []scene.EvadeInstance) []scene.ObjectInstance {
	objects := make([]scene.ObjectInstance, len(evades))
	for i, e := range evades {
		objects[i] = scene.ObjectInstance{
			Lateral:              e.Start.X(),
			Depth:                e.Start.Y(),
			Color:                e.Color,
			ApplyRunnerTransform: true,
		}
	}
	return objects
}
