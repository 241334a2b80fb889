package render

import (
	"github.com/go-gl/mathgl/mgl32"
)

type PipelineKind int

const (
	// PipelineInstanced draws one mesh repeated with per-instance data.
	PipelineInstanced PipelineKind = iota
	// PipelineMOSV draws many different objects from a single vertex
	// stream, with a per-vertex object-index attribute selecting the
	// object data.
	PipelineMOSV
)

type ShaderPair struct {
	Vertex   string
	Fragment string
}

type PipelineDescription struct {
	Kind    PipelineKind
	Shaders ShaderPair
}

type InstancedDrawData struct {
	InstanceData  []byte
	InstanceCount int

	Vertices []mgl32.Vec3
	Indices  []uint16

	// Pipeline indexes the description's Pipelines array.
	Pipeline int
}

type MOSVDrawData struct {
	ObjectData    []byte
	ObjectCount   int
	ObjectIndices []uint32 // one per vertex

	Vertices []mgl32.Vec3
	Indices  []uint16

	Pipeline int
}

// Description is everything a backend needs to set up draw state: the
// pipelines, the draw units in submission order, and the size of the
// shared scene uniform.
type Description struct {
	SceneUniformSize int
	Pipelines        []PipelineDescription

	Instanced []InstancedDrawData
	MOSV      []MOSVDrawData
}
