package render

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/verin/lumitrack/internal/scene"
)

func instances(n int) []scene.ObjectInstance {
	out := make([]scene.ObjectInstance, n)
	for i := range out {
		out[i] = scene.ObjectInstance{
			Lateral:              float32(i),
			Depth:                float32(i) * 2,
			Color:                mgl32.Vec4{1, 1, 1, 1},
			ApplyRunnerTransform: true,
		}
	}
	return out
}

func TestBuildBatchUnits(t *testing.T) {
	desc := scene.Description{
		Hits:     instances(3),
		Contacts: instances(1),
		Flicks:   instances(2),
		Evades: []scene.EvadeInstance{
			{Start: mgl32.Vec2{-2, 8}, End: mgl32.Vec2{2, 8}, Trigger: 7.5, Duration: 0.5},
		},
	}
	batch := BuildBatch(desc)

	// hits, contacts, flicks, evades; no platform, and the empty MOSV
	// groups contribute no units.
	if len(batch.Description.Instanced) != 4 || len(batch.Description.MOSV) != 0 {
		t.Log("Instanced", len(batch.Description.Instanced))
		t.Log("MOSV     ", len(batch.Description.MOSV))
		t.Fail()
	}
	if batch.EvadeUnit != 3 {
		t.Log("EvadeUnit", batch.EvadeUnit)
		t.Fail()
	}

	counts := []int{3, 1, 2, 1}
	for i, u := range batch.Description.Instanced {
		if u.InstanceCount != counts[i] {
			t.Log("Unit    ", i)
			t.Log("Count   ", u.InstanceCount)
			t.Log("Expected", counts[i])
			t.Fail()
		}
		if len(u.InstanceData) != u.InstanceCount*InstanceStride {
			t.Log("unit", i, "has", len(u.InstanceData), "bytes")
			t.Fail()
		}
		if batch.Description.Pipelines[u.Pipeline].Kind != PipelineInstanced {
			t.Log("unit", i, "bound to a non-instanced pipeline")
			t.Fail()
		}
	}

	// The evade unit's initial upload holds the start positions.
	evadeData, err := UnpackInstances(batch.Description.Instanced[3].InstanceData)
	if nil != err {
		t.Fatal(err)
	}
	if evadeData[0].Transform != mgl32.Translate3D(-2, 0, 8) {
		t.Log("Transform", evadeData[0].Transform)
		t.Fail()
	}
}

func TestBuildBatchWithoutEvades(t *testing.T) {
	batch := BuildBatch(scene.Description{Hits: instances(1)})
	if batch.EvadeUnit != -1 {
		t.Log("EvadeUnit", batch.EvadeUnit)
		t.Fail()
	}
}

func TestBuildBatchMOSVUnits(t *testing.T) {
	var holds scene.MOSVGroup
	holds.Objects = instances(2)
	holds.Mesh.Vertices = []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 0, 1}, {1, 0, 1}}
	holds.Mesh.Indices = []uint16{0, 1, 2, 1, 2, 3}
	holds.ObjectIndices = []uint32{0, 0, 1, 1}

	batch := BuildBatch(scene.Description{Holds: holds})
	if len(batch.Description.MOSV) != 1 {
		t.Fatal("MOSV units", len(batch.Description.MOSV))
	}
	u := batch.Description.MOSV[0]
	if u.ObjectCount != 2 || len(u.ObjectData) != 2*InstanceStride {
		t.Log("ObjectCount", u.ObjectCount, len(u.ObjectData))
		t.Fail()
	}
	if len(u.ObjectIndices) != len(u.Vertices) {
		t.Log("ObjectIndices", len(u.ObjectIndices), "Vertices", len(u.Vertices))
		t.Fail()
	}
	if batch.Description.Pipelines[u.Pipeline].Kind != PipelineMOSV {
		t.Log("hold unit bound to a non-MOSV pipeline")
		t.Fail()
	}
}

func TestBuildBatchRejectsBrokenGroup(t *testing.T) {
	var holds scene.MOSVGroup
	holds.Objects = instances(1)
	holds.Mesh.Vertices = []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}}
	holds.ObjectIndices = []uint32{0} // one short

	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic for a broken object index pairing")
		}
	}()
	BuildBatch(scene.Description{Holds: holds})
}

func TestBuildBatchSizes(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("instance data is always count times stride", prop.ForAll(
		func(hits, contacts, flicks int) bool {
			batch := BuildBatch(scene.Description{
				Hits:     instances(hits),
				Contacts: instances(contacts),
				Flicks:   instances(flicks),
			})
			if batch.Description.SceneUniformSize != SceneUniformSize {
				return false
			}
			for _, u := range batch.Description.Instanced {
				if len(u.InstanceData) != u.InstanceCount*InstanceStride {
					return false
				}
				for _, index := range u.Indices {
					if int(index) >= len(u.Vertices) {
						return false
					}
				}
			}
			return true
		},
		gen.IntRange(0, 200),
		gen.IntRange(0, 200),
		gen.IntRange(0, 200),
	))

	properties.TestingRun(t)
}
