// Package headless provides a renderer backend that performs every
// validation a real GPU backend would but draws nothing. It backs the
// --headless flag and the render tests.
package headless

import (
	"fmt"

	"github.com/verin/lumitrack/internal/render"
)

// Backend validates submitted draw data and all subsequent updates,
// recording counters instead of issuing draw calls.
type Backend struct {
	instancedSizes []int

	// Frames counts RenderFrame calls, Updates counts accepted
	// instance data uploads.
	Frames  int
	Updates int

	uniformSize int
}

func New() *Backend {
	return &Backend{uniformSize: render.SceneUniformSize}
}

func (b *Backend) Submit(desc render.Description) error {
	if desc.SceneUniformSize != b.uniformSize {
		return fmt.Errorf("scene uniform size %v, expected %v", desc.SceneUniformSize, b.uniformSize)
	}
	b.instancedSizes = b.instancedSizes[:0]
	for i, u := range desc.Instanced {
		if err := checkPipeline(desc, u.Pipeline, render.PipelineInstanced); err != nil {
			return fmt.Errorf("instanced unit %v: %w", i, err)
		}
		if len(u.InstanceData) != u.InstanceCount*render.InstanceStride {
			return fmt.Errorf("instanced unit %v: %v bytes for %v instances",
				i, len(u.InstanceData), u.InstanceCount)
		}
		b.instancedSizes = append(b.instancedSizes, len(u.InstanceData))
	}
	for i, u := range desc.MOSV {
		if err := checkPipeline(desc, u.Pipeline, render.PipelineMOSV); err != nil {
			return fmt.Errorf("object unit %v: %w", i, err)
		}
		if len(u.ObjectIndices) != len(u.Vertices) {
			return fmt.Errorf("object unit %v: %v object indices for %v vertices",
				i, len(u.ObjectIndices), len(u.Vertices))
		}
		if len(u.ObjectData) != u.ObjectCount*render.InstanceStride {
			return fmt.Errorf("object unit %v: %v bytes for %v objects",
				i, len(u.ObjectData), u.ObjectCount)
		}
	}
	return nil
}

func checkPipeline(desc render.Description, index int, kind render.PipelineKind) error {
	if index < 0 || index >= len(desc.Pipelines) {
		return fmt.Errorf("pipeline index %v out of range", index)
	}
	if desc.Pipelines[index].Kind != kind {
		return fmt.Errorf("pipeline %v has kind %v, unit expects %v",
			index, desc.Pipelines[index].Kind, kind)
	}
	return nil
}

// UpdateInstanceData replaces an instanced unit's instance bytes. The
// replacement must match the submitted region exactly.
func (b *Backend) UpdateInstanceData(unit int, data []byte) error {
	if unit < 0 || unit >= len(b.instancedSizes) {
		return fmt.Errorf("draw unit %v out of range", unit)
	}
	if len(data) != b.instancedSizes[unit] {
		return fmt.Errorf("draw unit %v: update is %v bytes, buffer is %v bytes",
			unit, len(data), b.instancedSizes[unit])
	}
	b.Updates++
	return nil
}

func (b *Backend) UpdateGlobalUniform(data []byte) error {
	if len(data) != b.uniformSize {
		return fmt.Errorf("uniform update is %v bytes, expected %v", len(data), b.uniformSize)
	}
	return nil
}

func (b *Backend) RenderFrame() error {
	b.Frames++
	return nil
}
