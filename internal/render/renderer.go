package render

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/verin/lumitrack/internal/scene"
)

// Renderer is the backend boundary. Submit translates draw units into
// backend draw state once; the update calls replace byte regions and must
// reject wrong sizes rather than truncate; RenderFrame issues the draw
// calls in unit order, grouped by pipeline.
type Renderer interface {
	Submit(desc Description) error
	UpdateInstanceData(unit int, data []byte) error
	UpdateGlobalUniform(data []byte) error
	RenderFrame() error
}

// TrackRenderer drives a backend for one loaded chart: it owns the scene
// uniform and recomputes the evade unit's instance data as time advances.
type TrackRenderer struct {
	backend Renderer
	batch   *Batch
	uniform SceneUniform

	positions []mgl32.Vec2 // scratch, one per evade instance
}

func NewTrackRenderer(backend Renderer, batch *Batch) (*TrackRenderer, error) {
	if err := backend.Submit(batch.Description); err != nil {
		return nil, fmt.Errorf("unable to submit draw data: %w", err)
	}
	return &TrackRenderer{
		backend:   backend,
		batch:     batch,
		positions: make([]mgl32.Vec2, len(batch.Evades)),
	}, nil
}

func (t *TrackRenderer) SetViewProjection(m mgl32.Mat4) {
	t.uniform.ViewProjection = m
}

// SetRunnerPosition advances the global scroll transform and refreshes
// every time-dependent instance for the given chart time. Idempotent in
// now: the same time always produces the same positions.
func (t *TrackRenderer) SetRunnerPosition(position float32, now float64) error {
	t.uniform.RunnerTransform = mgl32.Translate3D(0, 0, -position)

	if t.batch.EvadeUnit < 0 {
		return nil
	}
	for i, e := range t.batch.Evades {
		t.positions[i] = evadePosition(e, float32(now))
	}
	// Full-region re-upload every frame.
	data := EvadeInstanceBytes(t.batch.Evades, t.positions)
	if err := t.backend.UpdateInstanceData(t.batch.EvadeUnit, data); err != nil {
		return fmt.Errorf("unable to update evade instances: %w", err)
	}
	return nil
}

// evadePosition interpolates an evade note between its start and end
// positions. Before the trigger time the note has not begun moving; after
// trigger+duration it has settled at its end position.
func evadePosition(e scene.EvadeInstance, now float32) mgl32.Vec2 {
	switch {
	case now < e.Trigger:
		return e.Start
	case now >= e.Trigger+e.Duration:
		return e.End
	}
	t := (now - e.Trigger) / e.Duration
	return mgl32.Vec2{
		e.Start[0] + t*(e.End[0]-e.Start[0]),
		e.Start[1] + t*(e.End[1]-e.Start[1]),
	}
}

// Render uploads the scene uniform and issues the frame's draw calls.
func (t *TrackRenderer) Render() error {
	if err := t.backend.UpdateGlobalUniform(t.uniform.Bytes()); err != nil {
		return err
	}
	return t.backend.RenderFrame()
}
