// Package ebitenr renders draw data through ebiten. Vertices are
// transformed on the CPU with the same matrices a GPU pipeline would
// use, then flat-shaded triangles are pushed through DrawTriangles.
package ebitenr

import (
	"fmt"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/verin/lumitrack/internal/render"
)

type instancedUnit struct {
	instances []render.Instance
	vertices  []mgl32.Vec3
	indices   []uint16
}

type mosvUnit struct {
	objects       []render.Instance
	objectIndices []uint32
	vertices      []mgl32.Vec3
	indices       []uint16
}

type Backend struct {
	width, height int

	instanced []instancedUnit
	mosv      []mosvUnit
	uniform   render.SceneUniform

	white *ebiten.Image
}

func New(width, height int) *Backend {
	blank := ebiten.NewImage(3, 3)
	blank.Fill(color.White)
	return &Backend{
		width:  width,
		height: height,
		white:  blank.SubImage(blank.Bounds().Inset(1)).(*ebiten.Image),
	}
}

func (b *Backend) Submit(desc render.Description) error {
	if desc.SceneUniformSize != render.SceneUniformSize {
		return fmt.Errorf("scene uniform size %v, expected %v",
			desc.SceneUniformSize, render.SceneUniformSize)
	}
	b.instanced = b.instanced[:0]
	for i, u := range desc.Instanced {
		instances, err := render.UnpackInstances(u.InstanceData)
		if err != nil {
			return fmt.Errorf("instanced unit %v: %w", i, err)
		}
		if len(instances) != u.InstanceCount {
			return fmt.Errorf("instanced unit %v: decoded %v instances, declared %v",
				i, len(instances), u.InstanceCount)
		}
		b.instanced = append(b.instanced, instancedUnit{
			instances: instances,
			vertices:  u.Vertices,
			indices:   u.Indices,
		})
	}
	b.mosv = b.mosv[:0]
	for i, u := range desc.MOSV {
		objects, err := render.UnpackInstances(u.ObjectData)
		if err != nil {
			return fmt.Errorf("object unit %v: %w", i, err)
		}
		if len(u.ObjectIndices) != len(u.Vertices) {
			return fmt.Errorf("object unit %v: %v object indices for %v vertices",
				i, len(u.ObjectIndices), len(u.Vertices))
		}
		b.mosv = append(b.mosv, mosvUnit{
			objects:       objects,
			objectIndices: u.ObjectIndices,
			vertices:      u.Vertices,
			indices:       u.Indices,
		})
	}
	return nil
}

func (b *Backend) UpdateInstanceData(unit int, data []byte) error {
	if unit < 0 || unit >= len(b.instanced) {
		return fmt.Errorf("draw unit %v out of range", unit)
	}
	expected := len(b.instanced[unit].instances) * render.InstanceStride
	if len(data) != expected {
		return fmt.Errorf("draw unit %v: update is %v bytes, buffer is %v bytes",
			unit, len(data), expected)
	}
	instances, err := render.UnpackInstances(data)
	if err != nil {
		return err
	}
	b.instanced[unit].instances = instances
	return nil
}

func (b *Backend) UpdateGlobalUniform(data []byte) error {
	uniform, err := render.UnpackUniform(data)
	if err != nil {
		return err
	}
	b.uniform = uniform
	return nil
}

// RenderFrame is a no-op here. Ebiten pulls frames through Draw, so the
// backend just holds the latest state until the game loop asks for it.
func (b *Backend) RenderFrame() error {
	return nil
}

// Draw projects every unit's geometry and rasterizes it onto screen, in
// submission order so later units paint over earlier ones.
func (b *Backend) Draw(screen *ebiten.Image) {
	batch := triangleBatch{target: screen, source: b.white}
	for _, u := range b.instanced {
		for _, instance := range u.instances {
			transform := b.objectTransform(instance)
			projected, visible := b.project(u.vertices, transform)
			for i := range projected {
				projected[i].color = instance.Color
			}
			batch.add(projected, visible, u.indices)
		}
		batch.flush()
	}
	for _, u := range b.mosv {
		projected := make([]vertex, len(u.vertices))
		visible := make([]bool, len(u.vertices))
		for i, v := range u.vertices {
			object := u.objects[u.objectIndices[i]]
			projected[i], visible[i] = b.projectOne(v, b.objectTransform(object))
			projected[i].color = object.Color
		}
		batch.add(projected, visible, u.indices)
		batch.flush()
	}
}

func (b *Backend) objectTransform(instance render.Instance) mgl32.Mat4 {
	transform := instance.Transform
	if instance.ApplyRunnerTransform {
		transform = b.uniform.RunnerTransform.Mul4(transform)
	}
	return b.uniform.ViewProjection.Mul4(transform)
}

type vertex struct {
	x, y  float32
	color mgl32.Vec4
}

func (b *Backend) project(vertices []mgl32.Vec3, transform mgl32.Mat4) ([]vertex, []bool) {
	out := make([]vertex, len(vertices))
	visible := make([]bool, len(vertices))
	for i, v := range vertices {
		out[i], visible[i] = b.projectOne(v, transform)
	}
	return out, visible
}

func (b *Backend) projectOne(v mgl32.Vec3, transform mgl32.Mat4) (vertex, bool) {
	clip := transform.Mul4x1(v.Vec4(1))
	// Cull anything at or behind the camera plane rather than divide
	// through a non-positive w.
	if clip.W() <= 0 {
		return vertex{}, false
	}
	ndcX := clip.X() / clip.W()
	ndcY := clip.Y() / clip.W()
	return vertex{
		x: (ndcX + 1) / 2 * float32(b.width),
		y: (1 - ndcY) / 2 * float32(b.height),
	}, true
}

// triangleBatch accumulates projected triangles and hands them to
// DrawTriangles in as few calls as the uint16 index space allows.
type triangleBatch struct {
	target *ebiten.Image
	source *ebiten.Image

	vertices []ebiten.Vertex
	indices  []uint16
}

// add appends the triangles whose three corners all projected in front
// of the camera.
func (t *triangleBatch) add(vertices []vertex, visible []bool, indices []uint16) {
	if len(t.vertices)+len(vertices) > math.MaxUint16 {
		t.flush()
	}
	base := uint16(len(t.vertices))
	for _, v := range vertices {
		t.vertices = append(t.vertices, ebiten.Vertex{
			DstX:   v.x,
			DstY:   v.y,
			SrcX:   1,
			SrcY:   1,
			ColorR: v.color[0],
			ColorG: v.color[1],
			ColorB: v.color[2],
			ColorA: v.color[3],
		})
	}
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		if !visible[a] || !visible[b] || !visible[c] {
			continue
		}
		t.indices = append(t.indices, base+a, base+b, base+c)
	}
}

func (t *triangleBatch) flush() {
	if len(t.indices) == 0 {
		return
	}
	t.target.DrawTriangles(t.vertices, t.indices, t.source, &ebiten.DrawTrianglesOptions{
		AntiAlias: true,
	})
	t.vertices = t.vertices[:0]
	t.indices = t.indices[:0]
}
