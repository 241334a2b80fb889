package mesh

import "github.com/go-gl/mathgl/mgl32"

// Mesh is an indexed triangle list. Vertices carry positions only; all
// other attributes live in per-instance or per-object data.
type Mesh struct {
	Vertices []mgl32.Vec3
	Indices  []uint16
}

// Transform returns a copy of the mesh with every vertex transformed.
func (m Mesh) Transform(t mgl32.Mat4) Mesh {
	vertices := make([]mgl32.Vec3, len(m.Vertices))
	for i, v := range m.Vertices {
		vertices[i] = mgl32.TransformCoordinate(v, t)
	}
	return Mesh{Vertices: vertices, Indices: append([]uint16(nil), m.Indices...)}
}

// Translate is shorthand for Transform with a translation matrix.
func (m Mesh) Translate(x, y, z float32) Mesh {
	return m.Transform(mgl32.Translate3D(x, y, z))
}
