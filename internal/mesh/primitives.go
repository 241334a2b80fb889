package mesh

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Cuboid builds an axis-aligned box centered on the origin.
func Cuboid(xLength, yLength, zLength float32) Mesh {
	x, y, z := xLength/2, yLength/2, zLength/2
	vertices := []mgl32.Vec3{
		{-x, -y, -z}, {x, -y, -z}, {x, y, -z}, {-x, y, -z},
		{-x, -y, z}, {x, -y, z}, {x, y, z}, {-x, y, z},
	}
	indices := []uint16{
		0, 1, 2, 0, 2, 3, // back
		4, 6, 5, 4, 7, 6, // front
		0, 3, 7, 0, 7, 4, // left
		1, 5, 6, 1, 6, 2, // right
		3, 2, 6, 3, 6, 7, // top
		0, 4, 5, 0, 5, 1, // bottom
	}
	return Mesh{Vertices: vertices, Indices: indices}
}

// Ring builds a flat annulus on the xz plane, used for contact and evade
// note markers. The circles are closed by repeating the first point, which
// lets the strip triangulation wrap the ring.
func Ring(radius, width float32, segments int) Mesh {
	if segments < 3 {
		segments = 3
	}
	outer := make([]mgl32.Vec3, segments+1)
	inner := make([]mgl32.Vec3, segments+1)
	for i := 0; i <= segments; i++ {
		angle := 2 * math.Pi * float64(i%segments) / float64(segments)
		sin, cos := float32(math.Sin(angle)), float32(math.Cos(angle))
		outer[i] = mgl32.Vec3{(radius + width/2) * cos, 0, (radius + width/2) * sin}
		inner[i] = mgl32.Vec3{(radius - width/2) * cos, 0, (radius - width/2) * sin}
	}
	return StripBetween(outer, inner)
}
