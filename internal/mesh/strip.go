package mesh

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// StripBetween triangulates the ribbon between two boundary point
// sequences. The sides are walked in lock-step emitting interleaved
// (left, right) vertex pairs; when one side runs out, its last vertex is
// paired with the remainder of the other side so unequal boundaries leave
// no gap. Both sides must have at least 2 points; a single-point boundary
// is malformed chart data and caught upstream.
//
// Vertices are deliberately duplicated per pair so the vertex index parity
// tells a shader which side a vertex is on.
func StripBetween(left, right []mgl32.Vec3) Mesh {
	if len(left) < 2 || len(right) < 2 {
		panic(fmt.Sprintf("strip boundary needs at least 2 points, got %v and %v", len(left), len(right)))
	}

	vertices := make([]mgl32.Vec3, 0, len(left)+len(right))
	n := len(left)
	if len(right) < n {
		n = len(right)
	}
	for i := 0; i < n; i++ {
		vertices = append(vertices, left[i], right[i])
	}
	// Fan-out tail for the longer side.
	for i := n; i < len(left); i++ {
		vertices = append(vertices, left[i], right[n-1])
	}
	for i := n; i < len(right); i++ {
		vertices = append(vertices, left[n-1], right[i])
	}

	// Two triangles per stride-2 window of 4 vertices.
	indices := make([]uint16, 0, 3*(len(vertices)-2))
	for i := 0; i+3 < len(vertices); i += 2 {
		v := uint16(i)
		indices = append(indices,
			v, v+1, v+2,
			v+1, v+2, v+3,
		)
	}

	return Mesh{Vertices: vertices, Indices: indices}
}

// Ribbon widens a single path into a strip of the given width along the
// lateral axis.
func Ribbon(points []mgl32.Vec3, width float32) Mesh {
	left := make([]mgl32.Vec3, len(points))
	right := make([]mgl32.Vec3, len(points))
	for i, p := range points {
		left[i] = mgl32.Vec3{p.X() - width/2, p.Y(), p.Z()}
		right[i] = mgl32.Vec3{p.X() + width/2, p.Y(), p.Z()}
	}
	return StripBetween(left, right)
}
