package mesh

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func line(n int, x float32) []mgl32.Vec3 {
	points := make([]mgl32.Vec3, n)
	for i := range points {
		points[i] = mgl32.Vec3{x, 0, float32(i)}
	}
	return points
}

type stripTest struct {
	Left, Right      int
	ExpectedVertices int
}

func TestStripBetween(t *testing.T) {
	tests := []stripTest{
		{Left: 2, Right: 2, ExpectedVertices: 4},
		{Left: 3, Right: 3, ExpectedVertices: 6},
		{Left: 5, Right: 2, ExpectedVertices: 10},
		{Left: 2, Right: 7, ExpectedVertices: 14},
	}
	for _, test := range tests {
		m := StripBetween(line(test.Left, -1), line(test.Right, 1))
		if len(m.Vertices) != test.ExpectedVertices {
			t.Log("Sides   ", test.Left, test.Right)
			t.Log("Vertices", len(m.Vertices))
			t.Log("Expected", test.ExpectedVertices)
			t.Fail()
		}
		if len(m.Indices) != 3*(len(m.Vertices)-2) {
			t.Log("Sides  ", test.Left, test.Right)
			t.Log("Indices", len(m.Indices))
			t.Fail()
		}
	}
}

func TestStripFanOutTail(t *testing.T) {
	left := line(4, -1)
	right := line(2, 1)
	m := StripBetween(left, right)

	// Once the short side runs out its last vertex anchors every
	// remaining pair.
	last := right[1]
	for i := 5; i < len(m.Vertices); i += 2 {
		if m.Vertices[i] != last {
			t.Log("Vertex  ", i, m.Vertices[i])
			t.Log("Expected", last)
			t.Fail()
		}
	}
}

func TestStripWindowIndices(t *testing.T) {
	m := StripBetween(line(3, -1), line(3, 1))
	expected := []uint16{
		0, 1, 2, 1, 2, 3,
		2, 3, 4, 3, 4, 5,
	}
	if len(m.Indices) != len(expected) {
		t.Fatal("index count", len(m.Indices), "expected", len(expected))
	}
	for i, want := range expected {
		if m.Indices[i] != want {
			t.Log("Index   ", i, m.Indices[i])
			t.Log("Expected", want)
			t.Fail()
		}
	}
}

func TestStripRejectsShortBoundary(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic for a single-point boundary")
		}
	}()
	StripBetween(line(1, -1), line(4, 1))
}

func TestStripProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("vertex count is even and every index is in range", prop.ForAll(
		func(left, right int) bool {
			m := StripBetween(line(left, -1), line(right, 1))
			if len(m.Vertices)%2 != 0 {
				return false
			}
			if len(m.Vertices) != 2*max(left, right) {
				return false
			}
			for _, i := range m.Indices {
				if int(i) >= len(m.Vertices) {
					return false
				}
			}
			return len(m.Indices) == 3*(len(m.Vertices)-2)
		},
		gen.IntRange(2, 64),
		gen.IntRange(2, 64),
	))

	properties.TestingRun(t)
}

func TestRibbon(t *testing.T) {
	path := []mgl32.Vec3{{0, 0, 0}, {1, 0, 5}}
	m := Ribbon(path, 0.5)
	if len(m.Vertices) != 4 {
		t.Fatal("vertex count", len(m.Vertices))
	}
	if m.Vertices[0].X() != -0.25 || m.Vertices[1].X() != 0.25 {
		t.Log("Edge vertices", m.Vertices[0], m.Vertices[1])
		t.Fail()
	}
	if m.Vertices[2].X() != 0.75 || m.Vertices[3].X() != 1.25 {
		t.Log("Edge vertices", m.Vertices[2], m.Vertices[3])
		t.Fail()
	}
}
