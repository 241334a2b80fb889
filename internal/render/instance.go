package render

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/verin/lumitrack/internal/scene"
)

// GPU layout of one object instance: a column-major 4x4 transform, an
// RGBA base color, the runner-transform flag, and padding to a 16-byte
// boundary. All fields little-endian f32/u32.
const (
	InstanceStride = 96

	offsetColor = 64
	offsetFlags = 80
)

// SceneUniform is the shared per-frame GPU state.
type SceneUniform struct {
	ViewProjection  mgl32.Mat4
	RunnerTransform mgl32.Mat4
}

const SceneUniformSize = 128

func (u *SceneUniform) Bytes() []byte {
	out := make([]byte, 0, SceneUniformSize)
	out = appendMat4(out, u.ViewProjection)
	out = appendMat4(out, u.RunnerTransform)
	return out
}

func appendFloat(out []byte, f float32) []byte {
	return binary.LittleEndian.AppendUint32(out, math.Float32bits(f))
}

func appendMat4(out []byte, m mgl32.Mat4) []byte {
	for _, f := range m {
		out = appendFloat(out, f)
	}
	return out
}

func appendInstance(out []byte, transform mgl32.Mat4, color mgl32.Vec4, applyRunner bool) []byte {
	out = appendMat4(out, transform)
	for _, f := range color {
		out = appendFloat(out, f)
	}
	flag := uint32(0)
	if applyRunner {
		flag = 1
	}
	out = binary.LittleEndian.AppendUint32(out, flag)
	out = append(out, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0)
	return out
}

// InstanceBytes packs object instances into their GPU representation.
func InstanceBytes(objects []scene.ObjectInstance) []byte {
	out := make([]byte, 0, len(objects)*InstanceStride)
	for _, o := range objects {
		transform := mgl32.Translate3D(o.Lateral, 0, o.Depth)
		out = appendInstance(out, transform, o.Color, o.ApplyRunnerTransform)
	}
	return out
}

// EvadeInstanceBytes packs evade instances at the given positions. The
// positions slice holds the current (lateral, depth) of each instance.
func EvadeInstanceBytes(evades []scene.EvadeInstance, positions []mgl32.Vec2) []byte {
	out := make([]byte, 0, len(evades)*InstanceStride)
	for i, e := range evades {
		transform := mgl32.Translate3D(positions[i].X(), 0, positions[i].Y())
		out = appendInstance(out, transform, e.Color, true)
	}
	return out
}

// Instance is the decoded form of one GPU instance slot, for backends
// that transform on the CPU.
type Instance struct {
	Transform            mgl32.Mat4
	Color                mgl32.Vec4
	ApplyRunnerTransform bool
}

// UnpackInstances decodes packed instance bytes.
func UnpackInstances(data []byte) ([]Instance, error) {
	if len(data)%InstanceStride != 0 {
		return nil, fmt.Errorf("instance data length %v is not a multiple of the stride %v",
			len(data), InstanceStride)
	}
	instances := make([]Instance, 0, len(data)/InstanceStride)
	for base := 0; base < len(data); base += InstanceStride {
		var instance Instance
		for i := 0; i < 16; i++ {
			instance.Transform[i] = readFloat(data, base+i*4)
		}
		for i := 0; i < 4; i++ {
			instance.Color[i] = readFloat(data, base+offsetColor+i*4)
		}
		instance.ApplyRunnerTransform = binary.LittleEndian.Uint32(data[base+offsetFlags:]) != 0
		instances = append(instances, instance)
	}
	return instances, nil
}

// UnpackUniform decodes the shared scene uniform.
func UnpackUniform(data []byte) (SceneUniform, error) {
	if len(data) != SceneUniformSize {
		return SceneUniform{}, fmt.Errorf("scene uniform length %v, want %v", len(data), SceneUniformSize)
	}
	var u SceneUniform
	for i := 0; i < 16; i++ {
		u.ViewProjection[i] = readFloat(data, i*4)
		u.RunnerTransform[i] = readFloat(data, 64+i*4)
	}
	return u, nil
}

func readFloat(data []byte, offset int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(data[offset:]))
}
