// Package primitive holds the fixed-layout value types every tag is built
// from: numbers with semantic names, points, vectors, colors, bounds, the
// 32-byte string, tag paths, tag groups and tag references.
//
// All multi-byte values are big-endian on disk unless a field says
// otherwise; see Engine.
package primitive

import "math"

type (
	Angle    float32
	Fraction float32
)

type Point2D struct{ X, Y float32 }

type Point3D struct{ X, Y, Z float32 }

type Point2DInt struct{ X, Y int16 }

type Vector2D struct{ I, J float32 }

type Vector3D struct{ I, J, K float32 }

type Euler2D struct{ Yaw, Pitch Angle }

type Euler3D struct{ Yaw, Pitch, Roll Angle }

type Quaternion struct{ I, J, K, W float32 }

type Plane2D struct {
	Vector Vector2D
	W      float32
}

type Plane3D struct {
	Vector Vector3D
	W      float32
}

// Matrix is a 3x3 rotation matrix stored row by row.
type Matrix [3]Vector3D

// Rectangle is stored top, left, bottom, right.
type Rectangle struct{ Top, Left, Bottom, Right int16 }

func (r Rectangle) Width() int  { return int(r.Right) - int(r.Left) }
func (r Rectangle) Height() int { return int(r.Bottom) - int(r.Top) }

// FourCC is a 32-bit value read as four ASCII bytes, big-endian.
type FourCC uint32

func NewFourCC(s string) FourCC {
	var b [4]byte
	copy(b[:], s)
	return FourCC(uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]))
}

func (f FourCC) String() string {
	return string([]byte{byte(f >> 24), byte(f >> 16), byte(f >> 8), byte(f)})
}

// Index is an optional 16-bit index; IndexNone means no value.
type Index uint16

const IndexNone Index = 0xFFFF

func (i Index) IsNone() bool { return i == IndexNone }

func (i Index) Get() (uint16, bool) {
	if i.IsNone() {
		return 0, false
	}
	return uint16(i), true
}

func (v Vector3D) Length() float32 {
	return float32(math.Sqrt(float64(v.I*v.I + v.J*v.J + v.K*v.K)))
}

// VectorNormalize scales v to unit length. The zero vector is returned as is.
func VectorNormalize(v Vector3D) Vector3D {
	l := v.Length()
	if l == 0 {
		return v
	}
	return Vector3D{v.I / l, v.J / l, v.K / l}
}

func (p Plane3D) Distance(pt Point3D) float32 {
	return p.Vector.I*pt.X + p.Vector.J*pt.Y + p.Vector.K*pt.Z - p.W
}
