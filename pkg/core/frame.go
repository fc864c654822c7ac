// Package core holds the plain value types shared across the recorder:
// frames, target descriptors and the persistence document. It has no
// dependencies beyond the standard library so that storage backends and
// the engine boundary can both import it.
package core

import "fmt"

// Shape identifies the payload layout shared by every frame in one
// recording. Shapes are fixed at creation time and never mixed.
type Shape uint8

const (
	// ShapeEuler stores position, rotation in degrees and velocity.
	ShapeEuler Shape = iota
	// ShapeMatrix stores the orientation basis (left/forward/up),
	// translation as homogeneous 4-vectors, and velocity.
	ShapeMatrix
)

// Scalar counts per frame for each shape.
const (
	EulerFrameLen  = 9
	MatrixFrameLen = 19
)

func (s Shape) String() string {
	switch s {
	case ShapeEuler:
		return "euler"
	case ShapeMatrix:
		return "matrix"
	}
	return fmt.Sprintf("shape(%d)", uint8(s))
}

// FrameLen returns the number of scalars a frame of this shape carries.
func (s Shape) FrameLen() int {
	if s == ShapeMatrix {
		return MatrixFrameLen
	}
	return EulerFrameLen
}

// ShapeForLen maps a serialized frame length back to its shape.
func ShapeForLen(n int) (Shape, error) {
	switch n {
	case EulerFrameLen:
		return ShapeEuler, nil
	case MatrixFrameLen:
		return ShapeMatrix, nil
	}
	return ShapeEuler, fmt.Errorf("frame length %d matches no known shape", n)
}

// ShapeForName parses a shape name from config ("euler" or "matrix").
func ShapeForName(name string) (Shape, error) {
	switch name {
	case "euler", "":
		return ShapeEuler, nil
	case "matrix":
		return ShapeMatrix, nil
	}
	return ShapeEuler, fmt.Errorf("unknown frame shape %q", name)
}

// Vec3 is a plain 3D vector in engine world units.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Hom4 is a homogeneous 4-component vector: one column of an entity
// transform matrix (basis vector or translation).
type Hom4 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
}

// Scalar offsets into the flat value array.
//
// Euler layout:  [px py pz rx ry rz vx vy vz]
// Matrix layout: [left(4) forward(4) up(4) translation(4) vx vy vz]
const (
	eulerRotOff = 3
	eulerVelOff = 6
	matForwOff  = 4
	matUpOff    = 8
	matTransOff = 12
	matVelOff   = 16
)

// Frame is a fixed-size sample of entity pose and motion at one instant.
// The zero Frame is an euler frame at the origin with no motion.
type Frame struct {
	shape Shape
	vals  [MatrixFrameLen]float64
}

// NewEulerFrame builds a frame from position, rotation (degrees) and
// velocity.
func NewEulerFrame(pos, rot, vel Vec3) Frame {
	var f Frame
	f.shape = ShapeEuler
	f.vals = [MatrixFrameLen]float64{
		pos.X, pos.Y, pos.Z,
		rot.X, rot.Y, rot.Z,
		vel.X, vel.Y, vel.Z,
	}
	return f
}

// NewMatrixFrame builds a frame from an orientation basis, translation and
// velocity.
func NewMatrixFrame(left, forward, up, translation Hom4, vel Vec3) Frame {
	var f Frame
	f.shape = ShapeMatrix
	f.vals = [MatrixFrameLen]float64{
		left.X, left.Y, left.Z, left.W,
		forward.X, forward.Y, forward.Z, forward.W,
		up.X, up.Y, up.Z, up.W,
		translation.X, translation.Y, translation.Z, translation.W,
		vel.X, vel.Y, vel.Z,
	}
	return f
}

// FrameFromValues rebuilds a frame from its flat serialized form. The
// slice length selects the shape; any other length is a validation error.
func FrameFromValues(vals []float64) (Frame, error) {
	shape, err := ShapeForLen(len(vals))
	if err != nil {
		return Frame{}, err
	}
	var f Frame
	f.shape = shape
	copy(f.vals[:], vals)
	return f, nil
}

// Shape returns the payload layout of this frame.
func (f Frame) Shape() Shape { return f.shape }

// Values returns the frame as a flat scalar array of length 9 or 19,
// suitable for serialization.
func (f Frame) Values() []float64 {
	out := make([]float64, f.shape.FrameLen())
	copy(out, f.vals[:])
	return out
}

// Position returns the sample position. For matrix frames this is the
// translation column's x/y/z.
func (f Frame) Position() Vec3 {
	if f.shape == ShapeMatrix {
		return Vec3{X: f.vals[matTransOff], Y: f.vals[matTransOff+1], Z: f.vals[matTransOff+2]}
	}
	return Vec3{X: f.vals[0], Y: f.vals[1], Z: f.vals[2]}
}

// Rotation returns euler rotation in degrees. Only meaningful for euler
// frames; matrix frames carry orientation in the basis vectors instead.
func (f Frame) Rotation() Vec3 {
	return Vec3{X: f.vals[eulerRotOff], Y: f.vals[eulerRotOff+1], Z: f.vals[eulerRotOff+2]}
}

// Velocity returns the sample velocity, valid for both shapes.
func (f Frame) Velocity() Vec3 {
	off := eulerVelOff
	if f.shape == ShapeMatrix {
		off = matVelOff
	}
	return Vec3{X: f.vals[off], Y: f.vals[off+1], Z: f.vals[off+2]}
}

// Left returns the left basis column of a matrix frame.
func (f Frame) Left() Hom4 { return f.hom4(0) }

// Forward returns the forward basis column of a matrix frame.
func (f Frame) Forward() Hom4 { return f.hom4(matForwOff) }

// Up returns the up basis column of a matrix frame.
func (f Frame) Up() Hom4 { return f.hom4(matUpOff) }

// Translation returns the translation column of a matrix frame.
func (f Frame) Translation() Hom4 { return f.hom4(matTransOff) }

func (f Frame) hom4(off int) Hom4 {
	return Hom4{X: f.vals[off], Y: f.vals[off+1], Z: f.vals[off+2], W: f.vals[off+3]}
}
