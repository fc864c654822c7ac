package sim

import (
	"math"

	"github.com/ricksterhd123/recorder/pkg/core"
)

// basisFromEuler builds the left/forward/up basis columns from a ZXY
// euler rotation in degrees. forward is the rotated Y axis, up the
// rotated Z axis.
func basisFromEuler(rot core.Vec3) (left, forward, up core.Hom4) {
	rx := rot.X * math.Pi / 180
	ry := rot.Y * math.Pi / 180
	rz := rot.Z * math.Pi / 180

	cx, sx := math.Cos(rx), math.Sin(rx)
	cy, sy := math.Cos(ry), math.Sin(ry)
	cz, sz := math.Cos(rz), math.Sin(rz)

	left = core.Hom4{
		X: cz*cy - sz*sx*sy,
		Y: sz*cy + cz*sx*sy,
		Z: -cx * sy,
	}
	forward = core.Hom4{
		X: -sz * cx,
		Y: cz * cx,
		Z: sx,
	}
	up = core.Hom4{
		X: cz*sy + sz*sx*cy,
		Y: sz*sy - cz*sx*cy,
		Z: cx * cy,
	}
	return left, forward, up
}

// eulerFromBasis inverts basisFromEuler. At gimbal lock (pitch near
// ±90°) roll collapses into yaw, which is fine for the simulated world.
func eulerFromBasis(left, forward, up core.Hom4) core.Vec3 {
	sx := clamp(forward.Z, -1, 1)
	rx := math.Asin(sx)
	rz := math.Atan2(-forward.X, forward.Y)
	ry := math.Atan2(-left.Z, up.Z)

	return core.Vec3{
		X: rx * 180 / math.Pi,
		Y: ry * 180 / math.Pi,
		Z: rz * 180 / math.Pi,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
