package physics

import (
	"github.com/plus3/vane/physics/dynamics"
	"github.com/plus3/vane/vmath"
)

// Conversions between the engine's float64 math types and the world's
// native float32 ones. Converted on every access, never cached: the native
// body is the source of truth.

func toVector3(v vmath.Vec3) dynamics.Vector3 {
	return dynamics.Vector3{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}

func fromVector3(v dynamics.Vector3) vmath.Vec3 {
	return vmath.Vec3{X: float64(v.X), Y: float64(v.Y), Z: float64(v.Z)}
}

func toQuaternion(q vmath.Quat) dynamics.Quaternion {
	return dynamics.Quaternion{X: float32(q.X), Y: float32(q.Y), Z: float32(q.Z), W: float32(q.W)}
}

func fromQuaternion(q dynamics.Quaternion) vmath.Quat {
	return vmath.Quat{X: float64(q.X), Y: float64(q.Y), Z: float64(q.Z), W: float64(q.W)}
}
