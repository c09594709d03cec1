package physics

import (
	"github.com/plus3/vane/physics/dynamics"
	"github.com/plus3/vane/scene"
	"github.com/plus3/vane/vmath"
)

// Body adapts one native rigid body to the engine's math types. Every
// accessor validates the native handle before touching it and converts
// between vmath and the world's representation on the spot; nothing is
// cached, the native body stays the source of truth. After unregistration
// the handle is cleared, turning all accessors into harmless no-ops.
type Body struct {
	id       scene.EntityID
	native   *dynamics.Body
	onUpdate func(*Body)
}

// ID returns the listener identity the body was registered under
func (b *Body) ID() scene.EntityID {
	if b == nil {
		return scene.NoEntity
	}
	return b.id
}

// Valid reports whether the body still holds a live native handle
func (b *Body) Valid() bool {
	return b != nil && b.native != nil
}

// SetUpdateCallback registers fn to run after every simulation step. The
// callback typically reads the pose back into the owning entity.
func (b *Body) SetUpdateCallback(fn func(*Body)) {
	if b == nil {
		return
	}
	b.onUpdate = fn
}

func (b *Body) notifyUpdated() {
	if b.Valid() && b.onUpdate != nil {
		b.onUpdate(b)
	}
}

// Position returns the body's world-space position
func (b *Body) Position() vmath.Vec3 {
	if !b.Valid() {
		return vmath.Vec3{}
	}
	return fromVector3(b.native.Position())
}

// SetPosition teleports the body
func (b *Body) SetPosition(p vmath.Vec3) {
	if b.Valid() {
		b.native.SetPosition(toVector3(p))
	}
}

// Velocity returns the body's linear velocity
func (b *Body) Velocity() vmath.Vec3 {
	if !b.Valid() {
		return vmath.Vec3{}
	}
	return fromVector3(b.native.LinearVelocity())
}

// SetVelocity sets the body's linear velocity
func (b *Body) SetVelocity(v vmath.Vec3) {
	if b.Valid() {
		b.native.SetLinearVelocity(toVector3(v))
	}
}

// AngularVelocity returns the body's angular velocity
func (b *Body) AngularVelocity() vmath.Vec3 {
	if !b.Valid() {
		return vmath.Vec3{}
	}
	return fromVector3(b.native.AngularVelocity())
}

// SetAngularVelocity sets the body's angular velocity
func (b *Body) SetAngularVelocity(v vmath.Vec3) {
	if b.Valid() {
		b.native.SetAngularVelocity(toVector3(v))
	}
}

// Orientation returns the body's orientation
func (b *Body) Orientation() vmath.Quat {
	if !b.Valid() {
		return vmath.QuatIdentity()
	}
	return fromQuaternion(b.native.Orientation())
}

// SetOrientation sets the body's orientation
func (b *Body) SetOrientation(q vmath.Quat) {
	if b.Valid() {
		b.native.SetOrientation(toQuaternion(q))
	}
}

// Friction returns the body's friction coefficient
func (b *Body) Friction() float64 {
	if !b.Valid() {
		return 0
	}
	return float64(b.native.Friction())
}

// SetFriction sets the body's friction coefficient
func (b *Body) SetFriction(f float64) {
	if b.Valid() {
		b.native.SetFriction(float32(f))
	}
}

// Static reports whether the body is excluded from simulation
func (b *Body) Static() bool {
	if !b.Valid() {
		return false
	}
	return b.native.Static()
}

// SetStatic flips the body between static and dynamic
func (b *Body) SetStatic(static bool) {
	if b.Valid() {
		b.native.SetStatic(static)
	}
}

// AddHullShape attaches a convex hull built from the given points, sampled
// and thickness-corrected by NewConvexHullShape.
func (b *Body) AddHullShape(points []vmath.Vec3) {
	if b.Valid() && len(points) > 0 {
		b.native.AddShape(NewConvexHullShape(points))
	}
}

// ApplyForce accumulates a force for the next step. No-op on static bodies.
func (b *Body) ApplyForce(f vmath.Vec3) {
	if b.Valid() && !b.native.Static() {
		b.native.ApplyForce(toVector3(f))
	}
}

// ApplyImpulse changes the body's velocity immediately. No-op on static bodies.
func (b *Body) ApplyImpulse(i vmath.Vec3) {
	if b.Valid() && !b.native.Static() {
		b.native.ApplyImpulse(toVector3(i))
	}
}

// ApplyTorque accumulates a torque for the next step. No-op on static bodies.
func (b *Body) ApplyTorque(t vmath.Vec3) {
	if b.Valid() && !b.native.Static() {
		b.native.ApplyTorque(toVector3(t))
	}
}
