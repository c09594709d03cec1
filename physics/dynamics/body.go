package dynamics

// Body is one rigid body owned by a World. Bodies are unit mass; static
// bodies never integrate. All state access is plain field access behind
// accessors, so callers can treat the body as the source of truth.
type Body struct {
	position        Vector3
	linearVelocity  Vector3
	angularVelocity Vector3
	orientation     Quaternion
	friction        float32
	static          bool

	force  Vector3
	torque Vector3

	shapes   []*Shape
	userData any

	world *World
}

// Position returns the body's world-space position
func (b *Body) Position() Vector3 { return b.position }

// SetPosition teleports the body
func (b *Body) SetPosition(p Vector3) {
	b.position = p
	if b.world != nil {
		b.world.updateProxy(b)
	}
}

// LinearVelocity returns the body's linear velocity
func (b *Body) LinearVelocity() Vector3 { return b.linearVelocity }

// SetLinearVelocity sets the body's linear velocity
func (b *Body) SetLinearVelocity(v Vector3) { b.linearVelocity = v }

// AngularVelocity returns the body's angular velocity in radians per second
func (b *Body) AngularVelocity() Vector3 { return b.angularVelocity }

// SetAngularVelocity sets the body's angular velocity
func (b *Body) SetAngularVelocity(v Vector3) { b.angularVelocity = v }

// Orientation returns the body's orientation
func (b *Body) Orientation() Quaternion { return b.orientation }

// SetOrientation sets the body's orientation
func (b *Body) SetOrientation(q Quaternion) {
	b.orientation = q.Normalize()
	if b.world != nil {
		b.world.updateProxy(b)
	}
}

// Friction returns the body's friction coefficient
func (b *Body) Friction() float32 { return b.friction }

// SetFriction sets the body's friction coefficient
func (b *Body) SetFriction(f float32) { b.friction = f }

// Static reports whether the body is excluded from integration
func (b *Body) Static() bool { return b.static }

// SetStatic flips the body between static and dynamic. Going static zeroes
// the body's motion.
func (b *Body) SetStatic(static bool) {
	b.static = static
	if static {
		b.linearVelocity = Vector3{}
		b.angularVelocity = Vector3{}
		b.force = Vector3{}
		b.torque = Vector3{}
	}
}

// AddShape attaches a collision shape to the body
func (b *Body) AddShape(s *Shape) {
	if s == nil {
		return
	}
	b.shapes = append(b.shapes, s)
	if b.world != nil {
		b.world.updateProxy(b)
	}
}

// Shapes returns the body's attached shapes
func (b *Body) Shapes() []*Shape {
	out := make([]*Shape, len(b.shapes))
	copy(out, b.shapes)
	return out
}

// ApplyForce accumulates a force for the next integration step
func (b *Body) ApplyForce(f Vector3) {
	b.force = b.force.Add(f)
}

// ApplyImpulse changes the body's velocity immediately
func (b *Body) ApplyImpulse(i Vector3) {
	b.linearVelocity = b.linearVelocity.Add(i)
}

// ApplyTorque accumulates a torque for the next integration step
func (b *Body) ApplyTorque(t Vector3) {
	b.torque = b.torque.Add(t)
}

// SetUserData attaches an opaque tag to the body. The bridge stores the
// listener identity here so spatial query results resolve back without scans.
func (b *Body) SetUserData(v any) { b.userData = v }

// UserData returns the body's opaque tag
func (b *Body) UserData() any { return b.userData }
