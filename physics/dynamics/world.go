// Package dynamics is the engine's default rigid-body world: gravity
// integration with fixed-timestep sub-stepping, per-body broad-phase
// proxies, and a nearest-hit ray query. No collision response, no spatial
// partitioning; the bridge consumes exactly this surface.
package dynamics

import (
	"errors"
	"math"
)

var (
	errNilBody     = errors.New("dynamics: nil body")
	errUnknownBody = errors.New("dynamics: body not in this world")
)

const (
	// FixedTimeStep is the internal integration step in seconds
	FixedTimeStep = 1.0 / 120.0
	// MaxSubSteps bounds the integrations one Step call may run
	MaxSubSteps = 10
)

// Proxy is the broad-phase entry for one body. Spatial queries return
// proxies; the owning body is reachable directly.
type Proxy struct {
	body   *Body
	bounds Bounds
}

// Body returns the rigid body this proxy stands for
func (p *Proxy) Body() *Body { return p.body }

// Bounds returns the proxy's current world-space box
func (p *Proxy) Bounds() Bounds { return p.bounds }

// World owns the simulation state: bodies, their broad-phase proxies, and
// the time accumulator for fixed sub-stepping.
type World struct {
	gravity     Vector3
	fixedStep   float64
	maxSubSteps int
	bodies      []*Body
	proxies     map[*Body]*Proxy
	acc         float64
	steps       uint64
}

// NewWorld creates an empty world with the given gravity and the default
// step tuning.
func NewWorld(gravity Vector3) *World {
	return &World{
		gravity:     gravity,
		fixedStep:   FixedTimeStep,
		maxSubSteps: MaxSubSteps,
		proxies:     make(map[*Body]*Proxy),
	}
}

// Gravity returns the world's gravity vector
func (w *World) Gravity() Vector3 { return w.gravity }

// SetGravity sets the world's gravity vector
func (w *World) SetGravity(g Vector3) { w.gravity = g }

// SetStepTuning overrides the integration step length and the sub-step bound.
// Non-positive values keep the current setting.
func (w *World) SetStepTuning(step float64, maxSubSteps int) {
	if step > 0 {
		w.fixedStep = step
	}
	if maxSubSteps > 0 {
		w.maxSubSteps = maxSubSteps
	}
}

// CreateBody adds a new dynamic body at the origin and returns it
func (w *World) CreateBody() *Body {
	b := &Body{
		orientation: QuaternionIdentity(),
		friction:    0.5,
		world:       w,
	}
	w.bodies = append(w.bodies, b)
	w.proxies[b] = &Proxy{body: b}
	w.updateProxy(b)
	return b
}

// RemoveBody takes the body out of the world, dropping its proxy. Removing
// a nil body or one the world does not own is an error.
func (w *World) RemoveBody(b *Body) error {
	if b == nil {
		return errNilBody
	}
	for i, cur := range w.bodies {
		if cur == b {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			delete(w.proxies, b)
			b.world = nil
			return nil
		}
	}
	return errUnknownBody
}

// NumBodies returns the number of bodies in the world
func (w *World) NumBodies() int { return len(w.bodies) }

// Steps returns the total number of fixed integration steps taken
func (w *World) Steps() uint64 { return w.steps }

// Step advances the simulation by dt seconds, integrating in fixed-step
// slices and carrying any remainder into the next call. At most the sub-step
// bound of integrations run per call; time beyond that is dropped. Returns
// the number of integrations performed.
func (w *World) Step(dt float64) int {
	if dt <= 0 {
		return 0
	}
	w.acc += dt

	n := 0
	for w.acc >= w.fixedStep && n < w.maxSubSteps {
		w.integrate(w.fixedStep)
		w.acc -= w.fixedStep
		n++
	}
	if w.acc >= w.fixedStep {
		w.acc = math.Mod(w.acc, w.fixedStep)
	}
	return n
}

// integrate runs one semi-implicit Euler step of h seconds
func (w *World) integrate(h float64) {
	hf := float32(h)
	for _, b := range w.bodies {
		if b.static {
			continue
		}
		accel := w.gravity.Add(b.force)
		b.linearVelocity = b.linearVelocity.Add(accel.Scale(hf))
		b.position = b.position.Add(b.linearVelocity.Scale(hf))

		b.angularVelocity = b.angularVelocity.Add(b.torque.Scale(hf))
		if av := b.angularVelocity; av != (Vector3{}) {
			dq := Quaternion{X: av.X, Y: av.Y, Z: av.Z}.Mul(b.orientation)
			b.orientation = Quaternion{
				X: b.orientation.X + dq.X*0.5*hf,
				Y: b.orientation.Y + dq.Y*0.5*hf,
				Z: b.orientation.Z + dq.Z*0.5*hf,
				W: b.orientation.W + dq.W*0.5*hf,
			}.Normalize()
		}

		b.force = Vector3{}
		b.torque = Vector3{}
		w.updateProxy(b)
	}
	w.steps++
}

// updateProxy refits the body's broad-phase box: the union of its shapes'
// corner points carried through the body pose, or a point box for a
// shapeless body.
func (w *World) updateProxy(b *Body) {
	p, ok := w.proxies[b]
	if !ok {
		return
	}
	bounds := Bounds{Min: b.position, Max: b.position}
	for _, s := range b.shapes {
		lb := s.LocalBounds()
		for _, c := range [8]Vector3{
			{lb.Min.X, lb.Min.Y, lb.Min.Z},
			{lb.Max.X, lb.Min.Y, lb.Min.Z},
			{lb.Min.X, lb.Max.Y, lb.Min.Z},
			{lb.Max.X, lb.Max.Y, lb.Min.Z},
			{lb.Min.X, lb.Min.Y, lb.Max.Z},
			{lb.Max.X, lb.Min.Y, lb.Max.Z},
			{lb.Min.X, lb.Max.Y, lb.Max.Z},
			{lb.Max.X, lb.Max.Y, lb.Max.Z},
		} {
			bounds = bounds.Extend(b.orientation.Rotate(c).Add(b.position))
		}
	}
	p.bounds = bounds
}
