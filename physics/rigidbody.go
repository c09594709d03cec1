package physics

import (
	"fmt"

	"github.com/plus3/vane/scene"
	"github.com/plus3/vane/vmath"
)

// Rigidbody mirrors its entity into the physics world. Attaching requests a
// body over the signal contract, seeded from the entity's world pose and
// the component settings; after every simulation step the body's pose is
// written back into the entity's transform. Detaching (or destroying the
// entity) unregisters the body.
//
// The collision hull comes from HullPoints when set, otherwise from the
// bounds of a Renderable attached to the same entity before this component.
// Without either the body participates shapeless (gravity only, no hits).
type Rigidbody struct {
	scene.ComponentBase

	Static     bool
	Friction   float64
	HullPoints []vmath.Vec3 `yaml:"hullPoints,omitempty"`

	signals *Signals
	body    *Body
}

// NewRigidbody creates a dynamic rigidbody that will register through sig
func NewRigidbody(sig *Signals) *Rigidbody {
	return &Rigidbody{Friction: 0.5, signals: sig}
}

// Body returns the registered body while attached, or nil
func (rb *Rigidbody) Body() *Body {
	return rb.body
}

// OnAttach requests a body for the owning entity and configures it
func (rb *Rigidbody) OnAttach(s *scene.Scene, owner scene.EntityID) error {
	if rb.signals == nil {
		return fmt.Errorf("rigidbody: no physics signals bound")
	}

	body, err := rb.signals.BodyCreated.Call(owner)
	if err != nil {
		return fmt.Errorf("rigidbody: requesting body: %w", err)
	}

	body.SetPosition(s.WorldPosition(owner))
	body.SetOrientation(s.WorldRotation(owner))
	body.SetStatic(rb.Static)
	body.SetFriction(rb.Friction)

	if pts := rb.hullFor(s, owner); len(pts) > 0 {
		body.AddHullShape(pts)
	}

	body.SetUpdateCallback(func(b *Body) {
		if !rb.Enabled() {
			return
		}
		s.SetWorldPose(owner, b.Position(), b.Orientation())
	})

	rb.body = body
	return nil
}

// OnDetach unregisters the body
func (rb *Rigidbody) OnDetach(*scene.Scene, scene.EntityID) {
	if rb.body == nil {
		return
	}
	rb.signals.BodyDestroyed.Publish(rb.body)
	rb.body = nil
}

func (rb *Rigidbody) hullFor(s *scene.Scene, owner scene.EntityID) []vmath.Vec3 {
	if len(rb.HullPoints) > 0 {
		return rb.HullPoints
	}
	r, ok := scene.ComponentOn[scene.Renderable](s, owner)
	if !ok {
		return nil
	}
	scale := s.WorldScale(owner)
	corners := r.Bounds().Corners()
	pts := make([]vmath.Vec3, len(corners))
	for i, c := range corners {
		pts[i] = c.Mul(scale)
	}
	return pts
}

// RegisterTypes registers the physics component kinds on reg, closing their
// factories over sig so deserialized instances can reach the bridge.
func RegisterTypes(reg *scene.TypeRegistry, sig *Signals) {
	scene.RegisterKindFunc[Rigidbody](reg, func() scene.Component {
		return NewRigidbody(sig)
	})
}
