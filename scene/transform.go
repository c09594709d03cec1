package scene

import (
	"fmt"

	"github.com/plus3/vane/vmath"
)

// Transform holds an entity's local pose and its links into the hierarchy.
// Pose fields are free to mutate; hierarchy links are maintained through the
// owning Scene so parent and child lists never disagree.
type Transform struct {
	Position vmath.Vec3
	Rotation vmath.Quat
	Scale    vmath.Vec3

	parent   EntityID
	children []EntityID
}

// Parent returns the parent entity, or NoEntity at the hierarchy root
func (t *Transform) Parent() EntityID {
	return t.parent
}

// Children returns a copy of the ordered child list
func (t *Transform) Children() []EntityID {
	out := make([]EntityID, len(t.children))
	copy(out, t.children)
	return out
}

// SetParent re-parents child under parent, or unparents it when parent is
// NoEntity. Fails on dead entities, self-parenting, cycles, and on parenting
// a scene member under a detached entity. Parenting a detached child under a
// member adds the child's subtree to the scene.
func (s *Scene) SetParent(child, parent EntityID) error {
	cs := s.slot(child)
	if cs == nil {
		return fmt.Errorf("scene: set parent: entity %d is not alive", child)
	}

	if parent == NoEntity {
		s.unlink(child, cs)
		s.InvalidateCache()
		return nil
	}

	ps := s.slot(parent)
	if ps == nil {
		return fmt.Errorf("scene: set parent: parent %d is not alive", parent)
	}
	if child == parent {
		return fmt.Errorf("scene: entity %d cannot be its own parent", child)
	}
	if cs.member && !ps.member {
		return fmt.Errorf("scene: cannot parent scene member %d under detached entity %d", child, parent)
	}

	// reject cycles: child must not appear in parent's ancestor chain
	for cur := parent; cur != NoEntity; {
		if cur == child {
			return fmt.Errorf("scene: parenting %d under %d would create a cycle", child, parent)
		}
		sl := s.slot(cur)
		if sl == nil {
			break
		}
		cur = sl.transform.parent
	}

	s.unlink(child, cs)
	cs.transform.parent = parent
	ps.transform.children = append(ps.transform.children, child)

	if ps.member && !cs.member {
		if err := s.AddEntity(child); err != nil {
			return err
		}
	}

	s.InvalidateCache()
	return nil
}

// unlink removes child from its current parent's child list
func (s *Scene) unlink(child EntityID, cs *slot) {
	p := cs.transform.parent
	cs.transform.parent = NoEntity
	if p == NoEntity {
		return
	}
	ps := s.slot(p)
	if ps == nil {
		return
	}
	kids := ps.transform.children
	for i, id := range kids {
		if id == child {
			ps.transform.children = append(kids[:i], kids[i+1:]...)
			return
		}
	}
}

// WorldPosition returns the entity's derived world-space position
func (s *Scene) WorldPosition(id EntityID) vmath.Vec3 {
	sl := s.slot(id)
	if sl == nil {
		return vmath.Vec3{}
	}
	t := &sl.transform
	if s.slot(t.parent) == nil {
		return t.Position
	}
	pp := s.WorldPosition(t.parent)
	pr := s.WorldRotation(t.parent)
	psc := s.WorldScale(t.parent)
	return pp.Add(pr.Rotate(t.Position.Mul(psc)))
}

// WorldRotation returns the entity's derived world-space rotation
func (s *Scene) WorldRotation(id EntityID) vmath.Quat {
	sl := s.slot(id)
	if sl == nil {
		return vmath.QuatIdentity()
	}
	t := &sl.transform
	if s.slot(t.parent) == nil {
		return t.Rotation
	}
	return s.WorldRotation(t.parent).Mul(t.Rotation)
}

// WorldScale returns the entity's derived world-space scale
func (s *Scene) WorldScale(id EntityID) vmath.Vec3 {
	sl := s.slot(id)
	if sl == nil {
		return vmath.Vec3{X: 1, Y: 1, Z: 1}
	}
	t := &sl.transform
	if s.slot(t.parent) == nil {
		return t.Scale
	}
	return s.WorldScale(t.parent).Mul(t.Scale)
}

// SetWorldPose sets the entity's local pose such that its derived world pose
// equals the given position and rotation. Used by physics write-back, which
// works in world space.
func (s *Scene) SetWorldPose(id EntityID, pos vmath.Vec3, rot vmath.Quat) {
	sl := s.slot(id)
	if sl == nil {
		return
	}
	t := &sl.transform
	if s.slot(t.parent) == nil {
		t.Position = pos
		t.Rotation = rot
		return
	}
	pp := s.WorldPosition(t.parent)
	pr := s.WorldRotation(t.parent)
	psc := s.WorldScale(t.parent)
	inv := pr.Conjugate()
	t.Position = inv.Rotate(pos.Sub(pp)).Div(psc)
	t.Rotation = inv.Mul(rot)
}
