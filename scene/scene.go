package scene

import (
	"fmt"
	"reflect"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/plus3/vane/event"
	"github.com/plus3/vane/vmath"
)

// slot is one arena cell. Entities, their transforms, and their component
// lists live here; everything else refers to them by EntityID.
type slot struct {
	generation uint32
	alive      bool
	member     bool

	name       string
	active     bool
	guid       uuid.UUID
	transform  Transform
	components []Component
}

// Scene owns the live set of entities, the component cache, the active
// camera, and the environment settings. All entity state lives in the
// scene's slot arena; cross-references between entities are generation-
// checked IDs resolved through the scene, never pointers.
//
// A scene is single-threaded: all mutation and queries happen on the frame
// goroutine.
type Scene struct {
	name string
	id   uuid.UUID
	reg  *TypeRegistry
	log  *zap.Logger

	slots []slot
	free  []uint32
	order []EntityID

	activeCamera EntityID
	env          Environment

	cache componentCache

	// Destroyed announces each destroyed entity exactly once, after its
	// components are detached and before its slot is recycled. The scene
	// itself subscribes to it to drop the entity's membership.
	Destroyed *event.Stream[EntityID]
	removeSub event.Subscription

	updating bool
	pending  []deferredOp
	closed   bool
}

// newScene builds a scene with no entities. NewScene and LoadScene add the
// defaults or the persisted content on top.
func newScene(name string, reg *TypeRegistry, log *zap.Logger) *Scene {
	if reg == nil {
		panic("scene: nil type registry")
	}
	if log == nil {
		log = zap.NewNop()
	}
	s := &Scene{
		name:      name,
		id:        uuid.New(),
		reg:       reg,
		log:       log,
		Destroyed: event.NewStream[EntityID](),
	}
	s.removeSub = s.Destroyed.Subscribe(s.removeEntityNow)
	return s
}

// NewScene creates an empty scene carrying the default camera and light.
// The registry must already have the builtin kinds registered (RegisterBuiltin).
func NewScene(name string, reg *TypeRegistry, log *zap.Logger) *Scene {
	s := newScene(name, reg, log)

	cam := s.Spawn("Main Camera")
	if err := s.Attach(cam, NewCamera()); err != nil {
		panic(fmt.Sprintf("scene: default camera: %v", err))
	}
	s.Transform(cam).Position = vmath.Vec3{Y: 1, Z: -10}

	light := s.Spawn("Directional Light")
	if err := s.Attach(light, NewLight()); err != nil {
		panic(fmt.Sprintf("scene: default light: %v", err))
	}
	s.Transform(light).Position = vmath.Vec3{Y: 3}

	return s
}

// Name returns the scene's name
func (s *Scene) Name() string { return s.name }

// ID returns the scene's persistent asset identity
func (s *Scene) ID() uuid.UUID { return s.id }

// Registry returns the type registry the scene was built against
func (s *Scene) Registry() *TypeRegistry { return s.reg }

// Environment returns the scene's mutable environment settings
func (s *Scene) Environment() *Environment { return &s.env }

func (s *Scene) slot(id EntityID) *slot {
	if id == NoEntity {
		return nil
	}
	idx := id.Index()
	if int(idx) >= len(s.slots) {
		return nil
	}
	sl := &s.slots[idx]
	if !sl.alive || sl.generation != id.Generation() {
		return nil
	}
	return sl
}

func (s *Scene) alloc(name string) (EntityID, *slot) {
	var idx uint32
	if n := len(s.free); n > 0 {
		idx = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		s.slots = append(s.slots, slot{generation: 1})
		idx = uint32(len(s.slots) - 1)
	}
	sl := &s.slots[idx]
	sl.alive = true
	sl.member = false
	sl.name = name
	sl.active = true
	sl.guid = uuid.New()
	sl.transform = Transform{
		Rotation: vmath.QuatIdentity(),
		Scale:    vmath.Vec3{X: 1, Y: 1, Z: 1},
	}
	sl.components = nil
	return NewEntityID(idx, sl.generation), sl
}

// Spawn creates a new entity and adds it to the scene
func (s *Scene) Spawn(name string) EntityID {
	id, _ := s.alloc(name)
	if s.updating {
		s.pending = append(s.pending, deferredOp{kind: opAdd, id: id})
		return id
	}
	_ = s.addEntityNow(id)
	return id
}

// SpawnDetached creates a new entity that is alive but not yet a scene
// member. Instantiation flows build a subtree detached, then add its root
// with AddEntity or parent it under a member.
func (s *Scene) SpawnDetached(name string) EntityID {
	id, _ := s.alloc(name)
	return id
}

// AddEntity adds the entity and, recursively, any of its transform children
// that are not yet members. Adding a member again is a no-op; adding a dead
// entity fails.
func (s *Scene) AddEntity(id EntityID) error {
	if s.slot(id) == nil {
		return fmt.Errorf("scene: add entity: %d is not alive", id)
	}
	if s.updating {
		s.pending = append(s.pending, deferredOp{kind: opAdd, id: id})
		return nil
	}
	return s.addEntityNow(id)
}

func (s *Scene) addEntityNow(id EntityID) error {
	sl := s.slot(id)
	if sl == nil {
		return fmt.Errorf("scene: add entity: %d is not alive", id)
	}
	if sl.member {
		return nil
	}
	sl.member = true
	s.order = append(s.order, id)
	s.InvalidateCache()

	for _, child := range sl.transform.children {
		if cs := s.slot(child); cs != nil && !cs.member {
			if err := s.addEntityNow(child); err != nil {
				return err
			}
		}
	}
	return nil
}

// RemoveEntity drops the entity's scene membership without destroying it.
// The destruction notification invokes this for every destroyed entity.
// Unknown or non-member IDs are a no-op.
func (s *Scene) RemoveEntity(id EntityID) {
	if s.updating {
		s.pending = append(s.pending, deferredOp{kind: opRemove, id: id})
		return
	}
	s.removeEntityNow(id)
}

func (s *Scene) removeEntityNow(id EntityID) {
	for i, cur := range s.order {
		if cur == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			if sl := s.slot(id); sl != nil {
				sl.member = false
			}
			s.InvalidateCache()
			return
		}
	}
}

// Destroy destroys the entity and its transform subtree: components are
// detached (detach hooks run), the destruction notification fires once per
// entity, and the slots are recycled. Destroying a dead or stale ID is a
// no-op. During a behaviour pass the destruction is deferred to the end of
// the pass.
func (s *Scene) Destroy(id EntityID) {
	if s.updating {
		s.pending = append(s.pending, deferredOp{kind: opDestroy, id: id})
		return
	}
	s.destroyNow(id)
}

func (s *Scene) destroyNow(id EntityID) {
	sl := s.slot(id)
	if sl == nil {
		return
	}
	// mark dead first so reentrant destroys of this id are no-ops
	sl.alive = false

	for _, child := range sl.transform.Children() {
		s.destroyNow(child)
	}

	for i := len(sl.components) - 1; i >= 0; i-- {
		c := sl.components[i]
		if d, ok := c.(Detacher); ok {
			d.OnDetach(s, id)
		}
		c.bind(NoEntity)
	}

	s.unlink(id, sl)
	if id == s.activeCamera {
		s.activeCamera = NoEntity
	}

	s.Destroyed.Publish(id)

	sl.components = nil
	sl.member = false
	sl.generation++
	s.free = append(s.free, id.Index())
}

// Close destroys all remaining entities and releases the arena. The scene's
// own destruction subscriber is cancelled first, so teardown never calls
// back into the dying scene's membership bookkeeping. Idempotent.
func (s *Scene) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.removeSub.Cancel()

	for idx := range s.slots {
		sl := &s.slots[idx]
		if !sl.alive {
			continue
		}
		s.destroyNow(NewEntityID(uint32(idx), sl.generation))
	}

	s.slots = nil
	s.free = nil
	s.order = nil
	s.pending = nil
	s.activeCamera = NoEntity
	s.cache.buckets = nil
}

// Alive reports whether the ID resolves to a live entity
func (s *Scene) Alive(id EntityID) bool {
	return s.slot(id) != nil
}

// Len returns the number of scene members
func (s *Scene) Len() int { return len(s.order) }

// EntityIDs returns the members in scene order
func (s *Scene) EntityIDs() []EntityID {
	out := make([]EntityID, len(s.order))
	copy(out, s.order)
	return out
}

// ActiveEntityIDs returns the members whose active flag is set, in scene order
func (s *Scene) ActiveEntityIDs() []EntityID {
	out := make([]EntityID, 0, len(s.order))
	for _, id := range s.order {
		if sl := s.slot(id); sl != nil && sl.active {
			out = append(out, id)
		}
	}
	return out
}

// EntityName returns the entity's display name
func (s *Scene) EntityName(id EntityID) string {
	if sl := s.slot(id); sl != nil {
		return sl.name
	}
	return ""
}

// SetEntityName renames the entity
func (s *Scene) SetEntityName(id EntityID, name string) {
	if sl := s.slot(id); sl != nil {
		sl.name = name
	}
}

// EntityActive reports the entity's own active flag
func (s *Scene) EntityActive(id EntityID) bool {
	sl := s.slot(id)
	return sl != nil && sl.active
}

// SetEntityActive flips the entity's active flag. Not a structural change:
// queries filter on the flag at read time, so no cache invalidation happens.
func (s *Scene) SetEntityActive(id EntityID, active bool) {
	if sl := s.slot(id); sl != nil {
		sl.active = active
	}
}

// GUID returns the entity's persistent identity, or the zero UUID
func (s *Scene) GUID(id EntityID) uuid.UUID {
	if sl := s.slot(id); sl != nil {
		return sl.guid
	}
	return uuid.UUID{}
}

// FindByGUID resolves a persistent identity to the live entity carrying it
func (s *Scene) FindByGUID(guid uuid.UUID) EntityID {
	for idx := range s.slots {
		sl := &s.slots[idx]
		if sl.alive && sl.guid == guid {
			return NewEntityID(uint32(idx), sl.generation)
		}
	}
	return NoEntity
}

// Transform returns the entity's transform, or nil for dead IDs. The pointer
// stays valid until the entity is destroyed.
func (s *Scene) Transform(id EntityID) *Transform {
	if sl := s.slot(id); sl != nil {
		return &sl.transform
	}
	return nil
}

// Attach adds the component to the entity. The component's kind must be
// registered and the component must not already be attached. Attach hooks
// run immediately; a hook error aborts the attach.
func (s *Scene) Attach(id EntityID, c Component) error {
	if c == nil {
		return fmt.Errorf("scene: attach: nil component")
	}
	sl := s.slot(id)
	if sl == nil {
		return fmt.Errorf("scene: attach: entity %d is not alive", id)
	}
	if c.Owner() != NoEntity {
		return fmt.Errorf("scene: attach: component %T already attached to %d", c, c.Owner())
	}
	t := reflect.TypeOf(c)
	if _, ok := s.reg.KindFor(t); !ok {
		return fmt.Errorf("scene: attach: component kind %s is not registered", t)
	}
	if s.updating {
		s.pending = append(s.pending, deferredOp{kind: opAttach, id: id, comp: c})
		return nil
	}
	return s.attachNow(id, sl, c)
}

func (s *Scene) attachNow(id EntityID, sl *slot, c Component) error {
	c.bind(id)
	sl.components = append(sl.components, c)
	s.InvalidateCache()

	if at, ok := c.(Attacher); ok {
		if err := at.OnAttach(s, id); err != nil {
			sl.components = sl.components[:len(sl.components)-1]
			c.bind(NoEntity)
			return fmt.Errorf("scene: attach %T to %d: %w", c, id, err)
		}
	}

	if _, ok := c.(*Camera); ok && s.activeCamera == NoEntity {
		s.activeCamera = id
	}
	return nil
}

// Detach removes the component from the entity. Returns false when the
// component is not attached to that entity.
func (s *Scene) Detach(id EntityID, c Component) bool {
	sl := s.slot(id)
	if sl == nil || c == nil {
		return false
	}
	attached := false
	for _, cur := range sl.components {
		if cur == c {
			attached = true
			break
		}
	}
	if !attached {
		return false
	}
	if s.updating {
		s.pending = append(s.pending, deferredOp{kind: opDetach, id: id, comp: c})
		return true
	}
	s.detachNow(id, sl, c)
	return true
}

func (s *Scene) detachNow(id EntityID, sl *slot, c Component) {
	for i, cur := range sl.components {
		if cur != c {
			continue
		}
		sl.components = append(sl.components[:i], sl.components[i+1:]...)
		if d, ok := c.(Detacher); ok {
			d.OnDetach(s, id)
		}
		c.bind(NoEntity)

		if id == s.activeCamera {
			if _, isCam := c.(*Camera); isCam {
				s.activeCamera = s.firstCamera()
			}
		}
		s.InvalidateCache()
		return
	}
}

// ComponentsOn returns a copy of the entity's component list in attach order
func (s *Scene) ComponentsOn(id EntityID) []Component {
	sl := s.slot(id)
	if sl == nil {
		return nil
	}
	out := make([]Component, len(sl.components))
	copy(out, sl.components)
	return out
}

// ComponentOn returns the first component on the entity assignable to T
func ComponentOn[T any](s *Scene, id EntityID) (T, bool) {
	var zero T
	sl := s.slot(id)
	if sl == nil {
		return zero, false
	}
	for _, c := range sl.components {
		if v, ok := c.(T); ok {
			return v, true
		}
	}
	return zero, false
}

// ActiveCamera returns the entity holding the scene's camera, or NoEntity.
// A cameraless scene is legal (it can come out of deserialization); render
// consumers are expected to check and degrade, not crash.
func (s *Scene) ActiveCamera() EntityID { return s.activeCamera }

// SetActiveCamera points the scene at the given camera entity. NoEntity
// clears the selection; otherwise the entity must be alive and carry a Camera.
func (s *Scene) SetActiveCamera(id EntityID) error {
	if id == NoEntity {
		s.activeCamera = NoEntity
		return nil
	}
	if s.slot(id) == nil {
		return fmt.Errorf("scene: set camera: entity %d is not alive", id)
	}
	if _, ok := ComponentOn[*Camera](s, id); !ok {
		return fmt.Errorf("scene: set camera: entity %d has no Camera component", id)
	}
	s.activeCamera = id
	return nil
}

func (s *Scene) firstCamera() EntityID {
	for _, id := range s.order {
		if _, ok := ComponentOn[*Camera](s, id); ok {
			return id
		}
	}
	return NoEntity
}

// Lights returns the scene's enabled lights on active entities
func (s *Scene) Lights() []*Light {
	return Components[*Light](s)
}
