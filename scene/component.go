package scene

// Component is the contract every attachable behavior or data block fulfils.
// Concrete components embed ComponentBase, which supplies the whole contract;
// the unexported bind method keeps outside packages from implementing
// Component without the base.
type Component interface {
	// Enabled reports whether the component takes part in default queries
	// and behaviour updates.
	Enabled() bool
	SetEnabled(bool)
	// Owner returns the entity this component is attached to, or NoEntity.
	Owner() EntityID

	bind(EntityID)
}

// ComponentBase is the embeddable root of every component. Its zero value is
// enabled and unowned.
type ComponentBase struct {
	disabled bool
	owner    EntityID
}

// Enabled reports whether the component is enabled
func (c *ComponentBase) Enabled() bool { return !c.disabled }

// SetEnabled toggles the component's enabled flag
func (c *ComponentBase) SetEnabled(on bool) { c.disabled = !on }

// Owner returns the owning entity, or NoEntity while detached
func (c *ComponentBase) Owner() EntityID { return c.owner }

func (c *ComponentBase) bind(owner EntityID) { c.owner = owner }

// Attacher is implemented by components that need work done when they join
// an entity. A non-nil error aborts the attach and leaves the component
// detached.
type Attacher interface {
	OnAttach(s *Scene, owner EntityID) error
}

// Detacher is implemented by components that release resources when removed
// from their entity or when the entity is destroyed.
type Detacher interface {
	OnDetach(s *Scene, owner EntityID)
}

// Behaviour is the capability for components that run logic every frame.
// Scene.Update invokes enabled behaviours on active entities.
type Behaviour interface {
	Component
	Update(s *Scene, owner EntityID, dt float64)
}
