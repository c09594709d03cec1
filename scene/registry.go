package scene

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/cespare/xxhash/v2"
)

var componentIface = reflect.TypeOf((*Component)(nil)).Elem()

// Kind describes one registered concrete component type
type Kind struct {
	// Name is the stable identifier persisted in save records, derived from
	// the struct type (e.g. "scene.Light").
	Name string
	// Type is the pointer-to-struct type components of this kind have at runtime
	Type reflect.Type
	// ID keys the component cache; it is the xxhash of Name and therefore
	// stable across processes, unlike anything derived from runtime type
	// identity.
	ID uint64

	factory func() Component
}

// New creates a fresh, detached component of this kind
func (k *Kind) New() Component {
	return k.factory()
}

// Capability describes one registered query interface. Components are
// indexed under every capability their concrete type implements, so a query
// for the capability returns all implementations.
type Capability struct {
	Name string
	Type reflect.Type
	ID   uint64
}

// TypeRegistry maps component kinds and capabilities to stable identifiers.
// Each Scene is built against one registry; kinds must be registered before
// components of that kind are attached or deserialized.
//
// Registration is a setup-time concern: misuse (non-struct kinds, duplicate
// names, capabilities that do not embed Component) panics.
type TypeRegistry struct {
	mu       sync.RWMutex
	kinds    map[reflect.Type]*Kind
	byName   map[string]*Kind
	caps     []*Capability
	capTypes map[reflect.Type]*Capability

	// chains memoizes, per concrete type, the cache keys the type is indexed
	// under: its own kind ID plus the ID of every capability it implements.
	chains map[reflect.Type][]uint64
}

// NewTypeRegistry creates an empty registry
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		kinds:    make(map[reflect.Type]*Kind),
		byName:   make(map[string]*Kind),
		capTypes: make(map[reflect.Type]*Capability),
		chains:   make(map[reflect.Type][]uint64),
	}
}

// RegisterKind registers the component struct T with a default factory.
// T must be a struct whose pointer type implements Component.
func RegisterKind[T any](r *TypeRegistry) {
	RegisterKindFunc[T](r, func() Component {
		return any(new(T)).(Component)
	})
}

// RegisterKindFunc registers T with a custom factory, for kinds whose fresh
// instances need wiring beyond their zero value.
func RegisterKindFunc[T any](r *TypeRegistry, factory func() Component) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.Kind() != reflect.Struct {
		panic(fmt.Sprintf("scene: component kind %s must be a struct type", t))
	}
	pt := reflect.PointerTo(t)
	if !pt.Implements(componentIface) {
		panic(fmt.Sprintf("scene: %s does not implement Component (embed ComponentBase)", pt))
	}

	name := t.String()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.byName[name]; dup {
		panic(fmt.Sprintf("scene: component kind %s already registered", name))
	}

	k := &Kind{
		Name:    name,
		Type:    pt,
		ID:      xxhash.Sum64String(name),
		factory: factory,
	}
	r.kinds[pt] = k
	r.byName[name] = k
}

// RegisterCapability registers the interface T as a query capability.
// T must embed Component and must not be the Component root itself.
func RegisterCapability[T any](r *TypeRegistry) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.Kind() != reflect.Interface {
		panic(fmt.Sprintf("scene: capability %s must be an interface type", t))
	}
	if t == componentIface {
		panic("scene: the Component root is not a registrable capability")
	}
	if !t.Implements(componentIface) {
		panic(fmt.Sprintf("scene: capability %s must embed Component", t))
	}

	name := t.String()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.capTypes[t]; dup {
		panic(fmt.Sprintf("scene: capability %s already registered", name))
	}

	c := &Capability{Name: name, Type: t, ID: xxhash.Sum64String(name)}
	r.caps = append(r.caps, c)
	r.capTypes[t] = c

	// existing chains may gain this capability
	r.chains = make(map[reflect.Type][]uint64)
}

// KindFor returns the kind registered for the concrete pointer type t
func (r *TypeRegistry) KindFor(t reflect.Type) (*Kind, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	k, ok := r.kinds[t]
	return k, ok
}

// KindByName returns the kind registered under the given stable name
func (r *TypeRegistry) KindByName(name string) (*Kind, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	k, ok := r.byName[name]
	return k, ok
}

// KindNames returns the names of all registered kinds, sorted
func (r *TypeRegistry) KindNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// chainFor returns the cache keys the concrete type t is indexed under.
// Unregistered types have no chain.
func (r *TypeRegistry) chainFor(t reflect.Type) ([]uint64, bool) {
	r.mu.RLock()
	chain, ok := r.chains[t]
	r.mu.RUnlock()
	if ok {
		return chain, true
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if chain, ok := r.chains[t]; ok {
		return chain, true
	}
	k, ok := r.kinds[t]
	if !ok {
		return nil, false
	}

	chain = []uint64{k.ID}
	for _, c := range r.caps {
		if t.Implements(c.Type) {
			chain = append(chain, c.ID)
		}
	}
	r.chains[t] = chain
	return chain, true
}

// queryKey resolves the cache key for a query type: the capability ID for
// interfaces, the kind ID for concrete pointer types.
func (r *TypeRegistry) queryKey(t reflect.Type) (uint64, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if t.Kind() == reflect.Interface {
		c, ok := r.capTypes[t]
		if !ok {
			return 0, false
		}
		return c.ID, true
	}
	k, ok := r.kinds[t]
	if !ok {
		return 0, false
	}
	return k.ID, true
}
