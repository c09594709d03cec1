// Package physics bridges the scene to the rigid-body world: it owns the
// world handle, maps listener identities to body adapters, steps simulation
// on each frame signal, and resolves raycasts back to engine identities.
package physics

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kamstrup/intmap"
	"go.uber.org/zap"

	"github.com/plus3/vane/event"
	"github.com/plus3/vane/physics/dynamics"
	"github.com/plus3/vane/scene"
)

var (
	// ErrAlreadyInitialized is returned by Init on a live manager
	ErrAlreadyInitialized = errors.New("physics: manager already initialized")
	// ErrNilProvider is returned by Init without a world provider
	ErrNilProvider = errors.New("physics: nil world provider")
	// ErrNotInitialized is returned by operations on a manager before Init
	ErrNotInitialized = errors.New("physics: manager not initialized")
	// ErrDuplicateBody is returned when an identity registers twice
	ErrDuplicateBody = errors.New("physics: identity already has a body")
)

// Stats is a point-in-time view of the bridge for overlays and reports
type Stats struct {
	Bodies    int
	Steps     uint64
	LastStep  time.Duration
	TotalStep time.Duration
}

// Manager owns the physics world and the identity map. Lifecycle:
// uninitialized, Init, stepping via signals, Cleanup. One exclusive mutex
// guards the identity map; reentrant calls issued by body update callbacks
// on the frame goroutine are detected and deferred rather than deadlocking.
type Manager struct {
	mu  sync.Mutex
	log *zap.Logger

	world  *dynamics.World
	caster *Raycaster

	bodies *intmap.Map[scene.EntityID, *Body]
	order  []*Body

	subs        []event.Subscription
	initialized bool
	removing    bool

	inNotify       atomic.Bool
	pendingDestroy []*Body

	lastStep  time.Duration
	totalStep time.Duration
}

// NewManager creates an uninitialized bridge
func NewManager(log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		log:    log,
		bodies: intmap.New[scene.EntityID, *Body](64),
	}
}

// Init constructs the world through the provider and subscribes the bridge
// to the host signals. Fails fast when called twice or without a provider.
func (m *Manager) Init(provider WorldProvider, sig *Signals) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return ErrAlreadyInitialized
	}
	if provider == nil {
		return ErrNilProvider
	}
	if sig == nil {
		return fmt.Errorf("physics: init: nil signals")
	}

	world, err := provider.ProvideWorld()
	if err != nil {
		return fmt.Errorf("physics: init: %w", err)
	}
	m.world = world
	m.caster = newRaycaster(world)

	m.subs = []event.Subscription{
		sig.BodyCreated.Bind(m.createBody),
		sig.BodyDestroyed.Subscribe(m.destroyBody),
		sig.RaycastRequest.Bind(m.raycast),
		sig.FrameUpdate.Subscribe(m.step),
		sig.Shutdown.Subscribe(func(struct{}) { m.Cleanup() }),
	}

	m.initialized = true
	m.log.Info("physics bridge initialized")
	return nil
}

// Initialized reports whether the bridge is live
func (m *Manager) Initialized() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.initialized
}

// CreateBody registers a body for the identity and hands it back. The body
// starts static at the world origin; duplicate registration fails loudly.
func (m *Manager) CreateBody(id scene.EntityID) (*Body, error) {
	return m.createBody(id)
}

func (m *Manager) createBody(id scene.EntityID) (*Body, error) {
	if m.inNotify.Load() {
		return nil, fmt.Errorf("physics: create body for %v during update notification", id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return nil, ErrNotInitialized
	}
	if _, exists := m.bodies.Get(id); exists {
		return nil, fmt.Errorf("%w: %v", ErrDuplicateBody, id)
	}

	native := m.world.CreateBody()
	native.SetStatic(true)
	native.SetUserData(id)

	b := &Body{id: id, native: native}
	m.bodies.Put(id, b)
	m.order = append(m.order, b)

	m.log.Debug("body registered", zap.Uint64("identity", uint64(id)))
	return b, nil
}

// DestroyBody unregisters the body: world removal first, then the identity
// map entry, then the handle is cleared. Unknown bodies are a no-op. Issued
// from inside an update callback, the destruction is deferred to the end of
// the notification pass.
func (m *Manager) DestroyBody(b *Body) {
	m.destroyBody(b)
}

func (m *Manager) destroyBody(b *Body) {
	if b == nil {
		return
	}
	if m.inNotify.Load() {
		// the frame goroutine is inside the notification pass and already
		// holds the lock
		m.pendingDestroy = append(m.pendingDestroy, b)
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.destroyLocked(b)
}

func (m *Manager) destroyLocked(b *Body) {
	if !m.initialized {
		return
	}
	cur, ok := m.bodies.Get(b.id)
	if !ok || cur != b {
		return
	}

	m.removing = true
	if err := m.world.RemoveBody(b.native); err != nil {
		m.log.Warn("removing body from world",
			zap.Uint64("identity", uint64(b.id)), zap.Error(err))
	}
	m.bodies.Del(b.id)
	for i, cur := range m.order {
		if cur == b {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	b.native = nil
	m.removing = false

	m.log.Debug("body unregistered", zap.Uint64("identity", uint64(b.id)))
}

// Raycast resolves the ray to the identity of the nearest registered body,
// or NoEntity. Safe to call from inside an update callback.
func (m *Manager) Raycast(ray Ray) (scene.EntityID, error) {
	return m.raycast(ray)
}

func (m *Manager) raycast(ray Ray) (scene.EntityID, error) {
	if m.inNotify.Load() {
		return m.castLocked(ray)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.castLocked(ray)
}

func (m *Manager) castLocked(ray Ray) (scene.EntityID, error) {
	if !m.initialized {
		return scene.NoEntity, ErrNotInitialized
	}
	return m.caster.Cast(ray), nil
}

// step advances the world by the frame delta, then notifies every
// registered body under the registration lock. A removal in progress
// suppresses the pass; bodies queued for destruction by an earlier callback
// in the same pass are not notified.
func (m *Manager) step(frame event.Frame) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}

	start := time.Now()
	m.world.Step(frame.Delta)
	m.lastStep = time.Since(start)
	m.totalStep += m.lastStep

	if m.removing {
		return
	}

	m.inNotify.Store(true)
	for _, b := range m.order {
		if m.isPendingDestroy(b) {
			continue
		}
		b.notifyUpdated()
	}
	m.inNotify.Store(false)

	pending := m.pendingDestroy
	m.pendingDestroy = nil
	for _, b := range pending {
		m.destroyLocked(b)
	}
}

func (m *Manager) isPendingDestroy(b *Body) bool {
	for _, p := range m.pendingDestroy {
		if p == b {
			return true
		}
	}
	return false
}

// Stats returns a snapshot of the bridge's counters
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := Stats{
		Bodies:    len(m.order),
		LastStep:  m.lastStep,
		TotalStep: m.totalStep,
	}
	if m.world != nil {
		st.Steps = m.world.Steps()
	}
	return st
}

// Cleanup unsubscribes from all signals, removes every remaining body from
// the world best-effort, and clears the identity map. Idempotent; a no-op
// before Init.
func (m *Manager) Cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}

	for _, sub := range m.subs {
		sub.Cancel()
	}
	m.subs = nil

	for _, b := range m.order {
		if err := m.world.RemoveBody(b.native); err != nil {
			m.log.Warn("cleanup: removing body",
				zap.Uint64("identity", uint64(b.id)), zap.Error(err))
		}
		b.native = nil
	}
	m.order = nil
	m.bodies.Clear()
	m.pendingDestroy = nil

	m.world = nil
	m.caster = nil
	m.initialized = false
	m.log.Info("physics bridge cleaned up")
}
