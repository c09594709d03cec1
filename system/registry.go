package system

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Registry holds one instance per subsystem type, plus the configuration
// values InitAll matches against Configurable systems. All access goes
// through one exclusive mutex; callers range from startup code to signal
// handlers and debug panels.
type Registry struct {
	mu      sync.Mutex
	log     *zap.Logger
	systems map[reflect.Type]System
	order   []System
	configs map[reflect.Type]any
	done    map[reflect.Type]bool
}

// NewRegistry creates an empty registry
func NewRegistry(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		log:     log,
		systems: make(map[reflect.Type]System),
		configs: make(map[reflect.Type]any),
		done:    make(map[reflect.Type]bool),
	}
}

// Add registers a subsystem instance. Each concrete type registers at most
// once; a duplicate is a caller bug and fails.
func (r *Registry) Add(sys System) error {
	if sys == nil {
		return fmt.Errorf("system: add: nil system")
	}
	t := reflect.TypeOf(sys)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.systems[t]; dup {
		return fmt.Errorf("system: %s already registered", t)
	}
	r.systems[t] = sys
	r.order = append(r.order, sys)
	return nil
}

// Provide makes cfg discoverable by Configurable systems declaring its type.
// Providing a second value of the same type replaces the first.
func (r *Registry) Provide(cfg any) {
	if cfg == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.configs[reflect.TypeOf(cfg)] = cfg
}

// Len returns the number of registered systems
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}

// Summary reports the outcome of one InitAll pass by system name
type Summary struct {
	Initialized []string
	Skipped     []string
	Failed      []string
}

func (s Summary) String() string {
	parts := []string{fmt.Sprintf("%d initialized", len(s.Initialized))}
	if len(s.Skipped) > 0 {
		parts = append(parts, fmt.Sprintf("%d skipped (%s)", len(s.Skipped), strings.Join(s.Skipped, ", ")))
	}
	if len(s.Failed) > 0 {
		parts = append(parts, fmt.Sprintf("%d failed (%s)", len(s.Failed), strings.Join(s.Failed, ", ")))
	}
	return strings.Join(parts, ", ")
}

// InitAll initializes every system not yet initialized. A Configurable
// system with no matching provided config is skipped with a warning; an init
// error marks that one system failed. Neither aborts the pass: every
// system's outcome is tracked independently and the summary logged.
//
// Systems already initialized by an earlier pass are left alone, so late
// registrations can be picked up by calling InitAll again.
func (r *Registry) InitAll() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	var sum Summary
	for _, sys := range r.order {
		t := reflect.TypeOf(sys)
		if r.done[t] {
			continue
		}

		switch s := sys.(type) {
		case Configurable:
			cfg, ok := r.configs[s.ConfigKind()]
			if !ok {
				r.log.Warn("system skipped, no config provided",
					zap.String("system", sys.Name()),
					zap.Stringer("wants", s.ConfigKind()))
				sum.Skipped = append(sum.Skipped, sys.Name())
				continue
			}
			if err := s.InitWithConfig(cfg); err != nil {
				r.log.Error("system init failed",
					zap.String("system", sys.Name()), zap.Error(err))
				sum.Failed = append(sum.Failed, sys.Name())
				continue
			}
		case Initializer:
			if err := s.Init(); err != nil {
				r.log.Error("system init failed",
					zap.String("system", sys.Name()), zap.Error(err))
				sum.Failed = append(sum.Failed, sys.Name())
				continue
			}
		}

		r.done[t] = true
		sum.Initialized = append(sum.Initialized, sys.Name())
	}

	r.log.Info("systems initialized", zap.Stringer("summary", sum))
	return sum
}

// Get returns the registered system satisfying the contract type T.
// T is usually an interface; the first satisfying system in registration
// order wins.
func Get[T System](r *Registry) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, sys := range r.order {
		if v, ok := sys.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Renderers returns the render-capable systems sorted by ascending priority
func (r *Registry) Renderers() []Renderer {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Renderer, 0, len(r.order))
	for _, sys := range r.order {
		if rd, ok := sys.(Renderer); ok {
			out = append(out, rd)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RenderPriority() < out[j].RenderPriority()
	})
	return out
}

// Updaters returns the update-capable systems. The order carries no meaning.
func (r *Registry) Updaters() []Updater {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Updater, 0, len(r.order))
	for _, sys := range r.order {
		if u, ok := sys.(Updater); ok {
			out = append(out, u)
		}
	}
	return out
}
