// Package engine assembles the runtime: component type registry, live scene,
// physics bridge, and subsystem registry behind one application context with
// a frame loop. Hosts construct a Context, drive it with Tick or Run, and
// release it with Close; there is no global state.
package engine

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/plus3/vane/event"
	"github.com/plus3/vane/physics"
	"github.com/plus3/vane/scene"
	"github.com/plus3/vane/system"
	"github.com/plus3/vane/vmath"
)

// Context owns one engine instance. All methods belong to the host's frame
// goroutine; the context is not safe for concurrent use.
type Context struct {
	cfg     Config
	log     *zap.Logger
	types   *scene.TypeRegistry
	scene   *scene.Scene
	systems *system.Registry
	manager *physics.Manager
	signals *physics.Signals

	frames    uint64
	lastTick  time.Duration
	minTick   time.Duration
	maxTick   time.Duration
	totalTick time.Duration

	noCameraFlagged bool
	closed          bool
}

// Stats summarizes tick timings since construction
type Stats struct {
	Frames    uint64
	LastTick  time.Duration
	MinTick   time.Duration
	MaxTick   time.Duration
	AvgTick   time.Duration
	TotalTick time.Duration
}

// NewContext builds and initializes a context from the configuration. The
// scene comes from cfg.Scene when set, otherwise a fresh default scene.
func NewContext(cfg Config, log *zap.Logger) (*Context, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	types := scene.NewTypeRegistry()
	scene.RegisterBuiltin(types)

	sig := physics.NewSignals()
	physics.RegisterTypes(types, sig)

	manager := physics.NewManager(log)
	provider := physics.DefaultProvider{
		Gravity: vmath.Vec3{
			X: cfg.Physics.Gravity[0],
			Y: cfg.Physics.Gravity[1],
			Z: cfg.Physics.Gravity[2],
		},
		FixedStep:   cfg.Physics.FixedStep,
		MaxSubSteps: cfg.Physics.MaxSubSteps,
	}
	if err := manager.Init(provider, sig); err != nil {
		return nil, fmt.Errorf("engine: physics init: %w", err)
	}

	var sc *scene.Scene
	if cfg.Scene != "" {
		f, err := os.Open(cfg.Scene)
		if err != nil {
			manager.Cleanup()
			return nil, fmt.Errorf("engine: scene: %w", err)
		}
		sc, err = scene.LoadSceneFrom(f, types, log)
		f.Close()
		if err != nil {
			manager.Cleanup()
			return nil, fmt.Errorf("engine: scene: %w", err)
		}
	} else {
		sc = scene.NewScene("main", types, log)
	}

	c := &Context{
		cfg:     cfg,
		log:     log,
		types:   types,
		scene:   sc,
		systems: system.NewRegistry(log),
		manager: manager,
		signals: sig,
		minTick: time.Duration(1<<63 - 1),
	}
	log.Info("engine context ready",
		zap.String("scene", sc.Name()),
		zap.Int("entities", sc.Len()))
	return c, nil
}

// Config returns the configuration the context was built from
func (c *Context) Config() Config { return c.cfg }

// Log returns the engine logger
func (c *Context) Log() *zap.Logger { return c.log }

// Types returns the component type registry
func (c *Context) Types() *scene.TypeRegistry { return c.types }

// Scene returns the live scene
func (c *Context) Scene() *scene.Scene { return c.scene }

// Systems returns the subsystem registry
func (c *Context) Systems() *system.Registry { return c.systems }

// Physics returns the physics bridge manager
func (c *Context) Physics() *physics.Manager { return c.manager }

// Signals returns the signal bundle shared with the physics bridge
func (c *Context) Signals() *physics.Signals { return c.signals }

// Frame returns the number of ticks run so far
func (c *Context) Frame() uint64 { return c.frames }

// Tick runs one frame without input: physics step and pose write-back, then
// behaviour updates, then subsystem updaters.
func (c *Context) Tick(dt float64) {
	c.TickInput(dt, event.Input{})
}

// TickInput is Tick with the host's input snapshot for the frame
func (c *Context) TickInput(dt float64, in event.Input) {
	if c.closed {
		return
	}
	start := time.Now()
	frame := event.Frame{Delta: dt, Input: in}

	c.signals.FrameUpdate.Publish(frame)
	c.scene.Update(dt)
	for _, u := range c.systems.Updaters() {
		if err := u.Update(frame); err != nil {
			c.log.Error("system update failed",
				zap.String("system", u.Name()), zap.Error(err))
		}
	}

	d := time.Since(start)
	c.frames++
	c.lastTick = d
	c.totalTick += d
	if d < c.minTick {
		c.minTick = d
	}
	if d > c.maxTick {
		c.maxTick = d
	}
}

// Render runs the registered renderers in priority order. A scene without an
// active camera is tolerated; it is flagged once until a camera returns.
func (c *Context) Render() {
	if c.closed {
		return
	}
	if c.scene.ActiveCamera() == scene.NoEntity {
		if !c.noCameraFlagged {
			c.log.Warn("rendering without an active camera",
				zap.String("scene", c.scene.Name()))
			c.noCameraFlagged = true
		}
	} else {
		c.noCameraFlagged = false
	}
	for _, r := range c.systems.Renderers() {
		if err := r.Render(c.scene); err != nil {
			c.log.Error("render failed",
				zap.String("system", r.Name()), zap.Error(err))
		}
	}
}

// Run ticks the context at the given interval until ctx is cancelled or the
// context is closed. The frame delta is wall-clock elapsed time, so a slow
// tick stretches the next delta instead of losing time.
func (c *Context) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if c.closed {
				return
			}
			c.Tick(now.Sub(last).Seconds())
			last = now
		}
	}
}

// Close releases the scene, then shuts the physics bridge down over the
// shutdown signal. Idempotent.
func (c *Context) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.scene.Close()
	c.signals.Shutdown.Publish(struct{}{})
	c.log.Info("engine context closed", zap.Uint64("frames", c.frames))
}

// Stats returns tick timing statistics
func (c *Context) Stats() Stats {
	s := Stats{
		Frames:    c.frames,
		LastTick:  c.lastTick,
		MaxTick:   c.maxTick,
		TotalTick: c.totalTick,
	}
	if c.frames > 0 {
		s.MinTick = c.minTick
		s.AvgTick = c.totalTick / time.Duration(c.frames)
	}
	return s
}
