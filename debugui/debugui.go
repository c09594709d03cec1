// Package debugui renders an immediate-mode debug overlay for a running
// engine context: a scene browser with filtering and pagination, a component
// inspector driven by cached reflection, and a stats panel for frame and
// physics timings. The overlay is a regular renderer system; hosts install it
// once and toggle visibility at runtime.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/vane/engine"
	"github.com/plus3/vane/scene"
)

// Overlay owns the debug panels and draws them as a single renderer system.
// The inspector follows the browser's selection.
type Overlay struct {
	ctx       *engine.Context
	browser   *SceneBrowser
	inspector *Inspector
	stats     *PhysicsStats

	visible bool
}

// NewOverlay builds an overlay for ctx with default panel settings. It does
// not register anything; use Install for that.
func NewOverlay(ctx *engine.Context) *Overlay {
	return &Overlay{
		ctx:       ctx,
		browser:   NewSceneBrowser(100),
		inspector: NewInspector(),
		stats:     NewPhysicsStats(120),
		visible:   true,
	}
}

// Install builds an overlay for ctx and registers it on the context's system
// registry so it renders with every frame.
func Install(ctx *engine.Context) (*Overlay, error) {
	o := NewOverlay(ctx)
	if err := ctx.Systems().Add(o); err != nil {
		return nil, err
	}
	return o, nil
}

// Name implements system.System
func (o *Overlay) Name() string { return "debug-overlay" }

// RenderPriority implements system.Renderer; the overlay draws after the
// world so the panels sit on top.
func (o *Overlay) RenderPriority() int { return 1000 }

// Visible reports whether the panels currently draw
func (o *Overlay) Visible() bool { return o.visible }

// SetVisible shows or hides all panels
func (o *Overlay) SetVisible(on bool) { o.visible = on }

// Toggle flips visibility and returns the new state
func (o *Overlay) Toggle() bool {
	o.visible = !o.visible
	return o.visible
}

// Browser returns the scene browser panel, e.g. to preselect an entity
func (o *Overlay) Browser() *SceneBrowser { return o.browser }

// Render implements system.Renderer. It must run between the host backend's
// BeginFrame and EndFrame so an ImGui frame is open.
func (o *Overlay) Render(s *scene.Scene) error {
	if !o.visible {
		return nil
	}
	o.browser.Render(s)
	o.inspector.Render(s, o.browser.Selected())
	o.stats.Render(o.ctx)
	return nil
}

// WantCapture reports whether the UI is consuming mouse or keyboard input
// this frame. Hosts should suppress world interaction for captured devices,
// otherwise clicks on a panel also hit the scene behind it.
func WantCapture() (mouse, keyboard bool) {
	io := imgui.CurrentIO()
	return io.WantCaptureMouse(), io.WantCaptureKeyboard()
}
