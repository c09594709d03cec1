package scene_test

import (
	"errors"

	"go.uber.org/zap"

	"github.com/plus3/vane/scene"
	"github.com/plus3/vane/vmath"
)

// Shared test components used across the scene package tests.

type Tag struct {
	scene.ComponentBase
	Label string
}

type Spin struct {
	scene.ComponentBase
	Speed   float64
	Turned  float64
	Updates int
}

func (s *Spin) Update(_ *scene.Scene, _ scene.EntityID, dt float64) {
	s.Updates++
	s.Turned += s.Speed * dt
}

// Despawner destroys Target (or its own entity when Target is unset) every
// update, exercising deferred destruction.
type Despawner struct {
	scene.ComponentBase
	Target scene.EntityID
	Ran    int
}

func (d *Despawner) Update(s *scene.Scene, owner scene.EntityID, _ float64) {
	d.Ran++
	target := d.Target
	if target == scene.NoEntity {
		target = owner
	}
	s.Destroy(target)
}

// Spawner creates one entity from inside the behaviour pass
type Spawner struct {
	scene.ComponentBase
	Spawned scene.EntityID
}

func (sp *Spawner) Update(s *scene.Scene, _ scene.EntityID, _ float64) {
	if sp.Spawned == scene.NoEntity {
		sp.Spawned = s.Spawn("spawned")
	}
}

// Hooked records its lifecycle transitions and can refuse attachment
type Hooked struct {
	scene.ComponentBase
	Log        *[]string
	FailAttach bool
}

func (h *Hooked) OnAttach(_ *scene.Scene, _ scene.EntityID) error {
	if h.FailAttach {
		return errors.New("refused")
	}
	*h.Log = append(*h.Log, "attach")
	return nil
}

func (h *Hooked) OnDetach(_ *scene.Scene, _ scene.EntityID) {
	*h.Log = append(*h.Log, "detach")
}

// Billboard is a second Renderable implementation next to MeshRenderer
type Billboard struct {
	scene.ComponentBase
	W, H float64
}

func (b *Billboard) Bounds() vmath.AABB {
	return vmath.AABB{
		Min: vmath.Vec3{X: -b.W / 2, Y: -b.H / 2},
		Max: vmath.Vec3{X: b.W / 2, Y: b.H / 2},
	}
}

// Probe implements both Behaviour and Renderable
type Probe struct {
	scene.ComponentBase
	Updates int
}

func (p *Probe) Update(_ *scene.Scene, _ scene.EntityID, _ float64) { p.Updates++ }

func (p *Probe) Bounds() vmath.AABB {
	return vmath.AABB{Min: vmath.Vec3{X: -1, Y: -1, Z: -1}, Max: vmath.Vec3{X: 1, Y: 1, Z: 1}}
}

// Loner is deliberately never registered
type Loner struct {
	scene.ComponentBase
}

func newTestRegistry() *scene.TypeRegistry {
	reg := scene.NewTypeRegistry()
	scene.RegisterBuiltin(reg)
	scene.RegisterKind[Tag](reg)
	scene.RegisterKind[Spin](reg)
	scene.RegisterKind[Despawner](reg)
	scene.RegisterKind[Spawner](reg)
	scene.RegisterKind[Hooked](reg)
	scene.RegisterKind[Billboard](reg)
	scene.RegisterKind[Probe](reg)
	return reg
}

func newTestScene() *scene.Scene {
	return scene.NewScene("test", newTestRegistry(), zap.NewNop())
}
