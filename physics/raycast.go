package physics

import (
	"github.com/plus3/vane/physics/dynamics"
	"github.com/plus3/vane/scene"
	"github.com/plus3/vane/vmath"
)

// DefaultRayDistance is used when a Ray carries no max distance
const DefaultRayDistance = 1000.0

// Ray is a world-space ray query. Direction need not be unit length; a
// MaxDistance of zero or below selects DefaultRayDistance.
type Ray struct {
	Origin      vmath.Vec3
	Direction   vmath.Vec3
	MaxDistance float64
}

// Raycaster resolves spatial queries against one world back to listener
// identities through the tag each registered body carries.
type Raycaster struct {
	world *dynamics.World
}

func newRaycaster(world *dynamics.World) *Raycaster {
	return &Raycaster{world: world}
}

// Cast returns the identity of the nearest registered body the ray hits, or
// NoEntity for a miss, an empty world, or a hit on an untagged body.
func (r *Raycaster) Cast(ray Ray) scene.EntityID {
	if r == nil || r.world == nil {
		return scene.NoEntity
	}
	maxDist := ray.MaxDistance
	if maxDist <= 0 {
		maxDist = DefaultRayDistance
	}
	hit, ok := r.world.RayClosest(toVector3(ray.Origin), toVector3(ray.Direction), float32(maxDist))
	if !ok {
		return scene.NoEntity
	}
	return ResolveProxy(hit.Proxy)
}

// ResolveProxy maps a broad-phase proxy to the listener identity tagged on
// its owning body. A nil proxy, a bodiless proxy, or a body registered
// outside the bridge resolves to NoEntity, never a panic.
func ResolveProxy(p *dynamics.Proxy) scene.EntityID {
	if p == nil {
		return scene.NoEntity
	}
	body := p.Body()
	if body == nil {
		return scene.NoEntity
	}
	id, ok := body.UserData().(scene.EntityID)
	if !ok {
		return scene.NoEntity
	}
	return id
}
