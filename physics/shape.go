package physics

import (
	"github.com/plus3/vane/physics/dynamics"
	"github.com/plus3/vane/vmath"
)

const (
	// hullMaxVertices bounds the sampled hull size handed to the world
	hullMaxVertices = 7
	// hullMinThickness is the smallest extent a hull may have on any axis
	hullMinThickness = 0.1
)

// NewConvexHullShape builds a world collision shape from an arbitrary point
// cloud: the cloud is sampled down to at most 7 representative vertices,
// extruded to a minimum thickness of 0.1 on every degenerate axis, and
// recentered so the shape-local origin sits at the cloud's center of mass.
// Flat geometry (a ground quad, a wall) therefore always reaches the world
// as a solid with volume.
func NewConvexHullShape(points []vmath.Vec3) *dynamics.Shape {
	native := make([]dynamics.Vector3, len(points))
	for i, p := range points {
		native[i] = toVector3(p)
	}
	sampled := sampleHull(native, hullMaxVertices)
	solid := ensureThickness(sampled, hullMinThickness)
	return dynamics.NewConvexShape(recenter(solid))
}

// sampleHull reduces the cloud to at most max points by farthest-point
// sampling: seed with the point farthest from the centroid, then repeatedly
// take the point farthest from everything selected so far.
func sampleHull(points []dynamics.Vector3, max int) []dynamics.Vector3 {
	if len(points) <= max {
		out := make([]dynamics.Vector3, len(points))
		copy(out, points)
		return out
	}

	centroid := mean(points)
	seed, best := 0, float32(-1)
	for i, p := range points {
		if d := p.Sub(centroid).Dot(p.Sub(centroid)); d > best {
			seed, best = i, d
		}
	}

	selected := make([]dynamics.Vector3, 0, max)
	selected = append(selected, points[seed])
	taken := map[int]bool{seed: true}

	for len(selected) < max {
		next, far := -1, float32(-1)
		for i, p := range points {
			if taken[i] {
				continue
			}
			near := float32(0)
			for j, s := range selected {
				d := p.Sub(s).Dot(p.Sub(s))
				if j == 0 || d < near {
					near = d
				}
			}
			if near > far {
				next, far = i, near
			}
		}
		if next < 0 {
			break
		}
		selected = append(selected, points[next])
		taken[next] = true
	}
	return selected
}

// ensureThickness extrudes the cloud along every axis whose extent falls
// below min: the entire current set is duplicated twice, shifted by half the
// minimum in each direction along that axis, so degenerate geometry gains
// volume on all three axes.
func ensureThickness(points []dynamics.Vector3, min float32) []dynamics.Vector3 {
	if len(points) == 0 {
		return points
	}
	bounds := dynamics.Bounds{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		bounds = bounds.Extend(p)
	}
	extent := bounds.Max.Sub(bounds.Min)

	out := points
	for _, axis := range []struct {
		size  float32
		shift dynamics.Vector3
	}{
		{extent.X, dynamics.Vector3{X: min / 2}},
		{extent.Y, dynamics.Vector3{Y: min / 2}},
		{extent.Z, dynamics.Vector3{Z: min / 2}},
	} {
		if axis.size >= min {
			continue
		}
		grown := make([]dynamics.Vector3, 0, len(out)*3)
		grown = append(grown, out...)
		for _, p := range out {
			grown = append(grown, p.Add(axis.shift), p.Sub(axis.shift))
		}
		out = grown
	}
	return out
}

// recenter shifts the cloud so its mean lands on the origin
func recenter(points []dynamics.Vector3) []dynamics.Vector3 {
	if len(points) == 0 {
		return points
	}
	center := mean(points)
	out := make([]dynamics.Vector3, len(points))
	for i, p := range points {
		out[i] = p.Sub(center)
	}
	return out
}

func mean(points []dynamics.Vector3) dynamics.Vector3 {
	var sum dynamics.Vector3
	for _, p := range points {
		sum = sum.Add(p)
	}
	return sum.Scale(1 / float32(len(points)))
}
