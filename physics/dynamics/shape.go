package dynamics

// Bounds is an axis-aligned box in world or shape-local space
type Bounds struct {
	Min, Max Vector3
}

// Extend returns the box grown to contain p
func (b Bounds) Extend(p Vector3) Bounds {
	if p.X < b.Min.X {
		b.Min.X = p.X
	}
	if p.Y < b.Min.Y {
		b.Min.Y = p.Y
	}
	if p.Z < b.Min.Z {
		b.Min.Z = p.Z
	}
	if p.X > b.Max.X {
		b.Max.X = p.X
	}
	if p.Y > b.Max.Y {
		b.Max.Y = p.Y
	}
	if p.Z > b.Max.Z {
		b.Max.Z = p.Z
	}
	return b
}

// Shape is a convex point-cloud collision shape. The world only consumes its
// local bounds; hull quality is the caller's concern.
type Shape struct {
	points []Vector3
	bounds Bounds
}

// NewConvexShape builds a shape over the given point cloud. An empty cloud
// yields a degenerate point shape at the origin.
func NewConvexShape(points []Vector3) *Shape {
	s := &Shape{points: make([]Vector3, len(points))}
	copy(s.points, points)
	if len(points) > 0 {
		s.bounds = Bounds{Min: points[0], Max: points[0]}
		for _, p := range points[1:] {
			s.bounds = s.bounds.Extend(p)
		}
	}
	return s
}

// Points returns a copy of the shape's point cloud
func (s *Shape) Points() []Vector3 {
	out := make([]Vector3, len(s.points))
	copy(out, s.points)
	return out
}

// LocalBounds returns the shape-local bounding box
func (s *Shape) LocalBounds() Bounds {
	return s.bounds
}
