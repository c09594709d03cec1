package dynamics

// Hit is the nearest broad-phase intersection found by RayClosest
type Hit struct {
	Proxy  *Proxy
	Normal Vector3
	// Fraction is the hit distance as a fraction of the ray's max distance
	Fraction float32
}

// RayClosest casts a ray from origin along dir (any length, normalized
// internally) up to maxDist and returns the nearest proxy hit. Bodies without
// shapes are skipped. A degenerate direction, an empty world, or no
// intersection reports no hit.
func (w *World) RayClosest(origin, dir Vector3, maxDist float32) (Hit, bool) {
	d := dir.Normalize()
	if d == (Vector3{}) || maxDist <= 0 {
		return Hit{}, false
	}

	var best Hit
	found := false
	for _, p := range w.proxies {
		if len(p.body.shapes) == 0 {
			continue
		}
		t, n, ok := rayBox(origin, d, p.bounds, maxDist)
		if !ok {
			continue
		}
		f := t / maxDist
		if !found || f < best.Fraction {
			best = Hit{Proxy: p, Normal: n, Fraction: f}
			found = true
		}
	}
	return best, found
}

// rayBox slab-tests the ray against b over [0, maxT]. The returned normal is
// the entry face normal; a ray starting inside the box hits at t=0 with a
// zero normal.
func rayBox(o, d Vector3, b Bounds, maxT float32) (float32, Vector3, bool) {
	tmin := float32(0)
	tmax := maxT
	var normal Vector3

	axes := [3]struct {
		o, d, min, max float32
		n              Vector3
	}{
		{o.X, d.X, b.Min.X, b.Max.X, Vector3{X: 1}},
		{o.Y, d.Y, b.Min.Y, b.Max.Y, Vector3{Y: 1}},
		{o.Z, d.Z, b.Min.Z, b.Max.Z, Vector3{Z: 1}},
	}
	for _, a := range axes {
		if a.d == 0 {
			if a.o < a.min || a.o > a.max {
				return 0, Vector3{}, false
			}
			continue
		}
		inv := 1 / a.d
		t1 := (a.min - a.o) * inv
		t2 := (a.max - a.o) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
			normal = a.n.Scale(-sign(a.d))
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return 0, Vector3{}, false
		}
	}
	return tmin, normal, true
}

func sign(f float32) float32 {
	if f < 0 {
		return -1
	}
	return 1
}
