package scene

import "reflect"

// componentCache is the type-indexed view over all member components.
// Buckets are keyed by kind/capability ID; each component appears under its
// concrete kind and under every capability its type implements, so a query
// for a capability returns all implementations without scanning.
//
// Only membership is cached. Enabled and active flags are filtered at query
// time, so flipping them never costs a rebuild.
type componentCache struct {
	buckets map[uint64][]Component
	dirty   bool
}

// InvalidateCache marks the component cache stale. The next query rebuilds
// it; the current buckets are never mutated in place, so slices handed out
// earlier stay structurally intact.
func (s *Scene) InvalidateCache() {
	s.cache.dirty = true
}

func (s *Scene) rebuildCache() {
	buckets := make(map[uint64][]Component, len(s.cache.buckets))
	for _, id := range s.order {
		sl := s.slot(id)
		if sl == nil {
			continue
		}
		for _, c := range sl.components {
			chain, ok := s.reg.chainFor(reflect.TypeOf(c))
			if !ok {
				continue
			}
			for _, key := range chain {
				buckets[key] = append(buckets[key], c)
			}
		}
	}
	s.cache.buckets = buckets
	s.cache.dirty = false
}

type queryConfig struct {
	includeInactive bool
	forceRefresh    bool
}

// QueryOption adjusts a Components query
type QueryOption func(*queryConfig)

// IncludeInactive returns disabled components and components on inactive
// entities as well.
func IncludeInactive() QueryOption {
	return func(c *queryConfig) { c.includeInactive = true }
}

// ForceRefresh rebuilds the cache before answering, even if it is not dirty
func ForceRefresh() QueryOption {
	return func(c *queryConfig) { c.forceRefresh = true }
}

// Components returns every member component matching T, where T is either a
// registered concrete kind (pointer type) or a registered capability
// interface. Results are ordered by scene order, then attach order. The
// result is empty, never nil, for types with no instances, including
// unregistered ones.
func Components[T any](s *Scene, opts ...QueryOption) []T {
	var cfg queryConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.forceRefresh || s.cache.dirty {
		s.rebuildCache()
	}

	key, ok := s.reg.queryKey(reflect.TypeOf((*T)(nil)).Elem())
	if !ok {
		return []T{}
	}
	bucket := s.cache.buckets[key]

	out := make([]T, 0, len(bucket))
	for _, c := range bucket {
		if !cfg.includeInactive {
			if !c.Enabled() {
				continue
			}
			sl := s.slot(c.Owner())
			if sl == nil || !sl.active {
				continue
			}
		}
		if v, ok := c.(T); ok {
			out = append(out, v)
		}
	}
	return out
}
