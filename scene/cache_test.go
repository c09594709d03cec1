package scene_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/vane/scene"
)

func TestComponentsNeverNil(t *testing.T) {
	s := newTestScene()

	tags := scene.Components[*Tag](s)
	require.NotNil(t, tags)
	assert.Empty(t, tags)

	// unregistered kinds query fine, they just match nothing
	loners := scene.Components[*Loner](s)
	require.NotNil(t, loners)
	assert.Empty(t, loners)
}

func TestComponentsByConcreteKind(t *testing.T) {
	s := newTestScene()

	a := s.Spawn("a")
	s.Spawn("b")
	c := s.Spawn("c")
	require.NoError(t, s.Attach(a, &Tag{Label: "a"}))
	require.NoError(t, s.Attach(c, &Tag{Label: "c"}))

	tags := scene.Components[*Tag](s)
	require.Len(t, tags, 2)
	assert.Equal(t, "a", tags[0].Label)
	assert.Equal(t, "c", tags[1].Label)
}

func TestComponentsByCapability(t *testing.T) {
	s := newTestScene()

	e1 := s.Spawn("mesh")
	e2 := s.Spawn("board")
	e3 := s.Spawn("probe")
	require.NoError(t, s.Attach(e1, &scene.MeshRenderer{Mesh: "cube"}))
	require.NoError(t, s.Attach(e2, &Billboard{W: 2, H: 1}))
	require.NoError(t, s.Attach(e3, &Probe{}))

	rs := scene.Components[scene.Renderable](s)
	require.Len(t, rs, 3)
	assert.IsType(t, &scene.MeshRenderer{}, rs[0])
	assert.IsType(t, &Billboard{}, rs[1])
	assert.IsType(t, &Probe{}, rs[2])

	// Probe shows up under every capability it implements, once each
	bs := scene.Components[scene.Behaviour](s)
	require.Len(t, bs, 1)
	assert.IsType(t, &Probe{}, bs[0])

	ps := scene.Components[*Probe](s)
	assert.Len(t, ps, 1)
}

func TestComponentsAttachOrderWithinEntity(t *testing.T) {
	s := newTestScene()
	e := s.Spawn("stacked")
	require.NoError(t, s.Attach(e, &scene.MeshRenderer{Mesh: "cube"}))
	require.NoError(t, s.Attach(e, &Billboard{W: 1, H: 1}))

	rs := scene.Components[scene.Renderable](s)
	require.Len(t, rs, 2)
	assert.IsType(t, &scene.MeshRenderer{}, rs[0])
	assert.IsType(t, &Billboard{}, rs[1])
}

func TestComponentsFilterDisabledAndInactive(t *testing.T) {
	s := newTestScene()

	e1 := s.Spawn("one")
	e2 := s.Spawn("two")
	t1 := &Tag{Label: "one"}
	t2 := &Tag{Label: "two"}
	require.NoError(t, s.Attach(e1, t1))
	require.NoError(t, s.Attach(e2, t2))

	t1.SetEnabled(false)
	tags := scene.Components[*Tag](s)
	require.Len(t, tags, 1)
	assert.Equal(t, "two", tags[0].Label)

	s.SetEntityActive(e2, false)
	assert.Empty(t, scene.Components[*Tag](s))

	all := scene.Components[*Tag](s, scene.IncludeInactive())
	assert.Len(t, all, 2)

	t1.SetEnabled(true)
	s.SetEntityActive(e2, true)
	assert.Len(t, scene.Components[*Tag](s), 2)
}

func TestComponentsOrderIndependentOfQueryOrder(t *testing.T) {
	s := newTestScene()
	e1 := s.Spawn("one")
	e2 := s.Spawn("two")
	require.NoError(t, s.Attach(e1, &scene.MeshRenderer{Mesh: "m"}))
	require.NoError(t, s.Attach(e1, &Tag{Label: "one"}))
	require.NoError(t, s.Attach(e2, &Billboard{W: 1, H: 1}))

	r1 := scene.Components[scene.Renderable](s)
	g1 := scene.Components[*Tag](s)

	s.InvalidateCache()

	// asking in the opposite order after a rebuild must not change results
	g2 := scene.Components[*Tag](s)
	r2 := scene.Components[scene.Renderable](s)

	assert.Equal(t, g1, g2)
	assert.Equal(t, r1, r2)
}

func TestComponentsSnapshotSurvivesStructuralChange(t *testing.T) {
	s := newTestScene()

	before := scene.Components[*scene.Light](s)
	require.Len(t, before, 1)

	var lightOwner scene.EntityID
	for _, id := range s.EntityIDs() {
		if _, ok := scene.ComponentOn[*scene.Light](s, id); ok {
			lightOwner = id
		}
	}
	require.NotEqual(t, scene.NoEntity, lightOwner)
	s.Destroy(lightOwner)

	// the slice handed out earlier keeps its contents
	assert.Len(t, before, 1)
	assert.NotNil(t, before[0])

	assert.Empty(t, scene.Components[*scene.Light](s))
}

func TestComponentsForceRefresh(t *testing.T) {
	s := newTestScene()
	e := s.Spawn("e")
	require.NoError(t, s.Attach(e, &Tag{Label: "x"}))

	plain := scene.Components[*Tag](s)
	forced := scene.Components[*Tag](s, scene.ForceRefresh())
	assert.Equal(t, plain, forced)
}
